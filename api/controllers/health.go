package controllers

import (
	"net/http"

	"github.com/souqhub/storefront/api/responses"
	"github.com/souqhub/storefront/pkg/config"
	"github.com/souqhub/storefront/pkg/db"
	"github.com/souqhub/storefront/pkg/logger"
	"github.com/souqhub/storefront/pkg/redis"
)

const envHeader = "X-SouqHub-Env"

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the catalog database and the snapshot store. A nil
// redis pinger means the service is running on the in-memory fallback and
// still reports ready, in degraded mode.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		ctx := r.Context()

		checks := map[string]string{"db": "ok", "snapshots": "ok"}
		healthy := true

		if dbP == nil {
			checks["db"] = "unconfigured"
			healthy = false
		} else if err := dbP.Ping(ctx); err != nil {
			checks["db"] = "down"
			healthy = false
			if logg != nil {
				logg.Error(ctx, "health: database ping failed", err)
			}
		}

		if redisP == nil {
			checks["snapshots"] = "memory"
		} else if err := redisP.Ping(ctx); err != nil {
			checks["snapshots"] = "down"
			healthy = false
			if logg != nil {
				logg.Error(ctx, "health: redis ping failed", err)
			}
		}

		status := http.StatusOK
		checks["status"] = "ready"
		if !healthy {
			status = http.StatusServiceUnavailable
			checks["status"] = "degraded"
		}
		responses.WriteSuccessStatus(w, status, checks)
	}
}
