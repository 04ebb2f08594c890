package cart

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/souqhub/storefront/api/middleware"
	"github.com/souqhub/storefront/api/responses"
	"github.com/souqhub/storefront/api/validators"
	cartsvc "github.com/souqhub/storefront/internal/cart"
	"github.com/souqhub/storefront/internal/catalog"
	pkgerrors "github.com/souqhub/storefront/pkg/errors"
	"github.com/souqhub/storefront/pkg/logger"
)

func sessionStore(r *http.Request, manager *cartsvc.Manager) (*cartsvc.Store, error) {
	sessionID := middleware.SessionID(r.Context())
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart session missing")
	}
	return manager.ForSession(r.Context(), sessionID), nil
}

// Fetch returns the session's cart with all derived values.
func Fetch(manager *cartsvc.Manager, currency string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := sessionStore(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, viewOf(store, currency))
	}
}

// AddItem resolves the product through the catalog and merges it into the
// cart under its product+variant identity.
func AddItem(manager *cartsvc.Manager, catalogSvc catalog.Service, currency string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if catalogSvc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		store, err := sessionStore(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := uuid.Parse(payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		ref, err := catalogSvc.CartRef(r.Context(), productID, payload.SelectedVariants)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if _, err := store.AddItem(r.Context(), ref, payload.Quantity, payload.SelectedVariants); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, viewOf(store, currency))
	}
}

// UpdateItem sets a line's quantity. Zero and below remove the line.
func UpdateItem(manager *cartsvc.Manager, currency string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := sessionStore(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store.UpdateQuantity(r.Context(), payload.Key, payload.Quantity)
		responses.WriteSuccess(w, viewOf(store, currency))
	}
}

// RemoveItem drops the line named by the key query parameter.
func RemoveItem(manager *cartsvc.Manager, currency string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := sessionStore(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		key := strings.TrimSpace(r.URL.Query().Get("key"))
		if key == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "item key is required").
				WithDetails(map[string]any{"field": "key"}))
			return
		}

		store.RemoveItem(r.Context(), key)
		responses.WriteSuccess(w, viewOf(store, currency))
	}
}

// Clear empties the cart.
func Clear(manager *cartsvc.Manager, currency string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := sessionStore(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store.Clear(r.Context())
		responses.WriteSuccess(w, viewOf(store, currency))
	}
}

// Toggle flips the slide-over flag.
func Toggle(manager *cartsvc.Manager, currency string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := sessionStore(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store.ToggleOpen()
		responses.WriteSuccess(w, viewOf(store, currency))
	}
}

// SetOpen sets the slide-over flag explicitly.
func SetOpen(manager *cartsvc.Manager, currency string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := sessionStore(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload setOpenRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store.SetOpen(payload.Open)
		responses.WriteSuccess(w, viewOf(store, currency))
	}
}
