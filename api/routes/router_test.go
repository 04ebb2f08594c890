package routes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/souqhub/storefront/api/middleware"
	cartsvc "github.com/souqhub/storefront/internal/cart"
	"github.com/souqhub/storefront/internal/catalog"
	checkoutsvc "github.com/souqhub/storefront/internal/checkout"
	"github.com/souqhub/storefront/pkg/config"
	"github.com/souqhub/storefront/pkg/logger"
	"github.com/souqhub/storefront/pkg/metrics"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		Cart: config.CartConfig{
			SnapshotTTL: time.Hour,
			Currency:    "AED",
		},
		Checkout: config.CheckoutConfig{
			CaptureDelay:               0,
			ReceiptTTL:                 time.Hour,
			ShippingFlatCents:          2500,
			FreeShippingThresholdCents: 20000,
		},
	}
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	cfg := testConfig()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := catalog.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := catalog.Seed(context.Background(), gdb, logg); err != nil {
		t.Fatalf("seed: %v", err)
	}

	catalogService, err := catalog.NewService(catalog.NewRepository(gdb), cfg.Cart.Currency)
	if err != nil {
		t.Fatalf("catalog service: %v", err)
	}

	registry := prometheus.NewRegistry()
	cartManager, err := cartsvc.NewManager(cartsvc.NewMemoryRepository(), logg, metrics.NewCartMetrics(registry))
	if err != nil {
		t.Fatalf("cart manager: %v", err)
	}

	checkoutService, err := checkoutsvc.NewService(checkoutsvc.NewMemoryReceiptRepository(), cfg.Checkout, cfg.Cart.Currency, logg)
	if err != nil {
		t.Fatalf("checkout service: %v", err)
	}

	return NewRouter(
		cfg,
		logg,
		stubPinger{},
		nil,
		registry,
		metrics.NewHTTPMetrics(registry),
		cartManager,
		catalogService,
		checkoutService,
	)
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter(t)

	live := httptest.NewRecorder()
	router.ServeHTTP(live, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if live.Code != http.StatusOK {
		t.Fatalf("expected 200 for live got %d", live.Code)
	}

	ready := httptest.NewRecorder()
	router.ServeHTTP(ready, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if ready.Code != http.StatusOK {
		t.Fatalf("expected 200 for ready got %d", ready.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/products", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for products got %d", resp.Code)
	}

	scrape := httptest.NewRecorder()
	router.ServeHTTP(scrape, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if scrape.Code != http.StatusOK {
		t.Fatalf("expected 200 for metrics got %d", scrape.Code)
	}
	if !strings.Contains(scrape.Body.String(), "http_requests_total") {
		t.Fatal("expected request counter in scrape output")
	}
}

func TestProductBrowsing(t *testing.T) {
	router := newTestRouter(t)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/products?category=electronics&sort=price-low", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data struct {
			Items []struct {
				Slug string `json:"slug"`
			} `json:"items"`
			Total int64 `json:"total"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Total != 3 || len(envelope.Data.Items) != 3 {
		t.Fatalf("expected 3 electronics products, got %+v", envelope.Data)
	}

	detail := httptest.NewRecorder()
	router.ServeHTTP(detail, httptest.NewRequest(http.MethodGet, "/api/v1/products/"+envelope.Data.Items[0].Slug, nil))
	if detail.Code != http.StatusOK {
		t.Fatalf("expected 200 for detail got %d", detail.Code)
	}

	missing := httptest.NewRecorder()
	router.ServeHTTP(missing, httptest.NewRequest(http.MethodGet, "/api/v1/products/no-such-slug", nil))
	if missing.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown product got %d", missing.Code)
	}
}

func TestCartAndCheckoutFlow(t *testing.T) {
	router := newTestRouter(t)

	// Grab a seeded product.
	browse := httptest.NewRecorder()
	router.ServeHTTP(browse, httptest.NewRequest(http.MethodGet, "/api/v1/products/classic-oxford-shirt", nil))
	if browse.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", browse.Code)
	}
	var productEnvelope struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(browse.Body).Decode(&productEnvelope); err != nil {
		t.Fatalf("decode product: %v", err)
	}

	// First cart request mints a session.
	fetch := httptest.NewRecorder()
	router.ServeHTTP(fetch, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))
	if fetch.Code != http.StatusOK {
		t.Fatalf("expected 200 for cart fetch got %d", fetch.Code)
	}
	session := fetch.Header().Get(middleware.SessionHeader)
	if session == "" {
		t.Fatal("expected minted cart session header")
	}

	addBody := fmt.Sprintf(`{"product_id": %q, "quantity": 2, "selected_variants": {"color": "red", "size": "m"}}`, productEnvelope.Data.ID)
	add := httptest.NewRecorder()
	addReq := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(addBody))
	addReq.Header.Set(middleware.SessionHeader, session)
	router.ServeHTTP(add, addReq)
	if add.Code != http.StatusCreated {
		t.Fatalf("expected 201 for add got %d: %s", add.Code, add.Body.String())
	}

	var cartEnvelope struct {
		Data struct {
			UnitCount     int   `json:"unit_count"`
			SubtotalCents int64 `json:"subtotal_cents"`
		} `json:"data"`
	}
	if err := json.NewDecoder(add.Body).Decode(&cartEnvelope); err != nil {
		t.Fatalf("decode cart: %v", err)
	}
	// Oxford shirt sells at 149.00, so two units come to 298.00.
	if cartEnvelope.Data.UnitCount != 2 || cartEnvelope.Data.SubtotalCents != 29800 {
		t.Fatalf("unexpected cart state: %+v", cartEnvelope.Data)
	}

	checkoutBody := `{
		"full_name": "Sara Ahmed",
		"phone": "+971501234567",
		"city": "Dubai",
		"street": "12 Marina Walk"
	}`
	place := httptest.NewRecorder()
	placeReq := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(checkoutBody))
	placeReq.Header.Set(middleware.SessionHeader, session)
	router.ServeHTTP(place, placeReq)
	if place.Code != http.StatusCreated {
		t.Fatalf("expected 201 for checkout got %d: %s", place.Code, place.Body.String())
	}

	var orderEnvelope struct {
		Data struct {
			OrderID       string `json:"order_id"`
			TotalCents    int64  `json:"total_cents"`
			ShippingCents int64  `json:"shipping_cents"`
		} `json:"data"`
	}
	if err := json.NewDecoder(place.Body).Decode(&orderEnvelope); err != nil {
		t.Fatalf("decode order: %v", err)
	}
	if orderEnvelope.Data.ShippingCents != 0 || orderEnvelope.Data.TotalCents != 29800 {
		t.Fatalf("unexpected order totals: %+v", orderEnvelope.Data)
	}

	// Cart is cleared once the order lands.
	after := httptest.NewRecorder()
	afterReq := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	afterReq.Header.Set(middleware.SessionHeader, session)
	router.ServeHTTP(after, afterReq)
	var afterEnvelope struct {
		Data struct {
			UnitCount int `json:"unit_count"`
		} `json:"data"`
	}
	if err := json.NewDecoder(after.Body).Decode(&afterEnvelope); err != nil {
		t.Fatalf("decode cart: %v", err)
	}
	if afterEnvelope.Data.UnitCount != 0 {
		t.Fatalf("expected empty cart after checkout, got %d units", afterEnvelope.Data.UnitCount)
	}

	// Receipt stays readable for the session.
	order := httptest.NewRecorder()
	orderReq := httptest.NewRequest(http.MethodGet, "/api/v1/orders/"+orderEnvelope.Data.OrderID, nil)
	orderReq.Header.Set(middleware.SessionHeader, session)
	router.ServeHTTP(order, orderReq)
	if order.Code != http.StatusOK {
		t.Fatalf("expected 200 for order detail got %d", order.Code)
	}
}

func TestAddUnknownProductRejected(t *testing.T) {
	router := newTestRouter(t)

	addBody := `{"product_id": "c7f2c0e8-0000-4000-8000-000000000000", "quantity": 1}`
	add := httptest.NewRecorder()
	addReq := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(addBody))
	router.ServeHTTP(add, addReq)
	if add.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown product got %d", add.Code)
	}
}
