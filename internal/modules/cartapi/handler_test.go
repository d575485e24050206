package cartapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/fayzdev/fayz-go/internal/cart"
	"github.com/fayzdev/fayz-go/internal/menu"
	"github.com/fayzdev/fayz-go/internal/metrics"
	"github.com/fayzdev/fayz-go/internal/notify"
	"github.com/fayzdev/fayz-go/internal/storage"
)

func newTestRouter(t *testing.T) (*gin.Engine, *notify.Center) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := storage.NewTestDB()
	if err != nil {
		t.Fatalf("NewTestDB() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	m := metrics.New(prometheus.NewRegistry())
	menuSvc := menu.NewService(db, m, 10)
	if err := menuSvc.Seed(context.Background()); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	carts := cart.NewManager(db, m, 0.085)
	notifier := notify.NewCenter(time.Minute, m)
	handler := NewHandler(carts, menuSvc, notifier, m)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("session_id", "test-session")
	})
	handler.RegisterRoutes(router.Group("/api"))
	return router, notifier
}

type cartResponse struct {
	Cart struct {
		Empty           bool    `json:"empty"`
		ItemCount       int     `json:"item_count"`
		Subtotal        float64 `json:"subtotal"`
		GrandTotal      float64 `json:"grand_total"`
		CheckoutEnabled bool    `json:"checkout_enabled"`
		Rows            []struct {
			Name     string `json:"name"`
			Quantity int    `json:"quantity"`
		} `json:"rows"`
	} `json:"cart"`
}

func doRequest(t *testing.T, router *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, cartResponse) {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var resp cartResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	return rec, resp
}

func TestAddItemUsesCatalogPrice(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)
	rec, resp := doRequest(t, router, http.MethodPost, "/api/cart/items",
		`{"name":"Margherita Pizza","quantity":2}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if resp.Cart.Subtotal != 24.00 {
		t.Errorf("Subtotal = %v, want 24.00 from the catalog price", resp.Cart.Subtotal)
	}
	if resp.Cart.ItemCount != 2 {
		t.Errorf("ItemCount = %d, want 2", resp.Cart.ItemCount)
	}
}

func TestAddUnknownItem(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)
	rec, _ := doRequest(t, router, http.MethodPost, "/api/cart/items",
		`{"name":"Unicorn Steak"}`)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestAddDefaultsQuantityToOne(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)
	rec, resp := doRequest(t, router, http.MethodPost, "/api/cart/items",
		`{"name":"Plov"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if resp.Cart.ItemCount != 1 {
		t.Errorf("ItemCount = %d, want 1", resp.Cart.ItemCount)
	}
}

func TestUpdateQuantityZeroRemoves(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)
	doRequest(t, router, http.MethodPost, "/api/cart/items", `{"name":"Plov","quantity":2}`)

	rec, resp := doRequest(t, router, http.MethodPatch, "/api/cart/items/Plov", `{"quantity":0}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !resp.Cart.Empty {
		t.Error("cart should be empty after setting quantity to zero")
	}
}

func TestRemoveAndClear(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)
	doRequest(t, router, http.MethodPost, "/api/cart/items", `{"name":"Plov","quantity":1}`)
	doRequest(t, router, http.MethodPost, "/api/cart/items", `{"name":"Lagman","quantity":1}`)

	rec, resp := doRequest(t, router, http.MethodDelete, "/api/cart/items/Plov", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if len(resp.Cart.Rows) != 1 || resp.Cart.Rows[0].Name != "Lagman" {
		t.Errorf("Rows = %+v, want only Lagman", resp.Cart.Rows)
	}

	rec, resp = doRequest(t, router, http.MethodDelete, "/api/cart", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !resp.Cart.Empty {
		t.Error("cart should be empty after clear")
	}
}

func TestClearEmitsInfoNotification(t *testing.T) {
	t.Parallel()

	router, notifier := newTestRouter(t)
	doRequest(t, router, http.MethodPost, "/api/cart/items", `{"name":"Plov","quantity":1}`)
	before := len(notifier.Active("test-session"))

	rec, resp := doRequest(t, router, http.MethodDelete, "/api/cart", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !resp.Cart.Empty {
		t.Error("cart should be empty after clear")
	}

	active := notifier.Active("test-session")
	if len(active) != before+1 {
		t.Fatalf("active notifications = %d, want %d after clear", len(active), before+1)
	}
	last := active[len(active)-1]
	if last.Kind != notify.KindInfo {
		t.Errorf("notification kind = %q, want %q", last.Kind, notify.KindInfo)
	}
}

func TestGetCartEmpty(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)
	rec, resp := doRequest(t, router, http.MethodGet, "/api/cart", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !resp.Cart.Empty || resp.Cart.CheckoutEnabled {
		t.Error("fresh cart should be empty with checkout disabled")
	}
}
