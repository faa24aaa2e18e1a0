package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/depiwhite/storefront/internal/auth"
	"github.com/depiwhite/storefront/internal/catalog"
	"github.com/depiwhite/storefront/internal/order"
)

func adminSession() *auth.Session {
	return &auth.Session{
		Token:     "admin-token",
		UserID:    uuid.Must(uuid.NewV4()),
		Email:     "admin@example.com",
		AdminHint: true,
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func allowingVerifier() *mockVerifier {
	return &mockVerifier{
		verifyFunc: func(ctx context.Context, token string) (*auth.Session, error) {
			return adminSession(), nil
		},
	}
}

func newAdminRouter(guard AdminVerifier, catalogSvc catalog.Service, orderSvc order.Service) *chi.Mux {
	router := chi.NewRouter()
	NewAdminHandler(guard, catalogSvc, orderSvc).RegisterRoutes(router)
	return router
}

func doRequest(t *testing.T, router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.AddCookie(&http.Cookie{Name: "session_token", Value: "admin-token"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// Admin status shown at page load can be revoked before the click. Every
// privileged handler must re-verify and refuse without touching the
// services.
func TestAdminHandler_RevokedAdminIsRejected(t *testing.T) {
	revokedVerifier := &mockVerifier{
		verifyFunc: func(ctx context.Context, token string) (*auth.Session, error) {
			return nil, auth.ErrNotAdmin
		},
	}
	catalogSvc := &mockCatalogService{
		updatePriceFunc: func(ctx context.Context, newPrice decimal.Decimal) error { return nil },
	}
	orderSvc := &mockOrderService{
		listFunc: func(ctx context.Context) ([]order.Order, error) { return nil, nil },
		updateStatusFunc: func(ctx context.Context, id uuid.UUID, field order.StatusField, value string) error {
			return nil
		},
	}
	router := newAdminRouter(revokedVerifier, catalogSvc, orderSvc)

	requests := []struct {
		method string
		target string
		body   string
	}{
		{http.MethodGet, "/admin/orders", ""},
		{http.MethodPut, "/admin/product/price", `{"price": 59.90}`},
		{http.MethodPatch, "/admin/orders/550e8400-e29b-41d4-a716-446655440000/status", `{"field":"payment_status","value":"paid"}`},
	}

	for _, tt := range requests {
		t.Run(tt.method+"_"+tt.target, func(t *testing.T) {
			rec := doRequest(t, router, tt.method, tt.target, tt.body)

			assert.Equal(t, http.StatusForbidden, rec.Code)
			assert.Contains(t, rec.Body.String(), `"redirect":"/"`)
		})
	}

	assert.Equal(t, len(requests), revokedVerifier.verifyCalls)
	assert.Equal(t, 0, catalogSvc.updatePriceCalls)
	assert.Equal(t, 0, orderSvc.listCalls)
	assert.Equal(t, 0, orderSvc.updateStatusCalls)
}

func TestAdminHandler_UpdatePrice(t *testing.T) {
	tests := []struct {
		name            string
		body            string
		updatePriceFunc func(ctx context.Context, newPrice decimal.Decimal) error
		wantStatus      int
		wantSvcCalls    int
	}{
		{
			name:            "valid_price",
			body:            `{"price": 59.90}`,
			updatePriceFunc: func(ctx context.Context, newPrice decimal.Decimal) error { return nil },
			wantStatus:      http.StatusOK,
			wantSvcCalls:    1,
		},
		{
			name: "non_positive_price",
			body: `{"price": -1}`,
			updatePriceFunc: func(ctx context.Context, newPrice decimal.Decimal) error {
				return catalog.ErrInvalidPrice
			},
			wantStatus:   http.StatusBadRequest,
			wantSvcCalls: 1,
		},
		{
			name:         "non_numeric_price",
			body:         `{"price": "abc"}`,
			wantStatus:   http.StatusBadRequest,
			wantSvcCalls: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalogSvc := &mockCatalogService{updatePriceFunc: tt.updatePriceFunc}
			router := newAdminRouter(allowingVerifier(), catalogSvc, &mockOrderService{})

			rec := doRequest(t, router, http.MethodPut, "/admin/product/price", tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantSvcCalls, catalogSvc.updatePriceCalls)
		})
	}
}

func TestAdminHandler_UpdateOrderStatus_InvalidValue(t *testing.T) {
	orderSvc := &mockOrderService{
		updateStatusFunc: func(ctx context.Context, id uuid.UUID, field order.StatusField, value string) error {
			return order.ErrInvalidStatus
		},
	}
	router := newAdminRouter(allowingVerifier(), &mockCatalogService{}, orderSvc)

	rec := doRequest(t, router, http.MethodPatch,
		"/admin/orders/550e8400-e29b-41d4-a716-446655440000/status",
		`{"field":"payment_status","value":"refunded"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, 1, orderSvc.updateStatusCalls)
}

func TestAdminHandler_UpdateOrderStatus_ReturnsUpdatedOrder(t *testing.T) {
	orderID := uuid.Must(uuid.FromString("550e8400-e29b-41d4-a716-446655440000"))
	orderSvc := &mockOrderService{
		updateStatusFunc: func(ctx context.Context, id uuid.UUID, field order.StatusField, value string) error {
			return nil
		},
		getByIDFunc: func(ctx context.Context, id uuid.UUID) (*order.Order, error) {
			return &order.Order{
				ID:                id,
				TotalAmount:       decimal.RequireFromString("49.99"),
				PaymentStatus:     order.PaymentPaid,
				FulfillmentStatus: order.FulfillmentUnfulfilled,
			}, nil
		},
	}
	router := newAdminRouter(allowingVerifier(), &mockCatalogService{}, orderSvc)

	rec := doRequest(t, router, http.MethodPatch,
		"/admin/orders/"+orderID.String()+"/status",
		`{"field":"payment_status","value":"paid"}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp OrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, orderID, resp.ID)
	assert.Equal(t, "paid", resp.PaymentStatus)
}

func TestAdminHandler_ListOrders(t *testing.T) {
	newest := uuid.Must(uuid.NewV4())
	oldest := uuid.Must(uuid.NewV4())
	orderSvc := &mockOrderService{
		listFunc: func(ctx context.Context) ([]order.Order, error) {
			return []order.Order{
				{ID: newest, TotalAmount: decimal.RequireFromString("59.90"), CreatedAt: time.Now()},
				{ID: oldest, TotalAmount: decimal.RequireFromString("49.99"), CreatedAt: time.Now().Add(-time.Hour)},
			}, nil
		},
	}
	router := newAdminRouter(allowingVerifier(), &mockCatalogService{}, orderSvc)

	rec := doRequest(t, router, http.MethodGet, "/admin/orders", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var resp []OrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.Equal(t, newest, resp[0].ID)
	assert.Equal(t, oldest, resp[1].ID)
}
