package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/depiwhite/storefront/internal/auth"
	"github.com/depiwhite/storefront/internal/catalog"
	"github.com/depiwhite/storefront/internal/order"
)

// AdminVerifier is the authorization decision for privileged routes.
// Satisfied by auth.Guard.
type AdminVerifier interface {
	Verify(ctx context.Context, token string) (*auth.Session, error)
}

type UpdatePriceRequest struct {
	Price decimal.Decimal `json:"price"`
}

type UpdateOrderStatusRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

type AdminHandler struct {
	guard      AdminVerifier
	catalogSvc catalog.Service
	orderSvc   order.Service
}

func NewAdminHandler(guard AdminVerifier, catalogSvc catalog.Service, orderSvc order.Service) *AdminHandler {
	return &AdminHandler{
		guard:      guard,
		catalogSvc: catalogSvc,
		orderSvc:   orderSvc,
	}
}

func (h *AdminHandler) RegisterRoutes(router chi.Router) {
	router.Get("/admin/orders", h.handleListOrders)
	router.Get("/admin/product", h.handleGetProduct)
	router.Put("/admin/product/price", h.handleUpdatePrice)
	router.Patch("/admin/orders/{id}/status", h.handleUpdateOrderStatus)
}

// verifyAdmin runs the guard immediately before the operation that calls
// it. Admin status shown at page load may have been revoked since, so
// every handler re-checks; on failure the client is pointed back to "/"
// and nothing is executed.
func (h *AdminHandler) verifyAdmin(w http.ResponseWriter, r *http.Request) *auth.Session {
	session, err := h.guard.Verify(r.Context(), sessionToken(r))
	if err != nil {
		if errors.Is(err, auth.ErrNoSession) || errors.Is(err, auth.ErrNotAdmin) {
			respondWithJSON(w, mapErrorToStatusCode(err), map[string]string{
				"error":    "Admin access required",
				"redirect": "/",
			})
			return nil
		}
		log.Error().Err(err).Msg("Admin verification failed")
		respondWithError(w, http.StatusInternalServerError, "Failed to verify admin access")
		return nil
	}

	return session
}

func (h *AdminHandler) handleListOrders(w http.ResponseWriter, r *http.Request) {
	if h.verifyAdmin(w, r) == nil {
		return
	}

	orders, err := h.orderSvc.List(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list orders via service")
		respondWithError(w, http.StatusInternalServerError, "Failed to list orders")
		return
	}

	responsePayload := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		responsePayload = append(responsePayload, newOrderResponse(&orders[i]))
	}

	respondWithJSON(w, http.StatusOK, responsePayload)
}

func (h *AdminHandler) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	if h.verifyAdmin(w, r) == nil {
		return
	}

	product, err := h.catalogSvc.Get(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to get product via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to get product")
		return
	}

	respondWithJSON(w, http.StatusOK, product)
}

func (h *AdminHandler) handleUpdatePrice(w http.ResponseWriter, r *http.Request) {
	session := h.verifyAdmin(w, r)
	if session == nil {
		return
	}

	var requestPayload UpdatePriceRequest

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&requestPayload); err != nil {
		log.Error().Err(err).Msg("Failed to decode update price request body")
		respondWithError(w, http.StatusBadRequest, "Price must be a valid number")
		return
	}

	if err := h.catalogSvc.UpdatePrice(r.Context(), requestPayload.Price); err != nil {
		clientMessage := "Failed to update price"
		if errors.Is(err, catalog.ErrInvalidPrice) {
			clientMessage = "Price must be a positive number"
		} else {
			log.Error().Err(err).Msg("Failed to update price via service")
		}

		respondWithError(w, mapErrorToStatusCode(err), clientMessage)
		return
	}

	log.Info().Stringer("admin_id", session.UserID).Str("price", requestPayload.Price.String()).Msg("Product price updated")

	respondWithJSON(w, http.StatusOK, map[string]string{"status": "price updated"})
}

func (h *AdminHandler) handleUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	session := h.verifyAdmin(w, r)
	if session == nil {
		return
	}

	idParam := chi.URLParam(r, "id")
	orderID, err := uuid.FromString(idParam)
	if err != nil {
		log.Warn().Err(err).Str("order_id", idParam).Msg("Failed to parse order id parameter from URL")
		respondWithError(w, http.StatusBadRequest, "Invalid order id")
		return
	}

	var requestPayload UpdateOrderStatusRequest

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&requestPayload); err != nil {
		log.Error().Err(err).Msg("Failed to decode update status request body")
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	err = h.orderSvc.UpdateStatus(r.Context(), orderID, order.StatusField(requestPayload.Field), requestPayload.Value)
	if err != nil {
		clientMessage := "Failed to update order status"
		switch {
		case errors.Is(err, order.ErrInvalidStatus):
			clientMessage = "Invalid status value"
		case errors.Is(err, order.ErrOrderNotFound):
			clientMessage = "Order not found"
		default:
			log.Error().Err(err).Msg("Failed to update order status via service")
		}

		respondWithError(w, mapErrorToStatusCode(err), clientMessage)
		return
	}

	log.Info().Stringer("admin_id", session.UserID).Stringer("order_id", orderID).Str("field", requestPayload.Field).Str("value", requestPayload.Value).Msg("Order status updated")

	updatedOrder, err := h.orderSvc.GetByID(r.Context(), orderID)
	if err != nil {
		log.Error().Err(err).Stringer("order_id", orderID).Msg("Failed to reload order after status update")
		respondWithError(w, http.StatusInternalServerError, "Failed to reload order")
		return
	}

	respondWithJSON(w, http.StatusOK, newOrderResponse(updatedOrder))
}
