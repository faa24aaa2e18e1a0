package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/depiwhite/storefront/internal/auth"
	"github.com/depiwhite/storefront/internal/catalog"
	"github.com/depiwhite/storefront/internal/order"
)

// defaultPrice is the last-known price shown when the catalog read fails.
// Checkout degrades to it instead of blocking the sale.
var defaultPrice = decimal.RequireFromString("49.99")

type ShippingForm struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Address    string `json:"address" validate:"required"`
	City       string `json:"city" validate:"required"`
	PostalCode string `json:"postal_code" validate:"required"`
	Country    string `json:"country" validate:"required"`
}

type ProductResponse struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

type OrderResponse struct {
	ID                uuid.UUID             `json:"id"`
	UserID            *uuid.UUID            `json:"user_id"`
	ShippingAddress   order.ShippingAddress `json:"shipping_address"`
	TotalAmount       decimal.Decimal       `json:"total_amount"`
	PaymentStatus     string                `json:"payment_status"`
	FulfillmentStatus string                `json:"fulfillment_status"`
	CreatedAt         time.Time             `json:"created_at"`
}

func newOrderResponse(o *order.Order) OrderResponse {
	return OrderResponse{
		ID:                o.ID,
		UserID:            o.UserID,
		ShippingAddress:   o.ShippingAddress,
		TotalAmount:       o.TotalAmount,
		PaymentStatus:     string(o.PaymentStatus),
		FulfillmentStatus: string(o.FulfillmentStatus),
		CreatedAt:         o.CreatedAt,
	}
}

type StoreHandler struct {
	catalogSvc catalog.Service
	orderSvc   order.Service
	authSvc    auth.Service
	validate   *validator.Validate
}

func NewStoreHandler(catalogSvc catalog.Service, orderSvc order.Service, authSvc auth.Service) *StoreHandler {
	return &StoreHandler{
		catalogSvc: catalogSvc,
		orderSvc:   orderSvc,
		authSvc:    authSvc,
		validate:   validator.New(),
	}
}

func (h *StoreHandler) RegisterRoutes(router chi.Router) {
	router.Get("/product", h.handleGetProduct)
	router.Post("/orders", h.handleCheckout)
}

func (h *StoreHandler) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalogSvc.Get(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to get product via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to get product")
		return
	}

	respondWithJSON(w, http.StatusOK, ProductResponse{
		Name:  product.Name,
		Price: product.Price,
	})
}

// handleCheckout creates the order with the price read at submission
// time. The total on the created order never moves with later catalog
// updates.
func (h *StoreHandler) handleCheckout(w http.ResponseWriter, r *http.Request) {
	var form ShippingForm

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&form); err != nil {
		log.Error().Err(err).Msg("Failed to decode checkout request body")
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := h.validate.Struct(form); err != nil {
		respondValidationError(w, err)
		return
	}

	// An invalid or expired session does not block checkout, the order
	// is simply anonymous.
	var userID *uuid.UUID
	if token := sessionToken(r); token != "" {
		session, err := h.authSvc.CurrentSession(r.Context(), token)
		if err == nil {
			userID = &session.UserID
		} else if !errors.Is(err, auth.ErrNoSession) {
			log.Warn().Err(err).Msg("Failed to resolve session during checkout, proceeding anonymously")
		}
	}

	price, err := h.catalogSvc.Price(r.Context())
	if err != nil {
		log.Warn().Err(err).Str("default_price", defaultPrice.String()).Msg("Failed to read current price, falling back to default")
		price = defaultPrice
	}

	createdOrder, err := h.orderSvc.Submit(r.Context(), order.ShippingAddress{
		Name:       form.Name,
		Email:      form.Email,
		Address:    form.Address,
		City:       form.City,
		PostalCode: form.PostalCode,
		Country:    form.Country,
	}, price, userID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to submit order via service")

		clientMessage := "An error occurred. Please try again."
		if errors.Is(err, order.ErrMissingShippingField) {
			clientMessage = err.Error()
		}

		respondWithError(w, mapErrorToStatusCode(err), clientMessage)
		return
	}

	respondWithJSON(w, http.StatusCreated, newOrderResponse(createdOrder))
}
