package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidStatus        = errors.New("invalid status value for field")
	ErrMissingShippingField = errors.New("missing required shipping field")
	ErrInvalidTotal         = errors.New("order total must be positive")
)

type Service interface {
	Submit(ctx context.Context, address ShippingAddress, price decimal.Decimal, userID *uuid.UUID) (*Order, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)
	List(ctx context.Context) ([]Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, field StatusField, value string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// Submit creates the one and only record of a checkout attempt. The total
// is a snapshot of the price passed in; later catalog price changes never
// touch existing orders.
func (s *service) Submit(ctx context.Context, address ShippingAddress, price decimal.Decimal, userID *uuid.UUID) (*Order, error) {
	if err := validateShippingAddress(address); err != nil {
		return nil, err
	}

	if price.Sign() <= 0 {
		log.Warn().Str("price", price.String()).Msg("service: rejected order with non-positive total")
		return nil, ErrInvalidTotal
	}

	newOrder := &Order{
		UserID:            userID,
		ShippingAddress:   address,
		TotalAmount:       price,
		PaymentStatus:     PaymentPending,
		FulfillmentStatus: FulfillmentUnfulfilled,
	}

	if err := s.repo.Create(ctx, newOrder); err != nil {
		log.Error().Err(err).Msg("service: failed to create order in repository")
		return nil, fmt.Errorf("service: failed to create order: %w", err)
	}

	log.Info().Stringer("order_id", newOrder.ID).Str("total_amount", newOrder.TotalAmount.String()).Msg("service: order created")

	return newOrder, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	foundOrder, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		log.Error().Err(err).Stringer("order_id", id).Msg("service: failed to fetch order by id in repository")
		return nil, fmt.Errorf("service: failed to fetch order by id: %w", err)
	}

	return foundOrder, nil
}

func (s *service) List(ctx context.Context) ([]Order, error) {
	orders, err := s.repo.List(ctx)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to list orders in repository")
		return nil, fmt.Errorf("service: failed to list orders: %w", err)
	}

	return orders, nil
}

// UpdateStatus rejects values outside the enumerated set for the field
// before any persistence attempt: the repository is not called and the
// stored order is untouched.
func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, field StatusField, value string) error {
	if !ValidStatusValue(field, value) {
		log.Warn().Stringer("order_id", id).Str("field", string(field)).Str("value", value).Msg("service: rejected invalid status value")
		return ErrInvalidStatus
	}

	err := s.repo.UpdateStatus(ctx, id, field, value)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return ErrOrderNotFound
		}
		log.Error().Err(err).Stringer("order_id", id).Str("field", string(field)).Str("value", value).Msg("service: failed to update order status in repository")
		return fmt.Errorf("service: failed to update order status: %w", err)
	}

	log.Info().Stringer("order_id", id).Str("field", string(field)).Str("value", value).Msg("service: order status updated")

	return nil
}

func validateShippingAddress(address ShippingAddress) error {
	fields := map[string]string{
		"name":        address.Name,
		"email":       address.Email,
		"address":     address.Address,
		"city":        address.City,
		"postal_code": address.PostalCode,
		"country":     address.Country,
	}

	for name, value := range fields {
		if value == "" {
			return fmt.Errorf("%w: %s", ErrMissingShippingField, name)
		}
	}

	return nil
}
