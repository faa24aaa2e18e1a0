package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var ErrInvalidPrice = errors.New("price must be a positive number")

type Service interface {
	Get(ctx context.Context) (*Product, error)
	Price(ctx context.Context) (decimal.Decimal, error)
	UpdatePrice(ctx context.Context, newPrice decimal.Decimal) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Get(ctx context.Context) (*Product, error) {
	product, err := s.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		log.Error().Err(err).Msg("service: failed to fetch product in repository")
		return nil, fmt.Errorf("service: failed to fetch product: %w", err)
	}

	return product, nil
}

func (s *service) Price(ctx context.Context) (decimal.Decimal, error) {
	product, err := s.Get(ctx)
	if err != nil {
		return decimal.Decimal{}, err
	}

	return product.Price, nil
}

// UpdatePrice rejects non-positive prices before any persistence attempt.
// The stored price is left untouched on rejection.
func (s *service) UpdatePrice(ctx context.Context, newPrice decimal.Decimal) error {
	if newPrice.Sign() <= 0 {
		log.Warn().Str("new_price", newPrice.String()).Msg("service: rejected invalid product price")
		return ErrInvalidPrice
	}

	product, err := s.Get(ctx)
	if err != nil {
		return err
	}

	if err := s.repo.UpdatePrice(ctx, product.ID, newPrice); err != nil {
		if errors.Is(err, ErrProductNotFound) {
			return ErrProductNotFound
		}
		log.Error().Err(err).Msg("service: failed to update product price in repository")
		return fmt.Errorf("service: failed to update product price: %w", err)
	}

	log.Info().Str("old_price", product.Price.String()).Str("new_price", newPrice.String()).Msg("service: product price updated")

	return nil
}
