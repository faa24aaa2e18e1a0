package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var ErrProductNotFound = errors.New("product not found")

type Repository interface {
	Get(ctx context.Context) (*Product, error)
	UpdatePrice(ctx context.Context, id uuid.UUID, price decimal.Decimal) error
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Get(ctx context.Context) (*Product, error) {
	query := `
		SELECT id, name, price, created_at, updated_at
		FROM products
		LIMIT 1
	`

	var product Product
	var price string
	err := r.db.QueryRow(ctx, query).Scan(
		&product.ID,
		&product.Name,
		&price,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("repository: failed to select product: %w", err)
	}

	product.Price, err = decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to parse product price %q: %w", price, err)
	}

	return &product, nil
}

func (r *postgresRepository) UpdatePrice(ctx context.Context, id uuid.UUID, price decimal.Decimal) error {
	query := `
		UPDATE products
		SET price = $1, updated_at = $2
		WHERE id = $3
	`

	cmdTag, err := r.db.Exec(ctx, query, price.String(), time.Now().UTC(), id)
	if err != nil {
		log.Error().Err(err).Stringer("product_id", id).Str("price", price.String()).Msg("repository: failed to update product price")
		return fmt.Errorf("repository: failed to update product price: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrProductNotFound
	}

	return nil
}
