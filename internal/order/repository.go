package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var ErrOrderNotFound = errors.New("order not found")

type Repository interface {
	Create(ctx context.Context, order *Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)
	List(ctx context.Context) ([]Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, field StatusField, value string) error
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

// Create persists the order in a single insert: either the whole row
// exists afterwards or none of it does.
func (r *postgresRepository) Create(ctx context.Context, order *Order) error {
	if order.ID == uuid.Nil {
		id, err := uuid.NewV4()
		if err != nil {
			return fmt.Errorf("repository: failed to generate order id: %w", err)
		}
		order.ID = id
	}

	addressJSON, err := json.Marshal(order.ShippingAddress)
	if err != nil {
		return fmt.Errorf("repository: failed to marshal shipping address: %w", err)
	}

	query := `
		INSERT INTO orders (id, user_id, shipping_address, total_amount, payment_status, fulfillment_status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`

	err = r.db.QueryRow(ctx, query,
		order.ID,
		order.UserID,
		addressJSON,
		order.TotalAmount.String(),
		string(order.PaymentStatus),
		string(order.FulfillmentStatus),
		time.Now().UTC(),
	).Scan(&order.CreatedAt)
	if err != nil {
		return fmt.Errorf("repository: failed to insert order: %w", err)
	}

	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	query := `
		SELECT id, user_id, shipping_address, total_amount, payment_status, fulfillment_status, created_at
		FROM orders
		WHERE id = $1
	`

	order, err := scanOrder(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("repository: failed to select order by id %s: %w", id, err)
	}

	return order, nil
}

// List returns every order, newest first. Full table scan per call; fine
// at the intended volume, revisit with pagination before it is not.
func (r *postgresRepository) List(ctx context.Context) ([]Order, error) {
	query := `
		SELECT id, user_id, shipping_address, total_amount, payment_status, fulfillment_status, created_at
		FROM orders
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := make([]Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan order: %w", err)
		}
		orders = append(orders, *order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating orders: %w", err)
	}

	return orders, nil
}

// UpdateStatus mutates exactly one of the two status columns. The column
// name is resolved through a switch, never interpolated from input.
func (r *postgresRepository) UpdateStatus(ctx context.Context, id uuid.UUID, field StatusField, value string) error {
	var query string
	switch field {
	case FieldPaymentStatus:
		query = `UPDATE orders SET payment_status = $1 WHERE id = $2`
	case FieldFulfillmentStatus:
		query = `UPDATE orders SET fulfillment_status = $1 WHERE id = $2`
	default:
		return fmt.Errorf("repository: unknown status field %q", field)
	}

	cmdTag, err := r.db.Exec(ctx, query, value, id)
	if err != nil {
		log.Error().Err(err).Stringer("order_id", id).Str("field", string(field)).Str("value", value).Msg("repository: failed to update order status")
		return fmt.Errorf("repository: failed to update order status: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		log.Warn().Stringer("order_id", id).Str("field", string(field)).Msg("repository: order not found for status update")
		return ErrOrderNotFound
	}

	return nil
}

func scanOrder(row pgx.Row) (*Order, error) {
	var order Order
	var addressJSON []byte
	var total string

	err := row.Scan(
		&order.ID,
		&order.UserID,
		&addressJSON,
		&total,
		&order.PaymentStatus,
		&order.FulfillmentStatus,
		&order.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(addressJSON, &order.ShippingAddress); err != nil {
		return nil, fmt.Errorf("failed to unmarshal shipping address: %w", err)
	}

	order.TotalAmount, err = decimal.NewFromString(total)
	if err != nil {
		return nil, fmt.Errorf("failed to parse total amount %q: %w", total, err)
	}

	return &order, nil
}
