package order

import (
	"time"

	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentUnpaid  PaymentStatus = "unpaid"
)

type FulfillmentStatus string

const (
	FulfillmentUnfulfilled FulfillmentStatus = "unfulfilled"
	FulfillmentFulfilled   FulfillmentStatus = "fulfilled"
)

// StatusField names one of the two independently mutable status columns.
type StatusField string

const (
	FieldPaymentStatus     StatusField = "payment_status"
	FieldFulfillmentStatus StatusField = "fulfillment_status"
)

// No ordering is imposed within a set: any allowed value may replace any
// other (pending/unpaid/paid move freely).
var allowedStatusValues = map[StatusField]map[string]bool{
	FieldPaymentStatus: {
		string(PaymentPending): true,
		string(PaymentPaid):    true,
		string(PaymentUnpaid):  true,
	},
	FieldFulfillmentStatus: {
		string(FulfillmentUnfulfilled): true,
		string(FulfillmentFulfilled):   true,
	},
}

// ValidStatusValue reports whether value belongs to the enumerated set
// for field. Unknown fields have no valid values.
func ValidStatusValue(field StatusField, value string) bool {
	values, ok := allowedStatusValues[field]
	return ok && values[value]
}

// ShippingAddress is snapshotted into the order row at creation; later
// profile changes never touch it.
type ShippingAddress struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

type Order struct {
	ID                uuid.UUID         `json:"id" db:"id"`
	UserID            *uuid.UUID        `json:"user_id" db:"user_id"`
	ShippingAddress   ShippingAddress   `json:"shipping_address" db:"shipping_address"`
	TotalAmount       decimal.Decimal   `json:"total_amount" db:"total_amount"`
	PaymentStatus     PaymentStatus     `json:"payment_status" db:"payment_status"`
	FulfillmentStatus FulfillmentStatus `json:"fulfillment_status" db:"fulfillment_status"`
	CreatedAt         time.Time         `json:"created_at" db:"created_at"`
}
