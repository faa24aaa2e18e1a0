package http

import (
	"context"

	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"

	"github.com/depiwhite/storefront/internal/auth"
	"github.com/depiwhite/storefront/internal/catalog"
	"github.com/depiwhite/storefront/internal/order"
)

type mockVerifier struct {
	verifyFunc  func(ctx context.Context, token string) (*auth.Session, error)
	verifyCalls int
}

func (m *mockVerifier) Verify(ctx context.Context, token string) (*auth.Session, error) {
	m.verifyCalls++
	return m.verifyFunc(ctx, token)
}

type mockOrderService struct {
	submitFunc       func(ctx context.Context, address order.ShippingAddress, price decimal.Decimal, userID *uuid.UUID) (*order.Order, error)
	getByIDFunc      func(ctx context.Context, id uuid.UUID) (*order.Order, error)
	listFunc         func(ctx context.Context) ([]order.Order, error)
	updateStatusFunc func(ctx context.Context, id uuid.UUID, field order.StatusField, value string) error

	submitCalls       int
	listCalls         int
	updateStatusCalls int
}

func (m *mockOrderService) Submit(ctx context.Context, address order.ShippingAddress, price decimal.Decimal, userID *uuid.UUID) (*order.Order, error) {
	m.submitCalls++
	return m.submitFunc(ctx, address, price, userID)
}

func (m *mockOrderService) GetByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockOrderService) List(ctx context.Context) ([]order.Order, error) {
	m.listCalls++
	return m.listFunc(ctx)
}

func (m *mockOrderService) UpdateStatus(ctx context.Context, id uuid.UUID, field order.StatusField, value string) error {
	m.updateStatusCalls++
	return m.updateStatusFunc(ctx, id, field, value)
}

type mockCatalogService struct {
	getFunc         func(ctx context.Context) (*catalog.Product, error)
	priceFunc       func(ctx context.Context) (decimal.Decimal, error)
	updatePriceFunc func(ctx context.Context, newPrice decimal.Decimal) error

	updatePriceCalls int
}

func (m *mockCatalogService) Get(ctx context.Context) (*catalog.Product, error) {
	return m.getFunc(ctx)
}

func (m *mockCatalogService) Price(ctx context.Context) (decimal.Decimal, error) {
	return m.priceFunc(ctx)
}

func (m *mockCatalogService) UpdatePrice(ctx context.Context, newPrice decimal.Decimal) error {
	m.updatePriceCalls++
	return m.updatePriceFunc(ctx, newPrice)
}

type mockAuthService struct {
	signUpFunc         func(ctx context.Context, email, password string) (*auth.User, error)
	signInFunc         func(ctx context.Context, email, password string) (*auth.Session, error)
	signOutFunc        func(ctx context.Context, token string) error
	currentSessionFunc func(ctx context.Context, token string) (*auth.Session, error)
	isAdminFunc        func(ctx context.Context, userID uuid.UUID) (bool, error)
}

func (m *mockAuthService) SignUp(ctx context.Context, email, password string) (*auth.User, error) {
	return m.signUpFunc(ctx, email, password)
}

func (m *mockAuthService) SignIn(ctx context.Context, email, password string) (*auth.Session, error) {
	return m.signInFunc(ctx, email, password)
}

func (m *mockAuthService) SignOut(ctx context.Context, token string) error {
	return m.signOutFunc(ctx, token)
}

func (m *mockAuthService) CurrentSession(ctx context.Context, token string) (*auth.Session, error) {
	return m.currentSessionFunc(ctx, token)
}

func (m *mockAuthService) IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	return m.isAdminFunc(ctx, userID)
}
