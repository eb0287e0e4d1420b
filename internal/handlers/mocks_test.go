package handlers

import (
	"context"

	"shop-service/internal/models"
	"shop-service/internal/service"

	"github.com/google/uuid"
)

type MockCartService struct {
	AddItemFunc         func(ctx context.Context, in service.AddItemInput) (*models.OrderItem, error)
	ListCartFunc        func(ctx context.Context) ([]models.OrderItem, error)
	RemoveItemFunc      func(ctx context.Context, itemID uuid.UUID) error
	CheckoutPreviewFunc func(ctx context.Context) (*service.CheckoutPreview, error)
	CheckoutFunc        func(ctx context.Context, in service.CheckoutInput) (*service.CheckoutPreview, error)
	ListPaidOrdersFunc  func(ctx context.Context, f service.PaidOrderFilter) ([]models.Order, int64, error)
	ConfirmReceiptFunc  func(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	LatestPaidOrderFunc func(ctx context.Context) (*models.Order, error)
	UpdateStatusFunc    func(ctx context.Context, orderID uuid.UUID, status models.OrderStatus) (*models.Order, error)
}

func (m *MockCartService) AddItem(ctx context.Context, in service.AddItemInput) (*models.OrderItem, error) {
	return m.AddItemFunc(ctx, in)
}
func (m *MockCartService) ListCart(ctx context.Context) ([]models.OrderItem, error) {
	return m.ListCartFunc(ctx)
}
func (m *MockCartService) RemoveItem(ctx context.Context, itemID uuid.UUID) error {
	return m.RemoveItemFunc(ctx, itemID)
}
func (m *MockCartService) CheckoutPreview(ctx context.Context) (*service.CheckoutPreview, error) {
	return m.CheckoutPreviewFunc(ctx)
}
func (m *MockCartService) Checkout(ctx context.Context, in service.CheckoutInput) (*service.CheckoutPreview, error) {
	return m.CheckoutFunc(ctx, in)
}
func (m *MockCartService) ListPaidOrders(ctx context.Context, f service.PaidOrderFilter) ([]models.Order, int64, error) {
	return m.ListPaidOrdersFunc(ctx, f)
}
func (m *MockCartService) ConfirmReceipt(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	return m.ConfirmReceiptFunc(ctx, orderID)
}
func (m *MockCartService) LatestPaidOrder(ctx context.Context) (*models.Order, error) {
	return m.LatestPaidOrderFunc(ctx)
}
func (m *MockCartService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status models.OrderStatus) (*models.Order, error) {
	return m.UpdateStatusFunc(ctx, orderID, status)
}

// MockCatalogService: незаданные методы паникуют, тесты задают только нужные
type MockCatalogService struct {
	service.CatalogService

	ListProductsFunc       func(ctx context.Context, f service.ProductFilter) ([]models.Product, int64, error)
	GetProductFunc         func(ctx context.Context, slug string) (*service.ProductDetails, error)
	CreateDiscountCodeFunc func(ctx context.Context, in service.CreateDiscountCodeInput) (*models.DiscountCode, error)
	SetStockFunc           func(ctx context.Context, in service.SetStockInput) (*models.ProductStock, error)
}

func (m *MockCatalogService) ListProducts(ctx context.Context, f service.ProductFilter) ([]models.Product, int64, error) {
	return m.ListProductsFunc(ctx, f)
}
func (m *MockCatalogService) GetProduct(ctx context.Context, slug string) (*service.ProductDetails, error) {
	return m.GetProductFunc(ctx, slug)
}
func (m *MockCatalogService) CreateDiscountCode(ctx context.Context, in service.CreateDiscountCodeInput) (*models.DiscountCode, error) {
	return m.CreateDiscountCodeFunc(ctx, in)
}
func (m *MockCatalogService) SetStock(ctx context.Context, in service.SetStockInput) (*models.ProductStock, error) {
	return m.SetStockFunc(ctx, in)
}

type MockAuthService struct {
	RegisterFunc  func(ctx context.Context, in service.RegisterInput) (*models.User, error)
	VerifyOTPFunc func(ctx context.Context, email, code string) error
	ResendOTPFunc func(ctx context.Context, email string) error
	LoginFunc     func(ctx context.Context, email, password string) (*service.TokenPair, error)
	RefreshFunc   func(ctx context.Context, refreshToken string) (*service.TokenPair, error)
	LogoutFunc    func(ctx context.Context, refreshToken string) error
}

func (m *MockAuthService) Register(ctx context.Context, in service.RegisterInput) (*models.User, error) {
	return m.RegisterFunc(ctx, in)
}
func (m *MockAuthService) VerifyOTP(ctx context.Context, email, code string) error {
	return m.VerifyOTPFunc(ctx, email, code)
}
func (m *MockAuthService) ResendOTP(ctx context.Context, email string) error {
	return m.ResendOTPFunc(ctx, email)
}
func (m *MockAuthService) Login(ctx context.Context, email, password string) (*service.TokenPair, error) {
	return m.LoginFunc(ctx, email, password)
}
func (m *MockAuthService) Refresh(ctx context.Context, refreshToken string) (*service.TokenPair, error) {
	return m.RefreshFunc(ctx, refreshToken)
}
func (m *MockAuthService) Logout(ctx context.Context, refreshToken string) error {
	return m.LogoutFunc(ctx, refreshToken)
}

type MockProfileService struct {
	service.ProfileService

	MeFunc            func(ctx context.Context) (*service.Profile, error)
	CreateAddressFunc func(ctx context.Context, in service.AddressInput) (*models.Address, error)
}

func (m *MockProfileService) Me(ctx context.Context) (*service.Profile, error) {
	return m.MeFunc(ctx)
}
func (m *MockProfileService) CreateAddress(ctx context.Context, in service.AddressInput) (*models.Address, error) {
	return m.CreateAddressFunc(ctx, in)
}
