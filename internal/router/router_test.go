package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	_ "shop-service/docs"
	"shop-service/internal/models"
	"shop-service/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type MockTokens struct {
	ParseAndValidateAccessFunc func(ctx context.Context, token string) (*service.Claims, error)
}

func (m *MockTokens) SignAccess(context.Context, uuid.UUID, string, time.Duration) (string, time.Time, error) {
	return "", time.Time{}, errors.New("not implemented")
}

func (m *MockTokens) ParseAndValidateAccess(ctx context.Context, token string) (*service.Claims, error) {
	return m.ParseAndValidateAccessFunc(ctx, token)
}

type MockCartService struct {
	service.CartService
	ListCartFunc func(ctx context.Context) ([]models.OrderItem, error)
}

func (m *MockCartService) ListCart(ctx context.Context) ([]models.OrderItem, error) {
	return m.ListCartFunc(ctx)
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	tokens := &MockTokens{ParseAndValidateAccessFunc: func(_ context.Context, token string) (*service.Claims, error) {
		if token == "customer" {
			return &service.Claims{UserID: uuid.New(), Role: string(models.RoleCustomer)}, nil
		}
		return nil, errors.New("invalid")
	}}
	cart := &MockCartService{ListCartFunc: func(ctx context.Context) ([]models.OrderItem, error) {
		if _, ok := service.UserIDFromContext(ctx); !ok {
			return nil, service.ErrUnauthorized
		}
		return nil, nil
	}}
	return Router(Deps{Cart: cart, Tokens: tokens}, zap.NewNop())
}

func do(r *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouter(t *testing.T) {
	r := newTestRouter()

	w := do(r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = do(r, http.MethodGet, "/swagger/doc.json", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/api/v1/cart/items", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodGet, "/api/v1/cart/items", "customer")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"items":[]}`, w.Body.String())

	// refresh и logout открыты без access-токена; пустое тело даёт 400, а не 404
	for _, path := range []string{"/api/v1/auth/refresh", "/api/v1/auth/logout"} {
		w = do(r, http.MethodPost, path, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
	}

	w = do(r, http.MethodPost, "/api/v1/admin/products", "customer")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(r, http.MethodPut, "/api/v1/orders/"+uuid.NewString()+"/status", "customer")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCORSConfig(t *testing.T) {
	cfg := corsConfig(nil)
	assert.True(t, cfg.AllowAllOrigins)
	assert.False(t, cfg.AllowCredentials)

	cfg = corsConfig([]string{"https://shop.example.com"})
	assert.False(t, cfg.AllowAllOrigins)
	assert.True(t, cfg.AllowCredentials)
	assert.Equal(t, []string{"https://shop.example.com"}, cfg.AllowOrigins)
}
