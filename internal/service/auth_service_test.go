package service_test

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"shop-service/internal/cache"
	"shop-service/internal/models"
	"shop-service/internal/producer"
	"shop-service/internal/service"
	"shop-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Моки зависимостей AuthService

type MockUserRepo struct {
	CreateFunc        func(ctx context.Context, u *models.User) error
	GetByEmailFunc    func(ctx context.Context, email string) (*models.User, error)
	GetByIDFunc       func(ctx context.Context, id uuid.UUID) (*models.User, error)
	ExistsByEmailFunc func(ctx context.Context, email string) (bool, error)
	ActivateFunc      func(ctx context.Context, id uuid.UUID) (bool, error)
}

func (m *MockUserRepo) Create(ctx context.Context, u *models.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, u)
	}
	return nil
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *MockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.ExistsByEmailFunc != nil {
		return m.ExistsByEmailFunc(ctx, email)
	}
	return false, nil
}

func (m *MockUserRepo) Activate(ctx context.Context, id uuid.UUID) (bool, error) {
	if m.ActivateFunc != nil {
		return m.ActivateFunc(ctx, id)
	}
	return true, nil
}

type MockHasher struct{}

func (MockHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }
func (MockHasher) Compare(hash, password string) bool   { return hash == "hashed:"+password }

type MockTokens struct {
	SignAccessFunc func(ctx context.Context, sub uuid.UUID, role string, ttl time.Duration) (string, time.Time, error)
}

func (m *MockTokens) SignAccess(ctx context.Context, sub uuid.UUID, role string, ttl time.Duration) (string, time.Time, error) {
	if m.SignAccessFunc != nil {
		return m.SignAccessFunc(ctx, sub, role, ttl)
	}
	return "access-token", time.Now().Add(ttl), nil
}

func (m *MockTokens) ParseAndValidateAccess(ctx context.Context, token string) (*service.Claims, error) {
	return nil, errors.New("not implemented")
}

// MockCache хранит значения в памяти по тем же ключам, что и Redis, и запоминает TTL
type MockCache struct {
	values map[string]string
	ttls   map[string]time.Duration
}

func NewMockCache() *MockCache {
	return &MockCache{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *MockCache) ReserveResend(ctx context.Context, email string, wait time.Duration) (bool, error) {
	key := cache.OTPRateLimitKey(email)
	if _, ok := m.values[key]; ok {
		return false, nil
	}
	m.values[key] = "1"
	m.ttls[key] = wait
	return true, nil
}

func (m *MockCache) SaveCode(ctx context.Context, email, hash string, ttl time.Duration) error {
	m.values[cache.OTPKey(email)] = hash
	m.ttls[cache.OTPKey(email)] = ttl
	delete(m.values, cache.OTPAttemptsKey(email))
	return nil
}

func (m *MockCache) RegisterMiss(ctx context.Context, email string, ttl time.Duration) (int64, error) {
	key := cache.OTPAttemptsKey(email)
	n, _ := strconv.ParseInt(m.values[key], 10, 64)
	n++
	m.values[key] = strconv.FormatInt(n, 10)
	m.ttls[key] = ttl
	return n, nil
}

func (m *MockCache) CodeHash(ctx context.Context, email string) (string, error) {
	v, ok := m.values[cache.OTPKey(email)]
	if !ok {
		return "", cache.ErrMiss
	}
	return v, nil
}

func (m *MockCache) DropCode(ctx context.Context, email string) error {
	delete(m.values, cache.OTPKey(email))
	delete(m.values, cache.OTPRateLimitKey(email))
	delete(m.values, cache.OTPAttemptsKey(email))
	return nil
}

// MockRefreshRepo: refresh-токены в памяти по хэшу
type MockRefreshRepo struct {
	mu     sync.Mutex
	tokens map[string]*models.RefreshToken
}

func NewMockRefreshRepo() *MockRefreshRepo {
	return &MockRefreshRepo{tokens: map[string]*models.RefreshToken{}}
}

func (m *MockRefreshRepo) Create(ctx context.Context, t *models.RefreshToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tokens[t.TokenHash]; ok {
		return errors.New("duplicate token hash")
	}
	t.ID = uuid.New()
	m.tokens[t.TokenHash] = t
	return nil
}

func (m *MockRefreshRepo) GetActiveByHash(ctx context.Context, hash string, now time.Time) (*models.RefreshToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tokens[hash]
	if !ok || t.RevokedAt != nil || !t.ExpiresAt.After(now) {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (m *MockRefreshRepo) RevokeByHash(ctx context.Context, hash string, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tokens[hash]
	if !ok || t.RevokedAt != nil {
		return false, nil
	}
	t.RevokedAt = &at
	return true, nil
}

type MockEmailProducer struct {
	Sent []producer.EmailMessage
	Err  error
}

func (m *MockEmailProducer) SendEmail(ctx context.Context, key string, msg producer.EmailMessage) error {
	m.Sent = append(m.Sent, msg)
	return m.Err
}

func newAuthService(users *MockUserRepo, c *MockCache, emails *MockEmailProducer) service.AuthService {
	return newAuthServiceWithRefresh(users, NewMockRefreshRepo(), c, emails)
}

func newAuthServiceWithRefresh(users *MockUserRepo, refresh *MockRefreshRepo, c *MockCache, emails *MockEmailProducer) service.AuthService {
	var ep service.EmailProducer
	if emails != nil {
		ep = emails
	}
	return service.NewAuthService(users, refresh, MockHasher{}, &MockTokens{}, c, ep, 15*time.Minute, 24*time.Hour, zap.NewNop())
}

func TestRegister_StoresOTPAndQueuesEmail(t *testing.T) {
	var created *models.User
	users := &MockUserRepo{
		CreateFunc: func(ctx context.Context, u *models.User) error {
			u.ID = uuid.New()
			created = u
			return nil
		},
	}
	c := NewMockCache()
	emails := &MockEmailProducer{}

	u, err := newAuthService(users, c, emails).Register(context.Background(), service.RegisterInput{
		Email:     "  Alice@Example.com ",
		Password:  "password123",
		FirstName: "Alice",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if created == nil || u.Email != "alice@example.com" {
		t.Fatalf("expected normalized email, got %+v", u)
	}
	if u.IsActive {
		t.Fatal("new user must be inactive until OTP verification")
	}
	if u.Password != "hashed:password123" {
		t.Fatalf("password not hashed: %q", u.Password)
	}

	stored, ok := c.values["otp:alice@example.com"]
	if !ok {
		t.Fatal("otp not stored")
	}
	if c.ttls["otp:alice@example.com"] != 180*time.Second {
		t.Fatalf("unexpected otp ttl: %v", c.ttls["otp:alice@example.com"])
	}
	if c.ttls["otp:rl:alice@example.com"] != 60*time.Second {
		t.Fatalf("unexpected rate limit ttl: %v", c.ttls["otp:rl:alice@example.com"])
	}

	if len(emails.Sent) != 1 || emails.Sent[0].Template != "otp_code" {
		t.Fatalf("expected one otp_code email, got %+v", emails.Sent)
	}
	code, _ := emails.Sent[0].Data["code"].(string)
	if len(code) != 6 || util.Sha256Base64URL(code) != stored {
		t.Fatalf("emailed code %q does not match stored hash", code)
	}
}

func TestRegister_Conflict(t *testing.T) {
	users := &MockUserRepo{
		ExistsByEmailFunc: func(ctx context.Context, email string) (bool, error) { return true, nil },
	}
	_, err := newAuthService(users, NewMockCache(), nil).Register(context.Background(), service.RegisterInput{
		Email: "bob@example.com", Password: "password123",
	})
	if !errors.Is(err, service.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestRegister_Validation(t *testing.T) {
	s := newAuthService(&MockUserRepo{}, NewMockCache(), nil)
	bad := "0812345678"

	cases := []service.RegisterInput{
		{Email: "not-an-email", Password: "password123"},
		{Email: "a@example.com", Password: "short"},
		{Email: "a@example.com", Password: "password123", PhoneNumber: &bad},
	}
	for _, in := range cases {
		if _, err := s.Register(context.Background(), in); !errors.Is(err, service.ErrValidation) {
			t.Fatalf("expected ErrValidation for %+v, got %v", in, err)
		}
	}
}

func TestVerifyOTP(t *testing.T) {
	uid := uuid.New()
	activated := false
	users := &MockUserRepo{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{ID: uid, Email: email}, nil
		},
		ActivateFunc: func(ctx context.Context, id uuid.UUID) (bool, error) {
			activated = id == uid
			return true, nil
		},
	}
	c := NewMockCache()
	s := newAuthService(users, c, nil)
	ctx := context.Background()

	if err := s.VerifyOTP(ctx, "carol@example.com", "123456"); !errors.Is(err, service.ErrOTPExpired) {
		t.Fatalf("expected ErrOTPExpired, got %v", err)
	}

	c.values["otp:carol@example.com"] = util.Sha256Base64URL("123456")

	if err := s.VerifyOTP(ctx, "carol@example.com", "654321"); !errors.Is(err, service.ErrOTPIncorrect) {
		t.Fatalf("expected ErrOTPIncorrect, got %v", err)
	}
	if err := s.VerifyOTP(ctx, "Carol@example.com", "123456"); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !activated {
		t.Fatal("user was not activated")
	}
	if _, ok := c.values["otp:carol@example.com"]; ok {
		t.Fatal("used otp must be deleted")
	}
}

func TestResendOTP_RateLimited(t *testing.T) {
	users := &MockUserRepo{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{ID: uuid.New(), Email: email}, nil
		},
	}
	c := NewMockCache()
	s := newAuthService(users, c, &MockEmailProducer{})

	if err := s.ResendOTP(context.Background(), "dave@example.com"); err != nil {
		t.Fatalf("first resend: %v", err)
	}
	if err := s.ResendOTP(context.Background(), "dave@example.com"); !errors.Is(err, service.ErrTooManyRequests) {
		t.Fatalf("expected ErrTooManyRequests, got %v", err)
	}
}

func TestResendOTP_EmailFailureIsNotReturned(t *testing.T) {
	users := &MockUserRepo{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{ID: uuid.New(), Email: email}, nil
		},
	}
	emails := &MockEmailProducer{Err: errors.New("kafka down")}
	if err := newAuthService(users, NewMockCache(), emails).ResendOTP(context.Background(), "erin@example.com"); err != nil {
		t.Fatalf("email failure must be logged, not returned: %v", err)
	}
}

func TestLogin(t *testing.T) {
	active := &models.User{ID: uuid.New(), Email: "frank@example.com", Password: "hashed:password123", Role: models.RoleCustomer, IsActive: true}
	inactive := &models.User{ID: uuid.New(), Email: "gina@example.com", Password: "hashed:password123", Role: models.RoleCustomer}

	users := &MockUserRepo{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			switch email {
			case active.Email:
				return active, nil
			case inactive.Email:
				return inactive, nil
			}
			return nil, nil
		},
	}
	s := newAuthService(users, NewMockCache(), nil)
	ctx := context.Background()

	if _, err := s.Login(ctx, "nobody@example.com", "password123"); !errors.Is(err, service.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
	if _, err := s.Login(ctx, active.Email, "wrong"); !errors.Is(err, service.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}
	if _, err := s.Login(ctx, inactive.Email, "password123"); !errors.Is(err, service.ErrNotActive) {
		t.Fatalf("expected ErrNotActive, got %v", err)
	}

	tok, err := s.Login(ctx, "FRANK@example.com", "password123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if tok.AccessToken != "access-token" {
		t.Fatalf("unexpected token %q", tok.AccessToken)
	}
	if tok.RefreshToken == "" || !tok.RefreshExpiresAt.After(tok.AccessExpiresAt) {
		t.Fatalf("login must issue a longer-lived refresh token: %+v", tok)
	}
}

func TestVerifyOTP_LockoutAfterRepeatedMisses(t *testing.T) {
	users := &MockUserRepo{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{ID: uuid.New(), Email: email}, nil
		},
		ActivateFunc: func(ctx context.Context, id uuid.UUID) (bool, error) {
			t.Fatal("locked out code must not activate the account")
			return false, nil
		},
	}
	c := NewMockCache()
	s := newAuthService(users, c, nil)
	ctx := context.Background()
	c.values["otp:hank@example.com"] = util.Sha256Base64URL("123456")

	for i := 1; i < 5; i++ {
		if err := s.VerifyOTP(ctx, "hank@example.com", "000000"); !errors.Is(err, service.ErrOTPIncorrect) {
			t.Fatalf("miss #%d: expected ErrOTPIncorrect, got %v", i, err)
		}
	}
	if c.ttls["otp:attempts:hank@example.com"] != 180*time.Second {
		t.Fatalf("attempt counter must share otp ttl, got %v", c.ttls["otp:attempts:hank@example.com"])
	}

	if err := s.VerifyOTP(ctx, "hank@example.com", "000000"); !errors.Is(err, service.ErrOTPExpired) {
		t.Fatalf("fifth miss: expected ErrOTPExpired, got %v", err)
	}
	if _, ok := c.values["otp:hank@example.com"]; ok {
		t.Fatal("code must be dropped after lockout")
	}
	if _, ok := c.values["otp:attempts:hank@example.com"]; ok {
		t.Fatal("attempt counter must be cleared with the code")
	}

	// даже верный код после блокировки уже не принимается
	if err := s.VerifyOTP(ctx, "hank@example.com", "123456"); !errors.Is(err, service.ErrOTPExpired) {
		t.Fatalf("expected ErrOTPExpired after lockout, got %v", err)
	}
}

func TestVerifyOTP_ResendResetsMisses(t *testing.T) {
	users := &MockUserRepo{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{ID: uuid.New(), Email: email}, nil
		},
	}
	c := NewMockCache()
	emails := &MockEmailProducer{}
	s := newAuthService(users, c, emails)
	ctx := context.Background()
	c.values["otp:ivy@example.com"] = util.Sha256Base64URL("123456")

	for i := 0; i < 4; i++ {
		_ = s.VerifyOTP(ctx, "ivy@example.com", "000000")
	}
	if err := s.ResendOTP(ctx, "ivy@example.com"); err != nil {
		t.Fatalf("resend: %v", err)
	}
	if _, ok := c.values["otp:attempts:ivy@example.com"]; ok {
		t.Fatal("new code must start with a clean attempt counter")
	}
	code, _ := emails.Sent[0].Data["code"].(string)
	if err := s.VerifyOTP(ctx, "ivy@example.com", code); err != nil {
		t.Fatalf("verify fresh code: %v", err)
	}
}

func TestRefreshAndLogout(t *testing.T) {
	u := &models.User{ID: uuid.New(), Email: "jade@example.com", Password: "hashed:password123", Role: models.RoleCustomer, IsActive: true}
	users := &MockUserRepo{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) { return u, nil },
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*models.User, error) {
			if id == u.ID {
				return u, nil
			}
			return nil, nil
		},
	}
	refresh := NewMockRefreshRepo()
	s := newAuthServiceWithRefresh(users, refresh, NewMockCache(), nil)
	ctx := context.Background()

	first, err := s.Login(ctx, u.Email, "password123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, ok := refresh.tokens[first.RefreshToken]; ok {
		t.Fatal("refresh token must be stored hashed")
	}
	if _, ok := refresh.tokens[util.Sha256Base64URL(first.RefreshToken)]; !ok {
		t.Fatal("refresh token hash not stored")
	}

	second, err := s.Refresh(ctx, first.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if second.RefreshToken == first.RefreshToken {
		t.Fatal("refresh must rotate the token")
	}

	// повторное предъявление старого токена
	if _, err := s.Refresh(ctx, first.RefreshToken); !errors.Is(err, service.ErrInvalidRefresh) {
		t.Fatalf("expected ErrInvalidRefresh for rotated token, got %v", err)
	}
	if _, err := s.Refresh(ctx, "   "); !errors.Is(err, service.ErrInvalidRefresh) {
		t.Fatalf("expected ErrInvalidRefresh for blank token, got %v", err)
	}

	if err := s.Logout(ctx, second.RefreshToken); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if err := s.Logout(ctx, second.RefreshToken); !errors.Is(err, service.ErrInvalidRefresh) {
		t.Fatalf("expected ErrInvalidRefresh on repeated logout, got %v", err)
	}
	if _, err := s.Refresh(ctx, second.RefreshToken); !errors.Is(err, service.ErrInvalidRefresh) {
		t.Fatalf("expected ErrInvalidRefresh after logout, got %v", err)
	}

	// деактивированный пользователь не обновляет токены
	third, err := s.Login(ctx, u.Email, "password123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	u.IsActive = false
	if _, err := s.Refresh(ctx, third.RefreshToken); !errors.Is(err, service.ErrNotActive) {
		t.Fatalf("expected ErrNotActive, got %v", err)
	}
}

func TestRefresh_ExpiredToken(t *testing.T) {
	uid := uuid.New()
	refresh := NewMockRefreshRepo()
	_ = refresh.Create(context.Background(), &models.RefreshToken{
		UserID:    uid,
		TokenHash: util.Sha256Base64URL("old"),
		ExpiresAt: time.Now().Add(-time.Minute),
	})
	s := newAuthServiceWithRefresh(&MockUserRepo{}, refresh, NewMockCache(), nil)
	if _, err := s.Refresh(context.Background(), "old"); !errors.Is(err, service.ErrInvalidRefresh) {
		t.Fatalf("expected ErrInvalidRefresh, got %v", err)
	}
}
