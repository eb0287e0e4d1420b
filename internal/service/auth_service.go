package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"shop-service/internal/cache"
	"shop-service/internal/models"
	"shop-service/internal/producer"
	"shop-service/internal/repository"
	"shop-service/internal/util"

	"go.uber.org/zap"
)

type authService struct {
	users   UserRepo
	refresh RefreshTokenRepo
	hasher  PasswordHasher
	tokens  TokenProvider
	otps    OTPStore
	emails  EmailProducer

	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time

	log *zap.Logger
}

func NewAuthService(
	users UserRepo,
	refresh RefreshTokenRepo,
	hasher PasswordHasher,
	tokens TokenProvider,
	otps OTPStore,
	emails EmailProducer,
	accessTTL, refreshTTL time.Duration,
	log *zap.Logger,
) AuthService {
	return &authService{
		users:      users,
		refresh:    refresh,
		hasher:     hasher,
		tokens:     tokens,
		otps:       otps,
		emails:     emails,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
		log:        log,
	}
}

func normalizeEmail(email string) string { return strings.ToLower(strings.TrimSpace(email)) }

func (s *authService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	email := normalizeEmail(in.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, validationf("invalid email")
	}
	if len(in.Password) < minPassword {
		return nil, validationf("password must be at least %d characters", minPassword)
	}
	if in.PhoneNumber != nil && !phoneRe.MatchString(*in.PhoneNumber) {
		return nil, validationf("phone number must match 09XXXXXXXXX")
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrConflict
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, validationf("%s", err)
	}

	u := &models.User{
		Email:       email,
		Password:    hash,
		FirstName:   strings.TrimSpace(in.FirstName),
		LastName:    strings.TrimSpace(in.LastName),
		PhoneNumber: in.PhoneNumber,
		Role:        models.RoleCustomer,
		IsActive:    false, // до подтверждения OTP
	}
	if err := s.users.Create(ctx, u); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, err
	}

	if err := s.issueOTP(ctx, u); err != nil {
		return nil, err
	}

	s.log.Info("Пользователь зарегистрирован", zap.String("user_id", u.ID.String()))
	return u, nil
}

// issueOTP занимает окно повторной отправки и кладёт хэш кода в Redis на otpTTL
func (s *authService) issueOTP(ctx context.Context, u *models.User) error {
	reserved, err := s.otps.ReserveResend(ctx, u.Email, otpResendWait)
	if err != nil {
		return err
	}
	if !reserved {
		return ErrTooManyRequests
	}

	code, err := util.NewOTP(otpLength)
	if err != nil {
		return err
	}

	if err := s.otps.SaveCode(ctx, u.Email, util.Sha256Base64URL(code), otpTTL); err != nil {
		return err
	}

	if s.emails == nil {
		return nil
	}
	if err := s.emails.SendEmail(ctx, u.Email, producer.EmailMessage{
		To:       u.Email,
		Subject:  "Код подтверждения",
		Template: "otp_code",
		Data: map[string]any{
			"first_name": u.FirstName,
			"code":       code,
			"ttl_min":    int(otpTTL / time.Minute),
		},
	}); err != nil {
		s.log.Warn("Не удалось поставить письмо с OTP в очередь", zap.String("to", u.Email), zap.Error(err))
	}
	return nil
}

func (s *authService) VerifyOTP(ctx context.Context, email, code string) error {
	email = normalizeEmail(email)

	stored, err := s.otps.CodeHash(ctx, email)
	if errors.Is(err, cache.ErrMiss) {
		return ErrOTPExpired
	}
	if err != nil {
		return err
	}
	if !util.OTPMatches(strings.TrimSpace(code), stored) {
		return s.registerMiss(ctx, email)
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if u == nil {
		return ErrNotFound
	}
	if _, err := s.users.Activate(ctx, u.ID); err != nil {
		return err
	}

	if err := s.otps.DropCode(ctx, email); err != nil {
		s.log.Warn("Не удалось удалить использованный OTP", zap.Error(err))
	}
	s.log.Info("Аккаунт активирован", zap.String("user_id", u.ID.String()))
	return nil
}

func (s *authService) ResendOTP(ctx context.Context, email string) error {
	u, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return err
	}
	if u == nil {
		return ErrNotFound
	}
	if u.IsActive {
		return fmt.Errorf("%w: account already active", ErrConflict)
	}
	return s.issueOTP(ctx, u)
}

// registerMiss считает неверный ввод. После otpMaxAttempts промахов код сгорает.
func (s *authService) registerMiss(ctx context.Context, email string) error {
	misses, err := s.otps.RegisterMiss(ctx, email, otpTTL)
	if err != nil {
		return err
	}
	if misses < otpMaxAttempts {
		return ErrOTPIncorrect
	}
	if err := s.otps.DropCode(ctx, email); err != nil {
		return err
	}
	s.log.Warn("OTP сброшен после серии неверных попыток", zap.String("email", email), zap.Int64("misses", misses))
	return ErrOTPExpired
}

func (s *authService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	u, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if u == nil || !s.hasher.Compare(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, ErrNotActive
	}
	return s.issuePair(ctx, u)
}

// Refresh меняет refresh-токен на новую пару. Старый токен отзывается,
// повторное предъявление даёт ErrInvalidRefresh.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return nil, ErrInvalidRefresh
	}
	hash := util.Sha256Base64URL(refreshToken)
	now := s.now()

	rt, err := s.refresh.GetActiveByHash(ctx, hash, now)
	if err != nil {
		return nil, err
	}
	if rt == nil {
		return nil, ErrInvalidRefresh
	}

	u, err := s.users.GetByID(ctx, rt.UserID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrInvalidRefresh
	}
	if !u.IsActive {
		return nil, ErrNotActive
	}

	// параллельный Refresh тем же токеном проиграет здесь
	ok, err := s.refresh.RevokeByHash(ctx, hash, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidRefresh
	}
	return s.issuePair(ctx, u)
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return ErrInvalidRefresh
	}
	ok, err := s.refresh.RevokeByHash(ctx, util.Sha256Base64URL(refreshToken), s.now())
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidRefresh
	}
	return nil
}

func (s *authService) issuePair(ctx context.Context, u *models.User) (*TokenPair, error) {
	access, aexp, err := s.tokens.SignAccess(ctx, u.ID, string(u.Role), s.accessTTL)
	if err != nil {
		return nil, err
	}

	opaque, err := util.NewOpaqueToken()
	if err != nil {
		return nil, err
	}
	rt := &models.RefreshToken{
		UserID:    u.ID,
		TokenHash: util.Sha256Base64URL(opaque),
		ExpiresAt: s.now().Add(s.refreshTTL),
	}
	if err := s.refresh.Create(ctx, rt); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:      access,
		AccessExpiresAt:  aexp,
		RefreshToken:     opaque,
		RefreshExpiresAt: rt.ExpiresAt,
	}, nil
}
