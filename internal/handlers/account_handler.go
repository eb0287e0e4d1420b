package handlers

import (
	"net/http"
	"strings"
	"time"

	"shop-service/internal/dto"
	"shop-service/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AccountHandler struct {
	auth    service.AuthService
	profile service.ProfileService
	log     *zap.Logger
	now     func() time.Time
}

func NewAccountHandler(auth service.AuthService, profile service.ProfileService, log *zap.Logger) *AccountHandler {
	return &AccountHandler{auth: auth, profile: profile, log: log, now: time.Now}
}

// Register godoc
// @Summary Регистрация пользователя
// @Description Создаёт неактивного пользователя и отправляет на почту код подтверждения
// @Tags auth
// @Accept json
// @Produce json
// @Param register body dto.RegisterRequest true "Данные регистрации"
// @Success 201 {object} dto.UserResponse "Пользователь создан"
// @Failure 400 {object} dto.ValidationErrorResponse "Неверные данные"
// @Failure 409 {object} dto.ConflictErrorResponse "Пользователь уже существует"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/auth/register [post]
func (h *AccountHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, h.log, err)
		return
	}

	u, err := h.auth.Register(c.Request.Context(), service.RegisterInput{
		Email:       req.Email,
		Password:    req.Password,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewUserResponse(u))
}

// VerifyOTP godoc
// @Summary Подтверждение почты кодом
// @Tags auth
// @Accept json
// @Produce json
// @Param verify body dto.VerifyOTPRequest true "Email и код"
// @Success 200 {object} dto.SuccessResponse "Аккаунт активирован"
// @Failure 400 {object} dto.ValidationErrorResponse "Неверный или истёкший код"
// @Failure 404 {object} dto.NotFoundErrorResponse "Пользователь не найден"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/auth/verify-otp [post]
func (h *AccountHandler) VerifyOTP(c *gin.Context) {
	var req dto.VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, h.log, err)
		return
	}
	if err := h.auth.VerifyOTP(c.Request.Context(), req.Email, req.Code); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse("account activated"))
}

// ResendOTP godoc
// @Summary Повторная отправка кода
// @Tags auth
// @Accept json
// @Produce json
// @Param resend body dto.ResendOTPRequest true "Email"
// @Success 200 {object} dto.SuccessResponse "Код отправлен"
// @Failure 400 {object} dto.ValidationErrorResponse "Неверные данные"
// @Failure 404 {object} dto.NotFoundErrorResponse "Пользователь не найден"
// @Failure 409 {object} dto.ConflictErrorResponse "Аккаунт уже активирован"
// @Failure 429 {object} dto.RateLimitedErrorResponse "Слишком частые запросы"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/auth/resend-otp [post]
func (h *AccountHandler) ResendOTP(c *gin.Context) {
	var req dto.ResendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, h.log, err)
		return
	}
	if err := h.auth.ResendOTP(c.Request.Context(), req.Email); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse("otp sent"))
}

// Login godoc
// @Summary Авторизация пользователя
// @Description Возвращает access-токен (HS256) и opaque refresh-токен
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Данные авторизации"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} dto.ValidationErrorResponse "Неверные данные"
// @Failure 401 {object} dto.UnauthorizedErrorResponse "Неверный email или пароль"
// @Failure 403 {object} dto.ForbiddenErrorResponse "Аккаунт не активирован"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/auth/login [post]
func (h *AccountHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, h.log, err)
		return
	}
	tok, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewLoginResponse(tok, h.now()))
}

// Refresh godoc
// @Summary Обновление пары токенов
// @Description Отзывает предъявленный refresh-токен и выдаёт новую пару
// @Tags auth
// @Accept json
// @Produce json
// @Param refresh body dto.RefreshRequest true "Refresh-токен"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} dto.ValidationErrorResponse "Неверные данные"
// @Failure 401 {object} dto.UnauthorizedErrorResponse "Токен отозван или истёк"
// @Failure 403 {object} dto.ForbiddenErrorResponse "Аккаунт не активирован"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/auth/refresh [post]
func (h *AccountHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, h.log, err)
		return
	}
	tok, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewLoginResponse(tok, h.now()))
}

// Logout godoc
// @Summary Выход
// @Description Отзывает refresh-токен. Access-токен живёт до своего exp.
// @Tags auth
// @Accept json
// @Produce json
// @Param logout body dto.RefreshRequest true "Refresh-токен"
// @Success 200 {object} dto.SuccessResponse "Токен отозван"
// @Failure 400 {object} dto.ValidationErrorResponse "Неверные данные"
// @Failure 401 {object} dto.UnauthorizedErrorResponse "Токен не найден или уже отозван"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/auth/logout [post]
func (h *AccountHandler) Logout(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, h.log, err)
		return
	}
	if err := h.auth.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse("logged out"))
}

// Me godoc
// @Summary Профиль текущего пользователя
// @Security BearerAuth
// @Tags profile
// @Produce json
// @Success 200 {object} dto.ProfileResponse
// @Failure 401 {object} dto.UnauthorizedErrorResponse "Неавторизован"
// @Failure 404 {object} dto.NotFoundErrorResponse "Пользователь не найден"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/me [get]
func (h *AccountHandler) Me(c *gin.Context) {
	p, err := h.profile.Me(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewProfileResponse(p))
}

// UpdatePhone godoc
// @Summary Изменить номер телефона
// @Security BearerAuth
// @Tags profile
// @Accept json
// @Produce json
// @Param phone body dto.UpdatePhoneRequest true "Номер в формате 09XXXXXXXXX"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} dto.ValidationErrorResponse "Неверный номер"
// @Failure 401 {object} dto.UnauthorizedErrorResponse "Неавторизован"
// @Failure 409 {object} dto.ConflictErrorResponse "Номер уже занят"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/me/phone [put]
func (h *AccountHandler) UpdatePhone(c *gin.Context) {
	var req dto.UpdatePhoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, h.log, err)
		return
	}
	u, err := h.profile.UpdatePhone(c.Request.Context(), strings.TrimSpace(req.PhoneNumber))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponse(u))
}

// ListAddresses godoc
// @Summary Адреса пользователя
// @Security BearerAuth
// @Tags profile
// @Produce json
// @Success 200 {array} dto.AddressResponse
// @Failure 401 {object} dto.UnauthorizedErrorResponse "Неавторизован"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/addresses [get]
func (h *AccountHandler) ListAddresses(c *gin.Context) {
	list, err := h.profile.ListAddresses(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAddressesResponse(list))
}

// CreateAddress godoc
// @Summary Добавить адрес
// @Description is_default=true снимает флаг с прежнего адреса по умолчанию
// @Security BearerAuth
// @Tags profile
// @Accept json
// @Produce json
// @Param address body dto.AddressRequest true "Адрес"
// @Success 201 {object} dto.AddressResponse
// @Failure 400 {object} dto.ValidationErrorResponse "Неверные данные"
// @Failure 401 {object} dto.UnauthorizedErrorResponse "Неавторизован"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/addresses [post]
func (h *AccountHandler) CreateAddress(c *gin.Context) {
	var req dto.AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, h.log, err)
		return
	}
	a, err := h.profile.CreateAddress(c.Request.Context(), service.AddressInput{
		Province:   req.Province,
		City:       req.City,
		Street:     req.Street,
		PostalCode: req.PostalCode,
		No:         req.No,
		IsDefault:  req.IsDefault,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewAddressResponse(a))
}

// SetDefaultAddress godoc
// @Summary Сделать адрес основным
// @Security BearerAuth
// @Tags profile
// @Produce json
// @Param id path string true "ID адреса"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ValidationErrorResponse "Неверный ID"
// @Failure 404 {object} dto.NotFoundErrorResponse "Адрес не найден"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/addresses/{id}/default [put]
func (h *AccountHandler) SetDefaultAddress(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.profile.SetDefaultAddress(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse("default address updated"))
}

// DeleteAddress godoc
// @Summary Удалить адрес
// @Security BearerAuth
// @Tags profile
// @Produce json
// @Param id path string true "ID адреса"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ValidationErrorResponse "Неверный ID"
// @Failure 404 {object} dto.NotFoundErrorResponse "Адрес не найден"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/addresses/{id} [delete]
func (h *AccountHandler) DeleteAddress(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.profile.DeleteAddress(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse("address deleted"))
}
