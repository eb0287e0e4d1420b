package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"shop-service/internal/dto"
	"shop-service/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	notFoundErrs = []error{
		service.ErrNotFound,
		service.ErrCartNotFound,
		service.ErrProductNotFound,
		service.ErrOrderNotFound,
		service.ErrAddressNotFound,
	}
	badRequestErrs = []error{
		service.ErrInvalidVariant,
		service.ErrOutOfStock,
		service.ErrInvalidDiscountCode,
		service.ErrValidation,
		service.ErrOTPExpired,
		service.ErrOTPIncorrect,
		service.ErrInvalidTransition,
	}
)

// сообщения для покупателя по ошибкам корзины
var publicMessages = []struct {
	err error
	msg string
}{
	{service.ErrCartNotFound, "No active cart found."},
	{service.ErrOutOfStock, "No stock found for this combination."},
	{service.ErrInvalidDiscountCode, "Invalid discount code."},
	{service.ErrAlreadyConfirmed, "Order already confirmed."},
}

func publicMessage(err error) string {
	for _, m := range publicMessages {
		if errors.Is(err, m.err) {
			return m.msg
		}
	}
	return err.Error()
}

func isAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// respondError переводит ошибку сервисного слоя в HTTP-ответ
func respondError(c *gin.Context, log *zap.Logger, err error) {
	var stockErr *service.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		c.JSON(http.StatusBadRequest, dto.NewInsufficientStockError(service.ErrInsufficientStock.Error(),
			fmt.Sprintf("Only %d items available in stock.", stockErr.Available), stockErr.Available))
	case isAny(err, notFoundErrs):
		c.JSON(http.StatusNotFound, dto.NewNotFoundError(publicMessage(err)))
	case isAny(err, badRequestErrs):
		c.JSON(http.StatusBadRequest, dto.NewValidationError(publicMessage(err), nil))
	case errors.Is(err, service.ErrForbidden), errors.Is(err, service.ErrNotActive):
		c.JSON(http.StatusForbidden, dto.NewForbiddenError(err.Error()))
	case errors.Is(err, service.ErrAlreadyConfirmed), errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, dto.NewConflictError(publicMessage(err)))
	case errors.Is(err, service.ErrUnauthorized), errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidRefresh):
		c.JSON(http.StatusUnauthorized, dto.NewUnauthorizedError(err.Error()))
	case errors.Is(err, service.ErrTooManyRequests):
		c.JSON(http.StatusTooManyRequests, dto.NewRateLimitedError(err.Error()))
	default:
		log.Error("Внутренняя ошибка",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, dto.NewInternalError())
	}
}

// respondBindError отдаёт 400 с ошибками по полям, если их удалось извлечь
func respondBindError(c *gin.Context, log *zap.Logger, err error) {
	log.Warn("Некорректный запрос", zap.String("path", c.FullPath()), zap.Error(err))
	fields := []dto.FieldError{}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fields = append(fields, dto.FieldError{
				Field:   strings.ToLower(fe.Field()),
				Message: fe.Error(),
				Tag:     fe.Tag(),
			})
		}
	}
	c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid request body", fields))
}

// pathUUID разбирает uuid из параметра пути, при ошибке сам пишет 400
func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid "+name, []dto.FieldError{
			{Field: name, Message: "must be a valid uuid", Tag: "uuid"},
		}))
		return uuid.Nil, false
	}
	return id, true
}

func parseOptionalUUID(s *string) (*uuid.UUID, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
