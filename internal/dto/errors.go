package dto

// Машинные коды ошибок API
const (
	CodeValidation   = "validation_error"
	CodeConflict     = "conflict"
	CodeUnauthorized = "unauthorized"
	CodeForbidden    = "forbidden"
	CodeNotFound     = "not_found"
	CodeRateLimited  = "rate_limited"
	CodeInternal     = "internal_error"
)

// BaseError: тело любого ответа с ошибкой.
// Available заполняется только при нехватке остатка по варианту товара.
type BaseError struct {
	Code      string       `json:"code" example:"validation_error"`
	Message   string       `json:"message" example:"insufficient stock"`
	Details   string       `json:"details,omitempty" example:"Only 3 items available in stock."`
	Available *int         `json:"available,omitempty" example:"3"`
	Fields    []FieldError `json:"fields,omitempty"`
}

type FieldError struct {
	Field   string `json:"field" example:"quantity"`
	Message string `json:"message"`
	Tag     string `json:"tag,omitempty" example:"min"`
}

// Типы ниже различаются только для @Failure в swagger

type ValidationErrorResponse BaseError
type ConflictErrorResponse BaseError
type UnauthorizedErrorResponse BaseError
type ForbiddenErrorResponse BaseError
type NotFoundErrorResponse BaseError
type RateLimitedErrorResponse BaseError
type InternalErrorResponse BaseError

func newError(code, msg string) BaseError {
	return BaseError{Code: code, Message: msg}
}

func NewValidationError(msg string, fields []FieldError) ValidationErrorResponse {
	e := newError(CodeValidation, msg)
	e.Fields = fields
	return ValidationErrorResponse(e)
}

// NewInsufficientStockError: 400 с остатком выбранного варианта
func NewInsufficientStockError(msg, details string, available int) ValidationErrorResponse {
	e := newError(CodeValidation, msg)
	e.Details = details
	e.Available = &available
	return ValidationErrorResponse(e)
}

func NewConflictError(msg string) ConflictErrorResponse {
	return ConflictErrorResponse(newError(CodeConflict, msg))
}

func NewUnauthorizedError(msg string) UnauthorizedErrorResponse {
	return UnauthorizedErrorResponse(newError(CodeUnauthorized, msg))
}

func NewForbiddenError(msg string) ForbiddenErrorResponse {
	return ForbiddenErrorResponse(newError(CodeForbidden, msg))
}

func NewNotFoundError(msg string) NotFoundErrorResponse {
	return NotFoundErrorResponse(newError(CodeNotFound, msg))
}

func NewRateLimitedError(msg string) RateLimitedErrorResponse {
	return RateLimitedErrorResponse(newError(CodeRateLimited, msg))
}

// NewInternalError не раскрывает причину клиенту
func NewInternalError() InternalErrorResponse {
	return InternalErrorResponse(newError(CodeInternal, "internal server error"))
}

type SuccessResponse struct {
	Message string `json:"message" example:"ok"`
}

func NewSuccessResponse(msg string) SuccessResponse {
	return SuccessResponse{Message: msg}
}
