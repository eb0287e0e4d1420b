package middleware

import (
	"net/http"
	"strings"

	"shop-service/internal/dto"
	"shop-service/internal/models"
	"shop-service/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthRequired проверяет access-токен и переносит id и роль покупателя
// в context.Context запроса, откуда их берут сервисы корзины и каталога.
func AuthRequired(tokens service.TokenProvider, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := ExtractBearerToken(c.GetHeader("Authorization"))
		if !ok || raw == "" {
			abortUnauthorized(c, "missing or malformed bearer token")
			return
		}

		claims, err := tokens.ParseAndValidateAccess(c.Request.Context(), raw)
		if err != nil {
			log.Debug("Отклонён access-токен", zap.String("path", c.FullPath()), zap.Error(err))
			abortUnauthorized(c, "invalid token")
			return
		}

		ctx := service.WithRole(service.WithUserID(c.Request.Context(), claims.UserID), models.Role(claims.Role))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireAdmin ставится после AuthRequired
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if role, _ := service.RoleFromContext(c.Request.Context()); role != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewForbiddenError("admin role required"))
			return
		}
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.Header("WWW-Authenticate", `Bearer realm="shop"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewUnauthorizedError(msg))
}

// ExtractBearerToken берёт первое слово после схемы Bearer.
// Кавычки вокруг токена и хвост после запятой отбрасываются.
func ExtractBearerToken(authz string) (string, bool) {
	scheme, rest, ok := strings.Cut(strings.TrimSpace(authz), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	fields := strings.FieldsFunc(rest, func(r rune) bool { return r == ' ' || r == ',' })
	if len(fields) == 0 {
		return "", true
	}
	return strings.Trim(fields[0], `"'`), true
}
