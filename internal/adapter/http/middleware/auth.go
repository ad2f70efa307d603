package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskmanager/internal/core/ports"
	"taskmanager/pkg/apierrors"
)

const userIDKey = "user_id"

// AuthMiddleware resolves the bearer token into a user id, or aborts with 401.
func AuthMiddleware(resolver ports.IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := GetLang(c)

		header := c.GetHeader("Authorization")
		if header == "" {
			abortUnauthorized(c, apierrors.MsgUnauthorized, lang)
			return
		}

		scheme, token, ok := strings.Cut(header, " ")
		token = strings.TrimSpace(token)
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			abortUnauthorized(c, apierrors.MsgInvalidToken, lang)
			return
		}

		identity, err := resolver.ResolveIdentity(c.Request.Context(), token)
		if err != nil {
			zap.L().Debug("identity resolution failed", zap.String("request_id", GetRequestID(c)), zap.Error(err))
			abortUnauthorized(c, apierrors.MsgInvalidToken, lang)
			return
		}

		c.Set(userIDKey, identity.UserID)
		c.Next()
	}
}

// GetUserID returns the caller resolved by AuthMiddleware.
func GetUserID(c *gin.Context) (string, bool) {
	userID := c.GetString(userIDKey)
	return userID, userID != ""
}

func abortUnauthorized(c *gin.Context, msgKey, lang string) {
	c.AbortWithStatusJSON(
		http.StatusUnauthorized,
		apierrors.CreateError(http.StatusUnauthorized, msgKey, lang),
	)
}
