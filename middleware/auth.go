package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/quickbill-app/quickbill-backend/config"
	apperrors "github.com/quickbill-app/quickbill-backend/errors"
	"github.com/quickbill-app/quickbill-backend/logger"
)

// AuthMiddleware validates the Bearer token and stores the authenticated
// user's ID in the context under UserIDKey. Tokens are HS256 signed with the
// server's JWT secret; the subject claim carries the user ID.
func AuthMiddleware(cfg *config.ServerConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.GetLogger()

		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			_ = c.Error(apperrors.AuthenticationFailed("Authorization required"))
			c.Abort()
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(cfg.JwtSecretKey), nil
		}, jwt.WithValidMethods([]string{"HS256"}))
		if err != nil {
			log.Warnw("Token validation failed", "error", err, "path", c.Request.URL.Path)
			_ = c.Error(apperrors.AuthenticationFailed("Invalid or expired token"))
			c.Abort()
			return
		}

		subject, err := token.Claims.GetSubject()
		if err != nil || subject == "" {
			log.Warnw("Token missing subject claim", "path", c.Request.URL.Path)
			_ = c.Error(apperrors.AuthenticationFailed("Invalid token claims"))
			c.Abort()
			return
		}

		c.Set(string(UserIDKey), subject)
		c.Next()
	}
}
