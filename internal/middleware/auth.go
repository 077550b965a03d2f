package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	apperrors "github.com/mkurosawa/task-manager-api/internal/errors"
	"github.com/mkurosawa/task-manager-api/internal/services"
)

const principalKey = "principal"

// RequireAuth validates the Authorization bearer token and stores the
// authenticated principal in the request context.
func RequireAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			apperrors.Respond(c, apperrors.Unauthenticated("User not authenticated"))
			c.Abort()
			return
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return secret, nil
		})
		if err != nil || !token.Valid {
			apperrors.Respond(c, apperrors.Unauthenticated("Invalid or expired token"))
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			apperrors.Respond(c, apperrors.Unauthenticated("Invalid or expired token"))
			c.Abort()
			return
		}
		sub, _ := claims["sub"].(string)
		role, _ := claims["role"].(string)
		if sub == "" {
			apperrors.Respond(c, apperrors.Unauthenticated("Invalid or expired token"))
			c.Abort()
			return
		}

		c.Set(principalKey, services.Principal{UserID: sub, Role: role})
		c.Next()
	}
}

// GetPrincipal returns the principal stored by RequireAuth. The zero
// principal is returned for unauthenticated requests.
func GetPrincipal(c *gin.Context) services.Principal {
	value, exists := c.Get(principalKey)
	if !exists {
		return services.Principal{}
	}
	p, ok := value.(services.Principal)
	if !ok {
		return services.Principal{}
	}
	return p
}
