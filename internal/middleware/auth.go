package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

const (
	// UserIDKey is the echo context key for the authenticated user's ID
	UserIDKey = "user_id"
)

// AuthMiddleware validates the session tokens issued by the auth service
type AuthMiddleware struct {
	secret []byte
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(secret string) *AuthMiddleware {
	return &AuthMiddleware{secret: []byte(secret)}
}

// Authenticate returns an echo middleware that validates the bearer token
// and stores the authenticated user ID in the request context.
func (m *AuthMiddleware) Authenticate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			tokenString, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || tokenString == "" {
				return unauthorized(c, "Authentication required")
			}

			token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return m.secret, nil
			})
			if err != nil || !token.Valid {
				log.Debug().Err(err).Msg("Token validation failed")
				return unauthorized(c, "Invalid or expired token")
			}

			subject, err := token.Claims.GetSubject()
			if err != nil {
				return unauthorized(c, "Invalid or expired token")
			}
			userID, err := uuid.Parse(subject)
			if err != nil {
				return unauthorized(c, "Invalid or expired token")
			}

			c.Set(UserIDKey, userID)
			return next(c)
		}
	}
}

// GetUserID returns the authenticated user's ID from the context, or
// uuid.Nil if the request was not authenticated.
func GetUserID(c echo.Context) uuid.UUID {
	if id, ok := c.Get(UserIDKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}

func unauthorized(c echo.Context, message string) error {
	return c.JSON(http.StatusUnauthorized, map[string]string{
		"status":  "failed",
		"message": message,
	})
}
