package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/barber-agenda/internal/config"
	"github.com/BruksfildServices01/barber-agenda/internal/httperr"
)

const (
	ContextUserID   = "userID"
	ContextUnitID   = "unitID"
	ContextUserRole = "userRole"
)

func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httperr.Abort(c, http.StatusUnauthorized, "missing_authorization_header", "Não autorizado")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			httperr.Abort(c, http.StatusUnauthorized, "invalid_authorization_header", "Não autorizado")
			return
		}

		tokenString := parts[1]

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {

			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenMalformed
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			httperr.Abort(c, http.StatusUnauthorized, "invalid_token", "Não autorizado")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			httperr.Abort(c, http.StatusUnauthorized, "invalid_token_claims", "Não autorizado")
			return
		}

		rawUnit, _ := claims["unitId"].(string)
		unitID, err := uuid.Parse(rawUnit)
		if err != nil {
			httperr.Abort(c, http.StatusUnauthorized, "invalid_token_payload", "Não autorizado")
			return
		}

		userID, _ := claims["sub"].(string)
		role, _ := claims["role"].(string)

		c.Set(ContextUserID, userID)
		c.Set(ContextUnitID, unitID)
		c.Set(ContextUserRole, role)

		c.Next()
	}
}

// UnitID returns the unit of the authenticated staff member.
func UnitID(c *gin.Context) uuid.UUID {
	return c.MustGet(ContextUnitID).(uuid.UUID)
}

// Actor returns the staff user id for audit entries, or nil.
func Actor(c *gin.Context) *string {
	if v, ok := c.Get(ContextUserID); ok {
		if s, _ := v.(string); s != "" {
			return &s
		}
	}
	return nil
}
