package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/BruksfildServices01/barber-agenda/internal/config"
	"github.com/BruksfildServices01/barber-agenda/internal/httperr"
)

const APIKeyHeader = "x-api-key"

// APIKeyMiddleware guards the agenda action API. A bcrypt hash in the config
// takes precedence over a plain key; with neither configured every request is
// rejected.
func APIKeyMiddleware(cfg *config.Config) gin.HandlerFunc {
	hash := []byte(cfg.APIKeyHash)
	plain := []byte(cfg.APIKey)

	return func(c *gin.Context) {
		key := c.GetHeader(APIKeyHeader)

		ok := false
		switch {
		case key == "":
		case len(hash) > 0:
			ok = bcrypt.CompareHashAndPassword(hash, []byte(key)) == nil
		case len(plain) > 0:
			ok = subtle.ConstantTimeCompare(plain, []byte(key)) == 1
		}

		if !ok {
			httperr.Abort(c, http.StatusUnauthorized, "unauthorized", "Não autorizado")
			return
		}

		c.Next()
	}
}
