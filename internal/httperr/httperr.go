package httperr

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Success bool   `json:"success"`
	Code    string `json:"error_code"`
	Message string `json:"error"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Success: false,
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func Abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, HTTPError{
		Success: false,
		Code:    code,
		Message: message,
	})
}

// Status maps an error kind to its HTTP status.
func Status(k Kind) int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict, KindTooRecent:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Respond renders err as a failure response. Internal details stay in the log.
func Respond(c *gin.Context, err error) {
	be := asBusiness(err)

	if be.Kind == KindInternal {
		slog.ErrorContext(c.Request.Context(), "request failed",
			"path", c.FullPath(),
			"code", be.Code,
			"err", err,
		)
		Write(c, http.StatusInternalServerError, be.Code, "Erro interno")
		return
	}

	body := gin.H{
		"success":    false,
		"error_code": be.Code,
		"error":      be.Message,
	}
	if be.Kind == KindTooRecent {
		body["retryable"] = true
	}
	c.JSON(Status(be.Kind), body)
}

func asBusiness(err error) BusinessError {
	var be BusinessError
	if errors.As(err, &be) {
		return be
	}
	return BusinessError{Kind: KindInternal, Code: "internal_error", Err: err}
}
