package response

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domain "github.com/yungbote/nutrilog-backend/internal/domain/nutrition"
)

type APIError struct {
	Message      string `json:"message"`
	Code         string `json:"code,omitempty"`
	Retryable    bool   `json:"retryable,omitempty"`
	ResetSeconds int    `json:"reset_seconds,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondDomainError maps a nutrition error code onto an HTTP status. Errors
// without a code are reported as internal without leaking their text.
func RespondDomainError(c *gin.Context, err error) {
	de, ok := domain.AsError(err)
	if !ok {
		RespondError(c, http.StatusInternalServerError, string(domain.CodeInternal), nil)
		return
	}
	status := StatusFor(de.Code)
	body := APIError{
		Message:   de.Error(),
		Code:      string(de.Code),
		Retryable: de.Retryable(),
	}
	switch de.Code {
	case domain.CodeRateLimited:
		body.ResetSeconds = de.RetryAfter
		c.Header("Retry-After", strconv.Itoa(de.RetryAfter))
	case domain.CodeUpstreamUnavailable, domain.CodeInternal:
		// Upstream causes may carry driver detail.
		body.Message = string(de.Code)
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{Error: body})
}

func StatusFor(code domain.ErrorCode) int {
	switch code {
	case domain.CodeValidation, domain.CodeInvalidSource:
		return http.StatusBadRequest
	case domain.CodeNotFound:
		return http.StatusNotFound
	case domain.CodeRateLimited:
		return http.StatusTooManyRequests
	case domain.CodeUpstreamUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
