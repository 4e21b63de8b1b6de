package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domain "github.com/yungbote/nutrilog-backend/internal/domain/nutrition"
	"github.com/yungbote/nutrilog-backend/internal/http/response"
	"github.com/yungbote/nutrilog-backend/internal/pkg/ctxutil"
	"github.com/yungbote/nutrilog-backend/internal/ratelimit"
)

type RateLimitChecker interface {
	CheckRateLimit(ctx context.Context, userID uuid.UUID, class string) (ratelimit.Result, error)
}

// RateLimit gates a route on the caller's budget for class. It must run after
// RequireAuth.
func RateLimit(checker RateLimitChecker, class string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := ctxutil.UserID(c.Request.Context())
		if userID == uuid.Nil {
			response.RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("missing user"))
			return
		}
		res, err := checker.CheckRateLimit(c.Request.Context(), userID, class)
		if err != nil {
			response.RespondDomainError(c, err)
			return
		}
		SetRateLimitHeaders(c, res)
		if !res.Allowed {
			response.RespondDomainError(c, domain.RateLimited(class, res.ResetSeconds))
			return
		}
		c.Next()
	}
}

func SetRateLimitHeaders(c *gin.Context, res ratelimit.Result) {
	if res.Limit <= 0 {
		return
	}
	c.Header("X-RateLimit-Limit", strconv.Itoa(res.Limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(max(0, res.Limit-res.Count)))
	c.Header("X-RateLimit-Reset", strconv.Itoa(res.ResetSeconds))
}
