package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/nutrilog-backend/internal/cache"
	"github.com/yungbote/nutrilog-backend/internal/http/response"
	"github.com/yungbote/nutrilog-backend/internal/pkg/ctxutil"
	"github.com/yungbote/nutrilog-backend/internal/pkg/logger"
	"github.com/yungbote/nutrilog-backend/internal/ratelimit"
)

type limiterChecker struct{ l *ratelimit.Limiter }

func (c limiterChecker) CheckRateLimit(ctx context.Context, userID uuid.UUID, class string) (ratelimit.Result, error) {
	return c.l.CheckUser(ctx, userID, class)
}

func TestRateLimitGate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	policies, err := ratelimit.ParsePolicies([]byte("classes:\n  - name: trend_analysis\n    limit: 2\n    window_seconds: 3600\n"))
	if err != nil {
		t.Fatalf("ParsePolicies: %v", err)
	}
	checker := limiterChecker{ratelimit.NewLimiter(logger.Nop(), cache.NewMemoryStore(), policies)}
	user := uuid.New()

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Request = c.Request.WithContext(ctxutil.WithRequestData(c.Request.Context(), &ctxutil.RequestData{UserID: user}))
		c.Next()
	})
	r.GET("/trend", RateLimit(checker, ratelimit.ClassTrendAnalysis), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/other", RateLimit(checker, "nope"), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		last = httptest.NewRecorder()
		r.ServeHTTP(last, httptest.NewRequest(http.MethodGet, "/trend", nil))
		codes = append(codes, last.Code)
	}
	if codes[0] != 200 || codes[1] != 200 || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("codes=%v", codes)
	}
	if last.Header().Get("Retry-After") != "3600" || last.Header().Get("X-RateLimit-Remaining") != "0" {
		t.Fatalf("headers=%v", last.Header())
	}
	var env response.ErrorEnvelope
	if err := json.Unmarshal(last.Body.Bytes(), &env); err != nil || env.Error.ResetSeconds != 3600 {
		t.Fatalf("body=%s err=%v", last.Body.String(), err)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/other", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown class status=%d", rec.Code)
	}
}
