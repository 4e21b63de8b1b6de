package http

import (
	"context"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yungbote/nutrilog-backend/internal/aggregation"
	"github.com/yungbote/nutrilog-backend/internal/cache"
	"github.com/yungbote/nutrilog-backend/internal/data/repos/testutil"
	httpH "github.com/yungbote/nutrilog-backend/internal/http/handlers"
	httpMW "github.com/yungbote/nutrilog-backend/internal/http/middleware"
	"github.com/yungbote/nutrilog-backend/internal/logstore"
	"github.com/yungbote/nutrilog-backend/internal/observability"
	"github.com/yungbote/nutrilog-backend/internal/ratelimit"
	"github.com/yungbote/nutrilog-backend/internal/resolver"
	"github.com/yungbote/nutrilog-backend/internal/services"
)

const testSecret = "router-test-secret"

func newStack(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := testutil.Logger(t)
	db := testutil.DB(t)
	mem := cache.NewMemoryStore()

	policies, err := ratelimit.ParsePolicies([]byte("classes:\n  - name: daily_summary\n    limit: 2\n    window_seconds: 60\n  - name: weekly_summary\n    limit: 5\n    window_seconds: 3600\n  - name: trend_analysis\n    limit: 5\n    window_seconds: 3600\n"))
	if err != nil {
		t.Fatalf("ParsePolicies: %v", err)
	}
	store := logstore.New(db, log, logstore.Config{})
	engine := aggregation.NewEngine(store, mem, log, aggregation.Config{})
	svc := services.NewNutritionService(log, store, resolver.New(store, log), engine, ratelimit.NewLimiter(log, mem, policies), nil)

	m := observability.NewMetrics()
	r := NewRouter(RouterConfig{
		Log:            log,
		Metrics:        m,
		AuthMiddleware: httpMW.NewAuthMiddleware(log, httpMW.NewTokenVerifier(testSecret, "")),
		RateLimiter:    svc,
		EntryHandler:   httpH.NewEntryHandler(svc),
		SummaryHandler: httpH.NewSummaryHandler(svc),
		HealthHandler:  httpH.NewHealthHandler(store, mem),
	})
	return r
}

func bearer(t *testing.T, user uuid.UUID) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   user.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	s, err := tok.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return "Bearer " + s
}

func TestRouterEndToEnd(t *testing.T) {
	r := newStack(t)
	auth := bearer(t, uuid.New())

	send := func(method, target, body string, withAuth bool) *httptest.ResponseRecorder {
		var req *nethttp.Request
		if body != "" {
			req = httptest.NewRequest(method, target, strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
		} else {
			req = httptest.NewRequest(method, target, nil)
		}
		if withAuth {
			req.Header.Set("Authorization", auth)
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req.WithContext(context.Background()))
		return rec
	}

	if rec := send(nethttp.MethodGet, "/healthcheck", "", false); rec.Code != nethttp.StatusOK {
		t.Fatalf("healthcheck code=%d body=%s", rec.Code, rec.Body.String())
	}
	if rec := send(nethttp.MethodGet, "/api/summary/daily", "", false); rec.Code != nethttp.StatusUnauthorized {
		t.Fatalf("unauthenticated code=%d", rec.Code)
	}

	rec := send(nethttp.MethodPost, "/api/entries", `{"food_name":"oats","amount":2,"unit":"cup","meal_type":"breakfast","nutrients":{"calories":150,"protein":5}}`, true)
	if rec.Code != nethttp.StatusCreated {
		t.Fatalf("create code=%d body=%s", rec.Code, rec.Body.String())
	}

	rec = send(nethttp.MethodGet, "/api/summary/daily", "", true)
	if rec.Code != nethttp.StatusOK || !strings.Contains(rec.Body.String(), `"calories":150`) {
		t.Fatalf("daily code=%d body=%s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-RateLimit-Limit") != "2" {
		t.Fatalf("rate limit headers=%v", rec.Header())
	}

	send(nethttp.MethodGet, "/api/summary/daily", "", true)
	rec = send(nethttp.MethodGet, "/api/summary/daily", "", true)
	if rec.Code != nethttp.StatusTooManyRequests || rec.Header().Get("Retry-After") == "" {
		t.Fatalf("third daily code=%d headers=%v", rec.Code, rec.Header())
	}

	if rec := send(nethttp.MethodGet, "/api/trend?period=month", "", true); rec.Code != nethttp.StatusOK {
		t.Fatalf("trend code=%d body=%s", rec.Code, rec.Body.String())
	}

	rec = send(nethttp.MethodGet, "/metrics", "", false)
	if rec.Code != nethttp.StatusOK || !strings.Contains(rec.Body.String(), "/api/entries") {
		t.Fatalf("metrics code=%d body=%s", rec.Code, rec.Body.String())
	}
}
