package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/nutrilog-backend/internal/http/response"
	"github.com/yungbote/nutrilog-backend/internal/pkg/ctxutil"
	"github.com/yungbote/nutrilog-backend/internal/services"
)

type SummaryHandler struct {
	nutrition services.NutritionService
}

func NewSummaryHandler(nutrition services.NutritionService) *SummaryHandler {
	return &SummaryHandler{nutrition: nutrition}
}

// GET /api/summary/daily?date=&include_meals=
func (h *SummaryHandler) Daily(c *gin.Context) {
	includeMeals := false
	if raw := strings.TrimSpace(c.Query("include_meals")); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_include_meals", err)
			return
		}
		includeMeals = v
	}
	agg, err := h.nutrition.DailySummary(c.Request.Context(), ctxutil.UserID(c.Request.Context()), c.Query("date"), includeMeals)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"summary": agg})
}

// GET /api/summary/weekly?week_start=
func (h *SummaryHandler) Weekly(c *gin.Context) {
	var weekStart *string
	if raw, ok := c.GetQuery("week_start"); ok && strings.TrimSpace(raw) != "" {
		weekStart = &raw
	}
	agg, err := h.nutrition.WeeklySummary(c.Request.Context(), ctxutil.UserID(c.Request.Context()), weekStart)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"summary": agg})
}

// GET /api/trend?period= or ?start_date=&end_date=
func (h *SummaryHandler) Trend(c *gin.Context) {
	var req services.TrendRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_query", err)
		return
	}
	points, err := h.nutrition.Trend(c.Request.Context(), ctxutil.UserID(c.Request.Context()), req)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"points": points})
}

// GET /api/rate-limit/:class
func (h *SummaryHandler) RateLimit(c *gin.Context) {
	res, err := h.nutrition.CheckRateLimit(c.Request.Context(), ctxutil.UserID(c.Request.Context()), c.Param("class"))
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"class":         c.Param("class"),
		"allowed":       res.Allowed,
		"reset_seconds": res.ResetSeconds,
		"limit":         res.Limit,
		"count":         res.Count,
	})
}
