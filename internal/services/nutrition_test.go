package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/nutrilog-backend/internal/aggregation"
	"github.com/yungbote/nutrilog-backend/internal/cache"
	"github.com/yungbote/nutrilog-backend/internal/data/repos/testutil"
	domain "github.com/yungbote/nutrilog-backend/internal/domain/nutrition"
	"github.com/yungbote/nutrilog-backend/internal/logstore"
	"github.com/yungbote/nutrilog-backend/internal/pkg/pointers"
	"github.com/yungbote/nutrilog-backend/internal/ratelimit"
	"github.com/yungbote/nutrilog-backend/internal/resolver"
)

var testNow = time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)

type harness struct {
	svc   NutritionService
	db    *gorm.DB
	cache *cache.MemoryStore
}

func newHarness(t *testing.T, policies ratelimit.Policies) *harness {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	now := func() time.Time { return testNow }

	store := logstore.New(db, log, logstore.Config{})
	mem := cache.NewMemoryStore().WithClock(now)
	engine := aggregation.NewEngine(store, mem, log, aggregation.Config{Now: now})
	if policies == nil {
		policies = ratelimit.DefaultPolicies()
	}
	limiter := ratelimit.NewLimiter(log, mem, policies)
	svc := NewNutritionService(log, store, resolver.New(store, log), engine, limiter, now)
	return &harness{svc: svc, db: db, cache: mem}
}

func TestCustomFoodEndToEnd(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	user := uuid.New()
	food := testutil.SeedCustomFood(t, ctx, h.db, user, domain.Nutrients{Calories: 100})

	entry, err := h.svc.LogEntry(ctx, user, LogEntryRequest{
		CustomFoodID: &food.ID,
		Amount:       1.5,
		Unit:         "serving",
		MealType:     "lunch",
		LogDate:      "2026-10-19",
	})
	if err != nil {
		t.Fatalf("LogEntry: %v", err)
	}
	if entry.Calories != 150 || entry.CustomFoodID == nil || entry.FoodName != "custom food" {
		t.Fatalf("entry=%+v", entry)
	}

	agg, err := h.svc.DailySummary(ctx, user, "2026-10-19", false)
	if err != nil {
		t.Fatalf("DailySummary: %v", err)
	}
	if agg.Totals.Calories != 150 || agg.TotalFoods != 1 {
		t.Fatalf("totals=%+v", agg)
	}
	if agg.Targets.Calories != 2000 || agg.Percentages.Calories == nil || *agg.Percentages.Calories != 8 {
		t.Fatalf("percentages=%+v targets=%+v", agg.Percentages, agg.Targets)
	}
	if agg.Remaining.Calories != 1850 {
		t.Fatalf("remaining=%v", agg.Remaining.Calories)
	}
}

func TestLogEntryInvalidatesStaleDaily(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	user := uuid.New()

	stale := domain.DailyAggregate{UserID: user, Date: "2026-10-19", Totals: domain.Nutrients{Calories: 9999}, TotalFoods: 7}
	if !cache.SetJSON(ctx, h.cache, nil, aggregation.DailyKey(user, "2026-10-19"), stale, time.Hour) {
		t.Fatalf("seed stale cache")
	}

	if _, err := h.svc.LogEntry(ctx, user, LogEntryRequest{
		FoodName:  "apple",
		Amount:    1,
		Unit:      "each",
		MealType:  "snack",
		Nutrients: &domain.Nutrients{Calories: 95, Fiber: 4.4},
	}); err != nil {
		t.Fatalf("LogEntry: %v", err)
	}

	agg, err := h.svc.DailySummary(ctx, user, "", false)
	if err != nil {
		t.Fatalf("DailySummary: %v", err)
	}
	if agg.Totals.Calories != 95 || agg.TotalFoods != 1 || agg.Totals.Fiber != 4.4 {
		t.Fatalf("stale aggregate served: %+v", agg.Totals)
	}
}

func TestUpdateAndDeleteEntry(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	user := uuid.New()
	food := testutil.SeedCustomFood(t, ctx, h.db, user, domain.Nutrients{Calories: 100, Protein: 5})

	sourced, err := h.svc.LogEntry(ctx, user, LogEntryRequest{CustomFoodID: &food.ID, Amount: 1, Unit: "bar", MealType: "breakfast", LogDate: "2026-10-18"})
	if err != nil {
		t.Fatalf("LogEntry sourced: %v", err)
	}
	manual, err := h.svc.LogEntry(ctx, user, LogEntryRequest{FoodName: "rice", Amount: 2, Unit: "cup", MealType: "dinner", LogDate: "2026-10-18", Nutrients: &domain.Nutrients{Calories: 400}})
	if err != nil {
		t.Fatalf("LogEntry manual: %v", err)
	}
	if _, err := h.svc.DailySummary(ctx, user, "2026-10-18", false); err != nil {
		t.Fatalf("warm cache: %v", err)
	}

	updated, err := h.svc.UpdateEntry(ctx, user, sourced.ID, UpdateEntryRequest{Amount: pointers.Float64(3), LogTime: pointers.String("07:45")})
	if err != nil {
		t.Fatalf("UpdateEntry sourced: %v", err)
	}
	if updated.Calories != 300 || updated.Protein != 15 || updated.LogTime == nil || updated.LogTime.String() != "07:45:00" {
		t.Fatalf("sourced update=%+v", updated)
	}
	if updated, err = h.svc.UpdateEntry(ctx, user, manual.ID, UpdateEntryRequest{Amount: pointers.Float64(1)}); err != nil || updated.Calories != 200 {
		t.Fatalf("manual update=%+v err=%v", updated, err)
	}
	if updated, err = h.svc.UpdateEntry(ctx, user, manual.ID, UpdateEntryRequest{MealType: pointers.String("snack")}); err != nil || updated.Calories != 200 || updated.MealType != domain.MealSnack {
		t.Fatalf("meal update=%+v err=%v", updated, err)
	}

	agg, err := h.svc.DailySummary(ctx, user, "2026-10-18", true)
	if err != nil || agg.Totals.Calories != 500 {
		t.Fatalf("daily after updates: %+v err=%v", agg, err)
	}
	if len(agg.Meals) != 2 || agg.Meals[1].MealType != domain.MealSnack {
		t.Fatalf("meals=%+v", agg.Meals)
	}

	if _, err := h.svc.UpdateEntry(ctx, user, manual.ID, UpdateEntryRequest{}); !domain.IsCode(err, domain.CodeValidation) {
		t.Fatalf("empty update err=%v", err)
	}
	if _, err := h.svc.UpdateEntry(ctx, uuid.New(), manual.ID, UpdateEntryRequest{Unit: pointers.String("g")}); !domain.IsCode(err, domain.CodeNotFound) {
		t.Fatalf("foreign update err=%v", err)
	}

	if err := h.svc.DeleteEntry(ctx, user, sourced.ID); err != nil {
		t.Fatalf("DeleteEntry: %v", err)
	}
	if err := h.svc.DeleteEntry(ctx, user, sourced.ID); !domain.IsCode(err, domain.CodeNotFound) {
		t.Fatalf("second delete err=%v", err)
	}
	agg, err = h.svc.DailySummary(ctx, user, "2026-10-18", false)
	if err != nil || agg.Totals.Calories != 200 || agg.TotalFoods != 1 {
		t.Fatalf("daily after delete: %+v err=%v", agg, err)
	}
}

func TestLogEntryValidation(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	user := uuid.New()
	missing := uuid.New()
	base := func() LogEntryRequest {
		return LogEntryRequest{FoodName: "x", Amount: 1, Unit: "g", MealType: "lunch"}
	}

	cases := []struct {
		name string
		mut  func(r *LogEntryRequest)
		code domain.ErrorCode
	}{
		{"zero amount", func(r *LogEntryRequest) { r.Amount = 0 }, domain.CodeValidation},
		{"amount too large", func(r *LogEntryRequest) { r.Amount = 10001 }, domain.CodeValidation},
		{"blank unit", func(r *LogEntryRequest) { r.Unit = "  " }, domain.CodeValidation},
		{"long unit", func(r *LogEntryRequest) { r.Unit = strings.Repeat("u", 21) }, domain.CodeValidation},
		{"bad meal", func(r *LogEntryRequest) { r.MealType = "brunch" }, domain.CodeValidation},
		{"bad date", func(r *LogEntryRequest) { r.LogDate = "2026-13-01" }, domain.CodeValidation},
		{"bad time", func(r *LogEntryRequest) { r.LogTime = "25:00" }, domain.CodeValidation},
		{"negative nutrient", func(r *LogEntryRequest) { r.Nutrients = &domain.Nutrients{Sodium: -1} }, domain.CodeValidation},
		{"no source", func(r *LogEntryRequest) { r.FoodName = "" }, domain.CodeInvalidSource},
		{"unknown custom food", func(r *LogEntryRequest) { r.CustomFoodID = &missing }, domain.CodeNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := base()
			tc.mut(&req)
			if _, err := h.svc.LogEntry(ctx, user, req); !domain.IsCode(err, tc.code) {
				t.Fatalf("err=%v, want %s", err, tc.code)
			}
		})
	}
	if _, err := h.svc.LogEntry(ctx, uuid.Nil, base()); !domain.IsCode(err, domain.CodeValidation) {
		t.Fatalf("nil user err=%v", err)
	}
}

func TestWeeklyAndTrend(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	user := uuid.New()
	for date, kcal := range map[string]float64{"2026-10-12": 1800, "2026-10-15": 2000, "2026-10-18": 2200} {
		testutil.SeedEntry(t, ctx, h.db, user, date, domain.MealLunch, domain.Nutrients{Calories: kcal})
	}

	weekly, err := h.svc.WeeklySummary(ctx, user, pointers.String("2026-10-14"))
	if err != nil || weekly.Average.Calories != 2000 || weekly.DaysLogged != 3 {
		t.Fatalf("weekly=%+v err=%v", weekly, err)
	}
	current, err := h.svc.WeeklySummary(ctx, user, nil)
	if err != nil || current.WeekStart != "2026-10-19" || current.DaysLogged != 0 {
		t.Fatalf("current week=%+v err=%v", current, err)
	}

	points, err := h.svc.Trend(ctx, user, TrendRequest{Period: "week"})
	if err != nil || len(points) != 2 || points[0].Date != "2026-10-15" {
		t.Fatalf("trend=%+v err=%v", points, err)
	}
}

func TestCheckRateLimit(t *testing.T) {
	policies, err := ratelimit.ParsePolicies([]byte("classes:\n  - name: trend_analysis\n    limit: 3\n    window_seconds: 60\n"))
	if err != nil {
		t.Fatalf("ParsePolicies: %v", err)
	}
	h := newHarness(t, policies)
	ctx := context.Background()
	user := uuid.New()

	var got []bool
	for i := 0; i < 4; i++ {
		res, err := h.svc.CheckRateLimit(ctx, user, "trend_analysis")
		if err != nil {
			t.Fatalf("CheckRateLimit: %v", err)
		}
		got = append(got, res.Allowed)
		if !res.Allowed && res.ResetSeconds != 60 {
			t.Fatalf("reset=%d, want 60", res.ResetSeconds)
		}
	}
	want := []bool{true, true, true, false}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("allowed=%v, want %v", got, want)
		}
	}
	if _, err := h.svc.CheckRateLimit(ctx, user, "image_analysis"); !domain.IsCode(err, domain.CodeValidation) {
		t.Fatalf("unknown class err=%v", err)
	}
}
