package aggregation

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/nutrilog-backend/internal/cache"
	domain "github.com/yungbote/nutrilog-backend/internal/domain/nutrition"
	"github.com/yungbote/nutrilog-backend/internal/observability"
	"github.com/yungbote/nutrilog-backend/internal/pkg/logger"
)

const (
	DefaultDailyTTL  = 5 * time.Minute
	DefaultWeeklyTTL = time.Hour
)

// Source is the read side of the log store the engine recomputes from.
type Source interface {
	FetchEntries(ctx context.Context, userID uuid.UUID, rng domain.DateRange) ([]*domain.LoggedEntry, error)
	FetchUserTargets(ctx context.Context, userID uuid.UUID) (*domain.UserNutritionProfile, error)
}

type Config struct {
	DailyTTL  time.Duration
	WeeklyTTL time.Duration
	// InvalidateWeeklyOnWrite also drops the weekly aggregate containing a
	// written date. Off by default: weekly totals may then lag writes by up
	// to WeeklyTTL.
	InvalidateWeeklyOnWrite bool
	Now                     func() time.Time
}

type Engine struct {
	src    Source
	cache  cache.Store
	log    *logger.Logger
	cfg    Config
	tracer trace.Tracer
}

func NewEngine(src Source, store cache.Store, baseLog *logger.Logger, cfg Config) *Engine {
	if cfg.DailyTTL <= 0 {
		cfg.DailyTTL = DefaultDailyTTL
	}
	if cfg.WeeklyTTL <= 0 {
		cfg.WeeklyTTL = DefaultWeeklyTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Engine{
		src:    src,
		cache:  store,
		log:    baseLog.With("service", "AggregationEngine"),
		cfg:    cfg,
		tracer: otel.Tracer("nutrilog/aggregation"),
	}
}

// Daily returns the aggregate for one user and date. Per-meal detail is never
// cached: asking for it forces a recompute, which also refreshes the cached
// meal-less aggregate.
func (e *Engine) Daily(ctx context.Context, userID uuid.UUID, date string, includeMeals bool) (*domain.DailyAggregate, error) {
	const op = "aggregation.Daily"
	day, err := domain.ParseDate(date)
	if err != nil {
		return nil, domain.Validation(op, "invalid date %q", date)
	}
	date = domain.FormatDate(day)
	key := DailyKey(userID, date)

	ctx, span := e.tracer.Start(ctx, "Daily", trace.WithAttributes(
		attribute.String("nutrition.date", date),
		attribute.Bool("nutrition.include_meals", includeMeals),
	))
	defer span.End()

	if !includeMeals {
		var cached domain.DailyAggregate
		if cache.GetJSON(ctx, e.cache, e.log, key, &cached) {
			observability.Current().ObserveCacheLookup("daily", true)
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return &cached, nil
		}
		observability.Current().ObserveCacheLookup("daily", false)
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	started := time.Now()
	var (
		profile *domain.UserNutritionProfile
		entries []*domain.LoggedEntry
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := e.src.FetchUserTargets(gctx, userID)
		profile = p
		return err
	})
	g.Go(func() error {
		rows, err := e.src.FetchEntries(gctx, userID, domain.SingleDay(date))
		entries = rows
		return err
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		return nil, domain.Wrap(domain.CodeUpstreamUnavailable, op, err)
	}

	totals := domain.SumEntries(entries)
	targets := ResolveTargets(profile)
	agg := &domain.DailyAggregate{
		UserID:      userID,
		Date:        date,
		Totals:      totals,
		Targets:     targets,
		Percentages: domain.ComputePercentages(totals, targets),
		Remaining:   domain.ComputeRemaining(totals, targets),
		TotalFoods:  len(entries),
		ComputedAt:  e.cfg.Now().UTC(),
	}
	observability.Current().ObserveAggregateCompute("daily", time.Since(started))

	if !cache.SetJSON(ctx, e.cache, e.log, key, agg, e.cfg.DailyTTL) {
		e.log.Debug("daily aggregate not cached", "user_id", userID, "date", date)
	}
	if includeMeals {
		agg.Meals = domain.GroupByMeal(entries)
	}
	return agg, nil
}

// Weekly returns the Monday-to-Sunday aggregate for the week containing
// weekStart. Averages divide by the days that have entries, never by 7.
func (e *Engine) Weekly(ctx context.Context, userID uuid.UUID, weekStart string) (*domain.WeeklyAggregate, error) {
	const op = "aggregation.Weekly"
	day, err := domain.ParseDate(weekStart)
	if err != nil {
		return nil, domain.Validation(op, "invalid week_start %q", weekStart)
	}
	monday := domain.WeekStart(day)
	rng := domain.DateRange{
		From: domain.FormatDate(monday),
		To:   domain.FormatDate(monday.AddDate(0, 0, 6)),
	}
	key := WeeklyKey(userID, rng.From)

	ctx, span := e.tracer.Start(ctx, "Weekly", trace.WithAttributes(attribute.String("nutrition.week_start", rng.From)))
	defer span.End()

	var cached domain.WeeklyAggregate
	if cache.GetJSON(ctx, e.cache, e.log, key, &cached) {
		observability.Current().ObserveCacheLookup("weekly", true)
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return &cached, nil
	}
	observability.Current().ObserveCacheLookup("weekly", false)
	span.SetAttributes(attribute.Bool("cache.hit", false))

	started := time.Now()
	entries, err := e.src.FetchEntries(ctx, userID, rng)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		return nil, domain.Wrap(domain.CodeUpstreamUnavailable, op, err)
	}

	days := domain.GroupByDate(entries)
	var total domain.Nutrients
	for _, d := range days {
		total = total.Add(d.Totals)
	}
	agg := &domain.WeeklyAggregate{
		UserID:     userID,
		WeekStart:  rng.From,
		WeekEnd:    rng.To,
		Days:       days,
		Total:      total,
		Average:    weeklyAverage(total, len(days)),
		DaysLogged: len(days),
		ComputedAt: e.cfg.Now().UTC(),
	}
	observability.Current().ObserveAggregateCompute("weekly", time.Since(started))

	if !cache.SetJSON(ctx, e.cache, e.log, key, agg, e.cfg.WeeklyTTL) {
		e.log.Debug("weekly aggregate not cached", "user_id", userID, "week_start", rng.From)
	}
	return agg, nil
}

func weeklyAverage(total domain.Nutrients, daysLogged int) domain.Nutrients {
	divisor := float64(max(1, daysLogged))
	avg := total.Map(func(v float64) float64 { return domain.Round1(v / divisor) })
	avg.Calories = math.Round(total.Calories / divisor)
	return avg
}

// Trend returns per-day totals across the window, ordered by date. Days
// without entries are absent. Trends are never cached.
func (e *Engine) Trend(ctx context.Context, userID uuid.UUID, w Window) ([]domain.TrendPoint, error) {
	const op = "aggregation.Trend"
	rng, err := w.Range(e.cfg.Now())
	if err != nil {
		return nil, err
	}

	ctx, span := e.tracer.Start(ctx, "Trend", trace.WithAttributes(
		attribute.String("nutrition.from", rng.From),
		attribute.String("nutrition.to", rng.To),
	))
	defer span.End()

	entries, err := e.src.FetchEntries(ctx, userID, rng)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		return nil, domain.Wrap(domain.CodeUpstreamUnavailable, op, err)
	}
	return domain.GroupByDate(entries), nil
}

// InvalidateForDate drops cached aggregates covering date. It is safe to call
// concurrently; the end state is always "absent".
func (e *Engine) InvalidateForDate(ctx context.Context, userID uuid.UUID, date string) {
	day, err := domain.ParseDate(date)
	if err != nil {
		e.log.Warn("invalidate skipped, bad date", "user_id", userID, "date", date)
		return
	}
	keys := []string{DailyKey(userID, domain.FormatDate(day))}
	observability.Current().IncCacheInvalidation("daily")
	if e.cfg.InvalidateWeeklyOnWrite {
		keys = append(keys, WeeklyKey(userID, domain.FormatDate(domain.WeekStart(day))))
		observability.Current().IncCacheInvalidation("weekly")
	}
	if !e.cache.Del(ctx, keys...) {
		e.log.Warn("cache invalidation failed; aggregates may be stale until TTL", "user_id", userID, "date", date)
	}
}
