package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/nutrilog-backend/internal/aggregation"
	domain "github.com/yungbote/nutrilog-backend/internal/domain/nutrition"
	"github.com/yungbote/nutrilog-backend/internal/logstore"
	"github.com/yungbote/nutrilog-backend/internal/observability"
	"github.com/yungbote/nutrilog-backend/internal/pkg/logger"
	"github.com/yungbote/nutrilog-backend/internal/ratelimit"
	"github.com/yungbote/nutrilog-backend/internal/resolver"
)

type NutritionService interface {
	LogEntry(ctx context.Context, userID uuid.UUID, req LogEntryRequest) (*domain.LoggedEntry, error)
	UpdateEntry(ctx context.Context, userID, entryID uuid.UUID, req UpdateEntryRequest) (*domain.LoggedEntry, error)
	DeleteEntry(ctx context.Context, userID, entryID uuid.UUID) error
	// DailySummary defaults date to today (UTC) when blank.
	DailySummary(ctx context.Context, userID uuid.UUID, date string, includeMeals bool) (*domain.DailyAggregate, error)
	// WeeklySummary defaults weekStart to the current week when nil.
	WeeklySummary(ctx context.Context, userID uuid.UUID, weekStart *string) (*domain.WeeklyAggregate, error)
	Trend(ctx context.Context, userID uuid.UUID, req TrendRequest) ([]domain.TrendPoint, error)
	CheckRateLimit(ctx context.Context, userID uuid.UUID, class string) (ratelimit.Result, error)
}

type nutritionService struct {
	log      *logger.Logger
	store    logstore.Store
	resolver *resolver.Resolver
	engine   *aggregation.Engine
	limiter  *ratelimit.Limiter
	now      func() time.Time
}

func NewNutritionService(
	baseLog *logger.Logger,
	store logstore.Store,
	res *resolver.Resolver,
	engine *aggregation.Engine,
	limiter *ratelimit.Limiter,
	now func() time.Time,
) NutritionService {
	if now == nil {
		now = time.Now
	}
	return &nutritionService{
		log:      baseLog.With("service", "NutritionService"),
		store:    store,
		resolver: res,
		engine:   engine,
		limiter:  limiter,
		now:      now,
	}
}

func requireUser(op string, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return domain.Validation(op, "user id is required")
	}
	return nil
}

func (s *nutritionService) LogEntry(ctx context.Context, userID uuid.UUID, req LogEntryRequest) (*domain.LoggedEntry, error) {
	const op = "NutritionService.LogEntry"
	if err := requireUser(op, userID); err != nil {
		return nil, err
	}
	if err := validateAmount(op, req.Amount); err != nil {
		return nil, err
	}
	unit, err := validateUnit(op, req.Unit)
	if err != nil {
		return nil, err
	}
	meal, err := validateMealType(op, req.MealType)
	if err != nil {
		return nil, err
	}
	date, err := normaliseDate(op, req.LogDate, s.now())
	if err != nil {
		return nil, err
	}
	logTime, err := parseLogTime(op, req.LogTime)
	if err != nil {
		return nil, err
	}
	if err := validateNutrients(op, req.Nutrients); err != nil {
		return nil, err
	}

	res, err := s.resolver.Resolve(ctx, userID, resolver.Request{
		CustomFoodID:  req.CustomFoodID,
		CatalogFoodID: req.CatalogFoodID,
		FoodName:      req.FoodName,
		Amount:        req.Amount,
		Manual:        req.Nutrients,
	})
	if err != nil {
		observability.Current().ObserveResolution("unknown", string(domain.CodeOf(err)))
		return nil, err
	}
	observability.Current().ObserveResolution(string(res.Source), "ok")

	entry := &domain.LoggedEntry{
		UserID:    userID,
		FoodName:  res.Label,
		Amount:    req.Amount,
		Unit:      unit,
		MealType:  meal,
		LogDate:   date,
		LogTime:   logTime,
		Nutrients: res.Nutrients,
	}
	switch res.Source {
	case domain.SourceCustom:
		entry.CustomFoodID = req.CustomFoodID
	case domain.SourceCatalog:
		entry.CatalogFoodID = req.CatalogFoodID
	}

	stored, err := s.store.InsertEntry(ctx, entry)
	if err != nil {
		s.log.Error("LogEntry insert failed", "user_id", userID, "error", err)
		return nil, err
	}
	s.engine.InvalidateForDate(ctx, userID, stored.LogDate)
	s.log.Debug("entry logged", "user_id", userID, "entry_id", stored.ID, "date", stored.LogDate, "source", res.Source)
	return stored, nil
}

func (s *nutritionService) UpdateEntry(ctx context.Context, userID, entryID uuid.UUID, req UpdateEntryRequest) (*domain.LoggedEntry, error) {
	const op = "NutritionService.UpdateEntry"
	if err := requireUser(op, userID); err != nil {
		return nil, err
	}

	var patch domain.EntryPatch
	if req.Amount != nil {
		if err := validateAmount(op, *req.Amount); err != nil {
			return nil, err
		}
		patch.Amount = req.Amount
	}
	if req.Unit != nil {
		unit, err := validateUnit(op, *req.Unit)
		if err != nil {
			return nil, err
		}
		patch.Unit = &unit
	}
	if req.MealType != nil {
		meal, err := validateMealType(op, *req.MealType)
		if err != nil {
			return nil, err
		}
		patch.MealType = &meal
	}
	if req.LogTime != nil {
		lt, err := parseLogTime(op, *req.LogTime)
		if err != nil {
			return nil, err
		}
		if lt == nil {
			return nil, domain.Validation(op, "log_time must not be blank")
		}
		patch.LogTime = lt
	}
	if patch.Empty() {
		return nil, domain.Validation(op, "no updatable fields supplied")
	}

	if patch.Amount != nil {
		current, err := s.store.GetEntry(ctx, entryID, userID)
		if err != nil {
			return nil, err
		}
		if *patch.Amount != current.Amount {
			n, err := s.resolver.Rescale(ctx, current, *patch.Amount)
			if err != nil {
				return nil, err
			}
			patch.Nutrients = &n
		}
	}

	updated, err := s.store.UpdateEntry(ctx, entryID, userID, patch)
	if err != nil {
		return nil, err
	}
	s.engine.InvalidateForDate(ctx, userID, updated.LogDate)
	return updated, nil
}

func (s *nutritionService) DeleteEntry(ctx context.Context, userID, entryID uuid.UUID) error {
	const op = "NutritionService.DeleteEntry"
	if err := requireUser(op, userID); err != nil {
		return err
	}
	date, err := s.store.DeleteEntry(ctx, entryID, userID)
	if err != nil {
		return err
	}
	s.engine.InvalidateForDate(ctx, userID, date)
	return nil
}

func (s *nutritionService) DailySummary(ctx context.Context, userID uuid.UUID, date string, includeMeals bool) (*domain.DailyAggregate, error) {
	const op = "NutritionService.DailySummary"
	if err := requireUser(op, userID); err != nil {
		return nil, err
	}
	day, err := normaliseDate(op, date, s.now())
	if err != nil {
		return nil, err
	}
	return s.engine.Daily(ctx, userID, day, includeMeals)
}

func (s *nutritionService) WeeklySummary(ctx context.Context, userID uuid.UUID, weekStart *string) (*domain.WeeklyAggregate, error) {
	const op = "NutritionService.WeeklySummary"
	if err := requireUser(op, userID); err != nil {
		return nil, err
	}
	raw := ""
	if weekStart != nil {
		raw = *weekStart
	}
	day, err := normaliseDate(op, raw, s.now())
	if err != nil {
		return nil, err
	}
	return s.engine.Weekly(ctx, userID, day)
}

func (s *nutritionService) Trend(ctx context.Context, userID uuid.UUID, req TrendRequest) ([]domain.TrendPoint, error) {
	const op = "NutritionService.Trend"
	if err := requireUser(op, userID); err != nil {
		return nil, err
	}
	return s.engine.Trend(ctx, userID, aggregation.Window{
		Period:    req.Period,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	})
}

func (s *nutritionService) CheckRateLimit(ctx context.Context, userID uuid.UUID, class string) (ratelimit.Result, error) {
	const op = "NutritionService.CheckRateLimit"
	if err := requireUser(op, userID); err != nil {
		return ratelimit.Result{}, err
	}
	return s.limiter.CheckUser(ctx, userID, strings.TrimSpace(class))
}
