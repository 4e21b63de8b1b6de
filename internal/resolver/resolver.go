package resolver

import (
	"context"
	"math"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	domain "github.com/yungbote/nutrilog-backend/internal/domain/nutrition"
	"github.com/yungbote/nutrilog-backend/internal/pkg/logger"
)

// MaxAmount bounds the serving multiplier accepted for any source.
const MaxAmount = 10000

// Sources is the subset of the log store the resolver reads from.
type Sources interface {
	FetchCustomFood(ctx context.Context, id, userID uuid.UUID) (*domain.CustomFood, error)
	FetchCatalogNutrients(ctx context.Context, foodID int64) ([]domain.CatalogNutrient, error)
}

// Request names the food source of an entry. When more than one reference is
// set, custom beats catalog beats free text.
type Request struct {
	CustomFoodID  *uuid.UUID
	CatalogFoodID *int64
	FoodName      string
	Amount        float64
	// Manual holds caller-supplied values for free-text entries. Nil means all 0.
	Manual *domain.Nutrients
}

type Resolution struct {
	Source    domain.SourceKind
	Label     string
	Nutrients domain.Nutrients
}

type Resolver struct {
	src Sources
	log *logger.Logger
}

func New(src Sources, baseLog *logger.Logger) *Resolver {
	return &Resolver{src: src, log: baseLog.With("service", "NutrientResolver")}
}

// Resolve computes the nutrient payload for one entry. The output is always
// non-negative and depends only on the inputs and the stored source rows.
func (r *Resolver) Resolve(ctx context.Context, userID uuid.UUID, req Request) (Resolution, error) {
	const op = "resolver.Resolve"
	ctx, span := otel.Tracer("nutrilog/resolver").Start(ctx, "Resolve")
	defer span.End()

	if math.IsNaN(req.Amount) || math.IsInf(req.Amount, 0) || req.Amount <= 0 || req.Amount > MaxAmount {
		return Resolution{}, domain.Validation(op, "amount must be in (0, %d]", MaxAmount)
	}

	res, err := r.resolve(ctx, userID, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(domain.CodeOf(err)))
		return Resolution{}, err
	}
	res.Nutrients = res.Nutrients.ClampNonNegative()
	span.SetAttributes(
		attribute.String("nutrition.source", string(res.Source)),
		attribute.Float64("nutrition.amount", req.Amount),
	)
	r.log.Debug("entry resolved", "user_id", userID, "source", res.Source, "calories", res.Nutrients.Calories)
	return res, nil
}

func (r *Resolver) resolve(ctx context.Context, userID uuid.UUID, req Request) (Resolution, error) {
	const op = "resolver.Resolve"
	name := strings.TrimSpace(req.FoodName)

	switch {
	case req.CustomFoodID != nil && *req.CustomFoodID != uuid.Nil:
		food, err := r.src.FetchCustomFood(ctx, *req.CustomFoodID, userID)
		if err != nil {
			return Resolution{}, domain.Wrap(domain.CodeUpstreamUnavailable, op, err)
		}
		if name == "" {
			name = food.Name
		}
		return Resolution{
			Source:    domain.SourceCustom,
			Label:     name,
			Nutrients: food.Nutrients.Scale(req.Amount),
		}, nil

	case req.CatalogFoodID != nil:
		rows, err := r.src.FetchCatalogNutrients(ctx, *req.CatalogFoodID)
		if err != nil {
			return Resolution{}, domain.Wrap(domain.CodeUpstreamUnavailable, op, err)
		}
		return Resolution{
			Source:    domain.SourceCatalog,
			Label:     name,
			Nutrients: FilterCatalog(rows).Scale(req.Amount),
		}, nil

	case name != "":
		var n domain.Nutrients
		if req.Manual != nil {
			n = *req.Manual
		}
		return Resolution{Source: domain.SourceManual, Label: name, Nutrients: n}, nil
	}

	return Resolution{}, domain.NewError(domain.CodeInvalidSource, op, "one of custom_food_id, catalog_food_id or food_name is required", nil)
}

// Rescale recomputes a stored entry's payload for a new amount. Sourced
// entries are re-read from their source; free-text entries scale linearly.
func (r *Resolver) Rescale(ctx context.Context, entry *domain.LoggedEntry, newAmount float64) (domain.Nutrients, error) {
	const op = "resolver.Rescale"
	if entry == nil {
		return domain.Nutrients{}, domain.Validation(op, "entry is required")
	}
	if entry.SourceKind() != domain.SourceManual {
		res, err := r.Resolve(ctx, entry.UserID, Request{
			CustomFoodID:  entry.CustomFoodID,
			CatalogFoodID: entry.CatalogFoodID,
			FoodName:      entry.FoodName,
			Amount:        newAmount,
		})
		if err != nil {
			return domain.Nutrients{}, err
		}
		return res.Nutrients, nil
	}
	if math.IsNaN(newAmount) || newAmount <= 0 || newAmount > MaxAmount {
		return domain.Nutrients{}, domain.Validation(op, "amount must be in (0, %d]", MaxAmount)
	}
	if entry.Amount <= 0 {
		return entry.Nutrients.ClampNonNegative(), nil
	}
	return entry.Nutrients.Scale(newAmount / entry.Amount).ClampNonNegative(), nil
}
