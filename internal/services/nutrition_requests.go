package services

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	domain "github.com/yungbote/nutrilog-backend/internal/domain/nutrition"
	"github.com/yungbote/nutrilog-backend/internal/resolver"
)

// LogEntryRequest is one write request. At least one of CustomFoodID,
// CatalogFoodID or FoodName must be set; Nutrients is only read for free-text
// entries.
type LogEntryRequest struct {
	CustomFoodID  *uuid.UUID        `json:"custom_food_id,omitempty"`
	CatalogFoodID *int64            `json:"catalog_food_id,omitempty"`
	FoodName      string            `json:"food_name,omitempty"`
	Amount        float64           `json:"amount"`
	Unit          string            `json:"unit"`
	MealType      string            `json:"meal_type"`
	LogDate       string            `json:"log_date,omitempty"`
	LogTime       string            `json:"log_time,omitempty"`
	Nutrients     *domain.Nutrients `json:"nutrients,omitempty"`
}

// UpdateEntryRequest lists the mutable fields of an entry. Nil means unchanged.
type UpdateEntryRequest struct {
	Amount   *float64 `json:"amount,omitempty"`
	Unit     *string  `json:"unit,omitempty"`
	MealType *string  `json:"meal_type,omitempty"`
	LogTime  *string  `json:"log_time,omitempty"`
}

type TrendRequest struct {
	Period    string `form:"period" json:"period,omitempty"`
	StartDate string `form:"start_date" json:"start_date,omitempty"`
	EndDate   string `form:"end_date" json:"end_date,omitempty"`
}

func validateAmount(op string, amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 || amount > resolver.MaxAmount {
		return domain.Validation(op, "amount must be greater than 0 and at most %d", resolver.MaxAmount)
	}
	return nil
}

func validateUnit(op, unit string) (string, error) {
	unit = strings.TrimSpace(unit)
	if unit == "" {
		return "", domain.Validation(op, "unit is required")
	}
	if len([]rune(unit)) > domain.MaxUnitLength {
		return "", domain.Validation(op, "unit must be at most %d characters", domain.MaxUnitLength)
	}
	return unit, nil
}

func validateMealType(op, raw string) (domain.MealType, error) {
	mt, ok := domain.ParseMealType(raw)
	if !ok {
		return "", domain.Validation(op, "meal_type must be one of breakfast, lunch, dinner, snack")
	}
	return mt, nil
}

// validateNutrients rejects negative and non-finite caller-supplied values.
func validateNutrients(op string, n *domain.Nutrients) error {
	if n == nil {
		return nil
	}
	for _, f := range domain.Fields {
		v, _ := n.Get(f)
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return domain.Validation(op, "nutrients.%s must be a non-negative number", f)
		}
	}
	return nil
}

// normaliseDate returns raw as YYYY-MM-DD, or today when raw is blank.
func normaliseDate(op, raw string, now time.Time) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return domain.FormatDate(now.UTC()), nil
	}
	t, err := domain.ParseDate(raw)
	if err != nil {
		return "", domain.Validation(op, "invalid date %q, want YYYY-MM-DD", raw)
	}
	return domain.FormatDate(t), nil
}

var logTimeLayouts = []string{"15:04:05", "15:04"}

func parseLogTime(op, raw string) (*datatypes.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range logTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			lt := datatypes.NewTime(t.Hour(), t.Minute(), t.Second(), 0)
			return &lt, nil
		}
	}
	return nil, domain.Validation(op, "invalid log_time %q, want HH:MM or HH:MM:SS", raw)
}
