package nutrition

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Percentages holds round(100*total/target) per field. A field is nil when
// its target is 0.
type Percentages struct {
	Calories *int `json:"calories,omitempty"`
	Protein  *int `json:"protein,omitempty"`
	Carbs    *int `json:"carbs,omitempty"`
	Fat      *int `json:"fat,omitempty"`
	Fiber    *int `json:"fiber,omitempty"`
	Sugar    *int `json:"sugar,omitempty"`
	Sodium   *int `json:"sodium,omitempty"`
}

func ComputePercentages(totals, targets Nutrients) Percentages {
	pct := func(field string) *int {
		target, _ := targets.Get(field)
		if target <= 0 {
			return nil
		}
		total, _ := totals.Get(field)
		v := int(math.Round(100 * total / target))
		return &v
	}
	return Percentages{
		Calories: pct(FieldCalories),
		Protein:  pct(FieldProtein),
		Carbs:    pct(FieldCarbs),
		Fat:      pct(FieldFat),
		Fiber:    pct(FieldFiber),
		Sugar:    pct(FieldSugar),
		Sodium:   pct(FieldSodium),
	}
}

// ComputeRemaining returns max(0, target-total) per field.
func ComputeRemaining(totals, targets Nutrients) Nutrients {
	var out Nutrients
	for _, f := range Fields {
		target, _ := targets.Get(f)
		total, _ := totals.Get(f)
		out.Set(f, math.Max(0, target-total))
	}
	return out
}

type MealSummary struct {
	MealType   MealType  `json:"meal_type"`
	Totals     Nutrients `json:"totals"`
	EntryCount int       `json:"entry_count"`
}

type DailyAggregate struct {
	UserID      uuid.UUID     `json:"user_id"`
	Date        string        `json:"date"`
	Totals      Nutrients     `json:"totals"`
	Targets     Nutrients     `json:"targets"`
	Percentages Percentages   `json:"percentages"`
	Remaining   Nutrients     `json:"remaining"`
	TotalFoods  int           `json:"total_foods"`
	ComputedAt  time.Time     `json:"computed_at"`
	Meals       []MealSummary `json:"meals,omitempty"`
}

type DayTotals struct {
	Date       string    `json:"date"`
	Totals     Nutrients `json:"totals"`
	EntryCount int       `json:"entry_count"`
}

type WeeklyAggregate struct {
	UserID     uuid.UUID   `json:"user_id"`
	WeekStart  string      `json:"week_start"`
	WeekEnd    string      `json:"week_end"`
	Days       []DayTotals `json:"days"`
	Total      Nutrients   `json:"total"`
	Average    Nutrients   `json:"average"`
	DaysLogged int         `json:"days_logged"`
	ComputedAt time.Time   `json:"computed_at"`
}

// TrendPoint is one date of a trend series. Dates without entries are absent.
type TrendPoint = DayTotals

// SumEntries totals the payloads of entries.
func SumEntries(entries []*LoggedEntry) Nutrients {
	var total Nutrients
	for _, e := range entries {
		if e == nil {
			continue
		}
		total = total.Add(e.Nutrients.ClampNonNegative())
	}
	return total
}

// GroupByDate buckets entries per log date, preserving date order of first
// appearance. Callers pass entries already ordered by date.
func GroupByDate(entries []*LoggedEntry) []DayTotals {
	out := make([]DayTotals, 0)
	idx := map[string]int{}
	for _, e := range entries {
		if e == nil {
			continue
		}
		i, ok := idx[e.LogDate]
		if !ok {
			i = len(out)
			idx[e.LogDate] = i
			out = append(out, DayTotals{Date: e.LogDate})
		}
		out[i].Totals = out[i].Totals.Add(e.Nutrients.ClampNonNegative())
		out[i].EntryCount++
	}
	return out
}

// GroupByMeal returns a summary for every meal type that has entries, in the
// fixed breakfast/lunch/dinner/snack order.
func GroupByMeal(entries []*LoggedEntry) []MealSummary {
	byMeal := map[MealType]*MealSummary{}
	for _, e := range entries {
		if e == nil {
			continue
		}
		ms, ok := byMeal[e.MealType]
		if !ok {
			ms = &MealSummary{MealType: e.MealType}
			byMeal[e.MealType] = ms
		}
		ms.Totals = ms.Totals.Add(e.Nutrients.ClampNonNegative())
		ms.EntryCount++
	}
	out := make([]MealSummary, 0, len(byMeal))
	for _, mt := range MealTypes {
		if ms, ok := byMeal[mt]; ok {
			out = append(out, *ms)
		}
	}
	return out
}
