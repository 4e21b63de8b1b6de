package aggregation

import (
	"strings"
	"time"

	domain "github.com/yungbote/nutrilog-backend/internal/domain/nutrition"
)

const MaxTrendDays = 366

// Window selects a trend range: either a named period ending today or an
// explicit inclusive start/end. Explicit dates take precedence.
type Window struct {
	Period    string
	StartDate string
	EndDate   string
}

var periodDays = map[string]int{
	"week":    7,
	"month":   30,
	"quarter": 90,
}

func (w Window) Range(today time.Time) (domain.DateRange, error) {
	const op = "aggregation.Window"
	start, end := strings.TrimSpace(w.StartDate), strings.TrimSpace(w.EndDate)
	if start != "" || end != "" {
		if start == "" || end == "" {
			return domain.DateRange{}, domain.Validation(op, "start_date and end_date must be given together")
		}
		from, err := domain.ParseDate(start)
		if err != nil {
			return domain.DateRange{}, domain.Validation(op, "invalid start_date %q", start)
		}
		to, err := domain.ParseDate(end)
		if err != nil {
			return domain.DateRange{}, domain.Validation(op, "invalid end_date %q", end)
		}
		if to.Before(from) {
			return domain.DateRange{}, domain.Validation(op, "start_date must not be after end_date")
		}
		rng := domain.DateRange{From: domain.FormatDate(from), To: domain.FormatDate(to)}
		if rng.Days() > MaxTrendDays {
			return domain.DateRange{}, domain.Validation(op, "range exceeds %d days", MaxTrendDays)
		}
		return rng, nil
	}

	period := strings.ToLower(strings.TrimSpace(w.Period))
	if period == "" {
		period = "week"
	}
	days, ok := periodDays[period]
	if !ok {
		return domain.DateRange{}, domain.Validation(op, "unknown period %q", w.Period)
	}
	to := domain.StartOfDay(today)
	return domain.DateRange{
		From: domain.FormatDate(to.AddDate(0, 0, -(days - 1))),
		To:   domain.FormatDate(to),
	}, nil
}
