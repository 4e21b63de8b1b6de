package nutrition

import (
	"errors"
	"testing"
)

func TestComputePercentagesAndRemaining(t *testing.T) {
	totals := Nutrients{Calories: 150, Protein: 10, Sodium: 3000}
	targets := Nutrients{Calories: 2000, Protein: 96, Carbs: 225, Fat: 55.6, Fiber: 25, Sugar: 0, Sodium: 2300}

	pct := ComputePercentages(totals, targets)
	if pct.Calories == nil || *pct.Calories != 8 {
		t.Fatalf("calories pct=%v, want 8", pct.Calories)
	}
	if pct.Protein == nil || *pct.Protein != 10 {
		t.Fatalf("protein pct=%v, want 10", pct.Protein)
	}
	if pct.Sugar != nil {
		t.Fatalf("sugar pct should be omitted for zero target, got %d", *pct.Sugar)
	}
	if pct.Sodium == nil || *pct.Sodium != 130 {
		t.Fatalf("sodium pct=%v, want 130", pct.Sodium)
	}

	rem := ComputeRemaining(totals, targets)
	if rem.Calories != 1850 {
		t.Fatalf("remaining calories=%v, want 1850", rem.Calories)
	}
	if rem.Sodium != 0 {
		t.Fatalf("remaining sodium=%v, want 0 when over target", rem.Sodium)
	}
}

func TestWeekStart(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"2026-10-19", "2026-10-19"}, // Monday
		{"2026-10-21", "2026-10-19"},
		{"2026-10-25", "2026-10-19"}, // Sunday
		{"2026-11-01", "2026-10-26"},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			d, err := ParseDate(tc.in)
			if err != nil {
				t.Fatalf("ParseDate: %v", err)
			}
			if got := FormatDate(WeekStart(d)); got != tc.want {
				t.Fatalf("WeekStart(%s)=%s, want %s", tc.in, got, tc.want)
			}
		})
	}
}

func TestGroupByDateAndMeal(t *testing.T) {
	entries := []*LoggedEntry{
		{LogDate: "2026-10-19", MealType: MealLunch, Nutrients: Nutrients{Calories: 500}},
		{LogDate: "2026-10-19", MealType: MealBreakfast, Nutrients: Nutrients{Calories: 300}},
		{LogDate: "2026-10-21", MealType: MealDinner, Nutrients: Nutrients{Calories: 700, Protein: -5}},
	}
	days := GroupByDate(entries)
	if len(days) != 2 {
		t.Fatalf("days=%d, want 2", len(days))
	}
	if days[0].Totals.Calories != 800 || days[0].EntryCount != 2 {
		t.Fatalf("day0=%+v", days[0])
	}
	if days[1].Totals.Protein != 0 {
		t.Fatalf("negative protein leaked into totals: %v", days[1].Totals.Protein)
	}

	meals := GroupByMeal(entries)
	if len(meals) != 3 || meals[0].MealType != MealBreakfast || meals[2].MealType != MealDinner {
		t.Fatalf("unexpected meal order: %+v", meals)
	}
}

func TestErrorHelpers(t *testing.T) {
	err := Wrap(CodeUpstreamUnavailable, "fetch", errors.New("boom"))
	if !IsCode(err, CodeUpstreamUnavailable) {
		t.Fatalf("expected upstream code, got %q", CodeOf(err))
	}
	if again := Wrap(CodeInternal, "other", err); again != err {
		t.Fatalf("expected Wrap to pass typed errors through")
	}
	rl := RateLimited("trend", 42)
	e, ok := AsError(rl)
	if !ok || e.RetryAfter != 42 || !e.Retryable() {
		t.Fatalf("unexpected rate limited error: %+v", e)
	}
	if NotFound("op", "entry").Error() != "op: entry not found (not_found)" {
		t.Fatalf("unexpected message: %s", NotFound("op", "entry").Error())
	}
}

func TestDateRangeDays(t *testing.T) {
	if got := (DateRange{From: "2026-10-19", To: "2026-10-25"}).Days(); got != 7 {
		t.Fatalf("Days=%d, want 7", got)
	}
	if got := (DateRange{From: "2026-10-25", To: "2026-10-19"}).Days(); got != 0 {
		t.Fatalf("Days on inverted range=%d, want 0", got)
	}
}
