package aggregation

import (
	"fmt"

	"github.com/google/uuid"
)

// Cache keys are built only here so the read path and the invalidation path
// always agree.
const (
	dailyNamespace  = "nutrition:daily"
	weeklyNamespace = "nutrition:weekly"
)

// DailyKey is nutrition:daily:<user>:<YYYY-MM-DD>.
func DailyKey(userID uuid.UUID, date string) string {
	return fmt.Sprintf("%s:%s:%s", dailyNamespace, userID, date)
}

// WeeklyKey is nutrition:weekly:<user>:<monday>.
func WeeklyKey(userID uuid.UUID, weekStart string) string {
	return fmt.Sprintf("%s:%s:%s", weeklyNamespace, userID, weekStart)
}
