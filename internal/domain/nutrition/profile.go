package nutrition

import (
	"time"

	"github.com/google/uuid"
)

// UserNutritionProfile feeds the target fallback chain. A nil goal means
// "not configured"; an explicit 0 is honoured.
type UserNutritionProfile struct {
	UserID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	WeightKg       *float64  `gorm:"column:weight_kg" json:"weight_kg,omitempty"`
	TargetCalories *float64  `gorm:"column:target_calories" json:"target_calories,omitempty"`

	CalorieGoal *float64 `gorm:"column:calorie_goal" json:"calorie_goal,omitempty"`
	ProteinGoal *float64 `gorm:"column:protein_goal" json:"protein_goal,omitempty"`
	CarbsGoal   *float64 `gorm:"column:carbs_goal" json:"carbs_goal,omitempty"`
	FatGoal     *float64 `gorm:"column:fat_goal" json:"fat_goal,omitempty"`
	FiberGoal   *float64 `gorm:"column:fiber_goal" json:"fiber_goal,omitempty"`
	SugarGoal   *float64 `gorm:"column:sugar_goal" json:"sugar_goal,omitempty"`
	SodiumGoal  *float64 `gorm:"column:sodium_goal" json:"sodium_goal,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}

func (UserNutritionProfile) TableName() string { return "user_nutrition_profile" }

// Goal returns the explicit goal for a canonical field.
func (p *UserNutritionProfile) Goal(field string) *float64 {
	if p == nil {
		return nil
	}
	switch field {
	case FieldCalories:
		return p.CalorieGoal
	case FieldProtein:
		return p.ProteinGoal
	case FieldCarbs:
		return p.CarbsGoal
	case FieldFat:
		return p.FatGoal
	case FieldFiber:
		return p.FiberGoal
	case FieldSugar:
		return p.SugarGoal
	case FieldSodium:
		return p.SodiumGoal
	}
	return nil
}
