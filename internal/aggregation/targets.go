package aggregation

import (
	domain "github.com/yungbote/nutrilog-backend/internal/domain/nutrition"
)

// targetSource returns a target for one field, or ok=false for "no opinion".
type targetSource func(p *domain.UserNutritionProfile, field string) (float64, bool)

// targetChain is tried in order; the last source always answers.
var targetChain = []targetSource{
	explicitGoal,
	profileDerived,
	globalDefault,
}

const (
	proteinPerKg      = 1.6
	carbCalorieShare  = 0.45
	fatCalorieShare   = 0.25
	kcalPerGramCarbs  = 4
	kcalPerGramFat    = 9
	baselineCalories  = 2000
	defaultFiberGrams = 25
	defaultSugarGrams = 50
	defaultSodiumMg   = 2300
)

var globalDefaults = domain.Nutrients{
	Calories: baselineCalories,
	Protein:  50,
	Carbs:    baselineCalories * carbCalorieShare / kcalPerGramCarbs,
	Fat:      baselineCalories * fatCalorieShare / kcalPerGramFat,
	Fiber:    defaultFiberGrams,
	Sugar:    defaultSugarGrams,
	Sodium:   defaultSodiumMg,
}

// explicitGoal honours any configured goal, including an explicit 0.
func explicitGoal(p *domain.UserNutritionProfile, field string) (float64, bool) {
	g := p.Goal(field)
	if g == nil || *g < 0 {
		return 0, false
	}
	return *g, true
}

func profileDerived(p *domain.UserNutritionProfile, field string) (float64, bool) {
	if p == nil {
		return 0, false
	}
	switch field {
	case domain.FieldCalories:
		return positive(p.TargetCalories)
	case domain.FieldProtein:
		if w, ok := positive(p.WeightKg); ok {
			return w * proteinPerKg, true
		}
	case domain.FieldCarbs:
		if kcal, ok := calorieBasis(p); ok {
			return kcal * carbCalorieShare / kcalPerGramCarbs, true
		}
	case domain.FieldFat:
		if kcal, ok := calorieBasis(p); ok {
			return kcal * fatCalorieShare / kcalPerGramFat, true
		}
	case domain.FieldFiber:
		return defaultFiberGrams, true
	case domain.FieldSugar:
		return defaultSugarGrams, true
	case domain.FieldSodium:
		return defaultSodiumMg, true
	}
	return 0, false
}

func globalDefault(_ *domain.UserNutritionProfile, field string) (float64, bool) {
	return globalDefaults.Get(field)
}

// calorieBasis is the calorie target macro splits are derived from: the
// explicit calorie goal when positive, else the profile's target calories.
func calorieBasis(p *domain.UserNutritionProfile) (float64, bool) {
	if v, ok := positive(p.CalorieGoal); ok {
		return v, true
	}
	return positive(p.TargetCalories)
}

func positive(v *float64) (float64, bool) {
	if v == nil || *v <= 0 {
		return 0, false
	}
	return *v, true
}

// ResolveTargets walks the fallback chain for every field. Targets are
// rounded to one decimal.
func ResolveTargets(p *domain.UserNutritionProfile) domain.Nutrients {
	var out domain.Nutrients
	for _, field := range domain.Fields {
		for _, src := range targetChain {
			if v, ok := src(p, field); ok {
				out.Set(field, domain.Round1(v))
				break
			}
		}
	}
	return out
}
