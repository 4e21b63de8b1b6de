package resolver

import (
	"strings"

	domain "github.com/yungbote/nutrilog-backend/internal/domain/nutrition"
)

// catalogAliases maps normalised catalog nutrient names to canonical fields.
// Names are compared after lowercasing and collapsing whitespace.
var catalogAliases = map[string]string{
	"calories":      domain.FieldCalories,
	"energy":        domain.FieldCalories,
	"energy (kcal)": domain.FieldCalories,
	"energy, kcal":  domain.FieldCalories,
	"kcal":          domain.FieldCalories,

	"protein": domain.FieldProtein,

	"carbs":                       domain.FieldCarbs,
	"carbohydrate":                domain.FieldCarbs,
	"carbohydrates":               domain.FieldCarbs,
	"total carbohydrate":          domain.FieldCarbs,
	"carbohydrate, by difference": domain.FieldCarbs,

	"fat":               domain.FieldFat,
	"total fat":         domain.FieldFat,
	"total lipid (fat)": domain.FieldFat,

	"fiber":                domain.FieldFiber,
	"fibre":                domain.FieldFiber,
	"dietary fiber":        domain.FieldFiber,
	"fiber, total dietary": domain.FieldFiber,

	"sugar":                        domain.FieldSugar,
	"sugars":                       domain.FieldSugar,
	"total sugars":                 domain.FieldSugar,
	"sugars, total":                domain.FieldSugar,
	"sugars, total including nlea": domain.FieldSugar,

	"sodium":     domain.FieldSodium,
	"sodium, na": domain.FieldSodium,
}

func canonicalField(name string) (string, bool) {
	key := strings.Join(strings.Fields(strings.ToLower(name)), " ")
	field, ok := catalogAliases[key]
	return field, ok
}

// FilterCatalog picks the seven canonical fields out of an arbitrary nutrient
// list. The first row matching a field wins; unmatched fields stay 0.
func FilterCatalog(rows []domain.CatalogNutrient) domain.Nutrients {
	var out domain.Nutrients
	seen := make(map[string]bool, len(domain.Fields))
	for _, row := range rows {
		field, ok := canonicalField(row.NutrientName)
		if !ok || seen[field] {
			continue
		}
		seen[field] = true
		out.Set(field, row.Amount)
	}
	return out
}
