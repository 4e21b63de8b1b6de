package nutrition

import "math"

// Nutrients is the canonical seven-field payload. Energy in kcal, sodium in
// mg, everything else in grams.
type Nutrients struct {
	Calories float64 `gorm:"column:calories;not null;default:0" json:"calories"`
	Protein  float64 `gorm:"column:protein;not null;default:0" json:"protein"`
	Carbs    float64 `gorm:"column:carbs;not null;default:0" json:"carbs"`
	Fat      float64 `gorm:"column:fat;not null;default:0" json:"fat"`
	Fiber    float64 `gorm:"column:fiber;not null;default:0" json:"fiber"`
	Sugar    float64 `gorm:"column:sugar;not null;default:0" json:"sugar"`
	Sodium   float64 `gorm:"column:sodium;not null;default:0" json:"sodium"`
}

// Field names in canonical order. Used as keys for percentages and for
// catalog matching.
const (
	FieldCalories = "calories"
	FieldProtein  = "protein"
	FieldCarbs    = "carbs"
	FieldFat      = "fat"
	FieldFiber    = "fiber"
	FieldSugar    = "sugar"
	FieldSodium   = "sodium"
)

var Fields = []string{FieldCalories, FieldProtein, FieldCarbs, FieldFat, FieldFiber, FieldSugar, FieldSodium}

func (n Nutrients) Add(o Nutrients) Nutrients {
	return Nutrients{
		Calories: n.Calories + o.Calories,
		Protein:  n.Protein + o.Protein,
		Carbs:    n.Carbs + o.Carbs,
		Fat:      n.Fat + o.Fat,
		Fiber:    n.Fiber + o.Fiber,
		Sugar:    n.Sugar + o.Sugar,
		Sodium:   n.Sodium + o.Sodium,
	}
}

func (n Nutrients) Scale(factor float64) Nutrients {
	return n.Map(func(v float64) float64 { return v * factor })
}

// ClampNonNegative replaces negative and NaN values with 0.
func (n Nutrients) ClampNonNegative() Nutrients {
	return n.Map(func(v float64) float64 {
		if math.IsNaN(v) || v < 0 {
			return 0
		}
		return v
	})
}

func (n Nutrients) Map(fn func(float64) float64) Nutrients {
	return Nutrients{
		Calories: fn(n.Calories),
		Protein:  fn(n.Protein),
		Carbs:    fn(n.Carbs),
		Fat:      fn(n.Fat),
		Fiber:    fn(n.Fiber),
		Sugar:    fn(n.Sugar),
		Sodium:   fn(n.Sodium),
	}
}

// Get returns the value of a canonical field name.
func (n Nutrients) Get(field string) (float64, bool) {
	switch field {
	case FieldCalories:
		return n.Calories, true
	case FieldProtein:
		return n.Protein, true
	case FieldCarbs:
		return n.Carbs, true
	case FieldFat:
		return n.Fat, true
	case FieldFiber:
		return n.Fiber, true
	case FieldSugar:
		return n.Sugar, true
	case FieldSodium:
		return n.Sodium, true
	}
	return 0, false
}

// Set assigns a canonical field; unknown fields are ignored.
func (n *Nutrients) Set(field string, v float64) {
	switch field {
	case FieldCalories:
		n.Calories = v
	case FieldProtein:
		n.Protein = v
	case FieldCarbs:
		n.Carbs = v
	case FieldFat:
		n.Fat = v
	case FieldFiber:
		n.Fiber = v
	case FieldSugar:
		n.Sugar = v
	case FieldSodium:
		n.Sodium = v
	}
}

// Round1 rounds a value to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
