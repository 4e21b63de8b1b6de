package nutrition

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

var MealTypes = []MealType{MealBreakfast, MealLunch, MealDinner, MealSnack}

func ParseMealType(raw string) (MealType, bool) {
	mt := MealType(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range MealTypes {
		if mt == known {
			return mt, true
		}
	}
	return "", false
}

const MaxUnitLength = 20

// LoggedEntry is one intake record. Nutrients are resolved at log time.
type LoggedEntry struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index:idx_food_log_entry_user_date,priority:1" json:"user_id"`

	CustomFoodID  *uuid.UUID `gorm:"type:uuid;column:custom_food_id" json:"custom_food_id,omitempty"`
	CatalogFoodID *int64     `gorm:"column:catalog_food_id" json:"catalog_food_id,omitempty"`
	FoodName      string     `gorm:"column:food_name;not null;default:''" json:"food_name"`

	Amount   float64  `gorm:"column:amount;not null" json:"amount"`
	Unit     string   `gorm:"column:unit;size:20;not null" json:"unit"`
	MealType MealType `gorm:"column:meal_type;size:16;not null" json:"meal_type"`

	LogDate string          `gorm:"column:log_date;size:10;not null;index:idx_food_log_entry_user_date,priority:2" json:"log_date"`
	LogTime *datatypes.Time `gorm:"column:log_time" json:"log_time,omitempty"`

	Nutrients `gorm:"embedded"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (LoggedEntry) TableName() string { return "food_log_entry" }

func (e *LoggedEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// SourceKind reports which reference the entry was resolved from.
func (e *LoggedEntry) SourceKind() SourceKind {
	switch {
	case e.CustomFoodID != nil && *e.CustomFoodID != uuid.Nil:
		return SourceCustom
	case e.CatalogFoodID != nil:
		return SourceCatalog
	default:
		return SourceManual
	}
}

type SourceKind string

const (
	SourceCustom  SourceKind = "custom"
	SourceCatalog SourceKind = "catalog"
	SourceManual  SourceKind = "manual"
)

// EntryPatch enumerates the fields an update may touch. Nil means unchanged.
type EntryPatch struct {
	Amount    *float64
	Unit      *string
	MealType  *MealType
	LogTime   *datatypes.Time
	Nutrients *Nutrients
}

func (p EntryPatch) Empty() bool {
	return p.Amount == nil && p.Unit == nil && p.MealType == nil && p.LogTime == nil && p.Nutrients == nil
}
