package nutrition

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CustomFood is a user-authored template; nutrients are per serving.
type CustomFood struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Name        string    `gorm:"column:name;not null" json:"name"`
	ServingSize float64   `gorm:"column:serving_size;not null;default:1" json:"serving_size"`
	ServingUnit string    `gorm:"column:serving_unit;size:20;not null;default:'serving'" json:"serving_unit"`

	Nutrients `gorm:"embedded"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (CustomFood) TableName() string { return "custom_food" }

func (f *CustomFood) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

type CatalogFood struct {
	ID          int64  `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Description string `gorm:"column:description;not null" json:"description"`
}

func (CatalogFood) TableName() string { return "catalog_food" }

// CatalogNutrient is one row of a catalog food's (usually long) nutrient list.
// Amount is per reference serving.
type CatalogNutrient struct {
	ID           int64   `gorm:"primaryKey" json:"id"`
	FoodID       int64   `gorm:"column:food_id;not null;index" json:"food_id"`
	NutrientName string  `gorm:"column:nutrient_name;not null" json:"nutrient_name"`
	Amount       float64 `gorm:"column:amount;not null" json:"amount"`
}

func (CatalogNutrient) TableName() string { return "catalog_nutrient" }
