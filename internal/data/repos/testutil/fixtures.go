package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/nutrilog-backend/internal/domain/nutrition"
)

func SeedCustomFood(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, perServing nutrition.Nutrients) *nutrition.CustomFood {
	tb.Helper()
	f := &nutrition.CustomFood{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        "custom food",
		ServingSize: 1,
		ServingUnit: "serving",
		Nutrients:   perServing,
	}
	if err := tx.WithContext(ctx).Create(f).Error; err != nil {
		tb.Fatalf("seed custom food: %v", err)
	}
	return f
}

// SeedCatalogFood inserts a catalog food and its nutrient rows in the given
// order, so row ids follow slice order.
func SeedCatalogFood(tb testing.TB, ctx context.Context, tx *gorm.DB, id int64, rows []nutrition.CatalogNutrient) *nutrition.CatalogFood {
	tb.Helper()
	food := &nutrition.CatalogFood{ID: id, Description: "catalog food"}
	if err := tx.WithContext(ctx).Create(food).Error; err != nil {
		tb.Fatalf("seed catalog food: %v", err)
	}
	for i := range rows {
		row := rows[i]
		row.FoodID = id
		if err := tx.WithContext(ctx).Create(&row).Error; err != nil {
			tb.Fatalf("seed catalog nutrient: %v", err)
		}
	}
	return food
}

func SeedEntry(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, date string, meal nutrition.MealType, n nutrition.Nutrients) *nutrition.LoggedEntry {
	tb.Helper()
	e := &nutrition.LoggedEntry{
		UserID:    userID,
		FoodName:  "seeded",
		Amount:    1,
		Unit:      "serving",
		MealType:  meal,
		LogDate:   date,
		Nutrients: n,
	}
	if err := tx.WithContext(ctx).Create(e).Error; err != nil {
		tb.Fatalf("seed entry: %v", err)
	}
	return e
}

func SeedProfile(tb testing.TB, ctx context.Context, tx *gorm.DB, p *nutrition.UserNutritionProfile) *nutrition.UserNutritionProfile {
	tb.Helper()
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed profile: %v", err)
	}
	return p
}
