package resolver

import (
	"context"
	"math"
	"testing"

	"github.com/google/uuid"

	domain "github.com/yungbote/nutrilog-backend/internal/domain/nutrition"
	"github.com/yungbote/nutrilog-backend/internal/pkg/logger"
	"github.com/yungbote/nutrilog-backend/internal/pkg/pointers"
)

type fakeSources struct {
	custom  map[uuid.UUID]*domain.CustomFood
	catalog map[int64][]domain.CatalogNutrient
	calls   int
}

func (f *fakeSources) FetchCustomFood(ctx context.Context, id, userID uuid.UUID) (*domain.CustomFood, error) {
	f.calls++
	food, ok := f.custom[id]
	if !ok || food.UserID != userID {
		return nil, domain.NotFound("fake.FetchCustomFood", "custom food")
	}
	cp := *food
	return &cp, nil
}

func (f *fakeSources) FetchCatalogNutrients(ctx context.Context, foodID int64) ([]domain.CatalogNutrient, error) {
	f.calls++
	rows, ok := f.catalog[foodID]
	if !ok {
		return nil, domain.NotFound("fake.FetchCatalogNutrients", "catalog food")
	}
	return append([]domain.CatalogNutrient(nil), rows...), nil
}

func newFixture() (*Resolver, *fakeSources, uuid.UUID, uuid.UUID) {
	user := uuid.New()
	foodID := uuid.New()
	src := &fakeSources{
		custom: map[uuid.UUID]*domain.CustomFood{
			foodID: {ID: foodID, UserID: user, Name: "protein bar", ServingSize: 1, Nutrients: domain.Nutrients{
				Calories: 100, Protein: 10, Carbs: 12.5, Fat: 3.3, Fiber: 1, Sugar: 4, Sodium: 90,
			}},
		},
		catalog: map[int64][]domain.CatalogNutrient{
			42: {
				{ID: 1, NutrientName: "Energy", Amount: 52},
				{ID: 2, NutrientName: "Water", Amount: 85.6},
				{ID: 3, NutrientName: "Total lipid (fat)", Amount: 0.17},
				{ID: 4, NutrientName: "Carbohydrate, by difference", Amount: 13.8},
				{ID: 5, NutrientName: "Energy", Amount: 218},
				{ID: 6, NutrientName: "Sodium, Na", Amount: 1},
			},
			43: {},
		},
	}
	return New(src, logger.Nop()), src, user, foodID
}

func TestResolveCustomFoodScalingLaw(t *testing.T) {
	r, _, user, foodID := newFixture()
	ctx := context.Background()

	one, err := r.Resolve(ctx, user, Request{CustomFoodID: &foodID, Amount: 1})
	if err != nil {
		t.Fatalf("Resolve amount=1: %v", err)
	}
	two, err := r.Resolve(ctx, user, Request{CustomFoodID: &foodID, Amount: 2})
	if err != nil {
		t.Fatalf("Resolve amount=2: %v", err)
	}
	for _, f := range domain.Fields {
		a, _ := one.Nutrients.Get(f)
		b, _ := two.Nutrients.Get(f)
		if math.Abs(b-2*a) > 1e-9 {
			t.Fatalf("%s: amount=2 gives %v, want %v", f, b, 2*a)
		}
	}
	if one.Source != domain.SourceCustom || one.Label != "protein bar" {
		t.Fatalf("resolution=%+v", one)
	}

	half, err := r.Resolve(ctx, user, Request{CustomFoodID: &foodID, Amount: 1.5})
	if err != nil || half.Nutrients.Calories != 150 {
		t.Fatalf("amount=1.5 calories=%v err=%v", half.Nutrients.Calories, err)
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	r, _, user, foodID := newFixture()
	ctx := context.Background()
	catalogID := int64(42)

	reqs := []Request{
		{CustomFoodID: &foodID, Amount: 0.3},
		{CatalogFoodID: &catalogID, Amount: 1.7},
		{FoodName: "toast", Amount: 1, Manual: &domain.Nutrients{Calories: 80.1, Carbs: 15}},
	}
	for _, req := range reqs {
		a, err := r.Resolve(ctx, user, req)
		if err != nil {
			t.Fatalf("first Resolve: %v", err)
		}
		b, err := r.Resolve(ctx, user, req)
		if err != nil {
			t.Fatalf("second Resolve: %v", err)
		}
		if a != b {
			t.Fatalf("non-deterministic resolution: %+v vs %+v", a, b)
		}
	}
}

func TestResolveCatalog(t *testing.T) {
	r, _, user, _ := newFixture()
	ctx := context.Background()

	id := int64(42)
	res, err := r.Resolve(ctx, user, Request{CatalogFoodID: &id, FoodName: "apple", Amount: 2})
	if err != nil {
		t.Fatalf("Resolve catalog: %v", err)
	}
	want := domain.Nutrients{Calories: 104, Fat: 0.34, Carbs: 27.6, Sodium: 2}
	if res.Nutrients != want {
		t.Fatalf("nutrients=%+v, want %+v", res.Nutrients, want)
	}
	if res.Source != domain.SourceCatalog || res.Label != "apple" {
		t.Fatalf("resolution=%+v", res)
	}

	empty := int64(43)
	if res, err := r.Resolve(ctx, user, Request{CatalogFoodID: &empty, Amount: 1}); err != nil || res.Nutrients != (domain.Nutrients{}) {
		t.Fatalf("empty catalog food: res=%+v err=%v", res, err)
	}

	missing := int64(44)
	if _, err := r.Resolve(ctx, user, Request{CatalogFoodID: &missing, Amount: 1}); !domain.IsCode(err, domain.CodeNotFound) {
		t.Fatalf("missing catalog food err=%v", err)
	}
}

func TestResolveSourcePrecedenceAndErrors(t *testing.T) {
	r, src, user, foodID := newFixture()
	ctx := context.Background()
	catalogID := int64(42)

	res, err := r.Resolve(ctx, user, Request{CustomFoodID: &foodID, CatalogFoodID: &catalogID, FoodName: "label", Amount: 1})
	if err != nil || res.Source != domain.SourceCustom || res.Label != "label" {
		t.Fatalf("precedence: res=%+v err=%v", res, err)
	}

	manual, err := r.Resolve(ctx, user, Request{FoodName: "soup", Amount: 3, Manual: &domain.Nutrients{Calories: -5, Protein: 4}})
	if err != nil {
		t.Fatalf("manual: %v", err)
	}
	if manual.Nutrients.Calories != 0 || manual.Nutrients.Protein != 4 {
		t.Fatalf("manual values must be taken as given and clamped: %+v", manual.Nutrients)
	}

	before := src.calls
	cases := []struct {
		name string
		req  Request
		code domain.ErrorCode
	}{
		{"no source", Request{Amount: 1}, domain.CodeInvalidSource},
		{"blank name", Request{FoodName: "   ", Amount: 1}, domain.CodeInvalidSource},
		{"zero amount", Request{FoodName: "x", Amount: 0}, domain.CodeValidation},
		{"huge amount", Request{FoodName: "x", Amount: MaxAmount + 1}, domain.CodeValidation},
		{"nan amount", Request{FoodName: "x", Amount: math.NaN()}, domain.CodeValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := r.Resolve(ctx, user, tc.req); !domain.IsCode(err, tc.code) {
				t.Fatalf("err=%v, want %s", err, tc.code)
			}
		})
	}
	if src.calls != before {
		t.Fatalf("invalid requests reached the store")
	}

	if _, err := r.Resolve(ctx, uuid.New(), Request{CustomFoodID: &foodID, Amount: 1}); !domain.IsCode(err, domain.CodeNotFound) {
		t.Fatalf("foreign custom food err=%v", err)
	}
}

func TestRescale(t *testing.T) {
	r, _, user, foodID := newFixture()
	ctx := context.Background()

	sourced := &domain.LoggedEntry{UserID: user, CustomFoodID: pointers.Ptr(foodID), Amount: 1, Nutrients: domain.Nutrients{Calories: 1}}
	n, err := r.Rescale(ctx, sourced, 3)
	if err != nil || n.Calories != 300 {
		t.Fatalf("sourced rescale: %+v err=%v", n, err)
	}

	manual := &domain.LoggedEntry{UserID: user, FoodName: "rice", Amount: 2, Nutrients: domain.Nutrients{Calories: 400, Carbs: 90}}
	n, err = r.Rescale(ctx, manual, 1)
	if err != nil || n.Calories != 200 || n.Carbs != 45 {
		t.Fatalf("manual rescale: %+v err=%v", n, err)
	}
}
