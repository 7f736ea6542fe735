package search

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"recipebook/mealdb"
	"recipebook/models"
)

// DefaultLookupLimit bounds how many filter stubs get a detail lookup.
const DefaultLookupLimit = 10

// NameStage searches TheMealDB by meal name.
type NameStage struct {
	Meals MealSource
	Now   func() time.Time
}

func (s *NameStage) Name() string { return "name" }

func (s *NameStage) Search(ctx context.Context, query string) ([]models.Recipe, error) {
	meals, err := s.Meals.SearchByName(ctx, query)
	if err != nil {
		return nil, err
	}
	now := clock(s.Now)
	recipes := make([]models.Recipe, 0, len(meals))
	for _, m := range meals {
		recipes = append(recipes, m.Recipe(now))
	}
	return recipes, nil
}

// IngredientStage filters TheMealDB by main ingredient and expands the first
// Limit stubs with concurrent detail lookups. A lookup that fails or finds
// nothing is dropped; the rest keep stub order.
type IngredientStage struct {
	Meals MealSource
	Limit int
	Now   func() time.Time
	Log   *zap.Logger
}

func (s *IngredientStage) Name() string { return "ingredient" }

func (s *IngredientStage) Search(ctx context.Context, query string) ([]models.Recipe, error) {
	stubs, err := s.Meals.FilterByIngredient(ctx, query)
	if err != nil {
		return nil, err
	}

	limit := s.Limit
	if limit <= 0 {
		limit = DefaultLookupLimit
	}
	if len(stubs) > limit {
		stubs = stubs[:limit]
	}

	log := s.Log
	if log == nil {
		log = zap.NewNop()
	}

	// Each lookup owns one slot; lookups never fail the group.
	details := make([]*mealdb.Meal, len(stubs))
	var g errgroup.Group
	for i, stub := range stubs {
		g.Go(func() error {
			meal, err := s.Meals.LookupByID(ctx, stub.ID)
			if err != nil {
				log.Debug("meal lookup failed", zap.String("id", stub.ID), zap.Error(err))
				return nil
			}
			details[i] = meal
			return nil
		})
	}
	g.Wait() //nolint:errcheck

	now := clock(s.Now)
	recipes := make([]models.Recipe, 0, len(details))
	for _, m := range details {
		if m == nil {
			continue
		}
		recipes = append(recipes, m.Recipe(now))
	}
	return recipes, nil
}

// LocalStage falls back to recipes users have submitted.
type LocalStage struct {
	Recipes RecipeMatcher
}

func (s *LocalStage) Name() string { return "local" }

func (s *LocalStage) Search(ctx context.Context, query string) ([]models.Recipe, error) {
	return s.Recipes.Search(ctx, query)
}
