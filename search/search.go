// Package search finds recipes for a free-text query by trying a fixed chain
// of sources until one of them returns something.
package search

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"recipebook/mealdb"
	"recipebook/models"
)

// MealSource is the part of the TheMealDB client the stages use.
type MealSource interface {
	SearchByName(ctx context.Context, name string) ([]mealdb.Meal, error)
	FilterByIngredient(ctx context.Context, ingredient string) ([]mealdb.Stub, error)
	LookupByID(ctx context.Context, id string) (*mealdb.Meal, error)
}

// RecipeMatcher finds stored recipes whose title, ingredients or category
// contain the query, newest first.
type RecipeMatcher interface {
	Search(ctx context.Context, query string) ([]models.Recipe, error)
}

// Stage is one source in the chain.
type Stage interface {
	Name() string
	Search(ctx context.Context, query string) ([]models.Recipe, error)
}

// Orchestrator runs its stages in order and returns the first non-empty
// result. An error from any stage stops the chain.
type Orchestrator struct {
	stages []Stage
	log    *zap.Logger
}

// New creates an Orchestrator over the given stages.
func New(log *zap.Logger, stages ...Stage) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{stages: stages, log: log}
}

// NewDefault wires the standard chain: name search, ingredient filter with
// detail lookups, then the local recipe store.
func NewDefault(meals MealSource, recipes RecipeMatcher, log *zap.Logger) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	return New(log,
		&NameStage{Meals: meals},
		&IngredientStage{Meals: meals, Log: log},
		&LocalStage{Recipes: recipes},
	)
}

// Search returns the recipes of the first stage that finds any. The result is
// never nil; no match in any stage is an empty slice and a nil error.
func (o *Orchestrator) Search(ctx context.Context, query string) ([]models.Recipe, error) {
	for _, st := range o.stages {
		recipes, err := st.Search(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("%s search: %w", st.Name(), err)
		}
		if len(recipes) > 0 {
			o.log.Debug("search hit",
				zap.String("stage", st.Name()),
				zap.String("query", query),
				zap.Int("results", len(recipes)))
			return recipes, nil
		}
	}
	o.log.Debug("search miss", zap.String("query", query))
	return []models.Recipe{}, nil
}

func clock(now func() time.Time) time.Time {
	if now == nil {
		return time.Now()
	}
	return now()
}
