package search

import (
	"context"

	"github.com/stretchr/testify/mock"

	"recipebook/mealdb"
	"recipebook/models"
)

type mockMeals struct {
	mock.Mock
}

func (m *mockMeals) SearchByName(ctx context.Context, name string) ([]mealdb.Meal, error) {
	args := m.Called(ctx, name)
	meals, _ := args.Get(0).([]mealdb.Meal)
	return meals, args.Error(1)
}

func (m *mockMeals) FilterByIngredient(ctx context.Context, ingredient string) ([]mealdb.Stub, error) {
	args := m.Called(ctx, ingredient)
	stubs, _ := args.Get(0).([]mealdb.Stub)
	return stubs, args.Error(1)
}

func (m *mockMeals) LookupByID(ctx context.Context, id string) (*mealdb.Meal, error) {
	args := m.Called(ctx, id)
	meal, _ := args.Get(0).(*mealdb.Meal)
	return meal, args.Error(1)
}

type mockRecipes struct {
	mock.Mock
}

func (m *mockRecipes) Search(ctx context.Context, query string) ([]models.Recipe, error) {
	args := m.Called(ctx, query)
	recipes, _ := args.Get(0).([]models.Recipe)
	return recipes, args.Error(1)
}
