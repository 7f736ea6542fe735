package search

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"recipebook/mealdb"
	"recipebook/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var fixedNow = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

func meal(id string) mealdb.Meal {
	m := mealdb.Meal{ID: id, Name: "Meal " + id, Category: "Beef"}
	m.Ingredient[0] = "Beef"
	m.Measure[0] = "1kg"
	return m
}

func mealPtr(id string) *mealdb.Meal {
	m := meal(id)
	return &m
}

func stubs(n int) []mealdb.Stub {
	out := make([]mealdb.Stub, n)
	for i := range out {
		out[i] = mealdb.Stub{ID: strconv.Itoa(i + 1), Name: "Stub " + strconv.Itoa(i+1)}
	}
	return out
}

func newOrchestrator(meals *mockMeals, recipes *mockRecipes) *Orchestrator {
	clock := func() time.Time { return fixedNow }
	return New(zap.NewNop(),
		&NameStage{Meals: meals, Now: clock},
		&IngredientStage{Meals: meals, Now: clock},
		&LocalStage{Recipes: recipes},
	)
}

func ids(recipes []models.Recipe) []string {
	out := make([]string, len(recipes))
	for i, r := range recipes {
		out[i] = r.ID
	}
	return out
}

// ---------------------------------------------------------------------------
// name stage
// ---------------------------------------------------------------------------

func TestSearch_NameStageShortCircuits(t *testing.T) {
	t.Parallel()

	meals := &mockMeals{}
	recipes := &mockRecipes{}
	noCategory := meal("3")
	noCategory.Category = ""
	meals.On("SearchByName", mock.Anything, "beef").
		Return([]mealdb.Meal{meal("2"), meal("1"), noCategory}, nil)

	got, err := newOrchestrator(meals, recipes).Search(context.Background(), "beef")
	require.NoError(t, err)

	want := []models.Recipe{
		{ID: "2", Title: "Meal 2", Ingredients: "1kg Beef", Category: "Beef", CreatedAt: fixedNow},
		{ID: "1", Title: "Meal 1", Ingredients: "1kg Beef", Category: "Beef", CreatedAt: fixedNow},
		{ID: "3", Title: "Meal 3", Ingredients: "1kg Beef", Category: "Other", CreatedAt: fixedNow},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Search() mismatch (-want +got):\n%s", diff)
	}

	meals.AssertExpectations(t)
	meals.AssertNotCalled(t, "FilterByIngredient", mock.Anything, mock.Anything)
	meals.AssertNotCalled(t, "LookupByID", mock.Anything, mock.Anything)
	recipes.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
}

func TestSearch_NameStageErrorPropagates(t *testing.T) {
	t.Parallel()

	meals := &mockMeals{}
	recipes := &mockRecipes{}
	boom := &mealdb.StatusError{Endpoint: "search.php", Code: 500}
	meals.On("SearchByName", mock.Anything, "beef").Return(nil, boom)

	got, err := newOrchestrator(meals, recipes).Search(context.Background(), "beef")
	require.Error(t, err)
	assert.Nil(t, got)

	var se *mealdb.StatusError
	assert.True(t, errors.As(err, &se))

	meals.AssertNotCalled(t, "FilterByIngredient", mock.Anything, mock.Anything)
	recipes.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
}

// ---------------------------------------------------------------------------
// ingredient stage
// ---------------------------------------------------------------------------

func TestSearch_IngredientStageLimitsAndDropsFailures(t *testing.T) {
	t.Parallel()

	meals := &mockMeals{}
	recipes := &mockRecipes{}
	meals.On("SearchByName", mock.Anything, "garlic").Return(nil, nil)
	meals.On("FilterByIngredient", mock.Anything, "garlic").Return(stubs(15), nil)

	// Lookups 3, 6 and 9 fail in different ways; 11..15 must never be asked for.
	for i := 1; i <= 10; i++ {
		id := strconv.Itoa(i)
		switch i {
		case 3:
			meals.On("LookupByID", mock.Anything, id).Return(nil, errors.New("connection reset"))
		case 6:
			meals.On("LookupByID", mock.Anything, id).Return(nil, &mealdb.StatusError{Code: 502})
		case 9:
			meals.On("LookupByID", mock.Anything, id).Return(nil, nil)
		default:
			meals.On("LookupByID", mock.Anything, id).Return(mealPtr(id), nil)
		}
	}

	got, err := newOrchestrator(meals, recipes).Search(context.Background(), "garlic")
	require.NoError(t, err)

	assert.Equal(t, []string{"1", "2", "4", "5", "7", "8", "10"}, ids(got))
	for _, r := range got {
		assert.Equal(t, "1kg Beef", r.Ingredients)
		assert.Equal(t, fixedNow, r.CreatedAt)
	}

	meals.AssertExpectations(t)
	meals.AssertNumberOfCalls(t, "LookupByID", 10)
	recipes.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
}

func TestSearch_IngredientStageKeepsStubOrder(t *testing.T) {
	t.Parallel()

	meals := &mockMeals{}
	recipes := &mockRecipes{}
	meals.On("SearchByName", mock.Anything, "rice").Return([]mealdb.Meal{}, nil)
	meals.On("FilterByIngredient", mock.Anything, "rice").Return(stubs(5), nil)

	// Earlier stubs answer later so completion order is reversed.
	for i := 1; i <= 5; i++ {
		id := strconv.Itoa(i)
		meals.On("LookupByID", mock.Anything, id).
			After(time.Duration(6-i) * 10 * time.Millisecond).
			Return(mealPtr(id), nil)
	}

	got, err := newOrchestrator(meals, recipes).Search(context.Background(), "rice")
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, ids(got))
}

func TestSearch_IngredientFilterErrorPropagates(t *testing.T) {
	t.Parallel()

	meals := &mockMeals{}
	recipes := &mockRecipes{}
	meals.On("SearchByName", mock.Anything, "x").Return(nil, nil)
	meals.On("FilterByIngredient", mock.Anything, "x").Return(nil, errors.New("dial tcp: timeout"))

	_, err := newOrchestrator(meals, recipes).Search(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ingredient search")
	recipes.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
}

func TestSearch_AllLookupsFailFallsThroughToLocal(t *testing.T) {
	t.Parallel()

	meals := &mockMeals{}
	recipes := &mockRecipes{}
	meals.On("SearchByName", mock.Anything, "tofu").Return(nil, nil)
	meals.On("FilterByIngredient", mock.Anything, "tofu").Return(stubs(2), nil)
	meals.On("LookupByID", mock.Anything, mock.Anything).Return(nil, errors.New("boom"))

	local := []models.Recipe{{ID: "db-1", Title: "Tofu stir fry"}}
	recipes.On("Search", mock.Anything, "tofu").Return(local, nil)

	got, err := newOrchestrator(meals, recipes).Search(context.Background(), "tofu")
	require.NoError(t, err)
	assert.Equal(t, local, got)
}

// ---------------------------------------------------------------------------
// local stage
// ---------------------------------------------------------------------------

func TestSearch_LocalFallbackReturnsRowsAsIs(t *testing.T) {
	t.Parallel()

	meals := &mockMeals{}
	recipes := &mockRecipes{}
	meals.On("SearchByName", mock.Anything, "paneer").Return(nil, nil)
	meals.On("FilterByIngredient", mock.Anything, "paneer").Return(nil, nil)

	newer := models.Recipe{ID: "b", Title: "Paneer Tikka", CreatedBy: "u1", CreatedAt: fixedNow}
	older := models.Recipe{ID: "a", Title: "Palak Paneer", CreatedBy: "u2", CreatedAt: fixedNow.Add(-time.Hour)}
	recipes.On("Search", mock.Anything, "paneer").Return([]models.Recipe{newer, older}, nil)

	got, err := newOrchestrator(meals, recipes).Search(context.Background(), "paneer")
	require.NoError(t, err)
	assert.Equal(t, []models.Recipe{newer, older}, got)
	meals.AssertNotCalled(t, "LookupByID", mock.Anything, mock.Anything)
}

func TestSearch_LocalErrorPropagates(t *testing.T) {
	t.Parallel()

	meals := &mockMeals{}
	recipes := &mockRecipes{}
	meals.On("SearchByName", mock.Anything, "q").Return(nil, nil)
	meals.On("FilterByIngredient", mock.Anything, "q").Return(nil, nil)
	recipes.On("Search", mock.Anything, "q").Return(nil, errors.New("firestore unavailable"))

	_, err := newOrchestrator(meals, recipes).Search(context.Background(), "q")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "local search")
}

func TestSearch_NothingAnywhereIsEmptyNotError(t *testing.T) {
	t.Parallel()

	meals := &mockMeals{}
	recipes := &mockRecipes{}
	meals.On("SearchByName", mock.Anything, "zzz").Return(nil, nil)
	meals.On("FilterByIngredient", mock.Anything, "zzz").Return(nil, nil)
	recipes.On("Search", mock.Anything, "zzz").Return(nil, nil)

	got, err := newOrchestrator(meals, recipes).Search(context.Background(), "zzz")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestNewDefault_StageOrder(t *testing.T) {
	t.Parallel()

	o := NewDefault(&mockMeals{}, &mockRecipes{}, nil)
	names := make([]string, len(o.stages))
	for i, st := range o.stages {
		names[i] = st.Name()
	}
	assert.Equal(t, []string{"name", "ingredient", "local"}, names)
}
