package mealdb

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"recipebook/models"
)

// MaxIngredients is the number of numbered ingredient/measure field pairs a
// meal record can carry.
const MaxIngredients = 20

// FallbackCategory is used when a meal has no category.
const FallbackCategory = "Other"

// Meal is a full TheMealDB record. The numbered strIngredientN/strMeasureN
// fields are collected into Ingredient and Measure, index 0 holding field 1.
// Absent and null fields decode as "".
type Meal struct {
	ID           string
	Name         string
	Instructions string
	Thumb        string
	Category     string
	Ingredient   [MaxIngredients]string
	Measure      [MaxIngredients]string
}

func (m *Meal) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	str := func(key string) string {
		s, _ := raw[key].(string)
		return s
	}

	*m = Meal{
		ID:           str("idMeal"),
		Name:         str("strMeal"),
		Instructions: str("strInstructions"),
		Thumb:        str("strMealThumb"),
		Category:     str("strCategory"),
	}
	for i := 0; i < MaxIngredients; i++ {
		n := strconv.Itoa(i + 1)
		m.Ingredient[i] = str("strIngredient" + n)
		m.Measure[i] = str("strMeasure" + n)
	}
	return nil
}

// Ingredients formats the meal's ingredient list the way submitted recipes
// store it: one entry per non-blank ingredient field in field order, prefixed
// with the trimmed measure when there is one, joined by "\n". The ingredient
// text itself is kept as-is.
func (m Meal) Ingredients() string {
	var b strings.Builder
	for i := 0; i < MaxIngredients; i++ {
		ingredient := m.Ingredient[i]
		if strings.TrimSpace(ingredient) == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		if measure := strings.TrimSpace(m.Measure[i]); measure != "" {
			b.WriteString(measure)
			b.WriteByte(' ')
		}
		b.WriteString(ingredient)
	}
	return b.String()
}

// Recipe converts the meal into a models.Recipe stamped with now.
func (m Meal) Recipe(now time.Time) models.Recipe {
	category := m.Category
	if category == "" {
		category = FallbackCategory
	}
	return models.Recipe{
		ID:           m.ID,
		Title:        m.Name,
		Ingredients:  m.Ingredients(),
		Instructions: m.Instructions,
		ImageURL:     m.Thumb,
		Category:     category,
		CreatedAt:    now,
	}
}

// Stub is the partial record returned by the ingredient filter endpoint.
type Stub struct {
	ID    string `json:"idMeal"`
	Name  string `json:"strMeal"`
	Thumb string `json:"strMealThumb"`
}
