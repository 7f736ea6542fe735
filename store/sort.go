package store

import (
	"slices"

	"recipebook/models"
)

func sortNewestFirst(recipes []models.Recipe) {
	slices.SortStableFunc(recipes, func(a, b models.Recipe) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}
