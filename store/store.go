// Package store persists recipes and users.
package store

import (
	"context"
	"errors"
	"strings"

	"recipebook/models"
)

var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("not found")
	// ErrEmailTaken is returned when registering an email that already has a user.
	ErrEmailTaken = errors.New("email already registered")
)

// RecipeStore is the recipe collection. Lists are ordered newest first.
type RecipeStore interface {
	List(ctx context.Context) ([]models.Recipe, error)
	Get(ctx context.Context, id string) (models.Recipe, error)
	ListByOwner(ctx context.Context, userID string) ([]models.Recipe, error)
	Create(ctx context.Context, r models.Recipe) (models.Recipe, error)
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, query string) ([]models.Recipe, error)
}

// UserStore is the user collection.
type UserStore interface {
	CreateUser(ctx context.Context, u models.User) (models.User, error)
	UserByEmail(ctx context.Context, email string) (models.User, error)
	UserByID(ctx context.Context, id string) (models.User, error)
}

// Match reports whether query occurs, ignoring case, in the recipe's title,
// ingredients or category.
func Match(r models.Recipe, query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(r.Title), q) ||
		strings.Contains(strings.ToLower(r.Ingredients), q) ||
		strings.Contains(strings.ToLower(r.Category), q)
}

// Filter keeps the recipes that Match query, preserving order.
func Filter(recipes []models.Recipe, query string) []models.Recipe {
	var out []models.Recipe
	for _, r := range recipes {
		if Match(r, query) {
			out = append(out, r)
		}
	}
	return out
}

// NormalizeEmail is the form emails are stored and looked up in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
