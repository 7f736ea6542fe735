package models

import (
	"slices"
	"strings"
	"time"
)

// Recipe is the canonical recipe shape shared by stored and externally
// sourced recipes. Ingredients are newline separated.
type Recipe struct {
	ID           string    `firestore:"id" json:"id"`
	Title        string    `firestore:"title" json:"title"`
	Ingredients  string    `firestore:"ingredients" json:"ingredients"`
	Instructions string    `firestore:"instructions" json:"instructions"`
	ImageURL     string    `firestore:"image_url" json:"image_url"`
	Category     string    `firestore:"category" json:"category"`
	CreatedBy    string    `firestore:"created_by" json:"created_by,omitempty"`
	CreatedAt    time.Time `firestore:"created_at" json:"created_at"`

	// AuthorName is resolved from the users collection when serving
	// recipes and is never stored.
	AuthorName string `firestore:"-" json:"author_name,omitempty"`
}

// Categories is the fixed set a submitted recipe may be filed under.
var Categories = []string{
	"Vegetarian",
	"Non-Vegetarian",
	"Vegan",
	"Gluten-Free",
	"Italian",
	"Chinese",
	"Mexican",
	"Indian",
	"Thai",
	"Japanese",
	"Mediterranean",
	"South Indian",
	"North Indian",
	"Dessert",
	"Breakfast",
	"Lunch",
	"Dinner",
	"Snack",
}

// IsCategory reports whether c is one of Categories.
func IsCategory(c string) bool {
	return slices.Contains(Categories, c)
}

// SplitIngredients trims each line of a submitted ingredient list and drops
// the blank ones. The result is joined back with "\n".
func SplitIngredients(s string) string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

// OwnedBy reports whether userID created the recipe. External recipes are
// owned by nobody.
func (r Recipe) OwnedBy(userID string) bool {
	return r.CreatedBy != "" && r.CreatedBy == userID
}
