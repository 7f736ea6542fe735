package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"recipebook/auth"
	"recipebook/images"
	"recipebook/models"
	"recipebook/store"
)

const (
	// MaxImageSize is the largest accepted recipe photo.
	MaxImageSize = images.MaxBytes

	minTitleLen        = 3
	minInstructionsLen = 20
)

func (h *Handler) GetRecipes(w http.ResponseWriter, r *http.Request) {
	recipes, err := h.recipes.List(r.Context())
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "failed to list recipes", err)
		return
	}
	if recipes == nil {
		recipes = []models.Recipe{}
	}
	h.attachAuthors(r.Context(), recipes)
	respondJSON(w, http.StatusOK, recipes)
}

func (h *Handler) GetRecipe(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	recipe, err := h.recipes.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.respondError(w, http.StatusNotFound, "recipe not found")
			return
		}
		h.respondError(w, http.StatusInternalServerError, "failed to get recipe", err)
		return
	}
	one := []models.Recipe{recipe}
	h.attachAuthors(r.Context(), one)
	respondJSON(w, http.StatusOK, one[0])
}

// attachAuthors fills AuthorName with one user lookup per distinct owner.
// Owners that cannot be resolved are left blank.
func (h *Handler) attachAuthors(ctx context.Context, recipes []models.Recipe) {
	names := make(map[string]string)
	for i := range recipes {
		owner := recipes[i].CreatedBy
		if owner == "" {
			continue
		}
		name, seen := names[owner]
		if !seen {
			u, err := h.users.UserByID(ctx, owner)
			switch {
			case err == nil:
				name = u.Name
			case !errors.Is(err, store.ErrNotFound):
				h.log.Warn("failed to resolve recipe author", zap.String("user", owner), zap.Error(err))
			}
			names[owner] = name
		}
		recipes[i].AuthorName = name
	}
}

func (h *Handler) MyRecipes(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	recipes, err := h.recipes.ListByOwner(r.Context(), id.UserID)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "failed to list recipes", err)
		return
	}
	if recipes == nil {
		recipes = []models.Recipe{}
	}
	respondJSON(w, http.StatusOK, recipes)
}

// CreateRecipe accepts a multipart form with title, ingredients,
// instructions, category and an image file.
func (h *Handler) CreateRecipe(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.FromContext(r.Context())

	// Room for the text fields on top of the photo.
	r.Body = http.MaxBytesReader(w, r.Body, MaxImageSize+1<<20)
	if err := r.ParseMultipartForm(MaxImageSize); err != nil {
		h.respondError(w, http.StatusBadRequest, "request too large or not a multipart form")
		return
	}

	recipe := models.Recipe{
		Title:        strings.TrimSpace(r.FormValue("title")),
		Ingredients:  models.SplitIngredients(r.FormValue("ingredients")),
		Instructions: strings.TrimSpace(r.FormValue("instructions")),
		Category:     strings.TrimSpace(r.FormValue("category")),
		CreatedBy:    caller.UserID,
	}
	if msg := validateRecipe(recipe); msg != "" {
		h.respondError(w, http.StatusBadRequest, msg)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "recipe image is required")
		return
	}
	defer file.Close()

	if header.Size > MaxImageSize {
		h.respondError(w, http.StatusBadRequest, "image exceeds 5MB")
		return
	}
	if !images.AllowedFile(header.Filename) {
		h.respondError(w, http.StatusBadRequest, "only jpeg, png and gif images are allowed")
		return
	}

	imageURL, err := h.images.Upload(r.Context(), header.Filename, file)
	if err != nil {
		if errors.Is(err, images.ErrUnsupportedFormat) {
			h.respondError(w, http.StatusBadRequest, "only jpeg, png and gif images are allowed")
			return
		}
		if errors.Is(err, images.ErrTooLarge) {
			h.respondError(w, http.StatusBadRequest, "image is too large")
			return
		}
		h.respondError(w, http.StatusInternalServerError, "failed to store image", err)
		return
	}
	recipe.ImageURL = imageURL

	created, err := h.recipes.Create(r.Context(), recipe)
	if err != nil {
		if rmErr := h.images.Remove(imageURL); rmErr != nil {
			h.log.Warn("failed to remove orphaned image", zap.String("url", imageURL), zap.Error(rmErr))
		}
		h.respondError(w, http.StatusInternalServerError, "failed to create recipe", err)
		return
	}

	h.log.Info("recipe created", zap.String("id", created.ID), zap.String("user", caller.UserID))
	respondJSON(w, http.StatusCreated, created)
}

func validateRecipe(r models.Recipe) string {
	switch {
	case utf8.RuneCountInString(r.Title) < minTitleLen:
		return "title must be at least 3 characters long"
	case r.Ingredients == "":
		return "at least one ingredient is required"
	case utf8.RuneCountInString(r.Instructions) < minInstructionsLen:
		return "instructions must be at least 20 characters long"
	case !models.IsCategory(r.Category):
		return "please select a valid category"
	}
	return ""
}

// DeleteRecipe removes a recipe and its photo. Only the creator may delete.
func (h *Handler) DeleteRecipe(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.FromContext(r.Context())
	id := mux.Vars(r)["id"]

	recipe, err := h.recipes.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.respondError(w, http.StatusNotFound, "recipe not found")
			return
		}
		h.respondError(w, http.StatusInternalServerError, "failed to get recipe", err)
		return
	}
	if !recipe.OwnedBy(caller.UserID) {
		h.respondError(w, http.StatusForbidden, "you can only delete recipes that you created")
		return
	}

	if err := h.recipes.Delete(r.Context(), id); err != nil {
		h.respondError(w, http.StatusInternalServerError, "failed to delete recipe", err)
		return
	}
	if err := h.images.Remove(recipe.ImageURL); err != nil {
		h.log.Warn("failed to remove recipe image", zap.String("id", id), zap.Error(err))
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "recipe deleted successfully"})
}
