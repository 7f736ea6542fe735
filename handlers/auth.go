package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"recipebook/auth"
	"recipebook/models"
	"recipebook/store"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = store.NormalizeEmail(req.Email)
	if req.Name == "" || req.Email == "" || req.Password == "" {
		h.respondError(w, http.StatusBadRequest, "name, email and password are required")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "failed to register", err)
		return
	}
	user, err := h.users.CreateUser(r.Context(), models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			h.respondError(w, http.StatusBadRequest, "user with this email already exists")
			return
		}
		h.respondError(w, http.StatusInternalServerError, "failed to register", err)
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "failed to issue token", err)
		return
	}
	respondJSON(w, http.StatusCreated, authResponse{Token: token, User: user})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.users.UserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.respondError(w, http.StatusBadRequest, "invalid email or password")
			return
		}
		h.respondError(w, http.StatusInternalServerError, "failed to log in", err)
		return
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		h.respondError(w, http.StatusBadRequest, "invalid email or password")
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "failed to issue token", err)
		return
	}
	respondJSON(w, http.StatusOK, authResponse{Token: token, User: user})
}

// Me returns the user behind the bearer token.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	user, err := h.users.UserByID(r.Context(), id.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.respondError(w, http.StatusNotFound, "user not found")
			return
		}
		h.respondError(w, http.StatusInternalServerError, "failed to get user", err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}
