// Package handlers exposes the recipe service over HTTP.
package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"recipebook/auth"
	"recipebook/images"
	"recipebook/logging"
	"recipebook/models"
	"recipebook/store"
)

// Searcher runs a recipe search across every source.
type Searcher interface {
	Search(ctx context.Context, query string) ([]models.Recipe, error)
}

// ImageStore keeps uploaded recipe photos.
type ImageStore interface {
	Upload(ctx context.Context, filename string, r io.Reader) (string, error)
	Remove(publicURL string) error
}

// Deps are the collaborators a Handler needs.
type Deps struct {
	Recipes  store.RecipeStore
	Users    store.UserStore
	Searcher Searcher
	Images   ImageStore
	Tokens   *auth.Tokens
	Log      *zap.Logger
	// HTTPClient fetches remote images for the thumbnail proxy.
	HTTPClient *http.Client
}

// Handler serves the API.
type Handler struct {
	recipes    store.RecipeStore
	users      store.UserStore
	searcher   Searcher
	images     ImageStore
	tokens     *auth.Tokens
	log        *zap.Logger
	httpClient *http.Client
}

func New(d Deps) *Handler {
	h := &Handler{
		recipes:    d.Recipes,
		users:      d.Users,
		searcher:   d.Searcher,
		images:     d.Images,
		tokens:     d.Tokens,
		log:        d.Log,
		httpClient: d.HTTPClient,
	}
	if h.log == nil {
		h.log = zap.NewNop()
	}
	if h.httpClient == nil {
		h.httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return h
}

// RouterOptions configure the parts of the router that are not handlers.
type RouterOptions struct {
	CORSOrigins []string
	// UploadDir is served under /uploads/ when set.
	UploadDir string
}

// Router wires every route, the request logger and CORS.
func (h *Handler) Router(opts RouterOptions) http.Handler {
	r := mux.NewRouter()
	r.Use(logging.Middleware(h.log), logging.Recoverer(h.log))

	requireAuth := auth.Middleware(h.tokens)

	r.HandleFunc("/healthz", handleHealth).Methods(http.MethodGet)

	r.HandleFunc("/api/auth/register", h.Register).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/login", h.Login).Methods(http.MethodPost)
	r.Handle("/api/auth/me", requireAuth(http.HandlerFunc(h.Me))).Methods(http.MethodGet)

	// /mine must be registered before /{id}.
	r.HandleFunc("/api/recipes", h.GetRecipes).Methods(http.MethodGet)
	r.Handle("/api/recipes/mine", requireAuth(http.HandlerFunc(h.MyRecipes))).Methods(http.MethodGet)
	r.HandleFunc("/api/recipes/{id}", h.GetRecipe).Methods(http.MethodGet)
	r.Handle("/api/recipes", requireAuth(http.HandlerFunc(h.CreateRecipe))).Methods(http.MethodPost)
	r.Handle("/api/recipes/{id}", requireAuth(http.HandlerFunc(h.DeleteRecipe))).Methods(http.MethodDelete)

	r.HandleFunc("/api/search", h.Search).Methods(http.MethodGet)
	r.HandleFunc("/api/image", h.FetchImage).Methods(http.MethodGet)

	if opts.UploadDir != "" {
		r.PathPrefix(images.URLPrefix).Handler(
			http.StripPrefix(images.URLPrefix, http.FileServer(http.Dir(opts.UploadDir))))
	}

	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})
	return c.Handler(r)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("ok")) //nolint:errcheck
}

// --- helpers ---

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

// respondError writes {"error": msg}. Server errors are logged with err.
func (h *Handler) respondError(w http.ResponseWriter, status int, msg string, errs ...error) {
	if status >= 500 && len(errs) > 0 {
		h.log.Error(msg, zap.Int("status", status), zap.Error(errs[0]))
	}
	respondJSON(w, status, map[string]string{"error": msg})
}
