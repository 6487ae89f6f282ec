// Package handlers implements the JSON HTTP API.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"palettefolio/internal/apperror"
	"palettefolio/internal/catalog"
	"palettefolio/internal/identity"
	applog "palettefolio/internal/log"
	"palettefolio/internal/metrics"
	"palettefolio/models"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Identity is the account surface used by the auth handlers and middleware.
type Identity interface {
	Register(ctx context.Context, in identity.RegisterInput) (identity.Result, error)
	Login(ctx context.Context, email, password string) (identity.Result, error)
	Authenticate(ctx context.Context, raw string) (models.User, error)
}

// Catalog is the theme surface used by the theme handlers.
type Catalog interface {
	ListPublicThemes(ctx context.Context) ([]models.Theme, error)
	SaveTheme(ctx context.Context, userID, themeID string) (models.SavedTheme, error)
	ListSavedThemes(ctx context.Context, userID string) ([]models.SavedTheme, error)
	UnsaveTheme(ctx context.Context, userID, themeID string) error
	CreateCustomTheme(ctx context.Context, userID string, in catalog.CustomThemeInput) (models.Theme, error)
	ListMyThemes(ctx context.Context, userID string) ([]models.Theme, error)
	DeleteCustomTheme(ctx context.Context, userID, themeID string) error
}

// API bundles the dependencies of every handler.
type API struct {
	identity Identity
	catalog  Catalog
	metrics  *metrics.Metrics
}

// New returns an API. m may be nil.
func New(id Identity, cat Catalog, m *metrics.Metrics) *API {
	return &API{identity: id, catalog: cat, metrics: m}
}

// Register mounts the auth and theme routes on r.
func (a *API) Register(r chi.Router) {
	r.Post("/auth/register", a.register)
	r.Post("/auth/login", a.login)
	r.Get("/themes", a.listThemes)

	r.Group(func(r chi.Router) {
		r.Use(a.RequireToken)
		r.Post("/themes/save", a.saveTheme)
		r.Get("/themes/saved", a.listSaved)
		r.Delete("/themes/saved/{id}", a.unsaveTheme)
		r.Post("/themes/custom", a.createCustom)
		r.Get("/themes/my-themes", a.listMine)
		r.Delete("/themes/custom/{id}", a.deleteCustom)
	})
}

type messageResponse struct {
	Message string `json:"message"`
}

var errInvalidBody = apperror.Validation("invalid request body")

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		applog.Debug(r.Context(), "failed to decode request body", "error", err)
		return errInvalidBody
	}
	return nil
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		applog.Error(r.Context(), "failed to encode response", "error", err)
	}
}

func writeMessage(w http.ResponseWriter, r *http.Request, status int, message string) {
	writeJSON(w, r, status, messageResponse{Message: message})
}

// writeError renders err as {"message": ...} with the status of its kind.
// Internal causes are logged, never sent.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperror.KindOf(err)
	status := apperror.HTTPStatus(kind)
	if kind == apperror.KindInternal {
		applog.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	} else {
		applog.Debug(r.Context(), "request rejected", "path", r.URL.Path, "kind", kind.String(), "status", status)
	}
	writeMessage(w, r, status, apperror.PublicMessage(err))
}
