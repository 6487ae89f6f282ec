package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"palettefolio/internal/catalog"
	applog "palettefolio/internal/log"
	"palettefolio/internal/token"
	"palettefolio/models"
)

type saveThemeRequest struct {
	ThemeID string `json:"themeId"`
}

func (a *API) listThemes(w http.ResponseWriter, r *http.Request) {
	themes, err := a.catalog.ListPublicThemes(r.Context())
	a.metrics.RecordTheme("list_public", err)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if themes == nil {
		themes = []models.Theme{}
	}
	applog.Debug(r.Context(), "listed public themes", "count", len(themes))
	writeJSON(w, r, http.StatusOK, themes)
}

func (a *API) saveTheme(w http.ResponseWriter, r *http.Request) {
	user, ok := a.requireUser(w, r)
	if !ok {
		return
	}

	var in saveThemeRequest
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	saved, err := a.catalog.SaveTheme(r.Context(), user.ID, in.ThemeID)
	a.metrics.RecordTheme("save", err)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, saved)
}

func (a *API) listSaved(w http.ResponseWriter, r *http.Request) {
	user, ok := a.requireUser(w, r)
	if !ok {
		return
	}

	saved, err := a.catalog.ListSavedThemes(r.Context(), user.ID)
	a.metrics.RecordTheme("list_saved", err)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if saved == nil {
		saved = []models.SavedTheme{}
	}
	writeJSON(w, r, http.StatusOK, saved)
}

func (a *API) unsaveTheme(w http.ResponseWriter, r *http.Request) {
	user, ok := a.requireUser(w, r)
	if !ok {
		return
	}

	err := a.catalog.UnsaveTheme(r.Context(), user.ID, chi.URLParam(r, "id"))
	a.metrics.RecordTheme("unsave", err)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, r, http.StatusOK, "Theme removed from saved list")
}

func (a *API) createCustom(w http.ResponseWriter, r *http.Request) {
	user, ok := a.requireUser(w, r)
	if !ok {
		return
	}

	var in catalog.CustomThemeInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	theme, err := a.catalog.CreateCustomTheme(r.Context(), user.ID, in)
	a.metrics.RecordTheme("create_custom", err)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, theme)
}

func (a *API) listMine(w http.ResponseWriter, r *http.Request) {
	user, ok := a.requireUser(w, r)
	if !ok {
		return
	}

	themes, err := a.catalog.ListMyThemes(r.Context(), user.ID)
	a.metrics.RecordTheme("list_mine", err)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if themes == nil {
		themes = []models.Theme{}
	}
	writeJSON(w, r, http.StatusOK, themes)
}

func (a *API) deleteCustom(w http.ResponseWriter, r *http.Request) {
	user, ok := a.requireUser(w, r)
	if !ok {
		return
	}

	err := a.catalog.DeleteCustomTheme(r.Context(), user.ID, chi.URLParam(r, "id"))
	a.metrics.RecordTheme("delete_custom", err)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, r, http.StatusOK, "Theme deleted successfully")
}

// requireUser guards against a route mounted without RequireToken.
func (a *API) requireUser(w http.ResponseWriter, r *http.Request) (models.User, bool) {
	user, ok := CurrentUser(r.Context())
	if !ok {
		writeError(w, r, token.ErrMissing)
	}
	return user, ok
}
