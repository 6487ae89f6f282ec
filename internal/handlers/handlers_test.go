package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"palettefolio/internal/apperror"
	"palettefolio/internal/catalog"
	"palettefolio/internal/identity"
	"palettefolio/internal/token"
	"palettefolio/models"
)

const validToken = "valid-token"

type fakeIdentity struct {
	registerErr error
	loginErr    error
	user        models.User
}

func (f *fakeIdentity) Register(_ context.Context, in identity.RegisterInput) (identity.Result, error) {
	if f.registerErr != nil {
		return identity.Result{}, f.registerErr
	}
	return identity.Result{PublicUser: models.PublicUser{ID: "u1", Name: in.Name, Email: in.Email}, Token: validToken}, nil
}

func (f *fakeIdentity) Login(_ context.Context, email, _ string) (identity.Result, error) {
	if f.loginErr != nil {
		return identity.Result{}, f.loginErr
	}
	return identity.Result{PublicUser: models.PublicUser{ID: "u1", Email: email}, Token: validToken}, nil
}

func (f *fakeIdentity) Authenticate(_ context.Context, raw string) (models.User, error) {
	if raw != validToken {
		return models.User{}, token.ErrInvalid
	}
	return f.user, nil
}

type fakeCatalog struct {
	err        error
	lastUser   string
	lastTheme  string
	lastCustom catalog.CustomThemeInput
}

func (f *fakeCatalog) ListPublicThemes(context.Context) ([]models.Theme, error) {
	return []models.Theme{{ID: "t1", Name: "Midnight Tokyo"}}, f.err
}

func (f *fakeCatalog) SaveTheme(_ context.Context, userID, themeID string) (models.SavedTheme, error) {
	f.lastUser, f.lastTheme = userID, themeID
	return models.SavedTheme{UserID: userID, ThemeID: themeID}, f.err
}

func (f *fakeCatalog) ListSavedThemes(_ context.Context, userID string) ([]models.SavedTheme, error) {
	f.lastUser = userID
	return nil, f.err
}

func (f *fakeCatalog) UnsaveTheme(_ context.Context, userID, themeID string) error {
	f.lastUser, f.lastTheme = userID, themeID
	return f.err
}

func (f *fakeCatalog) CreateCustomTheme(_ context.Context, userID string, in catalog.CustomThemeInput) (models.Theme, error) {
	f.lastUser, f.lastCustom = userID, in
	return models.Theme{ID: "t9", Name: in.Name}, f.err
}

func (f *fakeCatalog) ListMyThemes(_ context.Context, userID string) ([]models.Theme, error) {
	f.lastUser = userID
	return nil, f.err
}

func (f *fakeCatalog) DeleteCustomTheme(_ context.Context, userID, themeID string) error {
	f.lastUser, f.lastTheme = userID, themeID
	return f.err
}

func newRouter(id *fakeIdentity, cat *fakeCatalog) http.Handler {
	r := chi.NewRouter()
	New(id, cat, nil).Register(r)
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+validToken)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp messageResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode message response %q: %v", w.Body.String(), err)
	}
	return resp.Message
}

func TestRegisterAndLogin(t *testing.T) {
	t.Parallel()

	h := newRouter(&fakeIdentity{}, &fakeCatalog{})

	w := do(t, h, http.MethodPost, "/auth/register", `{"name":"Ada","email":"ada@example.com","password":"Str0ng!Pass"}`, false)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", w.Code)
	}
	var result identity.Result
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to decode register response: %v", err)
	}
	if result.Token != validToken || result.Name != "Ada" {
		t.Fatalf("unexpected register response: %+v", result)
	}
	var flat map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &flat); err != nil {
		t.Fatalf("failed to decode register response: %v", err)
	}
	for _, key := range []string{"_id", "name", "email", "token"} {
		if _, ok := flat[key]; !ok {
			t.Fatalf("expected flat key %q in %s", key, w.Body.String())
		}
	}
	if _, nested := flat["user"]; nested {
		t.Fatalf("expected no nested user object, got %s", w.Body.String())
	}

	w = do(t, h, http.MethodPost, "/auth/login", `{"email":"ada@example.com","password":"Str0ng!Pass"}`, false)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
}

func TestErrorStatusMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"validation", identity.ErrInvalidEmail, http.StatusBadRequest, "Please provide a valid email address"},
		{"conflict", identity.ErrEmailTaken, http.StatusConflict, "Email already registered"},
		{"auth", identity.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials"},
		{"internal", apperror.Internal(errors.New("db down")), http.StatusInternalServerError, "internal server error"},
		{"untyped", errors.New("boom"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := newRouter(&fakeIdentity{registerErr: tt.err}, &fakeCatalog{})
			w := do(t, h, http.MethodPost, "/auth/register", `{"name":"Ada"}`, false)
			if w.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, w.Code)
			}
			if got := decodeMessage(t, w); got != tt.message {
				t.Fatalf("expected message %q, got %q", tt.message, got)
			}
		})
	}
}

func TestMalformedBodyIsRejected(t *testing.T) {
	t.Parallel()

	h := newRouter(&fakeIdentity{}, &fakeCatalog{})
	w := do(t, h, http.MethodPost, "/auth/login", `{"email":`, false)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	t.Parallel()

	cat := &fakeCatalog{}
	h := newRouter(&fakeIdentity{user: models.User{ID: "u1"}}, cat)

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/themes/save"},
		{http.MethodGet, "/themes/saved"},
		{http.MethodDelete, "/themes/saved/t1"},
		{http.MethodPost, "/themes/custom"},
		{http.MethodGet, "/themes/my-themes"},
		{http.MethodDelete, "/themes/custom/t1"},
	}

	for _, route := range routes {
		w := do(t, h, route.method, route.path, `{}`, false)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected status 401, got %d", route.method, route.path, w.Code)
		}

		req := httptest.NewRequest(route.method, route.path, strings.NewReader(`{}`))
		req.Header.Set("Authorization", "Bearer forged")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s with bad token: expected status 401, got %d", route.method, route.path, rec.Code)
		}
	}

	if cat.lastUser != "" {
		t.Fatalf("expected catalog to stay untouched, got user %q", cat.lastUser)
	}
}

func TestThemeRoutes(t *testing.T) {
	t.Parallel()

	cat := &fakeCatalog{}
	h := newRouter(&fakeIdentity{user: models.User{ID: "u1", Name: "Ada"}}, cat)

	w := do(t, h, http.MethodGet, "/themes", "", false)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200 for public list, got %d", w.Code)
	}

	w = do(t, h, http.MethodPost, "/themes/save", `{"themeId":"t1"}`, true)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201 for save, got %d", w.Code)
	}
	if cat.lastUser != "u1" || cat.lastTheme != "t1" {
		t.Fatalf("unexpected save arguments: user %q theme %q", cat.lastUser, cat.lastTheme)
	}

	w = do(t, h, http.MethodGet, "/themes/saved", "", true)
	if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != "[]" {
		t.Fatalf("expected empty list, got %d %q", w.Code, w.Body.String())
	}

	w = do(t, h, http.MethodDelete, "/themes/saved/t7", "", true)
	if w.Code != http.StatusOK || decodeMessage(t, w) != "Theme removed from saved list" {
		t.Fatalf("unexpected unsave response: %d %q", w.Code, w.Body.String())
	}
	if cat.lastTheme != "t7" {
		t.Fatalf("expected path id t7, got %q", cat.lastTheme)
	}

	w = do(t, h, http.MethodPost, "/themes/custom", `{"name":"Studio","colors":{"bg":"#000","surface":"#111","primary":"#222","secondary":"#333","accent":"#444","text":"#555","subtext":"#666"}}`, true)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201 for custom theme, got %d", w.Code)
	}
	if cat.lastCustom.Colors == nil || cat.lastCustom.Colors.Background != "#000" || cat.lastCustom.Description != nil {
		t.Fatalf("unexpected custom theme input: %+v", cat.lastCustom)
	}

	w = do(t, h, http.MethodGet, "/themes/my-themes", "", true)
	if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != "[]" {
		t.Fatalf("expected empty list, got %d %q", w.Code, w.Body.String())
	}

	w = do(t, h, http.MethodDelete, "/themes/custom/t9", "", true)
	if w.Code != http.StatusOK || decodeMessage(t, w) != "Theme deleted successfully" {
		t.Fatalf("unexpected delete response: %d %q", w.Code, w.Body.String())
	}
}

func TestDeleteCustomThemeForbidden(t *testing.T) {
	t.Parallel()

	h := newRouter(&fakeIdentity{user: models.User{ID: "u2"}}, &fakeCatalog{err: catalog.ErrNotThemeOwner})
	w := do(t, h, http.MethodDelete, "/themes/custom/t1", "", true)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", w.Code)
	}
	if got := decodeMessage(t, w); got != "Not authorized to delete this theme" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestBearerToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"", "", false},
		{"Bearer", "", false},
		{"Bearer ", "", false},
		{"Basic abc", "", false},
		{"Bearer abc", "abc", true},
		{"bearer  abc ", "abc", true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.header, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			got, ok := bearerToken(req)
			if got != tt.want || ok != tt.ok {
				t.Fatalf("bearerToken(%q) = %q, %v; want %q, %v", tt.header, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	Health(nil)(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected Content-Type application/json, got %q", ct)
	}

	var resp healthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "ok" {
		t.Fatalf("expected status ok, got %q", resp.Status)
	}
	if resp.Time.IsZero() {
		t.Fatal("expected response time to be populated")
	}
}

func TestHealthReportsFailedCheck(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	Health(func(context.Context) error { return errors.New("db down") })(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", w.Code)
	}
}
