package handlers

import (
	"context"
	"net/http"
	"strings"

	"palettefolio/internal/identity"
	applog "palettefolio/internal/log"
	"palettefolio/internal/token"
	"palettefolio/models"
)

type userContextKey struct{}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *API) register(w http.ResponseWriter, r *http.Request) {
	applog.Debug(r.Context(), "handling register request")

	var in identity.RegisterInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	result, err := a.identity.Register(r.Context(), in)
	a.metrics.RecordAuth("register", err)
	if err != nil {
		writeError(w, r, err)
		return
	}

	applog.Debug(r.Context(), "register completed", "userID", result.ID)
	writeJSON(w, r, http.StatusCreated, result)
}

func (a *API) login(w http.ResponseWriter, r *http.Request) {
	applog.Debug(r.Context(), "handling login request")

	var in loginRequest
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	result, err := a.identity.Login(r.Context(), in.Email, in.Password)
	a.metrics.RecordAuth("login", err)
	if err != nil {
		writeError(w, r, err)
		return
	}

	applog.Debug(r.Context(), "login completed", "userID", result.ID)
	writeJSON(w, r, http.StatusOK, result)
}

// RequireToken rejects requests without a valid bearer token and stores the
// authenticated user in the request context.
func (a *API) RequireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := bearerToken(r)
		if !ok {
			applog.Debug(r.Context(), "request without bearer token", "path", r.URL.Path)
			writeError(w, r, token.ErrMissing)
			return
		}

		user, err := a.identity.Authenticate(r.Context(), raw)
		if err != nil {
			writeError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey{}, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CurrentUser returns the user stored by RequireToken.
func CurrentUser(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(userContextKey{}).(models.User)
	return user, ok
}

func bearerToken(r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, value, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	value = strings.TrimSpace(value)
	return value, value != ""
}
