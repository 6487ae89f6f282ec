package catalog

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"palettefolio/internal/apperror"
	"palettefolio/internal/config"
	"palettefolio/internal/db"
	"palettefolio/internal/store"
	"palettefolio/models"
)

var dbCounter atomic.Int64

type fixture struct {
	service *Service
	themes  *store.Themes
	users   *store.Users
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	name := fmt.Sprintf("file:catalog-%d?mode=memory&cache=shared", dbCounter.Add(1))
	database, err := db.Configure(config.DatabaseConfig{URL: name, MaxOpenConns: 1})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(database) })

	themes := store.NewThemes(database)
	users := store.NewUsers(database)
	return fixture{service: NewService(themes, users), themes: themes, users: users}
}

func (f fixture) user(t *testing.T, name, email string) models.User {
	t.Helper()
	user := models.User{Name: name, Email: email, PasswordHash: "hash"}
	require.NoError(t, f.users.Create(context.Background(), &user))
	return user
}

func (f fixture) systemTheme(t *testing.T, name string) models.Theme {
	t.Helper()
	theme := models.Theme{Name: name, Description: name + " palette", Colors: palette()}
	require.NoError(t, f.themes.Create(context.Background(), &theme))
	return theme
}

func palette() models.Colors {
	return models.Colors{
		Background: "#fdf6e3",
		Surface:    "#eee8d5",
		Primary:    "#b58900",
		Secondary:  "#2aa198",
		Accent:     "#cb4b16",
		Text:       "#657b83",
		Subtext:    "#93a1a1",
	}
}

func TestListPublicThemesExcludesCustomThemes(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	owner := f.user(t, "Owner", "owner@example.com")
	f.systemTheme(t, "Retro Pop")
	f.systemTheme(t, "Desert Sage")

	colors := palette()
	_, err := f.service.CreateCustomTheme(ctx, owner.ID, CustomThemeInput{Name: "Private", Colors: &colors})
	require.NoError(t, err)

	themes, err := f.service.ListPublicThemes(ctx)
	require.NoError(t, err)
	require.Len(t, themes, 2)
	require.Equal(t, "Desert Sage", themes[0].Name)
	require.Equal(t, "Retro Pop", themes[1].Name)
}

func TestSaveTheme(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	user := f.user(t, "Ada", "ada@example.com")
	theme := f.systemTheme(t, "Midnight Tokyo")

	saved, err := f.service.SaveTheme(ctx, user.ID, theme.ID)
	require.NoError(t, err)
	require.Equal(t, user.ID, saved.UserID)
	require.Equal(t, theme.ID, saved.ThemeID)

	_, err = f.service.SaveTheme(ctx, user.ID, theme.ID)
	require.ErrorIs(t, err, ErrAlreadySaved)
	require.Equal(t, apperror.KindConflict, apperror.KindOf(err))

	list, err := f.service.ListSavedThemes(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].Theme)
	require.Equal(t, "Midnight Tokyo", list[0].Theme.Name)

	_, err = f.service.SaveTheme(ctx, user.ID, "")
	require.ErrorIs(t, err, ErrThemeIDRequired)

	_, err = f.service.SaveTheme(ctx, user.ID, "missing")
	require.ErrorIs(t, err, ErrThemeNotFound)
	require.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestSavedThemesAreScopedPerUser(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	alice := f.user(t, "Alice", "alice@example.com")
	bob := f.user(t, "Bob", "bob@example.com")
	theme := f.systemTheme(t, "Forest Glass")

	_, err := f.service.SaveTheme(ctx, alice.ID, theme.ID)
	require.NoError(t, err)

	bobs, err := f.service.ListSavedThemes(ctx, bob.ID)
	require.NoError(t, err)
	require.Empty(t, bobs)

	err = f.service.UnsaveTheme(ctx, bob.ID, theme.ID)
	require.ErrorIs(t, err, ErrSavedNotFound)

	require.NoError(t, f.service.UnsaveTheme(ctx, alice.ID, theme.ID))
	err = f.service.UnsaveTheme(ctx, alice.ID, theme.ID)
	require.ErrorIs(t, err, ErrSavedNotFound)
	require.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestCreateCustomTheme(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	owner := f.user(t, "Grace", "grace@example.com")
	colors := palette()

	theme, err := f.service.CreateCustomTheme(ctx, owner.ID, CustomThemeInput{Name: "Studio", Colors: &colors})
	require.NoError(t, err)
	require.NotEmpty(t, theme.ID)
	require.Equal(t, "Custom theme by Grace", theme.Description)
	require.True(t, theme.Ownership().IsOwnedBy(owner.ID))

	described := "Late night palette"
	second, err := f.service.CreateCustomTheme(ctx, owner.ID, CustomThemeInput{Name: "Night", Description: &described, Colors: &colors})
	require.NoError(t, err)
	require.Equal(t, described, second.Description)

	saved, err := f.service.ListSavedThemes(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, saved, 2)

	mine, err := f.service.ListMyThemes(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, mine, 2)

	_, err = f.service.SaveTheme(ctx, owner.ID, theme.ID)
	require.ErrorIs(t, err, ErrAlreadySaved)
}

func TestCreateCustomThemeRequiresNameAndColors(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	owner := f.user(t, "Grace", "grace@example.com")
	colors := palette()
	partial := palette()
	partial.Accent = ""

	tests := []struct {
		name  string
		input CustomThemeInput
	}{
		{"missing name", CustomThemeInput{Colors: &colors}},
		{"blank name", CustomThemeInput{Name: "  ", Colors: &colors}},
		{"missing colors", CustomThemeInput{Name: "Studio"}},
		{"partial colors", CustomThemeInput{Name: "Studio", Colors: &partial}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := f.service.CreateCustomTheme(context.Background(), owner.ID, tt.input)
			require.ErrorIs(t, err, ErrNameColorsMissing)
			require.Equal(t, apperror.KindValidation, apperror.KindOf(err))
		})
	}
}

func TestDeleteCustomTheme(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	owner := f.user(t, "Owner", "owner@example.com")
	fan := f.user(t, "Fan", "fan@example.com")
	system := f.systemTheme(t, "Monochrome Luxe")
	colors := palette()

	theme, err := f.service.CreateCustomTheme(ctx, owner.ID, CustomThemeInput{Name: "Mine", Colors: &colors})
	require.NoError(t, err)
	_, err = f.service.SaveTheme(ctx, fan.ID, theme.ID)
	require.NoError(t, err)

	err = f.service.DeleteCustomTheme(ctx, fan.ID, theme.ID)
	require.ErrorIs(t, err, ErrNotThemeOwner)
	require.Equal(t, apperror.KindAuthorization, apperror.KindOf(err))

	err = f.service.DeleteCustomTheme(ctx, owner.ID, system.ID)
	require.ErrorIs(t, err, ErrNotThemeOwner)

	err = f.service.DeleteCustomTheme(ctx, owner.ID, "missing")
	require.ErrorIs(t, err, ErrThemeNotFound)

	require.NoError(t, f.service.DeleteCustomTheme(ctx, owner.ID, theme.ID))

	for _, id := range []string{owner.ID, fan.ID} {
		saved, err := f.service.ListSavedThemes(ctx, id)
		require.NoError(t, err)
		require.Empty(t, saved)
	}
	mine, err := f.service.ListMyThemes(ctx, owner.ID)
	require.NoError(t, err)
	require.Empty(t, mine)

	public, err := f.service.ListPublicThemes(ctx)
	require.NoError(t, err)
	require.Len(t, public, 1)

	err = f.service.DeleteCustomTheme(ctx, owner.ID, theme.ID)
	require.ErrorIs(t, err, ErrThemeNotFound)
}
