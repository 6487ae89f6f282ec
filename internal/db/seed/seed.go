// Package seed installs the system theme catalogue.
package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	applog "palettefolio/internal/log"
	"palettefolio/internal/store"
	"palettefolio/models"
)

// ThemeDefinition is a system theme as written in a catalogue file.
type ThemeDefinition struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Colors      models.Colors `json:"colors"`
}

// Report lists which themes a run added and which already existed.
type Report struct {
	Added   []string
	Skipped []string
}

// Repository is the subset of store.Themes the seeder needs.
type Repository interface {
	FindSystemByName(ctx context.Context, name string) (models.Theme, error)
	Create(ctx context.Context, theme *models.Theme) error
}

// SystemThemes returns the built-in catalogue.
func SystemThemes() []ThemeDefinition {
	return []ThemeDefinition{
		{
			Name:        "Midnight Tokyo",
			Description: "High contrast, neon-inspired dark mode. Perfect for developers.",
			Colors: models.Colors{
				Background: "#0f172a", Surface: "#1e293b", Primary: "#38bdf8", Secondary: "#f472b6",
				Accent: "#facc15", Text: "#f1f5f9", Subtext: "#94a3b8",
			},
		},
		{
			Name:        "Desert Sage",
			Description: "Warm, earthy tones. Calm and professional.",
			Colors: models.Colors{
				Background: "#fdf6e3", Surface: "#eee8d5", Primary: "#b58900", Secondary: "#2aa198",
				Accent: "#cb4b16", Text: "#657b83", Subtext: "#93a1a1",
			},
		},
		{
			Name:        "Forest Glass",
			Description: "Deep greens with frosted glass aesthetics.",
			Colors: models.Colors{
				Background: "#052e16", Surface: "rgba(255, 255, 255, 0.1)", Primary: "#4ade80", Secondary: "#a7f3d0",
				Accent: "#fcd34d", Text: "#ecfdf5", Subtext: "#6ee7b7",
			},
		},
		{
			Name:        "Retro Pop",
			Description: "Bold, playful, and high-energy color palette.",
			Colors: models.Colors{
				Background: "#fffaeb", Surface: "#ffffff", Primary: "#ff6b6b", Secondary: "#4ecdc4",
				Accent: "#1a535c", Text: "#2d3436", Subtext: "#636e72",
			},
		},
		{
			Name:        "Lavender Mist",
			Description: "Soft, dreamy, and aesthetic tones.",
			Colors: models.Colors{
				Background: "#f3e8ff", Surface: "#ffffff", Primary: "#d8b4fe", Secondary: "#f0abfc",
				Accent: "#818cf8", Text: "#4c1d95", Subtext: "#7e22ce",
			},
		},
		{
			Name:        "Monochrome Luxe",
			Description: "Minimal grayscale with a bold accent.",
			Colors: models.Colors{
				Background: "#121212", Surface: "#262626", Primary: "#ffffff", Secondary: "#525252",
				Accent: "#ff3e00", Text: "#e5e5e5", Subtext: "#a3a3a3",
			},
		},
	}
}

// Decode reads a JSON array of theme definitions.
func Decode(r io.Reader) ([]ThemeDefinition, error) {
	var defs []ThemeDefinition
	if err := json.NewDecoder(r).Decode(&defs); err != nil {
		return nil, fmt.Errorf("decode theme catalogue: %w", err)
	}
	for idx, def := range defs {
		if strings.TrimSpace(def.Name) == "" {
			return nil, fmt.Errorf("theme %d: name is required", idx)
		}
		if !def.Colors.Complete() {
			return nil, fmt.Errorf("theme %q: all seven colors are required", def.Name)
		}
	}
	return defs, nil
}

// LoadFile reads a catalogue from path.
func LoadFile(path string) ([]ThemeDefinition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open theme catalogue: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Apply inserts every definition whose name is not already a system theme.
// Running it twice adds nothing the second time.
func Apply(ctx context.Context, repo Repository, defs []ThemeDefinition) (Report, error) {
	var report Report
	for _, def := range defs {
		name := strings.TrimSpace(def.Name)
		_, err := repo.FindSystemByName(ctx, name)
		switch {
		case err == nil:
			applog.Debug(ctx, "system theme already present", "name", name)
			report.Skipped = append(report.Skipped, name)
			continue
		case !errors.Is(err, store.ErrNotFound):
			return report, fmt.Errorf("look up theme %q: %w", name, err)
		}

		theme := models.Theme{
			Name:        name,
			Description: def.Description,
			Colors:      def.Colors,
		}
		theme.SetOwnership(models.SystemOwner())
		if err := repo.Create(ctx, &theme); err != nil {
			return report, fmt.Errorf("create theme %q: %w", name, err)
		}
		applog.Info(ctx, "system theme added", "name", name, "themeID", theme.ID)
		report.Added = append(report.Added, name)
	}
	return report, nil
}
