package ports

import (
	"context"

	"github.com/xvierd/tempo/internal/domain"
)

// SettingsService provides typed access to user settings.
// This is a driven port (implemented by adapters).
type SettingsService interface {
	// Load reads persisted settings, keeping defaults for missing keys.
	Load(ctx context.Context) error

	// Save persists the current settings.
	Save(ctx context.Context) error

	// Settings returns a copy of the current settings.
	Settings() domain.Settings

	// Update mutates settings in memory. Call Save to persist.
	Update(fn func(*domain.Settings))
}
