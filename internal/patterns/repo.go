package patterns

import (
	"context"

	"github.com/stationstack/station-insight/internal/models"
)

// StoreFunc adapts a function to the Store interface.
type StoreFunc func(ctx context.Context, fleetID string, patterns []models.FleetPattern) error

// StorePatterns implements Store.
func (f StoreFunc) StorePatterns(ctx context.Context, fleetID string, patterns []models.FleetPattern) error {
	return f(ctx, fleetID, patterns)
}
