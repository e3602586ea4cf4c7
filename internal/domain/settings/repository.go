package settings

import (
	"context"

	"puntoventa/internal/core/id"
)

// Repository defines persistence operations for settings rows.
type Repository interface {
	// GetSetting retrieves a setting by key and scope.
	// A nil userID selects the global row.
	GetSetting(ctx context.Context, key string, userID *id.ID) (*Setting, error)

	// UpsertSetting inserts or replaces a setting row
	UpsertSetting(ctx context.Context, setting *Setting) error

	// InsertRateHistory appends a rate change record
	InsertRateHistory(ctx context.Context, entry *RateHistory) error

	// ListRateHistory retrieves recent rate changes, newest first
	ListRateHistory(ctx context.Context, limit int) ([]*RateHistory, error)
}
