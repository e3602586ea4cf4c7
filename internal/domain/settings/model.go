// Package settings provides application configuration rows, primarily the
// exchange rate, with an append-only change history.
package settings

import (
	"time"

	"puntoventa/internal/core/id"
	"puntoventa/internal/core/types"
)

// KeyExchangeRate is the settings key for the local-currency exchange rate.
const KeyExchangeRate = "exchange_rate"

// Setting is one configuration row. A nil UserID denotes the global,
// shared row; per-user rows are legacy and read only as a fallback.
type Setting struct {
	ID        id.ID       `db:"id" json:"id"`
	Key       string      `db:"key" json:"key"`
	Value     types.Money `db:"value" json:"value"`
	UserID    *id.ID      `db:"user_id" json:"userId,omitempty"`
	UpdatedAt time.Time   `db:"updated_at" json:"updatedAt"`
}

// RateHistory is an append-only record of one exchange-rate change.
type RateHistory struct {
	ID        id.ID       `db:"id" json:"id"`
	Rate      types.Money `db:"rate" json:"rate"`
	UserID    id.ID       `db:"user_id" json:"userId"`
	CreatedAt time.Time   `db:"created_at" json:"createdAt"`
}
