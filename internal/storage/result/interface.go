// Package result keeps the latest analysis results per symbol so the
// API can serve them without re-running the engines.
package result

import (
	"context"
	"time"

	"github.com/quantgeo/gannwheel/internal/core"
	"github.com/quantgeo/gannwheel/internal/gann"
	"github.com/quantgeo/gannwheel/internal/volprice"
)

// Key identifies one stored analysis.
type Key struct {
	Symbol string      `json:"symbol"`
	Period core.Period `json:"period"`
}

// Entry is one stored pair of engine results.
type Entry struct {
	Key         Key              `json:"key"`
	SavedAt     time.Time        `json:"saved_at"`
	Gann        *gann.Result     `json:"gann,omitempty"`
	VolumePrice *volprice.Result `json:"volume_price,omitempty"`
}

// ListFilter defines criteria for listing entries.
type ListFilter struct {
	Symbol string
	Period core.Period
	Since  time.Time
	Limit  int
	Offset int
}

// Store defines the interface for result persistence.
type Store interface {
	// Save stores or replaces the entry for its key.
	Save(ctx context.Context, entry Entry) error

	// Get retrieves the entry for a key, or core.ErrNotFound.
	Get(ctx context.Context, key Key) (*Entry, error)

	// List retrieves entries matching the filter, newest first.
	List(ctx context.Context, filter ListFilter) ([]Entry, error)

	// Count returns the number of entries matching the filter.
	Count(ctx context.Context, filter ListFilter) (int, error)
}
