package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/quantgeo/gannwheel/internal/core"
	"github.com/quantgeo/gannwheel/internal/gann"
	"github.com/quantgeo/gannwheel/internal/volprice"
)

// Document is the archived form of one analysis run.
type Document struct {
	Symbol      string           `json:"symbol"`
	Period      core.Period      `json:"period"`
	AsOf        time.Time        `json:"as_of"`
	ArchivedAt  time.Time        `json:"archived_at"`
	Gann        *gann.Result     `json:"gann,omitempty"`
	VolumePrice *volprice.Result `json:"volume_price,omitempty"`
}

// Archiver writes analysis results to a storage backend as JSON, one
// document per symbol and as-of date.
type Archiver struct {
	storage Storage
	now     func() time.Time
}

// NewArchiver wraps a storage backend.
func NewArchiver(storage Storage) *Archiver {
	return &Archiver{storage: storage, now: time.Now}
}

// DocumentPath is where a result document lives relative to the
// storage root: results/<period>/<symbol>/<as-of date>.json.
func DocumentPath(symbol string, period core.Period, asOf time.Time) string {
	return fmt.Sprintf("results/%s/%s/%s.json", period, symbol, asOf.Format("2006-01-02"))
}

// Save archives one analysis run.
func (a *Archiver) Save(ctx context.Context, gr *gann.Result, vr *volprice.Result) error {
	if gr == nil && vr == nil {
		return fmt.Errorf("nothing to archive")
	}

	doc := Document{ArchivedAt: a.now()}
	if gr != nil {
		doc.Symbol, doc.Period, doc.AsOf = gr.Symbol, gr.Period, gr.AsOf
		doc.Gann = gr
	}
	if vr != nil {
		doc.Symbol, doc.Period, doc.AsOf = vr.Symbol, vr.Period, vr.AsOf
		doc.VolumePrice = vr
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}
	return a.storage.Write(ctx, DocumentPath(doc.Symbol, doc.Period, doc.AsOf), data)
}

// Load reads an archived document back.
func (a *Archiver) Load(ctx context.Context, symbol string, period core.Period, asOf time.Time) (*Document, error) {
	data, err := a.storage.Read(ctx, DocumentPath(symbol, period, asOf))
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}
	return &doc, nil
}

// ListSymbol returns the archived paths for one symbol.
func (a *Archiver) ListSymbol(ctx context.Context, symbol string, period core.Period) ([]string, error) {
	return a.storage.List(ctx, fmt.Sprintf("results/%s/%s", period, symbol))
}
