// Package batch runs both analysis engines across many symbols on a
// bounded worker pool. One symbol's failure is captured per item and
// never aborts the batch.
package batch

import (
	"context"
	"runtime"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/quantgeo/gannwheel/internal/core"
	"github.com/quantgeo/gannwheel/internal/gann"
	"github.com/quantgeo/gannwheel/internal/series"
	"github.com/quantgeo/gannwheel/internal/volprice"
)

// Item is the per-symbol outcome: both results on success, the error
// otherwise.
type Item struct {
	Symbol      string           `json:"symbol"`
	Gann        *gann.Result     `json:"gann,omitempty"`
	VolumePrice *volprice.Result `json:"volume_price,omitempty"`
	Err         error            `json:"-"`
	ErrMessage  string           `json:"error,omitempty"`
}

// Report aggregates a batch run. Items are sorted by symbol so batch
// output is deterministic regardless of completion order.
type Report struct {
	Items     []Item        `json:"items"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Skipped   int           `json:"skipped"`
	Duration  time.Duration `json:"duration"`
}

// Coordinator fans symbols out over a bounded pool and runs both
// engines per symbol.
type Coordinator struct {
	gann    *gann.Analyzer
	vol     *volprice.Analyzer
	minBars int
	workers int
	log     *zap.Logger
}

// NewCoordinator builds a coordinator. workers <= 0 defaults to the
// number of CPUs.
func NewCoordinator(g *gann.Analyzer, v *volprice.Analyzer, timeCycles []int, workers int, log *zap.Logger) *Coordinator {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Coordinator{
		gann:    g,
		vol:     v,
		minBars: series.MinBars(timeCycles),
		workers: workers,
		log:     log,
	}
}

// Run validates and analyzes every symbol in barsBySymbol. Cancellation
// is cooperative: symbols not yet started when ctx is done are skipped,
// in-flight analyses run to completion.
func (c *Coordinator) Run(ctx context.Context, period core.Period, barsBySymbol map[string][]core.Bar) *Report {
	start := time.Now()

	symbols := make([]string, 0, len(barsBySymbol))
	for sym := range barsBySymbol {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)

	items := make([]Item, len(symbols))
	skipped := 0

	var g errgroup.Group
	g.SetLimit(c.workers)
	for i, sym := range symbols {
		if ctx.Err() != nil {
			items[i] = Item{Symbol: sym, Err: ctx.Err(), ErrMessage: ctx.Err().Error()}
			skipped++
			continue
		}
		bars := barsBySymbol[sym]
		g.Go(func() error {
			items[i] = c.analyzeOne(sym, period, bars)
			return nil
		})
	}
	g.Wait()

	report := &Report{Items: items, Skipped: skipped, Duration: time.Since(start)}
	for _, item := range items {
		if item.Err == nil {
			report.Succeeded++
		}
	}
	report.Failed = len(items) - report.Succeeded - skipped
	c.log.Info("batch finished",
		zap.Int("symbols", len(symbols)),
		zap.Int("succeeded", report.Succeeded),
		zap.Int("failed", report.Failed),
		zap.Int("skipped", report.Skipped),
		zap.Duration("duration", report.Duration))
	return report
}

func (c *Coordinator) analyzeOne(symbol string, period core.Period, bars []core.Bar) Item {
	item := Item{Symbol: symbol}

	s, err := series.Validate(symbol, period, bars, c.minBars)
	if err != nil {
		c.log.Warn("symbol rejected", zap.String("symbol", symbol), zap.Error(err))
		item.Err = err
		item.ErrMessage = err.Error()
		return item
	}

	gr, err := c.gann.Analyze(s)
	if err != nil {
		item.Err = err
		item.ErrMessage = err.Error()
		return item
	}
	vr, err := c.vol.Analyze(s)
	if err != nil {
		item.Err = err
		item.ErrMessage = err.Error()
		return item
	}

	item.Gann = gr
	item.VolumePrice = vr
	return item
}
