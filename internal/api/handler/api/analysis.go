// internal/api/handler/api/analysis.go
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/quantgeo/gannwheel/internal/api/response"
	"github.com/quantgeo/gannwheel/internal/core"
	"github.com/quantgeo/gannwheel/internal/gann"
	"github.com/quantgeo/gannwheel/internal/metrics"
	"github.com/quantgeo/gannwheel/internal/series"
	"github.com/quantgeo/gannwheel/internal/storage/archive"
	"github.com/quantgeo/gannwheel/internal/storage/result"
	"github.com/quantgeo/gannwheel/internal/volprice"
)

// AnalyzeRequest is the request body for a single-symbol analysis.
type AnalyzeRequest struct {
	Symbol string      `json:"symbol"`
	Period core.Period `json:"period"`
	Bars   []core.Bar  `json:"bars"`
}

// AnalyzeResult pairs both engine results for one symbol.
type AnalyzeResult struct {
	Symbol      string           `json:"symbol"`
	Gann        *gann.Result     `json:"gann"`
	VolumePrice *volprice.Result `json:"volume_price"`
}

// AnalysisHandler runs both engines synchronously for one symbol.
type AnalysisHandler struct {
	gann     *gann.Analyzer
	vol      *volprice.Analyzer
	minBars  int
	results  result.Store
	archiver *archive.Archiver // nil when archiving is disabled
	metrics  *metrics.Registry
	logger   *zap.Logger
}

// NewAnalysisHandler creates a new analysis handler. archiver may be
// nil.
func NewAnalysisHandler(
	g *gann.Analyzer,
	v *volprice.Analyzer,
	timeCycles []int,
	results result.Store,
	archiver *archive.Archiver,
	reg *metrics.Registry,
	logger *zap.Logger,
) *AnalysisHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalysisHandler{
		gann:     g,
		vol:      v,
		minBars:  series.MinBars(timeCycles),
		results:  results,
		archiver: archiver,
		metrics:  reg,
		logger:   logger,
	}
}

// Analyze validates the posted bars and runs both engines.
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest,
			core.WrapError(core.ErrDataValidation, err))
		return
	}
	if req.Symbol == "" || len(req.Bars) == 0 {
		response.Error(w, http.StatusBadRequest,
			core.WrapError(core.ErrDataValidation, nil))
		return
	}
	if req.Period == "" {
		req.Period = core.PeriodDaily
	}

	s, err := series.Validate(req.Symbol, req.Period, req.Bars, h.minBars)
	if err != nil {
		response.Error(w, response.StatusFromError(err), err)
		return
	}

	start := time.Now()
	gr, err := h.gann.Analyze(s)
	h.recordAnalysis("gann", err, time.Since(start))
	if err != nil {
		response.Error(w, response.StatusFromError(err), err)
		return
	}

	start = time.Now()
	vr, err := h.vol.Analyze(s)
	h.recordAnalysis("volprice", err, time.Since(start))
	if err != nil {
		response.Error(w, response.StatusFromError(err), err)
		return
	}

	if h.metrics != nil {
		for _, sig := range vr.Signals {
			h.metrics.RecordSignals(string(sig.Kind), 1)
		}
	}

	h.store(r.Context(), gr, vr)

	response.JSON(w, http.StatusOK, AnalyzeResult{
		Symbol:      req.Symbol,
		Gann:        gr,
		VolumePrice: vr,
	})
}

func (h *AnalysisHandler) recordAnalysis(engine string, err error, d time.Duration) {
	if h.metrics == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	h.metrics.RecordAnalysis(engine, status, d.Seconds())
}

// store persists the pair to the result store and, when configured,
// the archive. Persistence failures are logged, not surfaced.
func (h *AnalysisHandler) store(ctx context.Context, gr *gann.Result, vr *volprice.Result) {
	if h.results != nil {
		entry := result.Entry{
			Key:         result.Key{Symbol: gr.Symbol, Period: gr.Period},
			SavedAt:     time.Now().UTC(),
			Gann:        gr,
			VolumePrice: vr,
		}
		if err := h.results.Save(ctx, entry); err != nil {
			h.logger.Warn("saving result", zap.String("symbol", gr.Symbol), zap.Error(err))
		} else if h.metrics != nil {
			if n, err := h.results.Count(ctx, result.ListFilter{}); err == nil {
				h.metrics.SetResultsStored(n)
			}
		}
	}

	if h.archiver != nil {
		if err := h.archiver.Save(ctx, gr, vr); err != nil {
			h.logger.Warn("archiving result", zap.String("symbol", gr.Symbol), zap.Error(err))
		}
	}
}
