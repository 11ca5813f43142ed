// internal/api/handler/api/batch.go
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/quantgeo/gannwheel/internal/api/job"
	"github.com/quantgeo/gannwheel/internal/api/response"
	"github.com/quantgeo/gannwheel/internal/batch"
	"github.com/quantgeo/gannwheel/internal/core"
	"github.com/quantgeo/gannwheel/internal/metrics"
	"github.com/quantgeo/gannwheel/internal/storage/result"
)

const batchTimeout = 10 * time.Minute

// BatchRequest is the request body for starting a batch analysis.
type BatchRequest struct {
	Period core.Period           `json:"period"`
	Series map[string][]core.Bar `json:"series"`
}

// BatchHandler handles batch analysis API requests.
type BatchHandler struct {
	jobStore    *job.Store
	coordinator *batch.Coordinator
	results     result.Store
	metrics     *metrics.Registry
	logger      *zap.Logger
}

// NewBatchHandler creates a new batch handler.
func NewBatchHandler(
	jobStore *job.Store,
	coordinator *batch.Coordinator,
	results result.Store,
	reg *metrics.Registry,
	logger *zap.Logger,
) *BatchHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchHandler{
		jobStore:    jobStore,
		coordinator: coordinator,
		results:     results,
		metrics:     reg,
		logger:      logger,
	}
}

// Create starts a new batch job.
func (h *BatchHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest,
			core.WrapError(core.ErrDataValidation, err))
		return
	}
	if len(req.Series) == 0 {
		response.Error(w, http.StatusBadRequest,
			core.WrapError(core.ErrDataValidation, nil))
		return
	}
	if req.Period == "" {
		req.Period = core.PeriodDaily
	}

	j := h.jobStore.Create("batch")

	// Copy values before starting goroutine to avoid race
	jobID := j.ID
	status := j.Status

	go h.runBatch(jobID, req.Period, req.Series)

	response.JSON(w, http.StatusAccepted, map[string]any{
		"job_id":  jobID,
		"status":  status,
		"symbols": len(req.Series),
	})
}

// runBatch executes the batch and updates job status.
func (h *BatchHandler) runBatch(jobID string, period core.Period, barsBySymbol map[string][]core.Bar) {
	h.jobStore.Update(jobID, func(j *job.Job) {
		j.Status = job.StatusRunning
	})
	if h.metrics != nil {
		h.metrics.SetJobsActive("batch", h.countActive())
	}

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	start := time.Now()
	report := h.coordinator.Run(ctx, period, barsBySymbol)

	if h.results != nil {
		now := time.Now().UTC()
		for _, item := range report.Items {
			if item.Err != nil {
				continue
			}
			err := h.results.Save(ctx, result.Entry{
				Key:         result.Key{Symbol: item.Symbol, Period: period},
				SavedAt:     now,
				Gann:        item.Gann,
				VolumePrice: item.VolumePrice,
			})
			if err != nil {
				h.logger.Warn("saving batch result", zap.String("symbol", item.Symbol), zap.Error(err))
			}
		}
	}

	h.jobStore.Update(jobID, func(j *job.Job) {
		j.Status = job.StatusComplete
		j.Progress = 100
		j.Result = report
	})

	if h.metrics != nil {
		status := "ok"
		if report.Failed > 0 {
			status = "partial"
		}
		h.metrics.RecordBatch(status, report.Succeeded, report.Failed, time.Since(start).Seconds())
		h.metrics.SetJobsActive("batch", h.countActive())
		if h.results != nil {
			if n, err := h.results.Count(ctx, result.ListFilter{}); err == nil {
				h.metrics.SetResultsStored(n)
			}
		}
	}
}

func (h *BatchHandler) countActive() int {
	n := 0
	for _, j := range h.jobStore.List() {
		if j.Type == "batch" && (j.Status == job.StatusPending || j.Status == job.StatusRunning) {
			n++
		}
	}
	return n
}

// GetStatus returns the status of a batch job.
func (h *BatchHandler) GetStatus(w http.ResponseWriter, r *http.Request, jobID string) {
	j, err := h.jobStore.Get(jobID)
	if err != nil {
		response.Error(w, http.StatusNotFound, err)
		return
	}

	resp := map[string]any{
		"job_id":   j.ID,
		"status":   j.Status,
		"progress": j.Progress,
	}

	if j.Status == job.StatusComplete {
		resp["result"] = j.Result
	}
	if j.Status == job.StatusFailed && j.Error != nil {
		resp["error"] = map[string]string{
			"code":    j.Error.Code,
			"message": j.Error.Message,
		}
	}

	response.JSON(w, http.StatusOK, resp)
}
