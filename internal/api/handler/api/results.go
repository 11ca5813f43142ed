// internal/api/handler/api/results.go
package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/quantgeo/gannwheel/internal/api/response"
	"github.com/quantgeo/gannwheel/internal/core"
	"github.com/quantgeo/gannwheel/internal/storage/result"
)

// ResultsHandler serves stored analysis results.
type ResultsHandler struct {
	store result.Store
}

// NewResultsHandler creates a new results handler.
func NewResultsHandler(store result.Store) *ResultsHandler {
	return &ResultsHandler{store: store}
}

// List returns stored results matching query parameters.
func (h *ResultsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := result.ListFilter{
		Symbol: q.Get("symbol"),
	}

	if period := q.Get("period"); period != "" {
		filter.Period = core.Period(period)
	}

	if since := q.Get("since"); since != "" {
		if t, err := time.Parse(time.RFC3339, since); err == nil {
			filter.Since = t
		} else if t, err := time.Parse("2006-01-02", since); err == nil {
			filter.Since = t
		}
	}

	if limit := q.Get("limit"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil {
			filter.Limit = n
		}
	} else {
		filter.Limit = 50 // Default limit
	}

	if offset := q.Get("offset"); offset != "" {
		if n, err := strconv.Atoi(offset); err == nil {
			filter.Offset = n
		}
	}

	entries, err := h.store.List(r.Context(), filter)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, err)
		return
	}

	count, _ := h.store.Count(r.Context(), filter)

	response.JSON(w, http.StatusOK, map[string]any{
		"results": entries,
		"total":   count,
		"limit":   filter.Limit,
		"offset":  filter.Offset,
	})
}

// GetBySymbol returns the stored result for one symbol.
func (h *ResultsHandler) GetBySymbol(w http.ResponseWriter, r *http.Request, symbol string) {
	period := core.Period(r.URL.Query().Get("period"))
	if period == "" {
		period = core.PeriodDaily
	}

	entry, err := h.store.Get(r.Context(), result.Key{Symbol: symbol, Period: period})
	if err != nil {
		response.Error(w, response.StatusFromError(err), err)
		return
	}

	response.JSON(w, http.StatusOK, entry)
}
