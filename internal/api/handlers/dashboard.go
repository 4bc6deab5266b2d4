package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/api/response"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/apperrors"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/chart"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/model"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/presentation"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/service"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/validation"
)

// maxChartSide bounds the width and height query parameters of chart endpoints.
const maxChartSide = 2000

// DashboardHandler handles dashboard-related HTTP requests.
// It serves the published valuation snapshot, its rendered view, the
// snapshot journal and the charts built from them.
type DashboardHandler struct {
	refreshService *service.RefreshService
	historyService *service.HistoryService
	presenter      *presentation.Presenter
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(
	refreshService *service.RefreshService,
	historyService *service.HistoryService,
	presenter *presentation.Presenter,
) *DashboardHandler {
	return &DashboardHandler{
		refreshService: refreshService,
		historyService: historyService,
		presenter:      presenter,
	}
}

// View handles GET requests for the rendered dashboard.
// The view is built from the last published snapshot; it never waits for a cycle.
//
// Endpoint: GET /api/dashboard
// Response: 200 OK with presentation.View
func (h *DashboardHandler) View(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, h.presenter.Render(h.refreshService.Snapshot()))
}

// Snapshot handles GET requests for the raw valuation snapshot.
//
// Endpoint: GET /api/dashboard/snapshot
// Response: 200 OK with model.Snapshot
func (h *DashboardHandler) Snapshot(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, h.refreshService.Snapshot())
}

// Refresh handles POST requests for a manual refresh.
// Joins a cycle already in flight. A failed cycle still answers 200: the view
// carries the error status next to the retained valuation.
//
// Endpoint: POST /api/dashboard/refresh
// Response: 200 OK with presentation.View
// Error: 504 Gateway Timeout if the client stopped waiting before the cycle published
func (h *DashboardHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	snap, err := h.refreshService.Refresh(r.Context(), model.TriggerManual)
	if err != nil {
		response.RespondError(w, http.StatusGatewayTimeout, apperrors.ErrFailedToRefresh.Error(), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, h.presenter.Render(snap))
}

// History handles GET requests for the snapshot journal.
// Supports optional date filtering via query parameters.
//
// Endpoint: GET /api/dashboard/history
// Query params:
//   - start_date: Optional, YYYY-MM-DD or RFC3339
//   - end_date: Optional, YYYY-MM-DD (whole day included) or RFC3339
//   - include_holdings: Optional, "true" to add per-holding results
//
// Response: 200 OK with array of model.SnapshotRecord
// Error: 400 Bad Request for unparsable dates or an inverted range
// Error: 500 Internal Server Error if the journal query fails
func (h *DashboardHandler) History(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseDateRange(r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidDateRange.Error(), err.Error())
		return
	}
	includeHoldings := r.URL.Query().Get("include_holdings") == "true"

	records, err := h.historyService.GetHistory(start, end, includeHoldings)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidDateRange) {
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidDateRange.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveHistory.Error(), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, records)
}

// HistoryEntry handles GET requests for a single journal entry.
// The uuid URL parameter is validated by middleware.
//
// Endpoint: GET /api/dashboard/history/{uuid}
// Response: 200 OK with model.SnapshotRecord including per-holding results
// Error: 404 Not Found if no entry has the ID
// Error: 500 Internal Server Error if the lookup fails
func (h *DashboardHandler) HistoryEntry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "uuid")

	rec, err := h.historyService.GetSnapshotRecord(id)
	if err != nil {
		if errors.Is(err, apperrors.ErrSnapshotNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrSnapshotNotFound.Error(), id)
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveHistory.Error(), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, rec)
}

// AllocationChart handles GET requests for the allocation pie chart.
//
// Endpoint: GET /api/dashboard/charts/allocation.png
// Query params: width, height (optional, pixels)
// Response: 200 OK with image/png
// Error: 400 Bad Request for invalid dimensions
// Error: 404 Not Found when no allocation class holds value
func (h *DashboardHandler) AllocationChart(w http.ResponseWriter, r *http.Request) {
	size, err := parseChartSize(r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid chart size", err.Error())
		return
	}
	view := h.presenter.Render(h.refreshService.Snapshot())
	h.writeChart(w, func() ([]byte, error) { return chart.AllocationPie(view.Allocation, size) })
}

// PnLChart handles GET requests for the per-holding P&L bar chart.
//
// Endpoint: GET /api/dashboard/charts/pnl.png
// Query params: width, height (optional, pixels)
// Response: 200 OK with image/png
// Error: 400 Bad Request for invalid dimensions
// Error: 404 Not Found when there are no holdings
func (h *DashboardHandler) PnLChart(w http.ResponseWriter, r *http.Request) {
	size, err := parseChartSize(r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid chart size", err.Error())
		return
	}
	holdings := h.refreshService.Snapshot().Holdings
	h.writeChart(w, func() ([]byte, error) { return chart.PnLBar(holdings, size) })
}

// HistoryChart handles GET requests for the value-versus-cost line chart.
//
// Endpoint: GET /api/dashboard/charts/history.png
// Query params: start_date, end_date, width, height (all optional)
// Response: 200 OK with image/png
// Error: 400 Bad Request for invalid dates or dimensions
// Error: 404 Not Found with fewer than two journal entries in range
func (h *DashboardHandler) HistoryChart(w http.ResponseWriter, r *http.Request) {
	size, err := parseChartSize(r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid chart size", err.Error())
		return
	}
	start, end, err := parseDateRange(r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidDateRange.Error(), err.Error())
		return
	}

	records, err := h.historyService.GetHistory(start, end, false)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidDateRange) {
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidDateRange.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveHistory.Error(), err.Error())
		return
	}
	h.writeChart(w, func() ([]byte, error) { return chart.History(records, size) })
}

func (h *DashboardHandler) writeChart(w http.ResponseWriter, render func() ([]byte, error)) {
	png, err := render()
	if err != nil {
		if errors.Is(err, apperrors.ErrNoChartData) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrNoChartData.Error(), "")
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRenderChart.Error(), err.Error())
		return
	}
	respondPNG(w, png)
}

// parseDateRange reads start_date and end_date. A date-only end_date
// includes that whole day.
func parseDateRange(r *http.Request) (time.Time, time.Time, error) {
	var start, end time.Time
	q := r.URL.Query()

	if s := q.Get("start_date"); s != "" {
		t, err := validation.ParseTime(s)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		start = t
	}
	if s := q.Get("end_date"); s != "" {
		t, err := validation.ParseTime(s)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		if len(s) == len("2006-01-02") {
			t = t.Add(24*time.Hour - time.Millisecond)
		}
		end = t
	}

	if err := validation.ValidateDateRange(start, end); err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

func parseChartSize(r *http.Request) (chart.Size, error) {
	var size chart.Size
	q := r.URL.Query()
	for _, p := range []struct {
		key string
		dst *int
	}{
		{"width", &size.Width},
		{"height", &size.Height},
	} {
		v := q.Get(p.key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > maxChartSide {
			return chart.Size{}, &validation.Error{Fields: map[string]string{
				p.key: "must be a whole number between 1 and " + strconv.Itoa(maxChartSide),
			}}
		}
		*p.dst = n
	}
	return size, nil
}
