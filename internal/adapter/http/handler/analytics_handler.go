package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/aungmyo/shwebook/internal/adapter/http/dto"
	"github.com/aungmyo/shwebook/internal/usecase"
)

// AnalyticsService defines the behavior needed by AnalyticsHandler.
type AnalyticsService interface {
	Series(ctx context.Context, tf usecase.Timeframe, year int) ([]usecase.SeriesBucket, error)
	Categories(ctx context.Context, tf usecase.Timeframe, year int) ([]usecase.CategoryTotal, error)
	Years(ctx context.Context) ([]int, error)
	Totals(ctx context.Context) (usecase.Totals, error)
}

// AnalyticsHandler handles reporting and summary HTTP requests.
type AnalyticsHandler struct {
	session AnalyticsService
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(session AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{session: session}
}

// Series returns bucketed income, expense, saving and net sums.
// Query: timeframe=daily|monthly|yearly (default monthly), year=YYYY
// (default the current year; ignored for yearly).
func (h *AnalyticsHandler) Series(w http.ResponseWriter, r *http.Request) {
	tf, year, ok := h.reportParams(w, r)
	if !ok {
		return
	}

	buckets, err := h.session.Series(r.Context(), tf, year)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to build series", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.SeriesFromUseCase(buckets))
}

// Categories returns normalized expense totals per category.
func (h *AnalyticsHandler) Categories(w http.ResponseWriter, r *http.Request) {
	tf, year, ok := h.reportParams(w, r)
	if !ok {
		return
	}

	totals, err := h.session.Categories(r.Context(), tf, year)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to build category totals", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.CategoriesFromUseCase(totals))
}

// Years lists the years selectable in reports.
func (h *AnalyticsHandler) Years(w http.ResponseWriter, r *http.Request) {
	years, err := h.session.Years(r.Context())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list years", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.YearsResponse{Years: years})
}

// Totals returns the all-time dashboard summary.
func (h *AnalyticsHandler) Totals(w http.ResponseWriter, r *http.Request) {
	totals, err := h.session.Totals(r.Context())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to compute totals", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TotalsFromUseCase(totals))
}

func (h *AnalyticsHandler) reportParams(w http.ResponseWriter, r *http.Request) (usecase.Timeframe, int, bool) {
	tf := usecase.Timeframe(r.URL.Query().Get("timeframe"))
	if tf == "" {
		tf = usecase.TimeframeMonthly
	}
	if !tf.Valid() {
		writeError(w, http.StatusBadRequest, "unknown timeframe", string(tf))
		return "", 0, false
	}

	year := parseIntQuery(r, "year", time.Now().Year())

	return tf, year, true
}
