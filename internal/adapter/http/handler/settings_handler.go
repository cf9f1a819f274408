package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/aungmyo/shwebook/internal/adapter/http/dto"
	"github.com/aungmyo/shwebook/internal/domain"
)

// SettingsService defines the behavior needed by SettingsHandler.
type SettingsService interface {
	Rates(ctx context.Context) (domain.RateTable, error)
	UpdateRates(ctx context.Context, rates domain.RateTable) error
	Calculator(ctx context.Context) (domain.CalculatorSettings, error)
	UpdateCalculator(ctx context.Context, calc domain.CalculatorSettings) error
	Theme(ctx context.Context) (bool, error)
	SetTheme(ctx context.Context, dark bool) error
}

// SettingsHandler handles exchange rates, calculator presets and theme.
type SettingsHandler struct {
	session SettingsService
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(session SettingsService) *SettingsHandler {
	return &SettingsHandler{session: session}
}

// GetRates returns the active exchange rate table.
func (h *SettingsHandler) GetRates(w http.ResponseWriter, r *http.Request) {
	rates, err := h.session.Rates(r.Context())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to load rates", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, rates)
}

// UpdateRates replaces the exchange rate table.
func (h *SettingsHandler) UpdateRates(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateRatesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.session.UpdateRates(r.Context(), req.ToDomain()); err != nil {
		writeError(w, mapDomainError(err), "failed to update rates", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, req.ToDomain())
}

// GetCalculator returns the stored calculator presets.
func (h *SettingsHandler) GetCalculator(w http.ResponseWriter, r *http.Request) {
	calc, err := h.session.Calculator(r.Context())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to load calculator settings", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, calc)
}

// UpdateCalculator replaces the calculator presets.
func (h *SettingsHandler) UpdateCalculator(w http.ResponseWriter, r *http.Request) {
	var calc domain.CalculatorSettings
	if err := json.NewDecoder(r.Body).Decode(&calc); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.session.UpdateCalculator(r.Context(), calc); err != nil {
		writeError(w, mapDomainError(err), "failed to update calculator settings", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, calc)
}

// GetTheme returns the stored display theme.
func (h *SettingsHandler) GetTheme(w http.ResponseWriter, r *http.Request) {
	dark, err := h.session.Theme(r.Context())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to load theme", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ThemeResponse{Dark: dark})
}

// SetTheme stores the display theme.
func (h *SettingsHandler) SetTheme(w http.ResponseWriter, r *http.Request) {
	var req dto.SetThemeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.session.SetTheme(r.Context(), req.Dark); err != nil {
		writeError(w, mapDomainError(err), "failed to store theme", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ThemeResponse{Dark: req.Dark})
}
