package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/aungmyo/shwebook/internal/adapter/http/handler"
	"github.com/aungmyo/shwebook/internal/domain"
	"github.com/aungmyo/shwebook/internal/usecase"
)

type sessionStub struct{}

func (sessionStub) Mode() usecase.Mode                                          { return usecase.ModeGuest }
func (sessionStub) Profile() *domain.UserProfile                                { return nil }
func (sessionStub) SignIn(ctx context.Context, p *domain.UserProfile) error     { return nil }
func (sessionStub) SignOut(ctx context.Context) error                           { return usecase.ErrNotSignedIn }
func (sessionStub) Transactions(ctx context.Context) ([]domain.Transaction, error) {
	return nil, nil
}
func (sessionStub) AddTransaction(ctx context.Context, t domain.Transaction) (string, error) {
	return "", nil
}
func (sessionStub) DeleteTransaction(ctx context.Context, id string) error { return nil }
func (sessionStub) Rates(ctx context.Context) (domain.RateTable, error) {
	return domain.SeedRates(), nil
}
func (sessionStub) UpdateRates(ctx context.Context, r domain.RateTable) error { return nil }
func (sessionStub) Calculator(ctx context.Context) (domain.CalculatorSettings, error) {
	return domain.SeedCalculator(), nil
}
func (sessionStub) UpdateCalculator(ctx context.Context, c domain.CalculatorSettings) error {
	return nil
}
func (sessionStub) Theme(ctx context.Context) (bool, error)          { return false, nil }
func (sessionStub) SetTheme(ctx context.Context, dark bool) error    { return nil }
func (sessionStub) Years(ctx context.Context) ([]int, error)         { return []int{2024}, nil }
func (sessionStub) Totals(ctx context.Context) (usecase.Totals, error) {
	return usecase.Totals{}, nil
}
func (sessionStub) Series(ctx context.Context, tf usecase.Timeframe, year int) ([]usecase.SeriesBucket, error) {
	return nil, nil
}
func (sessionStub) Categories(ctx context.Context, tf usecase.Timeframe, year int) ([]usecase.CategoryTotal, error) {
	return nil, nil
}
func (sessionStub) Export(ctx context.Context) (domain.BackupSnapshot, error) {
	return domain.BackupSnapshot{}, nil
}
func (sessionStub) Import(ctx context.Context, snap *domain.BackupSnapshot) error { return nil }

func newTestRouter() http.Handler {
	s := sessionStub{}
	return NewRouter(RouterConfig{
		Logger:             zerolog.Nop(),
		SessionHandler:     handler.NewSessionHandler(s, nil),
		TransactionHandler: handler.NewTransactionHandler(s),
		SettingsHandler:    handler.NewSettingsHandler(s),
		AnalyticsHandler:   handler.NewAnalyticsHandler(s),
		BackupHandler:      handler.NewBackupHandler(s),
		HealthHandler:      handler.NewHealthHandler(nil),
	})
}

func TestRouter_Routes(t *testing.T) {
	router := newTestRouter()

	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/ready", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/api/v1/session/", http.StatusOK},
		{http.MethodGet, "/api/v1/transactions/", http.StatusOK},
		{http.MethodGet, "/api/v1/rates/", http.StatusOK},
		{http.MethodGet, "/api/v1/calculator/", http.StatusOK},
		{http.MethodGet, "/api/v1/theme/", http.StatusOK},
		{http.MethodGet, "/api/v1/reports/series", http.StatusOK},
		{http.MethodGet, "/api/v1/reports/categories", http.StatusOK},
		{http.MethodGet, "/api/v1/reports/years", http.StatusOK},
		{http.MethodGet, "/api/v1/reports/summary", http.StatusOK},
		{http.MethodGet, "/api/v1/backup/export", http.StatusOK},
		{http.MethodGet, "/api/v1/nope", http.StatusNotFound},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != tt.status {
			t.Errorf("%s %s: expected %d, got %d", tt.method, tt.path, tt.status, rec.Code)
		}
	}
}

func TestRouter_SignOutWithoutSession(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/session/signout", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}
