package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"go.uber.org/mock/gomock"

	"github.com/aungmyo/shwebook/internal/domain"
	"github.com/aungmyo/shwebook/internal/usecase"
	"github.com/aungmyo/shwebook/internal/usecase/mocks"
)

func TestBackupFilename(t *testing.T) {
	d := date(t, "2024-09-15")

	profile := &domain.UserProfile{ID: "u1", Name: "Aye"}
	if got := usecase.BackupFilename(profile, d); got != "shwebook-backup-Aye-2024-09-15.json" {
		t.Errorf("unexpected filename %q", got)
	}

	if got := usecase.BackupFilename(nil, d); got != "shwebook-backup-guest-2024-09-15.json" {
		t.Errorf("unexpected guest filename %q", got)
	}
}

func TestExport_GuestStampsSyntheticProfile(t *testing.T) {
	ctrl := gomock.NewController(t)
	entry := tx(t, "2024-09-01", "a", 1000, domain.Expense, "Food", domain.MMK)
	s, _ := newGuestSession(t, ctrl, []domain.Transaction{entry})
	defer s.Close()

	snap, err := s.Export(context.Background())
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	if snap.Version != domain.BackupVersion {
		t.Errorf("expected version %q, got %q", domain.BackupVersion, snap.Version)
	}
	if snap.Profile == nil || !strings.HasPrefix(snap.Profile.ID, "guest-") {
		t.Errorf("expected synthetic guest profile, got %+v", snap.Profile)
	}
	if snap.Profile.Name != "Guest" {
		t.Errorf("expected Guest name, got %q", snap.Profile.Name)
	}
	if len(snap.Transactions) != 1 {
		t.Errorf("expected 1 transaction, got %d", len(snap.Transactions))
	}
	if snap.Rates == nil || !snap.Rates.THB.Equal(testRates().THB) {
		t.Errorf("expected current rates in snapshot, got %+v", snap.Rates)
	}
}

func TestDecodeBackup(t *testing.T) {
	entry := tx(t, "2024-09-01", "a", 1000, domain.Expense, "Food", domain.MMK)
	rates := testRates()
	valid := domain.BackupSnapshot{
		Transactions: []domain.Transaction{entry},
		Rates:        &rates,
		Calculator:   domain.SeedCalculator(),
		Version:      domain.BackupVersion,
	}
	raw, err := json.Marshal(valid)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	snap, err := usecase.DecodeBackup(raw)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(snap.Transactions) != 1 || snap.Transactions[0].ID != entry.ID {
		t.Errorf("unexpected transactions: %+v", snap.Transactions)
	}
}

func TestDecodeBackup_Invalid(t *testing.T) {
	entry := tx(t, "2024-09-01", "a", 1000, domain.Expense, "Food", domain.MMK)
	rates := testRates()

	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "{nope"},
		{"missing transactions", mustJSON(t, map[string]any{"rates": rates})},
		{"missing rates", mustJSON(t, map[string]any{"transactions": []domain.Transaction{entry}})},
		{"zero rate", mustJSON(t, map[string]any{
			"transactions": []domain.Transaction{entry},
			"rates":        map[string]any{"THB": 0, "USD": 4500, "SGD": 3300, "Gold": 6500000},
		})},
		{"invalid transaction", mustJSON(t, map[string]any{
			"transactions": []map[string]any{{"id": "1", "date": "2024-09-01", "amount": "10", "type": "BOGUS", "currency": "MMK"}},
			"rates":        rates,
		})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := usecase.DecodeBackup([]byte(tt.raw)); !errors.Is(err, domain.ErrInvalidBackup) {
				t.Errorf("expected ErrInvalidBackup, got %v", err)
			}
		})
	}
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	return string(raw)
}

func TestImport_GuestReplacesWorkspace(t *testing.T) {
	ctrl := gomock.NewController(t)
	old := tx(t, "2020-01-01", "old", 1, domain.Expense, "Food", domain.MMK)
	s, local := newGuestSession(t, ctrl, []domain.Transaction{old})
	defer s.Close()

	restored := tx(t, "2024-09-01", "restored", 1000, domain.Expense, "Food", domain.MMK)
	noID := tx(t, "2024-09-02", "fresh", 500, domain.Income, "Salary", domain.MMK)
	noID.ID = ""
	rates := testRates()
	snap := &domain.BackupSnapshot{
		Transactions: []domain.Transaction{restored, noID},
		Rates:        &rates,
		Calculator:   domain.SeedCalculator(),
		Version:      domain.BackupVersion,
	}

	local.EXPECT().SaveSettings(gomock.Any(), gomock.Any()).Return(nil)
	local.EXPECT().ReplaceTransactions(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, txs []domain.Transaction) error {
			if len(txs) != 2 {
				t.Errorf("expected 2 transactions persisted, got %d", len(txs))
			}
			for _, tx := range txs {
				if tx.ID == "" {
					t.Error("expected ids assigned before persist")
				}
			}
			return nil
		})

	if err := s.Import(context.Background(), snap); err != nil {
		t.Fatalf("import failed: %v", err)
	}

	got, _ := s.Transactions(context.Background())
	if len(got) != 2 {
		t.Fatalf("expected replaced ledger, got %+v", got)
	}
	if got[0].Description != "fresh" {
		t.Errorf("expected newest first, got %s", got[0].Description)
	}
	for _, tx := range got {
		if tx.Description == "old" {
			t.Error("expected prior ledger fully replaced")
		}
	}
}

func TestImport_CloudPartialFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	local := mocks.NewMockBackend(ctrl)
	themes := mocks.NewMockThemeStore(ctrl)
	remote := mocks.NewMockRemoteBackend(ctrl)

	events := make(chan usecase.ChangeEvent)
	remote.EXPECT().LoadSettings(gomock.Any()).Return(testRates(), domain.SeedCalculator(), true, nil)
	remote.EXPECT().ListTransactions(gomock.Any()).Return(nil, nil)
	remote.EXPECT().Watch(gomock.Any()).Return(events, nil)

	s := usecase.NewSession(local, themes, cloudFactory(remote), zerolog.Nop())
	if err := s.Start(context.Background(), &domain.UserProfile{ID: "u1"}); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	defer func() {
		close(events)
		s.Close()
	}()

	a := tx(t, "2024-09-01", "a", 1, domain.Expense, "Food", domain.MMK)
	b := tx(t, "2024-09-02", "b", 2, domain.Expense, "Food", domain.MMK)
	c := tx(t, "2024-09-03", "c", 3, domain.Expense, "Food", domain.MMK)
	rates := testRates()
	snap := &domain.BackupSnapshot{
		Transactions: []domain.Transaction{a, b, c},
		Rates:        &rates,
		Calculator:   domain.SeedCalculator(),
		Version:      domain.BackupVersion,
	}

	remote.EXPECT().SaveSettings(gomock.Any(), gomock.Any()).Return(nil)
	gomock.InOrder(
		remote.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).Return("id-a", nil),
		remote.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).Return("", errors.New("write refused")),
	)

	err := s.Import(context.Background(), snap)
	var partial *domain.PartialImportError
	if !errors.As(err, &partial) {
		t.Fatalf("expected PartialImportError, got %v", err)
	}
	if partial.Imported != 1 || partial.Total != 3 {
		t.Errorf("expected 1/3 imported, got %d/%d", partial.Imported, partial.Total)
	}
}

func TestImport_NilSnapshot(t *testing.T) {
	ctrl := gomock.NewController(t)
	s, _ := newGuestSession(t, ctrl, nil)
	defer s.Close()

	if err := s.Import(context.Background(), nil); !errors.Is(err, domain.ErrInvalidBackup) {
		t.Errorf("expected ErrInvalidBackup, got %v", err)
	}
}
