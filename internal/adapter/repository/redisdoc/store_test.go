package redisdoc

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/aungmyo/shwebook/internal/domain"
	"github.com/aungmyo/shwebook/internal/usecase"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redislib.NewClient(&redislib.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return New(client, "u1", time.Second, zerolog.Nop()), mr
}

func testDate(t *testing.T, s string) domain.Date {
	t.Helper()
	d, err := domain.ParseDate(s)
	if err != nil {
		t.Fatalf("bad date %q: %v", s, err)
	}
	return d
}

func TestStore_LoadSettingsMissing(t *testing.T) {
	s, _ := newTestStore(t)

	_, _, found, err := s.LoadSettings(context.Background())
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if found {
		t.Error("expected found=false for a fresh account")
	}
}

func TestStore_BootstrapOnce(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	created, err := s.BootstrapSettings(ctx, domain.SeedRates(), domain.SeedCalculator())
	if err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}
	if !created {
		t.Error("expected first bootstrap to create the document")
	}

	created, err = s.BootstrapSettings(ctx, domain.SeedRates(), domain.SeedCalculator())
	if err != nil {
		t.Fatalf("second bootstrap failed: %v", err)
	}
	if created {
		t.Error("expected second bootstrap to lose the race")
	}

	rates, calc, found, err := s.LoadSettings(ctx)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !found {
		t.Fatal("expected settings document present")
	}
	if !rates.THB.Equal(domain.SeedRates().THB) {
		t.Errorf("unexpected rates: %+v", rates)
	}
	if calc.Years != domain.SeedCalculator().Years {
		t.Errorf("unexpected calculator: %+v", calc)
	}
}

func TestStore_SaveSettingsMergesFields(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	if _, err := s.BootstrapSettings(ctx, domain.SeedRates(), domain.SeedCalculator()); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}

	rates := domain.SeedRates()
	rates.USD = decimal.NewFromInt(4800)
	if err := s.SaveSettings(ctx, usecase.SettingsPatch{Rates: &rates}); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	got, calc, _, err := s.LoadSettings(ctx)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !got.USD.Equal(decimal.NewFromInt(4800)) {
		t.Errorf("expected updated USD rate, got %s", got.USD)
	}
	// The calculator field was not in the patch and must be untouched.
	if calc.Years != domain.SeedCalculator().Years {
		t.Errorf("expected calculator untouched, got %+v", calc)
	}
}

func TestStore_CreateAssignsID(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	entry := domain.Transaction{
		ID:          "caller-chosen",
		Date:        testDate(t, "2024-09-01"),
		Description: "Lunch",
		Amount:      decimal.NewFromInt(5000),
		Type:        domain.Expense,
		Category:    "Food",
		Currency:    domain.MMK,
	}

	id, err := s.CreateTransaction(ctx, entry)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if id == "" || id == "caller-chosen" {
		t.Fatalf("expected a backend-assigned id, got %q", id)
	}

	txs, err := s.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(txs) != 1 || txs[0].ID != id {
		t.Fatalf("unexpected ledger: %+v", txs)
	}
	if txs[0].Description != "Lunch" || !txs[0].Amount.Equal(entry.Amount) {
		t.Errorf("round trip changed fields: %+v", txs[0])
	}
}

func TestStore_ListOrderedByCreation(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	base := domain.Transaction{
		Date:     testDate(t, "2024-09-01"),
		Amount:   decimal.NewFromInt(1),
		Type:     domain.Expense,
		Category: "Food",
		Currency: domain.MMK,
	}

	var ids []string
	for _, desc := range []string{"first", "second", "third"} {
		e := base
		e.Description = desc
		id, err := s.CreateTransaction(ctx, e)
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}
		ids = append(ids, id)
	}

	txs, err := s.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(txs) != 3 {
		t.Fatalf("expected 3 transactions, got %d", len(txs))
	}
	for i, id := range ids {
		if txs[i].ID != id {
			t.Errorf("expected creation order preserved at %d, got %s", i, txs[i].ID)
		}
	}
}

func TestStore_DeleteTransaction(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	id, err := s.CreateTransaction(ctx, domain.Transaction{
		Date:     testDate(t, "2024-09-01"),
		Amount:   decimal.NewFromInt(1),
		Type:     domain.Expense,
		Currency: domain.MMK,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := s.DeleteTransaction(ctx, "missing"); err != nil {
		t.Fatalf("delete missing failed: %v", err)
	}
	if err := s.DeleteTransaction(ctx, id); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	txs, err := s.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(txs) != 0 {
		t.Fatalf("expected empty ledger, got %+v", txs)
	}
}

func TestStore_ReplaceTransactions(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	if _, err := s.CreateTransaction(ctx, domain.Transaction{
		Date:     testDate(t, "2024-09-01"),
		Amount:   decimal.NewFromInt(1),
		Type:     domain.Expense,
		Currency: domain.MMK,
	}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	replacement := []domain.Transaction{
		{
			ID:       "01AAAA",
			Date:     testDate(t, "2024-01-01"),
			Amount:   decimal.NewFromInt(2),
			Type:     domain.Income,
			Currency: domain.MMK,
		},
		{
			// No id, the store assigns one.
			Date:     testDate(t, "2024-02-01"),
			Amount:   decimal.NewFromInt(3),
			Type:     domain.Saving,
			Currency: domain.MMK,
		},
	}

	if err := s.ReplaceTransactions(ctx, replacement); err != nil {
		t.Fatalf("replace failed: %v", err)
	}

	txs, err := s.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(txs))
	}
	for _, tx := range txs {
		if tx.ID == "" {
			t.Error("expected every stored transaction to have an id")
		}
	}
}

func TestStore_WatchEmitsSnapshotAndUpdates(t *testing.T) {
	s, _ := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if _, err := s.BootstrapSettings(ctx, domain.SeedRates(), domain.SeedCalculator()); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}

	events, err := s.Watch(ctx)
	if err != nil {
		t.Fatalf("watch failed: %v", err)
	}

	// Two snapshot events arrive first: settings then ledger.
	ev := nextEvent(t, events)
	if ev.Kind != usecase.ChangeSettings {
		t.Fatalf("expected settings snapshot first, got %v", ev.Kind)
	}
	ev = nextEvent(t, events)
	if ev.Kind != usecase.ChangeLedger || len(ev.Transactions) != 0 {
		t.Fatalf("expected empty ledger snapshot, got %+v", ev)
	}

	if _, err := s.CreateTransaction(ctx, domain.Transaction{
		Date:     testDate(t, "2024-09-01"),
		Amount:   decimal.NewFromInt(5),
		Type:     domain.Expense,
		Currency: domain.MMK,
	}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	ev = nextEvent(t, events)
	if ev.Kind != usecase.ChangeLedger || len(ev.Transactions) != 1 {
		t.Fatalf("expected ledger replacement with 1 transaction, got %+v", ev)
	}

	cancel()
	for range events {
		// Drain until the watcher closes the channel.
	}
}

func nextEvent(t *testing.T, events <-chan usecase.ChangeEvent) usecase.ChangeEvent {
	t.Helper()
	select {
	case ev, ok := <-events:
		if !ok {
			t.Fatal("event channel closed unexpectedly")
		}
		return ev
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for change event")
		return usecase.ChangeEvent{}
	}
}
