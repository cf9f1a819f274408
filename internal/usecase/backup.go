package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/aungmyo/shwebook/internal/domain"
)

// Export captures the full application state as a portable snapshot. Guest
// sessions are stamped with a synthetic profile so the file is always
// self-describing.
func (s *Session) Export(ctx context.Context) (domain.BackupSnapshot, error) {
	if err := s.waitReady(ctx); err != nil {
		return domain.BackupSnapshot{}, err
	}

	s.mu.RLock()
	profile := s.profile
	rates := s.rates
	calc := s.calc
	txs := make([]domain.Transaction, len(s.ledger))
	copy(txs, s.ledger)
	s.mu.RUnlock()

	if profile == nil {
		profile = &domain.UserProfile{
			ID:        "guest-" + uuid.NewString(),
			Name:      "Guest",
			CreatedAt: time.Now().UTC(),
		}
	}

	return domain.BackupSnapshot{
		Profile:      profile,
		Transactions: txs,
		Rates:        &rates,
		Calculator:   calc,
		Version:      domain.BackupVersion,
	}, nil
}

// BackupFilename builds the human-readable export filename embedding the
// profile name and export date.
func BackupFilename(profile *domain.UserProfile, date domain.Date) string {
	name := "guest"
	if profile != nil && profile.Name != "" {
		name = profile.Name
	}
	return fmt.Sprintf("shwebook-backup-%s-%s.json", name, date)
}

// backupWire mirrors domain.BackupSnapshot with pointer fields so a missing
// key can be told apart from an empty value during validation.
type backupWire struct {
	Profile      *domain.UserProfile        `json:"profile"`
	Transactions *[]domain.Transaction      `json:"transactions"`
	Rates        *domain.RateTable          `json:"rates"`
	Calculator   *domain.CalculatorSettings `json:"calculator"`
	Version      string                     `json:"version"`
}

// DecodeBackup parses and validates a backup file. Transactions and rates
// are the minimum schema; anything less is rejected with ErrInvalidBackup
// before any state is touched.
func DecodeBackup(raw []byte) (*domain.BackupSnapshot, error) {
	var wire backupWire
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidBackup, err)
	}
	if wire.Transactions == nil {
		return nil, fmt.Errorf("%w: missing transactions", domain.ErrInvalidBackup)
	}
	if wire.Rates == nil {
		return nil, fmt.Errorf("%w: missing rates", domain.ErrInvalidBackup)
	}
	if err := wire.Rates.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidBackup, err)
	}
	for _, t := range *wire.Transactions {
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidBackup, err)
		}
	}

	snap := &domain.BackupSnapshot{
		Profile:      wire.Profile,
		Transactions: *wire.Transactions,
		Rates:        wire.Rates,
		Version:      wire.Version,
	}
	if wire.Calculator != nil {
		snap.Calculator = *wire.Calculator
	} else {
		snap.Calculator = domain.SeedCalculator()
	}
	return snap, nil
}

// Import destructively replaces the application state with the snapshot.
// Callers are expected to have collected explicit confirmation first.
//
// In guest mode this is an in-memory replacement plus a full local persist.
// In cloud mode it is one settings merge-write followed by sequential,
// mutually independent transaction creates; a failure mid-way leaves the
// already-created subset in place and is reported as a PartialImportError.
func (s *Session) Import(ctx context.Context, snap *domain.BackupSnapshot) error {
	if snap == nil || snap.Rates == nil {
		return domain.ErrInvalidBackup
	}
	if err := s.waitReady(ctx); err != nil {
		return err
	}

	s.mu.RLock()
	mode, remote := s.mode, s.remote
	s.mu.RUnlock()

	rates := *snap.Rates
	calc := snap.Calculator

	if mode == ModeCloud {
		if err := remote.SaveSettings(ctx, SettingsPatch{Rates: &rates, Calculator: &calc}); err != nil {
			return err
		}
		for i, t := range snap.Transactions {
			if _, err := remote.CreateTransaction(ctx, t); err != nil {
				return &domain.PartialImportError{
					Imported: i,
					Total:    len(snap.Transactions),
					Err:      err,
				}
			}
		}
		return nil
	}

	txs := make([]domain.Transaction, len(snap.Transactions))
	copy(txs, snap.Transactions)
	for i := range txs {
		if txs[i].ID == "" {
			txs[i].ID = ulid.Make().String()
		}
	}

	if err := s.local.SaveSettings(ctx, SettingsPatch{Rates: &rates, Calculator: &calc}); err != nil {
		return err
	}
	if err := s.local.ReplaceTransactions(ctx, txs); err != nil {
		return err
	}

	s.mu.Lock()
	s.rates, s.calc = rates, calc
	s.ledger = sortLedger(txs)
	s.mu.Unlock()
	return nil
}
