package localfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/oklog/ulid/v2"

	"github.com/aungmyo/shwebook/internal/domain"
	"github.com/aungmyo/shwebook/internal/usecase"
)

// File names of the independently keyed blobs. An absent file means "use
// seed defaults".
const (
	transactionsFile = "transactions.json"
	ratesFile        = "rates.json"
	calculatorFile   = "calculator.json"
	themeFile        = "theme.json"
)

// Store is the device-local persistence backend: three JSON blobs in a data
// directory, plus the theme flag. Writes are atomic and synced, so an
// operation is durable once it returns.
type Store struct {
	dir string
}

// New creates a Store rooted at dir, creating the directory if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// LoadSettings reads the rate table and calculator blobs. found is false
// when neither blob exists yet.
func (s *Store) LoadSettings(ctx context.Context) (domain.RateTable, domain.CalculatorSettings, bool, error) {
	var rates domain.RateTable
	var calc domain.CalculatorSettings

	ratesFound, err := s.readJSON(ratesFile, &rates)
	if err != nil {
		return domain.RateTable{}, domain.CalculatorSettings{}, false, err
	}
	calcFound, err := s.readJSON(calculatorFile, &calc)
	if err != nil {
		return domain.RateTable{}, domain.CalculatorSettings{}, false, err
	}

	if !ratesFound {
		rates = domain.SeedRates()
	}
	if !calcFound {
		calc = domain.SeedCalculator()
	}
	return rates, calc, ratesFound || calcFound, nil
}

// BootstrapSettings writes the defaults unless settings already exist.
func (s *Store) BootstrapSettings(ctx context.Context, rates domain.RateTable, calc domain.CalculatorSettings) (bool, error) {
	_, _, found, err := s.LoadSettings(ctx)
	if err != nil {
		return false, err
	}
	if found {
		return false, nil
	}
	err = s.SaveSettings(ctx, usecase.SettingsPatch{Rates: &rates, Calculator: &calc})
	if err != nil {
		return false, err
	}
	return true, nil
}

// SaveSettings writes only the provided fields; the blobs are independently
// keyed so the sibling is naturally untouched.
func (s *Store) SaveSettings(ctx context.Context, patch usecase.SettingsPatch) error {
	if patch.Rates != nil {
		if err := s.writeJSON(ratesFile, patch.Rates); err != nil {
			return err
		}
	}
	if patch.Calculator != nil {
		if err := s.writeJSON(calculatorFile, patch.Calculator); err != nil {
			return err
		}
	}
	return nil
}

// ListTransactions reads the ledger blob, falling back to the seed dataset
// when none has been persisted yet.
func (s *Store) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	var txs []domain.Transaction
	found, err := s.readJSON(transactionsFile, &txs)
	if err != nil {
		return nil, err
	}
	if !found {
		return domain.SeedTransactions(), nil
	}
	return txs, nil
}

// CreateTransaction assigns a client-generated ULID, appends the record and
// persists the whole ledger.
func (s *Store) CreateTransaction(ctx context.Context, t domain.Transaction) (string, error) {
	txs, err := s.ListTransactions(ctx)
	if err != nil {
		return "", err
	}
	t.ID = ulid.Make().String()
	txs = append(txs, t)
	if err := s.writeJSON(transactionsFile, txs); err != nil {
		return "", err
	}
	return t.ID, nil
}

// DeleteTransaction removes by id; an unknown id leaves the ledger as-is.
func (s *Store) DeleteTransaction(ctx context.Context, id string) error {
	txs, err := s.ListTransactions(ctx)
	if err != nil {
		return err
	}
	kept := txs[:0]
	for _, t := range txs {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	return s.writeJSON(transactionsFile, kept)
}

// ReplaceTransactions overwrites the whole ledger blob.
func (s *Store) ReplaceTransactions(ctx context.Context, txs []domain.Transaction) error {
	if txs == nil {
		txs = []domain.Transaction{}
	}
	return s.writeJSON(transactionsFile, txs)
}

type themeBlob struct {
	Dark bool `json:"dark"`
}

// LoadTheme reads the dark-mode flag; absent means light.
func (s *Store) LoadTheme(ctx context.Context) (bool, error) {
	var blob themeBlob
	if _, err := s.readJSON(themeFile, &blob); err != nil {
		return false, err
	}
	return blob.Dark, nil
}

// SaveTheme stores the dark-mode flag.
func (s *Store) SaveTheme(ctx context.Context, dark bool) error {
	return s.writeJSON(themeFile, themeBlob{Dark: dark})
}

func (s *Store) readJSON(name string, v any) (bool, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", name, err)
	}
	return true, nil
}

// writeJSON writes via a temp file, fsync and rename so a crash never
// leaves a half-written blob behind.
func (s *Store) writeJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}

	path := filepath.Join(s.dir, name)
	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename %s: %w", name, err)
	}
	return nil
}
