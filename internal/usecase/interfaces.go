package usecase

import (
	"context"
	"time"

	"github.com/aungmyo/shwebook/internal/domain"
)

// SettingsPatch is a merge-write against the settings document. A nil field
// leaves the sibling field untouched in the backing store.
type SettingsPatch struct {
	Rates      *domain.RateTable
	Calculator *domain.CalculatorSettings
}

// IsEmpty reports whether the patch carries nothing to write.
func (p SettingsPatch) IsEmpty() bool {
	return p.Rates == nil && p.Calculator == nil
}

// Backend stores the rate table, calculator settings and the ledger.
// Implemented by the local file store and the remote document store.
type Backend interface {
	// LoadSettings returns the persisted settings and whether a settings
	// record exists at all.
	LoadSettings(ctx context.Context) (domain.RateTable, domain.CalculatorSettings, bool, error)
	// BootstrapSettings creates the settings record with the given defaults
	// if and only if none exists yet. Returns whether this call created it.
	BootstrapSettings(ctx context.Context, rates domain.RateTable, calc domain.CalculatorSettings) (bool, error)
	// SaveSettings merge-writes the provided fields without clobbering the
	// sibling field.
	SaveSettings(ctx context.Context, patch SettingsPatch) error

	ListTransactions(ctx context.Context) ([]domain.Transaction, error)
	// CreateTransaction persists a new record and returns its
	// backend-assigned identifier; any id on the input is discarded.
	CreateTransaction(ctx context.Context, t domain.Transaction) (string, error)
	// DeleteTransaction removes by id. A missing id is a no-op, not an error.
	DeleteTransaction(ctx context.Context, id string) error
	// ReplaceTransactions overwrites the whole ledger (backup import).
	ReplaceTransactions(ctx context.Context, txs []domain.Transaction) error
}

// ChangeKind labels a remote change notification.
type ChangeKind string

const (
	ChangeSettings ChangeKind = "settings"
	ChangeLedger   ChangeKind = "ledger"
)

// ChangeEvent is a full-replacement snapshot pushed by the remote backend.
// It never carries a diff: the receiver replaces its state wholesale.
type ChangeEvent struct {
	Kind         ChangeKind
	Rates        domain.RateTable
	Calculator   domain.CalculatorSettings
	Transactions []domain.Transaction
}

// RemoteBackend is a Backend that additionally pushes live change
// notifications for the account it is scoped to.
type RemoteBackend interface {
	Backend
	// Watch delivers change events until ctx is cancelled. The first events
	// on the channel reflect the current state of the account.
	Watch(ctx context.Context) (<-chan ChangeEvent, error)
}

// RemoteFactory opens the remote backend scoped to a cloud account. A nil
// factory means the remote side is unconfigured and the session stays in
// guest mode.
type RemoteFactory func(ctx context.Context, profile *domain.UserProfile) (RemoteBackend, error)

// ThemeStore persists the dark/light preference. Always device-local,
// independent of the active backend.
type ThemeStore interface {
	LoadTheme(ctx context.Context) (dark bool, err error)
	SaveTheme(ctx context.Context, dark bool) error
}

// IdempotencyStore handles idempotency key storage for mutating API calls.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
