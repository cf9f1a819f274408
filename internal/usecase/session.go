package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/aungmyo/shwebook/internal/domain"
)

// Mode is the persistence mode of a session.
type Mode string

const (
	ModeUninitialized Mode = "uninitialized"
	ModeAuthResolving Mode = "auth_resolving"
	ModeGuest         Mode = "guest"
	ModeCloud         Mode = "cloud"
)

var (
	// ErrAlreadyStarted is returned when Start is called twice.
	ErrAlreadyStarted = errors.New("session already started")
	// ErrNotSignedIn is returned for a sign-out without a cloud session.
	ErrNotSignedIn = errors.New("no cloud session to sign out of")
	// ErrAlreadySignedIn is returned for a sign-in on a non-guest session.
	ErrAlreadySignedIn = errors.New("session is not in guest mode")
)

// Session owns all in-memory application state and routes reads and writes
// to the active persistence backend. It is the single writer of that state:
// remote change notifications are applied by one pump goroutine, direct
// guest writes under the same lock.
type Session struct {
	local         Backend
	themes        ThemeStore
	remoteFactory RemoteFactory
	logger        zerolog.Logger

	mu      sync.RWMutex
	mode    Mode
	profile *domain.UserProfile
	remote  RemoteBackend
	rates   domain.RateTable
	calc    domain.CalculatorSettings
	ledger  []domain.Transaction

	// ready is closed once the session leaves auth resolution; reads block
	// on it so callers never observe stale or default data mid-transition.
	ready chan struct{}

	watchCancel context.CancelFunc
	pumpDone    chan struct{}
}

// NewSession creates an unstarted session. A nil factory means the remote
// backend is unconfigured and resolution falls through to guest immediately.
func NewSession(local Backend, themes ThemeStore, factory RemoteFactory, logger zerolog.Logger) *Session {
	return &Session{
		local:         local,
		themes:        themes,
		remoteFactory: factory,
		logger:        logger.With().Str("component", "session").Logger(),
		mode:          ModeUninitialized,
		ready:         make(chan struct{}),
	}
}

// Start resolves the initial mode. With no identity, or with the remote side
// unconfigured or unreachable, the session becomes a guest session; an
// identity that resolves yields a cloud session.
func (s *Session) Start(ctx context.Context, profile *domain.UserProfile) error {
	s.mu.Lock()
	if s.mode != ModeUninitialized {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.mode = ModeAuthResolving
	s.mu.Unlock()

	if profile == nil || s.remoteFactory == nil {
		return s.enterGuest(ctx)
	}

	remote, err := s.remoteFactory(ctx, profile)
	if err != nil {
		s.logger.Warn().Err(err).Msg("remote backend unavailable, falling back to guest mode")
		return s.enterGuest(ctx)
	}
	return s.enterCloud(ctx, profile, remote)
}

// SignIn upgrades a guest session to a cloud session for the given verified
// identity. On failure the session stays in guest mode with its state
// reloaded from device-local storage.
func (s *Session) SignIn(ctx context.Context, profile *domain.UserProfile) error {
	if profile == nil {
		return domain.ErrInvalidToken
	}

	s.mu.Lock()
	if s.mode != ModeGuest {
		s.mu.Unlock()
		return ErrAlreadySignedIn
	}
	s.mode = ModeAuthResolving
	s.ready = make(chan struct{})
	s.mu.Unlock()

	if s.remoteFactory == nil {
		if err := s.enterGuest(ctx); err != nil {
			return err
		}
		return domain.ErrRemoteUnconfigured
	}

	remote, err := s.remoteFactory(ctx, profile)
	if err != nil {
		if gerr := s.enterGuest(ctx); gerr != nil {
			return gerr
		}
		return fmt.Errorf("sign-in failed: %w", err)
	}
	if err := s.enterCloud(ctx, profile, remote); err != nil {
		if gerr := s.enterGuest(ctx); gerr != nil {
			return gerr
		}
		return fmt.Errorf("sign-in failed: %w", err)
	}
	return nil
}

// SignOut tears the cloud session down completely and reloads device-local
// state. Nothing from the cloud ledger carries over.
func (s *Session) SignOut(ctx context.Context) error {
	s.mu.Lock()
	if s.mode != ModeCloud {
		s.mu.Unlock()
		return ErrNotSignedIn
	}
	cancel, done := s.watchCancel, s.pumpDone
	s.mode = ModeAuthResolving
	s.ready = make(chan struct{})
	s.watchCancel, s.pumpDone = nil, nil
	s.remote, s.profile = nil, nil
	s.ledger = nil
	s.rates = domain.RateTable{}
	s.calc = domain.CalculatorSettings{}
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
	return s.enterGuest(ctx)
}

// Close stops the change-notification pump, if any.
func (s *Session) Close() {
	s.mu.Lock()
	cancel, done := s.watchCancel, s.pumpDone
	s.watchCancel, s.pumpDone = nil, nil
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

func (s *Session) enterGuest(ctx context.Context) error {
	rates, calc, found, err := s.local.LoadSettings(ctx)
	if err != nil {
		return fmt.Errorf("load local settings: %w", err)
	}
	if !found {
		rates, calc = domain.SeedRates(), domain.SeedCalculator()
	}
	txs, err := s.local.ListTransactions(ctx)
	if err != nil {
		return fmt.Errorf("load local ledger: %w", err)
	}

	s.mu.Lock()
	s.mode = ModeGuest
	s.profile = nil
	s.remote = nil
	s.rates, s.calc = rates, calc
	s.ledger = sortLedger(txs)
	s.markReady()
	s.mu.Unlock()

	s.logger.Info().Int("transactions", len(txs)).Msg("guest session ready")
	return nil
}

func (s *Session) enterCloud(ctx context.Context, profile *domain.UserProfile, remote RemoteBackend) error {
	rates, calc, found, err := remote.LoadSettings(ctx)
	if err != nil {
		return fmt.Errorf("load remote settings: %w", err)
	}
	if !found {
		rates, calc = domain.SeedRates(), domain.SeedCalculator()
		created, err := remote.BootstrapSettings(ctx, rates, calc)
		if err != nil {
			return fmt.Errorf("bootstrap remote settings: %w", err)
		}
		if !created {
			// Another client won the bootstrap race; take its document.
			if r, c, ok, err := remote.LoadSettings(ctx); err == nil && ok {
				rates, calc = r, c
			}
		}
	}
	txs, err := remote.ListTransactions(ctx)
	if err != nil {
		return fmt.Errorf("load remote ledger: %w", err)
	}

	watchCtx, cancel := context.WithCancel(context.Background())
	events, err := remote.Watch(watchCtx)
	if err != nil {
		cancel()
		return fmt.Errorf("subscribe to remote changes: %w", err)
	}

	done := make(chan struct{})
	s.mu.Lock()
	s.mode = ModeCloud
	s.profile = profile
	s.remote = remote
	s.rates, s.calc = rates, calc
	s.ledger = sortLedger(txs)
	s.watchCancel = cancel
	s.pumpDone = done
	s.markReady()
	s.mu.Unlock()

	go s.pump(remote, events, done)

	s.logger.Info().Str("user", profile.ID).Int("transactions", len(txs)).Msg("cloud session ready")
	return nil
}

// pump applies remote change notifications. Each event replaces the
// corresponding state wholesale, so a notification echoing our own write is
// idempotent rather than duplicating.
func (s *Session) pump(remote RemoteBackend, events <-chan ChangeEvent, done chan struct{}) {
	defer close(done)
	for ev := range events {
		s.mu.Lock()
		if s.remote != remote {
			// The session signed out while this event was in flight.
			s.mu.Unlock()
			continue
		}
		switch ev.Kind {
		case ChangeSettings:
			s.rates, s.calc = ev.Rates, ev.Calculator
		case ChangeLedger:
			s.ledger = sortLedger(ev.Transactions)
		}
		s.mu.Unlock()
	}
}

func (s *Session) markReady() {
	select {
	case <-s.ready:
	default:
		close(s.ready)
	}
}

// waitReady blocks until the session has left auth resolution.
func (s *Session) waitReady(ctx context.Context) error {
	s.mu.RLock()
	ready := s.ready
	s.mu.RUnlock()
	select {
	case <-ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// backend returns the active persistence backend.
func (s *Session) backend() Backend {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.mode == ModeCloud {
		return s.remote
	}
	return s.local
}

// Mode returns the current session mode.
func (s *Session) Mode() Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

// Profile returns the cloud account profile, or nil in guest mode.
func (s *Session) Profile() *domain.UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return nil
	}
	p := *s.profile
	return &p
}

// Rates returns the current rate table.
func (s *Session) Rates(ctx context.Context) (domain.RateTable, error) {
	if err := s.waitReady(ctx); err != nil {
		return domain.RateTable{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rates, nil
}

// Calculator returns the current calculator settings.
func (s *Session) Calculator(ctx context.Context) (domain.CalculatorSettings, error) {
	if err := s.waitReady(ctx); err != nil {
		return domain.CalculatorSettings{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.calc, nil
}

// Transactions returns the ledger, newest first.
func (s *Session) Transactions(ctx context.Context) ([]domain.Transaction, error) {
	if err := s.waitReady(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Transaction, len(s.ledger))
	copy(out, s.ledger)
	return out, nil
}

// AddTransaction records a new transaction. In guest mode the entry is
// appended and persisted before returning; in cloud mode the create is
// confirmed by the backend and the in-memory ledger is reconciled by the
// change subscription, never optimistically.
func (s *Session) AddTransaction(ctx context.Context, t domain.Transaction) (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	if err := s.waitReady(ctx); err != nil {
		return "", err
	}

	s.mu.RLock()
	mode, remote := s.mode, s.remote
	s.mu.RUnlock()

	if mode == ModeCloud {
		return remote.CreateTransaction(ctx, t)
	}

	id, err := s.local.CreateTransaction(ctx, t)
	if err != nil {
		return "", err
	}
	t.ID = id
	s.mu.Lock()
	s.ledger = sortLedger(append(s.ledger, t))
	s.mu.Unlock()
	return id, nil
}

// DeleteTransaction removes a transaction by id. Deleting an id that is not
// in the ledger is a no-op.
func (s *Session) DeleteTransaction(ctx context.Context, id string) error {
	if err := s.waitReady(ctx); err != nil {
		return err
	}

	s.mu.RLock()
	mode, remote := s.mode, s.remote
	s.mu.RUnlock()

	if mode == ModeCloud {
		return remote.DeleteTransaction(ctx, id)
	}

	if err := s.local.DeleteTransaction(ctx, id); err != nil {
		return err
	}
	s.mu.Lock()
	kept := s.ledger[:0]
	for _, t := range s.ledger {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	s.ledger = kept
	s.mu.Unlock()
	return nil
}

// UpdateRates replaces the rate table. The in-memory value is applied
// optimistically before the persist; a persist failure is returned but does
// not roll the optimistic value back.
func (s *Session) UpdateRates(ctx context.Context, rates domain.RateTable) error {
	if err := rates.Validate(); err != nil {
		return err
	}
	if err := s.waitReady(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	s.rates = rates
	s.mu.Unlock()

	return s.backend().SaveSettings(ctx, SettingsPatch{Rates: &rates})
}

// UpdateCalculator replaces the calculator settings, with the same
// optimistic semantics as UpdateRates.
func (s *Session) UpdateCalculator(ctx context.Context, calc domain.CalculatorSettings) error {
	if err := s.waitReady(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	s.calc = calc
	s.mu.Unlock()

	return s.backend().SaveSettings(ctx, SettingsPatch{Calculator: &calc})
}

// Theme reads the device-local dark-mode flag.
func (s *Session) Theme(ctx context.Context) (bool, error) {
	return s.themes.LoadTheme(ctx)
}

// SetTheme stores the device-local dark-mode flag.
func (s *Session) SetTheme(ctx context.Context, dark bool) error {
	return s.themes.SaveTheme(ctx, dark)
}

// sortLedger orders transactions by date descending, preserving arrival
// order among equal dates.
func sortLedger(txs []domain.Transaction) []domain.Transaction {
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[j].Date.Before(txs[i].Date)
	})
	return txs
}
