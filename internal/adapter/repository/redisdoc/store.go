package redisdoc

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/aungmyo/shwebook/internal/domain"
	"github.com/aungmyo/shwebook/internal/infrastructure/metrics"
	"github.com/aungmyo/shwebook/internal/usecase"
)

const (
	fieldRates      = "rates"
	fieldCalculator = "calculator"

	payloadSettings = "settings"
	payloadLedger   = "ledger"

	watchBuffer = 16
)

// Store is the remote per-account document backend. Settings live in one
// merge-updatable hash, the ledger in a hash of transaction documents, and
// every successful write publishes a change notification that Watch turns
// into full-replacement events.
type Store struct {
	client    *redis.Client
	uid       string
	opTimeout time.Duration
	retrier   *Retrier
	logger    zerolog.Logger
}

// New creates a Store scoped to one account.
func New(client *redis.Client, uid string, opTimeout time.Duration, logger zerolog.Logger) *Store {
	l := logger.With().Str("component", "redisdoc").Str("user", uid).Logger()
	return &Store{
		client:    client,
		uid:       uid,
		opTimeout: opTimeout,
		retrier:   NewRetrier(l),
		logger:    l,
	}
}

func (s *Store) settingsKey() string { return "acct:" + s.uid + ":settings" }
func (s *Store) txKey() string       { return "acct:" + s.uid + ":tx" }
func (s *Store) eventsKey() string   { return "acct:" + s.uid + ":events" }

// run retries fn with a fresh per-attempt timeout each try.
func (s *Store) run(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.retrier.Retry(ctx, func() error {
		opCtx, cancel := context.WithTimeout(ctx, s.opTimeout)
		defer cancel()
		return fn(opCtx)
	})
}

// LoadSettings reads the settings document. found is false when the
// document does not exist for this account yet; missing individual fields
// fall back to seed values.
func (s *Store) LoadSettings(ctx context.Context) (domain.RateTable, domain.CalculatorSettings, bool, error) {
	var vals map[string]string
	err := s.run(ctx, func(ctx context.Context) error {
		var err error
		vals, err = s.client.HGetAll(ctx, s.settingsKey()).Result()
		return err
	})
	if err != nil {
		return domain.RateTable{}, domain.CalculatorSettings{}, false, fmt.Errorf("load settings: %w", err)
	}
	if len(vals) == 0 {
		return domain.RateTable{}, domain.CalculatorSettings{}, false, nil
	}

	rates := domain.SeedRates()
	calc := domain.SeedCalculator()
	if raw, ok := vals[fieldRates]; ok {
		if err := json.Unmarshal([]byte(raw), &rates); err != nil {
			return domain.RateTable{}, domain.CalculatorSettings{}, false, fmt.Errorf("decode rates: %w", err)
		}
	}
	if raw, ok := vals[fieldCalculator]; ok {
		if err := json.Unmarshal([]byte(raw), &calc); err != nil {
			return domain.RateTable{}, domain.CalculatorSettings{}, false, fmt.Errorf("decode calculator: %w", err)
		}
	}
	return rates, calc, true, nil
}

// BootstrapSettings creates the settings document with the given defaults.
// HSETNX makes the bootstrap write exactly-once even when two clients race
// on the same empty account.
func (s *Store) BootstrapSettings(ctx context.Context, rates domain.RateTable, calc domain.CalculatorSettings) (bool, error) {
	ratesRaw, err := json.Marshal(rates)
	if err != nil {
		return false, err
	}
	calcRaw, err := json.Marshal(calc)
	if err != nil {
		return false, err
	}

	var created bool
	err = s.run(ctx, func(ctx context.Context) error {
		ok, err := s.client.HSetNX(ctx, s.settingsKey(), fieldRates, ratesRaw).Result()
		if err != nil {
			return err
		}
		created = ok
		if _, err := s.client.HSetNX(ctx, s.settingsKey(), fieldCalculator, calcRaw).Result(); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return false, &domain.RemoteWriteError{Op: "bootstrap settings", Err: err}
	}
	if created {
		s.publish(ctx, payloadSettings)
	}
	return created, nil
}

// SaveSettings merge-writes only the provided fields of the settings
// document; HSET of a subset of fields never clobbers the sibling.
func (s *Store) SaveSettings(ctx context.Context, patch usecase.SettingsPatch) error {
	if patch.IsEmpty() {
		return nil
	}

	fields := make([]any, 0, 4)
	if patch.Rates != nil {
		raw, err := json.Marshal(patch.Rates)
		if err != nil {
			return err
		}
		fields = append(fields, fieldRates, raw)
	}
	if patch.Calculator != nil {
		raw, err := json.Marshal(patch.Calculator)
		if err != nil {
			return err
		}
		fields = append(fields, fieldCalculator, raw)
	}

	err := s.run(ctx, func(ctx context.Context) error {
		return s.client.HSet(ctx, s.settingsKey(), fields...).Err()
	})
	if err != nil {
		metrics.RemoteWriteErrors.Inc()
		return &domain.RemoteWriteError{Op: "save settings", Err: err}
	}
	metrics.RemoteWrites.Inc()
	s.publish(ctx, payloadSettings)
	return nil
}

// txBody is the stored document shape; the backend-assigned id is the hash
// field, never embedded in the body.
type txBody struct {
	Date        domain.Date            `json:"date"`
	Description string                 `json:"description"`
	Amount      decimal.Decimal        `json:"amount"`
	Type        domain.TransactionType `json:"type"`
	Category    string                 `json:"category"`
	Currency    domain.Currency        `json:"currency"`
}

// ListTransactions reads the whole transaction collection. Results are
// ordered by id; ids are ULIDs, so this reproduces creation order.
func (s *Store) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	var vals map[string]string
	err := s.run(ctx, func(ctx context.Context) error {
		var err error
		vals, err = s.client.HGetAll(ctx, s.txKey()).Result()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	txs := make([]domain.Transaction, 0, len(vals))
	for id, raw := range vals {
		var body txBody
		if err := json.Unmarshal([]byte(raw), &body); err != nil {
			return nil, fmt.Errorf("decode transaction %s: %w", id, err)
		}
		txs = append(txs, domain.Transaction{
			ID:          id,
			Date:        body.Date,
			Description: body.Description,
			Amount:      body.Amount,
			Type:        body.Type,
			Category:    body.Category,
			Currency:    body.Currency,
		})
	}
	sort.Slice(txs, func(i, j int) bool { return txs[i].ID < txs[j].ID })
	return txs, nil
}

// CreateTransaction stores a new document under a backend-assigned ULID.
// Any id proposed by the caller is discarded.
func (s *Store) CreateTransaction(ctx context.Context, t domain.Transaction) (string, error) {
	id := ulid.Make().String()
	raw, err := json.Marshal(txBody{
		Date:        t.Date,
		Description: t.Description,
		Amount:      t.Amount,
		Type:        t.Type,
		Category:    t.Category,
		Currency:    t.Currency,
	})
	if err != nil {
		return "", err
	}

	err = s.run(ctx, func(ctx context.Context) error {
		return s.client.HSet(ctx, s.txKey(), id, raw).Err()
	})
	if err != nil {
		metrics.RemoteWriteErrors.Inc()
		return "", &domain.RemoteWriteError{Op: "create transaction", Err: err}
	}
	metrics.RemoteWrites.Inc()
	s.publish(ctx, payloadLedger)
	return id, nil
}

// DeleteTransaction removes a document; an unknown id is a no-op.
func (s *Store) DeleteTransaction(ctx context.Context, id string) error {
	var removed int64
	err := s.run(ctx, func(ctx context.Context) error {
		var err error
		removed, err = s.client.HDel(ctx, s.txKey(), id).Result()
		return err
	})
	if err != nil {
		metrics.RemoteWriteErrors.Inc()
		return &domain.RemoteWriteError{Op: "delete transaction", Err: err}
	}
	if removed > 0 {
		metrics.RemoteWrites.Inc()
		s.publish(ctx, payloadLedger)
	}
	return nil
}

// ReplaceTransactions overwrites the whole collection in one transaction.
func (s *Store) ReplaceTransactions(ctx context.Context, txs []domain.Transaction) error {
	docs := make(map[string]string, len(txs))
	for _, t := range txs {
		id := t.ID
		if id == "" {
			id = ulid.Make().String()
		}
		raw, err := json.Marshal(txBody{
			Date:        t.Date,
			Description: t.Description,
			Amount:      t.Amount,
			Type:        t.Type,
			Category:    t.Category,
			Currency:    t.Currency,
		})
		if err != nil {
			return err
		}
		docs[id] = string(raw)
	}

	err := s.run(ctx, func(ctx context.Context) error {
		pipe := s.client.TxPipeline()
		pipe.Del(ctx, s.txKey())
		if len(docs) > 0 {
			args := make([]any, 0, len(docs)*2)
			for id, raw := range docs {
				args = append(args, id, raw)
			}
			pipe.HSet(ctx, s.txKey(), args...)
		}
		_, err := pipe.Exec(ctx)
		return err
	})
	if err != nil {
		metrics.RemoteWriteErrors.Inc()
		return &domain.RemoteWriteError{Op: "replace transactions", Err: err}
	}
	metrics.RemoteWrites.Inc()
	s.publish(ctx, payloadLedger)
	return nil
}

// Watch subscribes to the account's change channel and emits a
// full-replacement event per notification, starting with one snapshot of
// the current state. The channel closes when ctx is cancelled.
func (s *Store) Watch(ctx context.Context) (<-chan usecase.ChangeEvent, error) {
	pubsub := s.client.Subscribe(ctx, s.eventsKey())
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("subscribe: %w", err)
	}

	out := make(chan usecase.ChangeEvent, watchBuffer)
	go func() {
		defer close(out)
		defer pubsub.Close()

		// Initial snapshot so a fresh subscriber converges immediately.
		s.emitSettings(ctx, out)
		s.emitLedger(ctx, out)

		msgs := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				metrics.ChangeNotifications.Inc()
				switch msg.Payload {
				case payloadSettings:
					s.emitSettings(ctx, out)
				case payloadLedger:
					s.emitLedger(ctx, out)
				default:
					s.logger.Warn().Str("payload", msg.Payload).Msg("unknown change notification")
				}
			}
		}
	}()
	return out, nil
}

func (s *Store) emitSettings(ctx context.Context, out chan<- usecase.ChangeEvent) {
	rates, calc, found, err := s.LoadSettings(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to re-read settings after notification")
		return
	}
	if !found {
		rates, calc = domain.SeedRates(), domain.SeedCalculator()
	}
	send(ctx, out, usecase.ChangeEvent{Kind: usecase.ChangeSettings, Rates: rates, Calculator: calc})
}

func (s *Store) emitLedger(ctx context.Context, out chan<- usecase.ChangeEvent) {
	txs, err := s.ListTransactions(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to re-read ledger after notification")
		return
	}
	send(ctx, out, usecase.ChangeEvent{Kind: usecase.ChangeLedger, Transactions: txs})
}

func send(ctx context.Context, out chan<- usecase.ChangeEvent, ev usecase.ChangeEvent) {
	select {
	case out <- ev:
	case <-ctx.Done():
	}
}

// publish is best-effort: the write already landed, and the next
// notification re-reads the full state anyway.
func (s *Store) publish(ctx context.Context, payload string) {
	opCtx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()
	if err := s.client.Publish(opCtx, s.eventsKey(), payload).Err(); err != nil {
		s.logger.Warn().Err(err).Str("payload", payload).Msg("failed to publish change notification")
	}
}
