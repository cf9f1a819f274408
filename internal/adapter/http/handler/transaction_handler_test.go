package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/aungmyo/shwebook/internal/adapter/http/dto"
	"github.com/aungmyo/shwebook/internal/domain"
)

type transactionServiceStub struct {
	listFn   func(ctx context.Context) ([]domain.Transaction, error)
	addFn    func(ctx context.Context, t domain.Transaction) (string, error)
	deleteFn func(ctx context.Context, id string) error
}

func (s *transactionServiceStub) Transactions(ctx context.Context) ([]domain.Transaction, error) {
	return s.listFn(ctx)
}

func (s *transactionServiceStub) AddTransaction(ctx context.Context, t domain.Transaction) (string, error) {
	return s.addFn(ctx, t)
}

func (s *transactionServiceStub) DeleteTransaction(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func TestTransactionHandler_List(t *testing.T) {
	d, _ := domain.ParseDate("2024-09-01")
	handler := NewTransactionHandler(&transactionServiceStub{
		listFn: func(ctx context.Context) ([]domain.Transaction, error) {
			return []domain.Transaction{{
				ID:       "01A",
				Date:     d,
				Amount:   decimal.NewFromInt(5000),
				Type:     domain.Expense,
				Category: "Food",
				Currency: domain.MMK,
			}}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/transactions", nil)
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var got []dto.TransactionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(got) != 1 || got[0].ID != "01A" {
		t.Fatalf("unexpected response: %+v", got)
	}
}

func TestTransactionHandler_Create(t *testing.T) {
	var captured domain.Transaction
	handler := NewTransactionHandler(&transactionServiceStub{
		addFn: func(ctx context.Context, tx domain.Transaction) (string, error) {
			captured = tx
			return "01NEW", nil
		},
	})

	body := []byte(`{"date":"2024-09-01","description":"Lunch","amount":"5000","type":"EXPENSE","category":"Food","currency":"MMK"}`)
	req := httptest.NewRequest(http.MethodPost, "/transactions", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.Description != "Lunch" || captured.Type != domain.Expense {
		t.Errorf("unexpected transaction passed through: %+v", captured)
	}
	if captured.ID != "" {
		t.Errorf("expected empty id before persistence, got %q", captured.ID)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["id"] != "01NEW" {
		t.Errorf("expected assigned id in response, got %q", resp["id"])
	}
}

func TestTransactionHandler_CreateInvalid(t *testing.T) {
	handler := NewTransactionHandler(&transactionServiceStub{
		addFn: func(ctx context.Context, tx domain.Transaction) (string, error) {
			return "", domain.ErrInvalidCurrency
		},
	})

	body := []byte(`{"date":"2024-09-01","amount":"10","type":"EXPENSE","currency":"EUR"}`)
	req := httptest.NewRequest(http.MethodPost, "/transactions", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestTransactionHandler_CreateBadBody(t *testing.T) {
	handler := NewTransactionHandler(&transactionServiceStub{})

	req := httptest.NewRequest(http.MethodPost, "/transactions", bytes.NewReader([]byte("{nope")))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestTransactionHandler_Delete(t *testing.T) {
	var deleted string
	handler := NewTransactionHandler(&transactionServiceStub{
		deleteFn: func(ctx context.Context, id string) error {
			deleted = id
			return nil
		},
	})

	r := chi.NewRouter()
	r.Delete("/transactions/{id}", handler.Delete)

	req := httptest.NewRequest(http.MethodDelete, "/transactions/01A", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if deleted != "01A" {
		t.Errorf("expected delete of 01A, got %q", deleted)
	}
}
