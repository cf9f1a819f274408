package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aungmyo/shwebook/internal/adapter/http/dto"
	"github.com/aungmyo/shwebook/internal/domain"
	"github.com/aungmyo/shwebook/internal/infrastructure/metrics"
)

// TransactionService defines the behavior needed by TransactionHandler.
type TransactionService interface {
	Transactions(ctx context.Context) ([]domain.Transaction, error)
	AddTransaction(ctx context.Context, t domain.Transaction) (string, error)
	DeleteTransaction(ctx context.Context, id string) error
}

// TransactionHandler handles ledger HTTP requests.
type TransactionHandler struct {
	session TransactionService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(session TransactionService) *TransactionHandler {
	return &TransactionHandler{session: session}
}

// List returns the ledger, newest first.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	txs, err := h.session.Transactions(r.Context())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list transactions", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionsFromDomain(txs))
}

// Create records a new transaction.
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	id, err := h.session.AddTransaction(r.Context(), req.ToDomain())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create transaction", err.Error())
		return
	}
	metrics.TransactionsCreated.Inc()

	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// Delete removes a transaction. Deleting an unknown id succeeds.
func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction ID", "")
		return
	}

	if err := h.session.DeleteTransaction(r.Context(), id); err != nil {
		writeError(w, mapDomainError(err), "failed to delete transaction", err.Error())
		return
	}
	metrics.TransactionsDeleted.Inc()

	w.WriteHeader(http.StatusNoContent)
}
