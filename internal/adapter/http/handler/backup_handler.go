package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/aungmyo/shwebook/internal/domain"
	"github.com/aungmyo/shwebook/internal/infrastructure/metrics"
	"github.com/aungmyo/shwebook/internal/usecase"
)

// maxBackupBytes bounds import request bodies.
const maxBackupBytes = 8 << 20

// BackupService defines the behavior needed by BackupHandler.
type BackupService interface {
	Export(ctx context.Context) (domain.BackupSnapshot, error)
	Import(ctx context.Context, snap *domain.BackupSnapshot) error
}

// BackupHandler handles backup export and restore.
type BackupHandler struct {
	session BackupService
}

// NewBackupHandler creates a new BackupHandler.
func NewBackupHandler(session BackupService) *BackupHandler {
	return &BackupHandler{session: session}
}

// Export downloads the full workspace as a backup file.
func (h *BackupHandler) Export(w http.ResponseWriter, r *http.Request) {
	snap, err := h.session.Export(r.Context())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to export backup", err.Error())
		return
	}

	filename := usecase.BackupFilename(snap.Profile, domain.Today())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	metrics.BackupExports.Inc()

	writeJSON(w, http.StatusOK, snap)
}

// Import restores a previously exported backup. Restore replaces the
// current workspace, so the caller must pass confirm=true.
func (h *BackupHandler) Import(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("confirm") != "true" {
		writeError(w, http.StatusBadRequest, "confirmation required", "pass confirm=true to replace the current workspace")
		return
	}

	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBackupBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body", err.Error())
		return
	}

	snap, err := usecase.DecodeBackup(raw)
	if err != nil {
		metrics.BackupImports.WithLabelValues("rejected").Inc()
		writeError(w, mapDomainError(err), "invalid backup", err.Error())
		return
	}

	if err := h.session.Import(r.Context(), snap); err != nil {
		var partial *domain.PartialImportError
		if errors.As(err, &partial) {
			metrics.BackupImports.WithLabelValues("partial").Inc()
		} else {
			metrics.BackupImports.WithLabelValues("failed").Inc()
		}
		writeError(w, mapDomainError(err), "failed to import backup", err.Error())
		return
	}
	metrics.BackupImports.WithLabelValues("ok").Inc()

	writeJSON(w, http.StatusOK, map[string]int{"transactions": len(snap.Transactions)})
}
