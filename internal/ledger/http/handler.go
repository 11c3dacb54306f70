package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/singleflight"

	"github.com/chantier-erp/chantier-erp/internal/ledger/export"
	"github.com/chantier-erp/chantier-erp/internal/platform/httpx"
)

// Metrics is the slice of observability this handler reports into.
type Metrics interface {
	ObserveExport(format string)
}

// Handler serves the accounting export endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *export.Service
	metrics   Metrics
	validator *validator.Validate
	downloads singleflight.Group
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *export.Service, metrics Metrics) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		metrics:   metrics,
		validator: validator.New(),
	}
}

// MountRoutes registers export routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/download", h.handleDownload)
	r.Get("/preview", h.handlePreview)
}

func (h *Handler) handleDownload(w http.ResponseWriter, r *http.Request) {
	query := parseExportQuery(r)
	if query.Format == "" {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "format is required")
		return
	}
	if err := h.validator.Struct(query); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	// Identical concurrent downloads collapse to one pipeline run; the
	// pipeline is deterministic so every waiter gets the same bytes.
	value, err, _ := h.downloads.Do(query.key(), func() (interface{}, error) {
		return h.service.Export(r.Context(), query.toRequest())
	})
	if errors.Is(err, export.ErrNoEntries) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			h.logger.Error("export download", slog.Any("error", err))
		}
		httpx.Problem(w, http.StatusInternalServerError, "Export Failed", "")
		return
	}
	outcome := value.(export.Outcome)

	if h.metrics != nil {
		h.metrics.ObserveExport(query.Format)
	}

	w.Header().Set("Content-Type", outcome.Result.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", outcome.Result.Filename))
	w.Header().Set("X-Ledger-Balanced", fmt.Sprintf("%t", outcome.Balance.Balanced))
	w.Header().Set("X-Ledger-Difference", outcome.Balance.Difference.StringFixed(2))
	_, _ = w.Write(outcome.Result.Content)
}

func (h *Handler) handlePreview(w http.ResponseWriter, r *http.Request) {
	query := parseExportQuery(r)
	if err := h.validator.Struct(query); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	preview, err := h.service.PreviewEntries(r.Context(), query.toRequest(), query.Page)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			h.logger.Error("export preview", slog.Any("error", err))
		}
		httpx.Problem(w, http.StatusInternalServerError, "Preview Failed", "")
		return
	}
	httpx.JSON(w, http.StatusOK, toPreviewView(preview))
}
