package audithttp

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/customerhub/customerhub/internal/audit"
	"github.com/customerhub/customerhub/internal/platform/httpx"
)

// LogService defines the read contract for audit entries.
type LogService interface {
	List(ctx context.Context, limit, offset int) (audit.Page, error)
}

// Handler serves the audit log listing.
type Handler struct {
	logger  *slog.Logger
	service LogService
}

// NewHandler builds an audit handler.
func NewHandler(logger *slog.Logger, service LogService) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service}
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		http.Error(w, http.StatusText(http.StatusNotImplemented), http.StatusNotImplemented)
		return
	}
	limit, err := intParam(r, "limit")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	offset, err := intParam(r, "offset")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	page, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		h.logger.Error("list audit logs", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, page)
}

func intParam(r *http.Request, key string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", httpx.ErrValidation, key)
	}
	return v, nil
}
