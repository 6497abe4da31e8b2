package customers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/customerhub/customerhub/internal/platform/httpx"
)

type customerService interface {
	Save(ctx context.Context, req SaveCustomerRequest) SaveCustomerResponse
	GetCustomer(ctx context.Context, req GetCustomerRequest) GetCustomerResponse
	GetAllCustomers(ctx context.Context) GetAllCustomerResponse
	UpdateCustomer(ctx context.Context, req UpdateCustomerRequest) UpdateCustomerResponse
	DeleteCustomer(ctx context.Context, req DeleteCustomerRequest) DeleteCustomerResponse
}

// Handler exposes the customer operations as a JSON API. Response bodies are
// always the service envelope; the status code mirrors its outcome.
type Handler struct {
	logger  *slog.Logger
	service customerService
}

func NewHandler(logger *slog.Logger, service customerService) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handler{logger: logger, service: service}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req SaveCustomerRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	resp := h.service.Save(r.Context(), req)
	h.logOutcome(r, "save customer", resp.Envelope)
	httpx.JSON(w, statusFor(resp.Envelope, http.StatusCreated), resp)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	resp := h.service.GetAllCustomers(r.Context())
	httpx.JSON(w, statusFor(resp.Envelope, http.StatusOK), resp)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := customerID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	resp := h.service.GetCustomer(r.Context(), GetCustomerRequest{ID: id})
	httpx.JSON(w, statusFor(resp.Envelope, http.StatusOK), resp)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := customerID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var req UpdateCustomerRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	req.ID = id
	resp := h.service.UpdateCustomer(r.Context(), req)
	h.logOutcome(r, "update customer", resp.Envelope)
	httpx.JSON(w, statusFor(resp.Envelope, http.StatusOK), resp)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := customerID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	resp := h.service.DeleteCustomer(r.Context(), DeleteCustomerRequest{ID: id})
	h.logOutcome(r, "delete customer", resp.Envelope)
	httpx.JSON(w, statusFor(resp.Envelope, http.StatusOK), resp)
}

func (h *Handler) logOutcome(r *http.Request, op string, env Envelope) {
	if env.OK() {
		h.logger.Info(op, slog.String("path", r.URL.Path))
		return
	}
	h.logger.Warn(op+" rejected", slog.String("path", r.URL.Path), slog.String("error", env.Error))
}

func customerID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid customer id %q", httpx.ErrValidation, raw)
	}
	return id, nil
}

func statusFor(env Envelope, okStatus int) int {
	if env.OK() {
		return okStatus
	}
	switch env.Error {
	case CodeNoRecordFound:
		return http.StatusNotFound
	case CodeInvalidSex, CodeInvalidDOB, CodeInvalidContract, CodeValidationFailed:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
