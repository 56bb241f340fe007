package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/iwvelando/deal-calculator/internal/appraisal"
	"github.com/iwvelando/deal-calculator/internal/config"
	"github.com/iwvelando/deal-calculator/internal/optimizer"
	"github.com/iwvelando/deal-calculator/internal/property"
	"github.com/iwvelando/deal-calculator/pkg/constants"
	"github.com/iwvelando/deal-calculator/pkg/dealcalc"
	"github.com/iwvelando/deal-calculator/pkg/loans"
	"go.uber.org/zap"
)

// Error kinds reported in the "kind" field of error responses.
const (
	kindBadRequest    = "bad_request"
	kindTooLarge      = "too_large"
	kindInvalidInput  = "invalid_input"
	kindInvalidStatus = "invalid_status"
	kindInvalidDetail = "invalid_details"
	kindInvalidTarget = "invalid_target"
	kindNotFound      = "not_found"
	kindInternal      = "internal"
)

type handler struct {
	logger      *zap.Logger
	calc        *dealcalc.Calculator
	properties  *property.Service
	maxBodySize int64
	version     string
}

type calculateResponse struct {
	Inputs    dealcalc.DealForm `json:"inputs"`
	Result    *dealcalc.Result  `json:"result"`
	Repayment *loans.Repayment  `json:"repayment,omitempty"`
	Duration  string            `json:"duration"`
}

type maxOfferRequest struct {
	Inputs dealcalc.DealForm      `json:"inputs"`
	Target config.OptimizerConfig `json:"target"`
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// NewHandler constructs the HTTP handler that serves the calculation and
// property API.
func NewHandler(logger *zap.Logger, calc *dealcalc.Calculator, properties *property.Service, maxBodySize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxBodySize <= 0 {
		maxBodySize = constants.DefaultMaxBodySizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:      logger,
		calc:        calc,
		properties:  properties,
		maxBodySize: maxBodySize,
		version:     trimmedVersion,
	}

	mux := http.NewServeMux()

	// Stateless calculation
	mux.HandleFunc("POST /api/calculate", h.handleCalculate)
	mux.HandleFunc("GET /api/defaults", h.handleDefaults)
	mux.HandleFunc("POST /api/max-offer", h.handleMaxOffer)

	// Stored properties
	mux.HandleFunc("GET /api/properties", h.handleListProperties)
	mux.HandleFunc("POST /api/properties", h.handleCreateProperty)
	mux.HandleFunc("GET /api/properties/{id}", h.handleGetProperty)
	mux.HandleFunc("PUT /api/properties/{id}", h.handleUpdateProperty)
	mux.HandleFunc("DELETE /api/properties/{id}", h.handleDeleteProperty)
	mux.HandleFunc("POST /api/properties/{id}/duplicate", h.handleDuplicateProperty)

	// Version endpoint for UI metadata
	mux.HandleFunc("GET /api/version", h.handleVersion)

	return mux
}

func (h *handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCalculate"
	start := time.Now()

	var form dealcalc.DealForm
	if !h.decodeBody(w, r, &form, op) {
		return
	}

	outcome := appraisal.Evaluate(h.logger, h.calc, "api", form)
	if outcome.Rejected() {
		h.respondServiceError(w, outcome.Err, op)
		return
	}

	elapsed := time.Since(start)
	h.logger.Debug("deal calculated",
		zap.String("op", op),
		zap.Float64("purchase_price", form.PurchasePrice),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, calculateResponse{
		Inputs:    form.WithDefaults(),
		Result:    outcome.Result,
		Repayment: outcome.Repayment,
		Duration:  elapsed.String(),
	})
}

func (h *handler) handleMaxOffer(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleMaxOffer"

	var req maxOfferRequest
	if !h.decodeBody(w, r, &req, op) {
		return
	}
	target := req.Target
	if err := target.Validate(); err != nil {
		h.respondError(w, http.StatusUnprocessableEntity, kindInvalidTarget, err.Error(), op)
		return
	}

	runner, err := optimizer.NewRunner(h.logger, h.calc)
	if err != nil {
		h.respondServiceError(w, err, op)
		return
	}
	summary, err := runner.MaxOffer("api", req.Inputs, target)
	if err != nil {
		h.respondServiceError(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, summary)
}

func (h *handler) handleDefaults(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, dealcalc.DefaultFormDefaults())
}

func (h *handler) handleListProperties(w http.ResponseWriter, r *http.Request) {
	props, err := h.properties.List(r.Context())
	if err != nil {
		h.respondServiceError(w, err, "server.handleListProperties")
		return
	}
	h.writeJSON(w, http.StatusOK, props)
}

func (h *handler) handleCreateProperty(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCreateProperty"

	var details property.Details
	if !h.decodeBody(w, r, &details, op) {
		return
	}

	p, err := h.properties.Create(r.Context(), details)
	if err != nil {
		h.respondServiceError(w, err, op)
		return
	}
	w.Header().Set("Location", "/api/properties/"+p.ID)
	h.writeJSON(w, http.StatusCreated, p)
}

func (h *handler) handleGetProperty(w http.ResponseWriter, r *http.Request) {
	p, err := h.properties.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.respondServiceError(w, err, "server.handleGetProperty")
		return
	}
	h.writeJSON(w, http.StatusOK, p)
}

func (h *handler) handleUpdateProperty(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleUpdateProperty"

	var details property.Details
	if !h.decodeBody(w, r, &details, op) {
		return
	}

	p, err := h.properties.Update(r.Context(), r.PathValue("id"), details)
	if err != nil {
		h.respondServiceError(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, p)
}

func (h *handler) handleDeleteProperty(w http.ResponseWriter, r *http.Request) {
	if err := h.properties.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.respondServiceError(w, err, "server.handleDeleteProperty")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) handleDuplicateProperty(w http.ResponseWriter, r *http.Request) {
	p, err := h.properties.Duplicate(r.Context(), r.PathValue("id"))
	if err != nil {
		h.respondServiceError(w, err, "server.handleDuplicateProperty")
		return
	}
	w.Header().Set("Location", "/api/properties/"+p.ID)
	h.writeJSON(w, http.StatusCreated, p)
}

func (h *handler) handleVersion(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

// decodeBody reads a size-limited JSON body into dest. On failure it writes
// the error response and returns false.
func (h *handler) decodeBody(w http.ResponseWriter, r *http.Request, dest any, op string) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, http.StatusRequestEntityTooLarge, kindTooLarge,
				fmt.Sprintf("request body exceeds limit of %d bytes", h.maxBodySize), op)
			return false
		}
		h.respondError(w, http.StatusBadRequest, kindBadRequest,
			fmt.Sprintf("failed to decode request: %v", err), op)
		return false
	}
	return true
}

func (h *handler) respondServiceError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, dealcalc.ErrInvalidInput):
		h.respondError(w, http.StatusUnprocessableEntity, kindInvalidInput, err.Error(), op)
	case errors.Is(err, property.ErrInvalidStatus):
		h.respondError(w, http.StatusUnprocessableEntity, kindInvalidStatus, err.Error(), op)
	case errors.Is(err, property.ErrInvalidDetails):
		h.respondError(w, http.StatusUnprocessableEntity, kindInvalidDetail, err.Error(), op)
	case errors.Is(err, property.ErrNotFound):
		h.respondError(w, http.StatusNotFound, kindNotFound, err.Error(), op)
	default:
		h.respondError(w, http.StatusInternalServerError, kindInternal, err.Error(), op)
	}
}

func (h *handler) respondError(w http.ResponseWriter, status int, kind, msg, op string) {
	fields := []zap.Field{
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	}
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", fields...)
	} else {
		h.logger.Info("request rejected", fields...)
	}

	h.writeJSON(w, status, errorResponse{Error: msg, Kind: kind})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
