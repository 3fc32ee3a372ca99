package api

import (
	"errors"
	"net/http"

	service "github.com/okian/spdi/internal/app"
	"github.com/okian/spdi/internal/domain/chart"
	"github.com/okian/spdi/internal/domain/history"
	"github.com/okian/spdi/internal/domain/model"
	"github.com/okian/spdi/internal/domain/spdi"
)

// SPDIHandler serves the validate, evaluate, batch and history endpoints.
type SPDIHandler struct {
	deps Dependencies
}

// NewSPDIHandler creates a new SPDI handler.
func NewSPDIHandler(deps Dependencies) *SPDIHandler {
	return &SPDIHandler{deps: deps}
}

type validateResponse struct {
	Valid  bool                   `json:"valid"`
	Errors []spdi.ValidationError `json:"errors"`
}

type validationFailedResponse struct {
	Code   string                 `json:"code"`
	Errors []spdi.ValidationError `json:"errors"`
}

type charts struct {
	Contribution chart.Config `json:"contribution"`
	Trend        chart.Config `json:"trend"`
	RiskColor    string       `json:"risk_color"`
}

type evaluateResponse struct {
	model.Evaluation
	Charts *charts `json:"charts,omitempty"`
}

type batchResponse struct {
	Evaluations []model.Evaluation `json:"evaluations"`
}

type historyResponse struct {
	Points []history.Point `json:"points"`
}

func (h *SPDIHandler) decodeMatch(w http.ResponseWriter, r *http.Request, op string) (spdi.MatchInput, bool) {
	var req matchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return spdi.MatchInput{}, false
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return spdi.MatchInput{}, false
	}
	return req.input(), true
}

// HandleValidate handles POST /v1/spdi/validate requests.
func (h *SPDIHandler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	const op = "api.validate"
	in, ok := h.decodeMatch(w, r, op)
	if !ok {
		return
	}
	errs := h.deps.Validate(r.Context(), in)
	if errs == nil {
		errs = []spdi.ValidationError{}
	}
	writeJSON(w, http.StatusOK, validateResponse{Valid: len(errs) == 0, Errors: errs})
}

// HandleEvaluate handles POST /v1/spdi/evaluate requests.
func (h *SPDIHandler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	const op = "api.evaluate"
	in, ok := h.decodeMatch(w, r, op)
	if !ok {
		return
	}
	ev, err := h.deps.Evaluate(r.Context(), in)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", WrapKind(op, ErrInternal, err))
		return
	}
	if !ev.Valid() {
		writeJSON(w, http.StatusUnprocessableEntity, validationFailedResponse{Code: "validation_failed", Errors: ev.Errors})
		return
	}
	writeJSON(w, http.StatusOK, evaluateResponse{
		Evaluation: ev,
		Charts: &charts{
			Contribution: chart.Contribution(ev.Contributions),
			Trend:        chart.Trend(ev.Trend),
			RiskColor:    chart.RiskColor(ev.Result.RiskTier),
		},
	})
}

// HandleBatch handles POST /v1/spdi/batch requests.
func (h *SPDIHandler) HandleBatch(w http.ResponseWriter, r *http.Request) {
	const op = "api.batch"
	var req batchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	inputs, err := req.validate()
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	evs, err := h.deps.EvaluateBatch(r.Context(), inputs)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, batchResponse{Evaluations: evs})
	case errors.Is(err, service.ErrInvalidBatch):
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
	case errors.Is(err, service.ErrBackpressure):
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
	case errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "unavailable", Wrap(op, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal", WrapKind(op, ErrInternal, err))
	}
}

// HandleHistory handles GET /v1/spdi/history requests.
func (h *SPDIHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	const op = "api.history"
	points, err := h.deps.History(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", WrapKind(op, ErrInternal, err))
		return
	}
	if points == nil {
		points = []history.Point{}
	}
	writeJSON(w, http.StatusOK, historyResponse{Points: points})
}
