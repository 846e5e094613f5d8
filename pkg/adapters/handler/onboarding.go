package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/wadjakorntonsri/linkfolio/pkg/core/domain"
	"github.com/wadjakorntonsri/linkfolio/pkg/ports"
)

type OnboardingHandler struct {
	service ports.OnboardingService
	checker ports.UsernameChecker
	logger  *zap.Logger
}

func NewOnboardingHandler(service ports.OnboardingService, checker ports.UsernameChecker, logger *zap.Logger) *OnboardingHandler {
	return &OnboardingHandler{
		service: service,
		checker: checker,
		logger:  logger.With(zap.String("component", "onboarding_handler")),
	}
}

// UpdateOnboardingRequest payload
type UpdateOnboardingRequest struct {
	Step    string                   `json:"step"`
	Skip    bool                     `json:"skip,omitempty"`
	Payload domain.OnboardingPayload `json:"payload"`
}

// Show the requested step
func (h *OnboardingHandler) Show(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.Show(r.Context(), ProfileIDFromContext(r.Context()), r.URL.Query().Get("step"))
	h.respond(w, r, res, err)
}

// Update submits one step
func (h *OnboardingHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateOnboardingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	res, err := h.service.Update(r.Context(), ProfileIDFromContext(r.Context()), req.Step, req.Payload, req.Skip)
	h.respond(w, r, res, err)
}

func (h *OnboardingHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.Finalize(r.Context(), ProfileIDFromContext(r.Context()))
	h.respond(w, r, res, err)
}

// CheckUsername backs the live availability check next to the username input
func (h *OnboardingHandler) CheckUsername(w http.ResponseWriter, r *http.Request) {
	status, err := h.checker.Check(r.Context(), r.URL.Query().Get("username"), ProfileIDFromContext(r.Context()))
	if err != nil {
		requestLog(h.logger, r).Error("username check failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (h *OnboardingHandler) respond(w http.ResponseWriter, r *http.Request, res *domain.OnboardingResult, err error) {
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Profile not found")
			return
		}
		requestLog(h.logger, r).Error("onboarding failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	status := http.StatusOK
	if res.Outcome == domain.OutcomeRedisplay {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, res)
}
