package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/goalguard/goalguard/internal/ctxkeys"
	"github.com/goalguard/goalguard/internal/repository"
	"github.com/goalguard/goalguard/internal/service"
	"github.com/goalguard/goalguard/internal/service/payment"
)

type BillingHandler struct {
	goalService    *service.GoalService
	paymentService payment.Provider
}

func NewBillingHandler(goalService *service.GoalService, paymentService payment.Provider) *BillingHandler {
	return &BillingHandler{
		goalService:    goalService,
		paymentService: paymentService,
	}
}

type paymentIntentRequest struct {
	GoalID string `json:"goalId"`
}

// CreatePaymentIntent creates a payment intent for a goal's pledge
// amount. The amount comes from the stored goal, never the request.
func (h *BillingHandler) CreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req paymentIntentRequest
	err := decodeJSON(r, &req)
	if err != nil || req.GoalID == "" {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	goal, err := h.goalService.ByID(user.ID, req.GoalID)
	if err != nil {
		if errors.Is(err, repository.ErrGoalNotFound) {
			respondError(w, http.StatusNotFound, "goal not found")
			return
		}
		slog.Error("failed to load goal for payment", "error", err, "user_id", user.ID)
		respondError(w, http.StatusInternalServerError, "failed to create payment intent")
		return
	}

	intent, err := h.paymentService.CreatePledgeIntent(goal.PledgeAmount, map[string]string{
		"user_id":    user.ID,
		"goal_id":    goal.ID,
		"goal_title": goal.Title,
	})
	if err != nil {
		if errors.Is(err, payment.ErrNotConfigured) {
			respondError(w, http.StatusServiceUnavailable, "payments are not configured")
			return
		}
		slog.Error("failed to create payment intent", "error", err, "user_id", user.ID, "goal_id", goal.ID)
		respondError(w, http.StatusInternalServerError, "failed to create payment intent")
		return
	}

	err = h.goalService.AttachPaymentIntent(user.ID, goal.ID, intent.ID)
	if err != nil {
		slog.Warn("failed to record payment intent on goal", "error", err, "goal_id", goal.ID)
	}

	respondJSON(w, http.StatusOK, intent)
}

// ProcessDonation charges the pledge of a failed goal
func (h *BillingHandler) ProcessDonation(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	goalID := r.PathValue("id")

	goal, err := h.goalService.ByID(user.ID, goalID)
	if err != nil {
		if errors.Is(err, repository.ErrGoalNotFound) {
			respondError(w, http.StatusNotFound, "goal not found")
			return
		}
		slog.Error("failed to load goal for donation", "error", err, "user_id", user.ID)
		respondError(w, http.StatusInternalServerError, "failed to process donation")
		return
	}

	intent, err := h.paymentService.CreatePledgeIntent(goal.PledgeAmount, map[string]string{
		"user_id":    user.ID,
		"goal_id":    goal.ID,
		"goal_title": goal.Title,
	})
	if err != nil {
		if errors.Is(err, payment.ErrNotConfigured) {
			respondError(w, http.StatusServiceUnavailable, "payments are not configured")
			return
		}
		slog.Error("failed to process donation", "error", err, "user_id", user.ID, "goal_id", goal.ID)
		respondError(w, http.StatusInternalServerError, "failed to process donation")
		return
	}

	err = h.goalService.AttachPaymentIntent(user.ID, goal.ID, intent.ID)
	if err != nil {
		slog.Warn("failed to record payment intent on goal", "error", err, "goal_id", goal.ID)
	}

	respondJSON(w, http.StatusOK, intent)
}

func (h *BillingHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		slog.Error("failed to read webhook payload", "error", err)
		respondError(w, http.StatusBadRequest, "failed to read payload")
		return
	}
	defer r.Body.Close()

	err = h.paymentService.HandleWebhook(payload, r.Header)
	if err != nil {
		slog.Error("failed to handle webhook", "error", err, "provider", h.paymentService.Name())
		respondError(w, http.StatusBadRequest, "failed to process webhook")
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"received": true})
}
