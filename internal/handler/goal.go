package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/goalguard/goalguard/internal/ctxkeys"
	"github.com/goalguard/goalguard/internal/repository"
	"github.com/goalguard/goalguard/internal/service"
)

type GoalHandler struct {
	goalService *service.GoalService
}

func NewGoalHandler(goalService *service.GoalService) *GoalHandler {
	return &GoalHandler{
		goalService: goalService,
	}
}

type createGoalRequest struct {
	Title          string    `json:"title"`
	OrganizationID string    `json:"organizationId"`
	Target         float64   `json:"target"`
	Unit           string    `json:"unit"`
	Deadline       time.Time `json:"deadline"`
	PledgeAmount   int       `json:"pledgeAmount"`
}

type updateGoalRequest struct {
	Title        string    `json:"title"`
	Target       float64   `json:"target"`
	Deadline     time.Time `json:"deadline"`
	PledgeAmount int       `json:"pledgeAmount"`
}

type progressRequest struct {
	Progress float64 `json:"progress"`
}

func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	goals, err := h.goalService.Goals(user.ID)
	if err != nil {
		slog.Error("failed to list goals", "error", err, "user_id", user.ID)
		respondError(w, http.StatusInternalServerError, "failed to fetch goals")
		return
	}

	respondJSON(w, http.StatusOK, goals)
}

func (h *GoalHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	goal, err := h.goalService.ByID(user.ID, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, repository.ErrGoalNotFound) {
			respondError(w, http.StatusNotFound, "goal not found")
			return
		}
		slog.Error("failed to get goal", "error", err, "user_id", user.ID)
		respondError(w, http.StatusInternalServerError, "failed to fetch goal")
		return
	}

	respondJSON(w, http.StatusOK, goal)
}

func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req createGoalRequest
	err := decodeJSON(r, &req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	goal, err := h.goalService.Create(user.ID, service.CreateGoalInput{
		Title:          req.Title,
		OrganizationID: req.OrganizationID,
		Target:         req.Target,
		Unit:           req.Unit,
		Deadline:       req.Deadline,
		PledgeAmount:   req.PledgeAmount,
	})
	if err != nil {
		if errors.Is(err, repository.ErrOrganizationNotFound) {
			respondError(w, http.StatusBadRequest, "unknown organization")
			return
		}
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, goal)
}

func (h *GoalHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req updateGoalRequest
	err := decodeJSON(r, &req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	goal, err := h.goalService.Update(user.ID, r.PathValue("id"), service.UpdateGoalInput{
		Title:        req.Title,
		Target:       req.Target,
		Deadline:     req.Deadline,
		PledgeAmount: req.PledgeAmount,
	})
	if err != nil {
		if errors.Is(err, repository.ErrGoalNotFound) {
			respondError(w, http.StatusNotFound, "goal not found")
			return
		}
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, goal)
}

// UpdateProgress is the manual entry path for goals that are not
// auto-tracked via Strava.
func (h *GoalHandler) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req progressRequest
	err := decodeJSON(r, &req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	goal, err := h.goalService.UpdateProgress(user.ID, r.PathValue("id"), req.Progress)
	if err != nil {
		if errors.Is(err, repository.ErrGoalNotFound) {
			respondError(w, http.StatusNotFound, "goal not found")
			return
		}
		if errors.Is(err, service.ErrNegativeProgress) {
			respondError(w, http.StatusBadRequest, "progress cannot be negative")
			return
		}
		slog.Error("failed to update progress", "error", err, "user_id", user.ID)
		respondError(w, http.StatusInternalServerError, "failed to update progress")
		return
	}

	respondJSON(w, http.StatusOK, goal)
}

func (h *GoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := h.goalService.Delete(user.ID, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, repository.ErrGoalNotFound) {
			respondError(w, http.StatusNotFound, "goal not found")
			return
		}
		slog.Error("failed to delete goal", "error", err, "user_id", user.ID)
		respondError(w, http.StatusInternalServerError, "failed to delete goal")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
