package service

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/goalguard/goalguard/internal/model"
	"github.com/goalguard/goalguard/internal/repository"
	"github.com/goalguard/goalguard/internal/validation"
	"github.com/google/uuid"
)

var (
	ErrUnitImmutable    = errors.New("unit cannot be changed after creation")
	ErrNegativeProgress = errors.New("progress cannot be negative")
)

type GoalService struct {
	repo    repository.GoalRepository
	orgRepo repository.OrganizationRepository
	now     func() time.Time
}

func NewGoalService(repo repository.GoalRepository, orgRepo repository.OrganizationRepository) *GoalService {
	return &GoalService{
		repo:    repo,
		orgRepo: orgRepo,
		now:     time.Now,
	}
}

type CreateGoalInput struct {
	Title          string
	OrganizationID string
	Target         float64
	Unit           string
	Deadline       time.Time
	PledgeAmount   int
}

func (s *GoalService) Create(userID string, in CreateGoalInput) (*model.Goal, error) {
	err := validation.ValidateGoalTitle(in.Title)
	if err != nil {
		return nil, err
	}
	err = validation.ValidateGoalUnit(in.Unit)
	if err != nil {
		return nil, err
	}
	err = validation.ValidateGoalTarget(in.Target)
	if err != nil {
		return nil, err
	}
	err = validation.ValidateGoalDeadline(in.Deadline, s.now())
	if err != nil {
		return nil, err
	}
	err = validation.ValidatePledgeAmount(in.PledgeAmount)
	if err != nil {
		return nil, err
	}

	// The pledge must point at a listed organization
	_, err = s.orgRepo.ByID(in.OrganizationID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	goal := &model.Goal{
		ID:             uuid.New().String(),
		UserID:         userID,
		OrganizationID: in.OrganizationID,
		Title:          in.Title,
		Target:         in.Target,
		Unit:           in.Unit,
		Progress:       0,
		Deadline:       in.Deadline,
		PledgeAmount:   in.PledgeAmount,
		Status:         model.GoalStatusActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err = s.repo.Create(goal)
	if err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	return goal, nil
}

func (s *GoalService) ByID(userID, goalID string) (*model.Goal, error) {
	goal, err := s.repo.ByID(userID, goalID)
	if err != nil {
		return nil, err
	}
	return s.refreshStatus(goal), nil
}

func (s *GoalService) Goals(userID string) ([]*model.Goal, error) {
	goals, err := s.repo.Goals(userID)
	if err != nil {
		return nil, err
	}
	for i, goal := range goals {
		goals[i] = s.refreshStatus(goal)
	}
	return goals, nil
}

type UpdateGoalInput struct {
	Title        string
	Target       float64
	Deadline     time.Time
	PledgeAmount int
}

func (s *GoalService) Update(userID, goalID string, in UpdateGoalInput) (*model.Goal, error) {
	// Load-and-authorize: ownership is decided once here, the repo write
	// re-checks it via the keyed WHERE clause
	goal, err := s.repo.ByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	err = validation.ValidateGoalTitle(in.Title)
	if err != nil {
		return nil, err
	}
	err = validation.ValidateGoalTarget(in.Target)
	if err != nil {
		return nil, err
	}
	err = validation.ValidatePledgeAmount(in.PledgeAmount)
	if err != nil {
		return nil, err
	}

	goal.Title = in.Title
	goal.Target = in.Target
	goal.Deadline = in.Deadline
	goal.PledgeAmount = in.PledgeAmount
	goal.UpdatedAt = s.now()

	err = s.repo.Update(goal)
	if err != nil {
		return nil, err
	}

	return s.refreshStatus(goal), nil
}

// UpdateProgress handles manual progress entry for goals that are not
// auto-tracked (books, workouts, ...). Strava-backed updates go through
// the sync service instead.
func (s *GoalService) UpdateProgress(userID, goalID string, progress float64) (*model.Goal, error) {
	if progress < 0 {
		return nil, ErrNegativeProgress
	}

	goal, err := s.repo.UpdateProgress(userID, goalID, progress)
	if err != nil {
		return nil, err
	}

	return s.refreshStatus(goal), nil
}

func (s *GoalService) Delete(userID, goalID string) error {
	_, err := s.repo.ByID(userID, goalID)
	if err != nil {
		return err
	}

	return s.repo.Delete(userID, goalID)
}

// AttachPaymentIntent records the payment intent backing the goal's
// pledge. Called when a donation intent is created and again by the
// payment webhook on success; both writes are idempotent.
func (s *GoalService) AttachPaymentIntent(userID, goalID, intentID string) error {
	goal, err := s.repo.ByID(userID, goalID)
	if err != nil {
		return err
	}

	goal.PaymentIntentID = &intentID
	goal.UpdatedAt = s.now()
	return s.repo.Update(goal)
}

// EvaluateStatus derives the lifecycle status from progress and deadline.
// Terminal states stick: a goal marked failed stays failed even if a late
// sync pushes progress past the target.
func EvaluateStatus(goal *model.Goal, now time.Time) string {
	if goal.IsTerminal() {
		return goal.Status
	}

	if goal.Progress >= goal.Target {
		return model.GoalStatusCompleted
	}

	if now.After(goal.Deadline) {
		return model.GoalStatusFailed
	}

	if goal.DaysRemaining(now) <= 3 {
		return model.GoalStatusApproaching
	}

	return model.GoalStatusActive
}

// refreshStatus re-derives the status on read and persists it when it
// changed, so list and detail responses never show a stale lifecycle.
func (s *GoalService) refreshStatus(goal *model.Goal) *model.Goal {
	status := EvaluateStatus(goal, s.now())
	if status == goal.Status {
		return goal
	}

	goal.Status = status
	err := s.repo.Update(goal)
	if err != nil {
		slog.Warn("failed to persist goal status", "error", err, "goal_id", goal.ID, "status", status)
	}

	return goal
}
