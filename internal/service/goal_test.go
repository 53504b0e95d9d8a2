package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goalguard/goalguard/internal/model"
	"github.com/goalguard/goalguard/internal/repository"
)

type memGoalRepo struct {
	goals map[string]*model.Goal
}

func newMemGoalRepo(goals ...*model.Goal) *memGoalRepo {
	r := &memGoalRepo{goals: make(map[string]*model.Goal)}
	for _, g := range goals {
		r.goals[g.UserID+"/"+g.ID] = g
	}
	return r
}

func (r *memGoalRepo) Create(goal *model.Goal) error {
	r.goals[goal.UserID+"/"+goal.ID] = goal
	return nil
}

func (r *memGoalRepo) ByID(userID, goalID string) (*model.Goal, error) {
	goal, ok := r.goals[userID+"/"+goalID]
	if !ok {
		return nil, repository.ErrGoalNotFound
	}
	copied := *goal
	return &copied, nil
}

func (r *memGoalRepo) Goals(userID string) ([]*model.Goal, error) {
	var out []*model.Goal
	for _, g := range r.goals {
		if g.UserID == userID {
			copied := *g
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *memGoalRepo) Update(goal *model.Goal) error {
	key := goal.UserID + "/" + goal.ID
	if _, ok := r.goals[key]; !ok {
		return repository.ErrGoalNotFound
	}
	copied := *goal
	r.goals[key] = &copied
	return nil
}

func (r *memGoalRepo) UpdateProgress(userID, goalID string, progress float64) (*model.Goal, error) {
	goal, ok := r.goals[userID+"/"+goalID]
	if !ok {
		return nil, repository.ErrGoalNotFound
	}
	goal.Progress = progress
	copied := *goal
	return &copied, nil
}

func (r *memGoalRepo) Delete(userID, goalID string) error {
	key := userID + "/" + goalID
	if _, ok := r.goals[key]; !ok {
		return repository.ErrGoalNotFound
	}
	delete(r.goals, key)
	return nil
}

type memOrgRepo struct {
	orgs map[string]*model.Organization
}

func newMemOrgRepo(orgs ...*model.Organization) *memOrgRepo {
	r := &memOrgRepo{orgs: make(map[string]*model.Organization)}
	for _, o := range orgs {
		r.orgs[o.ID] = o
	}
	return r
}

func (r *memOrgRepo) Create(org *model.Organization) error {
	r.orgs[org.ID] = org
	return nil
}

func (r *memOrgRepo) ByID(id string) (*model.Organization, error) {
	org, ok := r.orgs[id]
	if !ok {
		return nil, repository.ErrOrganizationNotFound
	}
	return org, nil
}

func (r *memOrgRepo) All() ([]*model.Organization, error) {
	var out []*model.Organization
	for _, o := range r.orgs {
		out = append(out, o)
	}
	return out, nil
}

func (r *memOrgRepo) Count() (int, error) {
	return len(r.orgs), nil
}

var goalTestNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestGoalService(repo repository.GoalRepository, orgRepo repository.OrganizationRepository) *GoalService {
	svc := NewGoalService(repo, orgRepo)
	svc.now = func() time.Time { return goalTestNow }
	return svc
}

func validInput() CreateGoalInput {
	return CreateGoalInput{
		Title:          "Run 100km",
		OrganizationID: "org-1",
		Target:         100,
		Unit:           model.UnitKilometers,
		Deadline:       goalTestNow.Add(30 * 24 * time.Hour),
		PledgeAmount:   50,
	}
}

func TestCreateGoal(t *testing.T) {
	repo := newMemGoalRepo()
	orgs := newMemOrgRepo(&model.Organization{ID: "org-1", Name: "Clean Water Initiative"})
	svc := newTestGoalService(repo, orgs)

	goal, err := svc.Create("user-1", validInput())
	require.NoError(t, err)

	assert.NotEmpty(t, goal.ID)
	assert.Equal(t, "user-1", goal.UserID)
	assert.Equal(t, model.GoalStatusActive, goal.Status)
	assert.Equal(t, 0.0, goal.Progress)
	assert.Nil(t, goal.PaymentIntentID)
}

func TestCreateGoalValidation(t *testing.T) {
	repo := newMemGoalRepo()
	orgs := newMemOrgRepo(&model.Organization{ID: "org-1"})
	svc := newTestGoalService(repo, orgs)

	tests := []struct {
		name   string
		mutate func(*CreateGoalInput)
	}{
		{"empty title", func(in *CreateGoalInput) { in.Title = "" }},
		{"zero target", func(in *CreateGoalInput) { in.Target = 0 }},
		{"negative target", func(in *CreateGoalInput) { in.Target = -5 }},
		{"unknown unit", func(in *CreateGoalInput) { in.Unit = "lightyears" }},
		{"past deadline", func(in *CreateGoalInput) { in.Deadline = goalTestNow.Add(-time.Hour) }},
		{"zero pledge", func(in *CreateGoalInput) { in.PledgeAmount = 0 }},
		{"excessive pledge", func(in *CreateGoalInput) { in.PledgeAmount = 10001 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			_, err := svc.Create("user-1", in)
			assert.Error(t, err)
		})
	}

	assert.Empty(t, repo.goals, "no goal persisted on validation failure")
}

func TestCreateGoalUnknownOrganization(t *testing.T) {
	svc := newTestGoalService(newMemGoalRepo(), newMemOrgRepo())

	_, err := svc.Create("user-1", validInput())
	assert.ErrorIs(t, err, repository.ErrOrganizationNotFound)
}

func TestEvaluateStatus(t *testing.T) {
	deadline := goalTestNow.Add(30 * 24 * time.Hour)

	tests := []struct {
		name string
		goal model.Goal
		want string
	}{
		{
			name: "active with time and progress remaining",
			goal: model.Goal{Status: model.GoalStatusActive, Progress: 10, Target: 100, Deadline: deadline},
			want: model.GoalStatusActive,
		},
		{
			name: "completed when progress reaches target",
			goal: model.Goal{Status: model.GoalStatusActive, Progress: 100, Target: 100, Deadline: deadline},
			want: model.GoalStatusCompleted,
		},
		{
			name: "completed when progress exceeds target",
			goal: model.Goal{Status: model.GoalStatusActive, Progress: 120, Target: 100, Deadline: deadline},
			want: model.GoalStatusCompleted,
		},
		{
			name: "failed past deadline",
			goal: model.Goal{Status: model.GoalStatusActive, Progress: 10, Target: 100, Deadline: goalTestNow.Add(-time.Hour)},
			want: model.GoalStatusFailed,
		},
		{
			name: "approaching within three days",
			goal: model.Goal{Status: model.GoalStatusActive, Progress: 10, Target: 100, Deadline: goalTestNow.Add(2 * 24 * time.Hour)},
			want: model.GoalStatusApproaching,
		},
		{
			name: "completed wins over passed deadline",
			goal: model.Goal{Status: model.GoalStatusActive, Progress: 100, Target: 100, Deadline: goalTestNow.Add(-time.Hour)},
			want: model.GoalStatusCompleted,
		},
		{
			name: "failed is terminal even with late progress",
			goal: model.Goal{Status: model.GoalStatusFailed, Progress: 150, Target: 100, Deadline: deadline},
			want: model.GoalStatusFailed,
		},
		{
			name: "completed is terminal",
			goal: model.Goal{Status: model.GoalStatusCompleted, Progress: 100, Target: 100, Deadline: goalTestNow.Add(-time.Hour)},
			want: model.GoalStatusCompleted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EvaluateStatus(&tt.goal, goalTestNow))
		})
	}
}

func TestGoalsRefreshStatusOnRead(t *testing.T) {
	goal := &model.Goal{
		ID:       "goal-1",
		UserID:   "user-1",
		Title:    "Run 100km",
		Target:   100,
		Progress: 100,
		Unit:     model.UnitKilometers,
		Deadline: goalTestNow.Add(30 * 24 * time.Hour),
		Status:   model.GoalStatusActive,
	}
	repo := newMemGoalRepo(goal)
	svc := newTestGoalService(repo, newMemOrgRepo())

	got, err := svc.ByID("user-1", "goal-1")
	require.NoError(t, err)
	assert.Equal(t, model.GoalStatusCompleted, got.Status)

	// The derived status is persisted, not just rendered
	stored, _ := repo.ByID("user-1", "goal-1")
	assert.Equal(t, model.GoalStatusCompleted, stored.Status)
}

func TestUpdateProgressRejectsNegative(t *testing.T) {
	svc := newTestGoalService(newMemGoalRepo(), newMemOrgRepo())

	_, err := svc.UpdateProgress("user-1", "goal-1", -1)
	assert.ErrorIs(t, err, ErrNegativeProgress)
}

func TestUpdateOtherUsersGoal(t *testing.T) {
	goal := &model.Goal{ID: "goal-1", UserID: "user-1", Title: "Run", Target: 100, Deadline: goalTestNow.Add(time.Hour), Status: model.GoalStatusActive}
	repo := newMemGoalRepo(goal)
	svc := newTestGoalService(repo, newMemOrgRepo())

	_, err := svc.Update("user-2", "goal-1", UpdateGoalInput{Title: "Hijacked", Target: 1, Deadline: goalTestNow.Add(time.Hour), PledgeAmount: 5})
	assert.ErrorIs(t, err, repository.ErrGoalNotFound)

	stored, _ := repo.ByID("user-1", "goal-1")
	assert.Equal(t, "Run", stored.Title)
}

func TestAttachPaymentIntent(t *testing.T) {
	goal := &model.Goal{ID: "goal-1", UserID: "user-1", Title: "Run", Target: 100, Deadline: goalTestNow.Add(time.Hour), Status: model.GoalStatusActive}
	repo := newMemGoalRepo(goal)
	svc := newTestGoalService(repo, newMemOrgRepo())

	err := svc.AttachPaymentIntent("user-1", "goal-1", "pi_123")
	require.NoError(t, err)

	stored, _ := repo.ByID("user-1", "goal-1")
	require.NotNil(t, stored.PaymentIntentID)
	assert.Equal(t, "pi_123", *stored.PaymentIntentID)
}
