package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/goalguard/goalguard/internal/model"
	"github.com/jmoiron/sqlx"
)

var (
	ErrGoalNotFound = errors.New("goal not found")
)

type GoalRepository interface {
	Create(goal *model.Goal) error
	ByID(userID, goalID string) (*model.Goal, error)
	Goals(userID string) ([]*model.Goal, error)
	Update(goal *model.Goal) error
	UpdateProgress(userID, goalID string, progress float64) (*model.Goal, error)
	Delete(userID, goalID string) error
}

type goalRepository struct {
	db *sqlx.DB
}

func NewGoalRepository(db *sqlx.DB) GoalRepository {
	return &goalRepository{db: db}
}

func (r *goalRepository) Create(goal *model.Goal) error {
	query := `INSERT INTO goals (id, user_id, organization_id, title, target, unit, progress, deadline, pledge_amount, status, payment_intent_id, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.db.Exec(query,
		goal.ID,
		goal.UserID,
		goal.OrganizationID,
		goal.Title,
		goal.Target,
		goal.Unit,
		goal.Progress,
		goal.Deadline,
		goal.PledgeAmount,
		goal.Status,
		goal.PaymentIntentID,
		goal.CreatedAt,
		goal.UpdatedAt,
	)

	return err
}

// ByID scopes the lookup to the owning user. A goal owned by someone else
// is indistinguishable from a missing goal, so ownership never leaks.
func (r *goalRepository) ByID(userID, goalID string) (*model.Goal, error) {
	goal := &model.Goal{}
	query := `SELECT * FROM goals WHERE id = $1 AND user_id = $2`

	err := r.db.Get(goal, query, goalID, userID)
	if err == sql.ErrNoRows {
		return nil, ErrGoalNotFound
	}

	return goal, err
}

func (r *goalRepository) Goals(userID string) ([]*model.Goal, error) {
	var goals []*model.Goal
	query := `SELECT * FROM goals WHERE user_id = $1 ORDER BY deadline ASC, created_at DESC`

	err := r.db.Select(&goals, query, userID)
	if err != nil {
		return nil, err
	}

	return goals, nil
}

func (r *goalRepository) Update(goal *model.Goal) error {
	query := `UPDATE goals
	          SET title = $1, organization_id = $2, target = $3, deadline = $4, pledge_amount = $5, status = $6, payment_intent_id = $7, updated_at = $8
	          WHERE id = $9 AND user_id = $10`

	result, err := r.db.Exec(query,
		goal.Title,
		goal.OrganizationID,
		goal.Target,
		goal.Deadline,
		goal.PledgeAmount,
		goal.Status,
		goal.PaymentIntentID,
		time.Now(),
		goal.ID,
		goal.UserID,
	)

	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrGoalNotFound
	}

	return nil
}

// UpdateProgress overwrites the progress value in a single keyed write.
// The WHERE clause carries both ids, so a goal the user does not own is
// reported as not found rather than forbidden.
func (r *goalRepository) UpdateProgress(userID, goalID string, progress float64) (*model.Goal, error) {
	query := `UPDATE goals
	          SET progress = $1, updated_at = $2
	          WHERE id = $3 AND user_id = $4`

	result, err := r.db.Exec(query, progress, time.Now(), goalID, userID)
	if err != nil {
		return nil, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}

	if rows == 0 {
		return nil, ErrGoalNotFound
	}

	return r.ByID(userID, goalID)
}

func (r *goalRepository) Delete(userID, goalID string) error {
	query := `DELETE FROM goals WHERE id = $1 AND user_id = $2`
	result, err := r.db.Exec(query, goalID, userID)

	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrGoalNotFound
	}

	return nil
}
