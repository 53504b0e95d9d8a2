package model

import (
	"time"
)

const (
	GoalStatusActive      = "active"
	GoalStatusApproaching = "approaching"
	GoalStatusCompleted   = "completed"
	GoalStatusFailed      = "failed"
)

const (
	UnitKilometers = "km"
	UnitMiles      = "miles"
	UnitHours      = "hours"
	UnitDays       = "days"
	UnitBooks      = "books"
	UnitWorkouts   = "workouts"
	UnitOther      = "other"
)

// Units accepted at goal creation. The unit is immutable afterwards.
var ValidUnits = []string{
	UnitKilometers,
	UnitMiles,
	UnitHours,
	UnitDays,
	UnitBooks,
	UnitWorkouts,
	UnitOther,
}

type Goal struct {
	ID              string    `db:"id" json:"id"`
	UserID          string    `db:"user_id" json:"userId"`
	OrganizationID  string    `db:"organization_id" json:"organizationId"`
	Title           string    `db:"title" json:"title"`
	Target          float64   `db:"target" json:"target"`
	Unit            string    `db:"unit" json:"unit"`
	Progress        float64   `db:"progress" json:"progress"`
	Deadline        time.Time `db:"deadline" json:"deadline"`
	PledgeAmount    int       `db:"pledge_amount" json:"pledgeAmount"` // whole dollars
	Status          string    `db:"status" json:"status"`
	PaymentIntentID *string   `db:"payment_intent_id" json:"paymentIntentId,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time `db:"updated_at" json:"updatedAt"`
}

// SyncEligible reports whether the goal's unit can be auto-tracked from
// Strava activity distances. Only distance units qualify.
func (g *Goal) SyncEligible() bool {
	return g.Unit == UnitKilometers || g.Unit == UnitMiles
}

func (g *Goal) IsTerminal() bool {
	return g.Status == GoalStatusCompleted || g.Status == GoalStatusFailed
}

func (g *Goal) DaysRemaining(now time.Time) int {
	remaining := g.Deadline.Sub(now)
	if remaining < 0 {
		return 0
	}
	return int(remaining.Hours() / 24)
}
