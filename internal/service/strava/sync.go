package strava

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/goalguard/goalguard/internal/model"
)

var (
	ErrIneligibleUnit = errors.New("goal unit is not distance-based")
)

const (
	metersPerKilometer = 1000.0
	metersPerMile      = 1609.34
)

// Reconcile recomputes a goal's progress from the athlete's Strava
// activities and persists the result. The computation is a pure
// reduction over the fetched snapshot; running it twice against the
// same activity set writes the same value both times.
//
// Nothing is persisted until aggregation completes: every failure path
// leaves the stored goal untouched.
func (s *Service) Reconcile(ctx context.Context, userID, goalID string) (*model.Goal, error) {
	// Ownership is part of the lookup key, so a goal owned by another
	// user surfaces as not found
	goal, err := s.goals.ByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	// Fail fast on ineligible units, before any network call
	if !goal.SyncEligible() {
		return nil, ErrIneligibleUnit
	}

	accessToken, err := s.validAccessToken(ctx, userID)
	if err != nil {
		return nil, err
	}

	after := windowStart(goal.CreatedAt, s.now(), s.lookback)

	activities, err := s.api.Activities(ctx, accessToken, after)
	if err != nil {
		return nil, err
	}

	progress, err := AggregateProgress(goal.Unit, activities)
	if err != nil {
		return nil, err
	}

	return s.goals.UpdateProgress(userID, goalID, progress)
}

// windowStart computes the lower time bound for the activity fetch: the
// later of the goal's creation instant and now minus the lookback
// period. The window never reaches past the lookback horizon, and never
// starts before the goal existed.
func windowStart(createdAt, now time.Time, lookback time.Duration) time.Time {
	floor := now.Add(-lookback)
	if createdAt.After(floor) {
		return createdAt
	}
	return floor
}

// AggregateProgress reduces activity records to a progress value in the
// goal's unit, rounded half away from zero to two decimal places.
func AggregateProgress(unit string, activities []Activity) (float64, error) {
	var metersPerUnit float64
	switch unit {
	case model.UnitKilometers:
		metersPerUnit = metersPerKilometer
	case model.UnitMiles:
		metersPerUnit = metersPerMile
	default:
		return 0, ErrIneligibleUnit
	}

	var total float64
	for _, activity := range activities {
		total += activity.Distance / metersPerUnit
	}

	return math.Round(total*100) / 100, nil
}
