package validation

import (
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/goalguard/goalguard/internal/model"
)

// ValidateGoalTitle validates a goal title
func ValidateGoalTitle(title string) error {
	trimmed := strings.TrimSpace(title)

	if trimmed == "" {
		return errors.New("title is required")
	}

	if len(trimmed) > 200 {
		return errors.New("title is too long (max 200 characters)")
	}

	return nil
}

// ValidateGoalUnit checks the unit against the accepted set
func ValidateGoalUnit(unit string) error {
	if !slices.Contains(model.ValidUnits, unit) {
		return errors.New("invalid unit")
	}
	return nil
}

// ValidateGoalTarget requires a strictly positive target value
func ValidateGoalTarget(target float64) error {
	if target <= 0 {
		return errors.New("target must be greater than zero")
	}
	return nil
}

// ValidateGoalDeadline requires the deadline to be in the future
func ValidateGoalDeadline(deadline, now time.Time) error {
	if !deadline.After(now) {
		return errors.New("deadline must be in the future")
	}
	return nil
}

// ValidatePledgeAmount validates the pledge in whole dollars
func ValidatePledgeAmount(amount int) error {
	if amount < 1 {
		return errors.New("pledge amount must be at least $1")
	}
	if amount > 10000 {
		return errors.New("pledge amount must not exceed $10,000")
	}
	return nil
}
