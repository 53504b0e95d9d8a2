package model

import (
	"time"
)

// StravaConnection stores the OAuth credential pair for a user's Strava
// account. At most one connection exists per user; validity is decided by
// ExpiresAt alone, there is no separate flag.
type StravaConnection struct {
	ID                string    `db:"id" json:"id"`
	UserID            string    `db:"user_id" json:"userId"`
	AthleteID         string    `db:"athlete_id" json:"athleteId"`
	AccessToken       string    `db:"access_token" json:"-"`
	RefreshToken      string    `db:"refresh_token" json:"-"`
	ExpiresAt         time.Time `db:"expires_at" json:"expiresAt"`
	AthleteName       string    `db:"athlete_name" json:"athleteName"`
	AthleteProfileURL *string   `db:"athlete_profile_url" json:"athleteProfileUrl,omitempty"`
	CreatedAt         time.Time `db:"created_at" json:"createdAt"`
}

// IsExpired reports whether the access token must be refreshed before use.
// A token expiring exactly now counts as expired.
func (c *StravaConnection) IsExpired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}
