package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/goalguard/goalguard/internal/model"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var (
	ErrStravaConnectionNotFound = errors.New("strava connection not found")
)

type StravaConnectionRepository interface {
	ByUserID(userID string) (*model.StravaConnection, error)
	Upsert(conn *model.StravaConnection) (*model.StravaConnection, error)
	Delete(userID string) error
}

type stravaConnectionRepository struct {
	db *sqlx.DB
}

func NewStravaConnectionRepository(db *sqlx.DB) StravaConnectionRepository {
	return &stravaConnectionRepository{db: db}
}

func (r *stravaConnectionRepository) ByUserID(userID string) (*model.StravaConnection, error) {
	conn := &model.StravaConnection{}
	query := `SELECT * FROM strava_connections WHERE user_id = $1`

	err := r.db.Get(conn, query, userID)
	if err == sql.ErrNoRows {
		return nil, ErrStravaConnectionNotFound
	}

	return conn, err
}

// Upsert replaces the credential pair in place. user_id carries a unique
// constraint, so the ON CONFLICT path rotates tokens for an existing
// connection and the insert path creates the first one.
func (r *stravaConnectionRepository) Upsert(conn *model.StravaConnection) (*model.StravaConnection, error) {
	if conn.ID == "" {
		conn.ID = uuid.New().String()
	}
	if conn.CreatedAt.IsZero() {
		conn.CreatedAt = time.Now()
	}

	query := `INSERT INTO strava_connections (id, user_id, athlete_id, access_token, refresh_token, expires_at, athlete_name, athlete_profile_url, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          ON CONFLICT (user_id) DO UPDATE SET
	              athlete_id = excluded.athlete_id,
	              access_token = excluded.access_token,
	              refresh_token = excluded.refresh_token,
	              expires_at = excluded.expires_at,
	              athlete_name = excluded.athlete_name,
	              athlete_profile_url = excluded.athlete_profile_url`

	_, err := r.db.Exec(query,
		conn.ID,
		conn.UserID,
		conn.AthleteID,
		conn.AccessToken,
		conn.RefreshToken,
		conn.ExpiresAt,
		conn.AthleteName,
		conn.AthleteProfileURL,
		conn.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return r.ByUserID(conn.UserID)
}

func (r *stravaConnectionRepository) Delete(userID string) error {
	query := `DELETE FROM strava_connections WHERE user_id = $1`
	result, err := r.db.Exec(query, userID)

	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrStravaConnectionNotFound
	}

	return nil
}
