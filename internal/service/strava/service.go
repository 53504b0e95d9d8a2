package strava

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/goalguard/goalguard/internal/model"
	"github.com/goalguard/goalguard/internal/repository"
)

var (
	ErrCredentialMissing = errors.New("strava account not connected")
)

// API is what the service needs from the Strava HTTP client. Tests swap
// in a fake; production wires *Client.
type API interface {
	RefreshToken(ctx context.Context, refreshToken string) (*TokenResponse, error)
	Activities(ctx context.Context, accessToken string, after time.Time) ([]Activity, error)
}

type Service struct {
	goals       repository.GoalRepository
	connections repository.StravaConnectionRepository
	api         API
	lookback    time.Duration
	now         func() time.Time
}

func NewService(
	goals repository.GoalRepository,
	connections repository.StravaConnectionRepository,
	api API,
	lookback time.Duration,
) *Service {
	return &Service{
		goals:       goals,
		connections: connections,
		api:         api,
		lookback:    lookback,
		now:         time.Now,
	}
}

func (s *Service) Connection(userID string) (*model.StravaConnection, error) {
	conn, err := s.connections.ByUserID(userID)
	if err != nil {
		if errors.Is(err, repository.ErrStravaConnectionNotFound) {
			return nil, ErrCredentialMissing
		}
		return nil, err
	}
	return conn, nil
}

// SaveConnection stores the credential pair obtained from the OAuth
// callback, replacing any existing connection for the user.
func (s *Service) SaveConnection(conn *model.StravaConnection) (*model.StravaConnection, error) {
	saved, err := s.connections.Upsert(conn)
	if err != nil {
		return nil, fmt.Errorf("failed to save strava connection: %w", err)
	}

	slog.Info("strava connection saved", "user_id", conn.UserID, "athlete_id", conn.AthleteID)
	return saved, nil
}

func (s *Service) Disconnect(userID string) error {
	err := s.connections.Delete(userID)
	if err != nil {
		if errors.Is(err, repository.ErrStravaConnectionNotFound) {
			return ErrCredentialMissing
		}
		return err
	}

	slog.Info("strava connection removed", "user_id", userID)
	return nil
}

// validAccessToken returns a currently-valid access token for the user,
// refreshing the stored credential when expired. The refresh rotates the
// refresh token, so the persisted connection is replaced before the new
// access token is handed out. An unexpired credential costs no network
// call.
func (s *Service) validAccessToken(ctx context.Context, userID string) (string, error) {
	conn, err := s.Connection(userID)
	if err != nil {
		return "", err
	}

	if !conn.IsExpired(s.now()) {
		return conn.AccessToken, nil
	}

	token, err := s.api.RefreshToken(ctx, conn.RefreshToken)
	if err != nil {
		return "", err
	}

	conn.AccessToken = token.AccessToken
	conn.RefreshToken = token.RefreshToken
	conn.ExpiresAt = time.Unix(token.ExpiresAt, 0)

	updated, err := s.connections.Upsert(conn)
	if err != nil {
		return "", fmt.Errorf("failed to store refreshed credential: %w", err)
	}

	slog.Info("strava token refreshed", "user_id", userID, "expires_at", updated.ExpiresAt)
	return updated.AccessToken, nil
}
