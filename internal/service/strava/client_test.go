package strava

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientRefreshToken(t *testing.T) {
	var gotForm map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotForm = map[string]string{
			"client_id":     r.PostFormValue("client_id"),
			"client_secret": r.PostFormValue("client_secret"),
			"refresh_token": r.PostFormValue("refresh_token"),
			"grant_type":    r.PostFormValue("grant_type"),
		}
		json.NewEncoder(w).Encode(TokenResponse{
			AccessToken:  "new-access",
			RefreshToken: "new-refresh",
			ExpiresAt:    1750000000,
		})
	}))
	defer srv.Close()

	client := NewClient("client-id", "client-secret", srv.URL, srv.URL, 5*time.Second)

	token, err := client.RefreshToken(context.Background(), "old-refresh")
	require.NoError(t, err)

	assert.Equal(t, "new-access", token.AccessToken)
	assert.Equal(t, "new-refresh", token.RefreshToken)
	assert.Equal(t, int64(1750000000), token.ExpiresAt)
	assert.Equal(t, map[string]string{
		"client_id":     "client-id",
		"client_secret": "client-secret",
		"refresh_token": "old-refresh",
		"grant_type":    "refresh_token",
	}, gotForm)
}

func TestClientRefreshTokenUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient("client-id", "client-secret", srv.URL, srv.URL, 5*time.Second)

	_, err := client.RefreshToken(context.Background(), "old-refresh")
	assert.ErrorIs(t, err, ErrRefreshFailed)
}

func TestClientActivities(t *testing.T) {
	var gotPath, gotAuth, gotAfter, gotPerPage string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotAfter = r.URL.Query().Get("after")
		gotPerPage = r.URL.Query().Get("per_page")
		json.NewEncoder(w).Encode([]Activity{
			{ID: 1, Name: "Morning Run", Distance: 5000, MovingTime: 1500},
			{ID: 2, Name: "Evening Run", Distance: 3200, MovingTime: 1000},
		})
	}))
	defer srv.Close()

	client := NewClient("client-id", "client-secret", srv.URL, srv.URL, 5*time.Second)

	after := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	activities, err := client.Activities(context.Background(), "access-token", after)
	require.NoError(t, err)

	require.Len(t, activities, 2)
	assert.Equal(t, 5000.0, activities[0].Distance)
	assert.Equal(t, "/athlete/activities", gotPath)
	assert.Equal(t, "Bearer access-token", gotAuth)
	assert.Equal(t, "1748736000", gotAfter)
	assert.Equal(t, "100", gotPerPage)
}

func TestClientActivitiesUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient("client-id", "client-secret", srv.URL, srv.URL, 5*time.Second)

	_, err := client.Activities(context.Background(), "access-token", time.Now())
	assert.ErrorIs(t, err, ErrUpstreamFetch)
}

func TestClientActivitiesEmptyPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("[]"))
	}))
	defer srv.Close()

	client := NewClient("client-id", "client-secret", srv.URL, srv.URL, 5*time.Second)

	activities, err := client.Activities(context.Background(), "access-token", time.Now())
	require.NoError(t, err)
	assert.Empty(t, activities)
}
