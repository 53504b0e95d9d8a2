package strava

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

var (
	ErrRefreshFailed = errors.New("strava token refresh failed")
	ErrUpstreamFetch = errors.New("strava activity fetch failed")
)

// activitiesPerPage is the page size for the activity listing call.
// Only the first page is fetched; goals with more than 100 qualifying
// activities in the window under-count. Known limitation, kept on
// purpose so progress values stay comparable with earlier syncs.
const activitiesPerPage = 100

// Client talks to the Strava API. It is constructed once at the
// composition root and injected wherever needed; nothing in this
// package reaches for globals or environment variables.
type Client struct {
	httpClient   *http.Client
	clientID     string
	clientSecret string
	tokenURL     string
	apiURL       string
}

func NewClient(clientID, clientSecret, tokenURL, apiURL string, timeout time.Duration) *Client {
	return &Client{
		httpClient:   &http.Client{Timeout: timeout},
		clientID:     clientID,
		clientSecret: clientSecret,
		tokenURL:     tokenURL,
		apiURL:       apiURL,
	}
}

// TokenResponse is the token endpoint's reply. ExpiresAt is unix seconds.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"`
}

// Activity is a single activity record. Distance is raw meters.
// Records are consumed transiently and never persisted.
type Activity struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Distance   float64   `json:"distance"`
	MovingTime int       `json:"moving_time"`
	StartDate  time.Time `json:"start_date"`
}

// RefreshToken exchanges a refresh token for a new access/refresh pair.
// A non-2xx reply is ErrRefreshFailed; the caller decides whether to
// surface or retry (this client never retries on its own).
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	form := url.Values{
		"client_id":     {c.clientID},
		"client_secret": {c.clientSecret},
		"refresh_token": {refreshToken},
		"grant_type":    {"refresh_token"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRefreshFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", ErrRefreshFailed, resp.StatusCode)
	}

	var token TokenResponse
	err = json.NewDecoder(resp.Body).Decode(&token)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrRefreshFailed, err)
	}

	return &token, nil
}

// Activities lists the athlete's activities after the given instant,
// newest page only (see activitiesPerPage).
func (c *Client) Activities(ctx context.Context, accessToken string, after time.Time) ([]Activity, error) {
	query := url.Values{
		"after":    {strconv.FormatInt(after.Unix(), 10)},
		"per_page": {strconv.Itoa(activitiesPerPage)},
	}
	endpoint := c.apiURL + "/athlete/activities?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build activities request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", ErrUpstreamFetch, resp.StatusCode)
	}

	var activities []Activity
	err = json.NewDecoder(resp.Body).Decode(&activities)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrUpstreamFetch, err)
	}

	return activities, nil
}
