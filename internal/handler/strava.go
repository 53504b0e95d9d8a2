package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/goalguard/goalguard/internal/config"
	"github.com/goalguard/goalguard/internal/ctxkeys"
	"github.com/goalguard/goalguard/internal/model"
	"github.com/goalguard/goalguard/internal/repository"
	"github.com/goalguard/goalguard/internal/service"
	"github.com/goalguard/goalguard/internal/service/strava"
	"golang.org/x/oauth2"
)

const oauthStateCookie = "strava_oauth_state"

type StravaHandler struct {
	stravaService *strava.Service
	authService   *service.AuthService
	oauthConfig   *oauth2.Config
	cfg           *config.Config
}

func NewStravaHandler(stravaService *strava.Service, authService *service.AuthService, cfg *config.Config) *StravaHandler {
	return &StravaHandler{
		stravaService: stravaService,
		authService:   authService,
		cfg:           cfg,
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.StravaClientID,
			ClientSecret: cfg.StravaClientSecret,
			RedirectURL:  cfg.AppURL + "/api/strava/callback",
			Scopes:       []string{"activity:read_all"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.StravaAuthURL,
				TokenURL: cfg.StravaTokenURL,
			},
		},
	}
}

// Connect starts the OAuth flow. The state parameter is a short-lived
// signed token carrying the user id, so the callback (a bare browser
// redirect with no Authorization header) can attribute the credential.
func (h *StravaHandler) Connect(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	if h.cfg.StravaClientID == "" || h.cfg.StravaClientSecret == "" {
		respondError(w, http.StatusServiceUnavailable, "strava integration is not configured")
		return
	}

	state, err := h.authService.GenerateStateToken(user.ID, 10*time.Minute)
	if err != nil {
		slog.Error("failed to generate oauth state", "error", err, "user_id", user.ID)
		respondError(w, http.StatusInternalServerError, "failed to start strava connection")
		return
	}

	// Double-submit: the callback must present the same state in both
	// the query and this cookie
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   600, // 10 minutes
	})

	url := h.oauthConfig.AuthCodeURL(state, oauth2.SetAuthURLParam("approval_prompt", "auto"))
	respondJSON(w, http.StatusOK, map[string]string{"url": url})
}

func (h *StravaHandler) Callback(w http.ResponseWriter, r *http.Request) {
	if errParam := r.URL.Query().Get("error"); errParam != "" {
		slog.Warn("strava authorization denied", "error", errParam)
		http.Redirect(w, r, h.cfg.AppURL+"/?strava=error", http.StatusSeeOther)
		return
	}

	state := r.URL.Query().Get("state")
	cookie, err := r.Cookie(oauthStateCookie)
	if err != nil || state == "" || cookie.Value != state {
		slog.Warn("strava oauth state validation failed", "error", err)
		http.Redirect(w, r, h.cfg.AppURL+"/?strava=error", http.StatusSeeOther)
		return
	}

	// Clear state cookie
	http.SetCookie(w, &http.Cookie{
		Name:   oauthStateCookie,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	userID, err := h.authService.VerifyStateToken(state)
	if err != nil {
		slog.Warn("strava oauth state token invalid", "error", err)
		http.Redirect(w, r, h.cfg.AppURL+"/?strava=error", http.StatusSeeOther)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		slog.Warn("strava oauth callback missing code")
		http.Redirect(w, r, h.cfg.AppURL+"/?strava=error", http.StatusSeeOther)
		return
	}

	token, err := h.oauthConfig.Exchange(r.Context(), code)
	if err != nil {
		slog.Error("strava token exchange failed", "error", err)
		http.Redirect(w, r, h.cfg.AppURL+"/?strava=error", http.StatusSeeOther)
		return
	}

	conn := connectionFromToken(userID, token)

	_, err = h.stravaService.SaveConnection(conn)
	if err != nil {
		slog.Error("failed to save strava connection", "error", err, "user_id", userID)
		http.Redirect(w, r, h.cfg.AppURL+"/?strava=error", http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, h.cfg.AppURL+"/?strava=connected", http.StatusSeeOther)
}

// connectionFromToken builds a credential record from the exchange
// response. Strava includes the athlete object alongside the token.
func connectionFromToken(userID string, token *oauth2.Token) *model.StravaConnection {
	conn := &model.StravaConnection{
		UserID:       userID,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    token.Expiry,
	}

	athlete, ok := token.Extra("athlete").(map[string]any)
	if !ok {
		return conn
	}

	if id, ok := athlete["id"].(float64); ok {
		conn.AthleteID = fmt.Sprintf("%.0f", id)
	}

	firstname, _ := athlete["firstname"].(string)
	lastname, _ := athlete["lastname"].(string)
	conn.AthleteName = firstname + " " + lastname

	if profile, ok := athlete["profile"].(string); ok && profile != "" {
		conn.AthleteProfileURL = &profile
	}

	return conn
}

func (h *StravaHandler) Status(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	conn, err := h.stravaService.Connection(user.ID)
	if err != nil {
		if errors.Is(err, strava.ErrCredentialMissing) {
			respondJSON(w, http.StatusOK, map[string]any{"connected": false})
			return
		}
		slog.Error("failed to get strava connection", "error", err, "user_id", user.ID)
		respondError(w, http.StatusInternalServerError, "failed to fetch strava status")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"connected":         true,
		"athleteName":       conn.AthleteName,
		"athleteProfileUrl": conn.AthleteProfileURL,
	})
}

func (h *StravaHandler) Disconnect(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := h.stravaService.Disconnect(user.ID)
	if err != nil {
		if errors.Is(err, strava.ErrCredentialMissing) {
			respondError(w, http.StatusNotFound, "no strava connection to remove")
			return
		}
		slog.Error("failed to disconnect strava", "error", err, "user_id", user.ID)
		respondError(w, http.StatusInternalServerError, "failed to disconnect strava")
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Sync reconciles a goal's progress from Strava activities
func (h *StravaHandler) Sync(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	goalID := r.PathValue("goalID")

	goal, err := h.stravaService.Reconcile(r.Context(), user.ID, goalID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrGoalNotFound):
			respondError(w, http.StatusNotFound, "goal not found")
		case errors.Is(err, strava.ErrIneligibleUnit):
			respondError(w, http.StatusUnprocessableEntity, "goal unit cannot be synced from strava")
		case errors.Is(err, strava.ErrCredentialMissing):
			respondError(w, http.StatusBadRequest, "please connect your strava account")
		case errors.Is(err, strava.ErrRefreshFailed), errors.Is(err, strava.ErrUpstreamFetch):
			slog.Error("strava sync upstream failure", "error", err, "user_id", user.ID, "goal_id", goalID)
			respondError(w, http.StatusBadGateway, "strava is unavailable, please try again")
		default:
			slog.Error("strava sync failed", "error", err, "user_id", user.ID, "goal_id", goalID)
			respondError(w, http.StatusInternalServerError, "failed to sync strava data")
		}
		return
	}

	respondJSON(w, http.StatusOK, goal)
}
