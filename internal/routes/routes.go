package routes

import (
	"net/http"

	"github.com/goalguard/goalguard/internal/app"
	"github.com/goalguard/goalguard/internal/handler"
	"github.com/goalguard/goalguard/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	auth := handler.NewAuthHandler(app.AuthService)
	orgs := handler.NewOrganizationHandler(app.OrganizationService)
	goal := handler.NewGoalHandler(app.GoalService)
	strava := handler.NewStravaHandler(app.StravaService, app.AuthService, app.Cfg)
	billing := handler.NewBillingHandler(app.GoalService, app.PaymentService)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Auth (rate limited)
	rateLimiter := middleware.RateLimitAuth()
	mux.HandleFunc("POST /api/auth/register", rateLimiter(auth.Register))
	mux.HandleFunc("POST /api/auth/login", rateLimiter(auth.Login))

	// Organizations (public charity listing)
	mux.HandleFunc("GET /api/organizations", orgs.List)
	mux.HandleFunc("GET /api/organizations/{id}", orgs.Get)

	// Strava OAuth callback (browser redirect, authenticated via signed state)
	mux.HandleFunc("GET /api/strava/callback", strava.Callback)

	// ============================================================================
	// PROTECTED ROUTES
	// ============================================================================

	mux.HandleFunc("GET /api/auth/user", middleware.RequireAuth(auth.Me))

	// Goals
	mux.HandleFunc("GET /api/goals", middleware.RequireAuth(goal.List))
	mux.HandleFunc("POST /api/goals", middleware.RequireAuth(goal.Create))
	mux.HandleFunc("GET /api/goals/{id}", middleware.RequireAuth(goal.Get))
	mux.HandleFunc("PATCH /api/goals/{id}", middleware.RequireAuth(goal.Update))
	mux.HandleFunc("PATCH /api/goals/{id}/progress", middleware.RequireAuth(goal.UpdateProgress))
	mux.HandleFunc("DELETE /api/goals/{id}", middleware.RequireAuth(goal.Delete))

	// Strava
	mux.HandleFunc("GET /api/strava/connect", middleware.RequireAuth(strava.Connect))
	mux.HandleFunc("GET /api/strava/status", middleware.RequireAuth(strava.Status))
	mux.HandleFunc("POST /api/strava/disconnect", middleware.RequireAuth(strava.Disconnect))
	mux.HandleFunc("POST /api/strava/sync/{goalID}", middleware.RequireAuth(strava.Sync))

	// Billing
	mux.HandleFunc("POST /api/billing/payment-intent", middleware.RequireAuth(billing.CreatePaymentIntent))
	mux.HandleFunc("POST /api/goals/{id}/process-donation", middleware.RequireAuth(billing.ProcessDonation))

	// ============================================================================
	// WEBHOOKS
	// ============================================================================

	mux.HandleFunc("POST /webhooks/payment", billing.Webhook)

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		middleware.Config(app.Cfg),
		middleware.RequestLogging,
		middleware.AuthMiddleware(app.AuthService, app.UserService),
	)

	return handler
}
