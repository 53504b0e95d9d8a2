package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/goalguard/goalguard/internal/config"
	"github.com/goalguard/goalguard/internal/db"
	"github.com/goalguard/goalguard/internal/repository"
	"github.com/goalguard/goalguard/internal/service"
	"github.com/goalguard/goalguard/internal/service/payment"
	"github.com/goalguard/goalguard/internal/service/strava"
)

// App holds every wired dependency. Handlers and routes pull from here
// instead of constructing their own collaborators.
type App struct {
	Cfg *config.Config
	DB  *sqlx.DB

	AuthService         *service.AuthService
	UserService         *service.UserService
	OrganizationService *service.OrganizationService
	GoalService         *service.GoalService
	StravaService       *strava.Service
	PaymentService      payment.Provider
}

func New(cfg *config.Config) (*App, error) {
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := db.RunMigrations(database.DB, cfg.DBDriver); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	userRepo := repository.NewUserRepository(database)
	orgRepo := repository.NewOrganizationRepository(database)
	goalRepo := repository.NewGoalRepository(database)
	stravaRepo := repository.NewStravaConnectionRepository(database)

	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTExpiry)
	userService := service.NewUserService(userRepo)
	orgService := service.NewOrganizationService(orgRepo)
	goalService := service.NewGoalService(goalRepo, orgRepo)

	stravaClient := strava.NewClient(
		cfg.StravaClientID,
		cfg.StravaClientSecret,
		cfg.StravaTokenURL,
		cfg.StravaAPIURL,
		cfg.StravaHTTPTimeout,
	)
	stravaService := strava.NewService(goalRepo, stravaRepo, stravaClient, cfg.SyncLookback)

	if err := orgService.Seed(); err != nil {
		return nil, fmt.Errorf("failed to seed organizations: %w", err)
	}

	return &App{
		Cfg:                 cfg,
		DB:                  database,
		AuthService:         authService,
		UserService:         userService,
		OrganizationService: orgService,
		GoalService:         goalService,
		StravaService:       stravaService,
		PaymentService:      payment.NewProvider(cfg, goalService),
	}, nil
}

func (a *App) Close() error {
	return db.Close(a.DB)
}
