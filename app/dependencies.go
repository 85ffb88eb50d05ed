package app

import (
	"context"
	"fmt"

	"github.com/spineai/backend/config"
	"github.com/spineai/backend/middleware"
	"github.com/spineai/backend/models"
	"github.com/spineai/backend/services"
	"github.com/spineai/backend/supabase"
	"go.uber.org/zap"
)

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	Logger *zap.Logger

	// Auth
	Verifier       middleware.TokenVerifier
	AuthMiddleware *middleware.AuthMiddleware

	// Services
	Users *services.UserService
}

// NewDependencies creates and wires up all application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
		Users:  services.NewUserService(),
	}

	deps.initAuth(cfg)

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// NewDependenciesWithVerifier wires the application around a caller-supplied verifier
func NewDependenciesWithVerifier(cfg *config.Config, verifier middleware.TokenVerifier, logger *zap.Logger) *Dependencies {
	return &Dependencies{
		Config:         cfg,
		Logger:         logger,
		Verifier:       verifier,
		AuthMiddleware: middleware.NewAuthMiddleware(verifier, logger),
		Users:          services.NewUserService(),
	}
}

func (d *Dependencies) initAuth(cfg *config.Config) {
	if !cfg.Supabase.IsConfigured() {
		d.Logger.Warn("supabase not configured, protected routes will reject all tokens")
		d.Verifier = &rejectAllVerifier{}
		d.AuthMiddleware = middleware.NewAuthMiddleware(d.Verifier, d.Logger)
		return
	}

	client := supabase.NewClient(supabase.Config{
		URL:         cfg.Supabase.URL,
		APIKey:      cfg.Supabase.ServiceRoleKey,
		HTTPTimeout: cfg.Supabase.HTTPTimeout,
	})
	precheck := supabase.NewJWTPrecheck(cfg.Supabase.JWTSecret)
	d.Verifier = supabase.NewVerifier(client, precheck)
	d.AuthMiddleware = middleware.NewAuthMiddleware(d.Verifier, d.Logger)

	d.Logger.Info("supabase token verifier initialized",
		zap.String("supabase_url", cfg.Supabase.URL),
		zap.Bool("jwt_precheck", precheck != nil))
}

// rejectAllVerifier rejects all tokens (used when Supabase is not configured)
type rejectAllVerifier struct{}

func (*rejectAllVerifier) VerifyToken(context.Context, string) (*models.Identity, error) {
	return nil, services.NewUnauthorizedError(services.ReasonProviderUnavailable, "authentication not configured", nil)
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	if d.Logger != nil {
		d.Logger.Info("shutting down dependencies")
		_ = d.Logger.Sync()
	}
	return nil
}
