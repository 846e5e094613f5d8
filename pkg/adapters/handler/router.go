package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/wadjakorntonsri/linkfolio/pkg/config"
	"github.com/wadjakorntonsri/linkfolio/pkg/ports"
)

// Services bundles everything the router dispatches to
type Services struct {
	Profiles   ports.ProfileService
	Onboarding ports.OnboardingService
	Checker    ports.UsernameChecker
	Engagement ports.EngagementService
	Avatars    AvatarSource
	// Metrics is mounted at /metrics when set
	Metrics http.Handler
}

// NewRouter creates and configures the main application router
func NewRouter(cfg *config.Config, svc Services, logger *zap.Logger) http.Handler {
	// Initialize Handlers
	oh := NewOnboardingHandler(svc.Onboarding, svc.Checker, logger)
	ph := NewPublicHandler(svc.Profiles, svc.Engagement, svc.Avatars, cfg, logger)
	authHandler := NewAuthHandler(cfg, svc.Profiles, logger)

	// Initialize Middleware
	mw := NewMiddleware(cfg, logger)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "ok"})
	})
	if svc.Metrics != nil {
		mux.Handle("GET /metrics", svc.Metrics)
	}

	mux.HandleFunc("GET /auth/google/login", authHandler.Login)
	mux.HandleFunc("GET /auth/google/callback", authHandler.Callback)
	mux.HandleFunc("GET /auth/logout", authHandler.Logout)

	// Public pages. A signed-in viewer is still identified so their own views are not counted.
	mux.Handle("GET /u/{username}", mw.OptionalAuth(http.HandlerFunc(ph.Profile)))
	mux.Handle("GET /u/{username}/avatar", http.HandlerFunc(ph.Avatar))
	mux.Handle("GET /u/{username}/links/{id}", mw.OptionalAuth(http.HandlerFunc(ph.LinkRedirect)))
	mux.Handle("GET /u/{username}/posts/{id}", mw.OptionalAuth(http.HandlerFunc(ph.Post)))

	// Protected Routes
	protectedMux := http.NewServeMux()
	protectedMux.HandleFunc("GET /api/v1/onboarding", oh.Show)
	protectedMux.HandleFunc("PATCH /api/v1/onboarding", oh.Update)
	protectedMux.HandleFunc("POST /api/v1/onboarding/finalize", oh.Finalize)
	protectedMux.HandleFunc("GET /api/v1/onboarding/check_username", oh.CheckUsername)

	mux.Handle("/api/v1/", mw.AuthMiddleware(protectedMux))

	return mw.RequestLogger(mux)
}
