// Package httpapi exposes the identity operations over HTTP. Handlers only
// decode, validate, and map errors to status codes; business rules live in
// the services package.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mlukyanov/userd/internal/logging"
	"github.com/mlukyanov/userd/internal/server/auth"
	"github.com/mlukyanov/userd/internal/server/models"
	"github.com/mlukyanov/userd/internal/server/services"
)

// UserOperations is the slice of UserService the handlers need.
type UserOperations interface {
	Register(ctx context.Context, req *services.RegisterRequest) (*models.Profile, error)
	Login(ctx context.Context, email, password, existingToken string) (*models.Profile, error)
	UpdateSelf(ctx context.Context, accountID string, req *services.UpdateRequest) (*models.Profile, error)
	GetProfile(ctx context.Context, accountID string) (*models.Profile, error)
	FindByGitID(ctx context.Context, gitID string) (*models.Profile, error)
}

// Onboarder is the third-party signup seam.
type Onboarder interface {
	RegisterWithToken(ctx context.Context, req *services.OnboardingRequest) (*models.Profile, error)
}

// WalletAdjuster is the cross-service balance-adjustment seam.
type WalletAdjuster interface {
	AdjustWallet(ctx context.Context, accountID string, delta int64) error
}

type Server struct {
	address  string
	logger   logging.Logger
	users    UserOperations
	onboard  Onboarder
	wallet   WalletAdjuster
	resolver auth.Resolver
}

func NewServer(address string, l logging.Logger, users UserOperations, onboard Onboarder, wallet WalletAdjuster, resolver auth.Resolver) *Server {
	return &Server{
		address:  address,
		logger:   l.With("module", "http_server"),
		users:    users,
		onboard:  onboard,
		wallet:   wallet,
		resolver: resolver,
	}
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestID, s.logRequests)

	r.Post("/api/users", s.handleRegister)
	r.Post("/api/auth/login", s.handleLogin)
	r.Post("/api/auth/github", s.handleOnboard)
	r.Get("/api/users/git/{gitID}", s.handleFindByGitID)
	r.Post("/api/users/{id}/wallet", s.handleAdjustWallet)

	r.Group(func(r chi.Router) {
		r.Use(s.authenticate)
		r.Get("/api/users/me", s.handleGetSelf)
		r.Patch("/api/users/me", s.handleUpdateSelf)
	})

	return r
}

func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.address, Handler: s.routes()}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
