package services

import (
	"context"
	"strconv"

	"github.com/mlukyanov/userd/internal/common"
	"github.com/mlukyanov/userd/internal/logging"
	"github.com/mlukyanov/userd/internal/server/github"
	"github.com/mlukyanov/userd/internal/server/models"
)

// ProviderClient is the outbound seam to the third-party identity provider.
type ProviderClient interface {
	FetchProfile(ctx context.Context, accessToken, tokenType string) (*github.Profile, error)
}

// OnboardingRequest is the third-party signup payload: the provider access
// credentials plus the locally chosen email and password.
type OnboardingRequest struct {
	AccessToken string
	TokenType   string
	Scope       string
	Email       string
	Password    string
}

// OnboardingService exchanges a third-party access token for a local
// account by mapping the provider profile into a registration candidate and
// delegating to UserService.Register.
type OnboardingService struct {
	provider ProviderClient
	users    *UserService
	logger   logging.Logger
}

func NewOnboardingService(provider ProviderClient, users *UserService, l logging.Logger) *OnboardingService {
	return &OnboardingService{
		provider: provider,
		users:    users,
		logger:   l.With("module", "onboarding"),
	}
}

// RegisterWithToken fetches the provider profile and registers a local
// account from it. Every provider failure (transport, timeout, non-2xx)
// collapses to ErrOnboarding; the detail is logged server-side and never
// surfaced to the caller. Uniqueness conflicts from the registration path
// propagate unchanged, and no account exists if the provider call failed.
func (s *OnboardingService) RegisterWithToken(ctx context.Context, req *OnboardingRequest) (*models.Profile, error) {
	profile, err := s.provider.FetchProfile(ctx, req.AccessToken, req.TokenType)
	if err != nil {
		s.logger.Warn(ctx, "provider profile fetch failed", "error", err.Error())
		return nil, common.ErrOnboarding
	}

	username := profile.Name
	if username == "" {
		username = profile.Login
	}

	return s.users.Register(ctx, &RegisterRequest{
		Username: username,
		Email:    req.Email,
		Password: req.Password,
		GitID:    strconv.FormatInt(profile.ID, 10),
		Avatar:   profile.AvatarURL,
		Twitter:  profile.TwitterUsername,
	})
}
