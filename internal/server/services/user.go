// Package services contains server-side business logic. This file implements
// UserService, which handles registration, login, self-update, and profile
// lookups, and enforces the username/email uniqueness invariants.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/mlukyanov/userd/internal/common"
	"github.com/mlukyanov/userd/internal/server/auth"
	"github.com/mlukyanov/userd/internal/server/config"
	"github.com/mlukyanov/userd/internal/server/models"
	"github.com/mlukyanov/userd/internal/server/repositories/users"
)

// RegisterRequest is a registration candidate. Structural validation happens
// at the boundary before it reaches the service.
type RegisterRequest struct {
	Username string
	Email    string
	Password string
	GitID    string
	Avatar   string
	Twitter  string
}

// UpdateRequest carries the optional fields of a self-update. Nil means
// "leave unchanged".
type UpdateRequest struct {
	Username *string
	Email    *string
	Password *string
	Avatar   *string
	Twitter  *string
}

// Notifier receives the "account created" event emitted on successful
// registration.
type Notifier interface {
	AccountCreated(ctx context.Context, user *models.User)
}

// UserService provides identity-related operations:
// - Register: create accounts, enforcing uniqueness
// - Login: verify credentials and return a profile with a token
// - UpdateSelf: partial account update with uniqueness re-checks
// - GetProfile / FindByGitID: profile lookups
type UserService struct {
	repo          users.Repository
	notifier      Notifier
	jwtSecret     []byte
	tokenValidity time.Duration
}

// NewUserService constructs a UserService using the user repository and
// server config.
func NewUserService(repo users.Repository, notifier Notifier, cfg *config.Config) *UserService {
	return &UserService{
		repo:          repo,
		notifier:      notifier,
		jwtSecret:     []byte(cfg.SecretKey),
		tokenValidity: cfg.TokenValidityDuration,
	}
}

// Register creates a new account. Username and email are checked for
// uniqueness immediately before the insert; the store's unique indexes are
// the backstop for the window between check and write, and a late violation
// surfaces as the same ConflictError.
func (s *UserService) Register(ctx context.Context, req *RegisterRequest) (*models.Profile, error) {
	if req.Username != "" {
		if err := s.checkAvailable(ctx, "username", req.Username, ""); err != nil {
			return nil, err
		}
	}
	if req.Email != "" {
		if err := s.checkAvailable(ctx, "email", req.Email, ""); err != nil {
			return nil, err
		}
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, common.ErrInternal
	}

	now := time.Now().UTC()
	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		GitID:        req.GitID,
		PasswordHash: hash,
		Avatar:       req.Avatar,
		Twitter:      req.Twitter,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		var conflict *common.ConflictError
		if errors.As(err, &conflict) {
			return nil, conflict
		}
		return nil, common.ErrInternal
	}

	if s.notifier != nil {
		s.notifier.AccountCreated(ctx, created)
	}

	return s.toProfile(created, true, "")
}

// Login verifies the email/password pair. Unknown email and wrong password
// both return ErrInvalidCredentials so callers cannot tell which factor
// failed. If the caller already holds a session token it is reused in the
// returned profile; otherwise a fresh one is minted.
func (s *UserService) Login(ctx context.Context, email, password, existingToken string) (*models.Profile, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, common.ErrInternal
	}

	if !auth.VerifyPassword(password, user.PasswordHash) {
		return nil, common.ErrInvalidCredentials
	}

	return s.toProfile(user, true, existingToken)
}

// UpdateSelf applies a partial update to the caller's own account,
// re-checking username/email uniqueness against other accounts.
func (s *UserService) UpdateSelf(ctx context.Context, accountID string, req *UpdateRequest) (*models.Profile, error) {
	if req.Username != nil {
		if err := s.checkAvailable(ctx, "username", *req.Username, accountID); err != nil {
			return nil, err
		}
	}
	if req.Email != nil {
		if err := s.checkAvailable(ctx, "email", *req.Email, accountID); err != nil {
			return nil, err
		}
	}

	patch := &users.Patch{
		Username:  req.Username,
		Email:     req.Email,
		Avatar:    req.Avatar,
		Twitter:   req.Twitter,
		UpdatedAt: time.Now().UTC(),
	}

	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			return nil, common.ErrInternal
		}
		patch.PasswordHash = &hash
	}

	updated, err := s.repo.Update(ctx, accountID, patch)
	if err != nil {
		var conflict *common.ConflictError
		if errors.As(err, &conflict) {
			return nil, conflict
		}
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, common.ErrInternal
	}

	return s.toProfile(updated, true, "")
}

// GetProfile returns the public profile (with a token) for the given account.
func (s *UserService) GetProfile(ctx context.Context, accountID string) (*models.Profile, error) {
	user, err := s.repo.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, common.ErrInternal
	}
	return s.toProfile(user, true, "")
}

// FindByGitID returns the public profile linked to the given third-party
// account id. No token is attached.
func (s *UserService) FindByGitID(ctx context.Context, gitID string) (*models.Profile, error) {
	user, err := s.repo.GetByGitID(ctx, gitID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, common.ErrInternal
	}
	return s.toProfile(user, false, "")
}

// checkAvailable fails with a ConflictError when the field value already
// belongs to an account other than excludeID.
func (s *UserService) checkAvailable(ctx context.Context, field, value, excludeID string) error {
	var (
		existing *models.User
		err      error
	)
	switch field {
	case "username":
		existing, err = s.repo.GetByUsername(ctx, value)
	case "email":
		existing, err = s.repo.GetByEmail(ctx, value)
	}

	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil
		}
		return common.ErrInternal
	}
	if existing.ID == excludeID {
		return nil
	}
	return &common.ConflictError{Field: field}
}
