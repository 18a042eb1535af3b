package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	domainErrors "github.com/polkiloo/craftmarket/internal/domain/errors"
	"github.com/polkiloo/craftmarket/internal/domain/model"
	"github.com/polkiloo/craftmarket/internal/domain/repository"
	pkgAuth "github.com/polkiloo/craftmarket/internal/pkg/auth"
)

// RegistrationPolicy holds defaults applied to newly registered accounts.
type RegistrationPolicy struct {
	DefaultArtistStatus model.ArtistStatus
}

// DefaultRegistrationPolicy starts every artist at the beginning of onboarding.
func DefaultRegistrationPolicy() RegistrationPolicy {
	return RegistrationPolicy{DefaultArtistStatus: model.ArtistStatusRequestReceived}
}

// AuthUseCase handles user lifecycle and token management.
type AuthUseCase struct {
	users   repository.UserRepository
	hasher  pkgAuth.PasswordHasher
	tokens  pkgAuth.Strategy
	policy  RegistrationPolicy
	timeout StoreTimeout
	logger  *slog.Logger
}

// NewAuthUseCase constructs AuthUseCase.
func NewAuthUseCase(
	users repository.UserRepository,
	hasher pkgAuth.PasswordHasher,
	strategy pkgAuth.Strategy,
	policy RegistrationPolicy,
	timeout StoreTimeout,
	logger *slog.Logger,
) *AuthUseCase {
	if !policy.DefaultArtistStatus.Valid() {
		policy = DefaultRegistrationPolicy()
	}
	return &AuthUseCase{users: users, hasher: hasher, tokens: strategy, policy: policy, timeout: timeout, logger: logger}
}

// Register creates a new customer or artist account. The token is empty when
// the account may not log in yet, e.g. an artist awaiting approval.
func (u *AuthUseCase) Register(ctx context.Context, login, password string, role model.Role) (*model.User, string, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, "", domainErrors.ErrInvalidCredentials
	}
	if role == "" {
		role = model.RoleCustomer
	}
	if role != model.RoleCustomer && role != model.RoleArtist {
		return nil, "", domainErrors.ErrInvalidRole
	}

	hash, err := u.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, pkgAuth.ErrPasswordTooLong) {
			return nil, "", fmt.Errorf("%w: %w", domainErrors.ErrValidation, err)
		}
		return nil, "", err
	}

	candidate := model.User{Login: login, PasswordHash: hash, Role: role}
	if role == model.RoleArtist {
		candidate.ArtistStatus = u.policy.DefaultArtistStatus
	}

	usr, err := withStore(ctx, u.timeout, func(ctx context.Context) (*model.User, error) {
		return u.users.Create(ctx, candidate)
	})
	if err != nil {
		if errors.Is(err, domainErrors.ErrAlreadyExists) {
			return nil, "", domainErrors.ErrAlreadyExists
		}
		return nil, "", err
	}

	if !usr.CanLogIn() {
		u.logger.Info("artist registered, awaiting approval",
			slog.Int64("user_id", usr.ID),
			slog.String("status", string(usr.ArtistStatus)),
		)
		return usr, "", nil
	}

	token, err := u.tokens.IssueToken(usr.ID)
	if err != nil {
		return nil, "", err
	}

	return usr, token, nil
}

// Authenticate validates credentials and returns auth token.
// Artists outside the approved state receive AccountNotApprovedError.
func (u *AuthUseCase) Authenticate(ctx context.Context, login, password string) (*model.User, string, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	usr, err := withStore(ctx, u.timeout, func(ctx context.Context) (*model.User, error) {
		return u.users.GetByLogin(ctx, login)
	})
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, "", domainErrors.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := u.hasher.Compare(usr.PasswordHash, password); err != nil {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	if !usr.CanLogIn() {
		return nil, "", &domainErrors.AccountNotApprovedError{Status: string(usr.ArtistStatus)}
	}

	token, err := u.tokens.IssueToken(usr.ID)
	if err != nil {
		return nil, "", err
	}

	return usr, token, nil
}

// UpdateProfile replaces shipping address and mobile of the user.
func (u *AuthUseCase) UpdateProfile(ctx context.Context, userID int64, profile model.Profile) (*model.User, error) {
	profile = profile.Normalize()
	if profile.Mobile != "" && !model.ValidMobile(profile.Mobile) {
		return nil, domainErrors.ErrInvalidMobile
	}

	if err := execStore(ctx, u.timeout, func(ctx context.Context) error {
		return u.users.UpdateProfile(ctx, userID, profile)
	}); err != nil {
		return nil, err
	}
	return u.GetByID(ctx, userID)
}

// ParseToken extracts user ID from provided token.
func (u *AuthUseCase) ParseToken(token string) (int64, error) {
	if token == "" {
		return 0, pkgAuth.ErrInvalidToken
	}
	return u.tokens.ParseToken(token)
}

// GetByID fetches user by identifier.
func (u *AuthUseCase) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return withStore(ctx, u.timeout, func(ctx context.Context) (*model.User, error) {
		return u.users.GetByID(ctx, id)
	})
}
