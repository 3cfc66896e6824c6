package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/sweetshop/sweetshop-api/internal/api/metrics"
	"github.com/sweetshop/sweetshop-api/internal/auth"
	"github.com/sweetshop/sweetshop-api/internal/core/domain"
	"github.com/sweetshop/sweetshop-api/internal/core/ports"
)

// AuthService implements registration and login for admins and users. The
// two principal classes share one algorithm; only the backing store and the
// role claim differ, so each public method delegates to a role-parameterized
// implementation.
type AuthService struct {
	admins ports.PrincipalRepository
	users  ports.PrincipalRepository
	codec  *auth.Codec
	logger zerolog.Logger
}

func NewAuthService(admins, users ports.PrincipalRepository, codec *auth.Codec, logger zerolog.Logger) *AuthService {
	return &AuthService{admins: admins, users: users, codec: codec, logger: logger}
}

func (s *AuthService) RegisterAdmin(ctx context.Context, in ports.RegisterInput) (string, error) {
	return s.register(ctx, s.admins, domain.RoleAdmin, in, "Admin registered successfully!")
}

func (s *AuthService) RegisterUser(ctx context.Context, in ports.RegisterInput) (string, error) {
	return s.register(ctx, s.users, domain.RoleUser, in, "User registered successfully!")
}

func (s *AuthService) LoginAdmin(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
	return s.login(ctx, s.admins, domain.RoleAdmin, in)
}

func (s *AuthService) LoginUser(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
	return s.login(ctx, s.users, domain.RoleUser, in)
}

func (s *AuthService) register(ctx context.Context, repo ports.PrincipalRepository, role string, in ports.RegisterInput, message string) (string, error) {
	// Fast path only. The store's unique email index is the arbiter under
	// concurrent registration; a lost race surfaces as ErrEmailTaken from
	// Create below.
	exists, err := repo.ExistsByEmail(ctx, in.Email)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues(role, "error").Inc()
		return "", err
	}
	if exists {
		metrics.RegistrationsTotal.WithLabelValues(role, "duplicate").Inc()
		return "", domain.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues(role, "error").Inc()
		return "", err
	}

	principal := &domain.Principal{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}

	created, err := repo.Create(ctx, principal)
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			metrics.RegistrationsTotal.WithLabelValues(role, "duplicate").Inc()
		} else {
			metrics.RegistrationsTotal.WithLabelValues(role, "error").Inc()
		}
		return "", err
	}

	metrics.RegistrationsTotal.WithLabelValues(role, "ok").Inc()
	s.logger.Info().Str("email", created.Email).Str("role", role).Int("id", created.ID).Msg("principal registered")
	return message, nil
}

func (s *AuthService) login(ctx context.Context, repo ports.PrincipalRepository, role string, in ports.LoginInput) (*ports.LoginResult, error) {
	principal, err := repo.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, domain.ErrPrincipalNotFound) {
			// Same error as a wrong password: an unknown email must not be
			// distinguishable by the caller.
			metrics.LoginsTotal.WithLabelValues(role, "rejected").Inc()
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(principal.PasswordHash), []byte(in.Password)) != nil {
		metrics.LoginsTotal.WithLabelValues(role, "rejected").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.codec.Issue(principal.ID, principal.Email, role)
	if err != nil {
		return nil, err
	}

	metrics.LoginsTotal.WithLabelValues(role, "ok").Inc()
	s.logger.Info().Str("email", principal.Email).Str("role", role).Msg("login succeeded")

	return &ports.LoginResult{
		Token: token,
		Role:  role,
		Email: principal.Email,
		Name:  principal.Name,
		ID:    principal.ID,
	}, nil
}
