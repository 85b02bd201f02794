package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/bookquest/bookquest-api/internal/core/domain"
	"github.com/bookquest/bookquest-api/internal/core/ports"
)

const (
	passwordCost      = 10
	minPasswordLength = 6
	// bcrypt ignores input past 72 bytes; longer passwords are refused.
	maxPasswordLength = 72
)

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// equalizeTiming spends one bcrypt comparison so unknown emails cost the same
// as wrong passwords.
func equalizeTiming(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("bookquest-timing-pad"), passwordCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}

// AuthService implements registration, login and session management.
type AuthService struct {
	repo   ports.UserRepository
	tokens *TokenService
	log    zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, tokens *TokenService, log zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, tokens: tokens, log: log}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	role := strings.ToLower(strings.TrimSpace(in.Role))
	if role == domain.RoleAdmin {
		return nil, domain.ErrForbiddenRole
	}
	if role == "" {
		role = domain.RoleReader
	}
	if !domain.IsSelfServiceRole(role) {
		return nil, domain.Validation("role must be one of: reader, vendor")
	}

	name := strings.TrimSpace(in.Name)
	email := domain.NormalizeEmail(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return nil, domain.Validation("name, email and password are required")
	}
	if len(in.Password) < minPasswordLength {
		return nil, domain.Validation("password must be at least 6 characters")
	}
	if len(in.Password) > maxPasswordLength {
		return nil, domain.Validation("password must be at most 72 bytes")
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrDuplicateEmail
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), passwordCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", created.ID).Str("role", created.Role).Msg("user registered")
	return created, nil
}

// Login returns a signed token and the user. Unknown email and wrong password
// both fail with domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			equalizeTiming(password)
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", nil, err
	}

	s.log.Debug().Str("user_id", user.ID).Msg("user logged in")
	return token, user, nil
}

func (s *AuthService) Profile(ctx context.Context, id domain.Identity) (*domain.User, error) {
	return s.repo.FindByID(ctx, id.UserID)
}

// Logout revokes token so later requests carrying it are rejected.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.tokens.Revoke(ctx, token)
}
