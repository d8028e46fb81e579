package app

import (
	"context"
	"errors"

	"github.com/GitAbdalla/booking-system/internal/auth"
	"github.com/GitAbdalla/booking-system/internal/clock"
	"github.com/GitAbdalla/booking-system/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// startingCredits is granted to every new account.
const startingCredits = 10

type AuthService struct {
	repo   UserRepository
	tokens *auth.TokenIssuer
	clock  clock.Clock
}

func NewAuthService(repo UserRepository, tokens *auth.TokenIssuer, clk clock.Clock) *AuthService {
	return &AuthService{
		repo:   repo,
		tokens: tokens,
		clock:  clk,
	}
}

type AuthResult struct {
	AccessToken string
	User        domain.User
}

func (s *AuthService) Register(ctx context.Context, email, password string) (AuthResult, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResult{}, err
	}

	user := domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Credits:      startingCredits,
		Role:         domain.RoleUser,
		CreatedAt:    s.clock.Now(),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return AuthResult{}, err
	}

	token, err := s.tokens.Sign(user, s.clock.Now())
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{AccessToken: token, User: user}, nil
}

// Login deliberately reports the same error for unknown email and wrong
// password.
func (s *AuthService) Login(ctx context.Context, email, password string) (AuthResult, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return AuthResult{}, domain.ErrInvalidCredentials
		}
		return AuthResult{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return AuthResult{}, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Sign(user, s.clock.Now())
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{AccessToken: token, User: user}, nil
}
