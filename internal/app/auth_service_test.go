package app

import (
	"context"
	"testing"
	"time"

	"github.com/GitAbdalla/booking-system/internal/auth"
	"github.com/GitAbdalla/booking-system/internal/clock"
	"github.com/GitAbdalla/booking-system/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

func TestAuthService_Register(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	tokens := auth.NewTokenIssuer("test-secret", time.Hour)

	t.Run("creates a user with starting credits", func(t *testing.T) {
		repo := newFakeUserRepo()
		svc := NewAuthService(repo, tokens, clock.NewFixed(now))

		result, err := svc.Register(context.Background(), "a@b.c", "hunter22")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.AccessToken == "" {
			t.Fatalf("expected an access token")
		}
		if result.User.Credits != 10 {
			t.Fatalf("expected 10 starting credits, got %d", result.User.Credits)
		}
		if result.User.Role != domain.RoleUser {
			t.Fatalf("expected role user, got %s", result.User.Role)
		}
		if result.User.PasswordHash == "hunter22" {
			t.Fatalf("expected password to be hashed")
		}
		if bcrypt.CompareHashAndPassword([]byte(result.User.PasswordHash), []byte("hunter22")) != nil {
			t.Fatalf("expected hash to verify against the password")
		}

		claims, err := tokens.Parse(result.AccessToken)
		if err != nil {
			t.Fatalf("expected token to parse, got %v", err)
		}
		if claims.Sub != result.User.ID {
			t.Fatalf("expected token subject %s, got %s", result.User.ID, claims.Sub)
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo := newFakeUserRepo()
		svc := NewAuthService(repo, tokens, clock.NewFixed(now))

		if _, err := svc.Register(context.Background(), "a@b.c", "hunter22"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if _, err := svc.Register(context.Background(), "a@b.c", "other"); err != domain.ErrEmailTaken {
			t.Fatalf("expected ErrEmailTaken, got %v", err)
		}
	})
}

func TestAuthService_Login(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	tokens := auth.NewTokenIssuer("test-secret", time.Hour)
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, tokens, clock.NewFixed(now))

	if _, err := svc.Register(context.Background(), "a@b.c", "hunter22"); err != nil {
		t.Fatalf("register: %v", err)
	}

	t.Run("valid credentials", func(t *testing.T) {
		result, err := svc.Login(context.Background(), "a@b.c", "hunter22")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.AccessToken == "" {
			t.Fatalf("expected an access token")
		}
	})

	t.Run("wrong password and unknown email report the same error", func(t *testing.T) {
		if _, err := svc.Login(context.Background(), "a@b.c", "wrong"); err != domain.ErrInvalidCredentials {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
		if _, err := svc.Login(context.Background(), "nobody@b.c", "hunter22"); err != domain.ErrInvalidCredentials {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})
}

type fakeUserRepo struct {
	users map[string]domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]domain.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, user domain.User) error {
	for id := range f.users {
		if f.users[id].Email == user.Email {
			return domain.ErrEmailTaken
		}
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, userID string) (domain.User, error) {
	u, ok := f.users[userID]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (domain.User, error) {
	for id := range f.users {
		if f.users[id].Email == email {
			return f.users[id], nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound
}

func (f *fakeUserRepo) List(_ context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(f.users))
	for id := range f.users {
		out = append(out, f.users[id])
	}
	return out, nil
}

func (f *fakeUserRepo) SetCredits(_ context.Context, userID string, credits int) error {
	u, ok := f.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Credits = credits
	f.users[userID] = u
	return nil
}

func (f *fakeUserRepo) AddCredits(_ context.Context, userID string, amount int) error {
	u, ok := f.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Credits += amount
	f.users[userID] = u
	return nil
}
