package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/hastakala/hastakala-api/internal/core/domain"
	"github.com/hastakala/hastakala-api/internal/core/ports"
	"github.com/hastakala/hastakala-api/internal/infrastructure/db/memory"
)

func newAuth(t *testing.T) (*AuthService, *TokenIssuer, *memory.UserRepository) {
	t.Helper()
	users := memory.NewUserRepository()
	tokens := NewTokenIssuer("secret", time.Hour, memory.NewRevocationList(), testLog)
	return NewAuthService(users, tokens, testLog), tokens, users
}

func TestAuthService_Register_Success(t *testing.T) {
	svc, _, _ := newAuth(t)

	user, err := svc.Register(context.Background(), ports.RegisterInput{
		Name: "Asha", Email: " Asha@Example.com ", Password: "pass123", Role: "artist",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.ID == "" {
		t.Fatalf("expected id to be assigned")
	}
	if user.Email != "asha@example.com" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}
	if user.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if user.Role != domain.RoleArtist {
		t.Fatalf("unexpected role: %s", user.Role)
	}
}

func TestAuthService_Register_DefaultsToNormalUser(t *testing.T) {
	svc, _, _ := newAuth(t)

	user, err := svc.Register(context.Background(), ports.RegisterInput{Name: "b", Email: "b@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.Role != domain.RoleNormalUser {
		t.Fatalf("expected normal_user, got %s", user.Role)
	}
}

func TestAuthService_Register_Rejections(t *testing.T) {
	svc, _, users := newAuth(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, ports.RegisterInput{Name: "a", Email: "a@example.com", Password: "pw"}); err != nil {
		t.Fatalf("seed register: %v", err)
	}

	cases := []struct {
		name string
		in   ports.RegisterInput
		want error
	}{
		{"missing password", ports.RegisterInput{Name: "x", Email: "x@example.com"}, domain.ErrValidation},
		{"missing name", ports.RegisterInput{Email: "x@example.com", Password: "pw"}, domain.ErrValidation},
		{"unknown role", ports.RegisterInput{Name: "x", Email: "x@example.com", Password: "pw", Role: "curator"}, domain.ErrValidation},
		{"admin self-registration", ports.RegisterInput{Name: "x", Email: "x@example.com", Password: "pw", Role: "admin"}, domain.ErrValidation},
		{"duplicate email", ports.RegisterInput{Name: "x", Email: "A@example.com", Password: "pw"}, domain.ErrEmailTaken},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Register(ctx, tc.in); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if n := countUsers(t, users); n != 1 {
				t.Fatalf("expected 1 stored user after rejection, got %d", n)
			}
		})
	}
}

// staleLookup hides existing users from FindByEmail, as when two
// registrations for one email race past the lookup.
type staleLookup struct {
	*memory.UserRepository
}

func (staleLookup) FindByEmail(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func TestAuthService_Register_UniqueIndexRejectsDuplicate(t *testing.T) {
	users := memory.NewUserRepository()
	tokens := NewTokenIssuer("secret", time.Hour, nil, testLog)
	svc := NewAuthService(staleLookup{users}, tokens, testLog)
	ctx := context.Background()

	if _, err := svc.Register(ctx, ports.RegisterInput{Name: "a", Email: "a@example.com", Password: "pw"}); err != nil {
		t.Fatalf("seed register: %v", err)
	}
	_, err := svc.Register(ctx, ports.RegisterInput{Name: "b", Email: "A@example.com", Password: "pw"})
	if !errors.Is(err, domain.ErrEmailTaken) || domain.KindOf(err) != domain.KindConflict {
		t.Fatalf("expected email conflict, got %v", err)
	}
	if n := countUsers(t, users); n != 1 {
		t.Fatalf("expected 1 stored user, got %d", n)
	}
}

func countUsers(t *testing.T, users *memory.UserRepository) int {
	t.Helper()
	ids, err := users.ListIDs(context.Background(), "")
	if err != nil {
		t.Fatalf("ListIDs: %v", err)
	}
	return len(ids)
}

func TestAuthService_Login(t *testing.T) {
	svc, tokens, _ := newAuth(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, ports.RegisterInput{Name: "a", Email: "a@example.com", Password: "pw", Role: "artist"})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	token, user, err := svc.Login(ctx, "A@example.com", "pw")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if user.ID != registered.ID {
		t.Fatalf("expected user %s, got %s", registered.ID, user.ID)
	}

	who, err := tokens.Verify(ctx, token)
	if err != nil {
		t.Fatalf("issued token did not verify: %v", err)
	}
	if who.SubjectID != registered.ID || who.Role != domain.RoleArtist {
		t.Fatalf("unexpected identity: %+v", who)
	}
}

func TestAuthService_Login_FailuresAreIndistinguishable(t *testing.T) {
	svc, _, _ := newAuth(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, ports.RegisterInput{Name: "a", Email: "a@example.com", Password: "pw"}); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	_, _, wrongPassword := svc.Login(ctx, "a@example.com", "nope")
	_, _, unknownEmail := svc.Login(ctx, "ghost@example.com", "pw")

	if !errors.Is(wrongPassword, domain.ErrInvalidCredentials) || !errors.Is(unknownEmail, domain.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v and %v", wrongPassword, unknownEmail)
	}
	if wrongPassword.Error() != unknownEmail.Error() {
		t.Fatalf("failure messages differ: %q vs %q", wrongPassword, unknownEmail)
	}
}

func TestAuthService_LogoutRevokesToken(t *testing.T) {
	svc, tokens, _ := newAuth(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, ports.RegisterInput{Name: "a", Email: "a@example.com", Password: "pw"}); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	token, _, err := svc.Login(ctx, "a@example.com", "pw")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	who, err := tokens.Verify(ctx, token)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}

	if err := svc.Logout(ctx, who); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}
	if _, err := tokens.Verify(ctx, token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected revoked token to be rejected, got %v", err)
	}
}
