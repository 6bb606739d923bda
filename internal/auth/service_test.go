package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/inucxhu/soporte360/internal/domain"
	"github.com/inucxhu/soporte360/pkg/apperrors"
)

type memUserRepo struct {
	byID       map[string]domain.User
	byUsername map[string]string
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byID: make(map[string]domain.User), byUsername: make(map[string]string)}
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) error {
	if _, exists := r.byUsername[user.Username]; exists {
		return errors.New("duplicate username")
	}
	user.ID = uuid.NewString()
	r.byID[user.ID] = *user
	r.byUsername[user.Username] = user.ID
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &u, nil
}

func (r *memUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	id, ok := r.byUsername[username]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return r.GetByID(context.Background(), id)
}

func newTestIdentity() *IdentityService {
	tokens := NewTokenManager("test-secret", 60)
	return NewIdentityService(newMemUserRepo(), tokens, NewMemoryRevocationStore(), 4, zap.NewNop())
}

func TestRegisterScopeValidation(t *testing.T) {
	tests := []struct {
		name  string
		input RegisterInput
		ok    bool
	}{
		{
			name:  "end user with campaign",
			input: RegisterInput{Username: "u1", Email: "u1@x.com", Password: "pw", Role: domain.RoleEndUser, Campaign: "acme"},
			ok:    true,
		},
		{
			name:  "end user without campaign",
			input: RegisterInput{Username: "u2", Email: "u2@x.com", Password: "pw", Role: domain.RoleEndUser},
		},
		{
			name:  "support with group",
			input: RegisterInput{Username: "s1", Email: "s1@x.com", Password: "pw", Role: domain.RoleSupport, SupportGroup: "it"},
			ok:    true,
		},
		{
			name:  "support with campaign",
			input: RegisterInput{Username: "s2", Email: "s2@x.com", Password: "pw", Role: domain.RoleSupport, SupportGroup: "it", Campaign: "acme"},
		},
		{
			name:  "admin with no scope",
			input: RegisterInput{Username: "a1", Email: "a1@x.com", Password: "pw", Role: domain.RoleAdmin},
			ok:    true,
		},
		{
			name:  "master admin with group",
			input: RegisterInput{Username: "m1", Email: "m1@x.com", Password: "pw", Role: domain.RoleMasterAdmin, SupportGroup: "it"},
		},
	}

	svc := newTestIdentity()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, _, err := svc.Register(context.Background(), tc.input)
			if tc.ok && err != nil {
				t.Fatalf("register: %v", err)
			}
			if !tc.ok && !apperrors.IsCode(err, apperrors.CodeValidationFailed) {
				t.Fatalf("expected validation failure, got %v", err)
			}
		})
	}
}

func TestLoginAndResolvePrincipal(t *testing.T) {
	svc := newTestIdentity()
	ctx := context.Background()

	_, _, _, err := svc.Register(ctx, RegisterInput{
		Username: "agent", Email: "agent@x.com", Password: "hunter2",
		Role: domain.RoleSupport, SupportGroup: "infrastructure",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	_, token, claims, err := svc.Login(ctx, "agent", "hunter2")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	parsed, err := svc.TokenManager().ParseToken(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if parsed.Subject != claims.Subject || parsed.SupportGroup != "infrastructure" {
		t.Fatalf("claims round trip lost attributes: %+v", parsed)
	}

	p, err := svc.ResolvePrincipal(ctx, parsed)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if p.Role != domain.RoleSupport || p.SupportGroup != "infrastructure" {
		t.Fatalf("principal = %+v", p)
	}

	if _, _, _, err := svc.Login(ctx, "agent", "wrong"); !apperrors.IsCode(err, apperrors.CodeAuthenticationRequired) {
		t.Fatalf("bad password must be authentication required, got %v", err)
	}
	if _, _, _, err := svc.Login(ctx, "nobody", "pw"); !apperrors.IsCode(err, apperrors.CodeAuthenticationRequired) {
		t.Fatalf("unknown user must be authentication required, got %v", err)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	svc := newTestIdentity()
	ctx := context.Background()

	_, _, claims, err := svc.Register(ctx, RegisterInput{
		Username: "user", Email: "user@x.com", Password: "pw",
		Role: domain.RoleEndUser, Campaign: "acme",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.ResolvePrincipal(ctx, claims); err != nil {
		t.Fatalf("resolve before logout: %v", err)
	}
	if err := svc.Logout(ctx, claims); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := svc.ResolvePrincipal(ctx, claims); !apperrors.IsCode(err, apperrors.CodeAuthenticationRequired) {
		t.Fatalf("revoked session must be rejected, got %v", err)
	}
}
