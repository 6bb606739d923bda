package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/inucxhu/soporte360/internal/domain"
	"github.com/inucxhu/soporte360/internal/repository"
	"github.com/inucxhu/soporte360/pkg/apperrors"
)

// IdentityService is the identity provider: it mints principals,
// validates sessions, and revokes them on logout.
type IdentityService struct {
	users      repository.UserRepository
	tokens     *TokenManager
	revoked    RevocationStore
	bcryptCost int
	logger     *zap.Logger
}

// NewIdentityService constructs the service.
func NewIdentityService(users repository.UserRepository, tokens *TokenManager, revoked RevocationStore, bcryptCost int, logger *zap.Logger) *IdentityService {
	return &IdentityService{
		users:      users,
		tokens:     tokens,
		revoked:    revoked,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// RegisterInput describes a new account.
type RegisterInput struct {
	Username     string
	Email        string
	Password     string
	Role         domain.Role
	Campaign     string
	SupportGroup string
}

// Register creates an account and returns a logged-in session. Scope
// attributes must match the role: end-users carry a campaign, support
// staff a group, admin tiers neither.
func (s *IdentityService) Register(ctx context.Context, input RegisterInput) (*domain.User, string, *Claims, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)
	if input.Username == "" || input.Email == "" || input.Password == "" {
		return nil, "", nil, apperrors.NewValidationError("username, email, password required", nil)
	}
	if err := validateScope(input); err != nil {
		return nil, "", nil, err
	}

	hash, err := HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, "", nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         input.Role,
		Campaign:     input.Campaign,
		SupportGroup: input.SupportGroup,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", nil, apperrors.NewConflict("username or email already taken", nil)
	}

	token, claims, err := s.tokens.GenerateToken(user)
	if err != nil {
		return nil, "", nil, apperrors.NewInternalError(err)
	}
	s.logger.Info("user registered", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return user, token, claims, nil
}

// Login validates credentials and issues a token.
func (s *IdentityService) Login(ctx context.Context, username, password string) (*domain.User, string, *Claims, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", nil, apperrors.NewAuthenticationRequired("invalid credentials")
		}
		return nil, "", nil, apperrors.NewInternalError(err)
	}
	if err := ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", nil, apperrors.NewAuthenticationRequired("invalid credentials")
	}

	token, claims, err := s.tokens.GenerateToken(user)
	if err != nil {
		return nil, "", nil, apperrors.NewInternalError(err)
	}
	return user, token, claims, nil
}

// Logout revokes the session's token id for the token's remaining
// lifetime.
func (s *IdentityService) Logout(ctx context.Context, claims *Claims) error {
	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining <= 0 {
		return nil
	}
	if err := s.revoked.Revoke(ctx, claims.ID, remaining); err != nil {
		return apperrors.NewInternalError(err)
	}
	s.logger.Info("session revoked", zap.String("user_id", claims.Subject))
	return nil
}

// ResolvePrincipal validates a parsed token against the revocation store
// and loads the live user record.
func (s *IdentityService) ResolvePrincipal(ctx context.Context, claims *Claims) (domain.Principal, error) {
	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		s.logger.Warn("revocation check failed", zap.Error(err))
	}
	if revoked {
		return domain.Principal{}, apperrors.NewAuthenticationRequired("session revoked")
	}

	user, err := s.users.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Principal{}, apperrors.NewAuthenticationRequired("account no longer exists")
		}
		return domain.Principal{}, apperrors.NewInternalError(err)
	}
	return user.Principal(), nil
}

// TokenManager exposes the token manager for middleware wiring.
func (s *IdentityService) TokenManager() *TokenManager {
	return s.tokens
}

func validateScope(input RegisterInput) error {
	switch input.Role {
	case domain.RoleEndUser:
		if input.Campaign == "" || input.SupportGroup != "" {
			return apperrors.NewValidationError("end users carry a campaign and no support group", nil)
		}
	case domain.RoleSupport:
		if input.SupportGroup == "" || input.Campaign != "" {
			return apperrors.NewValidationError("support staff carry a support group and no campaign", nil)
		}
	case domain.RoleAdmin, domain.RoleMasterAdmin:
		if input.Campaign != "" || input.SupportGroup != "" {
			return apperrors.NewValidationError("admin roles carry no scope attributes", nil)
		}
	default:
		return apperrors.NewValidationError("unknown role", map[string]any{"role": input.Role})
	}
	return nil
}
