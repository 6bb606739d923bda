package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/inucxhu/soporte360/internal/domain"
	"github.com/inucxhu/soporte360/pkg/apperrors"
)

const (
	principalKey = "auth_principal"
	claimsKey    = "auth_claims"
)

// Middleware validates bearer tokens and loads the principal into the
// request context.
type Middleware struct {
	identity *IdentityService
}

// NewMiddleware constructs middleware.
func NewMiddleware(identity *IdentityService) *Middleware {
	return &Middleware{identity: identity}
}

// Handle enforces authentication for protected routes.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewAuthenticationRequired("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewAuthenticationRequired("invalid authorization header")
	}

	claims, err := m.identity.TokenManager().ParseToken(parts[1])
	if err != nil {
		return apperrors.NewAuthenticationRequired("invalid or expired token")
	}

	principal, err := m.identity.ResolvePrincipal(c.Context(), claims)
	if err != nil {
		return err
	}

	c.Locals(principalKey, principal)
	c.Locals(claimsKey, claims)
	return c.Next()
}

// RequireRole restricts a route to the given roles.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewAuthenticationRequired("authentication required")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[principal.Role]; !exists {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}

// PrincipalFromContext retrieves the authenticated principal.
func PrincipalFromContext(c *fiber.Ctx) (domain.Principal, bool) {
	principal, ok := c.Locals(principalKey).(domain.Principal)
	return principal, ok
}

// ClaimsFromContext retrieves the parsed token claims.
func ClaimsFromContext(c *fiber.Ctx) (*Claims, bool) {
	claims, ok := c.Locals(claimsKey).(*Claims)
	return claims, ok
}
