package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/inucxhu/soporte360/internal/api/dto"
	"github.com/inucxhu/soporte360/internal/auth"
	"github.com/inucxhu/soporte360/internal/domain"
	"github.com/inucxhu/soporte360/pkg/apperrors"
)

// AuthHandler exposes the identity provider endpoints.
type AuthHandler struct {
	identity *auth.IdentityService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(identity *auth.IdentityService) *AuthHandler {
	return &AuthHandler{identity: identity}
}

// Register POST /api/auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, token, claims, err := h.identity.Register(c.UserContext(), auth.RegisterInput{
		Username:     req.Username,
		Email:        req.Email,
		Password:     req.Password,
		Role:         req.Role,
		Campaign:     req.Campaign,
		SupportGroup: req.SupportGroup,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": fiber.Map{
		"principal": principalResponse(user.Principal()),
		"auth":      dto.AuthResponse{Token: token, ExpiresAt: claims.ExpiresAt.Time},
	}})
}

// Login POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Username == "" || req.Password == "" {
		return apperrors.NewValidationError("username and password required", nil)
	}

	user, token, claims, err := h.identity.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": fiber.Map{
		"principal": principalResponse(user.Principal()),
		"auth":      dto.AuthResponse{Token: token, ExpiresAt: claims.ExpiresAt.Time},
	}})
}

// Logout POST /api/auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return apperrors.NewAuthenticationRequired("authentication required")
	}
	if err := h.identity.Logout(c.UserContext(), claims); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"logged_out": true}})
}

// Me GET /api/auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewAuthenticationRequired("authentication required")
	}
	return c.JSON(fiber.Map{"data": principalResponse(principal)})
}

func principalResponse(p domain.Principal) dto.PrincipalResponse {
	return dto.PrincipalResponse{
		ID:           p.ID,
		Username:     p.Username,
		Email:        p.Email,
		Role:         p.Role,
		Campaign:     p.Campaign,
		SupportGroup: p.SupportGroup,
	}
}
