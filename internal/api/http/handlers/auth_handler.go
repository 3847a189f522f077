package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/pharmstock-gateway/internal/api/dto"
	"github.com/spec-kit/pharmstock-gateway/internal/auth"
	"github.com/spec-kit/pharmstock-gateway/internal/config"
	"github.com/spec-kit/pharmstock-gateway/internal/domain"
	"github.com/spec-kit/pharmstock-gateway/internal/service"
	"github.com/spec-kit/pharmstock-gateway/internal/upstream"
)

// AuthHandler exposes login, registration and session endpoints.
type AuthHandler struct {
	auth *service.AuthService
	cfg  config.SessionConfig
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, cfg config.SessionConfig) *AuthHandler {
	return &AuthHandler{auth: authService, cfg: cfg}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "email and password required")
	}

	sid, identity, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	h.setSessionCookie(c, sid)
	return c.JSON(fiber.Map{
		"data": fiber.Map{"user": dto.NewIdentityResponse(identity)},
	})
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" || req.Name == "" {
		return fiber.NewError(http.StatusBadRequest, "name, email, password required")
	}

	sid, identity, err := h.auth.Register(c.UserContext(), upstream.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
	})
	if err != nil {
		return err
	}

	h.setSessionCookie(c, sid)
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{"user": dto.NewIdentityResponse(identity)},
	})
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if sid, ok := auth.SessionIDFromContext(c); ok {
		if err := h.auth.Logout(c.UserContext(), sid); err != nil {
			return err
		}
	}
	c.ClearCookie(h.cfg.CookieName)
	return c.SendStatus(http.StatusNoContent)
}

// Refresh handles POST /auth/refresh. It runs off the raw cookie rather than
// the session middleware: the access token may already be expired, which is
// the very situation the endpoint exists for.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	sid := c.Cookies(h.cfg.CookieName)
	if sid == "" {
		return fiber.NewError(http.StatusUnauthorized, "missing session")
	}

	identity, err := h.auth.Refresh(c.UserContext(), sid)
	if err != nil {
		c.ClearCookie(h.cfg.CookieName)
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewIdentityResponse(identity)})
}

// Me handles GET /me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}
	return c.JSON(fiber.Map{"data": dto.NewIdentityResponse(identity)})
}

// UpdateMe handles PATCH /me.
func (h *AuthHandler) UpdateMe(c *fiber.Ctx) error {
	sid, ok := auth.SessionIDFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	var req dto.ProfilePatchRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	identity, err := h.auth.UpdateProfile(c.UserContext(), sid, domain.IdentityPatch{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewIdentityResponse(identity)})
}

func (h *AuthHandler) setSessionCookie(c *fiber.Ctx, sid string) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cfg.CookieName,
		Value:    sid,
		Expires:  time.Now().Add(h.cfg.CredentialTTL()),
		HTTPOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
