package auth

import (
	"context"
	"errors"

	"lendstock-backend/internal/constants"
	"lendstock-backend/internal/identity"
	"lendstock-backend/internal/middleware"
	"lendstock-backend/internal/pkg/response"
	"lendstock-backend/internal/pkg/validation"
	"lendstock-backend/internal/profiles"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

const userSessionsPrefix = "user_sessions:"

var errProfileMissing = errors.New("Profile not found for this account")

// Handlers holds dependencies for the auth endpoints.
type Handlers struct {
	Identity identity.Provider
	Profiles *profiles.Service
	Rdb      RedisSessions
	Config   middleware.SessionConfig
}

// RedisSessions is the per-user session index (SAdd/SRem/Del on Redis).
type RedisSessions interface {
	TrackSession(ctx context.Context, userID, sessionID string) error
	DropSession(ctx context.Context, userID, sessionID string) error
	DeleteSessionKey(ctx context.Context, sessionID string) error
}

// SignupRequest body: name, email, password.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup POST /api/v1/auth/signup — register an identity account, mirror it
// as a USER profile, start a session.
func (h *Handlers) Signup(c *fiber.Ctx) error {
	var req SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Missing required fields", fiber.StatusBadRequest, nil)
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return response.Error(c, "Missing required fields", fiber.StatusBadRequest, nil)
	}
	if !validation.IsValidEmail(req.Email) {
		return response.Error(c, "Invalid email format", fiber.StatusBadRequest, nil)
	}
	if !validation.IsValidPassword(req.Password) {
		return response.Error(c, "Invalid password format", fiber.StatusBadRequest, nil)
	}
	if !validation.IsValidName(req.Name) {
		return response.Error(c, "Name contains invalid characters", fiber.StatusBadRequest, nil)
	}

	account, err := h.Identity.SignUp(c.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, identity.ErrEmailRegistered) {
			return response.Error(c, err.Error(), fiber.StatusConflict, nil)
		}
		log.Error().Err(err).Msg("signup failed")
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}

	p, err := h.Profiles.Create(c.Context(), account.ID, req.Name, account.Email, constants.User)
	if err != nil {
		log.Error().Err(err).Msg("signup: profile creation failed")
		return response.Error(c, "Profile creation failed", fiber.StatusInternalServerError, nil)
	}

	sessionID := middleware.RegenerateSessionID(c)
	middleware.SetSessionUser(c, middleware.SessionUser{
		UserID: p.ID, Name: p.Name, Email: p.Email, Role: p.Role,
	})
	_ = h.Rdb.TrackSession(c.Context(), p.ID, sessionID)
	h.setSessionCookie(c, sessionID)

	return response.SuccessCreated(c, "Signed up successfully", fiber.Map{"user": p}, nil)
}

// LoginRequest body: email, password.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login POST /api/v1/auth/login — authenticate against the identity provider,
// load the mirroring profile, create a session, set the cookie.
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, identity.ErrEmailPasswordRequired.Error(), fiber.StatusBadRequest, nil)
	}
	if req.Email == "" || req.Password == "" {
		return response.Error(c, identity.ErrEmailPasswordRequired.Error(), fiber.StatusBadRequest, nil)
	}

	account, err := h.Identity.SignIn(c.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrEmailPasswordRequired):
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		case errors.Is(err, identity.ErrInvalidEmail), errors.Is(err, identity.ErrIncorrectPassword):
			return response.Error(c, err.Error(), fiber.StatusUnauthorized, nil)
		default:
			log.Error().Err(err).Msg("login failed")
			return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
		}
	}

	p, err := h.Profiles.GetByID(c.Context(), account.ID)
	if err != nil {
		if errors.Is(err, profiles.ErrProfileNotFound) {
			return response.Error(c, errProfileMissing.Error(), fiber.StatusUnauthorized, nil)
		}
		log.Error().Err(err).Msg("login: profile lookup failed")
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}

	sessionID := middleware.RegenerateSessionID(c)
	middleware.SetSessionUser(c, middleware.SessionUser{
		UserID: p.ID, Name: p.Name, Email: p.Email, Role: p.Role,
	})
	_ = h.Rdb.TrackSession(c.Context(), p.ID, sessionID)
	h.setSessionCookie(c, sessionID)

	return response.Success(c, "Login successful", fiber.Map{"user": p}, nil)
}

// Me GET /api/v1/auth/me — return the current session user.
func (h *Handlers) Me(c *fiber.Ctx) error {
	m, ok := middleware.GetUser(c).(map[string]interface{})
	if !ok {
		return response.Error(c, "Not authenticated", fiber.StatusUnauthorized, nil)
	}
	userID, _ := m["user_id"].(string)
	if userID == "" {
		return response.Error(c, "Not authenticated", fiber.StatusUnauthorized, nil)
	}
	return response.Success(c, "Authenticated", fiber.Map{"user": m}, nil)
}

// Logout DELETE /api/v1/auth/logout — drop the session index entry, delete the
// Redis key, clear the cookie.
func (h *Handlers) Logout(c *fiber.Ctx) error {
	sessionID := middleware.GetSessionID(c)
	if userID := middleware.GetSessionUserID(c); userID != "" && sessionID != "" {
		_ = h.Rdb.DropSession(c.Context(), userID, sessionID)
	}
	if sessionID != "" {
		_ = h.Rdb.DeleteSessionKey(c.Context(), sessionID)
	}
	middleware.DestroySession(c)

	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.Value = ""
	cookie.MaxAge = -1
	c.Cookie(&cookie)

	return response.Success(c, "Logged out successfully", nil, nil)
}

func (h *Handlers) setSessionCookie(c *fiber.Ctx, sessionID string) {
	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.Value = sessionID
	c.Cookie(&cookie)
}
