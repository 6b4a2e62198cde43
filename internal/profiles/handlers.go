package profiles

import (
	"errors"

	"lendstock-backend/internal/constants"
	"lendstock-backend/internal/identity"
	"lendstock-backend/internal/middleware"
	"lendstock-backend/internal/pkg/response"
	"lendstock-backend/internal/pkg/validation"
	"lendstock-backend/internal/profiles/policies"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Handlers holds the profile service, the identity provider (for
// admin-initiated user creation), and Redis for session invalidation.
type Handlers struct {
	Service  *Service
	Identity identity.Provider
	Rdb      *redis.Client
}

// ListUsers GET /api/v1/users/list-users — all profiles, newest first (ADMIN).
func (h *Handlers) ListUsers(c *fiber.Ctx) error {
	ps, err := h.Service.List(c.Context())
	if err != nil {
		log.Error().Err(err).Msg("list users failed")
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Users fetched successfully", fiber.Map{"users": ps}, nil)
}

// ViewUser GET /api/v1/users/view-user/:id
func (h *Handlers) ViewUser(c *fiber.Ctx) error {
	p, err := h.Service.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
		}
		log.Error().Err(err).Msg("view user failed")
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "User found", fiber.Map{"user": p}, nil)
}

// CreateUserRequest body for admin-initiated user creation.
type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// CreateUser POST /api/v1/users/create-user — register an identity account and
// its mirroring profile on behalf of another person (ADMIN).
func (h *Handlers) CreateUser(c *fiber.Ctx) error {
	var req CreateUserRequest
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
	role := req.Role
	if role == "" {
		role = constants.User
	}
	if !constants.ValidRole(role) {
		return response.Error(c, policies.ErrInvalidRole.Error(), fiber.StatusBadRequest, nil)
	}

	account, err := h.Identity.SignUp(c.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, identity.ErrEmailRegistered) {
			return response.Error(c, err.Error(), fiber.StatusConflict, nil)
		}
		log.Error().Err(err).Msg("create user: sign-up failed")
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	p, err := h.Service.Create(c.Context(), account.ID, req.Name, account.Email, role)
	if err != nil {
		log.Error().Err(err).Msg("create user: profile creation failed")
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.SuccessCreated(c, "User created successfully", fiber.Map{"user": p}, nil)
}

// UpdateRoleRequest body: user_id, role.
type UpdateRoleRequest struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

// UpdateRole PATCH /api/v1/users/update-role — governed role mutation (ADMIN).
func (h *Handlers) UpdateRole(c *fiber.Ctx) error {
	var req UpdateRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Missing required fields", fiber.StatusBadRequest, nil)
	}
	if req.UserID == "" || req.Role == "" {
		return response.Error(c, "Missing required fields", fiber.StatusBadRequest, nil)
	}

	actorID := middleware.GetSessionUserID(c)
	if actorID == "" {
		return response.Unauthorized(c, "Unauthorized")
	}

	p, err := h.Service.UpdateRole(c.Context(), actorID, req.UserID, req.Role)
	if err != nil {
		return mapRoleError(c, err)
	}

	// The target's open sessions carry the old role; kill them.
	if h.Rdb != nil {
		policies.DestroyUserSessions(c.Context(), h.Rdb, req.UserID)
	}

	return response.Success(c, "Role updated successfully", fiber.Map{"user": p}, nil)
}

func mapRoleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, policies.ErrNotAuthenticated):
		return response.Error(c, err.Error(), fiber.StatusUnauthorized, nil)
	case errors.Is(err, policies.ErrAdminRequired):
		return response.Error(c, err.Error(), fiber.StatusForbidden, nil)
	case errors.Is(err, policies.ErrInvalidRole),
		errors.Is(err, policies.ErrCannotDemoteSelf),
		errors.Is(err, policies.ErrLastAdminProtection):
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	case errors.Is(err, policies.ErrTargetUserNotFound):
		return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
	default:
		log.Error().Err(err).Msg("update role failed")
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
}
