package assets

import (
	"errors"

	"lendstock-backend/internal/pkg/pagination"
	"lendstock-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

type Handlers struct {
	Service *Service
}

// ListAssets GET /api/v1/assets/list-assets?category=&status=&page=&limit=
func (h *Handlers) ListAssets(c *fiber.Ctx) error {
	p := pagination.Parse(c)
	as, total, err := h.Service.List(c.Context(), c.Query("category"), c.Query("status"), p)
	if err != nil {
		log.Error().Err(err).Msg("list assets failed")
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Assets fetched successfully", fiber.Map{"assets": as}, pagination.Metadata(p, total))
}

// ViewAsset GET /api/v1/assets/view-asset/:id
func (h *Handlers) ViewAsset(c *fiber.Ctx) error {
	a, err := h.Service.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, ErrAssetNotFound) {
			return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
		}
		log.Error().Err(err).Msg("view asset failed")
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Asset found", fiber.Map{"asset": a}, nil)
}

// ListCategories GET /api/v1/assets/list-categories
func (h *Handlers) ListCategories(c *fiber.Ctx) error {
	cats, err := h.Service.Categories(c.Context())
	if err != nil {
		log.Error().Err(err).Msg("list categories failed")
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Categories fetched successfully", fiber.Map{"categories": cats}, nil)
}

// RegisterAssetRequest body: category required, description optional.
type RegisterAssetRequest struct {
	Category    string `json:"category"`
	Description string `json:"description"`
}

// RegisterAsset POST /api/v1/assets/register-asset — ADMIN only (route
// middleware); creates the asset with a generated code.
func (h *Handlers) RegisterAsset(c *fiber.Ctx) error {
	var req RegisterAssetRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, ErrCategoryRequired.Error(), fiber.StatusBadRequest, nil)
	}

	a, err := h.Service.Register(c.Context(), req.Category, req.Description)
	if err != nil {
		if errors.Is(err, ErrCategoryRequired) {
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		}
		log.Error().Err(err).Msg("register asset failed")
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.SuccessCreated(c, "Asset registered successfully", fiber.Map{"asset": a}, nil)
}
