package lending

import (
	"errors"

	"lendstock-backend/internal/middleware"
	"lendstock-backend/internal/pkg/pagination"
	"lendstock-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

type Handlers struct {
	Service *Service
}

// BorrowRequest body: asset_id. The caller always comes from the session.
type BorrowRequest struct {
	AssetID string `json:"asset_id"`
}

// Borrow POST /api/v1/lending/borrow
func (h *Handlers) Borrow(c *fiber.Ctx) error {
	var req BorrowRequest
	if err := c.BodyParser(&req); err != nil || req.AssetID == "" {
		return response.Error(c, "Missing asset_id", fiber.StatusBadRequest, nil)
	}
	callerID := middleware.GetSessionUserID(c)
	if callerID == "" {
		return response.Unauthorized(c, "Unauthorized")
	}

	t, err := h.Service.Borrow(c.Context(), callerID, req.AssetID)
	if err != nil {
		return mapLendingError(c, err)
	}
	return response.SuccessCreated(c, "Asset borrowed successfully", fiber.Map{"transaction": t}, nil)
}

// ReturnRequest body: transaction_id.
type ReturnRequest struct {
	TransactionID string `json:"transaction_id"`
}

// Return POST /api/v1/lending/return
func (h *Handlers) Return(c *fiber.Ctx) error {
	var req ReturnRequest
	if err := c.BodyParser(&req); err != nil || req.TransactionID == "" {
		return response.Error(c, "Missing transaction_id", fiber.StatusBadRequest, nil)
	}
	callerID := middleware.GetSessionUserID(c)
	if callerID == "" {
		return response.Unauthorized(c, "Unauthorized")
	}

	t, err := h.Service.Return(c.Context(), callerID, req.TransactionID)
	if err != nil {
		return mapLendingError(c, err)
	}
	return response.Success(c, "Asset returned successfully", fiber.Map{"transaction": t}, nil)
}

// MyLoans GET /api/v1/lending/my-loans — the caller's full loan history.
func (h *Handlers) MyLoans(c *fiber.Ctx) error {
	callerID := middleware.GetSessionUserID(c)
	if callerID == "" {
		return response.Unauthorized(c, "Unauthorized")
	}
	ts, err := h.Service.ListByUser(c.Context(), callerID)
	if err != nil {
		log.Error().Err(err).Msg("list my loans failed")
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Loans fetched successfully", fiber.Map{"transactions": ts}, nil)
}

// ListTransactions GET /api/v1/lending/list-transactions?status=&page=&limit= (ADMIN)
func (h *Handlers) ListTransactions(c *fiber.Ctx) error {
	p := pagination.Parse(c)
	ts, total, err := h.Service.ListAll(c.Context(), c.Query("status"), p)
	if err != nil {
		log.Error().Err(err).Msg("list transactions failed")
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Transactions fetched successfully", fiber.Map{"transactions": ts}, pagination.Metadata(p, total))
}

// ListEvents GET /api/v1/lending/list-events (ADMIN)
func (h *Handlers) ListEvents(c *fiber.Ctx) error {
	events, err := h.Service.ListEvents(c.Context())
	if err != nil {
		log.Error().Err(err).Msg("list lending events failed")
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Lending events fetched successfully", fiber.Map{"events": events}, nil)
}

func mapLendingError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrNotAuthenticated):
		return response.Error(c, err.Error(), fiber.StatusUnauthorized, nil)
	case errors.Is(err, ErrAssetNotFound), errors.Is(err, ErrTransactionNotFound):
		return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
	case errors.Is(err, ErrAssetOnLoan), errors.Is(err, ErrAssetInMaintenance),
		errors.Is(err, ErrNotOnLoan), errors.Is(err, ErrAlreadyBorrowed):
		return response.Error(c, err.Error(), fiber.StatusConflict, nil)
	case errors.Is(err, ErrNotOwner):
		return response.Error(c, err.Error(), fiber.StatusForbidden, nil)
	default:
		log.Error().Err(err).Msg("lending operation failed")
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
}
