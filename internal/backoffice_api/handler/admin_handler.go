package handler

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/wealthvault-ledger/internal/backoffice_api/service"
	"github.com/wealthvault-ledger/internal/domain/account"
	"github.com/wealthvault-ledger/internal/domain/shared"
)

// AdminHandler handles HTTP requests for administrator operations
type AdminHandler struct {
	registryService service.RegistryService
	logger          *slog.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(logger *slog.Logger, registryService service.RegistryService) *AdminHandler {
	return &AdminHandler{
		registryService: registryService,
		logger:          logger,
	}
}

// Create handles registration of a new administrator, rejecting duplicate
// email addresses
func (h *AdminHandler) Create(c *gin.Context) {
	var req CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	adm, err := h.registryService.CreateAdmin(c.Request.Context(), req.Email, req.Password, req.Name, req.Phone)
	if err != nil {
		var duplicateEmailErr account.ErrDuplicateEmail
		if errors.As(err, &duplicateEmailErr) {
			h.logger.Warn("Attempt to register admin with duplicate email", "email", duplicateEmailErr.Email)
			RespondConflict(c, "An account with this email already exists")
			return
		}
		h.logger.Error("Failed to create admin", "error", err)
		RespondInternalError(c)
		return
	}

	RespondCreated(c, mapAdminToResponse(adm))
}

// GetByID retrieves an administrator with its cached totals, returning 404
// if not found
func (h *AdminHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c, h.logger, "id")
	if !ok {
		return
	}

	adm, err := h.registryService.GetAdmin(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, account.ErrAdminNotFound{}) {
			RespondNotFound(c, "Admin not found")
			return
		}
		h.logger.Error("Failed to get admin", "adminID", id, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapAdminToResponse(adm))
}

// RecomputeTotals rebuilds the administrator's cached totals from the
// investment and payout logs
func (h *AdminHandler) RecomputeTotals(c *gin.Context) {
	id, ok := parseIDParam(c, h.logger, "id")
	if !ok {
		return
	}

	adm, err := h.registryService.RecomputeAdminTotals(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, account.ErrAdminNotFound{}) {
			RespondNotFound(c, "Admin not found")
			return
		}
		if errors.Is(err, shared.ErrLedgerBusy) {
			RespondServiceUnavailable(c, "Ledger busy, retry the recomputation")
			return
		}
		h.logger.Error("Failed to recompute admin totals", "adminID", id, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapAdminToResponse(adm))
}

// parseIDParam parses a UUID path parameter, responding 400 on malformed input
func parseIDParam(c *gin.Context, logger *slog.Logger, name string) (uuid.UUID, bool) {
	raw := c.Param(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		logger.Error("Invalid ID parameter", "param", name, "value", raw, "error", err)
		RespondBadRequest(c, "Invalid "+name+" parameter")
		return uuid.Nil, false
	}
	return id, true
}

// parseDateValue accepts RFC 3339 timestamps or bare dates
func parseDateValue(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}

// mapAdminToResponse maps an admin entity to an admin response DTO
func mapAdminToResponse(adm *account.Admin) AdminResponse {
	return AdminResponse{
		ID:            adm.ID.String(),
		Email:         adm.Email,
		Name:          adm.Name,
		Phone:         adm.Phone,
		Role:          adm.Role,
		TotalFunds:    adm.TotalFunds,
		TotalInterest: adm.TotalInterest,
		CreatedAt:     adm.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     adm.UpdatedAt.Format(time.RFC3339),
	}
}
