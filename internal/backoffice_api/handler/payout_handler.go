package handler

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/wealthvault-ledger/internal/backoffice_api/service"
	"github.com/wealthvault-ledger/internal/domain/account"
	"github.com/wealthvault-ledger/internal/domain/payout"
	"github.com/wealthvault-ledger/internal/domain/shared"
	"github.com/wealthvault-ledger/internal/domain/statement"
)

// PayoutHandler handles HTTP requests for the payout log and the archived
// statement view
type PayoutHandler struct {
	registryService  service.RegistryService
	ledgerService    service.LedgerService
	statementService service.StatementService
	logger           *slog.Logger
}

// NewPayoutHandler creates a new payout handler
func NewPayoutHandler(logger *slog.Logger, registryService service.RegistryService, ledgerService service.LedgerService, statementService service.StatementService) *PayoutHandler {
	return &PayoutHandler{
		registryService:  registryService,
		ledgerService:    ledgerService,
		statementService: statementService,
		logger:           logger,
	}
}

// Issue records an interest payout for the client with the given email
// address
func (h *PayoutHandler) Issue(c *gin.Context) {
	adminID, ok := parseIDParam(c, h.logger, "id")
	if !ok {
		return
	}

	var req IssuePayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	payoutDate, err := parseDateValue(req.PayoutDate)
	if err != nil {
		RespondBadRequest(c, "Invalid payout_date")
		return
	}

	p, err := h.ledgerService.IssuePayout(c.Request.Context(), adminID, req.ClientEmail, req.Amount, payoutDate)
	if err != nil {
		switch {
		case errors.Is(err, account.ErrAdminNotFound{}):
			RespondNotFound(c, "Admin not found")
		case errors.Is(err, account.ErrClientNotFound{}):
			RespondNotFound(c, "No client registered with this email")
		case errors.Is(err, shared.ErrLedgerBusy):
			RespondServiceUnavailable(c, "Ledger busy, retry the payout")
		default:
			h.logger.Error("Failed to issue payout", "clientEmail", req.ClientEmail, "error", err)
			RespondInternalError(c)
		}
		return
	}

	RespondCreated(c, mapPayoutToResponse(p))
}

// List retrieves a paginated, filtered view of the payout log
func (h *PayoutHandler) List(c *gin.Context) {
	var params ListPayoutsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		RespondBadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	filter := payout.Filter{
		Type:     shared.PayoutType(params.Type),
		Category: shared.PayoutCategory(params.Category),
		Status:   shared.PayoutStatus(params.Status),
	}
	if params.ClientID != "" {
		filter.ClientID = uuid.MustParse(params.ClientID)
	}

	payouts, total, err := h.registryService.ListPayouts(c.Request.Context(), filter, params.Page, params.PerPage)
	if err != nil {
		h.logger.Error("Failed to list payouts", "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]PayoutResponse, 0, len(payouts))
	for _, p := range payouts {
		responses = append(responses, mapPayoutToResponse(p))
	}
	RespondWithPaginatedData(c, 200, responses, params.Page, params.PerPage, int(total))
}

// GetStatement retrieves the archived statement for a client, optionally
// bounded to a payout date window. The archive trails the payout log by the
// outbox relay interval.
func (h *PayoutHandler) GetStatement(c *gin.Context) {
	clientID, ok := parseIDParam(c, h.logger, "id")
	if !ok {
		return
	}

	var params StatementParams
	if err := c.ShouldBindQuery(&params); err != nil {
		RespondBadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	from, err := parseDateValue(params.From)
	if err != nil {
		RespondBadRequest(c, "Invalid from date")
		return
	}
	to, err := parseDateValue(params.To)
	if err != nil {
		RespondBadRequest(c, "Invalid to date")
		return
	}

	entries, total, err := h.statementService.GetClientStatement(c.Request.Context(), clientID, from, to, params.Page, params.PerPage)
	if err != nil {
		h.logger.Error("Failed to get client statement", "clientID", clientID, "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]StatementEntryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, mapEntryToResponse(entry))
	}
	RespondWithPaginatedData(c, 200, responses, params.Page, params.PerPage, int(total))
}

// mapPayoutToResponse maps a payout entity to a payout response DTO
func mapPayoutToResponse(p *payout.Payout) PayoutResponse {
	return PayoutResponse{
		ID:         p.ID.String(),
		ClientID:   p.ClientID.String(),
		Amount:     p.Amount,
		Type:       string(p.Type),
		Category:   string(p.Category),
		Reference:  p.Reference,
		PayoutDate: p.PayoutDate.Format(time.RFC3339),
		Status:     string(p.Status),
		CreatedAt:  p.CreatedAt.Format(time.RFC3339),
	}
}

// mapEntryToResponse maps an archived statement entry to a response DTO
func mapEntryToResponse(entry *statement.Entry) StatementEntryResponse {
	return StatementEntryResponse{
		PayoutID:   entry.PayoutID.String(),
		ClientID:   entry.ClientID.String(),
		Amount:     entry.Amount,
		Type:       string(entry.Type),
		Category:   string(entry.Category),
		Reference:  entry.Reference,
		PayoutDate: entry.PayoutDate.Format(time.RFC3339),
		Status:     string(entry.Status),
		RecordedAt: entry.RecordedAt.Format(time.RFC3339),
	}
}
