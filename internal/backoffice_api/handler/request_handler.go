package handler

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/wealthvault-ledger/internal/backoffice_api/service"
	"github.com/wealthvault-ledger/internal/domain/account"
	"github.com/wealthvault-ledger/internal/domain/investment"
	"github.com/wealthvault-ledger/internal/domain/request"
	"github.com/wealthvault-ledger/internal/domain/shared"
)

// RequestHandler handles HTTP requests for the transaction request workflow
type RequestHandler struct {
	workflowService service.WorkflowService
	logger          *slog.Logger
}

// NewRequestHandler creates a new request handler
func NewRequestHandler(logger *slog.Logger, workflowService service.WorkflowService) *RequestHandler {
	return &RequestHandler{
		workflowService: workflowService,
		logger:          logger,
	}
}

// Create records a pending add-funds or withdraw request
func (h *RequestHandler) Create(c *gin.Context) {
	var req CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	clientID := uuid.MustParse(req.ClientID)
	var investmentID *uuid.UUID
	if req.InvestmentID != "" {
		id := uuid.MustParse(req.InvestmentID)
		investmentID = &id
	}

	tr, err := h.workflowService.CreateRequest(c.Request.Context(), clientID, req.Type, req.Amount, investmentID)
	if err != nil {
		var belowMinimumErr investment.ErrBelowMinimumDeposit
		switch {
		case errors.As(err, &belowMinimumErr):
			RespondBadRequest(c, belowMinimumErr.Error())
		case errors.Is(err, request.ErrMissingInvestment), errors.Is(err, request.ErrInvalidAmount), errors.Is(err, request.ErrInvalidRequestType):
			RespondBadRequest(c, err.Error())
		case errors.Is(err, account.ErrClientNotFound{}):
			RespondNotFound(c, "Client not found")
		case errors.Is(err, investment.ErrInvestmentNotFound{}):
			RespondNotFound(c, "Investment not found")
		case errors.Is(err, shared.ErrLedgerBusy):
			RespondServiceUnavailable(c, "Ledger busy, retry the request")
		default:
			h.logger.Error("Failed to create transaction request", "clientID", clientID, "error", err)
			RespondInternalError(c)
		}
		return
	}

	RespondCreated(c, mapRequestToResponse(tr))
}

// GetByID retrieves a transaction request, returning 404 if not found
func (h *RequestHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c, h.logger, "id")
	if !ok {
		return
	}

	tr, err := h.workflowService.GetRequest(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, request.ErrRequestNotFound{}) {
			RespondNotFound(c, "Transaction request not found")
			return
		}
		h.logger.Error("Failed to get transaction request", "requestID", id, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapRequestToResponse(tr))
}

// List retrieves a paginated, filtered request listing
func (h *RequestHandler) List(c *gin.Context) {
	var params ListRequestsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		RespondBadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	filter := request.Filter{
		Type:   shared.RequestType(params.Type),
		Status: shared.RequestStatus(params.Status),
	}
	if params.ClientID != "" {
		filter.ClientID = uuid.MustParse(params.ClientID)
	}

	requests, total, err := h.workflowService.ListRequests(c.Request.Context(), filter, params.Page, params.PerPage)
	if err != nil {
		h.logger.Error("Failed to list transaction requests", "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]TransactionRequestResponse, 0, len(requests))
	for _, tr := range requests {
		responses = append(responses, mapRequestToResponse(tr))
	}
	RespondWithPaginatedData(c, 200, responses, params.Page, params.PerPage, int(total))
}

// Approve settles a pending request. The decision and the ledger mutation
// commit atomically; a failed settlement leaves the request pending.
func (h *RequestHandler) Approve(c *gin.Context) {
	adminID, ok := parseIDParam(c, h.logger, "id")
	if !ok {
		return
	}
	requestID, ok := parseIDParam(c, h.logger, "request_id")
	if !ok {
		return
	}

	tr, p, err := h.workflowService.ApproveRequest(c.Request.Context(), adminID, requestID)
	if err != nil {
		var transitionErr request.ErrInvalidStateTransition
		var fundsLockedErr investment.ErrFundsLocked
		var alreadyWithdrawnErr investment.ErrAlreadyWithdrawn
		switch {
		case errors.As(err, &transitionErr):
			RespondConflict(c, transitionErr.Error())
		case errors.As(err, &fundsLockedErr):
			RespondLocked(c, fundsLockedErr.Error())
		case errors.As(err, &alreadyWithdrawnErr):
			RespondConflict(c, alreadyWithdrawnErr.Error())
		case errors.Is(err, request.ErrRequestNotFound{}):
			RespondNotFound(c, "Transaction request not found")
		case errors.Is(err, account.ErrAdminNotFound{}):
			RespondNotFound(c, "Admin not found")
		case errors.Is(err, shared.ErrLedgerBusy):
			RespondServiceUnavailable(c, "Ledger busy, retry the approval")
		default:
			h.logger.Error("Failed to approve transaction request", "requestID", requestID, "error", err)
			RespondInternalError(c)
		}
		return
	}

	resp := ApproveRequestResponse{Request: mapRequestToResponse(tr)}
	if p != nil {
		payoutResp := mapPayoutToResponse(p)
		resp.Payout = &payoutResp
	}
	RespondOK(c, resp)
}

// Reject declines a pending request without touching balances
func (h *RequestHandler) Reject(c *gin.Context) {
	requestID, ok := parseIDParam(c, h.logger, "id")
	if !ok {
		return
	}

	tr, err := h.workflowService.RejectRequest(c.Request.Context(), requestID)
	if err != nil {
		var transitionErr request.ErrInvalidStateTransition
		switch {
		case errors.As(err, &transitionErr):
			RespondConflict(c, transitionErr.Error())
		case errors.Is(err, request.ErrRequestNotFound{}):
			RespondNotFound(c, "Transaction request not found")
		case errors.Is(err, shared.ErrLedgerBusy):
			RespondServiceUnavailable(c, "Ledger busy, retry the rejection")
		default:
			h.logger.Error("Failed to reject transaction request", "requestID", requestID, "error", err)
			RespondInternalError(c)
		}
		return
	}

	RespondOK(c, mapRequestToResponse(tr))
}

// mapRequestToResponse maps a transaction request entity to a response DTO
func mapRequestToResponse(tr *request.TransactionRequest) TransactionRequestResponse {
	resp := TransactionRequestResponse{
		ID:        tr.ID.String(),
		ClientID:  tr.ClientID.String(),
		Amount:    tr.Amount,
		Type:      string(tr.Type),
		Status:    string(tr.Status),
		CreatedAt: tr.CreatedAt.Format(time.RFC3339),
	}
	if tr.InvestmentID != nil {
		resp.InvestmentID = tr.InvestmentID.String()
	}
	if tr.RespondedAt != nil {
		resp.RespondedAt = tr.RespondedAt.Format(time.RFC3339)
	}
	return resp
}
