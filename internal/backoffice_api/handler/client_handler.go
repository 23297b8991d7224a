package handler

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wealthvault-ledger/internal/backoffice_api/service"
	"github.com/wealthvault-ledger/internal/domain/account"
	"github.com/wealthvault-ledger/internal/domain/investment"
	"github.com/wealthvault-ledger/internal/domain/shared"
)

// ClientHandler handles HTTP requests for client registry and ledger
// operations
type ClientHandler struct {
	registryService service.RegistryService
	ledgerService   service.LedgerService
	logger          *slog.Logger
}

// NewClientHandler creates a new client handler
func NewClientHandler(logger *slog.Logger, registryService service.RegistryService, ledgerService service.LedgerService) *ClientHandler {
	return &ClientHandler{
		registryService: registryService,
		ledgerService:   ledgerService,
		logger:          logger,
	}
}

// Onboard handles creation of a new client together with their first locked
// investment. The client row, investment, and deposit ledger entry commit in
// one transaction.
func (h *ClientHandler) Onboard(c *gin.Context) {
	adminID, ok := parseIDParam(c, h.logger, "id")
	if !ok {
		return
	}

	var req OnboardClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	startDate, err := parseDateValue(req.StartDate)
	if err != nil {
		RespondBadRequest(c, "Invalid start_date")
		return
	}

	client, inv, _, err := h.ledgerService.OnboardClient(c.Request.Context(), adminID, service.OnboardClientParams{
		Email:         req.Email,
		Password:      req.Password,
		Name:          req.Name,
		Phone:         req.Phone,
		BankName:      req.BankDetails.BankName,
		AccountNumber: req.BankDetails.AccountNumber,
		BankBranch:    req.BankDetails.BankBranch,
		IFSCCode:      req.BankDetails.IFSCCode,
		Amount:        req.Amount,
		StartDate:     startDate,
	})
	if err != nil {
		var duplicateEmailErr account.ErrDuplicateEmail
		var belowMinimumErr investment.ErrBelowMinimumDeposit
		switch {
		case errors.As(err, &duplicateEmailErr):
			h.logger.Warn("Attempt to onboard client with duplicate email", "email", duplicateEmailErr.Email)
			RespondConflict(c, "A client with this email already exists")
		case errors.As(err, &belowMinimumErr):
			RespondBadRequest(c, belowMinimumErr.Error())
		case errors.Is(err, account.ErrAdminNotFound{}):
			RespondNotFound(c, "Admin not found")
		case errors.Is(err, shared.ErrLedgerBusy):
			RespondServiceUnavailable(c, "Ledger busy, retry the onboarding")
		default:
			h.logger.Error("Failed to onboard client", "error", err)
			RespondInternalError(c)
		}
		return
	}

	RespondCreated(c, gin.H{
		"client":     mapClientToResponse(client),
		"investment": mapInvestmentToResponse(inv),
	})
}

// GetByID retrieves a client with its cached totals, returning 404 if not
// found
func (h *ClientHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c, h.logger, "id")
	if !ok {
		return
	}

	client, err := h.registryService.GetClient(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, account.ErrClientNotFound{}) {
			RespondNotFound(c, "Client not found")
			return
		}
		h.logger.Error("Failed to get client", "clientID", id, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapClientToResponse(client))
}

// List retrieves a paginated client listing
func (h *ClientHandler) List(c *gin.Context) {
	var params PaginationParams
	if err := c.ShouldBindQuery(&params); err != nil {
		RespondBadRequest(c, "Invalid pagination parameters: "+err.Error())
		return
	}

	clients, total, err := h.registryService.ListClients(c.Request.Context(), params.Page, params.PerPage)
	if err != nil {
		h.logger.Error("Failed to list clients", "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]ClientResponse, 0, len(clients))
	for _, client := range clients {
		responses = append(responses, mapClientToResponse(client))
	}
	RespondWithPaginatedData(c, 200, responses, params.Page, params.PerPage, int(total))
}

// Update handles profile updates; empty fields keep their current values
func (h *ClientHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, h.logger, "id")
	if !ok {
		return
	}

	var req UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	client, err := h.registryService.UpdateClientProfile(c.Request.Context(), id, req.Name, req.Phone, req.Email)
	if err != nil {
		var duplicateEmailErr account.ErrDuplicateEmail
		switch {
		case errors.Is(err, account.ErrClientNotFound{}):
			RespondNotFound(c, "Client not found")
		case errors.As(err, &duplicateEmailErr):
			RespondConflict(c, "A client with this email already exists")
		default:
			h.logger.Error("Failed to update client", "clientID", id, "error", err)
			RespondInternalError(c)
		}
		return
	}

	RespondOK(c, mapClientToResponse(client))
}

// UpdateBankDetails replaces the client's settlement account details
func (h *ClientHandler) UpdateBankDetails(c *gin.Context) {
	id, ok := parseIDParam(c, h.logger, "id")
	if !ok {
		return
	}

	var req BankDetailsPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	bank, err := account.NewBankDetails(req.BankName, req.AccountNumber, req.BankBranch, req.IFSCCode)
	if err != nil {
		RespondBadRequest(c, err.Error())
		return
	}

	client, err := h.registryService.UpdateBankDetails(c.Request.Context(), id, bank)
	if err != nil {
		if errors.Is(err, account.ErrClientNotFound{}) {
			RespondNotFound(c, "Client not found")
			return
		}
		h.logger.Error("Failed to update bank details", "clientID", id, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapClientToResponse(client))
}

// RecomputeTotals rebuilds the client's cached totals from the investment and
// payout logs
func (h *ClientHandler) RecomputeTotals(c *gin.Context) {
	id, ok := parseIDParam(c, h.logger, "id")
	if !ok {
		return
	}

	client, err := h.registryService.RecomputeClientTotals(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, account.ErrClientNotFound{}):
			RespondNotFound(c, "Client not found")
		case errors.Is(err, shared.ErrLedgerBusy):
			RespondServiceUnavailable(c, "Ledger busy, retry the recomputation")
		default:
			h.logger.Error("Failed to recompute client totals", "clientID", id, "error", err)
			RespondInternalError(c)
		}
		return
	}

	RespondOK(c, mapClientToResponse(client))
}

// GetInvestments lists a client's investments, lazily expiring any whose
// lock-in has elapsed
func (h *ClientHandler) GetInvestments(c *gin.Context) {
	id, ok := parseIDParam(c, h.logger, "id")
	if !ok {
		return
	}

	investments, err := h.registryService.GetClientInvestments(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, account.ErrClientNotFound{}) {
			RespondNotFound(c, "Client not found")
			return
		}
		h.logger.Error("Failed to list client investments", "clientID", id, "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]InvestmentResponse, 0, len(investments))
	for _, inv := range investments {
		responses = append(responses, mapInvestmentToResponse(inv))
	}
	RespondOK(c, responses)
}

// AddFunds opens an additional locked investment for an existing client
func (h *ClientHandler) AddFunds(c *gin.Context) {
	adminID, ok := parseIDParam(c, h.logger, "id")
	if !ok {
		return
	}
	clientID, ok := parseIDParam(c, h.logger, "client_id")
	if !ok {
		return
	}

	var req AddFundsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	startDate, err := parseDateValue(req.StartDate)
	if err != nil {
		RespondBadRequest(c, "Invalid start_date")
		return
	}

	inv, _, err := h.ledgerService.AddFunds(c.Request.Context(), adminID, clientID, req.Amount, startDate)
	if err != nil {
		var belowMinimumErr investment.ErrBelowMinimumDeposit
		switch {
		case errors.As(err, &belowMinimumErr):
			RespondBadRequest(c, belowMinimumErr.Error())
		case errors.Is(err, account.ErrAdminNotFound{}):
			RespondNotFound(c, "Admin not found")
		case errors.Is(err, account.ErrClientNotFound{}):
			RespondNotFound(c, "Client not found")
		case errors.Is(err, shared.ErrLedgerBusy):
			RespondServiceUnavailable(c, "Ledger busy, retry the deposit")
		default:
			h.logger.Error("Failed to add funds", "clientID", clientID, "error", err)
			RespondInternalError(c)
		}
		return
	}

	RespondCreated(c, mapInvestmentToResponse(inv))
}

// WithdrawInvestment settles an investment directly, bypassing the request
// workflow
func (h *ClientHandler) WithdrawInvestment(c *gin.Context) {
	adminID, ok := parseIDParam(c, h.logger, "id")
	if !ok {
		return
	}
	clientID, ok := parseIDParam(c, h.logger, "client_id")
	if !ok {
		return
	}
	investmentID, ok := parseIDParam(c, h.logger, "investment_id")
	if !ok {
		return
	}

	p, err := h.ledgerService.WithdrawInvestment(c.Request.Context(), adminID, clientID, investmentID)
	if err != nil {
		var fundsLockedErr investment.ErrFundsLocked
		var alreadyWithdrawnErr investment.ErrAlreadyWithdrawn
		switch {
		case errors.As(err, &fundsLockedErr):
			RespondLocked(c, fundsLockedErr.Error())
		case errors.As(err, &alreadyWithdrawnErr):
			RespondConflict(c, alreadyWithdrawnErr.Error())
		case errors.Is(err, account.ErrAdminNotFound{}):
			RespondNotFound(c, "Admin not found")
		case errors.Is(err, account.ErrClientNotFound{}):
			RespondNotFound(c, "Client not found")
		case errors.Is(err, investment.ErrInvestmentNotFound{}):
			RespondNotFound(c, "Investment not found")
		case errors.Is(err, shared.ErrLedgerBusy):
			RespondServiceUnavailable(c, "Ledger busy, retry the withdrawal")
		default:
			h.logger.Error("Failed to withdraw investment", "investmentID", investmentID, "error", err)
			RespondInternalError(c)
		}
		return
	}

	RespondOK(c, mapPayoutToResponse(p))
}

// RenewInvestment restarts an investment's lock-in window
func (h *ClientHandler) RenewInvestment(c *gin.Context) {
	clientID, ok := parseIDParam(c, h.logger, "id")
	if !ok {
		return
	}
	investmentID, ok := parseIDParam(c, h.logger, "investment_id")
	if !ok {
		return
	}

	var req RenewInvestmentRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.logger.Error("Invalid request body", "error", err)
			RespondBadRequest(c, "Invalid request body: "+err.Error())
			return
		}
	}

	on, err := parseDateValue(req.RenewalDate)
	if err != nil {
		RespondBadRequest(c, "Invalid renewal_date")
		return
	}

	inv, err := h.ledgerService.RenewInvestment(c.Request.Context(), clientID, investmentID, on)
	if err != nil {
		var alreadyWithdrawnErr investment.ErrAlreadyWithdrawn
		var pendingErr investment.ErrWithdrawalPending
		switch {
		case errors.As(err, &alreadyWithdrawnErr):
			RespondConflict(c, alreadyWithdrawnErr.Error())
		case errors.As(err, &pendingErr):
			RespondConflict(c, pendingErr.Error())
		case errors.Is(err, investment.ErrInvestmentNotFound{}):
			RespondNotFound(c, "Investment not found")
		case errors.Is(err, shared.ErrLedgerBusy):
			RespondServiceUnavailable(c, "Ledger busy, retry the renewal")
		default:
			h.logger.Error("Failed to renew investment", "investmentID", investmentID, "error", err)
			RespondInternalError(c)
		}
		return
	}

	RespondOK(c, mapInvestmentToResponse(inv))
}

// Delete removes the client and every record referencing it
func (h *ClientHandler) Delete(c *gin.Context) {
	adminID, ok := parseIDParam(c, h.logger, "id")
	if !ok {
		return
	}
	clientID, ok := parseIDParam(c, h.logger, "client_id")
	if !ok {
		return
	}

	if err := h.ledgerService.DeleteClient(c.Request.Context(), adminID, clientID); err != nil {
		switch {
		case errors.Is(err, account.ErrAdminNotFound{}):
			RespondNotFound(c, "Admin not found")
		case errors.Is(err, account.ErrClientNotFound{}):
			RespondNotFound(c, "Client not found")
		case errors.Is(err, shared.ErrLedgerBusy):
			RespondServiceUnavailable(c, "Ledger busy, retry the deletion")
		default:
			h.logger.Error("Failed to delete client", "clientID", clientID, "error", err)
			RespondInternalError(c)
		}
		return
	}

	RespondNoContent(c)
}

// mapClientToResponse maps a client entity to a client response DTO
func mapClientToResponse(client *account.Client) ClientResponse {
	resp := ClientResponse{
		ID:              client.ID.String(),
		Email:           client.Email,
		Name:            client.Name,
		Phone:           client.Phone,
		Role:            client.Role,
		TotalInvestment: client.TotalInvestment,
		TotalWithdrawn:  client.TotalWithdrawn,
		TotalInterest:   client.TotalInterest,
		TotalBalance:    client.TotalBalance,
		CreatedAt:       client.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       client.UpdatedAt.Format(time.RFC3339),
	}
	if client.BankDetails != nil {
		resp.BankDetails = &BankDetailsPayload{
			BankName:      client.BankDetails.BankName,
			AccountNumber: client.BankDetails.AccountNumber,
			BankBranch:    client.BankDetails.BankBranch,
			IFSCCode:      client.BankDetails.IFSCCode,
		}
	}
	return resp
}

// mapInvestmentToResponse maps an investment entity to a response DTO
func mapInvestmentToResponse(inv *investment.Investment) InvestmentResponse {
	resp := InvestmentResponse{
		ID:              inv.ID.String(),
		ClientID:        inv.ClientID.String(),
		Amount:          inv.Amount,
		LockInStartDate: inv.LockInStartDate.Format(time.RFC3339),
		LockInEndDate:   inv.LockInEndDate.Format(time.RFC3339),
		IsRenewed:       inv.IsRenewed,
		Status:          string(inv.Status),
		CreatedAt:       inv.CreatedAt.Format(time.RFC3339),
	}
	if inv.RenewedOn != nil {
		resp.RenewedOn = inv.RenewedOn.Format(time.RFC3339)
	}
	return resp
}
