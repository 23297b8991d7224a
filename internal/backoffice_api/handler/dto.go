package handler

// CreateAdminRequest represents a request to register a new administrator
type CreateAdminRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone,omitempty"`
}

// AdminResponse represents an administrator in API responses
type AdminResponse struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	Phone         string `json:"phone,omitempty"`
	Role          string `json:"role"`
	TotalFunds    int64  `json:"total_funds"`
	TotalInterest int64  `json:"total_interest"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

// BankDetailsPayload carries settlement account details in requests and
// responses
type BankDetailsPayload struct {
	BankName      string `json:"bank_name" binding:"required"`
	AccountNumber string `json:"account_number" binding:"required"`
	BankBranch    string `json:"bank_branch" binding:"required"`
	IFSCCode      string `json:"ifsc_code" binding:"required"`
}

// OnboardClientRequest represents a request to onboard a new client together
// with their first investment
type OnboardClientRequest struct {
	Email       string             `json:"email" binding:"required,email"`
	Password    string             `json:"password" binding:"required,min=8"`
	Name        string             `json:"name" binding:"required"`
	Phone       string             `json:"phone,omitempty"`
	BankDetails BankDetailsPayload `json:"bank_details" binding:"required"`
	Amount      int64              `json:"amount" binding:"required,gt=0"`
	StartDate   string             `json:"start_date,omitempty"`
}

// UpdateClientRequest represents a profile update; empty fields keep their
// current values
type UpdateClientRequest struct {
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty" binding:"omitempty,email"`
}

// ClientResponse represents a client in API responses
type ClientResponse struct {
	ID              string              `json:"id"`
	Email           string              `json:"email"`
	Name            string              `json:"name"`
	Phone           string              `json:"phone,omitempty"`
	Role            string              `json:"role"`
	BankDetails     *BankDetailsPayload `json:"bank_details,omitempty"`
	TotalInvestment int64               `json:"total_investment"`
	TotalWithdrawn  int64               `json:"total_withdrawn"`
	TotalInterest   int64               `json:"total_interest"`
	TotalBalance    int64               `json:"total_balance"`
	CreatedAt       string              `json:"created_at"`
	UpdatedAt       string              `json:"updated_at"`
}

// AddFundsRequest represents a request to open an additional investment for
// an existing client
type AddFundsRequest struct {
	Amount    int64  `json:"amount" binding:"required,gt=0"`
	StartDate string `json:"start_date,omitempty"`
}

// InvestmentResponse represents an investment in API responses
type InvestmentResponse struct {
	ID              string `json:"id"`
	ClientID        string `json:"client_id"`
	Amount          int64  `json:"amount"`
	LockInStartDate string `json:"lock_in_start_date"`
	LockInEndDate   string `json:"lock_in_end_date"`
	IsRenewed       bool   `json:"is_renewed"`
	RenewedOn       string `json:"renewed_on,omitempty"`
	Status          string `json:"status"`
	CreatedAt       string `json:"created_at"`
}

// RenewInvestmentRequest restarts an investment's lock-in window. The
// renewal date defaults to today when omitted.
type RenewInvestmentRequest struct {
	RenewalDate string `json:"renewal_date,omitempty"`
}

// IssuePayoutRequest represents a request to record an interest payout for
// the client with the given email
type IssuePayoutRequest struct {
	ClientEmail string `json:"client_email" binding:"required,email"`
	Amount      int64  `json:"amount" binding:"required,gt=0"`
	PayoutDate  string `json:"payout_date,omitempty"`
}

// PayoutResponse represents a payout ledger entry in API responses
type PayoutResponse struct {
	ID         string `json:"id"`
	ClientID   string `json:"client_id"`
	Amount     int64  `json:"amount"`
	Type       string `json:"type"`
	Category   string `json:"category"`
	Reference  string `json:"reference"`
	PayoutDate string `json:"payout_date"`
	Status     string `json:"status"`
	CreatedAt  string `json:"created_at"`
}

// ListPayoutsParams represents query parameters for the payout log listing
type ListPayoutsParams struct {
	PaginationParams
	ClientID string `form:"client_id" binding:"omitempty,uuid"`
	Type     string `form:"type" binding:"omitempty,oneof=credit debit"`
	Category string `form:"category" binding:"omitempty,oneof=deposit withdrawal interest"`
	Status   string `form:"status" binding:"omitempty,oneof=pending completed failed"`
}

// CreateRequestRequest represents a client-initiated transaction request
type CreateRequestRequest struct {
	ClientID     string `json:"client_id" binding:"required,uuid"`
	Type         string `json:"type" binding:"required,oneof=add_amount withdraw"`
	Amount       int64  `json:"amount" binding:"omitempty,gt=0"`
	InvestmentID string `json:"investment_id" binding:"omitempty,uuid"`
}

// TransactionRequestResponse represents a transaction request in API responses
type TransactionRequestResponse struct {
	ID           string `json:"id"`
	ClientID     string `json:"client_id"`
	InvestmentID string `json:"investment_id,omitempty"`
	Amount       int64  `json:"amount"`
	Type         string `json:"type"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at"`
	RespondedAt  string `json:"responded_at,omitempty"`
}

// ApproveRequestResponse carries the decided request together with the payout
// entry its settlement produced
type ApproveRequestResponse struct {
	Request TransactionRequestResponse `json:"request"`
	Payout  *PayoutResponse            `json:"payout,omitempty"`
}

// ListRequestsParams represents query parameters for the request listing
type ListRequestsParams struct {
	PaginationParams
	ClientID string `form:"client_id" binding:"omitempty,uuid"`
	Type     string `form:"type" binding:"omitempty,oneof=add_amount withdraw"`
	Status   string `form:"status" binding:"omitempty,oneof=pending approved rejected"`
}

// StatementParams represents query parameters for the archived statement view
type StatementParams struct {
	PaginationParams
	From string `form:"from" binding:"omitempty"`
	To   string `form:"to" binding:"omitempty"`
}

// StatementEntryResponse represents an archived statement entry in API
// responses
type StatementEntryResponse struct {
	PayoutID   string `json:"payout_id"`
	ClientID   string `json:"client_id"`
	Amount     int64  `json:"amount"`
	Type       string `json:"type"`
	Category   string `json:"category"`
	Reference  string `json:"reference"`
	PayoutDate string `json:"payout_date"`
	Status     string `json:"status"`
	RecordedAt string `json:"recorded_at"`
}

// PaginationParams represents pagination parameters for list endpoints
type PaginationParams struct {
	Page    int `form:"page,default=1" binding:"min=1"`
	PerPage int `form:"per_page,default=10" binding:"min=1,max=100"`
}
