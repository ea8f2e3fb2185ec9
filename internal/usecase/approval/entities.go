package approval

import (
	loanuc "bank-loan-service/internal/usecase/loan"
)

const (
	MsgApproved     = "Loan approved successfully"
	MsgAutoRejected = "Loan rejected: Amount too high for auto-approval"
	MsgRejected     = "Loan rejected"
)

// DecisionDTO is the loan after a decision plus a message naming the branch
// that was taken.
type DecisionDTO struct {
	Message string         `json:"message"`
	Loan    loanuc.LoanDTO `json:"loan"`
}
