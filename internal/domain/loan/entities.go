package loan

import (
	"time"
)

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

const (
	// DefaultInterestRate is the annual percentage applied when an
	// application does not carry one.
	DefaultInterestRate = 5.0

	// AutoApprovalCeiling is the largest principal approve will accept;
	// anything above it is turned into a rejection.
	AutoApprovalCeiling = 50_000.0
)

type Loan struct {
	LoanID         string
	CustomerName   string
	Amount         float64
	TermMonths     int
	InterestRate   float64
	Status         Status
	MonthlyPayment float64
	CreatedAt      time.Time
}

func (l *Loan) IsPending() bool { return l.Status == StatusPending }
