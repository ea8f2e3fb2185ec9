package loan

import (
	"time"

	domain "bank-loan-service/internal/domain/loan"
)

type ApplyInput struct {
	CustomerName string
	Amount       float64
	TermMonths   int
	// InterestRate is the annual percentage; nil means domain.DefaultInterestRate.
	InterestRate *float64
}

type LoanDTO struct {
	LoanID         string    `json:"loanId"`
	CustomerName   string    `json:"customerName"`
	Amount         float64   `json:"amount"`
	TermMonths     int       `json:"termMonths"`
	InterestRate   float64   `json:"interestRate"`
	Status         string    `json:"status"`
	MonthlyPayment float64   `json:"monthlyPayment"`
	CreatedAt      time.Time `json:"createdAt"`
}

func ToDTO(l *domain.Loan) *LoanDTO {
	return &LoanDTO{
		LoanID:         l.LoanID,
		CustomerName:   l.CustomerName,
		Amount:         l.Amount,
		TermMonths:     l.TermMonths,
		InterestRate:   l.InterestRate,
		Status:         string(l.Status),
		MonthlyPayment: l.MonthlyPayment,
		CreatedAt:      l.CreatedAt,
	}
}
