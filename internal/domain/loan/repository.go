package loan

import "context"

type Repository interface {
	// Create stores a new loan; ErrDuplicateID if the id is taken.
	Create(ctx context.Context, l *Loan) error
	GetByLoanID(ctx context.Context, loanID string) (*Loan, error)
	// List returns every loan in insertion order.
	List(ctx context.Context) ([]Loan, error)
	Count(ctx context.Context) (int, error)
	// Update locks the loan, hands it to fn and persists the result when fn
	// returns nil. Nothing is written if fn fails.
	Update(ctx context.Context, loanID string, fn func(l *Loan) error) (*Loan, error)
}
