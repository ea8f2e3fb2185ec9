package memory

import (
	"context"
	"sync"

	loanDomain "bank-loan-service/internal/domain/loan"
)

// LoanRepository keeps loans in process memory. Callers always receive
// copies; the stored records change only through Create and Update.
type LoanRepository struct {
	mu    sync.RWMutex
	loans map[string]*loanDomain.Loan
	order []string
}

func NewLoanRepository() *LoanRepository {
	return &LoanRepository{loans: make(map[string]*loanDomain.Loan)}
}

func (r *LoanRepository) Create(_ context.Context, l *loanDomain.Loan) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.loans[l.LoanID]; ok {
		return loanDomain.ErrDuplicateID
	}
	cp := *l
	r.loans[l.LoanID] = &cp
	r.order = append(r.order, l.LoanID)
	return nil
}

func (r *LoanRepository) GetByLoanID(_ context.Context, loanID string) (*loanDomain.Loan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.loans[loanID]
	if !ok {
		return nil, loanDomain.ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (r *LoanRepository) List(_ context.Context) ([]loanDomain.Loan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]loanDomain.Loan, 0, len(r.order))
	for _, loanID := range r.order {
		out = append(out, *r.loans[loanID])
	}
	return out, nil
}

func (r *LoanRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.loans), nil
}

func (r *LoanRepository) Update(_ context.Context, loanID string, fn func(l *loanDomain.Loan) error) (*loanDomain.Loan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.loans[loanID]
	if !ok {
		return nil, loanDomain.ErrNotFound
	}
	work := *stored
	if err := fn(&work); err != nil {
		return nil, err
	}
	// id and creation data are fixed once stored
	work.LoanID = stored.LoanID
	work.CreatedAt = stored.CreatedAt
	*stored = work

	out := work
	return &out, nil
}
