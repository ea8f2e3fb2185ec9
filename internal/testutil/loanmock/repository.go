package loanmock

import (
	"context"

	domain "bank-loan-service/internal/domain/loan"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Unset functions behave like an empty store.
type Repo struct {
	CreateFn      func(ctx context.Context, l *domain.Loan) error
	GetByLoanIDFn func(ctx context.Context, loanID string) (*domain.Loan, error)
	ListFn        func(ctx context.Context) ([]domain.Loan, error)
	CountFn       func(ctx context.Context) (int, error)
	UpdateFn      func(ctx context.Context, loanID string, fn func(l *domain.Loan) error) (*domain.Loan, error)
}

func (m *Repo) Create(ctx context.Context, l *domain.Loan) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return nil
}

func (m *Repo) GetByLoanID(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDFn != nil {
		return m.GetByLoanIDFn(ctx, loanID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) List(ctx context.Context) ([]domain.Loan, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return []domain.Loan{}, nil
}

func (m *Repo) Count(ctx context.Context) (int, error) {
	if m.CountFn != nil {
		return m.CountFn(ctx)
	}
	return 0, nil
}

func (m *Repo) Update(ctx context.Context, loanID string, fn func(l *domain.Loan) error) (*domain.Loan, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, loanID, fn)
	}
	return nil, domain.ErrNotFound
}

// UpdateOn returns an UpdateFn that runs fn against a copy of l and, on
// success, stores the result back into l.
func UpdateOn(l *domain.Loan) func(ctx context.Context, loanID string, fn func(*domain.Loan) error) (*domain.Loan, error) {
	return func(_ context.Context, loanID string, fn func(*domain.Loan) error) (*domain.Loan, error) {
		if l == nil || l.LoanID != loanID {
			return nil, domain.ErrNotFound
		}
		work := *l
		if err := fn(&work); err != nil {
			return nil, err
		}
		*l = work
		out := work
		return &out, nil
	}
}
