package loan

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	domain "bank-loan-service/internal/domain/loan"
	"bank-loan-service/pkg/id"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// maxIDAttempts bounds how often Apply regenerates an id that collided.
const maxIDAttempts = 5

var applicationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "loan_applications_total",
	Help: "Loan applications processed, labeled by outcome",
}, []string{"outcome"})

type Usecase struct {
	repo  domain.Repository
	log   *zap.Logger
	newID func() string
	now   func() time.Time
}

func NewUsecase(r domain.Repository, log *zap.Logger) *Usecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{
		repo:  r,
		log:   log,
		newID: id.NewID32,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// validate applies the presence checks first, then positivity. A zero
// amount or term is treated as absent.
func validate(in ApplyInput) error {
	if strings.TrimSpace(in.CustomerName) == "" || in.Amount == 0 || in.TermMonths == 0 {
		return domain.Errorf(domain.ErrValidation, "missing required fields: customerName, amount, termMonths")
	}
	if in.Amount <= 0 {
		return domain.Errorf(domain.ErrValidation, "loan amount must be positive")
	}
	if in.TermMonths <= 0 {
		return domain.Errorf(domain.ErrValidation, "loan term must be positive")
	}
	return nil
}

func (u *Usecase) Apply(ctx context.Context, in ApplyInput) (*LoanDTO, error) {
	if err := validate(in); err != nil {
		applicationsTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}

	rate := domain.DefaultInterestRate
	if in.InterestRate != nil {
		rate = *in.InterestRate
	}

	payment, err := domain.MonthlyPayment(in.Amount, in.TermMonths, rate)
	if err != nil {
		applicationsTotal.WithLabelValues("invalid").Inc()
		return nil, domain.Errorf(domain.ErrValidation, "interest rate %v produces an undefined monthly payment", rate)
	}

	l := &domain.Loan{
		CustomerName:   in.CustomerName,
		Amount:         in.Amount,
		TermMonths:     in.TermMonths,
		InterestRate:   rate,
		Status:         domain.StatusPending,
		MonthlyPayment: payment,
		CreatedAt:      u.now(),
	}

	for attempt := 1; ; attempt++ {
		l.LoanID = u.newID()
		err = u.repo.Create(ctx, l)
		if err == nil {
			break
		}
		if !errors.Is(err, domain.ErrDuplicateID) {
			applicationsTotal.WithLabelValues("error").Inc()
			return nil, err
		}
		u.log.Warn("loan id collision, regenerating", zap.String("loan_id", l.LoanID), zap.Int("attempt", attempt))
		if attempt == maxIDAttempts {
			applicationsTotal.WithLabelValues("error").Inc()
			return nil, fmt.Errorf("allocate loan id after %d attempts: %w", attempt, err)
		}
	}

	applicationsTotal.WithLabelValues("accepted").Inc()
	u.log.Info("loan application accepted",
		zap.String("loan_id", l.LoanID),
		zap.Float64("amount", l.Amount),
		zap.Int("term_months", l.TermMonths),
		zap.Float64("monthly_payment", l.MonthlyPayment),
	)
	return ToDTO(l), nil
}

func (u *Usecase) Get(ctx context.Context, loanID string) (*LoanDTO, error) {
	l, err := u.repo.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	return ToDTO(l), nil
}

// List returns every loan in insertion order together with the total.
func (u *Usecase) List(ctx context.Context) ([]LoanDTO, int, error) {
	loans, err := u.repo.List(ctx)
	if err != nil {
		return nil, 0, err
	}
	out := make([]LoanDTO, 0, len(loans))
	for i := range loans {
		out = append(out, *ToDTO(&loans[i]))
	}
	return out, len(out), nil
}

func (u *Usecase) Count(ctx context.Context) (int, error) { return u.repo.Count(ctx) }
