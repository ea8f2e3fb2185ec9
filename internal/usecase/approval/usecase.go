package approval

import (
	"context"

	domainLoan "bank-loan-service/internal/domain/loan"
	loanuc "bank-loan-service/internal/usecase/loan"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

var decisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "loan_decisions_total",
	Help: "Loan decisions applied, labeled by action and resulting status",
}, []string{"action", "status"})

type Usecase struct {
	loanRepo domainLoan.Repository
	log      *zap.Logger
}

func NewUsecase(loans domainLoan.Repository, log *zap.Logger) *Usecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{loanRepo: loans, log: log}
}

// Approve decides a pending loan. Amounts above the auto-approval ceiling
// are rejected instead.
func (u *Usecase) Approve(ctx context.Context, loanID string) (*DecisionDTO, error) {
	var msg string
	l, err := u.loanRepo.Update(ctx, loanID, func(l *domainLoan.Loan) error {
		// State guard: only pending loans can be decided
		if !l.IsPending() {
			return domainLoan.Errorf(domainLoan.ErrInvalidState, "loan already %s", l.Status)
		}
		if l.Amount > domainLoan.AutoApprovalCeiling {
			l.Status = domainLoan.StatusRejected
			msg = MsgAutoRejected
			return nil
		}
		l.Status = domainLoan.StatusApproved
		msg = MsgApproved
		return nil
	})
	if err != nil {
		return nil, err
	}

	decisionsTotal.WithLabelValues("approve", string(l.Status)).Inc()
	u.log.Info("loan decided",
		zap.String("loan_id", l.LoanID),
		zap.String("action", "approve"),
		zap.String("status", string(l.Status)),
	)
	return &DecisionDTO{Message: msg, Loan: *loanuc.ToDTO(l)}, nil
}

// Reject sets the loan to REJECTED whatever its current status, including
// a loan that was already approved.
func (u *Usecase) Reject(ctx context.Context, loanID string) (*DecisionDTO, error) {
	var prev domainLoan.Status
	l, err := u.loanRepo.Update(ctx, loanID, func(l *domainLoan.Loan) error {
		prev = l.Status
		l.Status = domainLoan.StatusRejected
		return nil
	})
	if err != nil {
		return nil, err
	}

	decisionsTotal.WithLabelValues("reject", string(l.Status)).Inc()
	u.log.Info("loan decided",
		zap.String("loan_id", l.LoanID),
		zap.String("action", "reject"),
		zap.String("previous_status", string(prev)),
	)
	return &DecisionDTO{Message: MsgRejected, Loan: *loanuc.ToDTO(l)}, nil
}
