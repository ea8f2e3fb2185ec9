package sqlite

import (
	"context"
	"errors"
	"time"

	loanDomain "bank-loan-service/internal/domain/loan"

	"gorm.io/gorm"
)

// loanRecord is the table row. It stays private so the numeric key never
// reaches the API.
type loanRecord struct {
	ID             uint64    `gorm:"primaryKey;autoIncrement;column:id"`
	LoanID         string    `gorm:"size:32;not null;uniqueIndex:ux_loans_loan_id;column:loan_id"`
	CustomerName   string    `gorm:"type:text;not null;column:customer_name"`
	Amount         float64   `gorm:"not null;column:amount"`
	TermMonths     int       `gorm:"not null;column:term_months"`
	InterestRate   float64   `gorm:"not null;column:interest_rate"`
	Status         string    `gorm:"type:text;not null;index;column:status"`
	MonthlyPayment float64   `gorm:"not null;column:monthly_payment"`
	CreatedAt      time.Time `gorm:"not null;column:created_at"`
}

func (loanRecord) TableName() string { return "loans" }

func toRecord(l *loanDomain.Loan) loanRecord {
	return loanRecord{
		LoanID:         l.LoanID,
		CustomerName:   l.CustomerName,
		Amount:         l.Amount,
		TermMonths:     l.TermMonths,
		InterestRate:   l.InterestRate,
		Status:         string(l.Status),
		MonthlyPayment: l.MonthlyPayment,
		CreatedAt:      l.CreatedAt.UTC(),
	}
}

func (r loanRecord) toDomain() *loanDomain.Loan {
	return &loanDomain.Loan{
		LoanID:         r.LoanID,
		CustomerName:   r.CustomerName,
		Amount:         r.Amount,
		TermMonths:     r.TermMonths,
		InterestRate:   r.InterestRate,
		Status:         loanDomain.Status(r.Status),
		MonthlyPayment: r.MonthlyPayment,
		CreatedAt:      r.CreatedAt.UTC(),
	}
}

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

// Migrate creates the loans table if it does not exist yet.
func (r *LoanRepository) Migrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&loanRecord{})
}

func (r *LoanRepository) Create(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&loanRecord{}).Where("loan_id = ?", l.LoanID).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return loanDomain.ErrDuplicateID
		}
		rec := toRecord(l)
		if err := tx.Create(&rec).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return loanDomain.ErrDuplicateID
			}
			return err
		}
		return nil
	})
}

func (r *LoanRepository) GetByLoanID(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	var rec loanRecord
	res := r.db.WithContext(ctx).Where("loan_id = ?", loanID).First(&rec)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, loanDomain.ErrNotFound
	}
	if res.Error != nil {
		return nil, res.Error
	}
	return rec.toDomain(), nil
}

func (r *LoanRepository) List(ctx context.Context) ([]loanDomain.Loan, error) {
	var recs []loanRecord
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]loanDomain.Loan, 0, len(recs))
	for _, rec := range recs {
		out = append(out, *rec.toDomain())
	}
	return out, nil
}

func (r *LoanRepository) Count(ctx context.Context) (int, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&loanRecord{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return int(n), nil
}

func (r *LoanRepository) Update(ctx context.Context, loanID string, fn func(l *loanDomain.Loan) error) (*loanDomain.Loan, error) {
	var out *loanDomain.Loan
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec loanRecord
		res := tx.Where("loan_id = ?", loanID).First(&rec)
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return loanDomain.ErrNotFound
		}
		if res.Error != nil {
			return res.Error
		}

		l := rec.toDomain()
		if err := fn(l); err != nil {
			return err
		}

		next := toRecord(l)
		next.ID = rec.ID
		next.LoanID = rec.LoanID
		next.CreatedAt = rec.CreatedAt
		if err := tx.Save(&next).Error; err != nil {
			return err
		}
		out = next.toDomain()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
