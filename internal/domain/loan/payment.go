package loan

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// MonthlyPayment returns the fixed amortized payment for a principal repaid
// over termMonths at annualRatePercent, rounded to cents.
func MonthlyPayment(amount float64, termMonths int, annualRatePercent float64) (float64, error) {
	if termMonths <= 0 {
		return 0, fmt.Errorf("%w: term must be positive", ErrUndefinedPayment)
	}

	monthlyRate := annualRatePercent / 100 / 12
	var payment float64
	if monthlyRate == 0 {
		payment = amount / float64(termMonths)
	} else {
		payment = (amount * monthlyRate) / (1 - math.Pow(1+monthlyRate, -float64(termMonths)))
	}

	if math.IsNaN(payment) || math.IsInf(payment, 0) {
		return 0, fmt.Errorf("%w: rate %v over %d months", ErrUndefinedPayment, annualRatePercent, termMonths)
	}

	rounded, _ := decimal.NewFromFloat(payment).Round(2).Float64()
	return rounded, nil
}
