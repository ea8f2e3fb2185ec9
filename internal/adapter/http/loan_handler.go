package http

import (
	"errors"
	"net/http"

	domain "bank-loan-service/internal/domain/loan"
	"bank-loan-service/internal/usecase/approval"
	"bank-loan-service/internal/usecase/loan"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type LoanHandler struct {
	loans     *loan.Usecase
	decisions *approval.Usecase
	log       *zap.Logger
}

func NewLoanHandler(loans *loan.Usecase, decisions *approval.Usecase, log *zap.Logger) *LoanHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &LoanHandler{loans: loans, decisions: decisions, log: log}
}

type applyLoanReq struct {
	CustomerName string   `json:"customerName" validate:"required,notblank"`
	Amount       float64  `json:"amount"       validate:"required,gt=0"`
	TermMonths   int      `json:"termMonths"   validate:"required,gt=0"`
	InterestRate *float64 `json:"interestRate"`
}

type applyLoanResp struct {
	Message string       `json:"message"`
	Loan    loan.LoanDTO `json:"loan"`
}

type getLoanResp struct {
	Loan loan.LoanDTO `json:"loan"`
}

type listLoansResp struct {
	Loans []loan.LoanDTO `json:"loans"`
	Total int            `json:"total"`
}

func (h *LoanHandler) ApplyLoan(c echo.Context) error {
	var req applyLoanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		details := ToFieldErrors(err)
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   applyErrorMessage(details),
			Details: details,
		})
	}

	dto, err := h.loans.Apply(c.Request().Context(), loan.ApplyInput{
		CustomerName: req.CustomerName,
		Amount:       req.Amount,
		TermMonths:   req.TermMonths,
		InterestRate: req.InterestRate,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, applyLoanResp{
		Message: "Loan application submitted successfully",
		Loan:    *dto,
	})
}

func (h *LoanHandler) GetLoan(c echo.Context) error {
	dto, err := h.loans.Get(c.Request().Context(), c.Param("loanId"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, getLoanResp{Loan: *dto})
}

func (h *LoanHandler) ListLoans(c echo.Context) error {
	loans, total, err := h.loans.List(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, listLoansResp{Loans: loans, Total: total})
}

func (h *LoanHandler) ApproveLoan(c echo.Context) error {
	dto, err := h.decisions.Approve(c.Request().Context(), c.Param("loanId"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) RejectLoan(c echo.Context) error {
	dto, err := h.decisions.Reject(c.Request().Context(), c.Param("loanId"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

// fail maps domain errors → HTTP codes. Anything unrecognised is logged and
// reported without detail.
func (h *LoanHandler) fail(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "loan not found"})
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrInvalidState):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}
	h.log.Error("loan request failed",
		zap.String("method", c.Request().Method),
		zap.String("path", c.Request().URL.Path),
		zap.Error(err),
	)
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}
