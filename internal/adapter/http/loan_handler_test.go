package http

import (
	"context"
	"encoding/json"
	"errors"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	domain "bank-loan-service/internal/domain/loan"
	loanmock "bank-loan-service/internal/testutil/loanmock"
	uc "bank-loan-service/internal/usecase/loan"

	"github.com/labstack/echo/v4"
)

type applyResp struct {
	Message string     `json:"message"`
	Loan    uc.LoanDTO `json:"loan"`
}

func applyVia(t *testing.T, h *LoanHandler, body any) *httptest.ResponseRecorder {
	t.Helper()
	e := newEchoWithValidator()
	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(stdhttp.MethodPost, "/loans/apply", mustJSON(body)), rec)
	if err := h.ApplyLoan(c); err != nil {
		t.Fatalf("ApplyLoan error: %v", err)
	}
	return rec
}

func withLoanID(e *echo.Echo, method, target, loanID string) (echo.Context, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(method, target, nil), rec)
	c.SetParamNames("loanId")
	c.SetParamValues(loanID)
	return c, rec
}

func TestApplyLoan_Success(t *testing.T) {
	h, repo := newMemoryHandler()

	rec := applyVia(t, h, map[string]any{
		"customerName": "Ada Lovelace",
		"amount":       10000,
		"termMonths":   12,
		"interestRate": 5.0,
	})
	if rec.Code != stdhttp.StatusCreated {
		t.Fatalf("status = %d, want 201; body=%s", rec.Code, rec.Body.String())
	}

	got := decode[applyResp](t, rec)
	if got.Message != "Loan application submitted successfully" {
		t.Fatalf("message = %q", got.Message)
	}
	if got.Loan.CustomerName != "Ada Lovelace" || got.Loan.Amount != 10000 || got.Loan.TermMonths != 12 {
		t.Fatalf("unexpected loan: %+v", got.Loan)
	}
	if got.Loan.MonthlyPayment != 856.07 {
		t.Fatalf("monthlyPayment = %v, want 856.07", got.Loan.MonthlyPayment)
	}
	if got.Loan.Status != string(domain.StatusPending) {
		t.Fatalf("status = %s, want PENDING", got.Loan.Status)
	}
	if n, _ := repo.Count(context.Background()); n != 1 {
		t.Fatalf("stored loans = %d, want 1", n)
	}
}

func TestApplyLoan_LoanJSONHasExactlyPublicFields(t *testing.T) {
	h, _ := newMemoryHandler()
	rec := applyVia(t, h, map[string]any{"customerName": "A", "amount": 500, "termMonths": 6})

	var raw struct {
		Loan map[string]json.RawMessage `json:"loan"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	want := []string{"loanId", "customerName", "amount", "termMonths", "interestRate", "status", "monthlyPayment", "createdAt"}
	if len(raw.Loan) != len(want) {
		t.Fatalf("loan has %d fields, want %d: %s", len(raw.Loan), len(want), rec.Body.String())
	}
	for _, k := range want {
		if _, ok := raw.Loan[k]; !ok {
			t.Fatalf("loan JSON missing %q: %s", k, rec.Body.String())
		}
	}
}

func TestApplyLoan_DefaultInterestRate(t *testing.T) {
	h, _ := newMemoryHandler()
	rec := applyVia(t, h, map[string]any{"customerName": "A", "amount": 10000, "termMonths": 12})
	if rec.Code != stdhttp.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	got := decode[applyResp](t, rec)
	if got.Loan.InterestRate != 5.0 {
		t.Fatalf("interestRate = %v, want 5", got.Loan.InterestRate)
	}
}

func TestApplyLoan_ExplicitZeroRate(t *testing.T) {
	h, _ := newMemoryHandler()
	rec := applyVia(t, h, map[string]any{"customerName": "A", "amount": 1200, "termMonths": 12, "interestRate": 0})
	if rec.Code != stdhttp.StatusCreated {
		t.Fatalf("status = %d, want 201; body=%s", rec.Code, rec.Body.String())
	}
	got := decode[applyResp](t, rec)
	if got.Loan.InterestRate != 0 || got.Loan.MonthlyPayment != 100 {
		t.Fatalf("unexpected loan: %+v", got.Loan)
	}
}

func TestApplyLoan_BindError(t *testing.T) {
	h, _ := newMemoryHandler()
	e := newEchoWithValidator()

	req := jsonRequest(stdhttp.MethodPost, "/loans/apply", strings.NewReader(`{"customerName":`)) // broken JSON
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.ApplyLoan(c); err != nil {
		t.Fatalf("ApplyLoan error: %v", err)
	}
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	er := decode[ErrorResponse](t, rec)
	if er.Error != "invalid body" {
		t.Fatalf("error = %q, want %q", er.Error, "invalid body")
	}
}

func TestApplyLoan_ValidationErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       map[string]any
		wantError  string
		wantField  string
		wantDetail string
	}{
		{
			name:       "missing customer name",
			body:       map[string]any{"amount": 1000, "termMonths": 12},
			wantError:  "missing required fields",
			wantField:  "customerName",
			wantDetail: "is required",
		},
		{
			name:       "blank customer name",
			body:       map[string]any{"customerName": "  ", "amount": 1000, "termMonths": 12},
			wantError:  "missing required fields",
			wantField:  "customerName",
			wantDetail: "is required",
		},
		{
			name:       "zero amount counts as missing",
			body:       map[string]any{"customerName": "A", "amount": 0, "termMonths": 12},
			wantError:  "missing required fields",
			wantField:  "amount",
			wantDetail: "is required",
		},
		{
			name:       "zero term counts as missing",
			body:       map[string]any{"customerName": "A", "amount": 1000, "termMonths": 0},
			wantError:  "missing required fields",
			wantField:  "termMonths",
			wantDetail: "is required",
		},
		{
			name:       "negative amount",
			body:       map[string]any{"customerName": "A", "amount": -1, "termMonths": 12},
			wantError:  "loan amount must be positive",
			wantField:  "amount",
			wantDetail: "greater than 0",
		},
		{
			name:       "negative term",
			body:       map[string]any{"customerName": "A", "amount": 1000, "termMonths": -3},
			wantError:  "loan term must be positive",
			wantField:  "termMonths",
			wantDetail: "greater than 0",
		},
		{
			name:       "missing beats negative",
			body:       map[string]any{"amount": -1, "termMonths": -3},
			wantError:  "missing required fields",
			wantField:  "amount",
			wantDetail: "greater than 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newLoanHandler(&loanmock.Repo{
				CreateFn: func(ctx context.Context, l *domain.Loan) error {
					t.Fatalf("Create must not be called")
					return nil
				},
			})
			rec := applyVia(t, h, tt.body)
			if rec.Code != stdhttp.StatusBadRequest {
				t.Fatalf("status = %d, want 400; body=%s", rec.Code, rec.Body.String())
			}
			er := decode[ErrorResponse](t, rec)
			if !strings.Contains(er.Error, tt.wantError) {
				t.Fatalf("error = %q, want it to contain %q", er.Error, tt.wantError)
			}
			if !containsFieldMsg(er.Details, tt.wantField, tt.wantDetail) {
				t.Fatalf("missing %s/%q detail: %+v", tt.wantField, tt.wantDetail, er.Details)
			}
		})
	}
}

func TestApplyLoan_UndefinedPayment(t *testing.T) {
	h, _ := newMemoryHandler()
	rec := applyVia(t, h, map[string]any{"customerName": "A", "amount": 1000, "termMonths": 12, "interestRate": -2400})
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	er := decode[ErrorResponse](t, rec)
	if !strings.Contains(er.Error, "undefined monthly payment") {
		t.Fatalf("error = %q", er.Error)
	}
}

func TestApplyLoan_StoreFailureIs500(t *testing.T) {
	h := newLoanHandler(&loanmock.Repo{
		CreateFn: func(ctx context.Context, l *domain.Loan) error {
			return errors.New("secret connection string leaked here")
		},
	})
	rec := applyVia(t, h, map[string]any{"customerName": "A", "amount": 1000, "termMonths": 12})
	if rec.Code != stdhttp.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "secret") {
		t.Fatalf("internal error leaked: %s", rec.Body.String())
	}
	er := decode[ErrorResponse](t, rec)
	if er.Error != "internal server error" {
		t.Fatalf("error = %q", er.Error)
	}
}

func TestGetLoan_Success(t *testing.T) {
	const lid = "llllllllllllllllllllllllllllllll"
	h := newLoanHandler(&loanmock.Repo{
		GetByLoanIDFn: func(ctx context.Context, loanID string) (*domain.Loan, error) {
			if loanID != lid {
				return nil, domain.ErrNotFound
			}
			return &domain.Loan{
				LoanID:         loanID,
				CustomerName:   "Ada",
				Amount:         7000,
				TermMonths:     6,
				InterestRate:   5,
				Status:         domain.StatusPending,
				MonthlyPayment: 1184.17,
				CreatedAt:      time.Now().UTC(),
			}, nil
		},
	})

	c, rec := withLoanID(echo.New(), stdhttp.MethodGet, "/loans/"+lid, lid)
	if err := h.GetLoan(c); err != nil {
		t.Fatalf("GetLoan error: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	got := decode[struct {
		Loan uc.LoanDTO `json:"loan"`
	}](t, rec)
	if got.Loan.LoanID != lid {
		t.Fatalf("loanId = %s, want %s", got.Loan.LoanID, lid)
	}
}

func TestGetLoan_NotFound(t *testing.T) {
	h, _ := newMemoryHandler()
	c, rec := withLoanID(echo.New(), stdhttp.MethodGet, "/loans/xxx", "xxx")

	if err := h.GetLoan(c); err != nil {
		t.Fatalf("GetLoan error: %v", err)
	}
	if rec.Code != stdhttp.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	var m map[string]string
	_ = json.Unmarshal(rec.Body.Bytes(), &m)
	if m["error"] != "loan not found" {
		t.Fatalf("error = %q, want %q", m["error"], "loan not found")
	}
}

func TestListLoans(t *testing.T) {
	h, _ := newMemoryHandler()
	e := echo.New()

	list := func() (int, []uc.LoanDTO) {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(stdhttp.MethodGet, "/loans", nil), rec)
		if err := h.ListLoans(c); err != nil {
			t.Fatalf("ListLoans error: %v", err)
		}
		if rec.Code != stdhttp.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		got := decode[struct {
			Loans []uc.LoanDTO `json:"loans"`
			Total int          `json:"total"`
		}](t, rec)
		if !strings.Contains(rec.Body.String(), `"loans":[`) {
			t.Fatalf("loans must be an array: %s", rec.Body.String())
		}
		return got.Total, got.Loans
	}

	if total, loans := list(); total != 0 || len(loans) != 0 {
		t.Fatalf("empty store: total=%d loans=%d", total, len(loans))
	}

	for i := 0; i < 3; i++ {
		applyVia(t, h, map[string]any{"customerName": "A", "amount": 1000 + i, "termMonths": 12})
	}
	total, loans := list()
	if total != 3 || len(loans) != 3 {
		t.Fatalf("total=%d loans=%d, want 3", total, len(loans))
	}
	if loans[0].Amount != 1000 || loans[2].Amount != 1002 {
		t.Fatalf("not in insertion order: %+v", loans)
	}
}

func TestApproveLoan(t *testing.T) {
	tests := []struct {
		name       string
		amount     float64
		wantStatus domain.Status
		wantMsg    string
	}{
		{"under ceiling", 10_000, domain.StatusApproved, "Loan approved successfully"},
		{"over ceiling", 60_000, domain.StatusRejected, "Loan rejected: Amount too high for auto-approval"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newMemoryHandler()
			created := decode[applyResp](t, applyVia(t, h, map[string]any{
				"customerName": "A", "amount": tt.amount, "termMonths": 12,
			}))

			e := echo.New()
			c, rec := withLoanID(e, stdhttp.MethodPut, "/loans/"+created.Loan.LoanID+"/approve", created.Loan.LoanID)
			if err := h.ApproveLoan(c); err != nil {
				t.Fatalf("ApproveLoan error: %v", err)
			}
			if rec.Code != stdhttp.StatusOK {
				t.Fatalf("status = %d, want 200; body=%s", rec.Code, rec.Body.String())
			}
			got := decode[applyResp](t, rec)
			if got.Message != tt.wantMsg || got.Loan.Status != string(tt.wantStatus) {
				t.Fatalf("got %q/%s, want %q/%s", got.Message, got.Loan.Status, tt.wantMsg, tt.wantStatus)
			}

			// second approve is refused whatever the first decided
			c, rec = withLoanID(e, stdhttp.MethodPut, "/loans/x/approve", created.Loan.LoanID)
			if err := h.ApproveLoan(c); err != nil {
				t.Fatalf("ApproveLoan error: %v", err)
			}
			if rec.Code != stdhttp.StatusBadRequest {
				t.Fatalf("second approve status = %d, want 400", rec.Code)
			}
			er := decode[ErrorResponse](t, rec)
			if er.Error != "loan already "+string(tt.wantStatus) {
				t.Fatalf("error = %q", er.Error)
			}
		})
	}
}

func TestApproveLoan_NotFound(t *testing.T) {
	h, _ := newMemoryHandler()
	c, rec := withLoanID(echo.New(), stdhttp.MethodPut, "/loans/nope/approve", "nope")
	if err := h.ApproveLoan(c); err != nil {
		t.Fatalf("ApproveLoan error: %v", err)
	}
	if rec.Code != stdhttp.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestRejectLoan_OverridesApproval(t *testing.T) {
	h, _ := newMemoryHandler()
	created := decode[applyResp](t, applyVia(t, h, map[string]any{"customerName": "A", "amount": 1000, "termMonths": 12}))
	lid := created.Loan.LoanID
	e := echo.New()

	c, rec := withLoanID(e, stdhttp.MethodPut, "/loans/"+lid+"/approve", lid)
	_ = h.ApproveLoan(c)
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("approve status = %d", rec.Code)
	}

	c, rec = withLoanID(e, stdhttp.MethodPut, "/loans/"+lid+"/reject", lid)
	if err := h.RejectLoan(c); err != nil {
		t.Fatalf("RejectLoan error: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	got := decode[applyResp](t, rec)
	if got.Message != "Loan rejected" || got.Loan.Status != string(domain.StatusRejected) {
		t.Fatalf("unexpected response: %+v", got)
	}
}

func TestRejectLoan_NotFound(t *testing.T) {
	h, _ := newMemoryHandler()
	c, rec := withLoanID(echo.New(), stdhttp.MethodPut, "/loans/nope/reject", "nope")
	if err := h.RejectLoan(c); err != nil {
		t.Fatalf("RejectLoan error: %v", err)
	}
	if rec.Code != stdhttp.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
