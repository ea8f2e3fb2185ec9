package http

import (
	"bytes"
	"encoding/json"
	"io"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bank-loan-service/internal/adapter/repository/memory"
	domain "bank-loan-service/internal/domain/loan"
	"bank-loan-service/internal/usecase/approval"
	uc "bank-loan-service/internal/usecase/loan"

	"github.com/labstack/echo/v4"
)

// ---- helpers ----

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

func newEchoWithValidator() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func mustJSON(v any) *bytes.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func newLoanHandler(repo domain.Repository) *LoanHandler {
	return NewLoanHandler(uc.NewUsecase(repo, nil), approval.NewUsecase(repo, nil), nil)
}

func newMemoryHandler() (*LoanHandler, *memory.LoanRepository) {
	repo := memory.NewLoanRepository()
	return newLoanHandler(repo), repo
}

func jsonRequest(method, target string, body io.Reader) *stdhttp.Request {
	req := httptest.NewRequest(method, target, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("bad json: %v; raw=%s", err, rec.Body.String())
	}
	return out
}
