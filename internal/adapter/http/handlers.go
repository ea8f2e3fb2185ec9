package http

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// LoanCounter reports how many loans the service holds.
type LoanCounter interface {
	Count(ctx context.Context) (int, error)
}

type ServiceInfo struct {
	Name    string
	Version string
}

type Handler struct {
	info    ServiceInfo
	loans   LoanCounter
	log     *zap.Logger
	started time.Time
}

func NewHandler(info ServiceInfo, loans LoanCounter, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{info: info, loans: loans, log: log, started: time.Now()}
}

var endpoints = map[string]string{
	"apply_loan":   "POST /loans/apply",
	"get_loan":     "GET /loans/:loanId",
	"list_loans":   "GET /loans",
	"approve_loan": "PUT /loans/:loanId/approve",
	"reject_loan":  "PUT /loans/:loanId/reject",
	"health":       "GET /health",
	"metrics":      "GET /metrics",
}

func (h *Handler) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"service":   h.info.Name,
		"version":   h.info.Version,
		"message":   "Bank Loan Management API is running!",
		"endpoints": endpoints,
	})
}

func (h *Handler) Health(c echo.Context) error {
	body := map[string]any{
		"status":    "healthy",
		"service":   h.info.Name,
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		"uptime":    time.Since(h.started).Seconds(),
	}
	n, err := h.loans.Count(c.Request().Context())
	if err != nil {
		h.log.Error("health: count loans", zap.Error(err))
		body["status"] = "unhealthy"
		return c.JSON(http.StatusServiceUnavailable, body)
	}
	body["totalLoans"] = n
	return c.JSON(http.StatusOK, body)
}
