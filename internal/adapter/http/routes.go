package http

import (
	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo, h *Handler, lh *LoanHandler) {
	e.GET("/", h.Root)
	e.GET("/health", h.Health)

	loans := e.Group("/loans")
	loans.POST("/apply", lh.ApplyLoan)
	loans.GET("", lh.ListLoans)
	loans.GET("/:loanId", lh.GetLoan)
	loans.PUT("/:loanId/approve", lh.ApproveLoan)
	loans.PUT("/:loanId/reject", lh.RejectLoan)
}
