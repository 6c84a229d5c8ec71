package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"libraryhub/internal/microservices/http-api/dto"
	"libraryhub/internal/microservices/http-api/middleware"
	"libraryhub/internal/microservices/http-api/service"
)

// LibraryHandler exposes borrowing and returning.
type LibraryHandler struct {
	svc    service.LoanService
	logger *slog.Logger
}

func NewLibraryHandler(svc service.LoanService, logger *slog.Logger) *LibraryHandler {
	return &LibraryHandler{svc: svc, logger: logger}
}

func (h *LibraryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/serve", middleware.RequireScopes("loans:write"), h.Serve)
	rg.POST("/return", middleware.RequireScopes("loans:write"), h.Return)
	rg.GET("/info/:reader_id", middleware.RequireScopes("readers:read"), h.Info)
	rg.GET("/:loan_id", middleware.RequireScopes("readers:read"), h.Get)
}

// Serve lends a book to a reader.
func (h *LibraryHandler) Serve(c *gin.Context) {
	var req dto.ServeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	res, err := h.svc.Serve(c.Request.Context(), req.BookID, req.ReaderID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	if res.IsRejected() {
		writeRejection(c, res.Rejection)
		return
	}
	c.JSON(http.StatusCreated, dto.NewLoanResponse(res.Loan))
}

func (h *LibraryHandler) Return(c *gin.Context) {
	var req dto.ReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	res, err := h.svc.Return(c.Request.Context(), req.LoanID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	if res.IsRejected() {
		writeRejection(c, res.Rejection)
		return
	}
	c.JSON(http.StatusOK, dto.NewLoanResponse(res.Loan))
}

func (h *LibraryHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "loan_id")
	if !ok {
		return
	}

	loan, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewLoanResponse(loan))
}

// Info lists the books a reader currently holds.
func (h *LibraryHandler) Info(c *gin.Context) {
	id, ok := parseID(c, "reader_id")
	if !ok {
		return
	}

	books, err := h.svc.Holdings(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.HoldingsResponse{ReaderID: id, Books: dto.NewBookResponses(books)})
}
