package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"libraryhub/internal/microservices/http-api/dto"
	"libraryhub/internal/microservices/http-api/middleware"
	"libraryhub/internal/microservices/http-api/service"
)

type BookHandler struct {
	svc    service.BookService
	logger *slog.Logger
}

func NewBookHandler(svc service.BookService, logger *slog.Logger) *BookHandler {
	return &BookHandler{svc: svc, logger: logger}
}

// RegisterPublicRoutes exposes the catalogue listing without a token.
func (h *BookHandler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
}

func (h *BookHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/full", middleware.RequireScopes("books:read"), h.ListFull)
	rg.GET("/:book_id", middleware.RequireScopes("books:read"), h.Get)
	rg.GET("/:book_id/full", middleware.RequireScopes("books:read"), h.GetFull)

	rg.POST("", middleware.RequireScopes("books:write"), h.Create)
	rg.PUT("/:book_id", middleware.RequireScopes("books:write"), h.Replace)
	rg.PATCH("/:book_id", middleware.RequireScopes("books:write"), h.Patch)
	rg.DELETE("/:book_id", middleware.RequireScopes("books:write"), h.Delete)
}

func (h *BookHandler) List(c *gin.Context) {
	var q dto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeBindError(c, err)
		return
	}

	books, total, err := h.svc.List(c.Request.Context(), q.Page, q.Size)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.PageResponse[dto.BookResponse]{
		Items: dto.NewBookResponses(books),
		Total: total,
		Page:  q.Page,
		Size:  q.Size,
	})
}

// ListFull returns one page of books, each with its loan history.
func (h *BookHandler) ListFull(c *gin.Context) {
	var q dto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeBindError(c, err)
		return
	}
	ctx := c.Request.Context()

	books, total, err := h.svc.List(ctx, q.Page, q.Size)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	items := make([]dto.BookFullResponse, 0, len(books))
	for _, b := range books {
		full, err := h.svc.GetFull(ctx, b.ID)
		if err != nil {
			writeError(c, h.logger, err)
			return
		}
		items = append(items, dto.NewBookFullResponse(full))
	}
	c.JSON(http.StatusOK, dto.PageResponse[dto.BookFullResponse]{Items: items, Total: total, Page: q.Page, Size: q.Size})
}

func (h *BookHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "book_id")
	if !ok {
		return
	}

	book, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewBookResponse(book))
}

func (h *BookHandler) GetFull(c *gin.Context) {
	id, ok := parseID(c, "book_id")
	if !ok {
		return
	}

	book, err := h.svc.GetFull(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewBookFullResponse(book))
}

func (h *BookHandler) Create(c *gin.Context) {
	var in dto.CreateBookRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		writeBindError(c, err)
		return
	}

	book, err := h.svc.Create(c.Request.Context(), in.Input(), in.QuantityOrDefault())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewBookResponse(book))
}

func (h *BookHandler) Replace(c *gin.Context) {
	id, ok := parseID(c, "book_id")
	if !ok {
		return
	}
	var in dto.UpdateBookRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		writeBindError(c, err)
		return
	}

	book, err := h.svc.Replace(c.Request.Context(), id, in.Input())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewBookResponse(book))
}

func (h *BookHandler) Patch(c *gin.Context) {
	id, ok := parseID(c, "book_id")
	if !ok {
		return
	}
	var in dto.PatchBookRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		writeBindError(c, err)
		return
	}

	book, err := h.svc.Patch(c.Request.Context(), id, in.Patch())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewBookResponse(book))
}

func (h *BookHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "book_id")
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
