package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"libraryhub/internal/microservices/http-api/dto"
	"libraryhub/internal/microservices/http-api/middleware"
	"libraryhub/internal/microservices/http-api/service"
)

type ReaderHandler struct {
	svc    service.ReaderService
	logger *slog.Logger
}

func NewReaderHandler(svc service.ReaderService, logger *slog.Logger) *ReaderHandler {
	return &ReaderHandler{svc: svc, logger: logger}
}

func (h *ReaderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", middleware.RequireScopes("readers:read"), h.List)
	rg.GET("/full", middleware.RequireScopes("readers:read"), h.ListFull)
	rg.GET("/:reader_id", middleware.RequireScopes("readers:read"), h.Get)
	rg.GET("/:reader_id/full", middleware.RequireScopes("readers:read"), h.GetFull)
	rg.GET("/:reader_id/actual", middleware.RequireScopes("readers:read"), h.GetActual)

	rg.POST("", middleware.RequireScopes("readers:write"), h.Create)
	rg.PUT("/:reader_id", middleware.RequireScopes("readers:write"), h.Replace)
	rg.PATCH("/:reader_id", middleware.RequireScopes("readers:write"), h.Patch)
	rg.DELETE("/:reader_id", middleware.RequireScopes("readers:write"), h.Delete)
}

func (h *ReaderHandler) List(c *gin.Context) {
	var q dto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeBindError(c, err)
		return
	}

	readers, total, err := h.svc.List(c.Request.Context(), q.Page, q.Size)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.PageResponse[dto.ReaderResponse]{
		Items: dto.NewReaderResponses(readers),
		Total: total,
		Page:  q.Page,
		Size:  q.Size,
	})
}

// ListFull returns one page of readers, each with its loans. ?actual=true
// keeps only unreturned loans.
func (h *ReaderHandler) ListFull(c *gin.Context) {
	var (
		q    dto.PageQuery
		full dto.ReaderFullQuery
	)
	if err := c.ShouldBindQuery(&q); err != nil {
		writeBindError(c, err)
		return
	}
	if err := c.ShouldBindQuery(&full); err != nil {
		writeBindError(c, err)
		return
	}
	ctx := c.Request.Context()

	readers, total, err := h.svc.List(ctx, q.Page, q.Size)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	items := make([]dto.ReaderFullResponse, 0, len(readers))
	for _, r := range readers {
		loaded, err := h.svc.GetFull(ctx, r.ID, full.Actual)
		if err != nil {
			writeError(c, h.logger, err)
			return
		}
		items = append(items, dto.NewReaderFullResponse(loaded))
	}
	c.JSON(http.StatusOK, dto.PageResponse[dto.ReaderFullResponse]{Items: items, Total: total, Page: q.Page, Size: q.Size})
}

func (h *ReaderHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "reader_id")
	if !ok {
		return
	}

	reader, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewReaderResponse(reader))
}

func (h *ReaderHandler) GetFull(c *gin.Context) {
	id, ok := parseID(c, "reader_id")
	if !ok {
		return
	}
	var q dto.ReaderFullQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeBindError(c, err)
		return
	}

	reader, err := h.svc.GetFull(c.Request.Context(), id, q.Actual)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewReaderFullResponse(reader))
}

// GetActual is GetFull with only unreturned loans.
func (h *ReaderHandler) GetActual(c *gin.Context) {
	id, ok := parseID(c, "reader_id")
	if !ok {
		return
	}

	reader, err := h.svc.GetFull(c.Request.Context(), id, true)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewReaderFullResponse(reader))
}

func (h *ReaderHandler) Create(c *gin.Context) {
	var in dto.ReaderRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		writeBindError(c, err)
		return
	}

	reader, err := h.svc.Create(c.Request.Context(), in.Name, in.Email)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewReaderResponse(reader))
}

func (h *ReaderHandler) Replace(c *gin.Context) {
	id, ok := parseID(c, "reader_id")
	if !ok {
		return
	}
	var in dto.ReaderRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		writeBindError(c, err)
		return
	}

	reader, err := h.svc.Replace(c.Request.Context(), id, in.Name, in.Email)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewReaderResponse(reader))
}

func (h *ReaderHandler) Patch(c *gin.Context) {
	id, ok := parseID(c, "reader_id")
	if !ok {
		return
	}
	var in dto.PatchReaderRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		writeBindError(c, err)
		return
	}

	reader, err := h.svc.Patch(c.Request.Context(), id, in.Patch())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewReaderResponse(reader))
}

func (h *ReaderHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "reader_id")
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
