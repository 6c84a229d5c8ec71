package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"libraryhub/internal/microservices/http-api/dto"
	"libraryhub/internal/microservices/http-api/middleware"
	"libraryhub/internal/microservices/http-api/service"
)

// AdminHandler serves the inventory discrepancy ledger and staff roles.
type AdminHandler struct {
	svc    service.ReconciliationService
	auth   service.AuthService
	logger *slog.Logger
}

func NewAdminHandler(svc service.ReconciliationService, auth service.AuthService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{svc: svc, auth: auth, logger: logger}
}

func (h *AdminHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.Use(middleware.RequireAdmin())
	rg.GET("/discrepancies", h.ListDiscrepancies)
	rg.POST("/discrepancies/:discrepancy_id/resolve", h.Resolve)
	rg.PUT("/users/:user_id/role", h.SetRole)
}

// ListDiscrepancies returns unresolved entries, or all with ?all=true.
func (h *AdminHandler) ListDiscrepancies(c *gin.Context) {
	list := h.svc.Pending
	if c.Query("all") == "true" {
		list = h.svc.All
	}

	items, err := list(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": len(items)})
}

func (h *AdminHandler) Resolve(c *gin.Context) {
	id, ok := parseID(c, "discrepancy_id")
	if !ok {
		return
	}
	var req dto.ResolveDiscrepancyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	d, err := h.svc.Resolve(c.Request.Context(), id, req.Apply)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// SetRole promotes or demotes a staff account. Tokens already issued keep
// their old scopes until they expire.
func (h *AdminHandler) SetRole(c *gin.Context) {
	var req dto.SetRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	user, err := h.auth.SetRole(c.Request.Context(), c.Param("user_id"), req.Role)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	h.logger.Info("staff role changed", "user_id", user.ID, "role", user.Role)
	c.JSON(http.StatusOK, dto.RegisterResponse{ID: user.ID, Email: user.Email, Role: user.Role})
}
