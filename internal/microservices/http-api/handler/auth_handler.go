package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"libraryhub/internal/microservices/http-api/dto"
	"libraryhub/internal/microservices/http-api/service"
)

type AuthHandler struct {
	authService service.AuthService
	logger      *slog.Logger
}

func NewAuthHandler(authService service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, logger: logger}
}

func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/register", h.Register)
	rg.POST("/login", h.Login)
	rg.POST("/refresh", h.Refresh)
	rg.POST("/revoke", h.Revoke)
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, dto.RegisterResponse{ID: user.ID, Email: user.Email, Role: user.Role})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	pair, user, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) || errors.Is(err, service.ErrAccountDisabled) {
			abortWith(c, http.StatusUnauthorized, KindUnauthorized, badCredentialsText)
			return
		}
		writeError(c, h.logger, err)
		return
	}

	resp := authResponse(pair)
	resp.UserID = user.ID
	resp.Role = user.Role
	c.JSON(http.StatusOK, resp)
}

// Refresh rotates the refresh token and issues a new access token.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	pair, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, service.ErrInvalidToken) || errors.Is(err, service.ErrExpiredToken) || errors.Is(err, service.ErrAccountDisabled) {
			abortWith(c, http.StatusUnauthorized, KindUnauthorized, err.Error())
			return
		}
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, authResponse(pair))
}

func (h *AuthHandler) Revoke(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	// unknown tokens get the same answer so the endpoint can't be used to probe them
	if err := h.authService.Revoke(c.Request.Context(), req.RefreshToken); err != nil && !errors.Is(err, service.ErrInvalidToken) {
		h.logger.Warn("refresh token revocation failed", "error", err)
	}
	c.JSON(http.StatusOK, gin.H{"message": "Refresh token revoked"})
}

func authResponse(pair *service.TokenPair) dto.AuthResponse {
	return dto.AuthResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
		ExpiresIn:    int64(time.Until(pair.ExpiresAt).Round(time.Second).Seconds()),
	}
}
