package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/OldStager01/cloudguard-ml/internal/auth"
	"github.com/OldStager01/cloudguard-ml/pkg/config"
)

type AuthHandler struct {
	authService *auth.Service
	cfg         config.APIConfig
}

func NewAuthHandler(authService *auth.Service, cfg config.APIConfig) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cfg:         cfg,
	}
}

type TokenRequest struct {
	ServiceID string `json:"service_id" binding:"required"`
	Secret    string `json:"secret" binding:"required"`
}

type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
	ServiceID string `json:"service_id"`
}

// Token exchanges the configured service credentials for a bearer token.
func (h *AuthHandler) Token(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if req.ServiceID != h.cfg.ServiceID || !auth.CheckSecret(req.Secret, h.cfg.ServiceSecretHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := h.authService.GenerateToken(req.ServiceID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, TokenResponse{
		Token:     token,
		ExpiresIn: int(h.authService.TokenDuration().Seconds()),
		ServiceID: req.ServiceID,
	})
}
