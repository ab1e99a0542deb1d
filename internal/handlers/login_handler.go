package handlers

import (
	"errors"
	"net/http"

	"go-pos-inventory/internal/auth"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginHandler issues tokens for the configured operators.
type LoginHandler struct {
	issuer   *auth.TokenIssuer
	accounts *auth.Accounts
	log      *zap.Logger
}

func NewLoginHandler(issuer *auth.TokenIssuer, accounts *auth.Accounts, log *zap.Logger) *LoginHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &LoginHandler{issuer: issuer, accounts: accounts, log: log}
}

func (h *LoginHandler) Login(c *gin.Context) {
	var input LoginRequest
	// 1. Validate Input JSON
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	// 2. Verify Password (Bcrypt)
	role, err := h.accounts.Authenticate(input.Username, input.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		h.log.Warn("Rejected login", zap.String("username", input.Username))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify credentials"})
		return
	}

	// 3. Generate JWT Token
	token, expiresAt, err := h.issuer.GenerateToken(input.Username, role)
	if err != nil {
		h.log.Error("Token signing failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	// 4. Success! Return Token and Role
	c.JSON(http.StatusOK, gin.H{
		"token":     token,
		"role":      role,
		"username":  input.Username,
		"expiresAt": expiresAt,
	})
}
