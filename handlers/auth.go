package handlers

import (
	"net/http"

	"canteen-api/identity"
	"canteen-api/middleware"
	"canteen-api/services"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type GoogleLoginRequest struct {
	Token string `json:"token" binding:"required"`
}

type AuthHandler struct {
	verifier  identity.Verifier
	directory *services.Directory
	sessions  *middleware.Sessions
}

func NewAuthHandler(v identity.Verifier, d *services.Directory, s *middleware.Sessions) *AuthHandler {
	return &AuthHandler{verifier: v, directory: d, sessions: s}
}

// GoogleLogin exchanges a Google ID token for the application user, registering
// first-time callers.
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Google auth failed"})
		return
	}

	id, err := h.verifier.Verify(c.Request.Context(), req.Token)
	if err != nil {
		zerolog.Ctx(c.Request.Context()).Info().Err(err).Msg("google token rejected")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Google auth failed"})
		return
	}

	user, err := h.directory.LoginOrRegister(c.Request.Context(), id.Email, id.Name)
	if err != nil {
		respondError(c, "Login", err)
		return
	}

	token, err := h.sessions.GenerateToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":         user.ID,
			"name":       user.Name,
			"email":      user.Email,
			"role":       user.Role,
			"canteen_id": user.CanteenID,
		},
		"token": token,
	})
}
