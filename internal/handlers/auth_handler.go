package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bagaichadharanadm/bagaicha-dharan/internal/middleware"
	"github.com/bagaichadharanadm/bagaicha-dharan/internal/services/auth"
)

type AuthHandler struct {
	service *auth.Service
}

func NewAuthHandler(s *auth.Service) *AuthHandler {
	return &AuthHandler{service: s}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var in auth.RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		writeValidationError(c, "Validation failed. Please check your input.")
		return
	}

	user, err := h.service.Register(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": gin.H{"message": "Registration successful."}, "user": user})
}

// Login issues the session token both as an http-only cookie and in the
// response body, so browser and API clients can use the same endpoint.
func (h *AuthHandler) Login(c *gin.Context) {
	var in auth.LoginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		writeValidationError(c, "Validation failed. Please check your input.")
		return
	}

	token, user, err := h.service.Login(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}

	c.SetCookie(middleware.AuthCookie, token, 86400, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"success": gin.H{"message": "Login successful."},
		"token":   token,
		"user":    user,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(middleware.AuthCookie, "", -1, "/", "", false, true)
	writeSuccess(c, http.StatusOK, "Logged out.")
}
