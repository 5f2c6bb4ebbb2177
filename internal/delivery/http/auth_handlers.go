package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name"`
	Password string `json:"password" binding:"required,min=8"`
}

type verifyRequest struct {
	Token string `json:"token" binding:"required"`
	Code  string `json:"code" binding:"required,len=6"`
}

type resendRequest struct {
	Token string `json:"token" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register creates an inactive account and emails a verification code.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pending, err := h.auth.Register(c.Request.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, pending)
}

// VerifyOTP activates an account with the emailed code and opens a session.
func (h *Handler) VerifyOTP(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.auth.VerifyOTP(c.Request.Context(), req.Token, req.Code)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ResendOTP issues a fresh verification code for a pending registration.
func (h *Handler) ResendOTP(c *gin.Context) {
	var req resendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.auth.ResendOTP(c.Request.Context(), req.Token); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "verification code sent"})
}

// Login authenticates with email and password. An unverified account gets
// 403 plus a pending verification to resume.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, pending, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if pending != nil {
			c.JSON(http.StatusForbidden, gin.H{
				"error":   err.Error(),
				"pending": pending,
			})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Logout deletes the session behind the bearer token.
func (h *Handler) Logout(c *gin.Context) {
	if err := h.auth.Logout(c.Request.Context(), bearerToken(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Me returns the authenticated user.
func (h *Handler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, currentUser(c))
}

// GoogleLogin hands the client the Google consent-screen URL.
func (h *Handler) GoogleLogin(c *gin.Context) {
	url, err := h.auth.GoogleLoginURL()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"authUrl": url})
}

// GoogleCallback finishes Google sign-in. The account still verifies by
// OTP, so the response carries the pending verification, not a session.
func (h *Handler) GoogleCallback(c *gin.Context) {
	state := c.Query("state")
	code := c.Query("code")
	if state == "" || code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing state or code"})
		return
	}

	pending, err := h.auth.GoogleCallback(c.Request.Context(), state, code)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pending)
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}
