package auth

import (
	"net/http"

	"dashflow-service/internal/domain/auth"
	"dashflow-service/internal/middleware"
	"dashflow-service/internal/pkg/response"
	service "dashflow-service/internal/service/auth"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register creates a new identity. The returned token is live so the caller
// can insert the matching profile row before signing out again.
func (h *AuthHandler) Register(c *gin.Context) {
	var req auth.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, "failed to register", err)
		return
	}

	response.Success(c, http.StatusCreated, "registered successfully", result)
}

// Login authenticates by email and password.
func (h *AuthHandler) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, "failed to login", err)
		return
	}

	response.Success(c, http.StatusOK, "logged in successfully", result)
}

// Logout invalidates the caller's session and blacklists the token.
func (h *AuthHandler) Logout(c *gin.Context) {
	identityID := middleware.MustGetIdentityID(c)
	jti := middleware.MustGetJTI(c)

	if err := h.authService.Logout(c.Request.Context(), identityID, jti); err != nil {
		response.FromError(c, "failed to logout", err)
		return
	}

	response.Success(c, http.StatusOK, "logged out successfully", nil)
}

// GetSession reports the current session. A missing or expired token is not
// an error here: the response carries a null session instead.
func (h *AuthHandler) GetSession(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		header := c.GetHeader("Authorization")
		if len(header) > 7 && header[:7] == "Bearer " {
			token = header[7:]
		}
	}

	info, err := h.authService.GetSession(c.Request.Context(), token)
	if err != nil {
		response.FromError(c, "failed to get session", err)
		return
	}

	response.Success(c, http.StatusOK, "session retrieved", info)
}

// ResolveUsername maps a team-member username to the login email.
func (h *AuthHandler) ResolveUsername(c *gin.Context) {
	username := c.Param("username")
	if username == "" {
		response.Error(c, http.StatusBadRequest, "username is required", nil)
		return
	}

	email, err := h.authService.ResolveEmailByUsername(c.Request.Context(), username)
	if err != nil {
		response.FromError(c, "failed to resolve username", err)
		return
	}

	response.Success(c, http.StatusOK, "username resolved", gin.H{"email": email})
}

// Me returns the team-member profile of the authenticated identity.
func (h *AuthHandler) Me(c *gin.Context) {
	identityID := middleware.MustGetIdentityID(c)

	profile, err := h.authService.GetProfile(c.Request.Context(), identityID)
	if err != nil {
		response.FromError(c, "failed to load profile", err)
		return
	}

	response.Success(c, http.StatusOK, "profile retrieved", profile)
}
