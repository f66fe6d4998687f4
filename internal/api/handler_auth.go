package api

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"joybor-backend/internal/authn"
	"joybor-backend/internal/authz"
	"joybor-backend/internal/model"
	"joybor-backend/internal/mw"
)

type registerRequest struct {
	Username  string `json:"username" binding:"required,min=3,max=150"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type tokenPairResponse struct {
	Access  string      `json:"access"`
	Refresh string      `json:"refresh"`
	User    *model.User `json:"user"`
}

// Register creates a new student account. Admin accounts are only created
// by a superadmin through CreateDormitoryAdmin.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hash, err := authn.HashPassword(req.Password)
	if err != nil {
		fail(c, err)
		return
	}

	user := model.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         model.RoleStudent,
		Status:       model.UserActive,
	}
	if err := h.store.CreateUser(c.Request.Context(), &user); err != nil {
		fail(c, err)
		return
	}

	access, refresh, err := h.issuer.IssuePair(&user)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, tokenPairResponse{Access: access, Refresh: refresh, User: &user})
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login verifies credentials and returns an access/refresh token pair.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.store.GetUserByUsername(c.Request.Context(), req.Username)
	if err != nil || !authn.CheckPassword(user.PasswordHash, req.Password) {
		// Identical response for unknown user and wrong password.
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	if user.Status != model.UserActive {
		c.JSON(http.StatusForbidden, gin.H{"error": "account is not active"})
		return
	}

	access, refresh, err := h.issuer.IssuePair(user)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tokenPairResponse{Access: access, Refresh: refresh, User: user})
}

type refreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

// Refresh exchanges a valid refresh token for a new token pair. The account
// is re-checked so a blocked user cannot keep refreshing.
func (h *Handler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	claims, err := h.issuer.Parse(req.Refresh, authn.KindRefresh)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired refresh token"})
		return
	}

	user, err := h.store.GetUser(c.Request.Context(), claims.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "account no longer exists"})
		return
	}
	if user.Status != model.UserActive {
		c.JSON(http.StatusForbidden, gin.H{"error": "account is not active"})
		return
	}

	access, refresh, err := h.issuer.IssuePair(user)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tokenPairResponse{Access: access, Refresh: refresh, User: user})
}

// Me returns the authenticated account.
func (h *Handler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, mw.CurrentUser(c))
}

type changePasswordRequest struct {
	OldPassword     string `json:"old_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=NewPassword"`
}

// ChangePassword sets a new password after verifying the current one.
func (h *Handler) ChangePassword(c *gin.Context) {
	user := mw.CurrentUser(c)

	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !authn.CheckPassword(user.PasswordHash, req.OldPassword) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "old password is incorrect"})
		return
	}

	hash, err := authn.HashPassword(req.NewPassword)
	if err != nil {
		fail(c, err)
		return
	}
	if err := h.store.SetPassword(c.Request.Context(), user.ID, hash); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": "password changed"})
}

type resetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// RequestPasswordReset issues a single-use reset token for the account
// behind the email. The response never reveals whether the email exists.
func (h *Handler) RequestPasswordReset(c *gin.Context) {
	var req resetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := authn.NewResetToken()
	if err != nil {
		fail(c, err)
		return
	}

	expires := time.Now().Add(h.auth.ResetTokenTTL)
	user, err := h.store.SetResetToken(c.Request.Context(), req.Email, token, expires)
	if err == nil {
		// Delivery is out of band; the token is only logged here.
		log.Printf("password reset token issued for user %d", user.ID)
	}

	c.JSON(http.StatusOK, gin.H{"detail": "if the email exists, a reset link has been sent"})
}

type resetConfirmRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// ConfirmPasswordReset consumes a reset token and sets the new password.
func (h *Handler) ConfirmPasswordReset(c *gin.Context) {
	var req resetConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hash, err := authn.HashPassword(req.NewPassword)
	if err != nil {
		fail(c, err)
		return
	}
	if err := h.store.ConsumeResetToken(c.Request.Context(), req.Token, hash); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": "password has been reset"})
}

type createAdminRequest struct {
	Username  string `json:"username" binding:"required,min=3,max=150"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// CreateDormitoryAdmin creates an admin account. Superadmin only; the new
// admin is attached to a dormitory by setting its admin through the
// dormitory endpoints.
func (h *Handler) CreateDormitoryAdmin(c *gin.Context) {
	caller := mw.CurrentUser(c)
	if !authz.IsSuperAdmin(caller) {
		c.JSON(http.StatusForbidden, gin.H{"error": "operation not permitted for your role"})
		return
	}

	var req createAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hash, err := authn.HashPassword(req.Password)
	if err != nil {
		fail(c, err)
		return
	}

	user := model.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         model.RoleAdmin,
		Status:       model.UserActive,
	}
	if err := h.store.CreateUser(c.Request.Context(), &user); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}
