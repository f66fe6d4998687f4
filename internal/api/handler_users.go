package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"joybor-backend/internal/authz"
	"joybor-backend/internal/model"
	"joybor-backend/internal/store"
)

// ListUsers returns the accounts visible to the caller: everyone for a
// superadmin, only the caller's own account otherwise.
func (h *Handler) ListUsers(c *gin.Context) {
	caller, ok := h.require(c, authz.ActionList, authz.ResourceUser)
	if !ok {
		return
	}
	users, err := h.store.ListUsers(c.Request.Context(), caller)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// GetUser returns a single account. Non-superadmins may only fetch their own.
func (h *Handler) GetUser(c *gin.Context) {
	caller, ok := h.require(c, authz.ActionRead, authz.ResourceUser)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	if !authz.IsSuperAdmin(caller) && id != caller.ID {
		fail(c, store.ErrNotFound)
		return
	}
	user, err := h.store.GetUser(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

type updateUserRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
	Role      *string `json:"role"`
	Status    *string `json:"status"`
}

// UpdateUser edits an account. Role and status changes are only honored for
// a superadmin caller; the store drops them for everyone else.
func (h *Handler) UpdateUser(c *gin.Context) {
	caller, ok := h.require(c, authz.ActionUpdate, authz.ResourceUser)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	upd := store.UserUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	}
	if req.Role != nil {
		role := model.Role(*req.Role)
		upd.Role = &role
	}
	if req.Status != nil {
		status := model.UserStatus(*req.Status)
		upd.Status = &status
	}

	user, err := h.store.UpdateUser(c.Request.Context(), caller, id, upd)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// DeleteUser removes an account. Superadmin only by the capability table.
func (h *Handler) DeleteUser(c *gin.Context) {
	caller, ok := h.require(c, authz.ActionDelete, authz.ResourceUser)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.store.DeleteUser(c.Request.Context(), caller, id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetProfile returns the profile attached to a user account.
func (h *Handler) GetProfile(c *gin.Context) {
	caller, ok := h.require(c, authz.ActionRead, authz.ResourceProfile)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	profile, err := h.store.GetProfile(c.Request.Context(), caller, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

type putProfileRequest struct {
	PhoneNumber string `json:"phone_number" binding:"omitempty,startswith=+998,len=13"`
	PictureURL  string `json:"picture_url"`
}

// PutProfile creates or replaces the profile of a user account.
func (h *Handler) PutProfile(c *gin.Context) {
	caller, ok := h.require(c, authz.ActionUpdate, authz.ResourceProfile)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req putProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile := model.UserProfile{
		UserID:      id,
		PhoneNumber: req.PhoneNumber,
		PictureURL:  req.PictureURL,
	}
	if err := h.store.SaveProfile(c.Request.Context(), caller, &profile); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
