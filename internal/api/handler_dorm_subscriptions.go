package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"joybor-backend/internal/authz"
	"joybor-backend/internal/model"
)

// ListDormSubscriptions returns dormitory subscriptions in the caller's
// scope.
func (h *Handler) ListDormSubscriptions(c *gin.Context) {
	caller, ok := h.require(c, authz.ActionList, authz.ResourceDormSubscription)
	if !ok {
		return
	}
	subs, err := h.store.ListDormSubscriptions(c.Request.Context(), caller)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, subs)
}

// GetDormSubscription returns one dormitory subscription.
func (h *Handler) GetDormSubscription(c *gin.Context) {
	caller, ok := h.require(c, authz.ActionRead, authz.ResourceDormSubscription)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	sub, err := h.store.GetDormSubscription(c.Request.Context(), caller, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

type dormSubscriptionRequest struct {
	DormitoryID int64      `json:"dormitory_id" binding:"required"`
	PlanID      *int64     `json:"plan_id"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	IsActive    *bool      `json:"is_active"`
}

// CreateDormSubscription subscribes a dormitory to a billing plan. When the
// end date is omitted it is computed from the plan duration in calendar
// months.
func (h *Handler) CreateDormSubscription(c *gin.Context) {
	caller, ok := h.require(c, authz.ActionCreate, authz.ResourceDormSubscription)
	if !ok {
		return
	}
	var req dormSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sub := model.DormitorySubscription{
		DormitoryID: req.DormitoryID,
		PlanID:      req.PlanID,
		IsActive:    true,
		CreatedByID: caller.ID,
	}
	if req.StartDate != nil {
		sub.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		sub.EndDate = *req.EndDate
	}
	if req.IsActive != nil {
		sub.IsActive = *req.IsActive
	}

	if err := h.store.CreateDormSubscription(c.Request.Context(), caller, &sub); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, sub)
}

// UpdateDormSubscription edits a dormitory subscription. Omitting end_date
// recomputes it from the plan.
func (h *Handler) UpdateDormSubscription(c *gin.Context) {
	caller, ok := h.require(c, authz.ActionUpdate, authz.ResourceDormSubscription)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req dormSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sub, err := h.store.GetDormSubscription(c.Request.Context(), caller, id)
	if err != nil {
		fail(c, err)
		return
	}
	sub.PlanID = req.PlanID
	if req.StartDate != nil {
		sub.StartDate = *req.StartDate
	}
	endDateSupplied := req.EndDate != nil
	if endDateSupplied {
		sub.EndDate = *req.EndDate
	}
	if req.IsActive != nil {
		sub.IsActive = *req.IsActive
	}

	if err := h.store.SaveDormSubscription(c.Request.Context(), caller, sub, endDateSupplied); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

// DeleteDormSubscription removes a dormitory subscription.
func (h *Handler) DeleteDormSubscription(c *gin.Context) {
	caller, ok := h.require(c, authz.ActionDelete, authz.ResourceDormSubscription)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.store.DeleteDormSubscription(c.Request.Context(), caller, id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
