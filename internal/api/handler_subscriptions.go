package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"joybor-backend/internal/authz"
	"joybor-backend/internal/model"
)

// ListStudentSubscriptions returns occupancy subscriptions in the caller's
// scope.
func (h *Handler) ListStudentSubscriptions(c *gin.Context) {
	caller, ok := h.require(c, authz.ActionList, authz.ResourceStudentSub)
	if !ok {
		return
	}
	subs, err := h.store.ListStudentSubscriptions(c.Request.Context(), caller)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, subs)
}

// GetStudentSubscription returns one subscription in the caller's scope.
func (h *Handler) GetStudentSubscription(c *gin.Context) {
	caller, ok := h.require(c, authz.ActionRead, authz.ResourceStudentSub)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	sub, err := h.store.GetStudentSubscription(c.Request.Context(), caller, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

type studentSubscriptionRequest struct {
	PaymentID   *int64    `json:"payment_id"`
	StudentID   int64     `json:"student_id" binding:"required"`
	DormitoryID *int64    `json:"dormitory_id"`
	StartDate   time.Time `json:"start_date" binding:"required"`
	EndDate     time.Time `json:"end_date" binding:"required"`
	IsActive    *bool     `json:"is_active"`
}

// CreateStudentSubscription records a paid occupancy period for a student.
// The named payment, when present, must belong to the same student.
func (h *Handler) CreateStudentSubscription(c *gin.Context) {
	caller, ok := h.require(c, authz.ActionCreate, authz.ResourceStudentSub)
	if !ok {
		return
	}
	var req studentSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sub := model.SubscriptionForStudent{
		PaymentID:   req.PaymentID,
		StudentID:   req.StudentID,
		DormitoryID: req.DormitoryID,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		IsActive:    true,
		CreatedByID: caller.ID,
	}
	if req.IsActive != nil {
		sub.IsActive = *req.IsActive
	}
	if err := h.store.CreateStudentSubscription(c.Request.Context(), caller, &sub); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, sub)
}

// UpdateStudentSubscription edits a subscription in the caller's scope.
func (h *Handler) UpdateStudentSubscription(c *gin.Context) {
	caller, ok := h.require(c, authz.ActionUpdate, authz.ResourceStudentSub)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req studentSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sub, err := h.store.GetStudentSubscription(c.Request.Context(), caller, id)
	if err != nil {
		fail(c, err)
		return
	}
	sub.PaymentID = req.PaymentID
	sub.StudentID = req.StudentID
	sub.DormitoryID = req.DormitoryID
	sub.StartDate = req.StartDate
	sub.EndDate = req.EndDate
	if req.IsActive != nil {
		sub.IsActive = *req.IsActive
	}

	if err := h.store.SaveStudentSubscription(c.Request.Context(), caller, sub); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

// DeleteStudentSubscription removes a subscription.
func (h *Handler) DeleteStudentSubscription(c *gin.Context) {
	caller, ok := h.require(c, authz.ActionDelete, authz.ResourceStudentSub)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.store.DeleteStudentSubscription(c.Request.Context(), caller, id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
