package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"joybor-backend/internal/authz"
	"joybor-backend/internal/model"
)

// ListPlans returns the dormitory billing plans. Not visible to students.
func (h *Handler) ListPlans(c *gin.Context) {
	caller, ok := h.require(c, authz.ActionList, authz.ResourcePlan)
	if !ok {
		return
	}
	plans, err := h.store.ListPlans(c.Request.Context(), caller)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, plans)
}

// GetPlan returns one billing plan.
func (h *Handler) GetPlan(c *gin.Context) {
	caller, ok := h.require(c, authz.ActionRead, authz.ResourcePlan)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	plan, err := h.store.GetPlan(c.Request.Context(), caller, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

type planRequest struct {
	Name           string  `json:"name" binding:"required"`
	Description    string  `json:"description"`
	Price          float64 `json:"price" binding:"required,gt=0"`
	DurationMonths int     `json:"duration_months" binding:"required,min=1"`
	IsActive       *bool   `json:"is_active"`
}

// CreatePlan adds a billing plan owned by the caller.
func (h *Handler) CreatePlan(c *gin.Context) {
	caller, ok := h.require(c, authz.ActionCreate, authz.ResourcePlan)
	if !ok {
		return
	}
	var req planRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	plan := model.SubscriptionPlanForDormitory{
		Name:           req.Name,
		Description:    req.Description,
		Price:          req.Price,
		DurationMonths: req.DurationMonths,
		IsActive:       true,
		CreatedByID:    caller.ID,
	}
	if req.IsActive != nil {
		plan.IsActive = *req.IsActive
	}
	if err := h.store.CreatePlan(c.Request.Context(), &plan); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

// UpdatePlan edits a billing plan. Only the creator may change a plan,
// superadmins included.
func (h *Handler) UpdatePlan(c *gin.Context) {
	caller, ok := h.require(c, authz.ActionUpdate, authz.ResourcePlan)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req planRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	plan, err := h.store.GetPlan(c.Request.Context(), caller, id)
	if err != nil {
		fail(c, err)
		return
	}
	plan.Name = req.Name
	plan.Description = req.Description
	plan.Price = req.Price
	plan.DurationMonths = req.DurationMonths
	if req.IsActive != nil {
		plan.IsActive = *req.IsActive
	}

	if err := h.store.SavePlan(c.Request.Context(), caller, plan); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// UploadPlanProof attaches a payment proof document to a plan; creator only.
func (h *Handler) UploadPlanProof(c *gin.Context) {
	caller, ok := h.require(c, authz.ActionUpdate, authz.ResourcePlan)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	url, ok := h.formFileUpload(c, "proofs")
	if !ok {
		return
	}

	plan, err := h.store.GetPlan(c.Request.Context(), caller, id)
	if err != nil {
		fail(c, err)
		return
	}
	plan.PaymentProofURL = url
	if err := h.store.SavePlan(c.Request.Context(), caller, plan); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// DeletePlan removes a billing plan; creator only.
func (h *Handler) DeletePlan(c *gin.Context) {
	caller, ok := h.require(c, authz.ActionDelete, authz.ResourcePlan)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.store.DeletePlan(c.Request.Context(), caller, id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
