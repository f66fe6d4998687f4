package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"joybor-backend/internal/authz"
	"joybor-backend/internal/model"
)

// ListFloors returns the floors visible to the caller, optionally filtered
// by dormitory.
func (h *Handler) ListFloors(c *gin.Context) {
	caller, ok := h.require(c, authz.ActionList, authz.ResourceFloor)
	if !ok {
		return
	}
	var dormitoryID *int64
	if raw := c.Query("dormitory_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dormitory_id"})
			return
		}
		dormitoryID = &id
	}
	floors, err := h.store.ListFloors(c.Request.Context(), caller, dormitoryID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, floors)
}

// GetFloor returns one floor.
func (h *Handler) GetFloor(c *gin.Context) {
	caller, ok := h.require(c, authz.ActionRead, authz.ResourceFloor)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	f, err := h.store.GetFloor(c.Request.Context(), caller, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

type floorRequest struct {
	DormitoryID int64  `json:"dormitory_id" binding:"required"`
	FloorNumber int    `json:"floor_number" binding:"required"`
	RoomsCount  int    `json:"rooms_count"`
	GenderType  string `json:"gender_type" binding:"required,oneof=male female"`
	Description string `json:"description"`
}

// CreateFloor adds a floor to a dormitory the caller administers.
func (h *Handler) CreateFloor(c *gin.Context) {
	caller, ok := h.require(c, authz.ActionCreate, authz.ResourceFloor)
	if !ok {
		return
	}
	var req floorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	f := model.Floor{
		DormitoryID: req.DormitoryID,
		FloorNumber: req.FloorNumber,
		RoomsCount:  req.RoomsCount,
		GenderType:  model.GenderType(req.GenderType),
		Description: req.Description,
	}
	if err := h.store.CreateFloor(c.Request.Context(), caller, &f); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, f)
}

// UpdateFloor edits a floor of a dormitory the caller administers.
func (h *Handler) UpdateFloor(c *gin.Context) {
	caller, ok := h.require(c, authz.ActionUpdate, authz.ResourceFloor)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req floorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	f, err := h.store.GetFloor(c.Request.Context(), caller, id)
	if err != nil {
		fail(c, err)
		return
	}
	f.FloorNumber = req.FloorNumber
	f.RoomsCount = req.RoomsCount
	f.GenderType = model.GenderType(req.GenderType)
	f.Description = req.Description

	if err := h.store.SaveFloor(c.Request.Context(), caller, f); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

// DeleteFloor removes a floor and cascades its rooms.
func (h *Handler) DeleteFloor(c *gin.Context) {
	caller, ok := h.require(c, authz.ActionDelete, authz.ResourceFloor)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.store.DeleteFloor(c.Request.Context(), caller, id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
