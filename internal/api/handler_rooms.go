package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"joybor-backend/internal/authz"
	"joybor-backend/internal/model"
)

// ListRooms returns the rooms visible to the caller, optionally filtered
// by floor.
func (h *Handler) ListRooms(c *gin.Context) {
	caller, ok := h.require(c, authz.ActionList, authz.ResourceRoom)
	if !ok {
		return
	}
	var floorID *int64
	if raw := c.Query("floor_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid floor_id"})
			return
		}
		floorID = &id
	}
	rooms, err := h.store.ListRooms(c.Request.Context(), caller, floorID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rooms)
}

// GetRoom returns one room.
func (h *Handler) GetRoom(c *gin.Context) {
	caller, ok := h.require(c, authz.ActionRead, authz.ResourceRoom)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	r, err := h.store.GetRoom(c.Request.Context(), caller, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

type roomRequest struct {
	FloorID          int64  `json:"floor_id" binding:"required"`
	RoomNumber       string `json:"room_number" binding:"required"`
	Capacity         int    `json:"capacity" binding:"required,min=1"`
	CurrentOccupancy int    `json:"current_occupancy"`
	Status           string `json:"status"`
	Description      string `json:"description"`
}

// CreateRoom adds a room on a floor the caller administers. The dormitory
// is derived from the floor, never taken from the request.
func (h *Handler) CreateRoom(c *gin.Context) {
	caller, ok := h.require(c, authz.ActionCreate, authz.ResourceRoom)
	if !ok {
		return
	}
	var req roomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	r := model.Room{
		FloorID:          req.FloorID,
		RoomNumber:       req.RoomNumber,
		Capacity:         req.Capacity,
		CurrentOccupancy: req.CurrentOccupancy,
		Status:           model.RoomStatus(req.Status),
		Description:      req.Description,
	}
	if err := h.store.CreateRoom(c.Request.Context(), caller, &r); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

// UpdateRoom edits a room of a dormitory the caller administers.
func (h *Handler) UpdateRoom(c *gin.Context) {
	caller, ok := h.require(c, authz.ActionUpdate, authz.ResourceRoom)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req roomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	r, err := h.store.GetRoom(c.Request.Context(), caller, id)
	if err != nil {
		fail(c, err)
		return
	}
	r.RoomNumber = req.RoomNumber
	r.Capacity = req.Capacity
	r.CurrentOccupancy = req.CurrentOccupancy
	r.Status = model.RoomStatus(req.Status)
	r.Description = req.Description

	if err := h.store.SaveRoom(c.Request.Context(), caller, r); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// DeleteRoom removes a room.
func (h *Handler) DeleteRoom(c *gin.Context) {
	caller, ok := h.require(c, authz.ActionDelete, authz.ResourceRoom)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.store.DeleteRoom(c.Request.Context(), caller, id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type adjustOccupancyRequest struct {
	Delta int `json:"delta" binding:"required"`
}

// AdjustRoomOccupancy moves a room's occupancy by a signed delta. The store
// runs the change under a row lock so concurrent adjustments cannot
// overshoot capacity.
func (h *Handler) AdjustRoomOccupancy(c *gin.Context) {
	caller, ok := h.require(c, authz.ActionUpdate, authz.ResourceRoom)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req adjustOccupancyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	room, err := h.store.AdjustRoomOccupancy(c.Request.Context(), caller, id, req.Delta)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

// UploadRoomImage stores an image file for a room.
func (h *Handler) UploadRoomImage(c *gin.Context) {
	caller, ok := h.require(c, authz.ActionUpdate, authz.ResourceRoom)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	url, ok := h.formFileUpload(c, "rooms")
	if !ok {
		return
	}
	img := model.RoomImage{RoomID: id, ImageURL: url}
	if err := h.store.AddRoomImage(c.Request.Context(), caller, &img); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, img)
}
