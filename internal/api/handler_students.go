package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"joybor-backend/internal/authz"
	"joybor-backend/internal/model"
)

// ListStudents returns the housed students in the caller's scope.
func (h *Handler) ListStudents(c *gin.Context) {
	caller, ok := h.require(c, authz.ActionList, authz.ResourceStudent)
	if !ok {
		return
	}
	students, err := h.store.ListStudents(c.Request.Context(), caller)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, students)
}

// GetStudent returns one housed-student record.
func (h *Handler) GetStudent(c *gin.Context) {
	caller, ok := h.require(c, authz.ActionRead, authz.ResourceStudent)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	s, err := h.store.GetStudent(c.Request.Context(), caller, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

type studentRequest struct {
	UserID                int64  `json:"user_id" binding:"required"`
	ApplicationID         *int64 `json:"application_id"`
	FirstName             string `json:"first_name" binding:"required"`
	LastName              string `json:"last_name" binding:"required"`
	MiddleName            string `json:"middle_name"`
	DormitoryID           *int64 `json:"dormitory_id"`
	FacultyID             *int64 `json:"faculty_id"`
	Direction             string `json:"direction"`
	Province              string `json:"province"`
	District              string `json:"district"`
	FloorID               *int64 `json:"floor_id"`
	RoomID                *int64 `json:"room_id"`
	PassportNumber        string `json:"passport_number" binding:"required,len=9"`
	PhoneNumber           string `json:"phone_number"`
	EmergencyContactPhone string `json:"emergency_contact_phone"`
	Discount              string `json:"discount"`
	SocialStatus          string `json:"social_status"`
}

func (r studentRequest) toModel() model.Student {
	return model.Student{
		UserID:                r.UserID,
		ApplicationID:         r.ApplicationID,
		FirstName:             r.FirstName,
		LastName:              r.LastName,
		MiddleName:            r.MiddleName,
		DormitoryID:           r.DormitoryID,
		FacultyID:             r.FacultyID,
		Direction:             r.Direction,
		Province:              r.Province,
		District:              r.District,
		FloorID:               r.FloorID,
		RoomID:                r.RoomID,
		PassportNumber:        r.PassportNumber,
		PhoneNumber:           r.PhoneNumber,
		EmergencyContactPhone: r.EmergencyContactPhone,
		Discount:              r.Discount,
		SocialStatus:          r.SocialStatus,
	}
}

// CreateStudent registers a housed student, normally from an approved
// application.
func (h *Handler) CreateStudent(c *gin.Context) {
	caller, ok := h.require(c, authz.ActionCreate, authz.ResourceStudent)
	if !ok {
		return
	}
	var req studentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s := req.toModel()
	if err := h.store.CreateStudent(c.Request.Context(), caller, &s); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, s)
}

// UpdateStudent edits a housed-student record in the caller's scope.
func (h *Handler) UpdateStudent(c *gin.Context) {
	caller, ok := h.require(c, authz.ActionUpdate, authz.ResourceStudent)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req studentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	existing, err := h.store.GetStudent(c.Request.Context(), caller, id)
	if err != nil {
		fail(c, err)
		return
	}
	s := req.toModel()
	s.ID = existing.ID
	s.CreatedAt = existing.CreatedAt
	if err := h.store.SaveStudent(c.Request.Context(), caller, &s); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// DeleteStudent removes a housed-student record.
func (h *Handler) DeleteStudent(c *gin.Context) {
	caller, ok := h.require(c, authz.ActionDelete, authz.ResourceStudent)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.store.DeleteStudent(c.Request.Context(), caller, id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
