package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"joybor-backend/internal/authz"
	"joybor-backend/internal/model"
)

// ListApplications returns applications in the caller's scope, optionally
// filtered by status.
func (h *Handler) ListApplications(c *gin.Context) {
	caller, ok := h.require(c, authz.ActionList, authz.ResourceApplication)
	if !ok {
		return
	}
	var status *model.ApplicationStatus
	if raw := c.Query("status"); raw != "" {
		s := model.ApplicationStatus(raw)
		status = &s
	}
	apps, err := h.store.ListApplications(c.Request.Context(), caller, status)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, apps)
}

// GetApplication returns one application in the caller's scope.
func (h *Handler) GetApplication(c *gin.Context) {
	caller, ok := h.require(c, authz.ActionRead, authz.ResourceApplication)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	app, err := h.store.GetApplication(c.Request.Context(), caller, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

type applicationRequest struct {
	DormitoryID    int64  `form:"dormitory_id" json:"dormitory_id" binding:"required"`
	FirstName      string `form:"first_name" json:"first_name" binding:"required"`
	LastName       string `form:"last_name" json:"last_name" binding:"required"`
	MiddleName     string `form:"middle_name" json:"middle_name"`
	FacultyID      *int64 `form:"faculty_id" json:"faculty_id"`
	Province       string `form:"province" json:"province"`
	District       string `form:"district" json:"district"`
	PassportNumber string `form:"passport_number" json:"passport_number" binding:"required,len=9"`
	PhoneNumber    string `form:"phone_number" json:"phone_number"`
	Comment        string `form:"comment" json:"comment"`
}

// CreateApplication submits a housing application for the calling student.
// Accepts JSON or multipart; a multipart "picture" file is stored with the
// application.
func (h *Handler) CreateApplication(c *gin.Context) {
	caller, ok := h.require(c, authz.ActionCreate, authz.ResourceApplication)
	if !ok {
		return
	}
	var req applicationRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	app := model.Application{
		StudentID:      caller.ID,
		DormitoryID:    req.DormitoryID,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		MiddleName:     req.MiddleName,
		FacultyID:      req.FacultyID,
		Province:       req.Province,
		District:       req.District,
		PassportNumber: req.PassportNumber,
		PhoneNumber:    req.PhoneNumber,
		Comment:        req.Comment,
	}

	if file, err := c.FormFile("picture"); err == nil {
		url, err := h.saveUpload(c, file, "applications")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		app.PictureURL = url
	}

	if err := h.store.CreateApplication(c.Request.Context(), &app); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, app)
}

type reviewRequest struct {
	Status string `json:"status" binding:"required,oneof=approved rejected cancelled"`
}

// ReviewApplication moves a pending application to a terminal status.
// Admins approve or reject within their dormitory; the applicant may cancel.
// Approvals and rejections are pushed to the applicant's browser.
func (h *Handler) ReviewApplication(c *gin.Context) {
	caller, ok := h.require(c, authz.ActionUpdate, authz.ResourceApplication)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	app, err := h.store.ReviewApplication(c.Request.Context(), caller, id, model.ApplicationStatus(req.Status))
	if err != nil {
		fail(c, err)
		return
	}

	if h.pool != nil && app.Status != model.ApplicationCancelled {
		h.pool.Dispatch(app.ID)
	}
	c.JSON(http.StatusOK, app)
}

// DeleteApplication removes an application. Students remove their own;
// superadmins anything; admins review instead of deleting.
func (h *Handler) DeleteApplication(c *gin.Context) {
	caller, ok := h.require(c, authz.ActionDelete, authz.ResourceApplication)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.store.DeleteApplication(c.Request.Context(), caller, id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
