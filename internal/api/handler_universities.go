package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"joybor-backend/internal/authz"
	"joybor-backend/internal/model"
)

// ListUniversities returns the university directory.
func (h *Handler) ListUniversities(c *gin.Context) {
	if _, ok := h.require(c, authz.ActionList, authz.ResourceUniversity); !ok {
		return
	}
	universities, err := h.store.ListUniversities(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, universities)
}

// GetUniversity returns one university with its faculties.
func (h *Handler) GetUniversity(c *gin.Context) {
	if _, ok := h.require(c, authz.ActionRead, authz.ResourceUniversity); !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	u, err := h.store.GetUniversity(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

type universityRequest struct {
	Name        string `json:"name" binding:"required"`
	City        string `json:"city"`
	Address     string `json:"address"`
	Description string `json:"description"`
	ContactInfo string `json:"contact_info"`
	Website     string `json:"website"`
	LogoURL     string `json:"logo_url"`
}

// CreateUniversity adds a university to the directory. Superadmin only.
func (h *Handler) CreateUniversity(c *gin.Context) {
	if _, ok := h.require(c, authz.ActionCreate, authz.ResourceUniversity); !ok {
		return
	}
	var req universityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u := model.University{
		Name:        req.Name,
		City:        req.City,
		Address:     req.Address,
		Description: req.Description,
		ContactInfo: req.ContactInfo,
		Website:     req.Website,
		LogoURL:     req.LogoURL,
	}
	if err := h.store.CreateUniversity(c.Request.Context(), &u); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

// UpdateUniversity replaces the editable fields of a university.
func (h *Handler) UpdateUniversity(c *gin.Context) {
	if _, ok := h.require(c, authz.ActionUpdate, authz.ResourceUniversity); !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req universityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	u, err := h.store.GetUniversity(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	u.Name = req.Name
	u.City = req.City
	u.Address = req.Address
	u.Description = req.Description
	u.ContactInfo = req.ContactInfo
	u.Website = req.Website
	u.LogoURL = req.LogoURL
	if err := h.store.SaveUniversity(c.Request.Context(), u); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// DeleteUniversity removes a university and cascades its faculties.
func (h *Handler) DeleteUniversity(c *gin.Context) {
	if _, ok := h.require(c, authz.ActionDelete, authz.ResourceUniversity); !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.store.DeleteUniversity(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListFaculties returns faculties, optionally filtered by university.
func (h *Handler) ListFaculties(c *gin.Context) {
	if _, ok := h.require(c, authz.ActionList, authz.ResourceFaculty); !ok {
		return
	}
	var universityID *int64
	if raw := c.Query("university_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid university_id"})
			return
		}
		universityID = &id
	}
	faculties, err := h.store.ListFaculties(c.Request.Context(), universityID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, faculties)
}

// GetFaculty returns one faculty.
func (h *Handler) GetFaculty(c *gin.Context) {
	if _, ok := h.require(c, authz.ActionRead, authz.ResourceFaculty); !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	f, err := h.store.GetFaculty(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

type facultyRequest struct {
	UniversityID int64  `json:"university_id" binding:"required"`
	Name         string `json:"name" binding:"required"`
}

// CreateFaculty adds a faculty under a university. Superadmin only.
func (h *Handler) CreateFaculty(c *gin.Context) {
	if _, ok := h.require(c, authz.ActionCreate, authz.ResourceFaculty); !ok {
		return
	}
	var req facultyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	f := model.Faculty{UniversityID: req.UniversityID, Name: req.Name}
	if err := h.store.CreateFaculty(c.Request.Context(), &f); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, f)
}

// UpdateFaculty renames a faculty.
func (h *Handler) UpdateFaculty(c *gin.Context) {
	if _, ok := h.require(c, authz.ActionUpdate, authz.ResourceFaculty); !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req facultyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	f, err := h.store.GetFaculty(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	f.UniversityID = req.UniversityID
	f.Name = req.Name
	if err := h.store.SaveFaculty(c.Request.Context(), f); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

// DeleteFaculty removes a faculty.
func (h *Handler) DeleteFaculty(c *gin.Context) {
	if _, ok := h.require(c, authz.ActionDelete, authz.ResourceFaculty); !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.store.DeleteFaculty(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
