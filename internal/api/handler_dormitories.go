package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"joybor-backend/internal/authz"
	"joybor-backend/internal/model"
	"joybor-backend/internal/mw"
)

// ListDormitories returns all dormitories. The listing is open to every
// role; only mutations are restricted.
func (h *Handler) ListDormitories(c *gin.Context) {
	caller, ok := h.require(c, authz.ActionList, authz.ResourceDormitory)
	if !ok {
		return
	}
	dorms, err := h.store.ListDormitories(c.Request.Context(), caller)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dorms)
}

// MyDormitory returns the dormitory administered by the calling admin.
func (h *Handler) MyDormitory(c *gin.Context) {
	caller := mw.CurrentUser(c)
	if !authz.IsDormitoryAdmin(caller) {
		c.JSON(http.StatusForbidden, gin.H{"error": "only dormitory admins have a dormitory of their own"})
		return
	}
	d, err := h.store.DormitoryOfAdmin(c.Request.Context(), caller.ID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// GetDormitory returns one dormitory.
func (h *Handler) GetDormitory(c *gin.Context) {
	caller, ok := h.require(c, authz.ActionRead, authz.ResourceDormitory)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	d, err := h.store.GetDormitory(c.Request.Context(), caller, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

type dormitoryRequest struct {
	Name         string   `json:"name" binding:"required"`
	UniversityID *int64   `json:"university_id"`
	Address      string   `json:"address"`
	City         string   `json:"city"`
	FloorsCount  int      `json:"floors_count" binding:"required,min=1"`
	Description  string   `json:"description"`
	AdminID      *int64   `json:"admin_id"`
	Status       string   `json:"status"`
	ContactInfo  string   `json:"contact_info"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
}

// CreateDormitory registers a new dormitory. Superadmin only.
func (h *Handler) CreateDormitory(c *gin.Context) {
	if _, ok := h.require(c, authz.ActionCreate, authz.ResourceDormitory); !ok {
		return
	}
	var req dormitoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	d := model.Dormitory{
		Name:         req.Name,
		UniversityID: req.UniversityID,
		Address:      req.Address,
		City:         req.City,
		FloorsCount:  req.FloorsCount,
		Description:  req.Description,
		AdminID:      req.AdminID,
		Status:       model.DormitoryActive,
		ContactInfo:  req.ContactInfo,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
	}
	if req.Status != "" {
		d.Status = model.DormitoryStatus(req.Status)
	}
	if err := h.store.CreateDormitory(c.Request.Context(), &d); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

// UpdateDormitory edits a dormitory. Admins may only edit their own, and may
// not reassign its admin; that stays a superadmin decision.
func (h *Handler) UpdateDormitory(c *gin.Context) {
	caller, ok := h.require(c, authz.ActionUpdate, authz.ResourceDormitory)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req dormitoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	d, err := h.store.GetDormitory(c.Request.Context(), caller, id)
	if err != nil {
		fail(c, err)
		return
	}
	d.Name = req.Name
	d.UniversityID = req.UniversityID
	d.Address = req.Address
	d.City = req.City
	d.FloorsCount = req.FloorsCount
	d.Description = req.Description
	d.ContactInfo = req.ContactInfo
	d.Latitude = req.Latitude
	d.Longitude = req.Longitude
	if authz.IsSuperAdmin(caller) {
		d.AdminID = req.AdminID
		if req.Status != "" {
			d.Status = model.DormitoryStatus(req.Status)
		}
	}

	if err := h.store.SaveDormitory(c.Request.Context(), caller, d); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// DeleteDormitory removes a dormitory with its floors and rooms.
func (h *Handler) DeleteDormitory(c *gin.Context) {
	caller, ok := h.require(c, authz.ActionDelete, authz.ResourceDormitory)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.store.DeleteDormitory(c.Request.Context(), caller, id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadDormitoryImage stores an image file for a dormitory.
func (h *Handler) UploadDormitoryImage(c *gin.Context) {
	caller, ok := h.require(c, authz.ActionUpdate, authz.ResourceDormitory)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	url, ok := h.formFileUpload(c, "dormitories")
	if !ok {
		return
	}
	img := model.DormitoryImage{DormitoryID: id, ImageURL: url}
	if err := h.store.AddDormitoryImage(c.Request.Context(), caller, &img); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, img)
}
