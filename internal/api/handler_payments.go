package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"joybor-backend/internal/authz"
	"joybor-backend/internal/model"
)

// ListPayments returns the payment ledger in the caller's scope: students
// see their own payments, admins and superadmins see all of them.
func (h *Handler) ListPayments(c *gin.Context) {
	caller, ok := h.require(c, authz.ActionList, authz.ResourcePayment)
	if !ok {
		return
	}
	payments, err := h.store.ListPayments(c.Request.Context(), caller)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, payments)
}

// GetPayment returns one payment in the caller's scope.
func (h *Handler) GetPayment(c *gin.Context) {
	caller, ok := h.require(c, authz.ActionRead, authz.ResourcePayment)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	p, err := h.store.GetPayment(c.Request.Context(), caller, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

type paymentRequest struct {
	StudentID int64      `json:"student_id"`
	Amount    float64    `json:"amount" binding:"required,gt=0"`
	Method    string     `json:"method" binding:"required,oneof=click payme cash card"`
	Status    string     `json:"status" binding:"omitempty,oneof=pending success failed"`
	PaidAt    *time.Time `json:"paid_at"`
}

// CreatePayment records a payment. A student always pays as themselves; the
// student_id field is only honored for a superadmin.
func (h *Handler) CreatePayment(c *gin.Context) {
	caller, ok := h.require(c, authz.ActionCreate, authz.ResourcePayment)
	if !ok {
		return
	}
	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p := model.PaymentByStudent{
		StudentID: caller.ID,
		Amount:    req.Amount,
		Method:    model.PaymentMethod(req.Method),
		Status:    model.PaymentPending,
	}
	if authz.IsSuperAdmin(caller) && req.StudentID != 0 {
		p.StudentID = req.StudentID
	}
	if req.Status != "" {
		p.Status = model.PaymentStatus(req.Status)
	}
	if req.PaidAt != nil {
		p.PaidAt = *req.PaidAt
	}

	if err := h.store.CreatePayment(c.Request.Context(), &p); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// UpdatePayment edits a payment the caller owns.
func (h *Handler) UpdatePayment(c *gin.Context) {
	caller, ok := h.require(c, authz.ActionUpdate, authz.ResourcePayment)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := h.store.GetPayment(c.Request.Context(), caller, id)
	if err != nil {
		fail(c, err)
		return
	}
	p.Amount = req.Amount
	p.Method = model.PaymentMethod(req.Method)
	if req.Status != "" {
		p.Status = model.PaymentStatus(req.Status)
	}
	if req.PaidAt != nil {
		p.PaidAt = *req.PaidAt
	}
	if authz.IsSuperAdmin(caller) && req.StudentID != 0 {
		p.StudentID = req.StudentID
	}

	if err := h.store.SavePayment(c.Request.Context(), caller, p); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// DeletePayment removes a payment the caller owns.
func (h *Handler) DeletePayment(c *gin.Context) {
	caller, ok := h.require(c, authz.ActionDelete, authz.ResourcePayment)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.store.DeletePayment(c.Request.Context(), caller, id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadPaymentReceipt attaches a receipt document to a payment.
func (h *Handler) UploadPaymentReceipt(c *gin.Context) {
	caller, ok := h.require(c, authz.ActionUpdate, authz.ResourcePayment)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	p, err := h.store.GetPayment(c.Request.Context(), caller, id)
	if err != nil {
		fail(c, err)
		return
	}
	url, ok := h.formFileUpload(c, "receipts")
	if !ok {
		return
	}
	p.ReceiptURL = url
	if err := h.store.SavePayment(c.Request.Context(), caller, p); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}
