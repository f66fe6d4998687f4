package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"joybor-backend/internal/model"
	"joybor-backend/internal/mw"
)

type putPushSubscriptionRequest struct {
	Endpoint string `json:"endpoint" binding:"required"`
	P256DH   string `json:"p256dh" binding:"required"`
	Auth     string `json:"auth" binding:"required"`
}

// PutPushSubscription registers or replaces the caller's browser push
// subscription. Review decisions on the caller's applications are delivered
// through it.
func (h *Handler) PutPushSubscription(c *gin.Context) {
	caller := mw.CurrentUser(c)

	var req putPushSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sub := model.PushSubscription{
		Endpoint: req.Endpoint,
		P256DH:   req.P256DH,
		Auth:     req.Auth,
		UserID:   caller.ID,
	}
	if err := h.store.UpsertPushSubscription(c.Request.Context(), &sub); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

type deletePushSubscriptionRequest struct {
	Endpoint string `json:"endpoint" binding:"required"`
}

// DeletePushSubscription removes one of the caller's push subscriptions.
func (h *Handler) DeletePushSubscription(c *gin.Context) {
	caller := mw.CurrentUser(c)

	var req deletePushSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.store.DeletePushSubscription(c.Request.Context(), caller.ID, req.Endpoint); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetVAPIDPublicKey returns the VAPID public key to the client.
func (h *Handler) GetVAPIDPublicKey(c *gin.Context) {
	if h.webpush == nil || h.webpush.VAPIDPublicKey == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "vapid keys are not configured"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"public_key": h.webpush.VAPIDPublicKey})
}
