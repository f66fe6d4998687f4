package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"

	"joybor-backend/config"
	"joybor-backend/internal/authn"
	"joybor-backend/internal/authz"
	"joybor-backend/internal/model"
	"joybor-backend/internal/mw"
	"joybor-backend/internal/notification"
	"joybor-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store   store.Store
	issuer  *authn.TokenIssuer
	webpush *webpush.Options
	auth    config.AuthConfig
	uploads config.UploadsConfig
	pool    *notification.WorkerPool
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, issuer *authn.TokenIssuer, webpushOptions *webpush.Options, cfg *config.Config, pool *notification.WorkerPool) *Handler {
	return &Handler{
		store:   s,
		issuer:  issuer,
		webpush: webpushOptions,
		auth:    cfg.Auth,
		uploads: cfg.Uploads,
		pool:    pool,
	}
}

// idParam parses the numeric :id path parameter.
func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// require checks the role capability table and aborts with 403 on denial.
// Returns the authenticated user on success.
func (h *Handler) require(c *gin.Context, action authz.Action, resource authz.Resource) (*model.User, bool) {
	user := mw.CurrentUser(c)
	if user == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return nil, false
	}
	if !authz.Can(user.Role, action, resource) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "operation not permitted for your role"})
		return nil, false
	}
	return user, true
}

// fail maps the store's sentinel errors onto HTTP status codes.
func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrForbidden),
		errors.Is(err, store.ErrCreatorOnly),
		errors.Is(err, store.ErrNoDormitory):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrCapacityExceeded),
		errors.Is(err, store.ErrDuplicatePending),
		errors.Is(err, store.ErrPaymentMismatch),
		errors.Is(err, store.ErrInvalidTransition),
		errors.Is(err, store.ErrResetToken),
		errors.Is(err, store.ErrDuplicate),
		errors.Is(err, store.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
