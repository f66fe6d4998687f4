package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"joybor-backend/config"
	"joybor-backend/internal/authn"
	"joybor-backend/internal/mw"
	"joybor-backend/internal/notification"
	"joybor-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(cfg *config.Config, s store.Store, issuer *authn.TokenIssuer, webpushOptions *webpush.Options, pool *notification.WorkerPool) *gin.Engine {
	r := gin.Default()
	if cfg.Server.RequestIPHeader != "" {
		r.TrustedPlatform = cfg.Server.RequestIPHeader
	}

	handler := NewHandler(s, issuer, webpushOptions, cfg, pool)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst)

	cacheTTL := time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)
	invalidate := mw.InvalidateOnWrite(cacheStore)

	// Uploaded documents are served back by reference path.
	r.Static("/uploads", cfg.Uploads.Dir)

	api := r.Group("/api/v1")
	api.Use(rateLimiter)

	auth := api.Group("/auth")
	{
		auth.POST("/register", handler.Register)
		auth.POST("/login", handler.Login)
		auth.POST("/refresh", handler.Refresh)
		auth.POST("/password-reset", handler.RequestPasswordReset)
		auth.POST("/password-reset/confirm", handler.ConfirmPasswordReset)
	}

	authed := api.Group("")
	authed.Use(mw.RequireAuth(issuer, s))
	{
		authed.GET("/auth/me", handler.Me)
		authed.POST("/auth/change-password", handler.ChangePassword)
		authed.POST("/auth/admins", handler.CreateDormitoryAdmin)

		authed.GET("/users", handler.ListUsers)
		authed.GET("/users/:id", handler.GetUser)
		authed.PUT("/users/:id", handler.UpdateUser)
		authed.DELETE("/users/:id", handler.DeleteUser)
		authed.GET("/users/:id/profile", handler.GetProfile)
		authed.PUT("/users/:id/profile", handler.PutProfile)

		// Directory data is identical for every caller, so GET responses
		// are cached; writes flush the cache.
		authed.GET("/universities", caching, handler.ListUniversities)
		authed.GET("/universities/:id", caching, handler.GetUniversity)
		authed.POST("/universities", invalidate, handler.CreateUniversity)
		authed.PUT("/universities/:id", invalidate, handler.UpdateUniversity)
		authed.DELETE("/universities/:id", invalidate, handler.DeleteUniversity)
		authed.GET("/faculties", caching, handler.ListFaculties)
		authed.GET("/faculties/:id", caching, handler.GetFaculty)
		authed.POST("/faculties", invalidate, handler.CreateFaculty)
		authed.PUT("/faculties/:id", invalidate, handler.UpdateFaculty)
		authed.DELETE("/faculties/:id", invalidate, handler.DeleteFaculty)

		authed.GET("/dormitories", handler.ListDormitories)
		authed.GET("/dormitories/my", handler.MyDormitory)
		authed.GET("/dormitories/:id", handler.GetDormitory)
		authed.POST("/dormitories", handler.CreateDormitory)
		authed.PUT("/dormitories/:id", handler.UpdateDormitory)
		authed.DELETE("/dormitories/:id", handler.DeleteDormitory)
		authed.POST("/dormitories/:id/images", handler.UploadDormitoryImage)

		authed.GET("/floors", handler.ListFloors)
		authed.GET("/floors/:id", handler.GetFloor)
		authed.POST("/floors", handler.CreateFloor)
		authed.PUT("/floors/:id", handler.UpdateFloor)
		authed.DELETE("/floors/:id", handler.DeleteFloor)

		authed.GET("/rooms", handler.ListRooms)
		authed.GET("/rooms/:id", handler.GetRoom)
		authed.POST("/rooms", handler.CreateRoom)
		authed.PUT("/rooms/:id", handler.UpdateRoom)
		authed.DELETE("/rooms/:id", handler.DeleteRoom)
		authed.POST("/rooms/:id/occupancy", handler.AdjustRoomOccupancy)
		authed.POST("/rooms/:id/images", handler.UploadRoomImage)

		authed.GET("/applications", handler.ListApplications)
		authed.GET("/applications/:id", handler.GetApplication)
		authed.POST("/applications", handler.CreateApplication)
		authed.PATCH("/applications/:id/status", handler.ReviewApplication)
		authed.DELETE("/applications/:id", handler.DeleteApplication)

		authed.GET("/students", handler.ListStudents)
		authed.GET("/students/:id", handler.GetStudent)
		authed.POST("/students", handler.CreateStudent)
		authed.PUT("/students/:id", handler.UpdateStudent)
		authed.DELETE("/students/:id", handler.DeleteStudent)

		authed.GET("/payments", handler.ListPayments)
		authed.GET("/payments/:id", handler.GetPayment)
		authed.POST("/payments", handler.CreatePayment)
		authed.PUT("/payments/:id", handler.UpdatePayment)
		authed.DELETE("/payments/:id", handler.DeletePayment)
		authed.POST("/payments/:id/receipt", handler.UploadPaymentReceipt)

		authed.GET("/student-subscriptions", handler.ListStudentSubscriptions)
		authed.GET("/student-subscriptions/:id", handler.GetStudentSubscription)
		authed.POST("/student-subscriptions", handler.CreateStudentSubscription)
		authed.PUT("/student-subscriptions/:id", handler.UpdateStudentSubscription)
		authed.DELETE("/student-subscriptions/:id", handler.DeleteStudentSubscription)

		authed.GET("/subscription-plans", handler.ListPlans)
		authed.GET("/subscription-plans/:id", handler.GetPlan)
		authed.POST("/subscription-plans", handler.CreatePlan)
		authed.PUT("/subscription-plans/:id", handler.UpdatePlan)
		authed.DELETE("/subscription-plans/:id", handler.DeletePlan)
		authed.POST("/subscription-plans/:id/proof", handler.UploadPlanProof)

		authed.GET("/dormitory-subscriptions", handler.ListDormSubscriptions)
		authed.GET("/dormitory-subscriptions/:id", handler.GetDormSubscription)
		authed.POST("/dormitory-subscriptions", handler.CreateDormSubscription)
		authed.PUT("/dormitory-subscriptions/:id", handler.UpdateDormSubscription)
		authed.DELETE("/dormitory-subscriptions/:id", handler.DeleteDormSubscription)

		authed.PUT("/push/subscriptions", handler.PutPushSubscription)
		authed.DELETE("/push/subscriptions", handler.DeletePushSubscription)
		authed.GET("/push/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	return r
}
