package api

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"joybor-backend/config"
	"joybor-backend/internal/model"
	"joybor-backend/internal/store"
)

func setupUploadRouter(t *testing.T, maxSize int64) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	gormDB := newHandlerTestDB(t)

	superadmin := &model.User{Username: "uploader", Email: "uploader@example.com", Role: model.RoleSuperAdmin, Status: model.UserActive}
	require.NoError(t, gormDB.Create(superadmin).Error)
	require.NoError(t, gormDB.Create(&model.Dormitory{Name: "Upload Dorm", FloorsCount: 1}).Error)
	require.NoError(t, gormDB.Create(&model.SubscriptionPlanForDormitory{
		Name: "Annual", Price: 100, DurationMonths: 12, IsActive: true, CreatedByID: superadmin.ID,
	}).Error)

	cfg := &config.Config{}
	cfg.Uploads.Dir = t.TempDir()
	cfg.Uploads.MaxDocumentSize = maxSize

	handler := NewHandler(store.NewGormStore(gormDB), nil, nil, cfg, nil)
	r := gin.New()
	r.Use(asUser(superadmin))
	r.POST("/dormitories/:id/images", handler.UploadDormitoryImage)
	r.POST("/subscription-plans/:id/proof", handler.UploadPlanProof)
	return r, gormDB
}

func multipartFile(t *testing.T, filename string, size int) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	fw, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(bytes.Repeat([]byte("x"), size))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf, w.FormDataContentType()
}

func TestUploadDormitoryImage(t *testing.T) {
	t.Run("stores the file and records the reference", func(t *testing.T) {
		router, gormDB := setupUploadRouter(t, 1<<20)
		body, contentType := multipartFile(t, "photo.png", 512)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/dormitories/1/images", body)
		req.Header.Set("Content-Type", contentType)
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var img model.DormitoryImage
		require.NoError(t, gormDB.First(&img).Error)
		assert.Equal(t, int64(1), img.DormitoryID)
		assert.Contains(t, img.ImageURL, "/uploads/dormitories/")
		assert.Contains(t, img.ImageURL, ".png")
	})

	t.Run("rejects files over the size ceiling", func(t *testing.T) {
		router, _ := setupUploadRouter(t, 1024)
		body, contentType := multipartFile(t, "big.png", 4096)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/dormitories/1/images", body)
		req.Header.Set("Content-Type", contentType)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})

	t.Run("rejects disallowed extensions", func(t *testing.T) {
		router, _ := setupUploadRouter(t, 1<<20)
		body, contentType := multipartFile(t, "malware.exe", 10)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/dormitories/1/images", body)
		req.Header.Set("Content-Type", contentType)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("attaches a payment proof to a plan", func(t *testing.T) {
		router, gormDB := setupUploadRouter(t, 1<<20)
		body, contentType := multipartFile(t, "proof.pdf", 256)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/subscription-plans/1/proof", body)
		req.Header.Set("Content-Type", contentType)
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var plan model.SubscriptionPlanForDormitory
		require.NoError(t, gormDB.First(&plan, 1).Error)
		assert.Contains(t, plan.PaymentProofURL, "/uploads/proofs/")
		assert.Contains(t, plan.PaymentProofURL, ".pdf")
	})

	t.Run("missing file field is a bad request", func(t *testing.T) {
		router, _ := setupUploadRouter(t, 1<<20)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/dormitories/1/images", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
