package internal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"joybor-backend/config"
	"joybor-backend/internal/api"
	"joybor-backend/internal/authn"
	"joybor-backend/internal/db"
	"joybor-backend/internal/model"
	"joybor-backend/internal/store"
)

type testEnv struct {
	router *gin.Engine
	db     *gorm.DB
	store  store.Store
	issuer *authn.TokenIssuer
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	testDB, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(testDB))

	cfg := &config.Config{}
	cfg.Server.RateLimitPerSec = 1000
	cfg.Server.RateLimitBurst = 1000
	cfg.Server.CacheTTLSeconds = 60
	cfg.Auth.AccessTTL = 15 * time.Minute
	cfg.Auth.RefreshTTL = 24 * time.Hour
	cfg.Auth.ResetTokenTTL = 24 * time.Hour
	cfg.Uploads.Dir = t.TempDir()
	cfg.Uploads.MaxDocumentSize = 5 << 20

	appStore := store.NewGormStore(testDB)
	issuer := authn.NewTokenIssuer("integration-test-secret", cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL)
	router := api.NewRouter(cfg, appStore, issuer, nil, nil)

	return &testEnv{router: router, db: testDB, store: appStore, issuer: issuer}
}

// createUser seeds an account directly and returns it with an access token.
func (e *testEnv) createUser(t *testing.T, username string, role model.Role) (*model.User, string) {
	t.Helper()
	hash, err := authn.HashPassword("password123")
	require.NoError(t, err)
	user := &model.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
		Role:         role,
		Status:       model.UserActive,
	}
	require.NoError(t, e.db.Create(user).Error)

	access, _, err := e.issuer.IssuePair(user)
	require.NoError(t, err)
	return user, access
}

func (e *testEnv) request(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeJSON[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// seedDormitory creates a dormitory administered by the given admin.
func (e *testEnv) seedDormitory(t *testing.T, name string, adminID int64) *model.Dormitory {
	t.Helper()
	d := &model.Dormitory{Name: name, City: "Tashkent", FloorsCount: 5, AdminID: &adminID, Status: model.DormitoryActive}
	require.NoError(t, e.db.Create(d).Error)
	return d
}

func TestApplicationLifecycle(t *testing.T) {
	env := setupEnv(t)

	admin, adminToken := env.createUser(t, "dorm-admin", model.RoleAdmin)
	dorm := env.seedDormitory(t, "Talabalar Shaharchasi", admin.ID)

	// Student self-registers through the API.
	w := env.request(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"username": "aziz", "email": "aziz@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	registered := decodeJSON[map[string]json.RawMessage](t, w)
	var studentToken string
	require.NoError(t, json.Unmarshal(registered["access"], &studentToken))

	applicationBody := gin.H{
		"dormitory_id":    dorm.ID,
		"first_name":      "Aziz",
		"last_name":       "Karimov",
		"passport_number": "AA1234567",
	}

	t.Run("student submits an application", func(t *testing.T) {
		w := env.request(t, http.MethodPost, "/api/v1/applications", studentToken, applicationBody)
		require.Equal(t, http.StatusCreated, w.Code)
		app := decodeJSON[model.Application](t, w)
		assert.Equal(t, model.ApplicationPending, app.Status)
		assert.Nil(t, app.ReviewedAt)
	})

	t.Run("second pending application to the same dormitory is rejected", func(t *testing.T) {
		body := gin.H{
			"dormitory_id":    dorm.ID,
			"first_name":      "Aziz",
			"last_name":       "Karimov",
			"passport_number": "AA7654321",
		}
		w := env.request(t, http.MethodPost, "/api/v1/applications", studentToken, body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("a passport number cannot back two applications", func(t *testing.T) {
		_, otherToken := env.createUser(t, "passport-twin", model.RoleStudent)
		body := gin.H{
			"dormitory_id":    dorm.ID,
			"first_name":      "Bek",
			"last_name":       "Karimov",
			"passport_number": "AA1234567",
		}
		w := env.request(t, http.MethodPost, "/api/v1/applications", otherToken, body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	var appID int64
	t.Run("admin sees the application in their dormitory", func(t *testing.T) {
		w := env.request(t, http.MethodGet, "/api/v1/applications", adminToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
		apps := decodeJSON[[]model.Application](t, w)
		require.Len(t, apps, 1)
		appID = apps[0].ID
	})

	t.Run("a foreign admin cannot review it", func(t *testing.T) {
		other, otherToken := env.createUser(t, "other-admin", model.RoleAdmin)
		env.seedDormitory(t, "Boshqa Yotoqxona", other.ID)

		// Out-of-scope rows are indistinguishable from missing ones.
		w := env.request(t, http.MethodPatch, fmt.Sprintf("/api/v1/applications/%d/status", appID), otherToken, gin.H{"status": "approved"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("the dormitory admin approves", func(t *testing.T) {
		w := env.request(t, http.MethodPatch, fmt.Sprintf("/api/v1/applications/%d/status", appID), adminToken, gin.H{"status": "approved"})
		require.Equal(t, http.StatusOK, w.Code)
		app := decodeJSON[model.Application](t, w)
		assert.Equal(t, model.ApplicationApproved, app.Status)
		assert.NotNil(t, app.ReviewedAt)
	})

	t.Run("a reviewed application cannot change again", func(t *testing.T) {
		w := env.request(t, http.MethodPatch, fmt.Sprintf("/api/v1/applications/%d/status", appID), adminToken, gin.H{"status": "rejected"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRoomOccupancyBounds(t *testing.T) {
	env := setupEnv(t)

	admin, adminToken := env.createUser(t, "room-admin", model.RoleAdmin)
	dorm := env.seedDormitory(t, "Yoshlik", admin.ID)

	w := env.request(t, http.MethodPost, "/api/v1/floors", adminToken, gin.H{
		"dormitory_id": dorm.ID, "floor_number": 1, "gender_type": "male",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	floor := decodeJSON[model.Floor](t, w)

	w = env.request(t, http.MethodPost, "/api/v1/rooms", adminToken, gin.H{
		"floor_id": floor.ID, "room_number": "101", "capacity": 2,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	room := decodeJSON[model.Room](t, w)
	assert.Equal(t, model.RoomAvailable, room.Status)

	adjust := func(delta int) *httptest.ResponseRecorder {
		return env.request(t, http.MethodPost, fmt.Sprintf("/api/v1/rooms/%d/occupancy", room.ID), adminToken, gin.H{"delta": delta})
	}

	w = adjust(1)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.RoomPartiallyFilled, decodeJSON[model.Room](t, w).Status)

	w = adjust(1)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.RoomFull, decodeJSON[model.Room](t, w).Status)

	t.Run("occupancy cannot exceed capacity", func(t *testing.T) {
		w := adjust(1)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("occupancy cannot go negative", func(t *testing.T) {
		w := adjust(-2)
		require.Equal(t, http.StatusOK, w.Code)
		w = adjust(-1)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("duplicate floor number in the same dormitory is rejected", func(t *testing.T) {
		w := env.request(t, http.MethodPost, "/api/v1/floors", adminToken, gin.H{
			"dormitory_id": dorm.ID, "floor_number": 1, "gender_type": "female",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRoleScoping(t *testing.T) {
	env := setupEnv(t)

	adminA, tokenA := env.createUser(t, "admin-a", model.RoleAdmin)
	adminB, tokenB := env.createUser(t, "admin-b", model.RoleAdmin)
	dormA := env.seedDormitory(t, "Dorm A", adminA.ID)
	dormB := env.seedDormitory(t, "Dorm B", adminB.ID)
	_, studentToken := env.createUser(t, "plain-student", model.RoleStudent)

	require.NoError(t, env.db.Create(&model.Floor{DormitoryID: dormA.ID, FloorNumber: 1, GenderType: model.GenderFemale}).Error)
	require.NoError(t, env.db.Create(&model.Floor{DormitoryID: dormB.ID, FloorNumber: 1, GenderType: model.GenderMale}).Error)

	t.Run("admin listing is narrowed to their dormitory", func(t *testing.T) {
		w := env.request(t, http.MethodGet, "/api/v1/floors", tokenA, nil)
		require.Equal(t, http.StatusOK, w.Code)
		floors := decodeJSON[[]model.Floor](t, w)
		require.Len(t, floors, 1)
		assert.Equal(t, dormA.ID, floors[0].DormitoryID)

		w = env.request(t, http.MethodGet, "/api/v1/floors", tokenB, nil)
		require.Equal(t, http.StatusOK, w.Code)
		floors = decodeJSON[[]model.Floor](t, w)
		require.Len(t, floors, 1)
		assert.Equal(t, dormB.ID, floors[0].DormitoryID)
	})

	t.Run("admin cannot create a floor in a foreign dormitory", func(t *testing.T) {
		w := env.request(t, http.MethodPost, "/api/v1/floors", tokenA, gin.H{
			"dormitory_id": dormB.ID, "floor_number": 2, "gender_type": "male",
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("admin with no dormitory assigned cannot create a floor", func(t *testing.T) {
		_, orphanToken := env.createUser(t, "orphan-admin", model.RoleAdmin)
		w := env.request(t, http.MethodPost, "/api/v1/floors", orphanToken, gin.H{
			"dormitory_id": dormA.ID, "floor_number": 4, "gender_type": "female",
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("student cannot create a floor at all", func(t *testing.T) {
		w := env.request(t, http.MethodPost, "/api/v1/floors", studentToken, gin.H{
			"dormitory_id": dormA.ID, "floor_number": 3, "gender_type": "male",
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("students cannot see billing plans", func(t *testing.T) {
		w := env.request(t, http.MethodGet, "/api/v1/subscription-plans", studentToken, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("superadmin sees every floor", func(t *testing.T) {
		_, superToken := env.createUser(t, "root", model.RoleSuperAdmin)
		w := env.request(t, http.MethodGet, "/api/v1/floors", superToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decodeJSON[[]model.Floor](t, w), 2)
	})
}

func TestPaymentAndSubscriptionRules(t *testing.T) {
	env := setupEnv(t)

	_, superToken := env.createUser(t, "billing-root", model.RoleSuperAdmin)
	admin, adminToken := env.createUser(t, "billing-admin", model.RoleAdmin)
	dorm := env.seedDormitory(t, "Billing Dorm", admin.ID)
	student, studentToken := env.createUser(t, "payer", model.RoleStudent)
	otherStudent, _ := env.createUser(t, "other-payer", model.RoleStudent)

	w := env.request(t, http.MethodPost, "/api/v1/payments", studentToken, gin.H{
		"amount": 450000.0, "method": "click",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	payment := decodeJSON[model.PaymentByStudent](t, w)
	assert.Equal(t, student.ID, payment.StudentID)

	t.Run("admin payment view is read-only", func(t *testing.T) {
		w := env.request(t, http.MethodGet, "/api/v1/payments", adminToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decodeJSON[[]model.PaymentByStudent](t, w), 1)

		w = env.request(t, http.MethodPost, "/api/v1/payments", adminToken, gin.H{"amount": 100.0, "method": "cash"})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("subscription naming a foreign payment is rejected", func(t *testing.T) {
		w := env.request(t, http.MethodPost, "/api/v1/student-subscriptions", adminToken, gin.H{
			"payment_id":   payment.ID,
			"student_id":   otherStudent.ID,
			"dormitory_id": dorm.ID,
			"start_date":   "2026-09-01T00:00:00Z",
			"end_date":     "2026-12-01T00:00:00Z",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("subscription with a matching payment succeeds", func(t *testing.T) {
		w := env.request(t, http.MethodPost, "/api/v1/student-subscriptions", adminToken, gin.H{
			"payment_id":   payment.ID,
			"student_id":   student.ID,
			"dormitory_id": dorm.ID,
			"start_date":   "2026-09-01T00:00:00Z",
			"end_date":     "2026-12-01T00:00:00Z",
		})
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	var planID int64
	t.Run("plan mutation is creator-only, even against a superadmin", func(t *testing.T) {
		w := env.request(t, http.MethodPost, "/api/v1/subscription-plans", adminToken, gin.H{
			"name": "Semester", "price": 1200000.0, "duration_months": 6,
		})
		require.Equal(t, http.StatusCreated, w.Code)
		planID = decodeJSON[model.SubscriptionPlanForDormitory](t, w).ID

		w = env.request(t, http.MethodPut, fmt.Sprintf("/api/v1/subscription-plans/%d", planID), superToken, gin.H{
			"name": "Hijacked", "price": 1.0, "duration_months": 1,
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("dormitory subscription end date is computed in calendar months", func(t *testing.T) {
		w := env.request(t, http.MethodPost, "/api/v1/dormitory-subscriptions", adminToken, gin.H{
			"dormitory_id": dorm.ID,
			"plan_id":      planID,
			"start_date":   "2026-08-31T00:00:00Z",
		})
		require.Equal(t, http.StatusCreated, w.Code)
		sub := decodeJSON[model.DormitorySubscription](t, w)
		// Aug 31 + 6 months clamps to Feb 28.
		assert.Equal(t, "2027-02-28", sub.EndDate.Format("2006-01-02"))
	})

	t.Run("a dormitory cannot hold two subscriptions", func(t *testing.T) {
		w := env.request(t, http.MethodPost, "/api/v1/dormitory-subscriptions", adminToken, gin.H{
			"dormitory_id": dorm.ID,
			"plan_id":      planID,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAuthFlows(t *testing.T) {
	env := setupEnv(t)
	user, _ := env.createUser(t, "flows", model.RoleStudent)

	t.Run("login and refresh", func(t *testing.T) {
		w := env.request(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
			"username": "flows", "password": "password123",
		})
		require.Equal(t, http.StatusOK, w.Code)
		pair := decodeJSON[map[string]json.RawMessage](t, w)

		var refresh string
		require.NoError(t, json.Unmarshal(pair["refresh"], &refresh))

		w = env.request(t, http.MethodPost, "/api/v1/auth/refresh", "", gin.H{"refresh": refresh})
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("a refresh token is not accepted as an access token", func(t *testing.T) {
		w := env.request(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
			"username": "flows", "password": "password123",
		})
		require.Equal(t, http.StatusOK, w.Code)
		pair := decodeJSON[map[string]json.RawMessage](t, w)
		var refresh string
		require.NoError(t, json.Unmarshal(pair["refresh"], &refresh))

		w = env.request(t, http.MethodGet, "/api/v1/auth/me", refresh, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong password is rejected", func(t *testing.T) {
		w := env.request(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
			"username": "flows", "password": "wrong-password",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("password reset round trip", func(t *testing.T) {
		w := env.request(t, http.MethodPost, "/api/v1/auth/password-reset", "", gin.H{"email": user.Email})
		require.Equal(t, http.StatusOK, w.Code)

		// Token delivery is out of band; read it from the account record.
		var stored model.User
		require.NoError(t, env.db.First(&stored, user.ID).Error)
		require.NotEmpty(t, stored.ResetPasswordToken)

		w = env.request(t, http.MethodPost, "/api/v1/auth/password-reset/confirm", "", gin.H{
			"token": stored.ResetPasswordToken, "new_password": "brand-new-pass",
		})
		require.Equal(t, http.StatusOK, w.Code)

		// Old password no longer works, new one does.
		w = env.request(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
			"username": "flows", "password": "password123",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		w = env.request(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
			"username": "flows", "password": "brand-new-pass",
		})
		assert.Equal(t, http.StatusOK, w.Code)

		// The token is single-use.
		w = env.request(t, http.MethodPost, "/api/v1/auth/password-reset/confirm", "", gin.H{
			"token": stored.ResetPasswordToken, "new_password": "yet-another-pass",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("blocked accounts cannot authenticate", func(t *testing.T) {
		blocked, blockedToken := env.createUser(t, "blocked", model.RoleStudent)
		require.NoError(t, env.db.Model(blocked).Update("status", model.UserBlocked).Error)

		w := env.request(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
			"username": "blocked", "password": "password123",
		})
		assert.Equal(t, http.StatusForbidden, w.Code)

		// An already-issued token stops working too.
		w = env.request(t, http.MethodGet, "/api/v1/auth/me", blockedToken, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("role changes from non-superadmins are ignored", func(t *testing.T) {
		victim, victimToken := env.createUser(t, "climber", model.RoleStudent)
		w := env.request(t, http.MethodPut, fmt.Sprintf("/api/v1/users/%d", victim.ID), victimToken, gin.H{
			"role": "superadmin",
		})
		require.Equal(t, http.StatusOK, w.Code)

		var fresh model.User
		require.NoError(t, env.db.First(&fresh, victim.ID).Error)
		assert.Equal(t, model.RoleStudent, fresh.Role)
	})
}
