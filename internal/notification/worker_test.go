package notification

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"joybor-backend/internal/db"
	"joybor-backend/internal/model"
)

// mockSender is a mock implementation of the Sender interface.
type mockSender struct {
	SendFunc func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

func (m *mockSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return m.SendFunc(payload, sub, options)
}

func newTestDB(t *testing.T) *gorm.DB {
	gormDB, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB))
	return gormDB
}

func seedReviewedApplication(t *testing.T, gormDB *gorm.DB, status model.ApplicationStatus) model.Application {
	student := model.User{Username: "app-student", Email: "app-student@example.com", Role: model.RoleStudent, Status: model.UserActive}
	require.NoError(t, gormDB.Create(&student).Error)

	dorm := model.Dormitory{Name: "Yoshlik", City: "Tashkent", FloorsCount: 4}
	require.NoError(t, gormDB.Create(&dorm).Error)

	app := model.Application{
		StudentID:      student.ID,
		DormitoryID:    dorm.ID,
		FirstName:      "Aziz",
		LastName:       "Karimov",
		PassportNumber: "AA1112223",
		Status:         status,
		SubmittedAt:    time.Now(),
	}
	require.NoError(t, gormDB.Create(&app).Error)

	sub := model.PushSubscription{
		Endpoint: "https://example.com/push",
		P256DH:   "test_p256dh",
		Auth:     "test_auth",
		UserID:   student.ID,
	}
	require.NoError(t, gormDB.Create(&sub).Error)

	return app
}

func TestWorkerPoolDispatch(t *testing.T) {
	wp := NewWorkerPool(1, newTestDB(t), &webpush.Options{})

	wp.Dispatch(123)

	select {
	case job := <-wp.Jobs():
		assert.Equal(t, int64(123), job)
	case <-time.After(1 * time.Second):
		t.Fatal("timed out waiting for job to be dispatched")
	}
}

func TestWorkerSendsReviewDecision(t *testing.T) {
	gormDB := newTestDB(t)
	app := seedReviewedApplication(t, gormDB, model.ApplicationApproved)

	wp := NewWorkerPool(1, gormDB, &webpush.Options{})

	var wg sync.WaitGroup
	wg.Add(1)
	wp.SetSender(&mockSender{
		SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
			assert.Equal(t, "https://example.com/push", sub.Endpoint)
			assert.Equal(t, "Your application to Yoshlik was approved", string(payload))
			wg.Done()
			return &http.Response{
				StatusCode: http.StatusCreated,
				Body:       io.NopCloser(bytes.NewBufferString("")),
			}, nil
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wp.Start(ctx)

	wp.Dispatch(app.ID)
	wg.Wait()
}

func TestWorkerDeletesExpiredSubscription(t *testing.T) {
	gormDB := newTestDB(t)
	app := seedReviewedApplication(t, gormDB, model.ApplicationRejected)

	wp := NewWorkerPool(1, gormDB, &webpush.Options{})

	var wg sync.WaitGroup
	wg.Add(1)
	wp.SetSender(&mockSender{
		SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
			defer wg.Done()
			return &http.Response{
				StatusCode: http.StatusGone,
				Body:       io.NopCloser(bytes.NewBufferString("")),
			}, nil
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wp.Start(ctx)

	wp.Dispatch(app.ID)
	wg.Wait()

	// The 410 response removes the subscription; poll briefly since the
	// delete happens after the sender returns.
	assert.Eventually(t, func() bool {
		var count int64
		gormDB.Model(&model.PushSubscription{}).Count(&count)
		return count == 0
	}, 2*time.Second, 20*time.Millisecond)
}
