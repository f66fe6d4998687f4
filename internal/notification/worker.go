package notification

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"gorm.io/gorm"

	"joybor-backend/internal/model"
)

// Sender defines the interface for sending a web push notification.
type Sender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is the real implementation of Sender using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// WorkerPool delivers application review decisions to the student's
// registered browser push subscriptions.
type WorkerPool struct {
	size    int
	jobs    chan int64
	db      *gorm.DB
	webpush *webpush.Options
	sender  Sender
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, db *gorm.DB, webpushOptions *webpush.Options) *WorkerPool {
	return &WorkerPool{
		size:    size,
		jobs:    make(chan int64, size),
		db:      db,
		webpush: webpushOptions,
		sender:  &WebPushSender{},
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.Printf("notification worker %d started", id)
	for {
		select {
		case applicationID := <-wp.jobs:
			wp.notifyReviewDecision(ctx, applicationID)
		case <-ctx.Done():
			log.Printf("notification worker %d shutting down", id)
			return
		}
	}
}

// Dispatch queues a reviewed application for notification delivery.
func (wp *WorkerPool) Dispatch(applicationID int64) {
	wp.jobs <- applicationID
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan int64 {
	return wp.jobs
}

// notifyReviewDecision fetches the reviewed application and pushes the
// decision to each of the student's subscriptions.
func (wp *WorkerPool) notifyReviewDecision(ctx context.Context, applicationID int64) {
	var app model.Application
	if err := wp.db.WithContext(ctx).
		Preload("Dormitory").
		First(&app, applicationID).Error; err != nil {
		log.Printf("error fetching application %d: %v", applicationID, err)
		return
	}

	var subscriptions []model.PushSubscription
	if err := wp.db.WithContext(ctx).
		Where("user_id = ?", app.StudentID).
		Find(&subscriptions).Error; err != nil {
		log.Printf("error fetching push subscriptions for user %d: %v", app.StudentID, err)
		return
	}
	if len(subscriptions) == 0 {
		return
	}

	message := fmt.Sprintf("Your application to %s was %s", app.Dormitory.Name, app.Status)
	log.Printf("sending %d notifications for application %d", len(subscriptions), applicationID)
	for _, sub := range subscriptions {
		wp.send(ctx, sub, []byte(message))
	}
}

func (wp *WorkerPool) send(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		log.Printf("error sending notification to %s: %v", sub.Endpoint, err)
		return
	}
	defer resp.Body.Close()

	// Expired subscriptions are removed on 410 Gone.
	if resp.StatusCode == http.StatusGone {
		if err := wp.db.WithContext(ctx).Delete(&sub).Error; err != nil {
			log.Printf("failed to delete expired subscription %s: %v", sub.Endpoint, err)
		}
	}
}

// SetSender replaces the delivery mechanism; used by tests.
func (wp *WorkerPool) SetSender(s Sender) {
	wp.sender = s
}
