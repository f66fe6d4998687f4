package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"joybor-backend/internal/authz"
	"joybor-backend/internal/model"
)

func (s *gormStore) CreateApplication(ctx context.Context, app *model.Application) error {
	app.Status = model.ApplicationPending
	app.SubmittedAt = time.Now()
	app.ReviewedAt = nil

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var dormCount int64
		if err := tx.Model(&model.Dormitory{}).Where("id = ?", app.DormitoryID).Count(&dormCount).Error; err != nil {
			return err
		}
		if dormCount == 0 {
			return ErrNotFound
		}

		var pending int64
		err := tx.Model(&model.Application{}).
			Where("student_id = ? AND dormitory_id = ? AND status = ?",
				app.StudentID, app.DormitoryID, model.ApplicationPending).
			Count(&pending).Error
		if err != nil {
			return err
		}
		if pending > 0 {
			return ErrDuplicatePending
		}

		var taken int64
		err = tx.Model(&model.Application{}).
			Where("passport_number = ?", app.PassportNumber).
			Count(&taken).Error
		if err != nil {
			return err
		}
		if taken > 0 {
			return fmt.Errorf("passport number %s is already used by another application: %w",
				app.PassportNumber, ErrDuplicate)
		}

		return tx.Create(app).Error
	})
}

func (s *gormStore) ListApplications(ctx context.Context, caller *model.User, status *model.ApplicationStatus) ([]model.Application, error) {
	q := s.db.WithContext(ctx).Scopes(authz.Scope(authz.ResourceApplication, caller))
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	var apps []model.Application
	err := q.Order("submitted_at DESC").Find(&apps).Error
	return apps, err
}

func (s *gormStore) GetApplication(ctx context.Context, caller *model.User, id int64) (*model.Application, error) {
	var app model.Application
	err := s.db.WithContext(ctx).
		Scopes(authz.Scope(authz.ResourceApplication, caller)).
		First(&app, id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &app, nil
}

// ReviewApplication transitions a pending application. Transitions are
// one-directional: once out of pending the status never changes again.
// Students may only cancel their own application; approve/reject requires
// the dormitory's admin or a superadmin.
func (s *gormStore) ReviewApplication(ctx context.Context, caller *model.User, id int64, newStatus model.ApplicationStatus) (*model.Application, error) {
	switch newStatus {
	case model.ApplicationApproved, model.ApplicationRejected, model.ApplicationCancelled:
	default:
		return nil, fmt.Errorf("cannot transition an application to %q: %w", newStatus, ErrValidation)
	}

	app, err := s.GetApplication(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	if authz.IsStudent(caller) {
		if newStatus != model.ApplicationCancelled || app.StudentID != caller.ID {
			return nil, ErrForbidden
		}
	} else if !authz.IsSuperAdmin(caller) {
		if err := s.requireDormitoryOwnership(ctx, caller, app.DormitoryID); err != nil {
			return nil, err
		}
	}

	if app.Status != model.ApplicationPending {
		return nil, ErrInvalidTransition
	}

	app.Status = newStatus
	if app.ReviewedAt == nil {
		now := time.Now()
		app.ReviewedAt = &now
	}

	if err := s.db.WithContext(ctx).Save(app).Error; err != nil {
		return nil, err
	}
	return app, nil
}

func (s *gormStore) DeleteApplication(ctx context.Context, caller *model.User, id int64) error {
	app, err := s.GetApplication(ctx, caller, id)
	if err != nil {
		return err
	}
	if authz.IsStudent(caller) && app.StudentID != caller.ID {
		return ErrForbidden
	}
	if authz.IsDormitoryAdmin(caller) {
		return ErrForbidden
	}
	return s.db.WithContext(ctx).Delete(&model.Application{}, id).Error
}
