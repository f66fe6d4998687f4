package store

import (
	"context"
	"fmt"
	"time"

	"joybor-backend/internal/authz"
	"joybor-backend/internal/dateutil"
	"joybor-backend/internal/model"
)

func (s *gormStore) CreatePayment(ctx context.Context, p *model.PaymentByStudent) error {
	if p.PaidAt.IsZero() {
		p.PaidAt = time.Now()
	}
	if p.Amount <= 0 {
		return fmt.Errorf("amount must be positive: %w", ErrValidation)
	}
	return s.db.WithContext(ctx).Create(p).Error
}

func (s *gormStore) ListPayments(ctx context.Context, caller *model.User) ([]model.PaymentByStudent, error) {
	var payments []model.PaymentByStudent
	err := s.db.WithContext(ctx).
		Scopes(authz.Scope(authz.ResourcePayment, caller)).
		Order("paid_at DESC").
		Find(&payments).Error
	return payments, err
}

func (s *gormStore) GetPayment(ctx context.Context, caller *model.User, id int64) (*model.PaymentByStudent, error) {
	var p model.PaymentByStudent
	err := s.db.WithContext(ctx).
		Scopes(authz.Scope(authz.ResourcePayment, caller)).
		First(&p, id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (s *gormStore) SavePayment(ctx context.Context, caller *model.User, p *model.PaymentByStudent) error {
	if !authz.IsSuperAdmin(caller) && p.StudentID != caller.ID {
		return ErrForbidden
	}
	if p.Amount <= 0 {
		return fmt.Errorf("amount must be positive: %w", ErrValidation)
	}
	return s.db.WithContext(ctx).Save(p).Error
}

func (s *gormStore) DeletePayment(ctx context.Context, caller *model.User, id int64) error {
	p, err := s.GetPayment(ctx, caller, id)
	if err != nil {
		return err
	}
	if !authz.IsSuperAdmin(caller) && p.StudentID != caller.ID {
		return ErrForbidden
	}
	return s.db.WithContext(ctx).Delete(&model.PaymentByStudent{}, id).Error
}

// --- Student subscriptions ---

func (s *gormStore) CreateStudentSubscription(ctx context.Context, caller *model.User, sub *model.SubscriptionForStudent) error {
	if sub.StartDate.IsZero() || sub.EndDate.IsZero() {
		return fmt.Errorf("start_date and end_date are required: %w", ErrValidation)
	}
	if sub.EndDate.Before(sub.StartDate) {
		return fmt.Errorf("end_date must not precede start_date: %w", ErrValidation)
	}

	if sub.PaymentID != nil {
		var payment model.PaymentByStudent
		if err := s.db.WithContext(ctx).First(&payment, *sub.PaymentID).Error; err != nil {
			return notFound(err)
		}
		// A mismatch is a validation error, never a silent correction.
		if payment.StudentID != sub.StudentID {
			return ErrPaymentMismatch
		}
	}

	if sub.DormitoryID != nil && !authz.IsSuperAdmin(caller) {
		if err := s.requireDormitoryOwnership(ctx, caller, *sub.DormitoryID); err != nil {
			return err
		}
	}

	return s.db.WithContext(ctx).Create(sub).Error
}

func (s *gormStore) ListStudentSubscriptions(ctx context.Context, caller *model.User) ([]model.SubscriptionForStudent, error) {
	var subs []model.SubscriptionForStudent
	err := s.db.WithContext(ctx).
		Scopes(authz.Scope(authz.ResourceStudentSub, caller)).
		Order("created_at DESC").
		Find(&subs).Error
	return subs, err
}

func (s *gormStore) GetStudentSubscription(ctx context.Context, caller *model.User, id int64) (*model.SubscriptionForStudent, error) {
	var sub model.SubscriptionForStudent
	err := s.db.WithContext(ctx).
		Scopes(authz.Scope(authz.ResourceStudentSub, caller)).
		First(&sub, id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &sub, nil
}

func (s *gormStore) SaveStudentSubscription(ctx context.Context, caller *model.User, sub *model.SubscriptionForStudent) error {
	if sub.EndDate.Before(sub.StartDate) {
		return fmt.Errorf("end_date must not precede start_date: %w", ErrValidation)
	}
	if sub.PaymentID != nil {
		var payment model.PaymentByStudent
		if err := s.db.WithContext(ctx).First(&payment, *sub.PaymentID).Error; err != nil {
			return notFound(err)
		}
		if payment.StudentID != sub.StudentID {
			return ErrPaymentMismatch
		}
	}
	if sub.DormitoryID != nil && !authz.IsSuperAdmin(caller) {
		if err := s.requireDormitoryOwnership(ctx, caller, *sub.DormitoryID); err != nil {
			return err
		}
	}
	return s.db.WithContext(ctx).Save(sub).Error
}

func (s *gormStore) DeleteStudentSubscription(ctx context.Context, caller *model.User, id int64) error {
	sub, err := s.GetStudentSubscription(ctx, caller, id)
	if err != nil {
		return err
	}
	if !authz.IsSuperAdmin(caller) {
		if sub.DormitoryID == nil {
			return ErrForbidden
		}
		if err := s.requireDormitoryOwnership(ctx, caller, *sub.DormitoryID); err != nil {
			return err
		}
	}
	return s.db.WithContext(ctx).Delete(&model.SubscriptionForStudent{}, id).Error
}

// --- Subscription plans ---

func (s *gormStore) CreatePlan(ctx context.Context, plan *model.SubscriptionPlanForDormitory) error {
	if plan.CreatedByID == 0 {
		return fmt.Errorf("plan creator is required: %w", ErrValidation)
	}
	if plan.DurationMonths <= 0 {
		return fmt.Errorf("duration_months must be positive: %w", ErrValidation)
	}
	return s.db.WithContext(ctx).Create(plan).Error
}

func (s *gormStore) ListPlans(ctx context.Context, caller *model.User) ([]model.SubscriptionPlanForDormitory, error) {
	var plans []model.SubscriptionPlanForDormitory
	err := s.db.WithContext(ctx).
		Scopes(authz.Scope(authz.ResourcePlan, caller)).
		Order("created_at DESC").
		Find(&plans).Error
	return plans, err
}

func (s *gormStore) GetPlan(ctx context.Context, caller *model.User, id int64) (*model.SubscriptionPlanForDormitory, error) {
	var plan model.SubscriptionPlanForDormitory
	err := s.db.WithContext(ctx).
		Scopes(authz.Scope(authz.ResourcePlan, caller)).
		First(&plan, id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &plan, nil
}

// SavePlan restricts mutation to the plan's creator; this applies to
// superadmins too.
func (s *gormStore) SavePlan(ctx context.Context, caller *model.User, plan *model.SubscriptionPlanForDormitory) error {
	if plan.CreatedByID != caller.ID {
		return ErrCreatorOnly
	}
	if plan.DurationMonths <= 0 {
		return fmt.Errorf("duration_months must be positive: %w", ErrValidation)
	}
	return s.db.WithContext(ctx).Save(plan).Error
}

func (s *gormStore) DeletePlan(ctx context.Context, caller *model.User, id int64) error {
	plan, err := s.GetPlan(ctx, caller, id)
	if err != nil {
		return err
	}
	if plan.CreatedByID != caller.ID {
		return ErrCreatorOnly
	}
	return s.db.WithContext(ctx).Delete(&model.SubscriptionPlanForDormitory{}, id).Error
}

// --- Dormitory subscriptions ---

func (s *gormStore) CreateDormSubscription(ctx context.Context, caller *model.User, sub *model.DormitorySubscription) error {
	if !authz.IsSuperAdmin(caller) {
		if err := s.requireDormitoryOwnership(ctx, caller, sub.DormitoryID); err != nil {
			return err
		}
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&model.DormitorySubscription{}).
		Where("dormitory_id = ?", sub.DormitoryID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("dormitory already has a subscription: %w", ErrDuplicate)
	}

	if sub.StartDate.IsZero() {
		sub.StartDate = time.Now()
	}
	if err := s.fillDormSubEndDate(ctx, sub); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Create(sub).Error
}

func (s *gormStore) ListDormSubscriptions(ctx context.Context, caller *model.User) ([]model.DormitorySubscription, error) {
	var subs []model.DormitorySubscription
	err := s.db.WithContext(ctx).
		Scopes(authz.Scope(authz.ResourceDormSubscription, caller)).
		Order("created_at DESC").
		Find(&subs).Error
	return subs, err
}

func (s *gormStore) GetDormSubscription(ctx context.Context, caller *model.User, id int64) (*model.DormitorySubscription, error) {
	var sub model.DormitorySubscription
	err := s.db.WithContext(ctx).
		Scopes(authz.Scope(authz.ResourceDormSubscription, caller)).
		First(&sub, id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &sub, nil
}

// SaveDormSubscription persists changes; when the end date was not supplied
// explicitly it is recomputed from the plan duration and start date.
func (s *gormStore) SaveDormSubscription(ctx context.Context, caller *model.User, sub *model.DormitorySubscription, endDateSupplied bool) error {
	if !authz.IsSuperAdmin(caller) {
		if err := s.requireDormitoryOwnership(ctx, caller, sub.DormitoryID); err != nil {
			return err
		}
	}
	if !endDateSupplied {
		sub.EndDate = time.Time{}
		if err := s.fillDormSubEndDate(ctx, sub); err != nil {
			return err
		}
	}
	return s.db.WithContext(ctx).Save(sub).Error
}

func (s *gormStore) DeleteDormSubscription(ctx context.Context, caller *model.User, id int64) error {
	sub, err := s.GetDormSubscription(ctx, caller, id)
	if err != nil {
		return err
	}
	if !authz.IsSuperAdmin(caller) {
		if err := s.requireDormitoryOwnership(ctx, caller, sub.DormitoryID); err != nil {
			return err
		}
	}
	return s.db.WithContext(ctx).Delete(&model.DormitorySubscription{}, id).Error
}

// fillDormSubEndDate computes end_date = start_date + plan duration in
// calendar months when no end date is present.
func (s *gormStore) fillDormSubEndDate(ctx context.Context, sub *model.DormitorySubscription) error {
	if !sub.EndDate.IsZero() {
		return nil
	}
	if sub.PlanID == nil {
		return fmt.Errorf("end_date or plan is required: %w", ErrValidation)
	}
	var plan model.SubscriptionPlanForDormitory
	if err := s.db.WithContext(ctx).First(&plan, *sub.PlanID).Error; err != nil {
		return notFound(err)
	}
	sub.EndDate = dateutil.AddMonths(sub.StartDate, plan.DurationMonths)
	return nil
}
