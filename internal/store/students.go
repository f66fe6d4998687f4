package store

import (
	"context"

	"joybor-backend/internal/authz"
	"joybor-backend/internal/model"
)

func (s *gormStore) ListStudents(ctx context.Context, caller *model.User) ([]model.Student, error) {
	var students []model.Student
	err := s.db.WithContext(ctx).
		Scopes(authz.Scope(authz.ResourceStudent, caller)).
		Order("created_at DESC").
		Find(&students).Error
	return students, err
}

func (s *gormStore) GetStudent(ctx context.Context, caller *model.User, id int64) (*model.Student, error) {
	var st model.Student
	err := s.db.WithContext(ctx).
		Scopes(authz.Scope(authz.ResourceStudent, caller)).
		First(&st, id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &st, nil
}

func (s *gormStore) CreateStudent(ctx context.Context, caller *model.User, st *model.Student) error {
	if st.DormitoryID != nil {
		if err := s.requireDormitoryOwnership(ctx, caller, *st.DormitoryID); err != nil {
			return err
		}
	} else if !authz.IsSuperAdmin(caller) {
		return ErrForbidden
	}
	return s.db.WithContext(ctx).Create(st).Error
}

func (s *gormStore) SaveStudent(ctx context.Context, caller *model.User, st *model.Student) error {
	if st.DormitoryID != nil {
		if err := s.requireDormitoryOwnership(ctx, caller, *st.DormitoryID); err != nil {
			return err
		}
	} else if !authz.IsSuperAdmin(caller) {
		return ErrForbidden
	}
	return s.db.WithContext(ctx).Save(st).Error
}

func (s *gormStore) DeleteStudent(ctx context.Context, caller *model.User, id int64) error {
	st, err := s.GetStudent(ctx, caller, id)
	if err != nil {
		return err
	}
	if !authz.IsSuperAdmin(caller) {
		if st.DormitoryID == nil {
			return ErrForbidden
		}
		if err := s.requireDormitoryOwnership(ctx, caller, *st.DormitoryID); err != nil {
			return err
		}
	}
	return s.db.WithContext(ctx).Delete(&model.Student{}, id).Error
}
