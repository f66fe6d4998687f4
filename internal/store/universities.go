package store

import (
	"context"
	"fmt"

	"joybor-backend/internal/model"
)

func (s *gormStore) ListUniversities(ctx context.Context) ([]model.University, error) {
	var universities []model.University
	err := s.db.WithContext(ctx).Order("name").Find(&universities).Error
	return universities, err
}

func (s *gormStore) GetUniversity(ctx context.Context, id int64) (*model.University, error) {
	var u model.University
	if err := s.db.WithContext(ctx).Preload("Faculties").First(&u, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (s *gormStore) CreateUniversity(ctx context.Context, u *model.University) error {
	return s.db.WithContext(ctx).Create(u).Error
}

func (s *gormStore) SaveUniversity(ctx context.Context, u *model.University) error {
	return s.db.WithContext(ctx).Save(u).Error
}

func (s *gormStore) DeleteUniversity(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&model.University{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormStore) ListFaculties(ctx context.Context, universityID *int64) ([]model.Faculty, error) {
	q := s.db.WithContext(ctx).Order("name")
	if universityID != nil {
		q = q.Where("university_id = ?", *universityID)
	}
	var faculties []model.Faculty
	err := q.Find(&faculties).Error
	return faculties, err
}

func (s *gormStore) GetFaculty(ctx context.Context, id int64) (*model.Faculty, error) {
	var f model.Faculty
	if err := s.db.WithContext(ctx).First(&f, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &f, nil
}

func (s *gormStore) CreateFaculty(ctx context.Context, f *model.Faculty) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.Faculty{}).
		Where("university_id = ? AND name = ?", f.UniversityID, f.Name).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("faculty %q already exists at this university: %w", f.Name, ErrDuplicate)
	}
	return s.db.WithContext(ctx).Create(f).Error
}

func (s *gormStore) SaveFaculty(ctx context.Context, f *model.Faculty) error {
	return s.db.WithContext(ctx).Save(f).Error
}

func (s *gormStore) DeleteFaculty(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&model.Faculty{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
