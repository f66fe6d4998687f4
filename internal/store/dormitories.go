package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"joybor-backend/internal/authz"
	"joybor-backend/internal/model"
)

func (s *gormStore) ListDormitories(ctx context.Context, caller *model.User) ([]model.Dormitory, error) {
	var dorms []model.Dormitory
	err := s.db.WithContext(ctx).
		Scopes(authz.Scope(authz.ResourceDormitory, caller)).
		Preload("University").
		Order("name").
		Find(&dorms).Error
	return dorms, err
}

func (s *gormStore) GetDormitory(ctx context.Context, caller *model.User, id int64) (*model.Dormitory, error) {
	var d model.Dormitory
	err := s.db.WithContext(ctx).
		Scopes(authz.Scope(authz.ResourceDormitory, caller)).
		Preload("University").
		First(&d, id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &d, nil
}

// DormitoryOfAdmin looks up the one dormitory the admin administers.
// Well-defined because of the unique index on admin_id.
func (s *gormStore) DormitoryOfAdmin(ctx context.Context, adminID int64) (*model.Dormitory, error) {
	var d model.Dormitory
	err := s.db.WithContext(ctx).Where("admin_id = ?", adminID).First(&d).Error
	if err != nil {
		if notFound(err) == ErrNotFound {
			return nil, ErrNoDormitory
		}
		return nil, err
	}
	return &d, nil
}

func (s *gormStore) CreateDormitory(ctx context.Context, d *model.Dormitory) error {
	if d.AdminID != nil {
		var count int64
		if err := s.db.WithContext(ctx).Model(&model.Dormitory{}).
			Where("admin_id = ?", *d.AdminID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("admin already administers a dormitory: %w", ErrDuplicate)
		}
	}
	return s.db.WithContext(ctx).Create(d).Error
}

func (s *gormStore) SaveDormitory(ctx context.Context, caller *model.User, d *model.Dormitory) error {
	if err := s.requireDormitoryOwnership(ctx, caller, d.ID); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Save(d).Error
}

func (s *gormStore) DeleteDormitory(ctx context.Context, caller *model.User, id int64) error {
	if !authz.IsSuperAdmin(caller) {
		return ErrForbidden
	}
	res := s.db.WithContext(ctx).Delete(&model.Dormitory{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormStore) AddDormitoryImage(ctx context.Context, caller *model.User, img *model.DormitoryImage) error {
	if err := s.requireDormitoryOwnership(ctx, caller, img.DormitoryID); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Create(img).Error
}

// requireDormitoryOwnership allows superadmins everywhere and dormitory
// admins only on the dormitory they administer. An admin with no dormitory
// assigned is denied, not crashed.
func (s *gormStore) requireDormitoryOwnership(ctx context.Context, caller *model.User, dormitoryID int64) error {
	return requireDormitoryOwnershipTx(s.db.WithContext(ctx), caller, dormitoryID)
}

// requireDormitoryOwnershipTx is the transaction-aware form; callers inside
// a Transaction callback must pass tx so the check runs on the same
// connection as the row lock.
func requireDormitoryOwnershipTx(db *gorm.DB, caller *model.User, dormitoryID int64) error {
	if authz.IsSuperAdmin(caller) {
		var count int64
		if err := db.Model(&model.Dormitory{}).
			Where("id = ?", dormitoryID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		return nil
	}
	if !authz.IsDormitoryAdmin(caller) {
		return ErrForbidden
	}

	var own model.Dormitory
	if err := db.Where("admin_id = ?", caller.ID).First(&own).Error; err != nil {
		if notFound(err) == ErrNotFound {
			return ErrNoDormitory
		}
		return err
	}
	if own.ID != dormitoryID {
		return ErrForbidden
	}
	return nil
}

// --- Floors ---

func (s *gormStore) ListFloors(ctx context.Context, caller *model.User, dormitoryID *int64) ([]model.Floor, error) {
	q := s.db.WithContext(ctx).Scopes(authz.Scope(authz.ResourceFloor, caller))
	if dormitoryID != nil {
		q = q.Where("dormitory_id = ?", *dormitoryID)
	}
	var floors []model.Floor
	err := q.Order("dormitory_id, floor_number").Find(&floors).Error
	return floors, err
}

func (s *gormStore) GetFloor(ctx context.Context, caller *model.User, id int64) (*model.Floor, error) {
	var f model.Floor
	err := s.db.WithContext(ctx).
		Scopes(authz.Scope(authz.ResourceFloor, caller)).
		First(&f, id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &f, nil
}

func (s *gormStore) CreateFloor(ctx context.Context, caller *model.User, f *model.Floor) error {
	if err := s.requireDormitoryOwnership(ctx, caller, f.DormitoryID); err != nil {
		return err
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&model.Floor{}).
		Where("dormitory_id = ? AND floor_number = ?", f.DormitoryID, f.FloorNumber).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("floor %d already exists in this dormitory: %w", f.FloorNumber, ErrDuplicate)
	}
	return s.db.WithContext(ctx).Create(f).Error
}

func (s *gormStore) SaveFloor(ctx context.Context, caller *model.User, f *model.Floor) error {
	if err := s.requireDormitoryOwnership(ctx, caller, f.DormitoryID); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Save(f).Error
}

func (s *gormStore) DeleteFloor(ctx context.Context, caller *model.User, id int64) error {
	f, err := s.GetFloor(ctx, caller, id)
	if err != nil {
		return err
	}
	if err := s.requireDormitoryOwnership(ctx, caller, f.DormitoryID); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(&model.Floor{}, id).Error
}

// --- Rooms ---

func (s *gormStore) ListRooms(ctx context.Context, caller *model.User, floorID *int64) ([]model.Room, error) {
	q := s.db.WithContext(ctx).Scopes(authz.Scope(authz.ResourceRoom, caller))
	if floorID != nil {
		q = q.Where("floor_id = ?", *floorID)
	}
	var rooms []model.Room
	err := q.Order("floor_id, room_number").Find(&rooms).Error
	return rooms, err
}

func (s *gormStore) GetRoom(ctx context.Context, caller *model.User, id int64) (*model.Room, error) {
	var r model.Room
	err := s.db.WithContext(ctx).
		Scopes(authz.Scope(authz.ResourceRoom, caller)).
		First(&r, id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &r, nil
}

func (s *gormStore) CreateRoom(ctx context.Context, caller *model.User, r *model.Room) error {
	var floor model.Floor
	if err := s.db.WithContext(ctx).First(&floor, r.FloorID).Error; err != nil {
		return notFound(err)
	}
	// Dormitory is denormalized from the floor, never trusted from input.
	r.DormitoryID = floor.DormitoryID

	if err := s.requireDormitoryOwnership(ctx, caller, r.DormitoryID); err != nil {
		return err
	}
	if err := checkOccupancy(r); err != nil {
		return err
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&model.Room{}).
		Where("floor_id = ? AND room_number = ?", r.FloorID, r.RoomNumber).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("room %s already exists on this floor: %w", r.RoomNumber, ErrDuplicate)
	}

	deriveRoomStatus(r)
	return s.db.WithContext(ctx).Create(r).Error
}

func (s *gormStore) SaveRoom(ctx context.Context, caller *model.User, r *model.Room) error {
	if err := s.requireDormitoryOwnership(ctx, caller, r.DormitoryID); err != nil {
		return err
	}
	if err := checkOccupancy(r); err != nil {
		return err
	}
	deriveRoomStatus(r)
	return s.db.WithContext(ctx).Save(r).Error
}

func (s *gormStore) DeleteRoom(ctx context.Context, caller *model.User, id int64) error {
	r, err := s.GetRoom(ctx, caller, id)
	if err != nil {
		return err
	}
	if err := s.requireDormitoryOwnership(ctx, caller, r.DormitoryID); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(&model.Room{}, id).Error
}

// AdjustRoomOccupancy changes a room's occupancy by delta inside a
// transaction holding a row lock, so two concurrent adjustments cannot both
// pass the capacity check against stale reads.
func (s *gormStore) AdjustRoomOccupancy(ctx context.Context, caller *model.User, roomID int64, delta int) (*model.Room, error) {
	var room model.Room
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&room, roomID).Error; err != nil {
			return notFound(err)
		}
		if err := requireDormitoryOwnershipTx(tx, caller, room.DormitoryID); err != nil {
			return err
		}

		room.CurrentOccupancy += delta
		if room.CurrentOccupancy < 0 {
			return fmt.Errorf("occupancy cannot go below zero: %w", ErrValidation)
		}
		if err := checkOccupancy(&room); err != nil {
			return err
		}
		deriveRoomStatus(&room)
		return tx.Save(&room).Error
	})
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (s *gormStore) AddRoomImage(ctx context.Context, caller *model.User, img *model.RoomImage) error {
	var r model.Room
	if err := s.db.WithContext(ctx).First(&r, img.RoomID).Error; err != nil {
		return notFound(err)
	}
	if err := s.requireDormitoryOwnership(ctx, caller, r.DormitoryID); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Create(img).Error
}

func checkOccupancy(r *model.Room) error {
	if r.Capacity < 0 || r.CurrentOccupancy < 0 {
		return fmt.Errorf("capacity and occupancy must be non-negative: %w", ErrValidation)
	}
	if r.CurrentOccupancy > r.Capacity {
		return ErrCapacityExceeded
	}
	return nil
}

// deriveRoomStatus keeps the status field consistent with occupancy.
// A room under maintenance keeps that status until changed explicitly.
func deriveRoomStatus(r *model.Room) {
	if r.Status == model.RoomUnderMaintenance {
		return
	}
	switch {
	case r.Capacity > 0 && r.CurrentOccupancy >= r.Capacity:
		r.Status = model.RoomFull
	case r.CurrentOccupancy > 0:
		r.Status = model.RoomPartiallyFilled
	default:
		r.Status = model.RoomAvailable
	}
}

// lockForUpdate applies SELECT ... FOR UPDATE where the dialect supports it.
// SQLite serializes writers on its own, so the clause is skipped there.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}
