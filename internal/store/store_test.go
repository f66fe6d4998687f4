package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"joybor-backend/internal/db"
	"joybor-backend/internal/model"
)

// newMockDB creates a gorm connection backed by sqlmock with a postgres
// dialector, for asserting the exact SQL the store emits.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: conn,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

// newSQLiteStore creates an in-memory database with the full schema for
// behavioral tests.
func newSQLiteStore(t *testing.T) (Store, *gorm.DB) {
	gormDB, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB))
	return NewGormStore(gormDB), gormDB
}

func seedAdminWithDormitory(t *testing.T, gormDB *gorm.DB, name string) (*model.User, *model.Dormitory) {
	admin := &model.User{Username: name, Email: name + "@example.com", Role: model.RoleAdmin, Status: model.UserActive}
	require.NoError(t, gormDB.Create(admin).Error)
	dorm := &model.Dormitory{Name: name + " dorm", FloorsCount: 3, AdminID: &admin.ID}
	require.NoError(t, gormDB.Create(dorm).Error)
	return admin, dorm
}

// TestAdjustRoomOccupancyLocksRow asserts that on postgres the occupancy
// read-modify-write runs inside a transaction and the initial read takes a
// row lock.
func TestAdjustRoomOccupancyLocksRow(t *testing.T) {
	gormDB, mock := newMockDB(t)
	s := NewGormStore(gormDB)

	superadmin := &model.User{ID: 1, Role: model.RoleSuperAdmin}

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "rooms" WHERE .+ FOR UPDATE`).
		WithArgs(int64(7), 1).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "floor_id", "dormitory_id", "room_number", "capacity", "current_occupancy", "status"}).
			AddRow(7, 2, 3, "101", 2, 0, "available"))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "dormitories"`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectExec(`UPDATE "rooms" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	room, err := s.AdjustRoomOccupancy(context.Background(), superadmin, 7, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, room.CurrentOccupancy)
	assert.Equal(t, model.RoomPartiallyFilled, room.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestAdjustRoomOccupancyByAdmin runs the adjustment end to end on sqlite.
// The ownership lookup must run on the transaction's own connection, or an
// in-memory database per connection would make it fail to see the schema.
func TestAdjustRoomOccupancyByAdmin(t *testing.T) {
	s, gormDB := newSQLiteStore(t)
	ctx := context.Background()

	admin, dorm := seedAdminWithDormitory(t, gormDB, "adjust")
	floor := &model.Floor{DormitoryID: dorm.ID, FloorNumber: 1, GenderType: model.GenderMale}
	require.NoError(t, gormDB.Create(floor).Error)
	room := &model.Room{FloorID: floor.ID, DormitoryID: dorm.ID, RoomNumber: "301", Capacity: 2}
	require.NoError(t, gormDB.Create(room).Error)

	got, err := s.AdjustRoomOccupancy(ctx, admin, room.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, got.CurrentOccupancy)
	assert.Equal(t, model.RoomPartiallyFilled, got.Status)

	foreignAdmin, _ := seedAdminWithDormitory(t, gormDB, "adjust-foreign")
	_, err = s.AdjustRoomOccupancy(ctx, foreignAdmin, room.ID, 1)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCreateRoomDerivesDormitory(t *testing.T) {
	s, gormDB := newSQLiteStore(t)
	ctx := context.Background()

	admin, dorm := seedAdminWithDormitory(t, gormDB, "derive")
	_, otherDorm := seedAdminWithDormitory(t, gormDB, "other")

	floor := &model.Floor{DormitoryID: dorm.ID, FloorNumber: 1, GenderType: model.GenderMale}
	require.NoError(t, gormDB.Create(floor).Error)

	// The request claims the room belongs to another dormitory; the store
	// must derive the real one from the floor.
	room := &model.Room{FloorID: floor.ID, DormitoryID: otherDorm.ID, RoomNumber: "101", Capacity: 3}
	require.NoError(t, s.CreateRoom(ctx, admin, room))
	assert.Equal(t, dorm.ID, room.DormitoryID)
	assert.Equal(t, model.RoomAvailable, room.Status)
}

func TestCreateRoomRejectsOverCapacity(t *testing.T) {
	s, gormDB := newSQLiteStore(t)
	ctx := context.Background()

	admin, dorm := seedAdminWithDormitory(t, gormDB, "cap")
	floor := &model.Floor{DormitoryID: dorm.ID, FloorNumber: 1, GenderType: model.GenderFemale}
	require.NoError(t, gormDB.Create(floor).Error)

	room := &model.Room{FloorID: floor.ID, RoomNumber: "201", Capacity: 2, CurrentOccupancy: 3}
	err := s.CreateRoom(ctx, admin, room)
	assert.ErrorIs(t, err, ErrCapacityExceeded)
}

func TestReviewApplicationStudentRules(t *testing.T) {
	s, gormDB := newSQLiteStore(t)
	ctx := context.Background()

	_, dorm := seedAdminWithDormitory(t, gormDB, "review")
	student := &model.User{Username: "canceller", Email: "canceller@example.com", Role: model.RoleStudent, Status: model.UserActive}
	require.NoError(t, gormDB.Create(student).Error)

	newApp := func(passport string) *model.Application {
		app := &model.Application{
			StudentID:      student.ID,
			DormitoryID:    dorm.ID,
			FirstName:      "A",
			LastName:       "B",
			PassportNumber: passport,
		}
		require.NoError(t, s.CreateApplication(ctx, app))
		return app
	}

	t.Run("student may cancel their own application", func(t *testing.T) {
		app := newApp("AA0000001")
		got, err := s.ReviewApplication(ctx, student, app.ID, model.ApplicationCancelled)
		require.NoError(t, err)
		assert.Equal(t, model.ApplicationCancelled, got.Status)
		assert.NotNil(t, got.ReviewedAt)
	})

	t.Run("student may not approve", func(t *testing.T) {
		app := newApp("AA0000002")
		_, err := s.ReviewApplication(ctx, student, app.ID, model.ApplicationApproved)
		assert.ErrorIs(t, err, ErrForbidden)

		// Clear the pending row so it cannot shadow later submissions.
		_, err = s.ReviewApplication(ctx, student, app.ID, model.ApplicationCancelled)
		require.NoError(t, err)
	})

	t.Run("cancelled applications stay cancelled", func(t *testing.T) {
		app := newApp("AA0000003")
		_, err := s.ReviewApplication(ctx, student, app.ID, model.ApplicationCancelled)
		require.NoError(t, err)
		_, err = s.ReviewApplication(ctx, student, app.ID, model.ApplicationCancelled)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestConsumeResetToken(t *testing.T) {
	s, gormDB := newSQLiteStore(t)
	ctx := context.Background()

	user := &model.User{Username: "reset", Email: "reset@example.com", Role: model.RoleStudent, Status: model.UserActive}
	require.NoError(t, gormDB.Create(user).Error)

	t.Run("expired token is rejected", func(t *testing.T) {
		_, err := s.SetResetToken(ctx, user.Email, "expired-token", time.Now().Add(-time.Hour))
		require.NoError(t, err)
		err = s.ConsumeResetToken(ctx, "expired-token", "newhash")
		assert.ErrorIs(t, err, ErrResetToken)
	})

	t.Run("empty token never matches", func(t *testing.T) {
		err := s.ConsumeResetToken(ctx, "", "newhash")
		assert.ErrorIs(t, err, ErrResetToken)
	})

	t.Run("valid token sets the password once", func(t *testing.T) {
		_, err := s.SetResetToken(ctx, user.Email, "good-token", time.Now().Add(time.Hour))
		require.NoError(t, err)
		require.NoError(t, s.ConsumeResetToken(ctx, "good-token", "newhash"))

		var fresh model.User
		require.NoError(t, gormDB.First(&fresh, user.ID).Error)
		assert.Equal(t, "newhash", fresh.PasswordHash)
		assert.Empty(t, fresh.ResetPasswordToken)

		err = s.ConsumeResetToken(ctx, "good-token", "otherhash")
		assert.ErrorIs(t, err, ErrResetToken)
	})
}

func TestDormSubscriptionEndDate(t *testing.T) {
	s, gormDB := newSQLiteStore(t)
	ctx := context.Background()

	admin, dorm := seedAdminWithDormitory(t, gormDB, "subs")
	plan := &model.SubscriptionPlanForDormitory{Name: "Annual", Price: 100, DurationMonths: 12, CreatedByID: admin.ID}
	require.NoError(t, s.CreatePlan(ctx, plan))

	start := time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC)
	sub := &model.DormitorySubscription{
		DormitoryID: dorm.ID,
		PlanID:      &plan.ID,
		StartDate:   start,
		CreatedByID: admin.ID,
		IsActive:    true,
	}
	require.NoError(t, s.CreateDormSubscription(ctx, admin, sub))
	assert.Equal(t, "2027-01-31", sub.EndDate.Format("2006-01-02"))

	t.Run("save without explicit end date recomputes from the plan", func(t *testing.T) {
		sub.StartDate = time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC)
		require.NoError(t, s.SaveDormSubscription(ctx, admin, sub, false))
		assert.Equal(t, "2027-08-31", sub.EndDate.Format("2006-01-02"))
	})

	t.Run("an explicit end date wins over the plan duration", func(t *testing.T) {
		sub.EndDate = time.Date(2026, time.December, 1, 0, 0, 0, 0, time.UTC)
		require.NoError(t, s.SaveDormSubscription(ctx, admin, sub, true))
		assert.Equal(t, "2026-12-01", sub.EndDate.Format("2006-01-02"))
	})
}

func TestPlanCreatorOnly(t *testing.T) {
	s, gormDB := newSQLiteStore(t)
	ctx := context.Background()

	creator, _ := seedAdminWithDormitory(t, gormDB, "creator")
	superadmin := &model.User{Username: "boss", Email: "boss@example.com", Role: model.RoleSuperAdmin, Status: model.UserActive}
	require.NoError(t, gormDB.Create(superadmin).Error)

	plan := &model.SubscriptionPlanForDormitory{Name: "Monthly", Price: 10, DurationMonths: 1, CreatedByID: creator.ID}
	require.NoError(t, s.CreatePlan(ctx, plan))

	plan.Price = 20
	err := s.SavePlan(ctx, superadmin, plan)
	assert.ErrorIs(t, err, ErrCreatorOnly)

	err = s.DeletePlan(ctx, superadmin, plan.ID)
	assert.ErrorIs(t, err, ErrCreatorOnly)

	require.NoError(t, s.SavePlan(ctx, creator, plan))
	require.NoError(t, s.DeletePlan(ctx, creator, plan.ID))
}
