package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"joybor-backend/internal/model"
)

// Store defines the interface for all database operations. List and Get
// methods apply the caller's authorization scope; mutation methods enforce
// ownership and the domain invariants.
type Store interface {
	DB() *gorm.DB

	// Users and authentication.
	CreateUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, id int64) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	ListUsers(ctx context.Context, caller *model.User) ([]model.User, error)
	UpdateUser(ctx context.Context, caller *model.User, id int64, upd UserUpdate) (*model.User, error)
	DeleteUser(ctx context.Context, caller *model.User, id int64) error
	SetPassword(ctx context.Context, userID int64, hash string) error
	SetResetToken(ctx context.Context, email, token string, expires time.Time) (*model.User, error)
	ConsumeResetToken(ctx context.Context, token, newHash string) error

	// Profiles.
	GetProfile(ctx context.Context, caller *model.User, userID int64) (*model.UserProfile, error)
	SaveProfile(ctx context.Context, caller *model.User, profile *model.UserProfile) error

	// Directory data.
	ListUniversities(ctx context.Context) ([]model.University, error)
	GetUniversity(ctx context.Context, id int64) (*model.University, error)
	CreateUniversity(ctx context.Context, u *model.University) error
	SaveUniversity(ctx context.Context, u *model.University) error
	DeleteUniversity(ctx context.Context, id int64) error
	ListFaculties(ctx context.Context, universityID *int64) ([]model.Faculty, error)
	GetFaculty(ctx context.Context, id int64) (*model.Faculty, error)
	CreateFaculty(ctx context.Context, f *model.Faculty) error
	SaveFaculty(ctx context.Context, f *model.Faculty) error
	DeleteFaculty(ctx context.Context, id int64) error

	// Housing inventory.
	ListDormitories(ctx context.Context, caller *model.User) ([]model.Dormitory, error)
	GetDormitory(ctx context.Context, caller *model.User, id int64) (*model.Dormitory, error)
	DormitoryOfAdmin(ctx context.Context, adminID int64) (*model.Dormitory, error)
	CreateDormitory(ctx context.Context, d *model.Dormitory) error
	SaveDormitory(ctx context.Context, caller *model.User, d *model.Dormitory) error
	DeleteDormitory(ctx context.Context, caller *model.User, id int64) error
	AddDormitoryImage(ctx context.Context, caller *model.User, img *model.DormitoryImage) error

	ListFloors(ctx context.Context, caller *model.User, dormitoryID *int64) ([]model.Floor, error)
	GetFloor(ctx context.Context, caller *model.User, id int64) (*model.Floor, error)
	CreateFloor(ctx context.Context, caller *model.User, f *model.Floor) error
	SaveFloor(ctx context.Context, caller *model.User, f *model.Floor) error
	DeleteFloor(ctx context.Context, caller *model.User, id int64) error

	ListRooms(ctx context.Context, caller *model.User, floorID *int64) ([]model.Room, error)
	GetRoom(ctx context.Context, caller *model.User, id int64) (*model.Room, error)
	CreateRoom(ctx context.Context, caller *model.User, r *model.Room) error
	SaveRoom(ctx context.Context, caller *model.User, r *model.Room) error
	DeleteRoom(ctx context.Context, caller *model.User, id int64) error
	AdjustRoomOccupancy(ctx context.Context, caller *model.User, roomID int64, delta int) (*model.Room, error)
	AddRoomImage(ctx context.Context, caller *model.User, img *model.RoomImage) error

	// Application workflow.
	CreateApplication(ctx context.Context, app *model.Application) error
	ListApplications(ctx context.Context, caller *model.User, status *model.ApplicationStatus) ([]model.Application, error)
	GetApplication(ctx context.Context, caller *model.User, id int64) (*model.Application, error)
	ReviewApplication(ctx context.Context, caller *model.User, id int64, newStatus model.ApplicationStatus) (*model.Application, error)
	DeleteApplication(ctx context.Context, caller *model.User, id int64) error

	// Housed students.
	ListStudents(ctx context.Context, caller *model.User) ([]model.Student, error)
	GetStudent(ctx context.Context, caller *model.User, id int64) (*model.Student, error)
	CreateStudent(ctx context.Context, caller *model.User, s *model.Student) error
	SaveStudent(ctx context.Context, caller *model.User, s *model.Student) error
	DeleteStudent(ctx context.Context, caller *model.User, id int64) error

	// Billing.
	CreatePayment(ctx context.Context, p *model.PaymentByStudent) error
	ListPayments(ctx context.Context, caller *model.User) ([]model.PaymentByStudent, error)
	GetPayment(ctx context.Context, caller *model.User, id int64) (*model.PaymentByStudent, error)
	SavePayment(ctx context.Context, caller *model.User, p *model.PaymentByStudent) error
	DeletePayment(ctx context.Context, caller *model.User, id int64) error

	CreateStudentSubscription(ctx context.Context, caller *model.User, s *model.SubscriptionForStudent) error
	ListStudentSubscriptions(ctx context.Context, caller *model.User) ([]model.SubscriptionForStudent, error)
	GetStudentSubscription(ctx context.Context, caller *model.User, id int64) (*model.SubscriptionForStudent, error)
	SaveStudentSubscription(ctx context.Context, caller *model.User, s *model.SubscriptionForStudent) error
	DeleteStudentSubscription(ctx context.Context, caller *model.User, id int64) error

	CreatePlan(ctx context.Context, plan *model.SubscriptionPlanForDormitory) error
	ListPlans(ctx context.Context, caller *model.User) ([]model.SubscriptionPlanForDormitory, error)
	GetPlan(ctx context.Context, caller *model.User, id int64) (*model.SubscriptionPlanForDormitory, error)
	SavePlan(ctx context.Context, caller *model.User, plan *model.SubscriptionPlanForDormitory) error
	DeletePlan(ctx context.Context, caller *model.User, id int64) error

	CreateDormSubscription(ctx context.Context, caller *model.User, s *model.DormitorySubscription) error
	ListDormSubscriptions(ctx context.Context, caller *model.User) ([]model.DormitorySubscription, error)
	GetDormSubscription(ctx context.Context, caller *model.User, id int64) (*model.DormitorySubscription, error)
	SaveDormSubscription(ctx context.Context, caller *model.User, s *model.DormitorySubscription, endDateSupplied bool) error
	DeleteDormSubscription(ctx context.Context, caller *model.User, id int64) error

	// Push notifications.
	UpsertPushSubscription(ctx context.Context, sub *model.PushSubscription) error
	DeletePushSubscription(ctx context.Context, userID int64, endpoint string) error
}

// UserUpdate carries the mutable user fields. Role and Status are honored
// only when the caller is a superadmin; from anyone else they are ignored,
// never trusted from client input.
type UserUpdate struct {
	FirstName *string
	LastName  *string
	Email     *string
	Role      *model.Role
	Status    *model.UserStatus
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// DB exposes the underlying connection for the worker pool and tests.
func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// notFound converts gorm's record-not-found into the domain sentinel.
func notFound(err error) error {
	if err == gorm.ErrRecordNotFound {
		return ErrNotFound
	}
	return err
}
