package authz

import (
	"gorm.io/gorm"

	"joybor-backend/internal/model"
)

// Scope returns a GORM scope narrowing a list query on the resource to the
// rows visible to the user. Every collection handler applies it; a role with
// nothing visible gets a query that matches no rows, never an error.
func Scope(resource Resource, u *model.User) func(tx *gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		if u == nil {
			return none(tx)
		}
		if IsSuperAdmin(u) {
			return tx
		}

		switch resource {
		case ResourceUser:
			return tx.Where("id = ?", u.ID)

		case ResourceProfile:
			return tx.Where("user_id = ?", u.ID)

		case ResourceUniversity, ResourceFaculty, ResourceDormitory:
			// Directory data and dormitory listings are visible to every
			// authenticated role.
			return tx

		case ResourceFloor, ResourceRoom, ResourceDormSubscription:
			if IsDormitoryAdmin(u) {
				return tx.Where("dormitory_id IN (?)", administeredDormitories(tx, u))
			}
			if resource == ResourceDormSubscription {
				return none(tx)
			}
			// Students browse floors and rooms read-only.
			return tx

		case ResourceApplication:
			if IsDormitoryAdmin(u) {
				return tx.Where("dormitory_id IN (?)", administeredDormitories(tx, u))
			}
			return tx.Where("student_id = ?", u.ID)

		case ResourceStudent:
			if IsDormitoryAdmin(u) {
				return tx.Where("dormitory_id IN (?)", administeredDormitories(tx, u))
			}
			return tx.Where("user_id = ?", u.ID)

		case ResourcePayment:
			if IsDormitoryAdmin(u) {
				// Admins see the payment ledger read-only.
				return tx
			}
			return tx.Where("student_id = ?", u.ID)

		case ResourceStudentSub:
			if IsDormitoryAdmin(u) {
				return tx.Where("dormitory_id IN (?)", administeredDormitories(tx, u))
			}
			return tx.Where("student_id = ?", u.ID)

		case ResourcePlan:
			if IsDormitoryAdmin(u) {
				return tx
			}
			return none(tx)
		}

		return none(tx)
	}
}

// administeredDormitories is the subquery of dormitory ids administered by
// the user. The unique index on dormitories.admin_id keeps this at most one
// row, so an admin with no dormitory simply scopes to nothing.
func administeredDormitories(tx *gorm.DB, u *model.User) *gorm.DB {
	return tx.Session(&gorm.Session{NewDB: true}).
		Model(&model.Dormitory{}).
		Select("id").
		Where("admin_id = ?", u.ID)
}

func none(tx *gorm.DB) *gorm.DB {
	return tx.Where("1 = 0")
}
