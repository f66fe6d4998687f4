// Package authz centralizes every permission decision in the service.
//
// Role-level capabilities are resolved through a single table consulted by
// all endpoints. Ownership (does this admin administer the dormitory the
// object belongs to, is this student the owner of the row) is a second,
// object-level check applied by the store on top of the table.
package authz

import "joybor-backend/internal/model"

// Action is a collection-level operation.
type Action string

const (
	ActionList   Action = "list"
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Resource names an API collection.
type Resource string

const (
	ResourceUser             Resource = "user"
	ResourceProfile          Resource = "profile"
	ResourceUniversity       Resource = "university"
	ResourceFaculty          Resource = "faculty"
	ResourceDormitory        Resource = "dormitory"
	ResourceFloor            Resource = "floor"
	ResourceRoom             Resource = "room"
	ResourceApplication      Resource = "application"
	ResourceStudent          Resource = "student"
	ResourcePayment          Resource = "payment"
	ResourceStudentSub       Resource = "student_subscription"
	ResourcePlan             Resource = "subscription_plan"
	ResourceDormSubscription Resource = "dormitory_subscription"
)

type actionSet uint8

const (
	canList actionSet = 1 << iota
	canRead
	canCreate
	canUpdate
	canDelete

	readOnly  = canList | canRead
	fullCRUD  = canList | canRead | canCreate | canUpdate | canDelete
	noActions = actionSet(0)
)

func (s actionSet) allows(a Action) bool {
	switch a {
	case ActionList:
		return s&canList != 0
	case ActionRead:
		return s&canRead != 0
	case ActionCreate:
		return s&canCreate != 0
	case ActionUpdate:
		return s&canUpdate != 0
	case ActionDelete:
		return s&canDelete != 0
	}
	return false
}

// capabilities is the single role capability table. List/read rows are still
// narrowed to the caller's scope by the store; update/delete still require
// the object-level ownership check.
var capabilities = map[Resource]map[model.Role]actionSet{
	ResourceUser: {
		model.RoleStudent:    readOnly | canUpdate, // self only
		model.RoleAdmin:      readOnly | canUpdate, // self only
		model.RoleSuperAdmin: fullCRUD,
	},
	ResourceProfile: {
		model.RoleStudent:    readOnly | canCreate | canUpdate,
		model.RoleAdmin:      readOnly | canCreate | canUpdate,
		model.RoleSuperAdmin: fullCRUD,
	},
	ResourceUniversity: {
		model.RoleStudent:    readOnly,
		model.RoleAdmin:      readOnly,
		model.RoleSuperAdmin: fullCRUD,
	},
	ResourceFaculty: {
		model.RoleStudent:    readOnly,
		model.RoleAdmin:      readOnly,
		model.RoleSuperAdmin: fullCRUD,
	},
	ResourceDormitory: {
		model.RoleStudent:    readOnly,
		model.RoleAdmin:      readOnly | canUpdate,
		model.RoleSuperAdmin: fullCRUD,
	},
	ResourceFloor: {
		model.RoleStudent:    readOnly,
		model.RoleAdmin:      fullCRUD,
		model.RoleSuperAdmin: fullCRUD,
	},
	ResourceRoom: {
		model.RoleStudent:    readOnly,
		model.RoleAdmin:      fullCRUD,
		model.RoleSuperAdmin: fullCRUD,
	},
	ResourceApplication: {
		model.RoleStudent:    readOnly | canCreate | canUpdate | canDelete, // own rows
		model.RoleAdmin:      readOnly | canUpdate,                         // review, own dormitory
		model.RoleSuperAdmin: fullCRUD,
	},
	ResourceStudent: {
		model.RoleStudent:    readOnly, // own record
		model.RoleAdmin:      fullCRUD, // own dormitory
		model.RoleSuperAdmin: fullCRUD,
	},
	ResourcePayment: {
		model.RoleStudent:    readOnly | canCreate | canUpdate, // own rows
		model.RoleAdmin:      readOnly,                         // strictly read-only
		model.RoleSuperAdmin: fullCRUD,
	},
	ResourceStudentSub: {
		model.RoleStudent:    readOnly, // own rows
		model.RoleAdmin:      fullCRUD, // own dormitory
		model.RoleSuperAdmin: fullCRUD,
	},
	ResourcePlan: {
		model.RoleStudent:    noActions,
		model.RoleAdmin:      fullCRUD, // update/delete only as creator
		model.RoleSuperAdmin: fullCRUD, // update/delete only as creator
	},
	ResourceDormSubscription: {
		model.RoleStudent:    noActions,
		model.RoleAdmin:      fullCRUD, // own dormitory
		model.RoleSuperAdmin: fullCRUD,
	},
}

// Can is the capability-resolution function: it decides whether the role may
// attempt the action on the resource at all. A true result still narrows to
// the caller's scope.
func Can(role model.Role, action Action, resource Resource) bool {
	byRole, ok := capabilities[resource]
	if !ok {
		return false
	}
	return byRole[role].allows(action)
}

// IsSuperAdmin reports whether the user holds the superadmin role.
func IsSuperAdmin(u *model.User) bool {
	return u != nil && u.Role == model.RoleSuperAdmin
}

// IsDormitoryAdmin reports whether the user holds the dormitory admin role.
func IsDormitoryAdmin(u *model.User) bool {
	return u != nil && u.Role == model.RoleAdmin
}

// IsStudent reports whether the user holds the student role.
func IsStudent(u *model.User) bool {
	return u != nil && u.Role == model.RoleStudent
}
