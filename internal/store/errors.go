package store

import "errors"

// Domain errors surfaced to the API layer. Handlers map these onto HTTP
// status codes; everything else is a 500.
var (
	// ErrNotFound covers unknown ids and rows outside the caller's scope.
	ErrNotFound = errors.New("not found")

	// ErrForbidden is an ownership or role violation on an object the caller
	// can see.
	ErrForbidden = errors.New("forbidden")

	// ErrNoDormitory is returned when a dormitory admin with no dormitory
	// assigned attempts a dormitory-scoped mutation.
	ErrNoDormitory = errors.New("admin has no dormitory assigned")

	// ErrCapacityExceeded rejects room writes with occupancy over capacity.
	ErrCapacityExceeded = errors.New("current occupancy cannot exceed room capacity")

	// ErrDuplicatePending rejects a second pending application by the same
	// student to the same dormitory.
	ErrDuplicatePending = errors.New("a pending application to this dormitory already exists")

	// ErrPaymentMismatch rejects a student subscription naming a payment that
	// belongs to a different student.
	ErrPaymentMismatch = errors.New("payment does not belong to the named student")

	// ErrInvalidTransition rejects review transitions out of a terminal
	// application status.
	ErrInvalidTransition = errors.New("application status cannot change once reviewed")

	// ErrCreatorOnly rejects plan mutations by anyone but the plan's creator.
	ErrCreatorOnly = errors.New("only the creator may modify this plan")

	// ErrResetToken covers unknown and expired password reset tokens.
	ErrResetToken = errors.New("invalid or expired reset token")

	// ErrDuplicate covers unique-constraint style validation failures
	// detected before the write.
	ErrDuplicate = errors.New("duplicate value")

	// ErrValidation covers other business-rule violations in input.
	ErrValidation = errors.New("validation failed")
)
