package errs

import "errors"

// Common sentinel errors for cross-layer signaling.
var (
	ErrNotFound = errors.New("not_found")
	ErrConflict = errors.New("conflict")
	ErrInvalid  = errors.New("invalid")
	// ErrLinkedDetail indicates an institutional detail line that mirrors a
	// personal expense; it must be edited from the personal side.
	ErrLinkedDetail = errors.New("linked_detail")
	// ErrWithdrawalDone indicates the category already carries a withdrawal
	// marker, so a second bank withdrawal must not be initiated.
	ErrWithdrawalDone = errors.New("withdrawal_done")
)
