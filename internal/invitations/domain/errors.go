package domain

import "errors"

var (
	ErrNotFound            = errors.New("invitation not found")
	ErrPermissionDenied    = errors.New("you do not have permission to invite users")
	ErrAlreadyMember       = errors.New("user is already a member of this project")
	ErrDuplicateInvitation = errors.New("this user already has a pending invitation to this project")
	ErrForbidden           = errors.New("this invitation is not for you")
	ErrAlreadyProcessed    = errors.New("this invitation has already been processed")

	// ErrBatchUnsupported is returned by stores that cannot apply an
	// acceptance as one atomic write; callers fall back to the ordered
	// sequential path.
	ErrBatchUnsupported = errors.New("atomic batch writes unsupported")
)
