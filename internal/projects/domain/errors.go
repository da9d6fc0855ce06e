package domain

import "errors"

var (
	ErrNotFound  = errors.New("project not found")
	ErrForbidden = errors.New("you do not have access to this project")
)
