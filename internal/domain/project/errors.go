package project

import "errors"

var (
	ErrProjectNotFound  = errors.New("project not found")
	ErrInvalidManager   = errors.New("project manager does not reference an existing employee")
	ErrInvalidEmployee  = errors.New("project member does not reference an existing employee")
	ErrInactiveEmployee = errors.New("inactive employees cannot be assigned to a project")
)
