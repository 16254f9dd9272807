package employee

import "errors"

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrCodeExists       = errors.New("employee code already exists")
	ErrEmailExists      = errors.New("email already registered")
	ErrPhoneExists      = errors.New("phone number already registered")
	ErrIdentityExists   = errors.New("identity number already registered")
	ErrInvalidManager   = errors.New("manager does not reference an existing employee")
	ErrInvalidPosition  = errors.New("position does not exist")

	// Integrity guards on update and delete
	ErrEmployeeInProject = errors.New("employee still manages or is staffed on a project")
	ErrEmployeeInManager = errors.New("other employees still report to this employee")
	ErrRequiredManager   = errors.New("employee is the manager of a project")
	ErrRequiredEmployee  = errors.New("employee is the only member of a project")
)
