package employee

import (
	"context"

	"github.com/cmlabs-hris/hrm-api/internal/pkg/listing"
)

// EmployeeService defines business logic for employee operations
type EmployeeService interface {
	// CreateEmployee checks uniqueness and references, uploads the avatar if any, then inserts
	CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (Employee, error)

	// GetEmployee returns the employee with its manager and project participations resolved
	GetEmployee(ctx context.Context, id int) (EmployeeDetailResponse, error)

	// UpdateEmployee applies a whitelisted update after the integrity guards pass
	UpdateEmployee(ctx context.Context, req UpdateEmployeeRequest) (Employee, error)

	// DeleteEmployee removes the employee and its roster entries
	DeleteEmployee(ctx context.Context, id int) error

	// ListEmployees filters, sorts and paginates the directory
	ListEmployees(ctx context.Context, params listing.Params) (ListEmployeeResponse, error)

	// ListManagers returns employees flagged is_manager
	ListManagers(ctx context.Context) ([]Employee, error)

	// GetEmployeeProjects returns the employee's project participations
	GetEmployeeProjects(ctx context.Context, id int) ([]Participation, error)
}
