package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hrm-api/internal/domain/auth"
	"github.com/cmlabs-hris/hrm-api/internal/domain/employee"
	"github.com/cmlabs-hris/hrm-api/internal/domain/master/position"
	"github.com/cmlabs-hris/hrm-api/internal/domain/project"
	"github.com/cmlabs-hris/hrm-api/internal/domain/user"
	"github.com/cmlabs-hris/hrm-api/internal/pkg/storage"
	"github.com/cmlabs-hris/hrm-api/internal/pkg/validator"
	"github.com/cmlabs-hris/hrm-api/internal/service/file"
)

// conflicts maps integrity and uniqueness errors to their status tag.
var conflicts = []struct {
	err    error
	status string
}{
	{employee.ErrCodeExists, "code_exists"},
	{employee.ErrEmailExists, "email_exists"},
	{employee.ErrPhoneExists, "phone_exists"},
	{employee.ErrIdentityExists, "identity_exists"},
	{employee.ErrEmployeeInProject, "employee_in_project"},
	{employee.ErrEmployeeInManager, "employee_in_manager"},
	{employee.ErrRequiredManager, "required_manager"},
	{employee.ErrRequiredEmployee, "required_employee"},
	{employee.ErrInvalidManager, "invalid_manager"},
	{employee.ErrInvalidPosition, "invalid_position"},
	{project.ErrInvalidManager, "invalid_manager"},
	{project.ErrInvalidEmployee, "invalid_employee"},
	{project.ErrInactiveEmployee, "inactive_employee"},
	{position.ErrPositionNameExists, "position_exists"},
	{user.ErrUserEmailExists, "email_exists"},
}

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	for _, c := range conflicts {
		if errors.Is(err, c.err) {
			Conflict(w, c.err.Error(), c.status)
			return
		}
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrUnverified):
		Unauthorized(w, "Unverified")
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Password does not match")
	case errors.Is(err, auth.ErrTokenRequired):
		Unauthorized(w, "Access token is required")
	case errors.Is(err, auth.ErrTokenExpired):
		Forbidden(w, "Token expired")
	case errors.Is(err, auth.ErrInvalidToken):
		Forbidden(w, "Invalid token")
	case errors.Is(err, auth.ErrRefreshTokenRequired):
		Forbidden(w, "Refresh token is required")
	case errors.Is(err, auth.ErrRefreshTokenNotFound):
		Forbidden(w, "Refresh token not recognised")
	case errors.Is(err, user.ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin privilege required")
	case errors.Is(err, auth.ErrUserNotFound), errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")

	// Directory errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, project.ErrProjectNotFound):
		NotFound(w, "Project not found")
	case errors.Is(err, position.ErrPositionNotFound):
		NotFound(w, "Position not found")

	// Uploads
	case errors.Is(err, file.ErrInvalidFileType), errors.Is(err, file.ErrInvalidImage), errors.Is(err, storage.ErrInvalidPath):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, err.Error())
	}
}
