package employee

import (
	"mime/multipart"
	"strings"

	"github.com/cmlabs-hris/hrm-api/internal/domain/staffing"
	"github.com/cmlabs-hris/hrm-api/internal/pkg/listing"
	"github.com/cmlabs-hris/hrm-api/internal/pkg/validator"
)

type CreateEmployeeRequest struct {
	Name        string                `json:"name"`
	Code        string                `json:"code"`
	Email       string                `json:"email"`
	Phone       string                `json:"phone"`
	Identity    string                `json:"identity"`
	Position    validator.NullableInt `json:"position"`
	Manager     validator.NullableInt `json:"manager"`
	IsManager   bool                  `json:"is_manager"`
	Status      string                `json:"status"`
	Skills      []Skill               `json:"skills"`
	Address     string                `json:"address"`
	Gender      string                `json:"gender"`
	DateOfBirth string                `json:"date_of_birth"`

	File       multipart.File        `json:"-"`
	FileHeader *multipart.FileHeader `json:"-"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	} else if len(r.Name) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not exceed 255 characters",
		})
	}
	if validator.IsEmpty(r.Code) {
		errs = append(errs, validator.ValidationError{
			Field:   "code",
			Message: "code is required",
		})
	}
	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is required",
		})
	} else if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email must be a valid email address",
		})
	}

	errs = append(errs, validateOptional(&r.Phone, &r.Status, &r.Gender, &r.DateOfBirth, r.Skills)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ToEmployee builds the record to insert. Id, avatar and timestamps are set by
// the service.
func (r *CreateEmployeeRequest) ToEmployee() Employee {
	status := StatusActive
	if r.Status != "" {
		status = Status(r.Status)
	}
	skills := r.Skills
	if skills == nil {
		skills = []Skill{}
	}
	return Employee{
		Name:        strings.TrimSpace(r.Name),
		Code:        strings.TrimSpace(r.Code),
		Email:       strings.TrimSpace(r.Email),
		Phone:       strings.TrimSpace(r.Phone),
		Identity:    strings.TrimSpace(r.Identity),
		Position:    r.Position.Value,
		Manager:     r.Manager.Value,
		IsManager:   r.IsManager,
		Status:      status,
		Skills:      skills,
		Address:     r.Address,
		Gender:      Gender(r.Gender),
		DateOfBirth: r.DateOfBirth,
	}
}

// UpdateEmployeeRequest lists the fields an update may change. A nil pointer
// (or an unset NullableInt) leaves the stored value alone.
type UpdateEmployeeRequest struct {
	ID          int                   `json:"-"`
	Name        *string               `json:"name"`
	Code        *string               `json:"code"`
	Email       *string               `json:"email"`
	Phone       *string               `json:"phone"`
	Identity    *string               `json:"identity"`
	Position    validator.NullableInt `json:"position"`
	Manager     validator.NullableInt `json:"manager"`
	IsManager   *bool                 `json:"is_manager"`
	Status      *string               `json:"status"`
	Skills      *[]Skill              `json:"skills"`
	Address     *string               `json:"address"`
	Gender      *string               `json:"gender"`
	DateOfBirth *string               `json:"date_of_birth"`

	File       multipart.File        `json:"-"`
	FileHeader *multipart.FileHeader `json:"-"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name cannot be empty",
		})
	}
	if r.Code != nil && validator.IsEmpty(*r.Code) {
		errs = append(errs, validator.ValidationError{
			Field:   "code",
			Message: "code cannot be empty",
		})
	}
	if r.Email != nil && !validator.IsValidEmail(*r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email must be a valid email address",
		})
	}

	var skills []Skill
	if r.Skills != nil {
		skills = *r.Skills
	}
	errs = append(errs, validateOptional(r.Phone, r.Status, r.Gender, r.DateOfBirth, skills)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Apply merges the whitelisted fields into e.
func (r *UpdateEmployeeRequest) Apply(e *Employee) {
	if r.Name != nil {
		e.Name = strings.TrimSpace(*r.Name)
	}
	if r.Code != nil {
		e.Code = strings.TrimSpace(*r.Code)
	}
	if r.Email != nil {
		e.Email = strings.TrimSpace(*r.Email)
	}
	if r.Phone != nil {
		e.Phone = strings.TrimSpace(*r.Phone)
	}
	if r.Identity != nil {
		e.Identity = strings.TrimSpace(*r.Identity)
	}
	if r.Position.Set {
		e.Position = r.Position.Value
	}
	if r.Manager.Set {
		e.Manager = r.Manager.Value
	}
	if r.IsManager != nil {
		e.IsManager = *r.IsManager
	}
	if r.Status != nil {
		e.Status = Status(*r.Status)
	}
	if r.Skills != nil {
		e.Skills = append([]Skill{}, (*r.Skills)...)
	}
	if r.Address != nil {
		e.Address = *r.Address
	}
	if r.Gender != nil {
		e.Gender = Gender(*r.Gender)
	}
	if r.DateOfBirth != nil {
		e.DateOfBirth = *r.DateOfBirth
	}
}

// Deactivates reports whether the update sets status to inactive.
func (r *UpdateEmployeeRequest) Deactivates() bool {
	return r.Status != nil && Status(*r.Status) == StatusInactive
}

// RevokesManager reports whether the update clears is_manager.
func (r *UpdateEmployeeRequest) RevokesManager() bool {
	return r.IsManager != nil && !*r.IsManager
}

func validateOptional(phone, status, gender, dob *string, skills []Skill) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if phone != nil && *phone != "" && !validator.IsValidPhoneNumber(*phone) {
		errs = append(errs, validator.ValidationError{
			Field:   "phone",
			Message: "phone must contain 8-15 digits",
		})
	}
	if status != nil && *status != "" {
		valid := []string{string(StatusActive), string(StatusInactive)}
		if !validator.IsInSlice(*status, valid) {
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: "status must be one of: active, inactive",
			})
		}
	}
	if gender != nil && *gender != "" {
		valid := []string{string(Male), string(Female)}
		if !validator.IsInSlice(*gender, valid) {
			errs = append(errs, validator.ValidationError{
				Field:   "gender",
				Message: "gender must be Male or Female",
			})
		}
	}
	if dob != nil && *dob != "" {
		if _, ok := validator.IsValidDate(*dob); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "date_of_birth",
				Message: "date_of_birth must be in YYYY-MM-DD format",
			})
		}
	}
	for _, s := range skills {
		if validator.IsEmpty(s.Name) {
			errs = append(errs, validator.ValidationError{
				Field:   "skills",
				Message: "skill name cannot be empty",
			})
			break
		}
	}
	return errs
}

// Participation is one project an employee works on, either as a roster
// member, as the project manager, or both.
type Participation struct {
	ProjectID int               `json:"id"`
	Name      string            `json:"name"`
	Status    string            `json:"status"`
	StartDate string            `json:"start_date,omitempty"`
	EndDate   string            `json:"end_date,omitempty"`
	Roles     []string          `json:"roles"`
	Periods   []staffing.Period `json:"periods"`
}

// EmployeeDetailResponse is the single-employee view: the manager id is
// replaced by the manager record and the employee's projects are attached.
type EmployeeDetailResponse struct {
	Employee
	Manager  *Employee       `json:"manager"`
	Projects []Participation `json:"projects"`
}

type ListEmployeeResponse = listing.Result[Employee]

// SortFields lists the keys accepted by _sort on GET /employees.
var SortFields = listing.Comparators[Employee]{
	"id":         func(a, b Employee) int { return listing.CompareInt(a.ID, b.ID) },
	"name":       func(a, b Employee) int { return listing.CompareString(a.Name, b.Name) },
	"code":       func(a, b Employee) int { return listing.CompareString(a.Code, b.Code) },
	"email":      func(a, b Employee) int { return listing.CompareString(a.Email, b.Email) },
	"status":     func(a, b Employee) int { return listing.CompareString(string(a.Status), string(b.Status)) },
	"is_manager": func(a, b Employee) int { return listing.CompareBool(a.IsManager, b.IsManager) },
	"createdAt":  func(a, b Employee) int { return a.CreatedAt.Compare(b.CreatedAt) },
	"updatedAt":  func(a, b Employee) int { return a.UpdatedAt.Compare(b.UpdatedAt) },
}

// Matches applies the name filter and the free-text search of p.
func Matches(e Employee, p listing.Params) bool {
	return listing.MatchName(e.Name, p.Name) && listing.MatchQuery(p.Query, e.Name, e.Code, e.Email)
}
