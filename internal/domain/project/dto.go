package project

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/cmlabs-hris/hrm-api/internal/domain/employee"
	"github.com/cmlabs-hris/hrm-api/internal/domain/staffing"
	"github.com/cmlabs-hris/hrm-api/internal/pkg/listing"
	"github.com/cmlabs-hris/hrm-api/internal/pkg/validator"
)

// MemberRef names one employee of the desired roster. It accepts a bare id
// (7 or "7") or a roster entry object ({"employeeId": 7, "periods": [...]});
// submitted periods are ignored because the roster history is server-owned.
type MemberRef struct {
	EmployeeID int
}

func (m *MemberRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var entry struct {
			EmployeeID json.RawMessage `json:"employeeId"`
		}
		if err := json.Unmarshal(data, &entry); err != nil {
			return err
		}
		if entry.EmployeeID == nil {
			return fmt.Errorf("roster entry is missing employeeId")
		}
		data = entry.EmployeeID
	}

	var id validator.NullableInt
	if err := id.UnmarshalJSON(data); err != nil {
		return err
	}
	if id.Value == nil {
		return fmt.Errorf("roster entry has an empty employeeId")
	}
	m.EmployeeID = *id.Value
	return nil
}

func (m MemberRef) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Itoa(m.EmployeeID)), nil
}

// MemberIDs flattens refs into employee ids in submission order.
func MemberIDs(refs []MemberRef) []int {
	ids := make([]int, 0, len(refs))
	for _, r := range refs {
		ids = append(ids, r.EmployeeID)
	}
	return ids
}

type CreateProjectRequest struct {
	Name         string                `json:"name"`
	Manager      validator.NullableInt `json:"manager"`
	Status       string                `json:"status"`
	StartDate    string                `json:"start_date"`
	EndDate      string                `json:"end_date"`
	Description  string                `json:"description"`
	Customer     string                `json:"customer"`
	Technologies []string              `json:"technologies"`
	Employees    []MemberRef           `json:"employees"`
}

func (r *CreateProjectRequest) Validate() error {
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
	if r.Manager.Value == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "manager",
			Message: "manager is required",
		})
	}

	errs = append(errs, validateCommon(&r.Status, &r.StartDate, &r.EndDate, r.Technologies)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ToProject builds the record to insert without its roster.
func (r *CreateProjectRequest) ToProject() Project {
	status := StatusPending
	if r.Status != "" {
		status = Status(r.Status)
	}
	technologies := r.Technologies
	if technologies == nil {
		technologies = []string{}
	}
	return Project{
		Name:         strings.TrimSpace(r.Name),
		Manager:      *r.Manager.Value,
		Status:       status,
		StartDate:    r.StartDate,
		EndDate:      r.EndDate,
		Description:  r.Description,
		Customer:     r.Customer,
		Technologies: technologies,
	}
}

// UpdateProjectRequest lists the fields an update may change. When Employees
// is present the roster is reconciled against it; otherwise it is kept.
type UpdateProjectRequest struct {
	ID           int                   `json:"-"`
	Name         *string               `json:"name"`
	Manager      validator.NullableInt `json:"manager"`
	Status       *string               `json:"status"`
	StartDate    *string               `json:"start_date"`
	EndDate      *string               `json:"end_date"`
	Description  *string               `json:"description"`
	Customer     *string               `json:"customer"`
	Technologies *[]string             `json:"technologies"`
	Employees    *[]MemberRef          `json:"employees"`
}

func (r *UpdateProjectRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name cannot be empty",
		})
	}
	if r.Manager.Set && r.Manager.Value == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "manager",
			Message: "manager cannot be removed, assign another employee instead",
		})
	}

	var technologies []string
	if r.Technologies != nil {
		technologies = *r.Technologies
	}
	errs = append(errs, validateCommon(r.Status, r.StartDate, r.EndDate, technologies)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Apply merges the whitelisted scalar fields into p. The roster is handled
// by the caller.
func (r *UpdateProjectRequest) Apply(p *Project) {
	if r.Name != nil {
		p.Name = strings.TrimSpace(*r.Name)
	}
	if r.Manager.Value != nil {
		p.Manager = *r.Manager.Value
	}
	if r.Status != nil {
		p.Status = Status(*r.Status)
	}
	if r.StartDate != nil {
		p.StartDate = *r.StartDate
	}
	if r.EndDate != nil {
		p.EndDate = *r.EndDate
	}
	if r.Description != nil {
		p.Description = *r.Description
	}
	if r.Customer != nil {
		p.Customer = *r.Customer
	}
	if r.Technologies != nil {
		p.Technologies = append([]string{}, (*r.Technologies)...)
	}
}

func validateCommon(status, startDate, endDate *string, technologies []string) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if status != nil && *status != "" {
		valid := []string{string(StatusPending), string(StatusInProgress), string(StatusCompleted), string(StatusCancelled)}
		if !validator.IsInSlice(*status, valid) {
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: "status must be one of: " + strings.Join(valid, ", "),
			})
		}
	}

	var start, end string
	if startDate != nil {
		start = *startDate
	}
	if endDate != nil {
		end = *endDate
	}
	startTime, startOK := validator.IsValidDate(start)
	endTime, endOK := validator.IsValidDate(end)
	if start != "" && !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}
	if end != "" && !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}
	if startOK && endOK && endTime.Before(startTime) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	for _, tech := range technologies {
		if validator.IsEmpty(tech) {
			errs = append(errs, validator.ValidationError{
				Field:   "technologies",
				Message: "technology names cannot be empty",
			})
			break
		}
	}
	return errs
}

// StaffedEmployee is a roster entry with the employee record resolved.
type StaffedEmployee struct {
	employee.Employee
	Periods []staffing.Period `json:"periods"`
}

// ProjectDetailResponse is the single-project view: manager and roster ids
// are replaced by employee records.
type ProjectDetailResponse struct {
	Project
	Manager   *employee.Employee `json:"manager"`
	Employees []StaffedEmployee  `json:"employees"`
}

type ListProjectResponse = listing.Result[Project]

// SortFields lists the keys accepted by _sort on GET /projects.
var SortFields = listing.Comparators[Project]{
	"id":         func(a, b Project) int { return listing.CompareInt(a.ID, b.ID) },
	"name":       func(a, b Project) int { return listing.CompareString(a.Name, b.Name) },
	"status":     func(a, b Project) int { return listing.CompareString(string(a.Status), string(b.Status)) },
	"customer":   func(a, b Project) int { return listing.CompareString(a.Customer, b.Customer) },
	"start_date": func(a, b Project) int { return strings.Compare(a.StartDate, b.StartDate) },
	"end_date":   func(a, b Project) int { return strings.Compare(a.EndDate, b.EndDate) },
	"createdAt":  func(a, b Project) int { return a.CreatedAt.Compare(b.CreatedAt) },
	"updatedAt":  func(a, b Project) int { return a.UpdatedAt.Compare(b.UpdatedAt) },
}

// Matches applies the name filter and the free-text search of p.
func Matches(pr Project, p listing.Params) bool {
	return listing.MatchName(pr.Name, p.Name) && listing.MatchQuery(p.Query, pr.Name, pr.Customer, pr.Description)
}
