package project

import (
	"slices"
	"time"

	"github.com/cmlabs-hris/hrm-api/internal/domain/staffing"
)

type Project struct {
	ID           int              `json:"id"`
	Name         string           `json:"name"`
	Manager      int              `json:"manager"`
	Status       Status           `json:"status"`
	StartDate    string           `json:"start_date,omitempty"`
	EndDate      string           `json:"end_date,omitempty"`
	Description  string           `json:"description,omitempty"`
	Customer     string           `json:"customer,omitempty"`
	Technologies []string         `json:"technologies"`
	Employees    []staffing.Entry `json:"employees"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// IsManagedBy reports whether employeeID is the project manager.
func (p Project) IsManagedBy(employeeID int) bool {
	return p.Manager == employeeID
}

// RequiresEmployee reports whether removing employeeID would leave the
// roster empty.
func (p Project) RequiresEmployee(employeeID int) bool {
	return staffing.IsSoleMember(p.Employees, employeeID)
}

// Staffs reports whether employeeID currently holds an open period.
func (p Project) Staffs(employeeID int) bool {
	return staffing.HasOpenPeriod(p.Employees, employeeID)
}

// Clone returns a deep copy.
func (p Project) Clone() Project {
	out := p
	out.Technologies = slices.Clone(p.Technologies)
	out.Employees = staffing.CloneRoster(p.Employees)
	return out
}
