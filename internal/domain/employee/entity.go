package employee

import (
	"slices"
	"time"
)

type Employee struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Identity    string    `json:"identity"`
	Position    *int      `json:"position"`
	Manager     *int      `json:"manager"`
	IsManager   bool      `json:"is_manager"`
	Status      Status    `json:"status"`
	Avatar      string    `json:"avatar"`
	Skills      []Skill   `json:"skills"`
	Address     string    `json:"address,omitempty"`
	Gender      Gender    `json:"gender,omitempty"`
	DateOfBirth string    `json:"date_of_birth,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Skill struct {
	Name string `json:"name"`
}

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

type Gender string

const (
	Male   Gender = "Male"
	Female Gender = "Female"
)

// IsActive reports whether the employee can be staffed.
func (e Employee) IsActive() bool {
	return e.Status != StatusInactive
}

// ReportsTo reports whether managerID is the employee's manager.
func (e Employee) ReportsTo(managerID int) bool {
	return e.Manager != nil && *e.Manager == managerID
}

// Clone returns a deep copy.
func (e Employee) Clone() Employee {
	out := e
	if e.Position != nil {
		v := *e.Position
		out.Position = &v
	}
	if e.Manager != nil {
		v := *e.Manager
		out.Manager = &v
	}
	out.Skills = slices.Clone(e.Skills)
	return out
}
