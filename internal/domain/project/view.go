package project

import (
	"slices"

	"github.com/cmlabs-hris/hrm-api/internal/domain/employee"
	"github.com/cmlabs-hris/hrm-api/internal/domain/staffing"
)

const (
	RoleProjectManager = "Project Manager"
	RoleMember         = "Member"
)

// Detail resolves the manager and the roster of p against ix. Roster entries
// whose employee is gone are omitted; open and closed entries are both kept.
func Detail(p Project, ix employee.Index) ProjectDetailResponse {
	manager := p.Manager
	detail := ProjectDetailResponse{
		Project:   p.Clone(),
		Manager:   ix.ResolveOrOmit(&manager),
		Employees: make([]StaffedEmployee, 0, len(p.Employees)),
	}
	for _, entry := range p.Employees {
		e := ix.ResolveOrOmit(&entry.EmployeeID)
		if e == nil {
			continue
		}
		detail.Employees = append(detail.Employees, StaffedEmployee{
			Employee: *e,
			Periods:  entry.Clone().Periods,
		})
	}
	return detail
}

// Participations lists the projects employeeID takes part in. Roster
// membership contributes memberRole and the entry's periods; managing the
// project contributes RoleProjectManager. A project reached both ways
// appears once with both roles.
func Participations(projects []Project, employeeID int, memberRole string) []employee.Participation {
	if memberRole == "" {
		memberRole = RoleMember
	}

	out := make([]employee.Participation, 0)
	index := make(map[int]int)

	add := func(p Project, role string, periods []staffing.Period) {
		if i, ok := index[p.ID]; ok {
			if !slices.Contains(out[i].Roles, role) {
				out[i].Roles = append(out[i].Roles, role)
			}
			if periods != nil {
				out[i].Periods = periods
			}
			return
		}
		if periods == nil {
			periods = []staffing.Period{}
		}
		index[p.ID] = len(out)
		out = append(out, employee.Participation{
			ProjectID: p.ID,
			Name:      p.Name,
			Status:    string(p.Status),
			StartDate: p.StartDate,
			EndDate:   p.EndDate,
			Roles:     []string{role},
			Periods:   periods,
		})
	}

	for _, p := range projects {
		if entry, ok := staffing.Find(p.Employees, employeeID); ok {
			add(p, memberRole, entry.Clone().Periods)
		}
	}
	for _, p := range projects {
		if p.IsManagedBy(employeeID) {
			add(p, RoleProjectManager, nil)
		}
	}
	return out
}
