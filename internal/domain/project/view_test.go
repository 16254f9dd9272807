package project

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/cmlabs-hris/hrm-api/internal/domain/employee"
	"github.com/cmlabs-hris/hrm-api/internal/domain/staffing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var joined = time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

func openEntry(id int) staffing.Entry {
	return staffing.Entry{EmployeeID: id, Periods: []staffing.Period{{JoiningTime: joined}}}
}

func TestDetail_ResolvesAndOmitsDangling(t *testing.T) {
	ix := employee.NewIndex([]employee.Employee{
		{ID: 1, Name: "Alice"},
		{ID: 2, Name: "Bob"},
	})
	p := Project{
		ID:        10,
		Name:      "Apollo",
		Manager:   1,
		Employees: []staffing.Entry{openEntry(2), openEntry(99)},
	}

	detail := Detail(p, ix)

	require.NotNil(t, detail.Manager)
	assert.Equal(t, "Alice", detail.Manager.Name)
	require.Len(t, detail.Employees, 1)
	assert.Equal(t, "Bob", detail.Employees[0].Name)
	assert.Equal(t, p.Employees[0].Periods, detail.Employees[0].Periods)
}

func TestDetail_MissingManagerIsNull(t *testing.T) {
	detail := Detail(Project{ID: 1, Manager: 5}, employee.NewIndex(nil))

	raw, err := json.Marshal(detail)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Nil(t, decoded["manager"])
	assert.Equal(t, []any{}, decoded["employees"])
}

func TestParticipations_UnionByProject(t *testing.T) {
	projects := []Project{
		{ID: 1, Name: "Both", Manager: 7, Employees: []staffing.Entry{openEntry(7)}},
		{ID: 2, Name: "Member only", Manager: 3, Employees: []staffing.Entry{openEntry(7), openEntry(3)}},
		{ID: 3, Name: "Manager only", Manager: 7, Employees: []staffing.Entry{openEntry(4)}},
		{ID: 4, Name: "Unrelated", Manager: 3, Employees: []staffing.Entry{openEntry(3)}},
	}

	got := Participations(projects, 7, "Developer")

	require.Len(t, got, 3)
	assert.Equal(t, 1, got[0].ProjectID)
	assert.Equal(t, []string{"Developer", RoleProjectManager}, got[0].Roles)
	assert.Len(t, got[0].Periods, 1)

	assert.Equal(t, 2, got[1].ProjectID)
	assert.Equal(t, []string{"Developer"}, got[1].Roles)

	assert.Equal(t, 3, got[2].ProjectID)
	assert.Equal(t, []string{RoleProjectManager}, got[2].Roles)
	assert.Empty(t, got[2].Periods)
	assert.NotNil(t, got[2].Periods)
}

func TestParticipations_DefaultRoleAndDedup(t *testing.T) {
	projects := []Project{{ID: 1, Manager: 2, Employees: []staffing.Entry{openEntry(2)}}}

	got := Participations(projects, 2, "")
	require.Len(t, got, 1)
	assert.Equal(t, []string{RoleMember, RoleProjectManager}, got[0].Roles)

	got = Participations(projects, 2, RoleProjectManager)
	assert.Equal(t, []string{RoleProjectManager}, got[0].Roles)
}

func TestProjectPredicates(t *testing.T) {
	left := joined.Add(time.Hour)
	p := Project{Manager: 1, Employees: []staffing.Entry{
		{EmployeeID: 2, Periods: []staffing.Period{{JoiningTime: joined, LeavingTime: &left}}},
	}}

	assert.True(t, p.IsManagedBy(1))
	assert.True(t, p.RequiresEmployee(2))
	assert.False(t, p.Staffs(2))
	assert.False(t, p.RequiresEmployee(1))
}

func TestClone_KeepsEmptyTechnologies(t *testing.T) {
	c := Project{ID: 1, Technologies: []string{}}.Clone()
	require.NotNil(t, c.Technologies)
	assert.Empty(t, c.Technologies)
}
