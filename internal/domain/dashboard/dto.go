package dashboard

// DashboardResponse is the admin summary: entity counts plus how often each
// skill name appears across employees.
type DashboardResponse struct {
	EmployeeCount int          `json:"employeeCount"`
	ProjectCount  int          `json:"projectCount"`
	PositionCount int          `json:"positionCount"`
	Skills        []SkillCount `json:"skills"`
}

// SkillCount is one skill name and the number of employees listing it.
type SkillCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}
