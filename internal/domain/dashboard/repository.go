package dashboard

import "context"

// DashboardRepository defines the interface for dashboard data access
type DashboardRepository interface {
	CountEmployees(ctx context.Context) (int, error)
	CountProjects(ctx context.Context) (int, error)
	CountPositions(ctx context.Context) (int, error)

	// SkillFrequencies counts skill names in first-seen order
	SkillFrequencies(ctx context.Context) ([]SkillCount, error)
}
