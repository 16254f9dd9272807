package dashboard

import (
	"context"

	"github.com/cmlabs-hris/hrm-api/internal/domain/dashboard"
	"github.com/cmlabs-hris/hrm-api/internal/pkg/database"
	"golang.org/x/sync/errgroup"
)

type DashboardServiceImpl struct {
	db database.Transactor
	dashboard.DashboardRepository
}

func NewDashboardService(db database.Transactor, repo dashboard.DashboardRepository) dashboard.DashboardService {
	return &DashboardServiceImpl{
		db:                  db,
		DashboardRepository: repo,
	}
}

// GetDashboard gathers the counts in parallel against one snapshot so the
// numbers agree with each other.
func (s *DashboardServiceImpl) GetDashboard(ctx context.Context) (*dashboard.DashboardResponse, error) {
	var resp dashboard.DashboardResponse

	err := s.db.ReadTx(ctx, func(txCtx context.Context) error {
		g, gCtx := errgroup.WithContext(txCtx)

		g.Go(func() error {
			n, err := s.CountEmployees(gCtx)
			resp.EmployeeCount = n
			return err
		})
		g.Go(func() error {
			n, err := s.CountProjects(gCtx)
			resp.ProjectCount = n
			return err
		})
		g.Go(func() error {
			n, err := s.CountPositions(gCtx)
			resp.PositionCount = n
			return err
		})
		g.Go(func() error {
			skills, err := s.SkillFrequencies(gCtx)
			resp.Skills = skills
			return err
		})

		return g.Wait()
	})
	if err != nil {
		return nil, err
	}

	if resp.Skills == nil {
		resp.Skills = []dashboard.SkillCount{}
	}
	return &resp, nil
}
