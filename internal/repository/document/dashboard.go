package document

import (
	"context"

	"github.com/cmlabs-hris/hrm-api/internal/domain/dashboard"
)

type dashboardRepositoryImpl struct {
	store *Store
}

func NewDashboardRepository(store *Store) dashboard.DashboardRepository {
	return &dashboardRepositoryImpl{store: store}
}

func (r *dashboardRepositoryImpl) count(ctx context.Context, fn func(doc *Document) int) (int, error) {
	var n int
	err := r.store.View(ctx, func(doc *Document) error {
		n = fn(doc)
		return nil
	})
	return n, err
}

func (r *dashboardRepositoryImpl) CountEmployees(ctx context.Context) (int, error) {
	return r.count(ctx, func(doc *Document) int { return len(doc.Employees) })
}

func (r *dashboardRepositoryImpl) CountProjects(ctx context.Context) (int, error) {
	return r.count(ctx, func(doc *Document) int { return len(doc.Projects) })
}

func (r *dashboardRepositoryImpl) CountPositions(ctx context.Context) (int, error) {
	return r.count(ctx, func(doc *Document) int { return len(doc.Positions) })
}

func (r *dashboardRepositoryImpl) SkillFrequencies(ctx context.Context) ([]dashboard.SkillCount, error) {
	out := []dashboard.SkillCount{}
	err := r.store.View(ctx, func(doc *Document) error {
		index := make(map[string]int)
		for _, e := range doc.Employees {
			for _, s := range e.Skills {
				if s.Name == "" {
					continue
				}
				if i, ok := index[s.Name]; ok {
					out[i].Count++
					continue
				}
				index[s.Name] = len(out)
				out = append(out, dashboard.SkillCount{Name: s.Name, Count: 1})
			}
		}
		return nil
	})
	return out, err
}
