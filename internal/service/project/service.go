package project

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hrm-api/internal/domain/employee"
	"github.com/cmlabs-hris/hrm-api/internal/domain/project"
	"github.com/cmlabs-hris/hrm-api/internal/domain/staffing"
	"github.com/cmlabs-hris/hrm-api/internal/pkg/database"
	"github.com/cmlabs-hris/hrm-api/internal/pkg/listing"
)

type ProjectServiceImpl struct {
	db           database.Transactor
	projectRepo  project.ProjectRepository
	employeeRepo employee.EmployeeRepository
	now          func() time.Time
}

func NewProjectService(
	db database.Transactor,
	projectRepo project.ProjectRepository,
	employeeRepo employee.EmployeeRepository,
) project.ProjectService {
	return &ProjectServiceImpl{
		db:           db,
		projectRepo:  projectRepo,
		employeeRepo: employeeRepo,
		now:          time.Now,
	}
}

// CreateProject implements project.ProjectService.
func (s *ProjectServiceImpl) CreateProject(ctx context.Context, req project.CreateProjectRequest) (project.Project, error) {
	if err := req.Validate(); err != nil {
		return project.Project{}, err
	}

	var created project.Project
	err := s.db.WithWriteLock(ctx, func(txCtx context.Context) error {
		all, err := s.employeeRepo.List(txCtx)
		if err != nil {
			return fmt.Errorf("failed to list employees: %w", err)
		}
		ix := employee.NewIndex(all)

		p := req.ToProject()
		if err := checkManager(ix, p.Manager); err != nil {
			return err
		}

		desired := project.MemberIDs(req.Employees)
		if err := checkJoining(ix, nil, desired); err != nil {
			return err
		}

		now := s.now()
		p.Employees = staffing.Reconcile(nil, desired, now)
		p.CreatedAt = now
		p.UpdatedAt = now

		created, err = s.projectRepo.Create(txCtx, p)
		if err != nil {
			return fmt.Errorf("failed to create project: %w", err)
		}
		return nil
	})
	if err != nil {
		return project.Project{}, err
	}
	return created, nil
}

// GetProject implements project.ProjectService.
func (s *ProjectServiceImpl) GetProject(ctx context.Context, id int) (project.ProjectDetailResponse, error) {
	var detail project.ProjectDetailResponse
	err := s.db.ReadTx(ctx, func(txCtx context.Context) error {
		p, err := s.projectRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		all, err := s.employeeRepo.List(txCtx)
		if err != nil {
			return fmt.Errorf("failed to list employees: %w", err)
		}
		detail = project.Detail(p, employee.NewIndex(all))
		return nil
	})
	return detail, err
}

// UpdateProject implements project.ProjectService.
func (s *ProjectServiceImpl) UpdateProject(ctx context.Context, req project.UpdateProjectRequest) (project.Project, error) {
	if err := req.Validate(); err != nil {
		return project.Project{}, err
	}

	var updated project.Project
	err := s.db.WithWriteLock(ctx, func(txCtx context.Context) error {
		current, err := s.projectRepo.GetByID(txCtx, req.ID)
		if err != nil {
			return err
		}
		all, err := s.employeeRepo.List(txCtx)
		if err != nil {
			return fmt.Errorf("failed to list employees: %w", err)
		}
		ix := employee.NewIndex(all)

		next := current.Clone()
		req.Apply(&next)
		if next.Manager != current.Manager {
			if err := checkManager(ix, next.Manager); err != nil {
				return err
			}
		}

		now := s.now()
		if req.Employees != nil {
			desired := project.MemberIDs(*req.Employees)
			if err := checkJoining(ix, current.Employees, desired); err != nil {
				return err
			}
			next.Employees = staffing.Reconcile(current.Employees, desired, now)
		}
		next.UpdatedAt = now

		updated, err = s.projectRepo.Update(txCtx, next)
		if err != nil {
			return fmt.Errorf("failed to update project: %w", err)
		}
		return nil
	})
	if err != nil {
		return project.Project{}, err
	}
	return updated, nil
}

// DeleteProject implements project.ProjectService.
func (s *ProjectServiceImpl) DeleteProject(ctx context.Context, id int) error {
	return s.db.WithWriteLock(ctx, func(txCtx context.Context) error {
		return s.projectRepo.Delete(txCtx, id)
	})
}

// ListProjects implements project.ProjectService.
func (s *ProjectServiceImpl) ListProjects(ctx context.Context, params listing.Params) (project.ListProjectResponse, error) {
	all, err := s.projectRepo.List(ctx)
	if err != nil {
		return project.ListProjectResponse{}, fmt.Errorf("failed to list projects: %w", err)
	}

	matched := listing.Filter(all, func(p project.Project) bool { return project.Matches(p, params) })
	return listing.Apply(matched, params, project.SortFields)
}

// checkManager requires an existing, active employee as project manager.
func checkManager(ix employee.Index, managerID int) error {
	m, ok := ix.Lookup(managerID)
	if !ok {
		return project.ErrInvalidManager
	}
	if !m.IsActive() {
		return project.ErrInactiveEmployee
	}
	return nil
}

// checkJoining validates the desired roster. Every id must resolve, and an
// employee who would receive a new open period must be active.
func checkJoining(ix employee.Index, roster []staffing.Entry, desired []int) error {
	for _, id := range desired {
		e, ok := ix.Lookup(id)
		if !ok {
			return project.ErrInvalidEmployee
		}
		if staffing.HasOpenPeriod(roster, id) {
			continue
		}
		if !e.IsActive() {
			return project.ErrInactiveEmployee
		}
	}
	return nil
}
