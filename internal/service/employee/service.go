package employee

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"time"

	"github.com/cmlabs-hris/hrm-api/internal/domain/employee"
	"github.com/cmlabs-hris/hrm-api/internal/domain/master/position"
	"github.com/cmlabs-hris/hrm-api/internal/domain/project"
	"github.com/cmlabs-hris/hrm-api/internal/domain/staffing"
	"github.com/cmlabs-hris/hrm-api/internal/pkg/database"
	"github.com/cmlabs-hris/hrm-api/internal/pkg/listing"
	"github.com/cmlabs-hris/hrm-api/internal/service/file"
)

type EmployeeServiceImpl struct {
	db           database.Transactor
	employeeRepo employee.EmployeeRepository
	projectRepo  project.ProjectRepository
	positionRepo position.PositionRepository
	fileService  file.FileService
	now          func() time.Time
}

func NewEmployeeService(
	db database.Transactor,
	employeeRepo employee.EmployeeRepository,
	projectRepo project.ProjectRepository,
	positionRepo position.PositionRepository,
	fileService file.FileService,
) employee.EmployeeService {
	return &EmployeeServiceImpl{
		db:           db,
		employeeRepo: employeeRepo,
		projectRepo:  projectRepo,
		positionRepo: positionRepo,
		fileService:  fileService,
		now:          time.Now,
	}
}

// CreateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.Employee, error) {
	if err := req.Validate(); err != nil {
		return employee.Employee{}, err
	}

	avatarURL, err := s.uploadAvatar(ctx, req.File, req.FileHeader)
	if err != nil {
		return employee.Employee{}, err
	}

	var created employee.Employee
	err = s.db.WithWriteLock(ctx, func(txCtx context.Context) error {
		all, err := s.employeeRepo.List(txCtx)
		if err != nil {
			return fmt.Errorf("failed to list employees: %w", err)
		}

		candidate := req.ToEmployee()
		if err := employee.CheckUnique(all, candidate, 0); err != nil {
			return err
		}
		if err := s.checkReferences(txCtx, all, candidate); err != nil {
			return err
		}

		now := s.now()
		candidate.Avatar = avatarURL
		candidate.CreatedAt = now
		candidate.UpdatedAt = now

		created, err = s.employeeRepo.Create(txCtx, candidate)
		if err != nil {
			return fmt.Errorf("failed to create employee: %w", err)
		}
		return nil
	})
	if err != nil {
		s.discardAvatar(ctx, avatarURL)
		return employee.Employee{}, err
	}

	return created, nil
}

// GetEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, id int) (employee.EmployeeDetailResponse, error) {
	var detail employee.EmployeeDetailResponse
	err := s.db.ReadTx(ctx, func(txCtx context.Context) error {
		emp, err := s.employeeRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		all, err := s.employeeRepo.List(txCtx)
		if err != nil {
			return fmt.Errorf("failed to list employees: %w", err)
		}
		participations, err := s.participations(txCtx, emp)
		if err != nil {
			return err
		}

		detail = employee.EmployeeDetailResponse{
			Employee: emp,
			Manager:  employee.NewIndex(all).ResolveOrOmit(emp.Manager),
			Projects: participations,
		}
		return nil
	})
	return detail, err
}

// UpdateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) UpdateEmployee(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.Employee, error) {
	if err := req.Validate(); err != nil {
		return employee.Employee{}, err
	}

	avatarURL, err := s.uploadAvatar(ctx, req.File, req.FileHeader)
	if err != nil {
		return employee.Employee{}, err
	}

	var updated employee.Employee
	var replacedAvatar string
	err = s.db.WithWriteLock(ctx, func(txCtx context.Context) error {
		current, err := s.employeeRepo.GetByID(txCtx, req.ID)
		if err != nil {
			return err
		}
		all, err := s.employeeRepo.List(txCtx)
		if err != nil {
			return fmt.Errorf("failed to list employees: %w", err)
		}

		if req.Deactivates() {
			projects, err := s.projectRepo.List(txCtx)
			if err != nil {
				return fmt.Errorf("failed to list projects: %w", err)
			}
			for _, p := range projects {
				if p.IsManagedBy(current.ID) || p.Staffs(current.ID) {
					return employee.ErrEmployeeInProject
				}
			}
		}
		if req.RevokesManager() && employee.HasSubordinates(all, current.ID) {
			return employee.ErrEmployeeInManager
		}

		next := current.Clone()
		req.Apply(&next)
		if err := employee.CheckUnique(all, next, current.ID); err != nil {
			return err
		}
		if err := s.checkReferences(txCtx, all, next); err != nil {
			return err
		}

		if avatarURL != "" {
			replacedAvatar = current.Avatar
			next.Avatar = avatarURL
		}
		next.UpdatedAt = s.now()

		updated, err = s.employeeRepo.Update(txCtx, next)
		if err != nil {
			return fmt.Errorf("failed to update employee: %w", err)
		}
		return nil
	})
	if err != nil {
		s.discardAvatar(ctx, avatarURL)
		return employee.Employee{}, err
	}

	s.discardAvatar(ctx, replacedAvatar)
	return updated, nil
}

// DeleteEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) DeleteEmployee(ctx context.Context, id int) error {
	var avatar string
	err := s.db.WithWriteLock(ctx, func(txCtx context.Context) error {
		current, err := s.employeeRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		projects, err := s.projectRepo.List(txCtx)
		if err != nil {
			return fmt.Errorf("failed to list projects: %w", err)
		}

		for _, p := range projects {
			if p.IsManagedBy(id) {
				return employee.ErrRequiredManager
			}
		}
		for _, p := range projects {
			if p.RequiresEmployee(id) {
				return employee.ErrRequiredEmployee
			}
		}

		all, err := s.employeeRepo.List(txCtx)
		if err != nil {
			return fmt.Errorf("failed to list employees: %w", err)
		}
		if employee.HasSubordinates(all, id) {
			return employee.ErrEmployeeInManager
		}

		now := s.now()
		for _, p := range projects {
			roster, removed := staffing.RemoveEmployee(p.Employees, id)
			if !removed {
				continue
			}
			p.Employees = roster
			p.UpdatedAt = now
			if _, err := s.projectRepo.Update(txCtx, p); err != nil {
				return fmt.Errorf("failed to update project %d roster: %w", p.ID, err)
			}
		}

		if err := s.employeeRepo.Delete(txCtx, id); err != nil {
			return fmt.Errorf("failed to delete employee: %w", err)
		}
		avatar = current.Avatar
		return nil
	})
	if err != nil {
		return err
	}

	s.discardAvatar(ctx, avatar)
	return nil
}

// ListEmployees implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context, params listing.Params) (employee.ListEmployeeResponse, error) {
	all, err := s.employeeRepo.List(ctx)
	if err != nil {
		return employee.ListEmployeeResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}

	matched := listing.Filter(all, func(e employee.Employee) bool { return employee.Matches(e, params) })
	return listing.Apply(matched, params, employee.SortFields)
}

// ListManagers implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListManagers(ctx context.Context) ([]employee.Employee, error) {
	all, err := s.employeeRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return employee.Managers(all), nil
}

// GetEmployeeProjects implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetEmployeeProjects(ctx context.Context, id int) ([]employee.Participation, error) {
	var out []employee.Participation
	err := s.db.ReadTx(ctx, func(txCtx context.Context) error {
		emp, err := s.employeeRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		out, err = s.participations(txCtx, emp)
		return err
	})
	return out, err
}

func (s *EmployeeServiceImpl) participations(ctx context.Context, emp employee.Employee) ([]employee.Participation, error) {
	projects, err := s.projectRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	memberRole := project.RoleMember
	if emp.Position != nil {
		pos, err := s.positionRepo.GetByID(ctx, *emp.Position)
		switch {
		case err == nil:
			memberRole = pos.Name
		case !errors.Is(err, position.ErrPositionNotFound):
			return nil, fmt.Errorf("failed to get position: %w", err)
		}
	}

	return project.Participations(projects, emp.ID, memberRole), nil
}

// checkReferences validates the manager and position ids of candidate.
func (s *EmployeeServiceImpl) checkReferences(ctx context.Context, all []employee.Employee, candidate employee.Employee) error {
	if candidate.Manager != nil {
		if candidate.ID != 0 && *candidate.Manager == candidate.ID {
			return employee.ErrInvalidManager
		}
		if _, ok := employee.NewIndex(all).Lookup(*candidate.Manager); !ok {
			return employee.ErrInvalidManager
		}
	}

	if candidate.Position != nil {
		if _, err := s.positionRepo.GetByID(ctx, *candidate.Position); err != nil {
			if errors.Is(err, position.ErrPositionNotFound) {
				return employee.ErrInvalidPosition
			}
			return fmt.Errorf("failed to get position: %w", err)
		}
	}
	return nil
}

// uploadAvatar stores the optional upload before any lock is taken and
// returns "" when there is nothing to upload.
func (s *EmployeeServiceImpl) uploadAvatar(ctx context.Context, f multipart.File, header *multipart.FileHeader) (string, error) {
	if f == nil || header == nil {
		return "", nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	url, err := s.fileService.UploadAvatar(ctx, f, header.Filename)
	if err != nil {
		return "", fmt.Errorf("failed to upload avatar: %w", err)
	}
	return url, nil
}

// discardAvatar removes a stored avatar. Failures are logged, not returned.
func (s *EmployeeServiceImpl) discardAvatar(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if err := s.fileService.DeleteByURL(context.WithoutCancel(ctx), url); err != nil {
		slog.Warn("failed to delete avatar", "url", url, "error", err)
	}
}
