package employee

import "context"

type EmployeeRepository interface {
	GetByID(ctx context.Context, id int) (Employee, error)
	List(ctx context.Context) ([]Employee, error)
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	Update(ctx context.Context, updated Employee) (Employee, error)
	Delete(ctx context.Context, id int) error
}
