package project

import "context"

type ProjectRepository interface {
	GetByID(ctx context.Context, id int) (Project, error)
	List(ctx context.Context) ([]Project, error)
	Create(ctx context.Context, newProject Project) (Project, error)
	Update(ctx context.Context, updated Project) (Project, error)
	Delete(ctx context.Context, id int) error
}
