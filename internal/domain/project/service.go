package project

import (
	"context"

	"github.com/cmlabs-hris/hrm-api/internal/pkg/listing"
)

type ProjectService interface {
	CreateProject(ctx context.Context, req CreateProjectRequest) (Project, error)
	GetProject(ctx context.Context, id int) (ProjectDetailResponse, error)
	UpdateProject(ctx context.Context, req UpdateProjectRequest) (Project, error)
	DeleteProject(ctx context.Context, id int) error
	ListProjects(ctx context.Context, params listing.Params) (ListProjectResponse, error)
}
