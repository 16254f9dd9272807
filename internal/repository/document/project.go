package document

import (
	"context"
	"slices"

	"github.com/cmlabs-hris/hrm-api/internal/domain/project"
)

type projectRepositoryImpl struct {
	store *Store
}

func NewProjectRepository(store *Store) project.ProjectRepository {
	return &projectRepositoryImpl{store: store}
}

func (r *projectRepositoryImpl) GetByID(ctx context.Context, id int) (project.Project, error) {
	var found project.Project
	err := r.store.View(ctx, func(doc *Document) error {
		i := indexOfProject(doc, id)
		if i < 0 {
			return project.ErrProjectNotFound
		}
		found = doc.Projects[i].Clone()
		return nil
	})
	return found, err
}

func (r *projectRepositoryImpl) List(ctx context.Context) ([]project.Project, error) {
	var out []project.Project
	err := r.store.View(ctx, func(doc *Document) error {
		out = make([]project.Project, len(doc.Projects))
		for i, p := range doc.Projects {
			out[i] = p.Clone()
		}
		return nil
	})
	return out, err
}

func (r *projectRepositoryImpl) Create(ctx context.Context, newProject project.Project) (project.Project, error) {
	err := r.store.update(ctx, func(doc *Document) error {
		newProject.ID = doc.NextID(CollectionProjects)
		doc.Projects = append(doc.Projects, newProject.Clone())
		return nil
	})
	if err != nil {
		return project.Project{}, err
	}
	return newProject, nil
}

func (r *projectRepositoryImpl) Update(ctx context.Context, updated project.Project) (project.Project, error) {
	err := r.store.update(ctx, func(doc *Document) error {
		i := indexOfProject(doc, updated.ID)
		if i < 0 {
			return project.ErrProjectNotFound
		}
		doc.Projects[i] = updated.Clone()
		return nil
	})
	if err != nil {
		return project.Project{}, err
	}
	return updated, nil
}

func (r *projectRepositoryImpl) Delete(ctx context.Context, id int) error {
	return r.store.update(ctx, func(doc *Document) error {
		i := indexOfProject(doc, id)
		if i < 0 {
			return project.ErrProjectNotFound
		}
		doc.Projects = slices.Delete(doc.Projects, i, i+1)
		return nil
	})
}

func indexOfProject(doc *Document, id int) int {
	return slices.IndexFunc(doc.Projects, func(p project.Project) bool { return p.ID == id })
}
