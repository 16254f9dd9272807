package document

import (
	"context"
	"slices"
	"strings"

	"github.com/cmlabs-hris/hrm-api/internal/domain/master/position"
)

type positionRepositoryImpl struct {
	store *Store
}

func NewPositionRepository(store *Store) position.PositionRepository {
	return &positionRepositoryImpl{store: store}
}

func (r *positionRepositoryImpl) Create(ctx context.Context, p position.Position) (position.Position, error) {
	err := r.store.update(ctx, func(doc *Document) error {
		if slices.ContainsFunc(doc.Positions, func(existing position.Position) bool {
			return strings.EqualFold(existing.Name, p.Name)
		}) {
			return position.ErrPositionNameExists
		}
		p.ID = doc.NextID(CollectionPositions)
		doc.Positions = append(doc.Positions, p)
		return nil
	})
	if err != nil {
		return position.Position{}, err
	}
	return p, nil
}

func (r *positionRepositoryImpl) GetByID(ctx context.Context, id int) (position.Position, error) {
	var found position.Position
	err := r.store.View(ctx, func(doc *Document) error {
		i := slices.IndexFunc(doc.Positions, func(p position.Position) bool { return p.ID == id })
		if i < 0 {
			return position.ErrPositionNotFound
		}
		found = doc.Positions[i]
		return nil
	})
	return found, err
}

func (r *positionRepositoryImpl) List(ctx context.Context) ([]position.Position, error) {
	var out []position.Position
	err := r.store.View(ctx, func(doc *Document) error {
		out = append([]position.Position{}, doc.Positions...)
		return nil
	})
	return out, err
}
