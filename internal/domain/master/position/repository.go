package position

import "context"

type PositionRepository interface {
	Create(ctx context.Context, position Position) (Position, error)
	GetByID(ctx context.Context, id int) (Position, error)
	List(ctx context.Context) ([]Position, error)
}
