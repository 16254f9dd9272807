package master

import (
	"context"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/hrm-api/internal/domain/master/position"
)

type MasterService interface {
	// Position operations
	CreatePosition(ctx context.Context, req position.CreatePositionRequest) (position.Position, error)
	ListPositions(ctx context.Context) ([]position.Position, error)
}

type masterServiceImpl struct {
	positionRepo position.PositionRepository
}

func NewMasterService(positionRepo position.PositionRepository) MasterService {
	return &masterServiceImpl{
		positionRepo: positionRepo,
	}
}

func (s *masterServiceImpl) CreatePosition(ctx context.Context, req position.CreatePositionRequest) (position.Position, error) {
	if err := req.Validate(); err != nil {
		return position.Position{}, err
	}

	created, err := s.positionRepo.Create(ctx, position.Position{Name: strings.TrimSpace(req.Name)})
	if err != nil {
		return position.Position{}, err
	}
	return created, nil
}

func (s *masterServiceImpl) ListPositions(ctx context.Context) ([]position.Position, error) {
	positions, err := s.positionRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list positions: %w", err)
	}
	if positions == nil {
		positions = []position.Position{}
	}
	return positions, nil
}
