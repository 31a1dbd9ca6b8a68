package service

import (
	"context"
	"strings"

	"hallms-backend/internal/domain"
	"hallms-backend/internal/repository"
)

type hallService struct {
	halls repository.HallRepository
}

func NewHallService(halls repository.HallRepository) HallService {
	return &hallService{halls: halls}
}

func (s *hallService) CreateHall(ctx context.Context, hall *domain.Hall) error {
	if strings.TrimSpace(hall.Name) == "" {
		return Validationf("hall name is required")
	}
	hall.Code = strings.ToUpper(strings.TrimSpace(hall.Code))
	if hall.Code == "" {
		return Validationf("hall code is required")
	}
	if err := s.halls.Create(ctx, hall); err != nil {
		return Internal(err)
	}
	return nil
}

func (s *hallService) GetHall(ctx context.Context, id int32) (*domain.Hall, error) {
	hall, err := s.halls.GetByID(ctx, id)
	if err != nil {
		return nil, Internal(err)
	}
	if hall == nil {
		return nil, ErrHallNotFound
	}
	return hall, nil
}

func (s *hallService) ListHalls(ctx context.Context) ([]domain.Hall, error) {
	halls, err := s.halls.List(ctx)
	if err != nil {
		return nil, Internal(err)
	}
	return halls, nil
}
