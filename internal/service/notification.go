package service

import (
	"context"

	"hallms-backend/internal/domain"
	"hallms-backend/internal/repository"
)

type notificationService struct {
	notes repository.NotificationRepository
}

func NewNotificationService(notes repository.NotificationRepository) NotificationService {
	return &notificationService{notes: notes}
}

func (s *notificationService) List(ctx context.Context, userID, hallID int32, page, pageSize int32) ([]domain.Notification, int32, error) {
	notes, count, err := s.notes.ListForUser(ctx, userID, hallID, page, pageSize)
	if err != nil {
		return nil, 0, Internal(err)
	}
	return notes, count, nil
}

func (s *notificationService) MarkAsRead(ctx context.Context, userID, notificationID int32) error {
	if err := s.notes.MarkAsRead(ctx, notificationID, userID); err != nil {
		return Internal(err)
	}
	return nil
}
