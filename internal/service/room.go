package service

import (
	"context"
	"strings"

	"hallms-backend/internal/domain"
	"hallms-backend/internal/repository"
)

type roomService struct {
	txm   repository.TxManager
	rooms repository.RoomRepository
}

func NewRoomService(txm repository.TxManager, rooms repository.RoomRepository) RoomService {
	return &roomService{txm: txm, rooms: rooms}
}

// NewRoomLedger exposes the occupancy accounting side of the room service.
func NewRoomLedger(rooms repository.RoomRepository) RoomLedger {
	return &roomService{rooms: rooms}
}

func (s *roomService) CreateRoom(ctx context.Context, room *domain.Room) error {
	if strings.TrimSpace(room.RoomNumber) == "" {
		return Validationf("room number is required")
	}
	if room.Capacity <= 0 {
		return Validationf("room capacity must be positive")
	}
	if room.Status == "" {
		room.Status = domain.RoomStatusAvailable
	}
	if err := s.rooms.Create(ctx, room); err != nil {
		return Internal(err)
	}
	return nil
}

func (s *roomService) UpdateRoom(ctx context.Context, room *domain.Room) error {
	if room.Capacity <= 0 {
		return Validationf("room capacity must be positive")
	}
	return s.txm.WithinTx(ctx, func(ctx context.Context) error {
		existing, err := s.rooms.GetByIDForUpdate(ctx, room.HallID, room.ID)
		if err != nil {
			return Internal(err)
		}
		if existing == nil {
			return ErrRoomNotFound
		}
		if room.Capacity < existing.CurrentOccupancy {
			return Validationf("capacity %d is below current occupancy %d", room.Capacity, existing.CurrentOccupancy)
		}
		existing.RoomNumber = room.RoomNumber
		existing.FloorNumber = room.FloorNumber
		existing.Capacity = room.Capacity
		existing.RoomType = room.RoomType
		if room.Status != "" {
			existing.Status = room.Status
		}
		existing.RecomputeStatus()
		if err := s.rooms.Update(ctx, existing); err != nil {
			return Internal(err)
		}
		*room = *existing
		return nil
	})
}

func (s *roomService) GetRoom(ctx context.Context, hallID, id int32) (*domain.Room, error) {
	room, err := s.rooms.GetByID(ctx, hallID, id)
	if err != nil {
		return nil, Internal(err)
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

func (s *roomService) ListRooms(ctx context.Context, hallID int32, page, pageSize int32) ([]domain.Room, int32, error) {
	rooms, count, err := s.rooms.List(ctx, hallID, page, pageSize)
	if err != nil {
		return nil, 0, Internal(err)
	}
	return rooms, count, nil
}

func (s *roomService) DeleteRoom(ctx context.Context, hallID, id int32) error {
	return s.txm.WithinTx(ctx, func(ctx context.Context) error {
		room, err := s.rooms.GetByIDForUpdate(ctx, hallID, id)
		if err != nil {
			return Internal(err)
		}
		if room == nil {
			return ErrRoomNotFound
		}
		refs, err := s.rooms.CountAllocations(ctx, id)
		if err != nil {
			return Internal(err)
		}
		if refs > 0 {
			return ErrRoomReferenced
		}
		if err := s.rooms.Delete(ctx, hallID, id); err != nil {
			return Internal(err)
		}
		return nil
	})
}

// ReserveSeat takes one seat in the room: occupancy goes up by one iff the
// room still has capacity and its status permits allocation, then the
// derived status is recomputed. Must run inside the caller's transaction.
func (s *roomService) ReserveSeat(ctx context.Context, hallID, roomID int32) (*domain.Room, error) {
	room, err := s.rooms.GetByIDForUpdate(ctx, hallID, roomID)
	if err != nil {
		return nil, Internal(err)
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}
	if !room.Allocatable() {
		return nil, ErrRoomUnavailable
	}
	if room.CurrentOccupancy >= room.Capacity {
		return nil, ErrRoomFull
	}
	room.CurrentOccupancy++
	room.RecomputeStatus()
	if err := s.rooms.Update(ctx, room); err != nil {
		return nil, Internal(err)
	}
	return room, nil
}

// ReleaseSeat frees one seat, flooring occupancy at zero. Must run inside
// the caller's transaction.
func (s *roomService) ReleaseSeat(ctx context.Context, hallID, roomID int32) (*domain.Room, error) {
	room, err := s.rooms.GetByIDForUpdate(ctx, hallID, roomID)
	if err != nil {
		return nil, Internal(err)
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}
	if room.CurrentOccupancy > 0 {
		room.CurrentOccupancy--
	}
	room.RecomputeStatus()
	if err := s.rooms.Update(ctx, room); err != nil {
		return nil, Internal(err)
	}
	return room, nil
}
