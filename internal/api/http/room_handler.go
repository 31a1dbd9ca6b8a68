package http

import (
	"net/http"

	"hallms-backend/internal/domain"
	"hallms-backend/internal/service"
)

type RoomHandler struct {
	rooms service.RoomService
}

func NewRoomHandler(rooms service.RoomService) *RoomHandler {
	return &RoomHandler{rooms: rooms}
}

type createRoomRequest struct {
	RoomNumber  string `json:"room_number" validate:"required"`
	FloorNumber int32  `json:"floor_number" validate:"gte=0"`
	Capacity    int32  `json:"capacity" validate:"required,gt=0"`
	RoomType    string `json:"room_type" validate:"required"`
}

type updateRoomRequest struct {
	RoomNumber  string `json:"room_number" validate:"required"`
	FloorNumber int32  `json:"floor_number" validate:"gte=0"`
	Capacity    int32  `json:"capacity" validate:"required,gt=0"`
	RoomType    string `json:"room_type" validate:"required"`
	Status      string `json:"status" validate:"required,oneof=AVAILABLE OCCUPIED MAINTENANCE UNDER_REPAIR RESERVED"`
}

func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	hallID, err := hallIDFrom(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	var req createRoomRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	room := &domain.Room{
		HallID:      hallID,
		RoomNumber:  req.RoomNumber,
		FloorNumber: req.FloorNumber,
		Capacity:    req.Capacity,
		RoomType:    req.RoomType,
		Status:      domain.RoomStatusAvailable,
	}
	if err := h.rooms.CreateRoom(r.Context(), room); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, room)
}

func (h *RoomHandler) Update(w http.ResponseWriter, r *http.Request) {
	hallID, err := hallIDFrom(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req updateRoomRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	room, err := h.rooms.GetRoom(r.Context(), hallID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	room.RoomNumber = req.RoomNumber
	room.FloorNumber = req.FloorNumber
	room.Capacity = req.Capacity
	room.RoomType = req.RoomType
	room.Status = domain.RoomStatus(req.Status)

	if err := h.rooms.UpdateRoom(r.Context(), room); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, room)
}

func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	hallID, err := hallIDFrom(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	room, err := h.rooms.GetRoom(r.Context(), hallID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, room)
}

func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	hallID, err := hallIDFrom(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	page, pageSize := pagination(r)

	rooms, total, err := h.rooms.ListRooms(r.Context(), hallID, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writePaged(w, rooms, total)
}

func (h *RoomHandler) Delete(w http.ResponseWriter, r *http.Request) {
	hallID, err := hallIDFrom(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.rooms.DeleteRoom(r.Context(), hallID, id); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, nil)
}
