package http

import (
	"net/http"

	"hallms-backend/internal/domain"
	"hallms-backend/internal/service"
)

type HallHandler struct {
	halls service.HallService
}

func NewHallHandler(halls service.HallService) *HallHandler {
	return &HallHandler{halls: halls}
}

type createHallRequest struct {
	Name    string `json:"name" validate:"required"`
	Code    string `json:"code" validate:"required,max=32"`
	Address string `json:"address"`
}

func (h *HallHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createHallRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	hall := &domain.Hall{Name: req.Name, Code: req.Code, Address: req.Address}
	if err := h.halls.CreateHall(r.Context(), hall); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, hall)
}

func (h *HallHandler) List(w http.ResponseWriter, r *http.Request) {
	halls, err := h.halls.ListHalls(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, halls)
}

// Mine returns the hall the caller belongs to, resolved from the token.
func (h *HallHandler) Mine(w http.ResponseWriter, r *http.Request) {
	hallID, err := hallIDFrom(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	hall, err := h.halls.GetHall(r.Context(), hallID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, hall)
}
