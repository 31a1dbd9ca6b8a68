package http

import (
	"net/http"

	"hallms-backend/internal/domain"
	"hallms-backend/internal/service"
)

type AllocationHandler struct {
	allocs service.AllocationService
}

func NewAllocationHandler(allocs service.AllocationService) *AllocationHandler {
	return &AllocationHandler{allocs: allocs}
}

type assignRequest struct {
	ApplicationID int32 `json:"application_id" validate:"required,gt=0"`
	RoomID        int32 `json:"room_id" validate:"required,gt=0"`
}

type manualAssignRequest struct {
	RegistrationNo string `json:"registration_no" validate:"required"`
	RoomID         int32  `json:"room_id" validate:"required,gt=0"`
	Reason         string `json:"reason" validate:"required"`
}

type moveRequest struct {
	RoomID int32 `json:"room_id" validate:"required,gt=0"`
}

type vacateRequest struct {
	Reason string `json:"reason" validate:"required"`
}

func (h *AllocationHandler) Assign(w http.ResponseWriter, r *http.Request) {
	hallID, err := hallIDFrom(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	var req assignRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	alloc, err := h.allocs.Assign(r.Context(), hallID, req.ApplicationID, req.RoomID, claimsFrom(r.Context()).UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, alloc)
}

func (h *AllocationHandler) ManualAssign(w http.ResponseWriter, r *http.Request) {
	hallID, err := hallIDFrom(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	var req manualAssignRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	alloc, err := h.allocs.ManualAssign(r.Context(), hallID, req.RegistrationNo, req.RoomID, req.Reason, claimsFrom(r.Context()).UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, alloc)
}

func (h *AllocationHandler) Move(w http.ResponseWriter, r *http.Request) {
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

	var req moveRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	alloc, err := h.allocs.Move(r.Context(), hallID, id, req.RoomID, claimsFrom(r.Context()).UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, alloc)
}

func (h *AllocationHandler) Vacate(w http.ResponseWriter, r *http.Request) {
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

	var req vacateRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	alloc, err := h.allocs.Vacate(r.Context(), hallID, id, req.Reason, claimsFrom(r.Context()).UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, alloc)
}

func (h *AllocationHandler) Get(w http.ResponseWriter, r *http.Request) {
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

	alloc, err := h.allocs.GetAllocation(r.Context(), hallID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, alloc)
}

func (h *AllocationHandler) List(w http.ResponseWriter, r *http.Request) {
	hallID, err := hallIDFrom(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	page, pageSize := pagination(r)

	// Legacy status labels are accepted as filter input and normalized.
	status := r.URL.Query().Get("status")
	if status != "" {
		status = string(domain.NormalizeAllocationStatus(status))
	}

	allocs, total, err := h.allocs.ListAllocations(r.Context(), hallID, status, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writePaged(w, allocs, total)
}
