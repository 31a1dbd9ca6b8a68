package http

import (
	"net/http"

	"hallms-backend/internal/service"
)

type WaitlistHandler struct {
	waitlist service.WaitlistService
}

func NewWaitlistHandler(waitlist service.WaitlistService) *WaitlistHandler {
	return &WaitlistHandler{waitlist: waitlist}
}

type enqueueRequest struct {
	ApplicationID int32 `json:"application_id" validate:"required,gt=0"`
}

type removeEntriesRequest struct {
	EntryIDs []int32 `json:"entry_ids" validate:"required,min=1,dive,gt=0"`
	Reason   string  `json:"reason" validate:"required"`
}

type promoteRequest struct {
	RoomID int32 `json:"room_id" validate:"required,gt=0"`
}

func (h *WaitlistHandler) Enqueue(w http.ResponseWriter, r *http.Request) {
	hallID, err := hallIDFrom(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	var req enqueueRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	entry, err := h.waitlist.Enqueue(r.Context(), hallID, req.ApplicationID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, entry)
}

func (h *WaitlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	hallID, err := hallIDFrom(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	var req removeEntriesRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.waitlist.Remove(r.Context(), hallID, req.EntryIDs, req.Reason); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, nil)
}

func (h *WaitlistHandler) Promote(w http.ResponseWriter, r *http.Request) {
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

	var req promoteRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	alloc, err := h.waitlist.PromoteAndAssign(r.Context(), hallID, id, req.RoomID, claimsFrom(r.Context()).UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, alloc)
}

func (h *WaitlistHandler) List(w http.ResponseWriter, r *http.Request) {
	hallID, err := hallIDFrom(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	page, pageSize := pagination(r)

	entries, total, err := h.waitlist.List(r.Context(), hallID, r.URL.Query().Get("status"), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writePaged(w, entries, total)
}
