package http

import (
	"net/http"

	"hallms-backend/internal/service"
)

type NotificationHandler struct {
	notes service.NotificationService
}

func NewNotificationHandler(notes service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notes: notes}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	hallID, err := hallIDFrom(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	page, pageSize := pagination(r)

	notes, total, err := h.notes.List(r.Context(), claimsFrom(r.Context()).UserID, hallID, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writePaged(w, notes, total)
}

func (h *NotificationHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.notes.MarkAsRead(r.Context(), claimsFrom(r.Context()).UserID, id); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, nil)
}
