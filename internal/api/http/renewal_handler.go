package http

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/google/uuid"

	"hallms-backend/internal/domain"
	"hallms-backend/internal/service"
)

type RenewalHandler struct {
	renewals service.RenewalService
}

func NewRenewalHandler(renewals service.RenewalService) *RenewalHandler {
	return &RenewalHandler{renewals: renewals}
}

type submitRenewalRequest struct {
	AcademicYear string `json:"academic_year" validate:"required"`
	// AttachmentName is the original filename of the supporting document;
	// the server mints the storage key.
	AttachmentName string `json:"attachment_name" validate:"required"`
}

type decideRenewalRequest struct {
	Status       string `json:"status" validate:"required,oneof=UNDER_REVIEW APPROVED REJECTED"`
	Note         string `json:"note"`
	ExtendMonths int    `json:"extend_months" validate:"gte=0"`
}

// Submit files a renewal request for the calling student's own seat.
func (h *RenewalHandler) Submit(w http.ResponseWriter, r *http.Request) {
	hallID, err := hallIDFrom(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	var req submitRenewalRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	key := fmt.Sprintf("renewals/%s%s", uuid.NewString(), filepath.Ext(req.AttachmentName))
	renewal, err := h.renewals.Submit(r.Context(), claimsFrom(r.Context()).UserID, hallID, req.AcademicYear, key)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, renewal)
}

func (h *RenewalHandler) Decide(w http.ResponseWriter, r *http.Request) {
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

	var req decideRenewalRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	renewal, err := h.renewals.Decide(r.Context(), hallID, id,
		domain.RenewalStatus(req.Status), claimsFrom(r.Context()).UserID, req.Note, req.ExtendMonths)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, renewal)
}

func (h *RenewalHandler) ListByHall(w http.ResponseWriter, r *http.Request) {
	hallID, err := hallIDFrom(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	page, pageSize := pagination(r)

	renewals, total, err := h.renewals.ListByHall(r.Context(), hallID, r.URL.Query().Get("status"), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writePaged(w, renewals, total)
}

func (h *RenewalHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	renewals, err := h.renewals.ListMine(r.Context(), claimsFrom(r.Context()).UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, renewals)
}
