package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mockstack/mockstack/lib/attachments"
)

// attachVolumeRequest accepts both spellings of the volume id used by
// OpenStack clients.
type attachVolumeRequest struct {
	VolumeId    string `json:"volumeId"`
	VolumeIdAlt string `json:"volume_id"`
	Device      string `json:"device"`
}

func (req *attachVolumeRequest) volumeId() string {
	if req.VolumeId != "" {
		return req.VolumeId
	}
	return req.VolumeIdAlt
}

// AttachVolumeHandler handles POST /v2.1/servers/{id}/os-volume_attachments
func (s *ApiService) AttachVolumeHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	serverId := chi.URLParam(r, "id")

	var req attachVolumeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondDetail(w, r, http.StatusBadRequest, "Malformed request body")
		return
	}

	att, err := s.AttachmentManager.Attach(ctx, serverId, attachments.AttachRequest{
		VolumeId: req.volumeId(),
		Device:   req.Device,
	})
	if err != nil {
		switch {
		case errors.Is(err, attachments.ErrMissingVolume):
			respondDetail(w, r, http.StatusBadRequest, "Missing volumeId")
		case errors.Is(err, attachments.ErrAlreadyAttached):
			respondDetail(w, r, http.StatusConflict, "Already attached")
		default:
			respondInternalError(w, r, err, "failed to attach volume")
		}
		return
	}
	respondJSON(w, r, http.StatusAccepted, map[string]any{"volumeAttachment": att})
}

// ListAttachmentsHandler handles GET /v2.1/servers/{id}/os-volume_attachments
func (s *ApiService) ListAttachmentsHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	serverId := chi.URLParam(r, "id")

	atts, err := s.AttachmentManager.ListAttachments(ctx, serverId)
	if err != nil {
		respondInternalError(w, r, err, "failed to list attachments")
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"volumeAttachments": atts})
}

// DetachVolumeHandler handles DELETE /v2.1/servers/{id}/os-volume_attachments/{attachmentId}
func (s *ApiService) DetachVolumeHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	serverId := chi.URLParam(r, "id")
	attachmentId := chi.URLParam(r, "attachmentId")

	if err := s.AttachmentManager.Detach(ctx, serverId, attachmentId); err != nil {
		switch {
		case errors.Is(err, attachments.ErrNotFound):
			respondDetail(w, r, http.StatusNotFound, "Attachment not found")
		default:
			respondInternalError(w, r, err, "failed to detach volume")
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
