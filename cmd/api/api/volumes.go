package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mockstack/mockstack/lib/volumes"
)

// ListVolumesHandler handles GET /v3/volumes
func (s *ApiService) ListVolumesHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	vols, err := s.VolumeManager.ListVolumes(ctx)
	if err != nil {
		respondInternalError(w, r, err, "failed to list volumes")
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"volumes": vols})
}

// CreateVolumeHandler handles POST /v3/volumes
func (s *ApiService) CreateVolumeHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req volumes.CreateVolumeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondDetail(w, r, http.StatusBadRequest, "Malformed request body")
		return
	}

	vol, err := s.VolumeManager.CreateVolume(ctx, req)
	if err != nil {
		respondInternalError(w, r, err, "failed to create volume")
		return
	}
	respondJSON(w, r, http.StatusCreated, vol)
}

// GetVolumeHandler handles GET /v3/volumes/{id}
func (s *ApiService) GetVolumeHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	vol, err := s.VolumeManager.GetVolume(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, volumes.ErrNotFound):
			respondDetail(w, r, http.StatusNotFound, "Volume not found")
		default:
			respondInternalError(w, r, err, "failed to get volume")
		}
		return
	}
	respondJSON(w, r, http.StatusOK, vol)
}

// DeleteVolumeHandler handles DELETE /v3/volumes/{id}
func (s *ApiService) DeleteVolumeHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	if err := s.VolumeManager.DeleteVolume(ctx, id); err != nil {
		switch {
		case errors.Is(err, volumes.ErrNotFound):
			respondDetail(w, r, http.StatusNotFound, "Volume not found")
		default:
			respondInternalError(w, r, err, "failed to delete volume")
		}
		return
	}
	respondDetail(w, r, http.StatusOK, "Deleted")
}
