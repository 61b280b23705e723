package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mockstack/mockstack/lib/images"
	"github.com/samber/lo"
)

// imageLink is a self link entry in image list responses.
type imageLink struct {
	Rel  string `json:"rel"`
	Href string `json:"href"`
}

// listedImage is an image as rendered in list responses, which carry links
// the stored entity does not.
type listedImage struct {
	images.Image
	Links []imageLink `json:"links"`
}

// ListImagesHandler handles GET /v2/images
func (s *ApiService) ListImagesHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	imgs, err := s.ImageManager.ListImages(ctx)
	if err != nil {
		respondInternalError(w, r, err, "failed to list images")
		return
	}

	listed := lo.Map(imgs, func(img images.Image, _ int) listedImage {
		return listedImage{
			Image: img,
			Links: []imageLink{{Rel: "self", Href: fmt.Sprintf("/v2/images/%s", img.Id)}},
		}
	})
	respondJSON(w, r, http.StatusOK, map[string]any{"images": listed})
}

// CreateImageHandler handles POST /v2/images
func (s *ApiService) CreateImageHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req images.CreateImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondDetail(w, r, http.StatusBadRequest, "Malformed request body")
		return
	}

	img, err := s.ImageManager.CreateImage(ctx, req)
	if err != nil {
		respondInternalError(w, r, err, "failed to create image")
		return
	}
	respondJSON(w, r, http.StatusCreated, img)
}

// GetImageHandler handles GET /v2/images/{id}
func (s *ApiService) GetImageHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	img, err := s.ImageManager.GetImage(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, images.ErrNotFound):
			respondDetail(w, r, http.StatusNotFound, "Image not found")
		default:
			respondInternalError(w, r, err, "failed to get image")
		}
		return
	}
	respondJSON(w, r, http.StatusOK, img)
}

// DeleteImageHandler handles DELETE /v2/images/{id}
func (s *ApiService) DeleteImageHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	if err := s.ImageManager.DeleteImage(ctx, id); err != nil {
		switch {
		case errors.Is(err, images.ErrNotFound):
			respondDetail(w, r, http.StatusNotFound, "Image not found")
		default:
			respondInternalError(w, r, err, "failed to delete image")
		}
		return
	}
	respondDetail(w, r, http.StatusOK, "Deleted")
}
