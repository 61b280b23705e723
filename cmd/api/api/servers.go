package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mockstack/mockstack/lib/servers"
)

// ListServersHandler handles GET /v2.1/servers
func (s *ApiService) ListServersHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	srvs, err := s.ServerManager.ListServers(ctx)
	if err != nil {
		respondInternalError(w, r, err, "failed to list servers")
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"servers": srvs})
}

// CreateServerHandler handles POST /v2.1/servers
func (s *ApiService) CreateServerHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req servers.CreateServerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondDetail(w, r, http.StatusBadRequest, "Malformed request body")
		return
	}

	srv, err := s.ServerManager.CreateServer(ctx, req)
	if err != nil {
		respondInternalError(w, r, err, "failed to create server")
		return
	}
	respondJSON(w, r, http.StatusAccepted, srv)
}

// GetServerHandler handles GET /v2.1/servers/{id}
func (s *ApiService) GetServerHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	srv, err := s.ServerManager.GetServer(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, servers.ErrNotFound):
			respondDetail(w, r, http.StatusNotFound, "Server not found")
		default:
			respondInternalError(w, r, err, "failed to get server")
		}
		return
	}
	respondJSON(w, r, http.StatusOK, srv)
}

// DeleteServerHandler handles DELETE /v2.1/servers/{id}
func (s *ApiService) DeleteServerHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	if err := s.ServerManager.DeleteServer(ctx, id); err != nil {
		switch {
		case errors.Is(err, servers.ErrNotFound):
			respondDetail(w, r, http.StatusNotFound, "Server not found")
		default:
			respondInternalError(w, r, err, "failed to delete server")
		}
		return
	}
	respondDetail(w, r, http.StatusOK, "Deleted")
}
