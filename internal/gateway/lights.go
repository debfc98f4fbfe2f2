package gateway

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dokzlo13/huemanatee/internal/hue"
)

// handleListLights returns all lights.
//
// GET /lights
// Response: {"lights": [...], "count": N}
func (s *Server) handleListLights(w http.ResponseWriter, r *http.Request) {
	lights, err := s.clientFor(r).GetLights(r.Context())
	if err != nil {
		writeHueError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"lights": lights, "count": len(lights)})
}

// handleGetLight returns a single light.
//
// GET /lights/{id}
func (s *Server) handleGetLight(w http.ResponseWriter, r *http.Request) {
	light, err := s.clientFor(r).GetLight(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeHueError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, light)
}

// handleChangeLight applies a state change to a light.
//
// PUT /lights/{id}
// Body: ChangeRequest JSON, "color" as "#rrggbb" or {"r","g","b"}
// Response: ChangeResponse JSON
func (s *Server) handleChangeLight(w http.ResponseWriter, r *http.Request) {
	var req hue.ChangeRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, "invalid JSON body: "+err.Error())
		return
	}

	resp, err := s.clientFor(r).ChangeLight(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		writeHueError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleStartRainbow turns a light on and starts the colour loop.
//
// PUT /lights/{id}/rainbow
func (s *Server) handleStartRainbow(w http.ResponseWriter, r *http.Request) {
	resp, err := s.clientFor(r).StartColorLoop(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeHueError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleStopRainbow stops the colour loop.
//
// DELETE /lights/{id}/rainbow
func (s *Server) handleStopRainbow(w http.ResponseWriter, r *http.Request) {
	resp, err := s.clientFor(r).StopColorLoop(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeHueError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
