package gateway

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dokzlo13/huemanatee/internal/hue"
)

// handleListGroups returns all groups.
//
// GET /groups
// Response: {"groups": [...], "count": N}
func (s *Server) handleListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := s.clientFor(r).GetGroups(r.Context())
	if err != nil {
		writeHueError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"groups": groups, "count": len(groups)})
}

// handleGetGroup returns a single group.
//
// GET /groups/{id}
func (s *Server) handleGetGroup(w http.ResponseWriter, r *http.Request) {
	group, err := s.clientFor(r).GetGroup(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeHueError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, group)
}

// handleChangeGroup applies a state change to every light in a group.
//
// PUT /groups/{id}
// Body: ChangeRequest JSON
func (s *Server) handleChangeGroup(w http.ResponseWriter, r *http.Request) {
	var req hue.ChangeRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, "invalid JSON body: "+err.Error())
		return
	}

	resp, err := s.clientFor(r).ChangeGroup(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		writeHueError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
