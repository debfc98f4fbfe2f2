package gateway

import (
	"errors"
	"io"
	"net/http"

	"github.com/dokzlo13/huemanatee/internal/hue"
)

// handleRegister asks the bridge for a new username. An empty body uses the
// configured device type.
//
// POST /register
// Body: {"deviceType": "app#device"} (optional)
// Response: 201 with RegisterResponse when a username was issued, 200 otherwise
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	req := hue.RegisterRequest{DeviceType: s.deviceType}
	if err := decodeBody(r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeBadRequest(w, "invalid JSON body: "+err.Error())
		return
	}

	resp, err := hue.NewRegistrationClient(s.transport).Register(r.Context(), &req)
	if err != nil {
		writeHueError(w, r, err)
		return
	}

	status := http.StatusOK
	if resp.UserName != "" {
		status = http.StatusCreated
	}
	writeJSON(w, status, resp)
}
