package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/s0up4200/mediarr/plex"
	"github.com/s0up4200/mediarr/seer"
	"github.com/s0up4200/mediarr/sensor"
)

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// ServiceRequest is the body of a service call
type ServiceRequest struct {
	Sensor    string `json:"sensor"`
	ID        string `json:"id"`
	MediaType string `json:"media_type,omitempty"`
}

// ServiceResponse reports a completed service call
type ServiceResponse struct {
	Action    sensor.Action `json:"action"`
	Sensor    string        `json:"sensor"`
	ID        string        `json:"id"`
	RequestID int64         `json:"request_id,omitempty"`
	Status    string        `json:"status"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg, RequestID: RequestID(r.Context())})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListSensors(w http.ResponseWriter, r *http.Request) {
	sensors := s.registry.Sensors()
	out := make([]sensor.Status, 0, len(sensors))
	for _, sn := range sensors {
		out = append(out, sn.Status())
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetSensor(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	sn, ok := s.registry.Get(name)
	if !ok {
		writeError(w, r, http.StatusNotFound, "unknown sensor: "+name)
		return
	}
	writeJSON(w, http.StatusOK, sn.State())
}

func (s *Server) handleRefreshSensor(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	sn, ok := s.registry.Get(name)
	if !ok {
		writeError(w, r, http.StatusNotFound, "unknown sensor: "+name)
		return
	}
	if err := sn.Update(r.Context()); err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, sensor.ErrUpdateInProgress) {
			status = http.StatusConflict
		}
		writeError(w, r, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sn.Status())
}

func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	src, ok := s.images[vars["name"]]
	if !ok {
		writeError(w, r, http.StatusNotFound, "no images for sensor: "+vars["name"])
		return
	}
	kind, err := plex.ParseImageKind(vars["kind"])
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	img, err := src.Image(r.Context(), vars["key"], kind)
	if err != nil {
		status := http.StatusBadGateway
		switch {
		case errors.Is(err, plex.ErrImageNotFound):
			status = http.StatusNotFound
		case errors.Is(err, plex.ErrInvalidImage):
			status = http.StatusBadRequest
		}
		writeError(w, r, status, err.Error())
		return
	}
	defer img.Body.Close()

	if img.ContentType != "" {
		w.Header().Set("Content-Type", img.ContentType)
	}
	if img.ContentLength > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(img.ContentLength, 10))
	}
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, img.Body); err != nil {
		s.logger.Debug().Err(err).Str("sensor", vars["name"]).Msg("Image copy interrupted")
	}
}

func (s *Server) handleService(w http.ResponseWriter, r *http.Request) {
	action, err := sensor.ParseAction(mux.Vars(r)["action"])
	if err != nil {
		writeError(w, r, http.StatusNotFound, err.Error())
		return
	}

	var body ServiceRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&body); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Sensor == "" || body.ID == "" {
		writeError(w, r, http.StatusBadRequest, "sensor and id are required")
		return
	}

	sn, ok := s.registry.Get(body.Sensor)
	if !ok {
		writeError(w, r, http.StatusNotFound, "unknown sensor: "+body.Sensor)
		return
	}
	if !sn.SupportsActions() {
		writeError(w, r, http.StatusBadRequest, sensor.ErrActionsUnsupported.Error())
		return
	}

	if !s.limiter.Allow() {
		writeError(w, r, http.StatusTooManyRequests, "too many service calls")
		return
	}

	req, err := sn.Do(r.Context(), action, body.ID, body.MediaType)
	if err != nil {
		status := http.StatusInternalServerError
		var ae *sensor.ActionError
		if errors.As(err, &ae) {
			status = http.StatusBadGateway
		}
		writeError(w, r, status, err.Error())
		return
	}

	resp := ServiceResponse{Action: action, Sensor: body.Sensor, ID: body.ID, Status: "ok"}
	if req != nil {
		resp.RequestID = req.ID
		if req.Status != seer.RequestStatusUnknown {
			resp.Status = strings.ToLower(req.Status.String())
		}
	}

	if s.refresh != nil {
		s.refresh(sn)
	}

	writeJSON(w, http.StatusOK, resp)
}
