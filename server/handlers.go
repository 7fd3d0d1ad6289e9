package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/theoremus-urban-solutions/metro-pacman/game"
	"github.com/theoremus-urban-solutions/metro-pacman/geocode"
	"github.com/theoremus-urban-solutions/metro-pacman/render"
	"github.com/theoremus-urban-solutions/metro-pacman/transit"
)

type healthResponse struct {
	Status   string `json:"status"`
	GameID   string `json:"gameId"`
	Stations int    `json:"stations"`
	Lines    int    `json:"lines"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	id := s.gameID
	s.mu.Unlock()
	stations, err := s.graph.StationCount()
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err)
		return
	}
	lines, err := s.graph.Lines()
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err)
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{
		Status:   "ok",
		GameID:   id,
		Stations: stations,
		Lines:    len(lines),
	})
}

func (s *Server) handleScene(w http.ResponseWriter, r *http.Request) {
	msg, err := s.sceneMessage()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, msg.Scene)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	msg, err := s.sceneMessage()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		GameID   string        `json:"gameId"`
		Snapshot game.Snapshot `json:"snapshot"`
	}{msg.GameID, msg.Snapshot})
}

func (s *Server) handleNearest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lat, err := strconv.ParseFloat(q.Get("lat"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid lat"))
		return
	}
	lon, err := strconv.ParseFloat(q.Get("lon"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid lon"))
		return
	}

	s.mu.Lock()
	schematic := s.engine.Mode().Schematic()
	s.mu.Unlock()
	if v := q.Get("schematic"); v != "" {
		if schematic, err = strconv.ParseBool(v); err != nil {
			writeError(w, http.StatusBadRequest, errors.New("invalid schematic flag"))
			return
		}
	}

	st, err := s.graph.Nearest(transit.Coordinate{Lat: lat, Lon: lon}, schematic)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleMapPNG(w http.ResponseWriter, r *http.Request) {
	width, height := 1024, 768
	if v, err := strconv.Atoi(r.URL.Query().Get("w")); err == nil && v > 0 && v <= 4096 {
		width = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("h")); err == nil && v > 0 && v <= 4096 {
		height = v
	}
	msg, err := s.sceneMessage()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	var buf bytes.Buffer
	if err := render.DrawPNG(msg.Scene, width, height, &buf); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = buf.WriteTo(w)
}

type tickRequest struct {
	Command string `json:"command"`
}

func (s *Server) handleTick(w http.ResponseWriter, r *http.Request) {
	var req tickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	msg, err := s.tick(req.Command)
	switch {
	case errors.Is(err, game.ErrUnknownCommand):
		writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, game.ErrGameFinished):
		writeJSON(w, http.StatusConflict, msg)
	case err != nil:
		writeError(w, http.StatusInternalServerError, err)
	default:
		writeJSON(w, http.StatusOK, msg)
	}
}

type modeRequest struct {
	Mode string `json:"mode"`
}

// handleMode sets the requested mode or toggles when none is given
func (s *Server) handleMode(w http.ResponseWriter, r *http.Request) {
	var req modeRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}
	var mode game.Mode
	if req.Mode != "" {
		m, err := game.ParseMode(req.Mode)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		mode = m
	}

	msg, err := s.mutate(func(e *game.Engine) error {
		m := mode
		if m == "" {
			m = e.Mode().Toggle()
		}
		_, err := e.SetMode(m)
		return err
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

type targetRequest struct {
	Lat     *float64 `json:"lat"`
	Lon     *float64 `json:"lon"`
	Label   string   `json:"label"`
	Address string   `json:"address"`
}

func (s *Server) handleSetTarget(w http.ResponseWriter, r *http.Request) {
	var req targetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var coord transit.Coordinate
	label := req.Label
	switch {
	case req.Lat != nil && req.Lon != nil:
		coord = transit.Coordinate{Lat: *req.Lat, Lon: *req.Lon}
	case req.Address != "" && s.geocoder != nil:
		res, err := s.geocoder.Resolve(r.Context(), req.Address)
		if errors.Is(err, geocode.ErrNoResult) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		if err != nil {
			writeError(w, http.StatusBadGateway, err)
			return
		}
		coord = res.Coord
		if label == "" {
			label = res.Formatted
		}
	default:
		writeError(w, http.StatusBadRequest, errors.New("lat and lon or a geocodable address required"))
		return
	}

	msg, err := s.mutate(func(e *game.Engine) error {
		return e.SetTarget(coord, label)
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

func (s *Server) handleClearTarget(w http.ResponseWriter, r *http.Request) {
	msg, _ := s.mutate(func(e *game.Engine) error {
		e.ClearTarget()
		return nil
	})
	writeJSON(w, http.StatusOK, msg)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	msg, err := s.reset()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, msg)
}
