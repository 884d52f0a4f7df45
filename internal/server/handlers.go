package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/lox/pokertables/internal/game"
	"github.com/lox/pokertables/internal/lobby"
)

const maxBodyBytes = 1 << 16

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("POST /create", s.handleCreate)
	mux.HandleFunc("POST /join", s.handleJoin)
	mux.HandleFunc("POST /exit", s.handleExit)
	mux.HandleFunc("POST /edit", s.handleEdit)
	mux.HandleFunc("POST /start", s.handleStart)
	mux.HandleFunc("POST /action", s.handleAction)
	mux.HandleFunc("POST /get_table", s.handleGetTable)
	mux.HandleFunc("POST /find", s.handleFind)
	mux.HandleFunc("GET /search", s.handleSearch)
	mux.HandleFunc("POST /search", s.handleSearch)
	mux.HandleFunc("GET /tables", s.handleTables)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ws", s.handleWebSocket)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Name == "" {
		s.writeError(w, fmt.Errorf("%w: name is required", ErrBadRequest))
		return
	}

	settings := s.defaults
	settings.Name = req.TableName
	if req.MinimalBid != 0 {
		settings.MinimumBid = req.MinimalBid
	}
	if req.MaxPlayers != 0 {
		settings.SeatCap = req.MaxPlayers
	}
	if req.StartingChips != 0 {
		settings.StartingChips = req.StartingChips
	}

	tableID, key, err := s.lobby.CreateTable(req.Name, settings)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, createResponse{TableID: tableID, Key: key})
}

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	var req joinRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Name == "" || req.Table == "" {
		s.writeError(w, fmt.Errorf("%w: name and table are required", ErrBadRequest))
		return
	}

	key, err := s.lobby.JoinTable(req.Table, req.Name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, joinResponse{Key: key})
}

func (s *Server) handleExit(w http.ResponseWriter, r *http.Request) {
	var req keyRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.accept(w, s.lobby.LeaveTable(req.Key))
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	var req editRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.accept(w, s.lobby.EditTable(req.Key, game.Settings{
		Name:          req.Name,
		MinimumBid:    req.MinimalBid,
		SeatCap:       req.MaxPlayers,
		StartingChips: req.StartingChips,
	}))
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var req keyRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.accept(w, s.lobby.StartGame(req.Key))
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	var req actionRequest
	if !s.decode(w, r, &req) {
		return
	}
	if !req.Action.IsSet() {
		s.writeError(w, fmt.Errorf("%w: action is required", ErrBadRequest))
		return
	}
	s.accept(w, s.lobby.Act(req.Key, req.Action.Action))
}

func (s *Server) handleGetTable(w http.ResponseWriter, r *http.Request) {
	var req keyRequest
	if !s.decode(w, r, &req) {
		return
	}
	view, err := s.lobby.View(req.Key)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleFind(w http.ResponseWriter, r *http.Request) {
	var req keyRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.writeJSON(w, http.StatusOK, findResponse{Table: s.lobby.FindPlayer(req.Key)})
}

// handleSearch takes criteria from a JSON body (POST) or query parameters (GET).
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var criteria lobby.Criteria
	if r.Method == http.MethodPost {
		if !s.decode(w, r, &criteria) {
			return
		}
	} else {
		q := r.URL.Query()
		criteria.Name = q.Get("name")
		for param, dst := range map[string]*int{
			"max_players":     &criteria.MaxPlayers,
			"current_players": &criteria.CurrentPlayers,
			"minimal_bid":     &criteria.MinimalBid,
			"starting_chips":  &criteria.StartingChips,
		} {
			v := q.Get(param)
			if v == "" {
				continue
			}
			n, err := strconv.Atoi(v)
			if err != nil {
				s.writeError(w, fmt.Errorf("%w: %s must be an integer", ErrBadRequest, param))
				return
			}
			*dst = n
		}
	}
	s.writeJSON(w, http.StatusOK, s.lobby.Search(criteria))
}

func (s *Server) handleTables(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.lobby.Tables())
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK") // Ignore write errors for health check
}

// decode reads a JSON request body into v, answering 400 on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		status, _ := classify(err)
		if status == http.StatusInternalServerError {
			err = fmt.Errorf("%w: %v", ErrBadRequest, err)
		}
		s.writeError(w, err)
		return false
	}
	return true
}

// accept answers 202 on success.
func (s *Server) accept(w http.ResponseWriter, err error) {
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to write response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("Request failed", "error", err)
	} else {
		s.logger.Debug("Request rejected", "status", status, "error", err)
	}
	s.writeJSON(w, status, ErrorData{Code: code, Message: err.Error()})
}
