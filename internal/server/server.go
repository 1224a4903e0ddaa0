// Package server exposes a leaderboard over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/tatianab/memory-bomb/internal/models"
)

const maxBodyBytes = 4 << 10

// Server serves a models.ScoreBoard.
type Server struct {
	board  models.ScoreBoard
	logger *log.Logger
}

// NewServer creates a leaderboard server. A nil logger discards.
func NewServer(board models.ScoreBoard, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Server{board: board, logger: logger}
}

// Routes sets up the HTTP routes.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: s.logger, NoColor: true}))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Second))
	r.Use(middleware.Heartbeat("/health"))

	r.Route("/scores", func(r chi.Router) {
		r.Get("/", s.handleTop)
		r.Post("/", s.handleSubmit)
		r.Get("/qualifies", s.handleQualifies)
	})

	return r
}

type submitRequest struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
	Level int    `json:"level"`
}

type qualifiesResponse struct {
	Score     int  `json:"score"`
	Qualifies bool `json:"qualifies"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleTop(w http.ResponseWriter, r *http.Request) {
	limit := models.MaxScores
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			s.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	entries, err := s.board.Top(r.Context(), limit)
	if err != nil {
		s.logger.Printf("top scores: %v", err)
		s.writeError(w, http.StatusInternalServerError, "failed to load scores")
		return
	}
	if entries == nil {
		entries = []models.ScoreEntry{}
	}
	s.writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := s.board.Submit(r.Context(), req.Name, req.Score, req.Level)
	if errors.Is(err, models.ErrInvalidEntry) {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		s.logger.Printf("submit score: %v", err)
		s.writeError(w, http.StatusInternalServerError, "failed to save score")
		return
	}
	s.writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleQualifies(w http.ResponseWriter, r *http.Request) {
	score, err := strconv.Atoi(r.URL.Query().Get("score"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "score must be an integer")
		return
	}

	ok, err := s.board.IsHighScore(r.Context(), score)
	if err != nil {
		s.logger.Printf("high score check: %v", err)
		s.writeError(w, http.StatusInternalServerError, "failed to check score")
		return
	}
	s.writeJSON(w, http.StatusOK, qualifiesResponse{Score: score, Qualifies: ok})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Printf("encode response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, errorResponse{Error: message})
}
