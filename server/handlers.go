package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/edudesk/coursechat"
	"github.com/google/uuid"
)

type queryRequest struct {
	Query     string `json:"query"`
	SessionID string `json:"session_id,omitempty"`
}

type queryResponse struct {
	Answer    string              `json:"answer"`
	Sources   []coursechat.Source `json:"sources"`
	SessionID string              `json:"session_id"`
}

type courseStatsResponse struct {
	TotalCourses int      `json:"total_courses"`
	CourseTitles []string `json:"course_titles"`
}

type sessionResponse struct {
	SessionID string `json:"session_id"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		s.errorResponse(w, http.StatusBadRequest, "query cannot be empty")
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	result := s.engine.Answer(r.Context(), req.Query, sessionID)

	sources := result.Sources
	if sources == nil {
		sources = []coursechat.Source{}
	}
	s.jsonResponse(w, http.StatusOK, queryResponse{
		Answer:    result.Answer,
		Sources:   sources,
		SessionID: sessionID,
	})
}

func (s *Server) handleCourses(w http.ResponseWriter, r *http.Request) {
	stats, err := s.retriever.Courses(r.Context())
	if err != nil {
		s.logger.Error("course stats failed", "error", err)
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, courseStatsResponse{
		TotalCourses: stats.TotalCourses,
		CourseTitles: stats.CourseTitles,
	})
}

func (s *Server) handleNewSession(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, sessionResponse{SessionID: uuid.NewString()})
}

func (s *Server) handleResetSession(w http.ResponseWriter, r *http.Request) {
	var req sessionResponse
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SessionID == "" {
		s.errorResponse(w, http.StatusBadRequest, "session_id is required")
		return
	}
	s.sessions.Reset(req.SessionID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("encoding response failed", "error", err)
	}
}

func (s *Server) errorResponse(w http.ResponseWriter, status int, msg string) {
	s.jsonResponse(w, status, map[string]string{"error": msg})
}
