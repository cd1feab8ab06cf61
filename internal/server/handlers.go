package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/esnunes/promptsmith/internal/db"
	"github.com/esnunes/promptsmith/internal/models"
)

type promptResponse struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Summary    string    `json:"summary"`
	Content    string    `json:"content"`
	RawContext string    `json:"rawContext"`
	Version    string    `json:"version"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func newPromptResponse(p models.Prompt) promptResponse {
	return promptResponse{
		ID:         p.ID,
		Title:      p.Title,
		Summary:    p.Summary,
		Content:    p.Content,
		RawContext: p.RawContext,
		Version:    p.Version,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

type healthResponse struct {
	Storage bool   `json:"storage"`
	Backend bool   `json:"backend"`
	Name    string `json:"backendName"`
}

// handleHealth is 503 only when storage is down; an unreachable model
// backend degrades analysis but not the service.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Storage: s.store.TestConnection(r.Context()),
		Backend: s.backend.CheckAvailability(r.Context()),
		Name:    s.backend.Name(),
	}
	status := http.StatusOK
	if !resp.Storage {
		status = http.StatusServiceUnavailable
	}
	s.writeJSON(w, status, resp)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	prompts, err := s.store.ListPrompts(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("listing prompts")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	resp := make([]promptResponse, 0, len(prompts))
	for _, p := range prompts {
		resp = append(resp, newPromptResponse(p))
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleShow(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	p, err := s.store.GetPrompt(r.Context(), id)
	if errors.Is(err, db.ErrNotFound) {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.log.Error().Err(err).Int64("prompt_id", id).Msg("getting prompt")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, http.StatusOK, newPromptResponse(*p))
}

func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(s.store.SchemaDescription()))
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error().Err(err).Msg("encoding response")
	}
}
