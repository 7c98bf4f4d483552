package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/meltforce/wodparse/internal/parser"
	"github.com/meltforce/wodparse/internal/storage"
)

// jsonOverhead is the body allowance on top of max_input_bytes for the JSON
// envelope and escaping.
const jsonOverhead = 4096

var errTooLarge = errors.New("workout text too large")

// parseRequest is the JSON body of the parse endpoints. A text/plain body is
// taken as Text, with save and source read from the query string.
type parseRequest struct {
	Text   string `json:"text"`
	Save   bool   `json:"save"`
	Source string `json:"source"`
}

type parseResponse struct {
	*parser.Result
	ID *uuid.UUID `json:"id,omitempty"`
}

type validateResponse struct {
	Valid  bool           `json:"valid"`
	Issues []parser.Issue `json:"issues"`
}

// pinger is implemented by stores that can report connectivity.
type pinger interface {
	Ping(ctx context.Context) error
}

type healthResponse struct {
	Status      string `json:"status"`
	Persistence bool   `json:"persistence"`
	Error       string `json:"error,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Persistence: s.store != nil}
	if p, ok := s.store.(pinger); ok {
		if err := p.Ping(r.Context()); err != nil {
			s.log.Warn("health: database unreachable", "error", err)
			resp.Status, resp.Error = "degraded", "database unreachable"
			writeJSON(w, http.StatusServiceUnavailable, resp)
			return
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	req, ok := s.readParseRequest(w, r)
	if !ok {
		return
	}
	if req.Save && s.store == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "persistence is not configured"})
		return
	}

	res, err := s.parser.Parse(r.Context(), req.Text)
	if err != nil {
		s.log.Error("parse error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	resp := parseResponse{Result: res}
	if req.Save {
		source := req.Source
		if source == "" {
			source = userInfoFromContext(r).Login
		}
		id, err := s.store.SaveParsedWorkout(r.Context(), source, res)
		if err != nil {
			s.log.Error("save parsed workout", "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		resp.ID = &id
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleParseLegacy(w http.ResponseWriter, r *http.Request) {
	req, ok := s.readParseRequest(w, r)
	if !ok {
		return
	}

	workout, err := s.parser.ParseToLegacyShape(r.Context(), req.Text)
	if errors.Is(err, parser.ErrEmptyInput) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "workout text is empty"})
		return
	}
	if err != nil {
		s.log.Error("legacy parse error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, workout)
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	req, ok := s.readParseRequest(w, r)
	if !ok {
		return
	}

	issues, err := s.parser.Validate(r.Context(), req.Text)
	if err != nil {
		s.log.Error("validate error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if issues == nil {
		issues = []parser.Issue{}
	}

	valid := true
	for _, is := range issues {
		if is.Severity == parser.SeverityError {
			valid = false
			break
		}
	}
	writeJSON(w, http.StatusOK, validateResponse{Valid: valid, Issues: issues})
}

func (s *Server) handleSearchMovements(w http.ResponseWriter, r *http.Request) {
	movements, err := s.vocab.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if movements == nil {
		movements = []parser.Movement{}
	}
	writeJSON(w, http.StatusOK, movements)
}

func (s *Server) handleGetMovement(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	m, err := s.vocab.FindByAlias(r.Context(), name)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if m == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "movement not found"})
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleListWorkouts(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "persistence is not configured"})
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
			return
		}
		limit = n
	}

	workouts, err := s.store.ListParsedWorkouts(r.Context(), limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, workouts)
}

func (s *Server) handleGetWorkout(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "persistence is not configured"})
		return
	}

	workoutID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid workout ID"})
		return
	}

	detail, err := s.store.GetParsedWorkout(r.Context(), workoutID)
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "workout not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// readParseRequest decodes the request body and enforces max_input_bytes. It
// writes the error response itself and reports whether the handler should go on.
func (s *Server) readParseRequest(w http.ResponseWriter, r *http.Request) (parseRequest, bool) {
	req, err := s.decodeParseRequest(w, r)
	var maxErr *http.MaxBytesError
	switch {
	case errors.Is(err, errTooLarge), errors.As(err, &maxErr):
		writeJSON(w, http.StatusRequestEntityTooLarge,
			map[string]string{"error": fmt.Sprintf("workout text exceeds %d bytes", s.maxInput)})
		return req, false
	case err != nil:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return req, false
	}
	return req, true
}

func (s *Server) decodeParseRequest(w http.ResponseWriter, r *http.Request) (parseRequest, error) {
	var req parseRequest
	if s.maxInput > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, int64(s.maxInput+jsonOverhead))
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "text/plain" {
		data, err := io.ReadAll(r.Body)
		if err != nil {
			return req, fmt.Errorf("reading body: %w", err)
		}
		req.Text = string(data)
		req.Save, _ = strconv.ParseBool(r.URL.Query().Get("save"))
		req.Source = r.URL.Query().Get("source")
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return req, err
		}
		return req, fmt.Errorf("invalid JSON: %w", err)
	}

	if s.maxInput > 0 && len(req.Text) > s.maxInput {
		return req, errTooLarge
	}
	return req, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
