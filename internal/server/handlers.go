package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/liftlab/liftplan/internal/engine/superset"
	"github.com/liftlab/liftplan/internal/models"
	"github.com/liftlab/liftplan/internal/planner"
)

// buildSessionRequest is the JSON body for POST /api/v1/sessions.
type buildSessionRequest struct {
	SessionID        string                   `json:"sessionId,omitempty"`
	UserID           string                   `json:"userId"`
	ProgramID        string                   `json:"programId"`
	Split            models.Split             `json:"split"`
	Date             time.Time                `json:"date"`
	DurationMinutes  int                      `json:"durationMinutes"`
	Goal             models.Goal              `json:"goal"`
	Experience       models.ExperienceLevel   `json:"experience"`
	Equipment        []models.Equipment       `json:"equipment,omitempty"`
	Excluded         []string                 `json:"excluded,omitempty"`
	Emphasized       []models.MuscleGroup     `json:"emphasized,omitempty"`
	PreferBodyweight bool                     `json:"preferBodyweight,omitempty"`
	SupersetStyle    superset.Style           `json:"supersetStyle,omitempty"`
	ExplicitGroups   [][]int                  `json:"explicitGroups,omitempty"`
	Progression      models.ProgressionConfig `json:"progression"`
	ProgramStart     time.Time                `json:"programStart"`
}

func (s *Server) handleBuildSession(w http.ResponseWriter, r *http.Request) {
	var req buildSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.UserID == "" || req.Split == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "userId and split are required"})
		return
	}
	if req.DurationMinutes <= 0 {
		req.DurationMinutes = 60
	}
	if req.SupersetStyle == "" {
		req.SupersetStyle = superset.StyleNone
	}

	plan, err := s.planner.BuildSession(r.Context(), planner.BuildRequest{
		SessionID:        req.SessionID,
		UserID:           req.UserID,
		ProgramID:        req.ProgramID,
		Split:            req.Split,
		Date:             req.Date,
		DurationMinutes:  req.DurationMinutes,
		Goal:             req.Goal,
		Experience:       req.Experience,
		Equipment:        req.Equipment,
		Excluded:         req.Excluded,
		Emphasized:       req.Emphasized,
		PreferBodyweight: req.PreferBodyweight,
		SupersetStyle:    req.SupersetStyle,
		ExplicitGroups:   req.ExplicitGroups,
		Progression:      req.Progression,
		ProgramStart:     req.ProgramStart,
	}, time.Now())
	if err != nil {
		var selErr *models.SelectionError
		if errors.As(err, &selErr) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": selErr.Error()})
			return
		}
		s.log.Error("session build failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, plan)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	plan, ok := s.planner.Plan(id, time.Now())
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// substituteRequest is the JSON body for POST /sessions/{id}/substitute.
type substituteRequest struct {
	InstanceID    string `json:"instanceId"`
	NewExerciseID string `json:"newExerciseId"`
}

func (s *Server) handleSubstitute(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	var req substituteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.InstanceID == "" || req.NewExerciseID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "instanceId and newExerciseId are required"})
		return
	}

	instance, err := s.substituter.Perform(sessionID, req.InstanceID, req.NewExerciseID, time.Now())
	if err != nil {
		var subErr *models.SubstitutionError
		if errors.As(err, &subErr) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": subErr.Error()})
			return
		}
		s.log.Error("substitution failed", "session", sessionID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	s.planner.Resync(sessionID)
	writeJSON(w, http.StatusOK, instance)
}

func (s *Server) handleAlternatives(w http.ResponseWriter, r *http.Request) {
	exerciseID := chi.URLParam(r, "id")

	equipment := map[models.Equipment]bool{}
	if raw := r.URL.Query().Get("equipment"); raw != "" {
		for _, e := range strings.Split(raw, ",") {
			equipment[models.Equipment(strings.TrimSpace(e))] = true
		}
	}

	var lib models.UserLibrary
	if userID := r.URL.Query().Get("userId"); userID != "" {
		if l, ok := s.store.Library(userID); ok {
			lib = l
		}
	}

	level := models.ExperienceLevel(r.URL.Query().Get("level"))
	if level == "" {
		level = models.LevelIntermediate
	}

	limit := 5
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	candidates, err := s.scorer.FindAlternatives(exerciseID, equipment, lib, level, limit)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, candidates)
}

// putLibraryRequest is the JSON body for PUT /users/{userID}/library.
type putLibraryRequest struct {
	ExerciseIDs []string `json:"exerciseIds"`
}

func (s *Server) handlePutLibrary(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	var req putLibraryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	ids := make(map[string]bool, len(req.ExerciseIDs))
	for _, id := range req.ExerciseIDs {
		if _, ok := s.exercises.Exercise(id); !ok {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown exercise: " + id})
			return
		}
		ids[id] = true
	}
	s.store.PutLibrary(models.UserLibrary{UserID: userID, ExerciseIDs: ids})
	writeJSON(w, http.StatusOK, map[string]int{"count": len(ids)})
}

// putTargetRequest is the JSON body for PUT /users/{userID}/targets.
type putTargetRequest struct {
	ExerciseID string  `json:"exerciseId"`
	Current    float64 `json:"current"`
}

func (s *Server) handlePutTarget(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	var req putTargetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.ExerciseID == "" || req.Current <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "exerciseId and a positive current are required"})
		return
	}
	if _, ok := s.exercises.Exercise(req.ExerciseID); !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown exercise: " + req.ExerciseID})
		return
	}
	s.store.PutTarget(models.StrengthTarget{
		UserID:     userID,
		ExerciseID: req.ExerciseID,
		Current:    req.Current,
		UpdatedAt:  time.Now(),
	})
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCatalogExercises(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.exercises.Exercises())
}

func (s *Server) handleCatalogProtocols(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.protocols.Protocols())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
