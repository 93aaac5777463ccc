package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/teampulse/teampulse/pkg/analytics"
)

const maxBodyBytes = 1 << 20

// decodeBody decodes a JSON request body into dst with a size cap.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func (s *Server) handleCreateTeam(w http.ResponseWriter, r *http.Request) {
	var team analytics.Team
	if err := decodeBody(w, r, &team); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	team.OwnerID = chi.URLParam(r, "owner")
	if team.Name == "" {
		respondError(w, http.StatusBadRequest, fmt.Errorf("team name is required"))
		return
	}
	if err := s.store.CreateTeam(r.Context(), &team); err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondCreated(w, team)
}

func (s *Server) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	var employee analytics.Employee
	if err := decodeBody(w, r, &employee); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	employee.OwnerID = chi.URLParam(r, "owner")
	if employee.Name == "" {
		respondError(w, http.StatusBadRequest, fmt.Errorf("employee name is required"))
		return
	}
	if err := s.store.CreateEmployee(r.Context(), &employee); err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondCreated(w, employee)
}

func (s *Server) handleCreateWorkArea(w http.ResponseWriter, r *http.Request) {
	var area analytics.WorkArea
	if err := decodeBody(w, r, &area); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	area.OwnerID = chi.URLParam(r, "owner")
	if area.Name == "" {
		respondError(w, http.StatusBadRequest, fmt.Errorf("work area name is required"))
		return
	}
	if err := s.store.CreateWorkArea(r.Context(), &area); err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondCreated(w, area)
}

func (s *Server) handleCreateAction(w http.ResponseWriter, r *http.Request) {
	var action analytics.Action
	if err := decodeBody(w, r, &action); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	action.OwnerID = chi.URLParam(r, "owner")
	if action.Title == "" {
		respondError(w, http.StatusBadRequest, fmt.Errorf("action title is required"))
		return
	}
	if err := s.store.CreateAction(r.Context(), &action); err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondCreated(w, action)
}

func (s *Server) handleUpdateActionStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status string `json:"status"`
	}
	if err := decodeBody(w, r, &body); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	switch body.Status {
	case analytics.ActionStatusPending, analytics.ActionStatusInProgress,
		analytics.ActionStatusCompleted, analytics.ActionStatusCancelled:
	default:
		respondError(w, http.StatusBadRequest, fmt.Errorf("unknown status %q", body.Status))
		return
	}

	actionID := chi.URLParam(r, "actionID")
	if err := s.store.UpdateActionStatus(r.Context(), actionID, body.Status); err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondJSON(w, map[string]any{"id": actionID, "status": body.Status})
}

func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var event analytics.Event
	if err := decodeBody(w, r, &event); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	event.OwnerID = chi.URLParam(r, "owner")
	if event.Title == "" {
		respondError(w, http.StatusBadRequest, fmt.Errorf("event title is required"))
		return
	}
	if event.StartTime.IsZero() || event.EndTime.IsZero() {
		respondError(w, http.StatusBadRequest, fmt.Errorf("event start and end times are required"))
		return
	}
	if err := s.store.CreateEvent(r.Context(), &event); err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondCreated(w, event)
}

func (s *Server) handleCreateOneOnOne(w http.ResponseWriter, r *http.Request) {
	var record analytics.OneOnOne
	if err := decodeBody(w, r, &record); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	record.OwnerID = chi.URLParam(r, "owner")
	if record.EmployeeID == "" {
		respondError(w, http.StatusBadRequest, fmt.Errorf("employee id is required"))
		return
	}
	if record.Date.IsZero() {
		respondError(w, http.StatusBadRequest, fmt.Errorf("date is required"))
		return
	}
	if record.Mood != 0 && (record.Mood < 1 || record.Mood > 5) {
		respondError(w, http.StatusBadRequest, fmt.Errorf("mood must be between 1 and 5"))
		return
	}
	if err := s.store.CreateOneOnOne(r.Context(), &record); err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondCreated(w, record)
}

func (s *Server) handleCreateCadenceRule(w http.ResponseWriter, r *http.Request) {
	var rule analytics.CadenceRule
	if err := decodeBody(w, r, &rule); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	rule.OwnerID = chi.URLParam(r, "owner")
	if rule.Name == "" {
		respondError(w, http.StatusBadRequest, fmt.Errorf("rule name is required"))
		return
	}
	if rule.FrequencyDays < 1 {
		respondError(w, http.StatusBadRequest, fmt.Errorf("frequency days must be at least 1"))
		return
	}
	switch rule.TargetType {
	case analytics.TargetTypeEmployee, analytics.TargetTypeTeam,
		analytics.TargetTypeWorkArea, analytics.TargetTypeGlobal:
	default:
		respondError(w, http.StatusBadRequest, fmt.Errorf("unknown target type %q", rule.TargetType))
		return
	}
	if rule.TargetType != analytics.TargetTypeGlobal && rule.TargetID == "" {
		respondError(w, http.StatusBadRequest, fmt.Errorf("target id is required for %s rules", rule.TargetType))
		return
	}
	rule.IsActive = true
	if err := s.store.CreateCadenceRule(r.Context(), &rule); err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondCreated(w, rule)
}
