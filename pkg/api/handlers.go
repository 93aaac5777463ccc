package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/trace"

	"github.com/teampulse/teampulse/pkg/analytics"
	"github.com/teampulse/teampulse/pkg/telemetry"
)

// parseWindow reads optional start/end query parameters (RFC 3339). Both or
// neither must be present; absent means "let the engine default".
func parseWindow(r *http.Request) (analytics.Window, error) {
	startRaw := r.URL.Query().Get("start")
	endRaw := r.URL.Query().Get("end")
	if startRaw == "" && endRaw == "" {
		return analytics.Window{}, nil
	}
	if startRaw == "" || endRaw == "" {
		return analytics.Window{}, fmt.Errorf("start and end must be provided together")
	}

	start, err := time.Parse(time.RFC3339, startRaw)
	if err != nil {
		return analytics.Window{}, fmt.Errorf("invalid start: %w", err)
	}
	end, err := time.Parse(time.RFC3339, endRaw)
	if err != nil {
		return analytics.Window{}, fmt.Errorf("invalid end: %w", err)
	}
	return analytics.Window{Start: start, End: end}, nil
}

func wantNarration(r *http.Request) bool {
	v := r.URL.Query().Get("narrate")
	return v == "true" || v == "1"
}

func (s *Server) handleCadenceDue(w http.ResponseWriter, r *http.Request) {
	ownerID := chi.URLParam(r, "owner")

	start := time.Now()
	ctx, span := telemetry.StartSpan(r.Context(), "engine.cadence_due", trace.WithAttributes(
		telemetry.AttrOwnerID.String(ownerID),
		telemetry.AttrOperation.String("cadence_due"),
	))
	items, err := s.engine.DueCadenceItems(ctx, ownerID)
	if err != nil {
		telemetry.RecordError(ctx, err)
	}
	span.End()
	telemetry.EngineDuration.WithLabelValues("cadence_due").Observe(time.Since(start).Seconds())
	if err != nil {
		respondError(w, statusForError(err), err)
		return
	}

	respondJSON(w, map[string]any{
		"ownerId": ownerID,
		"items":   items,
	})
}

func (s *Server) handleTeamMetrics(w http.ResponseWriter, r *http.Request) {
	ownerID := chi.URLParam(r, "owner")
	teamID := chi.URLParam(r, "teamID")

	window, err := parseWindow(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	start := time.Now()
	ctx, span := telemetry.StartSpan(r.Context(), "engine.team_metrics", trace.WithAttributes(
		telemetry.AttrOwnerID.String(ownerID),
		telemetry.AttrTeamID.String(teamID),
		telemetry.AttrOperation.String("team_metrics"),
	))
	result, err := s.engine.TeamMetrics(ctx, ownerID, teamID, window)
	if err != nil {
		telemetry.RecordError(ctx, err)
	}
	span.End()
	telemetry.EngineDuration.WithLabelValues("team_metrics").Observe(time.Since(start).Seconds())
	if err != nil {
		respondError(w, statusForError(err), err)
		return
	}

	if wantNarration(r) {
		result.Narration = s.narrator.TeamMetrics(r.Context(), s.teamName(r, ownerID, teamID), result)
	}
	respondJSON(w, result)
}

// teamName resolves a display name for narration; falls back to the id.
func (s *Server) teamName(r *http.Request, ownerID, teamID string) string {
	if s.store == nil {
		return teamID
	}
	teams, err := s.store.ListTeams(r.Context(), ownerID)
	if err != nil {
		return teamID
	}
	for _, team := range teams {
		if team.ID == teamID {
			return team.Name
		}
	}
	return teamID
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ownerID := chi.URLParam(r, "owner")

	window, err := parseWindow(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	start := time.Now()
	ctx, span := telemetry.StartSpan(r.Context(), "engine.dashboard", trace.WithAttributes(
		telemetry.AttrOwnerID.String(ownerID),
		telemetry.AttrOperation.String("dashboard"),
	))
	dash, err := s.engine.Dashboard(ctx, ownerID, window)
	if err != nil {
		telemetry.RecordError(ctx, err)
	}
	span.End()
	telemetry.EngineDuration.WithLabelValues("dashboard").Observe(time.Since(start).Seconds())
	if err != nil {
		respondError(w, statusForError(err), err)
		return
	}

	narration := ""
	if wantNarration(r) {
		narration = s.narrator.Dashboard(r.Context(), dash)
	}
	respondJSON(w, map[string]any{
		"dashboard": dash,
		"narration": narration,
	})
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	ownerID := chi.URLParam(r, "owner")

	months := 0
	if raw := r.URL.Query().Get("months"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, fmt.Errorf("invalid months: %w", err))
			return
		}
		months = parsed
	}

	start := time.Now()
	ctx, span := telemetry.StartSpan(r.Context(), "engine.insights", trace.WithAttributes(
		telemetry.AttrOwnerID.String(ownerID),
		telemetry.AttrOperation.String("insights"),
	))
	report, err := s.engine.Insights(ctx, ownerID, months)
	if err != nil {
		telemetry.RecordError(ctx, err)
	}
	span.End()
	telemetry.EngineDuration.WithLabelValues("insights").Observe(time.Since(start).Seconds())
	if err != nil {
		respondError(w, statusForError(err), err)
		return
	}

	if wantNarration(r) {
		report.Narration = s.narrator.Insights(r.Context(), report)
	}
	respondJSON(w, report)
}
