package server

import (
	"context"
	"net/http"
	"time"

	"lottery-analyzer/internal/model"
)

func timeoutContext(r *http.Request, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), d)
}

func statKind(r *http.Request) model.StatKind {
	switch r.URL.Query().Get("kind") {
	case "main":
		return model.StatMain
	case "supp":
		return model.StatSupp
	default:
		return ""
	}
}

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeoutContext(r, 10*time.Second)
	defer cancel()

	statistics, err := s.stats.Statistics(ctx, gameCode(r), statKind(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"statistics": statistics,
		"count":      len(statistics),
	})
}

func (s *Server) handleHotCold(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeoutContext(r, 10*time.Second)
	defer cancel()

	kind := statKind(r)
	if kind == "" {
		kind = model.StatMain
	}
	report, err := s.stats.HotCold(ctx, gameCode(r), kind)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

func (s *Server) handlePatterns(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeoutContext(r, 30*time.Second)
	defer cancel()

	window := parseIntParam(r, "window", 100)
	report, err := s.stats.Patterns(ctx, gameCode(r), window)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

func (s *Server) handleRecompute(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeoutContext(r, 60*time.Second)
	defer cancel()

	code := gameCode(r)
	if err := s.stats.Recompute(ctx, code); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"game":       code,
		"recomputed": true,
	})
}
