package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"lottery-analyzer/internal/game"
	"lottery-analyzer/internal/model"
	"lottery-analyzer/internal/service"
)

func gameCode(r *http.Request) game.Code {
	return game.Code(chi.URLParam(r, "game"))
}

func parseIntParam(r *http.Request, param string, defaultValue int) int {
	raw := r.URL.Query().Get(param)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return value
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeoutContext(r, 2*time.Second)
	defer cancel()

	if err := s.pool.HealthCheck(ctx); err != nil {
		respondError(w, http.StatusServiceUnavailable, "database unhealthy", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"service":   "lottery-analyzer",
	})
}

// gameSummary is the public shape of a game spec.
type gameSummary struct {
	Code        game.Code `json:"code"`
	Name        string    `json:"name"`
	MainCount   int       `json:"main_count"`
	MainMax     int       `json:"main_max"`
	SuppCount   int       `json:"supp_count"`
	SuppMax     int       `json:"supp_max"`
	SuppName    string    `json:"supp_name,omitempty"`
	UnitPrice   float64   `json:"unit_price"`
	DrawsStored int       `json:"draws_stored"`
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeoutContext(r, 5*time.Second)
	defer cancel()

	var games []gameSummary
	for _, spec := range game.All() {
		count, err := s.draws.Count(ctx, spec.Code)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		games = append(games, gameSummary{
			Code:        spec.Code,
			Name:        spec.Name,
			MainCount:   spec.MainCount,
			MainMax:     spec.MainMax,
			SuppCount:   spec.SuppCount,
			SuppMax:     spec.SuppMax,
			SuppName:    spec.SuppName,
			UnitPrice:   spec.UnitPrice,
			DrawsStored: count,
		})
	}
	respondJSON(w, http.StatusOK, map[string]any{"games": games})
}

func (s *Server) handleListDraws(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeoutContext(r, 10*time.Second)
	defer cancel()

	filter := model.DrawFilter{
		Year:       parseIntParam(r, "year", 0),
		Month:      parseIntParam(r, "month", 0),
		Number:     parseIntParam(r, "number", 0),
		Supp:       parseIntParam(r, "supp", 0),
		WinnerOnly: r.URL.Query().Get("winners") == "true",
		Limit:      parseIntParam(r, "limit", 100),
		Offset:     parseIntParam(r, "offset", 0),
	}
	if filter.Limit > 1000 {
		filter.Limit = 1000
	}
	if raw := r.URL.Query().Get("from"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			filter.From = &t
		}
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			filter.To = &t
		}
	}

	draws, err := s.draws.List(ctx, gameCode(r), filter)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"draws":  draws,
		"count":  len(draws),
		"limit":  filter.Limit,
		"offset": filter.Offset,
	})
}

func (s *Server) handleLatestDraw(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeoutContext(r, 5*time.Second)
	defer cancel()

	draw, err := s.draws.Latest(ctx, gameCode(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, draw)
}

func (s *Server) handleImportWeb(w http.ResponseWriter, r *http.Request) {
	// Full-archive imports fetch many pages; rely on the router timeout.
	opts := service.ImportOptions{
		Year:      parseIntParam(r, "year", 0),
		All:       r.URL.Query().Get("all") == "true",
		DryRun:    r.URL.Query().Get("dry_run") == "true",
		SkipStats: r.URL.Query().Get("skip_stats") == "true",
	}

	summary, err := s.draws.ImportFromWeb(r.Context(), gameCode(r), opts)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

func (s *Server) handleImportCSV(w http.ResponseWriter, r *http.Request) {
	opts := service.ImportOptions{
		DryRun:    r.URL.Query().Get("dry_run") == "true",
		SkipStats: r.URL.Query().Get("skip_stats") == "true",
	}

	summary, err := s.draws.ImportCSV(r.Context(), gameCode(r), r.Body, opts)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}
