package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleGenerateBets(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeoutContext(r, 15*time.Second)
	defer cancel()

	strategy := r.URL.Query().Get("strategy")
	if strategy == "" {
		strategy = "random"
	}
	count := parseIntParam(r, "count", 1)
	if count > 50 {
		count = 50
	}

	bets, err := s.bets.Generate(ctx, gameCode(r), strategy, count)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"bets":  bets,
		"count": len(bets),
	})
}

func (s *Server) handleListBets(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeoutContext(r, 10*time.Second)
	defer cancel()

	limit := parseIntParam(r, "limit", 50)
	bets, err := s.bets.List(ctx, gameCode(r), limit)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"bets":  bets,
		"count": len(bets),
	})
}

// multiBetRequest selects either explicit values or pool sizes for the
// generator to fill.
type multiBetRequest struct {
	Strategy      string `json:"strategy"`
	Numbers       []int  `json:"numbers"`
	Supplementary []int  `json:"supplementary"`
	MainSize      int    `json:"main_size"`
	SuppSize      int    `json:"supp_size"`
}

func (s *Server) handleMultiBet(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeoutContext(r, 15*time.Second)
	defer cancel()

	var req multiBetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if len(req.Numbers) > 0 {
		multi, err := s.bets.PriceMulti(ctx, gameCode(r), req.Numbers, req.Supplementary)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, multi)
		return
	}

	if req.Strategy == "" {
		req.Strategy = "random"
	}
	multi, err := s.bets.GenerateMulti(ctx, gameCode(r), req.Strategy, req.MainSize, req.SuppSize)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, multi)
}

// verifyRequest names a selection and the draw date to check it against.
type verifyRequest struct {
	Numbers       []int  `json:"numbers"`
	Supplementary []int  `json:"supplementary"`
	Date          string `json:"date"` // 2006-01-02
}

func (s *Server) handleVerifySelection(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeoutContext(r, 10*time.Second)
	defer cancel()

	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid date, want YYYY-MM-DD", err)
		return
	}

	result, err := s.bets.VerifySelection(ctx, gameCode(r), req.Numbers, req.Supplementary, date)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleVerifyStored(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeoutContext(r, 10*time.Second)
	defer cancel()

	date, err := time.Parse("2006-01-02", r.URL.Query().Get("date"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid date, want YYYY-MM-DD", err)
		return
	}

	result, err := s.bets.VerifyStored(ctx, chi.URLParam(r, "betID"), date)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}
