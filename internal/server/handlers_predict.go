package server

import (
	"net/http"
	"time"

	"lottery-analyzer/internal/predictor"
)

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeoutContext(r, 15*time.Second)
	defer cancel()

	strategy := predictor.Strategy(r.URL.Query().Get("strategy"))
	if strategy == "" {
		strategy = predictor.StrategyBalanced
	}

	prediction, err := s.predictions.Predict(ctx, gameCode(r), strategy)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, prediction)
}

func (s *Server) handleRankings(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeoutContext(r, 15*time.Second)
	defer cancel()

	rankings, err := s.predictions.Rank(ctx, gameCode(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rankings)
}

func (s *Server) handleBacktest(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeoutContext(r, 30*time.Second)
	defer cancel()

	window := parseIntParam(r, "window", 100)
	result, err := s.predictions.Backtest(ctx, gameCode(r), window)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeoutContext(r, 60*time.Second)
	defer cancel()

	strategy := r.URL.Query().Get("strategy")
	if strategy == "" {
		strategy = "random"
	}
	window := parseIntParam(r, "window", 50)

	result, err := s.simulator.Run(ctx, gameCode(r), strategy, window)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}
