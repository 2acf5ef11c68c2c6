package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"lottery-analyzer/internal/game"
	"lottery-analyzer/internal/generator"
	"lottery-analyzer/internal/importer"
	"lottery-analyzer/internal/predictor"
	"lottery-analyzer/internal/repository"
	"lottery-analyzer/internal/service"
	"lottery-analyzer/internal/stats"
)

// errorResponse is the wire shape of every error payload.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func respondError(w http.ResponseWriter, status int, message string, err error) {
	if err != nil {
		log.Warn().Err(err).Int("status", status).Msg(message)
	}
	respondJSON(w, status, errorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	})
}

// respondServiceError maps domain errors to HTTP status codes.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrUnknownGame):
		respondError(w, http.StatusNotFound, "unknown game", err)
	case errors.Is(err, repository.ErrDrawNotFound),
		errors.Is(err, repository.ErrBetNotFound),
		errors.Is(err, service.ErrNoDrawForDate):
		respondError(w, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, game.ErrWrongNumberCount),
		errors.Is(err, game.ErrWrongSuppCount),
		errors.Is(err, game.ErrValueOutOfRange),
		errors.Is(err, game.ErrDuplicateValue),
		errors.Is(err, game.ErrMultiBetBounds),
		errors.Is(err, generator.ErrUnknownStrategy),
		errors.Is(err, predictor.ErrUnknownStrategy),
		errors.Is(err, importer.ErrMissingHeader):
		respondError(w, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, stats.ErrInsufficientData),
		errors.Is(err, predictor.ErrInsufficientData),
		errors.Is(err, generator.ErrMissingStats):
		respondError(w, http.StatusUnprocessableEntity, err.Error(), nil)
	default:
		respondError(w, http.StatusInternalServerError, "internal error", err)
	}
}
