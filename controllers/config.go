// Package controllers exposes the HTTP surface of the scoring core.
// File: controllers/config.go
package controllers

import (
	"errors"
	"net/http"

	"go-iron-flow/services"
)

// ------------------ wiring ------------------

// package-level service handles, injected from main
var (
	tournamentService *services.TournamentService
	scoringService    *services.ScoringService
	recordsService    *services.RecordsService
)

// SetServices wires the service layer into the handlers. Call once from
// main before the router starts.
func SetServices(ts *services.TournamentService, ss *services.ScoringService, rs *services.RecordsService) {
	tournamentService = ts
	scoringService = ss
	recordsService = rs
}

// ------------------ error mapping ------------------

// statusForError maps the core error taxonomy onto HTTP status codes.
// Anything unrecognised is a 500.
func statusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrInvalidStateTransition),
		errors.Is(err, services.ErrOperationNotPermittedInPhase),
		errors.Is(err, services.ErrAttemptAlreadyJudged),
		errors.Is(err, services.ErrParticipantWithdrawn),
		errors.Is(err, services.ErrAlreadyRegistered):
		return http.StatusConflict
	case errors.Is(err, services.ErrUnknownFormula),
		errors.Is(err, services.ErrAttemptOutOfRange),
		errors.Is(err, services.ErrAttemptNotDeclared):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrSlotKeyConflict):
		// consistency violation, not a user error
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}
