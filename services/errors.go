// Package services implements the scoring, ranking and records core.
// File: services/errors.go
package services

import "errors"

// ------------------- core error taxonomy -------------------

// Every rejected operation returns one of these sentinels (possibly
// wrapped with context). Callers branch with errors.Is; nothing is
// silently coerced or retried inside the core.
var (
	// ErrInvalidStateTransition - phase change to a non-adjacent or backward phase.
	ErrInvalidStateTransition = errors.New("invalid state transition")

	// ErrOperationNotPermittedInPhase - mutation attempted outside the phase that allows it.
	ErrOperationNotPermittedInPhase = errors.New("operation not permitted in current phase")

	// ErrAttemptAlreadyJudged - re-judging an attempt whose outcome is no longer pending.
	ErrAttemptAlreadyJudged = errors.New("attempt already judged")

	// ErrAttemptNotDeclared - judging an attempt that has no declared weight yet.
	ErrAttemptNotDeclared = errors.New("attempt not declared")

	// ErrUnknownFormula - formula selection outside the enumerated set.
	ErrUnknownFormula = errors.New("unknown scoring formula")

	// ErrParticipantWithdrawn - mutation attempted against a withdrawn participant.
	ErrParticipantWithdrawn = errors.New("participant has withdrawn")

	// ErrAlreadyRegistered - duplicate registration for the same tournament.
	ErrAlreadyRegistered = errors.New("already registered for this tournament")

	// ErrAttemptOutOfRange - attempt number outside 1..AttemptCeiling or lift not in the discipline set.
	ErrAttemptOutOfRange = errors.New("attempt outside the configured ceiling")

	// ErrSlotKeyConflict - more than one live record found for one slot key.
	// This is a consistency violation, not a user error; it is never
	// recovered from automatically.
	ErrSlotKeyConflict = errors.New("slot key conflict: duplicate platform records")

	// ErrNotFound - the referenced tournament, participant or attempt does not exist.
	ErrNotFound = errors.New("not found")
)
