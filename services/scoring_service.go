// Package services: services/scoring_service.go
//
// Attempt ledger. RecordOutcome is the only mutation path for judged
// outcomes; a judged outcome never changes in place - corrections go
// through SupersedeOutcome, which appends a new revision and keeps the
// old row for audit.
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-iron-flow/logger"
	"go-iron-flow/models"
)

// AttemptEvent is emitted after every successful judgement. Downstream
// collaborators (scoreboard push, notifications) consume it; the core
// only fires it.
type AttemptEvent struct {
	TournamentID  string               `json:"tournament_id"`
	ParticipantID string               `json:"participant_id"`
	AthleteName   string               `json:"athlete_name"`
	Lift          models.LiftType      `json:"lift"`
	Number        int                  `json:"number"`
	WeightKg      float64              `json:"weight_kg"`
	Result        models.AttemptResult `json:"result"`
	BestLift      float64              `json:"best_lift"`
	HasBest       bool                 `json:"has_best"`
	Total         float64              `json:"total"`
	HasTotal      bool                 `json:"has_total"`
}

// Notifier receives attempt events. Implementations must not block:
// the ledger fires events synchronously inside the judging call.
type Notifier interface {
	AttemptJudged(event AttemptEvent)
}

// ScoringService owns all writes into the attempt ledger.
type ScoringService struct {
	DB        *gorm.DB
	notifiers []Notifier
}

// NewScoringService creates a new ScoringService instance.
func NewScoringService(db *gorm.DB) *ScoringService {
	return &ScoringService{DB: db}
}

// Subscribe registers a downstream consumer of attempt events.
// Call during wiring, before traffic arrives.
func (s *ScoringService) Subscribe(n Notifier) {
	s.notifiers = append(s.notifiers, n)
}

// ------------------- guards -------------------

// validateAttemptRef checks the static preconditions shared by every
// ledger mutation: judging phase, live participant, lift in the
// discipline set, attempt number within the ceiling.
func validateAttemptRef(t *models.Tournament, p *models.Participant, lift models.LiftType, number int) error {
	if t.Phase != models.PhaseActive {
		return fmt.Errorf("%w: tournament %s is %s", ErrOperationNotPermittedInPhase, t.ID, t.Phase)
	}
	if p.Withdrawn {
		return fmt.Errorf("%w: %s", ErrParticipantWithdrawn, p.FullName)
	}
	if number < 1 || number > models.AttemptCeiling {
		return fmt.Errorf("%w: attempt %d", ErrAttemptOutOfRange, number)
	}
	for _, known := range t.Lifts() {
		if lift == known {
			return nil
		}
	}
	return fmt.Errorf("%w: lift %q not contested in a %s event", ErrAttemptOutOfRange, lift, t.Type)
}

// findLiveAttempt returns the current (non-superseded) attempt for the
// slot, or nil when nothing has been declared.
func findLiveAttempt(p *models.Participant, lift models.LiftType, number int) *models.Attempt {
	for i := range p.Attempts {
		a := &p.Attempts[i]
		if a.Lift == lift && a.Number == number && !a.Superseded {
			return a
		}
	}
	return nil
}

// ------------------- mutations -------------------

// DeclareWeight creates or updates the declared weight of a pending
// attempt. Allowed while registration is open or the bar is loaded
// (registration/active); a judged attempt can no longer be re-declared.
func (s *ScoringService) DeclareWeight(tournamentID, participantID string, lift models.LiftType, number int, weightKg float64) (*models.Attempt, error) {
	mu := lockTournament(tournamentID)
	mu.Lock()
	defer mu.Unlock()

	t, p, err := s.loadParticipant(tournamentID, participantID)
	if err != nil {
		return nil, err
	}
	if t.Phase != models.PhaseRegistration && t.Phase != models.PhaseActive {
		return nil, fmt.Errorf("%w: tournament %s is %s", ErrOperationNotPermittedInPhase, t.ID, t.Phase)
	}
	if p.Withdrawn {
		return nil, fmt.Errorf("%w: %s", ErrParticipantWithdrawn, p.FullName)
	}
	if number < 1 || number > models.AttemptCeiling {
		return nil, fmt.Errorf("%w: attempt %d", ErrAttemptOutOfRange, number)
	}

	attempt := findLiveAttempt(p, lift, number)
	if attempt != nil {
		if attempt.IsJudged() {
			return nil, fmt.Errorf("%w: %s attempt %d", ErrAttemptAlreadyJudged, lift, number)
		}
		attempt.WeightKg = weightKg
		if err := s.DB.Save(attempt).Error; err != nil {
			return nil, err
		}
		return attempt, nil
	}

	attempt = &models.Attempt{
		ID:            uuid.NewString(),
		ParticipantID: p.ID,
		Lift:          lift,
		Number:        number,
		Revision:      1,
		WeightKg:      weightKg,
		Result:        models.ResultPending,
	}
	if err := s.DB.Create(attempt).Error; err != nil {
		return nil, err
	}
	logger.Debug.Printf("[DeclareWeight] %s: %s attempt %d -> %.1f kg", p.FullName, lift, number, weightKg)
	return attempt, nil
}

// RecordOutcome writes the judged outcome of one attempt. This is the
// trigger point for downstream ranking refresh and notifications.
// Fail-fast: a rejected call leaves the ledger untouched.
func (s *ScoringService) RecordOutcome(tournamentID, participantID string, lift models.LiftType, number int, result models.AttemptResult) (*models.Attempt, error) {
	mu := lockTournament(tournamentID)
	mu.Lock()
	defer mu.Unlock()

	t, p, err := s.loadParticipant(tournamentID, participantID)
	if err != nil {
		return nil, err
	}
	if err := validateAttemptRef(t, p, lift, number); err != nil {
		return nil, err
	}

	attempt := findLiveAttempt(p, lift, number)
	if attempt == nil {
		return nil, fmt.Errorf("%w: %s attempt %d", ErrAttemptNotDeclared, lift, number)
	}
	if attempt.IsJudged() {
		return nil, fmt.Errorf("%w: %s attempt %d is %s", ErrAttemptAlreadyJudged, lift, number, attempt.Result)
	}

	now := time.Now()
	attempt.Result = result
	attempt.JudgedAt = &now
	if err := s.DB.Save(attempt).Error; err != nil {
		return nil, err
	}

	logger.Info.Printf("[RecordOutcome] %s: %s attempt %d @ %.1f kg -> %s",
		p.FullName, lift, number, attempt.WeightKg, result)
	s.emit(t, p, attempt)
	return attempt, nil
}

// SupersedeOutcome corrects an already judged attempt. The old row is
// kept, flagged superseded; a new revision carries the corrected weight
// and outcome. The derived best lift and total follow the new revision.
func (s *ScoringService) SupersedeOutcome(tournamentID, participantID string, lift models.LiftType, number int, weightKg float64, result models.AttemptResult) (*models.Attempt, error) {
	mu := lockTournament(tournamentID)
	mu.Lock()
	defer mu.Unlock()

	t, p, err := s.loadParticipant(tournamentID, participantID)
	if err != nil {
		return nil, err
	}
	if err := validateAttemptRef(t, p, lift, number); err != nil {
		return nil, err
	}

	old := findLiveAttempt(p, lift, number)
	if old == nil {
		return nil, fmt.Errorf("%w: %s attempt %d", ErrAttemptNotDeclared, lift, number)
	}
	if !old.IsJudged() {
		// nothing to correct, the attempt is still pending
		return nil, fmt.Errorf("%w: %s attempt %d is still pending", ErrAttemptNotDeclared, lift, number)
	}

	now := time.Now()
	replacement := &models.Attempt{
		ID:            uuid.NewString(),
		ParticipantID: p.ID,
		Lift:          lift,
		Number:        number,
		Revision:      old.Revision + 1,
		WeightKg:      weightKg,
		Result:        result,
		JudgedAt:      &now,
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Attempt{}).Where("id = ?", old.ID).
			Update("superseded", true).Error; err != nil {
			return err
		}
		return tx.Create(replacement).Error
	})
	if err != nil {
		return nil, err
	}

	// reflect the correction in the loaded aggregate before deriving totals
	old.Superseded = true
	p.Attempts = append(p.Attempts, *replacement)

	logger.Warn.Printf("[SupersedeOutcome] %s: %s attempt %d corrected to %.1f kg %s (revision %d)",
		p.FullName, lift, number, weightKg, result, replacement.Revision)
	s.emit(t, p, replacement)
	return replacement, nil
}

// ------------------- internals -------------------

func (s *ScoringService) loadParticipant(tournamentID, participantID string) (*models.Tournament, *models.Participant, error) {
	var t models.Tournament
	if err := s.DB.First(&t, "id = ?", tournamentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("%w: tournament %s", ErrNotFound, tournamentID)
		}
		return nil, nil, err
	}

	var p models.Participant
	err := s.DB.Preload("Attempts").Preload("Category").
		First(&p, "id = ? AND tournament_id = ?", participantID, tournamentID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("%w: participant %s", ErrNotFound, participantID)
		}
		return nil, nil, err
	}
	return &t, &p, nil
}

func (s *ScoringService) emit(t *models.Tournament, p *models.Participant, a *models.Attempt) {
	event := AttemptEvent{
		TournamentID:  t.ID,
		ParticipantID: p.ID,
		AthleteName:   p.FullName,
		Lift:          a.Lift,
		Number:        a.Number,
		WeightKg:      a.WeightKg,
		Result:        a.Result,
	}
	event.BestLift, event.HasBest = p.BestLift(a.Lift)
	event.Total, event.HasTotal = p.Total(t.Lifts())

	for _, n := range s.notifiers {
		n.AttemptJudged(event)
	}
}
