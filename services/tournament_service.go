// Package services: services/tournament_service.go
//
// Tournament lifecycle and roster management. The lifecycle is a
// one-way machine (draft -> registration -> active -> finished); every
// mutation is gated on the phase that allows it and serialized per
// tournament.
package services

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-iron-flow/logger"
	"go-iron-flow/models"
)

// TournamentService owns tournament, category and roster mutations.
type TournamentService struct {
	DB      *gorm.DB
	Records *RecordsService
}

// NewTournamentService creates a new TournamentService instance.
func NewTournamentService(db *gorm.DB, records *RecordsService) *TournamentService {
	return &TournamentService{DB: db, Records: records}
}

// CategorySelection is one configured weight/gender sub-division.
type CategorySelection struct {
	Gender models.Gender `json:"gender"`
	Name   string        `json:"name"`
}

// ------------------- lifecycle -------------------

// ValidateTransition checks the lifecycle rule in isolation: only the
// immediately following phase is reachable, nothing moves backward.
func ValidateTransition(from, to models.Phase) error {
	fromIdx, toIdx := from.Index(), to.Index()
	if fromIdx < 0 || toIdx < 0 || toIdx != fromIdx+1 {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidStateTransition, from, to)
	}
	return nil
}

// Transition moves the tournament to the target phase. The move to
// finished runs the records vault reconciliation over the final ledger
// before the phase commits; promoted slot keys are returned for audit.
// A rejected transition leaves the tournament unchanged.
func (s *TournamentService) Transition(tournamentID string, target models.Phase) ([]SlotKey, error) {
	mu := lockTournament(tournamentID)
	mu.Lock()
	defer mu.Unlock()

	t, err := s.loadFull(tournamentID)
	if err != nil {
		return nil, err
	}
	if err := ValidateTransition(t.Phase, target); err != nil {
		return nil, err
	}

	var promoted []SlotKey
	if target == models.PhaseFinished {
		promoted, err = s.Records.ReconcileOnFinish(t)
		if err != nil {
			return nil, err
		}
	}

	updates := map[string]interface{}{"phase": target}
	if target == models.PhaseFinished {
		now := time.Now()
		updates["finished_at"] = &now
	}
	if err := s.DB.Model(&models.Tournament{}).Where("id = ?", t.ID).Updates(updates).Error; err != nil {
		return nil, err
	}

	logger.Info.Printf("[Transition] tournament %s (%s): %s -> %s", t.Name, t.ID, t.Phase, target)
	return promoted, nil
}

// ------------------- tournament CRUD -------------------

// CreateTournament creates a draft tournament with the default raw-total
// formula.
func (s *TournamentService) CreateTournament(name string, ttype models.TournamentType, createdBy, description string) (*models.Tournament, error) {
	if !ttype.Valid() {
		return nil, fmt.Errorf("unsupported tournament type %q", ttype)
	}
	t := &models.Tournament{
		ID:             uuid.NewString(),
		Name:           name,
		Type:           ttype,
		Phase:          models.PhaseDraft,
		ScoringFormula: models.FormulaTotal,
		CreatedBy:      createdBy,
		Description:    description,
	}
	if err := s.DB.Create(t).Error; err != nil {
		return nil, err
	}
	logger.Info.Printf("[CreateTournament] created %s (%s, %s)", t.Name, t.ID, t.Type)
	return t, nil
}

// GetTournament loads a tournament with its full aggregate: categories,
// roster, attempts.
func (s *TournamentService) GetTournament(tournamentID string) (*models.Tournament, error) {
	return s.loadFull(tournamentID)
}

// ListTournaments returns tournaments newest first, optionally filtered
// by phase.
func (s *TournamentService) ListTournaments(phase models.Phase) ([]models.Tournament, error) {
	q := s.DB.Order("created_at desc")
	if phase != "" {
		q = q.Where("phase = ?", phase)
	}
	var out []models.Tournament
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// SetFormula switches the active scoring formula. Legal at any time
// before the tournament finishes; ranking always recomputes from raw
// totals, so the switch re-ranks retroactively.
func (s *TournamentService) SetFormula(tournamentID string, formula models.FormulaType) error {
	if !formula.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownFormula, formula)
	}

	mu := lockTournament(tournamentID)
	mu.Lock()
	defer mu.Unlock()

	t, err := s.load(tournamentID)
	if err != nil {
		return err
	}
	if t.Phase == models.PhaseFinished {
		return fmt.Errorf("%w: results are final", ErrOperationNotPermittedInPhase)
	}
	if err := s.DB.Model(t).Update("scoring_formula", formula).Error; err != nil {
		return err
	}
	logger.Info.Printf("[SetFormula] tournament %s now scored by %s", t.Name, formula)
	return nil
}

// ------------------- category configuration -------------------

// SetCategories replaces the tournament's weight sub-divisions. Only
// legal in draft, before anyone registers against them.
func (s *TournamentService) SetCategories(tournamentID string, selections []CategorySelection) ([]models.WeightCategory, error) {
	mu := lockTournament(tournamentID)
	mu.Lock()
	defer mu.Unlock()

	t, err := s.load(tournamentID)
	if err != nil {
		return nil, err
	}
	if t.Phase != models.PhaseDraft {
		return nil, fmt.Errorf("%w: categories are editable in draft only", ErrOperationNotPermittedInPhase)
	}

	cats := make([]models.WeightCategory, 0, len(selections))
	for _, sel := range selections {
		cats = append(cats, models.WeightCategory{
			ID:           uuid.NewString(),
			TournamentID: t.ID,
			Name:         sel.Name,
			Gender:       sel.Gender,
		})
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tournament_id = ?", t.ID).Delete(&models.WeightCategory{}).Error; err != nil {
			return err
		}
		if len(cats) == 0 {
			return nil
		}
		return tx.Create(&cats).Error
	})
	if err != nil {
		return nil, err
	}
	return cats, nil
}

// assignCategory finds the sub-division the bodyweight falls into: the
// smallest upper limit that fits. "-93" admits up to 93 kg, "93+"
// admits anything above 93 kg.
func assignCategory(categories []models.WeightCategory, bodyweight float64, gender models.Gender) *models.WeightCategory {
	var best *models.WeightCategory
	bestLimit := 0.0
	for i := range categories {
		c := &categories[i]
		if c.Gender != gender {
			continue
		}
		var limit float64
		if strings.HasSuffix(c.Name, "+") {
			floor, err := strconv.ParseFloat(strings.TrimSuffix(c.Name, "+"), 64)
			if err != nil || bodyweight <= floor {
				continue
			}
			limit = math.Inf(1) // the open-ended class loses to any bounded fit
		} else {
			cap, err := strconv.ParseFloat(strings.TrimPrefix(c.Name, "-"), 64)
			if err != nil || bodyweight > cap {
				continue
			}
			limit = cap
		}
		if best == nil || limit < bestLimit {
			best, bestLimit = c, limit
		}
	}
	return best
}

// ------------------- roster -------------------

// RegisterParticipant adds an athlete while registration is open. The
// weight sub-division is assigned automatically from bodyweight and
// gender; duplicate names on one roster are rejected.
func (s *TournamentService) RegisterParticipant(tournamentID, fullName string, bodyweight float64, gender models.Gender, age models.AgeCategory) (*models.Participant, error) {
	mu := lockTournament(tournamentID)
	mu.Lock()
	defer mu.Unlock()

	t, err := s.loadFull(tournamentID)
	if err != nil {
		return nil, err
	}
	if t.Phase != models.PhaseRegistration {
		return nil, fmt.Errorf("%w: registration is not open", ErrOperationNotPermittedInPhase)
	}
	for i := range t.Participants {
		if t.Participants[i].FullName == fullName && !t.Participants[i].Withdrawn {
			return nil, fmt.Errorf("%w: %s", ErrAlreadyRegistered, fullName)
		}
	}

	p := &models.Participant{
		ID:           uuid.NewString(),
		TournamentID: t.ID,
		FullName:     fullName,
		Bodyweight:   bodyweight,
		Gender:       gender,
		AgeCategory:  age,
		LotNumber:    len(t.Participants) + 1,
	}
	if cat := assignCategory(t.Categories, bodyweight, gender); cat != nil {
		p.CategoryID = &cat.ID
		p.Category = cat
	}
	if err := s.DB.Create(p).Error; err != nil {
		return nil, err
	}
	logger.Info.Printf("[RegisterParticipant] %s (%.1f kg, %s) joined %s", fullName, bodyweight, gender, t.Name)
	return p, nil
}

// UpdateBodyweight re-declares bodyweight and re-assigns the weight
// sub-division. The declared weight freezes once the platform goes
// active.
func (s *TournamentService) UpdateBodyweight(tournamentID, participantID string, bodyweight float64) (*models.Participant, error) {
	mu := lockTournament(tournamentID)
	mu.Lock()
	defer mu.Unlock()

	t, err := s.loadFull(tournamentID)
	if err != nil {
		return nil, err
	}
	if t.Phase != models.PhaseRegistration {
		return nil, fmt.Errorf("%w: bodyweight is frozen once the meet starts", ErrOperationNotPermittedInPhase)
	}

	p := findParticipant(t, participantID)
	if p == nil {
		return nil, fmt.Errorf("%w: participant %s", ErrNotFound, participantID)
	}
	if p.Withdrawn {
		return nil, fmt.Errorf("%w: %s", ErrParticipantWithdrawn, p.FullName)
	}

	p.Bodyweight = bodyweight
	p.CategoryID, p.Category = nil, nil
	if cat := assignCategory(t.Categories, bodyweight, p.Gender); cat != nil {
		p.CategoryID = &cat.ID
		p.Category = cat
	}
	updates := map[string]interface{}{"bodyweight": bodyweight, "category_id": p.CategoryID}
	if err := s.DB.Model(&models.Participant{}).Where("id = ?", p.ID).Updates(updates).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// Withdraw flags the athlete out of ranking and record checks. The
// attempt history stays for audit. Legal while registration is open or
// the meet is running.
func (s *TournamentService) Withdraw(tournamentID, participantID string) error {
	mu := lockTournament(tournamentID)
	mu.Lock()
	defer mu.Unlock()

	t, err := s.load(tournamentID)
	if err != nil {
		return err
	}
	if t.Phase != models.PhaseRegistration && t.Phase != models.PhaseActive {
		return fmt.Errorf("%w: withdrawal is closed", ErrOperationNotPermittedInPhase)
	}

	var p models.Participant
	if err := s.DB.First(&p, "id = ? AND tournament_id = ?", participantID, tournamentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: participant %s", ErrNotFound, participantID)
		}
		return err
	}
	if p.Withdrawn {
		return fmt.Errorf("%w: %s", ErrParticipantWithdrawn, p.FullName)
	}

	if err := s.DB.Model(&p).Update("withdrawn", true).Error; err != nil {
		return err
	}
	logger.Info.Printf("[Withdraw] %s withdrew from %s", p.FullName, t.Name)
	return nil
}

// ------------------- internals -------------------

func (s *TournamentService) load(tournamentID string) (*models.Tournament, error) {
	var t models.Tournament
	if err := s.DB.First(&t, "id = ?", tournamentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: tournament %s", ErrNotFound, tournamentID)
		}
		return nil, err
	}
	return &t, nil
}

func (s *TournamentService) loadFull(tournamentID string) (*models.Tournament, error) {
	var t models.Tournament
	err := s.DB.
		Preload("Categories").
		Preload("Participants", func(db *gorm.DB) *gorm.DB {
			return db.Order("lot_number, registered_at")
		}).
		Preload("Participants.Category").
		Preload("Participants.Attempts").
		First(&t, "id = ?", tournamentID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: tournament %s", ErrNotFound, tournamentID)
		}
		return nil, err
	}
	return &t, nil
}

func findParticipant(t *models.Tournament, participantID string) *models.Participant {
	for i := range t.Participants {
		if t.Participants[i].ID == participantID {
			return &t.Participants[i]
		}
	}
	return nil
}
