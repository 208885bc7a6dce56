// Package models defines data structures used across the application.
// File: models/models.go
package models

import (
	"fmt"
	"time"
)

// ------------------------ tournament model -----------------------

// Tournament is a single competition event. It owns its weight
// categories and, transitively, every participant and attempt.
type Tournament struct {
	ID             string         `json:"id" gorm:"primaryKey"`
	Name           string         `json:"name" gorm:"not null"`
	Type           TournamentType `json:"type" gorm:"column:tournament_type;not null"`
	Phase          Phase          `json:"phase" gorm:"default:'draft'"`
	ScoringFormula FormulaType    `json:"scoring_formula" gorm:"default:'total'"`
	CreatedBy      string         `json:"created_by"`
	Description    string         `json:"description,omitempty"`
	CreatedAt      time.Time      `json:"created_at" gorm:"autoCreateTime"`
	FinishedAt     *time.Time     `json:"finished_at,omitempty"`

	Categories   []WeightCategory `json:"categories,omitempty" gorm:"foreignKey:TournamentID"`
	Participants []Participant    `json:"participants,omitempty" gorm:"foreignKey:TournamentID"`
}

// Lifts returns the required disciplines for this tournament.
func (t *Tournament) Lifts() []LiftType {
	return t.Type.Lifts()
}

// ------------------------ weight category model -----------------------

// WeightCategory is one weight/gender sub-division within a tournament.
// Names follow the federation convention: "-93" means <=93 kg, "93+"
// means over 93 kg.
type WeightCategory struct {
	ID           string `json:"id" gorm:"primaryKey"`
	TournamentID string `json:"tournament_id" gorm:"not null;index"`
	Name         string `json:"name" gorm:"not null"`
	Gender       Gender `json:"gender" gorm:"not null"`
}

// DisplayName renders the category for scoreboards, e.g. "-93 kg M".
func (c *WeightCategory) DisplayName() string {
	return fmt.Sprintf("%s kg %s", c.Name, c.Gender)
}

// ------------------------ participant model -----------------------

// Participant is an athlete registered for one tournament. Withdrawn
// athletes keep their attempt history for audit but are excluded from
// ranking and record checks.
type Participant struct {
	ID           string          `json:"id" gorm:"primaryKey"`
	TournamentID string          `json:"tournament_id" gorm:"not null;index"`
	FullName     string          `json:"full_name" gorm:"not null"`
	Bodyweight   float64         `json:"bodyweight" gorm:"not null"`
	Gender       Gender          `json:"gender" gorm:"not null"`
	AgeCategory  AgeCategory     `json:"age_category,omitempty"`
	CategoryID   *string         `json:"category_id,omitempty"`
	Category     *WeightCategory `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Withdrawn    bool            `json:"withdrawn" gorm:"default:false"`
	LotNumber    int             `json:"lot_number,omitempty"`
	RegisteredAt time.Time       `json:"registered_at" gorm:"autoCreateTime"`

	Attempts []Attempt `json:"attempts,omitempty" gorm:"foreignKey:ParticipantID"`
}

// ------------------------ attempt model -----------------------

// Attempt is one lift attempt. Judged outcomes are immutable: a
// correction supersedes the old row and appends a new revision, so the
// audit trail survives.
type Attempt struct {
	ID            string        `json:"id" gorm:"primaryKey"`
	ParticipantID string        `json:"participant_id" gorm:"not null;index"`
	Lift          LiftType      `json:"lift" gorm:"column:lift_type;not null"`
	Number        int           `json:"number" gorm:"column:attempt_number;not null"`
	Revision      int           `json:"revision" gorm:"default:1"`
	WeightKg      float64       `json:"weight_kg"`
	Result        AttemptResult `json:"result" gorm:"default:'pending'"`
	Superseded    bool          `json:"superseded" gorm:"default:false"`
	JudgedAt      *time.Time    `json:"judged_at,omitempty"`
}

// IsJudged reports whether the attempt has a recorded outcome.
func (a *Attempt) IsJudged() bool {
	return a.Result != ResultPending
}

// ------------------------ platform record model -----------------------

// PlatformRecord is one all-time record. The slot key
// (lift, gender, age category, weight category name) is unique: at most
// one live record exists per slot.
type PlatformRecord struct {
	ID                 string      `json:"id" gorm:"primaryKey"`
	Lift               LiftType    `json:"lift" gorm:"column:lift_type;not null;uniqueIndex:idx_record_slot"`
	Gender             Gender      `json:"gender" gorm:"not null;uniqueIndex:idx_record_slot"`
	AgeCategory        AgeCategory `json:"age_category" gorm:"not null;uniqueIndex:idx_record_slot"`
	WeightCategoryName string      `json:"weight_category_name" gorm:"not null;uniqueIndex:idx_record_slot"`
	WeightKg           float64     `json:"weight_kg" gorm:"not null"`
	AthleteName        string      `json:"athlete_name" gorm:"not null"`
	TournamentID       string      `json:"tournament_id"`
	TournamentName     string      `json:"tournament_name"`
	ParticipantID      string      `json:"participant_id"`
	SetAt              time.Time   `json:"set_at" gorm:"autoCreateTime"`
}

// ------------------------ derived lift math -----------------------

// liveAttempts returns the participant's non-superseded attempts for a
// lift. Superseded rows exist only for audit.
func (p *Participant) liveAttempts(lift LiftType) []*Attempt {
	var out []*Attempt
	for i := range p.Attempts {
		a := &p.Attempts[i]
		if a.Lift == lift && !a.Superseded {
			out = append(out, a)
		}
	}
	return out
}

// BestLift returns the heaviest successful attempt for the lift.
// ok is false when no attempt of that lift has been passed.
func (p *Participant) BestLift(lift LiftType) (float64, bool) {
	best, ok := 0.0, false
	for _, a := range p.liveAttempts(lift) {
		if a.Result == ResultGood && a.WeightKg > best {
			best, ok = a.WeightKg, true
		}
	}
	return best, ok
}

// IsBombOut reports whether the athlete has bombed out of a lift: at
// least one attempt judged, none passed, and nothing left pending.
func (p *Participant) IsBombOut(lift LiftType) bool {
	attempts := p.liveAttempts(lift)
	judged := 0
	for _, a := range attempts {
		switch a.Result {
		case ResultGood:
			return false
		case ResultPending:
			return false
		case ResultBad:
			judged++
		}
	}
	return judged > 0
}

// Total sums the best lifts across the required disciplines. ok is
// false when the athlete bombed out of any required lift — an undefined
// total, never zero. Lifts with no attempts recorded yet are skipped so
// in-progress athletes still rank on what they have posted.
func (p *Participant) Total(lifts []LiftType) (float64, bool) {
	total := 0.0
	for _, lift := range lifts {
		if len(p.liveAttempts(lift)) == 0 {
			continue
		}
		if p.IsBombOut(lift) {
			return 0, false
		}
		if best, ok := p.BestLift(lift); ok {
			total += best
		}
	}
	return total, true
}
