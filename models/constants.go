// Package models defines data structures used across the application.
// File: models/constants.go
package models

// ----------------------- lifts & disciplines -----------------------

// LiftType identifies one discipline on the platform. LiftTotal is the
// synthetic lift type used only for records bookkeeping.
type LiftType string

const (
	LiftSquat    LiftType = "squat"
	LiftBench    LiftType = "bench"
	LiftDeadlift LiftType = "deadlift"
	LiftTotal    LiftType = "total"
)

// AttemptCeiling is the maximum number of attempts per lift per athlete.
const AttemptCeiling = 3

// TournamentType is the fixed discipline configuration of a tournament.
type TournamentType string

const (
	TypeSBD TournamentType = "SBD" // squat + bench + deadlift
	TypeBP  TournamentType = "BP"  // bench press only
	TypeDL  TournamentType = "DL"  // deadlift only
	TypePP  TournamentType = "PP"  // push-pull: bench + deadlift
)

// Lifts returns the required disciplines for the tournament type.
func (t TournamentType) Lifts() []LiftType {
	switch t {
	case TypeSBD:
		return []LiftType{LiftSquat, LiftBench, LiftDeadlift}
	case TypeBP:
		return []LiftType{LiftBench}
	case TypeDL:
		return []LiftType{LiftDeadlift}
	case TypePP:
		return []LiftType{LiftBench, LiftDeadlift}
	}
	return nil
}

// Valid reports whether t is one of the four supported configurations.
func (t TournamentType) Valid() bool {
	return len(t.Lifts()) > 0
}

// ----------------------- tournament lifecycle -----------------------

// Phase is the tournament lifecycle state. Transitions are strictly
// linear: draft -> registration -> active -> finished.
type Phase string

const (
	PhaseDraft        Phase = "draft"
	PhaseRegistration Phase = "registration"
	PhaseActive       Phase = "active"
	PhaseFinished     Phase = "finished"
)

var phaseOrder = map[Phase]int{
	PhaseDraft:        0,
	PhaseRegistration: 1,
	PhaseActive:       2,
	PhaseFinished:     3,
}

// Index returns the position of the phase in the lifecycle, or -1 for an
// unknown phase.
func (p Phase) Index() int {
	if i, ok := phaseOrder[p]; ok {
		return i
	}
	return -1
}

// ----------------------- athlete attributes -----------------------

// Gender of a participant. The platform follows the dual-gender
// federation convention.
type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
)

// AgeCategory is the athlete's age division.
type AgeCategory string

const (
	AgeSubJunior AgeCategory = "sub_junior" // under 18
	AgeJunior    AgeCategory = "junior"     // 18-23
	AgeOpen      AgeCategory = "open"
	AgeMasters1  AgeCategory = "masters1" // 40-49
	AgeMasters2  AgeCategory = "masters2" // 50-59
	AgeMasters3  AgeCategory = "masters3" // 60-69
	AgeMasters4  AgeCategory = "masters4" // 70+
)

// AgeCategoryOrder fixes the display ordering of divisions.
var AgeCategoryOrder = []AgeCategory{
	AgeSubJunior, AgeJunior, AgeOpen,
	AgeMasters1, AgeMasters2, AgeMasters3, AgeMasters4,
}

// Label returns a human-readable division name.
func (a AgeCategory) Label() string {
	switch a {
	case AgeSubJunior:
		return "Sub-Junior (under 18)"
	case AgeJunior:
		return "Junior (18-23)"
	case AgeOpen:
		return "Open"
	case AgeMasters1:
		return "Masters 1 (40-49)"
	case AgeMasters2:
		return "Masters 2 (50-59)"
	case AgeMasters3:
		return "Masters 3 (60-69)"
	case AgeMasters4:
		return "Masters 4 (70+)"
	}
	return string(a)
}

// ----------------------- attempt outcomes -----------------------

// AttemptResult is the judged outcome of one attempt.
type AttemptResult string

const (
	ResultPending AttemptResult = "pending"
	ResultGood    AttemptResult = "good"
	ResultBad     AttemptResult = "bad"
)

// ----------------------- scoring formulas -----------------------

// FormulaType selects the body-weight coefficient model used for ranking.
// The set is closed: anything else is rejected at the API boundary.
type FormulaType string

const (
	FormulaTotal        FormulaType = "total" // raw total, coefficient 1
	FormulaWilks        FormulaType = "wilks"
	FormulaDots         FormulaType = "dots"
	FormulaGlossbrenner FormulaType = "glossbrenner"
	FormulaIPFGL        FormulaType = "ipf_gl"
)

// AllFormulas lists every supported formula, for validation and menus.
var AllFormulas = []FormulaType{
	FormulaTotal, FormulaWilks, FormulaDots, FormulaGlossbrenner, FormulaIPFGL,
}

// Valid reports whether f belongs to the enumerated formula set.
func (f FormulaType) Valid() bool {
	for _, known := range AllFormulas {
		if f == known {
			return true
		}
	}
	return false
}
