// Package services: services/records_service.go
//
// All-time records vault. Reconciliation is compare-and-replace per
// slot key: a record only ever moves up, re-running the reconciliation
// for the same tournament is a no-op, and two tournaments finishing at
// once cannot interleave a worse value over a better one.
package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"go-iron-flow/logger"
	"go-iron-flow/models"
)

// SlotKey is the unique identity of one record: at most one live
// PlatformRecord exists per slot.
type SlotKey struct {
	Lift               models.LiftType    `json:"lift"`
	Gender             models.Gender      `json:"gender"`
	AgeCategory        models.AgeCategory `json:"age_category"`
	WeightCategoryName string             `json:"weight_category_name"`
}

func (k SlotKey) String() string {
	return fmt.Sprintf("%s/%s/%s/%s", k.Lift, k.Gender, k.AgeCategory, k.WeightCategoryName)
}

// RecordCandidate is one performance from a finished tournament that
// may displace the record in its slot.
type RecordCandidate struct {
	SlotKey
	WeightKg      float64
	AthleteName   string
	ParticipantID string
}

// per-slot-key critical sections; no global vault lock
var (
	slotLocksMu sync.Mutex
	slotLocks   = make(map[SlotKey]*sync.Mutex)
)

func lockSlot(key SlotKey) *sync.Mutex {
	slotLocksMu.Lock()
	defer slotLocksMu.Unlock()
	mu, exists := slotLocks[key]
	if !exists {
		mu = &sync.Mutex{}
		slotLocks[key] = mu
	}
	return mu
}

// ------------------- candidate derivation -------------------

// CandidateRecords derives every record-eligible performance from a
// tournament's final ledger: each contested lift's best per
// non-withdrawn athlete, plus the synthetic total when the discipline
// set has more than one lift. Athletes without an age category carry no
// slot and are skipped. Pure; order is deterministic (roster order,
// lifts in discipline order, total last).
func CandidateRecords(t *models.Tournament) []RecordCandidate {
	lifts := t.Lifts()
	var out []RecordCandidate

	for i := range t.Participants {
		p := &t.Participants[i]
		if p.Withdrawn || p.AgeCategory == "" {
			continue
		}
		weightCat := "open"
		if p.Category != nil {
			weightCat = p.Category.Name
		}

		for _, lift := range lifts {
			best, ok := p.BestLift(lift)
			if !ok {
				continue
			}
			out = append(out, RecordCandidate{
				SlotKey: SlotKey{
					Lift:               lift,
					Gender:             p.Gender,
					AgeCategory:        p.AgeCategory,
					WeightCategoryName: weightCat,
				},
				WeightKg:      best,
				AthleteName:   p.FullName,
				ParticipantID: p.ID,
			})
		}

		if len(lifts) > 1 {
			if total, ok := p.Total(lifts); ok && total > 0 {
				out = append(out, RecordCandidate{
					SlotKey: SlotKey{
						Lift:               models.LiftTotal,
						Gender:             p.Gender,
						AgeCategory:        p.AgeCategory,
						WeightCategoryName: weightCat,
					},
					WeightKg:      total,
					AthleteName:   p.FullName,
					ParticipantID: p.ID,
				})
			}
		}
	}
	return out
}

// promotes is the compare rule: strictly greater wins, equal or lesser
// leaves the standing record alone. An absent record loses to anything.
func promotes(existing *models.PlatformRecord, candidate RecordCandidate) bool {
	return existing == nil || candidate.WeightKg > existing.WeightKg
}

// ------------------- service -------------------

// RecordsService owns the vault.
type RecordsService struct {
	DB *gorm.DB
}

// NewRecordsService creates a new RecordsService instance.
func NewRecordsService(db *gorm.DB) *RecordsService {
	return &RecordsService{DB: db}
}

// ReconcileOnFinish scans the finished tournament and promotes every
// candidate that beats its slot's standing record. Returns the slot
// keys that changed. Safe to re-run: the comparisons re-derive and
// no-op when the vault is already up to date.
func (s *RecordsService) ReconcileOnFinish(t *models.Tournament) ([]SlotKey, error) {
	var updated []SlotKey
	for _, candidate := range CandidateRecords(t) {
		changed, err := s.checkAndPromote(t, candidate)
		if err != nil {
			return updated, err
		}
		if changed {
			updated = append(updated, candidate.SlotKey)
		}
	}
	logger.Info.Printf("[ReconcileOnFinish] tournament %s: %d record(s) promoted", t.Name, len(updated))
	return updated, nil
}

// checkAndPromote runs one atomic compare-and-replace: slot mutex plus
// a row lock so a concurrent reconciliation from another tournament
// cannot slip a lesser value in between the check and the write.
func (s *RecordsService) checkAndPromote(t *models.Tournament, candidate RecordCandidate) (bool, error) {
	mu := lockSlot(candidate.SlotKey)
	mu.Lock()
	defer mu.Unlock()

	changed := false
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		q := tx
		// SQLite has no row locks; the slot mutex above still
		// serializes in-process writers there
		if tx.Dialector.Name() == "postgres" {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		var existing []models.PlatformRecord
		err := q.
			Where("lift_type = ? AND gender = ? AND age_category = ? AND weight_category_name = ?",
				candidate.Lift, candidate.Gender, candidate.AgeCategory, candidate.WeightCategoryName).
			Find(&existing).Error
		if err != nil {
			return err
		}
		if len(existing) > 1 {
			return fmt.Errorf("%w: %s has %d live rows", ErrSlotKeyConflict, candidate.SlotKey, len(existing))
		}

		if len(existing) == 0 {
			if !promotes(nil, candidate) {
				return nil
			}
			changed = true
			return tx.Create(&models.PlatformRecord{
				ID:                 uuid.NewString(),
				Lift:               candidate.Lift,
				Gender:             candidate.Gender,
				AgeCategory:        candidate.AgeCategory,
				WeightCategoryName: candidate.WeightCategoryName,
				WeightKg:           candidate.WeightKg,
				AthleteName:        candidate.AthleteName,
				TournamentID:       t.ID,
				TournamentName:     t.Name,
				ParticipantID:      candidate.ParticipantID,
				SetAt:              time.Now(),
			}).Error
		}

		if !promotes(&existing[0], candidate) {
			return nil
		}
		changed = true
		logger.Info.Printf("[checkAndPromote] %s: %.1f kg by %s beats %.1f kg by %s",
			candidate.SlotKey, candidate.WeightKg, candidate.AthleteName,
			existing[0].WeightKg, existing[0].AthleteName)
		return tx.Model(&existing[0]).Updates(map[string]interface{}{
			"weight_kg":       candidate.WeightKg,
			"athlete_name":    candidate.AthleteName,
			"tournament_id":   t.ID,
			"tournament_name": t.Name,
			"participant_id":  candidate.ParticipantID,
			"set_at":          time.Now(),
		}).Error
	})
	return changed, err
}

// RecordFilter narrows a vault query; zero values mean "any".
type RecordFilter struct {
	Gender             models.Gender
	AgeCategory        models.AgeCategory
	WeightCategoryName string
	Lift               models.LiftType
}

// GetRecords fetches records ordered by gender, age category, weight
// category, lift.
func (s *RecordsService) GetRecords(filter RecordFilter) ([]models.PlatformRecord, error) {
	q := s.DB.Order("gender, age_category, weight_category_name, lift_type")
	if filter.Gender != "" {
		q = q.Where("gender = ?", filter.Gender)
	}
	if filter.AgeCategory != "" {
		q = q.Where("age_category = ?", filter.AgeCategory)
	}
	if filter.WeightCategoryName != "" {
		q = q.Where("weight_category_name = ?", filter.WeightCategoryName)
	}
	if filter.Lift != "" {
		q = q.Where("lift_type = ?", filter.Lift)
	}
	var out []models.PlatformRecord
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
