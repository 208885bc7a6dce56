// file: services/scoring_service_db_test.go
//
// Ledger mutations driven end-to-end against a real (sqlite) database.
package services_test

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"go-iron-flow/models"
	"go-iron-flow/services"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "ironflow.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Tournament{},
		&models.WeightCategory{},
		&models.Participant{},
		&models.Attempt{},
		&models.PlatformRecord{},
	))
	return db
}

func seedTournament(t *testing.T, db *gorm.DB, tt models.TournamentType, phase models.Phase) *models.Tournament {
	t.Helper()
	meet := &models.Tournament{
		ID:             uuid.NewString(),
		Name:           "Test Meet",
		Type:           tt,
		Phase:          phase,
		ScoringFormula: models.FormulaTotal,
	}
	require.NoError(t, db.Create(meet).Error)
	return meet
}

func seedParticipant(t *testing.T, db *gorm.DB, meet *models.Tournament, name string) *models.Participant {
	t.Helper()
	p := &models.Participant{
		ID:           uuid.NewString(),
		TournamentID: meet.ID,
		FullName:     name,
		Bodyweight:   92,
		Gender:       models.GenderMale,
		AgeCategory:  models.AgeOpen,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func TestRecordOutcome_JudgedOutcomeIsImmutable(t *testing.T) {
	db := openTestDB(t)
	meet := seedTournament(t, db, models.TypeDL, models.PhaseActive)
	p := seedParticipant(t, db, meet, "A")
	scoring := services.NewScoringService(db)

	_, err := scoring.DeclareWeight(meet.ID, p.ID, models.LiftDeadlift, 1, 250)
	require.NoError(t, err)

	first, err := scoring.RecordOutcome(meet.ID, p.ID, models.LiftDeadlift, 1, models.ResultGood)
	require.NoError(t, err)

	_, err = scoring.RecordOutcome(meet.ID, p.ID, models.LiftDeadlift, 1, models.ResultBad)
	assert.ErrorIs(t, err, services.ErrAttemptAlreadyJudged)

	// the first judgment survives untouched
	var stored models.Attempt
	require.NoError(t, db.First(&stored, "id = ?", first.ID).Error)
	assert.Equal(t, models.ResultGood, stored.Result)
	assert.False(t, stored.Superseded)
	assert.NotNil(t, stored.JudgedAt)
}

func TestRecordOutcome_PhaseGateLeavesLedgerUntouched(t *testing.T) {
	db := openTestDB(t)
	meet := seedTournament(t, db, models.TypeDL, models.PhaseRegistration)
	p := seedParticipant(t, db, meet, "A")
	scoring := services.NewScoringService(db)

	declared, err := scoring.DeclareWeight(meet.ID, p.ID, models.LiftDeadlift, 1, 250)
	require.NoError(t, err, "declaration is open during registration")

	_, err = scoring.RecordOutcome(meet.ID, p.ID, models.LiftDeadlift, 1, models.ResultGood)
	assert.ErrorIs(t, err, services.ErrOperationNotPermittedInPhase)

	var stored models.Attempt
	require.NoError(t, db.First(&stored, "id = ?", declared.ID).Error)
	assert.Equal(t, models.ResultPending, stored.Result)
}

func TestDeclareWeight_UpdatesPendingRejectsJudged(t *testing.T) {
	db := openTestDB(t)
	meet := seedTournament(t, db, models.TypeDL, models.PhaseActive)
	p := seedParticipant(t, db, meet, "A")
	scoring := services.NewScoringService(db)

	_, err := scoring.DeclareWeight(meet.ID, p.ID, models.LiftDeadlift, 1, 250)
	require.NoError(t, err)
	redeclared, err := scoring.DeclareWeight(meet.ID, p.ID, models.LiftDeadlift, 1, 252.5)
	require.NoError(t, err)
	assert.Equal(t, 252.5, redeclared.WeightKg)

	var count int64
	require.NoError(t, db.Model(&models.Attempt{}).
		Where("participant_id = ?", p.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count, "re-declaration updates the pending row, never duplicates it")

	_, err = scoring.RecordOutcome(meet.ID, p.ID, models.LiftDeadlift, 1, models.ResultGood)
	require.NoError(t, err)
	_, err = scoring.DeclareWeight(meet.ID, p.ID, models.LiftDeadlift, 1, 255)
	assert.ErrorIs(t, err, services.ErrAttemptAlreadyJudged)
}

func TestSupersedeOutcome_AppendsRevisionAndKeepsAudit(t *testing.T) {
	db := openTestDB(t)
	meet := seedTournament(t, db, models.TypeDL, models.PhaseActive)
	p := seedParticipant(t, db, meet, "A")
	scoring := services.NewScoringService(db)

	_, err := scoring.DeclareWeight(meet.ID, p.ID, models.LiftDeadlift, 1, 250)
	require.NoError(t, err)
	original, err := scoring.RecordOutcome(meet.ID, p.ID, models.LiftDeadlift, 1, models.ResultGood)
	require.NoError(t, err)

	replacement, err := scoring.SupersedeOutcome(meet.ID, p.ID, models.LiftDeadlift, 1, 250, models.ResultBad)
	require.NoError(t, err)
	assert.Equal(t, 2, replacement.Revision)
	assert.Equal(t, models.ResultBad, replacement.Result)

	// the overturned row is kept for audit, flagged superseded
	var oldRow models.Attempt
	require.NoError(t, db.First(&oldRow, "id = ?", original.ID).Error)
	assert.True(t, oldRow.Superseded)
	assert.Equal(t, models.ResultGood, oldRow.Result)

	// derived results follow the live revision
	records := services.NewRecordsService(db)
	tournaments := services.NewTournamentService(db, records)
	loaded, err := tournaments.GetTournament(meet.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Participants, 1)
	_, hasBest := loaded.Participants[0].BestLift(models.LiftDeadlift)
	assert.False(t, hasBest, "the correction overturned the only pass")
}
