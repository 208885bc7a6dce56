// file: services/records_service_db_test.go
//
// Vault reconciliation driven through the finish transition against a
// real (sqlite) database.
package services_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"go-iron-flow/models"
	"go-iron-flow/services"
)

func seedJudgedAttempt(t *testing.T, db *gorm.DB, p *models.Participant, lift models.LiftType, number int, kg float64, result models.AttemptResult) {
	t.Helper()
	require.NoError(t, db.Create(&models.Attempt{
		ID:            uuid.NewString(),
		ParticipantID: p.ID,
		Lift:          lift,
		Number:        number,
		Revision:      1,
		WeightKg:      kg,
		Result:        result,
	}).Error)
}

func deadliftRecord(t *testing.T, db *gorm.DB) models.PlatformRecord {
	t.Helper()
	var recs []models.PlatformRecord
	require.NoError(t, db.Where("lift_type = ?", models.LiftDeadlift).Find(&recs).Error)
	require.Len(t, recs, 1, "exactly one live record per slot")
	return recs[0]
}

func TestTransition_FinishPromotesRecords(t *testing.T) {
	db := openTestDB(t)
	records := services.NewRecordsService(db)
	tournaments := services.NewTournamentService(db, records)

	meet := seedTournament(t, db, models.TypeDL, models.PhaseActive)
	p := seedParticipant(t, db, meet, "A")
	seedJudgedAttempt(t, db, p, models.LiftDeadlift, 1, 250, models.ResultGood)

	promoted, err := tournaments.Transition(meet.ID, models.PhaseFinished)
	require.NoError(t, err)
	require.Len(t, promoted, 1)
	assert.Equal(t, models.LiftDeadlift, promoted[0].Lift)
	assert.Equal(t, "open", promoted[0].WeightCategoryName)

	rec := deadliftRecord(t, db)
	assert.Equal(t, 250.0, rec.WeightKg)
	assert.Equal(t, "A", rec.AthleteName)
	assert.Equal(t, meet.ID, rec.TournamentID)

	loaded, err := tournaments.GetTournament(meet.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PhaseFinished, loaded.Phase)
	assert.NotNil(t, loaded.FinishedAt)
}

func TestReconcileOnFinish_Idempotent(t *testing.T) {
	db := openTestDB(t)
	records := services.NewRecordsService(db)
	tournaments := services.NewTournamentService(db, records)

	meet := seedTournament(t, db, models.TypeDL, models.PhaseActive)
	p := seedParticipant(t, db, meet, "A")
	seedJudgedAttempt(t, db, p, models.LiftDeadlift, 1, 250, models.ResultGood)

	_, err := tournaments.Transition(meet.ID, models.PhaseFinished)
	require.NoError(t, err)

	// a crash-retry re-derives the same comparisons and no-ops
	loaded, err := tournaments.GetTournament(meet.ID)
	require.NoError(t, err)
	again, err := records.ReconcileOnFinish(loaded)
	require.NoError(t, err)
	assert.Empty(t, again, "re-running the reconciliation promotes nothing")

	rec := deadliftRecord(t, db)
	assert.Equal(t, 250.0, rec.WeightKg)
}

func TestReconcileOnFinish_RecordNeverDecreases(t *testing.T) {
	db := openTestDB(t)
	records := services.NewRecordsService(db)
	tournaments := services.NewTournamentService(db, records)

	first := seedTournament(t, db, models.TypeDL, models.PhaseActive)
	a := seedParticipant(t, db, first, "A")
	seedJudgedAttempt(t, db, a, models.LiftDeadlift, 1, 250, models.ResultGood)
	_, err := tournaments.Transition(first.ID, models.PhaseFinished)
	require.NoError(t, err)

	// a later meet with a lesser best leaves the standing record alone
	lesser := seedTournament(t, db, models.TypeDL, models.PhaseActive)
	b := seedParticipant(t, db, lesser, "B")
	seedJudgedAttempt(t, db, b, models.LiftDeadlift, 1, 240, models.ResultGood)
	promoted, err := tournaments.Transition(lesser.ID, models.PhaseFinished)
	require.NoError(t, err)
	assert.Empty(t, promoted)

	rec := deadliftRecord(t, db)
	assert.Equal(t, 250.0, rec.WeightKg)
	assert.Equal(t, "A", rec.AthleteName)

	// a strictly greater best displaces it
	greater := seedTournament(t, db, models.TypeDL, models.PhaseActive)
	c := seedParticipant(t, db, greater, "C")
	seedJudgedAttempt(t, db, c, models.LiftDeadlift, 1, 260, models.ResultGood)
	promoted, err = tournaments.Transition(greater.ID, models.PhaseFinished)
	require.NoError(t, err)
	require.Len(t, promoted, 1)

	rec = deadliftRecord(t, db)
	assert.Equal(t, 260.0, rec.WeightKg)
	assert.Equal(t, "C", rec.AthleteName)
	assert.Equal(t, greater.ID, rec.TournamentID)
}

func TestTransition_RejectedMoveLeavesPhaseUnchanged(t *testing.T) {
	db := openTestDB(t)
	records := services.NewRecordsService(db)
	tournaments := services.NewTournamentService(db, records)

	meet := seedTournament(t, db, models.TypeDL, models.PhaseRegistration)

	_, err := tournaments.Transition(meet.ID, models.PhaseFinished)
	assert.ErrorIs(t, err, services.ErrInvalidStateTransition)

	loaded, err := tournaments.GetTournament(meet.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PhaseRegistration, loaded.Phase)
}
