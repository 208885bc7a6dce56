// file: services/ranking_service_test.go
package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-iron-flow/models"
	"go-iron-flow/services"
)

// ------------------- fixture builders -------------------

func good(lift models.LiftType, number int, kg float64) models.Attempt {
	return models.Attempt{Lift: lift, Number: number, WeightKg: kg, Result: models.ResultGood}
}

func bad(lift models.LiftType, number int, kg float64) models.Attempt {
	return models.Attempt{Lift: lift, Number: number, WeightKg: kg, Result: models.ResultBad}
}

func newTournament(tt models.TournamentType, formula models.FormulaType) *models.Tournament {
	return &models.Tournament{
		ID:             "t1",
		Name:           "City Open",
		Type:           tt,
		Phase:          models.PhaseActive,
		ScoringFormula: formula,
	}
}

func addAthlete(t *models.Tournament, name string, bw float64, gender models.Gender, attempts ...models.Attempt) *models.Participant {
	p := models.Participant{
		ID:           name,
		TournamentID: t.ID,
		FullName:     name,
		Bodyweight:   bw,
		Gender:       gender,
		AgeCategory:  models.AgeOpen,
		Attempts:     attempts,
	}
	t.Participants = append(t.Participants, p)
	return &t.Participants[len(t.Participants)-1]
}

// ------------------- Rank -------------------

func TestRank_TieSharesPlaceAndBombOutsFollow(t *testing.T) {
	// single-discipline meet, raw totals: A and C both finish on 100 kg
	// at the same bodyweight, B fails all three attempts
	meet := newTournament(models.TypeDL, models.FormulaTotal)
	addAthlete(meet, "A", 80, models.GenderMale,
		good(models.LiftDeadlift, 1, 100), bad(models.LiftDeadlift, 2, 105))
	addAthlete(meet, "B", 80, models.GenderMale,
		bad(models.LiftDeadlift, 1, 110), bad(models.LiftDeadlift, 2, 110), bad(models.LiftDeadlift, 3, 110))
	addAthlete(meet, "C", 80, models.GenderMale,
		good(models.LiftDeadlift, 1, 100))

	results := services.Rank(meet, services.OverallScope())
	require.Len(t, results, 3)

	assert.Equal(t, "A", results[0].Participant.FullName)
	assert.Equal(t, 1, results[0].Place)
	assert.Equal(t, 100.0, results[0].Total)

	assert.Equal(t, "C", results[1].Participant.FullName)
	assert.Equal(t, 1, results[1].Place, "equal score and bodyweight share a place")

	assert.Equal(t, "B", results[2].Participant.FullName)
	assert.Equal(t, 3, results[2].Place, "numbering is not compressed after a tie")
	assert.False(t, results[2].HasTotal, "a bomb-out has no total")
	assert.False(t, results[2].HasScore)
}

func TestRank_BodyweightBreaksEqualTotals(t *testing.T) {
	meet := newTournament(models.TypeDL, models.FormulaTotal)
	addAthlete(meet, "Heavy", 92.5, models.GenderMale, good(models.LiftDeadlift, 1, 250))
	addAthlete(meet, "Light", 88.0, models.GenderMale, good(models.LiftDeadlift, 1, 250))

	results := services.Rank(meet, services.OverallScope())
	require.Len(t, results, 2)
	assert.Equal(t, "Light", results[0].Participant.FullName)
	assert.Equal(t, 1, results[0].Place)
	assert.Equal(t, "Heavy", results[1].Participant.FullName)
	assert.Equal(t, 2, results[1].Place, "a kg of bodyweight separates otherwise equal athletes")
}

func TestRank_FullMeetSumsDisciplines(t *testing.T) {
	meet := newTournament(models.TypeSBD, models.FormulaTotal)
	addAthlete(meet, "A", 93, models.GenderMale,
		good(models.LiftSquat, 1, 200), good(models.LiftSquat, 2, 210),
		good(models.LiftBench, 1, 140), bad(models.LiftBench, 2, 150),
		good(models.LiftDeadlift, 1, 250))

	results := services.Rank(meet, services.OverallScope())
	require.Len(t, results, 1)
	assert.Equal(t, 600.0, results[0].Total, "best of each lift: 210+140+250")
	assert.Equal(t, 210.0, results[0].LiftBests[models.LiftSquat])
	assert.Equal(t, 140.0, results[0].LiftBests[models.LiftBench])
	assert.Equal(t, 250.0, results[0].LiftBests[models.LiftDeadlift])
}

func TestRank_BombOutInOneDisciplineKillsTheTotal(t *testing.T) {
	meet := newTournament(models.TypeSBD, models.FormulaTotal)
	addAthlete(meet, "A", 93, models.GenderMale,
		good(models.LiftSquat, 1, 200),
		bad(models.LiftBench, 1, 140), bad(models.LiftBench, 2, 140), bad(models.LiftBench, 3, 140),
		good(models.LiftDeadlift, 1, 250))

	results := services.Rank(meet, services.OverallScope())
	require.Len(t, results, 1)
	assert.False(t, results[0].HasTotal)
	assert.Equal(t, 200.0, results[0].LiftBests[models.LiftSquat], "individual bests survive the bomb-out")
}

func TestRank_FormulaReordersHeavierHigherTotal(t *testing.T) {
	// heavier athlete out-totals the lighter one, but under Wilks the
	// lighter total wins
	meet := newTournament(models.TypeSBD, models.FormulaWilks)
	addAthlete(meet, "Heavy", 140, models.GenderMale,
		good(models.LiftSquat, 1, 300), good(models.LiftBench, 1, 200), good(models.LiftDeadlift, 1, 300))
	addAthlete(meet, "Light", 59, models.GenderMale,
		good(models.LiftSquat, 1, 220), good(models.LiftBench, 1, 140), good(models.LiftDeadlift, 1, 240))

	results := services.Rank(meet, services.OverallScope())
	require.Len(t, results, 2)
	assert.Equal(t, "Light", results[0].Participant.FullName)
	assert.Greater(t, results[1].Total, results[0].Total, "raw total still favours the heavier athlete")
	assert.Equal(t, models.FormulaWilks, results[0].Formula)
}

func TestRank_WithdrawnAthletesExcluded(t *testing.T) {
	meet := newTournament(models.TypeDL, models.FormulaTotal)
	addAthlete(meet, "A", 80, models.GenderMale, good(models.LiftDeadlift, 1, 200))
	out := addAthlete(meet, "Quit", 80, models.GenderMale, good(models.LiftDeadlift, 1, 300))
	out.Withdrawn = true

	results := services.Rank(meet, services.OverallScope())
	require.Len(t, results, 1)
	assert.Equal(t, "A", results[0].Participant.FullName)
}

func TestRank_SupersededRevisionIgnored(t *testing.T) {
	meet := newTournament(models.TypeDL, models.FormulaTotal)
	overturned := good(models.LiftDeadlift, 1, 260)
	overturned.Superseded = true
	addAthlete(meet, "A", 80, models.GenderMale,
		overturned, bad(models.LiftDeadlift, 1, 260))

	results := services.Rank(meet, services.OverallScope())
	require.Len(t, results, 1)
	_, hasBest := results[0].LiftBests[models.LiftDeadlift]
	assert.False(t, hasBest, "only the live revision counts")
}

func TestRank_DivisionScopeFilters(t *testing.T) {
	meet := newTournament(models.TypeDL, models.FormulaTotal)
	addAthlete(meet, "Open", 80, models.GenderMale, good(models.LiftDeadlift, 1, 200))
	junior := addAthlete(meet, "Junior", 75, models.GenderMale, good(models.LiftDeadlift, 1, 180))
	junior.AgeCategory = models.AgeJunior

	results := services.Rank(meet, services.DivisionScope(models.AgeJunior))
	require.Len(t, results, 1)
	assert.Equal(t, "Junior", results[0].Participant.FullName)
	assert.Equal(t, 1, results[0].Place)
}

func TestRank_Deterministic(t *testing.T) {
	meet := newTournament(models.TypeSBD, models.FormulaDots)
	addAthlete(meet, "A", 93, models.GenderMale,
		good(models.LiftSquat, 1, 210), good(models.LiftBench, 1, 140), good(models.LiftDeadlift, 1, 250))
	addAthlete(meet, "B", 83, models.GenderMale,
		good(models.LiftSquat, 1, 200), good(models.LiftBench, 1, 135), good(models.LiftDeadlift, 1, 245))

	first := services.Rank(meet, services.OverallScope())
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, services.Rank(meet, services.OverallScope()))
	}
}

// ------------------- grouped views -------------------

func TestRankByCategory_GroupsByWeightAndGender(t *testing.T) {
	meet := newTournament(models.TypeDL, models.FormulaTotal)
	cat93 := &models.WeightCategory{ID: "c93", TournamentID: "t1", Name: "-93", Gender: models.GenderMale}
	catSuper := &models.WeightCategory{ID: "c93p", TournamentID: "t1", Name: "93+", Gender: models.GenderMale}

	a := addAthlete(meet, "A", 92, models.GenderMale, good(models.LiftDeadlift, 1, 280))
	a.CategoryID, a.Category = &cat93.ID, cat93
	b := addAthlete(meet, "B", 120, models.GenderMale, good(models.LiftDeadlift, 1, 320))
	b.CategoryID, b.Category = &catSuper.ID, catSuper
	c := addAthlete(meet, "C", 90, models.GenderMale, good(models.LiftDeadlift, 1, 290))
	c.CategoryID, c.Category = &cat93.ID, cat93

	rankings := services.RankByCategory(meet)
	require.Len(t, rankings, 2)

	assert.Equal(t, "-93", rankings[0].Category.Name, "bounded class sorts before the open-ended one")
	require.Len(t, rankings[0].Results, 2)
	assert.Equal(t, "C", rankings[0].Results[0].Participant.FullName)
	assert.Equal(t, 1, rankings[0].Results[0].Place)
	assert.Equal(t, "A", rankings[0].Results[1].Participant.FullName)
	assert.Equal(t, 2, rankings[0].Results[1].Place)

	assert.Equal(t, "93+", rankings[1].Category.Name)
	require.Len(t, rankings[1].Results, 1)
	assert.Equal(t, 1, rankings[1].Results[0].Place, "places restart inside each category")
}

func TestRankByDivision_OrdersDivisionsYoungestFirst(t *testing.T) {
	meet := newTournament(models.TypeDL, models.FormulaTotal)
	addAthlete(meet, "Open", 80, models.GenderMale, good(models.LiftDeadlift, 1, 250))
	j := addAthlete(meet, "Junior", 75, models.GenderMale, good(models.LiftDeadlift, 1, 200))
	j.AgeCategory = models.AgeJunior
	m := addAthlete(meet, "Master", 85, models.GenderMale, good(models.LiftDeadlift, 1, 230))
	m.AgeCategory = models.AgeMasters1

	divisions := services.RankByDivision(meet)
	require.Len(t, divisions, 3)
	assert.Equal(t, models.AgeJunior, divisions[0].AgeCategory)
	assert.Equal(t, models.AgeOpen, divisions[1].AgeCategory)
	assert.Equal(t, models.AgeMasters1, divisions[2].AgeCategory)
	assert.NotEmpty(t, divisions[0].Label)
}
