// file: services/analytics_service_test.go
package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-iron-flow/models"
	"go-iron-flow/services"
)

func TestBuildMeetReport(t *testing.T) {
	meet := newTournament(models.TypeDL, models.FormulaTotal)
	addAthlete(meet, "A", 80, models.GenderMale,
		good(models.LiftDeadlift, 1, 200), good(models.LiftDeadlift, 2, 210), bad(models.LiftDeadlift, 3, 220))
	addAthlete(meet, "B", 63, models.GenderFemale,
		good(models.LiftDeadlift, 1, 150))
	addAthlete(meet, "C", 90, models.GenderMale,
		bad(models.LiftDeadlift, 1, 250), bad(models.LiftDeadlift, 2, 250), bad(models.LiftDeadlift, 3, 250))

	report := services.BuildMeetReport(meet)

	assert.Equal(t, 3, report.Participants)
	assert.Equal(t, 2, report.GenderSplit[models.GenderMale])
	assert.Equal(t, 1, report.GenderSplit[models.GenderFemale])
	assert.Equal(t, 1, report.BombOuts)
	assert.Equal(t, 560.0, report.TonnageKg, "tonnage counts every good lift: 200+210+150")

	require.Len(t, report.Accuracy, 1)
	acc := report.Accuracy[0]
	assert.Equal(t, models.LiftDeadlift, acc.Lift)
	assert.Equal(t, 7, acc.TotalJudged)
	assert.Equal(t, 3, acc.Successful)
	assert.Equal(t, 42.9, acc.AccuracyPct())

	require.NotNil(t, report.Spread)
	assert.Equal(t, 150.0, report.Spread.Min)
	assert.Equal(t, 180.0, report.Spread.Median, "even count takes the midpoint of 150 and 210")
	assert.Equal(t, 210.0, report.Spread.Max)
}

func TestBuildMeetReport_CategoryAveragesAndWorldPercentiles(t *testing.T) {
	meet := newTournament(models.TypeDL, models.FormulaTotal)
	cat93 := models.WeightCategory{ID: "c93", TournamentID: meet.ID, Name: "-93", Gender: models.GenderMale}

	a := addAthlete(meet, "A", 92, models.GenderMale, good(models.LiftDeadlift, 1, 575))
	a.Category = &cat93
	b := addAthlete(meet, "B", 91, models.GenderMale, good(models.LiftDeadlift, 1, 705))
	b.Category = &cat93
	addAthlete(meet, "C", 63, models.GenderFemale, good(models.LiftDeadlift, 1, 150))

	report := services.BuildMeetReport(meet)

	require.NotNil(t, report.AvgTotalByCategory)
	assert.Equal(t, 640.0, report.AvgTotalByCategory["-93 kg M"])
	assert.Equal(t, 150.0, report.AvgTotalByCategory["uncategorised"])

	require.NotNil(t, report.WorldPercentiles)
	assert.Equal(t, 50, report.WorldPercentiles["A"])
	assert.Equal(t, 84, report.WorldPercentiles["B"], "one standard deviation above the class median")
	_, listed := report.WorldPercentiles["C"]
	assert.False(t, listed, "no category means no benchmark")
}

func TestBuildMeetReport_BombOutLeavesCategoryAverageUntouched(t *testing.T) {
	meet := newTournament(models.TypeDL, models.FormulaTotal)
	cat93 := models.WeightCategory{ID: "c93", TournamentID: meet.ID, Name: "-93", Gender: models.GenderMale}

	a := addAthlete(meet, "A", 92, models.GenderMale, good(models.LiftDeadlift, 1, 500))
	a.Category = &cat93
	out := addAthlete(meet, "B", 91, models.GenderMale, bad(models.LiftDeadlift, 1, 500))
	out.Category = &cat93

	report := services.BuildMeetReport(meet)
	assert.Equal(t, 500.0, report.AvgTotalByCategory["-93 kg M"], "undefined totals carry no weight in the mean")
	_, listed := report.WorldPercentiles["B"]
	assert.False(t, listed)
}

func TestBuildMeetReport_WithdrawnTonnageStillCounts(t *testing.T) {
	meet := newTournament(models.TypeDL, models.FormulaTotal)
	quit := addAthlete(meet, "Quit", 80, models.GenderMale, good(models.LiftDeadlift, 1, 200))
	quit.Withdrawn = true

	report := services.BuildMeetReport(meet)
	assert.Equal(t, 0, report.Participants, "withdrawn athletes leave the headcount")
	assert.Equal(t, 200.0, report.TonnageKg, "iron moved on the platform stays counted")
	assert.Nil(t, report.Spread)
}

func TestBuildMeetReport_IgnoresPendingAndSuperseded(t *testing.T) {
	meet := newTournament(models.TypeDL, models.FormulaTotal)
	overturned := good(models.LiftDeadlift, 1, 500)
	overturned.Superseded = true
	pending := models.Attempt{Lift: models.LiftDeadlift, Number: 2, WeightKg: 210, Result: models.ResultPending}
	addAthlete(meet, "A", 80, models.GenderMale,
		overturned, bad(models.LiftDeadlift, 1, 500), pending)

	report := services.BuildMeetReport(meet)
	require.Len(t, report.Accuracy, 1)
	assert.Equal(t, 1, report.Accuracy[0].TotalJudged)
	assert.Equal(t, 0, report.Accuracy[0].Successful)
	assert.Equal(t, 0.0, report.TonnageKg)
	assert.Equal(t, 0.0, report.Accuracy[0].AccuracyPct())
}

func TestLiftAccuracyPct_ZeroJudged(t *testing.T) {
	assert.Equal(t, 0.0, services.LiftAccuracy{Lift: models.LiftSquat}.AccuracyPct())
}
