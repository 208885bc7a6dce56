// Package services: services/analytics_service.go
//
// Competition analytics: aggregate, anonymised numbers computed over a
// tournament's ledger. Pure over the loaded aggregate.
package services

import (
	"sort"

	"go-iron-flow/models"
)

// LiftAccuracy is the pass rate of one discipline.
type LiftAccuracy struct {
	Lift        models.LiftType `json:"lift"`
	TotalJudged int             `json:"total_judged"`
	Successful  int             `json:"successful"`
}

// AccuracyPct returns the pass percentage, one decimal place.
func (a LiftAccuracy) AccuracyPct() float64 {
	if a.TotalJudged == 0 {
		return 0
	}
	pct := float64(a.Successful) / float64(a.TotalJudged) * 100
	return float64(int(pct*10+0.5)) / 10
}

// TotalSpread summarises the distribution of defined totals.
type TotalSpread struct {
	Min    float64 `json:"min"`
	Median float64 `json:"median"`
	Max    float64 `json:"max"`
}

// MeetReport is the aggregate analytics snapshot of one tournament.
type MeetReport struct {
	TournamentID   string                `json:"tournament_id"`
	TournamentName string                `json:"tournament_name"`
	Participants   int                   `json:"participants"`
	GenderSplit    map[models.Gender]int `json:"gender_split"`
	Accuracy       []LiftAccuracy        `json:"accuracy"`
	TonnageKg      float64               `json:"tonnage_kg"`
	BombOuts       int                   `json:"bomb_outs"`
	Spread         *TotalSpread          `json:"spread,omitempty"`

	// AvgTotalByCategory maps each weight category's display name
	// ("uncategorised" when none is assigned) to the mean defined total.
	AvgTotalByCategory map[string]float64 `json:"avg_total_by_category,omitempty"`

	// WorldPercentiles benchmarks each athlete with a defined total
	// against competitive lifters in their weight class; athletes whose
	// class has no reference data are absent.
	WorldPercentiles map[string]int `json:"world_percentiles,omitempty"`
}

// BuildMeetReport computes the report over the loaded tournament.
// Withdrawn athletes are excluded everywhere except the tonnage, which
// counts every good lift actually performed on the platform.
func BuildMeetReport(t *models.Tournament) MeetReport {
	lifts := t.Lifts()
	report := MeetReport{
		TournamentID:   t.ID,
		TournamentName: t.Name,
		GenderSplit:    make(map[models.Gender]int),
	}

	accuracy := make(map[models.LiftType]*LiftAccuracy, len(lifts))
	for _, lift := range lifts {
		accuracy[lift] = &LiftAccuracy{Lift: lift}
	}

	var totals []float64
	catSums := make(map[string]float64)
	catCounts := make(map[string]int)
	for i := range t.Participants {
		p := &t.Participants[i]

		for _, a := range p.Attempts {
			if a.Superseded || a.Result == models.ResultPending {
				continue
			}
			if acc, tracked := accuracy[a.Lift]; tracked {
				acc.TotalJudged++
				if a.Result == models.ResultGood {
					acc.Successful++
					report.TonnageKg += a.WeightKg
				}
			}
		}

		if p.Withdrawn {
			continue
		}
		report.Participants++
		report.GenderSplit[p.Gender]++
		if total, ok := p.Total(lifts); ok {
			if total > 0 {
				totals = append(totals, total)

				catName := "uncategorised"
				if p.Category != nil {
					catName = p.Category.DisplayName()
					if pct, known := WorldPercentile(p.Gender, p.Category.Name, total); known {
						if report.WorldPercentiles == nil {
							report.WorldPercentiles = make(map[string]int)
						}
						report.WorldPercentiles[p.FullName] = pct
					}
				}
				catSums[catName] += total
				catCounts[catName]++
			}
		} else {
			report.BombOuts++
		}
	}

	if len(catCounts) > 0 {
		report.AvgTotalByCategory = make(map[string]float64, len(catCounts))
		for name, count := range catCounts {
			report.AvgTotalByCategory[name] = round2(catSums[name] / float64(count))
		}
	}

	for _, lift := range lifts {
		report.Accuracy = append(report.Accuracy, *accuracy[lift])
	}

	if len(totals) > 0 {
		sort.Float64s(totals)
		report.Spread = &TotalSpread{
			Min:    totals[0],
			Median: median(totals),
			Max:    totals[len(totals)-1],
		}
	}
	return report
}

// median expects a sorted slice.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
