// Package services: services/formula_service.go
//
// Body-weight coefficient formulas. Every function here is pure and
// deterministic: the same (total, bodyweight, gender) always yields the
// same score. Constant tables are static configuration, taken from the
// published federation coefficients.
package services

import (
	"math"

	"go-iron-flow/models"
)

// scores are reported to two decimal places across all formulas
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

// ------------------- Wilks 2020 -------------------

// wilks2020 coefficients, revised polynomial (IPF Technical Rules 2020).
var wilksCoeffs = map[models.Gender][6]float64{
	models.GenderMale:   {-216.0475144, 16.2606339, -0.002388645, -0.00113732, 7.01863e-6, -1.291e-8},
	models.GenderFemale: {594.31747775582, -27.23842536447, 0.82112226871, -0.00930733913, 4.731582e-5, -9.054e-8},
}

// Wilks returns the Wilks 2020 score: total * 500 / P(bw), where P is a
// fifth-degree polynomial. Bodyweight is clamped to the defined range
// [40, 200.9]; a non-positive denominator yields 0.
func Wilks(bodyweight float64, gender models.Gender, total float64) float64 {
	c := wilksCoeffs[gender]
	bw := clamp(bodyweight, 40.0, 200.9)
	denom := c[0] + c[1]*bw + c[2]*bw*bw + c[3]*math.Pow(bw, 3) + c[4]*math.Pow(bw, 4) + c[5]*math.Pow(bw, 5)
	if denom <= 0 {
		return 0
	}
	return round2(total * 500.0 / denom)
}

// ------------------- DOTS -------------------

var dotsCoeffs = map[models.Gender][5]float64{
	models.GenderMale:   {-307.75076, 24.0900756, -0.1918759221, 7.391293e-4, -1.093e-6},
	models.GenderFemale: {-57.96288, 13.6175032, -0.1126655495, 5.158568e-4, -1.0e-6},
}

// Dots returns the DOTS score, a quartic regression fit against
// world-class performances. Bodyweight is clamped to [40, 210].
func Dots(bodyweight float64, gender models.Gender, total float64) float64 {
	c := dotsCoeffs[gender]
	bw := clamp(bodyweight, 40.0, 210.0)
	denom := c[0] + c[1]*bw + c[2]*bw*bw + c[3]*math.Pow(bw, 3) + c[4]*math.Pow(bw, 4)
	if denom <= 0 {
		return 0
	}
	return round2(total * 500.0 / denom)
}

// ------------------- Glossbrenner -------------------

// Glossbrenner returns the traditional raw-powerlifting coefficient: a
// piecewise power law with a breakpoint at 153.05 kg (men) / 106.5 kg
// (women).
func Glossbrenner(bodyweight float64, gender models.Gender, total float64) float64 {
	var coef float64
	if gender == models.GenderMale {
		if bodyweight <= 153.05 {
			coef = 1.10600 / math.Pow(bodyweight, 0.28200)
		} else {
			coef = 0.77800 / math.Pow(bodyweight, 0.22200)
		}
	} else {
		if bodyweight <= 106.50 {
			coef = 0.92590 / math.Pow(bodyweight, 0.22500)
		} else {
			coef = 0.81610 / math.Pow(bodyweight, 0.17500)
		}
	}
	return round2(total * coef)
}

// ------------------- IPF GL (Goodlift) -------------------

// ipfGLCoeffs holds {A, B, C} per gender; score = total*100/(A - B*e^(-C*bw)).
// Bench-only events use their own table.
var (
	ipfGLFull = map[models.Gender][3]float64{
		models.GenderMale:   {1199.72839, 1025.18162, 0.00921},
		models.GenderFemale: {610.32796, 1045.59282, 0.03048},
	}
	ipfGLBench = map[models.Gender][3]float64{
		models.GenderMale:   {320.98041, 281.40258, 0.01008},
		models.GenderFemale: {142.40398, 442.52671, 0.04724},
	}
)

// IPFGL returns the IPF Goodlift score for the given event type.
// Bodyweight is clamped to [40, 220]; a non-positive coefficient
// denominator yields 0.
func IPFGL(bodyweight float64, gender models.Gender, total float64, event models.TournamentType) float64 {
	table := ipfGLFull
	if event == models.TypeBP {
		table = ipfGLBench
	}
	c := table[gender]
	bw := clamp(bodyweight, 40.0, 220.0)
	denom := c[0] - c[1]*math.Exp(-c[2]*bw)
	if denom <= 0 {
		return 0
	}
	return round2(math.Max(total*100.0/denom, 0))
}

// ------------------- world benchmark -------------------

// Reference medians and standard deviations (kg) for competitive raw
// totals, open category, derived from the OpenPowerlifting public
// dataset.
var (
	worldMedians = map[models.Gender]map[string]float64{
		models.GenderMale: {
			"-59": 390, "-66": 440, "-74": 490, "-83": 535,
			"-93": 575, "-105": 615, "-120": 660, "120+": 710,
		},
		models.GenderFemale: {
			"-47": 225, "-52": 252, "-57": 277, "-63": 302,
			"-69": 327, "-76": 352, "-84": 375, "84+": 405,
		},
	}
	worldStdevs = map[models.Gender]map[string]float64{
		models.GenderMale: {
			"-59": 90, "-66": 100, "-74": 110, "-83": 120,
			"-93": 130, "-105": 140, "-120": 155, "120+": 170,
		},
		models.GenderFemale: {
			"-47": 55, "-52": 62, "-57": 68, "-63": 75,
			"-69": 82, "-76": 88, "-84": 95, "84+": 105,
		},
	}
)

// WorldPercentile estimates where a total sits among competitive raw
// lifters of the same gender and weight class, as an integer percentile
// clamped to [1, 99] under a normal approximation. ok is false when the
// class has no reference data.
func WorldPercentile(gender models.Gender, weightCategoryName string, totalKg float64) (int, bool) {
	median, ok := worldMedians[gender][weightCategoryName]
	if !ok {
		return 0, false
	}
	stdev, ok := worldStdevs[gender][weightCategoryName]
	if !ok || stdev <= 0 {
		return 0, false
	}
	z := (totalKg - median) / stdev
	pct := int(math.Round((1 + math.Erf(z/math.Sqrt2)) / 2 * 100))
	if pct < 1 {
		pct = 1
	}
	if pct > 99 {
		pct = 99
	}
	return pct, true
}

// ------------------- dispatcher -------------------

// Score routes to the selected formula. ok is false when the inputs are
// not scoreable (non-positive total or bodyweight) or the formula is
// outside the enumerated set. Bomb-outs never reach this function: an
// undefined total has no score at all.
func Score(formula models.FormulaType, bodyweight float64, gender models.Gender, total float64, event models.TournamentType) (float64, bool) {
	if total <= 0 || bodyweight <= 0 {
		return 0, false
	}
	switch formula {
	case models.FormulaTotal:
		// raw sum, coefficient 1
		return round2(total), true
	case models.FormulaWilks:
		return Wilks(bodyweight, gender, total), true
	case models.FormulaDots:
		return Dots(bodyweight, gender, total), true
	case models.FormulaGlossbrenner:
		return Glossbrenner(bodyweight, gender, total), true
	case models.FormulaIPFGL:
		return IPFGL(bodyweight, gender, total, event), true
	}
	return 0, false
}
