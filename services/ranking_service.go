// Package services: services/ranking_service.go
//
// Ranking engine. Rank and the grouped views are pure snapshots over a
// loaded tournament: nothing is cached, and the tournament's current
// formula is applied on every call, so a formula switch re-ranks
// retroactively.
package services

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"go-iron-flow/models"
)

// ------------------- scopes -------------------

// ScopeKind selects the aggregation level of a ranking snapshot.
type ScopeKind string

const (
	ScopeOverall     ScopeKind = "overall"
	ScopeDivision    ScopeKind = "division"
	ScopeWeightClass ScopeKind = "weight_class"
)

// Scope narrows the participant set a snapshot ranks over.
type Scope struct {
	Kind               ScopeKind          `json:"kind"`
	AgeCategory        models.AgeCategory `json:"age_category,omitempty"`
	WeightCategoryName string             `json:"weight_category_name,omitempty"`
	Gender             models.Gender      `json:"gender,omitempty"`
}

// OverallScope ranks every non-withdrawn athlete in the tournament.
func OverallScope() Scope {
	return Scope{Kind: ScopeOverall}
}

// DivisionScope ranks one age division.
func DivisionScope(age models.AgeCategory) Scope {
	return Scope{Kind: ScopeDivision, AgeCategory: age}
}

// WeightClassScope ranks one weight sub-division of an age division.
func WeightClassScope(age models.AgeCategory, weightCategoryName string, gender models.Gender) Scope {
	return Scope{
		Kind:               ScopeWeightClass,
		AgeCategory:        age,
		WeightCategoryName: weightCategoryName,
		Gender:             gender,
	}
}

// ------------------- result rows -------------------

// AthleteResult is one ranked row. HasTotal=false marks a bomb-out: no
// total, no score, placed after every scored athlete. Each row carries
// the formula that produced it so consumers can detect formula drift.
type AthleteResult struct {
	Place       int                         `json:"place"`
	Participant *models.Participant         `json:"participant"`
	LiftBests   map[models.LiftType]float64 `json:"lift_bests"`
	Total       float64                     `json:"total"`
	HasTotal    bool                        `json:"has_total"`
	Score       float64                     `json:"score"`
	HasScore    bool                        `json:"has_score"`
	Formula     models.FormulaType          `json:"formula"`
}

// sortKey is the primary ranking value: the formula score when the
// athlete is scoreable, otherwise the raw total.
func (r *AthleteResult) sortKey() float64 {
	if r.HasScore {
		return r.Score
	}
	return r.Total
}

// CategoryRanking holds the ranked rows of one weight/gender category.
type CategoryRanking struct {
	Category *models.WeightCategory `json:"category"`
	Gender   models.Gender          `json:"gender"`
	Results  []AthleteResult        `json:"results"`
}

// DivisionRanking holds one age division with its weight sub-divisions.
type DivisionRanking struct {
	AgeCategory models.AgeCategory `json:"age_category"`
	Label       string             `json:"label"`
	SubRankings []CategoryRanking  `json:"sub_rankings"`
}

// ------------------- main entry points -------------------

// Rank computes an ordered, placed snapshot for the scope. Pure: a
// fixed ledger state and formula always yield the identical ordering.
//
// Sort: score descending, bodyweight ascending. Athletes tied on both
// share a place, and numbering is not compressed (two athletes tied for
// 1st put the next athlete 3rd). Bomb-outs sort after every scored
// athlete and keep roster order among themselves - a stated policy, not
// an accident of the sort.
func Rank(t *models.Tournament, scope Scope) []AthleteResult {
	var selected []*models.Participant
	for i := range t.Participants {
		p := &t.Participants[i]
		if p.Withdrawn || !inScope(p, scope) {
			continue
		}
		selected = append(selected, p)
	}
	return rankGroup(t, selected)
}

// RankByCategory groups non-withdrawn athletes by weight/gender
// category and ranks each group, ordered by gender then weight limit.
func RankByCategory(t *models.Tournament) []CategoryRanking {
	return rankByCategory(t, allActive(t))
}

// RankByDivision produces the full protocol: one block per age division
// present, each split into weight sub-divisions.
func RankByDivision(t *models.Tournament) []DivisionRanking {
	byAge := make(map[models.AgeCategory][]*models.Participant)
	for _, p := range allActive(t) {
		age := p.AgeCategory
		if age == "" {
			age = models.AgeOpen
		}
		byAge[age] = append(byAge[age], p)
	}

	var divisions []DivisionRanking
	for _, age := range models.AgeCategoryOrder {
		group, present := byAge[age]
		if !present {
			continue
		}
		divisions = append(divisions, DivisionRanking{
			AgeCategory: age,
			Label:       age.Label(),
			SubRankings: rankByCategory(t, group),
		})
	}
	return divisions
}

// ------------------- internal helpers -------------------

func allActive(t *models.Tournament) []*models.Participant {
	var out []*models.Participant
	for i := range t.Participants {
		if !t.Participants[i].Withdrawn {
			out = append(out, &t.Participants[i])
		}
	}
	return out
}

func inScope(p *models.Participant, scope Scope) bool {
	switch scope.Kind {
	case ScopeOverall:
		return true
	case ScopeDivision:
		return p.AgeCategory == scope.AgeCategory
	case ScopeWeightClass:
		if p.AgeCategory != scope.AgeCategory || p.Gender != scope.Gender {
			return false
		}
		return p.Category != nil && p.Category.Name == scope.WeightCategoryName
	}
	return false
}

// rankGroup builds result rows for a participant set, sorts, and
// assigns places.
func rankGroup(t *models.Tournament, participants []*models.Participant) []AthleteResult {
	lifts := t.Lifts()
	var scored, bombs []AthleteResult

	for _, p := range participants {
		row := AthleteResult{
			Participant: p,
			LiftBests:   make(map[models.LiftType]float64),
			Formula:     t.ScoringFormula,
		}
		for _, lift := range lifts {
			if best, ok := p.BestLift(lift); ok {
				row.LiftBests[lift] = best
			}
		}
		if total, ok := p.Total(lifts); ok {
			row.Total, row.HasTotal = total, true
			row.Score, row.HasScore = Score(t.ScoringFormula, p.Bodyweight, p.Gender, total, t.Type)
			scored = append(scored, row)
		} else {
			bombs = append(bombs, row)
		}
	}

	// stable keeps roster order for exact ties, which keeps the whole
	// snapshot deterministic across repeated calls
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].sortKey() != scored[j].sortKey() {
			return scored[i].sortKey() > scored[j].sortKey()
		}
		return scored[i].Participant.Bodyweight < scored[j].Participant.Bodyweight
	})

	for i := range scored {
		if i > 0 && isTie(&scored[i], &scored[i-1]) {
			scored[i].Place = scored[i-1].Place
		} else {
			scored[i].Place = i + 1
		}
	}

	// bomb-outs continue the numbering in roster order
	for j := range bombs {
		bombs[j].Place = len(scored) + j + 1
	}

	return append(scored, bombs...)
}

// isTie: identical sort key (scores are already rounded to 2 dp) and
// identical bodyweight.
func isTie(a, b *AthleteResult) bool {
	return a.sortKey() == b.sortKey() &&
		a.Participant.Bodyweight == b.Participant.Bodyweight
}

func rankByCategory(t *models.Tournament, participants []*models.Participant) []CategoryRanking {
	type groupKey struct {
		categoryID string
		gender     models.Gender
	}
	groups := make(map[groupKey][]*models.Participant)
	categories := make(map[groupKey]*models.WeightCategory)
	var order []groupKey

	for _, p := range participants {
		key := groupKey{gender: p.Gender}
		if p.CategoryID != nil {
			key.categoryID = *p.CategoryID
		}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
			categories[key] = p.Category
		}
		groups[key] = append(groups[key], p)
	}

	var rankings []CategoryRanking
	for _, key := range order {
		rankings = append(rankings, CategoryRanking{
			Category: categories[key],
			Gender:   key.gender,
			Results:  rankGroup(t, groups[key]),
		})
	}

	sort.SliceStable(rankings, func(i, j int) bool {
		gi, gj := genderOrder(rankings[i].Gender), genderOrder(rankings[j].Gender)
		if gi != gj {
			return gi < gj
		}
		return categoryLimit(rankings[i].Category) < categoryLimit(rankings[j].Category)
	})
	return rankings
}

func genderOrder(g models.Gender) int {
	switch g {
	case models.GenderMale:
		return 0
	case models.GenderFemale:
		return 1
	}
	return 2
}

// categoryLimit orders categories by their upper bound; "93+" sorts
// just after "-93", uncategorised athletes sort last.
func categoryLimit(c *models.WeightCategory) float64 {
	if c == nil {
		return math.Inf(1)
	}
	name := c.Name
	if strings.HasSuffix(name, "+") {
		limit, err := strconv.ParseFloat(strings.TrimSuffix(name, "+"), 64)
		if err != nil {
			return math.Inf(1)
		}
		return limit + 0.1
	}
	limit, err := strconv.ParseFloat(strings.TrimPrefix(name, "-"), 64)
	if err != nil {
		return math.Inf(1)
	}
	return limit
}
