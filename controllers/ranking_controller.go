// Package controllers - controllers/ranking_controller.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-iron-flow/models"
	"go-iron-flow/services"
)

// scopeFromQuery builds a ranking scope from query parameters:
//
//	?scope=overall
//	?scope=division&age=open
//	?scope=weight_class&age=open&category=-93&gender=M
func scopeFromQuery(c *gin.Context) (services.Scope, bool) {
	switch services.ScopeKind(c.DefaultQuery("scope", string(services.ScopeOverall))) {
	case services.ScopeOverall:
		return services.OverallScope(), true
	case services.ScopeDivision:
		age := c.Query("age")
		if age == "" {
			return services.Scope{}, false
		}
		return services.DivisionScope(models.AgeCategory(age)), true
	case services.ScopeWeightClass:
		age, category, gender := c.Query("age"), c.Query("category"), c.Query("gender")
		if age == "" || category == "" || gender == "" {
			return services.Scope{}, false
		}
		return services.WeightClassScope(models.AgeCategory(age), category, models.Gender(gender)), true
	}
	return services.Scope{}, false
}

// GetRankings computes a fresh ranking snapshot for the requested
// scope. Never cached: call again after any ledger or formula change.
func GetRankings(c *gin.Context) {
	scope, ok := scopeFromQuery(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or incomplete scope parameters"})
		return
	}

	t, err := tournamentService.GetTournament(c.Param("id"))
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"scope":   scope,
		"formula": t.ScoringFormula,
		"results": services.Rank(t, scope),
	})
}

// GetCategoryRankings returns the protocol grouped by weight/gender
// category.
func GetCategoryRankings(c *gin.Context) {
	t, err := tournamentService.GetTournament(c.Param("id"))
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"formula":  t.ScoringFormula,
		"rankings": services.RankByCategory(t),
	})
}

// GetDivisionRankings returns the full protocol: age divisions split
// into weight sub-divisions.
func GetDivisionRankings(c *gin.Context) {
	t, err := tournamentService.GetTournament(c.Param("id"))
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"formula":   t.ScoringFormula,
		"divisions": services.RankByDivision(t),
	})
}

// GetAnalytics returns the aggregate meet report.
func GetAnalytics(c *gin.Context) {
	t, err := tournamentService.GetTournament(c.Param("id"))
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, services.BuildMeetReport(t))
}
