// Package controllers - controllers/tournament_controller.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-iron-flow/models"
	"go-iron-flow/services"
	"go-iron-flow/websocket"
)

// ------------------ tournament CRUD ------------------

type createTournamentRequest struct {
	Name        string                `json:"name" binding:"required"`
	Type        models.TournamentType `json:"type" binding:"required"`
	Description string                `json:"description"`
}

// CreateTournament creates a draft tournament.
func CreateTournament(c *gin.Context) {
	var req createTournamentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	createdBy, _ := c.Get("user")
	creator, _ := createdBy.(string)

	t, err := tournamentService.CreateTournament(req.Name, req.Type, creator, req.Description)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, t)
}

// ListTournaments returns tournaments, optionally filtered by phase.
func ListTournaments(c *gin.Context) {
	tournaments, err := tournamentService.ListTournaments(models.Phase(c.Query("phase")))
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tournaments": tournaments})
}

// GetTournament returns one tournament with its full aggregate.
func GetTournament(c *gin.Context) {
	t, err := tournamentService.GetTournament(c.Param("id"))
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, t)
}

// ------------------ configuration ------------------

type setCategoriesRequest struct {
	Categories []services.CategorySelection `json:"categories" binding:"required"`
}

// SetCategories replaces the weight sub-divisions of a draft tournament.
func SetCategories(c *gin.Context) {
	var req setCategoriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cats, err := tournamentService.SetCategories(c.Param("id"), req.Categories)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": cats})
}

type setFormulaRequest struct {
	Formula models.FormulaType `json:"formula" binding:"required"`
}

// SetFormula switches the tournament's active scoring formula.
func SetFormula(c *gin.Context) {
	var req setFormulaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := tournamentService.SetFormula(c.Param("id"), req.Formula); err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"formula": req.Formula})
}

type transitionRequest struct {
	Target models.Phase `json:"target" binding:"required"`
}

// TransitionPhase advances the tournament lifecycle. Finishing a
// tournament reconciles the records vault and reports the promoted
// slots.
func TransitionPhase(c *gin.Context) {
	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	promoted, err := tournamentService.Transition(c.Param("id"), req.Target)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	if req.Target == models.PhaseFinished {
		websocket.PublishRecordsPromoted(len(promoted), c.Param("id"))
	}
	c.JSON(http.StatusOK, gin.H{"phase": req.Target, "promoted_records": promoted})
}

// ------------------ roster ------------------

type registerParticipantRequest struct {
	FullName    string             `json:"full_name" binding:"required"`
	Bodyweight  float64            `json:"bodyweight" binding:"required,gt=0"`
	Gender      models.Gender      `json:"gender" binding:"required,oneof=M F"`
	AgeCategory models.AgeCategory `json:"age_category"`
}

// RegisterParticipant adds an athlete to an open roster.
func RegisterParticipant(c *gin.Context) {
	var req registerParticipantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	age := req.AgeCategory
	if age == "" {
		age = models.AgeOpen
	}
	p, err := tournamentService.RegisterParticipant(c.Param("id"), req.FullName, req.Bodyweight, req.Gender, age)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, p)
}

type updateBodyweightRequest struct {
	Bodyweight float64 `json:"bodyweight" binding:"required,gt=0"`
}

// UpdateBodyweight re-declares an athlete's bodyweight while
// registration is still open.
func UpdateBodyweight(c *gin.Context) {
	var req updateBodyweightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := tournamentService.UpdateBodyweight(c.Param("id"), c.Param("participantId"), req.Bodyweight)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, p)
}

// WithdrawParticipant flags an athlete out of the competition.
func WithdrawParticipant(c *gin.Context) {
	if err := tournamentService.Withdraw(c.Param("id"), c.Param("participantId")); err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "withdrawn"})
}
