// Package controllers - controllers/scoring_controller.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-iron-flow/models"
)

// ------------------ attempt declaration & judging ------------------

type declareWeightRequest struct {
	Lift     models.LiftType `json:"lift" binding:"required"`
	Number   int             `json:"number" binding:"required,min=1,max=3"`
	WeightKg float64         `json:"weight_kg" binding:"required,gt=0"`
}

// DeclareWeight sets the declared weight of a pending attempt.
func DeclareWeight(c *gin.Context) {
	var req declareWeightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	attempt, err := scoringService.DeclareWeight(c.Param("id"), c.Param("participantId"), req.Lift, req.Number, req.WeightKg)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, attempt)
}

type judgeAttemptRequest struct {
	Lift   models.LiftType      `json:"lift" binding:"required"`
	Number int                  `json:"number" binding:"required,min=1,max=3"`
	Result models.AttemptResult `json:"result" binding:"required,oneof=good bad"`
}

// JudgeAttempt records the judged outcome of one attempt. A judged
// outcome is final: trying again answers 409.
func JudgeAttempt(c *gin.Context) {
	var req judgeAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	attempt, err := scoringService.RecordOutcome(c.Param("id"), c.Param("participantId"), req.Lift, req.Number, req.Result)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, attempt)
}

type supersedeAttemptRequest struct {
	Lift     models.LiftType      `json:"lift" binding:"required"`
	Number   int                  `json:"number" binding:"required,min=1,max=3"`
	WeightKg float64              `json:"weight_kg" binding:"required,gt=0"`
	Result   models.AttemptResult `json:"result" binding:"required,oneof=good bad"`
}

// SupersedeAttempt corrects a judged attempt by appending a new
// revision; the original row survives for audit.
func SupersedeAttempt(c *gin.Context) {
	var req supersedeAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	attempt, err := scoringService.SupersedeOutcome(c.Param("id"), c.Param("participantId"), req.Lift, req.Number, req.WeightKg, req.Result)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, attempt)
}
