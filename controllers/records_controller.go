// Package controllers - controllers/records_controller.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-iron-flow/models"
	"go-iron-flow/services"
)

// ListRecords returns the all-time records vault, optionally narrowed
// by gender, age category, weight category or lift.
func ListRecords(c *gin.Context) {
	filter := services.RecordFilter{
		Gender:             models.Gender(c.Query("gender")),
		AgeCategory:        models.AgeCategory(c.Query("age")),
		WeightCategoryName: c.Query("category"),
		Lift:               models.LiftType(c.Query("lift")),
	}
	records, err := recordsService.GetRecords(filter)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": records})
}
