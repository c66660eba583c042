package controllers

import (
	"errors"
	"log"
	"net/http"

	"fitroom/middlewares"
	"fitroom/models"
	"fitroom/services"

	"github.com/gin-gonic/gin"
)

type TrialController struct {
	trials services.TrialStore
}

func NewTrialController(trials services.TrialStore) *TrialController {
	return &TrialController{trials: trials}
}

func (tc *TrialController) List(c *gin.Context) {
	trials, err := tc.trials.ListTrials(c.Request.Context(), middlewares.UserID(c))
	if err != nil {
		log.Printf("Error fetching trials: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusOK, trials)
}

func (tc *TrialController) Create(c *gin.Context) {
	var request struct {
		Name string `json:"name"`
	}
	// An empty body is fine, the store falls back to a timestamped name.
	_ = c.ShouldBindJSON(&request)

	trial, err := tc.trials.CreateTrial(c.Request.Context(), middlewares.UserID(c), request.Name)
	if err != nil {
		log.Printf("Error creating trial: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusCreated, trial)
}

func (tc *TrialController) Get(c *gin.Context) {
	trial, err := tc.trials.GetTrial(c.Request.Context(), c.Param("id"), middlewares.UserID(c))
	if errors.Is(err, services.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Trial not found"})
		return
	}
	if err != nil {
		log.Printf("Error fetching trial: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusOK, trial)
}

func (tc *TrialController) Update(c *gin.Context) {
	var request struct {
		Messages []models.Message `json:"messages"`
		Name     *string          `json:"name"`
	}

	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	trial, err := tc.trials.UpdateTrial(c.Request.Context(), c.Param("id"), middlewares.UserID(c), request.Messages, request.Name)
	if errors.Is(err, services.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Trial not found"})
		return
	}
	if err != nil {
		log.Printf("Error updating trial: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusOK, trial)
}

func (tc *TrialController) Delete(c *gin.Context) {
	err := tc.trials.DeleteTrial(c.Request.Context(), c.Param("id"), middlewares.UserID(c))
	if errors.Is(err, services.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Trial not found"})
		return
	}
	if err != nil {
		log.Printf("Error deleting trial: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Trial deleted"})
}
