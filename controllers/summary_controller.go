package controllers

import (
	"errors"
	"log"
	"net/http"

	"fitroom/middlewares"
	"fitroom/services"

	"github.com/gin-gonic/gin"
)

type SummaryController struct {
	trials    services.TrialStore
	summaries services.SummaryStore
}

func NewSummaryController(trials services.TrialStore, summaries services.SummaryStore) *SummaryController {
	return &SummaryController{trials: trials, summaries: summaries}
}

// Create summarizes the trial's conversation and stores the result.
func (sc *SummaryController) Create(c *gin.Context) {
	trial, err := sc.trials.GetTrial(c.Request.Context(), c.Param("id"), middlewares.UserID(c))
	if errors.Is(err, services.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Trial not found"})
		return
	}
	if err != nil {
		log.Printf("Error fetching trial for summary: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	if len(trial.Messages) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Trial has no messages to summarize"})
		return
	}

	summary, err := sc.summaries.SummarizeTrial(c.Request.Context(), trial)
	if err != nil {
		log.Printf("Error summarizing trial: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusCreated, summary)
}

// Latest returns the most recent stored summary for the trial.
func (sc *SummaryController) Latest(c *gin.Context) {
	summary, err := sc.summaries.LatestSummary(c.Request.Context(), c.Param("id"), middlewares.UserID(c))
	if errors.Is(err, services.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "No summary for this trial"})
		return
	}
	if err != nil {
		log.Printf("Error fetching summary: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusOK, summary)
}
