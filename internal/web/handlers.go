package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"gtd-review/internal/model"
	"gtd-review/internal/repository"
	"gtd-review/internal/review"
)

const defaultHistoryLimit = 30

func fail(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{
		"success": false,
		"error":   err.Error(),
	})
}

// failFor maps the core's sentinel errors onto HTTP statuses.
func failFor(c *gin.Context, err error) {
	switch {
	case errors.Is(err, review.ErrNoSuchSession):
		fail(c, http.StatusNotFound, err)
	case errors.Is(err, review.ErrSessionClosed),
		errors.Is(err, review.ErrStepMismatch),
		errors.Is(err, repository.ErrSessionAlreadyOpen),
		errors.Is(err, repository.ErrVersionConflict):
		fail(c, http.StatusConflict, err)
	default:
		fail(c, http.StatusInternalServerError, err)
	}
}

func (s *Server) handleStart(c *gin.Context) {
	var body struct {
		Type model.ReviewType `json:"type" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	if body.Type != model.ReviewTypeDaily && body.Type != model.ReviewTypeWeekly {
		fail(c, http.StatusBadRequest, errors.New("type must be daily or weekly"))
		return
	}

	session, created, err := s.manager.Start(c.Request.Context(), body.Type)
	if err != nil {
		failFor(c, err)
		return
	}

	// Dismissals are scoped to the session: forget them only when a fresh
	// session starts, never when joining the already-open one.
	if created {
		s.selector.Reset()
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"session": session,
	})
}

func (s *Server) handleOpen(c *gin.Context) {
	session, err := s.manager.Open(c.Request.Context())
	if err != nil {
		failFor(c, err)
		return
	}
	if session == nil {
		fail(c, http.StatusNotFound, review.ErrNoSuchSession)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "session": session})
}

func (s *Server) handleGetSession(c *gin.Context) {
	session, err := s.manager.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		failFor(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "session": session})
}

func (s *Server) handlePause(c *gin.Context) {
	session, err := s.manager.Pause(c.Request.Context(), c.Param("id"))
	if err != nil {
		failFor(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "session": session})
}

func (s *Server) handleResume(c *gin.Context) {
	session, err := s.manager.Resume(c.Request.Context(), c.Param("id"))
	if err != nil {
		failFor(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "session": session})
}

func (s *Server) handleCompleteStep(c *gin.Context) {
	var payload model.StepPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}

	session, err := s.manager.CompleteStep(c.Request.Context(), c.Param("id"), payload)
	if err != nil {
		failFor(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "session": session})
}

func (s *Server) handleComplete(c *gin.Context) {
	var body struct {
		Notes string `json:"notes"`
	}
	// Notes are optional; an absent or empty body is fine.
	_ = c.ShouldBindJSON(&body)

	record, err := s.manager.Complete(c.Request.Context(), c.Param("id"), body.Notes)
	if err != nil {
		failFor(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "review": record})
}

func (s *Server) handleAbandon(c *gin.Context) {
	if err := s.manager.Abandon(c.Request.Context(), c.Param("id")); err != nil {
		failFor(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) handleDailyData(c *gin.Context) {
	data, err := s.loader.LoadDaily(c.Request.Context(), s.now())
	if err != nil {
		if cached := s.loader.Daily(); cached != nil {
			c.JSON(http.StatusOK, gin.H{"success": true, "data": cached, "stale": true})
			return
		}
		failFor(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func (s *Server) handleWeeklyData(c *gin.Context) {
	data, err := s.loader.LoadWeekly(c.Request.Context(), s.now())
	if err != nil {
		if cached := s.loader.Weekly(); cached != nil {
			c.JSON(http.StatusOK, gin.H{"success": true, "data": cached, "stale": true})
			return
		}
		failFor(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func (s *Server) handleHistory(c *gin.Context) {
	limit := intQuery(c, "limit", defaultHistoryLimit)
	reviews, err := s.reviews.ListRecent(c.Request.Context(), limit)
	if err != nil {
		failFor(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "reviews": reviews, "count": len(reviews)})
}

func (s *Server) handleMetrics(c *gin.Context) {
	days := intQuery(c, "days", 30)
	rows, err := s.metrics.ListRecent(c.Request.Context(), days)
	if err != nil {
		failFor(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "metrics": rows, "count": len(rows)})
}

func (s *Server) handleStreak(c *gin.Context) {
	reviews, err := s.reviews.ListRecentByType(c.Request.Context(), model.ReviewTypeDaily, 365)
	if err != nil {
		failFor(c, err)
		return
	}
	streak := review.Streak(reviews, s.now())
	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"streak":         streak,
		"next_milestone": review.NextMilestone(streak),
	})
}

func (s *Server) handleCompletionRate(c *gin.Context) {
	days := intQuery(c, "days", 7)
	rows, err := s.metrics.ListRecent(c.Request.Context(), days)
	if err != nil {
		failFor(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"days":    days,
		"rate":    review.CompletionRate(rows, days),
	})
}

func (s *Server) handleInsights(c *gin.Context) {
	data, err := s.loader.LoadWeekly(c.Request.Context(), s.now())
	if err != nil {
		failFor(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"insights": data.Insights,
		"health":   review.SystemHealth(&data.Insights),
	})
}

func (s *Server) handlePatterns(c *gin.Context) {
	reviews, err := s.reviews.ListRecent(c.Request.Context(), 365)
	if err != nil {
		failFor(c, err)
		return
	}
	patterns := review.AnalyzePatterns(reviews)
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"patterns": patterns,
		"best_day": patterns.BestDay.String(),
	})
}

func (s *Server) handleCoaching(c *gin.Context) {
	reviewType := model.ReviewType(c.DefaultQuery("type", string(model.ReviewTypeDaily)))
	step := model.StepKind(c.Query("step"))
	compact := c.Query("mode") == "compact"

	var data review.PromptData
	if reviewType == model.ReviewTypeWeekly {
		data = review.PromptDataFromWeekly(s.loader.Weekly())
	} else {
		data = review.PromptDataFromDaily(s.loader.Daily())
	}

	prompts := s.selector.Select(reviewType, step, data, compact)
	c.JSON(http.StatusOK, gin.H{"success": true, "prompts": prompts, "count": len(prompts)})
}

func (s *Server) handleDismiss(c *gin.Context) {
	var body struct {
		ID string `json:"id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	s.selector.Dismiss(body.ID)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.DefaultQuery(name, "")
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
