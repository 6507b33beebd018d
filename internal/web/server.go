// Package web exposes the review core over an HTTP API.
package web

import (
	"time"

	"github.com/gin-gonic/gin"

	"gtd-review/internal/repository"
	"gtd-review/internal/review"
)

// Server is the GTD review web server
type Server struct {
	manager  *review.Manager
	loader   *review.Loader
	selector *review.Selector
	reviews  *repository.ReviewRepository
	metrics  *repository.MetricsRepository
	router   *gin.Engine
	now      func() time.Time
}

// NewServer creates a new web server
func NewServer(manager *review.Manager, loader *review.Loader, selector *review.Selector, reviews *repository.ReviewRepository, metrics *repository.MetricsRepository) *Server {
	router := gin.Default()

	s := &Server{
		manager:  manager,
		loader:   loader,
		selector: selector,
		reviews:  reviews,
		metrics:  metrics,
		router:   router,
		now:      time.Now,
	}

	api := router.Group("/api/reviews")
	{
		api.POST("/sessions", s.handleStart)
		api.GET("/sessions/open", s.handleOpen)
		api.GET("/sessions/:id", s.handleGetSession)
		api.POST("/sessions/:id/pause", s.handlePause)
		api.POST("/sessions/:id/resume", s.handleResume)
		api.POST("/sessions/:id/steps", s.handleCompleteStep)
		api.POST("/sessions/:id/complete", s.handleComplete)
		api.POST("/sessions/:id/abandon", s.handleAbandon)

		api.GET("/daily-data", s.handleDailyData)
		api.GET("/weekly-data", s.handleWeeklyData)
		api.GET("/history", s.handleHistory)
		api.GET("/metrics", s.handleMetrics)
		api.GET("/streak", s.handleStreak)
		api.GET("/completion-rate", s.handleCompletionRate)
		api.GET("/insights", s.handleInsights)
		api.GET("/patterns", s.handlePatterns)

		api.GET("/coaching", s.handleCoaching)
		api.POST("/coaching/dismiss", s.handleDismiss)
	}

	return s
}

// Run starts the web server
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}
