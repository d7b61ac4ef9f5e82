// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package web serves the admissions dashboard and the two background job
// triggers (data pull, analysis refresh). A single state machine guards
// the jobs: at most one runs at a time and request threads never block
// beyond the state check.
package web

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/pdiddy/gradstats/internal/analysis"
)

// State is the dashboard job state.
type State string

const (
	StateIdle      State = "idle"
	StatePulling   State = "pulling"
	StateAnalyzing State = "analyzing"
)

// Pipeline is what the background jobs run. Split out so tests can
// substitute a fake.
type Pipeline interface {
	// Pull scrapes, cleans and loads fresh data, returning a short
	// human-readable completion message.
	Pull(ctx context.Context) (string, error)

	// Refresh recomputes the aggregate metrics.
	Refresh(ctx context.Context) (*analysis.Metrics, error)
}

// Server owns the dashboard state and HTTP surface.
type Server struct {
	pipeline Pipeline

	mu      sync.Mutex
	state   State
	message string
	metrics *analysis.Metrics
}

// NewServer builds a dashboard server around the given pipeline. Initial
// metrics may be nil; the page renders a prompt to pull data instead.
func NewServer(pipeline Pipeline, initial *analysis.Metrics) *Server {
	return &Server{
		pipeline: pipeline,
		state:    StateIdle,
		metrics:  initial,
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.Default()
	r.SetHTMLTemplate(template.Must(template.New("dashboard").Parse(dashboardHTML)))

	r.GET("/", s.handleIndex)
	r.GET("/analysis", s.handleAnalysis)
	r.POST("/pull-data", s.handlePullData)
	r.POST("/update-analysis", s.handleUpdateAnalysis)
	return r
}

// Run serves until the listener fails.
func (s *Server) Run(addr string) error {
	return s.Router().Run(addr)
}

func (s *Server) handleIndex(c *gin.Context) {
	s.mu.Lock()
	view := gin.H{
		"State":   string(s.state),
		"Busy":    s.state != StateIdle,
		"Message": s.message,
		"Metrics": s.metrics,
	}
	s.mu.Unlock()
	c.HTML(http.StatusOK, "dashboard", view)
}

func (s *Server) handleAnalysis(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{
		"state":   string(s.state),
		"message": s.message,
		"metrics": s.metrics,
	})
}

func (s *Server) handlePullData(c *gin.Context) {
	s.mu.Lock()
	if s.state != StateIdle {
		s.mu.Unlock()
		c.JSON(http.StatusConflict, gin.H{"busy": true})
		return
	}
	s.state = StatePulling
	s.message = ""
	s.mu.Unlock()

	go s.runPull()
	c.JSON(http.StatusAccepted, gin.H{"started": true})
}

func (s *Server) handleUpdateAnalysis(c *gin.Context) {
	s.mu.Lock()
	if s.state != StateIdle {
		s.mu.Unlock()
		c.JSON(http.StatusConflict, gin.H{"busy": true})
		return
	}
	s.state = StateAnalyzing
	s.mu.Unlock()

	go s.runRefresh()
	c.JSON(http.StatusAccepted, gin.H{"started": true})
}

// runPull executes the pull job and then refreshes metrics so the page
// reflects the new data. Jobs are not cancellable once started.
func (s *Server) runPull() {
	ctx := context.Background()

	msg, err := s.pipeline.Pull(ctx)
	if err != nil {
		s.finish(fmt.Sprintf("pull failed: %v", err), nil)
		return
	}

	metrics, err := s.pipeline.Refresh(ctx)
	if err != nil {
		s.finish(fmt.Sprintf("%s (analysis refresh failed: %v)", msg, err), nil)
		return
	}
	s.finish(msg, metrics)
}

func (s *Server) runRefresh() {
	metrics, err := s.pipeline.Refresh(context.Background())
	if err != nil {
		s.finish(fmt.Sprintf("analysis refresh failed: %v", err), nil)
		return
	}
	s.finish("analysis refreshed", metrics)
}

// finish records the job outcome and returns the server to idle. A nil
// metrics argument keeps the previous metrics on the page.
func (s *Server) finish(message string, metrics *analysis.Metrics) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateIdle
	s.message = message
	if metrics != nil {
		s.metrics = metrics
	}
}

// CurrentState reports the job state; used by tests to wait for
// completion without sleeping on the HTTP surface.
func (s *Server) CurrentState() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}
