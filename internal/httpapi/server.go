package httpapi

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"go-vagas-scraper/internal/models"
	"go-vagas-scraper/internal/runner"
	"go-vagas-scraper/internal/scraper"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Scraper runs one scrape. *runner.Runner satisfies it.
type Scraper interface {
	Run(ctx context.Context) (*runner.Result, error)
}

// Server exposes scrape runs over HTTP. Only one run executes at a time.
type Server struct {
	scraper Scraper
	logger  zerolog.Logger

	running sync.Mutex

	mu   sync.RWMutex
	last *models.Run
}

func NewServer(s Scraper, logger zerolog.Logger) *Server {
	return &Server{scraper: s, logger: logger}
}

func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/", s.health)
	r.POST("/scrape", s.scrape)
	r.GET("/runs/latest", s.latest)
	return r
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Vagas scraper API is running!",
		"status":  "healthy",
	})
}

func (s *Server) scrape(c *gin.Context) {
	if !s.running.TryLock() {
		c.JSON(http.StatusConflict, gin.H{"error": "a scrape is already running"})
		return
	}
	defer s.running.Unlock()

	s.logger.Info().Str("remote", c.ClientIP()).Msg("📨 scrape requested")
	res, err := s.scraper.Run(c.Request.Context())
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, scraper.ErrPersistence) {
			status = http.StatusInternalServerError
		}
		s.recordFailure(res, err)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	run := res.Run
	s.last = &run
	s.mu.Unlock()

	c.JSON(http.StatusOK, res.Run)
}

func (s *Server) recordFailure(res *runner.Result, err error) {
	run := models.Run{Status: models.StatusFailed, Error: err.Error()}
	if res != nil {
		run = res.Run
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = &run
}

func (s *Server) latest(c *gin.Context) {
	s.mu.RLock()
	last := s.last
	s.mu.RUnlock()

	if last == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no run yet"})
		return
	}
	c.JSON(http.StatusOK, last)
}
