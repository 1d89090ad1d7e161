// Package server exposes the knowledge store, resolver and safety engine
// over a REST API.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dellavent/glycemicguard/internal/manager"
)

// Server holds the state for the REST API server.
type Server struct {
	manager        *manager.DatasetManager
	defaultDataset string
	router         *gin.Engine
}

// NewServer creates a new Server instance. defaultDataset is used when a
// request does not name a dataset.
func NewServer(mgr *manager.DatasetManager, defaultDataset string) *Server {
	r := gin.Default()
	s := &Server{
		manager:        mgr,
		defaultDataset: defaultDataset,
		router:         r,
	}
	s.setupRoutes()
	return s
}

// Run starts the server on the specified address.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.healthCheck)
	s.router.GET("/v1/datasets", s.handleDatasets)
	s.router.GET("/v1/foods", s.handleFoods)
	s.router.GET("/v1/features", s.handleFeatures)
	s.router.GET("/v1/search", s.handleSearch)
	s.router.POST("/v1/evaluate", s.handleEvaluate)
}

// Health check
func (s *Server) healthCheck(c *gin.Context) {
	c.Status(http.StatusOK)
}
