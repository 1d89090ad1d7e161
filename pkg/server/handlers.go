package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dellavent/glycemicguard/internal/manager"
	"github.com/dellavent/glycemicguard/pkg/common/errors"
	"github.com/dellavent/glycemicguard/pkg/match"
)

// handleDatasets returns the list of available datasets.
func (s *Server) handleDatasets(c *gin.Context) {
	datasets, err := s.manager.ListDatasets()
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, datasets)
}

// handleFoods returns all canonical food names in a dataset.
func (s *Server) handleFoods(c *gin.Context) {
	d, ok := s.dataset(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"foods": d.Store.ListNames(), "count": d.Store.Len()})
}

// handleFeatures returns per-serving nutrition features for a food.
func (s *Server) handleFeatures(c *gin.Context) {
	food := c.Query("food")
	if food == "" {
		handleError(c, errors.NewAppError(http.StatusBadRequest, "Missing food name", nil))
		return
	}
	serving := c.DefaultQuery("serving", "100g")

	d, ok := s.dataset(c)
	if !ok {
		return
	}

	features, err := d.Store.GetFeatures(food, serving)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, features)
}

// handleSearch resolves a free-text food name. An exact normalized match
// short-circuits; otherwise ranked candidates are returned with pagination
// via limit/offset.
func (s *Server) handleSearch(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		handleError(c, errors.NewAppError(http.StatusBadRequest, "Missing query", nil))
		return
	}

	limit := 5
	if l, err := strconv.Atoi(c.Query("limit")); err == nil && l > 0 {
		limit = l
	}
	offset := 0
	if o, err := strconv.Atoi(c.Query("offset")); err == nil && o >= 0 {
		offset = o
	}

	d, ok := s.dataset(c)
	if !ok {
		return
	}

	if name, found := d.Matcher.ResolveExact(query); found {
		c.JSON(http.StatusOK, gin.H{"exact": true, "name": name})
		return
	}

	candidates, err := d.Matcher.FindCandidates(c.Request.Context(), query, limit, offset)
	if err != nil {
		handleError(c, err)
		return
	}
	if candidates == nil {
		candidates = []match.Candidate{}
	}
	c.JSON(http.StatusOK, gin.H{"exact": false, "candidates": candidates})
}

// handleEvaluate runs the full pipeline: features plus safety verdict.
func (s *Server) handleEvaluate(c *gin.Context) {
	var req struct {
		Food    string `json:"food"`
		Serving string `json:"serving"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, errors.NewAppError(http.StatusBadRequest, "Invalid request body", err))
		return
	}
	if req.Food == "" {
		handleError(c, errors.NewAppError(http.StatusBadRequest, "Missing food name", nil))
		return
	}
	if req.Serving == "" {
		req.Serving = "100g"
	}

	d, ok := s.dataset(c)
	if !ok {
		return
	}

	features, verdict, err := d.Engine.EvaluateFood(req.Food, req.Serving)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"features": features, "verdict": verdict})
}

// dataset resolves the dataset named by the request, falling back to the
// server default. Writes the error response itself when resolution fails.
func (s *Server) dataset(c *gin.Context) (*manager.Dataset, bool) {
	id := c.Query("dataset")
	if id == "" {
		id = s.defaultDataset
	}
	if id == "" {
		handleError(c, errors.NewAppError(http.StatusBadRequest, "Missing dataset ID", nil))
		return nil, false
	}

	d, err := s.manager.GetDataset(c.Request.Context(), id)
	if err != nil {
		handleError(c, errors.NewAppError(http.StatusNotFound, "Dataset not found", err))
		return nil, false
	}
	return d, true
}

func handleError(c *gin.Context, err error) {
	appErr := errors.MapError(err)
	c.JSON(appErr.Code, gin.H{"error": appErr.Message, "detail": err.Error()})
}
