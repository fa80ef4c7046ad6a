// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package web is the thin HTTP surface over the analyzer. It carries no
// analysis logic; handlers bind the request, call the analyzer and map
// its structured errors to status codes.
package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pdiddy/rentscope/internal/analyzer"
)

const version = "1.0.0"

type analyzeRequest struct {
	Address string `json:"address" binding:"required"`
}

type batchRequest struct {
	Addresses []string `json:"addresses" binding:"required"`
}

type example struct {
	Address     string `json:"address"`
	Description string `json:"description"`
}

var exampleAddresses = []example{
	{"350 Central Park West, New York, NY", "Upper West Side Luxury Building"},
	{"1 Wall Street, New York, NY", "Financial District Historic Building"},
	{"123 West 86th Street, New York, NY", "Upper West Side Residential"},
	{"456 East 74th Street, New York, NY", "Upper East Side Apartment"},
}

// NewRouter builds the gin engine with all routes registered.
func NewRouter(a *analyzer.Analyzer, demoMode bool) *gin.Engine {
	r := gin.Default()

	r.POST("/analyze", handleAnalyze(a))
	r.POST("/batch-analyze", handleBatch(a))
	r.GET("/report/*address", handleReport(a))
	r.GET("/health", handleHealth(a, demoMode))
	r.GET("/api/examples", handleExamples())

	return r
}

func handleAnalyze(a *analyzer.Analyzer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req analyzeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Address is required"})
			return
		}

		analysis, err := a.Analyze(c.Request.Context(), req.Address, analyzer.AnalyzeOptions{Validate: true})
		if err != nil {
			var ae *analyzer.AnalysisError
			if errors.As(err, &ae) {
				c.JSON(http.StatusBadRequest, gin.H{
					"success":     false,
					"error":       ae.Message,
					"code":        ae.Code,
					"example":     ae.Example,
					"suggestions": ae.Suggestions,
				})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Analysis failed: " + err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "analysis": analysis})
	}
}

func handleBatch(a *analyzer.Analyzer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req batchRequest
		if err := c.ShouldBindJSON(&req); err != nil || len(req.Addresses) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "At least one address is required"})
			return
		}

		entries, err := a.Batch(c.Request.Context(), req.Addresses)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Batch analysis failed: " + err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "results": entries})
	}
}

func handleReport(a *analyzer.Analyzer) gin.HandlerFunc {
	return func(c *gin.Context) {
		addr := c.Param("address")
		if len(addr) > 0 && addr[0] == '/' {
			addr = addr[1:]
		}
		if addr == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Address is required"})
			return
		}

		analysis, err := a.Analyze(c.Request.Context(), addr, analyzer.AnalyzeOptions{})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
			return
		}

		c.Header("Content-Type", "text/plain; charset=utf-8")
		c.Status(http.StatusOK)
		if err := analyzer.WriteReport(c.Writer, analysis); err != nil {
			_ = c.Error(err)
		}
	}
}

func handleHealth(a *analyzer.Analyzer, demoMode bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		mode := "Real API"
		if demoMode {
			mode = "Demo Mode"
		}
		metrics := a.ModelMetrics()
		c.JSON(http.StatusOK, gin.H{
			"status":     "healthy",
			"timestamp":  time.Now().UTC().Format(time.RFC3339),
			"model_type": "ridge regression",
			"model_r2":   metrics.R2,
			"api_mode":   mode,
			"version":    version,
		})
	}
}

func handleExamples() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"examples": exampleAddresses})
	}
}
