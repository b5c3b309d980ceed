package router

import (
	"github.com/gin-gonic/gin"

	"tradedocs/internal/handler"
	"tradedocs/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	allowedOrigins []string,
	healthH *handler.HealthHandler,
	recordH *handler.RecordHandler,
	comparisonH *handler.ComparisonHandler,
	runH *handler.RunHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	// Stored extraction outcomes
	models := v1.Group("/models")
	models.GET("", recordH.ListModels)
	models.GET("/:model/records", recordH.ListRecords)
	models.GET("/:model/records/:name", recordH.GetRecord)
	models.GET("/:model/records/:name/failure", recordH.GetFailure)

	// Cross-model comparison
	compare := v1.Group("/compare")
	compare.GET("/diff", comparisonH.GetDiff)
	compare.GET("/tables", comparisonH.GetTables)

	// Run ledger
	v1.GET("/runs", runH.ListRuns)

	return r
}
