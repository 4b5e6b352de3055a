package api

import (
	"context"
	"net/http"
	"time"

	"github.com/employee-records-api/internal/config"
	"github.com/employee-records-api/internal/database"
	"github.com/employee-records-api/internal/service"
	"github.com/employee-records-api/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// DBStatus is the view of the database used by /health and /metrics
type DBStatus interface {
	HealthCheck(ctx context.Context) error
	PoolStats() database.PoolStats
}

// NewRouter creates and configures the Gin router. db may be nil.
func NewRouter(services *service.Services, cfg *config.Config, db DBStatus, log zerolog.Logger) *gin.Engine {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.MaxMultipartMemory = 8 << 20

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware())

	// Handlers
	employeeHandler := NewEmployeeHandler(services, log)
	importHandler := NewImportHandler(services, cfg, log)
	exportHandler := NewExportHandler(services, log)

	// Health check
	router.GET("/health", healthCheck(db))
	router.GET("/metrics", metricsHandler(services, db))

	employees := router.Group("/api/employee")
	{
		employees.GET("/GetEmployeeList", employeeHandler.GetEmployeeList)
		employees.GET("/GetEmployee", employeeHandler.GetEmployee)
		employees.POST("/AddEmployee", employeeHandler.AddEmployee)
		employees.PUT("/UpdateEmployee", employeeHandler.UpdateEmployee)
		employees.DELETE("/DeleteEmployee", employeeHandler.DeleteEmployee)
	}

	// API v1
	v1 := router.Group("/v1")
	{
		imports := v1.Group("/imports")
		{
			imports.POST("", importHandler.CreateImport)
			imports.GET("/:job_id", importHandler.GetImportStatus)
		}

		exports := v1.Group("/exports")
		{
			exports.GET("", exportHandler.Export)
			exports.GET("/template", exportHandler.Template)
		}
	}

	return router
}

// healthCheck returns the health status
func healthCheck(db DBStatus) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, code := "healthy", http.StatusOK
		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := db.HealthCheck(ctx); err != nil {
				status, code = "unhealthy", http.StatusServiceUnavailable
			}
		}

		c.JSON(code, gin.H{
			"status":    status,
			"timestamp": time.Now().Format(time.RFC3339),
			"service":   logger.ServiceName,
		})
	}
}

// metricsHandler returns record counts, pool usage and import state
func metricsHandler(services *service.Services, db DBStatus) gin.HandlerFunc {
	return func(c *gin.Context) {
		count, err := services.Export.GetCount(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count employees"})
			return
		}

		dbMetrics := gin.H{"employees": count}
		if db != nil {
			dbMetrics["pool"] = db.PoolStats()
		}

		c.JSON(http.StatusOK, gin.H{
			"database":           dbMetrics,
			"import_in_progress": services.Import.InProgress(),
			"timestamp":          time.Now().Format(time.RFC3339),
		})
	}
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("error", err).Str("path", c.Request.URL.Path).Msg("Panic recovered")
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("Request completed")
	}
}

// corsMiddleware handles CORS
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Idempotency-Key")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
