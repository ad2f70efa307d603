package http

import (
	"taskmanager/internal/adapter/http/handlers"
	"taskmanager/internal/adapter/http/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, healthHandler *handlers.HealthHandler, taskHandler *handlers.TaskHandler, auth gin.HandlerFunc) {
	api := r.Group("/api")
	api.Use(middleware.LanguageMiddleware())
	{
		api.GET("/health", healthHandler.CheckHealth)
		api.GET("/health/report", healthHandler.CheckHealthReport)

		tasks := api.Group("/tasks", auth)
		tasks.GET("", taskHandler.ListTasks)
		tasks.GET("/stats", taskHandler.TaskStats)
		tasks.POST("", taskHandler.CreateTask)
		tasks.PUT("/:id", taskHandler.UpdateTask)
		tasks.DELETE("/:id", taskHandler.DeleteTask)
	}
}

// NewRouter builds the engine with the middleware stack every deployment uses.
func NewRouter(healthHandler *handlers.HealthHandler, taskHandler *handlers.TaskHandler, auth gin.HandlerFunc, mws ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestIDMiddleware())
	r.Use(mws...)
	RegisterRoutes(r, healthHandler, taskHandler, auth)
	return r
}
