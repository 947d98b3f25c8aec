// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"strollpath/internal/http/handlers"
	"strollpath/internal/modules/session"
)

func registerRoutes(r gin.IRouter, sessions *session.Registry, auth gin.HandlerFunc) {
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	api := r.Group("/api", auth)

	sessionHandler := handlers.NewSessionHandler(sessions)
	api.POST("/session", sessionHandler.Login)
	api.DELETE("/session", sessionHandler.Logout)

	routeHandler := handlers.NewRouteHandler(sessions)
	api.GET("/routes", routeHandler.List)
	api.GET("/routes/tags", routeHandler.Tags)
	api.POST("/routes", routeHandler.Create)
	api.POST("/routes/recommend", routeHandler.Recommend)
	api.POST("/routes/describe", routeHandler.Describe)
	api.GET("/routes/:id", routeHandler.Get)
	api.PATCH("/routes/:id", routeHandler.Update)
	api.POST("/routes/:id/like", routeHandler.Like)

	userHandler := handlers.NewUserHandler(sessions)
	api.GET("/users", userHandler.Search)
	api.GET("/users/:id", userHandler.Get)
	api.POST("/users/:id/follow", userHandler.Follow)
	api.GET("/me", userHandler.Me)
	api.PATCH("/me", userHandler.UpdateMe)

	recordingHandler := handlers.NewRecordingHandler(sessions)
	api.GET("/recording", recordingHandler.Get)
	api.POST("/recording/start", recordingHandler.Start)
	api.POST("/recording/stop", recordingHandler.Stop)
	api.POST("/recording/fixes", recordingHandler.PushFixes)
	api.POST("/recording/error", recordingHandler.Error)
}
