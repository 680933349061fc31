package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cloudcorenow/backend/internal/service"
)

// NewRouter wires every route. Unrouted /api/* paths answer 501: the
// dashboard's remaining surfaces (VM lifecycle, provider CRUD) are not
// implemented by this service.
func NewRouter(authService *service.AuthService, authH *AuthHandler, monH *MonitorHandler, rmmH *RMMHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), CORSMiddleware())

	r.GET("/", Root)
	r.GET("/ping", Ping)

	auth := r.Group("/api/auth")
	{
		auth.POST("/login", authH.Login)
		auth.POST("/register", authH.Register)
		auth.GET("/me", AuthMiddleware(authService), authH.Me)
	}

	mon := r.Group("/api/monitoring", AuthMiddleware(authService))
	{
		mon.GET("/:provider/logs", monH.GetLogs)
		mon.GET("/:provider/metrics", monH.GetMetrics)
	}

	rmm := r.Group("/api/rmm", AuthMiddleware(authService))
	{
		rmm.GET("/devices", rmmH.ListDevices)
		rmm.POST("/command", rmmH.RunCommand)
	}

	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotImplemented, gin.H{"error": "Not implemented"})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})

	return r
}
