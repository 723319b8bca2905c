package server

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes registers every endpoint on router.
func SetupRoutes(router *gin.Engine, s *Server) {
	router.GET("/health", s.health)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.deps.Gatherer, promhttp.HandlerOpts{})))

	api := router.Group("/api")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", s.rateLimit(), s.register)
			authGroup.POST("/login", s.rateLimit(), s.login)
			authGroup.POST("/logout", s.logout)
			authGroup.GET("/me", s.requireAuth(), s.me)
		}

		api.GET("/users/:id", s.getUser)

		snippetGroup := api.Group("/snippets")
		{
			snippetGroup.GET("", s.listSnippets)
			snippetGroup.POST("", s.requireAuth(), s.createSnippet)
			snippetGroup.GET("/:id", s.getSnippet)
			snippetGroup.PUT("/:id", s.requireAuth(), s.updateSnippet)
			snippetGroup.DELETE("/:id", s.requireAuth(), s.deleteSnippet)
			snippetGroup.GET("/:id/share", s.shareSnippet)
		}

		api.GET("/tags", s.listTags)

		api.POST("/analyze", s.analyze)
		api.GET("/analyze/ws", s.analyzeLive)
	}
}
