package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Register mounts the health routes on router and the API under /api/v1
func Register(router *gin.Engine, beers *BeerHandler, admin *AdminHandler, placesHandler *PlacesHandler) {
	router.GET("/health", admin.Health)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	api := router.Group("/api/v1")
	{
		b := api.Group("/beers")
		{
			b.GET("", beers.Browse)
			b.GET("/search", beers.Search)
			b.GET("/random", beers.Random)
			b.GET("/popular", beers.Popular)
			b.GET("/:id", beers.Get)
		}

		a := api.Group("/admin")
		{
			a.GET("/cache/stats", admin.CacheStats)
			a.DELETE("/cache", admin.ClearCache)
			a.GET("/budget", admin.Budget)
			a.POST("/prewarm", admin.Prewarm)
		}

		p := api.Group("/places")
		{
			p.GET("/nearby", placesHandler.Nearby)
			p.GET("/photo", placesHandler.Photo)
			p.GET("/:id", placesHandler.Details)
		}
	}
}
