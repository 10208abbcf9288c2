// Package routes wires the catalog's gin handlers to their paths, in the
// style of the teacher's routes.SetupRoutes.
package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shopunit-catalog/internal/delivery/http/handler"
	"shopunit-catalog/internal/delivery/http/middleware"
)

// SetupRoutes registers every HTTP route the catalog exposes.
func SetupRoutes(router *gin.Engine, catalogHandler *handler.CatalogHandler) {
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "shopunit-catalog"})
	})

	router.POST("/imports", catalogHandler.Imports)
	router.DELETE("/delete/:id", catalogHandler.Delete)
	router.GET("/nodes/:id", catalogHandler.Node)
	router.GET("/node/:id/statistic", catalogHandler.Statistic)
	router.GET("/sales", catalogHandler.Sales)
}
