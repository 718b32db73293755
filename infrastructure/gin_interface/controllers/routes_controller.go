package controllers

import (
	"article-narration-pipeline/application/ports/inbound"
	"github.com/gin-gonic/gin"
	"net/http"
)

type RoutesController interface {
	ListRoutes(c *gin.Context)
	Health(c *gin.Context)
	RegisterRoutes(g *gin.Engine)
}

type routesController struct {
	router inbound.RouterPort
}

func NewRoutesController(router inbound.RouterPort) RoutesController {
	return &routesController{router: router}
}

func (r *routesController) ListRoutes(c *gin.Context) {
	c.JSON(http.StatusOK, r.router.Routes())
}

func (r *routesController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (r *routesController) RegisterRoutes(g *gin.Engine) {
	g.GET("/routes", r.ListRoutes)
	g.GET("/health", r.Health)
}
