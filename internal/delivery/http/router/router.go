// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"riskctl/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	RiskHandler *handler.RiskHandler
}

// router holds all the handlers that need to be registered.
type router struct {
	riskHandler *handler.RiskHandler
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		riskHandler: params.RiskHandler,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	riskGroup := e.Group("/risk")
	{
		riskGroup.POST("/report", r.riskHandler.Report)
		riskGroup.GET("/query", r.riskHandler.Query)
		riskGroup.POST("/query", r.riskHandler.Query)
		riskGroup.POST("/cancel", r.riskHandler.Cancel)
	}
}
