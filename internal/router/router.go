// Package router maps the API surface onto handlers. All entity routes
// live under /v1; a notation is addressed by its composite
// (utilisateurId, filmId) key.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/apifilms/film-ratings/internal/handler"
)

// RegisterRoutes wires the health check and the six operations per entity.
func RegisterRoutes(e *echo.Echo, users *handler.UtilisateurHandler, films *handler.FilmHandler, notations *handler.NotationHandler) {
	e.GET("/healthz", handler.Health)

	v1 := e.Group("/v1")

	v1.POST("/utilisateurs", users.Create)
	v1.GET("/utilisateurs", users.List)
	v1.GET("/utilisateurs/:id", users.GetByID)
	v1.GET("/utilisateurs/by-email/:email", users.GetByMail)
	v1.PUT("/utilisateurs/:id", users.Update)
	v1.DELETE("/utilisateurs/:id", users.Delete)
	v1.GET("/utilisateurs/:id/notations", notations.ListByUtilisateur)

	v1.POST("/films", films.Create)
	v1.GET("/films", films.List)
	v1.GET("/films/:id", films.GetByID)
	v1.PUT("/films/:id", films.Update)
	v1.DELETE("/films/:id", films.Delete)
	v1.GET("/films/:id/notations", notations.ListByFilm)

	v1.POST("/notations", notations.Create)
	v1.GET("/notations", notations.List)
	v1.GET("/notations/:utilisateurId/:filmId", notations.GetByID)
	v1.PUT("/notations/:utilisateurId/:filmId", notations.Update)
	v1.DELETE("/notations/:utilisateurId/:filmId", notations.Delete)
}
