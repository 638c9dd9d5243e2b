// Package handler exposes the six CRUD-style operations per entity over
// HTTP. Handlers bind and sanity-check the request, delegate to a store
// interface and translate the store's sentinel errors into status codes:
// 404 for missing rows, 400 for malformed input or identity mismatches,
// 409 for constraint and concurrency conflicts, 500 for anything the store
// reports that is none of those.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/apifilms/film-ratings/internal/model"
	"github.com/apifilms/film-ratings/internal/repository"
)

// dbTimeout bounds every store call issued from a handler.
const dbTimeout = 5 * time.Second

// UtilisateurStore is the persistence contract the user handlers depend on.
// repository.UtilisateurRepo is the production implementation.
type UtilisateurStore interface {
	Create(ctx context.Context, u *model.Utilisateur) error
	GetByID(ctx context.Context, id int64) (*model.Utilisateur, error)
	GetByMail(ctx context.Context, mail string) (*model.Utilisateur, error)
	ListAll(ctx context.Context) ([]model.Utilisateur, error)
	Update(ctx context.Context, u *model.Utilisateur) error
	Delete(ctx context.Context, id int64) error
}

// FilmStore is the persistence contract the film handlers depend on.
type FilmStore interface {
	Create(ctx context.Context, f *model.Film) error
	GetByID(ctx context.Context, id int64) (*model.Film, error)
	ListAll(ctx context.Context) ([]model.Film, error)
	Update(ctx context.Context, f *model.Film) error
	Delete(ctx context.Context, id int64) error
}

// NotationStore is the persistence contract the rating handlers depend on.
type NotationStore interface {
	Create(ctx context.Context, n *model.Notation) error
	GetByID(ctx context.Context, utilisateurID, filmID int64) (*model.Notation, error)
	ListAll(ctx context.Context) ([]model.Notation, error)
	ListByFilm(ctx context.Context, filmID int64) ([]model.Notation, error)
	ListByUtilisateur(ctx context.Context, utilisateurID int64) ([]model.Notation, error)
	Update(ctx context.Context, n *model.Notation) error
	Delete(ctx context.Context, utilisateurID, filmID int64) error
}

// parseID extracts a numeric path parameter.
func parseID(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

// storeContext derives a bounded context for a store call.
func storeContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// writeStoreError maps a store failure onto an HTTP response.
func writeStoreError(c echo.Context, err error) error {
	var ve *model.ValidationError
	switch {
	case errors.As(err, &ve):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": ve.Error()})
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, repository.ErrDuplicateMail),
		errors.Is(err, repository.ErrDuplicateNotation),
		errors.Is(err, repository.ErrNoteOutOfRange),
		errors.Is(err, repository.ErrMissingReference),
		errors.Is(err, repository.ErrRestrictDelete):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrConcurrency):
		return c.JSON(http.StatusConflict, echo.Map{"error": "concurrent modification, re-fetch and retry"})
	default:
		// Unexpected store failure: log it verbatim, answer opaquely.
		c.Logger().Errorf("store error: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store error"})
	}
}
