package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/apifilms/film-ratings/internal/model"
)

// FilmHandler serves /v1/films.
type FilmHandler struct {
	Store FilmStore
}

// NewFilmHandler constructs the handler; the store must not be nil.
func NewFilmHandler(store FilmStore) *FilmHandler {
	if store == nil {
		panic("nil store passed to NewFilmHandler")
	}
	return &FilmHandler{Store: store}
}

// Create handles POST /v1/films.
func (h *FilmHandler) Create(c echo.Context) error {
	var f model.Film
	if err := c.Bind(&f); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	f.FilmID = 0
	f.RowVersion = 0

	ctx, cancel := storeContext(c)
	defer cancel()
	if err := h.Store.Create(ctx, &f); err != nil {
		return writeStoreError(c, err)
	}
	return c.JSON(http.StatusCreated, f)
}

// GetByID handles GET /v1/films/:id.
func (h *FilmHandler) GetByID(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := storeContext(c)
	defer cancel()
	f, err := h.Store.GetByID(ctx, id)
	if err != nil {
		return writeStoreError(c, err)
	}
	return c.JSON(http.StatusOK, f)
}

// List handles GET /v1/films.
func (h *FilmHandler) List(c echo.Context) error {
	ctx, cancel := storeContext(c)
	defer cancel()
	items, err := h.Store.ListAll(ctx)
	if err != nil {
		return writeStoreError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Update handles PUT /v1/films/:id.
func (h *FilmHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var f model.Film
	if err := c.Bind(&f); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if id != f.FilmID {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "id mismatch"})
	}
	ctx, cancel := storeContext(c)
	defer cancel()
	if err := h.Store.Update(ctx, &f); err != nil {
		return writeStoreError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete handles DELETE /v1/films/:id. Deletion is refused while the film
// still has notations.
func (h *FilmHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := storeContext(c)
	defer cancel()
	if err := h.Store.Delete(ctx, id); err != nil {
		return writeStoreError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
