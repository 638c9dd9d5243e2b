package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/apifilms/film-ratings/internal/model"
	"github.com/apifilms/film-ratings/internal/queue"
)

// RatingPublisher pushes a rating event to the message broker. Publishing
// is fire-and-forget: handler responses never wait on, or fail because of,
// the broker.
type RatingPublisher func(ctx context.Context, ev queue.RatingRecordedEvent) error

// NotationHandler serves /v1/notations plus the per-film and per-user
// rating listings.
type NotationHandler struct {
	Store   NotationStore
	Publish RatingPublisher // optional
}

// NewNotationHandler constructs the handler; the store must not be nil,
// the publisher may be.
func NewNotationHandler(store NotationStore, publish RatingPublisher) *NotationHandler {
	if store == nil {
		panic("nil store passed to NewNotationHandler")
	}
	return &NotationHandler{Store: store, Publish: publish}
}

func (h *NotationHandler) publishRecorded(n model.Notation, action string) {
	if h.Publish == nil {
		return
	}
	ev := queue.RatingRecordedEvent{
		UtilisateurID: n.UtilisateurID,
		FilmID:        n.FilmID,
		Note:          n.Note,
		Action:        action,
		RecordedAt:    time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
		defer cancel()
		_ = h.Publish(ctx, ev) // publisher logs its own failures
	}()
}

// Create handles POST /v1/notations. Both referenced rows must exist and
// the (utilisateur, film) pair must not be rated yet.
func (h *NotationHandler) Create(c echo.Context) error {
	var n model.Notation
	if err := c.Bind(&n); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	n.RowVersion = 0

	ctx, cancel := storeContext(c)
	defer cancel()
	if err := h.Store.Create(ctx, &n); err != nil {
		return writeStoreError(c, err)
	}
	h.publishRecorded(n, "created")
	return c.JSON(http.StatusCreated, n)
}

// GetByID handles GET /v1/notations/:utilisateurId/:filmId.
func (h *NotationHandler) GetByID(c echo.Context) error {
	utilisateurID, filmID, err := notationKey(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := storeContext(c)
	defer cancel()
	n, err := h.Store.GetByID(ctx, utilisateurID, filmID)
	if err != nil {
		return writeStoreError(c, err)
	}
	return c.JSON(http.StatusOK, n)
}

// List handles GET /v1/notations.
func (h *NotationHandler) List(c echo.Context) error {
	ctx, cancel := storeContext(c)
	defer cancel()
	items, err := h.Store.ListAll(ctx)
	if err != nil {
		return writeStoreError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ListByFilm handles GET /v1/films/:id/notations.
func (h *NotationHandler) ListByFilm(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := storeContext(c)
	defer cancel()
	items, err := h.Store.ListByFilm(ctx, id)
	if err != nil {
		return writeStoreError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ListByUtilisateur handles GET /v1/utilisateurs/:id/notations.
func (h *NotationHandler) ListByUtilisateur(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := storeContext(c)
	defer cancel()
	items, err := h.Store.ListByUtilisateur(ctx, id)
	if err != nil {
		return writeStoreError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Update handles PUT /v1/notations/:utilisateurId/:filmId. The composite
// key in the path must match the record's own; only the note may change.
func (h *NotationHandler) Update(c echo.Context) error {
	utilisateurID, filmID, err := notationKey(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var n model.Notation
	if err := c.Bind(&n); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if utilisateurID != n.UtilisateurID || filmID != n.FilmID {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "id mismatch"})
	}
	ctx, cancel := storeContext(c)
	defer cancel()
	if err := h.Store.Update(ctx, &n); err != nil {
		return writeStoreError(c, err)
	}
	h.publishRecorded(n, "updated")
	return c.NoContent(http.StatusNoContent)
}

// Delete handles DELETE /v1/notations/:utilisateurId/:filmId.
func (h *NotationHandler) Delete(c echo.Context) error {
	utilisateurID, filmID, err := notationKey(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := storeContext(c)
	defer cancel()
	if err := h.Store.Delete(ctx, utilisateurID, filmID); err != nil {
		return writeStoreError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func notationKey(c echo.Context) (utilisateurID, filmID int64, err error) {
	utilisateurID, err = parseID(c, "utilisateurId")
	if err != nil {
		return 0, 0, err
	}
	filmID, err = parseID(c, "filmId")
	if err != nil {
		return 0, 0, err
	}
	return utilisateurID, filmID, nil
}
