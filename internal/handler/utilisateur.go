package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/apifilms/film-ratings/internal/model"
)

// UtilisateurHandler serves /v1/utilisateurs.
type UtilisateurHandler struct {
	Store UtilisateurStore
}

// NewUtilisateurHandler constructs the handler; the store must not be nil.
func NewUtilisateurHandler(store UtilisateurStore) *UtilisateurHandler {
	if store == nil {
		panic("nil store passed to NewUtilisateurHandler")
	}
	return &UtilisateurHandler{Store: store}
}

// Create handles POST /v1/utilisateurs. The id, creation date and row
// version are store-assigned, so any client-supplied values are discarded.
func (h *UtilisateurHandler) Create(c echo.Context) error {
	var u model.Utilisateur
	if err := c.Bind(&u); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	u.UtilisateurID = 0
	u.RowVersion = 0

	ctx, cancel := storeContext(c)
	defer cancel()
	if err := h.Store.Create(ctx, &u); err != nil {
		return writeStoreError(c, err)
	}
	return c.JSON(http.StatusCreated, u)
}

// GetByID handles GET /v1/utilisateurs/:id.
func (h *UtilisateurHandler) GetByID(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := storeContext(c)
	defer cancel()
	u, err := h.Store.GetByID(ctx, id)
	if err != nil {
		return writeStoreError(c, err)
	}
	return c.JSON(http.StatusOK, u)
}

// GetByMail handles GET /v1/utilisateurs/by-email/:email, the unique-key
// lookup.
func (h *UtilisateurHandler) GetByMail(c echo.Context) error {
	mail := c.Param("email")
	if mail == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email is required"})
	}
	ctx, cancel := storeContext(c)
	defer cancel()
	u, err := h.Store.GetByMail(ctx, mail)
	if err != nil {
		return writeStoreError(c, err)
	}
	return c.JSON(http.StatusOK, u)
}

// List handles GET /v1/utilisateurs.
func (h *UtilisateurHandler) List(c echo.Context) error {
	ctx, cancel := storeContext(c)
	defer cancel()
	items, err := h.Store.ListAll(ctx)
	if err != nil {
		return writeStoreError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Update handles PUT /v1/utilisateurs/:id. The path id must match the
// record's own identity; the store rejects stale row versions.
func (h *UtilisateurHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var u model.Utilisateur
	if err := c.Bind(&u); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if id != u.UtilisateurID {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "id mismatch"})
	}
	ctx, cancel := storeContext(c)
	defer cancel()
	if err := h.Store.Update(ctx, &u); err != nil {
		return writeStoreError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete handles DELETE /v1/utilisateurs/:id. Deletion is refused while
// the user still has notations.
func (h *UtilisateurHandler) Delete(c echo.Context) error {
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
