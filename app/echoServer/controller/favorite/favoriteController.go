package favorite

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	favsvc "github.com/sukisigm69/LiteraSpace/service/favorite"
)

type Controller struct {
	Svc favsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

type AddFavoriteReq struct {
	BookID int64 `json:"book_id" validate:"required,gt=0"`
}

// GET /v1/favorites
func (h *Controller) Mine(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)
	rows, err := h.Svc.Mine(c.Request().Context(), uid)
	if err != nil {
		h.Log.Error("favorites", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// POST /v1/favorites
func (h *Controller) Add(c echo.Context) error {
	var req AddFavoriteReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	uid, _ := c.Get("user_id").(int64)

	id, err := h.Svc.Add(c.Request().Context(), uid, req.BookID)
	if err != nil {
		h.Log.Error("favorite add", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// DELETE /v1/favorites/:bookId
func (h *Controller) Remove(c echo.Context) error {
	bookID, err := strconv.ParseInt(c.Param("bookId"), 10, 64)
	if err != nil || bookID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	uid, _ := c.Get("user_id").(int64)

	if err := h.Svc.Remove(c.Request().Context(), uid, bookID); err != nil {
		if errors.Is(err, favsvc.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "favorite not found"})
		}
		h.Log.Error("favorite remove", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "removed"})
}
