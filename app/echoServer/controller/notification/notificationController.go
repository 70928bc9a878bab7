package notification

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	notifsvc "github.com/sukisigm69/LiteraSpace/service/notification"
)

type Controller struct {
	Svc notifsvc.Service
	Log *slog.Logger
}

// GET /v1/notifications
func (h *Controller) Mine(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)
	rows, err := h.Svc.Mine(c.Request().Context(), uid)
	if err != nil {
		h.Log.Error("notifications", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// POST /v1/notifications/:id/read
func (h *Controller) MarkRead(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	uid, _ := c.Get("user_id").(int64)

	if err := h.Svc.MarkRead(c.Request().Context(), id, uid); err != nil {
		if errors.Is(err, notifsvc.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "notification not found"})
		}
		h.Log.Error("mark read", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "read"})
}
