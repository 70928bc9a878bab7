package history

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	historysvc "github.com/sukisigm69/LiteraSpace/service/history"
)

type Controller struct {
	Svc historysvc.Service
	Log *slog.Logger
}

// GET /v1/history/my
func (h *Controller) Mine(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)
	rows, err := h.Svc.Mine(c.Request().Context(), uid)
	if err != nil {
		h.Log.Error("history", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}
