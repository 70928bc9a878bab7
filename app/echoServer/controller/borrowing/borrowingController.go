package borrowing

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/sukisigm69/LiteraSpace/model"
	bs "github.com/sukisigm69/LiteraSpace/service/borrowing"
)

type Controller struct {
	Svc bs.Service
	V   *validator.Validate
	Log *slog.Logger
}

func caller(c echo.Context) (int64, string) {
	uid, _ := c.Get("user_id").(int64)
	role, _ := c.Get("role").(string)
	return uid, role
}

// Create a borrow request
// @Summary      Request a borrowing
// @Tags         borrowings
// @Accept       json
// @Produce      json
// @Param        payload  body  CreateBorrowReq  true  "Borrow payload"
// @Success      201  {object}  map[string]any
// @Failure      404  {object}  map[string]any "book not found"
// @Failure      409  {object}  map[string]any "out of stock"
// @Router       /v1/borrowings [post]
func (h *Controller) Create(c echo.Context) error {
	var req CreateBorrowReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}
	uid, _ := caller(c)

	out, err := h.Svc.Request(c.Request().Context(), uid, req.BookID)
	if err != nil {
		switch bs.Code(err) {
		case bs.ErrBookNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "book not found"})
		case bs.ErrOutOfStock:
			return c.JSON(http.StatusConflict, echo.Map{"message": "book out of stock"})
		default:
			h.Log.Error("borrow create", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"borrowing_id": out.BorrowingID,
		"status":       model.BorrowPending,
		"book_title":   out.BookTitle,
	})
}

// Transition applies a staff action to a borrowing
// @Summary      Approve/decline/return/close/write off a borrowing
// @Tags         borrowings
// @Accept       json
// @Produce      json
// @Param        id       path  int            true  "Borrowing id"
// @Param        payload  body  TransitionReq  true  "Action payload"
// @Success      200  {object}  map[string]any
// @Failure      403  {object}  map[string]any "caller is not staff"
// @Failure      404  {object}  map[string]any "borrowing not found"
// @Failure      409  {object}  map[string]any "invalid transition or out of stock"
// @Router       /v1/borrowings/{id}/action [post]
func (h *Controller) Transition(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req TransitionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}
	uid, role := caller(c)

	if err := h.Svc.Transition(c.Request().Context(), id, model.BorrowAction(req.Action), uid, role); err != nil {
		switch bs.Code(err) {
		case bs.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
		case bs.ErrBorrowingNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "borrowing not found"})
		case bs.ErrInvalidTransition:
			return c.JSON(http.StatusConflict, echo.Map{"message": "action not valid for current status"})
		case bs.ErrOutOfStock:
			return c.JSON(http.StatusConflict, echo.Map{"message": "book out of stock"})
		default:
			h.Log.Error("borrow transition", "err", err, "borrowing_id", id, "action", req.Action)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "ok"})
}

// GET /v1/borrowings  (staff)
func (h *Controller) ListAll(c echo.Context) error {
	_, role := caller(c)
	if !model.StaffRole(role) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	rows, err := h.Svc.ListAll(c.Request().Context())
	if err != nil {
		h.Log.Error("borrowings list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/borrowings/pending  (staff)
func (h *Controller) ListPending(c echo.Context) error {
	_, role := caller(c)
	if !model.StaffRole(role) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	rows, err := h.Svc.ListPending(c.Request().Context())
	if err != nil {
		h.Log.Error("pending list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/borrowings/my
func (h *Controller) ListMine(c echo.Context) error {
	uid, _ := caller(c)
	rows, err := h.Svc.ListMine(c.Request().Context(), uid)
	if err != nil {
		h.Log.Error("my borrowings", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}
