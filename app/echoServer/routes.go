package echoServer

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/sukisigm69/LiteraSpace/app/echoServer/controller/auth"
	"github.com/sukisigm69/LiteraSpace/app/echoServer/controller/book"
	"github.com/sukisigm69/LiteraSpace/app/echoServer/controller/borrowing"
	"github.com/sukisigm69/LiteraSpace/app/echoServer/controller/favorite"
	"github.com/sukisigm69/LiteraSpace/app/echoServer/controller/history"
	"github.com/sukisigm69/LiteraSpace/app/echoServer/controller/notification"
	"github.com/sukisigm69/LiteraSpace/app/echoServer/controller/user"
)

type C struct {
	Auth         *auth.Controller
	Book         *book.Controller
	Borrowing    *borrowing.Controller
	History      *history.Controller
	Notification *notification.Controller
	Favorite     *favorite.Controller
	User         *user.Controller
	JWTSecret    string
}

func Register(e *echo.Echo, c C) {
	// Public
	pub := e.Group("/v1")
	pub.POST("/users/register", c.Auth.Register)
	pub.POST("/users/login", c.Auth.Login)

	// Auth
	g := e.Group("/v1")
	g.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(c.JWTSecret),

		NewClaimsFunc: func(c echo.Context) jwt.Claims { return jwt.MapClaims{} },
		TokenLookup:   "header:Authorization",
	}))
	// identity extraction: every handler below sees user_id and role
	g.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			tok, ok := ctx.Get("user").(*jwt.Token)
			if !ok || tok == nil {
				return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}
			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}
			sub, ok := claims["sub"].(float64)
			if !ok {
				return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}
			role, _ := claims["role"].(string)

			ctx.Set("user_id", int64(sub))
			ctx.Set("role", role)
			return next(ctx)
		}
	})

	// Books
	g.GET("/books", c.Book.List)
	g.GET("/books/:id", c.Book.Detail)
	// Admin endpoints
	g.POST("/books", c.Book.Create)
	g.PUT("/books/:id", c.Book.Update)
	g.DELETE("/books/:id", c.Book.Delete)
	g.PATCH("/books/:id/stock", c.Book.AdjustStock)

	// Borrowings
	g.POST("/borrowings", c.Borrowing.Create)
	g.GET("/borrowings", c.Borrowing.ListAll)
	g.GET("/borrowings/pending", c.Borrowing.ListPending)
	g.GET("/borrowings/my", c.Borrowing.ListMine)
	g.POST("/borrowings/:id/action", c.Borrowing.Transition)

	// History
	g.GET("/history/my", c.History.Mine)

	// Notifications
	g.GET("/notifications", c.Notification.Mine)
	g.POST("/notifications/:id/read", c.Notification.MarkRead)

	// Favorites
	g.GET("/favorites", c.Favorite.Mine)
	g.POST("/favorites", c.Favorite.Add)
	g.DELETE("/favorites/:bookId", c.Favorite.Remove)

	// Users
	g.GET("/users/me", c.User.Me)
	g.PUT("/users/me", c.User.UpdateProfile)
	g.GET("/users", c.User.List)
	g.PUT("/users/:id/role", c.User.SetRole)
}
