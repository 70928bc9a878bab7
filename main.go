// Package main LiteraSpace API.
//
// @title           LiteraSpace API
// @version         1.0
// @description     digital library service (books, borrowings, notifications, favorites).
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description  Use:  Bearer <JWT>
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/sukisigm69/LiteraSpace/app/echoServer"
	authctrl "github.com/sukisigm69/LiteraSpace/app/echoServer/controller/auth"
	bookctrl "github.com/sukisigm69/LiteraSpace/app/echoServer/controller/book"
	borrowctrl "github.com/sukisigm69/LiteraSpace/app/echoServer/controller/borrowing"
	favctrl "github.com/sukisigm69/LiteraSpace/app/echoServer/controller/favorite"
	historyctrl "github.com/sukisigm69/LiteraSpace/app/echoServer/controller/history"
	notifctrl "github.com/sukisigm69/LiteraSpace/app/echoServer/controller/notification"
	userctrl "github.com/sukisigm69/LiteraSpace/app/echoServer/controller/user"
	"github.com/sukisigm69/LiteraSpace/app/echoServer/validation"
	"github.com/sukisigm69/LiteraSpace/config"
	authrepo "github.com/sukisigm69/LiteraSpace/repository/auth"
	bookrepo "github.com/sukisigm69/LiteraSpace/repository/book"
	borepo "github.com/sukisigm69/LiteraSpace/repository/borrowing"
	coversrepo "github.com/sukisigm69/LiteraSpace/repository/covers"
	favrepo "github.com/sukisigm69/LiteraSpace/repository/favorite"
	historyrepo "github.com/sukisigm69/LiteraSpace/repository/history"
	notifrepo "github.com/sukisigm69/LiteraSpace/repository/notification"
	userrepo "github.com/sukisigm69/LiteraSpace/repository/user"
	authsvc "github.com/sukisigm69/LiteraSpace/service/auth"
	booksvc "github.com/sukisigm69/LiteraSpace/service/book"
	borrowsvc "github.com/sukisigm69/LiteraSpace/service/borrowing"
	favsvc "github.com/sukisigm69/LiteraSpace/service/favorite"
	historysvc "github.com/sukisigm69/LiteraSpace/service/history"
	notifsvc "github.com/sukisigm69/LiteraSpace/service/notification"
	usersvc "github.com/sukisigm69/LiteraSpace/service/user"
	"github.com/sukisigm69/LiteraSpace/util/database"
)

func main() {

	cfg := config.Load()
	ctx := context.Background()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// DB: *sql.DB
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	// repos
	ar := authrepo.New(db)
	ur := userrepo.New(db)
	br := bookrepo.New(db)
	bor := borepo.New(db)
	hr := historyrepo.New(db)
	nr := notifrepo.New(db)
	fr := favrepo.New(db)
	cr := coversrepo.NewHTTP(cfg.CoverAPIURL)

	// services
	as := authsvc.New(ar, cfg.JWTSecret)
	us := usersvc.New(ur)
	bs := booksvc.New(br, cr)
	bos := borrowsvc.New(db, bor)
	hs := historysvc.New(hr)
	ns := notifsvc.New(nr)
	fs := favsvc.New(fr)

	// controllers
	v := validator.New()
	authC := &authctrl.Controller{Svc: as, V: v, Log: log}
	bookC := &bookctrl.Controller{Svc: bs, V: v, Log: log}
	borrowC := &borrowctrl.Controller{Svc: bos, V: v, Log: log}
	historyC := &historyctrl.Controller{Svc: hs, Log: log}
	notifC := &notifctrl.Controller{Svc: ns, Log: log}
	favC := &favctrl.Controller{Svc: fs, V: v, Log: log}
	userC := &userctrl.Controller{Svc: us, V: v, Log: log}

	// echo
	e := echo.New()
	echoServer.RegisterMiddlewares(e)
	e.Validator = validation.New()

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]any{
			"status":  "ok",
			"message": "Service is healthy and connected",
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	echoServer.Register(e, echoServer.C{
		Auth:         authC,
		Book:         bookC,
		Borrowing:    borrowC,
		History:      historyC,
		Notification: notifC,
		Favorite:     favC,
		User:         userC,

		JWTSecret: cfg.JWTSecret,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	log.Info("server starting", "port", port, "env", cfg.Env)
	if err := e.Start(":" + port); err != nil {
		log.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
