package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-vote/auth"
	"github.com/goliatone/go-vote/config"
	"github.com/goliatone/go-vote/events"
	"github.com/goliatone/go-vote/persistence"
	"github.com/goliatone/go-vote/server"
	"github.com/uptrace/bun"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config *config.Config
	logger *glog.BaseLogger
	bunDB  *bun.DB
	srv    *server.Server
}

func (a *App) GetLogger(name string) glog.Logger {
	return a.logger.GetLogger(name)
}

func (a *App) SetLogger(lgr *glog.BaseLogger) *App {
	a.logger = lgr
	return a
}

func main() {
	configPath := flag.String("config", "", "optional config file (yaml, json or toml)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	app := &App{config: cfg}
	app.SetLogger(newLogger(cfg.LogLevel))

	if cfg.Debug {
		fmt.Println("============")
		fmt.Println(print.MaybePrettyJSON(cfg))
		fmt.Println("============")
	}

	ctx := context.Background()

	if err := WithPersistence(ctx, app); err != nil {
		app.GetLogger("app").Error("persistence setup", "error", err)
		os.Exit(1)
	}
	defer app.bunDB.Close()

	if err := WithHTTPServer(ctx, app); err != nil {
		app.GetLogger("app").Error("http setup", "error", err)
		os.Exit(1)
	}

	logger := app.GetLogger("app")

	go func() {
		logger.Info("listening", "addr", cfg.ServerAddr, "app", cfg.AppName, "version", cfg.AppVersion)
		if err := app.srv.Serve(cfg.ServerAddr); err != nil {
			logger.Error("server stopped", "error", err)
		}
	}()

	sig := WaitExitSignal()
	logger.Info("shutting down", "signal", sig.String())

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := app.srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
}

func WithPersistence(ctx context.Context, app *App) error {
	tables := append(auth.Tables(), events.Tables()...)
	persistence.RegisterModels(tables...)

	db, err := persistence.Open(ctx, app.config.DatabaseURL,
		persistence.WithDebug(app.config.Debug),
		persistence.WithLogger(app.GetLogger("persistence")),
	)
	if err != nil {
		return err
	}

	if err := persistence.Migrate(ctx, db, tables...); err != nil {
		db.Close()
		return err
	}

	app.bunDB = db
	return nil
}

func WithHTTPServer(_ context.Context, app *App) error {
	cfg := app.config

	users := auth.NewUsersRepository(app.bunDB)
	manager := persistence.NewManager(app.bunDB)
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)

	tokens := auth.NewTokenServiceFromConfig(cfg, auth.WithTokenLogger(app.GetLogger("auth:token")))
	auther := auth.NewAuthenticator(users, hasher, tokens).WithLogger(app.GetLogger("auth"))
	gate := auth.NewGate(tokens, users, app.GetLogger("auth:gate"))
	register := auth.NewRegisterUserHandler(users, manager, hasher, app.GetLogger("auth:register"))

	votes := events.NewService(
		events.NewRepository(app.bunDB),
		events.WithLogger(app.GetLogger("events")),
	)

	app.srv = server.New(server.Deps{
		Users:     users,
		Registrar: register,
		Login:     auther,
		Gate:      gate,
		Events:    votes,
	},
		server.WithAppName(cfg.AppName),
		server.WithFrontendHost(cfg.FrontendHost),
		server.WithDebug(cfg.Debug),
		server.WithHashid(cfg.UseHashid),
		server.WithLogger(app.GetLogger("http")),
	)

	return nil
}

func newLogger(level string) *glog.BaseLogger {
	lvl := glog.Info
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		lvl = glog.Trace
	case "debug":
		lvl = glog.Debug
	case "warn", "warning":
		lvl = glog.Warn
	case "error":
		lvl = glog.Error
	}

	return glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(lvl),
		glog.WithName("voteapp"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(goerrors.ToSlogAttributes),
	)
}

func WaitExitSignal() os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return <-ch
}
