package server

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-router"
	"github.com/goliatone/go-vote/auth"
	"github.com/goliatone/go-vote/events"
	"github.com/goliatone/go-vote/middleware/jwtware"
	"github.com/google/uuid"
)

type Logger = glog.Logger

func defaultLogger(logger Logger) Logger {
	if logger == nil {
		return glog.NewLogger(glog.WithName("voteapp")).GetLogger("server")
	}
	return logger
}

// UserDirectory is the read side of the user store used by the public endpoints
type UserDirectory interface {
	GetByUsername(ctx context.Context, username string) (*auth.User, error)
	List(ctx context.Context) ([]*auth.User, error)
}

// Registrar creates users
type Registrar interface {
	Execute(ctx context.Context, msg auth.RegisterUserMessage) (*auth.User, error)
}

// LoginService exchanges credentials for an access token
type LoginService interface {
	Login(ctx context.Context, identifier, password string) (string, error)
}

// VoteService is the vote rule engine
type VoteService interface {
	CreateEvent(ctx context.Context, creatorID uuid.UUID, in events.CreateEventInput) (*events.Event, error)
	CastVote(ctx context.Context, userID, eventID uuid.UUID, choice string) (*events.Vote, error)
	GetEvent(ctx context.Context, eventID uuid.UUID) (*events.Event, error)
}

// Deps holds the collaborators the HTTP layer calls into
type Deps struct {
	Users     UserDirectory
	Registrar Registrar
	Login     LoginService
	Gate      jwtware.Resolver
	Events    VoteService
}

// Options configures the fiber app
type Options struct {
	AppName      string
	FrontendHost string
	Debug        bool
	UseHashid    bool
	Logger       Logger
}

// Option mutates Options
type Option func(*Options)

func WithAppName(name string) Option {
	return func(o *Options) {
		if name != "" {
			o.AppName = name
		}
	}
}

// WithFrontendHost sets the allowed CORS origins, comma separated
func WithFrontendHost(origins string) Option {
	return func(o *Options) {
		if origins != "" {
			o.FrontendHost = origins
		}
	}
}

func WithDebug(debug bool) Option {
	return func(o *Options) {
		o.Debug = debug
	}
}

// WithHashid makes registration derive user ids from the email
func WithHashid(enabled bool) Option {
	return func(o *Options) {
		o.UseHashid = enabled
	}
}

func WithLogger(logger Logger) Option {
	return func(o *Options) {
		if logger != nil {
			o.Logger = logger
		}
	}
}

// Server is the router adapter together with the fiber app it drives
type Server struct {
	router.Server[*fiber.App]
	app *fiber.App
}

// App returns the underlying fiber app
func (s *Server) App() *fiber.App {
	return s.app
}

// Shutdown stops accepting connections and waits for in flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// New builds the HTTP server with every route mounted
func New(deps Deps, opts ...Option) *Server {
	o := Options{
		AppName:      "VoteApp",
		FrontendHost: "*",
	}
	for _, opt := range opts {
		opt(&o)
	}
	o.Logger = defaultLogger(o.Logger)

	if deps.Users == nil || deps.Registrar == nil || deps.Login == nil {
		panic("Missing user collaborators in server...")
	}

	if deps.Gate == nil {
		panic("Missing auth gate in server...")
	}

	if deps.Events == nil {
		panic("Missing vote service in server...")
	}

	var app *fiber.App
	srv := router.NewFiberAdapter(func(_ *fiber.App) *fiber.App {
		if app != nil {
			return app
		}
		app = fiber.New(fiber.Config{
			AppName:               o.AppName,
			UnescapePath:          true,
			StrictRouting:         false,
			DisableStartupMessage: true,
			ErrorHandler:          ErrorHandler(o.Logger),
		})
		app.Use(recover.New())
		app.Use(requestid.New())
		app.Use(cors.New(cors.Config{
			AllowOrigins: o.FrontendHost,
			AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		}))
		return app
	})

	srv.Router().WithLogger(o.Logger)

	protected := jwtware.New(jwtware.Config{
		Resolver: deps.Gate,
	})

	RegisterHealthRoutes(srv.Router())
	RegisterUserRoutes(srv.Router(), &UsersController{
		Debug:     o.Debug,
		UseHashid: o.UseHashid,
		Logger:    o.Logger,
		Users:     deps.Users,
		Registrar: deps.Registrar,
		Auther:    deps.Login,
	})
	RegisterEventRoutes(srv.Router(), &EventsController{
		Debug:  o.Debug,
		Logger: o.Logger,
		Events: deps.Events,
	}, protected)

	return &Server{Server: srv, app: app}
}
