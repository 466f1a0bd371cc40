package server

import (
	"net/http"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
	"github.com/goliatone/go-vote/auth"
	"github.com/goliatone/go-vote/persistence"
)

const (
	registeredMessage = "Successfully registered user"
	tokenTypeBearer   = "bearer"
)

func RegisterUserRoutes[T any](app router.Router[T], controller *UsersController) {
	users := app.Group("/users")
	users.Post("/", controller.Register).SetName("users.register")
	users.Post("/login", controller.Login).SetName("users.login")
	users.Get("/", controller.List).SetName("users.list")
	users.Get("/:username", controller.GetByUsername).SetName("users.get")
}

type UsersController struct {
	Debug     bool
	UseHashid bool
	Logger    Logger
	Users     UserDirectory
	Registrar Registrar
	Auther    LoginService
}

// RegisterPayload is the registration body
type RegisterPayload struct {
	Email    string `form:"email" json:"email"`
	Username string `form:"username" json:"username"`
	FullName string `form:"full_name" json:"full_name"`
	Password string `form:"password" json:"password"`
}

// LoginPayload accepts either username or identifier, matching the
// OAuth2 password form
type LoginPayload struct {
	Username   string `form:"username" json:"username"`
	Identifier string `form:"identifier" json:"identifier"`
	Password   string `form:"password" json:"password"`
}

// GetIdentifier returns the identifier, falling back to the username
func (r LoginPayload) GetIdentifier() string {
	if id := strings.TrimSpace(r.Identifier); id != "" {
		return id
	}
	return strings.TrimSpace(r.Username)
}

// Validate will run validation rules
func (r LoginPayload) Validate() error {
	identifier := r.GetIdentifier()
	return validation.Errors{
		"username": validation.Validate(identifier, validation.Required),
		"password": validation.Validate(r.Password, validation.Required),
	}.Filter()
}

// TokenResponse is the login response body
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// UserInfo is the public view of a user
type UserInfo struct {
	Email     string     `json:"email"`
	Username  string     `json:"username"`
	FullName  string     `json:"full_name"`
	CreatedAt *time.Time `json:"created_at"`
}

func NewUserInfo(u *auth.User) UserInfo {
	return UserInfo{
		Email:     u.Email,
		Username:  u.Username,
		FullName:  u.FullName,
		CreatedAt: u.CreatedAt,
	}
}

func (a *UsersController) Register(ctx router.Context) error {
	payload := new(RegisterPayload)
	if err := ctx.Bind(payload); err != nil {
		a.Logger.Warn("register user parse payload", "error", err)
		return ErrInvalidPayload
	}

	if a.Debug {
		a.Logger.Debug("register user payload", "payload", print.MaybePrettyJSON(RegisterPayload{
			Email:    payload.Email,
			Username: payload.Username,
			FullName: payload.FullName,
		}))
	}

	_, err := a.Registrar.Execute(ctx.Context(), auth.RegisterUserMessage{
		Email:     payload.Email,
		Username:  payload.Username,
		FullName:  payload.FullName,
		Password:  payload.Password,
		UseHashid: a.UseHashid,
	})
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, Detail{Detail: registeredMessage})
}

func (a *UsersController) Login(ctx router.Context) error {
	payload := new(LoginPayload)
	if err := ctx.Bind(payload); err != nil {
		a.Logger.Warn("login parse payload", "error", err)
		return ErrInvalidPayload
	}

	if err := payload.Validate(); err != nil {
		return newValidationError(err, "Username and password are required")
	}

	token, err := a.Auther.Login(ctx.Context(), payload.GetIdentifier(), payload.Password)
	if err != nil {
		return err
	}

	return ctx.JSON(router.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   tokenTypeBearer,
	})
}

func (a *UsersController) List(ctx router.Context) error {
	users, err := a.Users.List(ctx.Context())
	if err != nil {
		a.Logger.Error("list users", "error", err)
		return auth.ErrPersistence
	}

	out := make([]UserInfo, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserInfo(u))
	}

	return ctx.JSON(router.StatusOK, out)
}

func (a *UsersController) GetByUsername(ctx router.Context) error {
	user, err := a.Users.GetByUsername(ctx.Context(), ctx.Param("username"))
	if err != nil {
		if persistence.IsRecordNotFound(err) {
			return auth.ErrUserNotFound
		}
		a.Logger.Error("get user by username", "error", err)
		return auth.ErrPersistence
	}

	return ctx.JSON(router.StatusOK, NewUserInfo(user))
}
