package auth

import (
	"context"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-vote/persistence"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/uptrace/bun"
)

// RegisterUserMessage carries a registration request
type RegisterUserMessage struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	FullName  string `json:"full_name"`
	Password  string `json:"password"`
	UseHashid bool   `json:"-"`
}

func (e RegisterUserMessage) Type() string { return "user.register" }

// Validate will run validation rules
func (e RegisterUserMessage) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Email, validation.Required, validation.Length(3, 254), is.Email),
		validation.Field(&e.Username, validation.Required, validation.Length(1, 100)),
		validation.Field(&e.FullName, validation.Length(0, 200)),
		// bcrypt only reads the first 72 bytes
		validation.Field(&e.Password, validation.Required, validation.Length(1, 72)),
	)
}

// RegisterUserHandler creates users
type RegisterUserHandler struct {
	repo   Users
	tx     persistence.TransactionManager
	hasher PasswordAuthenticator
	logger Logger
}

func NewRegisterUserHandler(repo Users, tx persistence.TransactionManager, hasher PasswordAuthenticator, logger Logger) *RegisterUserHandler {
	return &RegisterUserHandler{
		repo:   repo,
		tx:     tx,
		hasher: hasher,
		logger: defaultLogger(logger),
	}
}

func (h *RegisterUserHandler) Execute(ctx context.Context, event RegisterUserMessage) (*User, error) {
	select {
	case <-ctx.Done():
		return nil, goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during user registration",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RegisterUserHandler) execute(ctx context.Context, event RegisterUserMessage) (*User, error) {
	event.Email = strings.TrimSpace(event.Email)
	event.Username = strings.TrimSpace(event.Username)

	if err := event.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid registration payload").
			WithCode(goerrors.CodeBadRequest)
	}

	hash, err := h.hasher.HashPassword(event.Password)
	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, richErr
		}
		h.logger.Error("register user hash password", "error", err)
		return nil, ErrPersistence
	}

	user := &User{
		Email:        event.Email,
		Username:     event.Username,
		FullName:     strings.TrimSpace(event.FullName),
		PasswordHash: hash,
	}

	if event.UseHashid {
		if id, err := hashid.NewUUID(event.Email); err == nil {
			user.ID = id
		}
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err = h.tx.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := h.repo.RegisterTx(ctx, tx, user)
		return err
	})

	if err != nil {
		if persistence.IsUniqueViolation(err) {
			return nil, ErrUserAlreadyExists
		}
		h.logger.Error("user registration transaction failed", "error", err)
		return nil, ErrPersistence
	}

	h.logger.Info("user registered", "user_id", user.ID.String(), "username", user.Username)

	return user, nil
}
