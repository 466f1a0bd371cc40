package server

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
)

// ErrInvalidEventID is returned when the event id path segment is not a uuid
var ErrInvalidEventID = goerrors.New("Invalid event UUID", goerrors.CategoryBadInput).
	WithCode(http.StatusUnprocessableEntity).
	WithTextCode("INVALID_EVENT_ID")

// ErrInvalidPayload is returned when a request body cannot be parsed
var ErrInvalidPayload = goerrors.New("Invalid request payload", goerrors.CategoryBadInput).
	WithCode(goerrors.CodeBadRequest).
	WithTextCode("INVALID_PAYLOAD")

// ErrInvalidExpiresAt is returned when expires_at is not an RFC 3339 timestamp with an offset
var ErrInvalidExpiresAt = goerrors.New("expires_at must be an RFC 3339 timestamp with a timezone, e.g. 2030-01-01T10:00:00Z", goerrors.CategoryBadInput).
	WithCode(goerrors.CodeBadRequest).
	WithTextCode("INVALID_EXPIRES_AT")

const internalErrorDetail = "An unexpected server error occurred"

// Detail is the response body used for messages and errors
type Detail struct {
	Detail string `json:"detail"`
}

func newValidationError(err error, msg string) *goerrors.Error {
	return goerrors.Wrap(err, goerrors.CategoryValidation, msg).
		WithCode(goerrors.CodeBadRequest).
		WithTextCode("VALIDATION_ERROR")
}

// ErrorHandler renders every error as {"detail": msg}. Errors that are not
// go-errors values are reported with a generic message.
func ErrorHandler(logger Logger) fiber.ErrorHandler {
	logger = defaultLogger(logger)

	return func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(Detail{Detail: fiberErr.Message})
		}

		var richErr *goerrors.Error
		if !goerrors.As(err, &richErr) {
			richErr = goerrors.Wrap(err, goerrors.CategoryInternal, internalErrorDetail).
				WithCode(goerrors.CodeInternal)
		}

		status := richErr.Code
		if status < 400 || status > 599 {
			status = http.StatusInternalServerError
		}

		if status >= http.StatusInternalServerError {
			logger.Error("request failed",
				"error", err,
				"category", richErr.Category,
				"text_code", richErr.TextCode,
				"path", c.OriginalURL(),
			)
		} else {
			logger.Debug("request rejected",
				"status", status,
				"text_code", richErr.TextCode,
				"path", c.OriginalURL(),
				"details", print.MaybePrettyJSON(richErr.Metadata),
			)
		}

		return c.Status(status).JSON(Detail{Detail: richErr.Message})
	}
}
