package server

import (
	stderrors "errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/moneta-app/moneta/internal/logging"
)

// NewErrorHandler maps rich errors onto the HTTP surface. Categorized
// errors keep their message and code; anything else becomes an opaque
// 500 with the detail kept server-side.
func NewErrorHandler(logger *logging.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if stderrors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(fiber.Map{
				"message": fiberErr.Message,
			})
		}

		var richErr *errors.Error
		if !errors.As(err, &richErr) {
			richErr = errors.Wrap(err, errors.CategoryInternal, "An unexpected server error occurred").
				WithCode(errors.CodeInternal)
		}

		status := richErr.Code
		if status == 0 {
			status = http.StatusInternalServerError
		}

		if status >= http.StatusInternalServerError {
			logger.Error("request failed",
				"error", err,
				"category", richErr.Category,
				"path", c.Path(),
			)
			return c.Status(status).JSON(fiber.Map{
				"message": "Internal server error",
			})
		}

		logger.Info("request rejected",
			"message", richErr.Message,
			"category", richErr.Category,
			"text_code", richErr.TextCode,
			"path", c.Path(),
		)

		return c.Status(status).JSON(fiber.Map{
			"message": richErr.Message,
		})
	}
}

// conflictNamed builds the 409 returned for category name collisions,
// naming the record that holds the name. The advisory check and the
// unique-index backstop both funnel through here so the two race
// outcomes are externally identical.
func conflictNamed(name string) *errors.Error {
	return errors.New("You already have a category named '"+name+"'.", errors.CategoryConflict).
		WithCode(errors.CodeConflict).
		WithTextCode("CATEGORY_NAME_TAKEN")
}

// categoryInUse is the 409 returned while transactions still reference
// the category. The advisory count and the foreign key backstop both
// funnel through here.
func categoryInUse() *errors.Error {
	return errors.New("Cannot delete category because it is still in use by transactions.", errors.CategoryConflict).
		WithCode(errors.CodeConflict).
		WithTextCode("CATEGORY_IN_USE")
}

// notFoundOrForbidden collapses "does not exist" and "not yours" into
// one 404 so probing for other users' record ids reveals nothing.
func notFoundOrForbidden(what string) *errors.Error {
	return errors.New(what+" not found or you do not have permission to access it.", errors.CategoryNotFound).
		WithCode(errors.CodeNotFound)
}
