package server

import (
	stderrors "errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
)

const payloadKey = "payload"

// Validatable runs the payload's declarative rules.
type Validatable interface {
	Validate() error
}

// Sanitizable normalizes the payload before validation (trimming,
// email normalization).
type Sanitizable interface {
	Sanitize()
}

// Escapable neutralizes markup after validation, so length rules see
// what the user actually typed.
type Escapable interface {
	Escape()
}

// BodyValidator binds the request body into T, runs its sanitation and
// validation, and stores the result for the controller. A violation
// short-circuits with a 400 carrying the field-level detail; the
// controller never runs on invalid input.
func BodyValidator[T any]() fiber.Handler {
	return func(c *fiber.Ctx) error {
		payload := new(T)

		if err := c.BodyParser(payload); err != nil {
			return errors.Wrap(err, errors.CategoryBadInput, "unable to parse request body").
				WithCode(errors.CodeBadRequest)
		}

		if s, ok := any(payload).(Sanitizable); ok {
			s.Sanitize()
		}

		if v, ok := any(payload).(Validatable); ok {
			if err := v.Validate(); err != nil {
				return c.Status(http.StatusBadRequest).JSON(fiber.Map{
					"errors": FormatValidationErrorToMap(err),
				})
			}
		}

		if e, ok := any(payload).(Escapable); ok {
			e.Escape()
		}

		c.Locals(payloadKey, payload)
		return c.Next()
	}
}

// PayloadFromContext retrieves the payload stored by BodyValidator.
func PayloadFromContext[T any](c *fiber.Ctx) *T {
	payload, _ := c.Locals(payloadKey).(*T)
	return payload
}

// FormatValidationErrorToMap flattens ozzo's error set into a
// field → message map for the response body.
func FormatValidationErrorToMap(err error) map[string]string {
	out := map[string]string{}

	var fieldErrs validation.Errors
	if stderrors.As(err, &fieldErrs) {
		for field, ferr := range fieldErrs {
			out[field] = ferr.Error()
		}
		return out
	}

	out["payload"] = err.Error()
	return out
}

// IntParam parses a route parameter that must be an integer, per the
// API contract for :categoryId and :transactionId.
func IntParam(c *fiber.Ctx, name string) (int64, error) {
	v, err := c.ParamsInt(name)
	if err != nil {
		return 0, errors.New(name+" must be an integer", errors.CategoryBadInput).
			WithCode(errors.CodeBadRequest)
	}
	if v < 1 {
		return 0, errors.New(name+" must be a positive integer", errors.CategoryBadInput).
			WithCode(errors.CodeBadRequest)
	}
	return int64(v), nil
}
