package middleware

import (
	"errors"

	"autovia-backend/internal/domain"
	"autovia-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler is the global error handler. Maps domain errors to their
// status codes and everything else to 500, in the standard error format.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var (
		vErr *domain.ValidationError
		nErr *domain.NotFoundError
		cErr *domain.ConflictError
		fErr *fiber.Error
	)
	switch {
	case errors.As(err, &vErr):
		code = fiber.StatusBadRequest
		message = vErr.Error()
	case errors.As(err, &nErr):
		code = fiber.StatusNotFound
		message = nErr.Error()
	case errors.As(err, &cErr):
		code = fiber.StatusConflict
		message = cErr.Error()
	case errors.As(err, &fErr):
		code = fErr.Code
		message = fErr.Message
	}

	return response.Error(c, message, code, nil)
}
