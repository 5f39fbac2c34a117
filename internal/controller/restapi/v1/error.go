package v1

import (
	"errors"
	"net/http"

	"github.com/andreyxaxa/Fitness-Center/internal/controller/restapi/v1/response"
	"github.com/andreyxaxa/Fitness-Center/pkg/types/errs"
	"github.com/gofiber/fiber/v2"
)

func errorResponse(ctx *fiber.Ctx, code int, msg string) error {
	return ctx.Status(code).JSON(response.Error{Error: msg})
}

// useCaseError maps use case sentinels to a status. Unknown errors are logged
// and reported as 500.
func (r *V1) useCaseError(ctx *fiber.Ctx, op string, err error) error {
	switch {
	case errors.Is(err, errs.ErrValidation):
		return errorResponse(ctx, http.StatusBadRequest, "invalid request")
	case errors.Is(err, errs.ErrAuthenticationRequired):
		return errorResponse(ctx, http.StatusUnauthorized, "authentication required")
	case errors.Is(err, errs.ErrRecordNotFound):
		return errorResponse(ctx, http.StatusNotFound, "not found")
	}

	r.logger.Error(err, "restapi - v1 - "+op)

	return errorResponse(ctx, http.StatusInternalServerError, "storage problems")
}
