package v1

import (
	"github.com/gofiber/fiber/v2"
)

// @Summary 	Get image
// @Description Streams an original or generated image
// @Tags 		images
// @Produce 	image/jpeg,image/png,image/webp
// @Param 		scope path string true "Scope" Enums(original, generated)
// @Param 		name  path string true "File name"
// @Success 	200 {file} 	binary
// @Failure 	400 {object} response.Error "Invalid reference"
// @Failure 	404 {object} response.Error "Image not found"
// @Failure 	500 {object} response.Error "Internal"
// @Router 		/images/uploads/{scope}/{name} [get]
func (r *V1) getImage(ctx *fiber.Ctx) error {
	ref := "/uploads/" + ctx.Params("scope") + "/" + ctx.Params("name")

	body, contentType, err := r.tr.OpenImage(ctx.UserContext(), ref)
	if err != nil {
		return r.useCaseError(ctx, "getImage", err)
	}

	ctx.Set(fiber.HeaderContentType, contentType)
	ctx.Set(fiber.HeaderCacheControl, "private, max-age=86400")

	return ctx.SendStream(body)
}
