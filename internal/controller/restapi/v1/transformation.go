package v1

import (
	"fmt"
	"net/http"

	"github.com/andreyxaxa/Fitness-Center/internal/controller/restapi/middleware"
	"github.com/andreyxaxa/Fitness-Center/internal/controller/restapi/v1/response"
	"github.com/andreyxaxa/Fitness-Center/internal/controller/restapi/v1/validate"
	"github.com/andreyxaxa/Fitness-Center/internal/dto"
	"github.com/gofiber/fiber/v2"
)

// @Summary  	Submit a body transformation
// @Description Stores the photo, records the request and asks the AI provider for a goal projection. When the provider fails the original photo is returned with a notice.
// @Tags 		transformations
// @Accept 		mpfd
// @Produce 	json
// @Security 	BearerAuth
// @Param 		file 	  		formData file   true  "Photo (jpg, png, webp)"
// @Param 		goal_type 		formData string true  "Goal" Enums(cut, bulk, recomposition)
// @Param 		duration_months formData int    false "Duration in months, 12 when omitted"
// @Param 		start_weight_kg formData number false "Current weight"
// @Success 	201 {object} response.SubmitTransformation
// @Failure 	400 {object} response.Error "Empty file or wrong parameters"
// @Failure 	401 {object} response.Error "Authentication required"
// @Failure 	413 {object} response.Error "File too large"
// @Failure 	415 {object} response.Error "Unsupported format"
// @Failure 	500 {object} response.Error "Internal"
// @Router 		/transformations [post]
func (r *V1) submitTransformation(ctx *fiber.Ctx) error {
	file, err := ctx.FormFile("file")
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "file is required")
	}

	// 1. size
	if file.Size == 0 {
		return errorResponse(ctx, http.StatusBadRequest, "file is empty")
	}

	if file.Size > r.maxFileSize {
		return errorResponse(ctx, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("file size cant be more than %d bytes", r.maxFileSize))
	}

	// 2. format
	if !validate.ImageFile(file.Filename, file.Header.Get(fiber.HeaderContentType)) {
		return errorResponse(ctx, http.StatusUnsupportedMediaType, "unsupported file type. Allowed: jpeg, png, webp")
	}

	// 3. goal parameters
	goal, err := validate.GoalType(ctx.FormValue("goal_type"))
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, err.Error())
	}

	months, err := validate.DurationMonths(ctx.FormValue("duration_months"))
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, err.Error())
	}

	weight, err := validate.StartWeightKg(ctx.FormValue("start_weight_kg"))
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, err.Error())
	}

	// 4. open the upload
	fileReader, err := file.Open()
	if err != nil {
		r.logger.Error(err, "restapi - v1 - submitTransformation")

		return errorResponse(ctx, http.StatusInternalServerError, "problems with opening the file")
	}
	defer fileReader.Close()

	// 5. submit
	result, err := r.tr.Submit(ctx.UserContext(), dto.SubmitTransformation{
		OwnerID:          middleware.OwnerID(ctx),
		GoalType:         goal,
		DurationMonths:   months,
		StartWeightKg:    weight,
		Image:            fileReader,
		ImageSize:        file.Size,
		OriginalFileName: file.Filename,
	})
	if err != nil {
		return r.useCaseError(ctx, "submitTransformation", err)
	}

	return ctx.Status(http.StatusCreated).JSON(response.SubmitTransformation{
		Transformation: response.NewTransformation(result.Request),
		Degraded:       result.Degraded,
		Notice:         result.Notice,
	})
}

// @Summary 	Transformation history
// @Description Lists the member's transformation requests, newest first
// @Tags 		transformations
// @Produce 	json
// @Security 	BearerAuth
// @Success 	200 {object} response.TransformationHistory
// @Failure 	401 {object} response.Error "Authentication required"
// @Failure 	500 {object} response.Error "Internal"
// @Router 		/transformations [get]
func (r *V1) listTransformations(ctx *fiber.Ctx) error {
	requests, err := r.tr.ListByOwner(ctx.UserContext(), middleware.OwnerID(ctx))
	if err != nil {
		return r.useCaseError(ctx, "listTransformations", err)
	}

	return ctx.Status(http.StatusOK).JSON(response.NewTransformationHistory(requests))
}
