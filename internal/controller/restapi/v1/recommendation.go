package v1

import (
	"net/http"

	"github.com/andreyxaxa/Fitness-Center/internal/controller/restapi/middleware"
	"github.com/andreyxaxa/Fitness-Center/internal/controller/restapi/v1/response"
	"github.com/gofiber/fiber/v2"
)

// @Summary 	Exercise plan
// @Description Builds a personal plan from the member's goals and the service catalog. Falls back to the catalog when the AI provider fails.
// @Tags 		recommendations
// @Produce 	json
// @Security 	BearerAuth
// @Success 	200 {object} response.Recommendation
// @Failure 	401 {object} response.Error "Authentication required"
// @Failure 	500 {object} response.Error "Internal"
// @Router 		/recommendations [get]
func (r *V1) getRecommendations(ctx *fiber.Ctx) error {
	plan, err := r.rec.Plan(ctx.UserContext(), middleware.OwnerID(ctx))
	if err != nil {
		return r.useCaseError(ctx, "getRecommendations", err)
	}

	return ctx.Status(http.StatusOK).JSON(response.Recommendation{
		Plan:     plan.Text,
		Degraded: plan.Degraded,
		Notice:   plan.Notice,
	})
}
