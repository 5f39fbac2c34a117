package recommendation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/andreyxaxa/Fitness-Center/internal/dto"
	"github.com/andreyxaxa/Fitness-Center/internal/entity"
	"github.com/andreyxaxa/Fitness-Center/internal/infrastructure"
	"github.com/andreyxaxa/Fitness-Center/internal/repo"
	"github.com/andreyxaxa/Fitness-Center/pkg/logger"
	"github.com/andreyxaxa/Fitness-Center/pkg/types/errs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var plansTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "fitness_recommendation_plans_total",
	Help: "Recommendation plans by outcome.",
}, []string{"outcome"})

type UseCase struct {
	goals   repo.GoalProfileRepo
	catalog repo.CatalogRepo
	planner infrastructure.RecommendationAI

	logger logger.Interface
}

func New(goals repo.GoalProfileRepo, catalog repo.CatalogRepo, planner infrastructure.RecommendationAI, l logger.Interface) *UseCase {
	return &UseCase{
		goals:   goals,
		catalog: catalog,
		planner: planner,
		logger:  l,
	}
}

func (uc *UseCase) Plan(ctx context.Context, ownerID string) (dto.RecommendationPlan, error) {
	var plan dto.RecommendationPlan

	if ownerID == "" {
		return plan, fmt.Errorf("RecommendationUseCase - Plan: %w", errs.ErrAuthenticationRequired)
	}

	profile, err := uc.goals.GetByOwner(ctx, ownerID)
	if err != nil {
		plansTotal.WithLabelValues("persistence_error").Inc()
		return plan, fmt.Errorf("RecommendationUseCase - Plan - uc.goals.GetByOwner: %w", asPersistence(err))
	}

	services, err := uc.catalog.ListServices(ctx)
	if err != nil {
		plansTotal.WithLabelValues("persistence_error").Inc()
		return plan, fmt.Errorf("RecommendationUseCase - Plan - uc.catalog.ListServices: %w", asPersistence(err))
	}

	text, err := uc.planner.Plan(ctx, profile, services)
	if err != nil {
		uc.logger.Error(err, "RecommendationUseCase - Plan - uc.planner.Plan: owner=%s has_profile=%t services=%d",
			ownerID, profile != nil, len(services))
		plansTotal.WithLabelValues("degraded").Inc()

		plan.Text = catalogSummary(services)
		plan.Degraded = true
		plan.Notice = dto.DegradedRecommendationNotice

		return plan, nil
	}

	plansTotal.WithLabelValues("planned").Inc()
	plan.Text = text

	return plan, nil
}

// catalogSummary lists every service with its gym, in catalog order.
func catalogSummary(services []entity.Service) string {
	if len(services) == 0 {
		return "No services are available right now."
	}

	var sb strings.Builder
	sb.WriteString("Available services:\n")
	for _, s := range services {
		fmt.Fprintf(&sb, "- %s at %s (%d min)", s.Name, s.Gym.Name, s.DurationMinutes)
		if d := strings.TrimSpace(s.Description); d != "" {
			fmt.Fprintf(&sb, ": %s", d)
		}
		sb.WriteString("\n")
	}

	return strings.TrimSpace(sb.String())
}

func asPersistence(err error) error {
	if errors.Is(err, errs.ErrPersistence) {
		return err
	}

	return fmt.Errorf("%w: %w", errs.ErrPersistence, err)
}
