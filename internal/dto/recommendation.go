package dto

const DegradedRecommendationNotice = "The AI service cannot prepare a personal plan right now. Showing the service catalog instead."

type RecommendationPlan struct {
	Text     string
	Degraded bool
	Notice   string
}
