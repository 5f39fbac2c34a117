package gemini

import (
	"fmt"
	"strings"

	"github.com/andreyxaxa/Fitness-Center/internal/dto"
	"github.com/andreyxaxa/Fitness-Center/internal/entity"
)

const plannerSystemPrompt = `You are a certified personal trainer working at a fitness center.
Write a practical weekly exercise plan for the member described by the user.
Only recommend services from the provided catalog and mention the gym for each one.
Keep the answer under 300 words, use short bullet points, and do not give medical advice.`

var goalDescriptions = map[entity.GoalType]string{
	entity.GoalCut:           "lose body fat while keeping muscle (cut)",
	entity.GoalBulk:          "gain muscle mass (bulk)",
	entity.GoalRecomposition: "lose fat and gain muscle at the same time (recomposition)",
}

func transformationPrompt(in dto.TransformationInput) string {
	var sb strings.Builder

	sb.WriteString("Edit this photo of a gym member to show a realistic projection of their body ")
	fmt.Fprintf(&sb, "after %d months of consistent training with the goal to %s.", in.DurationMonths, describeGoal(in.GoalType))
	if in.StartWeightKg != nil {
		fmt.Fprintf(&sb, " Their current weight is %.1f kg.", *in.StartWeightKg)
	}
	sb.WriteString(" Keep the face, pose, clothing, background and lighting unchanged; only change body composition.")
	sb.WriteString(" Return the edited image, and as text only a JSON object ")
	sb.WriteString(`{"expected_change_percent": <number>} with the expected change of body weight in percent `)
	sb.WriteString("(negative for weight loss).")

	return sb.String()
}

func plannerPrompt(profile *entity.GoalProfile, catalog []entity.Service) string {
	var sb strings.Builder

	sb.WriteString("Member profile:\n")
	fmt.Fprintf(&sb, "- goal: %s\n", describeGoal(profile.GoalType))
	writeOptional(&sb, "height", profile.HeightCm, "cm")
	writeOptional(&sb, "current weight", profile.WeightKg, "kg")
	writeOptional(&sb, "target weight", profile.TargetWeightKg, "kg")
	if profile.SessionsPerWeek > 0 {
		fmt.Fprintf(&sb, "- available sessions per week: %d\n", profile.SessionsPerWeek)
	}
	if notes := strings.TrimSpace(profile.Notes); notes != "" {
		fmt.Fprintf(&sb, "- notes: %s\n", notes)
	}

	sb.WriteString("\nService catalog:\n")
	writeCatalog(&sb, catalog)

	return sb.String()
}

// missingProfilePlan is returned without calling the model.
func missingProfilePlan(catalog []entity.Service) string {
	var sb strings.Builder

	sb.WriteString("Set your fitness goals in your profile to get a personal exercise plan.\n")
	if len(catalog) > 0 {
		sb.WriteString("\nMeanwhile, these services are available:\n")
		writeCatalog(&sb, catalog)
	}

	return strings.TrimSpace(sb.String())
}

func writeCatalog(sb *strings.Builder, catalog []entity.Service) {
	if len(catalog) == 0 {
		sb.WriteString("- (no services available)\n")
		return
	}

	for _, s := range catalog {
		fmt.Fprintf(sb, "- %s at %s (%d min)", s.Name, s.Gym.Name, s.DurationMinutes)
		if d := strings.TrimSpace(s.Description); d != "" {
			fmt.Fprintf(sb, ": %s", d)
		}
		sb.WriteString("\n")
	}
}

func writeOptional(sb *strings.Builder, name string, v *float64, unit string) {
	if v == nil {
		return
	}
	fmt.Fprintf(sb, "- %s: %.1f %s\n", name, *v, unit)
}

func describeGoal(g entity.GoalType) string {
	if d, ok := goalDescriptions[g]; ok {
		return d
	}

	return string(g)
}
