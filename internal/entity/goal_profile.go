package entity

import "time"

type GoalProfile struct {
	OwnerID         string    `json:"owner_id"`
	GoalType        GoalType  `json:"goal_type"`
	HeightCm        *float64  `json:"height_cm,omitempty"`
	WeightKg        *float64  `json:"weight_kg,omitempty"`
	TargetWeightKg  *float64  `json:"target_weight_kg,omitempty"`
	SessionsPerWeek int       `json:"sessions_per_week"`
	Notes           string    `json:"notes,omitempty"`
	UpdatedAt       time.Time `json:"updated_at"`
}
