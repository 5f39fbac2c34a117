package transformation

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeReconciled  = "reconciled"
	outcomeDegraded    = "degraded"
	outcomeRejected    = "rejected"
	outcomePersistence = "persistence_error"
	outcomeDropped     = "dropped"
	outcomeGaveUp      = "gave_up"
	outcomeNoop        = "noop"
)

var (
	submissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fitness_transformation_submissions_total",
		Help: "Transformation submissions by outcome.",
	}, []string{"outcome"})
	backgroundReconcilesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fitness_transformation_background_reconciles_total",
		Help: "Background reconciliation attempts by outcome.",
	}, []string{"outcome"})
)
