// Package domain provides core business rules for order fulfillment.
package domain

import "strings"

// Fulfillment stages, in progression order.
const (
	StageDeposit1Pending = "deposit_1_pending"
	StageManufacturing   = "manufacturing"
	StageDeposit2Pending = "deposit_2_pending"
	StageShipping        = "shipping"
	StageDelivered       = "delivered"
)

// Order statuses.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// allowedTransitions maps each stage to the set of stages it may move to.
// Stages only advance; they never skip or reverse.
var allowedTransitions = map[string][]string{
	StageDeposit1Pending: {StageManufacturing},
	StageManufacturing:   {StageDeposit2Pending},
	StageDeposit2Pending: {StageShipping},
	StageShipping:        {StageDelivered},
	StageDelivered:       {},
}

// IsKnownStage reports whether stage is part of the fulfillment pipeline.
func IsKnownStage(stage string) bool {
	_, ok := allowedTransitions[stage]
	return ok
}

// CanTransition reports whether from→to is an allowed edge.
func CanTransition(from, to string) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// AllowedNextStages returns the stages reachable from the given stage.
func AllowedNextStages(from string) []string {
	return allowedTransitions[from]
}

// AllowedNextStagesText renders the allowed set for error messages.
func AllowedNextStagesText(from string) string {
	next := allowedTransitions[from]
	if len(next) == 0 {
		return "none"
	}
	return strings.Join(next, ", ")
}

// IsTerminalStage reports whether the stage ends the pipeline.
func IsTerminalStage(stage string) bool {
	return stage == StageDelivered
}
