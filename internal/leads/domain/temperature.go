// Package domain provides core business rules for the leads bounded context.
package domain

import "time"

// Lead temperatures. Unlike quote lead status there is no archived terminal
// tier; cold is the floor.
const (
	TemperatureHot  = "hot"
	TemperatureWarm = "warm"
	TemperatureCold = "cold"
)

// Workflow statuses are admin-set and independent of temperature.
const (
	WorkflowStatusContacted = "contacted"
	WorkflowStatusQualified = "qualified"
	WorkflowStatusLost      = "lost"
)

// DecayThreshold describes one inactivity demotion rule.
type DecayThreshold struct {
	Target  string
	Sources []string
	After   time.Duration
}

// DecayThresholds is evaluated most-decayed first within a single pass.
var DecayThresholds = []DecayThreshold{
	{Target: TemperatureCold, Sources: []string{TemperatureWarm}, After: 7 * 24 * time.Hour},
	{Target: TemperatureWarm, Sources: []string{TemperatureHot}, After: 3 * 24 * time.Hour},
}

var temperatureRank = map[string]int{
	TemperatureCold: 0,
	TemperatureWarm: 1,
	TemperatureHot:  2,
}

var knownWorkflowStatuses = map[string]struct{}{
	WorkflowStatusContacted: {},
	WorkflowStatusQualified: {},
	WorkflowStatusLost:      {},
}

func IsKnownTemperature(temperature string) bool {
	_, ok := temperatureRank[temperature]
	return ok
}

func IsKnownWorkflowStatus(status string) bool {
	_, ok := knownWorkflowStatuses[status]
	return ok
}

// CanRaise reports whether an admin may raise from→to. The aging job only
// lowers temperature; raising is exclusively an admin action.
func CanRaise(from, to string) bool {
	fromRank, fromOK := temperatureRank[from]
	toRank, toOK := temperatureRank[to]
	if !fromOK || !toOK {
		return false
	}
	return toRank > fromRank
}

// NextDecay is the pure aging rule for a lead: the temperature one pass
// would assign, or false when no threshold matches.
func NextDecay(temperature string, lastActivityAt, now time.Time) (string, bool) {
	for _, threshold := range DecayThresholds {
		if !lastActivityAt.Before(now.Add(-threshold.After)) {
			continue
		}
		for _, source := range threshold.Sources {
			if temperature == source {
				return threshold.Target, true
			}
		}
	}
	return "", false
}
