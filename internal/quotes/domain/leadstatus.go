// Package domain provides core business rules for the quotes bounded context.
package domain

import "time"

// Quote lead statuses. The first group decays through inactivity; the second
// group marks terminal dispositions that the aging and follow-up machinery
// must never touch.
const (
	LeadStatusNew      = "new"
	LeadStatusHot      = "hot"
	LeadStatusWarm     = "warm"
	LeadStatusCold     = "cold"
	LeadStatusArchived = "archived"

	LeadStatusConverted = "converted"
	LeadStatusClosed    = "closed"
	LeadStatusOrder     = "order"
)

// DecayThreshold describes one inactivity demotion rule.
type DecayThreshold struct {
	Target  string
	Sources []string
	After   time.Duration
}

// DecayThresholds is evaluated in order, most-decayed first, so a record
// demoted by a shallower threshold is not immediately re-matched by a deeper
// one in the same pass.
var DecayThresholds = []DecayThreshold{
	{Target: LeadStatusArchived, Sources: []string{LeadStatusCold}, After: 14 * 24 * time.Hour},
	{Target: LeadStatusCold, Sources: []string{LeadStatusWarm}, After: 7 * 24 * time.Hour},
	{Target: LeadStatusWarm, Sources: []string{LeadStatusNew, LeadStatusHot}, After: 3 * 24 * time.Hour},
}

// statusRank orders the decaying statuses from most to least decayed.
// Terminal dispositions have no rank.
var statusRank = map[string]int{
	LeadStatusArchived: 0,
	LeadStatusCold:     1,
	LeadStatusWarm:     2,
	LeadStatusNew:      3,
	LeadStatusHot:      4,
}

// terminalDispositions are statuses set when a quote leaves the nurture
// pipeline for good.
var terminalDispositions = map[string]bool{
	LeadStatusConverted: true,
	LeadStatusClosed:    true,
	LeadStatusOrder:     true,
}

// demotableStatuses may be lowered to cold by the follow-up job after the
// final nurture message.
var demotableStatuses = map[string]bool{
	LeadStatusNew:  true,
	LeadStatusWarm: true,
	LeadStatusHot:  true,
}

func IsKnownLeadStatus(status string) bool {
	_, ok := statusRank[status]
	return ok || terminalDispositions[status]
}

func IsTerminalDisposition(status string) bool {
	return terminalDispositions[status]
}

func IsDemotable(status string) bool {
	return demotableStatuses[status]
}

// CanPromote reports whether an admin may raise from→to. Promotion moves
// strictly toward hot and never applies to terminal dispositions.
func CanPromote(from, to string) bool {
	fromRank, fromOK := statusRank[from]
	toRank, toOK := statusRank[to]
	if !fromOK || !toOK {
		return false
	}
	return toRank > fromRank
}

// NextDecay is the pure aging rule: given a status and its last activity
// timestamp, it returns the status one pass would assign, or false when no
// threshold matches.
func NextDecay(status string, lastActivityAt, now time.Time) (string, bool) {
	for _, threshold := range DecayThresholds {
		if !lastActivityAt.Before(now.Add(-threshold.After)) {
			continue
		}
		for _, source := range threshold.Sources {
			if status == source {
				return threshold.Target, true
			}
		}
	}
	return "", false
}
