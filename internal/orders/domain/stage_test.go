package domain

import "testing"

func TestCanTransitionForwardEdges(t *testing.T) {
	valid := [][2]string{
		{StageDeposit1Pending, StageManufacturing},
		{StageManufacturing, StageDeposit2Pending},
		{StageDeposit2Pending, StageShipping},
		{StageShipping, StageDelivered},
	}
	for _, edge := range valid {
		if !CanTransition(edge[0], edge[1]) {
			t.Errorf("expected %s -> %s to be allowed", edge[0], edge[1])
		}
	}
}

func TestCanTransitionRejectsSkipsAndReversals(t *testing.T) {
	invalid := [][2]string{
		{StageDeposit1Pending, StageDeposit2Pending},
		{StageDeposit1Pending, StageDelivered},
		{StageShipping, StageManufacturing},
		{StageManufacturing, StageDeposit1Pending},
		{StageDelivered, StageShipping},
		{StageDelivered, StageDelivered},
		{"unknown", StageManufacturing},
		{StageManufacturing, "unknown"},
	}
	for _, edge := range invalid {
		if CanTransition(edge[0], edge[1]) {
			t.Errorf("expected %s -> %s to be rejected", edge[0], edge[1])
		}
	}
}

func TestIsKnownStage(t *testing.T) {
	for _, stage := range []string{StageDeposit1Pending, StageManufacturing, StageDeposit2Pending, StageShipping, StageDelivered} {
		if !IsKnownStage(stage) {
			t.Errorf("expected %s to be known", stage)
		}
	}
	if IsKnownStage("in_progress") {
		t.Error("order status should not be a known stage")
	}
}

func TestIsTerminalStage(t *testing.T) {
	if !IsTerminalStage(StageDelivered) {
		t.Error("delivered should be terminal")
	}
	if IsTerminalStage(StageShipping) {
		t.Error("shipping should not be terminal")
	}
}
