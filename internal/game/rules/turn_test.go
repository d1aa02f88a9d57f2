package rules

import "testing"

func TestTurnSequence(t *testing.T) {
	tm := NewTurnManager("p1")

	if tm.TurnNumber() != 1 {
		t.Fatalf("turn number = %d, want 1", tm.TurnNumber())
	}
	if tm.CurrentStep() != StepUntap || tm.CurrentPhase() != PhaseBeginning {
		t.Fatalf("initial position = %s/%s", tm.CurrentPhase(), tm.CurrentStep())
	}

	want := []struct {
		phase Phase
		step  Step
	}{
		{PhaseBeginning, StepUpkeep},
		{PhaseBeginning, StepDraw},
		{PhasePrecombatMain, StepMain1},
		{PhaseCombat, StepBeginCombat},
		{PhaseCombat, StepDeclareAttackers},
		{PhaseCombat, StepDeclareBlockers},
		{PhaseCombat, StepCombatDamage},
		{PhaseCombat, StepEndCombat},
		{PhasePostcombatMain, StepMain2},
		{PhaseEnding, StepEnd},
		{PhaseEnding, StepCleanup},
	}
	for i, w := range want {
		phase, step := tm.AdvanceStep("")
		if phase != w.phase || step != w.step {
			t.Errorf("advance %d = %s/%s, want %s/%s", i+1, phase, step, w.phase, w.step)
		}
	}
}

func TestTurnWrapRotatesActivePlayer(t *testing.T) {
	tm := NewTurnManager("p1")

	for i := 0; i < 11; i++ {
		tm.AdvanceStep("")
	}
	if !tm.TurnWrapped() {
		t.Fatal("cleanup should be the last step of the turn")
	}

	phase, step := tm.AdvanceStep("p2")
	if phase != PhaseBeginning || step != StepUntap {
		t.Errorf("new turn starts at %s/%s", phase, step)
	}
	if tm.TurnNumber() != 2 {
		t.Errorf("turn number = %d, want 2", tm.TurnNumber())
	}
	if tm.ActivePlayer() != "p2" {
		t.Errorf("active player = %s, want p2", tm.ActivePlayer())
	}
}

func TestStepPriorityRounds(t *testing.T) {
	for _, step := range []Step{StepUntap, StepCleanup} {
		if step.HasPriorityRound() {
			t.Errorf("%s should not open a priority round", step)
		}
	}
	for _, step := range []Step{StepUpkeep, StepDraw, StepMain1, StepDeclareAttackers, StepCombatDamage, StepEnd} {
		if !step.HasPriorityRound() {
			t.Errorf("%s should open a priority round", step)
		}
	}
}

func TestPhaseIsMain(t *testing.T) {
	if !PhasePrecombatMain.IsMain() || !PhasePostcombatMain.IsMain() {
		t.Error("main phases not reported as main")
	}
	if PhaseBeginning.IsMain() || PhaseCombat.IsMain() || PhaseEnding.IsMain() {
		t.Error("non-main phase reported as main")
	}
}
