package rules

import (
	"errors"
	"testing"
)

func TestPriorityRotation(t *testing.T) {
	pt := NewPriorityTracker([]string{"p1", "p2", "p3"})
	pt.Reset("p1")

	if pt.Holder() != "p1" {
		t.Fatalf("holder = %s, want p1", pt.Holder())
	}

	all, err := pt.Pass("p1")
	if err != nil || all {
		t.Fatalf("first pass: all=%v err=%v", all, err)
	}
	if pt.Holder() != "p2" {
		t.Errorf("holder after p1 pass = %s, want p2", pt.Holder())
	}

	if all, _ := pt.Pass("p2"); all {
		t.Error("all passed after two of three passes")
	}
	all, err = pt.Pass("p3")
	if err != nil {
		t.Fatalf("third pass: %v", err)
	}
	if !all {
		t.Error("three consecutive passes should report all passed")
	}
}

func TestPriorityPassByWrongPlayer(t *testing.T) {
	pt := NewPriorityTracker([]string{"p1", "p2"})
	pt.Reset("p1")

	if _, err := pt.Pass("p2"); !errors.Is(err, ErrNotPriorityHolder) {
		t.Errorf("pass by non-holder: got %v, want ErrNotPriorityHolder", err)
	}
	if pt.Passes() != 0 {
		t.Errorf("rejected pass incremented counter to %d", pt.Passes())
	}
}

func TestPriorityResetClearsPasses(t *testing.T) {
	pt := NewPriorityTracker([]string{"p1", "p2", "p3"})
	pt.Reset("p1")
	pt.Pass("p1")
	pt.Pass("p2")

	// A cast or resolution resets priority to the active player.
	pt.Reset("p1")
	if pt.Passes() != 0 {
		t.Errorf("passes after reset = %d, want 0", pt.Passes())
	}
	if pt.Holder() != "p1" {
		t.Errorf("holder after reset = %s, want p1", pt.Holder())
	}

	// The full rotation must pass again from scratch.
	pt.Pass("p1")
	pt.Pass("p2")
	if all, _ := pt.Pass("p3"); !all {
		t.Error("fresh full rotation should report all passed")
	}
}

func TestPriorityRemovePlayer(t *testing.T) {
	pt := NewPriorityTracker([]string{"p1", "p2", "p3", "p4"})
	pt.Reset("p1")

	pt.Remove("p3")
	if pt.Size() != 3 {
		t.Fatalf("size after remove = %d, want 3", pt.Size())
	}

	// Two live players remaining after another removal: all-passed threshold
	// shrinks with the rotation.
	pt.Remove("p4")
	pt.Reset("p1")
	pt.Pass("p1")
	if all, _ := pt.Pass("p2"); !all {
		t.Error("two passes in a two-player rotation should report all passed")
	}
}

func TestPriorityRemoveHolderAdvances(t *testing.T) {
	pt := NewPriorityTracker([]string{"p1", "p2", "p3"})
	pt.Reset("p2")

	pt.Remove("p2")
	if pt.Holder() != "p3" {
		t.Errorf("holder after removing holder = %s, want p3", pt.Holder())
	}
}

func TestPriorityRemoveBeforeHolderKeepsHolder(t *testing.T) {
	pt := NewPriorityTracker([]string{"p1", "p2", "p3"})
	pt.Reset("p3")

	pt.Remove("p1")
	if pt.Holder() != "p3" {
		t.Errorf("holder after removing earlier seat = %s, want p3", pt.Holder())
	}
}
