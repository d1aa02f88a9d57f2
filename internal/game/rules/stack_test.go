package rules

import (
	"errors"
	"testing"
)

func TestStackLIFOResolution(t *testing.T) {
	sm := NewStackManager()

	var resolved []string
	push := func(id string) {
		sm.Push(StackObject{
			ID:   id,
			Kind: StackObjectSpell,
			Resolve: func(obj StackObject) error {
				resolved = append(resolved, obj.ID)
				return nil
			},
		})
	}

	push("first")
	push("second")
	push("third")

	for !sm.IsEmpty() {
		if _, err := sm.ResolveTop(); err != nil {
			t.Fatalf("ResolveTop: %v", err)
		}
	}

	want := []string{"third", "second", "first"}
	if len(resolved) != len(want) {
		t.Fatalf("resolved %d objects, want %d", len(resolved), len(want))
	}
	for i, id := range want {
		if resolved[i] != id {
			t.Errorf("resolution order[%d] = %s, want %s", i, resolved[i], id)
		}
	}
}

func TestStackPopEmpty(t *testing.T) {
	sm := NewStackManager()
	if _, err := sm.Pop(); !errors.Is(err, ErrStackEmpty) {
		t.Errorf("Pop on empty stack: got %v, want ErrStackEmpty", err)
	}
	if _, err := sm.ResolveTop(); !errors.Is(err, ErrStackEmpty) {
		t.Errorf("ResolveTop on empty stack: got %v, want ErrStackEmpty", err)
	}
}

func TestStackRemoveByID(t *testing.T) {
	sm := NewStackManager()
	sm.Push(StackObject{ID: "a"})
	sm.Push(StackObject{ID: "b"})
	sm.Push(StackObject{ID: "c"})

	obj, ok := sm.Remove("b")
	if !ok || obj.ID != "b" {
		t.Fatalf("Remove(b) = %v, %v", obj.ID, ok)
	}
	if sm.Size() != 2 {
		t.Errorf("size after remove = %d, want 2", sm.Size())
	}
	if _, ok := sm.Find("b"); ok {
		t.Error("removed object still findable")
	}

	top, ok := sm.Peek()
	if !ok || top.ID != "c" {
		t.Errorf("top after remove = %v, want c", top.ID)
	}

	if _, ok := sm.Remove("missing"); ok {
		t.Error("Remove of missing ID reported success")
	}
}

func TestStackResolveErrorPropagates(t *testing.T) {
	sm := NewStackManager()
	boom := errors.New("boom")
	sm.Push(StackObject{ID: "x", Resolve: func(StackObject) error { return boom }})

	if _, err := sm.ResolveTop(); !errors.Is(err, boom) {
		t.Errorf("ResolveTop error = %v, want boom", err)
	}
	if !sm.IsEmpty() {
		t.Error("failed object should still have been popped")
	}
}

func TestStackListCopies(t *testing.T) {
	sm := NewStackManager()
	sm.Push(StackObject{ID: "a"})

	list := sm.List()
	list[0].ID = "mutated"

	if top, _ := sm.Peek(); top.ID != "a" {
		t.Error("List returned a view into internal state")
	}
}
