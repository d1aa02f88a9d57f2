package rules

import (
	"errors"
	"sync"
)

// StackObjectKind describes the type of object on the stack.
type StackObjectKind string

const (
	// StackObjectSpell represents a spell cast from hand or the command zone.
	StackObjectSpell StackObjectKind = "SPELL"
	// StackObjectAbility represents a triggered or activated ability.
	StackObjectAbility StackObjectKind = "ABILITY"
)

// StackObject represents a single spell or ability awaiting resolution.
type StackObject struct {
	ID          string
	Kind        StackObjectKind
	Controller  string
	SourceID    string // card instance the object originated from
	Description string
	Targets     []string
	// Resolve applies the object's effect. It runs only when the object
	// resolves from the top; countered objects are removed without it.
	Resolve func(StackObject) error
}

// ErrStackEmpty is returned by Pop and ResolveTop on an empty stack.
var ErrStackEmpty = errors.New("stack empty")

// StackManager manages the game stack. Resolution is strictly LIFO: the most
// recently pushed object always resolves or is answered first.
type StackManager struct {
	mu      sync.Mutex
	objects []StackObject
}

// NewStackManager creates a new stack manager.
func NewStackManager() *StackManager {
	return &StackManager{
		objects: make([]StackObject, 0, 8),
	}
}

// Push adds an object to the top of the stack.
func (sm *StackManager) Push(obj StackObject) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.objects = append(sm.objects, obj)
}

// Pop removes the top object from the stack.
func (sm *StackManager) Pop() (StackObject, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if len(sm.objects) == 0 {
		return StackObject{}, ErrStackEmpty
	}
	idx := len(sm.objects) - 1
	obj := sm.objects[idx]
	sm.objects = sm.objects[:idx]
	return obj, nil
}

// Peek returns the top object without removing it.
func (sm *StackManager) Peek() (StackObject, bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if len(sm.objects) == 0 {
		return StackObject{}, false
	}
	return sm.objects[len(sm.objects)-1], true
}

// Remove deletes an object from anywhere in the stack by ID. Used when a
// spell or ability is countered.
func (sm *StackManager) Remove(id string) (StackObject, bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	for idx := len(sm.objects) - 1; idx >= 0; idx-- {
		if sm.objects[idx].ID == id {
			obj := sm.objects[idx]
			sm.objects = append(sm.objects[:idx], sm.objects[idx+1:]...)
			return obj, true
		}
	}
	return StackObject{}, false
}

// Find returns the object with the given ID without removing it.
func (sm *StackManager) Find(id string) (StackObject, bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	for idx := len(sm.objects) - 1; idx >= 0; idx-- {
		if sm.objects[idx].ID == id {
			return sm.objects[idx], true
		}
	}
	return StackObject{}, false
}

// List returns a copy of all stack objects (topmost last).
func (sm *StackManager) List() []StackObject {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	cpy := make([]StackObject, len(sm.objects))
	copy(cpy, sm.objects)
	return cpy
}

// IsEmpty returns whether the stack is empty.
func (sm *StackManager) IsEmpty() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return len(sm.objects) == 0
}

// Size returns the number of objects on the stack.
func (sm *StackManager) Size() int {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return len(sm.objects)
}

// ResolveTop pops the top object and runs its resolution callback. The
// callback may push new objects; they land on top before priority is
// reassigned, preserving LIFO for the new state.
func (sm *StackManager) ResolveTop() (StackObject, error) {
	obj, err := sm.Pop()
	if err != nil {
		return StackObject{}, err
	}
	if obj.Resolve != nil {
		if err := obj.Resolve(obj); err != nil {
			return obj, err
		}
	}
	return obj, nil
}
