package schedule

import (
	"fmt"
	"sync"
)

// Mode is the state of the add/edit form.
type Mode string

const (
	ModeCreating Mode = "creating"
	ModeEditing  Mode = "editing"
)

// EditorState is a snapshot of the form state.
type EditorState struct {
	Mode     Mode      `json:"mode"`
	TargetID string    `json:"targetId,omitempty"`
	Target   *Activity `json:"target,omitempty"`
}

// Editor toggles between adding new activities and editing an existing one.
type Editor struct {
	mu     sync.Mutex
	store  *Store
	target string
}

// NewEditor starts in creating mode.
func NewEditor(store *Store) *Editor {
	return &Editor{store: store}
}

// Select binds the form to an existing activity. The last selection wins.
func (e *Editor) Select(id string) (EditorState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.store.Get(id); !ok {
		return e.stateLocked(), fmt.Errorf("%w: %s", ErrActivityNotFound, id)
	}
	e.target = id
	return e.stateLocked(), nil
}

// Cancel returns to creating mode.
func (e *Editor) Cancel() EditorState {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.target = ""
	return e.stateLocked()
}

// Submit adds in creating mode or updates the target in editing mode, then
// returns to creating mode. found is false when the target was removed
// elsewhere; nothing is stored then. A validation error keeps the current
// mode.
func (e *Editor) Submit(in Input) (activity Activity, found bool, state EditorState, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.target == "" {
		activity, err = e.store.Add(in)
		found = err == nil
	} else {
		activity, found, err = e.store.Update(e.target, in)
	}
	if err != nil {
		return Activity{}, false, e.stateLocked(), err
	}
	e.target = ""
	return activity, found, e.stateLocked(), nil
}

// Delete removes an activity. Deleting the edited activity returns to
// creating mode.
func (e *Editor) Delete(id string) (bool, EditorState) {
	e.mu.Lock()
	defer e.mu.Unlock()

	removed := e.store.Remove(id)
	if e.target == id {
		e.target = ""
	}
	return removed, e.stateLocked()
}

// Reset clears every activity and returns to creating mode.
func (e *Editor) Reset() EditorState {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.store.ResetAll()
	e.target = ""
	return e.stateLocked()
}

// State returns the current form state.
func (e *Editor) State() EditorState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stateLocked()
}

func (e *Editor) stateLocked() EditorState {
	if e.target == "" {
		return EditorState{Mode: ModeCreating}
	}
	activity, ok := e.store.Get(e.target)
	if !ok {
		e.target = ""
		return EditorState{Mode: ModeCreating}
	}
	return EditorState{Mode: ModeEditing, TargetID: e.target, Target: &activity}
}
