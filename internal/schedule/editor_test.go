package schedule

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEditorStartsCreating(t *testing.T) {
	e := NewEditor(newTestStore(t, nil, nil))
	require.Equal(t, EditorState{Mode: ModeCreating}, e.State())
}

func TestEditorSubmitCreates(t *testing.T) {
	s := newTestStore(t, nil, nil)
	e := NewEditor(s)

	a, found, state, err := e.Submit(Input{Day: Monday, Time: "09:00", Location: "Centro"})
	require.NoError(t, err)
	require.True(t, found)
	require.NotEmpty(t, a.ID)
	require.Equal(t, ModeCreating, state.Mode)
	require.Equal(t, 1, s.Len())
}

func TestEditorSelectAndSubmitUpdates(t *testing.T) {
	s := newTestStore(t, nil, nil)
	e := NewEditor(s)
	a, err := s.Add(Input{Day: Monday, Time: "09:00", Location: "Centro"})
	require.NoError(t, err)

	state, err := e.Select(a.ID)
	require.NoError(t, err)
	require.Equal(t, ModeEditing, state.Mode)
	require.Equal(t, a.ID, state.TargetID)
	require.Equal(t, "Centro", state.Target.Location)

	updated, found, state, err := e.Submit(Input{Day: Tuesday, Time: "10:00", Location: "Praça"})
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, a.ID, updated.ID)
	require.Equal(t, ModeCreating, state.Mode)
	require.Equal(t, 1, s.Len())

	got, _ := s.Get(a.ID)
	require.Equal(t, Tuesday, got.Day)
}

func TestEditorLastSelectionWins(t *testing.T) {
	s := newTestStore(t, nil, nil)
	e := NewEditor(s)
	a, _ := s.Add(Input{Day: Monday, Time: "09:00", Location: "A"})
	b, _ := s.Add(Input{Day: Monday, Time: "10:00", Location: "B"})

	_, err := e.Select(a.ID)
	require.NoError(t, err)
	state, err := e.Select(b.ID)
	require.NoError(t, err)
	require.Equal(t, b.ID, state.TargetID)
}

func TestEditorSelectUnknownKeepsMode(t *testing.T) {
	s := newTestStore(t, nil, nil)
	e := NewEditor(s)
	a, _ := s.Add(Input{Day: Monday, Time: "09:00", Location: "A"})
	_, err := e.Select(a.ID)
	require.NoError(t, err)

	state, err := e.Select("missing")
	require.ErrorIs(t, err, ErrActivityNotFound)
	require.Equal(t, ModeEditing, state.Mode)
	require.Equal(t, a.ID, state.TargetID)
}

func TestEditorInvalidSubmitKeepsMode(t *testing.T) {
	s := newTestStore(t, nil, nil)
	e := NewEditor(s)
	a, _ := s.Add(Input{Day: Monday, Time: "09:00", Location: "A"})
	_, err := e.Select(a.ID)
	require.NoError(t, err)

	_, _, state, err := e.Submit(Input{Day: Monday, Time: "09:00"})
	require.ErrorIs(t, err, ErrLocationRequired)
	require.Equal(t, ModeEditing, state.Mode)
}

func TestEditorCancel(t *testing.T) {
	s := newTestStore(t, nil, nil)
	e := NewEditor(s)
	a, _ := s.Add(Input{Day: Monday, Time: "09:00", Location: "A"})
	_, err := e.Select(a.ID)
	require.NoError(t, err)

	require.Equal(t, ModeCreating, e.Cancel().Mode)

	_, _, _, err = e.Submit(Input{Day: Monday, Time: "11:00", Location: "B"})
	require.NoError(t, err)
	require.Equal(t, 2, s.Len())
}

func TestEditorDeleteTarget(t *testing.T) {
	s := newTestStore(t, nil, nil)
	e := NewEditor(s)
	a, _ := s.Add(Input{Day: Monday, Time: "09:00", Location: "A"})
	b, _ := s.Add(Input{Day: Monday, Time: "10:00", Location: "B"})

	_, err := e.Select(a.ID)
	require.NoError(t, err)

	removed, state := e.Delete(b.ID)
	require.True(t, removed)
	require.Equal(t, ModeEditing, state.Mode)

	removed, state = e.Delete(a.ID)
	require.True(t, removed)
	require.Equal(t, ModeCreating, state.Mode)

	removed, _ = e.Delete(a.ID)
	require.False(t, removed)
}

func TestEditorTargetRemovedElsewhere(t *testing.T) {
	s := newTestStore(t, nil, nil)
	e := NewEditor(s)
	a, _ := s.Add(Input{Day: Monday, Time: "09:00", Location: "A"})
	_, err := e.Select(a.ID)
	require.NoError(t, err)

	s.Remove(a.ID)
	require.Equal(t, ModeCreating, e.State().Mode)
}

func TestEditorReset(t *testing.T) {
	s := newTestStore(t, nil, nil)
	e := NewEditor(s)
	a, _ := s.Add(Input{Day: Monday, Time: "09:00", Location: "A"})
	_, err := e.Select(a.ID)
	require.NoError(t, err)

	state := e.Reset()
	require.Equal(t, ModeCreating, state.Mode)
	require.Equal(t, 0, s.Len())
}

func TestEditorSubmitAfterTargetRemovedElsewhere(t *testing.T) {
	s := newTestStore(t, nil, nil)
	e := NewEditor(s)
	a, err := s.Add(Input{Day: Monday, Time: "09:00", Location: "A"})
	require.NoError(t, err)
	_, err = e.Select(a.ID)
	require.NoError(t, err)

	require.True(t, s.Remove(a.ID))

	activity, found, state, err := e.Submit(Input{Day: Tuesday, Time: "10:00", Location: "B"})
	require.NoError(t, err)
	require.False(t, found)
	require.Empty(t, activity.ID)
	require.Equal(t, ModeCreating, state.Mode)
	require.Zero(t, s.Len())
}
