package store

import (
	"slices"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tordrt/fdgraph/internal/fd"
)

func dep(det, dependent string) fd.FD {
	return fd.FD{Determinant: []string{det}, Dependent: []string{dependent}}
}

func rendered(s *Store) []string {
	var out []string
	for f := range s.List() {
		out = append(out, f.String())
	}
	return out
}

func TestAddAssignsIdentity(t *testing.T) {
	s := New()
	a := s.Add(dep("A", "B"))
	b := s.Add(dep("B", "C"))

	assert.NotEqual(t, uuid.Nil, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []string{"A -> B", "B -> C"}, rendered(s))
}

func TestAddKeepsExistingIdentity(t *testing.T) {
	s := New()
	id := uuid.New()
	got := s.Add(fd.FD{ID: id, Determinant: []string{"A"}, Dependent: []string{"B"}})
	assert.Equal(t, id, got.ID)
}

func TestAddCopiesSlices(t *testing.T) {
	s := New()
	det := []string{"A"}
	s.Add(fd.FD{Determinant: det, Dependent: []string{"B"}})
	det[0] = "Z"
	assert.Equal(t, []string{"A -> B"}, rendered(s))
}

func TestRemoveAt(t *testing.T) {
	s := New()
	s.Add(dep("A", "B"))
	s.Add(dep("B", "C"))
	s.Add(dep("C", "D"))
	s.Add(dep("D", "E"))

	require.True(t, s.RemoveAt(1))
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []string{"A -> B", "C -> D", "D -> E"}, rendered(s))
}

func TestRemoveAtOutOfRange(t *testing.T) {
	s := New()
	s.Add(dep("A", "B"))

	assert.False(t, s.RemoveAt(-1))
	assert.False(t, s.RemoveAt(1))
	assert.Equal(t, []string{"A -> B"}, rendered(s))
}

func TestRemoveByIdentity(t *testing.T) {
	s := New()
	s.Add(dep("A", "B"))
	target := s.Add(dep("B", "C"))
	s.Add(dep("C", "D"))

	require.True(t, s.Remove(target.ID))
	assert.Equal(t, []string{"A -> B", "C -> D"}, rendered(s))
	assert.False(t, s.Remove(target.ID))

	_, ok := s.Get(target.ID)
	assert.False(t, ok)
}

func TestListIsRestartableAndLive(t *testing.T) {
	s := New()
	s.Add(dep("A", "B"))
	seq := s.List()

	first := slices.Collect(seq)
	second := slices.Collect(seq)
	assert.Equal(t, first, second)

	s.Add(dep("B", "C"))
	assert.Len(t, slices.Collect(seq), 2)
}

func TestListStopsEarly(t *testing.T) {
	s := New()
	s.Add(dep("A", "B"))
	s.Add(dep("B", "C"))

	n := 0
	for range s.List() {
		n++
		break
	}
	assert.Equal(t, 1, n)
}

func TestSubscribe(t *testing.T) {
	s := New()
	var events []Event
	unsubscribe := s.Subscribe(func(ev Event) { events = append(events, ev) })

	added := s.Add(dep("A", "B"))
	s.RemoveAt(0)
	s.RemoveAt(0)

	require.Len(t, events, 2)
	assert.Equal(t, EventAdded, events[0].Kind)
	assert.Equal(t, added.ID, events[0].FD.ID)
	assert.Equal(t, EventRemoved, events[1].Kind)
	assert.Equal(t, 0, events[1].Index)

	unsubscribe()
	s.Add(dep("C", "D"))
	assert.Len(t, events, 2)
}

func TestSubscribersSeeNewState(t *testing.T) {
	s := New()
	var lengths []int
	s.Subscribe(func(Event) { lengths = append(lengths, s.Len()) })

	s.Add(dep("A", "B"))
	s.Add(dep("B", "C"))
	s.RemoveAt(0)

	assert.Equal(t, []int{1, 2, 1}, lengths)
}

func TestIndependentStores(t *testing.T) {
	a := New()
	b := New()
	a.Add(dep("A", "B"))
	assert.Equal(t, 1, a.Len())
	assert.Equal(t, 0, b.Len())
}
