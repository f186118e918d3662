package session

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tordrt/fdgraph/internal/fd"
	"github.com/tordrt/fdgraph/internal/formatter"
	"github.com/tordrt/fdgraph/internal/layout"
	"github.com/tordrt/fdgraph/internal/logger"
	"github.com/tordrt/fdgraph/internal/validate"
)

type recordingView struct {
	mu    sync.Mutex
	snaps []Snapshot
}

func (v *recordingView) Render(s Snapshot) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.snaps = append(v.snaps, s)
	return nil
}

func (v *recordingView) count() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.snaps)
}

func (v *recordingView) last() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.snaps[len(v.snaps)-1]
}

func newSession(t *testing.T, clock clockwork.Clock) *Session {
	t.Helper()
	s, err := New(Config{
		Logger: logger.NewForTest(),
		Clock:  clock,
		Width:  400,
		Height: 300,
	})
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func TestConfigValidate(t *testing.T) {
	_, err := New(Config{Width: 1, Height: 1})
	assert.Error(t, err)

	_, err = New(Config{Logger: logger.NewForTest(), Width: 0, Height: 10})
	assert.Error(t, err)

	cfg := Config{Logger: logger.NewForTest(), Width: 10, Height: 10}
	require.NoError(t, cfg.Validate())
	assert.NotNil(t, cfg.Clock)
	assert.Equal(t, validate.DefaultMaxLength, cfg.Validator.MaxLength)
}

func TestSubmitNotifiesViews(t *testing.T) {
	s := newSession(t, clockwork.NewFakeClock())
	table := &recordingView{}
	graph := &recordingView{}
	require.NoError(t, s.Attach(table))
	require.NoError(t, s.Attach(graph))

	assert.Equal(t, ReasonInitial, table.last().Reason)
	assert.Empty(t, table.last().FDs)

	added, err := s.Submit("A", "B")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, added.ID)

	for _, v := range []*recordingView{table, graph} {
		require.Equal(t, 2, v.count())
		assert.Equal(t, ReasonChanged, v.last().Reason)
		require.Len(t, v.last().FDs, 1)
		assert.Equal(t, added.ID, v.last().FDs[0].ID)
	}
}

func TestSubmitRejectsWithoutChange(t *testing.T) {
	s := newSession(t, clockwork.NewFakeClock())
	view := &recordingView{}
	require.NoError(t, s.Attach(view))

	_, err := s.Submit("A", "B")
	require.NoError(t, err)

	_, err = s.Submit("A", "B")
	assert.ErrorIs(t, err, validate.ErrDuplicateDependency)

	_, err = s.Submit("A,B", "B")
	assert.ErrorIs(t, err, validate.ErrTrivialDependency)

	_, err = s.Submit("ABCDEF", "B")
	assert.ErrorIs(t, err, validate.ErrAttributeTooLong)

	assert.Len(t, s.FDs(), 1)
	assert.Equal(t, 2, view.count())
}

func TestDeleteByIdentity(t *testing.T) {
	s := newSession(t, clockwork.NewFakeClock())
	view := &recordingView{}
	require.NoError(t, s.Attach(view))

	first, err := s.Submit("A", "B")
	require.NoError(t, err)
	second, err := s.Submit("B", "C")
	require.NoError(t, err)

	require.NoError(t, s.Delete(first.ID))
	fds := s.FDs()
	require.Len(t, fds, 1)
	assert.Equal(t, second.ID, fds[0].ID)
	assert.Equal(t, 4, view.count())

	assert.ErrorIs(t, s.Delete(first.ID), ErrNotFound)
	assert.Equal(t, 4, view.count())
}

func TestResolve(t *testing.T) {
	s := newSession(t, clockwork.NewFakeClock())
	added, err := s.Submit("A", "B")
	require.NoError(t, err)

	id, err := s.Resolve(added.ShortID())
	require.NoError(t, err)
	assert.Equal(t, added.ID, id)

	id, err = s.Resolve(" " + added.ID.String() + " ")
	require.NoError(t, err)
	assert.Equal(t, added.ID, id)

	_, err = s.Resolve(uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Resolve("")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveAmbiguous(t *testing.T) {
	s := newSession(t, clockwork.NewFakeClock())
	s.store.Add(fd.FD{
		ID:          uuid.MustParse("abcd0000-0000-4000-8000-000000000000"),
		Determinant: []string{"A"},
		Dependent:   []string{"B"},
	})
	s.store.Add(fd.FD{
		ID:          uuid.MustParse("abcd1111-0000-4000-8000-000000000000"),
		Determinant: []string{"B"},
		Dependent:   []string{"C"},
	})

	_, err := s.Resolve("abcd")
	assert.ErrorIs(t, err, ErrAmbiguous)

	id, err := s.Resolve("ABCD1")
	require.NoError(t, err)
	assert.Equal(t, "abcd1111-0000-4000-8000-000000000000", id.String())
}

func TestResizeIsDebounced(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := newSession(t, clock)
	view := &recordingView{}
	require.NoError(t, s.Attach(view))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.NoError(t, s.Resize(500, 500))
	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(100 * time.Millisecond)
	require.NoError(t, s.Resize(600, 500))
	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(100 * time.Millisecond)
	require.NoError(t, s.Resize(800, 600))
	require.NoError(t, clock.BlockUntilContext(ctx, 1))

	assert.Equal(t, 1, view.count())

	clock.Advance(200 * time.Millisecond)
	require.Eventually(t, func() bool { return view.count() == 2 }, time.Second, 5*time.Millisecond)

	snap := view.last()
	assert.Equal(t, ReasonResized, snap.Reason)
	assert.Equal(t, 800.0, snap.Width)
	assert.Equal(t, 600.0, snap.Height)

	w, h := s.Size()
	assert.Equal(t, 800.0, w)
	assert.Equal(t, 600.0, h)
}

func TestResizeRejectsBadSize(t *testing.T) {
	s := newSession(t, clockwork.NewFakeClock())
	assert.Error(t, s.Resize(0, 100))
	assert.Error(t, s.Resize(100, -1))
}

func TestTableViewSkipsResize(t *testing.T) {
	var buf bytes.Buffer
	v := &TableView{Formatter: formatter.NewTextFormatter(&buf)}

	require.NoError(t, v.Render(Snapshot{Reason: ReasonResized}))
	assert.Empty(t, buf.String())

	require.NoError(t, v.Render(Snapshot{Reason: ReasonChanged}))
	assert.Equal(t, formatter.EmptyTableMessage+"\n", buf.String())
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func TestGraphView(t *testing.T) {
	s := newSession(t, clockwork.NewFakeClock())

	var buf bytes.Buffer
	graph := &GraphView{
		Open: func() (io.WriteCloser, error) {
			buf.Reset()
			return nopCloser{&buf}, nil
		},
		Options: layout.DefaultOptions(),
	}
	require.NoError(t, s.Attach(graph))
	assert.Contains(t, buf.String(), formatter.EmptyGraphMessage)
	assert.True(t, graph.Last().Empty())

	_, err := s.Submit("A", "B")
	require.NoError(t, err)
	_, err = s.Submit("B, C", "D")
	require.NoError(t, err)

	l := graph.Last()
	assert.Len(t, l.Nodes, 4)
	assert.Len(t, l.Groups, 1)
	assert.NotContains(t, buf.String(), formatter.EmptyGraphMessage)
	assert.Contains(t, buf.String(), `class="group"`)
}

func TestSessionsAreIndependent(t *testing.T) {
	a := newSession(t, clockwork.NewFakeClock())
	b := newSession(t, clockwork.NewFakeClock())

	_, err := a.Submit("A", "B")
	require.NoError(t, err)
	_, err = b.Submit("A", "B")
	require.NoError(t, err)

	assert.Len(t, a.FDs(), 1)
	assert.Len(t, b.FDs(), 1)
}
