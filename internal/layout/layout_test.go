package layout

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tordrt/fdgraph/internal/fd"
	"github.com/tordrt/fdgraph/internal/geometry"
)

func sample() []fd.FD {
	return []fd.FD{
		{ID: uuid.New(), Determinant: []string{"A"}, Dependent: []string{"B"}},
		{ID: uuid.New(), Determinant: []string{"B", "C"}, Dependent: []string{"D"}},
	}
}

func TestComputeEmpty(t *testing.T) {
	l := Compute(nil, 400, 300, DefaultOptions())
	assert.True(t, l.Empty())
	assert.Empty(t, l.Nodes)
	assert.Empty(t, l.Edges)
	assert.Empty(t, l.Groups)
	assert.Equal(t, geometry.Point{X: 200, Y: 150}, l.Center)
}

func TestComputeNodes(t *testing.T) {
	l := Compute(sample(), 400, 400, DefaultOptions())
	require.False(t, l.Empty())

	want := []Node{
		{Attribute: "A", Angle: -math.Pi / 2, Center: geometry.Point{X: 200, Y: 40}},
		{Attribute: "B", Angle: 0, Center: geometry.Point{X: 360, Y: 200}},
		{Attribute: "C", Angle: math.Pi / 2, Center: geometry.Point{X: 200, Y: 360}},
		{Attribute: "D", Angle: math.Pi, Center: geometry.Point{X: 40, Y: 200}},
	}
	if diff := cmp.Diff(want, l.Nodes, cmpopts.EquateApprox(0, 1e-6)); diff != "" {
		t.Errorf("nodes mismatch (-want +got):\n%s", diff)
	}
	assert.InDelta(t, 160.0, l.RingRadius, 1e-9)
}

func TestComputeAnglesEvenlySpaced(t *testing.T) {
	var fds []fd.FD
	for _, pair := range [][2]string{{"A", "B"}, {"C", "D"}, {"E", "F"}, {"G", "A"}, {"H", "I"}} {
		fds = append(fds, fd.FD{Determinant: []string{pair[0]}, Dependent: []string{pair[1]}})
	}
	l := Compute(fds, 500, 500, DefaultOptions())
	n := len(l.Nodes)
	require.Equal(t, 9, n)

	var turn float64
	for i := range l.Nodes {
		next := l.Nodes[(i+1)%n].Angle
		if i == n-1 {
			next += 2 * math.Pi
		}
		step := next - l.Nodes[i].Angle
		assert.InDelta(t, 2*math.Pi/float64(n), step, 1e-9)
		turn += step
	}
	assert.InDelta(t, 2*math.Pi, turn, 1e-9)
}

func TestComputeIsStable(t *testing.T) {
	fds := sample()
	a := Compute(fds, 640, 480, DefaultOptions())
	b := Compute(fds, 640, 480, DefaultOptions())
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("layout differs between runs:\n%s", diff)
	}
}

func TestComputeEdgesAreTrimmed(t *testing.T) {
	opts := DefaultOptions()
	fds := append(sample(), fd.FD{Determinant: []string{"D"}, Dependent: []string{"A", "C"}})
	l := Compute(fds, 400, 400, opts)
	require.Len(t, l.Edges, 4)

	for _, e := range l.Edges {
		target, ok := l.Node(e.To)
		require.True(t, ok)
		assert.Equal(t, target.Center, e.Target)

		// the path ends inside the target, short of its center
		toTarget := geometry.Distance(e.End, e.Target)
		assert.Greater(t, toTarget, 0.0, "edge to %s", e.To)
		assert.Less(t, toTarget, opts.NodeRadius, "edge to %s", e.To)

		// the arrow tip, set back from the path end, stops just outside the boundary
		assert.InDelta(t, opts.NodeRadius+opts.ArrowMargin, toTarget+l.ArrowSetback, 1e-9, "edge to %s", e.To)
		assert.Less(t, geometry.Distance(e.Start, e.End), geometry.Distance(e.Start, e.Target))
		assert.False(t, e.Degenerate())
	}
}

func TestComputeCompositeGroup(t *testing.T) {
	opts := DefaultOptions()
	fds := sample()
	l := Compute(fds, 400, 400, opts)

	require.Len(t, l.Groups, 1)
	g := l.Groups[0]
	assert.Equal(t, fds[1].ID, g.FD)
	assert.Equal(t, []string{"B", "C"}, g.Members)
	assert.Equal(t, "B, C", g.Label)
	assert.InDelta(t, opts.GroupInset*l.RingRadius, geometry.Distance(l.Center, g.Center), 1e-9)
	assert.InDelta(t, opts.NodeRadius+2*opts.GroupPadding, g.Radius, 1e-9)

	b, _ := l.Node("B")
	c, _ := l.Node("C")
	assert.Equal(t, []geometry.Point{b.Center, c.Center}, g.Spokes)

	// B at 0 rad and C at π/2 rad: the group sits on the bisector
	assert.InDelta(t, g.Center.X-l.Center.X, g.Center.Y-l.Center.Y, 1e-9)

	var composite []Edge
	for _, e := range l.Edges {
		if e.Composite {
			composite = append(composite, e)
		}
	}
	require.Len(t, composite, 1)
	assert.Equal(t, g.Center, composite[0].Start)
	assert.Equal(t, "D", composite[0].To)
}

func TestComputeOneEdgePerDependent(t *testing.T) {
	fds := []fd.FD{
		{Determinant: []string{"A"}, Dependent: []string{"B", "C", "D"}},
		{Determinant: []string{"A", "B"}, Dependent: []string{"C", "D"}},
	}
	l := Compute(fds, 300, 300, DefaultOptions())
	assert.Len(t, l.Edges, 5)
	assert.Len(t, l.Groups, 1)
}

func TestComputeSingleNodeCanvas(t *testing.T) {
	// Two attributes on a tiny canvas overlap: edges collapse instead of
	// pointing backwards.
	fds := []fd.FD{{Determinant: []string{"A"}, Dependent: []string{"B"}}}
	l := Compute(fds, 10, 10, DefaultOptions())
	require.Len(t, l.Edges, 1)
	assert.True(t, l.Edges[0].Degenerate())
}

func TestComputeTipInsetOutOfRange(t *testing.T) {
	fds := []fd.FD{{Determinant: []string{"A"}, Dependent: []string{"B"}}}

	for _, inset := range []float64{0, -3, 15, 40} {
		opts := DefaultOptions()
		opts.TipInset = inset
		l := Compute(fds, 400, 400, opts)
		require.Len(t, l.Edges, 1)

		e := l.Edges[0]
		toTarget := geometry.Distance(e.End, e.Target)
		assert.Greater(t, toTarget, 0.0, "inset %v", inset)
		assert.Less(t, toTarget, opts.NodeRadius, "inset %v", inset)
		assert.InDelta(t, opts.NodeRadius+opts.ArrowMargin, toTarget+l.ArrowSetback, 1e-9, "inset %v", inset)
	}
}
