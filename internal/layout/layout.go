// Package layout computes the circular dependency diagram: attribute nodes
// on a ring, composite determinant groups inside it, and directed edges
// trimmed so arrowheads stop at node boundaries.
//
// An edge path ends inside its target node, which is drawn over it. The
// arrowhead is set back from the path end by ArrowSetback so its tip lands
// ArrowMargin outside the node boundary.
package layout

import (
	"math"
	"slices"

	"github.com/google/uuid"

	"github.com/tordrt/fdgraph/internal/fd"
	"github.com/tordrt/fdgraph/internal/geometry"
)

// Options tunes the diagram geometry
type Options struct {
	NodeRadius   float64 // radius of an attribute node
	ArrowMargin  float64 // gap between an arrow tip and the target boundary
	TipInset     float64 // how far inside the target boundary an edge path ends
	GroupInset   float64 // group center distance from the ring center, relative to the ring radius
	GroupPadding float64 // extra group radius per member
	AngleOffset  float64 // angle of the first node; -π/2 puts it at the top
}

// DefaultOptions returns the standard diagram geometry
func DefaultOptions() Options {
	return Options{
		NodeRadius:   15,
		ArrowMargin:  2,
		TipInset:     5,
		GroupInset:   0.7,
		GroupPadding: 8,
		AngleOffset:  -math.Pi / 2,
	}
}

// Node is one attribute on the ring
type Node struct {
	Attribute string
	Center    geometry.Point
	Angle     float64
}

// Group is the encompassing circle of a composite determinant
type Group struct {
	FD      uuid.UUID
	Members []string
	Label   string
	Center  geometry.Point
	Radius  float64
	Spokes  []geometry.Point // member node centers
}

// Edge is one directed arrow from a node or group to a dependent node
type Edge struct {
	FD        uuid.UUID
	From      []string // the determinant
	To        string
	Start     geometry.Point
	End       geometry.Point // arrow tip after trimming
	Target    geometry.Point // center of the target node
	Composite bool
}

// Degenerate reports whether trimming collapsed the edge to a point. This
// happens when the two ends overlap on a very small canvas.
func (e Edge) Degenerate() bool {
	return e.Start == e.End
}

// Layout is a fully computed diagram
type Layout struct {
	Width, Height float64
	Center        geometry.Point
	RingRadius    float64
	NodeRadius    float64
	ArrowSetback  float64 // distance from an edge's End back to its arrow tip
	Nodes         []Node
	Groups        []Group
	Edges         []Edge
}

// Empty reports whether there is nothing to draw
func (l *Layout) Empty() bool {
	return len(l.Nodes) == 0
}

// Node returns the node for attr
func (l *Layout) Node(attr string) (Node, bool) {
	i := slices.IndexFunc(l.Nodes, func(n Node) bool { return n.Attribute == attr })
	if i < 0 {
		return Node{}, false
	}
	return l.Nodes[i], true
}

// Compute lays out fds on a width x height canvas. Node order follows the
// attribute universe so the same store state always yields the same layout.
func Compute(fds []fd.FD, width, height float64, opts Options) *Layout {
	l := &Layout{
		Width:      width,
		Height:     height,
		Center:     geometry.Point{X: width / 2, Y: height / 2},
		RingRadius: geometry.RingRadius(width, height),
		NodeRadius: opts.NodeRadius,
	}
	inset := opts.tipInset()
	l.ArrowSetback = inset + opts.ArrowMargin

	attrs := fd.Universe(slices.Values(fds))
	if len(attrs) == 0 {
		return l
	}

	index := make(map[string]int, len(attrs))
	l.Nodes = make([]Node, len(attrs))
	for i, a := range attrs {
		angle := geometry.Angle(i, len(attrs), opts.AngleOffset)
		l.Nodes[i] = Node{
			Attribute: a,
			Angle:     angle,
			Center:    geometry.PointOnCircle(l.Center, l.RingRadius, angle),
		}
		index[a] = i
	}

	pullback := opts.NodeRadius - inset

	for _, f := range fds {
		var start geometry.Point
		if f.IsComposite() {
			g := l.group(f, index, opts)
			l.Groups = append(l.Groups, g)
			start = g.Center
		} else {
			start = l.Nodes[index[f.Determinant[0]]].Center
		}

		for _, d := range f.Dependent {
			target := l.Nodes[index[d]].Center
			l.Edges = append(l.Edges, Edge{
				FD:        f.ID,
				From:      f.Determinant,
				To:        d,
				Start:     start,
				End:       geometry.TrimEndpoint(start, target, pullback),
				Target:    target,
				Composite: f.IsComposite(),
			})
		}
	}

	return l
}

// tipInset keeps the path end strictly between the target boundary and its center
func (o Options) tipInset() float64 {
	if o.TipInset <= 0 || o.TipInset >= o.NodeRadius {
		return o.NodeRadius / 3
	}
	return o.TipInset
}

func (l *Layout) group(f fd.FD, index map[string]int, opts Options) Group {
	angles := make([]float64, len(f.Determinant))
	spokes := make([]geometry.Point, len(f.Determinant))
	for i, a := range f.Determinant {
		n := l.Nodes[index[a]]
		angles[i] = n.Angle
		spokes[i] = n.Center
	}
	return Group{
		FD:      f.ID,
		Members: f.Determinant,
		Label:   fd.Join(f.Determinant),
		Center:  geometry.Centroid(l.Center, angles, opts.GroupInset*l.RingRadius),
		Radius:  geometry.GroupRadius(len(f.Determinant), opts.NodeRadius, opts.GroupPadding),
		Spokes:  spokes,
	}
}
