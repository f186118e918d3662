package formatter

import (
	"fmt"
	"html"
	"io"
	"log/slog"

	"github.com/tordrt/fdgraph/internal/fd"
	"github.com/tordrt/fdgraph/internal/geometry"
	"github.com/tordrt/fdgraph/internal/layout"
)

// EmptyGraphMessage is drawn instead of a diagram when there are no attributes
const EmptyGraphMessage = "No dependencies to display"

const svgStyle = `
    .link { stroke: #ff4444; stroke-width: 2; fill: none; }
    .spoke { stroke: #999999; stroke-width: 1; stroke-dasharray: 4 3; }
    .group { fill: #fff4e5; fill-opacity: 0.6; stroke: #ff9900; stroke-width: 1.5; }
    .group-label { font: 11px sans-serif; fill: #aa6600; text-anchor: middle; }
    .node { fill: #4a90d9; stroke: #2c5d8f; stroke-width: 1.5; }
    .attribute-label { font: bold 12px sans-serif; fill: #ffffff; text-anchor: middle; dominant-baseline: central; }
    .placeholder { font: 14px sans-serif; fill: #888888; text-anchor: middle; dominant-baseline: central; }
`

// arrowLength is the marker polygon's length along the edge
const arrowLength = 10

// SVGFormatter draws a computed layout as an SVG document
type SVGFormatter struct {
	writer io.Writer
	log    *slog.Logger
}

// NewSVGFormatter creates a new SVG formatter
func NewSVGFormatter(w io.Writer) *SVGFormatter {
	return &SVGFormatter{writer: w, log: slog.Default()}
}

// WithLogger sets the logger that reports edges left out of the drawing
func (f *SVGFormatter) WithLogger(l *slog.Logger) *SVGFormatter {
	if l != nil {
		f.log = l
	}
	return f
}

// FormatGraph writes the diagram. Nodes are drawn last so edges never
// cover attribute labels.
func (f *SVGFormatter) FormatGraph(l *layout.Layout) error {
	_, _ = fmt.Fprintf(f.writer,
		"<svg xmlns=\"http://www.w3.org/2000/svg\" width=\"%s\" height=\"%s\" viewBox=\"0 0 %s %s\">\n",
		num(l.Width), num(l.Height), num(l.Width), num(l.Height))
	_, _ = fmt.Fprintf(f.writer, "  <style>%s  </style>\n", svgStyle)

	if l.Empty() {
		_, _ = fmt.Fprintf(f.writer, "  <text class=\"placeholder\" x=\"%s\" y=\"%s\">%s</text>\n",
			num(l.Center.X), num(l.Center.Y), EmptyGraphMessage)
		_, err := fmt.Fprintln(f.writer, "</svg>")
		return err
	}

	// Paths end inside the target node; refX past the polygon tip pulls the
	// arrowhead back so its tip lands just outside the node boundary.
	_, _ = fmt.Fprintf(f.writer, `  <defs>
    <marker id="arrowhead" markerWidth="%d" markerHeight="7" refX="%s" refY="3.5" orient="auto" markerUnits="userSpaceOnUse">
      <polygon points="0 0, %d 3.5, 0 7" fill="#ff4444"/>
    </marker>
  </defs>
`, arrowLength, num(arrowLength+l.ArrowSetback), arrowLength)

	for _, g := range l.Groups {
		for _, s := range g.Spokes {
			f.line("spoke", g.Center, s, false)
		}
		_, _ = fmt.Fprintf(f.writer, "  <circle class=\"group\" cx=\"%s\" cy=\"%s\" r=\"%s\"/>\n",
			num(g.Center.X), num(g.Center.Y), num(g.Radius))
		_, _ = fmt.Fprintf(f.writer, "  <text class=\"group-label\" x=\"%s\" y=\"%s\">%s</text>\n",
			num(g.Center.X), num(g.Center.Y-g.Radius-4), html.EscapeString(g.Label))
	}

	for _, e := range l.Edges {
		if e.Degenerate() {
			f.log.Debug("edge not drawn, its nodes overlap on this canvas",
				"from", fd.Join(e.From), "to", e.To, "width", l.Width, "height", l.Height)
			continue
		}
		f.line("link", e.Start, e.End, true)
	}

	for _, n := range l.Nodes {
		_, _ = fmt.Fprintf(f.writer, "  <circle class=\"node\" cx=\"%s\" cy=\"%s\" r=\"%s\"/>\n",
			num(n.Center.X), num(n.Center.Y), num(l.NodeRadius))
		_, _ = fmt.Fprintf(f.writer, "  <text class=\"attribute-label\" x=\"%s\" y=\"%s\">%s</text>\n",
			num(n.Center.X), num(n.Center.Y), html.EscapeString(n.Attribute))
	}

	_, err := fmt.Fprintln(f.writer, "</svg>")
	return err
}

func (f *SVGFormatter) line(class string, from, to geometry.Point, arrow bool) {
	marker := ""
	if arrow {
		marker = ` marker-end="url(#arrowhead)"`
	}
	_, _ = fmt.Fprintf(f.writer, "  <path class=\"%s\" d=\"M%s,%s L%s,%s\"%s/>\n",
		class, num(from.X), num(from.Y), num(to.X), num(to.Y), marker)
}

func num(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
