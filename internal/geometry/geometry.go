// Package geometry contains the numeric helpers used to lay out the
// dependency diagram. Nothing here knows about drawing surfaces.
package geometry

import "math"

// RingFraction is the ring radius relative to the smaller canvas side
const RingFraction = 0.4

// Point is a position on the canvas
type Point struct {
	X, Y float64
}

// Add returns p translated by q
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Scale returns p multiplied by k
func (p Point) Scale(k float64) Point {
	return Point{X: p.X * k, Y: p.Y * k}
}

// Distance returns the euclidean distance between a and b
func Distance(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// RingRadius returns the radius of the attribute ring for a canvas
func RingRadius(width, height float64) float64 {
	return RingFraction * math.Min(width, height)
}

// Angle returns the angle of slot i out of n evenly spaced slots
func Angle(i, n int, offset float64) float64 {
	if n <= 0 {
		return offset
	}
	return 2*math.Pi*float64(i)/float64(n) + offset
}

// PointOnCircle returns the point at angle on the circle (center, radius)
func PointOnCircle(center Point, radius, angle float64) Point {
	return Point{
		X: center.X + radius*math.Cos(angle),
		Y: center.Y + radius*math.Sin(angle),
	}
}

// CirclePositions places n points evenly on a circle starting at offset
func CirclePositions(n int, center Point, radius, offset float64) []Point {
	points := make([]Point, n)
	for i := range points {
		points[i] = PointOnCircle(center, radius, Angle(i, n, offset))
	}
	return points
}

// TrimEndpoint pulls the end of the segment from->to back towards from by
// pullback. When the segment is not longer than pullback the result is
// from, so a trimmed edge never overshoots its start.
func TrimEndpoint(from, to Point, pullback float64) Point {
	length := Distance(from, to)
	if length <= pullback {
		return from
	}
	ratio := (length - pullback) / length
	return Point{
		X: from.X + (to.X-from.X)*ratio,
		Y: from.Y + (to.Y-from.Y)*ratio,
	}
}

// Centroid returns the point at distance inset from center along the mean
// direction of the given angles. If the unit vectors cancel out, the first
// angle's direction is used.
func Centroid(center Point, angles []float64, inset float64) Point {
	if len(angles) == 0 {
		return center
	}
	var sx, sy float64
	for _, a := range angles {
		sx += math.Cos(a)
		sy += math.Sin(a)
	}
	sx /= float64(len(angles))
	sy /= float64(len(angles))

	norm := math.Hypot(sx, sy)
	if norm < 1e-9 {
		return PointOnCircle(center, inset, angles[0])
	}
	return Point{
		X: center.X + inset*sx/norm,
		Y: center.Y + inset*sy/norm,
	}
}

// GroupRadius sizes the circle drawn around a composite determinant
func GroupRadius(members int, nodeRadius, padding float64) float64 {
	return nodeRadius + padding*float64(members)
}
