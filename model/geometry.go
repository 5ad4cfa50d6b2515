package model

import (
	"fmt"

	"github.com/golang/geo/r2"
)

// Point represents a 2D point in PDF coordinate space, where the origin is
// the bottom-left corner of the page and y grows upward.
type Point struct {
	X, Y float64
}

// BBox represents an axis-aligned rectangle in PDF coordinate space.
// X and Y locate the bottom-left corner; Width and Height are never
// negative for a well-formed box.
type BBox struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// NewBBox creates a bounding box from an origin and dimensions.
func NewBBox(x, y, width, height float64) BBox {
	return BBox{X: x, Y: y, Width: width, Height: height}
}

// NewBBoxFromCorners creates a bounding box from two opposite corners.
// The corners may be given in any order; the box is normalized so that
// Width and Height come out non-negative.
func NewBBoxFromCorners(x0, y0, x1, y1 float64) BBox {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	return BBox{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// BoxesFromQuadPoints converts a PDF QuadPoints array into bounding boxes,
// one per quadrilateral. Each group of eight numbers holds the x/y pairs of
// four corners; the box is the axis-aligned hull of those corners, so
// rotated or skewed quads still produce a usable rectangle.
func BoxesFromQuadPoints(coords []float64) ([]BBox, error) {
	if len(coords)%8 != 0 {
		return nil, fmt.Errorf("quadpoints length %d is not a multiple of 8", len(coords))
	}
	boxes := make([]BBox, 0, len(coords)/8)
	for i := 0; i < len(coords); i += 8 {
		quad := coords[i : i+8]
		rect := r2.RectFromPoints(
			r2.Point{X: quad[0], Y: quad[1]},
			r2.Point{X: quad[2], Y: quad[3]},
			r2.Point{X: quad[4], Y: quad[5]},
			r2.Point{X: quad[6], Y: quad[7]},
		)
		boxes = append(boxes, fromRect(rect))
	}
	return boxes, nil
}

// Left returns the minimum x coordinate.
func (b BBox) Left() float64 { return b.X }

// Right returns the maximum x coordinate.
func (b BBox) Right() float64 { return b.X + b.Width }

// Bottom returns the minimum y coordinate.
func (b BBox) Bottom() float64 { return b.Y }

// Top returns the maximum y coordinate.
func (b BBox) Top() float64 { return b.Y + b.Height }

// TopLeft returns the top-left corner, the point where left-to-right,
// top-to-bottom reading of the box begins.
func (b BBox) TopLeft() Point {
	return Point{X: b.Left(), Y: b.Top()}
}

// Area returns the area of the box.
func (b BBox) Area() float64 {
	s := b.toRect().Size()
	return s.X * s.Y
}

// Union returns the smallest box containing both b and other.
func (b BBox) Union(other BBox) BBox {
	return fromRect(b.toRect().Union(other.toRect()))
}

// CoversMost reports whether at least half of item's area lies inside b.
// An item with zero area never matches. Both boxes must be well formed;
// passing a box with negative dimensions is a programming error and panics.
func (b BBox) CoversMost(item BBox) bool {
	if item.Width < 0 || item.Height < 0 {
		panic(fmt.Sprintf("model: malformed item box %+v in overlap test", item))
	}
	if b.Width < 0 || b.Height < 0 {
		panic(fmt.Sprintf("model: malformed bounding box %+v in overlap test", b))
	}
	itemArea := item.Area()
	if itemArea == 0 {
		return false
	}
	overlap := b.toRect().Intersection(item.toRect())
	if overlap.IsEmpty() {
		return false
	}
	s := overlap.Size()
	return s.X*s.Y >= 0.5*itemArea
}

func (b BBox) toRect() r2.Rect {
	return r2.RectFromPoints(
		r2.Point{X: b.Left(), Y: b.Bottom()},
		r2.Point{X: b.Right(), Y: b.Top()},
	)
}

func fromRect(r r2.Rect) BBox {
	return BBox{
		X:      r.X.Lo,
		Y:      r.Y.Lo,
		Width:  r.X.Length(),
		Height: r.Y.Length(),
	}
}
