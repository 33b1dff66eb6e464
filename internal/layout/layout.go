package layout

import (
	"math"

	"blockflow/internal/domain"
)

const (
	GridSize = 30.0
	Padding  = 60.0 // 2 grid cells between blocks
	MaxRowW  = 1800.0
)

// Box is the canvas footprint of one block.
type Box struct {
	ID   string
	X, Y float64
	W, H float64
}

// Boxes measures every block of the state with est.
func Boxes(state domain.DiagramState, est Estimator) []Box {
	out := make([]Box, len(state.Blocks))
	for i, b := range state.Blocks {
		m := est.Measure(b)
		out[i] = Box{ID: b.ID, X: b.Position.X, Y: b.Position.Y, W: m.BlockWidth, H: m.BlockHeight}
	}
	return out
}

// LayoutEngine handles automatic placement of blocks on the canvas
// so that blocks created without a pointer don't overlap existing ones.
type LayoutEngine struct {
	gridSize float64
	padding  float64
	maxRowW  float64
}

func NewLayoutEngine() *LayoutEngine {
	return &LayoutEngine{
		gridSize: GridSize,
		padding:  Padding,
		maxRowW:  MaxRowW,
	}
}

// snap rounds v to the nearest grid point.
func (le *LayoutEngine) snap(v float64) float64 {
	return math.Round(v/le.gridSize) * le.gridSize
}

func (a Box) intersects(b Box) bool {
	return a.X < b.X+b.W && a.X+a.W > b.X &&
		a.Y < b.Y+b.H && a.Y+a.H > b.Y
}

func (a Box) grow(d float64) Box {
	return Box{ID: a.ID, X: a.X - d, Y: a.Y - d, W: a.W + d*2, H: a.H + d*2}
}

// NextPosition finds the first free grid position, scanning rows
// top-to-bottom, for a block of size (w, h).
func (le *LayoutEngine) NextPosition(existing []Box, w, h float64) (float64, float64) {
	if len(existing) == 0 {
		return 0, 0
	}

	padded := make([]Box, len(existing))
	for i, b := range existing {
		padded[i] = b.grow(le.padding)
	}

	candidate := Box{W: w, H: h}
	for y := 0.0; y < 100000; y += le.gridSize {
		for x := 0.0; x < le.maxRowW; x += le.gridSize {
			candidate.X = le.snap(x)
			candidate.Y = le.snap(y)

			overlaps := false
			for _, occ := range padded {
				if candidate.intersects(occ) {
					overlaps = true
					break
				}
			}
			if !overlaps {
				return candidate.X, candidate.Y
			}
		}
	}

	// Fallback: below everything
	maxY := 0.0
	for _, b := range existing {
		if b.Y+b.H > maxY {
			maxY = b.Y + b.H
		}
	}
	return 0, le.snap(maxY + le.padding)
}

// ArrangeGroup lays boxes out in rows starting at (startX, startY),
// wrapping at MaxRowW. Positions are updated in place.
func (le *LayoutEngine) ArrangeGroup(boxes []Box, startX, startY float64) []Box {
	x := le.snap(startX)
	y := le.snap(startY)
	rowHeight := 0.0

	for i := range boxes {
		if x > le.snap(startX) && x+boxes[i].W > le.maxRowW {
			x = le.snap(startX)
			y += le.snap(rowHeight + le.padding)
			rowHeight = 0
		}

		boxes[i].X = x
		boxes[i].Y = y

		if boxes[i].H > rowHeight {
			rowHeight = boxes[i].H
		}
		x += le.snap(boxes[i].W + le.padding)
	}

	return boxes
}
