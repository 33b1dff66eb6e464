// Package geometry derives connector anchors from the measured box of a block.
//
// Everything here is pure: the same origin and measurements always produce
// the same anchors.
package geometry

import "blockflow/internal/domain"

// DefaultRowGap is the vertical space counted before every answer row.
const DefaultRowGap = 6.0

// Anchors are the attachment points of one block.
type Anchors struct {
	In      domain.Point
	Answers []domain.Point // display order
}

// Resolver computes anchors for a fixed inter-row gap.
type Resolver struct {
	RowGap float64
}

func NewResolver(rowGap float64) Resolver {
	return Resolver{RowGap: rowGap}
}

// InAnchor is where incoming lines terminate: left edge, vertical middle.
func (r Resolver) InAnchor(origin domain.Point, m domain.Measurements) domain.Point {
	return domain.Point{X: origin.X, Y: origin.Y + m.BlockHeight*0.5}
}

// AnswerAnchors returns one anchor per answer row on the block's right edge,
// each at the vertical middle of its own row. Rows stack top to bottom
// starting right below the header, every row preceded by RowGap.
func (r Resolver) AnswerAnchors(origin domain.Point, m domain.Measurements) []domain.Point {
	out := make([]domain.Point, len(m.AnswerHeights))
	x := origin.X + m.BlockWidth
	bottom := origin.Y + m.HeaderHeight
	for i, h := range m.AnswerHeights {
		bottom += r.RowGap + h
		out[i] = domain.Point{X: x, Y: bottom - h*0.5}
	}
	return out
}

// Resolve computes every anchor of a block.
func (r Resolver) Resolve(origin domain.Point, m domain.Measurements) Anchors {
	return Anchors{
		In:      r.InAnchor(origin, m),
		Answers: r.AnswerAnchors(origin, m),
	}
}
