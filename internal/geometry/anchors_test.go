package geometry

import (
	"reflect"
	"testing"

	"blockflow/internal/domain"
)

func TestInAnchor_MiddleOfLeftEdge(t *testing.T) {
	r := NewResolver(DefaultRowGap)
	got := r.InAnchor(domain.Point{X: 100, Y: 50}, domain.Measurements{BlockWidth: 200, BlockHeight: 120})
	want := domain.Point{X: 100, Y: 110}
	if got != want {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestAnswerAnchors_StackBelowHeader(t *testing.T) {
	r := NewResolver(6)
	m := domain.Measurements{
		HeaderHeight:  40,
		AnswerHeights: []float64{28, 40, 28},
		BlockWidth:    200,
		BlockHeight:   160,
	}
	got := r.AnswerAnchors(domain.Point{X: 10, Y: 20}, m)

	// row 0: 20+40 + 6+28 - 14 = 80
	// row 1: 20+40 + 34 + 6+40 - 20 = 120
	// row 2: 20+40 + 34 + 46 + 6+28 - 14 = 160
	want := []domain.Point{{X: 210, Y: 80}, {X: 210, Y: 120}, {X: 210, Y: 160}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestAnswerAnchors_OrderFollowsRows(t *testing.T) {
	r := NewResolver(DefaultRowGap)
	m := domain.Measurements{HeaderHeight: 30, AnswerHeights: []float64{50, 10, 90, 28}, BlockWidth: 1}
	got := r.AnswerAnchors(domain.Point{}, m)
	for i := 1; i < len(got); i++ {
		if got[i].Y <= got[i-1].Y {
			t.Fatalf("anchor %d (%v) not below anchor %d (%v)", i, got[i], i-1, got[i-1])
		}
	}
}

func TestAnswerAnchors_NoRows(t *testing.T) {
	r := NewResolver(DefaultRowGap)
	got := r.AnswerAnchors(domain.Point{X: 5, Y: 5}, domain.Measurements{HeaderHeight: 30})
	if len(got) != 0 {
		t.Errorf("expected no anchors, got %v", got)
	}
}

func TestResolve_Deterministic(t *testing.T) {
	r := NewResolver(DefaultRowGap)
	origin := domain.Point{X: 33.5, Y: 71.25}
	m := domain.Measurements{HeaderHeight: 37, AnswerHeights: []float64{29, 31.5}, BlockWidth: 212, BlockHeight: 144}

	first := r.Resolve(origin, m)
	second := r.Resolve(origin, m)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("resolve not deterministic: %v vs %v", first, second)
	}
}
