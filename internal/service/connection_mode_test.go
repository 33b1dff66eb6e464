package service_test

import (
	"errors"
	"testing"

	"blockflow/internal/domain"
	"blockflow/internal/service"
)

// twoBlocks sets up A (two answers) and B, both with computed anchors.
func twoBlocks(t *testing.T) (*service.DiagramStore, *service.MockEmitter, []string) {
	t.Helper()
	s, emitter := newStore(t)
	mustAddBlock(t, s, "A")
	mustAddBlock(t, s, "B")
	answers := []string{mustAddAnswer(t, s, "A"), mustAddAnswer(t, s, "A")}
	mustRecompute(t, s, "A", 0, 0)
	mustRecompute(t, s, "B", 400, 100)
	return s, emitter, answers
}

// ─────────────────────────────────────────────────────────────
// Start / resolve / cancel
// ─────────────────────────────────────────────────────────────

func TestStartAddingLine_CreatesDraft(t *testing.T) {
	s, _, answers := twoBlocks(t)

	if err := s.StartAddingLine("A", answers[1]); err != nil {
		t.Fatalf("StartAddingLine: %v", err)
	}
	if s.Mode() != service.ModeDrawing || !s.LineAddMode() {
		t.Fatalf("expected drawing mode, got %s", s.Mode())
	}

	a, _ := s.Block("A")
	lines := s.Lines()
	if len(lines) != 1 {
		t.Fatalf("expected 1 draft line, got %d", len(lines))
	}
	l := lines[0]
	if !l.IsDraft() || l.Color != domain.LineColorPending {
		t.Errorf("expected pending draft, got %+v", l)
	}
	if l.From.Position != a.Answers[1].Position || l.To.Position != a.Answers[1].Position {
		t.Errorf("draft should start and end at the answer anchor, got %+v", l)
	}

	st := s.Snapshot()
	if !st.LineAddMode || st.LineFrom != (domain.LineRef{BlockID: "A", AnswerID: answers[1]}) {
		t.Errorf("unexpected mode fields in snapshot: %+v / %+v", st.LineAddMode, st.LineFrom)
	}
}

func TestAddLine_ResolvesToTargetInAnchor(t *testing.T) {
	s, emitter, answers := twoBlocks(t)
	connect(t, s, "A", answers[0], "B")

	if s.Mode() != service.ModeIdle {
		t.Errorf("expected idle after AddLine, got %s", s.Mode())
	}
	b, _ := s.Block("B")
	l := s.Lines()[0]
	if l.To.BlockID != "B" || l.To.Position != b.InPosition {
		t.Errorf("line not resolved to B's in-anchor: %+v", l)
	}
	if l.Color != domain.LineColorNormal {
		t.Errorf("expected normal color, got %s", l.Color)
	}

	last, _ := emitter.Last()
	st := last.Data.(domain.DiagramState)
	if st.LineAddMode || st.LineFrom != (domain.LineRef{}) {
		t.Errorf("emitted state still drawing: %+v", st.LineFrom)
	}
}

func TestAddLine_RecolorsHighlightedLines(t *testing.T) {
	s, _, answers := twoBlocks(t)
	connect(t, s, "A", answers[0], "B")
	if err := s.HighlightLine(answers[0]); err != nil {
		t.Fatalf("HighlightLine: %v", err)
	}
	connect(t, s, "A", answers[1], "B")

	for _, l := range s.Lines() {
		if l.Color != domain.LineColorNormal {
			t.Errorf("expected every line normal after AddLine, got %+v", l)
		}
	}
}

func TestClearLine_DropsDraft(t *testing.T) {
	s, _, answers := twoBlocks(t)
	connect(t, s, "A", answers[0], "B")
	if err := s.StartAddingLine("A", answers[1]); err != nil {
		t.Fatalf("StartAddingLine: %v", err)
	}
	if err := s.ClearLine(); err != nil {
		t.Fatalf("ClearLine: %v", err)
	}

	if s.Mode() != service.ModeIdle {
		t.Errorf("expected idle, got %s", s.Mode())
	}
	lines := s.Lines()
	if len(lines) != 1 || lines[0].IsDraft() {
		t.Errorf("expected only the resolved line, got %+v", lines)
	}
}

func TestClearLine_IdleStillEmits(t *testing.T) {
	s, emitter := newStore(t)
	if err := s.ClearLine(); err != nil {
		t.Fatalf("ClearLine: %v", err)
	}
	if len(emitter.Events) != 1 {
		t.Errorf("expected one event, got %d", len(emitter.Events))
	}
}

// ─────────────────────────────────────────────────────────────
// Rejections
// ─────────────────────────────────────────────────────────────

func TestStartAddingLine_SecondStartRejected(t *testing.T) {
	s, emitter, answers := twoBlocks(t)
	if err := s.StartAddingLine("A", answers[0]); err != nil {
		t.Fatalf("StartAddingLine: %v", err)
	}
	n := len(emitter.Events)

	if err := s.StartAddingLine("A", answers[1]); !errors.Is(err, domain.ErrDrawingInProgress) {
		t.Fatalf("expected ErrDrawingInProgress, got %v", err)
	}
	if len(s.Lines()) != 1 {
		t.Errorf("expected a single draft, got %d lines", len(s.Lines()))
	}
	if len(emitter.Events) != n {
		t.Errorf("rejected start emitted an event")
	}
}

func TestStartAddingLine_AnswerAlreadyConnected(t *testing.T) {
	s, _, answers := twoBlocks(t)
	connect(t, s, "A", answers[0], "B")

	if err := s.StartAddingLine("A", answers[0]); !errors.Is(err, domain.ErrAnswerHasLine) {
		t.Fatalf("expected ErrAnswerHasLine, got %v", err)
	}
	if s.Mode() != service.ModeIdle {
		t.Errorf("rejected start changed mode to %s", s.Mode())
	}
}

func TestStartAddingLine_UnknownAnswer(t *testing.T) {
	s, _, _ := twoBlocks(t)
	if err := s.StartAddingLine("A", "nope"); !errors.Is(err, domain.ErrAnswerNotFound) {
		t.Errorf("expected ErrAnswerNotFound, got %v", err)
	}
	if err := s.StartAddingLine("nope", "out1"); !errors.Is(err, domain.ErrBlockNotFound) {
		t.Errorf("expected ErrBlockNotFound, got %v", err)
	}
}

func TestAddLine_SelfLoopRejected(t *testing.T) {
	s, _, answers := twoBlocks(t)
	if err := s.StartAddingLine("A", answers[0]); err != nil {
		t.Fatalf("StartAddingLine: %v", err)
	}

	if err := s.AddLine("A"); !errors.Is(err, domain.ErrSelfLoop) {
		t.Fatalf("expected ErrSelfLoop, got %v", err)
	}
	if s.Mode() != service.ModeDrawing {
		t.Errorf("self-loop rejection should keep drawing, got %s", s.Mode())
	}
	if !s.Lines()[0].IsDraft() {
		t.Errorf("draft was resolved despite rejection")
	}
}

func TestAddLine_UnknownTarget(t *testing.T) {
	s, _, answers := twoBlocks(t)
	if err := s.StartAddingLine("A", answers[0]); err != nil {
		t.Fatalf("StartAddingLine: %v", err)
	}
	if err := s.AddLine("ghost"); !errors.Is(err, domain.ErrBlockNotFound) {
		t.Fatalf("expected ErrBlockNotFound, got %v", err)
	}
	if s.Mode() != service.ModeDrawing {
		t.Errorf("expected to remain drawing, got %s", s.Mode())
	}
}

func TestAddLine_WhenIdle(t *testing.T) {
	s, emitter, _ := twoBlocks(t)
	n := len(emitter.Events)
	if err := s.AddLine("B"); !errors.Is(err, domain.ErrNotDrawing) {
		t.Fatalf("expected ErrNotDrawing, got %v", err)
	}
	if len(s.Lines()) != 0 || len(emitter.Events) != n {
		t.Errorf("idle AddLine changed state")
	}
}

// ─────────────────────────────────────────────────────────────
// Free end tracking
// ─────────────────────────────────────────────────────────────

func TestSetPositionLine_AccumulatesDeltas(t *testing.T) {
	s, _, answers := twoBlocks(t)
	if err := s.StartAddingLine("A", answers[0]); err != nil {
		t.Fatalf("StartAddingLine: %v", err)
	}
	start := s.Lines()[0].To.Position

	for _, d := range [][2]float64{{10, 5}, {-3, 2.5}} {
		if err := s.SetPositionLine(d[0], d[1]); err != nil {
			t.Fatalf("SetPositionLine: %v", err)
		}
	}

	got := s.Lines()[0].To.Position
	want := domain.Point{X: start.X + 7, Y: start.Y + 7.5}
	if got != want {
		t.Errorf("expected free end at %v, got %v", want, got)
	}
	if s.Lines()[0].From.Position != start {
		t.Errorf("fixed end moved")
	}
}

func TestSetPositionLine_WhenIdle(t *testing.T) {
	s, _, _ := twoBlocks(t)
	if err := s.SetPositionLine(1, 1); !errors.Is(err, domain.ErrNotDrawing) {
		t.Fatalf("expected ErrNotDrawing, got %v", err)
	}
}

// ─────────────────────────────────────────────────────────────
// Highlight & delete
// ─────────────────────────────────────────────────────────────

func TestHighlightLine(t *testing.T) {
	s, _, answers := twoBlocks(t)
	connect(t, s, "A", answers[0], "B")
	connect(t, s, "A", answers[1], "B")

	if err := s.HighlightLine(answers[1]); err != nil {
		t.Fatalf("HighlightLine: %v", err)
	}
	lines := s.Lines()
	if lines[0].Color != domain.LineColorNormal || lines[1].Color != domain.LineColorHighlight {
		t.Errorf("unexpected colors %s / %s", lines[0].Color, lines[1].Color)
	}

	if err := s.ClearLineHighlight(); err != nil {
		t.Fatalf("ClearLineHighlight: %v", err)
	}
	for _, l := range s.Lines() {
		if l.Color != domain.LineColorNormal {
			t.Errorf("expected normal after clear, got %s", l.Color)
		}
	}
}

func TestHighlightLine_Rejections(t *testing.T) {
	s, _, answers := twoBlocks(t)
	if err := s.HighlightLine(answers[0]); !errors.Is(err, domain.ErrLineNotFound) {
		t.Errorf("expected ErrLineNotFound, got %v", err)
	}
	if err := s.StartAddingLine("A", answers[0]); err != nil {
		t.Fatalf("StartAddingLine: %v", err)
	}
	if err := s.HighlightLine(answers[0]); !errors.Is(err, domain.ErrDrawingInProgress) {
		t.Errorf("expected ErrDrawingInProgress, got %v", err)
	}
}

func TestClearLineHighlight_KeepsDraftPending(t *testing.T) {
	s, _, answers := twoBlocks(t)
	if err := s.StartAddingLine("A", answers[0]); err != nil {
		t.Fatalf("StartAddingLine: %v", err)
	}
	if err := s.ClearLineHighlight(); err != nil {
		t.Fatalf("ClearLineHighlight: %v", err)
	}
	if c := s.Lines()[0].Color; c != domain.LineColorPending {
		t.Errorf("draft recolored to %s", c)
	}
}

func TestDeleteLine(t *testing.T) {
	s, _, answers := twoBlocks(t)
	connect(t, s, "A", answers[0], "B")

	if err := s.DeleteLine(answers[0]); err != nil {
		t.Fatalf("DeleteLine: %v", err)
	}
	if len(s.Lines()) != 0 {
		t.Fatalf("expected no lines, got %d", len(s.Lines()))
	}
	if err := s.DeleteLine(answers[0]); !errors.Is(err, domain.ErrLineNotFound) {
		t.Errorf("expected ErrLineNotFound, got %v", err)
	}
	// The answer is free to start a new line.
	if err := s.StartAddingLine("A", answers[0]); err != nil {
		t.Errorf("StartAddingLine after delete: %v", err)
	}
}

func TestDeleteLine_DraftResetsMode(t *testing.T) {
	s, _, answers := twoBlocks(t)
	if err := s.StartAddingLine("A", answers[0]); err != nil {
		t.Fatalf("StartAddingLine: %v", err)
	}
	if err := s.DeleteLine(answers[0]); err != nil {
		t.Fatalf("DeleteLine: %v", err)
	}
	if s.Mode() != service.ModeIdle {
		t.Errorf("expected idle, got %s", s.Mode())
	}
}

// ─────────────────────────────────────────────────────────────
// Cascades through connection mode
// ─────────────────────────────────────────────────────────────

func TestDeleteTarget_FreesAnswer(t *testing.T) {
	s, _, answers := twoBlocks(t)
	connect(t, s, "A", answers[1], "B")

	if err := s.DeleteBlock("B"); err != nil {
		t.Fatalf("DeleteBlock: %v", err)
	}
	if len(s.Lines()) != 0 {
		t.Fatalf("expected line to B to be removed, got %+v", s.Lines())
	}
	if err := s.StartAddingLine("A", answers[1]); err != nil {
		t.Errorf("answer should accept a new line: %v", err)
	}
}

func TestDeleteSourceBlock_WhileDrawing(t *testing.T) {
	s, _, answers := twoBlocks(t)
	if err := s.StartAddingLine("A", answers[0]); err != nil {
		t.Fatalf("StartAddingLine: %v", err)
	}
	if err := s.DeleteBlock("A"); err != nil {
		t.Fatalf("DeleteBlock: %v", err)
	}
	if s.Mode() != service.ModeIdle || len(s.Lines()) != 0 {
		t.Errorf("expected idle with no lines, got %s and %d lines", s.Mode(), len(s.Lines()))
	}
}

func TestDeleteSourceAnswer_WhileDrawing(t *testing.T) {
	s, _, answers := twoBlocks(t)
	if err := s.StartAddingLine("A", answers[0]); err != nil {
		t.Fatalf("StartAddingLine: %v", err)
	}
	if err := s.DeleteAnswer("A", answers[0]); err != nil {
		t.Fatalf("DeleteAnswer: %v", err)
	}
	if s.Mode() != service.ModeIdle || len(s.Lines()) != 0 {
		t.Errorf("expected idle with no lines, got %s and %d lines", s.Mode(), len(s.Lines()))
	}
}

func TestRecompute_WhileDrawingMovesDraftStart(t *testing.T) {
	s, _, answers := twoBlocks(t)
	if err := s.StartAddingLine("A", answers[0]); err != nil {
		t.Fatalf("StartAddingLine: %v", err)
	}
	mustRecompute(t, s, "A", 50, 50)

	a, _ := s.Block("A")
	if got := s.Lines()[0].From.Position; got != a.Answers[0].Position {
		t.Errorf("draft start %v not at moved anchor %v", got, a.Answers[0].Position)
	}
}
