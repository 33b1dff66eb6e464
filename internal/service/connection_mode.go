package service

import (
	"fmt"

	"blockflow/internal/domain"
)

// ─────────────────────────────────────────────────────────────
// Connection mode: drawing a new line from an answer to a block
// ─────────────────────────────────────────────────────────────

// ConnectionMode is Idle (no draft line) or Drawing (exactly one draft).
type ConnectionMode int

const (
	ModeIdle ConnectionMode = iota
	ModeDrawing
)

func (m ConnectionMode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeDrawing:
		return "drawing"
	default:
		return fmt.Sprintf("ConnectionMode(%d)", int(m))
	}
}

// Mode returns the current connection mode.
func (s *DiagramStore) Mode() ConnectionMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// LineAddMode reports whether a line is being drawn.
func (s *DiagramStore) LineAddMode() bool {
	return s.Mode() == ModeDrawing
}

// StartAddingLine creates the draft line at the answer's current anchor.
// Only one draft may exist, and an answer may originate one line at most.
func (s *DiagramStore) StartAddingLine(blockID, answerID string) error {
	return s.update(func() error {
		if s.mode == ModeDrawing {
			return fmt.Errorf("%w: from answer %s", domain.ErrDrawingInProgress, s.lineFrom.AnswerID)
		}
		a, err := s.answerLocked(blockID, answerID)
		if err != nil {
			return err
		}
		if _, ok := s.lineIndexFrom(answerID); ok {
			return fmt.Errorf("%w: %s", domain.ErrAnswerHasLine, answerID)
		}
		s.lines = append(s.lines, domain.Line{
			From:  domain.LineFrom{BlockID: blockID, AnswerID: answerID, Position: a.Position},
			To:    domain.LineTo{Position: a.Position},
			Color: domain.LineColorPending,
		})
		s.mode = ModeDrawing
		s.lineFrom = domain.LineRef{BlockID: blockID, AnswerID: answerID}
		return nil
	})
}

// SetPositionLine advances the free end of the draft line by (dx, dy).
// The deltas are expected to be already divided by the canvas zoom.
func (s *DiagramStore) SetPositionLine(dx, dy float64) error {
	return s.update(func() error {
		if s.mode != ModeDrawing {
			return domain.ErrNotDrawing
		}
		for i := range s.lines {
			l := &s.lines[i]
			if l.IsDraft() && l.From.AnswerID == s.lineFrom.AnswerID {
				l.To.Position.X += dx
				l.To.Position.Y += dy
			}
		}
		return nil
	})
}

// AddLine resolves the draft line onto targetBlockID's in-anchor and leaves
// drawing mode. Every line goes back to the normal color.
func (s *DiagramStore) AddLine(targetBlockID string) error {
	return s.update(func() error {
		if s.mode != ModeDrawing {
			return domain.ErrNotDrawing
		}
		target, err := s.blockLocked(targetBlockID)
		if err != nil {
			return err
		}
		if targetBlockID == s.lineFrom.BlockID {
			return fmt.Errorf("%w: %s", domain.ErrSelfLoop, targetBlockID)
		}
		for i := range s.lines {
			l := &s.lines[i]
			if l.IsDraft() && l.From.AnswerID == s.lineFrom.AnswerID {
				l.To = domain.LineTo{BlockID: targetBlockID, Position: target.InPosition}
			}
			l.Color = domain.LineColorNormal
		}
		s.resetLineMode()
		return nil
	})
}

// ClearLine abandons drawing: every unresolved line is dropped and the
// source ids are reset. Valid in any mode.
func (s *DiagramStore) ClearLine() error {
	return s.update(func() error {
		s.resetLineMode()
		return nil
	})
}

// ── Hover highlight ───────────────────────────────────────

// HighlightLine marks the line leaving answerID as a delete candidate.
// Only available while no line is being drawn.
func (s *DiagramStore) HighlightLine(answerID string) error {
	return s.update(func() error {
		if s.mode == ModeDrawing {
			return domain.ErrDrawingInProgress
		}
		i, ok := s.lineIndexFrom(answerID)
		if !ok {
			return fmt.Errorf("%w: from answer %s", domain.ErrLineNotFound, answerID)
		}
		s.lines[i].Color = domain.LineColorHighlight
		return nil
	})
}

// ClearLineHighlight reverts every resolved line to the normal color.
func (s *DiagramStore) ClearLineHighlight() error {
	return s.update(func() error {
		for i := range s.lines {
			if !s.lines[i].IsDraft() {
				s.lines[i].Color = domain.LineColorNormal
			}
		}
		return nil
	})
}

// DeleteLine removes the line leaving answerID.
func (s *DiagramStore) DeleteLine(answerID string) error {
	return s.update(func() error {
		if _, ok := s.lineIndexFrom(answerID); !ok {
			return fmt.Errorf("%w: from answer %s", domain.ErrLineNotFound, answerID)
		}
		s.lines = filterLines(s.lines, func(l domain.Line) bool {
			return l.From.AnswerID != answerID
		})
		if s.lineFrom.AnswerID == answerID {
			s.resetLineMode()
		}
		return nil
	})
}

// resetLineMode returns to Idle and drops any draft line.
func (s *DiagramStore) resetLineMode() {
	s.mode = ModeIdle
	s.lineFrom = domain.LineRef{}
	s.lines = filterLines(s.lines, func(l domain.Line) bool {
		return !l.IsDraft()
	})
}

func (s *DiagramStore) lineIndexFrom(answerID string) (int, bool) {
	for i, l := range s.lines {
		if l.From.AnswerID == answerID {
			return i, true
		}
	}
	return -1, false
}
