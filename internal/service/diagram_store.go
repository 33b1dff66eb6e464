package service

import (
	"context"
	"fmt"
	"sync"

	"blockflow/internal/domain"
	"blockflow/internal/geometry"
)

// ─────────────────────────────────────────────────────────────
// Diagram Store: single owner of blocks, answers and lines
// ─────────────────────────────────────────────────────────────

// DiagramDefaults are applied to newly created blocks and answers.
type DiagramDefaults struct {
	HeaderText  string
	HeaderColor domain.Color
	AnswerText  string
	AnswerColor domain.Color
	Origin      domain.Point
}

// DefaultDiagramDefaults returns the built-in placeholders.
func DefaultDiagramDefaults() DiagramDefaults {
	return DiagramDefaults{
		HeaderText:  "Enter question text",
		HeaderColor: domain.ColorDeepOrange,
		AnswerText:  "Answer text",
		AnswerColor: domain.ColorYellow,
		Origin:      domain.Point{X: 100, Y: 50},
	}
}

func (d DiagramDefaults) validate() error {
	if !d.HeaderColor.Valid() {
		return fmt.Errorf("header color: %w: %q", domain.ErrUnknownColor, d.HeaderColor)
	}
	if !d.AnswerColor.Valid() {
		return fmt.Errorf("answer color: %w: %q", domain.ErrUnknownColor, d.AnswerColor)
	}
	return nil
}

// Options configures a DiagramStore. Zero values fall back to defaults.
type Options struct {
	// Context is handed to the emitter on every event.
	Context context.Context
	Emitter EventEmitter
	// AnswerIDs generates ids for AddAnswer.
	AnswerIDs IDGenerator
	Defaults  *DiagramDefaults
	// Resolver computes anchors; a zero Resolver uses geometry.DefaultRowGap.
	Resolver geometry.Resolver
}

// DiagramStore owns the diagram graph and the connection-mode state.
//
// Every exported mutation is applied completely, including all dependent
// line rewrites, before the next one starts, and emits exactly one
// EventDiagramChanged on success. A rejected operation leaves the state
// untouched and emits nothing.
type DiagramStore struct {
	ctx       context.Context
	emitter   EventEmitter
	answerIDs IDGenerator
	resolver  geometry.Resolver

	mu       sync.Mutex
	notifyMu sync.Mutex // keeps emission order equal to mutation order

	defaults    DiagramDefaults
	blocks      map[string]*domain.Block
	order       []string          // block creation order
	answerOwner map[string]string // answer id → block id
	lines       []domain.Line
	mode        ConnectionMode
	lineFrom    domain.LineRef
	version     uint64
}

// NewDiagramStore creates an empty store.
func NewDiagramStore(opts Options) *DiagramStore {
	s := &DiagramStore{
		ctx:         opts.Context,
		emitter:     opts.Emitter,
		answerIDs:   opts.AnswerIDs,
		resolver:    opts.Resolver,
		defaults:    DefaultDiagramDefaults(),
		blocks:      make(map[string]*domain.Block),
		answerOwner: make(map[string]string),
	}
	if s.ctx == nil {
		s.ctx = context.Background()
	}
	if s.emitter == nil {
		s.emitter = NoopEmitter{}
	}
	if s.answerIDs == nil {
		s.answerIDs = UUIDGenerator{Prefix: "out"}
	}
	if s.resolver == (geometry.Resolver{}) {
		s.resolver = geometry.NewResolver(geometry.DefaultRowGap)
	}
	if opts.Defaults != nil {
		s.defaults = *opts.Defaults
	}
	return s
}

// update runs fn under the lock and, if it succeeds, publishes the new state.
func (s *DiagramStore) update(fn func() error) error {
	s.mu.Lock()
	if err := fn(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.version++
	state := s.snapshotLocked()
	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()

	s.emitter.Emit(s.ctx, EventDiagramChanged, state)
	return nil
}

// SetDefaults replaces the placeholders used for blocks and answers created
// from now on. Existing elements are not touched.
func (s *DiagramStore) SetDefaults(d DiagramDefaults) error {
	if err := d.validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.defaults = d
	s.mu.Unlock()
	return nil
}

// Defaults returns the placeholders currently in effect.
func (s *DiagramStore) Defaults() DiagramDefaults {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.defaults
}

// ── Blocks ────────────────────────────────────────────────

// AddBlock inserts a block with placeholder header, no answers, the default
// origin and a zero in-anchor. An existing block with the same id is
// replaced; lines that started at its answers go with it.
func (s *DiagramStore) AddBlock(id string) error {
	if id == "" {
		return domain.ErrEmptyID
	}
	return s.update(func() error {
		if old, ok := s.blocks[id]; ok {
			for _, a := range old.Answers {
				delete(s.answerOwner, a.ID)
			}
			s.lines = filterLines(s.lines, func(l domain.Line) bool {
				return l.From.BlockID != id
			})
			if s.lineFrom.BlockID == id {
				s.resetLineMode()
			}
		} else {
			s.order = append(s.order, id)
		}
		s.blocks[id] = &domain.Block{
			ID: id,
			Header: domain.Header{
				Text:  s.defaults.HeaderText,
				Color: s.defaults.HeaderColor,
			},
			Position: s.defaults.Origin,
			Answers:  []domain.Answer{},
		}
		return nil
	})
}

// DeleteBlock removes the block and every line that starts or ends at it.
func (s *DiagramStore) DeleteBlock(blockID string) error {
	return s.update(func() error {
		b, err := s.blockLocked(blockID)
		if err != nil {
			return err
		}
		for _, a := range b.Answers {
			delete(s.answerOwner, a.ID)
		}
		delete(s.blocks, blockID)
		for i, id := range s.order {
			if id == blockID {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
		s.lines = filterLines(s.lines, func(l domain.Line) bool {
			return !l.Touches(blockID)
		})
		if s.lineFrom.BlockID == blockID {
			s.resetLineMode()
		}
		return nil
	})
}

func (s *DiagramStore) SetHeaderText(blockID, text string) error {
	return s.update(func() error {
		b, err := s.blockLocked(blockID)
		if err != nil {
			return err
		}
		b.Header.Text = text
		return nil
	})
}

func (s *DiagramStore) ChangeColorHeader(blockID string, color domain.Color) error {
	if !color.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrUnknownColor, color)
	}
	return s.update(func() error {
		b, err := s.blockLocked(blockID)
		if err != nil {
			return err
		}
		b.Header.Color = color
		return nil
	})
}

// SetBlockPosition moves the drag origin only. Anchors follow on the next
// RecomputeAnchors.
func (s *DiagramStore) SetBlockPosition(blockID string, x, y float64) error {
	return s.update(func() error {
		b, err := s.blockLocked(blockID)
		if err != nil {
			return err
		}
		b.Position = domain.Point{X: x, Y: y}
		return nil
	})
}

// ── Answers ───────────────────────────────────────────────

// AddAnswer appends an answer with a generated id and placeholder text and
// color. The caller is expected to report fresh measurements afterwards.
func (s *DiagramStore) AddAnswer(blockID string) (string, error) {
	var answerID string
	err := s.update(func() error {
		b, err := s.blockLocked(blockID)
		if err != nil {
			return err
		}
		id := s.answerIDs.NewID()
		if id == "" {
			return domain.ErrEmptyID
		}
		if _, taken := s.answerOwner[id]; taken {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateAnswer, id)
		}
		b.Answers = append(b.Answers, domain.Answer{
			ID:    id,
			Text:  s.defaults.AnswerText,
			Color: s.defaults.AnswerColor,
		})
		s.answerOwner[id] = blockID
		answerID = id
		return nil
	})
	return answerID, err
}

// DeleteAnswer removes the answer and the line that starts at it.
func (s *DiagramStore) DeleteAnswer(blockID, answerID string) error {
	return s.update(func() error {
		b, err := s.blockLocked(blockID)
		if err != nil {
			return err
		}
		idx := answerIndex(b, answerID)
		if idx < 0 {
			return fmt.Errorf("%w: %s in block %s", domain.ErrAnswerNotFound, answerID, blockID)
		}
		b.Answers = append(b.Answers[:idx], b.Answers[idx+1:]...)
		delete(s.answerOwner, answerID)
		s.lines = filterLines(s.lines, func(l domain.Line) bool {
			return l.From.AnswerID != answerID
		})
		if s.lineFrom.AnswerID == answerID {
			s.resetLineMode()
		}
		return nil
	})
}

func (s *DiagramStore) SetAnswerText(blockID, answerID, text string) error {
	return s.update(func() error {
		a, err := s.answerLocked(blockID, answerID)
		if err != nil {
			return err
		}
		a.Text = text
		return nil
	})
}

func (s *DiagramStore) ChangeColorAnswer(blockID, answerID string, color domain.Color) error {
	if !color.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrUnknownColor, color)
	}
	return s.update(func() error {
		a, err := s.answerLocked(blockID, answerID)
		if err != nil {
			return err
		}
		a.Color = color
		return nil
	})
}

// ── Geometry ──────────────────────────────────────────────

// RecomputeAnchors derives the block's in-anchor and answer anchors from
// its drag origin (x, y) and the measured box m, then rewrites the
// endpoint of every line attached to the block. Which line connects to
// which id never changes here.
//
// Call it after every drag step, after answers are added or removed, and
// whenever a rendered header or answer row changes height.
func (s *DiagramStore) RecomputeAnchors(blockID string, x, y float64, m domain.Measurements) error {
	return s.update(func() error {
		return s.recomputeLocked(blockID, domain.Point{X: x, Y: y}, m)
	})
}

// MoveBlock sets the drag origin and recomputes anchors as one operation.
// This is what a drag step reports.
func (s *DiagramStore) MoveBlock(blockID string, x, y float64, m domain.Measurements) error {
	return s.update(func() error {
		origin := domain.Point{X: x, Y: y}
		if err := s.recomputeLocked(blockID, origin, m); err != nil {
			return err
		}
		s.blocks[blockID].Position = origin
		return nil
	})
}

func (s *DiagramStore) recomputeLocked(blockID string, origin domain.Point, m domain.Measurements) error {
	b, err := s.blockLocked(blockID)
	if err != nil {
		return err
	}
	if len(m.AnswerHeights) != len(b.Answers) {
		return fmt.Errorf("%w: block %s has %d answers, got %d heights",
			domain.ErrMeasurementMismatch, blockID, len(b.Answers), len(m.AnswerHeights))
	}

	anchors := s.resolver.Resolve(origin, m)
	b.InPosition = anchors.In
	byAnswer := make(map[string]domain.Point, len(b.Answers))
	for i := range b.Answers {
		b.Answers[i].Position = anchors.Answers[i]
		byAnswer[b.Answers[i].ID] = anchors.Answers[i]
	}

	for i := range s.lines {
		l := &s.lines[i]
		if l.To.BlockID == blockID {
			l.To.Position = anchors.In
		}
		if l.From.BlockID == blockID {
			if p, ok := byAnswer[l.From.AnswerID]; ok {
				l.From.Position = p
			}
		}
	}
	return nil
}

// ── Readers ───────────────────────────────────────────────

// Snapshot returns a deep copy of the whole diagram.
func (s *DiagramStore) Snapshot() domain.DiagramState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Block returns a copy of one block.
func (s *DiagramStore) Block(blockID string) (domain.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := s.blockLocked(blockID)
	if err != nil {
		return domain.Block{}, err
	}
	return b.Clone(), nil
}

// Lines returns a copy of the line list.
func (s *DiagramStore) Lines() []domain.Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Line, len(s.lines))
	copy(out, s.lines)
	return out
}

func (s *DiagramStore) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

func (s *DiagramStore) snapshotLocked() domain.DiagramState {
	blocks := make([]domain.Block, 0, len(s.order))
	for _, id := range s.order {
		blocks = append(blocks, s.blocks[id].Clone())
	}
	lines := make([]domain.Line, len(s.lines))
	copy(lines, s.lines)
	return domain.DiagramState{
		Version:     s.version,
		Blocks:      blocks,
		Lines:       lines,
		LineAddMode: s.mode == ModeDrawing,
		LineFrom:    s.lineFrom,
	}
}

// ── helpers ────────────────────────────────────────────────

func (s *DiagramStore) blockLocked(blockID string) (*domain.Block, error) {
	b, ok := s.blocks[blockID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrBlockNotFound, blockID)
	}
	return b, nil
}

func (s *DiagramStore) answerLocked(blockID, answerID string) (*domain.Answer, error) {
	b, err := s.blockLocked(blockID)
	if err != nil {
		return nil, err
	}
	a, ok := b.Answer(answerID)
	if !ok {
		return nil, fmt.Errorf("%w: %s in block %s", domain.ErrAnswerNotFound, answerID, blockID)
	}
	return a, nil
}

func answerIndex(b *domain.Block, answerID string) int {
	for i := range b.Answers {
		if b.Answers[i].ID == answerID {
			return i
		}
	}
	return -1
}

func filterLines(lines []domain.Line, keep func(domain.Line) bool) []domain.Line {
	out := lines[:0]
	for _, l := range lines {
		if keep(l) {
			out = append(out, l)
		}
	}
	return out
}
