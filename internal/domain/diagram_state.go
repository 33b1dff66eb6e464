package domain

// DiagramState is the complete state of the diagram for rendering.
// Pushed to adapters after every applied operation.
type DiagramState struct {
	Version     uint64  `json:"version"`
	Blocks      []Block `json:"blocks"`
	Lines       []Line  `json:"lines"`
	LineAddMode bool    `json:"lineAddMode"`
	LineFrom    LineRef `json:"lineFrom"`
}

// LineRef names the source of the line being drawn; empty when idle.
type LineRef struct {
	BlockID  string `json:"blockId"`
	AnswerID string `json:"answerId"`
}

// Segments flattens the lines for the line-rendering canvas.
func (s DiagramState) Segments() []Segment {
	segs := make([]Segment, len(s.Lines))
	for i, l := range s.Lines {
		segs[i] = Segment{
			From:  l.From.Position,
			To:    l.To.Position,
			Color: l.Color,
			Draft: l.IsDraft(),
		}
	}
	return segs
}

// Block returns the block with the given id.
func (s DiagramState) Block(id string) (Block, bool) {
	for _, b := range s.Blocks {
		if b.ID == id {
			return b, true
		}
	}
	return Block{}, false
}
