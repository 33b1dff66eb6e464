package domain

type LineFrom struct {
	BlockID  string `json:"blockId"`
	AnswerID string `json:"answerId"`
	Position Point  `json:"position"`
}

// LineTo is the target end of a line. An empty BlockID marks a draft.
type LineTo struct {
	BlockID  string `json:"blockId"`
	Position Point  `json:"position"`
}

// Line is a directed connection from an answer to a block.
// Color doubles as the pending/highlighted/normal signal.
type Line struct {
	From  LineFrom `json:"fromId"`
	To    LineTo   `json:"toId"`
	Color Color    `json:"color"`
}

func (l Line) IsDraft() bool {
	return l.To.BlockID == ""
}

// Touches reports whether either end of the line references blockID.
func (l Line) Touches(blockID string) bool {
	return l.From.BlockID == blockID || l.To.BlockID == blockID
}

// Segment is a straight line to be drawn by the line-rendering canvas.
type Segment struct {
	From  Point `json:"from"`
	To    Point `json:"to"`
	Color Color `json:"color"`
	Draft bool  `json:"draft"`
}
