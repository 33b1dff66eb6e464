package domain

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Header struct {
	Text  string `json:"text"`
	Color Color  `json:"color"`
}

// Answer is a labeled row of a block that can originate at most one line.
// Position is the anchor where its outgoing line starts.
type Answer struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Color    Color  `json:"color"`
	Position Point  `json:"position"`
}

// Block is a question node. Position is the draggable top-left origin,
// InPosition the anchor where incoming lines terminate.
// Answers are kept in insertion order, which is also display order.
type Block struct {
	ID         string   `json:"id"`
	Header     Header   `json:"header"`
	Position   Point    `json:"position"`
	InPosition Point    `json:"inPosition"`
	Answers    []Answer `json:"answers"`
}

// Answer returns the answer with the given id.
func (b *Block) Answer(id string) (*Answer, bool) {
	for i := range b.Answers {
		if b.Answers[i].ID == id {
			return &b.Answers[i], true
		}
	}
	return nil, false
}

// Clone returns a deep copy of the block.
func (b Block) Clone() Block {
	out := b
	out.Answers = make([]Answer, len(b.Answers))
	copy(out.Answers, b.Answers)
	return out
}
