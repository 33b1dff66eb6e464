package domain

// Measurements is the rendered box of a block as reported by the
// presentation layer. AnswerHeights follows display order.
type Measurements struct {
	HeaderHeight  float64   `json:"headerHeight"`
	AnswerHeights []float64 `json:"answerHeights"`
	BlockWidth    float64   `json:"blockWidth"`
	BlockHeight   float64   `json:"blockHeight"`
}
