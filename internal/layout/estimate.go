package layout

import (
	"math"
	"unicode/utf8"

	"blockflow/internal/domain"
	"blockflow/internal/geometry"
)

// Estimator guesses the rendered size of a block from its text. It is used
// where no canvas reports real measurements (MCP, headless clients).
type Estimator struct {
	MinWidth        float64
	CharWidth       float64
	LineHeight      float64
	HeaderPadding   float64
	AnswerMinHeight float64
	RowGap          float64
}

func DefaultEstimator() Estimator {
	return Estimator{
		MinWidth:        200,
		CharWidth:       8,
		LineHeight:      20,
		HeaderPadding:   8,
		AnswerMinHeight: 28,
		RowGap:          geometry.DefaultRowGap,
	}
}

// Measure returns the estimated box of b. Text wraps at MinWidth.
func (e Estimator) Measure(b domain.Block) domain.Measurements {
	inner := e.MinWidth - 2*e.HeaderPadding

	header := e.lines(b.Header.Text, inner)*e.LineHeight + 2*e.HeaderPadding
	total := header
	heights := make([]float64, len(b.Answers))
	for i, a := range b.Answers {
		h := e.lines(a.Text, inner)*e.LineHeight + e.HeaderPadding
		heights[i] = math.Max(h, e.AnswerMinHeight)
		total += e.RowGap + heights[i]
	}

	return domain.Measurements{
		HeaderHeight:  header,
		AnswerHeights: heights,
		BlockWidth:    e.MinWidth,
		BlockHeight:   total + e.RowGap,
	}
}

func (e Estimator) lines(text string, width float64) float64 {
	n := utf8.RuneCountInString(text)
	if n == 0 || width <= 0 || e.CharWidth <= 0 {
		return 1
	}
	perLine := math.Max(1, math.Floor(width/e.CharWidth))
	return math.Ceil(float64(n) / perLine)
}
