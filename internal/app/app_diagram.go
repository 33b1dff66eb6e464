package app

import (
	"blockflow/internal/domain"
)

// ============================================================
// Blocks
// ============================================================

// AddBlock creates a block with a fresh id and returns the id.
func (a *App) AddBlock() (string, error) {
	id := a.blockIDs.NewID()
	if err := a.store.AddBlock(id); err != nil {
		return "", err
	}
	return id, nil
}

func (a *App) DeleteBlock(blockID string) error {
	return a.store.DeleteBlock(blockID)
}

func (a *App) SetHeaderText(blockID, text string) error {
	return a.store.SetHeaderText(blockID, text)
}

func (a *App) ChangeColorHeader(blockID, color string) error {
	return a.store.ChangeColorHeader(blockID, domain.Color(color))
}

func (a *App) SetBlockPosition(blockID string, x, y float64) error {
	return a.store.SetBlockPosition(blockID, x, y)
}

// MoveBlock is what the drag handler reports on every step.
func (a *App) MoveBlock(blockID string, x, y float64, m domain.Measurements) error {
	return a.store.MoveBlock(blockID, x, y, m)
}

func (a *App) RecomputeAnchors(blockID string, x, y float64, m domain.Measurements) error {
	return a.store.RecomputeAnchors(blockID, x, y, m)
}

// ============================================================
// Answers
// ============================================================

func (a *App) AddAnswer(blockID string) (string, error) {
	return a.store.AddAnswer(blockID)
}

func (a *App) DeleteAnswer(blockID, answerID string) error {
	return a.store.DeleteAnswer(blockID, answerID)
}

func (a *App) SetAnswerText(blockID, answerID, text string) error {
	return a.store.SetAnswerText(blockID, answerID, text)
}

func (a *App) ChangeColorAnswer(blockID, answerID, color string) error {
	return a.store.ChangeColorAnswer(blockID, answerID, domain.Color(color))
}

// ============================================================
// Lines
// ============================================================

func (a *App) StartAddingLine(blockID, answerID string) error {
	return a.store.StartAddingLine(blockID, answerID)
}

// SetPositionLine takes pointer deltas already divided by the canvas zoom.
func (a *App) SetPositionLine(dx, dy float64) error {
	return a.store.SetPositionLine(dx, dy)
}

func (a *App) AddLine(targetBlockID string) error {
	return a.store.AddLine(targetBlockID)
}

func (a *App) ClearLine() error {
	return a.store.ClearLine()
}

func (a *App) HighlightLine(answerID string) error {
	return a.store.HighlightLine(answerID)
}

func (a *App) ClearLineHighlight() error {
	return a.store.ClearLineHighlight()
}

func (a *App) DeleteLine(answerID string) error {
	return a.store.DeleteLine(answerID)
}
