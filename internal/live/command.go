package live

import (
	"fmt"

	"blockflow/internal/domain"
	"blockflow/internal/layout"
	"blockflow/internal/service"
)

// Command is one inbound client request. Which fields matter depends on Op.
type Command struct {
	Op           string               `json:"op"`
	BlockID      string               `json:"blockId,omitempty"`
	AnswerID     string               `json:"answerId,omitempty"`
	Text         string               `json:"text,omitempty"`
	Color        domain.Color         `json:"color,omitempty"`
	X            float64              `json:"x,omitempty"`
	Y            float64              `json:"y,omitempty"`
	DX           float64              `json:"dx,omitempty"`
	DY           float64              `json:"dy,omitempty"`
	Measurements *domain.Measurements `json:"measurements,omitempty"`
	ActionID     string               `json:"actionId,omitempty"`
}

// Approver answers pending destructive actions raised elsewhere (MCP).
type Approver interface {
	Approve(actionID string)
	Reject(actionID string)
}

// Dispatcher applies commands to the store.
type Dispatcher struct {
	store     *service.DiagramStore
	blockIDs  service.IDGenerator
	estimator layout.Estimator
	approver  Approver
}

func NewDispatcher(store *service.DiagramStore, blockIDs service.IDGenerator, approver Approver) *Dispatcher {
	if blockIDs == nil {
		blockIDs = service.UUIDGenerator{Prefix: "blk-"}
	}
	return &Dispatcher{
		store:     store,
		blockIDs:  blockIDs,
		estimator: layout.DefaultEstimator(),
		approver:  approver,
	}
}

// Dispatch runs cmd. The store reports the resulting state through its emitter.
func (d *Dispatcher) Dispatch(cmd Command) error {
	s := d.store
	switch cmd.Op {
	case "addBlock":
		id := cmd.BlockID
		if id == "" {
			id = d.blockIDs.NewID()
		}
		return s.AddBlock(id)
	case "deleteBlock":
		return s.DeleteBlock(cmd.BlockID)
	case "setHeaderText":
		return s.SetHeaderText(cmd.BlockID, cmd.Text)
	case "changeColorHeader":
		return s.ChangeColorHeader(cmd.BlockID, cmd.Color)
	case "setBlockPosition":
		return s.SetBlockPosition(cmd.BlockID, cmd.X, cmd.Y)
	case "moveBlock":
		m, err := d.measurements(cmd)
		if err != nil {
			return err
		}
		return s.MoveBlock(cmd.BlockID, cmd.X, cmd.Y, m)
	case "recomputeAnchors":
		m, err := d.measurements(cmd)
		if err != nil {
			return err
		}
		return s.RecomputeAnchors(cmd.BlockID, cmd.X, cmd.Y, m)

	case "addAnswer":
		_, err := s.AddAnswer(cmd.BlockID)
		return err
	case "deleteAnswer":
		return s.DeleteAnswer(cmd.BlockID, cmd.AnswerID)
	case "setAnswerText":
		return s.SetAnswerText(cmd.BlockID, cmd.AnswerID, cmd.Text)
	case "changeColorAnswer":
		return s.ChangeColorAnswer(cmd.BlockID, cmd.AnswerID, cmd.Color)

	case "startAddingLine":
		return s.StartAddingLine(cmd.BlockID, cmd.AnswerID)
	case "setPositionLine":
		return s.SetPositionLine(cmd.DX, cmd.DY)
	case "addLine":
		return s.AddLine(cmd.BlockID)
	case "clearLine":
		return s.ClearLine()
	case "highlightLine":
		return s.HighlightLine(cmd.AnswerID)
	case "clearLineHighlight":
		return s.ClearLineHighlight()
	case "deleteLine":
		return s.DeleteLine(cmd.AnswerID)

	case "approve", "reject":
		if d.approver == nil {
			return fmt.Errorf("no approval queue attached")
		}
		if cmd.ActionID == "" {
			return fmt.Errorf("actionId is required")
		}
		if cmd.Op == "approve" {
			d.approver.Approve(cmd.ActionID)
		} else {
			d.approver.Reject(cmd.ActionID)
		}
		return nil
	default:
		return fmt.Errorf("unknown op %q", cmd.Op)
	}
}

// measurements returns the client's measurements or an estimate for
// clients that do not render.
func (d *Dispatcher) measurements(cmd Command) (domain.Measurements, error) {
	if cmd.Measurements != nil {
		return *cmd.Measurements, nil
	}
	b, err := d.store.Block(cmd.BlockID)
	if err != nil {
		return domain.Measurements{}, err
	}
	return d.estimator.Measure(b), nil
}
