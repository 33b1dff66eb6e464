package domain

import "errors"

// Sentinel errors for diagram operations. Store methods wrap them with the
// offending id; test with errors.Is.
var (
	// ErrEmptyID is returned for an empty block id; the empty id marks an
	// unresolved line target.
	ErrEmptyID = errors.New("id must not be empty")

	ErrBlockNotFound  = errors.New("block not found")
	ErrAnswerNotFound = errors.New("answer not found")
	ErrLineNotFound   = errors.New("line not found")

	// ErrDuplicateAnswer is returned when a generated answer id is already
	// in use anywhere in the diagram. Id uniqueness is the generator's job.
	ErrDuplicateAnswer = errors.New("duplicate answer id")

	// ErrAnswerHasLine is returned when an answer that already originates a
	// line is asked to start another one.
	ErrAnswerHasLine = errors.New("answer already has an outgoing line")

	ErrDrawingInProgress = errors.New("a line is already being drawn")
	ErrNotDrawing        = errors.New("no line is being drawn")
	ErrSelfLoop          = errors.New("cannot connect a block to itself")

	ErrUnknownColor        = errors.New("color is not in the palette")
	ErrMeasurementMismatch = errors.New("measured answer rows do not match answers")
)
