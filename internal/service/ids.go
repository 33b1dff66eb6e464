package service

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDGenerator hands out ids for new blocks and answers. Uniqueness is the
// generator's contract; the store only checks it.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator produces prefixed random UUIDs, e.g. "out3f2a...".
type UUIDGenerator struct {
	Prefix string
}

func (g UUIDGenerator) NewID() string {
	return g.Prefix + uuid.New().String()
}

// SequenceGenerator produces "<prefix>1", "<prefix>2", ... Useful in tests
// where ids must be predictable.
type SequenceGenerator struct {
	Prefix string
	n      atomic.Int64
}

func (g *SequenceGenerator) NewID() string {
	return fmt.Sprintf("%s%d", g.Prefix, g.n.Add(1))
}
