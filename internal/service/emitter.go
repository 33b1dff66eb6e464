package service

import "context"

// ─────────────────────────────────────────────────────────────
// EventEmitter: decouples the store from its presentation adapters
// ─────────────────────────────────────────────────────────────

// EventDiagramChanged carries a domain.DiagramState after every applied
// store operation.
const EventDiagramChanged = "diagram:changed"

// EventEmitter is an interface for pushing events to a presentation adapter.
// The desktop app delegates to wailsRuntime.EventsEmit, the live hub to its
// websocket clients. Emit is called after the operation is fully applied and
// must not call back into a mutating store method synchronously.
type EventEmitter interface {
	Emit(ctx context.Context, event string, data any)
}

// Emitters fans a single emission out to several adapters, in order.
type Emitters []EventEmitter

func (e Emitters) Emit(ctx context.Context, event string, data any) {
	for _, em := range e {
		if em != nil {
			em.Emit(ctx, event, data)
		}
	}
}

// NoopEmitter discards every event.
type NoopEmitter struct{}

func (NoopEmitter) Emit(_ context.Context, _ string, _ any) {}

// MockEmitter is a test-friendly EventEmitter that records all calls.
type MockEmitter struct {
	Events []EmittedEvent
}

// EmittedEvent holds a single recorded emission for test assertions.
type EmittedEvent struct {
	Event string
	Data  any
}

func (m *MockEmitter) Emit(_ context.Context, event string, data any) {
	m.Events = append(m.Events, EmittedEvent{Event: event, Data: data})
}

// Last returns the most recent emission, or false when nothing was emitted.
func (m *MockEmitter) Last() (EmittedEvent, bool) {
	if len(m.Events) == 0 {
		return EmittedEvent{}, false
	}
	return m.Events[len(m.Events)-1], true
}
