package events

import (
	"context"
	"fmt"
	"log/slog"
)

// Dispatch outcomes, used as metric labels.
const (
	OutcomeProcessed = "processed"
	OutcomeFailed    = "failed"
	OutcomeIgnored   = "ignored"
)

// ProcessorFunc handles one decoded payload. It reports whether processing
// completed without an internal failure.
type ProcessorFunc func(ctx context.Context, payload Payload) bool

// Recorder receives one notification per dispatched payload.
type Recorder interface {
	ObserveEvent(eventType, outcome string)
}

// Dispatcher maps message types to processors.
type Dispatcher struct {
	logger   *slog.Logger
	recorder Recorder
	routes   map[Type]ProcessorFunc
}

// NewDispatcher constructs an empty dispatch table.
func NewDispatcher(logger *slog.Logger, recorder Recorder) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		logger:   logger,
		recorder: recorder,
		routes:   make(map[Type]ProcessorFunc),
	}
}

// Register binds fn to every given type, replacing earlier bindings. It must
// be called before the dispatcher serves requests.
func (d *Dispatcher) Register(fn ProcessorFunc, types ...Type) {
	for _, t := range types {
		d.routes[t] = fn
	}
}

// Handles reports whether a processor is registered for t.
func (d *Dispatcher) Handles(t Type) bool {
	_, ok := d.routes[t]
	return ok
}

// Dispatch runs the processor for payload.Type, if any, and returns the
// outcome. A panicking processor is reported as failed.
func (d *Dispatcher) Dispatch(ctx context.Context, payload Payload) (outcome string) {
	fn, ok := d.routes[payload.Type]
	if !ok {
		d.logger.Info("ignoring unsupported message type", slog.String("event_type", string(payload.Type)))
		d.observe("unknown", OutcomeIgnored)
		return OutcomeIgnored
	}

	defer func() {
		if rec := recover(); rec != nil {
			d.logger.Error("processor panicked",
				slog.String("event_type", string(payload.Type)),
				slog.Any("error", fmt.Errorf("panic: %v", rec)),
			)
			outcome = OutcomeFailed
		}
		d.observe(string(payload.Type), outcome)
	}()

	if fn(ctx, payload) {
		return OutcomeProcessed
	}
	return OutcomeFailed
}

func (d *Dispatcher) observe(eventType, outcome string) {
	if d.recorder != nil {
		d.recorder.ObserveEvent(eventType, outcome)
	}
}
