package core

import (
	"context"
	"time"
)

// EventType enumerates the lifecycle hooks emitted during a run.
type EventType string

const (
	EventFlowStart    EventType = "flow_start"
	EventFlowEnd      EventType = "flow_end"
	EventNodeStart    EventType = "node_start"
	EventNodeRetry    EventType = "node_retry"
	EventNodeFallback EventType = "node_fallback"
	EventNodeEnd      EventType = "node_end"
	EventNodeError    EventType = "node_error"
)

// Event carries what an Observer needs to log or count a lifecycle step.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Node      string
	Action    Action
	Attempt   int
	Duration  time.Duration
	Err       error
}

// Observer receives lifecycle events. Parallel batch nodes notify from
// several goroutines, so implementations must be safe for concurrent use.
type Observer interface {
	Notify(ctx context.Context, event Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, event Event)

func (f ObserverFunc) Notify(ctx context.Context, event Event) {
	f(ctx, event)
}

type observersKey struct{}

// WithObserver returns a context whose runs report to obs in addition to any
// observer already attached.
func WithObserver(ctx context.Context, obs Observer) context.Context {
	if obs == nil {
		return ctx
	}
	existing := observersFrom(ctx)
	observers := make([]Observer, 0, len(existing)+1)
	observers = append(observers, existing...)
	observers = append(observers, obs)
	return context.WithValue(ctx, observersKey{}, observers)
}

func observersFrom(ctx context.Context) []Observer {
	observers, _ := ctx.Value(observersKey{}).([]Observer)
	return observers
}

func notify(ctx context.Context, event Event) {
	observers := observersFrom(ctx)
	if len(observers) == 0 {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	for _, obs := range observers {
		obs.Notify(ctx, event)
	}
}

// notifyDone reports the end of a node run as node_end or node_error.
func notifyDone(ctx context.Context, name string, started time.Time, action Action, err error) {
	event := Event{
		Type:     EventNodeEnd,
		Node:     name,
		Action:   action,
		Duration: time.Since(started),
	}
	if err != nil {
		event.Type = EventNodeError
		event.Action = ""
		event.Err = err
	}
	notify(ctx, event)
}
