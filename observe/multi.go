package observe

import (
	"context"

	"github.com/alt-coder/pocketgraph/core"
)

type multi []core.Observer

// Multi fans every event out to each non-nil observer in order.
func Multi(observers ...core.Observer) core.Observer {
	var m multi
	for _, o := range observers {
		if o != nil {
			m = append(m, o)
		}
	}
	return m
}

func (m multi) Notify(ctx context.Context, e core.Event) {
	for _, o := range m {
		o.Notify(ctx, e)
	}
}
