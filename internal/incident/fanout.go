package incident

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Fanout delivers each incident to every sink concurrently. A failing sink
// does not stop the others; all failures are joined into the result.
type Fanout struct {
	sinks []namedSink
}

type namedSink struct {
	name string
	sink Sink
}

func NewFanout() *Fanout {
	return &Fanout{}
}

// Add registers a sink under a name used in error messages.
func (f *Fanout) Add(name string, s Sink) *Fanout {
	f.sinks = append(f.sinks, namedSink{name: name, sink: s})
	return f
}

func (f *Fanout) Len() int {
	return len(f.sinks)
}

func (f *Fanout) CreateAlert(ctx context.Context, a Alert) error {
	return f.each(ctx, func(ctx context.Context, s Sink) error {
		return s.CreateAlert(ctx, a)
	})
}

func (f *Fanout) CreateReport(ctx context.Context, r Report) error {
	return f.each(ctx, func(ctx context.Context, s Sink) error {
		return s.CreateReport(ctx, r)
	})
}

func (f *Fanout) each(ctx context.Context, fn func(context.Context, Sink) error) error {
	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
	)

	for _, ns := range f.sinks {
		ns := ns
		g.Go(func() error {
			if err := fn(ctx, ns.sink); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", ns.name, err))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	return errors.Join(errs...)
}
