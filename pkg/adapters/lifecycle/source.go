// Package lifecycle exposes store change events as a lifecycle.Source.
package lifecycle

import (
	"context"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/runways/pkg/core"
)

type eventSource struct {
	inputs []<-chan core.Event
	out    chan lifecycle.Event
}

// NewSource merges store event channels into one lifecycle.Source. The
// output closes once every input has closed or the context ends.
func NewSource(inputs ...<-chan core.Event) lifecycle.Source {
	return &eventSource{
		inputs: inputs,
		out:    make(chan lifecycle.Event),
	}
}

func (s *eventSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *eventSource) Start(ctx context.Context) error {
	merged := make(chan core.Event)
	remaining := len(s.inputs)
	finished := make(chan struct{}, len(s.inputs))

	for _, in := range s.inputs {
		lifecycle.Go(ctx, func(ctx context.Context) error {
			defer func() { finished <- struct{}{} }()
			for {
				select {
				case <-ctx.Done():
					return nil
				case e, ok := <-in:
					if !ok {
						return nil
					}
					select {
					case merged <- e:
					case <-ctx.Done():
						return nil
					}
				}
			}
		})
	}

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for remaining > 0 {
			select {
			case <-ctx.Done():
				return nil
			case <-finished:
				remaining--
			case e := <-merged:
				// core.Event satisfies lifecycle.Event through String.
				select {
				case s.out <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
		return nil
	})
	return nil
}
