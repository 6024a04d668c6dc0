package service

import (
	"context"
	"sync"

	"ewager/events"
)

// sequenceRandomizer replays fixed draws, each reduced modulo n
type sequenceRandomizer struct {
	mu     sync.Mutex
	values []int
	next   int
	calls  []int // n passed to each call
}

func newSequenceRandomizer(values ...int) *sequenceRandomizer {
	return &sequenceRandomizer{values: values}
}

func (r *sequenceRandomizer) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls = append(r.calls, n)
	if len(r.values) == 0 {
		return 0
	}
	v := r.values[r.next%len(r.values)]
	r.next++
	return v % n
}

// recordingPublisher keeps every emitted event in order
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Emit(ctx context.Context, event events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) ofType(t events.EventType) []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()

	var out []events.Event
	for _, e := range p.events {
		if e.Type() == t {
			out = append(out, e)
		}
	}
	return out
}
