package attempt

import (
	"context"
	"sync"
	"time"

	"github.com/quizforge/quizforge-portal/internal/quiz"
)

// SubmitFunc receives each scored attempt exactly once, whether the submit
// was explicit or timeout-driven. Wiring typically persists the attempt,
// generates the report and appends an event.
type SubmitFunc func(ctx context.Context, a quiz.Attempt)

// Registry tracks live machines and drives their countdowns from a single
// one-second ticker, mirroring the one-second UI timer of the quiz page.
// Machines disappear from the registry once submitted; unsubmitted machines
// lost on process exit are accepted data loss.
type Registry struct {
	mu       sync.Mutex
	active   map[string]*Machine
	onSubmit SubmitFunc
	interval time.Duration
}

func NewRegistry(onSubmit SubmitFunc) *Registry {
	return &Registry{
		active:   map[string]*Machine{},
		onSubmit: onSubmit,
		interval: time.Second,
	}
}

// Add registers a started machine for ticking and lookup.
func (r *Registry) Add(m *Machine) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active[m.ID()] = m
}

// Get returns the live machine for an attempt id, if any.
func (r *Registry) Get(id string) (*Machine, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.active[id]
	return m, ok
}

// Submit performs an explicit submit of a live attempt. The first caller
// wins; racing timeouts or duplicate submits get ErrAlreadySubmitted.
func (r *Registry) Submit(ctx context.Context, id string) (quiz.Attempt, error) {
	m, ok := r.Get(id)
	if !ok {
		return quiz.Attempt{}, quiz.ErrAttemptNotFound
	}
	a, err := m.Submit()
	if err != nil {
		return quiz.Attempt{}, err
	}
	r.remove(id)
	if r.onSubmit != nil {
		r.onSubmit(ctx, a)
	}
	return a, nil
}

// Run drives the countdowns until ctx is cancelled. Auto-submitted attempts
// are handed to the submit callback and evicted.
func (r *Registry) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.TickAll(ctx)
		}
	}
}

// TickAll advances every live countdown by one second. Exposed separately
// from Run so tests can drive time deterministically.
func (r *Registry) TickAll(ctx context.Context) {
	r.mu.Lock()
	machines := make([]*Machine, 0, len(r.active))
	for _, m := range r.active {
		machines = append(machines, m)
	}
	r.mu.Unlock()

	for _, m := range machines {
		if a, fired := m.Tick(); fired {
			r.remove(m.ID())
			if r.onSubmit != nil {
				r.onSubmit(ctx, a)
			}
		}
	}
}

func (r *Registry) remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.active, id)
}
