package decisionengine

import (
	"sort"
	"sync"
)

// ResultCollector aggregates the best terminal systems seen across every
// round and task of an Execute call (spec §4.9). Pushes may arrive from
// multiple task goroutines concurrently; the mutex is held only across the
// insert-and-trim, grounded on the teacher's lifecycle.go coordinator
// pattern (hold the lock for the smallest critical section, never across a
// callback).
type ResultCollector struct {
	mu      sync.Mutex
	max     int
	results []System
}

// NewResultCollector creates a collector bounded to max retained systems.
func NewResultCollector(max int) (*ResultCollector, error) {
	if max <= 0 {
		return nil, newKindError(KindInvalidArgument, ErrZeroBound)
	}
	return &ResultCollector{max: max, results: make([]System, 0, max)}, nil
}

// Push inserts systems into the retained best-N, keeping them sorted by
// System ordering and trimming to max. Every pushed system must be
// ResultKind: the only terminal path a TaskLoop ever surfaces (spec §3.3,
// §4.9) is a committed ResultCalculated child realised into a
// ResultConcreteSystem.
func (c *ResultCollector) Push(systems ...System) error {
	for _, s := range systems {
		if s == nil {
			return newKindError(KindInvalidArgument, ErrNilChild)
		}
		if s.Kind() != ResultKind {
			return newKindError(KindInvalidArgument, ErrNotResultSystem)
		}
	}
	if len(systems) == 0 {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.results = append(c.results, systems...)
	sort.SliceStable(c.results, func(i, j int) bool { return Less(c.results[i], c.results[j]) })
	if len(c.results) > c.max {
		c.results = c.results[:c.max]
	}
	return nil
}

// Len reports the number of systems currently retained.
func (c *ResultCollector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.results)
}

// Snapshot returns a copy of the retained results, best-first.
func (c *ResultCollector) Snapshot() []System {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]System, len(c.results))
	copy(out, c.results)
	return out
}

// Finalize returns the retained results, best-first, after running them
// through policy's Finalize hook if one is configured. It is the last step
// of a RoundScheduler.Execute call.
func (c *ResultCollector) Finalize(policy ConfigurationPolicy) ([]System, error) {
	snapshot := c.Snapshot()
	if policy == nil {
		return snapshot, nil
	}
	finalized, err := policy.Finalize(snapshot)
	if err != nil {
		return nil, err
	}
	return finalized, nil
}
