package decisionengine

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ygrebnov/decisionengine/metrics"
	"github.com/ygrebnov/decisionengine/pool"
)

// ExecuteOutcome is the terminal status of a RoundScheduler.Execute call.
type ExecuteOutcome uint8

const (
	// Exhausted means the pending frontier emptied: no system was left to
	// expand.
	Exhausted ExecuteOutcome = iota + 1
	// TimedOut means the supplied timeout elapsed before exhaustion.
	TimedOut
	// Canceled means ctx was canceled, or OnRoundBegin or OnRoundMergingWork
	// returned false. A task- or iteration-level callback that returns false
	// ends only that task's loop; the round and later rounds continue.
	Canceled
)

func (o ExecuteOutcome) String() string {
	switch o {
	case Exhausted:
		return "Exhausted"
	case TimedOut:
		return "TimedOut"
	case Canceled:
		return "Canceled"
	default:
		return "Unknown"
	}
}

// RoundScheduler drives the round loop (spec §4.7): each round takes the
// pending frontier, splits it across NumConcurrentTasks TaskLoops dispatched
// through a worker pool, bounded-merges their outcomes back into a single
// pending frontier and a running best-N result set, and repeats until the
// frontier empties, the deadline elapses, or cancellation is observed.
//
// Grounded on the teacher's workers.go dispatch loop for the per-round
// fan-out, and on lifecycle.go's sync.Once shutdown sequence plus
// error_forwarder.go's "cancel on first error" latch for round-level
// cancellation; here the "error forwarder" is collapsed into a check made
// once every task of a round has returned: unless the policy continues on
// failures, the first task error ends Execute, since RoundScheduler reports
// one terminal outcome rather than a stream of errors.
type RoundScheduler struct {
	policy   ConfigurationPolicy
	observer Observer
	pool     pool.Pool
	metrics  metrics.Provider

	roundsCounter  metrics.Counter
	pendingGauge   metrics.UpDownCounter
	resultsCounter metrics.Counter
}

// SchedulerOption configures a RoundScheduler.
type SchedulerOption func(*RoundScheduler)

// WithObserver attaches an Observer. Default NopObserver.
func WithObserver(o Observer) SchedulerOption {
	return func(s *RoundScheduler) { s.observer = o }
}

// WithPool attaches the worker pool tasks are dispatched through. Default
// pool.NewDynamic, which never blocks Get and so does not bound how many
// tasks run at once.
func WithPool(p pool.Pool) SchedulerOption {
	return func(s *RoundScheduler) { s.pool = p }
}

// WithMetrics attaches a metrics.Provider. Default metrics.NoopProvider.
func WithMetrics(p metrics.Provider) SchedulerOption {
	return func(s *RoundScheduler) { s.metrics = p }
}

// NewRoundScheduler constructs a RoundScheduler for the given policy.
func NewRoundScheduler(policy ConfigurationPolicy, opts ...SchedulerOption) (*RoundScheduler, error) {
	if policy == nil {
		return nil, newKindError(KindInvalidArgument, ErrNilPolicy)
	}
	s := &RoundScheduler{
		policy:   policy,
		observer: NopObserver{},
		pool:     pool.NewDynamic(func() interface{} { return struct{}{} }),
		metrics:  metrics.NoopProvider{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.roundsCounter = s.metrics.Counter("decisionengine.rounds", metrics.WithUnit("1"))
	s.pendingGauge = s.metrics.UpDownCounter("decisionengine.pending_systems", metrics.WithUnit("1"))
	s.resultsCounter = s.metrics.Counter("decisionengine.results", metrics.WithUnit("1"))
	return s, nil
}

// Execute runs the round loop to completion (spec §4.7). timeout <= 0 means
// no deadline. Returns the retained best-N results (post Finalize), the
// terminal outcome, and any hard error.
func (s *RoundScheduler) Execute(
	ctx context.Context,
	initials []System,
	maxResults int,
	timeout time.Duration,
) ([]System, ExecuteOutcome, error) {
	if len(initials) == 0 {
		return nil, 0, newKindError(KindInvalidArgument, ErrEmptyInitials)
	}
	for _, sys := range initials {
		if sys == nil {
			return nil, 0, newKindError(KindInvalidArgument, ErrNilChild)
		}
	}
	if !s.policy.IsDeterministic() {
		return nil, 0, newKindError(KindNotImplemented, ErrNotDeterministic)
	}

	collector, err := NewResultCollector(maxResults)
	if err != nil {
		return nil, 0, err
	}

	fingerprinter, err := s.newFingerprinter()
	if err != nil {
		return nil, 0, err
	}

	runCtx := ctx
	var cancel context.CancelFunc
	if timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	pending := make([]System, len(initials))
	copy(pending, initials)
	sort.SliceStable(pending, func(i, j int) bool { return Less(pending[i], pending[j]) })

	outcome := Exhausted
	round := 0

roundLoop:
	for len(pending) > 0 {
		if err := runCtx.Err(); err != nil {
			outcome = s.outcomeForContextErr(err)
			break
		}

		roundID := uuid.New()
		s.roundsCounter.Add(1)
		s.pendingGauge.Add(int64(len(pending)))
		if !s.observer.OnRoundBegin(round, roundID, len(pending)) {
			outcome = Canceled
			break
		}

		numTasks := s.policy.NumConcurrentTasks()
		if numTasks <= 0 {
			numTasks = 1
		}
		if numTasks > len(pending) {
			numTasks = len(pending)
		}

		// spec §4.7 step 2: each task gets exactly one WorkingConcrete
		// initial popped off the front of the sorted pending frontier.
		initials := pending[:numTasks]
		remaining := pending[numTasks:]

		outcomes := make([]TaskOutcome, numTasks)
		taskErrs := make([]error, numTasks)
		var wg sync.WaitGroup

		for i := 0; i < numTasks; i++ {
			wg.Add(1)
			i := i
			run := func() {
				defer wg.Done()
				loop := NewTaskLoop(s.policy, fingerprinter, s.observer, roundID, round, i, numTasks)
				out, err := loop.Run(runCtx, initials[i])
				if err != nil {
					taskErrs[i] = err
					s.observer.OnTaskError(round, roundID, i, numTasks, err)
					return
				}
				outcomes[i] = out
			}

			slot := s.pool.Get()
			go func() {
				defer s.pool.Put(slot)
				run()
			}()
		}
		wg.Wait()

		for _, e := range taskErrs {
			if e != nil && !s.policy.ContinueProcessingSystemsWithFailures() {
				return nil, 0, e
			}
		}

		// spec §4.7 step 4: the remaining global pending re-enters the
		// round's merge as an extra frontier alongside each task's output.
		var nextFrontiers [][]System
		if len(remaining) > 0 {
			nextFrontiers = append(nextFrontiers, remaining)
		}
		for _, out := range outcomes {
			if len(out.Frontier) > 0 {
				nextFrontiers = append(nextFrontiers, out.Frontier)
			}
			if len(out.Results) > 0 {
				if err := collector.Push(out.Results...); err != nil {
					return nil, 0, err
				}
				s.resultsCounter.Add(int64(len(out.Results)))
			}
		}
		s.pendingGauge.Add(-int64(len(pending)))

		if !s.observer.OnRoundMergingWork(round, roundID) {
			outcome = Canceled
			s.observer.OnRoundEnd(round, roundID)
			break roundLoop
		}

		bound := s.policy.MaxNumPendingSystems(nil)
		if bound <= 0 {
			bound = len(pending) + 1
		}
		var merged []System
		if len(nextFrontiers) > 0 {
			merged, _, err = BoundedMerge(runCtx, nextFrontiers, bound, nil, nil)
			if err != nil {
				return nil, 0, err
			}
		}
		s.observer.OnRoundMergedWork(round, roundID)

		pending = merged
		s.observer.OnRoundEnd(round, roundID)
		round++
	}

	results, err := collector.Finalize(s.policy)
	if err != nil {
		return nil, 0, err
	}
	return results, outcome, nil
}

func (s *RoundScheduler) newFingerprinter() (Fingerprinter, error) {
	factory, ok := s.policy.FingerprinterFactory()
	if !ok {
		factory = NoopFingerprinterFactory()
	}
	f, err := factory.Create()
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, newKindError(KindInvalidResult, ErrNilFingerprinterFactory)
	}
	return f, nil
}

func (s *RoundScheduler) outcomeForContextErr(err error) ExecuteOutcome {
	if err == context.DeadlineExceeded {
		return TimedOut
	}
	return Canceled
}
