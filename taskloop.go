package decisionengine

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"
)

// TaskLoop runs the iteration algorithm a single round task executes over
// its initial WorkingConcrete system (spec §4.5). It is the sequential core
// that dispatcher.go used to hand a Task[R] to a worker; here a task is not
// a user function but a whole best-first expansion loop, so the loop body
// itself is the "task" dispatcher.go once executed.
type TaskLoop struct {
	policy        ConfigurationPolicy
	fingerprinter Fingerprinter
	observer      Observer
	roundID       uuid.UUID
	round         int
	taskIndex     int
	numTasks      int
}

// NewTaskLoop constructs a TaskLoop for one task within one round.
func NewTaskLoop(
	policy ConfigurationPolicy,
	fingerprinter Fingerprinter,
	observer Observer,
	roundID uuid.UUID,
	round, taskIndex, numTasks int,
) *TaskLoop {
	if fingerprinter == nil {
		fingerprinter = NoopFingerprinter()
	}
	if observer == nil {
		observer = NopObserver{}
	}
	return &TaskLoop{
		policy:        policy,
		fingerprinter: fingerprinter,
		observer:      observer,
		roundID:       roundID,
		round:         round,
		taskIndex:     taskIndex,
		numTasks:      numTasks,
	}
}

// TaskOutcome is what a TaskLoop hands back to its RoundScheduler: the
// sorted local frontier of still-working systems it produced, plus the
// ResultKind systems it committed and surfaced along the way.
type TaskOutcome struct {
	Frontier []System
	Results  []System
}

// Run executes the loop body on a single WorkingConcrete initial (spec
// §4.5): it expands the best still-working system, splits generated
// children into result and working candidates, commits them, separates any
// unsuccessful tail via a reverse scan, re-queues the parent when it is not
// yet complete, and bounded-merges survivors back into the local frontier.
// It stops when the frontier is exhausted, the context is canceled, an
// observer callback declines to continue, or MaxNumIterationsPerRound is
// reached.
func (tl *TaskLoop) Run(ctx context.Context, initial System) (TaskOutcome, error) {
	if !tl.observer.OnTaskBegin(tl.round, tl.roundID, tl.taskIndex, tl.numTasks) {
		return TaskOutcome{}, nil
	}
	defer tl.observer.OnTaskEnd(tl.round, tl.roundID, tl.taskIndex)

	local := []System{initial}
	var results []System
	iteration := 0

	for len(local) > 0 {
		if max := tl.policy.MaxNumIterationsPerRound(local[0]); max > 0 && iteration >= max {
			break
		}
		if err := ctx.Err(); err != nil {
			return TaskOutcome{Frontier: local, Results: results}, nil
		}
		if !tl.observer.OnIterationBegin(tl.round, tl.roundID, tl.taskIndex, iteration) {
			break
		}

		active, rest := local[0], local[1:]

		working, isWorking := active.(Working)
		if !isWorking || working.IsComplete() {
			// Nothing further to expand down this branch: drop it (it is
			// neither a failure nor a result unless its own generation
			// already produced one).
			local = rest
			tl.observer.OnIterationEnd(tl.round, tl.roundID, tl.taskIndex, iteration)
			iteration++
			continue
		}

		if !tl.observer.OnIterationGeneratingWork(tl.round, tl.roundID, tl.taskIndex, iteration) {
			tl.observer.OnIterationEnd(tl.round, tl.roundID, tl.taskIndex, iteration)
			break
		}
		children, err := working.GenerateChildren(tl.policy.MaxNumChildrenPerGeneration(active))
		tl.observer.OnIterationGeneratedWork(tl.round, tl.roundID, tl.taskIndex, iteration)
		if err != nil {
			return TaskOutcome{}, newTaskError(err, tl.roundID, tl.taskIndex)
		}

		var resultCandidates, workingCandidates []System
		for _, c := range children {
			if c.Kind() == ResultKind {
				resultCandidates = append(resultCandidates, c)
				continue
			}
			workingCandidates = append(workingCandidates, c)
		}

		// Fingerprinter point 1 (spec §4.6): pre-commit of result candidates.
		resultCandidates = tl.prune(resultCandidates)

		committedResults, err := tl.commitAll(resultCandidates)
		if err != nil {
			return TaskOutcome{}, newTaskError(err, tl.roundID, tl.taskIndex)
		}
		// Fingerprinter point 2 (spec §4.6): post-commit of result candidates.
		committedResults = tl.prune(committedResults)

		committedWorking, err := tl.commitAll(workingCandidates)
		if err != nil {
			return TaskOutcome{}, newTaskError(err, tl.roundID, tl.taskIndex)
		}

		generated := make([]System, 0, len(committedWorking)+len(committedResults))
		generated = append(generated, committedWorking...)
		generated = append(generated, committedResults...)
		sort.SliceStable(generated, func(i, j int) bool { return Less(generated[i], generated[j]) })

		// Failures (spec §4.5 step 6): the maximal contiguous suffix of the
		// sorted, committed batch whose score is unsuccessful.
		survivors, failed := splitFailedTail(generated)
		if len(failed) > 0 {
			if !tl.observer.OnIterationFailedSystems(tl.round, tl.roundID, tl.taskIndex, iteration, failed) {
				tl.observer.OnIterationEnd(tl.round, tl.roundID, tl.taskIndex, iteration)
				break
			}
			if !tl.policy.ContinueProcessingSystemsWithFailures() {
				return TaskOutcome{}, newTaskError(ErrSystemUnsuccessful, tl.roundID, tl.taskIndex)
			}
		}

		var survivingWorking, newResults []System
		for _, s := range survivors {
			if s.Kind() == ResultKind {
				newResults = append(newResults, s)
				continue
			}
			survivingWorking = append(survivingWorking, s)
		}

		// Fingerprinter point 3 (spec §4.6): pre-merge of generated children.
		survivingWorking = tl.prune(survivingWorking)

		// If the initial has not exhausted itself, push it back into the
		// generated batch (spec §4.5 step 4) so it is reconsidered for
		// further expansion in a later iteration.
		if !working.IsComplete() {
			survivingWorking = append(survivingWorking, active)
		}

		bound := tl.policy.MaxNumPendingSystems(active)
		if bound <= 0 {
			bound = len(rest) + len(survivingWorking)
		}

		if !tl.observer.OnIterationMergingWork(tl.round, tl.roundID, tl.taskIndex, iteration) {
			tl.observer.OnIterationEnd(tl.round, tl.roundID, tl.taskIndex, iteration)
			break
		}
		merged, _, err := BoundedMerge(ctx, [][]System{rest, survivingWorking}, bound, nil, nil)
		tl.observer.OnIterationMergedWork(tl.round, tl.roundID, tl.taskIndex, iteration)
		if err != nil {
			return TaskOutcome{}, newTaskError(err, tl.roundID, tl.taskIndex)
		}
		local = merged

		if len(newResults) > 0 {
			results = append(results, newResults...)
			if !tl.observer.OnIterationResultSystems(tl.round, tl.roundID, tl.taskIndex, iteration, newResults) {
				tl.observer.OnIterationEnd(tl.round, tl.roundID, tl.taskIndex, iteration)
				iteration++
				break
			}
		}

		tl.observer.OnIterationEnd(tl.round, tl.roundID, tl.taskIndex, iteration)
		iteration++
	}

	return TaskOutcome{Frontier: local, Results: results}, nil
}

// prune filters systems through the fingerprinter, keeping only those it
// approves. A nil or noop Fingerprinter approves everything.
func (tl *TaskLoop) prune(systems []System) []System {
	if len(systems) == 0 {
		return systems
	}
	kept := systems[:0:0]
	for _, s := range systems {
		if tl.fingerprinter.ShouldProcess(s) {
			kept = append(kept, s)
		}
	}
	return kept
}

// commitAll realises every Calculated child, returning the first commit
// error encountered (a genuine operational fault, distinct from an
// unsuccessful score).
func (tl *TaskLoop) commitAll(children []System) ([]System, error) {
	committed := make([]System, 0, len(children))
	for _, child := range children {
		calc, ok := child.(Calculated)
		if !ok {
			committed = append(committed, child)
			continue
		}
		done, err := calc.Commit()
		if err != nil {
			return nil, errors.Join(ErrChildCommitFailed, err)
		}
		committed = append(committed, done)
	}
	return committed, nil
}

// splitFailedTail splits a sorted (best-first) batch into survivors and the
// maximal contiguous trailing run of systems whose score is unsuccessful.
// Because CompareScore orders unsuccessful scores after successful ones,
// that run is always a suffix.
func splitFailedTail(sorted []System) (survivors, failed []System) {
	i := len(sorted)
	for i > 0 && !sorted[i-1].GetScore().IsSuccessful() {
		i--
	}
	return sorted[:i], sorted[i:]
}
