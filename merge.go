package decisionengine

import (
	"context"
	"sort"
	"sync"

	"github.com/ygrebnov/decisionengine/pool"
)

// RescoreFunc mutates a System's score in place (via System.UpdateScore) and
// is the only hook through which BoundedMerge calls back into user code.
type RescoreFunc func(ctx context.Context, system System) error

// BoundedMerge performs the k-way bounded merge used by both TaskLoop and
// RoundScheduler (spec §4.4). frontiers must each already be sorted by
// System ordering. If rescore is non-nil, every system in every frontier is
// rescored first (dispatched across workers when workers is non-nil) and
// that frontier is re-sorted — the only place the core invokes
// System.UpdateScore. The k-way select then repeatedly drains from
// whichever frontier currently has the greatest head, switching frontiers
// when another head would overtake it, until maxN elements have been taken
// or every frontier is empty.
//
// Returns the merged, bounded, sorted frontier and the leftover tails of
// frontiers that did not fully drain (empty tails are dropped).
func BoundedMerge(
	ctx context.Context,
	frontiers [][]System,
	maxN int,
	rescore RescoreFunc,
	workers pool.Pool,
) ([]System, [][]System, error) {
	if len(frontiers) == 0 {
		return nil, nil, newKindError(KindInvalidArgument, ErrEmptyFrontiers)
	}
	if maxN <= 0 {
		return nil, nil, newKindError(KindInvalidArgument, ErrZeroBound)
	}
	for _, f := range frontiers {
		for _, s := range f {
			if s == nil {
				return nil, nil, newKindError(KindInvalidArgument, ErrNilFrontierEntry)
			}
		}
	}

	work := make([][]System, len(frontiers))
	copy(work, frontiers)

	if rescore != nil {
		if err := rescoreAll(ctx, work, rescore, workers); err != nil {
			return nil, nil, err
		}
	}

	merged := make([]System, 0, maxN)
	heads := make([]int, len(work))

	for len(merged) < maxN {
		gi := findGreatest(work, heads)
		if gi == -1 {
			break
		}

		remaining := maxN - len(merged)
		drain := drainCount(work, heads, gi, remaining)
		merged = append(merged, work[gi][heads[gi]:heads[gi]+drain]...)
		heads[gi] += drain
	}

	var removed [][]System
	for i := range work {
		if heads[i] < len(work[i]) {
			removed = append(removed, work[i][heads[i]:])
		}
	}

	assertSorted(merged)

	return merged, removed, nil
}

func rescoreAll(ctx context.Context, work [][]System, rescore RescoreFunc, workers pool.Pool) error {
	var wg sync.WaitGroup
	errs := make([]error, len(work))

	runOne := func(i int) {
		defer wg.Done()
		for _, s := range work[i] {
			if err := rescore(ctx, s); err != nil {
				errs[i] = err
				return
			}
		}
		sort.SliceStable(work[i], func(a, b int) bool { return Less(work[i][a], work[i][b]) })
	}

	for i := range work {
		wg.Add(1)
		if workers == nil {
			runOne(i)
			continue
		}
		slot := workers.Get()
		i := i
		go func() {
			defer workers.Put(slot)
			runOne(i)
		}()
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// findGreatest returns the index of the frontier whose current head is the
// greatest (best) under System ordering, or -1 if every frontier is
// exhausted.
func findGreatest(work [][]System, heads []int) int {
	best := -1
	for i := range work {
		if heads[i] >= len(work[i]) {
			continue
		}
		if best == -1 || Less(work[i][heads[i]], work[best][heads[best]]) {
			best = i
		}
	}
	return best
}

// drainCount computes how many consecutive elements to take from the front
// of work[gi] (starting at heads[gi]): the point at which the next-greatest
// other frontier's head would overtake it, located via an ordered binary
// search against work[gi] (it is sorted), bounded by the remaining quota
// and the frontier's own length.
func drainCount(work [][]System, heads []int, gi int, remaining int) int {
	avail := len(work[gi]) - heads[gi]
	bound := avail
	if remaining < bound {
		bound = remaining
	}

	overtaker := nextGreatestOther(work, heads, gi)
	if overtaker == nil {
		return bound
	}

	// work[gi][heads[gi]:] is sorted best-to-worst; find the first offset
	// where overtaker sorts better than the candidate element.
	n := sort.Search(bound, func(o int) bool {
		return Less(overtaker, work[gi][heads[gi]+o])
	})
	return n
}

func nextGreatestOther(work [][]System, heads []int, gi int) System {
	var best System
	for i := range work {
		if i == gi || heads[i] >= len(work[i]) {
			continue
		}
		if best == nil || Less(work[i][heads[i]], best) {
			best = work[i][heads[i]]
		}
	}
	return best
}

func assertSorted(systems []System) {
	for i := 1; i < len(systems); i++ {
		if Less(systems[i], systems[i-1]) {
			panic("decisionengine: BoundedMerge produced an unsorted frontier")
		}
	}
}
