package decisionengine

import "math"

// MaxScore is the reference upper bound of a Result's numeric score.
const MaxScore = 100001.0

// GoodThreshold is the inflection point in the Score comparator's
// numResults tie-break (spec §4.2 rule 4): 0.80 * MaxScore.
const GoodThreshold = 0.80 * MaxScore

// ConditionResult is the outcome of applying a single user-defined condition.
// Weight mirrors the C++ original's Condition.MaxScore: a per-condition
// importance weight used when averaging a Result's requirement/preference
// lists (SPEC_FULL.md §12). It defaults to 1 via the simple constructors, so
// a battery of equally-weighted conditions degenerates to a plain average.
type ConditionResult struct {
	ConditionRef string
	IsSuccessful bool
	Ratio        float64
	Reason       string
	Weight       uint16
}

// NewConditionResult builds a ConditionResult from a ratio alone: ratio 0
// implies unsuccessful, ratio > 0 implies successful. Weight defaults to 1.
func NewConditionResult(conditionRef string, ratio float64, reason string) (ConditionResult, error) {
	if ratio < 0 || ratio > 1 {
		return ConditionResult{}, newKindError(KindInvalidArgument, ErrConditionRatioRange)
	}
	return ConditionResult{
		ConditionRef: conditionRef,
		IsSuccessful: ratio > 0,
		Ratio:        ratio,
		Reason:       reason,
		Weight:       1,
	}, nil
}

// NewConditionResultFull builds a ConditionResult with an explicit success
// flag that overrides the ratio>0 default, plus an explicit weight.
func NewConditionResultFull(
	conditionRef string, isSuccessful bool, ratio float64, weight uint16, reason string,
) (ConditionResult, error) {
	if ratio < 0 || ratio > 1 {
		return ConditionResult{}, newKindError(KindInvalidArgument, ErrConditionRatioRange)
	}
	if weight == 0 {
		weight = 1
	}
	return ConditionResult{
		ConditionRef: conditionRef,
		IsSuccessful: isSuccessful,
		Ratio:        ratio,
		Reason:       reason,
		Weight:       weight,
	}, nil
}

// Result (the "score atom") is the outcome of evaluating a full condition
// battery against a single system. The three lists are labelled
// applicability, requirement, and preference.
type Result struct {
	Applicability []ConditionResult
	Requirement   []ConditionResult
	Preference    []ConditionResult

	isApplicable bool
	isSuccessful bool
	score        float64
}

// NewResult computes a Result's derived applicability, success, and numeric
// score from its three condition-result lists, grounded on Score.cpp's
// Score::Result constructor.
func NewResult(applicability, requirement, preference []ConditionResult) Result {
	r := Result{Applicability: applicability, Requirement: requirement, Preference: preference}

	r.isApplicable = allSuccessful(applicability)
	if !r.isApplicable {
		return r
	}

	r.isSuccessful = allSuccessful(requirement)

	reqAvg := weightedAverage(requirement)
	prefAvg := weightedAverage(preference)

	r.score = math.Floor(reqAvg*(MaxScore-1)) + prefAvg
	return r
}

func allSuccessful(results []ConditionResult) bool {
	for _, cr := range results {
		if !cr.IsSuccessful {
			return false
		}
	}
	return true
}

func weightedAverage(results []ConditionResult) float64 {
	if len(results) == 0 {
		return 1.0
	}
	var sum, maxPossible float64
	for _, cr := range results {
		w := float64(cr.Weight)
		if w == 0 {
			w = 1
		}
		sum += cr.Ratio * w
		maxPossible += w
	}
	if maxPossible == 0 {
		return 1.0
	}
	return sum / maxPossible
}

// IsApplicable reports whether every applicability condition succeeded.
func (r Result) IsApplicable() bool { return r.isApplicable }

// IsSuccessful reports whether the Result is applicable and every
// requirement condition succeeded.
func (r Result) IsSuccessful() bool { return r.isSuccessful }

// Value returns the Result's numeric score in [0, MaxScore].
func (r Result) Value() float64 { return r.score }

// groupLike is implemented by CommittedGroup and PendingData so both can
// share the comparator from Score.cpp's CompareGroups free function.
type groupLike interface {
	successful() bool
	failures() int
	average() float64
	count() int
}

// CommittedGroup is a cluster of Results evaluated together as a unit.
// Aggregates count only applicable results.
type CommittedGroup struct {
	Results      []Result
	IsSuccessful bool
	AverageScore float64
	NumResults   int
	NumFailures  int
}

func newCommittedGroup(results []Result) CommittedGroup {
	var total float64
	var numResults, numFailures int
	for _, r := range results {
		if !r.isApplicable {
			continue
		}
		numResults++
		total += r.score
		if !r.isSuccessful {
			numFailures++
		}
	}
	avg := 0.0
	if numResults > 0 {
		avg = total / float64(numResults)
	}
	return CommittedGroup{
		Results:      results,
		IsSuccessful: numFailures == 0,
		AverageScore: avg,
		NumResults:   numResults,
		NumFailures:  numFailures,
	}
}

func (g CommittedGroup) successful() bool { return g.IsSuccessful }
func (g CommittedGroup) failures() int    { return g.NumFailures }
func (g CommittedGroup) average() float64 { return g.AverageScore }
func (g CommittedGroup) count() int       { return g.NumResults }

// PendingData summarizes the loose (uncommitted-group) results plus an
// optional pending suffix Result, giving O(1) comparison against the
// in-flight tail of a Score without materializing a CommittedGroup.
type PendingData struct {
	IsSuccessful bool
	AverageScore float64
	NumResults   int
	NumFailures  int
}

func newPendingData(loose []Result, suffix *Result) PendingData {
	var total float64
	var numResults, numFailures int

	account := func(r Result) {
		if !r.isApplicable {
			return
		}
		numResults++
		total += r.score
		if !r.isSuccessful {
			numFailures++
		}
	}
	for _, r := range loose {
		account(r)
	}
	if suffix != nil {
		account(*suffix)
	}
	avg := 0.0
	if numResults > 0 {
		avg = total / float64(numResults)
	}
	return PendingData{
		IsSuccessful: numFailures == 0,
		AverageScore: avg,
		NumResults:   numResults,
		NumFailures:  numFailures,
	}
}

func (p PendingData) successful() bool { return p.IsSuccessful }
func (p PendingData) failures() int    { return p.NumFailures }
func (p PendingData) average() float64 { return p.AverageScore }
func (p PendingData) count() int       { return p.NumResults }

// compareGroupLike is the tie-broken ladder from spec §4.2, shared by
// CommittedGroup and PendingData comparisons (grounded on Score.cpp's
// anonymous-namespace CompareGroups, which the original applies to both
// ResultGroup and PendingData for the same reason).
func compareGroupLike(a, b groupLike) int {
	if a.successful() != b.successful() {
		if !a.successful() {
			return -1
		}
		return 1
	}
	if a.failures() != b.failures() {
		if a.failures() > b.failures() {
			return -1
		}
		return 1
	}
	if diff := a.average() - b.average(); diff != 0 {
		if diff < 0 {
			return -1
		}
		return 1
	}
	if a.count() != b.count() {
		if a.average() >= GoodThreshold {
			if a.count() < b.count() {
				return -1
			}
			return 1
		}
		if a.count() > b.count() {
			return -1
		}
		return 1
	}
	return 0
}

// Score is built up incrementally as the search descends: zero or more
// CommittedGroups, a within-current-group ordered list of loose
// (uncommitted) Results, and an optional pending Result.
type Score struct {
	groups []CommittedGroup
	loose  []Result

	pendingResult  *Result
	completesGroup bool

	pendingData PendingData
	isSuccessful bool
}

// NewScore returns the empty Score (no groups, no loose results, no
// pending suffix); isSuccessful is true.
func NewScore() Score {
	s := Score{}
	s.pendingData = newPendingData(nil, nil)
	s.isSuccessful = true
	return s
}

// ExtendResult returns a pending Score whose prefix is this Score's
// committed prefix and whose pending suffix is result. completesGroup
// controls whether committing will roll the loose-results list (plus
// this suffix) into a new CommittedGroup.
func (s Score) ExtendResult(result Result, completesGroup bool) Score {
	next := Score{groups: s.groups, loose: s.loose}
	r := result
	next.pendingResult = &r
	next.completesGroup = completesGroup
	next.pendingData = newPendingData(s.loose, &r)
	next.isSuccessful = next.computeSuccess()
	return next
}

// Extend is a convenience wrapper of ExtendResult that builds the Result
// from a single loose condition result, treating it as a requirement
// (grounded on Score.cpp's Score(Score, Condition::Result, bool) overload,
// which wraps the bare Condition::Result as the requirement list of a
// synthesized Result).
func (s Score) Extend(condition ConditionResult, completesGroup bool) Score {
	r := NewResult(nil, []ConditionResult{condition}, nil)
	return s.ExtendResult(r, completesGroup)
}

func (s Score) computeSuccess() bool {
	for _, g := range s.groups {
		if !g.IsSuccessful {
			return false
		}
	}
	for _, r := range s.loose {
		if r.isApplicable && !r.isSuccessful {
			return false
		}
	}
	if s.pendingResult != nil {
		if s.pendingResult.isApplicable && !s.pendingResult.isSuccessful {
			return false
		}
	}
	return true
}

// HasSuffix reports whether the Score is pending (has an uncommitted suffix).
func (s Score) HasSuffix() bool { return s.pendingResult != nil }

// IsSuccessful reports whether every committed group is successful, every
// loose result is either inapplicable or successful, and the pending
// suffix (if any) is not an applicable failure.
func (s Score) IsSuccessful() bool { return s.isSuccessful }

// Commit converts a pending Score into a committed one: the suffix is
// appended to the loose-results list; if completesGroup was set, the loose
// list (now including the suffix) is rolled into a new CommittedGroup and
// the loose list resets to empty. Fails InvalidOperation on an
// already-committed Score.
func (s Score) Commit() (Score, error) {
	if s.pendingResult == nil {
		return Score{}, newKindError(KindInvalidOperation, ErrScoreCommitted)
	}

	loose := make([]Result, len(s.loose)+1)
	copy(loose, s.loose)
	loose[len(s.loose)] = *s.pendingResult

	if !s.completesGroup {
		next := Score{groups: s.groups, loose: loose}
		next.pendingData = newPendingData(loose, nil)
		next.isSuccessful = next.computeSuccess()
		return next, nil
	}

	groups := make([]CommittedGroup, len(s.groups)+1)
	copy(groups, s.groups)
	groups[len(s.groups)] = newCommittedGroup(loose)

	next := Score{groups: groups}
	next.pendingData = newPendingData(nil, nil)
	next.isSuccessful = next.computeSuccess()
	return next, nil
}

// Copy clones a committed Score. Fails InvalidOperation on a pending Score.
func (s Score) Copy() (Score, error) {
	if s.pendingResult != nil {
		return Score{}, newKindError(KindInvalidOperation, ErrScorePending)
	}
	next := Score{groups: s.groups, loose: s.loose}
	next.pendingData = newPendingData(s.loose, nil)
	next.isSuccessful = next.computeSuccess()
	return next, nil
}

// EnumGroups iterates committed groups in order, short-circuiting when fn
// returns false.
func (s Score) EnumGroups(fn func(CommittedGroup) bool) {
	for _, g := range s.groups {
		if !fn(g) {
			return
		}
	}
}

// EnumLooseResults iterates the loose (uncommitted) results in order,
// short-circuiting when fn returns false.
func (s Score) EnumLooseResults(fn func(Result) bool) {
	for _, r := range s.loose {
		if !fn(r) {
			return
		}
	}
}

// EnumAllResults iterates every Result this Score has ever absorbed: all
// results of all committed groups, in group order, then the loose results,
// then the pending suffix if present.
func (s Score) EnumAllResults(fn func(Result) bool) {
	for _, g := range s.groups {
		for _, r := range g.Results {
			if !fn(r) {
				return
			}
		}
	}
	for _, r := range s.loose {
		if !fn(r) {
			return
		}
	}
	if s.pendingResult != nil {
		fn(*s.pendingResult)
	}
}

// CompareScore implements the comparator from spec §4.2: committed groups
// of a and b are compared pairwise; when one side runs out of groups, its
// remaining groups (if any) are compared against the other's cached
// PendingData, falling through to a direct PendingData-vs-PendingData
// comparison when both sides are exhausted. Returns >0 if a is better than
// b, <0 if worse, 0 if equal.
func CompareScore(a, b Score) int {
	if a.isSuccessful != b.isSuccessful {
		if !a.isSuccessful {
			return -1
		}
		return 1
	}

	i, j := 0, 0
	for i < len(a.groups) && j < len(b.groups) {
		if c := compareGroupLike(a.groups[i], b.groups[j]); c != 0 {
			return c
		}
		i++
		j++
	}

	if i < len(a.groups) {
		c := compareGroupLike(a.groups[i], b.pendingData)
		if c != 0 {
			return c
		}
		i++
		isThisSuccessful := a.pendingData.IsSuccessful
		if i < len(a.groups) {
			isThisSuccessful = a.groups[i].IsSuccessful
		}
		if !isThisSuccessful {
			return -1
		}
		return 1
	}

	if j < len(b.groups) {
		c := compareGroupLike(a.pendingData, b.groups[j])
		if c != 0 {
			return c
		}
		j++
		isThatSuccessful := b.pendingData.IsSuccessful
		if j < len(b.groups) {
			isThatSuccessful = b.groups[j].IsSuccessful
		}
		if isThatSuccessful {
			return -1
		}
		return 1
	}

	return compareGroupLike(a.pendingData, b.pendingData)
}
