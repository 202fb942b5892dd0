package decisionengine

import "fmt"

// stubWorking is a minimal WorkingImpl used across package tests: it
// "expands" by emitting a fixed number of pre-baked children and reports
// complete once depth reaches a target. Children at the target depth are
// terminal: they commit to ResultConcreteSystem instead of WorkingConcrete,
// exercising the same ResultCalculated→ResultConcrete path a real domain
// uses to surface search results.
type stubWorking struct {
	name     string
	depth    int
	maxDepth int
	children func(depth, i int) ([]ConditionResult, []ConditionResult)
}

func (s stubWorking) String() string { return fmt.Sprintf("stub(%s,%d)", s.name, s.depth) }

func (s stubWorking) IsComplete() bool { return s.depth >= s.maxDepth }

func (s stubWorking) GenerateChildren(maxCount int) ([]System, error) {
	if s.IsComplete() {
		return nil, ErrEmptyChildren
	}
	n := maxCount
	if n > 2 {
		n = 2
	}
	terminal := s.depth+1 >= s.maxDepth
	out := make([]System, 0, n)
	for i := 0; i < n; i++ {
		req, pref := []ConditionResult{mustCR("req", 1)}, []ConditionResult{mustCR("pref", float64(i+1)/float64(n+1))}
		if s.children != nil {
			req, pref = s.children(s.depth+1, i)
		}
		var child System
		var err error
		if terminal {
			child, err = newStubCalculatedResult(s.name, s.depth+1, req, pref)
		} else {
			child, err = newStubCalculatedWorking(s.name, s.depth+1, s.maxDepth, req, pref)
		}
		if err != nil {
			return nil, err
		}
		out = append(out, child)
	}
	return out, nil
}

type stubCalculatedWorking struct {
	name     string
	depth    int
	maxDepth int
}

func (s stubCalculatedWorking) String() string { return fmt.Sprintf("calc(%s,%d)", s.name, s.depth) }

func (s stubCalculatedWorking) CommitImpl(Score, Index) (WorkingImpl, error) {
	return stubWorking{name: s.name, depth: s.depth, maxDepth: s.maxDepth}, nil
}

// stubCalculatedResult is the CalculatedResultImpl counterpart of
// stubCalculatedWorking: it realises a terminal child into a stubResult.
type stubCalculatedResult struct {
	name  string
	depth int
}

func (s stubCalculatedResult) String() string {
	return fmt.Sprintf("resultCalc(%s,%d)", s.name, s.depth)
}

func (s stubCalculatedResult) CommitImpl(Score, Index) (ResultImpl, error) {
	return stubResult{name: s.name, depth: s.depth}, nil
}

// stubResult is a minimal ResultImpl: a leaf carrying no further behavior.
type stubResult struct {
	name  string
	depth int
}

func (s stubResult) String() string { return fmt.Sprintf("result(%s,%d)", s.name, s.depth) }

func mustCR(ref string, ratio float64) ConditionResult {
	c, err := NewConditionResult(ref, ratio, "")
	if err != nil {
		panic(err)
	}
	return c
}

func newStubWorkingRoot(name string, maxDepth int) (System, error) {
	return NewWorkingConcrete(NewScore(), NewIndex(), stubWorking{name: name, maxDepth: maxDepth})
}

func newStubCalculatedWorking(name string, depth, maxDepth int, req, pref []ConditionResult) (System, error) {
	result := NewResult(nil, req, pref)
	score := NewScore().ExtendResult(result, true)
	index := NewIndex().Extend(uint64(depth))
	return NewWorkingCalculated(score, index, stubCalculatedWorking{name: name, depth: depth, maxDepth: maxDepth})
}

func newStubCalculatedResult(name string, depth int, req, pref []ConditionResult) (System, error) {
	result := NewResult(nil, req, pref)
	score := NewScore().ExtendResult(result, true)
	index := NewIndex().Extend(uint64(depth))
	return NewResultCalculated(score, index, stubCalculatedResult{name: name, depth: depth})
}

// newStubResultRoot builds an already-committed ResultConcreteSystem
// directly, for tests exercising the ResultCollector without routing
// through a TaskLoop.
func newStubResultRoot(name string, depth int, ratio float64) (System, error) {
	result := NewResult(nil, []ConditionResult{mustCR("req", 1)}, []ConditionResult{mustCR("pref", ratio)})
	score, err := NewScore().ExtendResult(result, true).Commit()
	if err != nil {
		return nil, err
	}
	index, err := NewIndex().Extend(uint64(depth)).Commit()
	if err != nil {
		return nil, err
	}
	return NewResultConcrete(score, index, stubResult{name: name, depth: depth})
}
