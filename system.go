package decisionengine

// SystemKind distinguishes a not-yet-complete system from a terminal one.
type SystemKind uint8

const (
	// Working is a system that is not yet complete.
	Working SystemKind = iota + 1
	// ResultKind is a system that is complete.
	ResultKind
)

// Completion distinguishes a lazily-realised child from a fully-constructed
// instance.
type Completion uint8

const (
	// Calculated is a system that has been emitted by a parent but not yet
	// committed: its Score and Index still carry a pending suffix.
	Calculated Completion = iota + 1
	// Concrete is a system that has been committed: no pending suffix remains.
	Concrete
)

// System is the abstract carrier of (score, index, kind, completion) that
// the frontier sorts and merges. Domain behavior (expansion, commit,
// diagnostic string) is reached through the Working/Calculated interfaces
// below, following the teacher's sum-type-via-type-switch idiom (task.go
// switches on a function's signature to pick a concrete task wrapper; here
// call sites switch on Kind()/Completion(), or type-assert to Working /
// Calculated, to pick the applicable behavior) instead of the original's
// class hierarchy with runtime casts.
type System interface {
	GetScore() Score
	GetIndex() Index
	Kind() SystemKind
	Completion() Completion

	// UpdateScore replaces the system's score in place, so long as doing so
	// preserves the (kind, completion) invariant. It is the only place the
	// core mutates a System after construction (BoundedMerge's rescore step).
	UpdateScore(newScore Score) error

	String() string
}

// Working is implemented by systems whose completion is Concrete and whose
// kind is Working: the only systems the TaskLoop may expand.
type Working interface {
	System
	GenerateChildren(maxCount int) ([]System, error)
	IsComplete() bool
}

// Calculated is implemented by systems awaiting commit (completion ==
// Calculated, either kind): their Score and Index both carry a pending
// suffix that Commit forwards to a domain constructor.
type Calculated interface {
	System
	Commit() (System, error)
}

// WorkingImpl is the domain behavior a user plugs into a WorkingConcrete system.
type WorkingImpl interface {
	GenerateChildren(maxCount int) ([]System, error)
	IsComplete() bool
	String() string
}

// CalculatedWorkingImpl is the domain behavior a user plugs into a
// WorkingCalculated system: it realises the committed score/index into a
// concrete WorkingImpl.
type CalculatedWorkingImpl interface {
	CommitImpl(score Score, index Index) (WorkingImpl, error)
	String() string
}

// ResultImpl is the domain behavior a user plugs into a ResultConcrete system.
type ResultImpl interface {
	String() string
}

// CalculatedResultImpl is the domain behavior a user plugs into a
// ResultCalculated system: it realises the committed score/index into a
// concrete ResultImpl.
type CalculatedResultImpl interface {
	CommitImpl(score Score, index Index) (ResultImpl, error)
	String() string
}

type base struct {
	score      Score
	index      Index
	kind       SystemKind
	completion Completion
}

func newBase(score Score, index Index, kind SystemKind, completion Completion) (base, error) {
	switch completion {
	case Calculated:
		if !score.HasSuffix() || !index.HasSuffix() {
			return base{}, newKindError(KindInvalidArgument, ErrInvalidCompletion)
		}
	case Concrete:
		if score.HasSuffix() || index.HasSuffix() {
			return base{}, newKindError(KindInvalidArgument, ErrInvalidCompletion)
		}
	default:
		return base{}, newKindError(KindInvalidArgument, ErrInvalidCompletion)
	}
	return base{score: score, index: index, kind: kind, completion: completion}, nil
}

func (b *base) GetScore() Score         { return b.score }
func (b *base) GetIndex() Index         { return b.index }
func (b *base) Kind() SystemKind        { return b.kind }
func (b *base) Completion() Completion  { return b.completion }

// UpdateScore preserves the completion invariant: a Calculated system's new
// score must itself carry a pending suffix; a Concrete system's must not.
func (b *base) UpdateScore(newScore Score) error {
	switch b.completion {
	case Calculated:
		if !newScore.HasSuffix() {
			return newKindError(KindInvalidOperation, ErrUpdateScoreInvalid)
		}
	case Concrete:
		if newScore.HasSuffix() {
			return newKindError(KindInvalidOperation, ErrUpdateScoreInvalid)
		}
	}
	b.score = newScore
	return nil
}

// WorkingConcreteSystem is a ready-to-expand intermediate state.
type WorkingConcreteSystem struct {
	base
	Impl WorkingImpl
}

// NewWorkingConcrete constructs a WorkingConcreteSystem. score and index
// must both be committed.
func NewWorkingConcrete(score Score, index Index, impl WorkingImpl) (*WorkingConcreteSystem, error) {
	b, err := newBase(score, index, Working, Concrete)
	if err != nil {
		return nil, err
	}
	if impl == nil {
		return nil, newKindError(KindInvalidArgument, ErrNilChild)
	}
	return &WorkingConcreteSystem{base: b, Impl: impl}, nil
}

func (w *WorkingConcreteSystem) String() string { return w.Impl.String() }
func (w *WorkingConcreteSystem) IsComplete() bool { return w.Impl.IsComplete() }

// GenerateChildren delegates to the domain implementation, enforcing the
// non-empty, bounded, non-nil contract from spec §4.3.
func (w *WorkingConcreteSystem) GenerateChildren(maxCount int) ([]System, error) {
	children, err := w.Impl.GenerateChildren(maxCount)
	if err != nil {
		return nil, err
	}
	if len(children) == 0 {
		return nil, newKindError(KindInvalidResult, ErrEmptyChildren)
	}
	if len(children) > maxCount {
		return nil, newKindError(KindInvalidResult, ErrTooManyChildren)
	}
	for _, c := range children {
		if c == nil {
			return nil, newKindError(KindInvalidResult, ErrNilChild)
		}
	}
	return children, nil
}

// WorkingCalculatedSystem is a child emitted by a parent but not yet
// realised; Commit promotes it to a WorkingConcreteSystem.
type WorkingCalculatedSystem struct {
	base
	Impl CalculatedWorkingImpl
}

// NewWorkingCalculated constructs a WorkingCalculatedSystem. score and
// index must both be pending.
func NewWorkingCalculated(score Score, index Index, impl CalculatedWorkingImpl) (*WorkingCalculatedSystem, error) {
	b, err := newBase(score, index, Working, Calculated)
	if err != nil {
		return nil, err
	}
	if impl == nil {
		return nil, newKindError(KindInvalidArgument, ErrNilChild)
	}
	return &WorkingCalculatedSystem{base: b, Impl: impl}, nil
}

func (w *WorkingCalculatedSystem) String() string { return w.Impl.String() }

// Commit forwards the committed score/index to the domain constructor and
// returns a freshly owned WorkingConcreteSystem.
func (w *WorkingCalculatedSystem) Commit() (System, error) {
	score, err := w.score.Commit()
	if err != nil {
		return nil, err
	}
	index, err := w.index.Commit()
	if err != nil {
		return nil, err
	}
	impl, err := w.Impl.CommitImpl(score, index)
	if err != nil {
		return nil, err
	}
	if impl == nil {
		return nil, newKindError(KindInvalidResult, ErrNilCommit)
	}
	return NewWorkingConcrete(score, index, impl)
}

// ResultConcreteSystem is a terminal result.
type ResultConcreteSystem struct {
	base
	Impl ResultImpl
}

// NewResultConcrete constructs a ResultConcreteSystem. score and index must
// both be committed.
func NewResultConcrete(score Score, index Index, impl ResultImpl) (*ResultConcreteSystem, error) {
	b, err := newBase(score, index, ResultKind, Concrete)
	if err != nil {
		return nil, err
	}
	if impl == nil {
		return nil, newKindError(KindInvalidArgument, ErrNilChild)
	}
	return &ResultConcreteSystem{base: b, Impl: impl}, nil
}

func (r *ResultConcreteSystem) String() string { return r.Impl.String() }

// ResultCalculatedSystem is a child that completes the search but has not
// yet been realised; Commit promotes it to a ResultConcreteSystem.
type ResultCalculatedSystem struct {
	base
	Impl CalculatedResultImpl
}

// NewResultCalculated constructs a ResultCalculatedSystem. score and index
// must both be pending.
func NewResultCalculated(score Score, index Index, impl CalculatedResultImpl) (*ResultCalculatedSystem, error) {
	b, err := newBase(score, index, ResultKind, Calculated)
	if err != nil {
		return nil, err
	}
	if impl == nil {
		return nil, newKindError(KindInvalidArgument, ErrNilChild)
	}
	return &ResultCalculatedSystem{base: b, Impl: impl}, nil
}

func (r *ResultCalculatedSystem) String() string { return r.Impl.String() }

// Commit forwards the committed score/index to the domain constructor and
// returns a freshly owned ResultConcreteSystem.
func (r *ResultCalculatedSystem) Commit() (System, error) {
	score, err := r.score.Commit()
	if err != nil {
		return nil, err
	}
	index, err := r.index.Commit()
	if err != nil {
		return nil, err
	}
	impl, err := r.Impl.CommitImpl(score, index)
	if err != nil {
		return nil, err
	}
	if impl == nil {
		return nil, newKindError(KindInvalidResult, ErrNilCommit)
	}
	return NewResultConcrete(score, index, impl)
}

// CompareSystem implements the frontier ordering used everywhere a
// collection of Systems is sorted or merged: score DESC, then kind, then
// completion, then index (spec §4.3). Since CompareIndex already encodes
// "greater is better", applying it directly gives the desired ordering.
// Returns >0 if a sorts before b (a is "greater"/higher priority), <0 if
// after, 0 if equal in all four dimensions.
func CompareSystem(a, b System) int {
	if c := CompareScore(a.GetScore(), b.GetScore()); c != 0 {
		return c
	}
	if a.Kind() != b.Kind() {
		if a.Kind() < b.Kind() {
			return 1
		}
		return -1
	}
	if a.Completion() != b.Completion() {
		if a.Completion() < b.Completion() {
			return 1
		}
		return -1
	}
	return CompareIndex(a.GetIndex(), b.GetIndex())
}

// Less reports whether a sorts strictly before b under System ordering
// (a "better" than b), suitable for sort.Slice / sort.SliceStable.
func Less(a, b System) bool { return CompareSystem(a, b) > 0 }
