package decisionengine

// ConfigurationPolicy is the pluggable behavior RoundScheduler consults at
// each decision point (spec §6.1). Grounded on the teacher's config.go: a
// plain struct of knobs there becomes an interface here because several of
// these decisions (MaxNumPendingSystems, MaxNumChildrenPerGeneration,
// MaxNumIterationsPerRound) are allowed to vary per System under the
// reference semantics, which a static struct field cannot express.
type ConfigurationPolicy interface {
	// ContinueProcessingSystemsWithFailures reports whether a TaskLoop drops
	// an unsuccessful tail of generated systems and keeps going (true) or
	// fails the task with ErrSystemUnsuccessful (false), and whether a round
	// keeps going after a task reports an error. A task that reports an
	// error contributes neither frontier nor results to its round.
	ContinueProcessingSystemsWithFailures() bool

	// IsDeterministic reports whether task assignment must be stable across
	// runs given the same initials and policy. false is not implemented:
	// RoundScheduler.Execute rejects such a policy with ErrNotDeterministic
	// (see DESIGN.md Open Question decisions).
	IsDeterministic() bool

	// NumConcurrentTasks bounds how many tasks a round dispatches at once.
	NumConcurrentTasks() int

	// MaxNumPendingSystems bounds the pending frontier's size between
	// rounds. A nil system argument means "global bound" (RoundScheduler
	// asks that way); TaskLoop asks per expanded system.
	MaxNumPendingSystems(system System) int

	// MaxNumChildrenPerGeneration bounds how many children a single
	// GenerateChildren call on system may produce.
	MaxNumChildrenPerGeneration(system System) int

	// MaxNumIterationsPerRound bounds how many iterations a single task may
	// run before yielding its frontier back to the round.
	MaxNumIterationsPerRound(system System) int

	// Finalize post-processes the retained best-N results before they are
	// returned from Execute. A policy that needs no post-processing should
	// return results unchanged.
	Finalize(results []System) ([]System, error)

	// FingerprinterFactory returns the factory to use for this execution,
	// if any. ok is false when no fingerprinting is configured, in which
	// case RoundScheduler falls back to NoopFingerprinterFactory.
	FingerprinterFactory() (factory FingerprinterFactory, ok bool)
}

// DefaultPolicy is a ConfigurationPolicy built from functional options,
// grounded on the teacher's defaultConfig()+options builder pair
// (config.go/options.go): fixed numeric defaults overridable one field at a
// time, plus a fixed point for plugging in a Fingerprinter.
type DefaultPolicy struct {
	continueOnFailures bool
	deterministic      bool
	numConcurrentTasks int
	maxPendingSystems  int
	maxChildren        int
	maxIterations      int
	finalize           func([]System) ([]System, error)
	fingerprinterFactory FingerprinterFactory
}

// DefaultMaxConcurrentTasks, DefaultMaxPendingSystems,
// DefaultMaxChildrenPerGeneration and DefaultMaxIterationsPerRound are the
// numeric defaults used when the corresponding option is not supplied.
const (
	DefaultMaxConcurrentTasks       = 4
	DefaultMaxPendingSystems        = 1024
	DefaultMaxChildrenPerGeneration = 16
	DefaultMaxIterationsPerRound    = 64
)

// PolicyOption configures a DefaultPolicy.
type PolicyOption func(*DefaultPolicy)

// WithContinueOnFailures sets ContinueProcessingSystemsWithFailures. Default false.
func WithContinueOnFailures(v bool) PolicyOption {
	return func(p *DefaultPolicy) { p.continueOnFailures = v }
}

// WithDeterministic sets IsDeterministic. Default true; passing false
// produces a policy RoundScheduler rejects with ErrNotDeterministic, kept
// as an explicit knob so the limitation is discoverable rather than silent.
func WithDeterministic(v bool) PolicyOption {
	return func(p *DefaultPolicy) { p.deterministic = v }
}

// WithNumConcurrentTasks sets NumConcurrentTasks. n must be positive; n<=0 is ignored.
func WithNumConcurrentTasks(n int) PolicyOption {
	return func(p *DefaultPolicy) {
		if n > 0 {
			p.numConcurrentTasks = n
		}
	}
}

// WithMaxPendingSystems sets the global MaxNumPendingSystems bound.
func WithMaxPendingSystems(n int) PolicyOption {
	return func(p *DefaultPolicy) {
		if n > 0 {
			p.maxPendingSystems = n
		}
	}
}

// WithMaxChildrenPerGeneration sets the global MaxNumChildrenPerGeneration bound.
func WithMaxChildrenPerGeneration(n int) PolicyOption {
	return func(p *DefaultPolicy) {
		if n > 0 {
			p.maxChildren = n
		}
	}
}

// WithMaxIterationsPerRound sets the global MaxNumIterationsPerRound bound.
func WithMaxIterationsPerRound(n int) PolicyOption {
	return func(p *DefaultPolicy) {
		if n > 0 {
			p.maxIterations = n
		}
	}
}

// WithFinalize sets the Finalize hook.
func WithFinalize(fn func([]System) ([]System, error)) PolicyOption {
	return func(p *DefaultPolicy) { p.finalize = fn }
}

// WithFingerprinterFactory configures the Fingerprinter factory.
func WithFingerprinterFactory(f FingerprinterFactory) PolicyOption {
	return func(p *DefaultPolicy) { p.fingerprinterFactory = f }
}

// NewDefaultPolicy builds a DefaultPolicy, starting from the package
// defaults and applying opts in order.
func NewDefaultPolicy(opts ...PolicyOption) *DefaultPolicy {
	p := &DefaultPolicy{
		continueOnFailures: false,
		deterministic:      true,
		numConcurrentTasks: DefaultMaxConcurrentTasks,
		maxPendingSystems:  DefaultMaxPendingSystems,
		maxChildren:        DefaultMaxChildrenPerGeneration,
		maxIterations:      DefaultMaxIterationsPerRound,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *DefaultPolicy) ContinueProcessingSystemsWithFailures() bool { return p.continueOnFailures }
func (p *DefaultPolicy) IsDeterministic() bool                       { return p.deterministic }
func (p *DefaultPolicy) NumConcurrentTasks() int                     { return p.numConcurrentTasks }

func (p *DefaultPolicy) MaxNumPendingSystems(System) int { return p.maxPendingSystems }

func (p *DefaultPolicy) MaxNumChildrenPerGeneration(System) int { return p.maxChildren }

func (p *DefaultPolicy) MaxNumIterationsPerRound(System) int { return p.maxIterations }

func (p *DefaultPolicy) Finalize(results []System) ([]System, error) {
	if p.finalize == nil {
		return results, nil
	}
	return p.finalize(results)
}

func (p *DefaultPolicy) FingerprinterFactory() (FingerprinterFactory, bool) {
	if p.fingerprinterFactory == nil {
		return nil, false
	}
	return p.fingerprinterFactory, true
}

var _ ConfigurationPolicy = (*DefaultPolicy)(nil)
