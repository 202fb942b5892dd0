package decisionengine

// Fingerprinter is a pluggable dedup oracle, consulted by the TaskLoop at
// three points: pre-commit of a result candidate, post-commit of a result
// candidate, and pre-merge of generated children. Grounded on the teacher's
// pool.Pool: a minimal, single-method interface with a distinguished no-op
// implementation (pool.NewDynamic mirrors sync.Pool's zero-ceremony default;
// NoopFingerprinter mirrors metrics.NoopProvider).
//
// Stateful implementations are expected to remember every system they have
// seen and approved. RoundScheduler creates one Fingerprinter per Execute
// call and shares it with every task of every round, and the core does not
// synchronize those calls: an implementation used with more than one
// concurrent task must guard its own state.
type Fingerprinter interface {
	ShouldProcess(system System) bool
}

// FingerprinterFactory constructs a Fingerprinter for a RoundScheduler
// execution. Create must not return nil.
type FingerprinterFactory interface {
	Create() (Fingerprinter, error)
}

type noopFingerprinter struct{}

// ShouldProcess always returns true.
func (noopFingerprinter) ShouldProcess(System) bool { return true }

// NoopFingerprinter returns a Fingerprinter that never rejects a system.
// Callers that want to fast-path around fingerprinting can check for it
// with IsNoop.
func NoopFingerprinter() Fingerprinter { return noopFingerprinter{} }

// IsNoop reports whether f is the distinguished noop Fingerprinter.
func IsNoop(f Fingerprinter) bool {
	_, ok := f.(noopFingerprinter)
	return ok
}

type noopFingerprinterFactory struct{}

func (noopFingerprinterFactory) Create() (Fingerprinter, error) { return NoopFingerprinter(), nil }

// NoopFingerprinterFactory returns a FingerprinterFactory whose Create
// always produces the noop Fingerprinter; used as the default when a
// ConfigurationPolicy does not supply one.
func NoopFingerprinterFactory() FingerprinterFactory { return noopFingerprinterFactory{} }
