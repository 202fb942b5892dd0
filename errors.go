package decisionengine

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Namespace prefixes every sentinel error message, grounded on the teacher's
// Namespace-prefixed error convention (errors.go).
const Namespace = "decisionengine"

// Kind classifies engine errors per the taxonomy described in SPEC_FULL.md §7.
type Kind uint8

const (
	// KindInvalidArgument is a precondition violation at an API boundary.
	KindInvalidArgument Kind = iota + 1
	// KindInvalidResult means a user-supplied extension point returned something illegal.
	KindInvalidResult
	// KindInvalidOperation is a state-machine misuse (commit-on-committed, etc).
	KindInvalidOperation
	// KindTaskError means a task loop stopped on an error: one returned by user code
	// inside it, a failed child commit or merge, or ErrSystemUnsuccessful. Panics are
	// not recovered.
	KindTaskError
	// KindNotImplemented marks a code path the reference semantics leave unimplemented.
	KindNotImplemented
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "InvalidArgument"
	case KindInvalidResult:
		return "InvalidResult"
	case KindInvalidOperation:
		return "InvalidOperation"
	case KindTaskError:
		return "TaskError"
	case KindNotImplemented:
		return "NotImplemented"
	default:
		return "Unknown"
	}
}

// Error wraps an underlying error with its Kind and, for KindTaskError,
// round/task correlation metadata. Modeled on the teacher's
// error_tagging.go taskTaggedError: a typed wrapper exposing accessors,
// Unwrap, and a Format method for "%+v".
type Error struct {
	kind Kind
	err  error

	roundID      uuid.UUID
	hasRoundID   bool
	taskIndex    int
	hasTaskIndex bool
}

func newKindError(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &Error{kind: kind, err: err}
}

// newTaskError wraps err as a KindTaskError, tagging it with the round and
// task-within-round that produced it, so Observer.OnTaskError implementations
// can correlate failures without threading extra arguments through.
func newTaskError(err error, roundID uuid.UUID, taskIndex int) error {
	if err == nil {
		return nil
	}
	return &Error{
		kind:         KindTaskError,
		err:          err,
		roundID:      roundID,
		hasRoundID:   true,
		taskIndex:    taskIndex,
		hasTaskIndex: true,
	}
}

func (e *Error) Error() string { return e.err.Error() }

func (e *Error) Unwrap() error { return e.err }

// Kind returns the error's classification.
func (e *Error) Kind() Kind { return e.kind }

// RoundID returns the round correlation id, when present (KindTaskError only).
func (e *Error) RoundID() (uuid.UUID, bool) { return e.roundID, e.hasRoundID }

// TaskIndex returns the task-within-round index, when present (KindTaskError only).
func (e *Error) TaskIndex() (int, bool) { return e.taskIndex, e.hasTaskIndex }

// Format supports "%+v" to print correlation metadata alongside the message.
func (e *Error) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			if e.hasRoundID {
				_, _ = fmt.Fprintf(s, "%s(round=%s,task=%d): %+v", e.kind, e.roundID, e.taskIndex, e.err)
				return
			}
			_, _ = fmt.Fprintf(s, "%s: %+v", e.kind, e.err)
			return
		}
		fallthrough
	case 's':
		_, _ = fmt.Fprint(s, e.Error())
	case 'q':
		_, _ = fmt.Fprintf(s, "%q", e.Error())
	}
}

// KindOf extracts the Kind from err, if it (or something it wraps) is an *Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.kind, true
	}
	return 0, false
}

// Sentinel errors. Each is wrapped with its Kind via newKindError at the call site.
var (
	ErrIndexCommitted     = errors.New(Namespace + ": cannot commit an index that has no pending suffix")
	ErrIndexPending       = errors.New(Namespace + ": cannot copy an index that has a pending suffix")
	ErrIndexEnumeratePast = errors.New(Namespace + ": cannot enumerate past the end of an index")

	ErrScoreCommitted = errors.New(Namespace + ": cannot commit a score that has no pending suffix")
	ErrScorePending   = errors.New(Namespace + ": cannot copy a score that has a pending suffix")

	ErrConditionRatioRange = errors.New(Namespace + ": condition result ratio must be within [0, 1]")

	ErrInvalidCompletion = errors.New(Namespace + ": system violates the (kind, completion) invariant")
	ErrUpdateScoreInvalid = errors.New(
		Namespace + ": updateScore would change the system's completion invariant",
	)

	ErrNotResultSystem = errors.New(Namespace + ": result collector accepts only ResultKind systems")

	ErrEmptyChildren  = errors.New(Namespace + ": generateChildren returned no children")
	ErrTooManyChildren = errors.New(Namespace + ": generateChildren returned more children than requested")
	ErrNilChild       = errors.New(Namespace + ": generateChildren returned a nil child")
	ErrNilCommit      = errors.New(Namespace + ": commit returned a nil system")

	ErrEmptyFrontiers   = errors.New(Namespace + ": bounded merge requires at least one frontier")
	ErrNilFrontierEntry = errors.New(Namespace + ": bounded merge frontier contains a nil system")
	ErrZeroBound        = errors.New(Namespace + ": bounded merge requires a positive bound")

	ErrNilPolicy      = errors.New(Namespace + ": round scheduler requires a non-nil ConfigurationPolicy")
	ErrEmptyInitials  = errors.New(Namespace + ": execute requires at least one initial system")
	ErrZeroTimeout    = errors.New(Namespace + ": execute requires a positive timeout when one is supplied")
	ErrZeroIterations = errors.New(Namespace + ": maxIterations must be positive")
	ErrNilFingerprinterFactory = errors.New(Namespace + ": fingerprinter factory produced a nil fingerprinter")

	ErrChildCommitFailed = errors.New(
		Namespace + ": a generated child failed to commit",
	)

	ErrSystemUnsuccessful = errors.New(
		Namespace + ": a generated system scored unsuccessful and continueProcessingSystemsWithFailures is false",
	)

	ErrNotDeterministic = errors.New(
		Namespace + ": isDeterministic=false is not implemented; see RoundScheduler's task-assignment hook point",
	)
)
