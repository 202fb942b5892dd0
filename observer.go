package decisionengine

import "github.com/google/uuid"

// Observer is a sink for lifecycle events (spec §4.8). Every "OnXBegin" and
// "OnXMergingWork" callback returns bool: false means "cancel gracefully at
// the next safe point." Every "OnXEnd"/"OnXMergedWork" callback returns
// void and must not panic. The core guarantees a matching End for every
// Begin that returned true, even on cancellation.
//
// Implementations must be safe for concurrent use whenever a RoundScheduler
// dispatches more than one task per round.
type Observer interface {
	OnRoundBegin(round int, roundID uuid.UUID, pending int) bool
	OnRoundEnd(round int, roundID uuid.UUID)
	OnRoundMergingWork(round int, roundID uuid.UUID) bool
	OnRoundMergedWork(round int, roundID uuid.UUID)

	OnTaskBegin(round int, roundID uuid.UUID, task int, numTasks int) bool
	OnTaskEnd(round int, roundID uuid.UUID, task int)
	OnTaskError(round int, roundID uuid.UUID, task int, numTasks int, err error)

	OnIterationBegin(round int, roundID uuid.UUID, task int, iteration int) bool
	OnIterationEnd(round int, roundID uuid.UUID, task int, iteration int)
	OnIterationGeneratingWork(round int, roundID uuid.UUID, task int, iteration int) bool
	OnIterationGeneratedWork(round int, roundID uuid.UUID, task int, iteration int)
	OnIterationMergingWork(round int, roundID uuid.UUID, task int, iteration int) bool
	OnIterationMergedWork(round int, roundID uuid.UUID, task int, iteration int)
	OnIterationFailedSystems(round int, roundID uuid.UUID, task int, iteration int, systems []System) bool
	OnIterationResultSystems(round int, roundID uuid.UUID, task int, iteration int, systems []System) bool
}

// NopObserver implements Observer with every Begin/MergingWork callback
// returning true and every End/MergedWork callback doing nothing. Embed it
// to implement only the events a caller cares about, grounded on the
// teacher's metrics.NoopProvider ("useful as the default").
type NopObserver struct{}

func (NopObserver) OnRoundBegin(int, uuid.UUID, int) bool           { return true }
func (NopObserver) OnRoundEnd(int, uuid.UUID)                       {}
func (NopObserver) OnRoundMergingWork(int, uuid.UUID) bool          { return true }
func (NopObserver) OnRoundMergedWork(int, uuid.UUID)                {}
func (NopObserver) OnTaskBegin(int, uuid.UUID, int, int) bool       { return true }
func (NopObserver) OnTaskEnd(int, uuid.UUID, int)                   {}
func (NopObserver) OnTaskError(int, uuid.UUID, int, int, error)     {}
func (NopObserver) OnIterationBegin(int, uuid.UUID, int, int) bool  { return true }
func (NopObserver) OnIterationEnd(int, uuid.UUID, int, int)         {}
func (NopObserver) OnIterationGeneratingWork(int, uuid.UUID, int, int) bool { return true }
func (NopObserver) OnIterationGeneratedWork(int, uuid.UUID, int, int)      {}
func (NopObserver) OnIterationMergingWork(int, uuid.UUID, int, int) bool   { return true }
func (NopObserver) OnIterationMergedWork(int, uuid.UUID, int, int)         {}
func (NopObserver) OnIterationFailedSystems(int, uuid.UUID, int, int, []System) bool  { return true }
func (NopObserver) OnIterationResultSystems(int, uuid.UUID, int, int, []System) bool { return true }

var _ Observer = NopObserver{}
