// Package decisionengine implements a generic best-first search engine.
//
// Callers supply domain-specific System state (a Working system that can
// generate child Systems, and a Result system that terminates a branch),
// a battery of scoring conditions whose outcomes are reported as Result
// values attached to a Score, and a ConfigurationPolicy describing limits.
// The engine explores the space by repeatedly expanding the
// currently-best-scoring Working system, scoring its children, deduplicating
// them via a Fingerprinter, and merging survivors into a bounded frontier.
//
// Core components, leaves first:
//
//   - Index: a total, stable ordering tiebreaker over child-selection paths.
//   - Score: a partially-built, two-tier (group / within-group) priority.
//   - System: the (score, index, kind, completion) carrier that the frontier sorts.
//   - BoundedMerge: a k-way merge of sorted frontiers into a bounded top-N result.
//   - TaskLoop: the single-task inner generate/score/filter/merge loop.
//   - Fingerprinter: a pluggable dedup oracle.
//   - RoundScheduler: the outer loop that fans TaskLoops across a worker pool.
//   - Observer: a cancellable event sink for the round/task/iteration lifecycle.
//   - ResultCollector: thread-safe aggregation of the best N terminal systems.
//
// Subpackages
//
//   - pool: the worker-pool primitive RoundScheduler dispatches tasks through
//     and BoundedMerge can dispatch rescoring through.
//   - metrics: the instrument surface (Counter/UpDownCounter/Histogram);
//     RoundScheduler records round count, pending-frontier size and surfaced
//     results with it.
package decisionengine
