// Package domain holds the task types shared across weld.
// A Task is one request to run an external tool to completion:
// submit → spawn → supervise → exactly one terminal outcome.
package domain

import (
	"io"
	"time"
)

// TaskKind selects which external tool a task invokes.
// The kind → command mapping is supplied by configuration, not hard-coded.
type TaskKind string

const (
	KindTranscode TaskKind = "transcode"
	KindScript    TaskKind = "script"
	KindProbe     TaskKind = "probe"
)

// TaskState tracks the per-task lifecycle.
type TaskState string

const (
	StatePending   TaskState = "PENDING"
	StateSpawned   TaskState = "SPAWNED"
	StateRunning   TaskState = "RUNNING"
	StateCompleted TaskState = "COMPLETED"
	StateFailed    TaskState = "FAILED"
	StateTimedOut  TaskState = "TIMED_OUT"
	StateCancelled TaskState = "CANCELLED"
)

// IsTerminal returns true once a state can no longer change.
func (s TaskState) IsTerminal() bool {
	switch s {
	case StateCompleted, StateFailed, StateTimedOut, StateCancelled:
		return true
	}
	return false
}

// CanTransition reports whether s → next is a legal lifecycle step.
// Terminal states accept no further transitions.
func (s TaskState) CanTransition(next TaskState) bool {
	if s.IsTerminal() {
		return false
	}
	switch s {
	case StatePending:
		// A task that never spawns can still fail validation/spawn,
		// or be cancelled while queued for a pool slot.
		return next == StateSpawned || next == StateFailed || next == StateCancelled
	case StateSpawned:
		return next == StateRunning || next == StateFailed
	case StateRunning:
		return next.IsTerminal()
	}
	return false
}

// Task is a single request to execute one external tool invocation.
// Immutable once submitted; the orchestrator assigns ID at submission.
type Task struct {
	ID   string
	Kind TaskKind

	// Args are positional arguments appended after the configured
	// command prefix for the kind.
	Args []string

	// Dir is the working directory for the child. Required — tasks never
	// inherit the orchestrator's own working directory implicitly.
	Dir string

	// Env holds explicit KEY=VALUE environment overrides. These are
	// appended to the orchestrator's configured base environment; nothing
	// else leaks in from the host process.
	Env []string

	// Timeout bounds the child's wall-clock runtime. Zero means no limit.
	Timeout time.Duration

	// Input is streamed to the child's stdin and closed at EOF so the
	// child observes deterministic end-of-input. Nil means no stdin.
	Input io.Reader
}

// TaskResult is the outcome of a task whose process exited with code 0.
// Constructed exactly once, by the orchestrator.
type TaskResult struct {
	TaskID    string
	ExitCode  int
	Stdout    []byte
	Stderr    []byte
	Duration  time.Duration
	Truncated bool
}
