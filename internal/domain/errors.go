package domain

import (
	"errors"
	"fmt"
)

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure — no infrastructure dependency. Callers match on
// these with errors.Is; the TaskError wrapper carries the diagnostics.

var (
	// ErrSpawnFailed — binary missing or unauthorized. Fatal for the task,
	// never retried automatically.
	ErrSpawnFailed = errors.New("spawn failed")

	// ErrExecutionFailed — child exited with a nonzero code.
	ErrExecutionFailed = errors.New("execution failed")

	// ErrTimeout — child exceeded the configured duration and its process
	// tree was force-killed.
	ErrTimeout = errors.New("task timed out")

	// ErrCancelled — caller-initiated cancellation.
	ErrCancelled = errors.New("task cancelled")

	// ErrInvalidTask — the task was rejected before anything spawned.
	ErrInvalidTask = errors.New("invalid task")

	// ErrUnknownKind — no tool is configured for the requested task kind.
	ErrUnknownKind = errors.New("unknown task kind")
)

// FailKind tags a TaskError with its taxonomy entry.
type FailKind string

const (
	FailSpawn     FailKind = "spawn_failed"
	FailExecution FailKind = "execution_failed"
	FailTimeout   FailKind = "timeout"
	FailCancelled FailKind = "cancelled"
	FailInvalid   FailKind = "invalid_task"
)

// sentinel maps each failure kind to its errors.Is target.
func (k FailKind) sentinel() error {
	switch k {
	case FailSpawn:
		return ErrSpawnFailed
	case FailExecution:
		return ErrExecutionFailed
	case FailTimeout:
		return ErrTimeout
	case FailCancelled:
		return ErrCancelled
	case FailInvalid:
		return ErrInvalidTask
	}
	return nil
}

// TaskError is the typed failure produced instead of a TaskResult.
// Partial output captured before the failure is preserved for diagnosis.
type TaskError struct {
	TaskID   string
	Kind     FailKind
	ExitCode int    // Meaningful for FailExecution only
	Stdout   []byte // Output captured up to the point of failure
	Stderr   []byte
	Cause    error // Underlying OS/validation error, may be nil
}

func (e *TaskError) Error() string {
	switch e.Kind {
	case FailExecution:
		return fmt.Sprintf("task %s: exit code %d", e.TaskID, e.ExitCode)
	case FailSpawn, FailInvalid:
		if e.Cause != nil {
			return fmt.Sprintf("task %s: %s: %v", e.TaskID, e.Kind, e.Cause)
		}
	}
	return fmt.Sprintf("task %s: %s", e.TaskID, e.Kind)
}

// Unwrap exposes both the sentinel for the failure kind and the underlying
// cause, so errors.Is works against either.
func (e *TaskError) Unwrap() []error {
	errs := []error{e.Kind.sentinel()}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}
