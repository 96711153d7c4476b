// Package orchestrator turns a Task into exactly one terminal outcome.
// It resolves a task kind to an external command, spawns it as an isolated
// child process, supervises stdio and lifetime, and returns either a
// TaskResult or a typed TaskError — never both, never neither.
//
// Lifecycle per task:
//
//	Submit(task)
//	  → validate → resolve kind → acquire pool slot
//	  → spawn child (own process group, isolated stdio)
//	  → stream Input to stdin, drain stdout/stderr into bounded buffers
//	  → wait for exit | timeout | cancellation
//	  → TaskResult (exit 0) or TaskError (everything else)
//
// All process handles, descriptors, buffers and the pool slot are released
// on every exit path before Submit returns.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/weld-media/weld/internal/domain"
	"github.com/weld-media/weld/internal/infra/metrics"
)

// DefaultOutputCap bounds captured stdout/stderr per stream when no cap is
// configured. A transcoder can log megabytes of progress lines; capture must
// stay bounded regardless.
const DefaultOutputCap = 4 * 1024 * 1024

// ResolveFunc maps a task kind to a concrete command template. It must be a
// pure lookup — resolution never spawns anything.
type ResolveFunc func(kind domain.TaskKind) (domain.Command, error)

// Options configures an Orchestrator.
type Options struct {
	MaxConcurrent  int           // Pool size; default 4
	OutputCap      int           // Capture cap per stream in bytes; default DefaultOutputCap
	DefaultTimeout time.Duration // Applied when a task carries no timeout; 0 = unlimited
	BaseEnv        []string      // Environment given to every child; task Env entries are appended
}

// Orchestrator runs external tool invocations as supervised child processes.
// Safe for concurrent use; independent tasks share nothing but the pool.
type Orchestrator struct {
	resolve ResolveFunc
	pool    *Pool
	opts    Options
}

// New creates an Orchestrator with its own concurrency pool.
func New(opts Options, resolve ResolveFunc) *Orchestrator {
	if opts.MaxConcurrent < 1 {
		opts.MaxConcurrent = 4
	}
	if opts.OutputCap < 1 {
		opts.OutputCap = DefaultOutputCap
	}
	return &Orchestrator{
		resolve: resolve,
		pool:    NewPool(opts.MaxConcurrent),
		opts:    opts,
	}
}

// Pool exposes the orchestrator's concurrency pool (read-only use).
func (o *Orchestrator) Pool() *Pool { return o.pool }

// handle is the orchestrator's private view of one spawned child: the
// process, its capture buffers, start timestamp and lifecycle state.
// Exclusively owned by the Submit call that created it.
type handle struct {
	cmd     *exec.Cmd
	stdout  *capBuffer
	stderr  *capBuffer
	started time.Time
	state   domain.TaskState
}

// to advances the lifecycle state, ignoring illegal transitions so a
// terminal state is never overwritten.
func (h *handle) to(next domain.TaskState) {
	if h.state.CanTransition(next) {
		h.state = next
	}
}

// Submit runs one task to completion and returns its terminal outcome.
// It blocks while waiting for a pool slot and for the child to exit;
// cancel ctx to abort either wait. The returned error, when non-nil, is
// always a *domain.TaskError.
func (o *Orchestrator) Submit(ctx context.Context, task domain.Task) (*domain.TaskResult, error) {
	if task.ID == "" {
		task.ID = uuid.New().String()
	}

	if err := validate(task); err != nil {
		return nil, o.fail(&domain.TaskError{
			TaskID: task.ID,
			Kind:   domain.FailInvalid,
			Cause:  err,
		}, task.Kind)
	}

	command, err := o.resolve(task.Kind)
	if err != nil {
		// Unknown kind or unresolvable binary — nothing was spawned.
		return nil, o.fail(&domain.TaskError{
			TaskID: task.ID,
			Kind:   domain.FailSpawn,
			Cause:  err,
		}, task.Kind)
	}

	waitStart := time.Now()
	slot, err := o.pool.Acquire(ctx)
	if err != nil {
		// Cancelled while queued for a slot.
		return nil, o.fail(&domain.TaskError{
			TaskID: task.ID,
			Kind:   domain.FailCancelled,
			Cause:  err,
		}, task.Kind)
	}
	defer slot.Release()
	metrics.PoolWait.Observe(time.Since(waitStart).Seconds())

	return o.run(ctx, task, command)
}

// run owns the child from spawn to reap. The pool slot is already held.
func (o *Orchestrator) run(ctx context.Context, task domain.Task, command domain.Command) (*domain.TaskResult, error) {
	argv := make([]string, 0, len(command.Args)+len(task.Args))
	argv = append(argv, command.Args...)
	argv = append(argv, task.Args...)

	cmd := exec.Command(command.Path, argv...)
	cmd.Dir = task.Dir
	cmd.Env = append(append([]string{}, o.opts.BaseEnv...), task.Env...)

	h := &handle{
		cmd:    cmd,
		stdout: newCapBuffer(o.opts.OutputCap),
		stderr: newCapBuffer(o.opts.OutputCap),
		state:  domain.StatePending,
	}
	cmd.Stdout = h.stdout
	cmd.Stderr = h.stderr
	if task.Input != nil {
		// os/exec copies the reader to the child's stdin on its own
		// goroutine and closes the pipe at EOF, so the child observes
		// deterministic end-of-input while both output streams drain
		// concurrently.
		cmd.Stdin = task.Input
	}
	configureProcess(cmd)

	metrics.TasksActive.Inc()
	defer metrics.TasksActive.Dec()

	h.started = time.Now()
	if err := cmd.Start(); err != nil {
		h.to(domain.StateFailed)
		return nil, o.fail(&domain.TaskError{
			TaskID: task.ID,
			Kind:   domain.FailSpawn,
			Cause:  err,
		}, task.Kind)
	}
	h.to(domain.StateSpawned)
	h.to(domain.StateRunning)

	// Wait reaps the child and joins the stdio copy goroutines, so once it
	// returns every descriptor for this task is closed.
	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	timeout := task.Timeout
	if timeout == 0 {
		timeout = o.opts.DefaultTimeout
	}
	var timeoutC <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		timeoutC = timer.C
	}

	var waitErr error
	select {
	case waitErr = <-done:
	case <-timeoutC:
		killTree(cmd)
		<-done // Reap before returning — no orphaned children.
		h.to(domain.StateTimedOut)
		return nil, o.fail(&domain.TaskError{
			TaskID: task.ID,
			Kind:   domain.FailTimeout,
			Stdout: h.stdout.Bytes(),
			Stderr: h.stderr.Bytes(),
		}, task.Kind)
	case <-ctx.Done():
		killTree(cmd)
		<-done
		h.to(domain.StateCancelled)
		return nil, o.fail(&domain.TaskError{
			TaskID: task.ID,
			Kind:   domain.FailCancelled,
			Stdout: h.stdout.Bytes(),
			Stderr: h.stderr.Bytes(),
			Cause:  ctx.Err(),
		}, task.Kind)
	}

	duration := time.Since(h.started)

	if waitErr != nil {
		h.to(domain.StateFailed)
		taskErr := &domain.TaskError{
			TaskID:   task.ID,
			Kind:     domain.FailExecution,
			ExitCode: -1,
			Stdout:   h.stdout.Bytes(),
			Stderr:   h.stderr.Bytes(),
		}
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			taskErr.ExitCode = exitErr.ExitCode()
		} else {
			taskErr.Cause = waitErr
		}
		return nil, o.fail(taskErr, task.Kind)
	}

	h.to(domain.StateCompleted)
	truncated := h.stdout.Truncated() || h.stderr.Truncated()
	if truncated {
		metrics.OutputTruncated.Inc()
	}
	metrics.TasksCompleted.WithLabelValues(string(task.Kind)).Inc()
	metrics.TaskDuration.WithLabelValues(string(task.Kind)).Observe(duration.Seconds())

	return &domain.TaskResult{
		TaskID:    task.ID,
		ExitCode:  0,
		Stdout:    h.stdout.Bytes(),
		Stderr:    h.stderr.Bytes(),
		Duration:  duration,
		Truncated: truncated,
	}, nil
}

// fail records the failure metric and returns the error unchanged.
func (o *Orchestrator) fail(taskErr *domain.TaskError, kind domain.TaskKind) error {
	metrics.TasksFailed.WithLabelValues(string(kind), string(taskErr.Kind)).Inc()
	return taskErr
}

// validate rejects tasks the orchestrator must never attempt to spawn.
func validate(task domain.Task) error {
	if task.Kind == "" {
		return fmt.Errorf("task kind is required")
	}
	if task.Dir == "" {
		return fmt.Errorf("working directory is required")
	}
	for i, arg := range task.Args {
		if strings.ContainsRune(arg, 0) {
			return fmt.Errorf("argument %d contains a NUL byte", i)
		}
	}
	if task.Timeout < 0 {
		return fmt.Errorf("timeout must be positive, got %v", task.Timeout)
	}
	return nil
}
