//go:build !windows

package orchestrator

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/weld-media/weld/internal/domain"
)

// TestSubmit_TimeoutReapsProcessTree verifies the whole child tree dies on
// timeout, not just the immediate shell: the script forks a grandchild and
// prints its pid, and after the timeout that pid must be gone from the
// process table.
func TestSubmit_TimeoutReapsProcessTree(t *testing.T) {
	o := newShellOrchestrator(t, Options{})

	task := shellTask(t, "sleep 30 & echo $!; wait")
	task.Timeout = 300 * time.Millisecond

	_, err := o.Submit(context.Background(), task)
	if !errors.Is(err, domain.ErrTimeout) {
		t.Fatalf("Submit() error = %v, want ErrTimeout", err)
	}

	var taskErr *domain.TaskError
	if !errors.As(err, &taskErr) {
		t.Fatal("error should be a *domain.TaskError")
	}
	pid, convErr := strconv.Atoi(strings.TrimSpace(string(taskErr.Stdout)))
	if convErr != nil || pid <= 0 {
		t.Fatalf("could not read grandchild pid from captured stdout %q", taskErr.Stdout)
	}

	// The kill is delivered before Submit returns; allow a short window
	// for the reparented process to be reaped.
	deadline := time.Now().Add(2 * time.Second)
	for {
		if err := syscall.Kill(pid, 0); errors.Is(err, syscall.ESRCH) {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("grandchild %d still exists after timeout kill", pid)
		}
		time.Sleep(50 * time.Millisecond)
	}
}
