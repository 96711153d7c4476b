package metrics

import (
	"bytes"
	"strings"
	"testing"
)

func TestWriteSnapshot(t *testing.T) {
	TasksCompleted.WithLabelValues("transcode").Inc()
	TasksFailed.WithLabelValues("script", "timeout").Inc()

	var buf bytes.Buffer
	if err := WriteSnapshot(&buf); err != nil {
		t.Fatalf("WriteSnapshot() error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"weld_tasks_completed_total",
		"weld_tasks_failed_total",
		"weld_tasks_active",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("snapshot missing %q", want)
		}
	}
	if !strings.Contains(out, `kind="transcode"`) {
		t.Error("snapshot missing kind label on completed counter")
	}
}
