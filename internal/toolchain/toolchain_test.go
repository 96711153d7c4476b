package toolchain

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/weld-media/weld/internal/domain"
)

// writeFakeTool creates an executable file standing in for a real binary.
func writeFakeTool(t *testing.T, name string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake-tool tests rely on the unix executable bit")
	}
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0755); err != nil {
		t.Fatalf("write fake tool: %v", err)
	}
	return path
}

func TestResolver_Resolve(t *testing.T) {
	tool := writeFakeTool(t, "fake-ffmpeg")
	r, err := NewResolver(map[string]Tool{
		"transcode": {Command: tool, Args: []string{"-hide_banner", "-y"}},
	})
	if err != nil {
		t.Fatalf("NewResolver() error: %v", err)
	}

	cmd, err := r.Resolve(domain.KindTranscode)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if cmd.Path != tool {
		t.Errorf("Path = %q, want %q", cmd.Path, tool)
	}
	if len(cmd.Args) != 2 || cmd.Args[0] != "-hide_banner" {
		t.Errorf("Args = %v, want configured prefix", cmd.Args)
	}
}

func TestResolver_UnknownKind(t *testing.T) {
	tool := writeFakeTool(t, "fake-node")
	r, err := NewResolver(map[string]Tool{"script": {Command: tool}})
	if err != nil {
		t.Fatalf("NewResolver() error: %v", err)
	}

	_, err = r.Resolve("no-such-kind")
	if !errors.Is(err, domain.ErrUnknownKind) {
		t.Errorf("Resolve() error = %v, want ErrUnknownKind", err)
	}
}

func TestResolver_MissingBinary(t *testing.T) {
	r, err := NewResolver(map[string]Tool{
		"transcode": {Command: "weld-test-binary-that-does-not-exist"},
	})
	if err != nil {
		t.Fatalf("NewResolver() error: %v", err)
	}

	if _, err := r.Resolve(domain.KindTranscode); err == nil {
		t.Error("Resolve() of a missing binary should fail")
	}
}

func TestResolver_CachesLookups(t *testing.T) {
	tool := writeFakeTool(t, "fake-ffprobe")
	r, err := NewResolver(map[string]Tool{"probe": {Command: tool}})
	if err != nil {
		t.Fatalf("NewResolver() error: %v", err)
	}

	first, err := r.Resolve(domain.KindProbe)
	if err != nil {
		t.Fatalf("first Resolve() error: %v", err)
	}

	// Removing the binary after the first lookup proves the second hit
	// comes from the cache, not the filesystem.
	if err := os.Remove(tool); err != nil {
		t.Fatalf("remove fake tool: %v", err)
	}

	second, err := r.Resolve(domain.KindProbe)
	if err != nil {
		t.Fatalf("second Resolve() error: %v", err)
	}
	if second.Path != first.Path {
		t.Errorf("cached Path = %q, want %q", second.Path, first.Path)
	}
}

func TestNewResolver_Validation(t *testing.T) {
	if _, err := NewResolver(nil); err == nil {
		t.Error("NewResolver(nil) should fail")
	}
	if _, err := NewResolver(map[string]Tool{"transcode": {}}); err == nil {
		t.Error("NewResolver with an empty command should fail")
	}
}

func TestResolver_Kinds(t *testing.T) {
	tool := writeFakeTool(t, "fake-tool")
	r, err := NewResolver(map[string]Tool{
		"transcode": {Command: tool},
		"script":    {Command: tool},
	})
	if err != nil {
		t.Fatalf("NewResolver() error: %v", err)
	}

	kinds := r.Kinds()
	if len(kinds) != 2 {
		t.Errorf("Kinds() = %v, want 2 entries", kinds)
	}
}
