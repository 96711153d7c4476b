// Package toolchain resolves task kinds to concrete command lines.
// The kind → tool mapping is an externally supplied table (configuration),
// not a hard-coded assumption: adding a kind is a config change.
package toolchain

import (
	"fmt"
	"os/exec"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/weld-media/weld/internal/domain"
)

// Tool describes one entry of the kind → command table: an executable name
// or path plus the fixed argument prefix prepended to every invocation.
type Tool struct {
	Command string
	Args    []string
}

// Resolver turns task kinds into runnable command templates. Resolution is
// a pure lookup — it stats the filesystem (LookPath) but never spawns.
type Resolver struct {
	tools map[domain.TaskKind]Tool
	cache *lru.Cache[domain.TaskKind, domain.Command]
}

// NewResolver builds a resolver from a tool table keyed by kind name.
func NewResolver(tools map[string]Tool) (*Resolver, error) {
	if len(tools) == 0 {
		return nil, fmt.Errorf("no tools configured")
	}
	byKind := make(map[domain.TaskKind]Tool, len(tools))
	for name, tool := range tools {
		if tool.Command == "" {
			return nil, fmt.Errorf("tool %q has no command", name)
		}
		byKind[domain.TaskKind(name)] = tool
	}
	cache, err := lru.New[domain.TaskKind, domain.Command](32)
	if err != nil {
		return nil, err
	}
	return &Resolver{tools: byKind, cache: cache}, nil
}

// Resolve maps a kind to its command template. Successful lookups are
// cached so repeated submissions don't re-walk PATH.
func (r *Resolver) Resolve(kind domain.TaskKind) (domain.Command, error) {
	if cmd, ok := r.cache.Get(kind); ok {
		return cmd, nil
	}

	tool, ok := r.tools[kind]
	if !ok {
		return domain.Command{}, fmt.Errorf("%w: %s", domain.ErrUnknownKind, kind)
	}

	path, err := exec.LookPath(tool.Command)
	if err != nil {
		return domain.Command{}, fmt.Errorf("locate %s for kind %s: %w", tool.Command, kind, err)
	}

	cmd := domain.Command{
		Path: path,
		Args: append([]string{}, tool.Args...),
	}
	r.cache.Add(kind, cmd)
	return cmd, nil
}

// Kinds returns every configured kind name.
func (r *Resolver) Kinds() []string {
	kinds := make([]string, 0, len(r.tools))
	for kind := range r.tools {
		kinds = append(kinds, string(kind))
	}
	return kinds
}
