package cli

import (
	"fmt"
	"log"
	"os"

	"github.com/weld-media/weld/internal/config"
	"github.com/weld-media/weld/internal/infra/metrics"
	"github.com/weld-media/weld/internal/orchestrator"
	"github.com/weld-media/weld/internal/toolchain"
)

// cliRuntime wires the pieces a subcommand needs: config, tool resolver
// and the orchestrator instance.
type cliRuntime struct {
	cfg      config.Config
	resolver *toolchain.Resolver
	orch     *orchestrator.Orchestrator
	workDir  string
}

// buildRuntime loads configuration and constructs the orchestrator.
func buildRuntime() (*cliRuntime, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	tools := make(map[string]toolchain.Tool, len(cfg.Tools))
	for kind, tc := range cfg.Tools {
		tools[kind] = toolchain.Tool{Command: tc.Command, Args: tc.Args}
	}
	resolver, err := toolchain.NewResolver(tools)
	if err != nil {
		return nil, fmt.Errorf("build resolver: %w", err)
	}

	// Tasks carry their working directory and environment explicitly;
	// the CLI boundary is where the invoking shell's state is captured.
	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	orch := orchestrator.New(orchestrator.Options{
		MaxConcurrent:  cfg.Runner.MaxConcurrent,
		OutputCap:      cfg.Runner.OutputCapBytes(),
		DefaultTimeout: cfg.Runner.DefaultTimeoutDuration(),
		BaseEnv:        os.Environ(),
	}, resolver.Resolve)

	return &cliRuntime{
		cfg:      cfg,
		resolver: resolver,
		orch:     orch,
		workDir:  workDir,
	}, nil
}

// flushTelemetry writes a metrics snapshot if telemetry is enabled.
// Best-effort — a telemetry failure never fails the command.
func (rt *cliRuntime) flushTelemetry() {
	if !rt.cfg.Telemetry.Enabled || rt.cfg.Telemetry.File == "" {
		return
	}
	f, err := os.Create(rt.cfg.Telemetry.File)
	if err != nil {
		log.Printf("[weld] telemetry: %v", err)
		return
	}
	defer f.Close()
	if err := metrics.WriteSnapshot(f); err != nil {
		log.Printf("[weld] telemetry: %v", err)
	}
}
