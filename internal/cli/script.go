package cli

import (
	"bytes"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/weld-media/weld/internal/domain"
)

var (
	scriptTimeout time.Duration
	scriptStdin   bool
)

func init() {
	scriptCmd.Flags().DurationVar(&scriptTimeout, "timeout", 0,
		"kill the script after this duration (0 = config default)")
	scriptCmd.Flags().BoolVar(&scriptStdin, "stdin", false,
		"forward stdin to the script as its input payload")
	// Everything after the script path belongs to the script, even if it
	// looks like a flag.
	scriptCmd.Flags().SetInterspersed(false)
	rootCmd.AddCommand(scriptCmd)
}

var scriptCmd = &cobra.Command{
	Use:   "script FILE [ARGS...]",
	Short: "Run one supervised script-runner task",
	Long: `Run FILE with the configured script runner (a JavaScript engine by
default) and print its output. The runner signals success via exit code 0.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runScript,
}

func runScript(cmd *cobra.Command, args []string) error {
	rt, err := buildRuntime()
	if err != nil {
		return err
	}
	defer rt.flushTelemetry()

	task := domain.Task{
		Kind:    domain.KindScript,
		Args:    args,
		Dir:     rt.workDir,
		Timeout: scriptTimeout,
	}

	if scriptStdin {
		// Read the payload up front so the child sees a deterministic
		// end-of-input instead of a terminal that never closes.
		payload, err := io.ReadAll(os.Stdin)
		if err != nil {
			return err
		}
		task.Input = bytes.NewReader(payload)
	}

	res, err := rt.orch.Submit(cmd.Context(), task)
	if err != nil {
		printTaskFailure(err)
		return err
	}

	os.Stdout.Write(res.Stdout)
	os.Stderr.Write(res.Stderr)
	return nil
}
