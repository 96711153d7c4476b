package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/weld-media/weld/internal/domain"
)

var transcodeTimeout time.Duration

func init() {
	transcodeCmd.Flags().DurationVar(&transcodeTimeout, "timeout", 0,
		"kill the transcoder after this duration (0 = config default)")
	rootCmd.AddCommand(transcodeCmd)
}

var transcodeCmd = &cobra.Command{
	Use:   "transcode INPUT OUTPUT [-- TRANSCODER_ARGS...]",
	Short: "Run one supervised transcode task",
	Long: `Transcode INPUT to OUTPUT with the configured media tool.
Arguments after -- are passed to the transcoder between input and output,
e.g.:  weld transcode in.flv out.mp4 -- -c copy`,
	Args: cobra.MinimumNArgs(2),
	RunE: runTranscode,
}

func runTranscode(cmd *cobra.Command, args []string) error {
	rt, err := buildRuntime()
	if err != nil {
		return err
	}
	defer rt.flushTelemetry()

	input, output := args[0], args[1]
	extra := args[2:]

	taskArgs := append([]string{"-i", input}, extra...)
	taskArgs = append(taskArgs, output)

	res, err := rt.orch.Submit(cmd.Context(), domain.Task{
		Kind:    domain.KindTranscode,
		Args:    taskArgs,
		Dir:     rt.workDir,
		Timeout: transcodeTimeout,
	})
	if err != nil {
		printTaskFailure(err)
		return err
	}

	fmt.Fprintf(os.Stderr, "transcode done: %s → %s (%s)\n", input, output, res.Duration.Round(time.Millisecond))
	if res.Truncated {
		fmt.Fprintln(os.Stderr, "warning: captured transcoder output was truncated at the configured cap")
	}
	return nil
}

// printTaskFailure surfaces the stderr captured before a failure so the
// user can diagnose the tool invocation.
func printTaskFailure(err error) {
	var taskErr *domain.TaskError
	if !errors.As(err, &taskErr) {
		return
	}
	if len(taskErr.Stderr) > 0 {
		os.Stderr.Write(taskErr.Stderr)
		if taskErr.Stderr[len(taskErr.Stderr)-1] != '\n' {
			fmt.Fprintln(os.Stderr)
		}
	}
}
