package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/weld-media/weld/internal/media"
)

var probeTimeout time.Duration

func init() {
	probeCmd.Flags().DurationVar(&probeTimeout, "timeout", 30*time.Second,
		"per-input probe timeout")
	rootCmd.AddCommand(probeCmd)
}

var probeCmd = &cobra.Command{
	Use:   "probe INPUT...",
	Short: "Inspect media inputs with the configured probe tool",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runProbe,
}

func runProbe(cmd *cobra.Command, args []string) error {
	rt, err := buildRuntime()
	if err != nil {
		return err
	}
	defer rt.flushTelemetry()

	prober := media.NewProber(rt.orch, rt.workDir, probeTimeout)
	infos, err := prober.ProbeAll(cmd.Context(), args)
	if err != nil {
		printTaskFailure(err)
		return err
	}

	for _, input := range args {
		info := infos[input]
		fmt.Printf("%s\n", input)
		fmt.Printf("  format:   %s\n", info.Format)
		fmt.Printf("  duration: %s\n", info.Duration.Round(time.Millisecond))
		if info.BitRate > 0 {
			fmt.Printf("  bitrate:  %d b/s\n", info.BitRate)
		}
		for _, s := range info.Streams {
			if s.Width > 0 {
				fmt.Printf("  stream:   %s %s %dx%d\n", s.Type, s.Codec, s.Width, s.Height)
			} else {
				fmt.Printf("  stream:   %s %s\n", s.Type, s.Codec)
			}
		}
	}
	return nil
}
