package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/weld-media/weld/internal/domain"
)

func init() {
	rootCmd.AddCommand(toolsCmd)
}

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Show the configured task kinds and where their tools resolve",
	RunE:  runTools,
}

func runTools(cmd *cobra.Command, args []string) error {
	rt, err := buildRuntime()
	if err != nil {
		return err
	}

	kinds := rt.resolver.Kinds()
	sort.Strings(kinds)

	for _, kind := range kinds {
		resolved, err := rt.resolver.Resolve(domain.TaskKind(kind))
		if err != nil {
			fmt.Printf("%-10s (unresolved: %v)\n", kind, err)
			continue
		}
		fmt.Printf("%-10s %s", kind, resolved.Path)
		for _, a := range resolved.Args {
			fmt.Printf(" %s", a)
		}
		fmt.Println()
	}
	return nil
}
