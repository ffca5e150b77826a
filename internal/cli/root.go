package cli

import (
	"fmt"

	"github.com/Harshitk-cp/claimcheck/internal/buildconfig"
	"github.com/spf13/cobra"
)

// RootCmd builds the claimcheck command tree.
func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "claimcheck",
		Short:         "Self-consistency checks for extracted claims",
		Version:       buildconfig.String(),
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	root.AddCommand(CheckCmd())
	root.AddCommand(versionCmd())
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), buildconfig.String())
		},
	}
}
