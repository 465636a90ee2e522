package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRootCommand builds the complete command tree. Without a subcommand the
// HTTP server is started.
func NewRootCommand(deps Dependencies) *cobra.Command {
	version := deps.Version
	if version == "" {
		version = "dev"
	}

	root := &cobra.Command{
		Use:           "directory",
		Short:         "Import Quebec businesses from Google Places into the directory.",
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			showVersion, _ := cmd.Flags().GetBool("version")
			if showVersion {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), version)
				return errVersionShown
			}
			return runServe(cmd, deps)
		},
	}
	root.Flags().BoolP("version", "v", false, "Show version and exit.")

	root.AddCommand(newServeCommand(deps))
	root.AddCommand(newImportCommand(deps))
	root.AddCommand(newQuotaCommand(deps))
	root.AddCommand(newHashTokenCommand())

	return root
}
