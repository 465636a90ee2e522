package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/annuaire-qc/directory/internal/auth"
	"github.com/annuaire-qc/directory/internal/importer"
	"github.com/annuaire-qc/directory/internal/quota"
)

// importOutput is what the import command prints.
type importOutput struct {
	Mode        string            `json:"mode"`
	Draft       *importer.Draft   `json:"draft,omitempty"`
	Candidates  []*importer.Draft `json:"candidates,omitempty"`
	Quota       quota.Info        `json:"quota"`
	CostWarning bool              `json:"cost_warning,omitempty"`
}

type quotaOutput struct {
	quota.Info
	Status quota.Status `json:"status"`
}

func newServeCommand(deps Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server (default if no command given).",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, deps)
		},
	}
}

func runServe(cmd *cobra.Command, deps Dependencies) error {
	if deps.Serve == nil {
		return errors.New("server is not available")
	}
	return deps.Serve(cmd.Context())
}

func newImportCommand(deps Dependencies) *cobra.Command {
	var (
		address  string
		multiple bool
		force    bool
		format   string
	)

	cmd := &cobra.Command{
		Use:   "import <input>",
		Short: "Look up a place by id, Maps URL or name and print the draft.",
		Long: "Look up a place by id, Maps URL or name and print the draft.\n\n" +
			"Each successful lookup counts against the daily Google Places allowance.\n" +
			"Use --force to go past the allowance; the extra lookups are billed.",
		Example: "  directory import ChIJ2WrMN9MDDUsRpY9Doiq3aJk\n" +
			"  directory import \"Le Filet\" --address \"Montréal\" --multiple --format yaml",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outFormat, err := ParseFormat(format)
			if err != nil {
				return err
			}
			input := strings.TrimSpace(strings.Join(args, " "))

			rt, release, err := openRuntime(cmd, deps)
			if err != nil {
				return err
			}
			defer release()

			ctx := cmd.Context()
			// Operators running the CLI have direct access to the service, so
			// they are treated as privileged.
			decision, err := rt.Quota.Gate(ctx, true, force)
			if errors.Is(err, quota.ErrQuotaBlocked) {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Daily import quota reached (%d/%d). Use --force to import anyway.\n",
					decision.Info.ImportsToday, decision.Info.Limit)
				return &exitError{code: exitQuotaBlocked}
			}
			if err != nil {
				return err
			}
			if decision.CostWarning {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Warning: the daily allowance is used up; this lookup is billed.")
			}

			result, err := rt.Importer.ImportPlace(ctx, input, address, multiple)
			if err != nil {
				return err
			}
			if _, err := rt.Quota.RecordImport(ctx); err != nil {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: import not counted: %v\n", err)
			}

			return render(cmd.OutOrStdout(), importOutput{
				Mode:        result.Mode,
				Draft:       result.Draft,
				Candidates:  result.Candidates,
				Quota:       rt.Quota.Info(ctx),
				CostWarning: decision.CostWarning,
			}, outFormat)
		},
	}

	cmd.Flags().StringVar(&address, "address", "", "Address or city to narrow a name search.")
	cmd.Flags().BoolVar(&multiple, "multiple", false, "Return every candidate instead of the best match.")
	cmd.Flags().BoolVar(&force, "force", false, "Import even when the daily allowance is used up.")
	cmd.Flags().StringVar(&format, "format", "json", "Output format: json or yaml.")
	return cmd
}

func newQuotaCommand(deps Dependencies) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "quota",
		Short: "Show today's Google Places usage.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			outFormat, err := ParseFormat(format)
			if err != nil {
				return err
			}
			rt, release, err := openRuntime(cmd, deps)
			if err != nil {
				return err
			}
			defer release()

			info := rt.Quota.Info(cmd.Context())
			return render(cmd.OutOrStdout(), quotaOutput{Info: info, Status: quota.Classify(info)}, outFormat)
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "Output format: json or yaml.")
	return cmd
}

func newHashTokenCommand() *cobra.Command {
	var (
		token string
		cost  int
	)

	cmd := &cobra.Command{
		Use:   "hash-token",
		Short: "Hash an admin token for ADMIN_TOKEN_HASH, generating one if none is given.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			generated := false
			if token == "" {
				var err error
				if token, err = auth.GenerateToken(); err != nil {
					return err
				}
				generated = true
			}
			if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
				return fmt.Errorf("cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
			}

			hash, err := auth.HashToken(token, cost)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if generated {
				_, _ = fmt.Fprintf(out, "Admin token (store it now, it is not saved): %s\n", token)
			}
			_, _ = fmt.Fprintf(out, "ADMIN_TOKEN_HASH=%s\n", hash)
			return nil
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "Token to hash (at least 24 characters).")
	cmd.Flags().IntVar(&cost, "cost", 12, "bcrypt cost.")
	return cmd
}

// openRuntime opens the pipeline and returns a release func that is safe
// to defer.
func openRuntime(cmd *cobra.Command, deps Dependencies) (*Runtime, func(), error) {
	if deps.Open == nil {
		return nil, nil, errors.New("import pipeline is not available")
	}
	rt, err := deps.Open(cmd.Context())
	if err != nil {
		return nil, nil, err
	}
	release := func() {
		if rt.Close != nil {
			if err := rt.Close(); err != nil {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: close storage: %v\n", err)
			}
		}
	}
	return rt, release, nil
}
