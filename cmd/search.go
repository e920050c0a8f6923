package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/resolver"
)

var (
	searchType         string
	searchRole         string
	searchCompany      string
	searchBusinessType string
	searchLocation     string
	searchJSON         bool
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Resolve leads for a role at a company or businesses in a location",
	Long: `Runs one lead resolution. Fresh cached profiles are returned directly;
otherwise the source engines are tried in order, contacts are verified,
and the results are persisted.

Examples:
  leadgen-cli search --type corp --role CMO --company Nike
  leadgen-cli search --type smb --business-type plumber --location "Austin, TX"`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		req := model.SearchRequest{
			Type:         model.RequestType(searchType),
			Role:         searchRole,
			Company:      searchCompany,
			BusinessType: searchBusinessType,
			Location:     searchLocation,
		}

		result, err := e.Resolver.Resolve(ctx, req)
		if err != nil {
			return err
		}

		if searchJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}

		formatResult(os.Stdout, result)
		return nil
	},
}

func formatResult(w io.Writer, result *resolver.Result) {
	if len(result.Profiles) == 0 {
		fmt.Fprintln(w, "No leads found.")
		return
	}

	fmt.Fprintf(w, "%d lead(s) — %s (%s)\n\n", len(result.Profiles), result.Details, result.Source)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tTITLE\tEMAIL\tSTATUS\tPHONE")
	for _, p := range result.Profiles {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			p.Name, truncate(p.Headline, 40), p.Email, p.EmailStatus, p.Phone)
	}
	tw.Flush()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func init() {
	searchCmd.Flags().StringVar(&searchType, "type", "corp", "search type: corp or smb")
	searchCmd.Flags().StringVar(&searchRole, "role", "", "target role (corp)")
	searchCmd.Flags().StringVar(&searchCompany, "company", "", "target company (corp)")
	searchCmd.Flags().StringVar(&searchBusinessType, "business-type", "", "business type (smb)")
	searchCmd.Flags().StringVar(&searchLocation, "location", "", "location (smb)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "emit JSON instead of a table")
	rootCmd.AddCommand(searchCmd)
}
