package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	recentLimit int
	recentJSON  bool
)

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List recently verified profiles",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		profiles, err := e.Resolver.Recent(ctx, recentLimit)
		if err != nil {
			return err
		}

		if recentJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(profiles)
		}

		if len(profiles) == 0 {
			fmt.Fprintln(os.Stderr, "No profiles found.")
			return nil
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tTITLE\tEMAIL\tSTATUS")
		for _, p := range profiles {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.Name, truncate(p.Headline, 40), p.Email, p.EmailStatus)
		}
		return tw.Flush()
	},
}

func init() {
	recentCmd.Flags().IntVar(&recentLimit, "limit", 20, "maximum profiles to list")
	recentCmd.Flags().BoolVar(&recentJSON, "json", false, "emit JSON instead of a table")
	rootCmd.AddCommand(recentCmd)
}
