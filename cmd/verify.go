package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <email> [email...]",
	Short: "Verify email addresses",
	Long:  "Classifies each address as valid, invalid, risky, or unknown via SMTP handshake and configured provider APIs.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		results := e.Verifier.VerifyBatch(ctx, args)

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "EMAIL\tSTATUS\tDETAILS")
		for _, r := range results {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Email, r.Status, r.Reason)
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
