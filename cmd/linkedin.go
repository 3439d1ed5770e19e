package main

import (
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var linkedinCmd = &cobra.Command{
	Use:   "linkedin <company-url>",
	Short: "Extract about, posts, jobs and people for a LinkedIn company",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		svc, err := newService()
		if err != nil {
			return err
		}

		data, err := svc.ExtractAllCompanyData(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "linkedin")
		}
		return writeJSON(cmd.OutOrStdout(), data)
	},
}

func init() {
	rootCmd.AddCommand(linkedinCmd)
}
