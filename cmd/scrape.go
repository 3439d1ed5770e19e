package main

import (
	"encoding/json"
	"io"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape <url>",
	Short: "Extract company facts from a website or LinkedIn page",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		svc, err := newService()
		if err != nil {
			return err
		}

		rec, err := svc.Scrape(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "scrape")
		}
		if rec == nil {
			return eris.Errorf("scrape: could not retrieve %s", args[0])
		}
		return writeJSON(cmd.OutOrStdout(), rec)
	},
}

func init() {
	rootCmd.AddCommand(scrapeCmd)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return eris.Wrap(err, "encode json")
	}
	return nil
}
