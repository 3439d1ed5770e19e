package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var findLinkedInCmd = &cobra.Command{
	Use:   "find-linkedin <url>...",
	Short: "Find the LinkedIn company page advertised by each website",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		svc, err := newService()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, u := range args {
			found, err := svc.FindLinkedInURL(ctx, u)
			if err != nil {
				zap.L().Warn("find-linkedin failed", zap.String("url", u), zap.Error(err))
				fmt.Fprintf(out, "%s\t%s\n", u, err)
				continue
			}
			if found == "" {
				found = "Not found"
			}
			fmt.Fprintf(out, "%s\t%s\n", u, found)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(findLinkedInCmd)
}
