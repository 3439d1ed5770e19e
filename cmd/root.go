package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/bizintel/internal/config"
	"github.com/sells-group/bizintel/internal/fetcher"
	"github.com/sells-group/bizintel/internal/scrape"
)

const (
	serviceName = "bizintel"
	version     = "1.0.0"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "bizintel",
	Short: "Company and LinkedIn business intelligence extraction",
	Long:  "Fetches company websites and LinkedIn pages, extracts contact, offering and history facts, and reads LinkedIn posts, jobs and people.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return eris.Wrap(err, "load config")
		}

		mode := "cli"
		if cmd.Name() == "serve" {
			mode = "serve"
		}
		if err := c.Validate(mode); err != nil {
			return eris.Wrap(err, "validate config")
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return eris.Wrap(err, "init logger")
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
	SilenceUsage: true,
}

// newService builds a scrape service over a live fetcher.
func newService() (*scrape.Service, error) {
	f, err := fetcher.New(cfg.Fetch)
	if err != nil {
		return nil, eris.Wrap(err, "init fetcher")
	}
	return scrape.NewService(f, cfg), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
