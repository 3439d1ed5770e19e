package main

import (
	"bufio"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/bizintel/internal/scrape"
)

var (
	batchFile        string
	batchFormat      string
	batchOutput      string
	batchMode        string
	batchConcurrency int
)

var batchCmd = &cobra.Command{
	Use:   "batch [url...]",
	Short: "Process a list of websites in one run",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if !validFormat(batchFormat) {
			return eris.Errorf("unknown format %q", batchFormat)
		}
		if batchFormat == formatXLSX && batchOutput == "" {
			return eris.New("xlsx output requires --output")
		}

		urls, err := collectURLs(args, batchFile)
		if err != nil {
			return err
		}

		svc, err := newService()
		if err != nil {
			return err
		}

		report, err := svc.Batch(ctx, urls, batchMode, batchConcurrency)
		if err != nil {
			return eris.Wrap(err, "batch")
		}

		if batchFormat == formatXLSX {
			return writeXLSX(batchOutput, report)
		}

		out := cmd.OutOrStdout()
		if batchOutput != "" {
			f, err := os.Create(batchOutput)
			if err != nil {
				return eris.Wrapf(err, "create %s", batchOutput)
			}
			defer f.Close()
			out = f
		}
		if err := writeReport(out, report, batchFormat); err != nil {
			return err
		}
		if batchOutput != "" {
			zap.L().Info("batch results written", zap.String("path", batchOutput), zap.String("format", batchFormat))
		}
		return nil
	},
}

func init() {
	batchCmd.Flags().StringVarP(&batchFile, "file", "f", "", "file with one URL per line")
	batchCmd.Flags().StringVar(&batchFormat, "format", formatText, "output format: json, csv, text, yaml or xlsx")
	batchCmd.Flags().StringVarP(&batchOutput, "output", "o", "", "output file (default stdout)")
	batchCmd.Flags().StringVar(&batchMode, "mode", scrape.ModeLinkedInOnly, "batch mode: find_linkedin, linkedin_only or direct")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "max URLs in flight (default from config)")
	rootCmd.AddCommand(batchCmd)
}

// collectURLs returns the URLs from path when set, else args. Blank lines
// and lines starting with # are skipped.
func collectURLs(args []string, path string) ([]string, error) {
	if path == "" {
		if len(args) == 0 {
			return nil, eris.New("no URLs given; pass them as arguments or with --file")
		}
		return args, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	var urls []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := sc.Err(); err != nil {
		return nil, eris.Wrapf(err, "read %s", path)
	}
	if len(urls) == 0 {
		return nil, eris.Errorf("no URLs in %s", path)
	}
	return urls, nil
}
