package scrape

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/bizintel/internal/config"
)

// Batch modes.
const (
	ModeFindLinkedIn = "find_linkedin"
	ModeLinkedInOnly = "linkedin_only"
	ModeDirect       = "direct"
)

// BatchReport is the outcome of one batch run. Results follow input order.
type BatchReport struct {
	RunID      string        `json:"run_id" yaml:"run_id"`
	Results    []*FindResult `json:"results" yaml:"results"`
	Total      int           `json:"total" yaml:"total"`
	Successful int           `json:"successful" yaml:"successful"`
	Failed     int           `json:"failed" yaml:"failed"`
}

// ValidMode reports whether mode names a batch mode.
func ValidMode(mode string) bool {
	switch mode {
	case ModeFindLinkedIn, ModeLinkedInOnly, ModeDirect:
		return true
	}
	return false
}

// Batch processes urls in mode with at most concurrency calls in flight.
// A concurrency below 1 falls back to the configured batch concurrency.
// Per-URL failures are recorded in the report and never abort the run.
func (s *Service) Batch(ctx context.Context, urls []string, mode string, concurrency int) (*BatchReport, error) {
	maxURLs := s.cfg.Batch.MaxURLs
	if maxURLs <= 0 || maxURLs > config.MaxBatchURLs {
		maxURLs = config.MaxBatchURLs
	}
	if len(urls) == 0 {
		return nil, &InputError{Reason: "No URLs provided"}
	}
	if len(urls) > maxURLs {
		return nil, &InputError{Reason: fmt.Sprintf("Maximum %d URLs allowed per batch", maxURLs)}
	}
	if !ValidMode(mode) {
		return nil, &InputError{Reason: fmt.Sprintf("Unknown batch mode %q", mode)}
	}
	if concurrency < 1 {
		concurrency = max(s.cfg.Batch.Concurrency, 1)
	}

	report := &BatchReport{
		RunID:   uuid.NewString(),
		Results: make([]*FindResult, len(urls)),
		Total:   len(urls),
	}
	log := zap.L().With(zap.String("run_id", report.RunID), zap.String("mode", mode))
	log.Info("scrape: batch started", zap.Int("urls", len(urls)), zap.Int("concurrency", concurrency))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	var succeeded, failed atomic.Int64

	for i, raw := range urls {
		g.Go(func() error {
			r := s.process(gctx, raw, mode)
			report.Results[i] = r
			if r.Success {
				succeeded.Add(1)
			} else {
				failed.Add(1)
				log.Warn("scrape: batch item failed",
					zap.String("url", r.WebsiteURL),
					zap.String("message", r.Message),
					zap.String("error", r.Error),
				)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "scrape: batch")
	}

	report.Successful = int(succeeded.Load())
	report.Failed = int(failed.Load())
	log.Info("scrape: batch complete",
		zap.Int("successful", report.Successful),
		zap.Int("failed", report.Failed),
	)
	return report, nil
}

func (s *Service) process(ctx context.Context, raw, mode string) *FindResult {
	if err := ctx.Err(); err != nil {
		u := NormalizeURL(raw)
		return &FindResult{WebsiteURL: u, Domain: hostOf(u), Error: err.Error()}
	}

	switch mode {
	case ModeFindLinkedIn:
		return s.FindAndExtract(ctx, raw)
	case ModeDirect:
		u := NormalizeURL(raw)
		out := &FindResult{WebsiteURL: u, Domain: hostOf(u)}
		rec, err := s.Scrape(ctx, u)
		switch {
		case err != nil:
			out.Error = err.Error()
		case rec == nil:
			out.Message = "Failed to extract data from the website"
		default:
			out.Success = true
			out.Data = rec
		}
		return out
	default:
		u := NormalizeURL(raw)
		out := &FindResult{WebsiteURL: u, Domain: hostOf(u)}
		found, err := s.FindLinkedInURL(ctx, u)
		switch {
		case err != nil:
			out.Error = err.Error()
		case found == "":
			out.Message = "No LinkedIn URL found on the website"
		default:
			out.Success = true
			out.LinkedInURL = found
		}
		return out
	}
}
