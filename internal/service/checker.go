package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/renameio/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/mmcdole/zapper/internal/domain"
	"github.com/mmcdole/zapper/internal/m3u"
)

const backupSuffix = ".backup.m3u"

// prober reports the HTTP status a stream URL answers with
type prober interface {
	Probe(ctx context.Context, url string) (int, error)
}

// CheckerOptions tunes a checker run
type CheckerOptions struct {
	Workers       int
	Timeout       time.Duration // per channel
	RatePerSecond float64       // 0 = unlimited
}

// FileReport is the outcome of checking one playlist file
type FileReport struct {
	Path    string
	Total   int
	Valid   int
	Written bool  // false when the file was left untouched
	Err     error // read or write failure
}

// Dead returns the number of channels that failed validation
func (r FileReport) Dead() int { return r.Total - r.Valid }

// CheckReport summarises a whole directory run
type CheckReport struct {
	Files    []FileReport
	Started  time.Time
	Duration time.Duration
}

// CheckerService validates playlist files and rewrites them with only the
// channels that still answer
type CheckerService struct {
	prober  prober
	opts    CheckerOptions
	limiter *rate.Limiter
	logger  *slog.Logger

	now func() time.Time
}

// NewCheckerService creates a new checker
func NewCheckerService(p prober, opts CheckerOptions, logger *slog.Logger) *CheckerService {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 3 * time.Second
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RatePerSecond), opts.Workers)
	}

	return &CheckerService{
		prober:  p,
		opts:    opts,
		limiter: limiter,
		logger:  logger,
		now:     time.Now,
	}
}

// PlaylistFiles lists the *.m3u files in dir, skipping backups, sorted by name
func PlaylistFiles(dir string) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.m3u"))
	if err != nil {
		return nil, err
	}
	files := paths[:0]
	for _, p := range paths {
		if strings.HasSuffix(filepath.Base(p), backupSuffix) {
			continue
		}
		files = append(files, p)
	}
	sort.Strings(files)
	return files, nil
}

// CheckDir checks every playlist in dir. Files are processed one at a time;
// channels within a file are checked in parallel.
func (s *CheckerService) CheckDir(ctx context.Context, dir string) (CheckReport, error) {
	report := CheckReport{Started: s.now()}

	files, err := PlaylistFiles(dir)
	if err != nil {
		return report, fmt.Errorf("failed to list playlists: %w", err)
	}
	if len(files) == 0 {
		return report, fmt.Errorf("no .m3u files found in %s", dir)
	}

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.Files = append(report.Files, s.CheckFile(ctx, path))
	}

	report.Duration = s.now().Sub(report.Started)
	return report, nil
}

// CheckFile validates one playlist and rewrites it atomically with the
// channels that passed, under an Updated header. A file with no valid
// channel is left as it was.
func (s *CheckerService) CheckFile(ctx context.Context, path string) FileReport {
	report := FileReport{Path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		report.Err = fmt.Errorf("failed to read %s: %w", path, err)
		return report
	}

	country := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	channels, err := m3u.Parse(data, domain.NormalizeSourceKey(country))
	if err != nil {
		report.Err = err
		return report
	}
	report.Total = len(channels)
	if len(channels) == 0 {
		s.logger.Warn("no channels to check", "file", path)
		return report
	}

	valid, err := s.validate(ctx, channels)
	if err != nil {
		report.Err = err
		return report
	}
	report.Valid = len(valid)
	s.logger.Info("playlist checked", "file", path, "total", report.Total, "valid", report.Valid)

	if len(valid) == 0 {
		return report
	}

	var buf bytes.Buffer
	if err := m3u.Write(&buf, valid, s.now()); err != nil {
		report.Err = err
		return report
	}
	if err := renameio.WriteFile(path, buf.Bytes(), 0644); err != nil {
		report.Err = fmt.Errorf("failed to write %s: %w", path, err)
		return report
	}
	report.Written = true
	return report
}

// validate probes every channel with at most opts.Workers in flight and
// returns the live ones in playlist order
func (s *CheckerService) validate(ctx context.Context, channels []domain.Channel) ([]domain.Channel, error) {
	alive := make([]bool, len(channels))
	var processed atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)

	for i, ch := range channels {
		g.Go(func() error {
			if err := s.limiter.Wait(ctx); err != nil {
				return err
			}
			alive[i] = s.alive(ctx, ch)
			if n := processed.Add(1); n%50 == 0 {
				s.logger.Debug("check progress", "processed", n, "total", len(channels))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	valid := make([]domain.Channel, 0, len(channels))
	for i, ok := range alive {
		if ok {
			valid = append(valid, channels[i])
		}
	}
	return valid, nil
}

// alive reports whether a stream answers with a status below 400
func (s *CheckerService) alive(ctx context.Context, ch domain.Channel) bool {
	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	status, err := s.prober.Probe(ctx, ch.URL)
	if err != nil {
		s.logger.Debug("channel unreachable", "channel", ch.Name, "error", err)
		return false
	}
	return status < http.StatusBadRequest
}

// WriteReport prints a per-file and overall summary
func WriteReport(w io.Writer, report CheckReport) {
	total, valid := 0, 0
	for _, f := range report.Files {
		fmt.Fprintf(w, "%s\n", filepath.Base(f.Path))
		if f.Err != nil {
			fmt.Fprintf(w, "  error: %v\n", f.Err)
			continue
		}
		total += f.Total
		valid += f.Valid
		switch {
		case f.Total == 0:
			fmt.Fprintf(w, "  no channels to check\n")
		case !f.Written:
			fmt.Fprintf(w, "  total %d, valid 0, dead %d (file left untouched)\n", f.Total, f.Dead())
		default:
			fmt.Fprintf(w, "  total %d, valid %d, dead %d, success %.1f%%\n",
				f.Total, f.Valid, f.Dead(), float64(f.Valid)/float64(f.Total)*100)
		}
	}
	fmt.Fprintf(w, "\nfiles %d, channels %d, valid %d, dead %d, took %.1fs\n",
		len(report.Files), total, valid, total-valid, report.Duration.Seconds())
}
