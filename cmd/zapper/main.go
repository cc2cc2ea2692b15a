package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/mmcdole/zapper/internal/adapter"
	"github.com/mmcdole/zapper/internal/adapter/source"
	"github.com/mmcdole/zapper/internal/m3u"
	"github.com/mmcdole/zapper/internal/service"
	"github.com/mmcdole/zapper/internal/store"
	"github.com/mmcdole/zapper/internal/tui"
)

// Version is set at build time via -ldflags
var Version = "dev"

type options struct {
	source     string
	openPlayer bool
	reset      bool
}

func main() {
	var (
		showVersion bool
		opts        options
	)
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.StringVar(&opts.source, "pais", "", "open the channel list of a source (e.g. mexico, chile, deportes)")
	flag.BoolVar(&opts.openPlayer, "player", false, "open the channel list of the default source")
	flag.BoolVar(&opts.reset, "reset", false, "forget the saved gallery position and favorites")
	flag.Usage = usage
	flag.Parse()

	if showVersion {
		fmt.Printf("zapper %s\n", Version)
		return
	}

	var err error
	switch flag.Arg(0) {
	case "":
		err = run(opts)
	case "check":
		dir := flag.Arg(1)
		if dir == "" {
			dir = "."
		}
		err = runCheck(dir)
	default:
		err = fmt.Errorf("unknown command %q", flag.Arg(0))
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "Usage:\n")
	fmt.Fprintf(out, "  zapper [flags]        browse and play channels\n")
	fmt.Fprintf(out, "  zapper check [dir]    drop dead channels from the playlists in dir\n\n")
	fmt.Fprintf(out, "Flags:\n")
	flag.PrintDefaults()
}

// setup loads configuration and the logger shared by every command
func setup() (*adapter.Config, *slog.Logger, func() error, error) {
	cfg, err := adapter.LoadConfig()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, closeLog, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
		closeLog = func() error { return nil }
	}
	slog.SetDefault(logger)

	return cfg, logger, closeLog, nil
}

func run(opts options) error {
	cfg, logger, closeLog, err := setup()
	if err != nil {
		return err
	}
	defer closeLog()

	logger.Info("starting zapper", "version", Version)

	prefs := openPrefs(cfg, logger)
	defer prefs.Close()

	if opts.reset {
		if err := service.NewSessionService(prefs, logger).Reset(); err != nil {
			return fmt.Errorf("failed to reset preferences: %w", err)
		}
		fmt.Println("✓ Preferences cleared.")
		return nil
	}

	fetcher := source.NewClient(source.Options{
		Timeout:   cfg.Fetch.Timeout,
		UserAgent: cfg.Fetch.UserAgent,
		VerifyTLS: true,
	}, logger)
	playlistSvc := service.NewPlaylistService(cfg.Sources, fetcher, logger)

	// Piped output gets the playlist itself instead of the TUI
	if opts.source != "" && !term.IsTerminal(int(os.Stdout.Fd())) {
		return writePlaylist(playlistSvc, opts.source, cfg.Fetch.Timeout, os.Stdout)
	}

	launcher := adapter.NewLauncher(cfg.Player.Command, cfg.Player.Args, logger)
	favoritesSvc := service.NewFavoritesService(prefs, logger)
	playbackSvc := service.NewPlaybackService(launcher, logger)

	if !playbackSvc.Supported() {
		logger.Warn("no media player found, playback disabled")
	}

	model := tui.NewModel(tui.Services{
		Playlists: playlistSvc,
		Favorites: favoritesSvc,
		Playback:  playbackSvc,
	}, prefs, tui.Options{
		GridColumns:    cfg.UI.GridColumns,
		ScrollCooldown: cfg.UI.ScrollCooldown,
		WelcomeDelay:   cfg.UI.WelcomeDelay,
		FetchTimeout:   cfg.Fetch.Timeout,
		DefaultSource:  cfg.Preferences.DefaultSource,
		StartPlayer:    opts.openPlayer || opts.source != "",
		StartSource:    opts.source,
	}, logger)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	)

	logger.Info("starting TUI")

	_, runErr := p.Run()

	if err := playbackSvc.Stop(); err != nil {
		logger.Warn("failed to stop player", "error", err)
	}

	if runErr != nil {
		logger.Error("TUI error", "error", runErr)
		return fmt.Errorf("TUI error: %w", runErr)
	}

	logger.Info("shutting down")
	return nil
}

// openPrefs opens the bolt store, falling back to memory when the data
// directory is unusable
func openPrefs(cfg *adapter.Config, logger *slog.Logger) *store.PrefStore {
	dataDir, err := adapter.ExpandHome(cfg.Preferences.DataDir)
	if err == nil {
		prefs, openErr := store.NewPrefStore(dataDir)
		if openErr == nil {
			return prefs
		}
		err = openErr
	}

	logger.Warn("preferences will not be saved", "data_dir", cfg.Preferences.DataDir, "error", err)
	prefs, _ := store.NewPrefStore("")
	return prefs
}

// writePlaylist loads key and writes it as M3U to w
func writePlaylist(svc *service.PlaylistService, key string, timeout time.Duration, w io.Writer) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	_, channels, err := svc.Load(ctx, key)
	if err != nil {
		return err
	}
	return m3u.Write(w, channels, time.Time{})
}

// runCheck validates the playlists in dir and rewrites them with the live channels
func runCheck(dir string) error {
	cfg, logger, closeLog, err := setup()
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client := source.NewClient(source.Options{
		Timeout:   cfg.Checker.Timeout,
		UserAgent: cfg.Checker.UserAgent,
		VerifyTLS: cfg.Checker.VerifyTLS,
	}, logger)

	checker := service.NewCheckerService(client, service.CheckerOptions{
		Workers:       cfg.Checker.Workers,
		Timeout:       cfg.Checker.Timeout,
		RatePerSecond: cfg.Checker.RatePerSecond,
	}, logger)

	fmt.Printf("Checking playlists in %s (%d workers, timeout %s)\n\n", dir, cfg.Checker.Workers, cfg.Checker.Timeout)

	report, err := checker.CheckDir(ctx, dir)
	if err != nil {
		return err
	}

	service.WriteReport(os.Stdout, report)
	return nil
}
