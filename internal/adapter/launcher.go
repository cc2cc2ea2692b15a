package adapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"

	"github.com/mmcdole/zapper/internal/domain"
)

// Launcher starts channel streams in an external player
type Launcher struct {
	command   string   // configured player command, empty for auto-detect
	args      []string // additional arguments for the player
	socketDir string   // where mpv IPC sockets are created
	logger    *slog.Logger

	lookPath func(string) (string, error)
	start    func(path string, args []string, socket string, logger *slog.Logger) (*processSession, error)
}

// launchPath defines a single way to launch a player
type launchPath struct {
	path      string   // Command path: "mpv", "vlc", or "open-a:AppName"
	openFlags []string // For "open-a:" paths only - flags for macOS open command (e.g., ["-n"])
}

// playerConfig defines platform-specific launch configurations for a player
type playerConfig struct {
	titleFlag string                  // Window title flag (e.g., "--force-media-title=")
	ipcFlag   string                  // JSON IPC flag, only mpv speaks it
	platforms map[string][]launchPath // Platform -> launch paths to try in order
}

// players registry - single source of truth for all player configuration
var players = map[string]playerConfig{
	"mpv": {
		titleFlag: "--force-media-title=",
		ipcFlag:   "--input-ipc-server=",
		platforms: map[string][]launchPath{
			"darwin":  {{path: "mpv"}},
			"linux":   {{path: "mpv"}},
			"windows": {{path: "mpv"}},
		},
	},
	"vlc": {
		titleFlag: "--meta-title=",
		platforms: map[string][]launchPath{
			"darwin": {
				{path: "vlc"},
				{path: "open-a:VLC"},
			},
			"linux":   {{path: "vlc"}},
			"windows": {{path: "vlc"}},
		},
	},
	"iina": {
		platforms: map[string][]launchPath{
			"darwin": {
				{path: "open-a:IINA", openFlags: []string{"-n"}}, // IINA needs -n for new windows
			},
		},
	},
	"celluloid": {
		platforms: map[string][]launchPath{
			"linux": {{path: "celluloid"}},
		},
	},
	"haruna": {
		platforms: map[string][]launchPath{
			"linux": {{path: "haruna"}},
		},
	},
	"potplayer": {
		platforms: map[string][]launchPath{
			"windows": {{path: "PotPlayerMini64.exe"}, {path: "PotPlayerMini.exe"}},
		},
	},
}

// candidatePlayers defines the preferred player order for each platform.
// mpv leads everywhere since it is the only one with fullscreen control.
var candidatePlayers = map[string][]string{
	"darwin":  {"mpv", "iina", "vlc"},
	"linux":   {"mpv", "celluloid", "haruna", "vlc"},
	"windows": {"mpv", "vlc", "potplayer"},
}

var socketSeq atomic.Uint64

// NewLauncher creates a Launcher. An empty command auto-detects a player.
func NewLauncher(command string, args []string, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Launcher{
		command:   command,
		args:      args,
		socketDir: os.TempDir(),
		logger:    logger,
		lookPath:  exec.LookPath,
		start:     startProcess,
	}
}

// playerName maps a command path to its registry key ("/usr/bin/mpv" -> "mpv")
func playerName(command string) string {
	base := filepath.Base(command)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.ToLower(base)
}

// Supported reports whether any way of opening a stream exists on this machine
func (l *Launcher) Supported() bool {
	if l.command != "" {
		if _, err := l.lookPath(l.command); err == nil {
			return true
		}
		return runtime.GOOS == "darwin"
	}
	if _, _, ok := l.detect(); ok {
		return true
	}
	_, err := l.lookPath(defaultOpener())
	return err == nil
}

// detect returns the first candidate player found in PATH
func (l *Launcher) detect() (string, string, bool) {
	candidates, ok := candidatePlayers[runtime.GOOS]
	if !ok {
		candidates = candidatePlayers["linux"] // default
	}

	for _, name := range candidates {
		for _, lp := range players[name].platforms[runtime.GOOS] {
			if strings.HasPrefix(lp.path, "open-a:") {
				continue
			}
			if path, err := l.lookPath(lp.path); err == nil {
				return name, path, true
			}
		}
	}
	return "", "", false
}

// Start launches url and returns the session controlling the player process.
// Launches that hand off to another process (open -a, xdg-open) return a
// detached session that never reports completion.
func (l *Launcher) Start(ctx context.Context, url, title string) (domain.PlaybackSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Tier 1: User configured a specific player
	if l.command != "" {
		path, err := l.lookPath(l.command)
		if err != nil {
			if runtime.GOOS == "darwin" {
				return l.openWithApp(l.command, url, l.args, nil)
			}
			return nil, fmt.Errorf("%w: %s not found", domain.ErrPlaybackUnsupported, l.command)
		}
		l.logger.Info("using configured player", "command", l.command)
		return l.launch(playerName(l.command), path, url, title)
	}

	// Tier 2: Candidate chain (mpv first)
	if name, path, ok := l.detect(); ok {
		l.logger.Info("launching with detected player", "player", name, "path", path)
		return l.launch(name, path, url, title)
	}
	if runtime.GOOS == "darwin" {
		for _, name := range candidatePlayers["darwin"] {
			for _, lp := range players[name].platforms["darwin"] {
				if app, ok := strings.CutPrefix(lp.path, "open-a:"); ok {
					if s, err := l.openWithApp(app, url, nil, lp.openFlags); err == nil {
						return s, nil
					}
				}
			}
		}
	}

	// Tier 3: Fall back to system default (open/xdg-open/start)
	l.logger.Info("no candidate players found, using system default")
	return l.launchDefault(url)
}

// launch starts a player binary directly so its lifetime can be tracked
func (l *Launcher) launch(name, path, url, title string) (domain.PlaybackSession, error) {
	cfg := players[name]
	args := append([]string{}, l.args...)

	if cfg.titleFlag != "" && title != "" {
		args = append(args, cfg.titleFlag+title)
	}

	socket := ""
	if cfg.ipcFlag != "" && runtime.GOOS != "windows" {
		socket = filepath.Join(l.socketDir, fmt.Sprintf("zapper-mpv-%d-%d.sock", os.Getpid(), socketSeq.Add(1)))
		args = append(args, cfg.ipcFlag+socket)
	}

	args = append(args, url)
	l.logger.Info("launching player", "command", path, "args", args)

	s, err := l.start(path, args, socket, l.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", name, err)
	}
	return s, nil
}

// openWithApp opens url with a macOS app using "open -a"
func (l *Launcher) openWithApp(appName, url string, playerArgs, openFlags []string) (domain.PlaybackSession, error) {
	// Copy openFlags to avoid modifying the original slice
	cmdArgs := make([]string, len(openFlags))
	copy(cmdArgs, openFlags)

	cmdArgs = append(cmdArgs, "-a", appName)
	if len(playerArgs) > 0 {
		cmdArgs = append(cmdArgs, "--args")
		cmdArgs = append(cmdArgs, playerArgs...)
	}
	cmdArgs = append(cmdArgs, url)

	l.logger.Info("using macOS 'open -a' to launch GUI app", "app", appName, "args", cmdArgs)
	// Run() waits for open to return and fails if the app is missing
	if err := exec.Command("open", cmdArgs...).Run(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrPlaybackUnsupported, appName, err)
	}
	return detachedSession{}, nil
}

func defaultOpener() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "windows":
		return "cmd"
	default:
		return "xdg-open"
	}
}

// launchDefault opens the URL using the system default handler
func (l *Launcher) launchDefault(url string) (domain.PlaybackSession, error) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", url)
	default:
		// Linux and other Unix-like systems
		cmd = exec.Command("xdg-open", url)
	}

	l.logger.Info("launching with system default", "os", runtime.GOOS, "url", url)

	if err := cmd.Start(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, fmt.Errorf("%w: no player or system opener", domain.ErrPlaybackUnsupported)
		}
		return nil, err
	}
	go func() { _ = cmd.Wait() }()
	return detachedSession{}, nil
}
