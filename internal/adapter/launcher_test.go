package adapter

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/zapper/internal/domain"
)

type startCall struct {
	path   string
	args   []string
	socket string
}

// fakeLauncher resolves only the given binaries and records starts
func fakeLauncher(t *testing.T, command string, found ...string) (*Launcher, *[]startCall) {
	t.Helper()
	l := NewLauncher(command, []string{"--no-terminal"}, NullLogger())
	l.socketDir = t.TempDir()
	l.lookPath = func(name string) (string, error) {
		for _, f := range found {
			if f == name {
				return "/usr/bin/" + name, nil
			}
		}
		return "", exec.ErrNotFound
	}
	calls := &[]startCall{}
	l.start = func(path string, args []string, socket string, logger *slog.Logger) (*processSession, error) {
		*calls = append(*calls, startCall{path: path, args: args, socket: socket})
		done := make(chan struct{})
		close(done)
		return &processSession{socket: socket, done: done, logger: logger}, nil
	}
	return l, calls
}

func TestLauncher_DetectsMPVWithIPC(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("mpv IPC uses unix sockets")
	}
	l, calls := fakeLauncher(t, "", "mpv", "vlc")

	assert.True(t, l.Supported())
	s, err := l.Start(context.Background(), "http://cdn/one.m3u8", "One")
	require.NoError(t, err)
	require.NotNil(t, s)

	require.Len(t, *calls, 1)
	call := (*calls)[0]
	assert.Equal(t, "/usr/bin/mpv", call.path)
	assert.Equal(t, "--no-terminal", call.args[0])
	assert.Contains(t, call.args, "--force-media-title=One")
	assert.Contains(t, call.args, "--input-ipc-server="+call.socket)
	assert.Equal(t, "http://cdn/one.m3u8", call.args[len(call.args)-1])
	assert.Equal(t, l.socketDir, filepath.Dir(call.socket))
}

func TestLauncher_ConfiguredVLCHasNoFullscreen(t *testing.T) {
	l, calls := fakeLauncher(t, "vlc", "vlc")

	s, err := l.Start(context.Background(), "http://cdn/two.m3u8", "Two")
	require.NoError(t, err)

	require.Len(t, *calls, 1)
	assert.Empty(t, (*calls)[0].socket)
	assert.Contains(t, (*calls)[0].args, "--meta-title=Two")
	assert.ErrorIs(t, s.Fullscreen(), domain.ErrFullscreenUnsupported)
	assert.NoError(t, s.Close())
}

func TestLauncher_ConfiguredMissing(t *testing.T) {
	if runtime.GOOS == "darwin" {
		t.Skip("darwin falls back to open -a")
	}
	l, calls := fakeLauncher(t, "notaplayer")

	assert.False(t, l.Supported())
	_, err := l.Start(context.Background(), "http://cdn/x", "X")
	assert.ErrorIs(t, err, domain.ErrPlaybackUnsupported)
	assert.Empty(t, *calls)
}

func TestLauncher_NothingAvailable(t *testing.T) {
	l, _ := fakeLauncher(t, "")
	assert.False(t, l.Supported())
}

func TestLauncher_CancelledContext(t *testing.T) {
	l, calls := fakeLauncher(t, "", "mpv")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := l.Start(ctx, "http://cdn/x", "X")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, *calls)
}

func TestPlayerName(t *testing.T) {
	assert.Equal(t, "mpv", playerName("/usr/local/bin/mpv"))
	assert.Equal(t, "vlc", playerName(`C:\Program Files\VLC\VLC.exe`))
	assert.Equal(t, "potplayermini64", playerName("PotPlayerMini64.exe"))
}

func TestProcessSession_CloseKills(t *testing.T) {
	sleep, err := exec.LookPath("sleep")
	if err != nil {
		t.Skip("sleep not available")
	}

	s, err := startProcess(sleep, []string{"30"}, "", NullLogger())
	require.NoError(t, err)

	select {
	case <-s.Done():
		t.Fatal("process exited early")
	default:
	}

	require.NoError(t, s.Close())
	select {
	case <-s.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("process still running after Close")
	}
	assert.NoError(t, s.Close(), "second close is a no-op")
	assert.ErrorIs(t, s.Fullscreen(), domain.ErrFullscreenUnsupported)
}

// fakeMPV answers IPC requests on a unix socket the way mpv does
func fakeMPV(t *testing.T, reply string) (string, <-chan ipcCommand) {
	t.Helper()
	socket := filepath.Join(t.TempDir(), "mpv.sock")
	ln, err := net.Listen("unix", socket)
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	got := make(chan ipcCommand, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		line, err := bufio.NewReader(conn).ReadString('\n')
		if err != nil {
			return
		}
		var cmd ipcCommand
		_ = json.Unmarshal([]byte(line), &cmd)
		got <- cmd
		_, _ = conn.Write([]byte(`{"event":"playback-restart"}` + "\n"))
		_, _ = conn.Write([]byte(`{"request_id":0,"error":"` + reply + `"}` + "\n"))
	}()
	return socket, got
}

func TestSendIPC_Fullscreen(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix sockets")
	}
	socket, got := fakeMPV(t, "success")

	require.NoError(t, sendIPC(socket, "set_property", "fullscreen", true))

	cmd := <-got
	assert.Equal(t, []any{"set_property", "fullscreen", true}, cmd.Command)
}

func TestSendIPC_Rejected(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix sockets")
	}
	socket, _ := fakeMPV(t, "property not found")

	err := sendIPC(socket, "set_property", "fullscreen", true)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "property not found"))
}

func TestDetachedSession(t *testing.T) {
	var s domain.PlaybackSession = detachedSession{}
	assert.True(t, errors.Is(s.Fullscreen(), domain.ErrFullscreenUnsupported))
	assert.NoError(t, s.Close())
	assert.Nil(t, s.Done())
}
