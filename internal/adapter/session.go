package adapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/mmcdole/zapper/internal/domain"
)

const (
	ipcDialAttempts = 20
	ipcDialBackoff  = 50 * time.Millisecond
	ipcTimeout      = 2 * time.Second
)

// processSession tracks one running player process
type processSession struct {
	cmd    *exec.Cmd
	socket string // mpv JSON IPC socket, empty when unsupported
	done   chan struct{}
	logger *slog.Logger

	closeOnce sync.Once
	closeErr  error
}

func startProcess(path string, args []string, socket string, logger *slog.Logger) (*processSession, error) {
	cmd := exec.Command(path, args...)
	if err := cmd.Start(); err != nil {
		return nil, err
	}

	s := &processSession{
		cmd:    cmd,
		socket: socket,
		done:   make(chan struct{}),
		logger: logger,
	}
	go func() {
		err := cmd.Wait()
		logger.Debug("player exited", "pid", cmd.Process.Pid, "error", err)
		close(s.done)
	}()
	return s, nil
}

// Done is closed when the player process exits
func (s *processSession) Done() <-chan struct{} {
	return s.done
}

// Fullscreen asks the running player to go fullscreen
func (s *processSession) Fullscreen() error {
	if s.socket == "" {
		return domain.ErrFullscreenUnsupported
	}
	select {
	case <-s.done:
		return fmt.Errorf("player already exited")
	default:
	}
	return sendIPC(s.socket, "set_property", "fullscreen", true)
}

// Close kills the player if it is still running. Safe to call more than once.
func (s *processSession) Close() error {
	s.closeOnce.Do(func() {
		select {
		case <-s.done:
		default:
			if err := s.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
				s.closeErr = fmt.Errorf("failed to stop player: %w", err)
			}
		}
		if s.socket != "" {
			_ = os.Remove(s.socket)
		}
	})
	return s.closeErr
}

// ipcCommand is a single mpv JSON IPC request
type ipcCommand struct {
	Command []any `json:"command"`
}

// ipcReply is mpv's answer to a request
type ipcReply struct {
	Error string `json:"error"`
}

// sendIPC writes one command to the mpv socket. mpv creates the socket
// shortly after start, so dialing is retried briefly.
func sendIPC(socket string, command ...any) error {
	var conn net.Conn
	var err error
	for i := 0; i < ipcDialAttempts; i++ {
		conn, err = net.DialTimeout("unix", socket, ipcTimeout)
		if err == nil {
			break
		}
		time.Sleep(ipcDialBackoff)
	}
	if err != nil {
		return fmt.Errorf("failed to reach player: %w", err)
	}
	defer conn.Close()

	_ = conn.SetDeadline(time.Now().Add(ipcTimeout))
	if err := json.NewEncoder(conn).Encode(ipcCommand{Command: command}); err != nil {
		return fmt.Errorf("failed to send player command: %w", err)
	}

	// mpv interleaves events with replies; the first line carrying
	// "error" is ours.
	dec := json.NewDecoder(conn)
	for {
		var reply ipcReply
		if err := dec.Decode(&reply); err != nil {
			return fmt.Errorf("failed to read player reply: %w", err)
		}
		if reply.Error == "" {
			continue
		}
		if reply.Error != "success" {
			return fmt.Errorf("player rejected %v: %s", command[0], reply.Error)
		}
		return nil
	}
}

// detachedSession stands in for launches handed off to another process
type detachedSession struct{}

func (detachedSession) Fullscreen() error     { return domain.ErrFullscreenUnsupported }
func (detachedSession) Close() error          { return nil }
func (detachedSession) Done() <-chan struct{} { return nil }
