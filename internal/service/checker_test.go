package service

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// statusProber answers from a URL -> status table; unknown URLs time out
type statusProber struct {
	status map[string]int

	inflight atomic.Int32
	peak     atomic.Int32
	mu       sync.Mutex
}

func (p *statusProber) Probe(ctx context.Context, url string) (int, error) {
	n := p.inflight.Add(1)
	defer p.inflight.Add(-1)
	p.mu.Lock()
	if n > p.peak.Load() {
		p.peak.Store(n)
	}
	p.mu.Unlock()

	time.Sleep(time.Millisecond)
	if s, ok := p.status[url]; ok {
		return s, nil
	}
	<-ctx.Done()
	return 0, ctx.Err()
}

func writePlaylist(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func newTestChecker(p prober, workers int) *CheckerService {
	c := NewCheckerService(p, CheckerOptions{Workers: workers, Timeout: 50 * time.Millisecond}, nil)
	c.now = func() time.Time { return time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC) }
	return c
}

func TestCheckFile_KeepsLiveChannelsInOrder(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	path := writePlaylist(t, dir, "Mexico.m3u", "#EXTM3U\n"+
		"#EXTINF:-1,Alive One\nhttp://s/1\n"+
		"#EXTINF:-1,Dead\nhttp://s/2\n"+
		"#EXTINF:-1,Timeout\nhttp://s/3\n"+
		"#EXTINF:-1,Alive Two\nhttp://s/4\n")

	p := &statusProber{status: map[string]int{
		"http://s/1": http.StatusOK,
		"http://s/2": http.StatusNotFound,
		"http://s/4": http.StatusFound,
	}}
	report := newTestChecker(p, 30).CheckFile(context.Background(), path)

	require.NoError(t, report.Err)
	assert.Equal(t, 4, report.Total)
	assert.Equal(t, 2, report.Valid)
	assert.Equal(t, 2, report.Dead())
	assert.True(t, report.Written)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "#EXTM3U\n#PLAYLIST:Updated 2024-05-01 09:30\n\n"+
		"#EXTINF:-1,Alive One\nhttp://s/1\n"+
		"#EXTINF:-1,Alive Two\nhttp://s/4\n", string(data))
}

func TestCheckFile_NoValidLeavesFileUntouched(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	body := "#EXTM3U\n#EXTINF:-1,Dead\nhttp://s/dead\n"
	path := writePlaylist(t, dir, "Chile.m3u", body)

	p := &statusProber{status: map[string]int{"http://s/dead": http.StatusInternalServerError}}
	report := newTestChecker(p, 4).CheckFile(context.Background(), path)

	require.NoError(t, report.Err)
	assert.False(t, report.Written)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, body, string(data))
}

func TestCheckFile_RespectsWorkerLimit(t *testing.T) {
	defer goleak.VerifyNone(t)

	var b strings.Builder
	b.WriteString("#EXTM3U\n")
	status := map[string]int{}
	for i := 0; i < 40; i++ {
		url := "http://s/" + string(rune('a'+i%26)) + string(rune('0'+i/26))
		b.WriteString("#EXTINF:-1,ch\n" + url + "\n")
		status[url] = http.StatusOK
	}
	path := writePlaylist(t, t.TempDir(), "Peru.m3u", b.String())

	p := &statusProber{status: status}
	report := newTestChecker(p, 3).CheckFile(context.Background(), path)

	require.NoError(t, report.Err)
	assert.Equal(t, 40, report.Valid)
	assert.LessOrEqual(t, p.peak.Load(), int32(3))
}

func TestCheckFile_Cancelled(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := writePlaylist(t, t.TempDir(), "Cuba.m3u", "#EXTM3U\n#EXTINF:-1,A\nhttp://s/a\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := newTestChecker(&statusProber{}, 2).CheckFile(ctx, path)
	assert.True(t, errors.Is(report.Err, context.Canceled))
	assert.False(t, report.Written)
}

func TestPlaylistFiles_SkipsBackups(t *testing.T) {
	dir := t.TempDir()
	writePlaylist(t, dir, "Peru.m3u", "#EXTM3U\n")
	writePlaylist(t, dir, "Chile.m3u", "#EXTM3U\n")
	writePlaylist(t, dir, "Chile.backup.m3u", "#EXTM3U\n")
	writePlaylist(t, dir, "notes.txt", "")

	files, err := PlaylistFiles(dir)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "Chile.m3u", filepath.Base(files[0]))
	assert.Equal(t, "Peru.m3u", filepath.Base(files[1]))
}

func TestCheckDir_Report(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	writePlaylist(t, dir, "A.m3u", "#EXTM3U\n#EXTINF:-1,Up\nhttp://s/up\n#EXTINF:-1,Down\nhttp://s/down\n")
	writePlaylist(t, dir, "B.m3u", "#EXTM3U\n")

	p := &statusProber{status: map[string]int{"http://s/up": 200, "http://s/down": 404}}
	report, err := newTestChecker(p, 2).CheckDir(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, report.Files, 2)

	var out bytes.Buffer
	WriteReport(&out, report)
	text := out.String()
	assert.Contains(t, text, "A.m3u\n  total 2, valid 1, dead 1, success 50.0%")
	assert.Contains(t, text, "B.m3u\n  no channels to check")
	assert.Contains(t, text, "files 2, channels 2, valid 1, dead 1")
}

func TestCheckDir_Empty(t *testing.T) {
	_, err := newTestChecker(&statusProber{}, 1).CheckDir(context.Background(), t.TempDir())
	assert.Error(t, err)
}

func TestNewCheckerService_RateLimited(t *testing.T) {
	c := NewCheckerService(&statusProber{}, CheckerOptions{Workers: 0, RatePerSecond: 5}, nil)
	assert.Equal(t, 1, c.opts.Workers)
	assert.Equal(t, 3*time.Second, c.opts.Timeout)
	assert.InDelta(t, 5.0, float64(c.limiter.Limit()), 0.001)
}
