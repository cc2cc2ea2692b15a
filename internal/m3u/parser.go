// Package m3u reads and writes extended M3U channel playlists.
package m3u

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mmcdole/zapper/internal/domain"
)

const (
	headerTag  = "#EXTM3U"
	extinfTag  = "#EXTINF"
	playlistTS = "2006-01-02 15:04"
)

// UnnamedChannel names entries whose #EXTINF line carries no comma
const UnnamedChannel = "Unnamed channel"

// Parse extracts channels from playlist text. A channel is an #EXTINF line
// followed immediately by its URL line; the name is the text after the last
// comma. URL lines that start with '#' drop the entry.
func Parse(data []byte, country string) ([]domain.Channel, error) {
	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(bytes.TrimSpace(data)))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error scanning M3U data: %w", err)
	}

	channels := make([]domain.Channel, 0, len(lines)/2)
	for i, line := range lines {
		if !strings.HasPrefix(line, extinfTag) {
			continue
		}
		if i+1 >= len(lines) {
			break
		}

		name := UnnamedChannel
		if idx := strings.LastIndex(line, ","); idx != -1 {
			name = strings.TrimSpace(line[idx+1:])
		}

		url := strings.TrimSpace(lines[i+1])
		if url == "" || strings.HasPrefix(url, "#") {
			continue
		}

		channels = append(channels, domain.Channel{Name: name, URL: url, Country: country})
	}

	return channels, nil
}

// Write renders channels as an extended M3U playlist. A zero updated time
// omits the #PLAYLIST line.
func Write(w io.Writer, channels []domain.Channel, updated time.Time) error {
	buf := &bytes.Buffer{}
	buf.WriteString(headerTag + "\n")
	if !updated.IsZero() {
		fmt.Fprintf(buf, "#PLAYLIST:Updated %s\n\n", updated.Format(playlistTS))
	}
	for _, ch := range channels {
		fmt.Fprintf(buf, "%s:-1,%s\n", extinfTag, ch.Name)
		buf.WriteString(ch.URL + "\n")
	}
	_, err := io.Copy(w, buf)
	return err
}
