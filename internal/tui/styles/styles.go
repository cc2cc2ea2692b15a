// Package styles holds the zapper palette and the lipgloss styles shared by
// the gallery, the channel list and the overlays.
package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette
var (
	Amber  = lipgloss.Color("#F59E0B") // focus, keys, filter matches
	Ink    = lipgloss.Color("#0F172A")
	Slate  = lipgloss.Color("#334155") // selected row background
	Muted  = lipgloss.Color("#64748B")
	Text   = lipgloss.Color("#CBD5E1")
	Bright = lipgloss.Color("#F8FAFC")
	Live   = lipgloss.Color("#22C55E")
	Alert  = lipgloss.Color("#F43F5E")
	Star   = lipgloss.Color("#FACC15")
)

// PlayingMarker prefixes the channel that is streaming
const PlayingMarker = "▶"

// Text
var (
	TitleStyle  = lipgloss.NewStyle().Foreground(Bright).Bold(true)
	DimStyle    = lipgloss.NewStyle().Foreground(Muted)
	AccentStyle = lipgloss.NewStyle().Foreground(Amber)
	ErrorStyle  = lipgloss.NewStyle().Foreground(Alert)

	SpinnerStyle = lipgloss.NewStyle().Foreground(Amber)
)

// Channel row spans
var (
	PlayingStyle  = lipgloss.NewStyle().Foreground(Live).Bold(true)
	FavoriteStyle = lipgloss.NewStyle().Foreground(Star)
	MatchStyle    = lipgloss.NewStyle().Foreground(Amber).Bold(true)

	rowStyle         = lipgloss.NewStyle().Foreground(Text)
	rowSelectedStyle = lipgloss.NewStyle().Foreground(Bright).Background(Slate)
)

// Filter bar
var (
	FilterStyle       = lipgloss.NewStyle().Foreground(Amber)
	FilterPromptStyle = FilterStyle.Bold(true)
)

// Overlays
var (
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Amber).
			Background(Ink).
			Padding(1, 2)

	ModalTitleStyle = lipgloss.NewStyle().Foreground(Amber).Bold(true)
	HelpKeyStyle    = lipgloss.NewStyle().Foreground(Bright).Bold(true)
	HelpDescStyle   = lipgloss.NewStyle().Foreground(Muted)
)

// Frame is the border around the channel list
func Frame(focused bool) lipgloss.Style {
	color := Muted
	if focused {
		color = Amber
	}
	return lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(color)
}

// Cell is the style of one gallery cell; width is set by the caller
func Cell(selected bool) lipgloss.Style {
	if selected {
		return lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(Amber).
			Foreground(Bright).
			Bold(true).
			Padding(0, 1)
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Slate).
		Foreground(Text).
		Padding(0, 1)
}

// Truncate cuts s to width display cells, ending in "..." when it had to cut
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	if width <= 3 {
		return string(runes[:min(width, len(runes))])
	}
	for len(runes) > 0 && lipgloss.Width(string(runes))+3 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}

// Span is a run of row text. A zero Style renders with the row's colors;
// set properties override them while the row background is kept.
type Span struct {
	Text  string
	Style lipgloss.Style
}

// RenderRow renders spans as one list line padded to width, with a one cell
// margin on each side. Every span is rendered on its own so a styled run
// never resets the selected background of the rest of the line.
func RenderRow(spans []Span, selected bool, width int) string {
	base := rowStyle
	if selected {
		base = rowSelectedStyle
	}

	var b strings.Builder
	used := 0
	for _, s := range spans {
		b.WriteString(lipgloss.NewStyle().Inherit(s.Style).Inherit(base).Render(s.Text))
		used += lipgloss.Width(s.Text)
	}

	fill := base.UnsetForeground()
	if pad := width - used - 2; pad > 0 {
		b.WriteString(fill.Render(strings.Repeat(" ", pad)))
	}
	margin := fill.Render(" ")
	return margin + b.String() + margin
}
