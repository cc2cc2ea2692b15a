package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/zapper/internal/domain"
	"github.com/mmcdole/zapper/internal/nav"
	"github.com/mmcdole/zapper/internal/tui/styles"
)

// Row is one rendered channel line
type Row struct {
	Label          string // Display label, may carry the favorite marker
	Favorite       bool
	Playing        bool
	MatchedIndexes []int // Rune positions in Label to highlight
}

// ChannelList renders the channel collection with an optional filter bar
type ChannelList struct {
	title   string
	notice  string // replaces the rows when set (errors, empty favorites help)
	loading string // loading line shown while the list is empty

	offset     int
	maxVisible int
	width      int
	height     int

	// Filter state
	filterActive bool
	filterInput  textinput.Model
	total        int // unfiltered count for the [n/total] hint
}

// NewChannelList creates an empty channel list
func NewChannelList() ChannelList {
	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = styles.FilterStyle

	return ChannelList{filterInput: ti}
}

// SetSize sets the outer size, border included
func (c *ChannelList) SetSize(width, height int) {
	c.width = width
	c.height = height
	c.recalcMaxVisible()
}

// SetTitle sets the line shown above the rows
func (c *ChannelList) SetTitle(title string) {
	c.title = title
}

// SetNotice shows msg instead of the rows; empty clears it
func (c *ChannelList) SetNotice(msg string) {
	c.notice = msg
}

// Notice returns the active notice
func (c *ChannelList) Notice() string {
	return c.notice
}

// SetLoading shows a loading line while the list is empty; empty clears it
func (c *ChannelList) SetLoading(msg string) {
	c.loading = msg
}

// SetTotal records the unfiltered collection size
func (c *ChannelList) SetTotal(n int) {
	c.total = n
}

// MaxVisible is how many rows fit
func (c *ChannelList) MaxVisible() int {
	return c.maxVisible
}

// Offset returns the first visible row
func (c *ChannelList) Offset() int {
	return c.offset
}

// ScrollTo centers index in the viewport
func (c *ChannelList) ScrollTo(index, count int) {
	if index < 0 {
		c.offset = 0
		return
	}
	c.offset = nav.CenterOffset(index, count, c.maxVisible)
}

// HitTest maps a y coordinate relative to the list origin to a row index
func (c *ChannelList) HitTest(y, count int) (int, bool) {
	if c.notice != "" {
		return nav.None, false
	}
	// top border + title + "↑ more"
	first := 1 + TitleLines + 1
	row := y - first
	if row < 0 || row >= c.maxVisible {
		return nav.None, false
	}
	i := c.offset + row
	if i >= count {
		return nav.None, false
	}
	return i, true
}

// StartFilter opens the filter bar and focuses it
func (c *ChannelList) StartFilter() tea.Cmd {
	c.filterActive = true
	c.recalcMaxVisible()
	return c.filterInput.Focus()
}

// IsFiltering returns true if filter mode is active
func (c *ChannelList) IsFiltering() bool {
	return c.filterActive
}

// IsFilterTyping returns true if filter is active AND input is focused
func (c *ChannelList) IsFilterTyping() bool {
	return c.filterActive && c.filterInput.Focused()
}

// StopTyping keeps the filter but returns keys to the list
func (c *ChannelList) StopTyping() {
	c.filterInput.Blur()
}

// FilterQuery returns the current query
func (c *ChannelList) FilterQuery() string {
	if !c.filterActive {
		return ""
	}
	return c.filterInput.Value()
}

// ClearFilter deactivates the filter
func (c *ChannelList) ClearFilter() {
	c.filterActive = false
	c.filterInput.SetValue("")
	c.filterInput.Blur()
	c.recalcMaxVisible()
}

// UpdateFilter feeds a key to the filter input and reports whether the query changed
func (c *ChannelList) UpdateFilter(msg tea.Msg) (bool, tea.Cmd) {
	before := c.filterInput.Value()
	var cmd tea.Cmd
	c.filterInput, cmd = c.filterInput.Update(msg)
	return c.filterInput.Value() != before, cmd
}

func (c *ChannelList) recalcMaxVisible() {
	// Interior height = total - border, minus title and scroll indicators
	c.maxVisible = c.height - BorderHeight - TitleLines - ScrollIndicatorLines
	if c.filterActive {
		c.maxVisible--
	}
	if c.maxVisible < 1 {
		c.maxVisible = 1
	}
}

// View renders rows; state supplies selection
func (c *ChannelList) View(rows []Row, state nav.NavigationState, focused bool) string {
	style := styles.Frame(focused)

	frameW, frameH := style.GetFrameSize()
	return style.
		Width(c.width - frameW).
		Height(c.height - frameH).
		Render(c.renderContent(rows, state))
}

func (c *ChannelList) renderContent(rows []Row, state nav.NavigationState) string {
	itemWidth := c.width - BorderWidth
	if itemWidth < 10 {
		itemWidth = 10
	}

	titleLine := styles.AccentStyle.Render(styles.Truncate(c.title, itemWidth))

	var body string
	switch {
	case c.notice != "":
		body = " \n" + styles.DimStyle.Render(wrap(c.notice, itemWidth)) + "\n "
	case len(rows) == 0 && c.loading != "":
		body = " \n" + c.loading + "\n "
	case len(rows) == 0:
		msg := "No channels"
		if c.FilterQuery() != "" {
			msg = "No matches"
		}
		body = " \n" + styles.DimStyle.Render(msg) + "\n "
	default:
		body = c.renderRows(rows, state, itemWidth)
	}

	content := titleLine + "\n" + body
	if c.filterActive {
		content += "\n" + c.renderFilterBar(len(rows))
	}
	return content
}

func (c *ChannelList) renderRows(rows []Row, state nav.NavigationState, width int) string {
	end := c.offset + c.maxVisible
	if end > len(rows) {
		end = len(rows)
	}

	lines := make([]string, 0, end-c.offset)
	for i := c.offset; i < end; i++ {
		lines = append(lines, renderRow(rows[i], state.IsSelected(i), width))
	}

	// Always reserve the indicator lines to prevent layout shifts
	header := " "
	if c.offset > 0 {
		header = styles.DimStyle.Render("↑ more")
	}
	footer := " "
	if end < len(rows) {
		footer = styles.DimStyle.Render("↓ more")
	}
	return header + "\n" + strings.Join(lines, "\n") + "\n" + footer
}

func renderRow(r Row, selected bool, width int) string {
	prefix := styles.Span{Text: "  "}
	if r.Playing {
		prefix = styles.Span{Text: styles.PlayingMarker + " ", Style: styles.PlayingStyle}
	}

	label := styles.Truncate(r.Label, width-4)
	spans := append([]styles.Span{prefix}, highlight(label, r.MatchedIndexes, r.Favorite)...)
	return styles.RenderRow(spans, selected, width)
}

// highlight splits label into plain and matched runs. Matched positions
// index the bare name, so the favorite marker is split off first.
func highlight(label string, matched []int, favorite bool) []styles.Span {
	var spans []styles.Span
	if favorite {
		if name, ok := strings.CutPrefix(label, domain.FavoriteMarker); ok {
			spans = append(spans, styles.Span{Text: domain.FavoriteMarker, Style: styles.FavoriteStyle})
			label = name
		}
	}
	runes := []rune(label)

	if len(matched) == 0 {
		return append(spans, styles.Span{Text: string(runes)})
	}

	hit := make(map[int]bool, len(matched))
	for _, i := range matched {
		hit[i] = true
	}

	var run []rune
	runHit := false
	flush := func() {
		if len(run) == 0 {
			return
		}
		span := styles.Span{Text: string(run)}
		if runHit {
			span.Style = styles.MatchStyle
		}
		spans = append(spans, span)
		run = run[:0]
	}
	for i, r := range runes {
		if hit[i] != runHit {
			flush()
			runHit = hit[i]
		}
		run = append(run, r)
	}
	flush()
	return spans
}

func (c *ChannelList) renderFilterBar(count int) string {
	input := c.filterInput.View()
	if c.filterInput.Value() == "" {
		return input
	}
	return input + styles.DimStyle.Render(fmt.Sprintf(" [%d/%d]", count, c.total))
}

// wrap breaks text at spaces so it fits width
func wrap(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 || width <= 0 {
		return text
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if lipgloss.Width(line)+1+lipgloss.Width(w) > width {
			lines = append(lines, line)
			line = w
			continue
		}
		line += " " + w
	}
	return strings.Join(append(lines, line), "\n")
}
