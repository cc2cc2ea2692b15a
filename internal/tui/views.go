package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/zapper/internal/domain"
	"github.com/mmcdole/zapper/internal/tui/components"
	"github.com/mmcdole/zapper/internal/tui/styles"
)

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	if m.ShowHelp {
		return m.renderHelp()
	}

	contentHeight := m.Height - ChromeHeight

	var content string
	if m.Screen == ScreenGallery {
		content = m.GalleryGrid.View(m.Gallery.State())
	} else {
		content = m.renderPlayer()
	}
	content = lipgloss.NewStyle().
		Height(contentHeight).
		MaxHeight(contentHeight).
		Render(content)

	view := lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderHeader(),
		content,
		m.renderFooter(),
	)

	// Overlay while the external player starts
	if m.Launching != "" {
		msg := m.Spinner.View() + " Loading " + m.Launching + "..."
		view = lipgloss.Place(m.Width, m.Height,
			lipgloss.Center, lipgloss.Center,
			styles.ModalStyle.Render(msg))
	}

	return view
}

func (m Model) renderHeader() string {
	title := styles.TitleStyle.Render(" zapper")

	var crumb string
	if m.Screen == ScreenGallery {
		crumb = fmt.Sprintf("Sources (%d)", len(m.Gallery.Sources()))
	} else {
		crumb = "Sources › " + m.source.Name
		if m.Mode == ViewFavorites {
			crumb += " › Favorites"
		}
	}

	crumb = styles.Truncate("  "+crumb, m.Width-lipgloss.Width(title))
	return title + styles.DimStyle.Render(crumb)
}

func (m Model) renderPlayer() string {
	list := m.ChannelList
	if m.Loading {
		list.SetLoading(m.Spinner.View() + " Loading " + m.source.Name + "...")
	}
	return list.View(m.rows(), m.Player.State(), true)
}

// rows derives display rows from the collection; labels carry the
// favorite marker without touching channel names
func (m Model) rows() []components.Row {
	channels := m.Player.Channels()
	state := m.Player.State()

	rows := make([]components.Row, len(channels))
	for i, ch := range channels {
		fav := m.favorites[ch.Key()]
		rows[i] = components.Row{
			Label:    domain.DisplayLabel(ch.Name, fav),
			Favorite: fav,
			Playing:  state.IsPlaying(i),
		}
		if i < len(m.matches) {
			rows[i].MatchedIndexes = m.matches[i].MatchedIndexes
		}
	}
	return rows
}

func (m Model) renderFooter() string {
	// Left side: spinner while loading, otherwise the status message
	var left string
	switch {
	case m.Loading && m.StatusMsg == "":
		left = m.Spinner.View() + " " + styles.DimStyle.Render("Loading "+m.source.Name+"...")
	case m.StatusIsErr:
		left = styles.ErrorStyle.Render(m.StatusMsg)
	case m.StatusMsg != "":
		left = styles.DimStyle.Render(m.StatusMsg)
	}

	// Center section: screen hints
	var center string
	if m.Screen == ScreenPlayer {
		if m.Mode == ViewFavorites {
			center = styles.AccentStyle.Render("s") + styles.DimStyle.Render(" All channels")
		} else {
			center = styles.AccentStyle.Render("s") + styles.DimStyle.Render(" Favorites")
		}
		center += "  " + styles.AccentStyle.Render("f") + styles.DimStyle.Render(" Favorite")
	}

	right := styles.AccentStyle.Render("?") + styles.DimStyle.Render(" help")

	leftWidth := lipgloss.Width(left)
	centerWidth := lipgloss.Width(center)
	rightWidth := lipgloss.Width(right)

	if leftWidth+centerWidth+rightWidth >= m.Width {
		gap := m.Width - leftWidth - rightWidth
		if gap < 0 {
			gap = 0
		}
		return left + strings.Repeat(" ", gap) + right
	}

	available := m.Width - leftWidth - rightWidth
	leftPad := (available - centerWidth) / 2
	rightPad := available - centerWidth - leftPad

	return left + strings.Repeat(" ", leftPad) + center + strings.Repeat(" ", rightPad) + right
}

type helpEntry struct{ keys, desc string }

var (
	sourceHelp = []helpEntry{
		{"←↓↑→ h/j/k/l", "Move"},
		{"Enter", "Open source"},
		{"click", "Open source"},
	}
	channelHelp = []helpEntry{
		{"Enter/Space", "Play (again: fullscreen)"},
		{"f/F", "Toggle favorite"},
		{"s/S", "Favorites / all channels"},
		{"/", "Filter"},
		{"g/G", "First / last"},
		{"PgUp/PgDn", "Page"},
		{"Esc", "Clear filter / back"},
	}
	otherHelp = []helpEntry{
		{"?", "This help"},
		{"q", "Quit"},
	}
)

func renderHelpSection(title string, entries []helpEntry) string {
	keyWidth := 0
	for _, e := range entries {
		keyWidth = max(keyWidth, lipgloss.Width(e.keys))
	}
	lines := []string{styles.ModalTitleStyle.Render(title)}
	for _, e := range entries {
		pad := strings.Repeat(" ", keyWidth-lipgloss.Width(e.keys)+2)
		lines = append(lines, "  "+styles.HelpKeyStyle.Render(e.keys)+pad+styles.HelpDescStyle.Render(e.desc))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderHelp() string {
	columns := lipgloss.JoinHorizontal(lipgloss.Top,
		renderHelpSection("SOURCES", sourceHelp),
		"    ",
		renderHelpSection("CHANNELS", channelHelp),
	)
	help := lipgloss.JoinVertical(lipgloss.Left,
		columns,
		"",
		renderHelpSection("OTHER", otherHelp),
		"",
		styles.DimStyle.Render("Press any key to return..."),
	)

	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(help))
}
