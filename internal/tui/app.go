package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/zapper/internal/domain"
	"github.com/mmcdole/zapper/internal/nav"
	"github.com/mmcdole/zapper/internal/search"
	"github.com/mmcdole/zapper/internal/service"
	"github.com/mmcdole/zapper/internal/tui/components"
	"github.com/mmcdole/zapper/internal/tui/styles"
)

// Screen is the page being shown
type Screen int

const (
	ScreenGallery Screen = iota
	ScreenPlayer
)

// ViewMode selects the player's collection
type ViewMode int

const (
	ViewNormal ViewMode = iota
	ViewFavorites
)

// FavoritesEmptyHelp replaces the list when the favorites view has nothing to show
const FavoritesEmptyHelp = "No favorites yet. Press f on any channel to add it"

// Vertical layout: header line + footer line
const ChromeHeight = 2

// IndexStore persists the gallery selection
type IndexStore interface {
	SaveIndex(i int) error
	LoadIndex() (int, bool)
}

// Services bundles what the TUI drives
type Services struct {
	Playlists *service.PlaylistService
	Favorites *service.FavoritesService
	Playback  *service.PlaybackService
}

// Options tunes the TUI
type Options struct {
	GridColumns    int
	ScrollCooldown time.Duration
	WelcomeDelay   time.Duration
	FetchTimeout   time.Duration
	DefaultSource  string

	// Open the player on StartSource (DefaultSource when empty) instead of the gallery
	StartPlayer bool
	StartSource string
}

// Model is the main Bubble Tea model for the application
type Model struct {
	// Application state
	Screen   Screen
	Mode     ViewMode
	Ready    bool
	ShowHelp bool

	// Services
	PlaylistSvc  *service.PlaylistService
	FavoritesSvc *service.FavoritesService
	PlaybackSvc  *service.PlaybackService

	// Controllers own the selection state; components only render it
	Gallery       *nav.Gallery
	Player        *nav.Player
	galleryScroll *nav.ScrollSync
	playerScroll  *nav.ScrollSync

	// UI Components
	GalleryGrid components.GalleryGrid
	ChannelList components.ChannelList
	Spinner     spinner.Model
	Keys        KeyMap

	// Dimensions
	Width  int
	Height int

	// Data
	source       domain.Source
	hasSource    bool
	channels     []domain.Channel // last loaded playlist, unfiltered
	matches      []search.Match   // aligned with Player.Channels()
	favorites    map[domain.ChannelKey]bool
	normalNotice string // not found / fetch failure shown in the normal view

	// UI state
	loadSeq     int
	Loading     bool
	Launching   string // channel whose player is starting
	playSeq     int
	StatusMsg   string
	StatusIsErr bool
	statusSeq   int

	initCmd tea.Cmd
	opts    Options
	logger  *slog.Logger
}

// NewModel creates a new application model
func NewModel(svcs Services, prefs IndexStore, opts Options, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.GridColumns < 1 {
		opts.GridColumns = nav.DefaultColumns
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = 30 * time.Second
	}

	gallery := nav.NewGallery(svcs.Playlists.Sources(), opts.GridColumns, prefs, logger)
	gallery.Restore()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.SpinnerStyle

	m := Model{
		Screen:        ScreenGallery,
		PlaylistSvc:   svcs.Playlists,
		FavoritesSvc:  svcs.Favorites,
		PlaybackSvc:   svcs.Playback,
		Gallery:       gallery,
		Player:        nav.NewPlayer(),
		galleryScroll: nav.NewScrollSync(),
		playerScroll:  nav.NewScrollSync(),
		GalleryGrid:   components.NewGalleryGrid(gallery.Sources(), gallery.Grid()),
		ChannelList:   components.NewChannelList(),
		Spinner:       sp,
		Keys:          DefaultKeyMap(),
		favorites:     svcs.Favorites.Keys(),
		opts:          opts,
		logger:        logger,
	}

	if opts.StartPlayer {
		m.initCmd = m.openPlayer(opts.StartSource)
	} else {
		m.initCmd = m.requestScroll(ScreenGallery, gallery.State().Selected)
	}
	return m
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.Spinner.Tick, m.initCmd)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.MouseMsg:
		return m.handleMouseMsg(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case PlaylistLoadedMsg:
		return m.handlePlaylistLoaded(msg)

	case PlaybackStartedMsg:
		if msg.Seq != m.playSeq {
			m.logger.Debug("discarding stale player", "channel", msg.Channel.Name)
			return m, DiscardSessionCmd(m.PlaybackSvc, msg.Session)
		}
		m.Launching = ""
		m.setStatus("Playing "+msg.Channel.Name, false)
		return m, WaitPlaybackCmd(msg.Session, msg.Channel.Key())

	case PlaybackFailedMsg:
		if msg.Seq != m.playSeq {
			return m, nil
		}
		m.Launching = ""
		m.Player.Stopped(msg.Channel.Key())
		m.setStatus(msg.Err.Error(), true)
		return m, nil

	case PlaybackEndedMsg:
		if m.PlaybackSvc.Ended(msg.Session) && m.Player.Stopped(msg.Key) {
			m.setStatus("Playback ended", false)
		}
		return m, nil

	case FullscreenMsg:
		if msg.Err != nil {
			if errors.Is(msg.Err, domain.ErrFullscreenUnsupported) {
				m.setStatus("This player cannot be switched to fullscreen", true)
			} else {
				m.setStatus(ErrMsg{Err: msg.Err, Context: "fullscreen"}.Error(), true)
			}
		}
		return m, nil

	case ScrollSettleMsg:
		return m, m.settleScroll(msg)

	case StatusClearMsg:
		if msg.Seq == m.statusSeq {
			m.StatusMsg = ""
			m.StatusIsErr = false
		}
		return m, nil
	}

	return m, nil
}

// handleKeyMsg routes keys by overlay, filter and screen
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.ShowHelp {
		m.ShowHelp = false
		return m, nil
	}

	if m.Screen == ScreenPlayer && m.ChannelList.IsFilterTyping() {
		return m.handleFilterKey(msg)
	}

	switch {
	case key.Matches(msg, m.Keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.Keys.Help):
		m.ShowHelp = true
		return m, nil
	}

	if m.Screen == ScreenGallery {
		return m.handleGalleryKey(msg)
	}
	return m.handlePlayerKey(msg)
}

func (m Model) handleGalleryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Up):
		return m, m.moveGallery(nav.Up)
	case key.Matches(msg, m.Keys.Down):
		return m, m.moveGallery(nav.Down)
	case key.Matches(msg, m.Keys.Left):
		return m, m.moveGallery(nav.Left)
	case key.Matches(msg, m.Keys.Right):
		return m, m.moveGallery(nav.Right)
	case key.Matches(msg, m.Keys.Activate):
		if src, ok := m.Gallery.Selected(); ok {
			return m, m.openPlayer(src.Key)
		}
	}
	return m, nil
}

func (m Model) handlePlayerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Up):
		return m, m.movePlayer(nav.Up)
	case key.Matches(msg, m.Keys.Down):
		return m, m.movePlayer(nav.Down)
	case key.Matches(msg, m.Keys.PageUp):
		return m, m.jumpPlayer(-m.ChannelList.MaxVisible())
	case key.Matches(msg, m.Keys.PageDown):
		return m, m.jumpPlayer(m.ChannelList.MaxVisible())
	case key.Matches(msg, m.Keys.Home):
		return m, m.jumpPlayer(-m.Player.State().Length)
	case key.Matches(msg, m.Keys.End):
		return m, m.jumpPlayer(m.Player.State().Length)
	case key.Matches(msg, m.Keys.Activate):
		return m, m.activate(m.Player.State().Selected)
	case key.Matches(msg, m.Keys.Favorite):
		return m, m.toggleFavorite()
	case key.Matches(msg, m.Keys.Favorites):
		return m, m.toggleViewMode()
	case key.Matches(msg, m.Keys.Filter):
		if len(m.baseChannels()) == 0 {
			return m, nil
		}
		return m, m.ChannelList.StartFilter()
	case key.Matches(msg, m.Keys.Back):
		if m.ChannelList.IsFiltering() {
			m.ChannelList.ClearFilter()
			return m, m.applyCollection()
		}
		return m, m.backToGallery()
	}
	return m, nil
}

// handleFilterKey feeds the filter input; list navigation keeps working
func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.ChannelList.ClearFilter()
		return m, m.applyCollection()
	case tea.KeyEnter:
		m.ChannelList.StopTyping()
		return m, nil
	case tea.KeyUp:
		return m, m.movePlayer(nav.Up)
	case tea.KeyDown:
		return m, m.movePlayer(nav.Down)
	}

	changed, cmd := m.ChannelList.UpdateFilter(msg)
	if changed {
		cmd = tea.Batch(cmd, m.applyCollection())
	}
	return m, cmd
}

// handleMouseMsg maps hover to selection and clicks to activation
func (m Model) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.ShowHelp || m.Launching != "" {
		return m, nil
	}
	y := msg.Y - 1 // header line

	if m.Screen == ScreenGallery {
		i, ok := m.GalleryGrid.HitTest(msg.X, y)
		switch {
		case msg.Button == tea.MouseButtonWheelUp:
			return m, m.moveGallery(nav.Up)
		case msg.Button == tea.MouseButtonWheelDown:
			return m, m.moveGallery(nav.Down)
		case !ok:
			return m, nil
		case msg.Action == tea.MouseActionMotion:
			return m, m.selectGallery(i)
		case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
			m.selectGallery(i)
			if src, ok := m.Gallery.Selected(); ok {
				return m, m.openPlayer(src.Key)
			}
		}
		return m, nil
	}

	i, ok := m.ChannelList.HitTest(y, m.Player.State().Length)
	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		return m, m.movePlayer(nav.Up)
	case msg.Button == tea.MouseButtonWheelDown:
		return m, m.movePlayer(nav.Down)
	case !ok:
		return m, nil
	case msg.Action == tea.MouseActionMotion:
		return m, m.selectPlayer(i)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		return m, m.activate(i)
	}
	return m, nil
}

func (m *Model) moveGallery(dir nav.Direction) tea.Cmd {
	if !m.Gallery.Move(dir) {
		return nil
	}
	return m.requestScroll(ScreenGallery, m.Gallery.State().Selected)
}

func (m *Model) movePlayer(dir nav.Direction) tea.Cmd {
	if !m.Player.Move(dir) {
		return nil
	}
	return m.requestScroll(ScreenPlayer, m.Player.State().Selected)
}

// selectGallery and selectPlayer move the cursor to a pointed-at item
func (m *Model) selectGallery(i int) tea.Cmd {
	if m.Gallery.State().IsSelected(i) || !m.Gallery.Select(i) {
		return nil
	}
	return m.requestScroll(ScreenGallery, i)
}

func (m *Model) selectPlayer(i int) tea.Cmd {
	if m.Player.State().IsSelected(i) || !m.Player.Select(i) {
		return nil
	}
	return m.requestScroll(ScreenPlayer, i)
}

func (m *Model) jumpPlayer(delta int) tea.Cmd {
	if !m.Player.Jump(delta) {
		return nil
	}
	return m.requestScroll(ScreenPlayer, m.Player.State().Selected)
}

// openPlayer switches to the player screen and starts loading key.
// An empty key opens the default source.
func (m *Model) openPlayer(key string) tea.Cmd {
	if strings.TrimSpace(key) == "" {
		key = m.opts.DefaultSource
	}

	m.Screen = ScreenPlayer
	m.Mode = ViewNormal
	m.ChannelList.ClearFilter()
	m.channels = nil
	m.normalNotice = ""

	src, err := m.PlaylistSvc.Resolve(key)
	if err != nil {
		m.hasSource = false
		m.loadSeq++ // drop anything in flight
		m.Loading = false
		m.source = domain.Source{Key: domain.NormalizeSourceKey(key), Name: key}
		m.normalNotice = err.Error()
		m.updateTitle()
		return m.applyCollection()
	}

	m.source = src
	m.hasSource = true
	m.updateTitle()
	return tea.Batch(m.applyCollection(), m.loadSource())
}

// loadSource requests the current source with a fresh token
func (m *Model) loadSource() tea.Cmd {
	if !m.hasSource {
		return nil
	}
	m.loadSeq++
	m.Loading = true
	return LoadPlaylistCmd(m.PlaylistSvc, m.source, m.loadSeq, m.opts.FetchTimeout)
}

func (m Model) handlePlaylistLoaded(msg PlaylistLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Seq != m.loadSeq || m.Screen != ScreenPlayer || m.Mode == ViewFavorites {
		m.logger.Debug("discarding stale playlist", "source", msg.Source.Key, "seq", msg.Seq, "current", m.loadSeq)
		return m, nil
	}
	m.Loading = false

	if msg.Err != nil {
		m.channels = nil
		m.normalNotice = fmt.Sprintf("Could not load %s: %v", msg.Source.Name, msg.Err)
		return m, m.applyCollection()
	}

	m.channels = msg.Channels
	m.normalNotice = ""
	cmd := m.applyCollection()

	m.setStatus(fmt.Sprintf("%s · %d channels", msg.Source.Name, len(msg.Channels)), false)
	return m, tea.Batch(cmd, StatusClearCmd(m.statusSeq, m.opts.WelcomeDelay))
}

// baseChannels is the unfiltered collection of the current view mode
func (m *Model) baseChannels() []domain.Channel {
	if m.Mode == ViewFavorites {
		return m.FavoritesSvc.Channels()
	}
	return m.channels
}

// applyCollection rebuilds the player's collection from the view mode and
// filter, then re-centers the viewport on the (reset) selection
func (m *Model) applyCollection() tea.Cmd {
	base := m.baseChannels()

	switch {
	case m.Mode == ViewFavorites && len(base) == 0:
		m.ChannelList.SetNotice(FavoritesEmptyHelp)
	case m.Mode == ViewFavorites:
		m.ChannelList.SetNotice("")
	default:
		m.ChannelList.SetNotice(m.normalNotice)
	}

	m.matches = search.FilterChannels(m.ChannelList.FilterQuery(), base)
	m.Player.Replace(search.Select(base, m.matches))
	m.ChannelList.SetTotal(len(base))

	m.playerScroll.Reset()
	return m.requestScroll(ScreenPlayer, m.Player.State().Selected)
}

// activate plays the channel at i, or asks for fullscreen when it is already
// playing. Nothing is activated while a player is still starting.
func (m *Model) activate(i int) tea.Cmd {
	if m.Launching != "" {
		return nil
	}
	act, ok := m.Player.Activate(i)
	if !ok {
		return nil
	}
	scroll := m.requestScroll(ScreenPlayer, i)

	switch act.Action {
	case nav.ActionFullscreen:
		return tea.Batch(scroll, FullscreenCmd(m.PlaybackSvc))
	case nav.ActionPlay:
		m.Launching = act.Channel.Name
		m.playSeq++
		return tea.Batch(scroll, PlayCmd(m.PlaybackSvc, act.Channel, m.playSeq))
	}
	return scroll
}

// toggleFavorite flips the selected channel's membership. The favorites
// view is rebuilt; the normal view only re-derives its markers.
func (m *Model) toggleFavorite() tea.Cmd {
	ch, ok := m.Player.Selected()
	if !ok {
		return nil
	}

	added, err := m.FavoritesSvc.Toggle(ch)
	if err != nil {
		m.setStatus(ErrMsg{Err: err, Context: "saving favorites"}.Error(), true)
		return nil
	}
	m.favorites = m.FavoritesSvc.Keys()

	if added {
		m.setStatus("Added "+ch.Name+" to favorites", false)
	} else {
		m.setStatus("Removed "+ch.Name+" from favorites", false)
	}

	if m.Mode == ViewFavorites {
		return m.applyCollection()
	}
	return nil
}

// toggleViewMode switches between the playlist and the favorites set.
// Returning to the playlist fetches it again.
func (m *Model) toggleViewMode() tea.Cmd {
	m.ChannelList.ClearFilter()

	if m.Mode == ViewNormal {
		m.Mode = ViewFavorites
		m.Loading = false
		m.updateTitle()
		return m.applyCollection()
	}

	m.Mode = ViewNormal
	m.updateTitle()
	return tea.Batch(m.applyCollection(), m.loadSource())
}

func (m *Model) backToGallery() tea.Cmd {
	m.Screen = ScreenGallery
	m.Mode = ViewNormal
	m.Loading = false
	m.loadSeq++ // results for the page we left are stale
	m.ChannelList.ClearFilter()

	m.galleryScroll.Reset()
	return m.requestScroll(ScreenGallery, m.Gallery.State().Selected)
}

func (m *Model) updateTitle() {
	title := m.source.Name
	if m.Mode == ViewFavorites {
		title = "★ Favorites"
	}
	m.ChannelList.SetTitle(title)
}

func (m *Model) scrollSync(screen Screen) *nav.ScrollSync {
	if screen == ScreenGallery {
		return m.galleryScroll
	}
	return m.playerScroll
}

// requestScroll applies a scroll now unless a cooldown is open, in which
// case the latest index is applied when it lapses
func (m *Model) requestScroll(screen Screen, index int) tea.Cmd {
	sync := m.scrollSync(screen)
	if !sync.Request(index) {
		return nil
	}
	m.scrollTo(screen, index)
	return ScrollSettleCmd(screen, sync.Generation(), m.opts.ScrollCooldown)
}

func (m *Model) settleScroll(msg ScrollSettleMsg) tea.Cmd {
	sync := m.scrollSync(msg.Screen)
	index, apply := sync.Settle(msg.Gen)
	if !apply {
		return nil
	}
	m.scrollTo(msg.Screen, index)
	return ScrollSettleCmd(msg.Screen, sync.Generation(), m.opts.ScrollCooldown)
}

func (m *Model) scrollTo(screen Screen, index int) {
	if screen == ScreenGallery {
		m.GalleryGrid.ScrollTo(index)
		return
	}
	m.ChannelList.ScrollTo(index, m.Player.State().Length)
}

func (m *Model) setStatus(msg string, isErr bool) {
	m.statusSeq++
	m.StatusMsg = msg
	m.StatusIsErr = isErr
}

func (m *Model) updateLayout() {
	contentHeight := m.Height - ChromeHeight
	m.GalleryGrid.SetSize(m.Width, contentHeight)
	m.ChannelList.SetSize(m.Width, contentHeight)

	m.GalleryGrid.ScrollTo(m.galleryScroll.Applied())
	m.ChannelList.ScrollTo(m.playerScroll.Applied(), m.Player.State().Length)
}
