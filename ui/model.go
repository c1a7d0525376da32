package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/qyinm/storesearch/search"
	"github.com/qyinm/storesearch/types"
)

const (
	defaultWidth   = 80
	maxListRows    = 10
	defaultDetails = 6
	// scroll hint, blank separator, panel title, help
	chromeLines = 4
)

// Options configures the widget
type Options struct {
	Mode           types.Mode
	SelectMode     types.SelectMode
	Debounce       time.Duration
	ResultLimit    int
	RequestTimeout time.Duration
	Logger         *zap.Logger
}

// Model is the main TUI model
type Model struct {
	source  types.ProductSource
	opts    Options
	state   *search.State
	input   textinput.Model
	spinner spinner.Model
	details viewport.Model
	help    help.Model
	keys    keyMap
	log     *zap.Logger

	// first candidate shown and how many fit
	offset int
	rows   int
	width  int
	height int

	ctx    context.Context
	cancel context.CancelFunc
	closed bool
}

// NewModel creates a new Model reading from source
func NewModel(source types.ProductSource, opts Options) Model {
	if opts.Debounce <= 0 {
		opts.Debounce = 300 * time.Millisecond
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 10 * time.Second
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	ti := textinput.New()
	ti.Placeholder = "Search products..."
	ti.Prompt = PromptStyle.Render("> ")
	ti.CharLimit = 128
	ti.Width = defaultWidth - 4
	ti.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = LoadingStyle

	vp := viewport.New(defaultWidth, defaultDetails)

	ctx, cancel := context.WithCancel(context.Background())

	m := Model{
		source:  source,
		opts:    opts,
		state:   search.New(opts.Mode, opts.SelectMode),
		input:   ti,
		spinner: s,
		details: vp,
		help:    help.New(),
		keys:    keys,
		log:     log.Named("ui"),
		rows:    maxListRows,
		width:   defaultWidth,
		ctx:     ctx,
		cancel:  cancel,
	}
	m.refreshDetails()
	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.closed {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case debounceMsg:
		return m.handleDebounce(msg)

	case productsMsg:
		return m.handleProducts(msg)

	case spinner.TickMsg:
		if m.state.Status() != types.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizePanes()
		return m, nil
	}

	// cursor blink and friends
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m.quit()
	}
	if k, ok := m.keys.navKey(msg); ok {
		m.apply(m.state.Press(k))
		return m, nil
	}
	if key.Matches(msg, m.keys.DetailsUp, m.keys.DetailsDown) {
		var cmd tea.Cmd
		m.details, cmd = m.details.Update(msg)
		return m, cmd
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if value := m.input.Value(); value != before {
		seq := m.state.SetInput(value)
		return m, tea.Batch(cmd, debounce(m.opts.Debounce, seq))
	}
	return m, cmd
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown:
		var cmd tea.Cmd
		m.details, cmd = m.details.Update(msg)
		return m, cmd
	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress {
			return m, nil
		}
	default:
		return m, nil
	}

	row := msg.Y - headerLines
	if row < 0 || row >= m.rows {
		return m, nil
	}
	candidates := m.state.Candidates()
	index := m.offset + row
	if index >= len(candidates) {
		return m, nil
	}
	m.apply(m.state.Click(candidates[index].ID()))
	return m, nil
}

func (m Model) handleDebounce(msg debounceMsg) (tea.Model, tea.Cmd) {
	before := m.state.Committed()
	wasLoading := m.state.Status() == types.Loading
	req, ok := m.state.Commit(msg.seq)
	if m.state.Committed() != before || ok {
		m.offset = 0
	}
	if !ok {
		// Back to loading on a request that is already in flight.
		if !wasLoading && m.state.Status() == types.Loading {
			return m, m.spinner.Tick
		}
		return m, nil
	}

	m.log.Debug("query committed",
		zap.String("query", req.Query),
		zap.Uint64("request_id", req.ID),
		zap.Bool("catalog", req.Catalog))
	return m, tea.Batch(
		fetchProducts(m.ctx, m.source, req, m.opts.ResultLimit, m.opts.RequestTimeout),
		m.spinner.Tick,
	)
}

func (m Model) handleProducts(msg productsMsg) (tea.Model, tea.Cmd) {
	applied := m.state.Resolve(search.Response{
		ID:       msg.requestID,
		Products: msg.products,
		Err:      msg.err,
	})
	if !applied {
		m.log.Debug("stale response discarded",
			zap.String("query", msg.query),
			zap.Uint64("request_id", msg.requestID))
		return m, nil
	}

	m.offset = 0
	if msg.err != nil {
		m.log.Warn("fetch failed",
			zap.String("query", msg.query),
			zap.Bool("catalog", msg.catalog),
			zap.Error(msg.err))
		return m, nil
	}
	m.log.Info("products loaded",
		zap.String("query", msg.query),
		zap.Bool("catalog", msg.catalog),
		zap.Int("count", len(msg.products)))
	return m, nil
}

// apply runs the side effects of a state change.
func (m *Model) apply(change search.Change) {
	if change.Has(search.ChangeHighlight) {
		m.offset = scrollIntoView(m.offset, m.rows, m.state.Highlight())
	}
	if change.Has(search.ChangeQuery) {
		m.input.SetValue(m.state.Raw())
		m.offset = 0
	}
	if change.Has(search.ChangeSelection) {
		m.refreshDetails()
		if p, ok := m.lastPicked(); ok {
			m.log.Info("product selected",
				zap.Int64("id", p.ID()),
				zap.String("title", p.Title()))
		}
	}
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.closed = true
	m.cancel()
	return m, tea.Quit
}

// picked lists what the details panel shows.
func (m Model) picked() []types.Product {
	if m.state.SelectMode() == types.SingleSelect {
		if p, ok := m.state.Current(); ok {
			return []types.Product{p}
		}
		return nil
	}
	return m.state.Selections()
}

func (m Model) lastPicked() (types.Product, bool) {
	picked := m.picked()
	if len(picked) == 0 {
		return types.Product{}, false
	}
	return picked[len(picked)-1], true
}

func (m *Model) refreshDetails() {
	m.details.SetContent(renderDetails(m.picked(), m.details.Width))
}

// Selections returns the confirmed products, or the current one in single
// select mode.
func (m Model) Selections() []types.Product {
	return m.picked()
}

// View renders the current view
func (m Model) View() string {
	if m.closed {
		return ""
	}

	panelTitle := "Selections"
	if m.state.SelectMode() == types.SingleSelect {
		panelTitle = "Selected"
	} else if n := len(m.state.Selections()); n > 0 {
		panelTitle = fmt.Sprintf("Selections (%d)", n)
	}

	return renderFrame(Frame{
		Input:      m.input.View(),
		Spinner:    m.spinner.View(),
		Status:     m.state.Status(),
		Committed:  m.state.Committed(),
		Candidates: m.state.Candidates(),
		Highlight:  m.state.Highlight(),
		Offset:     m.offset,
		Rows:       m.rows,
		Width:      m.width,
		Picked:     m.state.IsSelected,
		PanelTitle: panelTitle,
		Details:    m.details.View(),
		Help:       m.help.View(m.keys),
	})
}

// resizePanes splits the window between candidate rows and the details panel
func (m *Model) resizePanes() {
	available := m.height - headerLines - chromeLines
	if available < 2 {
		available = 2
	}

	m.rows = min(maxListRows, max(1, available*3/5))
	m.details.Width = m.width
	m.details.Height = max(1, available-m.rows)
	m.input.Width = max(1, m.width-4)
	m.help.Width = m.width

	if h := m.state.Highlight(); h >= 0 {
		m.offset = scrollIntoView(m.offset, m.rows, h)
	}
	m.refreshDetails()
}
