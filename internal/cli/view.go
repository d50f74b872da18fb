package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/spf13/cobra"

	"github.com/graphgazer/graphgazer/pkg/cache"
	"github.com/graphgazer/graphgazer/pkg/graph"
	"github.com/graphgazer/graphgazer/pkg/layout"
	"github.com/graphgazer/graphgazer/pkg/oracle"
	"github.com/graphgazer/graphgazer/pkg/scene"
	"github.com/graphgazer/graphgazer/pkg/summary"
)

// viewCommand creates the view command for interactive graph exploration.
func (c *CLI) viewCommand() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "view [graph.json]",
		Short: "Explore a graph interactively in the terminal",
		Long: `Explore a graph interactively in the terminal.

Click nodes to inspect them, right-click for a context menu, search with /,
filter by cluster with c, and switch layouts with L. With an API key
configured, press a to ask the AI assistant about the visible region.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runView(cmd.Context(), args[0], noCache)
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runView loads the graph and starts the interactive viewer.
func (c *CLI) runView(ctx context.Context, input string, noCache bool) error {
	g, err := loadGraph(c.Logger, input)
	if err != nil {
		return err
	}

	m, err := c.newViewModel(ctx, g, noCache)
	if err != nil {
		return err
	}
	defer m.teardown()

	prog := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	if _, err := prog.Run(); err != nil {
		return fmt.Errorf("view: %w", err)
	}
	return nil
}

// =============================================================================
// Model
// =============================================================================

// inputMode selects what keystrokes mean.
type inputMode int

const (
	modeNormal inputMode = iota
	modeSearch
	modeAsk
)

// chromeRows is the number of terminal rows reserved for header and
// footer around the canvas.
const chromeRows = 6

// rendererHolder shares the live renderer across model copies.
type rendererHolder struct {
	current *termRenderer
}

// viewModel is the bubbletea model for the interactive viewer. All
// pointer fields are shared across model copies; mutation happens only
// inside Update, which bubbletea runs on a single goroutine.
type viewModel struct {
	ctx     context.Context
	sc      *scene.Scene
	panel   *oracle.Panel
	store   cache.Cache
	surface *termSurface
	holder  *rendererHolder

	clusters   []string
	clusterIdx int // index into clusters, -1 when filter is off

	mode       inputMode
	input      string
	status     string
	oracleOpen bool
	notify     chan struct{}
}

// newViewModel wires the scene, renderer factory, and oracle panel.
func (c *CLI) newViewModel(ctx context.Context, g *graph.Graph, noCache bool) (*viewModel, error) {
	surface := &termSurface{}
	holder := &rendererHolder{}
	factory := func(_ scene.Surface, settings scene.Settings) (scene.Renderer, error) {
		r := newTermRenderer(surface, settings)
		holder.current = r
		return r, nil
	}

	sc := scene.New(g, factory, scene.WithLogger(c.Logger))

	clusterCounts := g.Clusters()
	clusters := make([]string, 0, len(clusterCounts))
	for name := range clusterCounts {
		clusters = append(clusters, name)
	}
	sort.Strings(clusters)

	m := &viewModel{
		ctx:        ctx,
		sc:         sc,
		surface:    surface,
		holder:     holder,
		clusters:   clusters,
		clusterIdx: -1,
		notify:     make(chan struct{}, 1),
	}

	// The assistant is optional: without an API key the viewer runs
	// without it.
	cfg, err := oracleSettings()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.APIKey != "" {
		collab, err := oracle.NewOpenAI(cfg)
		if err != nil {
			return nil, err
		}
		store, err := newCache(noCache)
		if err != nil {
			return nil, fmt.Errorf("initialize cache: %w", err)
		}
		m.store = store
		m.panel = oracle.NewPanel(collab, sc,
			oracle.WithCache(store),
			oracle.WithPanelLogger(c.Logger),
			oracle.WithNotify(func() {
				select {
				case m.notify <- struct{}{}:
				default:
				}
			}),
		)
	}

	// Defers until the first window size arrives.
	if err := sc.Bind(ctx, surface); err != nil {
		return nil, err
	}

	return m, nil
}

// teardown releases the scene and the oracle panel.
func (m *viewModel) teardown() {
	m.sc.Dispose()
	if m.panel != nil {
		m.panel.Close()
	}
	if m.store != nil {
		m.store.Close()
	}
}

// =============================================================================
// Messages
// =============================================================================

type tickMsg time.Time

type oracleReadyMsg struct{}

// tick schedules an animation frame.
func tick() tea.Cmd {
	return tea.Tick(50*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitOracle blocks until the panel signals a settled request.
func (m *viewModel) waitOracle() tea.Cmd {
	return func() tea.Msg {
		<-m.notify
		return oracleReadyMsg{}
	}
}

// =============================================================================
// Update
// =============================================================================

func (m *viewModel) Init() tea.Cmd {
	return nil
}

func (m *viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.surface.resize(msg.Width, max(msg.Height-chromeRows, 1))
		var err error
		if m.sc.Bound() {
			err = m.sc.Bind(m.ctx, m.surface)
		} else {
			err = m.sc.RetryBind(m.ctx)
		}
		if err != nil {
			m.status = "renderer unavailable: " + err.Error()
		}
		m.sc.Draw(time.Now())
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		switch m.mode {
		case modeSearch, modeAsk:
			return m.handleInputKey(msg)
		default:
			return m.handleNormalKey(msg)
		}

	case tickMsg:
		m.sc.Draw(time.Time(msg))
		if m.sc.Animating() {
			return m, tick()
		}
		return m, nil

	case oracleReadyMsg:
		m.sc.Draw(time.Now())
		// The panel emits once for the user entry and once on
		// settlement; keep listening until the request settles.
		if m.panel != nil && m.panel.Busy() {
			return m, m.waitOracle()
		}
		return m, nil
	}
	return m, nil
}

// handleMouse forwards clicks to the renderer, which resolves them to
// nodes and calls back into the scene.
func (m *viewModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	r := m.holder.current
	if r == nil || msg.Action != tea.MouseActionPress {
		return m, nil
	}
	// The canvas starts below the single header row.
	x, y := msg.X, msg.Y-1
	switch msg.Button {
	case tea.MouseButtonLeft:
		r.Click(x, y)
	case tea.MouseButtonRight:
		r.RightClick(x, y)
	default:
		return m, nil
	}
	m.sc.Draw(time.Now())
	return m, nil
}

// handleNormalKey handles keys outside text entry.
func (m *viewModel) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	m.status = ""

	// An open context menu captures its keys first.
	if menu := m.sc.Menu(); menu != nil {
		switch key {
		case "f":
			m.sc.CloseMenu()
			m.sc.FocusNode(menu.NodeID)
			return m.redraw(tick())
		case "l":
			// Only offered for nodes that belong to a cluster.
			n := m.sc.RawGraph().Node(menu.NodeID)
			if n == nil || n.Cluster == "" {
				return m, nil
			}
			m.sc.CloseMenu()
			m.sc.FilterCluster(n.Cluster)
			m.syncClusterIdx(n.Cluster)
			return m.redraw(nil)
		case "esc", "q":
			m.sc.CloseMenu()
			return m.redraw(nil)
		}
		return m, nil
	}

	// Digits apply assistant suggestions while the assistant pane is open.
	if m.oracleOpen && m.panel != nil && len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
		actions := m.panel.Actions()
		if i := int(key[0] - '1'); i < len(actions) {
			m.panel.Apply(actions[i])
			return m.redraw(tick())
		}
		return m, nil
	}

	switch key {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "/":
		m.mode = modeSearch
		m.input = m.sc.State().Query
		return m, nil
	case "a":
		if m.panel == nil {
			m.status = "assistant not configured (set OPENAI_API_KEY)"
			return m, nil
		}
		m.mode = modeAsk
		m.input = ""
		m.oracleOpen = true
		return m, nil
	case "c":
		m.cycleCluster()
		return m.redraw(nil)
	case "r":
		m.clusterIdx = -1
		m.sc.ResetView()
		return m.redraw(tick())
	case "L":
		m.cycleLayout()
		return m.redraw(nil)
	case "e":
		path, err := m.sc.ExportFile(".")
		if err != nil {
			m.status = "export failed: " + err.Error()
		} else {
			m.status = "exported " + path
		}
		return m, nil
	case "o":
		m.oracleOpen = !m.oracleOpen
		return m, nil
	case "esc":
		if m.sc.PanelOpen() {
			m.sc.ClosePanel()
		} else if m.oracleOpen {
			m.oracleOpen = false
		}
		return m, nil
	}
	return m, nil
}

// handleInputKey handles text entry for search and ask modes.
func (m *viewModel) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		if m.mode == modeSearch {
			m.sc.SetSearch("")
		}
		m.mode = modeNormal
		m.input = ""
		return m.redraw(nil)

	case tea.KeyEnter:
		if m.mode == modeAsk {
			query := strings.TrimSpace(m.input)
			m.mode = modeNormal
			m.input = ""
			if query == "" {
				return m, nil
			}
			vp := m.sc.Viewport()
			ctxSummary := summary.Viewport(m.sc.RawGraph(), vp.VisibleNodeIDs)
			if err := m.panel.Ask(m.ctx, query, ctxSummary); err != nil {
				m.status = err.Error()
				return m, nil
			}
			return m, m.waitOracle()
		}
		m.mode = modeNormal
		return m.redraw(tick())

	case tea.KeyBackspace:
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
			if m.mode == modeSearch {
				m.sc.SetSearch(m.input)
			}
		}
		return m.redraw(nil)

	case tea.KeyRunes, tea.KeySpace:
		if msg.Type == tea.KeySpace {
			m.input += " "
		} else {
			m.input += string(msg.Runes)
		}
		if m.mode == modeSearch {
			m.sc.SetSearch(m.input)
			return m.redraw(tick())
		}
		return m, nil
	}
	return m, nil
}

// redraw draws the current state and forwards an optional follow-up command.
func (m *viewModel) redraw(cmd tea.Cmd) (tea.Model, tea.Cmd) {
	m.sc.Draw(time.Now())
	return m, cmd
}

// cycleCluster advances the cluster filter: off, then each cluster in
// alphabetical order, then off again.
func (m *viewModel) cycleCluster() {
	if len(m.clusters) == 0 {
		return
	}
	m.clusterIdx++
	if m.clusterIdx >= len(m.clusters) {
		m.clusterIdx = -1
		m.sc.ClearFilter()
		return
	}
	m.sc.FilterCluster(m.clusters[m.clusterIdx])
}

// syncClusterIdx aligns the cycle position with a filter applied through
// the context menu.
func (m *viewModel) syncClusterIdx(name string) {
	for i, c := range m.clusters {
		if c == name {
			m.clusterIdx = i
			return
		}
	}
	m.clusterIdx = -1
}

// layoutCycle is the order the L key steps through.
var layoutCycle = []layout.Mode{layout.ModeForceAtlas, layout.ModeCircle, layout.ModeGrid, layout.ModeRandom}

// cycleLayout switches to the next layout mode.
func (m *viewModel) cycleLayout() {
	current := m.sc.LayoutMode()
	next := layoutCycle[0]
	for i, mode := range layoutCycle {
		if mode == current {
			next = layoutCycle[(i+1)%len(layoutCycle)]
			break
		}
	}
	m.sc.SetLayoutMode(next)
	m.status = "layout: " + string(next)
}

// =============================================================================
// View
// =============================================================================

func (m *viewModel) View() string {
	var b strings.Builder

	b.WriteString(m.headerLine())
	b.WriteString("\n")

	if r := m.holder.current; r != nil {
		b.WriteString(r.View())
	}
	b.WriteString("\n")

	b.WriteString(m.detailLine())
	b.WriteString("\n")
	b.WriteString(m.oracleLines())
	b.WriteString(m.footerLine())

	return b.String()
}

// headerLine shows the title and the current overlay state.
func (m *viewModel) headerLine() string {
	g := m.sc.RawGraph()
	parts := []string{
		StyleTitle.Render("graphgazer"),
		StyleDim.Render(fmt.Sprintf("%d nodes · %d edges", g.NodeCount(), g.EdgeCount())),
	}
	state := m.sc.State()
	if state.ClusterActive {
		parts = append(parts, StyleHighlight.Render("cluster: "+state.Cluster))
	}
	if state.Query != "" {
		parts = append(parts, StyleHighlight.Render("search: "+state.Query))
	}
	if mode := m.sc.LayoutMode(); mode != "" {
		parts = append(parts, StyleDim.Render("layout: "+string(mode)))
	}
	return strings.Join(parts, "  ")
}

// detailLine shows the selected node when its panel is open, or an open
// context menu's choices.
func (m *viewModel) detailLine() string {
	if menu := m.sc.Menu(); menu != nil {
		n := m.sc.RawGraph().Node(menu.NodeID)
		label := "canvas"
		choices := "  [f] focus  [esc] close"
		if n != nil {
			label = n.DisplayLabel()
			if n.Cluster != "" {
				choices = "  [f] focus  [l] filter cluster  [esc] close"
			}
		}
		return StyleValue.Render(label) + StyleDim.Render(choices)
	}
	if m.sc.PanelOpen() && m.sc.Selected() != "" {
		n := m.sc.RawGraph().Node(m.sc.Selected())
		if n == nil {
			return ""
		}
		return StyleValue.Render(n.DisplayLabel()) +
			StyleDim.Render(fmt.Sprintf("  cluster: %s · degree: %d  [esc] close", n.ClusterName(), m.sc.RawGraph().Degree(n.ID)))
	}
	return ""
}

// oracleLines renders the assistant pane: the latest exchange and any
// suggested actions.
func (m *viewModel) oracleLines() string {
	if !m.oracleOpen || m.panel == nil {
		return "\n"
	}
	var b strings.Builder
	entries := m.panel.Transcript()
	if len(entries) > 0 {
		last := entries[len(entries)-1]
		prefix := "assistant"
		style := StyleValue
		switch last.Kind {
		case oracle.EntryUser:
			prefix = "you"
			style = StyleDim
		case oracle.EntryError:
			prefix = "error"
			style = StyleWarning
		}
		b.WriteString(StyleDim.Render(prefix+": ") + style.Render(last.Text))
	}
	if m.panel.Busy() {
		b.WriteString(StyleDim.Render(" …"))
	}
	for i, a := range m.panel.Actions() {
		b.WriteString("  " + StyleHighlight.Render(fmt.Sprintf("[%d] %s", i+1, a.Label)))
	}
	b.WriteString("\n")
	return b.String()
}

// footerLine shows the active input prompt or the key help.
func (m *viewModel) footerLine() string {
	switch m.mode {
	case modeSearch:
		return StyleHighlight.Render("/" + m.input + "▎")
	case modeAsk:
		return StyleHighlight.Render("ask: " + m.input + "▎")
	}
	if m.status != "" {
		return StyleDim.Render(m.status)
	}
	return StyleDim.Render("[/] search  [c] cluster  [L] layout  [a] ask  [r] reset  [e] export  [q] quit")
}
