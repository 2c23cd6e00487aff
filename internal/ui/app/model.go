package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	exportdto "mdnotes/internal/modules/export/dto"
	libdto "mdnotes/internal/modules/library/dto"
	plugindto "mdnotes/internal/modules/plugin/dto"
	"mdnotes/internal/platform/config"
	"mdnotes/internal/ui/components"
	"mdnotes/internal/ui/theme"
	itemsview "mdnotes/internal/ui/views/items"
	pluginsview "mdnotes/internal/ui/views/plugins"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type libraryPort interface {
	ListItems(ctx context.Context, keys, tags []string, collection string) ([]libdto.ItemOutput, error)
}

type exportPort interface {
	Export(ctx context.Context, mode string, keys, tags []string, collection string, cfg config.Export, outputDir string) (exportdto.ExportOutput, error)
	Render(ctx context.Context, mode, key string, cfg config.Export) ([]exportdto.RenderedFile, error)
}

type pluginPort interface {
	List(ctx context.Context) ([]plugindto.PluginInfo, error)
	Doctor(ctx context.Context) ([]plugindto.DoctorResult, error)
}

// Options carries the resolved export settings into the picker.
type Options struct {
	Export     config.Export
	OutputDir  string
	Tags       []string
	Collection string
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabItems tabID = iota
	tabPlugins
	tabCount
)

var tabLabels = [tabCount]string{"Items", "Plugins"}

// ─── async messages ───────────────────────────────────────────────────────────

type exportDoneMsg struct {
	mode string
	out  exportdto.ExportOutput
	err  error
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Toggle  key.Binding
	Export  key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Toggle:  key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle item")),
		Export:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "export selection")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "command")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Toggle, k.Export, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Toggle, k.Export},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It routes tabs, owns the command
// palette and runs exports for the picked items.
type Model struct {
	opts   Options
	export exportPort

	itemsView  itemsview.Model
	pluginView pluginsview.Model

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	exporting bool
	status    string
	width     int
	height    int
}

func NewModel(opts Options, library libraryPort, export exportPort, plugin pluginPort) Model {
	bridge := itemsPortBridge{library: library, export: export, cfg: opts.Export}
	return Model{
		opts:       opts,
		export:     export,
		itemsView:  itemsview.New(bridge, itemsview.Filter{Tags: opts.Tags, Collection: opts.Collection}),
		pluginView: pluginsview.New(plugin),
		activeTab:  tabItems,
		keys:       defaultKeys(),
		help:       help.New(),
		palette:    components.NewPalette(),
		status:     "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.itemsView.Init(), m.pluginView.Init())
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case exportDoneMsg:
		m.exporting = false
		m.status = exportStatus(msg)
		return m, nil

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	case itemsview.ItemsLoadedMsg, itemsview.PreviewLoadedMsg, spinner.TickMsg:
		var cmd tea.Cmd
		m.itemsView, cmd = m.itemsView.Update(msg)
		return m, cmd

	case pluginsview.PluginsLoadedMsg, pluginsview.DoctorDoneMsg:
		var cmd tea.Cmd
		m.pluginView, cmd = m.pluginView.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}
		if m.subViewFiltering() {
			break
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
			return m, nil
		case "?":
			m.showHelp = true
			return m, nil
		case ":":
			return m, m.palette.Open()
		case "enter":
			if m.activeTab == tabItems {
				return m.startExport("batch")
			}
		}
	}

	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabItems:
		m.itemsView, tabCmd = m.itemsView.Update(msg)
	case tabPlugins:
		m.pluginView, tabCmd = m.pluginView.Update(msg)
	}
	cmds = append(cmds, tabCmd)
	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	contentH := max(m.height-lipgloss.Height(tabBar)-lipgloss.Height(statusBar), 1)

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center, m.palette.View())
	case m.activeTab == tabPlugins:
		content = m.pluginView.View()
	default:
		content = m.itemsView.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		if i == m.activeTab {
			parts[i] = theme.TabActive.Render(tabLabels[i])
		} else {
			parts[i] = theme.TabInactive.Render(tabLabels[i])
		}
	}
	bar := theme.Title.Render("mdnotes ") + strings.Join(parts, "")
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if m.exporting {
		left = theme.Hot.Render("exporting… ") + left
	}
	right := theme.Muted.Render("?:help  space:pick  enter:export  :cmd  q:quit")
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	return "\n" + theme.StatusBar.Width(m.width).Render(left+strings.Repeat(" ", gap)+right)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	switch input {
	case "":
		return m, nil
	case "export":
		return m.startExport("batch")
	case "export:item":
		return m.startExport("item")
	case "export:notes":
		return m.startExport("notes")
	case "export:companion":
		return m.startExport("companion")
	case "select:all":
		m.itemsView.SelectAll(true)
		m.status = "all items selected"
	case "select:none":
		m.itemsView.SelectAll(false)
		m.status = "selection cleared"
	case "reload":
		m.status = "reloading items"
		return m, m.itemsView.Reload()
	default:
		m.status = "unknown command: " + input
	}
	return m, nil
}

func (m Model) startExport(mode string) (tea.Model, tea.Cmd) {
	if m.exporting {
		return m, nil
	}
	keys := m.itemsView.Selected()
	if len(keys) == 0 {
		m.status = "no item selected"
		return m, nil
	}
	m.exporting = true
	m.status = fmt.Sprintf("%s export of %d item(s)", mode, len(keys))
	return m, func() tea.Msg {
		out, err := m.export.Export(context.Background(), mode, keys, nil, "", m.opts.Export, m.opts.OutputDir)
		return exportDoneMsg{mode: mode, out: out, err: err}
	}
}

func exportStatus(msg exportDoneMsg) string {
	if msg.err != nil {
		return theme.Error.Render("export failed: " + msg.err.Error())
	}
	text := fmt.Sprintf("%s export: %d file(s) written", msg.mode, msg.out.Written)
	if msg.out.Failed > 0 {
		return theme.Error.Render(fmt.Sprintf("%s, %d item(s) failed", text, msg.out.Failed))
	}
	return theme.Ok.Render(text)
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m Model) subViewFiltering() bool {
	switch m.activeTab {
	case tabItems:
		return m.itemsView.Filtering()
	case tabPlugins:
		return m.pluginView.Filtering()
	}
	return false
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.itemsView, _ = m.itemsView.Update(sz)
	m.pluginView, _ = m.pluginView.Update(sz)
}

// ─── port bridges ─────────────────────────────────────────────────────────────

// itemsPortBridge serves the picker: item listing from the library and the
// preview from an in-memory export render.
type itemsPortBridge struct {
	library libraryPort
	export  exportPort
	cfg     config.Export
}

func (b itemsPortBridge) ListItems(ctx context.Context, keys, tags []string, collection string) ([]libdto.ItemOutput, error) {
	return b.library.ListItems(ctx, keys, tags, collection)
}

func (b itemsPortBridge) Preview(ctx context.Context, key string) (string, error) {
	files, err := b.export.Render(ctx, "", key, b.cfg)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for i, f := range files {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(theme.Hot.Render("── "+f.Name+".md ──") + "\n\n")
		sb.WriteString(f.Contents)
	}
	return sb.String(), nil
}
