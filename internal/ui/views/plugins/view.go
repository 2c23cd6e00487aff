package plugins

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	plugindto "mdnotes/internal/modules/plugin/dto"
	"mdnotes/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

// Port is the minimal interface this view needs from the plugin use-case.
type Port interface {
	List(ctx context.Context) ([]plugindto.PluginInfo, error)
	Doctor(ctx context.Context) ([]plugindto.DoctorResult, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type PluginsLoadedMsg struct {
	Plugins []plugindto.PluginInfo
	Err     error
}

type DoctorDoneMsg struct {
	Results []plugindto.DoctorResult
	Err     error
}

// ─── list item ───────────────────────────────────────────────────────────────

type pluginItem struct{ info plugindto.PluginInfo }

func (i pluginItem) Title() string { return i.info.Name + "@" + i.info.Version }

func (i pluginItem) Description() string {
	state := "disabled"
	if i.info.Enabled {
		state = "enabled"
	}
	return state + "  " + strings.Join(i.info.Capabilities, ",")
}

func (i pluginItem) FilterValue() string { return i.info.Name }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port    Port
	list    list.Model
	report  viewport.Model
	doctor  map[string]plugindto.DoctorResult
	running bool
	width   int
	height  int
}

func New(port Port) Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Citation key plugins"
	l.Styles.Title = theme.Title
	l.SetShowHelp(false)

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().Background(theme.Mantle).Foreground(theme.Text).Padding(0, 1)
	return Model{port: port, list: l, report: vp, doctor: map[string]plugindto.DoctorResult{}}
}

func (m Model) Init() tea.Cmd {
	if m.port == nil {
		return nil
	}
	return func() tea.Msg {
		plugins, err := m.port.List(context.Background())
		return PluginsLoadedMsg{Plugins: plugins, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(m.width/2, m.height)
		m.report.Width = m.width - m.width/2 - 4
		m.report.Height = m.height - 4

	case PluginsLoadedMsg:
		if msg.Err != nil {
			m.list.Title = "Plugins: " + msg.Err.Error()
			return m, nil
		}
		items := make([]list.Item, len(msg.Plugins))
		for i, p := range msg.Plugins {
			items[i] = pluginItem{info: p}
		}
		cmd := m.list.SetItems(items)
		m.report.SetContent(m.renderReport())
		return m, cmd

	case DoctorDoneMsg:
		m.running = false
		if msg.Err != nil {
			m.report.SetContent(theme.Error.Render(msg.Err.Error()))
			return m, nil
		}
		for _, r := range msg.Results {
			m.doctor[r.Name] = r
		}
		m.report.SetContent(m.renderReport())
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "d" && !m.Filtering() && !m.running && m.port != nil {
			m.running = true
			m.report.SetContent(theme.Muted.Render("running doctor…"))
			return m, m.doctorCmd()
		}
	}

	var cmd tea.Cmd
	prev := m.list.Index()
	m.list, cmd = m.list.Update(msg)
	if m.list.Index() != prev {
		m.report.SetContent(m.renderReport())
	}
	return m, cmd
}

func (m Model) View() string {
	left := lipgloss.NewStyle().Width(m.width / 2).Height(m.height).Render(m.list.View())
	right := theme.Preview.Width(m.width - m.width/2 - 2).Height(m.height - 2).Render(m.report.View())
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) renderReport() string {
	item, ok := m.list.SelectedItem().(pluginItem)
	if !ok {
		return theme.Muted.Render("no plugins configured")
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(item.info.Name) + "\n\n")
	sb.WriteString(theme.Muted.Render("binary: ") + item.info.Binary + "\n")
	r, checked := m.doctor[item.info.Name]
	if !checked {
		sb.WriteString("\n" + theme.Muted.Render("d: run doctor"))
		return sb.String()
	}
	sb.WriteString(fmt.Sprintf("%s%s\n", theme.Muted.Render("checksum:  "), verdict(r.ChecksumValid)))
	sb.WriteString(fmt.Sprintf("%s%s\n", theme.Muted.Render("binary:    "), verdict(r.BinaryReachable)))
	sb.WriteString(fmt.Sprintf("%s%s\n", theme.Muted.Render("lifecycle: "), verdict(r.LifecycleOK)))
	if r.Error != "" {
		sb.WriteString("\n" + theme.Error.Render(r.Error) + "\n")
	}
	return sb.String()
}

func verdict(ok bool) string {
	if ok {
		return theme.Ok.Render("ok")
	}
	return theme.Error.Render("fail")
}

func (m Model) doctorCmd() tea.Cmd {
	return func() tea.Msg {
		results, err := m.port.Doctor(context.Background())
		return DoctorDoneMsg{Results: results, Err: err}
	}
}
