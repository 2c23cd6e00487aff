package items

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	libdto "mdnotes/internal/modules/library/dto"
	"mdnotes/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type Port interface {
	ListItems(ctx context.Context, keys, tags []string, collection string) ([]libdto.ItemOutput, error)
	Preview(ctx context.Context, key string) (string, error)
}

// Filter narrows the items offered by the picker.
type Filter struct {
	Tags       []string
	Collection string
}

// ─── messages ────────────────────────────────────────────────────────────────

type ItemsLoadedMsg struct {
	Items []libdto.ItemOutput
	Err   error
}

type PreviewLoadedMsg struct {
	Key     string
	Content string
	Err     error
}

// ─── list item ───────────────────────────────────────────────────────────────

type row struct {
	item     libdto.ItemOutput
	selected bool
}

func (r row) Title() string { return theme.Check(r.selected) + " " + r.item.Title }

func (r row) Description() string {
	parts := []string{r.item.CitationKey}
	if r.item.TypeLabel != "" {
		parts = append(parts, r.item.TypeLabel)
	}
	if r.item.Date != "" {
		parts = append(parts, r.item.Date)
	}
	return strings.Join(parts, "  ")
}

func (r row) FilterValue() string {
	return r.item.Title + " " + r.item.CitationKey + " " + strings.Join(r.item.Authors, " ")
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port     Port
	filter   Filter
	list     list.Model
	preview  viewport.Model
	spinner  spinner.Model
	selected map[string]bool
	shown    string
	loading  bool
	width    int
	height   int
}

func New(port Port, filter Filter) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Items"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().Background(theme.Mantle).Foreground(theme.Text).Padding(0, 1)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{
		port:     port,
		filter:   filter,
		list:     l,
		preview:  vp,
		spinner:  sp,
		selected: map[string]bool{},
		loading:  true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.Reload(), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case ItemsLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.list.Title = "Items: " + msg.Err.Error()
			return m, nil
		}
		m.list.Title = "Items"
		rows := make([]list.Item, len(msg.Items))
		for i, item := range msg.Items {
			rows[i] = row{item: item, selected: m.selected[item.Key]}
		}
		cmds = append(cmds, m.list.SetItems(rows))
		if len(msg.Items) > 0 {
			cmds = append(cmds, m.loadPreviewCmd(msg.Items[0].Key))
		}

	case PreviewLoadedMsg:
		if msg.Key != m.CurrentKey() {
			return m, nil
		}
		m.shown = msg.Key
		if msg.Err != nil {
			m.preview.SetContent(theme.Error.Render(msg.Err.Error()))
		} else {
			m.preview.SetContent(msg.Content)
		}
		m.preview.GotoTop()

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.KeyMsg:
		if !m.Filtering() && msg.String() == " " {
			m.toggleCurrent()
			return m, nil
		}
	}

	if !m.loading {
		var lCmd tea.Cmd
		m.list, lCmd = m.list.Update(msg)
		cmds = append(cmds, lCmd)
		if key := m.CurrentKey(); key != "" && key != m.shown {
			m.shown = key
			cmds = append(cmds, m.loadPreviewCmd(key))
		}

		var vCmd tea.Cmd
		m.preview, vCmd = m.preview.Update(msg)
		cmds = append(cmds, vCmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading items…")
	}
	listW := m.width * 4 / 10
	listPane := lipgloss.NewStyle().Width(listW).Height(m.height).Render(m.list.View())
	previewPane := theme.Preview.
		Width(m.width - listW - 2).
		Height(m.height - 2).
		Render(m.preview.View())
	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, previewPane)
}

// Reload fetches the item list again; selections survive by key.
func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		items, err := m.port.ListItems(context.Background(), nil, m.filter.Tags, m.filter.Collection)
		return ItemsLoadedMsg{Items: items, Err: err}
	}
}

// Selected returns the checked keys in list order, or the highlighted key
// when nothing is checked.
func (m Model) Selected() []string {
	keys := []string{}
	for _, it := range m.list.Items() {
		if r, ok := it.(row); ok && r.selected {
			keys = append(keys, r.item.Key)
		}
	}
	if len(keys) == 0 {
		if key := m.CurrentKey(); key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}

func (m Model) CurrentKey() string {
	if r, ok := m.list.SelectedItem().(row); ok {
		return r.item.Key
	}
	return ""
}

// SelectAll checks or clears every row.
func (m *Model) SelectAll(on bool) {
	for i, it := range m.list.Items() {
		r, ok := it.(row)
		if !ok {
			continue
		}
		r.selected = on
		m.selected[r.item.Key] = on
		m.list.SetItem(i, r)
	}
}

// Filtering reports whether the list's search filter is currently active.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) toggleCurrent() {
	r, ok := m.list.SelectedItem().(row)
	if !ok {
		return
	}
	r.selected = !r.selected
	m.selected[r.item.Key] = r.selected
	m.list.SetItem(m.list.GlobalIndex(), r)
}

func (m *Model) resize() {
	listW := m.width * 4 / 10
	m.list.SetSize(listW, m.height)
	m.preview.Width = m.width - listW - 4
	m.preview.Height = m.height - 4
}

func (m Model) loadPreviewCmd(key string) tea.Cmd {
	return func() tea.Msg {
		content, err := m.port.Preview(context.Background(), key)
		return PreviewLoadedMsg{Key: key, Content: content, Err: err}
	}
}
