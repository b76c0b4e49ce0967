package main

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/fulldump/gridview/dataset"
	"github.com/fulldump/gridview/grid"
)

// styles
var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("8"))
	cursorStyle = lipgloss.NewStyle().Background(lipgloss.Color("4")).Foreground(lipgloss.Color("15"))
	selectStyle = lipgloss.NewStyle().Background(lipgloss.Color("5")).Foreground(lipgloss.Color("15"))
	groupStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

const defaultColWidth = 14

type mode int

const (
	modeNormal mode = iota
	modeEdit
	modeSearch
)

type keyMap struct {
	Quit      key.Binding
	Edit      key.Binding
	Search    key.Binding
	Sort      key.Binding
	Group     key.Binding
	Select    key.Binding
	SelectAll key.Binding
	ClearSel  key.Binding
	Delete    key.Binding
	Copy      key.Binding
	Undo      key.Binding
	Export    key.Binding
}

var keys = keyMap{
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c")),
	Edit:      key.NewBinding(key.WithKeys("enter")),
	Search:    key.NewBinding(key.WithKeys("/")),
	Sort:      key.NewBinding(key.WithKeys("s")),
	Group:     key.NewBinding(key.WithKeys("g")),
	Select:    key.NewBinding(key.WithKeys("x")),
	SelectAll: key.NewBinding(key.WithKeys("a")),
	ClearSel:  key.NewBinding(key.WithKeys("A")),
	Delete:    key.NewBinding(key.WithKeys("d")),
	Copy:      key.NewBinding(key.WithKeys("y")),
	Undo:      key.NewBinding(key.WithKeys("u")),
	Export:    key.NewBinding(key.WithKeys("e")),
}

// notifier collects engine notifications for the status line.
type notifier struct {
	mu      sync.Mutex
	level   string
	message string
}

func (n *notifier) Notify(level, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.level = level
	n.message = message
}

func (n *notifier) Last() (string, string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.level, n.message
}

type model struct {
	g       *grid.Grid
	name    string
	notes   *notifier
	width   int
	height  int
	scrollY int
	mode    mode
	input   textinput.Model
	status  string
	err     error
}

func initialModel(d *dataset.Dataset) model {
	notes := &notifier{}

	g := grid.New(d.Columns, grid.Callbacks{
		OnUpdate: func(row grid.Row, column string, value any) error {
			return nil // in-memory only, a real host persists here
		},
		OnCreate: func(row grid.Row) error {
			return nil
		},
		OnBatchDelete: func(rows []grid.Row) error {
			return nil
		},
		Notify: notes.Notify,
	}, grid.Options{
		Mode:      grid.InfiniteMode,
		PageSize:  100,
		RowHeight: 1,
		Overscan:  2,
		ArmDelay:  300 * time.Millisecond,
	})

	m := model{
		g:     g,
		name:  d.Name,
		notes: notes,
		input: textinput.New(),
	}
	m.err = g.SetRows(d.Rows)
	return m
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		switch m.mode {
		case modeEdit:
			return m.updateEdit(msg)
		case modeSearch:
			return m.updateSearch(msg)
		}
		return m.updateNormal(msg)
	}
	return m, nil
}

func (m model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	nav := m.g.Nav()

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Edit):
		action := nav.Handle(grid.KeyEnter, false)
		if action.Kind == grid.ActionOpenEdit {
			m.g.StartEdit(action.Row, action.Column)
			session := m.g.Editor().Session()
			if session != nil {
				m.mode = modeEdit
				m.input.SetValue(session.Value)
				m.input.Focus()
			}
		}
		return m, nil

	case key.Matches(msg, keys.Search):
		m.mode = modeSearch
		m.input.SetValue(m.g.Filter().Search())
		m.input.Focus()
		return m, nil

	case key.Matches(msg, keys.Sort):
		_, column := nav.Focus()
		m.err = m.g.ToggleSort(column)
		return m, nil

	case key.Matches(msg, keys.Group):
		_, column := nav.Focus()
		if g := m.g.Grouping(); g != nil && g.Column() == column {
			m.err = m.g.ClearGrouping()
		} else {
			m.err = m.g.GroupBy(column)
		}
		return m, nil

	case key.Matches(msg, keys.Select):
		row, _ := nav.Focus()
		m.g.SelectRow(row, !m.g.Selection().Contains(row), false)
		return m, nil

	case key.Matches(msg, keys.SelectAll):
		m.g.SelectAll(true)
		return m, nil

	case key.Matches(msg, keys.ClearSel):
		m.g.SelectAll(false)
		return m, nil

	case key.Matches(msg, keys.Delete):
		m.g.DeleteSelected()
		return m, nil

	case key.Matches(msg, keys.Copy):
		row, column := nav.Focus()
		rows := m.g.Rows()
		if row >= 0 && row < len(rows) {
			return m, copyCell(grid.CellString(rows[row].Cell(column)))
		}
		return m, nil

	case key.Matches(msg, keys.Undo):
		m.g.UndoLast()
		return m, nil

	case key.Matches(msg, keys.Export):
		m.status = m.exportCSV()
		return m, nil
	}

	switch msg.String() {
	case "up", "k":
		nav.Handle(grid.KeyUp, false)
	case "down", "j":
		nav.Handle(grid.KeyDown, false)
		m.maybeExtend()
	case "left", "h":
		nav.Handle(grid.KeyLeft, false)
	case "right", "l":
		nav.Handle(grid.KeyRight, false)
	}
	return m, nil
}

// maybeExtend grows the infinite-scroll window as the cursor nears the
// bottom.
func (m *model) maybeExtend() {
	row, _ := m.g.Nav().Focus()
	if row >= m.g.Pager().VisibleCount()-5 {
		m.g.Extend()
		m.g.Nav().Resize(m.g.Columns(), m.g.Total())
	}
}

func (m model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.g.CommitEdit(m.input.Value())
		m.mode = modeNormal
		m.input.Blur()
		return m, nil
	case "esc":
		m.g.Editor().Cancel()
		m.mode = modeNormal
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.err = m.g.SetSearch(m.input.Value())
		m.mode = modeNormal
		m.input.Blur()
		m.scrollY = 0
		return m, nil
	case "esc":
		m.mode = modeNormal
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) exportCSV() string {
	filename := grid.Filename(m.name, grid.FormatCSV)
	f, err := os.Create(filename)
	if err != nil {
		return "export failed: " + err.Error()
	}
	defer f.Close()

	err = m.g.ExportTo(f, grid.FormatCSV, nil)
	if err != nil {
		return "export failed: " + err.Error()
	}
	return "exported " + filename
}

type copiedMsg struct{ err error }

// copyCell writes the cell to the system clipboard, falling back to an OSC52
// escape when no native clipboard is available.
func copyCell(value string) tea.Cmd {
	return func() tea.Msg {
		err := clipboard.WriteAll(value)
		if err != nil {
			fmt.Printf("\x1b]52;c;%s\x07", base64.StdEncoding.EncodeToString([]byte(value)))
		}
		return copiedMsg{err: err}
	}
}

func (m model) View() string {
	if m.width == 0 {
		return "loading..."
	}

	b := strings.Builder{}
	b.WriteString(titleStyle.Render(" gridview: " + m.name))
	b.WriteString(dimStyle.Render(fmt.Sprintf("  %d rows", m.g.Total())))
	b.WriteString("\n")

	columns := m.g.Columns()
	b.WriteString(headerStyle.Render(renderHeader(columns, m.g)))
	b.WriteString("\n")

	visible := m.height - 5
	if visible < 1 {
		visible = 1
	}

	entries := m.g.Flattened()
	scrollY := m.clampScroll(len(entries), visible)
	window := m.g.VirtualWindow(scrollY, visible)

	focusRow, focusCol := m.g.Nav().Focus()
	selection := m.g.Selection()

	for _, vr := range window.Rows {
		// below the virtualization threshold every row comes back mounted
		if !window.Virtual && (vr.Offset < scrollY || vr.Offset >= scrollY+visible) {
			continue
		}
		entry := entries[vr.Index]
		if entry.Header {
			marker := "▾"
			if !entry.Group.Expanded {
				marker = "▸"
			}
			b.WriteString(groupStyle.Render(fmt.Sprintf(" %s %s (%d)", marker, entry.Group.Value, len(entry.Group.Rows))))
			b.WriteString("\n")
			continue
		}

		line := renderRow(entry.Row, columns, entry.Index, focusRow, focusCol, m.mode == modeEdit, m.input.Value())
		switch {
		case selection.Contains(entry.Index):
			b.WriteString(selectStyle.Render(line))
		default:
			b.WriteString(line)
		}
		b.WriteString("\n")
	}

	b.WriteString(m.statusLine())
	return b.String()
}

// clampScroll keeps the focused row inside the visible window.
func (m model) clampScroll(total, visible int) int {
	focusRow, _ := m.g.Nav().Focus()
	scrollY := m.scrollY
	if focusRow < scrollY {
		scrollY = focusRow
	}
	if focusRow >= scrollY+visible {
		scrollY = focusRow - visible + 1
	}
	if scrollY > total-1 {
		scrollY = total - 1
	}
	if scrollY < 0 {
		scrollY = 0
	}
	return scrollY
}

func renderHeader(columns []grid.Column, g *grid.Grid) string {
	b := strings.Builder{}
	b.WriteString("   ")
	for _, col := range columns {
		label := col.Label
		for _, k := range g.Sort().Keys() {
			if k.Column == col.Key {
				if k.Direction == grid.Ascending {
					label += " ↑"
				} else {
					label += " ↓"
				}
			}
		}
		b.WriteString(pad(label, colWidth(col)))
		b.WriteString(" ")
	}
	return b.String()
}

func renderRow(row grid.Row, columns []grid.Column, index, focusRow int, focusCol string, editing bool, editValue string) string {
	b := strings.Builder{}
	b.WriteString("   ")
	for _, col := range columns {
		cell := grid.CellString(row.Cell(col.Key))
		if editing && index == focusRow && col.Key == focusCol {
			cell = editValue + "▎"
		}
		rendered := pad(cell, colWidth(col))
		if index == focusRow && col.Key == focusCol {
			rendered = cursorStyle.Render(rendered)
		}
		b.WriteString(rendered)
		b.WriteString(" ")
	}
	return b.String()
}

func colWidth(col grid.Column) int {
	if col.Width > 0 {
		return col.Width
	}
	return defaultColWidth
}

func pad(s string, width int) string {
	s = runewidth.Truncate(s, width, "…")
	return s + strings.Repeat(" ", width-runewidth.StringWidth(s))
}

func (m model) statusLine() string {
	if m.mode == modeSearch {
		return statusStyle.Render(" search: " + m.input.View())
	}
	if m.err != nil {
		return errorStyle.Render(" error: " + m.err.Error())
	}
	if level, message := m.notes.Last(); message != "" {
		if level == grid.NotifyError {
			return errorStyle.Render(" " + message)
		}
		return statusStyle.Render(" " + message)
	}
	if m.status != "" {
		return statusStyle.Render(" " + m.status)
	}
	return dimStyle.Render(" j/k move  enter edit  / search  s sort  g group  x select  y copy  u undo  e export  q quit")
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: gridtui <dataset.json>")
		os.Exit(1)
	}

	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Println("ERROR:", err.Error())
		os.Exit(1)
	}

	d := &dataset.Dataset{}
	err = json.Unmarshal(data, d)
	if err != nil {
		fmt.Println("ERROR:", err.Error())
		os.Exit(1)
	}
	if d.Name == "" {
		d.Name = strings.TrimSuffix(os.Args[1], ".json")
	}

	p := tea.NewProgram(initialModel(d), tea.WithAltScreen())
	_, err = p.Run()
	if err != nil {
		fmt.Println("ERROR:", err.Error())
		os.Exit(1)
	}
}
