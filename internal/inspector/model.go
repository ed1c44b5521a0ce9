package inspector

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"retenet/internal/env"
	"retenet/internal/template"
)

// page identifies one tab of the inspector.
type page int

const (
	pageOverview page = iota
	pageTemplates
	pageBuckets
	pageIntegrity
	pageCount
)

func (p page) title() string {
	switch p {
	case pageOverview:
		return "Overview"
	case pageTemplates:
		return "Templates (show-fpn)"
	case pageBuckets:
		return "Fact Hash Table (show-fht)"
	case pageIntegrity:
		return "Integrity (validate-fact-integrity)"
	default:
		return "?"
	}
}

// Model is the top-level bubbletea model for the diagnostic browser.
// It only reads from env.Environment — this tool never asserts,
// retracts, or modifies anything.
type Model struct {
	env      *env.Environment
	mod      *template.Module
	styles   Styles
	page     page
	viewport viewport.Model
	width    int
	height   int
}

// New builds an inspector Model over e, browsing mod's templates. The
// page content scrolls in a bubbles/viewport.Model, the same component
// the teacher's usage_page.go renders its stats tables into, since
// show-fpn/show-fht output can run well past one screen.
func New(e *env.Environment, mod *template.Module) Model {
	m := Model{env: e, mod: mod, styles: DefaultStyles(), viewport: viewport.New(80, 20)}
	m.refreshViewport()
	return m
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - 4
		m.refreshViewport()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyTab:
			m.page = (m.page + 1) % pageCount
			m.refreshViewport()
			return m, nil
		case tea.KeyShiftTab:
			m.page = (m.page - 1 + pageCount) % pageCount
			m.refreshViewport()
			return m, nil
		}
		if msg.String() == "q" {
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// refreshViewport re-renders the current page's content into the
// viewport — called on page switch and resize rather than every
// Update, since the underlying Environment only changes between user
// actions this tool never takes.
func (m *Model) refreshViewport() {
	var body string
	switch m.page {
	case pageOverview:
		body = m.renderOverview()
	case pageTemplates:
		body = m.renderTemplates()
	case pageBuckets:
		body = m.renderBuckets()
	case pageIntegrity:
		body = m.renderIntegrity()
	}
	m.viewport.SetContent(body)
}

func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(m.styles.Header.Render(fmt.Sprintf(" retenet inspector — %s ", m.page.title())))
	sb.WriteString("\n\n")
	sb.WriteString(m.viewport.View())
	sb.WriteString("\n")
	sb.WriteString(m.styles.Muted.Render("tab/shift+tab: switch page   ↑/↓: scroll   q/esc: quit"))
	return sb.String()
}

func (m Model) renderOverview() string {
	info := m.env.PrimitivesInfo()
	t := NewSimpleTable("", []string{"operation", "count"})
	t.AddRow("assert", fmt.Sprintf("%d", info.Asserts))
	t.AddRow("retract", fmt.Sprintf("%d", info.Retracts))
	t.AddRow("modify", fmt.Sprintf("%d", info.Modifies))
	t.AddRow("live facts", fmt.Sprintf("%d", len(m.env.Facts())))
	return t.View(m.styles)
}

func (m Model) renderTemplates() string {
	var sb strings.Builder
	for _, tmpl := range m.env.Templates.ListTemplates(m.mod) {
		lines := m.env.ShowFPN(tmpl)
		if len(lines) == 0 {
			sb.WriteString(m.styles.Muted.Render(tmpl.Name.Lexeme() + ": no alpha paths yet"))
			sb.WriteString("\n")
			continue
		}
		for _, l := range lines {
			sb.WriteString(m.styles.Body.Render(l))
			sb.WriteString("\n")
		}
	}
	if sb.Len() == 0 {
		return m.styles.Muted.Render("no templates defined")
	}
	return sb.String()
}

func (m Model) renderBuckets() string {
	occ := m.env.ShowFHT()
	if len(occ) == 0 {
		return m.styles.Muted.Render("empty hash table")
	}
	max := 1
	for _, n := range occ {
		if n > max {
			max = n
		}
	}
	var sb strings.Builder
	for i, n := range occ {
		barLen := 0
		if max > 0 {
			barLen = n * 40 / max
		}
		sb.WriteString(fmt.Sprintf("%4d | %-40s %d\n", i, strings.Repeat("#", barLen), n))
	}
	return sb.String()
}

func (m Model) renderIntegrity() string {
	violations := m.env.ValidateFactIntegrity()
	if len(violations) == 0 {
		return m.styles.Success.Render("no integrity violations")
	}
	var sb strings.Builder
	for _, v := range violations {
		sb.WriteString(m.styles.Error.Render(v.Error()))
		sb.WriteString("\n")
	}
	return sb.String()
}
