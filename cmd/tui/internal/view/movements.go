package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/caixa/internal/cash"
)

type movementsState int

const (
	movementsStatePick movementsState = iota
	movementsStateBrowse
)

// typeFilters is cycled with "t"; the empty entry shows every type.
var typeFilters = append([]cash.MovementType{""}, cash.MovementTypes...)

type MovementsModel struct {
	CommonModel
	svc    *cash.Service
	caller cash.Caller
	loc    *time.Location

	state     movementsState
	form      *huh.Form
	sessionID *string
	table     table.Model
	movements []*cash.Movement
	summary   *cash.SessionSummary

	typeFilterIdx int
	loading       bool
	err           error
}

func NewMovementsModel(svc *cash.Service, caller cash.Caller, loc *time.Location) MovementsModel {
	columns := []table.Column{
		{Title: "Created", Width: 17},
		{Title: "Type", Width: 11},
		{Title: "Amount", Width: 12},
		{Title: "Reason", Width: 30},
		{Title: "Reference", Width: 24},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	m := MovementsModel{
		svc:       svc,
		caller:    caller,
		loc:       loc,
		table:     t,
		sessionID: new(string),
	}
	m.form = m.buildSessionForm()

	return m
}

func (m MovementsModel) Title() string { return "Session Movements" }
func (m MovementsModel) ShortHelp() string {
	if m.state == movementsStatePick {
		return "Enter: open session | Esc: back"
	}
	return "Esc: back | n: new movement | t: type filter | r: refresh"
}

// Browsing reports whether a session has been picked and its movements
// are on screen.
func (m MovementsModel) Browsing() bool {
	return m.state == movementsStateBrowse
}

// SessionID returns the session being browsed, or uuid.Nil before one is
// picked.
func (m MovementsModel) SessionID() uuid.UUID {
	id, err := uuid.Parse(strings.TrimSpace(*m.sessionID))
	if err != nil {
		return uuid.Nil
	}

	return id
}

func (m MovementsModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m MovementsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadMovementsMsg:
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			return m, nil
		}
		m.movements = msg.movements
		m.summary = msg.summary
		m.refreshTable()
		return m, nil

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case movementsStatePick:
		return m.updatePick(msg)
	case movementsStateBrowse:
		return m.updateBrowse(msg)
	}

	return m, nil
}

func (m MovementsModel) updatePick(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m, Back
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = movementsStateBrowse
	m.loading = true

	return m, m.loadCmd()
}

func (m MovementsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "t":
			m.typeFilterIdx = (m.typeFilterIdx + 1) % len(typeFilters)
			m.loading = true
			return m, m.loadCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m MovementsModel) buildSessionForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("session").
				Title("Session ID").
				Placeholder("00000000-0000-0000-0000-000000000000").
				Value(m.sessionID).
				Validate(validateSessionID),
		),
	).WithWidth(50).WithShowHelp(false)
}

func validateSessionID(s string) error {
	if _, err := uuid.Parse(strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("not a valid session id")
	}
	return nil
}

func (m MovementsModel) View() string {
	if m.state == movementsStatePick {
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())
	}

	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading movements...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle(fmt.Sprintf("Error: %v", m.err)))
	}

	header := fmt.Sprintf("Filter: [t] Type: %s", activeStyle(typeFilterLabel(m.typeFilterIdx)))
	if m.summary != nil {
		header = m.summaryLine() + "\n" + header
	}

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m MovementsModel) summaryLine() string {
	s := m.summary

	return fmt.Sprintf(
		"Session %s (%s) | Opening: %s | Net: %s | Expected: %s | Movements: %d",
		s.Session.ID, s.Session.Status,
		FormatAmount(s.Session.OpeningAmount),
		FormatAmount(s.Net),
		activeStyle(FormatAmount(s.Expected)),
		s.Count,
	)
}

func typeFilterLabel(idx int) string {
	if typeFilters[idx] == "" {
		return "All"
	}
	return string(typeFilters[idx])
}

func (m *MovementsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.movements))
	for _, mv := range m.movements {
		ref := ""
		if mv.HasReference() {
			ref = *mv.ReferenceType + ":" + *mv.ReferenceID
		}
		rows = append(rows, table.Row{
			FormatTime(mv.CreatedAt, m.loc),
			string(mv.Type),
			FormatAmount(mv.Amount),
			deref(mv.Reason),
			ref,
		})
	}
	m.table.SetRows(rows)
}

// Messages

type loadMovementsMsg struct {
	movements []*cash.Movement
	summary   *cash.SessionSummary
	err       error
}

func (m MovementsModel) loadCmd() tea.Cmd {
	sessionID := m.SessionID()
	q := cash.ListQuery{
		SessionID: sessionID.String(),
		Type:      string(typeFilters[m.typeFilterIdx]),
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		summary, err := m.svc.Summarize(ctx, m.caller, sessionID)
		if err != nil {
			return loadMovementsMsg{err: err}
		}

		movements, err := m.svc.List(ctx, m.caller, q)
		return loadMovementsMsg{movements: movements, summary: summary, err: err}
	}
}
