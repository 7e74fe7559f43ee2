package main

import (
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/caixa/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/caixa/internal/cash"
	cashStore "github.com/MrJamesThe3rd/caixa/internal/cash/store"
	"github.com/MrJamesThe3rd/caixa/internal/config"
	"github.com/MrJamesThe3rd/caixa/internal/database"
)

type model struct {
	ledger *cash.Service
	caller cash.Caller
	loc    *time.Location

	currentView View

	movementsView view.MovementsModel
	recordView    view.RecordModel
}

type View int

const (
	ViewMenu      View = 0
	ViewMovements View = 1
	ViewRecord    View = 2
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(cfg.Logger())

	userID, orgID, err := cfg.TUICaller()
	if err != nil {
		slog.Error("invalid TUI caller", "error", err)
		os.Exit(1)
	}

	loc, err := cfg.Location()
	if err != nil {
		slog.Error("failed to load timezone", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString(), cfg.Pool())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	return model{
		ledger:      cash.NewService(cashStore.New(db), loc),
		caller:      cash.Caller{UserID: userID, OrganizationID: orgID},
		loc:         loc,
		currentView: ViewMenu,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewMovements
				m.movementsView = view.NewMovementsModel(m.ledger, m.caller, m.loc)

				return m, m.movementsView.Init()
			case "2":
				m.currentView = ViewRecord
				m.recordView = view.NewRecordModel(m.ledger, m.caller, uuid.Nil)

				return m, m.recordView.Init()
			}
		}

		if m.currentView == ViewMovements && m.movementsView.Browsing() && msg.String() == "n" {
			if sessionID := m.movementsView.SessionID(); sessionID != uuid.Nil {
				m.currentView = ViewRecord
				m.recordView = view.NewRecordModel(m.ledger, m.caller, sessionID)

				return m, m.recordView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewMovements:
		var newModel tea.Model
		newModel, cmd = m.movementsView.Update(msg)
		m.movementsView = newModel.(view.MovementsModel)
	case ViewRecord:
		var newModel tea.Model
		newModel, cmd = m.recordView.Update(msg)
		m.recordView = newModel.(view.RecordModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Caixa TUI\n\n" +
				"1. Session Movements\n" +
				"2. Record Movement\n\n" +
				"q. Quit",
		)
	case ViewMovements:
		return withHelp(m.movementsView)
	case ViewRecord:
		return withHelp(m.recordView)
	}

	return "Unknown View"
}

func withHelp(v view.View) string {
	help := lipgloss.NewStyle().Faint(true).PaddingLeft(1).Render(v.ShortHelp())
	title := lipgloss.NewStyle().Bold(true).PaddingLeft(1).Render(v.Title())

	return title + "\n" + v.View() + "\n" + help
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
