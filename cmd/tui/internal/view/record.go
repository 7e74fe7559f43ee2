package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/caixa/internal/cash"
	"github.com/MrJamesThe3rd/caixa/internal/importer"
)

type recordState int

const (
	recordStateForm recordState = iota
	recordStateSaving
	recordStateResult
)

// recordFields holds the form bindings. It lives behind a pointer so the
// form keeps writing to the same values while the model is copied.
type recordFields struct {
	sessionID     string
	movementType  string
	amount        string
	reason        string
	referenceType string
	referenceID   string
}

func (f *recordFields) params() (cash.CreateParams, error) {
	sessionID, err := uuid.Parse(strings.TrimSpace(f.sessionID))
	if err != nil {
		return cash.CreateParams{}, cash.InvalidIdentifier("sessionId")
	}

	amount, err := importer.ParseAmount(f.amount)
	if err != nil {
		return cash.CreateParams{}, cash.ErrInvalidAmount
	}

	return cash.CreateParams{
		SessionID:     sessionID,
		Type:          cash.MovementType(f.movementType),
		Amount:        amount,
		Reason:        f.reason,
		ReferenceType: strings.TrimSpace(f.referenceType),
		ReferenceID:   strings.TrimSpace(f.referenceID),
	}, nil
}

type RecordModel struct {
	CommonModel
	svc    *cash.Service
	caller cash.Caller

	state   recordState
	form    *huh.Form
	fields  *recordFields
	spinner spinner.Model

	result *cash.CreateResult
	err    error
}

// NewRecordModel builds the movement form, pre-filled with sessionID when
// it is set.
func NewRecordModel(svc *cash.Service, caller cash.Caller, sessionID uuid.UUID) RecordModel {
	fields := &recordFields{movementType: string(cash.TypeIn)}
	if sessionID != uuid.Nil {
		fields.sessionID = sessionID.String()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return RecordModel{
		svc:     svc,
		caller:  caller,
		fields:  fields,
		form:    buildRecordForm(fields),
		spinner: sp,
	}
}

func (m RecordModel) Title() string { return "Record Movement" }
func (m RecordModel) ShortHelp() string {
	if m.state == recordStateResult {
		return "Esc: back | n: record another"
	}
	return "Navigate form | Esc: cancel"
}

func (m RecordModel) Init() tea.Cmd {
	return m.form.Init()
}

func buildRecordForm(f *recordFields) *huh.Form {
	typeOptions := make([]huh.Option[string], 0, len(cash.MovementTypes))
	for _, t := range cash.MovementTypes {
		typeOptions = append(typeOptions, huh.NewOption(string(t), string(t)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("session").
				Title("Session ID").
				Value(&f.sessionID).
				Validate(validateSessionID),

			huh.NewSelect[string]().
				Key("type").
				Title("Type").
				Options(typeOptions...).
				Value(&f.movementType),

			huh.NewInput().
				Key("amount").
				Title("Amount").
				Description("Returns are negative, adjustments may be either sign").
				Placeholder("0.00").
				Value(&f.amount).
				Validate(func(s string) error {
					if _, err := importer.ParseAmount(s); err != nil {
						return fmt.Errorf("not a valid amount")
					}
					return nil
				}),

			huh.NewInput().
				Key("reason").
				Title("Reason").
				Value(&f.reason),

			huh.NewInput().
				Key("reference_type").
				Title("Reference Type").
				Placeholder("SALE, PAYOUT, ...").
				Value(&f.referenceType),

			huh.NewInput().
				Key("reference_id").
				Title("Reference ID").
				Value(&f.referenceID),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m RecordModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case recordSaveMsg:
		m.state = recordStateResult
		m.result = msg.result
		m.err = msg.err
		return m, nil

	case spinner.TickMsg:
		if m.state != recordStateSaving {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	switch m.state {
	case recordStateForm:
		return m.updateForm(msg)
	case recordStateResult:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "n" {
			sessionID, _ := uuid.Parse(strings.TrimSpace(m.fields.sessionID))
			next := NewRecordModel(m.svc, m.caller, sessionID)
			return next, next.Init()
		}
	}

	return m, nil
}

func (m RecordModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = recordStateSaving

	return m, tea.Batch(m.spinner.Tick, m.saveCmd())
}

func (m RecordModel) View() string {
	switch m.state {
	case recordStateForm:
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())

	case recordStateSaving:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("%s Recording movement...", m.spinner.View()),
		)

	case recordStateResult:
		return m.viewResult()
	}

	return ""
}

func (m RecordModel) viewResult() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(1).Render(errorStyle(fmt.Sprintf("Error: %v", m.err)))
	}

	if m.result.Duplicate {
		return lipgloss.NewStyle().Padding(1).Render("Movement already exists")
	}

	mv := m.result.Movement
	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("46")).
		Render("Movement recorded")

	return lipgloss.NewStyle().Padding(1).Render(
		fmt.Sprintf("%s\n\nID: %s\nType: %s\nAmount: %s", header, mv.ID, mv.Type, FormatAmount(mv.Amount)),
	)
}

// Messages

type recordSaveMsg struct {
	result *cash.CreateResult
	err    error
}

func (m RecordModel) saveCmd() tea.Cmd {
	params, err := m.fields.params()
	if err != nil {
		return func() tea.Msg { return recordSaveMsg{err: err} }
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		result, err := m.svc.Create(ctx, m.caller, params)
		return recordSaveMsg{result: result, err: err}
	}
}
