package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/wealth/internal/ledger"
)

type BudgetModel struct {
	CommonModel
	svc      *ledger.Service
	currency string

	month   time.Time
	summary *ledger.Summary
	bar     progress.Model

	form   *huh.Form
	amount *string

	loading bool
	status  string
	err     error
}

func NewBudgetModel(svc *ledger.Service, currency string, now time.Time) BudgetModel {
	today := ledger.DateOf(now)

	return BudgetModel{
		svc:      svc,
		currency: currency,
		month:    today.AddDate(0, 0, 1-today.Day()),
		bar:      progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		loading:  true,
	}
}

func (m BudgetModel) Title() string { return "Budget" }

func (m BudgetModel) ShortHelp() string {
	if m.form != nil {
		return "Enter: save | Esc: cancel"
	}

	return "Esc: back | h/l: previous/next month | b: set budget | r: refresh"
}

func (m BudgetModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m BudgetModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadSummaryMsg:
		m.loading = false
		m.summary, m.err = msg.summary, msg.err

		return m, nil

	case budgetSavedMsg:
		m.form = nil
		m.status = "Budget updated."

		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
		}

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.Resize(msg)
		m.bar.Width = min(max(msg.Width-20, 10), 60)

		return m, nil
	}

	if m.form != nil {
		return m.updateForm(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc":
		return m, Back
	case "h", "left":
		m.month = m.month.AddDate(0, -1, 0)
		return m, m.loadCmd()
	case "l", "right":
		m.month = m.month.AddDate(0, 1, 0)
		return m, m.loadCmd()
	case "r":
		m.loading = true
		return m, m.loadCmd()
	case "b":
		return m.openForm()
	}

	return m, nil
}

func (m BudgetModel) openForm() (tea.Model, tea.Cmd) {
	amount := "0"
	if m.summary != nil {
		amount = m.summary.Budget.String()
	}

	m.amount = &amount
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("budget").
				Title("Monthly budget").
				Value(m.amount).
				Validate(func(s string) error {
					d, err := decimal.NewFromString(strings.TrimSpace(s))
					if err != nil {
						return fmt.Errorf("not a number")
					}

					if d.IsNegative() {
						return fmt.Errorf("budget cannot be negative")
					}

					return nil
				}),
		),
	).WithWidth(40).WithShowHelp(false)

	return m, m.form.Init()
}

func (m BudgetModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.form = nil
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.saveCmd(*m.amount)
}

func (m BudgetModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading budget...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	s := m.summary
	bold := lipgloss.NewStyle().Bold(true)
	faint := lipgloss.NewStyle().Faint(true)

	var b strings.Builder

	b.WriteString(bold.Render(s.Month.Format("January 2006")) + "\n\n")
	fmt.Fprintf(&b, "Income:    %s\n", FormatAmount(s.TotalIncome, m.currency))
	fmt.Fprintf(&b, "Expenses:  %s\n", FormatAmount(s.TotalExpenses, m.currency))
	fmt.Fprintf(&b, "Net:       %s\n\n", FormatAmount(s.Net, m.currency))

	if s.Budget.IsZero() {
		b.WriteString(faint.Render("No budget set. Press b to set one.") + "\n")
	} else {
		pct, _ := s.Progress.Float64()
		fmt.Fprintf(&b, "Budget:    %s\n", FormatAmount(s.Budget, m.currency))
		fmt.Fprintf(&b, "Remaining: %s\n", FormatAmount(s.Remaining, m.currency))
		fmt.Fprintf(&b, "%s %s%%\n", m.bar.ViewAs(min(pct/100, 1)), s.Progress.StringFixed(1))

		if s.Remaining.IsNegative() {
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render("Over budget") + "\n")
		}
	}

	if len(s.Categories) > 0 {
		b.WriteString("\n" + bold.Render("Spending by category") + "\n")

		for _, c := range s.Categories {
			fmt.Fprintf(&b, "  %-20s %14s  %s\n", c.Category, FormatAmount(c.Amount, m.currency), faint.Render(c.Percentage.StringFixed(1)+"%"))
		}
	}

	if m.form != nil {
		b.WriteString("\n" + m.form.View())
	}

	if m.status != "" {
		b.WriteString("\n" + faint.Render(m.status))
	}

	return lipgloss.NewStyle().Padding(1).Render(b.String())
}

// Messages

type loadSummaryMsg struct {
	summary *ledger.Summary
	err     error
}

func (m BudgetModel) loadCmd() tea.Cmd {
	svc := m.svc
	month := m.month

	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		summary, err := svc.MonthlySummary(ctx, month, nil)

		return loadSummaryMsg{summary: summary, err: err}
	}
}

type budgetSavedMsg struct {
	err error
}

func (m BudgetModel) saveCmd(raw string) tea.Cmd {
	svc := m.svc

	return func() tea.Msg {
		amount, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil {
			return budgetSavedMsg{err: fmt.Errorf("parsing budget: %w", err)}
		}

		ctx, cancel := OpCtx()
		defer cancel()

		return budgetSavedMsg{err: svc.UpdateBudget(ctx, amount)}
	}
}
