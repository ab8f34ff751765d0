package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/wealth/internal/ledger"
)

type accountsState int

const (
	accountsStateBrowse accountsState = iota
	accountsStateForm
	accountsStateConfirmDelete
)

type AccountsModel struct {
	CommonModel
	svc      *ledger.Service
	currency string

	state    accountsState
	table    table.Model
	accounts []*ledger.Account
	form     *huh.Form
	editing  *ledger.Account // nil while adding

	loading bool
	err     error
	status  string

	fields *accountFields
}

// accountFields holds the form bindings behind a pointer so huh writes survive
// model copies.
type accountFields struct {
	name      string
	typ       ledger.AccountType
	balance   string
	isDefault bool
	confirm   bool
}

func NewAccountsModel(svc *ledger.Service, currency string) AccountsModel {
	columns := []table.Column{
		{Title: "", Width: 2},
		{Title: "Name", Width: 30},
		{Title: "Type", Width: 12},
		{Title: "Balance", Width: 18},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	t.SetStyles(tableStyles())

	return AccountsModel{
		svc:      svc,
		currency: currency,
		table:    t,
		loading:  true,
	}
}

func tableStyles() table.Styles {
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

	return s
}

func (m AccountsModel) Title() string { return "Accounts" }

func (m AccountsModel) ShortHelp() string {
	switch m.state {
	case accountsStateForm:
		return "Navigate form | Esc: cancel"
	case accountsStateConfirmDelete:
		return "Confirm deletion | Esc: cancel"
	}

	return "Esc: back | a: add | e: edit | *: make default | x: delete | r: refresh"
}

func (m AccountsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m AccountsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadAccountsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.accounts = msg.accounts
		m.refreshTable()

		return m, nil

	case accountSavedMsg:
		m.status = msg.status
		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
		}

		m.state = accountsStateBrowse
		m.form = nil
		m.editing = nil
		m.table.Focus()

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(m.Resize(msg))

		return m, nil
	}

	switch m.state {
	case accountsStateBrowse:
		return m.updateBrowse(msg)
	case accountsStateForm, accountsStateConfirmDelete:
		return m.updateForm(msg)
	}

	return m, nil
}

func (m AccountsModel) selected() *ledger.Account {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.accounts) {
		return nil
	}

	return m.accounts[idx]
}

func (m AccountsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "a":
			return m.openForm(nil)
		case "e":
			if a := m.selected(); a != nil {
				return m.openForm(a)
			}

			return m, nil
		case "*":
			if a := m.selected(); a != nil && !a.IsDefault {
				return m, m.makeDefaultCmd(a)
			}

			return m, nil
		case "x":
			if a := m.selected(); a != nil {
				return m.confirmDelete(a)
			}

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m AccountsModel) openForm(a *ledger.Account) (tea.Model, tea.Cmd) {
	f := &accountFields{
		typ:       ledger.AccountTypeCurrent,
		balance:   "0",
		isDefault: len(m.accounts) == 0,
	}

	if a != nil {
		f.name = a.Name
		f.typ = a.Type
		f.balance = a.Balance.String()
		f.isDefault = a.IsDefault
	}

	m.editing = a
	m.fields = f

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("name").
				Title("Name").
				Value(&f.name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name cannot be empty")
					}
					return nil
				}),

			huh.NewSelect[ledger.AccountType]().
				Key("type").
				Title("Type").
				Options(
					huh.NewOption("Current", ledger.AccountTypeCurrent),
					huh.NewOption("Savings", ledger.AccountTypeSavings),
					huh.NewOption("Investment", ledger.AccountTypeInvestment),
				).
				Value(&f.typ),

			huh.NewInput().
				Key("balance").
				Title("Balance").
				Value(&f.balance).
				Validate(validateDecimal),

			huh.NewConfirm().
				Key("is_default").
				Title("Default account?").
				Affirmative("Yes").
				Negative("No").
				Value(&f.isDefault),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = accountsStateForm
	m.table.Blur()

	return m, m.form.Init()
}

func (m AccountsModel) confirmDelete(a *ledger.Account) (tea.Model, tea.Cmd) {
	f := &accountFields{}

	m.editing = a
	m.fields = f

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("confirm").
				Title(fmt.Sprintf("Delete %q and all its transactions?", a.Name)).
				Affirmative("Delete").
				Negative("Keep").
				Value(&f.confirm),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = accountsStateConfirmDelete
	m.table.Blur()

	return m, m.form.Init()
}

func (m AccountsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = accountsStateBrowse
		m.form = nil
		m.editing = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if m.state == accountsStateConfirmDelete {
		if !m.fields.confirm {
			return m, func() tea.Msg { return accountSavedMsg{} }
		}

		return m, m.deleteCmd(m.editing)
	}

	return m, m.saveCmd()
}

func (m AccountsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading accounts...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	total := decimal.Zero
	for _, a := range m.accounts {
		total = total.Add(a.Balance)
	}

	header := fmt.Sprintf("%d accounts | Total: %s", len(m.accounts), activeStyle(FormatAmount(total, m.currency)))

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state != accountsStateBrowse && m.form != nil {
		title := "New Account"
		if m.editing != nil {
			title = "Edit " + m.editing.Name
		}

		if m.state == accountsStateConfirmDelete {
			title = "Delete Account"
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(title + "\n\n" + m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func (m *AccountsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.accounts))
	for _, a := range m.accounts {
		marker := ""
		if a.IsDefault {
			marker = "*"
		}

		rows = append(rows, table.Row{
			marker,
			a.Name,
			string(a.Type),
			FormatAmount(a.Balance, m.currency),
		})
	}

	m.table.SetRows(rows)
}

func validateDecimal(s string) error {
	if _, err := decimal.NewFromString(strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("not a number")
	}

	return nil
}

// Messages

type loadAccountsMsg struct {
	accounts []*ledger.Account
	err      error
}

func (m AccountsModel) loadCmd() tea.Cmd {
	svc := m.svc

	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		accounts, err := svc.ListAccounts(ctx)

		return loadAccountsMsg{accounts: accounts, err: err}
	}
}

type accountSavedMsg struct {
	status string
	err    error
}

func (m AccountsModel) saveCmd() tea.Cmd {
	var (
		svc       = m.svc
		editing   = m.editing
		name      = strings.TrimSpace(m.fields.name)
		typ       = m.fields.typ
		isDefault = m.fields.isDefault
	)

	balance, err := decimal.NewFromString(strings.TrimSpace(m.fields.balance))
	if err != nil {
		return func() tea.Msg { return accountSavedMsg{err: err} }
	}

	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		if editing == nil {
			if _, err := svc.AddAccount(ctx, ledger.NewAccount{
				Name:      name,
				Type:      typ,
				Balance:   balance,
				IsDefault: isDefault,
			}); err != nil {
				return accountSavedMsg{err: err}
			}

			return accountSavedMsg{status: "Account added."}
		}

		err := svc.UpdateAccount(ctx, editing.ID, ledger.AccountUpdate{
			Name:      &name,
			Type:      &typ,
			Balance:   &balance,
			IsDefault: &isDefault,
		})

		return accountSavedMsg{status: "Account saved.", err: err}
	}
}

func (m AccountsModel) makeDefaultCmd(a *ledger.Account) tea.Cmd {
	svc := m.svc

	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		err := svc.UpdateAccount(ctx, a.ID, ledger.AccountUpdate{IsDefault: new(true)})

		return accountSavedMsg{status: a.Name + " is now the default account.", err: err}
	}
}

func (m AccountsModel) deleteCmd(a *ledger.Account) tea.Cmd {
	svc := m.svc

	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		err := svc.DeleteAccount(ctx, a.ID)

		return accountSavedMsg{status: "Account deleted.", err: err}
	}
}
