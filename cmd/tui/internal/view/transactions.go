package view

import (
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/wealth/internal/ledger"
)

type txState int

const (
	txStateTimeframe txState = iota
	txStateList
	txStateEditing
	txStateScanPath
)

// txItem wraps a transaction to implement list.Item.
type txItem struct {
	tx       *ledger.Transaction
	account  string
	currency string
	marked   bool
}

func (i txItem) Title() string {
	mark := "[ ]"
	if i.marked {
		mark = "[x]"
	}

	category := lipgloss.NewStyle().Faint(true).Render(fmt.Sprintf("[%s]", i.tx.Category))

	return fmt.Sprintf("%s %s  %s  %s  %s", mark, FormatDate(i.tx.Date), FormatSigned(i.tx, i.currency), category, i.tx.Description)
}

func (i txItem) Description() string {
	if i.tx.IsRecurring && i.tx.RecurringInterval != nil {
		return fmt.Sprintf("%s | repeats %s", i.account, *i.tx.RecurringInterval)
	}

	return i.account
}

func (i txItem) FilterValue() string {
	return i.tx.Description + " " + i.tx.Category
}

// txFields holds the form bindings. It lives behind a pointer so huh keeps
// writing to the same values while the model is copied between updates.
type txFields struct {
	typ         ledger.TransactionType
	amount      string
	account     uuid.UUID
	category    string
	date        string
	description string
	recurring   bool
	interval    ledger.Interval
	path        string
}

type TransactionsModel struct {
	CommonModel
	svc      *ledger.Service
	currency string

	state           txState
	timeframePicker TimeframePicker
	timeframe       TimeframeSelectedMsg
	list            list.Model
	form            *huh.Form
	fields          *txFields

	txs      []*ledger.Transaction
	accounts []*ledger.Account
	marked   map[uuid.UUID]bool
	editing  *ledger.Transaction // nil while adding

	loading bool
	status  string
}

func NewTransactionsModel(svc *ledger.Service, currency string) TransactionsModel {
	l := list.New([]list.Item{}, txItemDelegate{}, 0, 0)
	l.Title = "Transactions"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(true)

	return TransactionsModel{
		svc:             svc,
		currency:        currency,
		timeframePicker: NewTimeframePicker(time.Now),
		list:            l,
		marked:          map[uuid.UUID]bool{},
	}
}

func (m TransactionsModel) Title() string { return "Transactions" }

func (m TransactionsModel) ShortHelp() string {
	switch m.state {
	case txStateTimeframe:
		return "Esc: back | Enter: select"
	case txStateList:
		return "Esc: back | a: add | s: scan receipt | Enter: edit | x: delete | Space: mark | D: delete marked | /: filter"
	case txStateEditing, txStateScanPath:
		return "Esc: cancel | Enter/Tab: navigate form"
	}

	return ""
}

func (m TransactionsModel) Init() tea.Cmd {
	return nil
}

func (m TransactionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TimeframeSelectedMsg:
		m.timeframe = msg
		m.loading = true
		m.state = txStateList

		return m, m.loadTxsCmd()

	case loadTxsMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.txs = msg.txs
		m.accounts = msg.accounts
		m.refreshListItems()

		if len(msg.txs) == 0 {
			m.status = "No transactions found."
		}

		return m, nil

	case saveTxResultMsg:
		m.state = txStateList
		m.form = nil
		m.editing = nil

		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.status = msg.status
		clear(m.marked)

		return m, m.loadTxsCmd()

	case scanResultMsg:
		if msg.err != nil {
			m.state = txStateList
			m.form = nil
			m.status = fmt.Sprintf("Scan failed: %v", msg.err)

			return m, nil
		}

		m.status = "Receipt scanned. Review the suggestion before saving."

		return m.openForm(nil, msg.suggestion)

	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-4, m.Resize(msg))

		return m, nil
	}

	switch m.state {
	case txStateTimeframe:
		return m.updateTimeframe(msg)
	case txStateList:
		return m.updateList(msg)
	case txStateEditing, txStateScanPath:
		return m.updateForm(msg)
	}

	return m, nil
}

func (m TransactionsModel) updateTimeframe(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc && m.timeframePicker.IsSelecting() {
			return m, Back
		}
	}

	var cmd tea.Cmd
	m.timeframePicker, cmd = m.timeframePicker.Update(msg)

	return m, cmd
}

func (m TransactionsModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)

		return m, cmd
	}

	switch keyMsg.String() {
	case "esc":
		return m, Back
	case "t":
		m.state = txStateTimeframe
		return m, nil
	case "a":
		return m.openForm(nil, nil)
	case "s":
		return m.openScan()
	case "enter":
		if selected, ok := m.list.SelectedItem().(txItem); ok {
			return m.openForm(selected.tx, nil)
		}

		return m, nil
	case " ":
		if selected, ok := m.list.SelectedItem().(txItem); ok {
			m.marked[selected.tx.ID] = !m.marked[selected.tx.ID]
			m.refreshListItems()
		}

		return m, nil
	case "x":
		if selected, ok := m.list.SelectedItem().(txItem); ok {
			return m, m.deleteCmd([]uuid.UUID{selected.tx.ID})
		}

		return m, nil
	case "D":
		var ids []uuid.UUID
		for id, marked := range m.marked {
			if marked {
				ids = append(ids, id)
			}
		}

		if len(ids) == 0 {
			m.status = "Nothing marked."
			return m, nil
		}

		return m, m.deleteCmd(ids)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

func (m TransactionsModel) defaultAccountID() uuid.UUID {
	for _, a := range m.accounts {
		if a.IsDefault {
			return a.ID
		}
	}

	if len(m.accounts) > 0 {
		return m.accounts[0].ID
	}

	return uuid.Nil
}

func (m TransactionsModel) openForm(tx *ledger.Transaction, suggestion *ledger.Suggestion) (tea.Model, tea.Cmd) {
	if len(m.accounts) == 0 {
		m.state = txStateList
		m.status = "Add an account first."

		return m, nil
	}

	f := &txFields{
		typ:      ledger.TypeExpense,
		amount:   "",
		account:  m.defaultAccountID(),
		category: ledger.ExpenseCategories[0],
		date:     FormatDate(time.Now()),
		interval: ledger.IntervalMonthly,
	}

	switch {
	case tx != nil:
		f.typ = tx.Type
		f.amount = tx.Amount.String()
		f.account = tx.AccountID
		f.category = tx.Category
		f.date = FormatDate(tx.Date)
		f.description = tx.Description
		f.recurring = tx.IsRecurring

		if tx.RecurringInterval != nil {
			f.interval = *tx.RecurringInterval
		}
	case suggestion != nil:
		f.typ = suggestion.Type
		f.amount = suggestion.Amount.String()
		f.category = suggestion.Category
		f.date = FormatDate(suggestion.Date)
		f.description = suggestion.Description
	}

	accountOpts := make([]huh.Option[uuid.UUID], 0, len(m.accounts))
	for _, a := range m.accounts {
		accountOpts = append(accountOpts, huh.NewOption(a.Name, a.ID))
	}

	m.fields = f
	m.editing = tx
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[ledger.TransactionType]().
				Key("type").
				Title("Type").
				Options(
					huh.NewOption("Expense", ledger.TypeExpense),
					huh.NewOption("Income", ledger.TypeIncome),
				).
				Value(&f.typ),

			huh.NewInput().
				Key("amount").
				Title("Amount").
				Value(&f.amount).
				Validate(validateAmount),

			huh.NewSelect[uuid.UUID]().
				Key("account").
				Title("Account").
				Options(accountOpts...).
				Value(&f.account),

			huh.NewSelect[string]().
				Key("category").
				Title("Category").
				OptionsFunc(func() []huh.Option[string] {
					return huh.NewOptions(ledger.Categories(f.typ)...)
				}, &f.typ).
				Value(&f.category),

			huh.NewInput().
				Key("date").
				Title("Date").
				Placeholder("YYYY-MM-DD").
				Value(&f.date).
				Validate(func(s string) error {
					if _, err := time.Parse(time.DateOnly, strings.TrimSpace(s)); err != nil {
						return fmt.Errorf("use YYYY-MM-DD")
					}
					return nil
				}),

			huh.NewInput().
				Key("description").
				Title("Description").
				Value(&f.description),

			huh.NewConfirm().
				Key("recurring").
				Title("Recurring?").
				Affirmative("Yes").
				Negative("No").
				Value(&f.recurring),
		),
		huh.NewGroup(
			huh.NewSelect[ledger.Interval]().
				Key("interval").
				Title("Repeats").
				Options(
					huh.NewOption("Daily", ledger.IntervalDaily),
					huh.NewOption("Weekly", ledger.IntervalWeekly),
					huh.NewOption("Monthly", ledger.IntervalMonthly),
					huh.NewOption("Yearly", ledger.IntervalYearly),
				).
				Value(&f.interval),
		).WithHideFunc(func() bool { return !f.recurring }),
	).WithWidth(50).WithShowHelp(false)

	m.state = txStateEditing

	return m, m.form.Init()
}

func (m TransactionsModel) openScan() (tea.Model, tea.Cmd) {
	f := &txFields{}

	m.fields = f
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("path").
				Title("Receipt file").
				Placeholder("~/receipts/lunch.jpg").
				Value(&f.path).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("path cannot be empty")
					}
					return nil
				}),
		),
	).WithWidth(50).WithShowHelp(false)

	m.state = txStateScanPath

	return m, m.form.Init()
}

func (m TransactionsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = txStateList
		m.form = nil
		m.editing = nil

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if m.state == txStateScanPath {
		m.status = "Scanning receipt..."
		return m, m.scanCmd(m.fields.path)
	}

	return m, m.saveTxCmd()
}

func (m TransactionsModel) View() string {
	switch m.state {
	case txStateTimeframe:
		return lipgloss.NewStyle().Padding(1).Render(m.timeframePicker.View())

	case txStateList:
		if m.loading {
			return lipgloss.NewStyle().Padding(2).Render("Loading transactions...")
		}

		header := lipgloss.NewStyle().Faint(true).Render(m.timeframe.Label + " (t: change)")
		if m.status != "" {
			header += "\n" + lipgloss.NewStyle().Faint(true).Render(m.status)
		}

		return lipgloss.NewStyle().Padding(1).Render(header + "\n" + m.list.View())

	case txStateEditing, txStateScanPath:
		if m.form == nil {
			return ""
		}

		title := "New Transaction"

		switch {
		case m.state == txStateScanPath:
			title = "Scan Receipt"
		case m.editing != nil:
			title = "Edit Transaction"
		}

		if m.status != "" {
			title += "\n" + lipgloss.NewStyle().Faint(true).Render(m.status)
		}

		return lipgloss.NewStyle().Padding(1).Render(title + "\n\n" + m.form.View())
	}

	return ""
}

func (m *TransactionsModel) refreshListItems() {
	names := make(map[uuid.UUID]string, len(m.accounts))
	for _, a := range m.accounts {
		names[a.ID] = a.Name
	}

	items := make([]list.Item, len(m.txs))
	for i, tx := range m.txs {
		account, ok := names[tx.AccountID]
		if !ok {
			account = "(no account)"
		}

		items[i] = txItem{tx: tx, account: account, currency: m.currency, marked: m.marked[tx.ID]}
	}

	m.list.SetItems(items)
}

func validateAmount(s string) error {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("not a number")
	}

	if !d.IsPositive() {
		return fmt.Errorf("amount must be positive")
	}

	return nil
}

// Messages

type loadTxsMsg struct {
	txs      []*ledger.Transaction
	accounts []*ledger.Account
	err      error
}

func (m TransactionsModel) loadTxsCmd() tea.Cmd {
	svc := m.svc
	filter := m.timeframe.Filter(ledger.TransactionFilter{})

	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		accounts, err := svc.ListAccounts(ctx)
		if err != nil {
			return loadTxsMsg{err: err}
		}

		txs, err := svc.ListTransactions(ctx, filter)

		return loadTxsMsg{txs: txs, accounts: accounts, err: err}
	}
}

type saveTxResultMsg struct {
	status string
	err    error
}

func (m TransactionsModel) saveTxCmd() tea.Cmd {
	svc := m.svc
	editing := m.editing
	f := *m.fields

	return func() tea.Msg {
		amount, err := decimal.NewFromString(strings.TrimSpace(f.amount))
		if err != nil {
			return saveTxResultMsg{err: fmt.Errorf("parsing amount: %w", err)}
		}

		date, err := time.Parse(time.DateOnly, strings.TrimSpace(f.date))
		if err != nil {
			return saveTxResultMsg{err: fmt.Errorf("parsing date: %w", err)}
		}

		var interval *ledger.Interval
		if f.recurring {
			interval = &f.interval
		}

		description := strings.TrimSpace(f.description)

		ctx, cancel := OpCtx()
		defer cancel()

		if editing == nil {
			_, err := svc.AddTransaction(ctx, ledger.NewTransaction{
				Type:              f.typ,
				Amount:            amount,
				AccountID:         f.account,
				Category:          f.category,
				Date:              date,
				Description:       description,
				IsRecurring:       f.recurring,
				RecurringInterval: interval,
			})

			return saveTxResultMsg{status: "Transaction added.", err: err}
		}

		err = svc.UpdateTransaction(ctx, editing.ID, ledger.TransactionUpdate{
			Type:              &f.typ,
			Amount:            &amount,
			AccountID:         &f.account,
			Category:          &f.category,
			Date:              &date,
			Description:       &description,
			IsRecurring:       &f.recurring,
			RecurringInterval: interval,
		})

		return saveTxResultMsg{status: "Transaction saved.", err: err}
	}
}

func (m TransactionsModel) deleteCmd(ids []uuid.UUID) tea.Cmd {
	svc := m.svc

	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		if len(ids) == 1 {
			err := svc.DeleteTransaction(ctx, ids[0])

			return saveTxResultMsg{status: "Transaction deleted.", err: err}
		}

		err := svc.DeleteTransactions(ctx, ids)

		return saveTxResultMsg{status: fmt.Sprintf("%d transactions deleted.", len(ids)), err: err}
	}
}

type scanResultMsg struct {
	suggestion *ledger.Suggestion
	err        error
}

func (m TransactionsModel) scanCmd(path string) tea.Cmd {
	svc := m.svc

	return func() tea.Msg {
		path = expandHome(strings.TrimSpace(path))

		data, err := os.ReadFile(path)
		if err != nil {
			return scanResultMsg{err: fmt.Errorf("reading receipt: %w", err)}
		}

		ctx, cancel := OpCtx()
		defer cancel()

		suggestion, err := svc.ScanReceipt(ctx, ledger.ReceiptFile{
			Name:        filepath.Base(path),
			ContentType: mime.TypeByExtension(filepath.Ext(path)),
			Data:        data,
		})

		return scanResultMsg{suggestion: suggestion, err: err}
	}
}

func expandHome(path string) string {
	rest, ok := strings.CutPrefix(path, "~/")
	if !ok {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, rest)
}

// txItemDelegate renders items in the list.
type txItemDelegate struct{}

func (d txItemDelegate) Height() int                             { return 2 }
func (d txItemDelegate) Spacing() int                            { return 0 }
func (d txItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d txItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(txItem)
	if !ok {
		return
	}

	title := i.Title()
	if index == m.Index() {
		title = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).Render("> " + title)
	}

	fmt.Fprintf(w, "  %s\n", title)
	fmt.Fprintf(w, "    %s\n", lipgloss.NewStyle().Faint(true).Render(i.Description()))
}
