package main

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/wealth/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/wealth/internal/app"
	"github.com/MrJamesThe3rd/wealth/internal/config"
	"github.com/MrJamesThe3rd/wealth/internal/ledger"
)

type model struct {
	ledger   *ledger.Service
	appName  string
	currency string

	currentView View
	size        tea.WindowSizeMsg

	accountsView     view.AccountsModel
	transactionsView view.TransactionsModel
	budgetView       view.BudgetModel
}

type View int

const (
	ViewMenu         View = 0
	ViewAccounts     View = 1
	ViewTransactions View = 2
	ViewBudget       View = 3
)

func initialModel(cfg *config.Config, svc *ledger.Service) model {
	return model{
		ledger:           svc,
		appName:          cfg.App.Name,
		currency:         cfg.App.Currency,
		currentView:      ViewMenu,
		accountsView:     view.NewAccountsModel(svc, cfg.App.Currency),
		transactionsView: view.NewTransactionsModel(svc, cfg.App.Currency),
		budgetView:       view.NewBudgetModel(svc, cfg.App.Currency, time.Now()),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.size = msg
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewAccounts
				m.accountsView = view.NewAccountsModel(m.ledger, m.currency)

				return m, tea.Batch(m.accountsView.Init(), m.replaySize)
			case "2":
				m.currentView = ViewTransactions
				m.transactionsView = view.NewTransactionsModel(m.ledger, m.currency)

				return m, tea.Batch(m.transactionsView.Init(), m.replaySize)
			case "3":
				m.currentView = ViewBudget
				m.budgetView = view.NewBudgetModel(m.ledger, m.currency, time.Now())

				return m, tea.Batch(m.budgetView.Init(), m.replaySize)
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewAccounts:
		var newModel tea.Model
		newModel, cmd = m.accountsView.Update(msg)
		m.accountsView = newModel.(view.AccountsModel)
	case ViewTransactions:
		var newModel tea.Model
		newModel, cmd = m.transactionsView.Update(msg)
		m.transactionsView = newModel.(view.TransactionsModel)
	case ViewBudget:
		var newModel tea.Model
		newModel, cmd = m.budgetView.Update(msg)
		m.budgetView = newModel.(view.BudgetModel)
	}

	return m, cmd
}

// replaySize hands the last known terminal size to a freshly opened view.
func (m model) replaySize() tea.Msg {
	return m.size
}

func (m model) View() string {
	var current view.View

	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			m.appName + "\n\n" +
				"1. Accounts\n" +
				"2. Transactions\n" +
				"3. Budget\n\n" +
				"q. Quit",
		)
	case ViewAccounts:
		current = m.accountsView
	case ViewTransactions:
		current = m.transactionsView
	case ViewBudget:
		current = m.budgetView
	default:
		return "Unknown View"
	}

	help := lipgloss.NewStyle().Faint(true).PaddingLeft(1).Render(current.ShortHelp())

	return current.View() + "\n" + help
}

func main() {
	_ = godotenv.Load()

	if err := run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// slog writes through the standard logger, which would draw over the UI.
	if os.Getenv("DEBUG") != "" {
		f, err := tea.LogToFile("debug.log", "debug")
		if err != nil {
			return fmt.Errorf("opening debug log: %w", err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
		defer log.SetOutput(os.Stderr)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	a, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("building ledger: %w", err)
	}
	defer a.Close()

	p := tea.NewProgram(initialModel(cfg, a.Ledger), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}

	return nil
}
