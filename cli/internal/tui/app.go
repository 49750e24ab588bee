// ABOUTME: Root bubbletea model for the interactive sizing flow
// ABOUTME: Runs the wizard, shows a spinner while sizing, then renders the report

package tui

import (
	"context"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pelikan-io/capacity-calculator/backend/models"
	"github.com/pelikan-io/capacity-calculator/cli/internal/tui/icons"
	"github.com/pelikan-io/capacity-calculator/cli/internal/tui/report"
	"github.com/pelikan-io/capacity-calculator/cli/internal/tui/styles"
	"github.com/pelikan-io/capacity-calculator/cli/internal/tui/wizard"
)

// Sizer computes a cluster size. The API client and the in-process
// calculator both satisfy it.
type Sizer interface {
	SizeCluster(ctx context.Context, req *models.SizingRequest) (*models.CalculationResult, error)
}

// Screen represents the current TUI screen
type Screen int

const (
	ScreenWizard Screen = iota
	ScreenComputing
	ScreenReport
)

// Minimum width before the frame stops shrinking
const minTerminalWidth = 80

// sizedMsg is sent when a sizing call returns
type sizedMsg struct {
	result *models.CalculationResult
	err    error
}

// App is the root model for the TUI
type App struct {
	sizer    Sizer
	defaults models.SizingRequest
	source   string // shown in the header, e.g. backend URL or "local"
	screen   Screen
	width    int
	height   int

	wizardScreen *wizard.Wizard
	spinner      spinner.Model

	req    *models.SizingRequest
	result *models.CalculationResult
	err    error
}

// New creates a new TUI application
func New(sizer Sizer, defaults models.SizingRequest, source string) *App {
	a := &App{
		sizer:    sizer,
		defaults: defaults,
		source:   source,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(styles.Primary)),
		),
	}
	a.startWizard(defaults)
	return a
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	if a.wizardScreen == nil {
		return nil
	}
	return a.wizardScreen.Init()
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.wizardScreen != nil {
			a.wizardScreen.SetWidth(a.frameWidth() - 1)
			return a.updateWizard(msg)
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		switch a.screen {
		case ScreenWizard:
			return a.updateWizard(msg)
		case ScreenReport:
			return a.updateReport(msg)
		}
		return a, nil

	case wizard.WizardCompleteMsg:
		a.wizardScreen = nil
		a.req = msg.Request
		a.result = nil
		a.err = nil
		a.screen = ScreenComputing
		return a, tea.Batch(a.spinner.Tick, a.size(msg.Request))

	case wizard.WizardCancelledMsg:
		a.wizardScreen = nil
		if a.req == nil {
			return a, tea.Quit
		}
		a.screen = ScreenReport
		return a, nil

	case sizedMsg:
		a.result = msg.result
		a.err = msg.err
		a.screen = ScreenReport
		if msg.err != nil {
			slog.Error("Sizing failed", "error", msg.err)
		} else {
			slog.Debug("Sizing finished",
				"instances", msg.result.Allocation.InstanceCount,
				"ram_gb", msg.result.Allocation.RAMGB,
				"bottleneck", msg.result.Bottleneck)
		}
		return a, nil

	case spinner.TickMsg:
		if a.screen != ScreenComputing {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	default:
		// huh forms rely on their own internal messages
		if a.screen == ScreenWizard && a.wizardScreen != nil {
			return a.updateWizard(msg)
		}
	}

	return a, nil
}

func (a *App) updateWizard(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.wizardScreen == nil {
		return a, nil
	}
	model, cmd := a.wizardScreen.Update(msg)
	a.wizardScreen = model.(*wizard.Wizard)
	return a, cmd
}

func (a *App) updateReport(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return a, tea.Quit
	case "e":
		// Edit the last request
		if a.req != nil {
			return a, a.startWizard(*a.req)
		}
	case "n":
		return a, a.startWizard(a.defaults)
	}
	return a, nil
}

func (a *App) startWizard(from models.SizingRequest) tea.Cmd {
	a.wizardScreen = wizard.New(from)
	a.wizardScreen.SetWidth(a.frameWidth() - 1)
	a.screen = ScreenWizard
	return a.wizardScreen.Init()
}

// size calls the sizer off the update loop
func (a *App) size(req *models.SizingRequest) tea.Cmd {
	return func() tea.Msg {
		result, err := a.sizer.SizeCluster(context.Background(), req)
		return sizedMsg{result: result, err: err}
	}
}

// Result returns the last sizing result, or nil
func (a *App) Result() *models.CalculationResult {
	return a.result
}

// View implements tea.Model
func (a *App) View() string {
	var content string

	switch a.screen {
	case ScreenWizard:
		if a.wizardScreen != nil {
			content = a.wizardScreen.View()
		}
	case ScreenComputing:
		content = "\n  " + a.spinner.View() + " Sizing cluster...\n"
	case ScreenReport:
		content = a.viewReport()
	}

	return a.wrapWithFrame(content)
}

func (a *App) viewReport() string {
	if a.err != nil {
		return styles.Panel.Width(a.frameWidth() - 4).Render(
			styles.StatusCritical.Render("Error: " + a.err.Error()))
	}
	if a.req == nil {
		return ""
	}
	return styles.ActivePanel.Width(a.frameWidth() - 4).Render(
		report.Cluster(*a.req, a.result, a.frameWidth()-10))
}

// frameWidth is the terminal width clamped to the minimum frame size
func (a *App) frameWidth() int {
	if a.width < minTerminalWidth {
		return minTerminalWidth
	}
	return a.width
}

// renderHeader creates the header bar with app branding and context
func (a *App) renderHeader() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	contextStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	leftText := " " + icons.App.String() + " " + titleStyle.Render("Pelikan Capacity Calculator") + " "
	rightText := ""
	if a.source != "" {
		rightText = " " + contextStyle.Render(a.source) + " "
	}

	// "╭─" + left + fill + right + "─╮"
	fillWidth := max(0, width-4-lipgloss.Width(leftText)-lipgloss.Width(rightText))
	header := "╭─" + leftText + strings.Repeat("─", fillWidth) + rightText + "─╮"

	return borderStyle.Render(header)
}

// renderFooter creates the footer with keyboard shortcuts
func (a *App) renderFooter() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	labelStyle := lipgloss.NewStyle().Foreground(styles.Muted)

	var shortcuts []string
	switch a.screen {
	case ScreenWizard:
		shortcuts = []string{"↑↓ Select", "Enter Confirm", "Esc Cancel"}
	case ScreenComputing:
		shortcuts = []string{"ctrl+c Quit"}
	case ScreenReport:
		shortcuts = []string{"e Edit", "n New", "q Quit"}
	}

	var styled []string
	for _, s := range shortcuts {
		key, label, _ := strings.Cut(s, " ")
		styled = append(styled, styles.KeyStyle.Render(key)+" "+labelStyle.Render(label))
	}

	leftText := " " + strings.Join(styled, "  ") + " "

	// "╰─" + left + fill + "─╯"
	fillWidth := max(0, width-4-lipgloss.Width(leftText))
	footer := "╰─" + leftText + strings.Repeat("─", fillWidth) + "─╯"

	return borderStyle.Render(footer)
}

// wrapWithFrame wraps content with header and footer
func (a *App) wrapWithFrame(content string) string {
	var sb strings.Builder

	sb.WriteString(a.renderHeader())
	sb.WriteString("\n")
	sb.WriteString(content)
	sb.WriteString("\n")
	sb.WriteString(a.renderFooter())

	return sb.String()
}

// Run starts the TUI and returns the last sizing result, if any
func Run(sizer Sizer, defaults models.SizingRequest, source string) (*models.CalculationResult, error) {
	app := New(sizer, defaults, source)

	p := tea.NewProgram(
		app,
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		return nil, err
	}
	return app.Result(), nil
}
