// ABOUTME: Cluster sizing wizard as a bubbletea model
// ABOUTME: Uses huh forms with visual progress indicator for step navigation

package wizard

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/pelikan-io/capacity-calculator/backend/models"
	"github.com/pelikan-io/capacity-calculator/cli/internal/tui/icons"
	"github.com/pelikan-io/capacity-calculator/cli/internal/tui/styles"
)

// WizardCompleteMsg is sent when the wizard finishes successfully
type WizardCompleteMsg struct {
	Request *models.SizingRequest
}

// WizardCancelledMsg is sent when the wizard is cancelled
type WizardCancelledMsg struct{}

// Wizard collects a sizing request step by step
type Wizard struct {
	req   *models.SizingRequest
	form  *huh.Form
	step  int
	width int

	// Form field values (strings for huh)
	flavor        string
	tls           bool
	qps           string
	connections   string
	failureDomain string
	itemSize      string
	keyCount      string
	ramTiers      string
}

const (
	stepService = iota + 1
	stepWorkload
	stepDataset
)

// Step names for progress indicator
var stepNames = []string{"Service", "Workload", "Dataset"}

// createTheme returns a huh theme matching the shared palette
func createTheme() *huh.Theme {
	t := huh.ThemeBase()

	primary := styles.Primary
	accent := styles.Accent
	blue := styles.Info
	gray := lipgloss.Color("#9CA3AF")      // Gray-400 - muted
	grayLight := lipgloss.Color("#E5E7EB") // Gray-200 - text
	red := lipgloss.Color("#F87171")       // Red-400 - errors
	slate := lipgloss.Color("#334155")     // Slate-700 - borders

	// Group styles (section headers)
	t.Group.Title = lipgloss.NewStyle().
		Foreground(primary).
		Bold(true).
		MarginBottom(1)
	t.Group.Description = lipgloss.NewStyle().
		Foreground(gray).
		MarginBottom(1)

	// Focused field styles
	t.Focused.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(primary)
	t.Focused.Title = lipgloss.NewStyle().
		Foreground(accent).
		Bold(true)
	t.Focused.Description = lipgloss.NewStyle().
		Foreground(gray)
	t.Focused.ErrorIndicator = lipgloss.NewStyle().
		Foreground(red).
		SetString(" *")
	t.Focused.ErrorMessage = lipgloss.NewStyle().
		Foreground(red)

	// Select field styles
	t.Focused.SelectSelector = lipgloss.NewStyle().
		Foreground(primary).
		SetString("> ")
	t.Focused.Option = lipgloss.NewStyle().
		Foreground(grayLight)
	t.Focused.SelectedOption = lipgloss.NewStyle().
		Foreground(primary).
		Bold(true)

	// Text input styles
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().
		Foreground(primary)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().
		Foreground(gray)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().
		Foreground(primary)
	t.Focused.TextInput.Text = lipgloss.NewStyle().
		Foreground(grayLight)

	// Button styles (confirm fields)
	t.Focused.FocusedButton = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(blue).
		Padding(0, 2).
		MarginRight(1)
	t.Focused.BlurredButton = lipgloss.NewStyle().
		Foreground(gray).
		Background(slate).
		Padding(0, 2).
		MarginRight(1)

	// Blurred fields reuse focused styles with muted colors
	t.Blurred = t.Focused
	t.Blurred.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.HiddenBorder()).
		BorderLeft(true)
	t.Blurred.Title = lipgloss.NewStyle().
		Foreground(gray)
	t.Blurred.SelectSelector = lipgloss.NewStyle().
		Foreground(gray).
		SetString("  ")
	t.Blurred.Option = lipgloss.NewStyle().
		Foreground(gray)

	return t
}

var flavorOptions = []huh.Option[string]{
	huh.NewOption("cache (segment-structured cache)", string(models.FlavorCache)),
	huh.NewOption("replicated-cache", string(models.FlavorReplicatedCache)),
	huh.NewOption("stateless-ping (no data)", string(models.FlavorStatelessPing)),
}

// New creates a wizard prefilled from defaults
func New(defaults models.SizingRequest) *Wizard {
	req := defaults
	req.RAMCandidatesGB = append([]float64(nil), defaults.RAMCandidatesGB...)
	if req.Flavor == "" {
		req.Flavor = models.FlavorCache
	}

	w := &Wizard{
		req:           &req,
		step:          stepService,
		flavor:        string(req.Flavor),
		tls:           req.TLS,
		qps:           formatFloat(req.QPS),
		connections:   strconv.Itoa(req.ConnectionCount),
		failureDomain: formatFloat(req.FailureDomainPercent),
		itemSize:      strconv.Itoa(req.ItemSize),
		keyCount:      strconv.Itoa(req.KeyCount),
		ramTiers:      formatRAMList(req.RAMCandidatesGB),
	}

	w.form = w.createServiceForm()
	return w
}

func (w *Wizard) createServiceForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Flavor").
				Description("Use ↑/↓ to select, Enter to confirm").
				Options(flavorOptions...).
				Value(&w.flavor),
			huh.NewConfirm().
				Title("TLS").
				Description("TLS connections reserve larger buffers").
				Affirmative("Yes").
				Negative("No").
				Value(&w.tls),
		).Title("Step 1: Service").
			Description("Which Pelikan service are you deploying?"),
	).WithTheme(createTheme())
}

func (w *Wizard) createWorkloadForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Peak QPS").
				Description("Requests per second across the whole cluster").
				Placeholder("e.g., 1000000").
				Value(&w.qps).
				Validate(validatePositiveFloat),
			huh.NewInput().
				Title("Connections per instance").
				Placeholder("e.g., 500").
				CharLimit(7).
				Value(&w.connections).
				Validate(validatePositiveInt),
			huh.NewInput().
				Title("Failure domain (%)").
				Description("Largest share of instances that may be lost at once").
				Placeholder("e.g., 5").
				Value(&w.failureDomain).
				Validate(validatePercentage),
		).Title("Step 2: Workload").
			Description("Traffic and availability requirements"),
	).WithTheme(createTheme())
}

func (w *Wizard) createDatasetForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Item size (bytes)").
				Description("Average key plus value size").
				Placeholder("e.g., 64").
				Value(&w.itemSize).
				Validate(validatePositiveInt),
			huh.NewInput().
				Title("Key count").
				Description("Total keys stored across the cluster").
				Placeholder("e.g., 100000").
				Value(&w.keyCount).
				Validate(validatePositiveInt),
			huh.NewInput().
				Title("RAM tiers (GB)").
				Description("Comma-separated container sizes to consider").
				Placeholder("e.g., 4,8").
				Value(&w.ramTiers).
				Validate(func(s string) error {
					_, err := parseRAMList(s)
					return err
				}),
		).Title("Step 3: Dataset").
			Description("What the cluster has to hold"),
	).WithTheme(createTheme())
}

// Init implements tea.Model
func (w *Wizard) Init() tea.Cmd {
	return w.form.Init()
}

// Update implements tea.Model
func (w *Wizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w.width = msg.Width
		form, cmd := w.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			w.form = f
		}
		return w, cmd

	case tea.KeyMsg:
		if msg.String() == "esc" {
			return w, func() tea.Msg { return WizardCancelledMsg{} }
		}
	}

	form, cmd := w.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		w.form = f
	}

	if w.form.State == huh.StateCompleted {
		return w.advanceStep()
	}

	return w, cmd
}

func (w *Wizard) advanceStep() (tea.Model, tea.Cmd) {
	switch w.step {
	case stepService:
		w.req.Flavor = models.Flavor(w.flavor)
		w.req.TLS = w.tls
		w.step = stepWorkload
		w.form = w.createWorkloadForm()
		return w, w.form.Init()

	case stepWorkload:
		w.req.QPS, _ = strconv.ParseFloat(strings.TrimSpace(w.qps), 64)
		w.req.ConnectionCount, _ = strconv.Atoi(strings.TrimSpace(w.connections))
		w.req.FailureDomainPercent, _ = strconv.ParseFloat(strings.TrimSpace(w.failureDomain), 64)
		if !w.storesData() {
			return w, w.complete()
		}
		w.step = stepDataset
		w.form = w.createDatasetForm()
		return w, w.form.Init()

	case stepDataset:
		w.req.ItemSize, _ = strconv.Atoi(strings.TrimSpace(w.itemSize))
		w.req.KeyCount, _ = strconv.Atoi(strings.TrimSpace(w.keyCount))
		if tiers, err := parseRAMList(w.ramTiers); err == nil {
			w.req.RAMCandidatesGB = tiers
		}
		return w, w.complete()
	}

	return w, nil
}

func (w *Wizard) complete() tea.Cmd {
	req := *w.req
	return func() tea.Msg {
		return WizardCompleteMsg{Request: &req}
	}
}

// storesData reports whether the chosen flavor needs the dataset step.
func (w *Wizard) storesData() bool {
	p, ok := models.Flavor(w.flavor).Profile()
	return !ok || p.StoresData
}

// steps returns the step names that apply to the chosen flavor.
func (w *Wizard) steps() []string {
	if w.storesData() {
		return stepNames
	}
	return stepNames[:stepWorkload]
}

// SetWidth sets the wizard width for proper rendering
func (w *Wizard) SetWidth(width int) {
	w.width = width
}

// View implements tea.Model
func (w *Wizard) View() string {
	var sb strings.Builder

	sb.WriteString(w.renderProgress())
	sb.WriteString("\n\n")
	sb.WriteString(w.form.View())

	return sb.String()
}

// renderProgress renders the step progress indicator
func (w *Wizard) renderProgress() string {
	width := w.width - 1
	if width < 60 {
		width = 60
	}

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary)

	names := w.steps()
	var steps []string
	for i, name := range names {
		stepNum := i + 1
		var indicator string
		var nameStyle lipgloss.Style

		switch {
		case stepNum < w.step:
			indicator = lipgloss.NewStyle().Foreground(styles.Secondary).Render(icons.CheckOK.String())
			nameStyle = lipgloss.NewStyle().Foreground(styles.Muted)
		case stepNum == w.step:
			indicator = lipgloss.NewStyle().Foreground(styles.Primary).Bold(true).Render("●")
			nameStyle = lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
		default:
			indicator = lipgloss.NewStyle().Foreground(styles.Muted).Render("○")
			nameStyle = lipgloss.NewStyle().Foreground(styles.Muted)
		}

		steps = append(steps, fmt.Sprintf("%s %s", indicator, nameStyle.Render(name)))
	}

	stepsLine := strings.Join(steps, "    ")

	// "│  " + bar + " │"
	barWidth := width - 5
	filledWidth := min(barWidth, (w.step*barWidth)/len(names))
	emptyWidth := barWidth - filledWidth

	filledBar := lipgloss.NewStyle().Foreground(styles.Primary).Render(strings.Repeat("━", filledWidth))
	emptyBar := lipgloss.NewStyle().Foreground(styles.Surface).Render(strings.Repeat("─", emptyWidth))

	styledTitle := titleStyle.Render("Progress")
	titleWidth := lipgloss.Width("Progress")

	// "┌─ " + title + " " + fill + "┐"
	topFillWidth := max(0, width-5-titleWidth)
	topBorder := "┌─ " + styledTitle + " " + strings.Repeat("─", topFillWidth) + "┐"

	stepsPadding := max(0, width-4-lipgloss.Width(stepsLine))
	stepsLinePadded := "│ " + stepsLine + strings.Repeat(" ", stepsPadding) + " │"

	progressLinePadded := "│  " + filledBar + emptyBar + " │"

	bottomBorder := "└" + strings.Repeat("─", width-2) + "┘"

	return borderStyle.Render(strings.Join([]string{
		topBorder,
		stepsLinePadded,
		progressLinePadded,
		bottomBorder,
	}, "\n"))
}

// Request returns the sizing request collected so far
func (w *Wizard) Request() *models.SizingRequest {
	return w.req
}

func validatePositiveInt(s string) error {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v <= 0 {
		return fmt.Errorf("must be a positive whole number")
	}
	return nil
}

func validatePositiveFloat(s string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v <= 0 {
		return fmt.Errorf("must be a positive number")
	}
	return nil
}

func validatePercentage(s string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v <= 0 || v > 100 {
		return fmt.Errorf("must be greater than 0 and at most 100")
	}
	return nil
}

// parseRAMList parses "4, 8,16" into positive GB values.
func parseRAMList(s string) ([]float64, error) {
	var out []float64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil || v <= 0 {
			return nil, fmt.Errorf("%q is not a positive size in GB", part)
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("at least one RAM tier is required")
	}
	return out, nil
}

func formatRAMList(tiers []float64) string {
	parts := make([]string, len(tiers))
	for i, t := range tiers {
		parts[i] = formatFloat(t)
	}
	return strings.Join(parts, ",")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
