// ABOUTME: Calculation wizard as a bubbletea model
// ABOUTME: Uses huh forms with a visual progress indicator to collect a plan request

package wizard

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"k8s.io/apimachinery/pkg/api/resource"

	"github.com/markalston/node-capacity-planner/backend/models"
	"github.com/markalston/node-capacity-planner/cli/internal/tui/icons"
	"github.com/markalston/node-capacity-planner/cli/internal/tui/styles"
)

// WizardCompleteMsg is sent when the wizard finishes successfully
type WizardCompleteMsg struct {
	Title   string
	Request models.PlanRequest
}

// WizardCancelledMsg is sent when the wizard is cancelled
type WizardCancelledMsg struct{}

// Wizard collects one calculation's inputs as a bubbletea model
type Wizard struct {
	catalog []models.InstanceSpec
	form    *huh.Form
	step    int
	width   int

	// Form field values (strings for huh)
	title          string
	pods           string
	podCPU         string
	podMemory      string
	instance       string
	nodeVCPU       string
	nodeMemory     string
	monthlyCost    string
	cpuOverhead    string
	memoryOverhead string
}

// Step names for progress indicator
var stepNames = []string{"Workload", "Instance Type", "Node & Overheads"}

// createTheme returns a huh theme in the TUI palette
func createTheme() *huh.Theme {
	t := huh.ThemeBase()

	cyan := styles.Primary
	cyanLight := styles.Accent
	gray := lipgloss.Color("#9CA3AF")
	grayLight := lipgloss.Color("#E5E7EB")
	red := lipgloss.Color("#F87171")
	slate := lipgloss.Color("#334155")

	t.Group.Title = lipgloss.NewStyle().
		Foreground(cyan).
		Bold(true).
		MarginBottom(1)
	t.Group.Description = lipgloss.NewStyle().
		Foreground(gray).
		MarginBottom(1)

	t.Focused.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(cyan)
	t.Focused.Title = lipgloss.NewStyle().
		Foreground(cyanLight).
		Bold(true)
	t.Focused.Description = lipgloss.NewStyle().
		Foreground(gray)
	t.Focused.ErrorIndicator = lipgloss.NewStyle().
		Foreground(red).
		SetString(" *")
	t.Focused.ErrorMessage = lipgloss.NewStyle().
		Foreground(red)

	t.Focused.SelectSelector = lipgloss.NewStyle().
		Foreground(cyan).
		SetString("> ")
	t.Focused.Option = lipgloss.NewStyle().
		Foreground(grayLight)
	t.Focused.SelectedOption = lipgloss.NewStyle().
		Foreground(cyan).
		Bold(true)

	t.Focused.TextInput.Cursor = lipgloss.NewStyle().
		Foreground(cyan)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().
		Foreground(gray)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().
		Foreground(cyan)
	t.Focused.TextInput.Text = lipgloss.NewStyle().
		Foreground(grayLight)

	t.Focused.FocusedButton = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(styles.Info).
		Padding(0, 2).
		MarginRight(1)
	t.Focused.BlurredButton = lipgloss.NewStyle().
		Foreground(gray).
		Background(slate).
		Padding(0, 2).
		MarginRight(1)

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

// New creates a wizard prefilled with title and req.
// catalog supplies the instance type choices; the custom entry unlocks node capacity fields.
func New(title string, req models.PlanRequest, catalog []models.InstanceSpec) *Wizard {
	if req.InstanceType == "" {
		req.InstanceType = models.DefaultPlanRequest().InstanceType
	}

	w := &Wizard{
		catalog:        catalog,
		step:           1,
		title:          title,
		pods:           strconv.Itoa(req.PeakPods),
		podCPU:         formatNumber(req.PodCPUMillicores) + "m",
		podMemory:      formatNumber(req.PodMemoryGiB) + "Gi",
		instance:       req.InstanceType,
		nodeVCPU:       formatNumber(req.NodeVCPU),
		nodeMemory:     formatNumber(req.NodeMemoryGiB) + "Gi",
		monthlyCost:    formatNumber(req.InstanceMonthlyCost),
		cpuOverhead:    formatNumber(req.CPUOverheadPct),
		memoryOverhead: formatNumber(req.MemoryOverheadPct),
	}

	w.form = w.createStep1Form()
	return w
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (w *Wizard) createStep1Form() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Description("Shown above this calculation's results").
				CharLimit(100).
				Value(&w.title),
			huh.NewInput().
				Title("Peak pods").
				Description("Pods running at the busiest point of the day").
				Placeholder("e.g., 100").
				CharLimit(7).
				Value(&w.pods).
				Validate(validateNonNegativeInt),
			huh.NewInput().
				Title("CPU limit per pod").
				Description("Cores or millicores, such as 0.5, 2 or 500m").
				Placeholder("500m").
				Value(&w.podCPU).
				Validate(validateQuantity),
			huh.NewInput().
				Title("Memory limit per pod").
				Description("GiB or a quantity such as 512Mi or 2Gi").
				Placeholder("1Gi").
				Value(&w.podMemory).
				Validate(validateQuantity),
		).Title("Step 1: Workload").
			Description("Describe the pods that need a home"),
	).WithTheme(createTheme())
}

func (w *Wizard) createStep2Form() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Instance type").
				Description("Use ↑/↓ to select, Enter to confirm").
				Options(w.instanceOptions()...).
				Height(10).
				Value(&w.instance),
		).Title("Step 2: Instance Type").
			Description("Pick the worker node size"),
	).WithTheme(createTheme())
}

func (w *Wizard) createStep3Form() *huh.Form {
	var fields []huh.Field
	if w.instance == models.CustomInstanceType {
		fields = append(fields,
			huh.NewInput().
				Title("Node vCPU").
				Placeholder("e.g., 8").
				Value(&w.nodeVCPU).
				Validate(validateNonNegativeFloat),
			huh.NewInput().
				Title("Node memory").
				Description("GiB or a quantity such as 32Gi").
				Placeholder("32Gi").
				Value(&w.nodeMemory).
				Validate(validateQuantity),
			huh.NewInput().
				Title("Monthly cost per node").
				Placeholder("e.g., 300").
				Value(&w.monthlyCost).
				Validate(validateNonNegativeFloat),
		)
	}
	fields = append(fields,
		huh.NewInput().
			Title("CPU overhead %").
			Description("Reserved for the kubelet, system daemons, and DaemonSets").
			Value(&w.cpuOverhead).
			Validate(validatePercentage),
		huh.NewInput().
			Title("Memory overhead %").
			Description("Reserved for the kubelet, eviction threshold, and system daemons").
			Value(&w.memoryOverhead).
			Validate(validatePercentage),
	)

	return huh.NewForm(
		huh.NewGroup(fields...).
			Title("Step 3: Node & Overheads").
			Description("Capacity held back from pods on every node"),
	).WithTheme(createTheme())
}

// instanceOptions lists the catalog with sizes and prices, selecting the current instance
func (w *Wizard) instanceOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(w.catalog))
	for _, spec := range w.catalog {
		label := fmt.Sprintf("%-12s %4s vCPU  %5s GiB  $%s/mo",
			spec.ID, formatNumber(spec.VCPU), formatNumber(spec.MemoryGiB),
			humanize.FormatFloat("#,###.##", spec.MonthlyCost))
		if spec.IsCustom() {
			label = "custom       enter node capacity and cost"
		}
		opts = append(opts, huh.NewOption(label, spec.ID).Selected(spec.ID == w.instance))
	}
	return opts
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
	case 1:
		w.step = 2
		w.form = w.createStep2Form()
		return w, w.form.Init()

	case 2:
		w.step = 3
		w.form = w.createStep3Form()
		return w, w.form.Init()

	case 3:
		title, req := w.Title(), w.Request()
		return w, func() tea.Msg {
			return WizardCompleteMsg{Title: title, Request: req}
		}
	}

	return w, nil
}

// SetWidth sets the wizard width for proper rendering
func (w *Wizard) SetWidth(width int) {
	w.width = width
}

// Title returns the trimmed calculation title
func (w *Wizard) Title() string {
	return strings.TrimSpace(w.title)
}

// Request converts the collected field text into a plan request.
// Text that does not parse becomes zero, which the planner treats as infeasible.
func (w *Wizard) Request() models.PlanRequest {
	req := models.PlanRequest{
		InstanceType:      w.instance,
		PeakPods:          models.ParseIntField(w.pods),
		PodCPUMillicores:  models.ParseCPUQuantity(w.podCPU),
		PodMemoryGiB:      models.ParseMemoryQuantity(w.podMemory),
		CPUOverheadPct:    models.ParseFloatField(w.cpuOverhead),
		MemoryOverheadPct: models.ParseFloatField(w.memoryOverhead),
	}
	if req.InstanceType == models.CustomInstanceType {
		req.NodeVCPU = models.ParseFloatField(w.nodeVCPU)
		req.NodeMemoryGiB = models.ParseMemoryQuantity(w.nodeMemory)
		req.InstanceMonthlyCost = models.ParseFloatField(w.monthlyCost)
	}
	return req
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
	width := max(w.width-1, 60)

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary)

	var steps []string
	for i, name := range stepNames {
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
	filledWidth := (w.step * barWidth) / len(stepNames)
	progressBar := lipgloss.NewStyle().Foreground(styles.Primary).Render(strings.Repeat("━", filledWidth)) +
		lipgloss.NewStyle().Foreground(styles.Surface).Render(strings.Repeat("─", barWidth-filledWidth))

	heading := "Progress"
	if w.title != "" {
		heading = w.Title()
	}
	heading = truncateCells(heading, width-8)

	topBorder := "┌─ " + titleStyle.Render(heading) + " " + strings.Repeat("─", max(0, width-5-lipgloss.Width(heading))) + "┐"
	stepsLinePadded := "│ " + stepsLine + strings.Repeat(" ", max(0, width-4-lipgloss.Width(stepsLine))) + " │"
	progressLinePadded := "│  " + progressBar + " │"
	bottomBorder := "└" + strings.Repeat("─", width-2) + "┘"

	return borderStyle.Render(strings.Join([]string{
		topBorder,
		stepsLinePadded,
		progressLinePadded,
		bottomBorder,
	}, "\n"))
}

func truncateCells(s string, n int) string {
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes)) > n {
		runes = runes[:len(runes)-1]
	}
	return string(runes)
}

func validateNonNegativeInt(s string) error {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v < 0 {
		return fmt.Errorf("must be a whole number of zero or more")
	}
	return nil
}

func validateNonNegativeFloat(s string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 {
		return fmt.Errorf("must be a number of zero or more")
	}
	return nil
}

func validateQuantity(s string) error {
	q, err := resource.ParseQuantity(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("must be a number or a quantity like 500m or 2Gi")
	}
	if q.Sign() < 0 {
		return fmt.Errorf("must not be negative")
	}
	return nil
}

func validatePercentage(s string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 || v > 100 {
		return fmt.Errorf("must be between 0 and 100")
	}
	return nil
}
