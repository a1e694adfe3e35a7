// ABOUTME: Root bubbletea model for the node capacity TUI
// ABOUTME: Owns the calculations, routes keys, and frames the wizard and placement screens

package tui

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/markalston/node-capacity-planner/backend/models"
	"github.com/markalston/node-capacity-planner/backend/services"
	"github.com/markalston/node-capacity-planner/cli/internal/tui/icons"
	"github.com/markalston/node-capacity-planner/cli/internal/tui/placement"
	"github.com/markalston/node-capacity-planner/cli/internal/tui/styles"
	"github.com/markalston/node-capacity-planner/cli/internal/tui/wizard"
)

// Screen represents the current TUI screen
type Screen int

const (
	ScreenLoading Screen = iota
	ScreenWizard
	ScreenResults
)

// Layout constants
const (
	minTerminalWidth = 80 // frame never renders narrower than this
	panelPadding     = 6  // panel border plus horizontal padding
)

// Planner is what the TUI needs from a backend: the instance catalog and single plans
type Planner interface {
	Catalog(ctx context.Context) ([]models.InstanceSpec, error)
	Plan(ctx context.Context, req models.PlanRequest) (*models.PlanResult, error)
}

// calculation is one sizing session on screen. seq fixes its color and is never reused.
type calculation struct {
	seq     int
	title   string
	color   string
	request models.PlanRequest
	result  *models.PlanResult
	err     error
	view    *placement.View
}

// catalogLoadedMsg is sent when the instance catalog arrives
type catalogLoadedMsg struct {
	specs []models.InstanceSpec
	err   error
}

// planComputedMsg is sent when a calculation's plan comes back
type planComputedMsg struct {
	seq    int
	result *models.PlanResult
	err    error
}

// App is the root model for the TUI
type App struct {
	planner    Planner
	source     string
	screen     Screen
	width      int
	height     int
	err        error
	catalog    []models.InstanceSpec
	calcs      []*calculation
	active     int
	nextSeq    int
	editing    *calculation
	lastUpdate time.Time

	wizardScreen *wizard.Wizard
	keys         keyMap
	help         help.Model
}

// New creates a new TUI application. source names the backend in the header.
func New(planner Planner, source string) *App {
	return &App{
		planner: planner,
		source:  source,
		screen:  ScreenLoading,
		nextSeq: 1,
		keys:    defaultKeyMap(),
		help:    help.New(),
	}
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return a.loadCatalog()
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		for _, c := range a.calcs {
			if c.view != nil {
				c.view.SetWidth(a.contentWidth())
			}
		}
		if a.wizardScreen != nil {
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
		case ScreenResults:
			return a.updateResults(msg)
		case ScreenLoading:
			if key.Matches(msg, a.keys.Quit) {
				return a, tea.Quit
			}
		}
		return a, nil

	case catalogLoadedMsg:
		if msg.err != nil {
			a.err = msg.err
			a.screen = ScreenResults
			return a, nil
		}
		a.catalog = msg.specs
		return a, a.runWizard(nil)

	case wizard.WizardCompleteMsg:
		return a.handleWizardComplete(msg)

	case wizard.WizardCancelledMsg:
		a.wizardScreen = nil
		a.editing = nil
		a.screen = ScreenResults
		return a, nil

	case planComputedMsg:
		a.handlePlanComputed(msg)
		return a, nil

	default:
		// huh forms drive themselves with internal messages
		if a.screen == ScreenWizard && a.wizardScreen != nil {
			return a.updateWizard(msg)
		}
	}

	return a, nil
}

func (a *App) updateResults(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(msg, a.keys.Add):
		return a, a.runWizard(nil)
	case key.Matches(msg, a.keys.Edit):
		if c := a.activeCalc(); c != nil {
			return a, a.runWizard(c)
		}
	case key.Matches(msg, a.keys.Remove):
		a.removeActive()
	case key.Matches(msg, a.keys.Next):
		if len(a.calcs) > 0 {
			a.active = (a.active + 1) % len(a.calcs)
		}
	case key.Matches(msg, a.keys.Prev):
		if len(a.calcs) > 0 {
			a.active = (a.active - 1 + len(a.calcs)) % len(a.calcs)
		}
	case key.Matches(msg, a.keys.NextPage):
		if c := a.activeCalc(); c != nil && c.view != nil {
			c.view.NextPage()
		}
	case key.Matches(msg, a.keys.PrevPage):
		if c := a.activeCalc(); c != nil && c.view != nil {
			c.view.PrevPage()
		}
	case key.Matches(msg, a.keys.Refresh):
		cmds := make([]tea.Cmd, 0, len(a.calcs))
		for _, c := range a.calcs {
			cmds = append(cmds, a.computePlan(c))
		}
		return a, tea.Batch(cmds...)
	case key.Matches(msg, a.keys.Help):
		a.help.ShowAll = !a.help.ShowAll
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

// handleWizardComplete stores the inputs on the calculation being edited, or adds a new one
func (a *App) handleWizardComplete(msg wizard.WizardCompleteMsg) (tea.Model, tea.Cmd) {
	a.wizardScreen = nil
	a.screen = ScreenResults

	c := a.editing
	a.editing = nil
	if c == nil {
		c = &calculation{
			seq:   a.nextSeq,
			color: services.CalculatorColor(a.nextSeq),
		}
		a.nextSeq++
		a.calcs = append(a.calcs, c)
		a.active = len(a.calcs) - 1
	}

	c.title = msg.Title
	if c.title == "" {
		c.title = fmt.Sprintf("%s %d", services.DefaultCalculatorTitle, c.seq)
	}
	c.request = msg.Request
	return a, a.computePlan(c)
}

// handlePlanComputed attaches a plan to its calculation unless it was removed meanwhile
func (a *App) handlePlanComputed(msg planComputedMsg) {
	c := a.findCalc(msg.seq)
	if c == nil {
		return
	}
	c.err = msg.err
	if msg.err != nil {
		log.Printf("plan for calculation %d failed: %v", msg.seq, msg.err)
		return
	}
	c.result = msg.result
	c.view = placement.New(c.title, c.color, c.result, a.contentWidth())
	a.lastUpdate = time.Now()
}

func (a *App) removeActive() {
	if len(a.calcs) == 0 {
		return
	}
	a.calcs = append(a.calcs[:a.active], a.calcs[a.active+1:]...)
	if a.active >= len(a.calcs) {
		a.active = max(len(a.calcs)-1, 0)
	}
}

func (a *App) activeCalc() *calculation {
	if a.active < 0 || a.active >= len(a.calcs) {
		return nil
	}
	return a.calcs[a.active]
}

func (a *App) findCalc(seq int) *calculation {
	for _, c := range a.calcs {
		if c.seq == seq {
			return c
		}
	}
	return nil
}

// View implements tea.Model
func (a *App) View() string {
	var content string

	switch a.screen {
	case ScreenLoading:
		content = styles.Subtitle.Render("Loading instance catalog...")
	case ScreenWizard:
		content = a.viewWizard()
	case ScreenResults:
		content = a.viewResults()
	}

	return a.wrapWithFrame(content)
}

func (a *App) viewWizard() string {
	if a.wizardScreen != nil {
		return a.wizardScreen.View()
	}
	return ""
}

// viewResults renders the calculation tabs above the active calculation's placement
func (a *App) viewResults() string {
	if a.err != nil {
		return styles.StatusCritical.Render("Error: " + a.err.Error())
	}
	if len(a.calcs) == 0 {
		return styles.Subtitle.Render("No calculations. Press ") +
			styles.KeyStyle.Render("a") +
			styles.Subtitle.Render(" to add one.")
	}

	var sb strings.Builder
	sb.WriteString(a.renderTabs())
	sb.WriteString("\n")

	c := a.activeCalc()
	var body string
	switch {
	case c.err != nil:
		body = styles.StatusCritical.Render("Error: " + c.err.Error())
	case c.view == nil:
		body = styles.Subtitle.Render("Planning " + c.title + "...")
	default:
		body = c.view.View()
	}
	sb.WriteString(styles.CalculatorPanel(c.color, true).Width(a.contentWidth() + 4).Render(body))

	if a.help.ShowAll {
		sb.WriteString("\n")
		sb.WriteString(a.help.FullHelpView(a.keys.FullHelp()))
	}
	return sb.String()
}

// renderTabs lists calculations in creation order, each in its own color
func (a *App) renderTabs() string {
	tabs := make([]string, 0, len(a.calcs))
	for i, c := range a.calcs {
		label := icons.Pod.String() + " " + c.title
		if c.result != nil {
			label += fmt.Sprintf(" (%d)", c.result.RequiredNodeCount)
		}
		style := styles.Calculator(c.color).Padding(0, 1)
		if i == a.active {
			style = style.Bold(true).Underline(true)
		} else {
			style = style.Faint(true)
		}
		tabs = append(tabs, style.Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// frameWidth is one less than the terminal so the right border never wraps
func (a *App) frameWidth() int {
	return max(a.width-1, minTerminalWidth)
}

// contentWidth is the width available inside the results panel
func (a *App) contentWidth() int {
	return a.frameWidth() - panelPadding
}

// renderHeader creates the header bar with app branding and backend context
func (a *App) renderHeader() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	contextStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	left := fmt.Sprintf(" %s %s ", icons.App.String(), titleStyle.Render("Node Capacity Planner"))

	right := ""
	if a.source != "" {
		right = " " + contextStyle.Render(a.source) + " "
	}

	fillWidth := max(0, width-4-lipgloss.Width(left)-lipgloss.Width(right))
	return borderStyle.Render("╭─") + left + borderStyle.Render(strings.Repeat("─", fillWidth)) + right + borderStyle.Render("─╮")
}

// renderFooter creates the footer with keyboard shortcuts and status
func (a *App) renderFooter() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	statusStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	right := ""
	if !a.lastUpdate.IsZero() && a.screen == ScreenResults {
		right = " " + statusStyle.Render("Planned "+formatTimeSince(a.lastUpdate)) + " "
	}

	var left string
	switch a.screen {
	case ScreenWizard:
		keyStyle := lipgloss.NewStyle().Foreground(styles.Primary)
		labelStyle := lipgloss.NewStyle().Foreground(styles.Muted)
		left = " " + keyStyle.Render("↑↓") + " " + labelStyle.Render("Select") + "  " +
			keyStyle.Render("Enter") + " " + labelStyle.Render("Confirm") + "  " +
			keyStyle.Render("Esc") + " " + labelStyle.Render("Cancel") + " "
	case ScreenResults:
		a.help.Width = max(0, width-6-lipgloss.Width(right))
		left = " " + a.help.ShortHelpView(a.keys.ShortHelp()) + " "
	default:
		left = " " + a.help.ShortHelpView([]key.Binding{a.keys.Quit}) + " "
	}

	fillWidth := max(0, width-4-lipgloss.Width(left)-lipgloss.Width(right))
	return borderStyle.Render("╰─") + left + borderStyle.Render(strings.Repeat("─", fillWidth)) + right + borderStyle.Render("─╯")
}

// formatTimeSince formats a duration since the given time in human-readable form
func formatTimeSince(t time.Time) string {
	d := time.Since(t)

	switch {
	case d < 5*time.Second:
		return "just now"
	case d < time.Minute:
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	default:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	}
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

// loadCatalog fetches the instance types the wizard offers
func (a *App) loadCatalog() tea.Cmd {
	return func() tea.Msg {
		specs, err := a.planner.Catalog(context.Background())
		return catalogLoadedMsg{specs: specs, err: err}
	}
}

// runWizard opens the wizard for c, or for a new calculation when c is nil
func (a *App) runWizard(c *calculation) tea.Cmd {
	a.editing = c
	if c != nil {
		a.wizardScreen = wizard.New(c.title, c.request, a.catalog)
	} else {
		title := fmt.Sprintf("%s %d", services.DefaultCalculatorTitle, a.nextSeq)
		a.wizardScreen = wizard.New(title, models.DefaultPlanRequest(), a.catalog)
	}
	a.wizardScreen.SetWidth(a.frameWidth() - 1)
	a.screen = ScreenWizard
	return a.wizardScreen.Init()
}

// computePlan asks the planner for c's plan. The result is keyed by seq, not pointer,
// so a calculation removed while planning is simply dropped.
func (a *App) computePlan(c *calculation) tea.Cmd {
	seq, req := c.seq, c.request
	return func() tea.Msg {
		result, err := a.planner.Plan(context.Background(), req)
		if err == nil && result.InstanceType == "" {
			result.InstanceType = req.InstanceType
		}
		return planComputedMsg{seq: seq, result: result, err: err}
	}
}

// Run starts the TUI. With NODE_CAPACITY_DEBUG_LOG set, log output goes to that file;
// otherwise it is discarded.
func Run(planner Planner, source string) error {
	if path := os.Getenv("NODE_CAPACITY_DEBUG_LOG"); path != "" {
		f, err := tea.LogToFile(path, "tui")
		if err != nil {
			return fmt.Errorf("failed to open debug log: %w", err)
		}
		defer f.Close()
	} else {
		// stderr writes would tear the alt screen
		log.SetOutput(io.Discard)
	}

	p := tea.NewProgram(
		New(planner, source),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
