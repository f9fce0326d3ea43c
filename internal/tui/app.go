// Package tui provides the interactive Bubble Tea dashboard for finkpi.
package tui

import (
	"fmt"
	"strings"

	"github.com/finkpi/finkpi/internal/model"
	"github.com/finkpi/finkpi/internal/pipeline"
	"github.com/finkpi/finkpi/internal/store"
	"github.com/finkpi/finkpi/internal/tui/components"
	"github.com/finkpi/finkpi/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// dataLoadedMsg is sent when the pipeline finishes.
type dataLoadedMsg struct {
	records   []model.Record
	fromCache bool
}

// loadFailedMsg is sent when the pipeline fails; the dashboard shows a
// blocking error view instead of partial data.
type loadFailedMsg struct {
	err error
}

// rangePreset is a date-range filter anchored at the newest record.
type rangePreset struct {
	label  string
	months int // 0 = all data
}

var rangePresets = []rangePreset{
	{"All", 0},
	{"12m", 12},
	{"6m", 6},
	{"3m", 3},
}

// App is the root Bubble Tea model.
type App struct {
	inputPath string
	dbPath    string
	noCache   bool

	// Full enriched dataset
	records   []model.Record
	loaded    bool
	loadErr   error
	fromCache bool

	// Filter state
	departments []string // AllDepartments followed by first-seen order
	deptIdx     int
	rangeIdx    int

	// Pre-computed for the current filter
	filtered  []model.Record
	summaries []model.DepartmentSummary
	monthly   []model.MonthlyVariance
	trend     []model.TrendPoint

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	spinner   spinner.Model
}

const minTerminalWidth = 70

// NewApp creates a new dashboard model.
func NewApp(inputPath, dbPath string, noCache bool, department string, rangeMonths int) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent)

	a := App{
		inputPath:   inputPath,
		dbPath:      dbPath,
		noCache:     noCache,
		departments: []string{pipeline.AllDepartments},
		spinner:     sp,
	}
	if department != "" && department != pipeline.AllDepartments {
		// Resolved against the dataset once it loads.
		a.departments = append(a.departments, department)
		a.deptIdx = 1
	}
	for i, p := range rangePresets {
		if p.months == rangeMonths {
			a.rangeIdx = i
		}
	}
	return a
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		loadDataCmd(a.inputPath, a.dbPath, a.noCache),
		a.spinner.Tick,
	)
}

// loadDataCmd runs the pipeline off the UI loop. The cache is skipped when
// requested and silently bypassed when the store cannot be opened.
func loadDataCmd(inputPath, dbPath string, noCache bool) tea.Cmd {
	return func() tea.Msg {
		if !noCache {
			if db, err := store.Open(dbPath); err == nil {
				defer func() { _ = db.Close() }()
				if cr, err := pipeline.LoadWithCache(inputPath, db); err == nil {
					return dataLoadedMsg{records: cr.Records, fromCache: cr.FromCache}
				}
			}
		}

		res, err := pipeline.Run(inputPath)
		if err != nil {
			return loadFailedMsg{err: err}
		}
		return dataLoadedMsg{records: res.Records}
	}
}

func (a *App) recompute() {
	dept := a.departments[a.deptIdx]
	filtered := pipeline.FilterByDepartment(a.records, dept)

	if months := rangePresets[a.rangeIdx].months; months > 0 && len(a.records) > 0 {
		to := maxDate(a.records)
		from := model.Date{Time: to.AddDate(0, -months, 0)}
		filtered = pipeline.FilterByDateRange(filtered, from, to)
	}

	a.filtered = filtered
	a.summaries = pipeline.Summarize(filtered)
	a.monthly = pipeline.AggregateMonthly(filtered)
	a.trend = pipeline.AggregateTrend(filtered)
}

func maxDate(records []model.Record) model.Date {
	max := records[0].Date
	for _, r := range records[1:] {
		if r.Date.After(max) {
			max = r.Date
		}
	}
	return max
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case dataLoadedMsg:
		a.records = msg.records
		a.fromCache = msg.fromCache
		a.loaded = true

		// Rebuild the department cycle from the data, keeping a requested
		// department selected if it actually exists.
		requested := a.departments[a.deptIdx]
		a.departments = append([]string{pipeline.AllDepartments}, pipeline.Departments(a.records)...)
		a.deptIdx = 0
		for i, d := range a.departments {
			if d == requested {
				a.deptIdx = i
			}
		}

		a.recompute()
		return a, nil

	case loadFailedMsg:
		a.loadErr = msg.err
		a.loaded = true
		return a, nil

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case tea.KeyMsg:
		key := msg.String()

		if key == "ctrl+c" || key == "q" {
			return a, tea.Quit
		}

		if !a.loaded || a.loadErr != nil {
			return a, nil
		}

		if key == "?" {
			a.showHelp = !a.showHelp
			return a, nil
		}
		if a.showHelp {
			a.showHelp = false
			return a, nil
		}

		switch key {
		case "f":
			a.deptIdx = (a.deptIdx + 1) % len(a.departments)
			a.recompute()
		case "F":
			a.deptIdx = (a.deptIdx - 1 + len(a.departments)) % len(a.departments)
			a.recompute()
		case "r":
			a.rangeIdx = (a.rangeIdx + 1) % len(rangePresets)
			a.recompute()
		case "left":
			a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		case "right", "tab":
			a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		default:
			if len(key) == 1 {
				if idx := components.TabIdxByKey(rune(key[0])); idx >= 0 {
					a.activeTab = idx
				}
			}
		}
		return a, nil
	}

	return a, nil
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}

	if a.width < minTerminalWidth {
		return fmt.Sprintf("\n  Terminal too narrow (%d cols); finkpi needs at least %d.\n", a.width, minTerminalWidth)
	}

	if !a.loaded {
		return a.viewLoading()
	}

	if a.loadErr != nil {
		return a.viewError()
	}

	if a.showHelp {
		return a.viewHelp()
	}

	return a.viewMain()
}

func (a App) viewLoading() string {
	t := theme.Active

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(1, 3)

	title := lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true).Render("◈ finkpi")
	sub := lipgloss.NewStyle().Foreground(t.TextMuted).Render(" · Financial KPI Dashboard")
	body := title + sub + "\n\n" + a.spinner.View() +
		lipgloss.NewStyle().Foreground(t.TextMuted).Render(" Loading "+a.inputPath)

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card.Render(body))
}

func (a App) viewError() string {
	t := theme.Active

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Red).
		Padding(1, 3)

	title := lipgloss.NewStyle().Foreground(t.Red).Bold(true).Render("Cannot load dataset")
	body := title + "\n\n" +
		lipgloss.NewStyle().Foreground(t.TextPrimary).Render(a.loadErr.Error()) + "\n\n" +
		lipgloss.NewStyle().Foreground(t.TextMuted).Render("Check the input path, then press q to quit.")

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card.Render(body))
}

func (a App) viewHelp() string {
	t := theme.Active

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(1, 3)

	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted)

	bindings := []struct{ key, desc string }{
		{"o d v", "Jump to tab"},
		{"← → tab", "Previous / next tab"},
		{"f / F", "Cycle department filter"},
		{"r", "Cycle date range (All/12m/6m/3m)"},
		{"?", "Toggle this help"},
		{"q", "Quit"},
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true).Render("Keyboard Shortcuts"))
	b.WriteString("\n\n")
	for _, bind := range bindings {
		b.WriteString(keyStyle.Render(fmt.Sprintf("%-10s", bind.key)))
		b.WriteString(descStyle.Render(bind.desc))
		b.WriteString("\n")
	}

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card.Render(b.String()))
}

func (a App) viewMain() string {
	t := theme.Active

	var b strings.Builder

	header := lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true).Render(" ◈ finkpi") +
		lipgloss.NewStyle().Foreground(t.TextMuted).Render(" · Financial Performance")
	b.WriteString(header)
	b.WriteString("\n")
	b.WriteString(components.RenderTabBar(a.activeTab))
	b.WriteString("\n\n")

	cw := a.width - 2
	switch a.activeTab {
	case 0:
		b.WriteString(a.renderOverviewTab(cw))
	case 1:
		b.WriteString(a.renderDepartmentsTab(cw))
	case 2:
		b.WriteString(a.renderVarianceTab(cw))
	}
	b.WriteString("\n")

	filter := fmt.Sprintf("Dept: %s · Range: %s · Rows: %d",
		a.departments[a.deptIdx], rangePresets[a.rangeIdx].label, len(a.filtered))
	if a.fromCache {
		filter += " · cached"
	}
	content := b.String()

	// Pin the status bar to the bottom of the terminal.
	lines := strings.Count(content, "\n") + 1
	for i := lines; i < a.height-1; i++ {
		content += "\n"
	}
	content += components.RenderStatusBar(a.width, filter)

	return content
}
