// Package tui provides the Bubble Tea launch dashboard.
package tui

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/launchdash/internal/dataset"
	"github.com/verte-zerg/launchdash/internal/model"
	"github.com/verte-zerg/launchdash/internal/reactive"
	"github.com/verte-zerg/launchdash/internal/render"
)

const (
	tabPie = iota
	tabScatter
	tabSites
)

const (
	plotHeight   = 10
	pieBarWidth  = 30
	defaultWidth = 80
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	chartStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	tableMuted   = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	controlStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
)

// Model implements the Bubble Tea dashboard.
type Model struct {
	dash *reactive.Dashboard

	pie     model.PieChart
	scatter model.ScatterChart
	errMsg  string

	tabs      []string
	activeTab int
	viewports []viewport.Model
	siteTable table.Model

	width  int
	height int

	rangeMode   bool
	rangeInputs []textinput.Model
	rangeIndex  int
	rangeError  string
}

// NewModel constructs a dashboard model for ds.
func NewModel(ds *dataset.Dataset) *Model {
	m := &Model{
		dash: reactive.New(ds),
		tabs: []string{"Success Pie", "Payload Scatter", "Sites"},
	}
	reactive.Wire(m.dash,
		func(p model.PieChart) {
			m.pie = p
			m.renderPie()
		},
		func(s model.ScatterChart) {
			m.scatter = s
			m.renderScatter()
		},
	)
	m.initViewports()
	m.initRangeInputs()
	m.initSiteTable()
	m.dash.Refresh()
	return m
}

// State returns the current control values.
func (m *Model) State() reactive.State {
	return m.dash.State()
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderPie()
		m.renderScatter()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.rangeMode {
			return m.updateRangeForm(msg)
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "[":
			m.nudge(false, -1)
			return m, nil
		case "]":
			m.nudge(false, 1)
			return m, nil
		case "{":
			m.nudge(true, -1)
			return m, nil
		case "}":
			m.nudge(true, 1)
			return m, nil
		case "r":
			m.errMsg = ""
			m.dash.ResetRange()
			return m, nil
		case "/":
			return m.startRangeForm()
		}
		if m.activeTab == tabSites {
			return m.updateSites(msg)
		}
		switch msg.String() {
		case "up", "k":
			m.cycleSite(-1)
			return m, nil
		case "down", "j":
			m.cycleSite(1)
			return m, nil
		case "g", "home":
			m.viewports[m.activeTab].GotoTop()
			return m, nil
		case "G", "end":
			m.viewports[m.activeTab].GotoBottom()
			return m, nil
		default:
			vp := m.viewports[m.activeTab]
			var cmd tea.Cmd
			vp, cmd = vp.Update(msg)
			m.viewports[m.activeTab] = vp
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) initViewports() {
	m.viewports = make([]viewport.Model, 2)
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
}

func (m *Model) initRangeInputs() {
	m.rangeInputs = []textinput.Model{
		newRangeInput("Low (kg): "),
		newRangeInput("High (kg): "),
	}
}

func newRangeInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 12
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) initSiteTable() {
	columns := []table.Column{
		{Title: "Option", Width: 10},
		{Title: "Site", Width: 16},
		{Title: "Launches", Width: 8},
		{Title: "Successes", Width: 9},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(siteRows(m.dash)),
		table.WithHeight(8),
	)
	t.SetStyles(siteTableStyles())
	m.siteTable = t
}

func siteRows(d *reactive.Dashboard) []table.Row {
	stats := map[string]dataset.SiteStat{}
	var all dataset.SiteStat
	for _, st := range d.Dataset().SiteStats() {
		stats[st.Site] = st
		all.Launches += st.Launches
		all.Successes += st.Successes
	}
	stats[model.AllSites] = all

	opts := d.Layout().Dropdown.Options
	rows := make([]table.Row, 0, len(opts))
	for _, opt := range opts {
		st := stats[opt.Value]
		rows = append(rows, table.Row{
			opt.Label,
			opt.Value,
			strconv.Itoa(st.Launches),
			strconv.Itoa(st.Successes),
		})
	}
	return rows
}

func siteTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 2
	footerHeight = 1
	if !m.rangeMode && m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = bodyHeight
	}
	m.siteTable.SetWidth(m.width)
	m.siteTable.SetHeight(maxInt(1, bodyHeight-1))
	for i := range m.rangeInputs {
		promptWidth := lipgloss.Width(m.rangeInputs[i].Prompt)
		m.rangeInputs[i].Width = maxInt(10, m.width-promptWidth-2)
	}
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
	if m.activeTab == tabSites {
		m.siteTable.Focus()
	} else {
		m.siteTable.Blur()
	}
}

// cycleSite moves the dropdown selection by delta options, wrapping around.
func (m *Model) cycleSite(delta int) {
	opts := m.dash.Layout().Dropdown.Options
	if len(opts) == 0 {
		return
	}
	current := 0
	site := m.dash.State().Site
	for i, opt := range opts {
		if opt.Value == site {
			current = i
			break
		}
	}
	next := (current + delta + len(opts)) % len(opts)
	m.selectSite(opts[next].Value)
	m.siteTable.SetCursor(next)
}

func (m *Model) selectSite(site string) {
	if err := m.dash.SetSite(site); err != nil {
		m.errMsg = err.Error()
		return
	}
	m.errMsg = ""
}

func (m *Model) nudge(high bool, steps int) {
	slider := m.dash.Layout().Slider
	next := slider.Nudge(m.dash.State().Range, high, steps)
	if err := m.dash.SetRange(next); err != nil {
		m.errMsg = err.Error()
		return
	}
	m.errMsg = ""
}

func (m *Model) updateSites(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEnter {
		opts := m.dash.Layout().Dropdown.Options
		if idx := m.siteTable.Cursor(); idx >= 0 && idx < len(opts) {
			m.selectSite(opts[idx].Value)
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.siteTable, cmd = m.siteTable.Update(msg)
	return m, cmd
}

func (m *Model) startRangeForm() (tea.Model, tea.Cmd) {
	m.rangeMode = true
	m.rangeError = ""
	r := m.dash.State().Range
	m.rangeInputs[0].SetValue(formatKg(r.Low))
	m.rangeInputs[1].SetValue(formatKg(r.High))
	return m, m.setRangeIndex(0)
}

func (m *Model) updateRangeForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.rangeMode = false
		m.rangeError = ""
		return m, nil
	case tea.KeyEnter:
		if err := m.applyRangeForm(); err != nil {
			m.rangeError = err.Error()
			return m, nil
		}
		m.rangeMode = false
		m.rangeError = ""
		m.errMsg = ""
		return m, nil
	case tea.KeyTab, tea.KeyDown:
		return m, m.setRangeIndex(m.rangeIndex + 1)
	case tea.KeyShiftTab, tea.KeyUp:
		return m, m.setRangeIndex(m.rangeIndex - 1)
	}
	var cmd tea.Cmd
	m.rangeInputs[m.rangeIndex], cmd = m.rangeInputs[m.rangeIndex].Update(msg)
	return m, cmd
}

func (m *Model) setRangeIndex(idx int) tea.Cmd {
	count := len(m.rangeInputs)
	if idx < 0 {
		idx = count - 1
	}
	if idx >= count {
		idx = 0
	}
	m.rangeIndex = idx
	var cmd tea.Cmd
	for i := range m.rangeInputs {
		if i == m.rangeIndex {
			cmd = m.rangeInputs[i].Focus()
		} else {
			m.rangeInputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) applyRangeForm() error {
	low, err := parseKg(m.rangeInputs[0].Value())
	if err != nil {
		return fmt.Errorf("invalid low value (use a number)")
	}
	high, err := parseKg(m.rangeInputs[1].Value())
	if err != nil {
		return fmt.Errorf("invalid high value (use a number)")
	}
	return m.dash.SetRange(model.PayloadRange{Low: low, High: high})
}

func parseKg(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not a finite number: %q", raw)
	}
	return v, nil
}

func formatKg(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	title := titleStyle.Render(truncateLine(m.dash.Layout().Title, m.width))
	tabs := padLines(m.renderTabs(), m.width)
	controls := padLines(m.renderControls(), m.width)
	return title + "\n" + tabs + "\n" + controls
}

func (m *Model) renderControls() string {
	st := m.dash.State()
	label := st.Site
	for _, opt := range m.dash.Layout().Dropdown.Options {
		if opt.Value == st.Site {
			label = fmt.Sprintf("%s (%s)", opt.Label, opt.Value)
			break
		}
	}
	line := fmt.Sprintf("Site: %s  %s %s - %s",
		label, m.dash.Layout().RangeCaption, formatKg(st.Range.Low), formatKg(st.Range.High))
	return controlStyle.Render(truncateLine(line, m.width))
}

func (m *Model) renderHelp() string {
	help := "Tabs: left/right  Site: up/down  Low: [/]  High: {/}  Range: /  Reset: r  Quit: q"
	if m.activeTab == tabSites {
		help = "Tabs: left/right  Move: up/down  Select: enter  Low: [/]  High: {/}  Range: /  Quit: q"
	}
	return headerStyle.Render(truncateLine(help, m.width))
}

func (m *Model) renderFooter() string {
	if m.rangeMode {
		return headerStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel")
	}
	if m.errMsg != "" {
		return m.renderHelp() + "\n" + errorStyle.Render(m.errMsg)
	}
	return m.renderHelp()
}

func (m *Model) renderRangeForm() string {
	lines := []string{"Payload range (enter to apply, esc to cancel)"}
	for _, input := range m.rangeInputs {
		lines = append(lines, input.View())
	}
	if m.rangeError != "" {
		lines = append(lines, errorStyle.Render(m.rangeError))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderBody(height int) string {
	if m.rangeMode {
		return fitLines(m.renderRangeForm(), m.width, height)
	}
	if m.activeTab == tabSites {
		return fitLines(tableMuted.Render(m.siteTable.View()), m.width, height)
	}
	return fitLines(m.viewports[m.activeTab].View(), m.width, height)
}

func (m *Model) contentWidth() int {
	if m.width <= 0 {
		return defaultWidth
	}
	return m.width
}

func (m *Model) renderPie() {
	if len(m.viewports) == 0 {
		return
	}
	m.viewports[tabPie].SetContent(renderPieContent(m.pie))
}

func (m *Model) renderScatter() {
	if len(m.viewports) == 0 {
		return
	}
	r := m.dash.State().Range
	m.viewports[tabScatter].SetContent(renderScatterContent(m.scatter, r, m.contentWidth()))
}

func renderPieContent(p model.PieChart) string {
	var buf bytes.Buffer
	if err := render.PieTable(&buf, p, pieBarWidth); err != nil {
		return fmt.Sprintf("Failed to render pie chart: %v", err)
	}
	return chartStyle.Render(strings.TrimRight(buf.String(), "\n"))
}

func renderScatterContent(s model.ScatterChart, r model.PayloadRange, width int) string {
	var buf bytes.Buffer
	if err := render.ScatterPlotWithColor(&buf, s, r, render.PlotWidthFor(width), plotHeight, true); err != nil {
		return fmt.Sprintf("Failed to render scatter chart: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

// Run starts the dashboard on the terminal.
func Run(ds *dataset.Dataset) error {
	p := tea.NewProgram(NewModel(ds), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
