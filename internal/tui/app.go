// internal/tui/app.go
//
// This is the TUI (Terminal User Interface) for the employee roster.
// It uses bubbletea, which follows The Elm Architecture:
//
// 1. Model: Your application state
// 2. Update: A function that updates state based on messages
// 3. View: A function that renders state to a string
//
// App is the controller. It owns the record store and the transient UI state
// (record being edited, search result) and hands the entry form and the two
// tables only what they need to render.

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/employee-roster/internal/config"
	"github.com/kingrea/employee-roster/internal/logbook"
	"github.com/kingrea/employee-roster/internal/roster"
)

// focusArea represents which part of the screen receives keys
type focusArea int

const (
	focusForm    focusArea = iota // Entry form
	focusSearch                   // Search-by-ID input
	focusResults                  // Search result table (only while a result exists)
	focusAll                      // All employees table
)

// AppOption customizes App construction for tests and alternate runtimes.
type AppOption func(*App)

// WithStore replaces the empty session store, e.g. to seed records.
func WithStore(store *roster.Store) AppOption {
	return func(a *App) {
		if store != nil {
			a.store = store
		}
	}
}

// App is the main application model. In bubbletea, this holds ALL your state.
type App struct {
	config  *config.Config
	logbook *logbook.Logbook
	store   *roster.Store

	// UI components
	form    *entryForm
	search  textinput.Model
	results *recordTable
	all     *recordTable

	// editing is the record loaded into the form, nil in add mode.
	editing *roster.Employee

	// searchResult is the outcome of the last explicit search, nil when
	// nothing was searched or nothing matched.
	searchResult *roster.Employee

	focus  focusArea
	width  int
	height int
}

// NewApp creates a new App instance
func NewApp(projectDir string, opts ...AppOption) (*App, error) {
	cfg, err := config.NewConfig(projectDir)
	if err != nil {
		return nil, err
	}
	lb, err := logbook.New(cfg.LogPath())
	if err == nil {
		lb.Info("Session opened · project: %s", cfg.ProjectDir)
	}

	search := textinput.New()
	search.Placeholder = "Search by ID"
	search.Prompt = "⌕ "
	search.Width = 24

	app := &App{
		config:  cfg,
		logbook: lb,
		store:   roster.NewStore(),
		form: newEntryForm(pickerSettings{
			startDir:   cfg.PictureStartDir(),
			types:      cfg.ImageTypes(),
			showHidden: cfg.Project.Picker.ShowHidden,
			height:     cfg.Project.Picker.Height,
		}),
		search:  search,
		results: newRecordTable(1),
		all:     newRecordTable(cfg.Project.Table.Height),
		focus:   focusForm,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(app)
		}
	}
	app.form.sync(nil)
	app.refreshTable()
	app.setFocus(focusForm)
	return app, nil
}

// Close flushes and releases the session log.
func (a *App) Close() error {
	a.logInfo("Session closed · %d employee(s) discarded", a.store.Len())
	return a.logbook.Close()
}

func (a *App) logInfo(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Info(format, args...)
}

func (a *App) logWarn(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Warn(format, args...)
}

func (a *App) logError(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Error(format, args...)
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case pictureDecodedMsg:
		a.applyPicture(msg)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.form.picking {
			return a, a.updateForm(msg)
		}
		switch msg.String() {
		case "tab":
			return a, a.cycleFocus(1)
		case "shift+tab":
			return a, a.cycleFocus(-1)
		}
		switch a.focus {
		case focusSearch:
			if msg.String() == "enter" {
				a.runSearch()
				return a, nil
			}
		case focusResults:
			return a, a.updateTable(a.results, msg)
		case focusAll:
			return a, a.updateTable(a.all, msg)
		}
	}

	// The picker's directory listings arrive as their own messages.
	if a.form.picking {
		return a, a.updateForm(msg)
	}
	switch a.focus {
	case focusForm:
		return a, a.updateForm(msg)
	case focusSearch:
		var cmd tea.Cmd
		a.search, cmd = a.search.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a *App) updateForm(msg tea.Msg) tea.Cmd {
	sub, cmd := a.form.update(msg)
	if sub != nil {
		a.handleSubmission(*sub)
	}
	return cmd
}

func (a *App) updateTable(t *recordTable, msg tea.Msg) tea.Cmd {
	intent, cmd := t.update(msg)
	switch intent.action {
	case actionEdit:
		return a.beginEdit(intent.record)
	case actionDelete:
		a.deleteRecord(intent.id)
	}
	return cmd
}

func (a *App) handleSubmission(sub formSubmission) {
	switch sub.mode.(type) {
	case editMode:
		a.updateRecord(sub.record)
	default:
		a.addRecord(sub.record)
	}
}

// addRecord appends rec to the store.
func (a *App) addRecord(rec roster.Employee) {
	a.store.Add(rec)
	a.logInfo("Employee · added %q (%d total)", rec.ID, a.store.Len())
	a.refreshTable()
}

// deleteRecord removes every record with the given id.
func (a *App) deleteRecord(id string) {
	removed := a.store.Delete(id)
	if removed == 0 {
		a.logWarn("Employee · delete %q matched nothing", id)
	} else {
		a.logInfo("Employee · delete %q removed %d", id, removed)
	}
	a.refreshTable()
}

// beginEdit loads a copy of rec into the form without touching the store.
func (a *App) beginEdit(rec roster.Employee) tea.Cmd {
	a.logInfo("Employee · editing %q", rec.ID)
	a.setEditing(&rec)
	return a.setFocus(focusForm)
}

// updateRecord replaces the records matching rec.ID and returns the form to
// add mode.
func (a *App) updateRecord(rec roster.Employee) {
	replaced := a.store.Update(rec)
	if replaced == 0 {
		a.logWarn("Employee · update %q matched nothing", rec.ID)
	} else {
		a.logInfo("Employee · update %q replaced %d", rec.ID, replaced)
	}
	a.setEditing(nil)
	a.refreshTable()
}

// setEditing is the only way the record being edited changes; the form
// recomputes its mode from it each time.
func (a *App) setEditing(rec *roster.Employee) {
	if rec != nil {
		cp := *rec
		rec = &cp
	}
	a.editing = rec
	a.form.sync(a.editing)
}

// runSearch looks up the id typed in the search box. The result is a
// snapshot and is not refreshed when the store changes.
func (a *App) runSearch() {
	id := a.search.Value()
	rec, ok := a.store.Find(id)
	if !ok {
		a.searchResult = nil
		a.results.setRecords(nil)
		a.logInfo("Search · %q not found", id)
		return
	}
	a.searchResult = &rec
	a.results.setRecords([]roster.Employee{rec})
	a.logInfo("Search · %q found", id)
}

func (a *App) applyPicture(msg pictureDecodedMsg) {
	if msg.err != nil {
		a.logError("Picture · %s unreadable: %v", msg.path, msg.err)
		return
	}
	if !a.form.applyPicture(msg) {
		a.logInfo("Picture · dropped stale decode of %s", msg.path)
		return
	}
	a.logInfo("Picture · loaded %s", msg.path)
}

func (a *App) refreshTable() {
	a.all.setRecords(a.store.All())
}

func (a *App) focusOrder() []focusArea {
	order := []focusArea{focusForm, focusSearch}
	if a.searchResult != nil {
		order = append(order, focusResults)
	}
	return append(order, focusAll)
}

func (a *App) cycleFocus(step int) tea.Cmd {
	order := a.focusOrder()
	idx := 0
	for i, area := range order {
		if area == a.focus {
			idx = i
			break
		}
	}
	idx = (idx + step + len(order)) % len(order)
	return a.setFocus(order[idx])
}

func (a *App) setFocus(area focusArea) tea.Cmd {
	if area == focusResults && a.searchResult == nil {
		area = focusSearch
	}
	a.focus = area
	a.form.blur()
	a.search.Blur()
	a.results.blur()
	a.all.blur()
	switch area {
	case focusForm:
		return a.form.focus()
	case focusSearch:
		return a.search.Focus()
	case focusResults:
		a.results.focus()
	case focusAll:
		a.all.focus()
	}
	return nil
}

var (
	headerStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B")).MarginBottom(1)
	sectionTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	footerStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).MarginTop(1)
)

// View renders the current state to a string.
func (a *App) View() string {
	sections := []string{
		headerStyle.Render("⬡ EMPLOYEE MANAGEMENT SYSTEM"),
		a.box(a.form.view(), a.focus == focusForm),
		a.box(a.search.View(), a.focus == focusSearch),
	}
	if a.searchResult != nil {
		sections = append(sections, a.box(lipgloss.JoinVertical(lipgloss.Left,
			sectionTitleStyle.Render("Search Result"),
			a.results.view(""),
		), a.focus == focusResults))
	}
	sections = append(sections, a.box(lipgloss.JoinVertical(lipgloss.Left,
		sectionTitleStyle.Render(fmt.Sprintf("All Employees (%d)", a.all.len())),
		a.all.view("No employees yet."),
	), a.focus == focusAll))
	sections = append(sections, footerStyle.Render(a.hint()))
	return strings.Join(sections, "\n")
}

func (a *App) box(content string, focused bool) string {
	border := lipgloss.Color("#444444")
	if focused {
		border = lipgloss.Color("#5B8DEF")
	}
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1)
	if a.width > 4 {
		style = style.Width(a.width - 4)
	}
	return style.Render(content)
}

func (a *App) hint() string {
	switch {
	case a.form.picking:
		return "↑/↓ → browse    Enter → choose    q → cancel"
	case a.focus == focusForm:
		return "↑/↓ → field    Enter/ctrl+s → submit    Tab → next panel    ctrl+c → quit"
	case a.focus == focusSearch:
		return "Enter → search    Tab → next panel    ctrl+c → quit"
	default:
		return "↑/↓ → row    e → edit    d → delete    Tab → next panel    ctrl+c → quit"
	}
}
