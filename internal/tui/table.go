package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/kingrea/employee-roster/internal/roster"
)

type rowAction int

const (
	actionNone rowAction = iota
	actionEdit
	actionDelete
)

// rowIntent is what a table asks the controller to do. Edit carries the
// whole record, delete only the id.
type rowIntent struct {
	action rowAction
	record roster.Employee
	id     string
}

var tableColumns = []table.Column{
	{Title: "ID", Width: 6},
	{Title: "Name", Width: 12},
	{Title: "Surname", Width: 12},
	{Title: "Position", Width: 14},
	{Title: "Picture", Width: 14},
	{Title: "Email", Width: 22},
	{Title: "Phone", Width: 14},
}

var tableEmptyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))

// recordTable renders records as rows in the order given. It never sorts or
// filters; callers pass exactly what should be shown.
type recordTable struct {
	model   table.Model
	records []roster.Employee
}

// newRecordTable builds a table showing rows visible records below its
// header.
func newRecordTable(rows int) *recordTable {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#5B8DEF")).
		Bold(false)
	// bubbles sizes the row area as height minus the rendered header, so
	// styles must be set first and the header added back in.
	headerHeight := lipgloss.Height(styles.Header.Render(tableColumns[0].Title))
	model := table.New(
		table.WithColumns(tableColumns),
		table.WithStyles(styles),
		table.WithHeight(rows+headerHeight),
	)
	return &recordTable{model: model}
}

func (t *recordTable) setRecords(records []roster.Employee) {
	t.records = append([]roster.Employee(nil), records...)
	rows := make([]table.Row, len(t.records))
	for i, rec := range t.records {
		rows[i] = table.Row{
			rec.ID,
			rec.Name,
			rec.Surname,
			rec.Position,
			pictureLabel(rec.ProfilePicture),
			rec.Email,
			rec.Phone,
		}
	}
	t.model.SetRows(rows)
	if len(rows) > 0 && t.model.Cursor() >= len(rows) {
		t.model.SetCursor(len(rows) - 1)
	}
}

func (t *recordTable) len() int { return len(t.records) }

func (t *recordTable) focus() { t.model.Focus() }

func (t *recordTable) blur() { t.model.Blur() }

func (t *recordTable) selected() (roster.Employee, bool) {
	idx := t.model.Cursor()
	if idx < 0 || idx >= len(t.records) {
		return roster.Employee{}, false
	}
	return t.records[idx], true
}

// update maps row action keys to intents and forwards everything else to the
// underlying table for navigation.
func (t *recordTable) update(msg tea.Msg) (rowIntent, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && t.model.Focused() {
		switch key.String() {
		case "e", "enter":
			if rec, ok := t.selected(); ok {
				return rowIntent{action: actionEdit, record: rec}, nil
			}
			return rowIntent{}, nil
		case "d", "x", "delete":
			if rec, ok := t.selected(); ok {
				return rowIntent{action: actionDelete, id: rec.ID}, nil
			}
			return rowIntent{}, nil
		}
	}
	var cmd tea.Cmd
	t.model, cmd = t.model.Update(msg)
	return rowIntent{}, cmd
}

func (t *recordTable) view(emptyNote string) string {
	view := t.model.View()
	if len(t.records) == 0 && emptyNote != "" {
		view = lipgloss.JoinVertical(lipgloss.Left, view, tableEmptyStyle.Render(emptyNote))
	}
	return view
}

// pictureLabel summarises a profile picture for a table cell.
func pictureLabel(value string) string {
	if value == "" {
		return "none"
	}
	mediaType, size, ok := roster.PictureInfo(value)
	if !ok {
		return "set"
	}
	kind := strings.TrimPrefix(mediaType, "image/")
	if kind == "" {
		kind = "data"
	}
	return fmt.Sprintf("%s %s", kind, humanize.Bytes(uint64(size)))
}
