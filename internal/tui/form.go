package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/employee-roster/internal/roster"
)

// formMode is either addMode or editMode. It is recomputed from the
// controller's "record being edited" by entryForm.sync and never changes on
// its own.
type formMode interface {
	submitLabel() string
}

type addMode struct{}

type editMode struct {
	original roster.Employee
}

func (addMode) submitLabel() string  { return "Add Employee" }
func (editMode) submitLabel() string { return "Update Employee" }

// formSubmission is what the form hands the controller on submit.
type formSubmission struct {
	record roster.Employee
	mode   formMode
}

// pictureDecodedMsg reports a finished picture read. gen ties it to the
// selection that started it.
type pictureDecodedMsg struct {
	gen     uint64
	path    string
	dataURL string
	err     error
}

type pickerSettings struct {
	startDir   string
	types      []string
	showHidden bool
	height     int
}

type formRow struct {
	field roster.Field
	input textinput.Model
}

type entryForm struct {
	rows    []formRow
	cursor  int
	focused bool
	draft   roster.Employee
	mode    formMode

	settings pickerSettings
	picker   filepicker.Model
	picking  bool

	// pictureGen is bumped on every selection, reset and sync. Only the
	// decode carrying the current value may touch the draft.
	pictureGen uint64
}

var (
	formLabelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA")).Width(17)
	formCursorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF")).Bold(true)
	formTitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	formButtonStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#5B8DEF")).Padding(0, 2)
	formHintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	formPictureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50"))
)

func newEntryForm(settings pickerSettings) *entryForm {
	f := &entryForm{settings: settings, mode: addMode{}}
	for _, field := range roster.Fields {
		row := formRow{field: field}
		if field != roster.FieldProfilePicture {
			in := textinput.New()
			in.Prompt = ""
			in.Placeholder = strings.ToLower(field.Label())
			in.Width = 32
			row.input = in
		}
		f.rows = append(f.rows, row)
	}
	return f
}

// sync recomputes the mode from the record being edited and loads the
// matching draft. editing == nil selects add mode with a blank draft.
func (f *entryForm) sync(editing *roster.Employee) {
	if editing == nil {
		f.mode = addMode{}
		f.load(roster.Employee{})
		return
	}
	f.mode = editMode{original: *editing}
	f.load(*editing)
}

// submit returns the draft with the mode it was entered in and resets the
// draft to blank. The mode itself stays until the controller syncs.
func (f *entryForm) submit() formSubmission {
	sub := formSubmission{record: f.draft, mode: f.mode}
	f.load(roster.Employee{})
	return sub
}

func (f *entryForm) load(rec roster.Employee) {
	f.draft = rec
	f.pictureGen++
	f.picking = false
	for i := range f.rows {
		if f.rows[i].field == roster.FieldProfilePicture {
			continue
		}
		f.rows[i].input.SetValue(rec.Get(f.rows[i].field))
	}
}

func (f *entryForm) focus() tea.Cmd {
	f.focused = true
	return f.focusRow(f.cursor)
}

func (f *entryForm) blur() {
	f.focused = false
	for i := range f.rows {
		f.rows[i].input.Blur()
	}
}

func (f *entryForm) focusRow(idx int) tea.Cmd {
	if idx < 0 {
		idx = len(f.rows) - 1
	}
	if idx >= len(f.rows) {
		idx = 0
	}
	f.cursor = idx
	var cmd tea.Cmd
	for i := range f.rows {
		if i == idx && f.focused && f.rows[i].field != roster.FieldProfilePicture {
			cmd = f.rows[i].input.Focus()
			continue
		}
		f.rows[i].input.Blur()
	}
	return cmd
}

func (f *entryForm) onPictureRow() bool {
	return f.rows[f.cursor].field == roster.FieldProfilePicture
}

// update handles one message. A non-nil submission means the user submitted
// the form; the draft has already been reset.
func (f *entryForm) update(msg tea.Msg) (*formSubmission, tea.Cmd) {
	if f.picking {
		return nil, f.updatePicker(msg)
	}
	if key, ok := msg.(tea.KeyMsg); ok && f.focused {
		switch key.String() {
		case "up":
			return nil, f.focusRow(f.cursor - 1)
		case "down":
			return nil, f.focusRow(f.cursor + 1)
		case "ctrl+s":
			sub := f.submit()
			return &sub, nil
		case "enter":
			if f.onPictureRow() {
				return nil, f.openPicker()
			}
			sub := f.submit()
			return &sub, nil
		}
	}
	if f.onPictureRow() {
		return nil, nil
	}
	row := &f.rows[f.cursor]
	var cmd tea.Cmd
	row.input, cmd = row.input.Update(msg)
	f.draft.Set(row.field, row.input.Value())
	return nil, cmd
}

func (f *entryForm) openPicker() tea.Cmd {
	fp := filepicker.New()
	fp.CurrentDirectory = f.settings.startDir
	fp.AllowedTypes = withUpperCase(f.settings.types)
	fp.ShowHidden = f.settings.showHidden
	fp.AutoHeight = false
	fp.Height = f.settings.height
	f.picker = fp
	f.picking = true
	return f.picker.Init()
}

// withUpperCase adds the upper-case spelling of every extension. The picker
// matches suffixes case-sensitively and PHOTO.JPG is as common as photo.jpg.
func withUpperCase(types []string) []string {
	out := make([]string, 0, 2*len(types))
	for _, ext := range types {
		out = append(out, ext)
		if upper := strings.ToUpper(ext); upper != ext {
			out = append(out, upper)
		}
	}
	return out
}

func (f *entryForm) updatePicker(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "q" {
		f.picking = false
		return nil
	}
	var cmd tea.Cmd
	f.picker, cmd = f.picker.Update(msg)
	if selected, path := f.picker.DidSelectFile(msg); selected {
		f.picking = false
		return f.decodePicture(path)
	}
	return cmd
}

// decodePicture reads path in the background. Any earlier decode still in
// flight becomes stale.
func (f *entryForm) decodePicture(path string) tea.Cmd {
	f.pictureGen++
	gen := f.pictureGen
	return func() tea.Msg {
		dataURL, err := roster.EncodePicture(path)
		return pictureDecodedMsg{gen: gen, path: path, dataURL: dataURL, err: err}
	}
}

// applyPicture writes a finished decode into the draft. It reports false for
// stale or failed decodes, which leave the draft untouched.
func (f *entryForm) applyPicture(msg pictureDecodedMsg) bool {
	if msg.gen != f.pictureGen || msg.err != nil {
		return false
	}
	f.draft.ProfilePicture = msg.dataURL
	return true
}

func (f *entryForm) view() string {
	title := "New Employee"
	if edit, ok := f.mode.(editMode); ok {
		title = fmt.Sprintf("Editing Employee %q", edit.original.ID)
	}
	lines := []string{formTitleStyle.Render(title)}
	for i, row := range f.rows {
		marker := "  "
		if f.focused && i == f.cursor {
			marker = formCursorStyle.Render("▸ ")
		}
		var value string
		if row.field == roster.FieldProfilePicture {
			value = f.pictureView()
		} else {
			value = row.input.View()
		}
		lines = append(lines, marker+formLabelStyle.Render(row.field.Label()+":")+value)
		if row.field == roster.FieldProfilePicture && f.picking {
			lines = append(lines, f.picker.View(), formHintStyle.Render("Enter → choose    q → cancel"))
		}
	}
	lines = append(lines, "", formButtonStyle.Render(f.mode.submitLabel())+"  "+formHintStyle.Render("ctrl+s"))
	return strings.Join(lines, "\n")
}

func (f *entryForm) pictureView() string {
	label := pictureLabel(f.draft.ProfilePicture)
	if f.draft.ProfilePicture != "" {
		label = formPictureStyle.Render(label)
	}
	if f.focused && f.onPictureRow() && !f.picking {
		label += formHintStyle.Render("  (enter to choose a file)")
	}
	return label
}
