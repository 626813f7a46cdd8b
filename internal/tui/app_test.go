package tui

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kingrea/employee-roster/internal/roster"
)

const tinyPNG = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII="

func TestScenarioAddEditDeleteSearch(t *testing.T) {
	app := newTestApp(t)

	fillAndSubmit(t, app, map[roster.Field]string{roster.FieldID: "1", roster.FieldName: "Ann"})
	if got := tableIDs(app.all); !reflect.DeepEqual(got, []string{"1"}) {
		t.Fatalf("rows after first add = %v", got)
	}
	fillAndSubmit(t, app, map[roster.Field]string{roster.FieldID: "2", roster.FieldName: "Bo"})
	if got := tableIDs(app.all); !reflect.DeepEqual(got, []string{"1", "2"}) {
		t.Fatalf("rows after second add = %v", got)
	}

	// Begin edit on the first row of the all-employees table.
	focusOn(t, app, focusAll)
	pressRune(app, 'e')
	if app.focus != focusForm {
		t.Fatalf("begin edit should focus the form, got %d", app.focus)
	}
	if _, ok := app.form.mode.(editMode); !ok {
		t.Fatalf("expected edit mode, got %T", app.form.mode)
	}
	if app.form.draft.Name != "Ann" {
		t.Fatalf("draft not pre-filled: %+v", app.form.draft)
	}
	moveTo(app, roster.FieldName)
	press(app, tea.KeyEnd)
	typeText(app, "ie")
	press(app, tea.KeyEnter)

	all := app.store.All()
	if len(all) != 2 || all[0].ID != "1" || all[0].Name != "Annie" || all[1].Name != "Bo" {
		t.Fatalf("records after update = %+v", all)
	}
	if app.editing != nil {
		t.Fatalf("editing should be cleared after update")
	}
	if _, ok := app.form.mode.(addMode); !ok {
		t.Fatalf("form should return to add mode, got %T", app.form.mode)
	}

	focusOn(t, app, focusAll)
	pressRune(app, 'd')
	if got := tableIDs(app.all); !reflect.DeepEqual(got, []string{"2"}) {
		t.Fatalf("rows after delete = %v", got)
	}

	search(t, app, "2")
	if app.searchResult == nil || app.searchResult.Name != "Bo" {
		t.Fatalf("search 2 = %+v", app.searchResult)
	}
	if !strings.Contains(app.View(), "Search Result") {
		t.Fatalf("result panel should render")
	}
	search(t, app, "9")
	if app.searchResult != nil {
		t.Fatalf("search 9 should clear the result, got %+v", app.searchResult)
	}
	if strings.Contains(app.View(), "Search Result") {
		t.Fatalf("result panel should be hidden")
	}
}

func TestSubmitBlankFormAddsRecord(t *testing.T) {
	app := newTestApp(t)
	press(app, tea.KeyCtrlS)
	if app.store.Len() != 1 {
		t.Fatalf("len = %d, want 1", app.store.Len())
	}
	if rec := app.store.All()[0]; rec != (roster.Employee{}) {
		t.Fatalf("expected blank record, got %+v", rec)
	}
}

func TestSubmitResetsDraft(t *testing.T) {
	app := newTestApp(t, roster.Employee{ID: "7", Name: "Gus", Email: "gus@example.com"})
	app.beginEdit(app.store.All()[0])
	press(app, tea.KeyCtrlS)
	if app.form.draft != (roster.Employee{}) {
		t.Fatalf("draft not reset: %+v", app.form.draft)
	}
	for _, row := range app.form.rows {
		if row.field != roster.FieldProfilePicture && row.input.Value() != "" {
			t.Fatalf("%s input not cleared: %q", row.field.Label(), row.input.Value())
		}
	}
	if !strings.Contains(app.form.view(), "Add Employee") {
		t.Fatalf("expected add button after update")
	}
}

func TestTypingUpdatesOnlyFocusedField(t *testing.T) {
	seed := roster.Employee{ID: "1", Name: "Ann", Surname: "Lee", Position: "Dev", Email: "ann@example.com", Phone: "555"}
	app := newTestApp(t, seed)
	app.beginEdit(seed)
	if !strings.Contains(app.form.view(), "Update Employee") {
		t.Fatalf("expected update button in edit mode")
	}
	moveTo(app, roster.FieldPhone)
	press(app, tea.KeyEnd)
	typeText(app, "0")
	want := seed
	want.Phone = "5550"
	if app.form.draft != want {
		t.Fatalf("draft = %+v, want %+v", app.form.draft, want)
	}
}

func TestUpdateWithUnknownIDLeavesStore(t *testing.T) {
	seed := []roster.Employee{{ID: "1", Name: "Ann"}, {ID: "2", Name: "Bo"}}
	app := newTestApp(t, seed...)
	app.beginEdit(seed[0])
	moveTo(app, roster.FieldID)
	press(app, tea.KeyEnd)
	typeText(app, "9")
	press(app, tea.KeyEnter)
	if got := app.store.All(); !reflect.DeepEqual(got, seed) {
		t.Fatalf("store changed: %+v", got)
	}
	if app.editing != nil {
		t.Fatalf("editing should be cleared even when nothing matched")
	}
}

func TestDeleteFromTableRemovesDuplicates(t *testing.T) {
	app := newTestApp(t, roster.Employee{ID: "1", Name: "Ann"}, roster.Employee{ID: "2"}, roster.Employee{ID: "1", Name: "Cy"})
	focusOn(t, app, focusAll)
	press(app, tea.KeyDelete)
	if got := tableIDs(app.all); !reflect.DeepEqual(got, []string{"2"}) {
		t.Fatalf("rows = %v, want [2]", got)
	}
	press(app, tea.KeyDelete)
	press(app, tea.KeyDelete)
	if app.store.Len() != 0 {
		t.Fatalf("expected empty store, got %d", app.store.Len())
	}
	if !strings.Contains(app.View(), "No employees yet.") {
		t.Fatalf("expected empty note")
	}
}

func TestSearchReturnsFirstOccurrenceAndIsNotLive(t *testing.T) {
	app := newTestApp(t, roster.Employee{ID: "1", Name: "Ann"}, roster.Employee{ID: "1", Name: "Cy"})
	search(t, app, "1")
	if app.searchResult == nil || app.searchResult.Name != "Ann" {
		t.Fatalf("search = %+v, want Ann", app.searchResult)
	}
	app.updateRecord(roster.Employee{ID: "1", Name: "Zed"})
	if app.searchResult.Name != "Ann" {
		t.Fatalf("search result should not follow store changes, got %+v", app.searchResult)
	}
	// Typing in the box does not search on its own.
	press(app, tea.KeyBackspace)
	typeText(app, "5")
	if app.searchResult == nil {
		t.Fatalf("search result changed without an explicit search")
	}
}

func TestEditFromSearchResult(t *testing.T) {
	app := newTestApp(t, roster.Employee{ID: "1", Name: "Ann"}, roster.Employee{ID: "2", Name: "Bo"})
	search(t, app, "2")
	focusOn(t, app, focusResults)
	press(app, tea.KeyEnter)
	if app.editing == nil || app.editing.ID != "2" {
		t.Fatalf("editing = %+v, want record 2", app.editing)
	}
	if app.store.Len() != 2 {
		t.Fatalf("begin edit must not touch the store")
	}
}

func TestSearchResultTableShowsMatch(t *testing.T) {
	app := newTestApp(t,
		roster.Employee{ID: "1", Name: "Ann"},
		roster.Employee{ID: "2", Name: "Bonobo", Email: "bonobo@example.com"},
	)
	search(t, app, "2")
	view := app.results.view("")
	for _, want := range []string{"Bonobo", "bonobo@example.com"} {
		if !strings.Contains(view, want) {
			t.Fatalf("result table missing %q:\n%s", want, view)
		}
	}
	if strings.Contains(view, "Ann") {
		t.Fatalf("result table shows a non-matching record:\n%s", view)
	}
}

func TestAllTableShowsConfiguredRowCount(t *testing.T) {
	var seed []roster.Employee
	for i := 1; i <= 8; i++ {
		seed = append(seed, roster.Employee{ID: fmt.Sprintf("a%d", i)})
	}
	app := newTestApp(t, seed...)
	if got := app.config.Project.Table.Height; got != 8 {
		t.Fatalf("default table height = %d", got)
	}
	view := app.all.view("")
	for _, rec := range seed {
		if !strings.Contains(view, rec.ID) {
			t.Fatalf("row %s not visible:\n%s", rec.ID, view)
		}
	}
}

func TestFocusSkipsHiddenResults(t *testing.T) {
	app := newTestApp(t)
	var seen []focusArea
	for i := 0; i < 3; i++ {
		press(app, tea.KeyTab)
		seen = append(seen, app.focus)
	}
	want := []focusArea{focusSearch, focusAll, focusForm}
	if !reflect.DeepEqual(seen, want) {
		t.Fatalf("focus order = %v, want %v", seen, want)
	}
	press(app, tea.KeyShiftTab)
	if app.focus != focusAll {
		t.Fatalf("shift+tab should go back to the table, got %d", app.focus)
	}
}

func TestStalePictureDecodeIsDropped(t *testing.T) {
	app := newTestApp(t)
	first := writePicture(t, "first.png")
	second := writePicture(t, "second.gif")

	older := app.form.decodePicture(first)
	newer := app.form.decodePicture(second)
	app.Update(newer())
	app.Update(older())
	if !strings.HasPrefix(app.form.draft.ProfilePicture, "data:image/gif;base64,") {
		t.Fatalf("latest selection should win, got %.30q", app.form.draft.ProfilePicture)
	}
}

func TestPictureDecodeDoesNotLeakIntoNextDraft(t *testing.T) {
	app := newTestApp(t)
	pending := app.form.decodePicture(writePicture(t, "a.png"))
	press(app, tea.KeyCtrlS)
	app.Update(pending())
	if app.form.draft.ProfilePicture != "" {
		t.Fatalf("decode from the submitted draft leaked into the new one")
	}
	if app.store.All()[0].ProfilePicture != "" {
		t.Fatalf("submitted record should not change after submit")
	}
}

func TestPictureDecodeFailureLeavesDraft(t *testing.T) {
	app := newTestApp(t)
	app.form.draft.ProfilePicture = "data:image/png;base64,AAAA"
	cmd := app.form.decodePicture(filepath.Join(t.TempDir(), "missing.png"))
	app.Update(cmd())
	if app.form.draft.ProfilePicture != "data:image/png;base64,AAAA" {
		t.Fatalf("failed decode changed the draft: %q", app.form.draft.ProfilePicture)
	}
}

func TestPicturePickerCancelKeepsPicture(t *testing.T) {
	app := newTestApp(t)
	app.form.draft.ProfilePicture = "data:image/png;base64,AAAA"
	moveTo(app, roster.FieldProfilePicture)
	press(app, tea.KeyEnter)
	if !app.form.picking {
		t.Fatalf("enter on the picture row should open the picker")
	}
	if app.store.Len() != 0 {
		t.Fatalf("opening the picker must not submit")
	}
	pressRune(app, 'q')
	if app.form.picking {
		t.Fatalf("q should close the picker")
	}
	if app.form.draft.ProfilePicture != "data:image/png;base64,AAAA" {
		t.Fatalf("cancel changed the picture: %q", app.form.draft.ProfilePicture)
	}
}

func TestPickerSelectsUpperCaseExtension(t *testing.T) {
	app := newTestApp(t)
	path := writePicture(t, "PHOTO.JPG")
	app.form.settings.startDir = filepath.Dir(path)
	moveTo(app, roster.FieldProfilePicture)

	model, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !app.form.picking {
		t.Fatalf("enter on the picture row should open the picker")
	}
	app = runCommands(t, model, cmd)

	model, cmd = app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if app.form.picking {
		t.Fatalf("PHOTO.JPG should be selectable")
	}
	if cmd == nil {
		t.Fatalf("selecting a file should start a decode")
	}
	app = runCommands(t, model, cmd)
	if !strings.HasPrefix(app.form.draft.ProfilePicture, "data:image/jpeg;base64,") {
		t.Fatalf("picture = %q", app.form.draft.ProfilePicture)
	}
}

func TestPictureReadFailureIsLoggedAsError(t *testing.T) {
	app := newTestApp(t)
	missing := filepath.Join(t.TempDir(), "missing.png")
	app = runCommands(t, app, app.form.decodePicture(missing))

	data, err := os.ReadFile(app.logbook.Path())
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	for _, line := range strings.Split(string(data), "\n") {
		if strings.Contains(line, "ERROR") && strings.Contains(line, missing) {
			return
		}
	}
	t.Fatalf("no error entry for %s in log:\n%s", missing, data)
}

func TestPictureLabel(t *testing.T) {
	if got := pictureLabel(""); got != "none" {
		t.Fatalf("empty label = %q", got)
	}
	if got := pictureLabel("data:image/png;base64," + tinyPNG); got != "png 68 B" {
		t.Fatalf("png label = %q", got)
	}
}

func TestCtrlCQuits(t *testing.T) {
	app := newTestApp(t)
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}

func newTestApp(t *testing.T, seed ...roster.Employee) *App {
	t.Helper()
	app, err := NewApp(t.TempDir(), WithStore(roster.NewStore(seed...)))
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	t.Cleanup(func() { _ = app.Close() })
	return app
}

// runCommands feeds the messages produced by cmd back into the model until
// a command yields nothing.
func runCommands(t *testing.T, model tea.Model, cmd tea.Cmd) *App {
	t.Helper()
	app, ok := model.(*App)
	if !ok {
		t.Fatalf("unexpected model type: %T", model)
	}
	for cmd != nil {
		msg := cmd()
		if msg == nil {
			break
		}
		nextModel, nextCmd := app.Update(msg)
		app, ok = nextModel.(*App)
		if !ok {
			t.Fatalf("unexpected model type: %T", nextModel)
		}
		cmd = nextCmd
	}
	return app
}

func press(app *App, key tea.KeyType) {
	app.Update(tea.KeyMsg{Type: key})
}

func pressRune(app *App, r rune) {
	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

func typeText(app *App, text string) {
	for _, r := range text {
		pressRune(app, r)
	}
}

func moveTo(app *App, field roster.Field) {
	for i, row := range app.form.rows {
		if row.field == field {
			app.form.focusRow(i)
			return
		}
	}
}

func fillAndSubmit(t *testing.T, app *App, values map[roster.Field]string) {
	t.Helper()
	focusOn(t, app, focusForm)
	for _, field := range roster.Fields {
		value, ok := values[field]
		if !ok {
			continue
		}
		moveTo(app, field)
		typeText(app, value)
	}
	press(app, tea.KeyCtrlS)
}

func focusOn(t *testing.T, app *App, area focusArea) {
	t.Helper()
	for i := 0; i < 4 && app.focus != area; i++ {
		press(app, tea.KeyTab)
	}
	if app.focus != area {
		t.Fatalf("could not focus area %d", area)
	}
}

func search(t *testing.T, app *App, id string) {
	t.Helper()
	focusOn(t, app, focusSearch)
	for app.search.Value() != "" {
		press(app, tea.KeyBackspace)
	}
	typeText(app, id)
	press(app, tea.KeyEnter)
}

func tableIDs(tbl *recordTable) []string {
	ids := []string{}
	for _, row := range tbl.model.Rows() {
		ids = append(ids, row[0])
	}
	return ids
}

func writePicture(t *testing.T, name string) string {
	t.Helper()
	raw, err := base64.StdEncoding.DecodeString(tinyPNG)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}
