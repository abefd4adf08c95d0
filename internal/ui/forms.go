package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/evently/evently/internal/models"
)

const formDateLayout = "2006-01-02 15:04"

// loginForm collects credentials for both sign-in and registration. The name
// field only renders in register mode.
type loginForm struct {
	register bool
	inputs   []textinput.Model
	focused  int
	errMsg   string
}

const (
	loginFieldName = iota
	loginFieldEmail
	loginFieldPassword
)

func newLoginForm(register bool) loginForm {
	name := textinput.New()
	name.Placeholder = "Name"
	name.CharLimit = 64

	email := textinput.New()
	email.Placeholder = "Email"
	email.CharLimit = 128

	password := textinput.New()
	password.Placeholder = "Password"
	password.EchoMode = textinput.EchoPassword
	password.CharLimit = 128

	f := loginForm{
		register: register,
		inputs:   []textinput.Model{name, email, password},
	}
	f.focused = f.firstField()
	f.inputs[f.focused].Focus()
	return f
}

func (f loginForm) firstField() int {
	if f.register {
		return loginFieldName
	}
	return loginFieldEmail
}

func (f loginForm) name() string     { return strings.TrimSpace(f.inputs[loginFieldName].Value()) }
func (f loginForm) email() string    { return strings.TrimSpace(f.inputs[loginFieldEmail].Value()) }
func (f loginForm) password() string { return f.inputs[loginFieldPassword].Value() }

// next moves focus to the following field, wrapping around.
func (f loginForm) next() loginForm {
	f.inputs[f.focused].Blur()
	f.focused++
	if f.focused >= len(f.inputs) {
		f.focused = f.firstField()
	}
	f.inputs[f.focused].Focus()
	return f
}

func (f loginForm) update(msg tea.Msg) (loginForm, tea.Cmd) {
	// Typing clears any previous submit error.
	if _, ok := msg.(tea.KeyMsg); ok {
		f.errMsg = ""
	}

	var cmd tea.Cmd
	f.inputs[f.focused], cmd = f.inputs[f.focused].Update(msg)
	return f, cmd
}

func (f loginForm) view() string {
	var b strings.Builder

	if f.register {
		b.WriteString(styles.title.Render("Create an account"))
	} else {
		b.WriteString(styles.title.Render("Sign in"))
	}
	b.WriteString("\n\n")

	for i, input := range f.inputs {
		if i == loginFieldName && !f.register {
			continue
		}
		b.WriteString(input.View())
		b.WriteString("\n")
	}

	if f.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(styles.err.Render(f.errMsg))
		b.WriteString("\n")
	}

	if f.register {
		b.WriteString("\n" + styles.help.Render("tab: next field • enter: register • esc: sign in instead • ctrl+c: quit"))
	} else {
		b.WriteString("\n" + styles.help.Render("tab: next field • enter: sign in • ctrl+r: register instead • ctrl+c: quit"))
	}
	return b.String()
}

// editForm collects the editable fields of an existing event. Date and time
// are fixed at creation and deliberately absent.
type editForm struct {
	eventID   string
	inputs    []textinput.Model
	focused   int
	fieldErrs map[string]string
	errMsg    string
}

const (
	editFieldTitle = iota
	editFieldLocation
	editFieldDescription
)

var editFieldNames = []string{"eventTitle", "location", "description"}

func newEditForm(event models.Event) editForm {
	title := textinput.New()
	title.Placeholder = "Event title"
	title.CharLimit = 128
	title.SetValue(event.EventTitle)
	title.Focus()

	location := textinput.New()
	location.Placeholder = "Location"
	location.CharLimit = 128
	location.SetValue(event.Location)

	description := textinput.New()
	description.Placeholder = "Description (at least 10 characters)"
	description.CharLimit = 512
	description.SetValue(event.Description)

	return editForm{
		eventID:   event.ID,
		inputs:    []textinput.Model{title, location, description},
		fieldErrs: map[string]string{},
	}
}

func (f editForm) next() editForm {
	f.inputs[f.focused].Blur()
	f.focused = (f.focused + 1) % len(f.inputs)
	f.inputs[f.focused].Focus()
	return f
}

func (f editForm) update(msg tea.Msg) (editForm, tea.Cmd) {
	// Editing a field clears its validation error.
	if _, ok := msg.(tea.KeyMsg); ok {
		delete(f.fieldErrs, editFieldNames[f.focused])
		f.errMsg = ""
	}

	var cmd tea.Cmd
	f.inputs[f.focused], cmd = f.inputs[f.focused].Update(msg)
	return f, cmd
}

func (f editForm) patch() models.EventPatch {
	return models.EventPatch{
		EventTitle:  strings.TrimSpace(f.inputs[editFieldTitle].Value()),
		Location:    strings.TrimSpace(f.inputs[editFieldLocation].Value()),
		Description: f.inputs[editFieldDescription].Value(),
	}
}

func (f editForm) view() string {
	var b strings.Builder

	b.WriteString(styles.title.Render("Edit event"))
	b.WriteString("\n\n")

	for i, input := range f.inputs {
		b.WriteString(input.View())
		b.WriteString("\n")
		if msg, ok := f.fieldErrs[editFieldNames[i]]; ok {
			b.WriteString(styles.err.Render("  " + msg))
			b.WriteString("\n")
		}
	}

	if f.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(styles.err.Render(f.errMsg))
		b.WriteString("\n")
	}

	b.WriteString("\n" + styles.help.Render("tab: next field • enter: save • esc: back • ctrl+c: quit"))
	return b.String()
}

// createForm collects the fields of a new event.
type createForm struct {
	inputs    []textinput.Model
	focused   int
	fieldErrs map[string]string
	errMsg    string
}

const (
	createFieldTitle = iota
	createFieldOrganizer
	createFieldDate
	createFieldLocation
	createFieldDescription
)

// createFieldNames maps input indexes to the validation field keys.
var createFieldNames = []string{"eventTitle", "name", "dateTime", "location", "description"}

func newCreateForm(organizer string) createForm {
	title := textinput.New()
	title.Placeholder = "Event title"
	title.CharLimit = 128
	title.Focus()

	name := textinput.New()
	name.Placeholder = "Organizer"
	name.CharLimit = 64
	name.SetValue(organizer)

	date := textinput.New()
	date.Placeholder = formDateLayout
	date.CharLimit = 32

	location := textinput.New()
	location.Placeholder = "Location"
	location.CharLimit = 128

	description := textinput.New()
	description.Placeholder = "Description (at least 10 characters)"
	description.CharLimit = 512

	return createForm{
		inputs:    []textinput.Model{title, name, date, location, description},
		fieldErrs: map[string]string{},
	}
}

// next moves focus to the following field, wrapping around.
func (f createForm) next() createForm {
	f.inputs[f.focused].Blur()
	f.focused = (f.focused + 1) % len(f.inputs)
	f.inputs[f.focused].Focus()
	return f
}

func (f createForm) update(msg tea.Msg) (createForm, tea.Cmd) {
	// Editing a field clears its validation error.
	if _, ok := msg.(tea.KeyMsg); ok {
		delete(f.fieldErrs, createFieldNames[f.focused])
		f.errMsg = ""
	}

	var cmd tea.Cmd
	f.inputs[f.focused], cmd = f.inputs[f.focused].Update(msg)
	return f, cmd
}

// draft assembles the form values. An unparseable date surfaces as a
// dateTime field error rather than an assembly failure.
func (f createForm) draft() (models.EventDraft, map[string]string) {
	draft := models.EventDraft{
		EventTitle:    strings.TrimSpace(f.inputs[createFieldTitle].Value()),
		OrganizerName: strings.TrimSpace(f.inputs[createFieldOrganizer].Value()),
		Location:      strings.TrimSpace(f.inputs[createFieldLocation].Value()),
		Description:   f.inputs[createFieldDescription].Value(),
	}

	raw := strings.TrimSpace(f.inputs[createFieldDate].Value())
	if raw != "" {
		parsed, err := time.ParseInLocation(formDateLayout, raw, time.Local)
		if err != nil {
			return draft, map[string]string{"dateTime": fmt.Sprintf("Expected format %s", formDateLayout)}
		}
		draft.DateTime = parsed
	}

	return draft, nil
}

func (f createForm) view() string {
	var b strings.Builder

	b.WriteString(styles.title.Render("Create event"))
	b.WriteString("\n\n")

	for i, input := range f.inputs {
		b.WriteString(input.View())
		b.WriteString("\n")
		if msg, ok := f.fieldErrs[createFieldNames[i]]; ok {
			b.WriteString(styles.err.Render("  " + msg))
			b.WriteString("\n")
		}
	}

	if f.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(styles.err.Render(f.errMsg))
		b.WriteString("\n")
	}

	b.WriteString("\n" + styles.help.Render("tab: next field • enter: submit • esc: back • ctrl+c: quit"))
	return b.String()
}
