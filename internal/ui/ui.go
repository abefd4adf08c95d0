package ui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/evently/evently/internal/events"
	"github.com/evently/evently/internal/models"
	"github.com/evently/evently/internal/services"
	"github.com/evently/evently/internal/session"
	"github.com/evently/evently/internal/shared"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LoginView ViewState = iota
	RegisterView
	EventListView
	MyEventsView
	CreateView
	EditView
	ConfirmDeleteView
)

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	view     ViewState
	sessions *session.Manager
	guard    *session.Guard
	all      *events.Controller
	mine     *events.Controller

	width  int
	height int

	eventList list.Model
	myList    list.Model
	login     loginForm
	create    createForm
	edit      editForm

	deleteTarget models.Event
	status       string
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model with the provided dependencies. The
// starting view depends on whether a stored session is already present.
func NewModel(ctx context.Context, sessions *session.Manager, guard *session.Guard, api *services.EventsAPI) *Model {
	m := &Model{
		ctx:      ctx,
		view:     LoginView,
		sessions: sessions,
		guard:    guard,
		all:      events.NewController(api, events.SourceAll, sessions.CurrentUserID),
		mine:     events.NewController(api, events.SourceMine, sessions.CurrentUserID),
		login:    newLoginForm(false),
		help:     help.New(),
		keys:     newKeyMap(),
	}
	if guard.Allowed() {
		m.view = EventListView
	}
	return m
}

// Init fetches the listing when a session already exists; otherwise the
// login form renders with no network traffic.
func (m *Model) Init() tea.Cmd {
	if m.view == EventListView {
		return m.fetchEvents(events.SourceAll)
	}
	return textinput.Blink
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.eventList.Width() != 0 {
			m.eventList.SetSize(msg.Width-4, msg.Height-8)
		}
		if m.myList.Width() != 0 {
			m.myList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case SessionInvalidMsg:
		m.login = newLoginForm(false)
		m.login.errMsg = "Session expired. Sign in again."
		m.view = LoginView
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case LoginView, RegisterView:
			return m.handleLoginKeys(msg)
		case EventListView:
			return m.handleEventListKeys(msg)
		case MyEventsView:
			return m.handleMyEventsKeys(msg)
		case CreateView:
			return m.handleCreateKeys(msg)
		case EditView:
			return m.handleEditKeys(msg)
		case ConfirmDeleteView:
			return m.handleConfirmDeleteKeys(msg)
		}

	case authDoneMsg:
		if msg.err != nil {
			m.login.errMsg = msg.err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("Signed in as %s", msg.profile.Name)
		m.view = EventListView
		return m, m.fetchEvents(events.SourceAll)

	case eventsFetchedMsg:
		return m.handleEventsFetched(msg)

	case eventCreatedMsg:
		if msg.fieldErrs != nil {
			m.create.fieldErrs = msg.fieldErrs
			return m, nil
		}
		if msg.err != nil {
			m.create.errMsg = msg.err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("Created %q", msg.event.EventTitle)
		m.view = EventListView
		return m, m.fetchEvents(events.SourceAll)

	case eventUpdatedMsg:
		if msg.fieldErrs != nil {
			m.edit.fieldErrs = msg.fieldErrs
			return m, nil
		}
		if msg.err != nil {
			m.edit.errMsg = msg.err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("Updated %q", msg.event.EventTitle)
		m.view = MyEventsView
		m.refreshItems(events.SourceMine)
		return m, nil

	case eventJoinedMsg:
		if msg.err != nil {
			if errors.Is(msg.err, shared.ErrAlreadyJoined) || errors.Is(msg.err, shared.ErrOperationPending) {
				m.status = msg.err.Error()
			} else {
				m.err = msg.err
			}
		} else {
			m.status = fmt.Sprintf("Joined %q — %d attendees", msg.event.EventTitle, msg.event.AttendeeCount)
		}
		m.refreshItems(events.SourceAll)
		return m, nil

	case eventDeletedMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.status = "Event deleted"
		}
		m.refreshItems(events.SourceMine)
		return m, nil
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case LoginView, RegisterView:
		return m.login.view()
	case EventListView:
		return m.renderList(m.eventList, "enter: join • tab: my events • c: create • f: filter • r: refresh • ctrl+l: logout • q: quit")
	case MyEventsView:
		return m.renderList(m.myList, "e: edit • d: delete • tab: all events • r: refresh • q: quit")
	case CreateView:
		return m.create.view()
	case EditView:
		return m.edit.view()
	case ConfirmDeleteView:
		return m.renderConfirmDelete()
	default:
		return ""
	}
}

func (m *Model) handleLoginKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "tab":
		m.login = m.login.next()
		return m, nil
	case "ctrl+r":
		if m.view == LoginView {
			m.login = newLoginForm(true)
			m.view = RegisterView
			return m, nil
		}
	case "esc":
		if m.view == RegisterView {
			m.login = newLoginForm(false)
			m.view = LoginView
			return m, nil
		}
	case "enter":
		if m.view == RegisterView {
			return m, m.registerUser(m.login.name(), m.login.email(), m.login.password())
		}
		return m, m.loginUser(m.login.email(), m.login.password())
	}

	var cmd tea.Cmd
	m.login, cmd = m.login.update(msg)
	return m, cmd
}

func (m *Model) handleEventListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.eventList.FilterState() == list.Filtering {
		return m.updateLists(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		if item, ok := m.eventList.SelectedItem().(eventItem); ok {
			if item.joined || item.pending != 0 {
				return m, nil
			}
			return m, m.joinEvent(item.event.ID)
		}
	case "tab":
		m.view = MyEventsView
		return m, m.fetchEvents(events.SourceMine)
	case "c":
		organizer := ""
		if user := m.sessions.CurrentUser(); user != nil {
			organizer = user.Name
		}
		m.create = newCreateForm(organizer)
		m.view = CreateView
		return m, nil
	case "r":
		return m, m.fetchEvents(events.SourceAll)
	case "f":
		filters := m.all.Filters()
		filters.Window = nextWindow(filters.Window)
		return m, m.fetchFiltered(filters)
	case "ctrl+l":
		if err := m.sessions.Logout(); err != nil {
			m.err = err
			return m, nil
		}
		m.login = newLoginForm(false)
		m.view = LoginView
		m.status = ""
		return m, nil
	}

	return m.updateLists(msg)
}

func (m *Model) handleMyEventsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.myList.FilterState() == list.Filtering {
		return m.updateLists(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc", "tab":
		m.view = EventListView
		return m, nil
	case "d":
		if item, ok := m.myList.SelectedItem().(eventItem); ok {
			if item.pending != 0 {
				return m, nil
			}
			m.deleteTarget = item.event
			m.view = ConfirmDeleteView
		}
		return m, nil
	case "e":
		if item, ok := m.myList.SelectedItem().(eventItem); ok {
			if item.pending != 0 {
				return m, nil
			}
			m.edit = newEditForm(item.event)
			m.view = EditView
		}
		return m, nil
	case "r":
		return m, m.fetchEvents(events.SourceMine)
	}

	return m.updateLists(msg)
}

func (m *Model) handleCreateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = EventListView
		return m, nil
	case "tab":
		m.create = m.create.next()
		return m, nil
	case "enter":
		draft, dateErrs := m.create.draft()
		if dateErrs != nil {
			m.create.fieldErrs = dateErrs
			return m, nil
		}
		return m, m.createEvent(draft)
	}

	var cmd tea.Cmd
	m.create, cmd = m.create.update(msg)
	return m, cmd
}

func (m *Model) handleEditKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = MyEventsView
		return m, nil
	case "tab":
		m.edit = m.edit.next()
		return m, nil
	case "enter":
		return m, m.updateEvent(m.edit.eventID, m.edit.patch())
	}

	var cmd tea.Cmd
	m.edit, cmd = m.edit.update(msg)
	return m, cmd
}

func (m *Model) handleConfirmDeleteKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y":
		id := m.deleteTarget.ID
		m.deleteTarget = models.Event{}
		m.view = MyEventsView
		return m, m.deleteEvent(id)
	case "n", "esc", "q":
		m.deleteTarget = models.Event{}
		m.view = MyEventsView
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) handleEventsFetched(msg eventsFetchedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if errors.Is(msg.err, shared.ErrUnauthorized) {
			// The gateway already cleared the store.
			m.login = newLoginForm(false)
			m.login.errMsg = "Session expired. Sign in again."
			m.view = LoginView
			return m, nil
		}
		m.err = msg.err
		return m, nil
	}

	items := eventItems(msg.events, m.sessions.CurrentUserID(), m.controller(msg.source).Pending)
	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.SetSize(m.width-4, m.height-8)
	switch msg.source {
	case events.SourceMine:
		l.Title = "My Events"
		m.myList = l
	default:
		l.Title = "Upcoming Events"
		if window := m.all.Filters().Window; window != models.WindowAll {
			l.Title = fmt.Sprintf("Upcoming Events • %s", window.Label())
		}
		m.eventList = l
	}
	return m, nil
}

// nextWindow cycles to the following time-window filter, wrapping around.
func nextWindow(current models.TimeWindow) models.TimeWindow {
	for i, w := range models.TimeWindows {
		if w == current {
			return models.TimeWindows[(i+1)%len(models.TimeWindows)]
		}
	}
	return models.WindowAll
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case EventListView:
		m.eventList, cmd = m.eventList.Update(msg)
	case MyEventsView:
		m.myList, cmd = m.myList.Update(msg)
	case LoginView, RegisterView:
		m.login, cmd = m.login.update(msg)
	case CreateView:
		m.create, cmd = m.create.update(msg)
	case EditView:
		m.edit, cmd = m.edit.update(msg)
	}
	return m, cmd
}

func (m *Model) controller(source events.Source) *events.Controller {
	if source == events.SourceMine {
		return m.mine
	}
	return m.all
}

// refreshItems rebuilds a list's items from the controller's cache without a
// network round trip. Used after mutations, which patch the cache in place.
func (m *Model) refreshItems(source events.Source) {
	c := m.controller(source)
	items := eventItems(c.Events(), m.sessions.CurrentUserID(), c.Pending)
	switch source {
	case events.SourceMine:
		m.myList.SetItems(items)
	default:
		m.eventList.SetItems(items)
	}
}

func (m *Model) loginUser(email, password string) tea.Cmd {
	return func() tea.Msg {
		profile, err := m.sessions.Login(m.ctx, email, password)
		return authDoneMsg{profile: profile, err: err}
	}
}

func (m *Model) registerUser(name, email, password string) tea.Cmd {
	return func() tea.Msg {
		profile, err := m.sessions.Register(m.ctx, name, email, password)
		return authDoneMsg{profile: profile, err: err}
	}
}

func (m *Model) fetchEvents(source events.Source) tea.Cmd {
	c := m.controller(source)
	filters := c.Filters()
	return func() tea.Msg {
		collection, err := c.Fetch(m.ctx, filters)
		return eventsFetchedMsg{source: source, events: collection, err: err}
	}
}

func (m *Model) createEvent(draft models.EventDraft) tea.Cmd {
	return func() tea.Msg {
		created, err := m.all.Create(m.ctx, draft)
		var verr *events.ValidationError
		if errors.As(err, &verr) {
			return eventCreatedMsg{fieldErrs: verr.Fields}
		}
		return eventCreatedMsg{event: created, err: err}
	}
}

func (m *Model) updateEvent(id string, patch models.EventPatch) tea.Cmd {
	return func() tea.Msg {
		updated, err := m.mine.Update(m.ctx, id, patch)
		var verr *events.ValidationError
		if errors.As(err, &verr) {
			return eventUpdatedMsg{fieldErrs: verr.Fields}
		}
		return eventUpdatedMsg{event: updated, err: err}
	}
}

func (m *Model) fetchFiltered(filters models.Filters) tea.Cmd {
	return func() tea.Msg {
		collection, err := m.all.Fetch(m.ctx, filters)
		return eventsFetchedMsg{source: events.SourceAll, events: collection, err: err}
	}
}

func (m *Model) joinEvent(id string) tea.Cmd {
	return func() tea.Msg {
		joined, err := m.all.Join(m.ctx, id)
		return eventJoinedMsg{id: id, event: joined, err: err}
	}
}

func (m *Model) deleteEvent(id string) tea.Cmd {
	return func() tea.Msg {
		err := m.mine.Remove(m.ctx, id)
		return eventDeletedMsg{id: id, err: err}
	}
}

func (m *Model) renderList(l list.Model, hint string) string {
	status := ""
	if m.status != "" {
		status = "\n" + styles.ok.Render(m.status)
	}
	return fmt.Sprintf("%s%s\n\n%s", l.View(), status, styles.help.Render(hint))
}

func (m *Model) renderConfirmDelete() string {
	title := styles.title.Render(fmt.Sprintf("Delete %q?", m.deleteTarget.EventTitle))
	info := fmt.Sprintf("\n%s • %s\nThis action cannot be undone.\n",
		m.deleteTarget.DateTime.Local().Format("Mon Jan 2 15:04"),
		m.deleteTarget.Location,
	)

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s%s\n%s", title, info, helpView)
}
