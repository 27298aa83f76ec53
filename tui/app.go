package tui

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"taskboard/board"
	"taskboard/logging"
	"taskboard/models"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type mode int

const (
	modeLogin mode = iota
	modeBoard
	modeDetail
	modeForm
	modeConfirm
)

var columnOrder = []string{board.ColumnTodo, board.ColumnInProgress, board.ColumnDone}

type Options struct {
	// Email pre-fills the sign-in form.
	Email string
	// SaveToken persists the session token; it is called with "" when the
	// session ends.
	SaveToken func(token string) error
	Timeout   time.Duration
}

// confirmation is a pending destructive action awaiting y/n.
type confirmation struct {
	prompt string
	cmd    tea.Cmd
}

// Model is the root bubbletea model. All Store mutation happens inside
// Update, on the event loop.
type Model struct {
	api    Client
	store  *board.Store
	opts   Options
	keys   keyMap
	styles *Styles
	help   help.Model

	mode    mode
	user    *models.Member
	login   loginForm
	form    *taskForm
	confirm *confirmation

	column int
	rows   [3]int

	status  string
	isError bool
	width   int
	height  int
}

func New(api Client, opts Options) *Model {
	if opts.Timeout == 0 {
		opts.Timeout = defaultTimeout
	}
	return &Model{
		api:    api,
		store:  board.NewStore(),
		opts:   opts,
		keys:   defaultKeyMap(),
		styles: NewStyles(DefaultTheme),
		help:   help.New(),
		mode:   modeLogin,
		login:  newLoginForm(opts.Email),
	}
}

func (m *Model) Init() tea.Cmd {
	if m.api.Token() != "" {
		m.setStatus("Resuming session…", false)
		return m.resumeCmd()
	}
	return m.login.applyFocus()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case sessionMsg:
		m.user = msg.member
		if msg.token != "" {
			m.saveToken(msg.token)
		}
		m.mode = modeBoard
		m.login.clearPassword()
		m.setStatus(fmt.Sprintf("Signed in as %s", m.user.Name), false)
		logging.Logger.Infof("Event ID: SESSION_STARTED, Description: Signed in as member %s", m.user.ID.Hex())
		return m, m.loadCmd()

	case loadedMsg:
		m.store.ReplaceTasks(msg.tasks)
		m.store.SetMembers(msg.members)
		m.store.SetProjects(msg.projects)
		m.clampCursor()
		return m, nil

	case moveResultMsg:
		if msg.err != nil {
			m.store.RollbackMove(msg.move)
			m.clampCursor()
			return m, m.handleError(msg.err)
		}
		m.store.CommitMove(msg.move, msg.task)
		return m, nil

	case taskSavedMsg:
		m.store.UpsertTask(*msg.task)
		m.form = nil
		m.mode = modeBoard
		m.setStatus(fmt.Sprintf("Saved %q", msg.task.Title), false)
		return m, m.loadCmd()

	case taskDeletedMsg:
		m.store.RemoveTask(msg.id)
		m.clampCursor()
		m.setStatus("Task deleted", false)
		return m, m.loadCmd()

	case projectDeletedMsg:
		m.store.RemoveProject(msg.id)
		m.clampCursor()
		m.setStatus("Project and associated tasks deleted", false)
		return m, m.loadCmd()

	case loggedOutMsg:
		m.endSession("Signed out")
		return m, m.login.applyFocus()

	case errMsg:
		return m, m.handleError(msg.err)

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			return m, tea.Quit
		}
		switch m.mode {
		case modeLogin:
			return m, m.updateLogin(msg)
		case modeForm:
			return m, m.updateForm(msg)
		case modeConfirm:
			return m, m.updateConfirm(msg)
		case modeDetail:
			return m, m.updateDetail(msg)
		default:
			return m, m.updateBoard(msg)
		}
	}

	switch m.mode {
	case modeLogin:
		return m, m.login.update(msg)
	case modeForm:
		return m, m.form.update(msg)
	}
	return m, nil
}

// handleError maps API failures onto the UI: 401 ends the session, 403 is
// reported inline and keeps it.
func (m *Model) handleError(err error) tea.Cmd {
	switch {
	case errors.Is(err, models.ErrUnauthenticated):
		logging.Logger.Warnf("Event ID: SESSION_EXPIRED, Description: %v", err)
		m.endSession("Session expired, please sign in again")
		m.isError = true
		return m.login.applyFocus()
	case errors.Is(err, models.ErrForbidden):
		m.setStatus("Permission denied: "+err.Error(), true)
	case errors.Is(err, models.ErrInvalidCredentials):
		m.login.clearPassword()
		m.setStatus("Invalid credentials", true)
	default:
		logging.Logger.Errorf("Event ID: API_ERROR, Description: %v", err)
		m.setStatus(err.Error(), true)
	}
	if m.form != nil {
		m.form.err = m.status
	}
	return nil
}

func (m *Model) endSession(status string) {
	m.user = nil
	m.api.SetToken("")
	m.saveToken("")
	m.store = board.NewStore()
	m.form = nil
	m.confirm = nil
	m.column = 0
	m.rows = [3]int{}
	m.mode = modeLogin
	m.setStatus(status, false)
}

func (m *Model) saveToken(token string) {
	if m.opts.SaveToken == nil {
		return
	}
	if err := m.opts.SaveToken(token); err != nil {
		logging.Logger.Warnf("Event ID: TOKEN_SAVE_FAILED, Description: %v", err)
	}
}

func (m *Model) setStatus(status string, isError bool) {
	m.status = status
	m.isError = isError
}

func (m *Model) isAdmin() bool {
	return m.user != nil && m.user.IsAdmin()
}

func (m *Model) updateLogin(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "tab", "shift+tab", "up", "down":
		return m.login.toggle()
	case "enter":
		email, password, ok := m.login.credentials()
		if !ok {
			if email == "" {
				m.login.focus = 0
			} else {
				m.login.focus = 1
			}
			m.setStatus("Email and password are required", true)
			return m.login.applyFocus()
		}
		m.setStatus("Signing in…", false)
		return m.loginCmd(email, password)
	case "esc":
		return tea.Quit
	}
	return m.login.update(msg)
}

func (m *Model) updateBoard(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Up):
		if m.rows[m.column] > 0 {
			m.rows[m.column]--
		}
	case key.Matches(msg, m.keys.Down):
		m.rows[m.column]++
		m.clampCursor()
	case key.Matches(msg, m.keys.Left):
		if m.column > 0 {
			m.column--
		}
	case key.Matches(msg, m.keys.Right):
		if m.column < len(columnOrder)-1 {
			m.column++
		}
	case key.Matches(msg, m.keys.MoveLeft):
		return m.moveSelected(-1)
	case key.Matches(msg, m.keys.MoveRight):
		return m.moveSelected(1)
	case key.Matches(msg, m.keys.Open):
		if _, ok := m.selectedTask(); ok {
			m.mode = modeDetail
		}
	case key.Matches(msg, m.keys.StatusFilter):
		m.cycleStatusFilter()
	case key.Matches(msg, m.keys.MemberFilter):
		m.cycleMemberFilter()
	case key.Matches(msg, m.keys.ProjectFilter):
		m.cycleProject()
	case key.Matches(msg, m.keys.Sort):
		if m.store.SortOrder() == board.SortHighFirst {
			_ = m.store.SetSortOrder(board.SortLowFirst)
		} else {
			_ = m.store.SetSortOrder(board.SortHighFirst)
		}
	case key.Matches(msg, m.keys.Refresh):
		m.setStatus("Refreshing…", false)
		return m.loadCmd()
	case key.Matches(msg, m.keys.Logout):
		return m.logoutCmd()
	case key.Matches(msg, m.keys.New):
		if !m.requireAdmin() {
			return nil
		}
		status, _ := board.StatusForColumn(columnOrder[m.column])
		m.form = newTaskForm(nil, status, m.store.Members(), m.store.Projects(), m.store.CurrentProjectID())
		m.mode = modeForm
	case key.Matches(msg, m.keys.Edit):
		task, ok := m.selectedTask()
		if !ok || !m.requireAdmin() {
			return nil
		}
		m.form = newTaskForm(&task, task.Status, m.store.Members(), m.store.Projects(), nil)
		m.mode = modeForm
	case key.Matches(msg, m.keys.Delete):
		task, ok := m.selectedTask()
		if !ok || !m.requireAdmin() {
			return nil
		}
		m.confirm = &confirmation{
			prompt: fmt.Sprintf("Delete task %q?", task.Title),
			cmd:    m.deleteTaskCmd(task.ID),
		}
		m.mode = modeConfirm
	case key.Matches(msg, m.keys.DeleteProject):
		project := m.store.CurrentProjectID()
		if project == nil {
			m.setStatus("Select a project first (p)", true)
			return nil
		}
		if !m.requireAdmin() {
			return nil
		}
		m.confirm = &confirmation{
			prompt: fmt.Sprintf("Delete project %q and all of its tasks?", m.store.ProjectName(project)),
			cmd:    m.deleteProjectCmd(*project),
		}
		m.mode = modeConfirm
	}
	return nil
}

func (m *Model) requireAdmin() bool {
	if m.isAdmin() {
		return true
	}
	m.setStatus("Permission denied: admin only", true)
	return false
}

func (m *Model) updateForm(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.form = nil
		m.mode = modeBoard
		return nil
	case "ctrl+s":
		return m.submitForm()
	case "enter":
		if m.form.focus == fieldCount-1 {
			return m.submitForm()
		}
		return m.form.setFocus(m.form.focus + 1)
	}
	return m.form.update(msg)
}

func (m *Model) submitForm() tea.Cmd {
	if m.form.editing == nil {
		in, err := m.form.newTask()
		if err != nil {
			m.form.err = err.Error()
			return nil
		}
		return m.createCmd(in)
	}
	update, err := m.form.taskUpdate()
	if err != nil {
		m.form.err = err.Error()
		return nil
	}
	if update.Empty() {
		m.form = nil
		m.mode = modeBoard
		return nil
	}
	return m.updateCmd(m.form.editing.ID, update)
}

func (m *Model) updateConfirm(msg tea.KeyMsg) tea.Cmd {
	confirm := m.confirm
	m.confirm = nil
	m.mode = modeBoard
	switch msg.String() {
	case "y", "Y":
		return confirm.cmd
	}
	return nil
}

func (m *Model) updateDetail(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Open):
		m.mode = modeBoard
	case key.Matches(msg, m.keys.MoveLeft):
		return m.moveSelected(-1)
	case key.Matches(msg, m.keys.MoveRight):
		return m.moveSelected(1)
	}
	return nil
}

// selectedTask returns the task under the cursor in the focused column.
func (m *Model) selectedTask() (models.Task, bool) {
	status, _ := board.StatusForColumn(columnOrder[m.column])
	tasks := m.store.Columns()[status]
	row := m.rows[m.column]
	if row < 0 || row >= len(tasks) {
		return models.Task{}, false
	}
	return tasks[row], true
}

// moveSelected moves the selected card delta columns, optimistically.
func (m *Model) moveSelected(delta int) tea.Cmd {
	task, ok := m.selectedTask()
	if !ok {
		return nil
	}
	target := m.column + delta
	if target < 0 || target >= len(columnOrder) {
		return nil
	}
	move, err := m.store.BeginMove(task.ID, columnOrder[target])
	if err != nil {
		m.setStatus(err.Error(), true)
		return nil
	}
	m.column = target
	m.followTask(task.ID)
	return m.moveCmd(move)
}

func (m *Model) followTask(id primitive.ObjectID) {
	status, _ := board.StatusForColumn(columnOrder[m.column])
	tasks := m.store.Columns()[status]
	if i := slices.IndexFunc(tasks, func(t models.Task) bool { return t.ID == id }); i >= 0 {
		m.rows[m.column] = i
	}
	m.clampCursor()
}

func (m *Model) clampCursor() {
	columns := m.store.Columns()
	for i, id := range columnOrder {
		status, _ := board.StatusForColumn(id)
		n := len(columns[status])
		if m.rows[i] >= n {
			m.rows[i] = n - 1
		}
		if m.rows[i] < 0 {
			m.rows[i] = 0
		}
	}
}

func (m *Model) cycleStatusFilter() {
	options := []string{board.FilterAll}
	for _, s := range models.Statuses {
		options = append(options, string(s))
	}
	_ = m.store.SetStatusFilter(next(options, m.store.StatusFilter()))
	m.clampCursor()
}

func (m *Model) cycleMemberFilter() {
	options := []string{board.FilterAll, board.FilterUnassigned}
	for _, member := range m.store.Members() {
		options = append(options, member.ID.Hex())
	}
	_ = m.store.SetMemberFilter(next(options, m.store.MemberFilter()))
	m.clampCursor()
}

func (m *Model) cycleProject() {
	options := []string{""}
	for _, p := range m.store.Projects() {
		options = append(options, p.ID.Hex())
	}
	m.store.SetProject(next(options, m.store.Project()))
	m.clampCursor()
}

// next returns the option after current, wrapping around.
func next(options []string, current string) string {
	i := slices.Index(options, current)
	return options[(i+1)%len(options)]
}
