package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	MoveLeft  key.Binding
	MoveRight key.Binding

	Open          key.Binding
	New           key.Binding
	Edit          key.Binding
	Delete        key.Binding
	DeleteProject key.Binding

	StatusFilter  key.Binding
	MemberFilter  key.Binding
	ProjectFilter key.Binding
	Sort          key.Binding
	Refresh       key.Binding

	Logout    key.Binding
	Help      key.Binding
	Back      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "column left")),
		Right:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "column right")),
		MoveLeft:  key.NewBinding(key.WithKeys("shift+left", "H"), key.WithHelp("H", "move card left")),
		MoveRight: key.NewBinding(key.WithKeys("shift+right", "L"), key.WithHelp("L", "move card right")),

		Open:          key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		New:           key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new task")),
		Edit:          key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit task")),
		Delete:        key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete task")),
		DeleteProject: key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "delete project")),

		StatusFilter:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "status filter")),
		MemberFilter:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "assignee filter")),
		ProjectFilter: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "project")),
		Sort:          key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "sort order")),
		Refresh:       key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),

		Logout:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "sign out")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.MoveLeft, k.MoveRight, k.Open, k.StatusFilter, k.Refresh, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.MoveLeft, k.MoveRight},
		{k.Open, k.New, k.Edit, k.Delete, k.DeleteProject},
		{k.StatusFilter, k.MemberFilter, k.ProjectFilter, k.Sort, k.Refresh},
		{k.Logout, k.Help, k.Quit},
	}
}
