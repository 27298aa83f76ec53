package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"taskboard/models"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	fieldTitle = iota
	fieldDescription
	fieldPriority
	fieldDue
	fieldTags
	fieldAssignee
	fieldProject
	fieldCount
)

const dateLayout = "2006-01-02"

// choice is an entry of a selector field. A zero id means "none".
type choice struct {
	id   primitive.ObjectID
	name string
}

type selector struct {
	choices []choice
	index   int
}

func (s *selector) shift(delta int) {
	n := len(s.choices)
	s.index = ((s.index+delta)%n + n) % n
}

func (s *selector) selectID(id *primitive.ObjectID) {
	s.index = 0
	if id == nil {
		return
	}
	for i, c := range s.choices {
		if c.id == *id {
			s.index = i
		}
	}
}

func (s *selector) value() *primitive.ObjectID {
	c := s.choices[s.index]
	if c.id.IsZero() {
		return nil
	}
	id := c.id
	return &id
}

// taskForm edits a new or existing task. editing is nil for a new task.
type taskForm struct {
	editing *models.Task
	status  models.TaskStatus

	inputs   []textinput.Model
	assignee selector
	project  selector
	focus    int
	err      string
}

func newTaskForm(task *models.Task, status models.TaskStatus, members []models.Member, projects []models.Project, currentProject *primitive.ObjectID) *taskForm {
	f := &taskForm{editing: task, status: status, inputs: make([]textinput.Model, fieldAssignee)}

	placeholders := []string{"Title", "Description (markdown)", "Low, Medium or High", "YYYY-MM-DD", "comma separated"}
	for i := range f.inputs {
		in := textinput.New()
		in.Placeholder = placeholders[i]
		in.CharLimit = 500
		in.Width = 50
		f.inputs[i] = in
	}

	f.assignee.choices = []choice{{name: "Unassigned"}}
	for _, m := range members {
		f.assignee.choices = append(f.assignee.choices, choice{id: m.ID, name: m.Name})
	}
	f.project.choices = []choice{{name: "No project"}}
	for _, p := range projects {
		f.project.choices = append(f.project.choices, choice{id: p.ID, name: p.Name})
	}

	if task != nil {
		f.inputs[fieldTitle].SetValue(task.Title)
		f.inputs[fieldDescription].SetValue(task.Description)
		f.inputs[fieldPriority].SetValue(string(task.Priority))
		if task.DueDate != nil {
			f.inputs[fieldDue].SetValue(task.DueDate.Format(dateLayout))
		}
		f.inputs[fieldTags].SetValue(strings.Join(task.Tags, ", "))
		f.assignee.selectID(task.AssignedTo)
		f.project.selectID(task.Project)
	} else {
		f.inputs[fieldPriority].SetValue(string(models.PriorityMedium))
		f.project.selectID(currentProject)
	}
	f.setFocus(fieldTitle)
	return f
}

func (f *taskForm) setFocus(i int) tea.Cmd {
	f.focus = (i + fieldCount) % fieldCount
	var cmd tea.Cmd
	for j := range f.inputs {
		if j == f.focus {
			cmd = f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
	return cmd
}

func (f *taskForm) update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "down":
			return f.setFocus(f.focus + 1)
		case "shift+tab", "up":
			return f.setFocus(f.focus - 1)
		}
		if f.focus == fieldAssignee || f.focus == fieldProject {
			sel := &f.assignee
			if f.focus == fieldProject {
				sel = &f.project
			}
			switch key.String() {
			case "left", "h":
				sel.shift(-1)
			case "right", "l", " ":
				sel.shift(1)
			}
			return nil
		}
	}
	if f.focus < len(f.inputs) {
		var cmd tea.Cmd
		f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
		return cmd
	}
	return nil
}

type formValues struct {
	title       string
	description string
	priority    models.Priority
	due         *time.Time
	tags        []string
}

func (f *taskForm) values() (formValues, error) {
	v := formValues{
		title:       strings.TrimSpace(f.inputs[fieldTitle].Value()),
		description: f.inputs[fieldDescription].Value(),
		priority:    models.ParsePriority(f.inputs[fieldPriority].Value()),
		tags:        []string{},
	}
	if v.title == "" {
		return v, errors.New("title is required")
	}
	if v.priority == "" {
		v.priority = models.PriorityMedium
	}
	if !v.priority.Valid() {
		return v, fmt.Errorf("priority must be Low, Medium or High")
	}
	if raw := strings.TrimSpace(f.inputs[fieldDue].Value()); raw != "" {
		due, err := time.Parse(dateLayout, raw)
		if err != nil {
			return v, fmt.Errorf("due date must look like %s", dateLayout)
		}
		v.due = &due
	}
	for _, tag := range strings.Split(f.inputs[fieldTags].Value(), ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			v.tags = append(v.tags, tag)
		}
	}
	return v, nil
}

// newTask builds the create payload.
func (f *taskForm) newTask() (models.NewTask, error) {
	v, err := f.values()
	if err != nil {
		return models.NewTask{}, err
	}
	in := models.NewTask{
		Title:       v.title,
		Description: v.description,
		Priority:    v.priority,
		Status:      f.status,
		AssignedTo:  f.assignee.value(),
		Project:     f.project.value(),
		Tags:        v.tags,
	}
	if v.due != nil {
		in.DueDate = &models.Timestamp{Time: *v.due}
	}
	return in, nil
}

// taskUpdate builds a partial update holding only the fields that changed.
func (f *taskForm) taskUpdate() (models.TaskUpdate, error) {
	v, err := f.values()
	if err != nil {
		return models.TaskUpdate{}, err
	}
	t := f.editing
	var u models.TaskUpdate
	if v.title != t.Title {
		u.Title = models.Some(v.title)
	}
	if v.description != t.Description {
		u.Description = models.Some(v.description)
	}
	if v.priority != t.Priority {
		u.Priority = models.Some(v.priority)
	}
	if strings.Join(v.tags, ",") != strings.Join(t.Tags, ",") {
		u.Tags = models.Some(v.tags)
	}
	u.AssignedTo = nullableID(t.AssignedTo, f.assignee.value())
	u.Project = nullableID(t.Project, f.project.value())
	if !sameDay(t.DueDate, v.due) {
		if v.due == nil {
			u.DueDate = models.Null[models.Timestamp]()
		} else {
			u.DueDate = models.Value(models.Timestamp{Time: *v.due})
		}
	}
	return u, nil
}

func nullableID(before, after *primitive.ObjectID) models.Nullable[primitive.ObjectID] {
	switch {
	case before == nil && after == nil:
		return models.Nullable[primitive.ObjectID]{}
	case after == nil:
		return models.Null[primitive.ObjectID]()
	case before != nil && *before == *after:
		return models.Nullable[primitive.ObjectID]{}
	}
	return models.Value(*after)
}

func sameDay(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.UTC().Format(dateLayout) == b.UTC().Format(dateLayout)
}

func (f *taskForm) view(s *Styles) string {
	title := "New task"
	if f.editing != nil {
		title = "Edit task"
	}
	labels := []string{"Title", "Description", "Priority", "Due date", "Tags"}

	rows := []string{s.Title.Render(title), ""}
	for i, in := range f.inputs {
		style := s.Input
		if i == f.focus {
			style = s.InputFocused
		}
		rows = append(rows, s.Label.Render(labels[i]), style.Render(in.View()))
	}
	for i, field := range []struct {
		label string
		sel   selector
	}{{"Assignee", f.assignee}, {"Project", f.project}} {
		style := s.Input
		if f.focus == fieldAssignee+i {
			style = s.InputFocused
		}
		rows = append(rows, s.Label.Render(field.label), style.Render("‹ "+field.sel.choices[field.sel.index].name+" ›"))
	}
	if f.err != "" {
		rows = append(rows, "", s.StatusErr.Render(f.err))
	}
	rows = append(rows, "", s.TitleMuted.Render("tab next field • ←/→ choose • ctrl+s save • esc cancel"))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
