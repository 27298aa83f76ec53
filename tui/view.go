package tui

import (
	"fmt"
	"strings"
	"time"

	"taskboard/board"
	"taskboard/models"

	"github.com/charmbracelet/lipgloss"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var columnTitles = map[models.TaskStatus]string{
	models.StatusTodo:       "To do",
	models.StatusInProgress: "In progress",
	models.StatusDone:       "Done",
}

func (m *Model) View() string {
	var body string
	switch m.mode {
	case modeLogin:
		body = m.login.view(m.styles)
	case modeForm:
		body = m.form.view(m.styles)
	case modeDetail:
		body = m.detailView()
	case modeConfirm:
		body = lipgloss.JoinVertical(lipgloss.Left,
			m.boardView(),
			m.styles.Dialog.Render(m.confirm.prompt+"  (y/n)"),
		)
	default:
		body = m.boardView()
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, m.statusLine())
}

func (m *Model) statusLine() string {
	if m.status == "" {
		return ""
	}
	if m.isError {
		return m.styles.StatusErr.Render(m.status)
	}
	return m.styles.StatusOK.Render(m.status)
}

func (m *Model) columnWidth() int {
	if m.width <= 0 {
		return 30
	}
	return max(20, m.width/len(columnOrder)-4)
}

func (m *Model) boardView() string {
	columns := m.store.Columns()
	rendered := make([]string, 0, len(columnOrder))
	for i, id := range columnOrder {
		status, _ := board.StatusForColumn(id)
		rendered = append(rendered, m.columnView(i, status, columns[status]))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.headerView(),
		m.dashboardView(),
		m.filterView(),
		lipgloss.JoinHorizontal(lipgloss.Top, rendered...),
		m.help.View(m.keys),
	)
}

func (m *Model) headerView() string {
	who := ""
	if m.user != nil {
		who = fmt.Sprintf("%s (%s)", m.user.Name, m.user.Role)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		m.styles.Title.Render("taskboard"),
		"  ",
		m.styles.TitleMuted.Render(who),
	)
}

func (m *Model) dashboardView() string {
	d := m.store.Dashboard()
	return m.styles.Dashboard.Render(fmt.Sprintf(
		"%d tasks • todo %d • in progress %d • done %d • high %d • medium %d • low %d • overdue %d",
		d.Total,
		d.ByStatus[models.StatusTodo], d.ByStatus[models.StatusInProgress], d.ByStatus[models.StatusDone],
		d.ByPriority[models.PriorityHigh], d.ByPriority[models.PriorityMedium], d.ByPriority[models.PriorityLow],
		d.Overdue,
	))
}

func (m *Model) filterView() string {
	project := "all projects"
	if id := m.store.CurrentProjectID(); id != nil {
		project = m.store.ProjectName(id)
	}
	member := m.store.MemberFilter()
	if id, err := primitive.ObjectIDFromHex(member); err == nil {
		member = m.store.MemberName(&id)
	}
	order := "high → low"
	if m.store.SortOrder() == board.SortLowFirst {
		order = "low → high"
	}
	return m.styles.FilterBar.Render(fmt.Sprintf("project: %s • status: %s • assignee: %s • priority: %s",
		project, m.store.StatusFilter(), member, order))
}

func (m *Model) columnView(index int, status models.TaskStatus, tasks []models.Task) string {
	width := m.columnWidth()
	style := m.styles.Column
	if index == m.column && m.mode == modeBoard {
		style = m.styles.ColumnFocused
	}

	lines := []string{m.styles.ColumnHeader.Render(fmt.Sprintf("%s (%d)", columnTitles[status], len(tasks)))}
	now := time.Now()
	for row, task := range tasks {
		lines = append(lines, m.cardView(&task, index == m.column && row == m.rows[index], now, width))
	}
	if len(tasks) == 0 {
		lines = append(lines, m.styles.TitleMuted.Render("empty"))
	}
	return style.Width(width).Render(strings.Join(lines, "\n"))
}

func (m *Model) cardView(task *models.Task, selected bool, now time.Time, width int) string {
	title := truncate(task.Title, width-4)
	line := fmt.Sprintf("%s %s", m.priorityBadge(task.Priority), title)
	if board.Overdue(task, now) {
		line += " " + m.styles.Overdue.Render("!")
	}
	if name := m.store.MemberName(task.AssignedTo); name != "" {
		line += "\n  " + m.styles.TitleMuted.Render("@"+name)
	}

	switch {
	case selected:
		return m.styles.CardSelected.Render(line)
	case m.store.Pending(task.ID):
		return m.styles.CardPending.Render(line)
	}
	return m.styles.Card.Render(line)
}

func (m *Model) priorityBadge(p models.Priority) string {
	switch p {
	case models.PriorityHigh:
		return m.styles.PriorityHigh.Render("▲")
	case models.PriorityLow:
		return m.styles.PriorityLow.Render("▼")
	}
	return m.styles.PriorityMedium.Render("■")
}

func (m *Model) detailView() string {
	task, ok := m.selectedTask()
	if !ok {
		return m.boardView()
	}
	width := 80
	if m.width > 0 {
		width = min(m.width-4, 100)
	}

	meta := []string{
		fmt.Sprintf("Status: %s", columnTitles[task.Status]),
		fmt.Sprintf("Priority: %s", task.Priority),
	}
	if name := m.store.MemberName(task.AssignedTo); name != "" {
		meta = append(meta, "Assignee: "+name)
	}
	if name := m.store.ProjectName(task.Project); name != "" {
		meta = append(meta, "Project: "+name)
	}
	if task.StartDate != nil {
		meta = append(meta, "Start: "+task.StartDate.Format(dateLayout))
	}
	if task.DueDate != nil {
		due := "Due: " + task.DueDate.Format(dateLayout)
		if board.Overdue(&task, time.Now()) {
			due = m.styles.Overdue.Render(due + " (overdue)")
		}
		meta = append(meta, due)
	}
	if len(task.Tags) > 0 {
		meta = append(meta, "Tags: "+strings.Join(task.Tags, ", "))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Title.Render(task.Title),
		m.styles.TitleMuted.Render(strings.Join(meta, " • ")),
		"",
		renderDescription(task.Description, width),
		"",
		m.styles.TitleMuted.Render("esc back • H/L move card • q quit"),
	)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 1 || len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
