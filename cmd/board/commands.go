package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"taskboard/board"
	"taskboard/models"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var errNotSignedIn = errors.New("not signed in; run board without arguments to sign in")

// connect returns a board loaded from the server with the saved session.
func connect(ctx context.Context) (*board.Board, error) {
	_, api, err := setup()
	if err != nil {
		return nil, err
	}
	if api.Token() == "" {
		return nil, errNotSignedIn
	}
	b := board.New(api)
	if err := b.Refresh(ctx); err != nil {
		if errors.Is(err, models.ErrUnauthenticated) {
			return nil, errNotSignedIn
		}
		return nil, err
	}
	return b, nil
}

func listCmd() *cobra.Command {
	var status, assignee, project, order string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the board columns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			b, err := connect(ctx)
			if err != nil {
				return err
			}
			var outErr error
			b.View(func(s *board.Store) {
				if outErr = applyFilters(s, status, assignee, project, order); outErr != nil {
					return
				}
				printBoard(os.Stdout, s, time.Now())
			})
			return outErr
		},
	}
	cmd.Flags().StringVar(&status, "status", board.FilterAll, "all, todo, in_progress or done")
	cmd.Flags().StringVar(&assignee, "assignee", board.FilterAll, "all, unassigned or a member id")
	cmd.Flags().StringVar(&project, "project", "", "project id or name (default all projects)")
	cmd.Flags().StringVar(&order, "sort", string(board.SortHighFirst), "desc (high first) or asc")
	return cmd
}

func moveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move <task-id> <column>",
		Short: "Move a task to todo-list, inprogress-list or done-list",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := primitive.ObjectIDFromHex(args[0])
			if err != nil {
				return fmt.Errorf("invalid task id %q", args[0])
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			b, err := connect(ctx)
			if err != nil {
				return err
			}
			task, err := b.Move(ctx, id, args[1])
			if err != nil {
				return err
			}
			fmt.Printf("✓ %q is now %s\n", task.Title, task.Status)
			return nil
		},
	}
}

func applyFilters(s *board.Store, status, assignee, project, order string) error {
	if err := s.SetStatusFilter(status); err != nil {
		return err
	}
	if err := s.SetMemberFilter(assignee); err != nil {
		return err
	}
	if err := s.SetSortOrder(board.SortOrder(order)); err != nil {
		return err
	}
	if project == "" {
		return nil
	}
	for _, p := range s.Projects() {
		if p.ID.Hex() == project || strings.EqualFold(p.Name, project) {
			s.SetProject(p.ID.Hex())
			return nil
		}
	}
	return fmt.Errorf("unknown project %q", project)
}

func printBoard(w io.Writer, s *board.Store, now time.Time) {
	d := s.Dashboard()
	fmt.Fprintf(w, "%d tasks, %d overdue (high %d, medium %d, low %d)\n",
		d.Total, d.Overdue, d.ByPriority[models.PriorityHigh], d.ByPriority[models.PriorityMedium], d.ByPriority[models.PriorityLow])

	columns := s.Columns()
	for _, status := range models.Statuses {
		tasks := columns[status]
		fmt.Fprintf(w, "\n%s (%d)\n", board.ColumnForStatus(status), len(tasks))
		for i := range tasks {
			t := &tasks[i]
			line := fmt.Sprintf("  %s  [%s] %s", t.ID.Hex(), t.Priority, t.Title)
			if name := s.MemberName(t.AssignedTo); name != "" {
				line += " @" + name
			}
			if board.Overdue(t, now) {
				line += " (overdue)"
			}
			fmt.Fprintln(w, line)
		}
	}
}
