package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/akyairhashvil/streakboard/internal/models"
	"github.com/akyairhashvil/streakboard/internal/session"
	"github.com/akyairhashvil/streakboard/internal/tasks"
	"github.com/akyairhashvil/streakboard/internal/timetrack"
	"github.com/akyairhashvil/streakboard/internal/util"
)

func (a *app) addCmd() *cobra.Command {
	var (
		priority, due, status, desc string
		tags                        []string
		estimate                    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "add <title...>",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, closeSess, err := a.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer closeSess()

			in := tasks.TaskInput{
				Title:       strings.Join(args, " "),
				Description: desc,
				Status:      status,
				Priority:    priority,
			}
			if cmd.Flags().Changed("tags") {
				in.Tags = tags
			}
			if estimate > 0 {
				in.EstimatedTime = util.Ptr(int64(estimate / time.Second))
			}
			in.DueDate, err = tasks.ParseDue(due, sess.Clock.Now().Location())
			if err != nil {
				return err
			}
			t, err := sess.AddTask(in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %q (%s)\n", t.ID, t.Title, t.Status.Info().Label)
			return flushToasts(cmd.OutOrStdout(), sess)
		},
	}
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "low, medium, high or urgent")
	cmd.Flags().StringVarP(&due, "due", "d", "", "due date as YYYY-MM-DD HH:MM or YYYY-MM-DD")
	cmd.Flags().StringVarP(&status, "status", "s", "", "backlog, todo, in-progress or done")
	cmd.Flags().StringVar(&desc, "desc", "", "description")
	cmd.Flags().StringSliceVarP(&tags, "tags", "t", nil, "tags (default: #words in the title)")
	cmd.Flags().DurationVar(&estimate, "estimate", 0, "estimated effort, e.g. 1h30m")
	return cmd
}

func (a *app) listCmd() *cobra.Command {
	var (
		query   string
		overdue bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, closeSess, err := a.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer closeSess()

			now := sess.Clock.Now()
			filters := []tasks.Filter{tasks.FromQuery(util.ParseSearchQuery(query))}
			if overdue {
				filters = append(filters, tasks.Overdue(now))
			}
			list := sess.Tasks.List(filters...)
			tasks.SortForBoard(list)
			renderTaskTable(cmd.OutOrStdout(), list, now)
			return nil
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "filter, e.g. \"status:todo tag:work report\"")
	cmd.Flags().BoolVar(&overdue, "overdue", false, "only overdue tasks")
	return cmd
}

func renderTaskTable(w io.Writer, list []models.Task, now time.Time) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No tasks.")
		return
	}
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"ID", "Title", "Status", "Priority", "Due", "Logged", "Tags"})
	for _, task := range list {
		due := ""
		if task.DueDate != nil {
			due = task.DueDate.Format("2006-01-02 15:04")
			if task.IsOverdue(now) {
				due = text.FgHiRed.Sprint(due)
			}
		}
		logged := ""
		if secs := timetrack.TotalLoggedSeconds(task.TimeTracking, now); secs > 0 {
			logged = timetrack.FormatDuration(secs).Text
		}
		t.AppendRow(table.Row{
			task.ID,
			task.Title,
			task.Status.Info().Label,
			priorityColor(task.Priority).Sprint(task.Priority.Info().Label),
			due,
			logged,
			strings.Join(task.Tags, ", "),
		})
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d tasks", len(list))})
	t.Render()
}

func priorityColor(p models.Priority) text.Colors {
	switch p {
	case models.PriorityUrgent:
		return text.Colors{text.FgHiRed, text.Bold}
	case models.PriorityHigh:
		return text.Colors{text.FgHiYellow}
	case models.PriorityLow:
		return text.Colors{text.FgHiBlack}
	default:
		return text.Colors{text.FgHiBlue}
	}
}

func (a *app) moveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move <id> <status>",
		Short: "Move a task to another column",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status := models.TaskStatus(args[1])
			if !status.Valid() {
				return fmt.Errorf("unknown status %q", args[1])
			}
			return a.setStatus(cmd, args[0], status)
		},
	}
}

func (a *app) doneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a task done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.setStatus(cmd, args[0], models.StatusDone)
		},
	}
}

func (a *app) setStatus(cmd *cobra.Command, id string, status models.TaskStatus) error {
	sess, closeSess, err := a.openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer closeSess()

	t, err := sess.SetStatus(id, status)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %q is now %s\n", t.ID, t.Title, t.Status.Info().Label)
	if t.Status == models.StatusDone {
		snap := sess.Streak.Snapshot()
		fmt.Fprintf(out, "Streak: %d day(s), %s\n", snap.CurrentStreak, sess.Streak.Tier().Info().Label)
	}
	return flushToasts(out, sess)
}

func (a *app) rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, closeSess, err := a.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer closeSess()

			_, existed := sess.Tasks.Get(args[0])
			if err := sess.DeleteTask(args[0]); err != nil {
				return err
			}
			if existed {
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "No task %s; nothing to delete\n", args[0])
			}
			return flushToasts(cmd.OutOrStdout(), sess)
		},
	}
}

func (a *app) timerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "timer <id>",
		Short: "Start or stop time tracking on a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, closeSess, err := a.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer closeSess()

			entry, err := sess.ToggleTimer(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if entry.EndTime == nil {
				fmt.Fprintf(out, "Timer started on %s\n", args[0])
			} else {
				fmt.Fprintf(out, "Timer stopped on %s after %s\n", args[0], timetrack.FormatDuration(util.Deref(entry.Duration)).Text)
			}
			return flushToasts(out, sess)
		},
	}
}

// flushToasts prints queued feedback, such as streak tier changes or
// persistence failures.
func flushToasts(w io.Writer, sess *session.Session) error {
	for _, t := range sess.Toasts.Drain() {
		if t.Body != "" {
			fmt.Fprintf(w, "[%s] %s: %s\n", t.Level, t.Title, t.Body)
		} else {
			fmt.Fprintf(w, "[%s] %s\n", t.Level, t.Title)
		}
	}
	return nil
}
