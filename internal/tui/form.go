package tui

import (
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/akyairhashvil/streakboard/internal/config"
	"github.com/akyairhashvil/streakboard/internal/models"
	"github.com/akyairhashvil/streakboard/internal/tasks"
)

const (
	fieldTitle = iota
	fieldDue
	fieldPriority
	fieldCount
)

// taskForm is the add-task form. Validation messages stay next to the
// field they belong to.
type taskForm struct {
	title    textinput.Model
	due      textinput.Model
	priority models.Priority
	focus    int
	errs     map[string]string
}

func newTaskForm() *taskForm {
	ti := textinput.New()
	ti.Placeholder = "New task... (#tags allowed)"
	ti.CharLimit = config.MaxTitleLength * 2
	ti.Width = 48
	ti.Focus()

	di := textinput.New()
	di.Placeholder = config.DueDateLayout
	di.CharLimit = len(config.DueDateLayout)
	di.Width = 20

	return &taskForm{
		title:    ti,
		due:      di,
		priority: models.PriorityMedium,
		errs:     map[string]string{},
	}
}

func (f *taskForm) setFocus(i int) {
	f.focus = (i + fieldCount) % fieldCount
	f.title.Blur()
	f.due.Blur()
	switch f.focus {
	case fieldTitle:
		f.title.Focus()
	case fieldDue:
		f.due.Focus()
	}
}

// update handles keys other than enter and esc.
func (f *taskForm) update(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "tab", "down":
		f.setFocus(f.focus + 1)
		return nil
	case "shift+tab", "up":
		f.setFocus(f.focus - 1)
		return nil
	}
	var cmd tea.Cmd
	switch f.focus {
	case fieldTitle:
		f.title, cmd = f.title.Update(msg)
		delete(f.errs, "Title")
	case fieldDue:
		f.due, cmd = f.due.Update(msg)
		delete(f.errs, "DueDate")
	case fieldPriority:
		switch msg.String() {
		case " ", "right", "l":
			f.priority = f.priority.Cycle()
		case "left", "h":
			for i := 0; i < len(models.Priorities)-1; i++ {
				f.priority = f.priority.Cycle()
			}
		}
	}
	return cmd
}

// input builds the task input, recording field errors for anything the
// form itself can reject.
func (f *taskForm) input(loc *time.Location) (tasks.TaskInput, bool) {
	f.errs = map[string]string{}
	in := tasks.TaskInput{
		Title:    strings.TrimSpace(f.title.Value()),
		Priority: string(f.priority),
	}
	if in.Title == "" {
		f.errs["Title"] = "Title is required"
	}
	due, err := tasks.ParseDue(f.due.Value(), loc)
	if err != nil {
		var ve *tasks.ValidationError
		if errors.As(err, &ve) {
			f.errs["DueDate"] = "Due date: " + ve.For("DueDate")
		} else {
			f.errs["DueDate"] = err.Error()
		}
	}
	in.DueDate = due
	return in, len(f.errs) == 0
}

func (f *taskForm) applyErrors(ve *tasks.ValidationError) {
	for _, fe := range ve.Fields {
		key := fe.Field
		if key != "DueDate" && key != "Priority" {
			key = "Title"
		}
		f.errs[key] = fe.Field + " " + fe.Message
	}
}

func (f *taskForm) view(theme Theme) string {
	var b strings.Builder
	b.WriteString(theme.Header.Render("New task") + "\n\n")

	label := func(i int, text string) string {
		if f.focus == i {
			return theme.Focused.Render("> " + text)
		}
		return theme.Dim.Render("  " + text)
	}
	fieldErr := func(k string) {
		if msg := f.errs[k]; msg != "" {
			b.WriteString("    " + theme.Error.Render(msg) + "\n")
		}
	}

	b.WriteString(label(fieldTitle, "Title    ") + f.title.View() + "\n")
	fieldErr("Title")
	b.WriteString(label(fieldDue, "Due      ") + f.due.View() + "\n")
	fieldErr("DueDate")
	b.WriteString(label(fieldPriority, "Priority ") + PriorityStyle(f.priority).Render(f.priority.Info().Label) + "\n")
	fieldErr("Priority")
	b.WriteString("\n" + theme.Dim.Render("tab: next field · space: cycle priority · enter: save · esc: cancel"))
	return theme.Input.Render(b.String())
}
