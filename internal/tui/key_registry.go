package tui

import (
	"sort"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type KeyHandler func(m DashboardModel) (DashboardModel, tea.Cmd)

type KeyBinding struct {
	Binding  key.Binding
	Handler  KeyHandler
	Priority int
}

type HandlerRegistry struct {
	bindings []KeyBinding
}

func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{}
}

func (r *HandlerRegistry) Register(b KeyBinding) {
	r.bindings = append(r.bindings, b)
	sort.SliceStable(r.bindings, func(i, j int) bool {
		return r.bindings[i].Priority > r.bindings[j].Priority
	})
}

func (r *HandlerRegistry) Handle(m DashboardModel, msg tea.KeyMsg) (DashboardModel, tea.Cmd, bool) {
	for _, b := range r.bindings {
		if key.Matches(msg, b.Binding) {
			next, cmd := b.Handler(m)
			return next, cmd, true
		}
	}
	return m, nil, false
}

// ShortHelp implements help.KeyMap.
func (r *HandlerRegistry) ShortHelp() []key.Binding {
	out := make([]key.Binding, 0, len(r.bindings))
	for _, b := range r.bindings {
		if b.Binding.Help().Desc != "" {
			out = append(out, b.Binding)
		}
	}
	return out
}

// FullHelp implements help.KeyMap.
func (r *HandlerRegistry) FullHelp() [][]key.Binding {
	all := r.ShortHelp()
	var cols [][]key.Binding
	for len(all) > 0 {
		n := min(4, len(all))
		cols = append(cols, all[:n])
		all = all[n:]
	}
	return cols
}

func defaultRegistry() *HandlerRegistry {
	r := NewHandlerRegistry()
	bind := func(prio int, keys []string, helpKey, desc string, h KeyHandler) {
		r.Register(KeyBinding{
			Binding:  key.NewBinding(key.WithKeys(keys...), key.WithHelp(helpKey, desc)),
			Handler:  h,
			Priority: prio,
		})
	}
	bind(100, []string{"q", "ctrl+c"}, "q", "quit", handleQuit)
	bind(90, []string{"a"}, "a", "add", handleOpenForm)
	bind(80, []string{" "}, "space", "advance", handleAdvance)
	bind(80, []string{"b"}, "b", "back", handleRetreat)
	bind(70, []string{"x"}, "x", "delete", handleDelete)
	bind(70, []string{"t"}, "t", "timer", handleTimer)
	bind(70, []string{"p"}, "p", "priority", handlePriority)
	bind(60, []string{"n"}, "n", "notifications", handleNotifications)
	bind(60, []string{"T"}, "T", "theme", handleTheme)
	bind(60, []string{"r"}, "r", "report", handleReport)
	bind(50, []string{"?"}, "?", "help", handleHelp)
	bind(40, []string{"left", "h"}, "←/h", "", handleLeft)
	bind(40, []string{"right", "l"}, "→/l", "", handleRight)
	bind(40, []string{"up", "k"}, "↑/k", "", handleUp)
	bind(40, []string{"down", "j"}, "↓/j", "", handleDown)
	return r
}
