// Package tui is the terminal front end. It owns the bubbletea event loop,
// forwards user events to the workflow controller and runs the tasks it
// hands back as commands.
package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/esnunes/promptsmith/internal/models"
	"github.com/esnunes/promptsmith/internal/workflow"
)

type outcomeMsg struct {
	out workflow.Outcome
}

type noticeExpiredMsg struct {
	id string
}

type editFocus int

const (
	focusTitle editFocus = iota
	focusSummary
	focusContent
)

type modalKind int

const (
	modalNone modalKind = iota
	modalTemplates
	modalConfirmDelete
)

type appModel struct {
	ctx     context.Context
	ctrl    *workflow.Controller
	session workflow.Session
	backend string

	width  int
	height int

	prompts   list.Model
	templates list.Model

	title   textinput.Model
	summary textinput.Model
	content textarea.Model
	focus   editFocus

	modal       modalKind
	deleteEntry *models.Prompt

	startup []*workflow.Task
}

func newAppModel(ctx context.Context, ctrl *workflow.Controller, backend string) appModel {
	m := appModel{
		ctx:     ctx,
		ctrl:    ctrl,
		session: workflow.NewSession(),
		backend: backend,
	}

	m.prompts = newList("Prompts", nil)
	m.templates = newList("New from template", templateItems())
	m.templates.SetFilteringEnabled(false)

	m.title = textinput.New()
	m.title.Placeholder = "Title"
	m.title.CharLimit = 200

	m.summary = textinput.New()
	m.summary.Placeholder = "Summary (optional)"
	m.summary.CharLimit = 500

	m.content = textarea.New()
	m.content.Placeholder = "Write your prompt…"
	m.content.CharLimit = 0
	m.content.ShowLineNumbers = false

	var refresh, probe *workflow.Task
	m.session, refresh = ctrl.BeginRefresh(m.session)
	m.session, probe = ctrl.BeginProbe(m.session)
	m.startup = []*workflow.Task{refresh, probe}
	return m
}

// Run blocks until the user quits or ctx is cancelled.
func Run(ctx context.Context, ctrl *workflow.Controller, backend string) error {
	p := tea.NewProgram(newAppModel(ctx, ctrl, backend), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("running terminal ui: %w", err)
	}
	return nil
}

func (m appModel) Init() tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(m.startup))
	for _, t := range m.startup {
		cmds = append(cmds, m.run(t))
	}
	return tea.Batch(cmds...)
}

func (m appModel) run(task *workflow.Task) tea.Cmd {
	if task == nil {
		return nil
	}
	ctx := m.ctx
	return func() tea.Msg {
		return outcomeMsg{out: task.Run(ctx)}
	}
}

// apply installs s and schedules expiry for a new notice. reload copies the
// draft back into the input widgets.
func (m *appModel) apply(s workflow.Session, reload bool) tea.Cmd {
	prev := m.session.Notice
	m.session = s
	if reload {
		m.resize()
		m.loadInputs()
	}
	if s.Notice == nil || (prev != nil && prev.ID == s.Notice.ID) {
		return nil
	}
	id := s.Notice.ID
	return tea.Tick(time.Until(s.Notice.ExpiresAt), func(time.Time) tea.Msg {
		return noticeExpiredMsg{id: id}
	})
}

func (m *appModel) loadInputs() {
	switch m.session.View {
	case workflow.ViewEdit:
		m.title.SetValue(m.session.Draft.Title)
		m.summary.SetValue(m.session.Draft.Summary)
		m.content.SetValue(m.session.Draft.Content)
		m.setFocus(focusTitle)
	case workflow.ViewPreview:
		m.content.SetValue(m.session.LiveText())
		m.title.Blur()
		m.summary.Blur()
		m.content.Focus()
	default:
		m.title.Blur()
		m.summary.Blur()
		m.content.Blur()
	}
}

func (m *appModel) setFocus(f editFocus) tea.Cmd {
	m.focus = f
	m.title.Blur()
	m.summary.Blur()
	m.content.Blur()
	switch f {
	case focusTitle:
		return m.title.Focus()
	case focusSummary:
		return m.summary.Focus()
	default:
		return m.content.Focus()
	}
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case outcomeMsg:
		return m.resolve(msg.out)

	case noticeExpiredMsg:
		m.session = m.ctrl.ExpireNotice(m.session, msg.id)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.modal {
		case modalTemplates:
			return m.updateTemplates(msg)
		case modalConfirmDelete:
			return m.updateConfirmDelete(msg)
		}
		switch m.session.View {
		case workflow.ViewList:
			return m.updateList(msg)
		case workflow.ViewEdit:
			return m.updateEdit(msg)
		case workflow.ViewPreview:
			return m.updatePreview(msg)
		}
	}

	if m.session.View == workflow.ViewList {
		var cmd tea.Cmd
		m.prompts, cmd = m.prompts.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m appModel) resolve(out workflow.Outcome) (tea.Model, tea.Cmd) {
	before := m.session
	s := m.ctrl.Resolve(m.session, out)
	analyzed := out.Kind == workflow.TaskAnalysis && out.Err == nil && before.Analyzing && !s.Analyzing
	reload := s.View != before.View || analyzed
	cmds := []tea.Cmd{m.apply(s, reload)}

	switch out.Kind {
	case workflow.TaskRefresh, workflow.TaskSave, workflow.TaskDelete:
		cmds = append(cmds, m.prompts.SetItems(promptItems(m.session.Prompts)))
	}
	return m, tea.Batch(cmds...)
}

func (m appModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.prompts.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.prompts, cmd = m.prompts.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "enter":
		it, ok := m.prompts.SelectedItem().(promptItem)
		if !ok {
			return m, nil
		}
		s, _ := m.ctrl.SelectExisting(m.session, it.prompt)
		return m, m.apply(s, true)
	case "n":
		s, _ := m.ctrl.SelectNew(m.session)
		return m, m.apply(s, true)
	case "t":
		m.modal = modalTemplates
		return m, nil
	case "d":
		it, ok := m.prompts.SelectedItem().(promptItem)
		if !ok {
			return m, nil
		}
		p := it.prompt
		m.deleteEntry = &p
		m.modal = modalConfirmDelete
		return m, nil
	case "r":
		s, refresh := m.ctrl.BeginRefresh(m.session)
		s, probe := m.ctrl.BeginProbe(s)
		return m, tea.Batch(m.apply(s, false), m.run(refresh), m.run(probe))
	}

	var cmd tea.Cmd
	m.prompts, cmd = m.prompts.Update(msg)
	return m, cmd
}

func (m appModel) updateTemplates(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.modal = modalNone
		return m, nil
	case "enter":
		m.modal = modalNone
		it, ok := m.templates.SelectedItem().(templateItem)
		if !ok {
			return m, nil
		}
		s, _ := m.ctrl.SelectTemplate(m.session, it.template.Name)
		return m, m.apply(s, true)
	}
	var cmd tea.Cmd
	m.templates, cmd = m.templates.Update(msg)
	return m, cmd
}

func (m appModel) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		id := m.deleteEntry.ID
		m.modal = modalNone
		m.deleteEntry = nil
		s, task, _ := m.ctrl.BeginDelete(m.session, id)
		return m, tea.Batch(m.apply(s, false), m.run(task))
	case "n", "esc", "q":
		m.modal = modalNone
		m.deleteEntry = nil
	}
	return m, nil
}

func (m appModel) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		s, _ := m.ctrl.Back(m.session)
		return m, m.apply(s, true)
	case "tab":
		return m, m.setFocus((m.focus + 1) % 3)
	case "shift+tab":
		return m, m.setFocus((m.focus + 2) % 3)
	case "ctrl+a":
		s, task, _ := m.ctrl.BeginAnalysis(m.session)
		return m, tea.Batch(m.apply(s, false), m.run(task))
	case "ctrl+p":
		s, _ := m.ctrl.Preview(m.session)
		return m, m.apply(s, s.View != m.session.View)
	}

	var cmd tea.Cmd
	switch m.focus {
	case focusTitle:
		m.title, cmd = m.title.Update(msg)
		m.session = m.ctrl.SetTitle(m.session, m.title.Value())
	case focusSummary:
		m.summary, cmd = m.summary.Update(msg)
		m.session = m.ctrl.SetSummary(m.session, m.summary.Value())
	case focusContent:
		m.content, cmd = m.content.Update(msg)
		m.session = m.ctrl.EditContent(m.session, m.content.Value())
	}
	return m, cmd
}

func (m appModel) updatePreview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		s, _ := m.ctrl.Back(m.session)
		return m, m.apply(s, s.View != m.session.View)
	case "ctrl+r":
		s, _ := m.ctrl.Revert(m.session)
		return m, m.apply(s, true)
	case "ctrl+a":
		s, task, _ := m.ctrl.BeginAnalysis(m.session)
		return m, tea.Batch(m.apply(s, false), m.run(task))
	case "ctrl+s":
		s, task, _ := m.ctrl.BeginSave(m.session)
		return m, tea.Batch(m.apply(s, false), m.run(task))
	}

	var cmd tea.Cmd
	m.content, cmd = m.content.Update(msg)
	m.session = m.ctrl.EditContent(m.session, m.content.Value())
	return m, cmd
}
