package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"

	"github.com/esnunes/promptsmith/internal/markdown"
	"github.com/esnunes/promptsmith/internal/workflow"
)

const (
	chromeLines = 4
	sideWidth   = 36
)

func (m *appModel) resize() {
	w, h := m.bodySize()
	m.prompts.SetSize(w, h)
	m.templates.SetSize(w, h)
	m.title.Width = w - 12
	m.summary.Width = w - 12

	if m.session.View == workflow.ViewPreview {
		m.content.SetWidth(w - sideWidth - 2)
		m.content.SetHeight(h)
		return
	}
	m.content.SetWidth(w)
	m.content.SetHeight(h - 5)
}

func (m appModel) bodySize() (int, int) {
	w, h := m.width, m.height-chromeLines
	if w < 40 {
		w = 40
	}
	if h < 10 {
		h = 10
	}
	return w, h
}

func (m appModel) View() string {
	var body string
	switch {
	case m.modal == modalTemplates:
		body = m.templates.View()
	case m.modal == modalConfirmDelete && m.deleteEntry != nil:
		body = m.viewConfirmDelete()
	case m.session.View == workflow.ViewEdit:
		body = m.viewEdit()
	case m.session.View == workflow.ViewPreview:
		body = m.viewPreview()
	default:
		body = m.prompts.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.header(), body, m.noticeLine(), m.helpLine())
}

func (m appModel) header() string {
	title := "promptsmith"
	switch m.session.View {
	case workflow.ViewEdit, workflow.ViewPreview:
		d := m.session.Draft
		if d.IsNew() {
			title += " · new prompt"
		} else {
			title += fmt.Sprintf(" · %s (%s)", emptyAsDash(d.Title), d.Version)
		}
	}
	if m.session.Analyzing {
		title += "  " + busyStyle.Render("analyzing…")
	}
	if m.session.Persisting {
		title += "  " + busyStyle.Render("saving…")
	}
	return headerStyle.Render(title) + "  " + m.statusDots()
}

func (m appModel) statusDots() string {
	st := m.session.Status
	dot := func(name string, ok bool) string {
		switch {
		case !st.Checked:
			return unknownStyle.Render("● " + name)
		case ok:
			return upStyle.Render("● " + name)
		default:
			return downStyle.Render("● " + name)
		}
	}
	return dot("storage", st.Storage) + " " + dot(m.backend, st.Backend)
}

func (m appModel) viewEdit() string {
	label := func(name string, f editFocus) string {
		if m.focus == f {
			return focusStyle.Render(fmt.Sprintf("%-9s", name))
		}
		return labelStyle.Render(fmt.Sprintf("%-9s", name))
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		label("Title", focusTitle)+" "+m.title.View(),
		label("Summary", focusSummary)+" "+m.summary.View(),
		"",
		label("Content", focusContent),
		m.content.View(),
	)
}

func (m appModel) viewPreview() string {
	_, h := m.bodySize()
	var side []string

	if r := m.session.Result(); r != nil {
		side = append(side, panelTitleStyle.Render("Changes"))
		if len(r.ChangeLog) == 0 {
			side = append(side, labelStyle.Render("none reported"))
		}
		for _, c := range r.ChangeLog {
			side = append(side, "• "+c)
		}
		side = append(side, "")
	} else {
		side = append(side, labelStyle.Render("Showing your draft"), "")
	}

	side = append(side, panelTitleStyle.Render("Outline"))
	outline := markdown.Outline(m.session.LiveText())
	if len(outline) == 0 {
		side = append(side, labelStyle.Render("no headings"))
	}
	for _, hd := range outline {
		side = append(side, strings.Repeat("  ", max(hd.Level-1, 0))+hd.Text)
	}

	inner := sideWidth - 4
	for i, line := range side {
		side[i] = truncate(line, inner)
	}
	panel := panelStyle.Width(sideWidth - 2).Height(h - 2).Render(strings.Join(side, "\n"))
	return lipgloss.JoinHorizontal(lipgloss.Top, m.content.View(), " ", panel)
}

func (m appModel) viewConfirmDelete() string {
	p := m.deleteEntry
	msg := fmt.Sprintf("Delete %q (%s)? This cannot be undone.\n\ny/enter: delete  n/esc: cancel", emptyAsDash(p.Title), p.Version)
	return panelStyle.Render(msg)
}

func (m appModel) noticeLine() string {
	w, _ := m.bodySize()
	n := m.session.Notice
	if n == nil {
		return lipgloss.NewStyle().Width(w).Render("")
	}
	txt := strings.TrimSpace(strings.ReplaceAll(n.Text, "\n", " "))
	return noticeStyle(n.Kind).Width(w).Render(truncate(txt, w-2))
}

func (m appModel) helpLine() string {
	var help string
	switch {
	case m.modal == modalTemplates:
		help = "enter: use template  esc: cancel"
	case m.modal == modalConfirmDelete:
		help = "y: delete  n: cancel"
	case m.session.View == workflow.ViewEdit:
		help = "tab: next field  ctrl+a: analyze  ctrl+p: preview  esc: back"
	case m.session.View == workflow.ViewPreview:
		help = "ctrl+s: save  ctrl+a: re-analyze  ctrl+r: revert  esc: back"
	default:
		help = "enter: edit  n: new  t: template  d: delete  r: refresh  /: filter  q: quit"
	}
	return helpStyle.Render(help)
}

func truncate(s string, w int) string {
	if w < 2 {
		w = 2
	}
	if xansi.StringWidth(s) <= w {
		return s
	}
	return xansi.Cut(s, 0, w-1) + "…"
}
