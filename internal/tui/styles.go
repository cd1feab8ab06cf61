package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/esnunes/promptsmith/internal/workflow"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	focusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	helpStyle   = lipgloss.NewStyle().Faint(true)
	panelStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
	panelTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("111"))
	busyStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	upStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	downStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	unknownStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	noticeBase = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("255"))
)

func noticeStyle(kind workflow.NoticeKind) lipgloss.Style {
	switch kind {
	case workflow.NoticeSuccess:
		return noticeBase.Background(lipgloss.Color("22"))
	case workflow.NoticeWarning:
		return noticeBase.Background(lipgloss.Color("94"))
	case workflow.NoticeError:
		return noticeBase.Background(lipgloss.Color("88"))
	default:
		return noticeBase.Background(lipgloss.Color("236"))
	}
}
