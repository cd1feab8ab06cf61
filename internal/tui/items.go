package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"

	"github.com/esnunes/promptsmith/internal/models"
	"github.com/esnunes/promptsmith/internal/workflow"
)

type promptItem struct {
	prompt models.Prompt
}

func (i promptItem) Title() string { return emptyAsDash(i.prompt.Title) }

func (i promptItem) Description() string {
	desc := fmt.Sprintf("%s  %s", i.prompt.Version, emptyAsDash(i.prompt.Summary))
	if !i.prompt.UpdatedAt.IsZero() {
		desc += "  · " + i.prompt.UpdatedAt.Local().Format("2006-01-02 15:04")
	}
	return desc
}

func (i promptItem) FilterValue() string {
	return i.prompt.Title + " " + i.prompt.Summary
}

type templateItem struct {
	template workflow.Template
}

func (i templateItem) Title() string       { return i.template.Title }
func (i templateItem) Description() string { return i.template.Summary }
func (i templateItem) FilterValue() string { return i.template.Title }

func newList(title string, items []list.Item) list.Model {
	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.DisableQuitKeybindings()
	l.SetShowHelp(false)
	return l
}

func promptItems(prompts []models.Prompt) []list.Item {
	items := make([]list.Item, 0, len(prompts))
	for _, p := range prompts {
		items = append(items, promptItem{prompt: p})
	}
	return items
}

func templateItems() []list.Item {
	items := make([]list.Item, 0, len(workflow.Templates))
	for _, t := range workflow.Templates {
		items = append(items, templateItem{template: t})
	}
	return items
}

func emptyAsDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
