package models

import "time"

// Prompt is a stored, versioned prompt. Content is the authoritative text;
// RawContext is the draft text as it stood right before the last save.
type Prompt struct {
	ID         int64
	Title      string
	Summary    string
	Content    string
	RawContext string
	Version    string // "v<major>.0"
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// AnalysisResult is the output of one optimization call.
type AnalysisResult struct {
	OptimizedPrompt string   `json:"optimizedPrompt"`
	ChangeLog       []string `json:"changeLog"`
}

// IsNew reports whether p has not been persisted yet.
func (p Prompt) IsNew() bool {
	return p.ID == 0
}
