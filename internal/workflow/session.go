package workflow

import (
	"time"

	"github.com/esnunes/promptsmith/internal/models"
	"github.com/esnunes/promptsmith/internal/revision"
)

// View is one of the three screens of the workflow.
type View int

const (
	ViewList View = iota
	ViewEdit
	ViewPreview
)

func (v View) String() string {
	switch v {
	case ViewList:
		return "list"
	case ViewEdit:
		return "edit"
	case ViewPreview:
		return "preview"
	default:
		return "unknown"
	}
}

// Surface is what the single preview text area is bound to: either the
// draft itself or an analysis result.
type Surface interface {
	isSurface()
}

// ViewingDraft binds edits to Draft.Content.
type ViewingDraft struct{}

// ViewingAnalysis binds edits to Result.OptimizedPrompt.
type ViewingAnalysis struct {
	Result models.AnalysisResult
}

func (ViewingDraft) isSurface()    {}
func (ViewingAnalysis) isSurface() {}

// NoticeTTL is how long a notice stays visible.
const NoticeTTL = 3 * time.Second

type NoticeKind int

const (
	NoticeInfo NoticeKind = iota
	NoticeSuccess
	NoticeWarning
	NoticeError
)

// Notice is a transient message shown to the user.
type Notice struct {
	ID        string
	Kind      NoticeKind
	Text      string
	ExpiresAt time.Time
}

// Status is the last connectivity probe. Checked is false until the first
// probe resolves.
type Status struct {
	Checked bool
	revision.Availability
}

// Session is the complete workflow state. It is a plain value: every
// Controller transition takes one and returns the next.
type Session struct {
	View    View
	Draft   models.Prompt
	Surface Surface
	Prompts []models.Prompt

	Analyzing  bool
	Persisting bool
	Generation uint64

	Status Status
	Notice *Notice

	analysisTask string
	writeTask    string
	refreshTask  string
	probeTask    string
}

// NewSession returns the initial LIST session.
func NewSession() Session {
	return Session{
		View:    ViewList,
		Draft:   emptyDraft(),
		Surface: ViewingDraft{},
	}
}

// Result returns the analysis result bound to the surface, if any.
func (s Session) Result() *models.AnalysisResult {
	if v, ok := s.Surface.(ViewingAnalysis); ok {
		r := v.Result
		return &r
	}
	return nil
}

// LiveText is the text currently shown on the preview surface.
func (s Session) LiveText() string {
	if r := s.Result(); r != nil {
		return r.OptimizedPrompt
	}
	return s.Draft.Content
}

// Busy reports whether an analysis or a write is in flight.
func (s Session) Busy() bool {
	return s.Analyzing || s.Persisting
}

func emptyDraft() models.Prompt {
	return models.Prompt{Version: revision.InitialVersion}
}
