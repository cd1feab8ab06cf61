// Package workflow drives the LIST, EDIT and PREVIEW screens. All state lives
// in a Session value; the Controller computes transitions and hands out Tasks
// for the blocking work so the UI loop decides where they run.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/esnunes/promptsmith/internal/models"
	"github.com/esnunes/promptsmith/internal/revision"
)

var (
	// ErrValidation means the draft is missing a title or content.
	ErrValidation = errors.New("validation failed")
	// ErrBusy means an analysis or a write is already in flight.
	ErrBusy = errors.New("operation in progress")
	// ErrConnectivity means a dependency did not answer the probe.
	ErrConnectivity = errors.New("dependency unreachable")
	// ErrInvalidTransition means the event is not accepted in the current view.
	ErrInvalidTransition = errors.New("invalid transition")
)

// Engine is the part of revision.Engine the controller needs.
type Engine interface {
	Analyze(ctx context.Context, title, draft string) (*models.AnalysisResult, error)
	Save(ctx context.Context, draft models.Prompt, result *models.AnalysisResult) (*models.Prompt, error)
	List(ctx context.Context) ([]models.Prompt, error)
	Delete(ctx context.Context, id int64) error
	Probe(ctx context.Context) revision.Availability
}

type Controller struct {
	engine Engine
	log    zerolog.Logger
	now    func() time.Time
}

func New(engine Engine, log zerolog.Logger) *Controller {
	return &Controller{
		engine: engine,
		log:    log,
		now:    time.Now,
	}
}

// SelectNew starts an empty draft.
func (c *Controller) SelectNew(s Session) (Session, error) {
	if err := c.leaveList(s); err != nil {
		return s, err
	}
	s = c.navigate(s, ViewEdit)
	s.Draft = emptyDraft()
	s.Surface = ViewingDraft{}
	return s, nil
}

// SelectExisting copies p into the draft, keeping its id and version.
func (c *Controller) SelectExisting(s Session, p models.Prompt) (Session, error) {
	if err := c.leaveList(s); err != nil {
		return s, err
	}
	s = c.navigate(s, ViewEdit)
	s.Draft = p
	s.Surface = ViewingDraft{}
	return s, nil
}

// SelectTemplate starts a new draft seeded from a built-in template.
func (c *Controller) SelectTemplate(s Session, name string) (Session, error) {
	t, ok := FindTemplate(name)
	if !ok {
		err := fmt.Errorf("%w: unknown template %q", ErrValidation, name)
		return c.notify(s, NoticeError, err.Error()), err
	}
	s, err := c.SelectNew(s)
	if err != nil {
		return s, err
	}
	s.Draft.Title = t.Title
	s.Draft.Summary = t.Summary
	s.Draft.Content = t.Content
	return s, nil
}

func (c *Controller) leaveList(s Session) error {
	if s.View != ViewList {
		return fmt.Errorf("%w: select from %s", ErrInvalidTransition, s.View)
	}
	if s.Persisting {
		return ErrBusy
	}
	return nil
}

// Back moves PREVIEW to EDIT and EDIT to LIST. Leaving PREVIEW drops the
// analysis result.
func (c *Controller) Back(s Session) (Session, error) {
	if s.Persisting {
		return c.notify(s, NoticeWarning, "Wait for the save to finish"), ErrBusy
	}
	switch s.View {
	case ViewPreview:
		discarded := s.Result() != nil
		s = c.navigate(s, ViewEdit)
		s.Surface = ViewingDraft{}
		if discarded {
			s = c.notify(s, NoticeInfo, "AI result discarded; your draft is unchanged")
		}
	case ViewEdit:
		s = c.navigate(s, ViewList)
		s.Draft = emptyDraft()
		s.Surface = ViewingDraft{}
	}
	return s, nil
}

// Preview enters PREVIEW on the raw draft without calling the model.
func (c *Controller) Preview(s Session) (Session, error) {
	if s.View != ViewEdit {
		return s, fmt.Errorf("%w: preview from %s", ErrInvalidTransition, s.View)
	}
	if s.Analyzing {
		return c.notify(s, NoticeWarning, "Analysis in progress"), ErrBusy
	}
	if err := validate(s.Draft.Title, s.Draft.Content); err != nil {
		return c.notify(s, NoticeError, err.Error()), err
	}
	s = c.navigate(s, ViewPreview)
	s.Surface = ViewingDraft{}
	return s, nil
}

func (c *Controller) SetTitle(s Session, title string) Session {
	s.Draft.Title = title
	return s
}

func (c *Controller) SetSummary(s Session, summary string) Session {
	s.Draft.Summary = summary
	return s
}

// EditContent writes text to whichever of the draft content and the
// optimized prompt is currently displayed.
func (c *Controller) EditContent(s Session, text string) Session {
	switch v := s.Surface.(type) {
	case ViewingAnalysis:
		v.Result.OptimizedPrompt = text
		s.Surface = v
	default:
		s.Draft.Content = text
	}
	return s
}

// Revert discards the analysis result; the surface shows the draft again.
func (c *Controller) Revert(s Session) (Session, error) {
	if s.View != ViewPreview {
		return s, fmt.Errorf("%w: revert from %s", ErrInvalidTransition, s.View)
	}
	if s.Result() == nil {
		return s, nil
	}
	s.Surface = ViewingDraft{}
	return c.notify(s, NoticeInfo, "Reverted to your draft"), nil
}

// ExpireNotice clears the notice only if it is still the one with id.
func (c *Controller) ExpireNotice(s Session, id string) Session {
	if s.Notice != nil && s.Notice.ID == id {
		s.Notice = nil
	}
	return s
}

func (c *Controller) navigate(s Session, view View) Session {
	if s.Analyzing {
		c.log.Debug().Str("task", s.analysisTask).Msg("abandoning analysis")
	}
	s.View = view
	s.Generation++
	s.Analyzing = false
	s.analysisTask = ""
	return s
}

func (c *Controller) notify(s Session, kind NoticeKind, text string) Session {
	s.Notice = &Notice{
		ID:        uuid.NewString(),
		Kind:      kind,
		Text:      text,
		ExpiresAt: c.now().Add(NoticeTTL),
	}
	return s
}

func validate(title, content string) error {
	var missing []string
	if strings.TrimSpace(title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(content) == "" {
		missing = append(missing, "content")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s required", ErrValidation, strings.Join(missing, " and "))
	}
	return nil
}
