package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/esnunes/promptsmith/internal/models"
	"github.com/esnunes/promptsmith/internal/revision"
)

type TaskKind int

const (
	TaskAnalysis TaskKind = iota
	TaskSave
	TaskDelete
	TaskRefresh
	TaskProbe
)

func (k TaskKind) String() string {
	switch k {
	case TaskAnalysis:
		return "analysis"
	case TaskSave:
		return "save"
	case TaskDelete:
		return "delete"
	case TaskRefresh:
		return "refresh"
	case TaskProbe:
		return "probe"
	default:
		return "unknown"
	}
}

// Task is blocking work handed out by a Begin method. Run touches no
// session state, so it may run on any goroutine.
type Task struct {
	ID         string
	Kind       TaskKind
	Generation uint64
	run        func(ctx context.Context) Outcome
}

func (t *Task) Run(ctx context.Context) Outcome {
	out := t.run(ctx)
	out.TaskID = t.ID
	out.Kind = t.Kind
	out.Generation = t.Generation
	return out
}

// Outcome is what a Task produced. Pass it to Controller.Resolve.
type Outcome struct {
	TaskID     string
	Kind       TaskKind
	Generation uint64

	Result       *models.AnalysisResult
	Saved        *models.Prompt
	Prompts      []models.Prompt
	Availability revision.Availability

	Err error
	// ListErr is set when a write succeeded but the follow-up listing failed.
	ListErr error
}

func (c *Controller) newTask(s Session, kind TaskKind, run func(ctx context.Context) Outcome) *Task {
	return &Task{
		ID:         uuid.NewString(),
		Kind:       kind,
		Generation: s.Generation,
		run:        run,
	}
}

// BeginAnalysis starts optimizing the draft content. From PREVIEW it
// re-analyzes the draft, not the displayed optimized text.
func (c *Controller) BeginAnalysis(s Session) (Session, *Task, error) {
	if s.View != ViewEdit && s.View != ViewPreview {
		return s, nil, fmt.Errorf("%w: analyze from %s", ErrInvalidTransition, s.View)
	}
	if s.Analyzing {
		return c.notify(s, NoticeWarning, "Analysis already in progress"), nil, ErrBusy
	}
	if s.Persisting {
		return c.notify(s, NoticeWarning, "Wait for the save to finish"), nil, ErrBusy
	}
	if err := validate(s.Draft.Title, s.Draft.Content); err != nil {
		return c.notify(s, NoticeError, err.Error()), nil, err
	}

	title, content := s.Draft.Title, s.Draft.Content
	task := c.newTask(s, TaskAnalysis, func(ctx context.Context) Outcome {
		result, err := c.engine.Analyze(ctx, title, content)
		return Outcome{Result: result, Err: err}
	})
	s.Analyzing = true
	s.analysisTask = task.ID
	return s, task, nil
}

// BeginSave commits the draft together with the displayed analysis result,
// then reloads the listing.
func (c *Controller) BeginSave(s Session) (Session, *Task, error) {
	if s.View != ViewPreview {
		return s, nil, fmt.Errorf("%w: save from %s", ErrInvalidTransition, s.View)
	}
	if s.Busy() {
		return c.notify(s, NoticeWarning, "Wait for the current operation to finish"), nil, ErrBusy
	}
	if err := validate(s.Draft.Title, s.LiveText()); err != nil {
		return c.notify(s, NoticeError, err.Error()), nil, err
	}

	draft, result := s.Draft, s.Result()
	task := c.newTask(s, TaskSave, func(ctx context.Context) Outcome {
		saved, err := c.engine.Save(ctx, draft, result)
		if err != nil {
			return Outcome{Err: err}
		}
		prompts, err := c.engine.List(ctx)
		return Outcome{Saved: saved, Prompts: prompts, ListErr: err}
	})
	s.Persisting = true
	s.writeTask = task.ID
	return s, task, nil
}

// BeginDelete removes a stored prompt, then reloads the listing.
func (c *Controller) BeginDelete(s Session, id int64) (Session, *Task, error) {
	if s.View != ViewList {
		return s, nil, fmt.Errorf("%w: delete from %s", ErrInvalidTransition, s.View)
	}
	if s.Persisting {
		return c.notify(s, NoticeWarning, "Wait for the current operation to finish"), nil, ErrBusy
	}

	task := c.newTask(s, TaskDelete, func(ctx context.Context) Outcome {
		if err := c.engine.Delete(ctx, id); err != nil {
			return Outcome{Err: err}
		}
		prompts, err := c.engine.List(ctx)
		return Outcome{Prompts: prompts, ListErr: err}
	})
	s.Persisting = true
	s.writeTask = task.ID
	return s, task, nil
}

// BeginRefresh reloads the listing. Only the latest refresh is applied.
func (c *Controller) BeginRefresh(s Session) (Session, *Task) {
	task := c.newTask(s, TaskRefresh, func(ctx context.Context) Outcome {
		prompts, err := c.engine.List(ctx)
		return Outcome{Prompts: prompts, Err: err}
	})
	s.refreshTask = task.ID
	return s, task
}

// BeginProbe checks storage and backend connectivity.
func (c *Controller) BeginProbe(s Session) (Session, *Task) {
	task := c.newTask(s, TaskProbe, func(ctx context.Context) Outcome {
		a := c.engine.Probe(ctx)
		var errs []error
		if !a.Storage {
			errs = append(errs, fmt.Errorf("%w: storage", ErrConnectivity))
		}
		if !a.Backend {
			errs = append(errs, fmt.Errorf("%w: model backend", ErrConnectivity))
		}
		return Outcome{Availability: a, Err: errors.Join(errs...)}
	})
	s.probeTask = task.ID
	return s, task
}

// Resolve applies a finished task. Outcomes that no longer match the
// session (superseded, or the user navigated away) are dropped.
func (c *Controller) Resolve(s Session, out Outcome) Session {
	log := c.log.With().Str("task", out.TaskID).Stringer("kind", out.Kind).Logger()

	switch out.Kind {
	case TaskAnalysis:
		if out.TaskID != s.analysisTask || out.Generation != s.Generation {
			log.Debug().Msg("discarding stale analysis")
			return s
		}
		s.Analyzing = false
		s.analysisTask = ""
		if out.Err == nil && out.Result == nil {
			out.Err = errors.New("backend returned no result")
		}
		if out.Err != nil {
			return c.notify(s, NoticeError, fmt.Sprintf("Analysis failed: %v", out.Err))
		}
		s.Surface = ViewingAnalysis{Result: *out.Result}
		s.View = ViewPreview
		return c.notify(s, NoticeSuccess, fmt.Sprintf("Analysis complete: %d changes", len(out.Result.ChangeLog)))

	case TaskSave:
		if out.TaskID != s.writeTask {
			log.Debug().Msg("discarding stale save")
			return s
		}
		s.Persisting = false
		s.writeTask = ""
		if out.Err != nil {
			return c.notify(s, NoticeError, fmt.Sprintf("Save failed: %v", out.Err))
		}
		s = c.navigate(s, ViewList)
		s.Draft = emptyDraft()
		s.Surface = ViewingDraft{}
		msg := fmt.Sprintf("Saved %q as %s", out.Saved.Title, out.Saved.Version)
		return c.applyListing(s, out, msg)

	case TaskDelete:
		if out.TaskID != s.writeTask {
			log.Debug().Msg("discarding stale delete")
			return s
		}
		s.Persisting = false
		s.writeTask = ""
		if out.Err != nil {
			return c.notify(s, NoticeError, fmt.Sprintf("Delete failed: %v", out.Err))
		}
		return c.applyListing(s, out, "Prompt deleted")

	case TaskRefresh:
		if out.TaskID != s.refreshTask {
			log.Debug().Msg("discarding stale refresh")
			return s
		}
		s.refreshTask = ""
		if out.Err != nil {
			return c.notify(s, NoticeError, fmt.Sprintf("Loading prompts failed: %v", out.Err))
		}
		s.Prompts = out.Prompts
		return s

	case TaskProbe:
		if out.TaskID != s.probeTask {
			return s
		}
		s.probeTask = ""
		s.Status = Status{Checked: true, Availability: out.Availability}
		if out.Err != nil {
			return c.notify(s, NoticeWarning, unreachableText(out.Availability))
		}
		return s
	}

	log.Warn().Msg("unknown task kind")
	return s
}

// applyListing installs the listing a write task reloaded. Any refresh still
// in flight predates the write and is dropped.
func (c *Controller) applyListing(s Session, out Outcome, success string) Session {
	s.refreshTask = ""
	if out.ListErr != nil {
		return c.notify(s, NoticeWarning, fmt.Sprintf("%s, but reloading the list failed: %v", success, out.ListErr))
	}
	s.Prompts = out.Prompts
	return c.notify(s, NoticeSuccess, success)
}

func unreachableText(a revision.Availability) string {
	switch {
	case !a.Storage && !a.Backend:
		return "Storage and model backend are unreachable"
	case !a.Storage:
		return "Storage is unreachable"
	default:
		return "Model backend is unreachable"
	}
}
