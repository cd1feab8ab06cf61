// Package revision turns drafts into stored prompt versions. It owns the
// commit algorithm and the version bump, and delegates all I/O to a Store and
// an llm.Backend.
package revision

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/esnunes/promptsmith/internal/llm"
	"github.com/esnunes/promptsmith/internal/metrics"
	"github.com/esnunes/promptsmith/internal/models"
)

// ErrPersistenceFailed classifies create, update and delete failures.
var ErrPersistenceFailed = errors.New("persistence failed")

// Store is the storage collaborator. *db.Queries satisfies it.
type Store interface {
	TestConnection(ctx context.Context) bool
	ListPrompts(ctx context.Context) ([]models.Prompt, error)
	CreatePrompt(ctx context.Context, p *models.Prompt) (*models.Prompt, error)
	UpdatePrompt(ctx context.Context, id int64, p *models.Prompt) (*models.Prompt, error)
	DeletePrompt(ctx context.Context, id int64) error
}

// Availability is the result of one connectivity probe.
type Availability struct {
	Storage bool
	Backend bool
}

// OK reports whether every dependency answered.
func (a Availability) OK() bool {
	return a.Storage && a.Backend
}

type Engine struct {
	store   Store
	backend llm.Backend
	log     zerolog.Logger
	metrics *metrics.Metrics
}

// New returns an Engine. m may be nil.
func New(store Store, backend llm.Backend, log zerolog.Logger, m *metrics.Metrics) *Engine {
	return &Engine{
		store:   store,
		backend: backend,
		log:     log,
		metrics: m,
	}
}

// BackendName names the configured model backend.
func (e *Engine) BackendName() string {
	return e.backend.Name()
}

// Analyze asks the backend to optimize draft. Errors match
// llm.ErrAnalysisFailed.
func (e *Engine) Analyze(ctx context.Context, title, draft string) (*models.AnalysisResult, error) {
	requestID := uuid.NewString()
	log := e.log.With().Str("backend", e.backend.Name()).Str("request_id", requestID).Logger()
	log.Debug().Int("draft_len", len(draft)).Msg("analysis started")

	start := time.Now()
	result, err := e.backend.Analyze(ctx, title, draft)
	elapsed := time.Since(start)
	e.metrics.ObserveAnalysis(e.backend.Name(), elapsed, err)

	if err != nil {
		log.Error().Err(err).Dur("duration", elapsed).Msg("analysis failed")
		if !errors.Is(err, llm.ErrAnalysisFailed) {
			err = &llm.AnalysisError{Backend: e.backend.Name(), Err: err}
		}
		return nil, err
	}
	log.Info().Dur("duration", elapsed).Int("changes", len(result.ChangeLog)).Msg("analysis finished")
	return result, nil
}

// Save commits draft. When result is non-nil its optimized text becomes the
// stored content. RawContext always receives draft.Content as passed in. A
// draft without an id is created at InitialVersion; otherwise the stored row
// is updated and its major version bumped.
func (e *Engine) Save(ctx context.Context, draft models.Prompt, result *models.AnalysisResult) (*models.Prompt, error) {
	record := draft
	record.RawContext = draft.Content
	if result != nil {
		record.Content = result.OptimizedPrompt
	}

	var (
		saved *models.Prompt
		err   error
		path  string
	)
	if draft.IsNew() {
		path = "create"
		record.Version = InitialVersion
		saved, err = e.store.CreatePrompt(ctx, &record)
	} else {
		path = "update"
		record.Version = NextVersion(draft.Version)
		saved, err = e.store.UpdatePrompt(ctx, draft.ID, &record)
	}
	e.metrics.ObserveSave(path, err)

	if err != nil {
		e.log.Error().Err(err).Str("path", path).Int64("prompt_id", draft.ID).Msg("save failed")
		return nil, fmt.Errorf("%w: saving prompt: %w", ErrPersistenceFailed, err)
	}
	e.log.Info().
		Str("path", path).
		Int64("prompt_id", saved.ID).
		Str("version", saved.Version).
		Bool("optimized", result != nil).
		Msg("prompt saved")
	return saved, nil
}

func (e *Engine) List(ctx context.Context) ([]models.Prompt, error) {
	prompts, err := e.store.ListPrompts(ctx)
	if err != nil {
		e.log.Error().Err(err).Msg("listing failed")
		return nil, fmt.Errorf("listing prompts: %w", err)
	}
	return prompts, nil
}

// Delete removes a stored prompt for good.
func (e *Engine) Delete(ctx context.Context, id int64) error {
	err := e.store.DeletePrompt(ctx, id)
	e.metrics.ObserveDelete(err)
	if err != nil {
		e.log.Error().Err(err).Int64("prompt_id", id).Msg("delete failed")
		return fmt.Errorf("%w: deleting prompt %d: %w", ErrPersistenceFailed, id, err)
	}
	e.log.Info().Int64("prompt_id", id).Msg("prompt deleted")
	return nil
}

// Probe checks storage and the backend. It never fails; unreachable
// dependencies are reported as false.
func (e *Engine) Probe(ctx context.Context) Availability {
	a := Availability{
		Storage: e.store.TestConnection(ctx),
		Backend: e.backend.CheckAvailability(ctx),
	}
	e.metrics.SetAvailability("storage", a.Storage)
	e.metrics.SetAvailability(e.backend.Name(), a.Backend)
	e.log.Debug().Bool("storage", a.Storage).Bool("backend", a.Backend).Msg("connectivity probed")
	return a
}
