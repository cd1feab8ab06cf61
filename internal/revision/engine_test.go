package revision

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/esnunes/promptsmith/internal/db"
	"github.com/esnunes/promptsmith/internal/llm"
	"github.com/esnunes/promptsmith/internal/metrics"
	"github.com/esnunes/promptsmith/internal/models"
)

type fakeStore struct {
	created   *models.Prompt
	updatedID int64
	updated   *models.Prompt
	deleted   int64
	err       error
	up        bool
}

func (f *fakeStore) TestConnection(ctx context.Context) bool { return f.up }

func (f *fakeStore) ListPrompts(ctx context.Context) ([]models.Prompt, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []models.Prompt{{ID: 1, Title: "A"}}, nil
}

func (f *fakeStore) CreatePrompt(ctx context.Context, p *models.Prompt) (*models.Prompt, error) {
	if f.err != nil {
		return nil, f.err
	}
	cp := *p
	f.created = &cp
	cp.ID = 1
	return &cp, nil
}

func (f *fakeStore) UpdatePrompt(ctx context.Context, id int64, p *models.Prompt) (*models.Prompt, error) {
	if f.err != nil {
		return nil, f.err
	}
	cp := *p
	f.updatedID = id
	f.updated = &cp
	cp.ID = id
	return &cp, nil
}

func (f *fakeStore) DeletePrompt(ctx context.Context, id int64) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = id
	return nil
}

type fakeBackend struct {
	result *models.AnalysisResult
	err    error
	calls  int
	up     bool
}

func (f *fakeBackend) Name() string { return "fake" }

func (f *fakeBackend) CheckAvailability(ctx context.Context) bool { return f.up }

func (f *fakeBackend) Analyze(ctx context.Context, title, draft string) (*models.AnalysisResult, error) {
	f.calls++
	return f.result, f.err
}

func TestSaveCreateForcesInitialVersion(t *testing.T) {
	store := &fakeStore{}
	e := New(store, &fakeBackend{}, zerolog.Nop(), nil)

	saved, err := e.Save(context.Background(), models.Prompt{Title: "A", Content: "do X", Version: "v9.0"}, nil)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if saved.Version != "v1.0" {
		t.Errorf("expected v1.0, got %q", saved.Version)
	}
	if saved.Content != "do X" || saved.RawContext != "do X" {
		t.Errorf("expected content and raw context %q, got %q / %q", "do X", saved.Content, saved.RawContext)
	}
	if store.updated != nil {
		t.Error("create path must not update")
	}
}

func TestSaveUpdateWithAnalysis(t *testing.T) {
	store := &fakeStore{}
	e := New(store, &fakeBackend{}, zerolog.Nop(), nil)

	draft := models.Prompt{ID: 7, Title: "A", Content: "do X", RawContext: "older", Version: "v3.0"}
	result := &models.AnalysisResult{OptimizedPrompt: "do X, improved", ChangeLog: []string{"clarified"}}

	saved, err := e.Save(context.Background(), draft, result)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if store.updatedID != 7 {
		t.Errorf("expected update of id 7, got %d", store.updatedID)
	}
	if saved.ID != 7 || saved.Version != "v4.0" {
		t.Errorf("expected id 7 at v4.0, got id %d at %q", saved.ID, saved.Version)
	}
	if saved.Content != "do X, improved" {
		t.Errorf("expected optimized content, got %q", saved.Content)
	}
	if saved.RawContext != "do X" {
		t.Errorf("expected raw context to hold the draft text, got %q", saved.RawContext)
	}
}

func TestSaveDoesNotMutateDraft(t *testing.T) {
	e := New(&fakeStore{}, &fakeBackend{}, zerolog.Nop(), nil)
	draft := models.Prompt{ID: 2, Title: "A", Content: "do X", Version: "v1.0"}

	if _, err := e.Save(context.Background(), draft, &models.AnalysisResult{OptimizedPrompt: "better"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if draft.Content != "do X" || draft.Version != "v1.0" {
		t.Errorf("draft changed: %+v", draft)
	}
}

func TestSaveUnparseableVersion(t *testing.T) {
	e := New(&fakeStore{}, &fakeBackend{}, zerolog.Nop(), nil)

	saved, err := e.Save(context.Background(), models.Prompt{ID: 3, Title: "A", Content: "x", Version: "beta"}, nil)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if saved.Version != "v1.0" {
		t.Errorf("expected v1.0, got %q", saved.Version)
	}
}

func TestSaveFailureIsPersistenceError(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	store := &fakeStore{err: errors.New("disk full")}
	e := New(store, &fakeBackend{}, zerolog.Nop(), m)

	_, err := e.Save(context.Background(), models.Prompt{Title: "A", Content: "x"}, nil)
	if !errors.Is(err, ErrPersistenceFailed) {
		t.Fatalf("expected ErrPersistenceFailed, got %v", err)
	}
	if got := testutil.ToFloat64(m.SavesTotal.WithLabelValues("create", "error")); got != 1 {
		t.Errorf("expected one failed create, got %v", got)
	}

	err = e.Delete(context.Background(), 4)
	if !errors.Is(err, ErrPersistenceFailed) {
		t.Fatalf("expected ErrPersistenceFailed from delete, got %v", err)
	}
}

func TestAnalyzeRecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	backend := &fakeBackend{result: &models.AnalysisResult{OptimizedPrompt: "y", ChangeLog: []string{}}}
	e := New(&fakeStore{}, backend, zerolog.Nop(), m)

	if _, err := e.Analyze(context.Background(), "A", "x"); err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	backend.err = errors.New("boom")
	_, err := e.Analyze(context.Background(), "A", "x")
	if !errors.Is(err, llm.ErrAnalysisFailed) {
		t.Fatalf("expected ErrAnalysisFailed for plain backend error, got %v", err)
	}

	if got := testutil.ToFloat64(m.AnalysesTotal.WithLabelValues("fake", "ok")); got != 1 {
		t.Errorf("ok analyses = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.AnalysesTotal.WithLabelValues("fake", "error")); got != 1 {
		t.Errorf("failed analyses = %v, want 1", got)
	}
}

func TestProbe(t *testing.T) {
	store := &fakeStore{up: true}
	backend := &fakeBackend{up: false}
	e := New(store, backend, zerolog.Nop(), nil)

	for i := 0; i < 3; i++ {
		a := e.Probe(context.Background())
		if !a.Storage || a.Backend || a.OK() {
			t.Fatalf("probe %d: unexpected availability %+v", i, a)
		}
	}
}

func TestSaveAgainstSQLite(t *testing.T) {
	conn, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	defer conn.Close()
	e := New(db.NewQueries(conn), &fakeBackend{}, zerolog.Nop(), nil)
	ctx := context.Background()

	first, err := e.Save(ctx, models.Prompt{Title: "A", Content: "do X"}, nil)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if first.Version != "v1.0" || first.RawContext != "do X" {
		t.Fatalf("unexpected created row %+v", first)
	}

	draft := *first
	draft.Content = "do X by hand"
	second, err := e.Save(ctx, draft, &models.AnalysisResult{OptimizedPrompt: "## Goal\ndo X"})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if second.ID != first.ID || second.Version != "v2.0" {
		t.Errorf("expected same id at v2.0, got id %d at %q", second.ID, second.Version)
	}
	if second.Content != "## Goal\ndo X" || second.RawContext != "do X by hand" {
		t.Errorf("unexpected content/raw context %q / %q", second.Content, second.RawContext)
	}

	prompts, err := e.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(prompts) != 1 {
		t.Fatalf("expected 1 prompt, got %d", len(prompts))
	}

	if err := e.Delete(ctx, first.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := e.Delete(ctx, first.ID); !errors.Is(err, db.ErrNotFound) {
		t.Errorf("expected ErrNotFound deleting twice, got %v", err)
	}
}
