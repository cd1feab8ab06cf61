package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/esnunes/promptsmith/internal/models"
)

// ErrNotFound is returned when a prompt id does not exist.
var ErrNotFound = errors.New("prompt not found")

type Queries struct {
	db *sql.DB
}

func NewQueries(db *sql.DB) *Queries {
	return &Queries{db: db}
}

const promptColumns = `id, title, summary, content, raw_context, version, created_at, updated_at`

// TestConnection reports whether the database answers a trivial query.
func (q *Queries) TestConnection(ctx context.Context) bool {
	if err := q.db.PingContext(ctx); err != nil {
		return false
	}
	var one int
	return q.db.QueryRowContext(ctx, `SELECT 1`).Scan(&one) == nil && one == 1
}

func (q *Queries) ListPrompts(ctx context.Context) ([]models.Prompt, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+promptColumns+` FROM prompts ORDER BY updated_at DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing prompts: %w", err)
	}
	defer rows.Close()

	var results []models.Prompt
	for rows.Next() {
		p, err := scanPrompt(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning prompt: %w", err)
		}
		results = append(results, *p)
	}
	return results, rows.Err()
}

func (q *Queries) GetPrompt(ctx context.Context, id int64) (*models.Prompt, error) {
	p, err := scanPrompt(q.db.QueryRowContext(ctx,
		`SELECT `+promptColumns+` FROM prompts WHERE id = ?`, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("getting prompt %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting prompt %d: %w", id, err)
	}
	return p, nil
}

// CreatePrompt inserts p and returns the stored row with its id and timestamps.
func (q *Queries) CreatePrompt(ctx context.Context, p *models.Prompt) (*models.Prompt, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO prompts (title, summary, content, raw_context, version) VALUES (?, ?, ?, ?, ?)`,
		p.Title, p.Summary, p.Content, p.RawContext, p.Version,
	)
	if err != nil {
		return nil, fmt.Errorf("creating prompt: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("creating prompt: %w", err)
	}
	return q.GetPrompt(ctx, id)
}

// UpdatePrompt overwrites the row with the given id. The row keeps its id and
// created_at; every other column comes from p.
func (q *Queries) UpdatePrompt(ctx context.Context, id int64, p *models.Prompt) (*models.Prompt, error) {
	res, err := q.db.ExecContext(ctx,
		`UPDATE prompts
		 SET title = ?, summary = ?, content = ?, raw_context = ?, version = ?, updated_at = datetime('now')
		 WHERE id = ?`,
		p.Title, p.Summary, p.Content, p.RawContext, p.Version, id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating prompt %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, fmt.Errorf("updating prompt %d: %w", id, ErrNotFound)
	}
	return q.GetPrompt(ctx, id)
}

func (q *Queries) DeletePrompt(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM prompts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting prompt %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("deleting prompt %d: %w", id, ErrNotFound)
	}
	return nil
}

// SchemaDescription is exposed on Queries so callers holding only the store
// can show setup instructions.
func (q *Queries) SchemaDescription() string {
	return SchemaDescription()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPrompt(row rowScanner) (*models.Prompt, error) {
	p := &models.Prompt{}
	var createdAt, updatedAt string
	if err := row.Scan(&p.ID, &p.Title, &p.Summary, &p.Content, &p.RawContext, &p.Version, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	p.CreatedAt, _ = time.Parse(time.DateTime, createdAt)
	p.UpdatedAt, _ = time.Parse(time.DateTime, updatedAt)
	return p, nil
}
