package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var articleColumns = []string{"id", "headline", "content", "author", "category", "status", "created_at"}

// Postgres stores articles in the articles table created by migrations/.
type Postgres struct {
	DB    *sql.DB
	now   Clock
	newID IDGenerator
}

var _ Store = (*Postgres)(nil)

// NewPostgres wraps an open database handle.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{DB: db, now: utcNow}
}

// OpenPostgres connects using a lib/pq DSN and verifies the connection.
func OpenPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return NewPostgres(db), nil
}

// WithClock pins timestamps and ids; used by tests.
func (p *Postgres) WithClock(now Clock, newID IDGenerator) *Postgres {
	p.now = now
	p.newID = newID
	return p
}

func (p *Postgres) Create(ctx context.Context, in ArticleInput) (Article, error) {
	if err := in.Validate(); err != nil {
		return Article{}, err
	}
	a := newArticle(in, p.now, p.newID)
	query, args, err := psql.Insert("articles").
		Columns(articleColumns...).
		Values(a.ID, a.Headline, a.Content, a.Author, a.Category, a.Status, a.CreatedAt).
		ToSql()
	if err != nil {
		return Article{}, fmt.Errorf("build insert: %w", err)
	}
	if _, err := p.DB.ExecContext(ctx, query, args...); err != nil {
		return Article{}, fmt.Errorf("insert article: %w", err)
	}
	return a, nil
}

func (p *Postgres) ListPublished(ctx context.Context, category string) ([]Article, error) {
	q := psql.Select(articleColumns...).From("articles").Where(sq.Eq{"status": StatusPublished})
	if category != "" {
		q = q.Where("LOWER(category) = LOWER(?)", category)
	}
	return p.list(ctx, q.OrderBy("created_at DESC"))
}

func (p *Postgres) ListDrafts(ctx context.Context) ([]Article, error) {
	q := psql.Select(articleColumns...).From("articles").
		Where(sq.Eq{"status": StatusDraft}).
		OrderBy("created_at DESC")
	return p.list(ctx, q)
}

func (p *Postgres) list(ctx context.Context, q sq.SelectBuilder) ([]Article, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}
	rows, err := p.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query articles: %w", err)
	}
	defer rows.Close()

	out := []Article{}
	for rows.Next() {
		var a Article
		if err := rows.Scan(&a.ID, &a.Headline, &a.Content, &a.Author, &a.Category, &a.Status, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return out, nil
}

func (p *Postgres) Get(ctx context.Context, id string) (Article, error) {
	query, args, err := psql.Select(articleColumns...).From("articles").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return Article{}, fmt.Errorf("build select: %w", err)
	}
	var a Article
	err = p.DB.QueryRowContext(ctx, query, args...).
		Scan(&a.ID, &a.Headline, &a.Content, &a.Author, &a.Category, &a.Status, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Article{}, ErrNotFound
	}
	if err != nil {
		return Article{}, fmt.Errorf("get article: %w", err)
	}
	return a, nil
}

func (p *Postgres) Publish(ctx context.Context, id string) error {
	query, args, err := psql.Update("articles").Set("status", StatusPublished).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}
	return p.execOne(ctx, query, args)
}

func (p *Postgres) Delete(ctx context.Context, id string) error {
	query, args, err := psql.Delete("articles").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	return p.execOne(ctx, query, args)
}

// execOne runs a statement that must touch exactly one row.
func (p *Postgres) execOne(ctx context.Context, query string, args []interface{}) error {
	res, err := p.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("exec: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) Close() error { return p.DB.Close() }
