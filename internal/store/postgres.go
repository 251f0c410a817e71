package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/lock"

	"github.com/information-sharing-networks/blog-api/internal/blog"
)

//go:embed migrations/*.sql
var migrations embed.FS

// pgAuthor is the JSONB shape of the author column
type pgAuthor struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// PostgresStore stores posts in the blog_posts table. The author is held as a JSONB document.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewPostgresStore creates a connection pool and applies the schema migrations.
func NewPostgresStore(ctx context.Context, databaseURL string, opts Options) (*PostgresStore, error) {
	opts = opts.withDefaults()

	poolConfig, err := newPoolConfig(databaseURL, opts)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	s := &PostgresStore{pool: pool, logger: opts.Logger}

	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func newPoolConfig(databaseURL string, opts Options) (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	poolConfig.MaxConns = opts.MaxConnections
	poolConfig.MinConns = opts.MinConnections
	if opts.MaxConnLifetime > 0 {
		poolConfig.MaxConnLifetime = opts.MaxConnLifetime
	}
	if opts.MaxConnIdleTime > 0 {
		poolConfig.MaxConnIdleTime = opts.MaxConnIdleTime
	}
	poolConfig.ConnConfig.ConnectTimeout = opts.ConnectTimeout

	return poolConfig, nil
}

// migrate applies all pending goose migrations embedded in the binary.
// A postgres advisory lock serialises concurrent migrations from other stores or processes.
func (s *PostgresStore) migrate(ctx context.Context) error {
	// Convert pgx pool to database/sql interface that Goose expects
	var db *sql.DB = stdlib.OpenDBFromPool(s.pool)
	defer db.Close()

	fsys, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("failed to read embedded migrations: %w", err)
	}

	locker, err := lock.NewPostgresSessionLocker()
	if err != nil {
		return fmt.Errorf("failed to create migration lock: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectPostgres, db, fsys, goose.WithSessionLocker(locker))
	if err != nil {
		return fmt.Errorf("failed to create migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	for _, r := range results {
		s.logger.Info("applied migration",
			slog.Int64("version", r.Source.Version),
			slog.Duration("duration", r.Duration),
		)
	}

	version, err := provider.GetDBVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	s.logger.Debug("database schema up to date", slog.Int64("version", version))
	return nil
}

const (
	insertPostSQL = `INSERT INTO blog_posts (id, author, title, content)
		VALUES ($1, $2, $3, $4)
		RETURNING created`

	selectPostSQL = `SELECT id, author, title, content, created FROM blog_posts`

	orderByCreated = ` ORDER BY created, id`
)

func (s *PostgresStore) Insert(ctx context.Context, draft blog.Draft) (blog.BlogPost, error) {
	posts, err := s.InsertMany(ctx, []blog.Draft{draft})
	if err != nil {
		return blog.BlogPost{}, err
	}
	return posts[0], nil
}

// InsertMany inserts the drafts in a single transaction
func (s *PostgresStore) InsertMany(ctx context.Context, drafts []blog.Draft) ([]blog.BlogPost, error) {
	if len(drafts) == 0 {
		return []blog.BlogPost{}, nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	posts := make([]blog.BlogPost, 0, len(drafts))
	batch := &pgx.Batch{}
	for _, d := range drafts {
		id := uuid.New()
		batch.Queue(insertPostSQL,
			id,
			pgAuthor{FirstName: d.Author.FirstName, LastName: d.Author.LastName},
			d.Title,
			d.Content,
		)
		posts = append(posts, blog.BlogPost{
			ID:      id.String(),
			Author:  d.Author,
			Title:   d.Title,
			Content: d.Content,
		})
	}

	results := tx.SendBatch(ctx, batch)
	for i := range posts {
		var created time.Time
		if err := results.QueryRow().Scan(&created); err != nil {
			_ = results.Close()
			return nil, fmt.Errorf("failed to insert blog post %d: %w", i, err)
		}
		posts[i].Created = created.UTC()
	}
	if err := results.Close(); err != nil {
		return nil, fmt.Errorf("failed to insert blog posts: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit blog posts: %w", err)
	}
	return posts, nil
}

func (s *PostgresStore) FindAll(ctx context.Context) ([]blog.BlogPost, error) {
	rows, err := s.pool.Query(ctx, selectPostSQL+orderByCreated)
	if err != nil {
		return nil, fmt.Errorf("failed to query blog posts: %w", err)
	}

	posts, err := pgx.CollectRows(rows, scanPost)
	if err != nil {
		return nil, fmt.Errorf("failed to read blog posts: %w", err)
	}
	return posts, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id string) (blog.BlogPost, error) {
	postID, err := uuid.Parse(id)
	if err != nil {
		return blog.BlogPost{}, ErrNotFound
	}
	return s.queryOne(ctx, selectPostSQL+` WHERE id = $1`, postID)
}

func (s *PostgresStore) FindOne(ctx context.Context) (blog.BlogPost, error) {
	return s.queryOne(ctx, selectPostSQL+orderByCreated+` LIMIT 1`)
}

func (s *PostgresStore) queryOne(ctx context.Context, query string, args ...any) (blog.BlogPost, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return blog.BlogPost{}, fmt.Errorf("failed to query blog post: %w", err)
	}

	post, err := pgx.CollectExactlyOneRow(rows, scanPost)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return blog.BlogPost{}, ErrNotFound
		}
		return blog.BlogPost{}, fmt.Errorf("failed to read blog post: %w", err)
	}
	return post, nil
}

func scanPost(row pgx.CollectableRow) (blog.BlogPost, error) {
	var (
		id     uuid.UUID
		author pgAuthor
		post   blog.BlogPost
	)
	if err := row.Scan(&id, &author, &post.Title, &post.Content, &post.Created); err != nil {
		return blog.BlogPost{}, err
	}
	post.ID = id.String()
	post.Author = blog.Author{FirstName: author.FirstName, LastName: author.LastName}
	post.Created = post.Created.UTC()
	return post, nil
}

func (s *PostgresStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM blog_posts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count blog posts: %w", err)
	}
	return n, nil
}

// UpdateByID sets title and/or content; NULL parameters leave the column unchanged
func (s *PostgresStore) UpdateByID(ctx context.Context, id string, update blog.PostUpdate) error {
	postID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE blog_posts
		SET title = COALESCE($2, title), content = COALESCE($3, content)
		WHERE id = $1`,
		postID, update.Title, update.Content,
	)
	if err != nil {
		return fmt.Errorf("failed to update blog post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteByID(ctx context.Context, id string) error {
	postID, err := uuid.Parse(id)
	if err != nil {
		return nil
	}
	if _, err := s.pool.Exec(ctx, `DELETE FROM blog_posts WHERE id = $1`, postID); err != nil {
		return fmt.Errorf("failed to delete blog post: %w", err)
	}
	return nil
}

func (s *PostgresStore) DropAll(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `TRUNCATE TABLE blog_posts`); err != nil {
		return fmt.Errorf("failed to truncate blog_posts: %w", err)
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) Close(ctx context.Context) error {
	s.pool.Close()
	return nil
}
