// Package store persists blog posts.
//
// Three backends implement Store and are selected by the scheme of the store address:
//
//	mongodb:// mongodb+srv://   MongoDB collection "blogposts"
//	postgres:// postgresql://   PostgreSQL table "blog_posts" (author held as JSONB)
//	memory://                   in-process map, for tests and local demos
//
// Stores report a missing post with ErrNotFound. DeleteByID is idempotent and
// does not report missing posts.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/information-sharing-networks/blog-api/internal/blog"
)

// ErrNotFound is returned when no post matches the requested id (or the store is empty for FindOne).
var ErrNotFound = errors.New("blog post not found")

// Store is the entity store for blog posts.
type Store interface {
	// Insert stores a single draft and returns the persisted post.
	Insert(ctx context.Context, draft blog.Draft) (blog.BlogPost, error)

	// InsertMany stores the drafts in order and returns the persisted posts with id and created set.
	InsertMany(ctx context.Context, drafts []blog.Draft) ([]blog.BlogPost, error)

	// FindAll returns every post, oldest first.
	FindAll(ctx context.Context) ([]blog.BlogPost, error)

	// FindByID returns the post with the given id or ErrNotFound.
	FindByID(ctx context.Context, id string) (blog.BlogPost, error)

	// FindOne returns an arbitrary post or ErrNotFound if there are none.
	FindOne(ctx context.Context) (blog.BlogPost, error)

	// Count returns the number of posts.
	Count(ctx context.Context) (int64, error)

	// UpdateByID applies a partial update to the title and/or content of a post.
	// Returns ErrNotFound if the post does not exist.
	UpdateByID(ctx context.Context, id string, update blog.PostUpdate) error

	// DeleteByID removes a post. Deleting a post that does not exist is not an error.
	DeleteByID(ctx context.Context, id string) error

	// DropAll removes every post.
	DropAll(ctx context.Context) error

	// Ping checks the store is reachable.
	Ping(ctx context.Context) error

	// Close releases the store connection.
	Close(ctx context.Context) error
}

// Options configure the connection made by Open.
type Options struct {
	// DatabaseName is the MongoDB database name (ignored by other backends)
	DatabaseName string

	// MaxConnections and MinConnections size the connection pool
	MaxConnections int32
	MinConnections int32

	// MaxConnLifetime and MaxConnIdleTime recycle pooled connections (0 keeps the driver default).
	// MaxConnLifetime only applies to postgres.
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration

	// ConnectTimeout bounds establishing a connection; PingTimeout bounds the initial ping.
	ConnectTimeout time.Duration
	PingTimeout    time.Duration

	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.DatabaseName == "" {
		o.DatabaseName = "blog"
	}
	if o.MaxConnections < 1 {
		o.MaxConnections = 4
	}
	if o.ConnectTimeout <= 0 {
		o.ConnectTimeout = 5 * time.Second
	}
	if o.PingTimeout <= 0 {
		o.PingTimeout = 10 * time.Second
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Open connects to the store at address and verifies the connection with a ping.
func Open(ctx context.Context, address string, opts Options) (Store, error) {
	opts = opts.withDefaults()

	u, err := url.Parse(address)
	if err != nil {
		return nil, fmt.Errorf("failed to parse store address: %w", err)
	}

	var s Store
	switch u.Scheme {
	case "mongodb", "mongodb+srv":
		s, err = NewMongoStore(ctx, address, opts)
	case "postgres", "postgresql":
		s, err = NewPostgresStore(ctx, address, opts)
	case "memory":
		s = NewMemoryStore()
	default:
		return nil, fmt.Errorf("unsupported store scheme %q (use mongodb, postgres or memory)", u.Scheme)
	}
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, opts.PingTimeout)
	defer cancel()

	if err := s.Ping(pingCtx); err != nil {
		_ = s.Close(ctx)
		return nil, fmt.Errorf("failed to ping %s store: %w", u.Scheme, err)
	}

	opts.Logger.Info("connected to store", slog.String("backend", u.Scheme))
	return s, nil
}
