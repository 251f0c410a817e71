package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/information-sharing-networks/blog-api/internal/blog"
)

// MemoryStore keeps posts in a map. It is safe for concurrent use.
type MemoryStore struct {
	mu    sync.RWMutex
	posts map[string]blog.BlogPost

	// now is replaceable in tests
	now func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		posts: make(map[string]blog.BlogPost),
		now:   time.Now,
	}
}

func (m *MemoryStore) Insert(ctx context.Context, draft blog.Draft) (blog.BlogPost, error) {
	posts, err := m.InsertMany(ctx, []blog.Draft{draft})
	if err != nil {
		return blog.BlogPost{}, err
	}
	return posts[0], nil
}

func (m *MemoryStore) InsertMany(ctx context.Context, drafts []blog.Draft) ([]blog.BlogPost, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	created := m.now().UTC().Truncate(time.Millisecond)
	posts := make([]blog.BlogPost, 0, len(drafts))
	for _, d := range drafts {
		p := blog.BlogPost{
			ID:      uuid.NewString(),
			Author:  d.Author,
			Title:   d.Title,
			Content: d.Content,
			Created: created,
		}
		m.posts[p.ID] = p
		posts = append(posts, p)
	}
	return posts, nil
}

func (m *MemoryStore) FindAll(ctx context.Context) ([]blog.BlogPost, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	posts := make([]blog.BlogPost, 0, len(m.posts))
	for _, p := range m.posts {
		posts = append(posts, p)
	}
	m.mu.RUnlock()

	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].Created.Equal(posts[j].Created) {
			return posts[i].Created.Before(posts[j].Created)
		}
		return posts[i].ID < posts[j].ID
	})
	return posts, nil
}

func (m *MemoryStore) FindByID(ctx context.Context, id string) (blog.BlogPost, error) {
	if err := ctx.Err(); err != nil {
		return blog.BlogPost{}, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.posts[id]
	if !ok {
		return blog.BlogPost{}, ErrNotFound
	}
	return p, nil
}

func (m *MemoryStore) FindOne(ctx context.Context) (blog.BlogPost, error) {
	posts, err := m.FindAll(ctx)
	if err != nil {
		return blog.BlogPost{}, err
	}
	if len(posts) == 0 {
		return blog.BlogPost{}, ErrNotFound
	}
	return posts[0], nil
}

func (m *MemoryStore) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.posts)), nil
}

func (m *MemoryStore) UpdateByID(ctx context.Context, id string, update blog.PostUpdate) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.posts[id]
	if !ok {
		return ErrNotFound
	}
	m.posts[id] = update.Apply(p)
	return nil
}

func (m *MemoryStore) DeleteByID(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.posts, id)
	return nil
}

func (m *MemoryStore) DropAll(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.posts = make(map[string]blog.BlogPost)
	return nil
}

func (m *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (m *MemoryStore) Close(ctx context.Context) error {
	return nil
}
