// Package seed generates and inserts fake blog posts, used by the seed command
// and by the integration tests to populate a store.
package seed

import (
	"context"
	"fmt"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/information-sharing-networks/blog-api/internal/blog"
	"github.com/information-sharing-networks/blog-api/internal/store"
)

// DefaultCount is the number of posts inserted when no count is given
const DefaultCount = 10

// Generator creates fake drafts. A Generator is not safe for concurrent use.
type Generator struct {
	faker *gofakeit.Faker
}

// NewGenerator returns a generator. A non zero seed makes the output reproducible.
func NewGenerator(seed uint64) *Generator {
	return &Generator{faker: gofakeit.New(seed)}
}

// Draft returns a single fake draft
func (g *Generator) Draft() blog.Draft {
	return blog.Draft{
		Author: blog.Author{
			FirstName: g.faker.FirstName(),
			LastName:  g.faker.LastName(),
		},
		Title:   g.faker.Sentence(6),
		Content: g.faker.Paragraph(1, 5, 12, " "),
	}
}

// Drafts returns n fake drafts
func (g *Generator) Drafts(n int) []blog.Draft {
	drafts := make([]blog.Draft, 0, n)
	for range n {
		drafts = append(drafts, g.Draft())
	}
	return drafts
}

// Posts inserts n fake posts into s and returns them
func Posts(ctx context.Context, s store.Store, g *Generator, n int) ([]blog.BlogPost, error) {
	if n < 0 {
		return nil, fmt.Errorf("count must be 0 or greater, got %d", n)
	}
	posts, err := s.InsertMany(ctx, g.Drafts(n))
	if err != nil {
		return nil, fmt.Errorf("failed to seed blog posts: %w", err)
	}
	return posts, nil
}
