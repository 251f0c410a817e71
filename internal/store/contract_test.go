package store

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/information-sharing-networks/blog-api/internal/blog"
)

// runStoreContract exercises the behaviour every Store implementation must share.
// newStore must return an empty store.
func runStoreContract(t *testing.T, newStore func(t *testing.T) Store) {
	t.Helper()

	drafts := func(n int) []blog.Draft {
		out := make([]blog.Draft, 0, n)
		for i := range n {
			out = append(out, blog.Draft{
				Author:  blog.Author{FirstName: fmt.Sprintf("First%d", i), LastName: fmt.Sprintf("Last%d", i)},
				Title:   fmt.Sprintf("Title %d", i),
				Content: fmt.Sprintf("Content %d", i),
			})
		}
		return out
	}

	t.Run("insert many assigns id and created", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		posts, err := s.InsertMany(ctx, drafts(3))
		require.NoError(t, err)
		require.Len(t, posts, 3)

		seen := map[string]bool{}
		for i, p := range posts {
			assert.NotEmpty(t, p.ID)
			assert.False(t, p.Created.IsZero(), "created should be set")
			assert.Equal(t, fmt.Sprintf("Title %d", i), p.Title, "insert order should be preserved")
			assert.False(t, seen[p.ID], "ids must be unique")
			seen[p.ID] = true
		}

		n, err := s.Count(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 3, n)
	})

	t.Run("insert many with no drafts", func(t *testing.T) {
		s := newStore(t)

		posts, err := s.InsertMany(context.Background(), nil)
		require.NoError(t, err)
		assert.Empty(t, posts)
	})

	t.Run("find all returns every post", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		inserted, err := s.InsertMany(ctx, drafts(5))
		require.NoError(t, err)

		all, err := s.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, len(inserted))

		ids := map[string]bool{}
		for _, p := range inserted {
			ids[p.ID] = true
		}
		for _, p := range all {
			assert.True(t, ids[p.ID], "unexpected id %s", p.ID)
		}
	})

	t.Run("find by id round trips the author", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		post, err := s.Insert(ctx, blog.Draft{
			Author:  blog.Author{FirstName: "A", LastName: "B"},
			Title:   "T",
			Content: "C",
		})
		require.NoError(t, err)

		got, err := s.FindByID(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, post.ID, got.ID)
		assert.Equal(t, "A", got.Author.FirstName)
		assert.Equal(t, "B", got.Author.LastName)
		assert.Equal(t, "T", got.Title)
		assert.Equal(t, "C", got.Content)
		assert.True(t, post.Created.Equal(got.Created), "created %v != %v", post.Created, got.Created)
	})

	t.Run("find by id not found", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		_, err := s.FindByID(ctx, "not-a-valid-id")
		assert.True(t, errors.Is(err, ErrNotFound), "invalid id: got %v", err)

		post, err := s.Insert(ctx, drafts(1)[0])
		require.NoError(t, err)
		require.NoError(t, s.DeleteByID(ctx, post.ID))

		_, err = s.FindByID(ctx, post.ID)
		assert.True(t, errors.Is(err, ErrNotFound), "deleted id: got %v", err)
	})

	t.Run("find one", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		_, err := s.FindOne(ctx)
		assert.True(t, errors.Is(err, ErrNotFound), "empty store: got %v", err)

		inserted, err := s.InsertMany(ctx, drafts(2))
		require.NoError(t, err)

		got, err := s.FindOne(ctx)
		require.NoError(t, err)
		assert.Contains(t, []string{inserted[0].ID, inserted[1].ID}, got.ID)
	})

	t.Run("update by id changes only the supplied fields", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		post, err := s.Insert(ctx, drafts(1)[0])
		require.NoError(t, err)

		title := "New Title"
		require.NoError(t, s.UpdateByID(ctx, post.ID, blog.PostUpdate{Title: &title}))

		got, err := s.FindByID(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, "New Title", got.Title)
		assert.Equal(t, post.Content, got.Content)
		assert.Equal(t, post.Author, got.Author)
		assert.True(t, post.Created.Equal(got.Created), "created must not change")

		content := "New content"
		require.NoError(t, s.UpdateByID(ctx, post.ID, blog.PostUpdate{Content: &content}))

		got, err = s.FindByID(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, "New Title", got.Title)
		assert.Equal(t, "New content", got.Content)

		require.NoError(t, s.UpdateByID(ctx, post.ID, blog.PostUpdate{}), "empty update of an existing post")
	})

	t.Run("update by id not found", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		post, err := s.Insert(ctx, drafts(1)[0])
		require.NoError(t, err)
		require.NoError(t, s.DeleteByID(ctx, post.ID))

		title := "x"
		err = s.UpdateByID(ctx, post.ID, blog.PostUpdate{Title: &title})
		assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)

		err = s.UpdateByID(ctx, post.ID, blog.PostUpdate{})
		assert.True(t, errors.Is(err, ErrNotFound), "empty update: got %v", err)

		err = s.UpdateByID(ctx, "not-a-valid-id", blog.PostUpdate{Title: &title})
		assert.True(t, errors.Is(err, ErrNotFound), "invalid id: got %v", err)
	})

	t.Run("delete by id is idempotent", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		posts, err := s.InsertMany(ctx, drafts(2))
		require.NoError(t, err)

		require.NoError(t, s.DeleteByID(ctx, posts[0].ID))
		require.NoError(t, s.DeleteByID(ctx, posts[0].ID))
		require.NoError(t, s.DeleteByID(ctx, "not-a-valid-id"))

		n, err := s.Count(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)
	})

	t.Run("drop all", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		_, err := s.InsertMany(ctx, drafts(4))
		require.NoError(t, err)
		require.NoError(t, s.DropAll(ctx))

		n, err := s.Count(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 0, n)

		// the store must still be usable after a drop
		_, err = s.Insert(ctx, drafts(1)[0])
		require.NoError(t, err)
	})
}
