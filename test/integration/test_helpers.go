//go:build integration

// functions that are useful in integration tests

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/information-sharing-networks/blog-api/internal/blog"
	"github.com/information-sharing-networks/blog-api/internal/seed"
)

// seedPostCount is the number of posts inserted before each test
const seedPostCount = 9

// seedBlogPostData inserts seedPostCount fake posts and registers tearDownDb so the
// store is emptied however the test exits
func seedBlogPostData(t *testing.T, env *testEnv) []blog.BlogPost {
	t.Helper()

	t.Cleanup(func() {
		tearDownDb(t, env)
	})

	posts, err := seed.Posts(context.Background(), env.store, seed.NewGenerator(0), seedPostCount)
	if err != nil {
		t.Fatalf("failed to seed blog post data: %v", err)
	}
	return posts
}

// generateBlogPostData returns a create request body with fake values
func generateBlogPostData() blog.CreatePostRequest {
	return blog.CreatePostRequest{
		Title: "This is the title - " + gofakeit.Sentence(3),
		Author: blog.AuthorRequest{
			FirstName: gofakeit.FirstName(),
			LastName:  gofakeit.LastName(),
		},
		Content: gofakeit.Paragraph(1, 3, 10, " "),
	}
}

// tearDownDb deletes every post in the test store
func tearDownDb(t *testing.T, env *testEnv) {
	t.Helper()

	t.Log("Deleting blog posts")
	if err := env.store.DropAll(context.Background()); err != nil {
		t.Errorf("failed to drop blog posts: %v", err)
	}
}

// doJSON sends a request with an optional JSON body and returns the response and its body
func doJSON(t *testing.T, method, url string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, url, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	return resp, respBody
}
