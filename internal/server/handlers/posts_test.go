package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/information-sharing-networks/blog-api/internal/blog"
	"github.com/information-sharing-networks/blog-api/internal/store"
	"github.com/information-sharing-networks/blog-api/internal/version"
)

func newTestRouter(s store.Store) *chi.Mux {
	router := chi.NewRouter()
	router.Get("/posts", HandleListPosts(s))
	router.Post("/posts", HandleCreatePost(s))
	router.Get("/posts/{id}", HandleGetPost(s))
	router.Put("/posts/{id}", HandleUpdatePost(s))
	router.Delete("/posts/{id}", HandleDeletePost(s))
	return router
}

func seedStore(t *testing.T, s store.Store, n int) []blog.BlogPost {
	t.Helper()

	drafts := make([]blog.Draft, 0, n)
	for range n {
		drafts = append(drafts, blog.Draft{
			Author:  blog.Author{FirstName: "Ada", LastName: "Lovelace"},
			Title:   "This is the title - ",
			Content: "This is generic content to put into each post",
		})
	}
	posts, err := s.InsertMany(context.Background(), drafts)
	if err != nil {
		t.Fatalf("failed to seed store: %v", err)
	}
	return posts
}

func doRequest(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decodeErrorResponse(t *testing.T, rr *httptest.ResponseRecorder) blog.ErrorResponse {
	t.Helper()

	var errResp blog.ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	return errResp
}

func TestListPosts(t *testing.T) {
	s := store.NewMemoryStore()
	seeded := seedStore(t, s, 9)
	router := newTestRouter(s)

	rr := doRequest(t, router, "GET", "/posts", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200. Response: %s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("got content type %q, want application/json", ct)
	}

	var views []blog.PostView
	if err := json.NewDecoder(rr.Body).Decode(&views); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(views) != len(seeded) {
		t.Fatalf("got %d posts, want %d", len(views), len(seeded))
	}

	for _, v := range views {
		post, err := s.FindByID(context.Background(), v.ID)
		if err != nil {
			t.Errorf("returned id %s is not a stored post: %v", v.ID, err)
			continue
		}
		if v.Author != "Ada Lovelace" {
			t.Errorf("got author %q, want \"Ada Lovelace\"", v.Author)
		}
		if v.ID != post.ID {
			t.Errorf("got id %s, want %s", v.ID, post.ID)
		}
	}
}

func TestListPostsEmpty(t *testing.T) {
	router := newTestRouter(store.NewMemoryStore())

	rr := doRequest(t, router, "GET", "/posts", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", rr.Code)
	}
	if got := strings.TrimSpace(rr.Body.String()); got != "[]" {
		t.Errorf("got body %q, want []", got)
	}
}

func TestGetPost(t *testing.T) {
	s := store.NewMemoryStore()
	post := seedStore(t, s, 1)[0]
	router := newTestRouter(s)

	rr := doRequest(t, router, "GET", "/posts/"+post.ID, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200. Response: %s", rr.Code, rr.Body.String())
	}

	var view blog.PostView
	if err := json.NewDecoder(rr.Body).Decode(&view); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if view.ID != post.ID {
		t.Errorf("got id %s, want %s", view.ID, post.ID)
	}
	if view.Title != post.Title || view.Content != post.Content {
		t.Errorf("got %+v, want title/content of %+v", view, post)
	}
	if !view.Created.Equal(post.Created) {
		t.Errorf("got created %v, want %v", view.Created, post.Created)
	}

	rr = doRequest(t, router, "GET", "/posts/does-not-exist", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("got status %d, want 404", rr.Code)
	}
	if errResp := decodeErrorResponse(t, rr); errResp.ErrorCode != blog.ErrCodeNotFound {
		t.Errorf("got error code %s, want %s", errResp.ErrorCode, blog.ErrCodeNotFound)
	}
}

func TestCreatePost(t *testing.T) {
	s := store.NewMemoryStore()
	router := newTestRouter(s)

	body := map[string]any{
		"title":   "T",
		"author":  map[string]string{"firstName": "A", "lastName": "B"},
		"content": "C",
	}

	rr := doRequest(t, router, "POST", "/posts", body)
	if rr.Code != http.StatusCreated {
		t.Fatalf("got status %d, want 201. Response: %s", rr.Code, rr.Body.String())
	}

	var raw map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &raw); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	for _, key := range []string{"id", "title", "author", "content", "created"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("response missing key %q: %s", key, rr.Body.String())
		}
	}
	if raw["author"] != "A B" {
		t.Errorf("got author %v, want \"A B\"", raw["author"])
	}
	if raw["title"] != "T" || raw["content"] != "C" {
		t.Errorf("got title %v content %v, want T and C", raw["title"], raw["content"])
	}

	id, _ := raw["id"].(string)
	if id == "" {
		t.Fatal("expected non-empty id")
	}
	if loc := rr.Header().Get("Location"); loc != "/posts/"+id {
		t.Errorf("got Location %q, want /posts/%s", loc, id)
	}

	post, err := s.FindByID(context.Background(), id)
	if err != nil {
		t.Fatalf("created post not in store: %v", err)
	}
	if post.Author.FirstName != "A" || post.Author.LastName != "B" {
		t.Errorf("stored author = %+v, want A B", post.Author)
	}
}

func TestCreatePostValidation(t *testing.T) {
	tests := []struct {
		name       string
		body       any
		wantStatus int
		wantCode   blog.ErrorCode
		wantFields []string
	}{
		{
			name:       "malformed json",
			body:       `{"title": `,
			wantStatus: http.StatusBadRequest,
			wantCode:   blog.ErrCodeMalformedRequest,
		},
		{
			name:       "missing title",
			body:       map[string]any{"author": map[string]string{"firstName": "A", "lastName": "B"}, "content": "C"},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   blog.ErrCodeValidation,
			wantFields: []string{"title"},
		},
		{
			name:       "missing author",
			body:       map[string]any{"title": "T", "content": "C"},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   blog.ErrCodeValidation,
			wantFields: []string{"firstName", "lastName"},
		},
		{
			name:       "missing last name",
			body:       map[string]any{"title": "T", "author": map[string]string{"firstName": "A"}, "content": "C"},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   blog.ErrCodeValidation,
			wantFields: []string{"lastName"},
		},
		{
			name:       "missing content",
			body:       map[string]any{"title": "T", "author": map[string]string{"firstName": "A", "lastName": "B"}},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   blog.ErrCodeValidation,
			wantFields: []string{"content"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := store.NewMemoryStore()
			router := newTestRouter(s)

			rr := doRequest(t, router, "POST", "/posts", tt.body)
			if rr.Code != tt.wantStatus {
				t.Fatalf("got status %d, want %d. Response: %s", rr.Code, tt.wantStatus, rr.Body.String())
			}

			errResp := decodeErrorResponse(t, rr)
			if errResp.ErrorCode != tt.wantCode {
				t.Errorf("got error code %s, want %s", errResp.ErrorCode, tt.wantCode)
			}
			for _, field := range tt.wantFields {
				if !strings.Contains(errResp.Message, field) {
					t.Errorf("error message %q does not name field %q", errResp.Message, field)
				}
			}

			if n, _ := s.Count(context.Background()); n != 0 {
				t.Errorf("invalid request stored %d posts", n)
			}
		})
	}
}

func TestUpdatePost(t *testing.T) {
	s := store.NewMemoryStore()
	post := seedStore(t, s, 1)[0]
	router := newTestRouter(s)

	updateData := map[string]string{
		"id":      post.ID,
		"title":   "New Title that's cooler than before",
		"content": "New content that's so cool omg",
	}

	rr := doRequest(t, router, "PUT", "/posts/"+post.ID, updateData)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("got status %d, want 204. Response: %s", rr.Code, rr.Body.String())
	}
	if rr.Body.Len() != 0 {
		t.Errorf("expected empty body, got %q", rr.Body.String())
	}

	got, err := s.FindByID(context.Background(), post.ID)
	if err != nil {
		t.Fatalf("FindByID() error: %v", err)
	}
	if got.Title != updateData["title"] || got.Content != updateData["content"] {
		t.Errorf("got title %q content %q, want the updated values", got.Title, got.Content)
	}
	if got.Author != post.Author || !got.Created.Equal(post.Created) {
		t.Errorf("fields not in the update changed: %+v -> %+v", post, got)
	}
}

func TestUpdatePostPartial(t *testing.T) {
	s := store.NewMemoryStore()
	post := seedStore(t, s, 1)[0]
	router := newTestRouter(s)

	rr := doRequest(t, router, "PUT", "/posts/"+post.ID, map[string]string{"id": post.ID, "title": "Only the title"})
	if rr.Code != http.StatusNoContent {
		t.Fatalf("got status %d, want 204. Response: %s", rr.Code, rr.Body.String())
	}

	got, _ := s.FindByID(context.Background(), post.ID)
	if got.Title != "Only the title" {
		t.Errorf("got title %q, want \"Only the title\"", got.Title)
	}
	if got.Content != post.Content {
		t.Errorf("content changed: %q -> %q", post.Content, got.Content)
	}
}

func TestUpdatePostErrors(t *testing.T) {
	s := store.NewMemoryStore()
	post := seedStore(t, s, 1)[0]
	router := newTestRouter(s)

	tests := []struct {
		name       string
		path       string
		body       any
		wantStatus int
		wantCode   blog.ErrorCode
	}{
		{
			name:       "body id does not match path id",
			path:       "/posts/" + post.ID,
			body:       map[string]string{"id": "some-other-id", "title": "x"},
			wantStatus: http.StatusBadRequest,
			wantCode:   blog.ErrCodeIDMismatch,
		},
		{
			name:       "body id missing",
			path:       "/posts/" + post.ID,
			body:       map[string]string{"title": "x"},
			wantStatus: http.StatusBadRequest,
			wantCode:   blog.ErrCodeIDMismatch,
		},
		{
			name:       "malformed json",
			path:       "/posts/" + post.ID,
			body:       `not json`,
			wantStatus: http.StatusBadRequest,
			wantCode:   blog.ErrCodeMalformedRequest,
		},
		{
			name:       "empty title",
			path:       "/posts/" + post.ID,
			body:       map[string]string{"id": post.ID, "title": ""},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   blog.ErrCodeValidation,
		},
		{
			name:       "post does not exist",
			path:       "/posts/missing-id",
			body:       map[string]string{"id": "missing-id", "title": "x"},
			wantStatus: http.StatusNotFound,
			wantCode:   blog.ErrCodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doRequest(t, router, "PUT", tt.path, tt.body)
			if rr.Code != tt.wantStatus {
				t.Fatalf("got status %d, want %d. Response: %s", rr.Code, tt.wantStatus, rr.Body.String())
			}
			if errResp := decodeErrorResponse(t, rr); errResp.ErrorCode != tt.wantCode {
				t.Errorf("got error code %s, want %s", errResp.ErrorCode, tt.wantCode)
			}
		})
	}

	got, _ := s.FindByID(context.Background(), post.ID)
	if got.Title != post.Title {
		t.Errorf("rejected updates changed the title to %q", got.Title)
	}
}

func TestDeletePost(t *testing.T) {
	s := store.NewMemoryStore()
	posts := seedStore(t, s, 2)
	router := newTestRouter(s)

	doomed := posts[0]

	rr := doRequest(t, router, "DELETE", "/posts/"+doomed.ID, nil)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("got status %d, want 204", rr.Code)
	}

	if _, err := s.FindByID(context.Background(), doomed.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected deleted post to be not found, got %v", err)
	}

	// deleting again is not an error
	rr = doRequest(t, router, "DELETE", "/posts/"+doomed.ID, nil)
	if rr.Code != http.StatusNoContent {
		t.Errorf("second delete: got status %d, want 204", rr.Code)
	}

	rr = doRequest(t, router, "GET", "/posts/"+doomed.ID, nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("get after delete: got status %d, want 404", rr.Code)
	}

	if n, _ := s.Count(context.Background()); n != 1 {
		t.Errorf("got %d posts after delete, want 1", n)
	}
}

// failingStore returns errStoreDown from every operation
type failingStore struct {
	store.Store
}

var errStoreDown = errors.New("connection refused")

func (failingStore) FindAll(ctx context.Context) ([]blog.BlogPost, error) {
	return nil, errStoreDown
}

func (failingStore) FindByID(ctx context.Context, id string) (blog.BlogPost, error) {
	return blog.BlogPost{}, errStoreDown
}

func (failingStore) DeleteByID(ctx context.Context, id string) error {
	return errStoreDown
}

func (failingStore) Ping(ctx context.Context) error {
	return errStoreDown
}

func TestStoreUnavailable(t *testing.T) {
	router := newTestRouter(failingStore{})

	for _, tc := range []struct{ method, path string }{
		{"GET", "/posts"},
		{"GET", "/posts/abc"},
		{"DELETE", "/posts/abc"},
	} {
		rr := doRequest(t, router, tc.method, tc.path, nil)
		if rr.Code != http.StatusInternalServerError {
			t.Errorf("%s %s: got status %d, want 500", tc.method, tc.path, rr.Code)
			continue
		}
		errResp := decodeErrorResponse(t, rr)
		if errResp.ErrorCode != blog.ErrCodeStoreUnavailable {
			t.Errorf("%s %s: got error code %s, want %s", tc.method, tc.path, errResp.ErrorCode, blog.ErrCodeStoreUnavailable)
		}
		if strings.Contains(errResp.Message, errStoreDown.Error()) {
			t.Errorf("%s %s: store error leaked to client: %q", tc.method, tc.path, errResp.Message)
		}
	}
}

// slowStore never answers a ping before the context is done
type slowStore struct {
	store.Store
}

func (slowStore) Ping(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestReadiness(t *testing.T) {
	tests := []struct {
		name           string
		store          store.Store
		wantStatus     int
		wantStatusText string
		wantStore      string
	}{
		{"store reachable", store.NewMemoryStore(), http.StatusOK, "ready", "ok"},
		{"store down", failingStore{}, http.StatusServiceUnavailable, "not ready", "unavailable"},
		{"store does not answer", slowStore{}, http.StatusServiceUnavailable, "not ready", "unavailable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			start := time.Now()
			HandleReadiness(tt.store, 50*time.Millisecond)(rr, httptest.NewRequest("GET", "/health/ready", nil))

			if elapsed := time.Since(start); elapsed > 2*time.Second {
				t.Errorf("readiness check took %v, ping timeout not applied", elapsed)
			}
			if rr.Code != tt.wantStatus {
				t.Errorf("got status %d, want %d", rr.Code, tt.wantStatus)
			}

			var resp ReadinessResponse
			if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Status != tt.wantStatusText {
				t.Errorf("got status %q, want %q", resp.Status, tt.wantStatusText)
			}
			if resp.Store != tt.wantStore {
				t.Errorf("got store %q, want %q", resp.Store, tt.wantStore)
			}
		})
	}
}

func TestVersion(t *testing.T) {
	info := version.Info{Version: "v1.2.0", BuildDate: "2024-01-28T10:00:00Z", GitCommit: "3f2c1a9"}

	rr := httptest.NewRecorder()
	HandleVersion(info)(rr, httptest.NewRequest("GET", "/version", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("got content type %q, want application/json", ct)
	}

	var resp VersionResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	want := VersionResponse{Service: "blog-server", Version: "v1.2.0", BuildDate: "2024-01-28T10:00:00Z", GitCommit: "3f2c1a9"}
	if resp != want {
		t.Errorf("got %+v, want %+v", resp, want)
	}
}
