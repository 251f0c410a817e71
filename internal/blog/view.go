package blog

import "time"

// PostView is the JSON representation of a post returned to clients.
type PostView struct {
	ID      string    `json:"id" example:"6630f1a2c1d4e8a9b0c1d2e3"`
	Author  string    `json:"author" example:"Ada Lovelace"`
	Title   string    `json:"title" example:"Notes on the analytical engine"`
	Content string    `json:"content"`
	Created time.Time `json:"created" example:"2024-01-28T10:00:00Z"`
}

// ToView projects a stored post onto the client representation.
// The author is flattened to "{firstName} {lastName}".
func ToView(post BlogPost) PostView {
	return PostView{
		ID:      post.ID,
		Author:  post.Author.FullName(),
		Title:   post.Title,
		Content: post.Content,
		Created: post.Created.UTC(),
	}
}

// ToViews projects a list of posts. A nil or empty list returns an empty (non nil) slice
// so it is encoded as [] rather than null.
func ToViews(posts []BlogPost) []PostView {
	views := make([]PostView, 0, len(posts))
	for _, p := range posts {
		views = append(views, ToView(p))
	}
	return views
}
