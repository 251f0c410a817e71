package blog

import "time"

// Author is the composite author value held in storage and accepted on create.
type Author struct {
	FirstName string
	LastName  string
}

// FullName returns the display form of the author ("{firstName} {lastName}").
func (a Author) FullName() string {
	return a.FirstName + " " + a.LastName
}

// BlogPost is a persisted post. ID and Created are assigned by the store on insert and never change.
type BlogPost struct {
	ID      string
	Author  Author
	Title   string
	Content string
	Created time.Time
}

// Draft is a post that has not been stored yet.
type Draft struct {
	Author  Author
	Title   string
	Content string
}

// PostUpdate is a partial update of a post. Nil fields are left unchanged.
// Only the title and content of a post can be updated.
type PostUpdate struct {
	Title   *string
	Content *string
}

// IsEmpty reports whether the update would not change anything.
func (u PostUpdate) IsEmpty() bool {
	return u.Title == nil && u.Content == nil
}

// Apply returns a copy of post with the update applied.
func (u PostUpdate) Apply(post BlogPost) BlogPost {
	if u.Title != nil {
		post.Title = *u.Title
	}
	if u.Content != nil {
		post.Content = *u.Content
	}
	return post
}
