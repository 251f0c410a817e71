package blog

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// AuthorRequest is the author object accepted when creating a post
type AuthorRequest struct {
	FirstName string `json:"firstName" example:"Ada"`
	LastName  string `json:"lastName" example:"Lovelace"`
}

func (a AuthorRequest) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.FirstName, validation.Required.Error("firstName is required")),
		validation.Field(&a.LastName, validation.Required.Error("lastName is required")),
	)
}

// CreatePostRequest is the body of POST /posts
type CreatePostRequest struct {
	Title   string        `json:"title" example:"Notes on the analytical engine"`
	Author  AuthorRequest `json:"author"`
	Content string        `json:"content" example:"The engine might compose elaborate pieces of music"`
}

// Validate checks the required fields are present.
// The returned error is a ValidationError naming the offending fields.
func (r CreatePostRequest) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required.Error("title is required")),
		validation.Field(&r.Author),
		validation.Field(&r.Content, validation.Required.Error("content is required")),
	)
	return asValidationError(err)
}

// ToDraft converts the request to a draft ready for insertion
func (r CreatePostRequest) ToDraft() Draft {
	return Draft{
		Author: Author{
			FirstName: r.Author.FirstName,
			LastName:  r.Author.LastName,
		},
		Title:   r.Title,
		Content: r.Content,
	}
}

// UpdatePostRequest is the body of PUT /posts/{id}.
// Only title and content can be changed; the id must match the id in the request path.
type UpdatePostRequest struct {
	ID      string  `json:"id" example:"6630f1a2c1d4e8a9b0c1d2e3"`
	Title   *string `json:"title,omitempty" example:"A better title"`
	Content *string `json:"content,omitempty"`
}

// Validate checks the body id matches pathID and that any supplied field is not empty.
func (r UpdatePostRequest) Validate(pathID string) error {
	if r.ID != pathID {
		return NewIDMismatchError(pathID, r.ID)
	}
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.NilOrNotEmpty.Error("title cannot be empty")),
		validation.Field(&r.Content, validation.NilOrNotEmpty.Error("content cannot be empty")),
	)
	return asValidationError(err)
}

// ToUpdate converts the request to a partial update
func (r UpdatePostRequest) ToUpdate() PostUpdate {
	return PostUpdate{Title: r.Title, Content: r.Content}
}

// asValidationError converts ozzo validation errors to a ValidationError.
// Errors that are not field errors (e.g. a bad rule) are treated as internal errors.
func asValidationError(err error) error {
	if err == nil {
		return nil
	}
	errs, ok := err.(validation.Errors)
	if !ok {
		return WrapInternalError(err, "failed to validate request")
	}
	return NewValidationError(strings.TrimSuffix(errs.Error(), "."))
}
