package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/information-sharing-networks/blog-api/internal/blog"
	"github.com/information-sharing-networks/blog-api/internal/logger"
	"github.com/information-sharing-networks/blog-api/internal/store"
)

// HandleListPosts godoc
//
//	@Summary	List blog posts
//	@Tags		Posts
//	@Produce	json
//	@Success	200	{array}		blog.PostView
//	@Failure	500	{object}	blog.ErrorResponse	"Store unavailable"
//	@Router		/posts [get]
func HandleListPosts(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		posts, err := s.FindAll(r.Context())
		if err != nil {
			blog.RespondWithErrorResponse(w, r, blog.WrapStoreError(err, "failed to list blog posts"))
			return
		}

		blog.RespondWithJSONPayload(w, http.StatusOK, blog.ToViews(posts))
	}
}

// HandleGetPost godoc
//
//	@Summary	Get a blog post by id
//	@Tags		Posts
//	@Produce	json
//	@Param		id	path		string	true	"Post ID"
//	@Success	200	{object}	blog.PostView
//	@Failure	404	{object}	blog.ErrorResponse	"Post not found"
//	@Router		/posts/{id} [get]
func HandleGetPost(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		post, err := s.FindByID(r.Context(), id)
		if err != nil {
			blog.RespondWithErrorResponse(w, r, mapStoreError(err, id, "failed to get blog post"))
			return
		}

		blog.RespondWithJSONPayload(w, http.StatusOK, blog.ToView(post))
	}
}

// HandleCreatePost godoc
//
//	@Summary	Create a blog post
//	@Tags		Posts
//	@Accept		json
//	@Produce	json
//	@Param		post	body		blog.CreatePostRequest	true	"Post details"
//	@Success	201		{object}	blog.PostView
//	@Failure	400		{object}	blog.ErrorResponse	"Malformed request body"
//	@Failure	422		{object}	blog.ErrorResponse	"Missing or invalid fields"
//	@Router		/posts [post]
func HandleCreatePost(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reqLogger := logger.ContextRequestLogger(r.Context())

		var req blog.CreatePostRequest
		if err := decodeJSON(r, &req); err != nil {
			blog.RespondWithErrorResponse(w, r, err)
			return
		}

		if err := req.Validate(); err != nil {
			blog.RespondWithErrorResponse(w, r, err)
			return
		}

		post, err := s.Insert(r.Context(), req.ToDraft())
		if err != nil {
			blog.RespondWithErrorResponse(w, r, blog.WrapStoreError(err, "failed to create blog post"))
			return
		}

		reqLogger.Debug("blog post created", slog.String("post_id", post.ID))
		logger.ContextWithLogAttrs(r.Context(), slog.String("post_id", post.ID))

		w.Header().Set("Location", fmt.Sprintf("/posts/%s", post.ID))
		blog.RespondWithJSONPayload(w, http.StatusCreated, blog.ToView(post))
	}
}

// HandleUpdatePost godoc
//
//	@Summary		Update the title and/or content of a blog post
//	@Description	The id in the request body must match the id in the path. Fields that are not supplied are left unchanged.
//	@Tags			Posts
//	@Accept			json
//	@Param			id		path	string					true	"Post ID"
//	@Param			post	body	blog.UpdatePostRequest	true	"Fields to update"
//	@Success		204
//	@Failure		400	{object}	blog.ErrorResponse	"Malformed request or id mismatch"
//	@Failure		404	{object}	blog.ErrorResponse	"Post not found"
//	@Failure		422	{object}	blog.ErrorResponse	"Invalid fields"
//	@Router			/posts/{id} [put]
func HandleUpdatePost(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var req blog.UpdatePostRequest
		if err := decodeJSON(r, &req); err != nil {
			blog.RespondWithErrorResponse(w, r, err)
			return
		}

		if err := req.Validate(id); err != nil {
			blog.RespondWithErrorResponse(w, r, err)
			return
		}

		if err := s.UpdateByID(r.Context(), id, req.ToUpdate()); err != nil {
			blog.RespondWithErrorResponse(w, r, mapStoreError(err, id, "failed to update blog post"))
			return
		}

		logger.ContextWithLogAttrs(r.Context(), slog.String("post_id", id))
		blog.RespondWithStatusCodeOnly(w, http.StatusNoContent)
	}
}

// HandleDeletePost godoc
//
//	@Summary		Delete a blog post
//	@Description	Deleting a post that does not exist also returns 204.
//	@Tags			Posts
//	@Param			id	path	string	true	"Post ID"
//	@Success		204
//	@Router			/posts/{id} [delete]
func HandleDeletePost(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		if err := s.DeleteByID(r.Context(), id); err != nil {
			blog.RespondWithErrorResponse(w, r, blog.WrapStoreError(err, "failed to delete blog post"))
			return
		}

		logger.ContextWithLogAttrs(r.Context(), slog.String("post_id", id))
		blog.RespondWithStatusCodeOnly(w, http.StatusNoContent)
	}
}

// decodeJSON decodes the request body into v
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return blog.NewRequestTooLargeError(
				fmt.Sprintf("Request body exceeds maximum allowed size (%d bytes)", maxBytesErr.Limit),
			)
		}
		return blog.WrapMalformedRequestError(err, "Invalid request body")
	}
	return nil
}

// mapStoreError converts store errors to blog errors: ErrNotFound becomes a not found error,
// anything else is reported as a store failure.
func mapStoreError(err error, id, msg string) error {
	if errors.Is(err, store.ErrNotFound) {
		return blog.NewNotFoundError(id)
	}
	return blog.WrapStoreError(err, msg)
}
