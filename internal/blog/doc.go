// Package blog defines the blog post domain: the stored entity, the request
// payloads accepted by the API, the view returned to clients and the errors
// (and JSON error responses) used by the HTTP handlers.
//
// The author of a post is stored as a composite {firstName, lastName} value
// but is always returned to clients as a single display string, see ToView.
package blog
