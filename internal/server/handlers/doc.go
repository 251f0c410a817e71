// Package handlers provides the HTTP handlers for the blog post API
// and the general infrastructure handlers (health, readiness, version).
//
// Handlers are constructed with their dependencies and return http.HandlerFunc values
// that are registered on the chi router in the server package.
package handlers
