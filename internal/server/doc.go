// Package server provides the HTTP server for the blog post API.
//
// the server is configured through environment variables
// (see internal/config/config.go for details)
//
// Routes:
//   - GET/POST /posts, GET/PUT/DELETE /posts/{id} (handlers in internal/server/handlers)
//   - GET /health/live, /health/ready and /version
//
// middleware is in internal/server/middleware
package server
