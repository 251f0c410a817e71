// Package integration contains end-to-end tests for the blog post API.
//
// The tests start the server in-process against the store named by TEST_DATABASE_URL
// and make real HTTP requests to it. Each test seeds the store before it runs and
// drops every post when it completes, so tests do not depend on each other.
//
// These tests assume the store and blog packages are working correctly (tested separately).
// If bugs are introduced in lower-level packages, there will be cascading failures here -
// fix the low-level problems first.
package integration
