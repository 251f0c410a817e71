package main

import (
	"github.com/information-sharing-networks/blog-api/internal/cli"
)

//	@title			blog-server
//	@description	blog-server is a REST API for creating, reading, updating and deleting blog posts
//	@description
//	@description	## Common Error Responses
//	@description	All endpoints may return:
//	@description	- `413` Request body exceeds size limit
//	@description	- `429` Rate limit exceeded
//	@description	- `500` Internal server error
//	@description
//	@description	Individual endpoints document their specific errors.
//	@description
//	@description	## Request Limits
//	@description	The /posts endpoints are protected by:
//	@description	- **Rate limiting**: Configurable requests per second (see env vars) - default 100 rps (set to 0 to disable)
//	@description	- **Request size limits**: Configurable (see env vars) - default 1MB
//	@description
//	@description	Check the X-Max-Request-Size response header for the configured limit.
//	@license.name	MIT

//	@servers.url			http://localhost:8080
//	@servers.description	Development server

//	@accept		json
//	@produce	json

func main() {
	cli.Execute()
}
