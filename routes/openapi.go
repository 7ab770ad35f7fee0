package routes

import _ "embed"

// openAPISpec is served at /docs/openapi.json and rendered by the Swagger UI
// mounted under /docs/.
//
//go:embed openapi.json
var openAPISpec []byte
