// Package docs holds the OpenAPI 2.0 document served at /swagger/doc.json.
// Keep swagger.json in step with the annotations on the v1 handlers.
package docs

import _ "embed"

//go:embed swagger.json
var SwaggerJSON []byte
