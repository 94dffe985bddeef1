// Package api holds the OpenAPI description of the JSON endpoints.
package api

import _ "embed"

// Spec is the OpenAPI 3 document served at /api/openapi.yaml.
//
//go:embed openapi.yaml
var Spec []byte
