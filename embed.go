package mockstack

import _ "embed"

// OpenAPIYAML is the embedded OpenAPI specification, served at /spec.yaml
// and /spec.json.
//
//go:embed openapi.yaml
var OpenAPIYAML []byte
