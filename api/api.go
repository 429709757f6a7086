// Package api holds the published OpenAPI document of the search API.
package api

import _ "embed"

//go:embed openapi.yaml
var OpenAPI []byte
