// Package api carries the OpenAPI document of the JSON API.
package api

import _ "embed"

// Schema is api/openapi.yaml.
//
//go:embed openapi.yaml
var Schema []byte
