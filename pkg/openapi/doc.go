// Package openapi holds the public contracts for reading form definitions
// written as OpenAPI operations. The kin-openapi backed implementations live
// under internal/openapi so callers never depend on its types.
package openapi
