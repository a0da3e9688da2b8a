// Package demo defines the Nova Forms demo: the DemoForm record, the request
// metadata that accompanies a submission and the single view definition
// (OpenAPI operation, UI schema, translations and logo) that every renderer
// shares.
package demo
