// Package orchestrator wires the loader, parser, model builder, decorators
// and renderer registry into a single entry point. One view definition (an
// OpenAPI operation plus its UI schema) is built once and rendered by any
// registered renderer under the binding the caller supplies.
package orchestrator
