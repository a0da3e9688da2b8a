// Package model defines the form model renderers consume. Builders live in
// internal/model and return the types aliased here.
//
// Vendor extensions prefixed with `x-novaform-` become UIHints on the form or
// field that declares them. Form-level layout hints use the `layout.` prefix
// (`layout.title`, `layout.titleKey`, `layout.subtitle`, `layout.logo`);
// field hints include `component`, `labelKey` and `placeholderKey`.
package model
