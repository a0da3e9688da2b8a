// Package uischema loads UI schema documents and applies them to form models
// as a decorator: heading, logo, toolbar actions and per-field labels,
// placeholders, components and ordering. The model builder stays unaware of
// these overlays.
package uischema
