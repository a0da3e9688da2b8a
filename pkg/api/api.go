// Package api defines the HTTP wire types shared by the server and client.
package api

import "github.com/goliatone/go-novaform/pkg/demo"

// Route paths.
const (
	PathSubmit  = "/api/submit"
	PathPreview = "/api/preview"
	PathRenders = "/api/renders/"
	PathHealth  = "/healthz"
	PathAssets  = "/assets/"
)

// SubmitRequest is the body of POST /api/submit and POST /api/preview.
type SubmitRequest struct {
	FormData demo.DemoForm `json:"form_data"`
	MetaData demo.MetaData `json:"meta_data"`
}

// SubmitResponse reports the rendered document. Key is the storage key and
// URL the download location.
type SubmitResponse struct {
	ID    string `json:"id"`
	Key   string `json:"key"`
	Pages int    `json:"pages"`
	Size  int64  `json:"size"`
	URL   string `json:"url,omitempty"`
}

// ErrorResponse is returned for every non-2xx status.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is returned by GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}

// RenderPath returns the download path for a rendered document.
func RenderPath(id string) string {
	return PathRenders + id
}
