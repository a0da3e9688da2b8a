package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/hlog"

	"github.com/goliatone/go-novaform/pkg/api"
	"github.com/goliatone/go-novaform/pkg/demo"
	"github.com/goliatone/go-novaform/pkg/pdfgen"
	"github.com/goliatone/go-novaform/pkg/render"
	"github.com/goliatone/go-novaform/pkg/storage"
	"github.com/goliatone/go-novaform/pkg/submission"
)

// handlePage renders the editable form seeded with defaults.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	locale := s.locale(r, r.URL.Query().Get("locale"))
	state := render.NewFormState(demo.Defaults().Values())

	out, err := s.view.Render(r.Context(), demo.RendererHTML, render.RenderOptions{
		Binding: render.Editable(state),
		Locale:  locale,
		BaseURL: s.baseURL,
		Meta: render.MergeMeta(nil,
			render.Meta("locale", locale),
			render.Meta("base_url", s.baseURL),
		),
	})
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("render page")
		http.Error(w, "render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Language", locale)
	_, _ = w.Write(out)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeSubmission(w, r)
	if !ok {
		return
	}

	result, err := s.submitter.Submit(r.Context(), req.FormData, req.MetaData)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("submit form")
		writeError(w, http.StatusInternalServerError, submission.ErrServerFailure.Error())
		return
	}

	hlog.FromRequest(r).Info().
		Str("id", result.ID).
		Str("output", result.Output).
		Msg("submission stored")
	writeJSON(w, http.StatusOK, api.SubmitResponse{
		ID:    result.ID,
		Key:   result.Key,
		Pages: result.Pages,
		Size:  result.Size,
		URL:   s.baseURL + api.RenderPath(result.ID),
	})
}

// handlePreview renders the submitted values read-only as an HTML fragment.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeSubmission(w, r)
	if !ok {
		return
	}

	out, err := s.view.Render(r.Context(), demo.RendererHTML, render.RenderOptions{
		Binding: render.Fixed(req.FormData.Values()),
		Locale:  req.MetaData.Locale,
		BaseURL: s.baseURL,
		Partial: true,
	})
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("render preview")
		writeError(w, http.StatusInternalServerError, submission.ErrServerFailure.Error())
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(out)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSuffix(r.PathValue("id"), ".pdf")
	if !pdfgen.ValidID(id) || s.store == nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	body, object, err := s.store.Open(r.Context(), pdfgen.Key(id))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		hlog.FromRequest(r).Error().Err(err).Str("id", id).Msg("open render")
		writeError(w, http.StatusInternalServerError, submission.ErrServerFailure.Error())
		return
	}
	defer body.Close()

	contentType := object.ContentType
	if contentType == "" {
		contentType = "application/pdf"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", pdfgen.Key(id)))
	if object.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(object.Size, 10))
	}
	if _, err := io.Copy(w, body); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Str("id", id).Msg("stream render")
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, api.HealthResponse{Status: "ok"})
}

// decodeSubmission reads the envelope, drops unparseable metadata hints and
// fills request derived metadata. It writes the error response itself when
// ok is false.
func (s *Server) decodeSubmission(w http.ResponseWriter, r *http.Request) (api.SubmitRequest, bool) {
	var req api.SubmitRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return api.SubmitRequest{}, false
	}
	req.MetaData = s.submitter.Normalize(req.MetaData)
	req.MetaData.Locale = s.locale(r, req.MetaData.Locale)
	if req.MetaData.BaseURL == "" {
		req.MetaData.BaseURL = s.baseURL
	}
	if req.MetaData.UserAgent == "" {
		req.MetaData.UserAgent = r.UserAgent()
	}
	return req, true
}

// locale resolves the explicit preference, then Accept-Language, then the
// configured default.
func (s *Server) locale(r *http.Request, explicit string) string {
	return s.view.Negotiate(explicit, r.Header.Get("Accept-Language"), s.defaultLocale)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, api.ErrorResponse{Error: message})
}
