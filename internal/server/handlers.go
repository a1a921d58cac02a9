package server

import (
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	apperr "github.com/matzehuels/glitchid/pkg/errors"
	"github.com/matzehuels/glitchid/pkg/httputil"
	"github.com/matzehuels/glitchid/pkg/observability"
	"github.com/matzehuels/glitchid/pkg/pipeline"
	"github.com/matzehuels/glitchid/pkg/store"
)

// Response headers describing a render.
const (
	HeaderRenderID   = "X-Render-ID"
	HeaderRenderSeed = "X-Render-Seed"
	HeaderFrameID    = "X-Frame-ID"
	HeaderSourceKind = "X-Source-Kind"
	HeaderCache      = "X-Cache"
)

// multipart field names.
const (
	formImage = "image"
	formName  = "name"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok\n")
}

// renderRequest is a parsed POST /v1/renders.
type renderRequest struct {
	identity   string
	source     []byte
	sourceName string
	seed       uint64
	timestamp  time.Time
	format     string
}

func (s *Server) handleCreateRender(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.runner.Execute(r.Context(), pipeline.Options{
		Identity:   req.identity,
		Source:     req.source,
		SourceName: req.sourceName,
		Seed:       req.seed,
		Timestamp:  req.timestamp,
		Size:       s.cfg.Size,
		Workers:    s.cfg.Workers,
		Formats:    []string{req.format},
		Logger:     s.logger,
		Surface:    s.cfg.Surface,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data := res.Artifacts[req.format]

	rec := store.NewRecord(res.Identity, req.format, data)
	rec.Seed = res.Seed
	rec.FrameID = res.FrameID
	rec.SourceKind = string(res.SourceKind)
	rec.ContentType = pipeline.ContentType(req.format)
	if err := s.store.Save(r.Context(), rec); err != nil {
		// The render is still returned; only the replay link is lost.
		s.logger.Warn("archive render failed", "err", err)
		rec.ID = ""
	}

	cacheStatus := "MISS"
	if res.CacheInfo.RenderHit {
		cacheStatus = "HIT"
	}
	h := w.Header()
	h.Set(HeaderCache, cacheStatus)
	status := http.StatusOK
	if rec.ID != "" {
		h.Set(HeaderRenderID, rec.ID)
		h.Set("Location", "/v1/renders/"+rec.ID)
		status = http.StatusCreated
	}
	writeRender(w, status, rec)
}

func (s *Server) handleGetRender(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, err := s.store.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		s.writeError(w, r, apperr.New(apperr.ErrCodeNotFound, "render %s not found", id))
		return
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set(HeaderRenderID, rec.ID)
	writeRender(w, http.StatusOK, rec)
}

// writeRender writes an archived or fresh render with its metadata headers.
func writeRender(w http.ResponseWriter, status int, rec *store.Record) {
	h := w.Header()
	h.Set("Content-Type", rec.ContentType)
	h.Set("Content-Length", strconv.Itoa(len(rec.Data)))
	h.Set("Content-Disposition", httputil.AttachmentDisposition(pipeline.DownloadName(rec.Identity, rec.Format)))
	h.Set(HeaderRenderSeed, strconv.FormatUint(rec.Seed, 10))
	h.Set(HeaderFrameID, rec.FrameID)
	h.Set(HeaderSourceKind, rec.SourceKind)
	w.WriteHeader(status)
	_, _ = w.Write(rec.Data)
}

// parseRenderRequest reads query parameters and the source image. The body
// is either raw image bytes (possibly empty) or multipart/form-data with an
// optional "image" file and "name" field.
func (s *Server) parseRenderRequest(w http.ResponseWriter, r *http.Request) (*renderRequest, error) {
	q := r.URL.Query()
	req := &renderRequest{
		identity: q.Get("name"),
		format:   s.cfg.DefaultFormat,
	}

	if v := q.Get("seed"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil || seed == 0 {
			return nil, apperr.New(apperr.ErrCodeInvalidSeed, "seed must be a positive integer, got %q", v)
		}
		req.seed = seed
	}
	if v := q.Get("time"); v != "" {
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, apperr.New(apperr.ErrCodeInvalidInput, "time must be RFC 3339, got %q", v)
		}
		req.timestamp = ts
	}
	if v := q.Get("format"); v != "" {
		f, err := pipeline.ParseFormat(v)
		if err != nil {
			return nil, err
		}
		req.format = f
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		if err := s.readMultipart(r, req); err != nil {
			return nil, err
		}
	} else {
		data, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, s.bodyError(err)
		}
		req.source = data
	}

	if req.identity == "" {
		req.identity = s.cfg.DefaultIdentity
	}
	return req, nil
}

func (s *Server) readMultipart(r *http.Request, req *renderRequest) error {
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		return s.bodyError(err)
	}
	if name := r.FormValue(formName); name != "" {
		req.identity = name
	}

	file, header, err := r.FormFile(formImage)
	if errors.Is(err, http.ErrMissingFile) {
		return nil
	}
	if err != nil {
		return s.bodyError(err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return s.bodyError(err)
	}
	req.source = data
	req.sourceName = header.Filename
	return nil
}

// bodyError converts body read failures to coded errors.
func (s *Server) bodyError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return &apperr.TooLargeError{Limit: maxErr.Limit}
	}
	if errors.Is(err, multipart.ErrMessageTooLarge) {
		return &apperr.TooLargeError{Limit: s.cfg.MaxUploadBytes}
	}
	return apperr.Wrap(apperr.ErrCodeInvalidInput, err, "read request body")
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := httputil.WriteError(w, err)
	if status >= http.StatusInternalServerError {
		observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
		return
	}
	s.logger.Debug("request rejected", "path", r.URL.Path, "status", status, "err", err)
}
