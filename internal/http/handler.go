package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"subtitle-gen-service/internal/fileutil"
	"subtitle-gen-service/internal/models"
	"subtitle-gen-service/internal/observability/logging"
	"subtitle-gen-service/internal/observability/metrics"
	"subtitle-gen-service/internal/service/transcription"
)

// Version reported by the status endpoint.
const Version = "1.0.0"

// multipartMemoryLimit bounds how much of a parsed form is held in memory;
// larger uploads spill to temp files.
const multipartMemoryLimit = 32 << 20

// Pipeline is the slice of the transcription service the handlers need.
type Pipeline interface {
	Generate(ctx context.Context, req transcription.Request) (*models.DetailedResult, error)
	Align(ctx context.Context, req transcription.AlignRequest) (*models.AlignResult, error)
}

// SeparatorStatus reports the vocal separation state for the status endpoint.
type SeparatorStatus interface {
	Status() map[string]any
}

// Config holds the handler-level settings.
type Config struct {
	UploadDir                string
	MaxUploadBytes           int64
	SeparationDefaultEnabled bool
}

// Handler serves the subtitle API.
type Handler struct {
	pipeline  Pipeline
	separator SeparatorStatus
	cfg       Config
	metrics   *metrics.Metrics
	startup   time.Time
}

// NewHandler creates the API handler. The separator may be nil when vocal
// separation is not configured.
func NewHandler(pipeline Pipeline, separator SeparatorStatus, cfg Config) *Handler {
	return &Handler{
		pipeline:  pipeline,
		separator: separator,
		cfg:       cfg,
		metrics:   metrics.DefaultMetrics,
		startup:   time.Now(),
	}
}

// Status reports service health and feature availability.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	features := []string{"transcription", "srt", "forced_alignment"}
	if h.separator != nil {
		features = append(features, "vocal_separation")
	}
	writeJSON(w, http.StatusOK, models.StatusResponse{
		Service:   "subtitle-gen-service",
		Status:    "ok",
		Version:   Version,
		Features:  features,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// GenerateSubtitle accepts an uploaded media file and returns the
// transcription result with its rendered SRT document.
func (h *Handler) GenerateSubtitle(w http.ResponseWriter, r *http.Request) {
	const endpoint = "generate"
	start := time.Now()
	h.metrics.RecordRequestStart(endpoint)
	success := false
	defer func() {
		h.metrics.RecordRequestEnd(endpoint, success, time.Since(start).Seconds())
	}()

	requestID := middleware.GetReqID(r.Context())

	savedPath, fileName, fileSize, ok := h.acceptUpload(w, r, endpoint)
	if !ok {
		return
	}
	defer os.Remove(savedPath)

	enableSeparation := h.cfg.SeparationDefaultEnabled
	if v := r.FormValue("enable_vocal_separation"); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			enableSeparation = parsed
		}
	}

	logger := logging.WithRequest(requestID, fileName)
	logger.Info().
		Str("fileSize", fileutil.FormatSize(fileSize)).
		Bool("enableSeparation", enableSeparation).
		Msg("subtitle generation request accepted")

	result, err := h.pipeline.Generate(r.Context(), transcription.Request{
		AudioPath:        savedPath,
		FileName:         fileName,
		FileSize:         fileutil.FormatSize(fileSize),
		RequestID:        requestID,
		EnableSeparation: enableSeparation,
	})
	if err != nil {
		logger.Error().Err(err).Msg("subtitle generation failed")
		writeError(w, http.StatusInternalServerError, "subtitle generation failed: "+err.Error())
		return
	}

	success = true
	writeJSON(w, http.StatusOK, result)
}

// AlignSubtitle accepts an uploaded media file plus its known transcript and
// returns cues timed by forced alignment.
func (h *Handler) AlignSubtitle(w http.ResponseWriter, r *http.Request) {
	const endpoint = "align"
	start := time.Now()
	h.metrics.RecordRequestStart(endpoint)
	success := false
	defer func() {
		h.metrics.RecordRequestEnd(endpoint, success, time.Since(start).Seconds())
	}()

	requestID := middleware.GetReqID(r.Context())

	savedPath, fileName, _, ok := h.acceptUpload(w, r, endpoint)
	if !ok {
		return
	}
	defer os.Remove(savedPath)

	referenceText := strings.TrimSpace(r.FormValue("reference_text"))
	if referenceText == "" {
		writeError(w, http.StatusBadRequest, "reference_text is required")
		return
	}

	logger := logging.WithRequest(requestID, fileName)
	logger.Info().Int("referenceLength", len([]rune(referenceText))).Msg("alignment request accepted")

	result, err := h.pipeline.Align(r.Context(), transcription.AlignRequest{
		AudioPath:     savedPath,
		FileName:      fileName,
		RequestID:     requestID,
		ReferenceText: referenceText,
	})
	if err != nil {
		logger.Error().Err(err).Msg("alignment failed")
		writeError(w, http.StatusInternalServerError, "alignment failed: "+err.Error())
		return
	}

	success = true
	writeJSON(w, http.StatusOK, result)
}

// acceptUpload parses the multipart form, validates the "file" part and
// saves it under the upload directory. It writes the error response itself
// when ok is false.
func (h *Handler) acceptUpload(w http.ResponseWriter, r *http.Request, endpoint string) (savedPath, fileName string, size int64, ok bool) {
	if h.cfg.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadBytes)
	}
	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "uploaded file exceeds the size limit")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	if err := os.MkdirAll(h.cfg.UploadDir, 0o755); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to prepare upload directory")
		return
	}

	savedPath = filepath.Join(h.cfg.UploadDir, fileutil.TempUploadName(header.Filename))
	dst, err := os.Create(savedPath)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save upload")
		return
	}
	size, err = io.Copy(dst, file)
	closeErr := dst.Close()
	if err != nil || closeErr != nil {
		os.Remove(savedPath)
		writeError(w, http.StatusInternalServerError, "failed to save upload")
		return
	}
	if size == 0 {
		os.Remove(savedPath)
		writeError(w, http.StatusBadRequest, "uploaded file is empty")
		return
	}

	h.metrics.RecordUpload(size)
	return savedPath, header.Filename, size, true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger := logging.WithComponent("http")
		logger.Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, models.ErrorResponse{Detail: detail})
}
