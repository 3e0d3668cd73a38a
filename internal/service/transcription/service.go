// Package transcription orchestrates the subtitle pipeline: optional vocal
// separation, speech recognition or forced alignment, cue assembly and SRT
// rendering, plus the lifecycle events and metrics around it.
package transcription

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"subtitle-gen-service/internal/events"
	"subtitle-gen-service/internal/models"
	"subtitle-gen-service/internal/observability/logging"
	"subtitle-gen-service/internal/observability/metrics"
	"subtitle-gen-service/internal/service/align"
	"subtitle-gen-service/internal/service/stt"
	"subtitle-gen-service/internal/service/subtitle"
)

// VocalSeparator is the slice of the separation service the orchestrator
// needs.
type VocalSeparator interface {
	SeparateVocals(ctx context.Context, audioPath string) (string, func(), error)
	Available() bool
}

// Request describes one subtitle generation job.
type Request struct {
	AudioPath        string
	FileName         string
	FileSize         string
	RequestID        string
	EnableSeparation bool
}

// AlignRequest describes one forced alignment job.
type AlignRequest struct {
	AudioPath     string
	FileName      string
	RequestID     string
	ReferenceText string
}

// Service wires the pipeline stages together.
type Service struct {
	recognizer stt.Recognizer
	aligner    align.Aligner
	separator  VocalSeparator
	publisher  *events.Publisher
	metrics    *metrics.Metrics
	log        zerolog.Logger
}

// New creates the orchestrator. The separator may be nil when vocal
// separation is not configured; the aligner may be nil when the align
// endpoint is not served.
func New(recognizer stt.Recognizer, aligner align.Aligner, separator VocalSeparator, publisher *events.Publisher) *Service {
	return &Service{
		recognizer: recognizer,
		aligner:    aligner,
		separator:  separator,
		publisher:  publisher,
		metrics:    metrics.DefaultMetrics,
		log:        logging.WithComponent("transcription"),
	}
}

// Generate runs the full pipeline over an uploaded file and returns the
// detailed result including the rendered SRT document.
func (s *Service) Generate(ctx context.Context, req Request) (*models.DetailedResult, error) {
	start := time.Now()
	logger := logging.WithProvider(req.RequestID, req.FileName, s.recognizer.Name())

	audioPath, separationUsed, cleanup := s.maybeSeparate(ctx, req, logger)
	defer cleanup()

	transcribeStart := time.Now()
	result, err := s.recognizer.Transcribe(ctx, audioPath)
	if err != nil {
		s.metrics.RecordTranscriptionError(s.recognizer.Name(), "transcribe")
		s.publishFailed(ctx, req.RequestID, req.FileName, err)
		return nil, fmt.Errorf("transcribe: %w", err)
	}
	s.metrics.RecordTranscription(s.recognizer.Name(), time.Since(transcribeStart).Seconds())

	cues, dropped := s.assembleCues(result)
	srtContent, err := subtitle.RenderSRT(cues)
	if err != nil {
		s.publishFailed(ctx, req.RequestID, req.FileName, err)
		return nil, fmt.Errorf("render srt: %w", err)
	}
	s.metrics.RecordCues(len(cues), dropped)

	elapsed := time.Since(start).Seconds()
	logger.Info().
		Int("cues", len(cues)).
		Int("dropped", dropped).
		Bool("vocalSeparationUsed", separationUsed).
		Float64("elapsedSeconds", elapsed).
		Msg("subtitle generation complete")

	detailed := &models.DetailedResult{
		Segments:            segmentsToData(result.Segments),
		Language:            result.Language,
		LanguageProbability: result.LanguageProbability,
		Duration:            result.Duration,
		DurationAfterVAD:    result.DurationAfterVAD,
		SRTContent:          srtContent,
		VocalSeparationUsed: separationUsed,
		DroppedSentences:    dropped,
		ProcessingInfo: &models.ProcessingInfo{
			ProcessingTimeSeconds:  elapsed,
			Mode:                   "detailed",
			VocalSeparationEnabled: req.EnableSeparation,
			FileName:               req.FileName,
			FileSize:               req.FileSize,
		},
	}

	s.publishCompleted(ctx, req, detailed, len(cues), dropped, elapsed)
	return detailed, nil
}

// Align maps a known reference text onto the audio and returns the cues and
// SRT document built from its timings.
func (s *Service) Align(ctx context.Context, req AlignRequest) (*models.AlignResult, error) {
	if s.aligner == nil {
		return nil, fmt.Errorf("align: no aligner configured")
	}

	start := time.Now()
	logger := logging.WithRequest(req.RequestID, req.FileName)

	words, err := s.aligner.Align(ctx, req.AudioPath, req.ReferenceText)
	if err != nil {
		s.publishFailed(ctx, req.RequestID, req.FileName, err)
		return nil, fmt.Errorf("align: %w", err)
	}

	spans := subtitle.SplitByPunctuation(req.ReferenceText)
	cues, dropped := subtitle.AssignTimestamps(spans, words, req.ReferenceText)
	srtContent, err := subtitle.RenderSRT(cues)
	if err != nil {
		s.publishFailed(ctx, req.RequestID, req.FileName, err)
		return nil, fmt.Errorf("render srt: %w", err)
	}
	s.metrics.RecordCues(len(cues), dropped)

	elapsed := time.Since(start).Seconds()
	logger.Info().
		Int("cues", len(cues)).
		Int("dropped", dropped).
		Float64("elapsedSeconds", elapsed).
		Msg("forced alignment complete")

	cueData := make([]models.CueData, 0, len(cues))
	for _, c := range cues {
		cueData = append(cueData, models.CueData{Text: c.Text, Start: c.Start, End: c.End})
	}

	return &models.AlignResult{
		Cues:             cueData,
		SRTContent:       srtContent,
		DroppedSentences: dropped,
		ProcessingInfo: &models.ProcessingInfo{
			ProcessingTimeSeconds: elapsed,
			Mode:                  "align",
			FileName:              req.FileName,
		},
	}, nil
}

// maybeSeparate runs vocal separation when requested and possible, returning
// the audio path to transcribe, whether a separated stem is in use and a
// cleanup function for it. Separation failures fall back to the original
// audio.
func (s *Service) maybeSeparate(ctx context.Context, req Request, logger zerolog.Logger) (string, bool, func()) {
	noop := func() {}
	if !req.EnableSeparation || s.separator == nil {
		return req.AudioPath, false, noop
	}
	if !s.separator.Available() {
		logger.Warn().Msg("vocal separation requested but separator unavailable, using original audio")
		s.metrics.RecordSeparation(true)
		return req.AudioPath, false, noop
	}

	vocalsPath, cleanup, err := s.separator.SeparateVocals(ctx, req.AudioPath)
	if err != nil {
		logger.Warn().Err(err).Msg("vocal separation failed, using original audio")
		s.metrics.RecordSeparation(true)
		return req.AudioPath, false, noop
	}
	s.metrics.RecordSeparation(false)
	return vocalsPath, true, cleanup
}

// assembleCues builds cues from word-level timings when available, falling
// back to one cue per recognized segment otherwise.
func (s *Service) assembleCues(result stt.Result) ([]subtitle.Cue, int) {
	var words []subtitle.Word
	for _, seg := range result.Segments {
		for _, w := range seg.Words {
			words = append(words, subtitle.Word{Text: w.Word, Start: w.Start, End: w.End})
		}
	}
	if len(words) > 0 {
		return subtitle.CuesFromWords(words)
	}

	var cues []subtitle.Cue
	for _, seg := range result.Segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		cues = append(cues, subtitle.Cue{Text: text, Start: seg.Start, End: seg.End})
	}
	return cues, 0
}

func segmentsToData(segments []stt.Segment) []models.SegmentData {
	data := make([]models.SegmentData, 0, len(segments))
	for _, seg := range segments {
		sd := models.SegmentData{Start: seg.Start, End: seg.End, Text: seg.Text}
		for _, w := range seg.Words {
			sd.Words = append(sd.Words, models.WordData{
				Word:        w.Word,
				Start:       w.Start,
				End:         w.End,
				Probability: w.Probability,
			})
		}
		data = append(data, sd)
	}
	return data
}

func (s *Service) publishCompleted(ctx context.Context, req Request, result *models.DetailedResult, cueCount, dropped int, elapsed float64) {
	if s.publisher == nil {
		return
	}
	event := models.SubtitleCompleted{
		EventType:             "subtitle.completed",
		RequestID:             req.RequestID,
		FileName:              req.FileName,
		Language:              result.Language,
		DurationSeconds:       result.Duration,
		CueCount:              cueCount,
		DroppedSentences:      dropped,
		VocalSeparationUsed:   result.VocalSeparationUsed,
		ProcessingTimeSeconds: elapsed,
		Timestamp:             time.Now().UnixMilli(),
	}
	if err := s.publisher.PublishCompleted(ctx, req.RequestID, event); err != nil {
		s.log.Warn().Err(err).Str("requestId", req.RequestID).Msg("failed to publish completed event")
	}
}

func (s *Service) publishFailed(ctx context.Context, requestID, fileName string, cause error) {
	if s.publisher == nil {
		return
	}
	event := models.SubtitleFailed{
		EventType: "subtitle.failed",
		RequestID: requestID,
		FileName:  fileName,
		Error:     cause.Error(),
		Timestamp: time.Now().UnixMilli(),
	}
	if err := s.publisher.PublishFailed(ctx, requestID, event); err != nil {
		s.log.Warn().Err(err).Str("requestId", requestID).Msg("failed to publish failed event")
	}
}
