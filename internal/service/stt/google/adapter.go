// Package google provides a Google Cloud Speech-to-Text recognizer.
package google

import (
	"context"
	"fmt"
	"os"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"subtitle-gen-service/internal/service/stt"
)

// Config holds Google Cloud Speech settings.
type Config struct {
	LanguageCode    string
	SampleRateHz    int
	AudioEncoding   string
	CredentialsFile string
}

// DefaultConfig returns the default recognition settings.
func DefaultConfig() Config {
	return Config{
		LanguageCode:  "zh-CN",
		SampleRateHz:  16000,
		AudioEncoding: "LINEAR16",
	}
}

// Adapter implements stt.Recognizer using Google Cloud Speech-to-Text.
type Adapter struct {
	client *speech.Client
	cfg    Config
}

// New creates a Google recognizer. Credentials come from
// cfg.CredentialsFile when set, otherwise from the ambient
// GOOGLE_APPLICATION_CREDENTIALS environment.
func New(ctx context.Context, cfg Config) (*Adapter, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	c, err := speech.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("google stt: create client: %w", err)
	}
	if cfg.LanguageCode == "" {
		cfg.LanguageCode = DefaultConfig().LanguageCode
	}
	if cfg.SampleRateHz == 0 {
		cfg.SampleRateHz = DefaultConfig().SampleRateHz
	}
	return &Adapter{client: c, cfg: cfg}, nil
}

// Name identifies the backend.
func (a *Adapter) Name() string { return "google" }

// Transcribe runs a synchronous recognition over the file contents with
// word-level time offsets enabled.
func (a *Adapter) Transcribe(ctx context.Context, audioPath string) (stt.Result, error) {
	var result stt.Result

	data, err := os.ReadFile(audioPath)
	if err != nil {
		return result, fmt.Errorf("google stt: read audio: %w", err)
	}

	resp, err := a.client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:                   parseAudioEncoding(a.cfg.AudioEncoding),
			SampleRateHertz:            int32(a.cfg.SampleRateHz),
			LanguageCode:               a.cfg.LanguageCode,
			EnableWordTimeOffsets:      true,
			EnableAutomaticPunctuation: true,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: data},
		},
	})
	if err != nil {
		return result, fmt.Errorf("google stt: recognize (%s): %w", classifyError(err), err)
	}

	result.Language = a.cfg.LanguageCode
	for _, r := range resp.Results {
		if len(r.Alternatives) == 0 {
			continue
		}
		alt := r.Alternatives[0]

		seg := stt.Segment{Text: alt.Transcript}
		for _, w := range alt.Words {
			word := stt.WordStamp{
				Word:        w.Word,
				Start:       w.StartTime.AsDuration().Seconds(),
				End:         w.EndTime.AsDuration().Seconds(),
				Probability: float64(w.Confidence),
			}
			seg.Words = append(seg.Words, word)
		}
		if len(seg.Words) > 0 {
			seg.Start = seg.Words[0].Start
			seg.End = seg.Words[len(seg.Words)-1].End
		} else {
			seg.End = r.ResultEndTime.AsDuration().Seconds()
		}
		if result.LanguageProbability == 0 {
			result.LanguageProbability = float64(alt.Confidence)
		}
		if seg.End > result.Duration {
			result.Duration = seg.End
		}
		result.Segments = append(result.Segments, seg)
	}
	result.DurationAfterVAD = result.Duration

	return result, nil
}

// Close releases the underlying client.
func (a *Adapter) Close() error {
	return a.client.Close()
}

// classifyError buckets a recognition failure by its gRPC status code for
// metrics and logs.
func classifyError(err error) string {
	st, ok := status.FromError(err)
	if !ok {
		return "unknown"
	}
	switch st.Code() {
	case codes.InvalidArgument:
		return "invalid_argument"
	case codes.ResourceExhausted:
		return "resource_exhausted"
	case codes.Unauthenticated, codes.PermissionDenied:
		return "auth"
	case codes.DeadlineExceeded, codes.Canceled:
		return "deadline"
	case codes.Unavailable:
		return "unavailable"
	default:
		return st.Code().String()
	}
}

// parseAudioEncoding maps a config string to the proto enum, falling back
// to LINEAR16 for anything unrecognized.
func parseAudioEncoding(encoding string) speechpb.RecognitionConfig_AudioEncoding {
	switch encoding {
	case "LINEAR16":
		return speechpb.RecognitionConfig_LINEAR16
	case "FLAC":
		return speechpb.RecognitionConfig_FLAC
	case "MULAW":
		return speechpb.RecognitionConfig_MULAW
	case "AMR":
		return speechpb.RecognitionConfig_AMR
	case "AMR_WB":
		return speechpb.RecognitionConfig_AMR_WB
	case "OGG_OPUS":
		return speechpb.RecognitionConfig_OGG_OPUS
	case "SPEEX_WITH_HEADER_BYTE":
		return speechpb.RecognitionConfig_SPEEX_WITH_HEADER_BYTE
	case "WEBM_OPUS":
		return speechpb.RecognitionConfig_WEBM_OPUS
	default:
		return speechpb.RecognitionConfig_LINEAR16
	}
}
