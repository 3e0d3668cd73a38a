package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

func main() {
	mediaFile := flag.String("file", "", "Path to the audio/video file to upload")
	serverURL := flag.String("url", "http://localhost:8002", "Service base URL")
	separate := flag.Bool("separate", false, "Request vocal separation before transcription")
	referenceText := flag.String("text", "", "Reference transcript; when set the align endpoint is used")
	output := flag.String("out", "", "Write the SRT document to this file instead of stdout")
	flag.Parse()

	if *mediaFile == "" {
		log.Fatal("missing -file")
	}

	f, err := os.Open(*mediaFile)
	if err != nil {
		log.Fatalf("failed to open media file: %v", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filepath.Base(*mediaFile))
	if err != nil {
		log.Fatalf("failed to create form file: %v", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		log.Fatalf("failed to read media file: %v", err)
	}

	endpoint := *serverURL + "/whisper/generate_subtitle"
	if *referenceText != "" {
		endpoint = *serverURL + "/whisper/align_subtitle"
		if err := mw.WriteField("reference_text", *referenceText); err != nil {
			log.Fatalf("failed to write form field: %v", err)
		}
	} else if err := mw.WriteField("enable_vocal_separation", strconv.FormatBool(*separate)); err != nil {
		log.Fatalf("failed to write form field: %v", err)
	}
	if err := mw.Close(); err != nil {
		log.Fatalf("failed to finalize form: %v", err)
	}

	log.Printf("Uploading %s to %s", *mediaFile, endpoint)
	start := time.Now()

	client := &http.Client{Timeout: 30 * time.Minute}
	resp, err := client.Post(endpoint, mw.FormDataContentType(), &buf)
	if err != nil {
		log.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Fatalf("failed to read response: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		log.Fatalf("server returned %d: %s", resp.StatusCode, body)
	}

	var result struct {
		SRTContent       string `json:"srt_content"`
		Language         string `json:"language"`
		DroppedSentences int    `json:"dropped_sentences"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		log.Fatalf("failed to decode response: %v", err)
	}

	log.Printf("Done in %v (language=%s, dropped=%d)", time.Since(start), result.Language, result.DroppedSentences)

	if *output != "" {
		if err := os.WriteFile(*output, []byte(result.SRTContent), 0o644); err != nil {
			log.Fatalf("failed to write output: %v", err)
		}
		log.Printf("Wrote %s", *output)
		return
	}
	fmt.Print(result.SRTContent)
}
