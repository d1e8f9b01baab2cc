package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/stemsi/course-catalog/internal/config"
	"github.com/stemsi/course-catalog/internal/logger"
	"github.com/stemsi/course-catalog/internal/middleware"
)

func main() {
	var (
		file    string
		baseURL string
	)
	flag.StringVar(&file, "file", "", "CSV file to upload")
	flag.StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the catalog service")
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat).With().Str("component", "ingest_upload").Logger()

	if file == "" {
		fmt.Fprintln(os.Stderr, "Usage: ingest-upload -file courses.csv [-url http://host:port]")
		os.Exit(2)
	}

	// ─── Token ─────────────────────────────────────────────────────────
	// INGEST_TOKEN from the environment wins; otherwise prompt without echo.
	token := cfg.IngestToken
	if token == "" {
		fmt.Print("Enter ingest token: ")
		raw, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to read token")
		}
		token = strings.TrimSpace(string(raw))
	}
	if token == "" {
		log.Fatal().Msg("Ingest token is required")
	}

	// ─── Build multipart body ──────────────────────────────────────────
	body, contentType, err := multipartBody(file)
	if err != nil {
		log.Fatal().Err(err).Str("file", file).Msg("Failed to read CSV")
	}

	req, err := http.NewRequest(http.MethodPost, strings.TrimRight(baseURL, "/")+"/api/ingest", body)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build request")
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set(middleware.HeaderIngestToken, token)

	client := &http.Client{Timeout: 2 * time.Minute}
	resp, err := client.Do(req)
	if err != nil {
		log.Fatal().Err(err).Msg("Upload failed")
	}
	defer resp.Body.Close()

	payload, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		log.Fatal().Int("status", resp.StatusCode).Bytes("response", payload).Msg("Ingest rejected")
	}

	var result struct {
		Inserted int `json:"inserted"`
	}
	if err := json.Unmarshal(payload, &result); err != nil {
		log.Fatal().Err(err).Msg("Unexpected response body")
	}

	fmt.Printf("Success! %d courses upserted from %s\n", result.Inserted, filepath.Base(file))
}

func multipartBody(path string) (*bytes.Buffer, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", err
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &buf, mw.FormDataContentType(), nil
}
