package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/MuhamadAgungGumelar/nid-ocr-service/internal/core/nid"
	"github.com/MuhamadAgungGumelar/nid-ocr-service/internal/core/ocr"
	"github.com/MuhamadAgungGumelar/nid-ocr-service/internal/core/storage"
	"github.com/MuhamadAgungGumelar/nid-ocr-service/internal/shared/config"
	"github.com/MuhamadAgungGumelar/nid-ocr-service/internal/shared/utils"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one extraction and returns the process exit code. Deferred
// cleanup always runs because nothing here exits the process.
func run(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("nid-extract", flag.ContinueOnError)
	flags.SetOutput(stderr)
	frontPath := flags.String("front", "", "path to the front side image")
	backPath := flags.String("back", "", "path to the back side image")
	userID := flags.String("user-id", "", "user id used to name the artifact")
	timeout := flags.Duration("timeout", 2*time.Minute, "overall time limit")
	if err := flags.Parse(args); err != nil {
		return exitUsage
	}

	if *frontPath == "" || *backPath == "" {
		fmt.Fprintln(stderr, "usage: nid-extract --front <image> --back <image> [--user-id <id>]")
		return exitUsage
	}

	cfg := config.LoadConfig()
	utils.InitLogger(cfg.IsProduction(), cfg.LogLevel)

	front, err := os.ReadFile(*frontPath)
	if err != nil {
		log.Error().Err(err).Str("path", *frontPath).Msg("❌ Failed to read front image")
		return exitError
	}
	back, err := os.ReadFile(*backPath)
	if err != nil {
		log.Error().Err(err).Str("path", *backPath).Msg("❌ Failed to read back image")
		return exitError
	}

	// Init OCR engine and artifact storage before the extraction deadline starts
	ocrProvider, err := ocr.NewProvider(cfg)
	if err != nil {
		log.Error().Err(err).Msg("❌ Failed to initialize OCR provider")
		return exitError
	}
	ocrService := ocr.NewService(ocrProvider, 1)
	defer func() {
		if err := ocrService.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to release OCR engine")
		}
	}()

	storageProvider, err := storage.NewProvider(context.Background(), cfg)
	if err != nil {
		log.Error().Err(err).Msg("❌ Failed to initialize storage provider")
		return exitError
	}

	extractor := nid.NewExtractor(ocrService, storage.NewService(storageProvider))
	id := nid.ResolveUserID(*userID, []string{*frontPath, *backPath}, cfg.DefaultUserID)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	var out interface{}
	code := exitOK
	result, err := extractor.Extract(log.Logger.WithContext(ctx), nid.Request{Front: front, Back: back, UserID: id})
	if err != nil {
		out = nid.NewFailure(err)
		code = exitError
	} else {
		out = result
	}

	enc := json.NewEncoder(stdout)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Error().Err(err).Msg("Failed to write result")
		code = exitError
	}

	return code
}
