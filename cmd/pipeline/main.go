package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/omerharel/minuteflow/internal/adapter/repository"
	"github.com/omerharel/minuteflow/internal/infrastructure/database"
	"github.com/omerharel/minuteflow/internal/usecase/fetch"
	"github.com/omerharel/minuteflow/internal/usecase/pipeline"
	"github.com/omerharel/minuteflow/internal/usecase/record"
	"github.com/omerharel/minuteflow/internal/usecase/summary"
	"github.com/omerharel/minuteflow/pkg/artifact"
	"github.com/omerharel/minuteflow/pkg/config"
	"github.com/omerharel/minuteflow/pkg/fathom"
	"github.com/omerharel/minuteflow/pkg/gemini"
)

func main() {
	skipLogging := flag.Bool("skip-logging", false, "stop after summarization without writing to the record store")
	keepFiles := flag.Bool("keep-files", false, "keep transcript and summary artifacts after a successful run")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <recording-id>\n\nFlags:\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}
	recordingID := flag.Arg(0)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	var archiver artifact.Archiver
	if cfg.Artifact.MinioEnabled {
		archive, err := artifact.NewMinIOArchive(context.Background(), &cfg.Artifact.MinioConfig)
		if err != nil {
			log.Fatalf("Failed to initialize MinIO archive: %v", err)
		}
		archiver = archive
	}
	artifacts := artifact.NewStore(cfg.Artifact.Dir, archiver, logger)

	fathomClient := fathom.NewClient(&cfg.Fathom)
	geminiClient := gemini.NewClient(&cfg.Gemini)

	fetcher := fetch.NewFetcher(fathomClient, artifacts, logger)
	summarizer := summary.NewGenerator(geminiClient, artifacts, logger)

	// Summarization-only runs never touch the store, so skip the database
	// connection entirely.
	var recorder pipeline.RecordLogger
	if !*skipLogging {
		db, err := database.NewPostgresDB(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer database.CloseDB(db)

		if err := database.Migrate(db); err != nil {
			log.Fatalf("Failed to apply migrations: %v", err)
		}

		recorder = record.NewLogger(repository.NewRecordRepository(db), "", logger)
	}

	orchestrator := pipeline.NewOrchestrator(fetcher, summarizer, recorder, artifacts, logger)

	opts := pipeline.Options{
		SkipLogging:   *skipLogging,
		KeepArtifacts: *keepFiles,
	}

	report, err := orchestrator.Run(context.Background(), recordingID, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Run failed at stage %s: %v\n", pipeline.StageOf(err), err)
		os.Exit(1)
	}

	printReport(report, opts)
}

func printReport(r *pipeline.Report, opts pipeline.Options) {
	fmt.Printf("Run %s finished in %s\n", r.RunID, r.Finished.Sub(r.Started).Round(10*time.Millisecond))
	fmt.Printf("  Recording:  %s\n", r.RecordingID)
	if r.MeetingTitle != "" {
		fmt.Printf("  Meeting:    %s\n", r.MeetingTitle)
	}
	for _, st := range r.Stages {
		fmt.Printf("  %-12s %s\n", string(st.Stage)+":", st.Duration.Round(time.Millisecond))
	}
	switch {
	case r.Duplicate:
		fmt.Println("  Result:     already processed, no records written")
	case opts.SkipLogging:
		fmt.Println("  Result:     summarized only, store logging skipped")
	default:
		fmt.Printf("  Result:     meeting record %s with %d action item(s)\n", r.MeetingRecordID, len(r.ActionItemIDs))
	}
}
