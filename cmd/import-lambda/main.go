//go:build lambda.norpc

// Command import-lambda imports every article of a PDF dropped into the
// import bucket. Drafts are submitted as parsed, without review.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/apresai/blogimport/internal/config"
	"github.com/apresai/blogimport/internal/ingest"
	"github.com/apresai/blogimport/internal/observability"
	"github.com/apresai/blogimport/internal/pipeline"
	"github.com/apresai/blogimport/internal/publish"
	"github.com/apresai/blogimport/internal/store"
)

var (
	cfg      config.Config
	backends *config.Backends
	s3Client *s3.Client
	log      *slog.Logger
)

func init() {
	log = observability.NewLogger(os.Stdout, slog.LevelInfo, true)
	slog.SetDefault(log)

	cfg = config.DefaultConfig()
	if os.Getenv("BLOG_STORE") == "" {
		cfg.Store = store.BackendDynamo
	}

	var err error
	backends, err = config.Open(context.Background(), cfg, log)
	if err != nil {
		log.Error("Failed to open backends", "error", err)
		os.Exit(1)
	}
	s3Client = s3.NewFromConfig(backends.AWS)
}

func main() {
	lambda.Start(handler)
}

func handler(ctx context.Context, evt events.S3Event) error {
	var failed []string
	for _, rec := range evt.Records {
		bucket := rec.S3.Bucket.Name
		key := rec.S3.Object.URLDecodedKey
		if key == "" {
			key = rec.S3.Object.Key
		}
		if !strings.EqualFold(path.Ext(key), ".pdf") {
			log.InfoContext(ctx, "Skipping non-PDF object", "bucket", bucket, "key", key)
			continue
		}
		if err := importObject(ctx, bucket, key); err != nil {
			log.ErrorContext(ctx, "Import failed", "bucket", bucket, "key", key, "error", err)
			failed = append(failed, key)
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("import failed for %s", strings.Join(failed, ", "))
	}
	return nil
}

func importObject(ctx context.Context, bucket, key string) error {
	data, err := store.ReadObject(ctx, s3Client, bucket, key, ingest.MaxInputSize)
	if err != nil {
		return err
	}

	opts := pipeline.Options{Logger: log.With("key", key)}
	s, err := pipeline.LoadBytes(ctx, key, data, opts)
	if err != nil {
		return err
	}

	pub := publish.New(backends.Store, publish.Options{SiteID: cfg.SiteID, Summarizer: backends.Summarizer, Logger: log})
	res, err := pipeline.SegmentAndSubmit(ctx, s, pub, opts)
	if err != nil {
		return err
	}

	log.InfoContext(ctx, "PDF imported", "key", key, "success", res.Success, "failure", res.Failure)
	for _, e := range res.Errors {
		log.WarnContext(ctx, "Import problem", "key", key, "detail", e)
	}
	return nil
}
