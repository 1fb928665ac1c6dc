// Copyright 2025 The tempdocs authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package serve implements the serve command: a local HTTP server for the
// generated documentation with an optional watch mode that regenerates the
// site when template files change.
package serve

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/tempdocs/tempdocs/internal/commands/shared"
	"github.com/tempdocs/tempdocs/internal/config"
	"github.com/tempdocs/tempdocs/internal/log"
	"github.com/tempdocs/tempdocs/internal/metrics"
	"github.com/tempdocs/tempdocs/internal/render"
	"github.com/tempdocs/tempdocs/pkg/httpclient"
	"github.com/tempdocs/tempdocs/pkg/schema"
	"github.com/tempdocs/tempdocs/pkg/template"
)

// debounceDelay coalesces bursts of filesystem events into one rebuild.
const debounceDelay = 500 * time.Millisecond

// NewCommand creates the serve command
func NewCommand() *cobra.Command {
	var (
		addr      string
		sourceDir string
		outputDir string
		watch     bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the generated documentation over HTTP",
		Long: `Serve runs a local HTTP server for the generated documentation site.
Prometheus metrics are exposed on /metrics.

With --watch the source directory is monitored and the site is
regenerated whenever a template file changes.`,
		Example: `  # Example 1: Serve the default output directory
  tempdocs serve

  # Example 2: Serve on a different port
  tempdocs serve --addr :9000

  # Example 3: Regenerate on template changes
  tempdocs serve --watch --source ./templates --output ./docs`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, addr, sourceDir, outputDir, watch)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	cmd.Flags().StringVarP(&sourceDir, "source", "s", "", "Directory watched for template changes")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Directory containing the generated site")
	cmd.Flags().BoolVar(&watch, "watch", false, "Regenerate the site when templates change")

	return cmd
}

func runServe(cmd *cobra.Command, addr, sourceDir, outputDir string, watch bool) error {
	cfg := config.FromEnv()
	if sourceDir != "" {
		cfg.SourceDir = sourceDir
	}
	if outputDir != "" {
		cfg.OutputDir = outputDir
	}

	logger := shared.Logger()
	ctx := cmd.Context()

	if watch {
		rebuild, err := newRebuilder(cfg, logger)
		if err != nil {
			return shared.NewConfigError("building HTTP client", err)
		}
		// Build once up front so the server never starts empty.
		rebuild(ctx)

		watcher, err := watchTemplates(ctx, cfg.SourceDir, rebuild, logger)
		if err != nil {
			return shared.NewProcessingError("watching templates", err)
		}
		defer watcher.Close()
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	mux.Handle("/", http.FileServer(http.Dir(cfg.OutputDir)))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving documentation",
			"addr", addr,
			log.PathKey, cfg.OutputDir)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return shared.NewProcessingError("shutting down server", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return shared.NewProcessingError("serving documentation", err)
	}
}

// newRebuilder returns a function that reprocesses the source directory
// and regenerates the site. Failures are logged, not fatal: the previous
// site stays up.
func newRebuilder(cfg *config.Config, logger *slog.Logger) (func(context.Context), error) {
	client, err := httpclient.New(httpclient.DefaultConfig())
	if err != nil {
		return nil, err
	}

	provider := schema.NewProvider(schema.Config{
		BaseURL:    cfg.SchemaBaseURL,
		Version:    cfg.SchemaVersion,
		HTTPClient: client,
		Logger:     logger,
	})
	validator := template.NewValidator(provider, logger)
	extractor := template.NewExtractor(provider, logger)
	processor := template.NewProcessor(validator, extractor, logger)
	generator := render.NewGenerator(cfg.OutputDir, logger)

	return func(ctx context.Context) {
		summary, err := processor.ProcessAll(ctx, cfg.SourceDir)
		if err != nil {
			logger.Error("rebuild failed", log.Error(err))
			return
		}
		if err := generator.GenerateAll(summary.Templates); err != nil {
			logger.Error("rebuild failed", log.Error(err))
			return
		}
		logger.Info("site regenerated",
			"processed", summary.Processed,
			"failed", summary.Failed)
	}, nil
}

// watchTemplates monitors the source tree and triggers a debounced rebuild
// on every template change. New subdirectories are added to the watch as
// they appear.
func watchTemplates(ctx context.Context, root string, rebuild func(context.Context), logger *slog.Logger) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		watcher.Close()
		return nil, err
	}

	go func() {
		var timer *time.Timer
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op.Has(fsnotify.Create) {
					if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
						if err := watcher.Add(event.Name); err != nil {
							logger.Warn("failed to watch new directory",
								log.PathKey, event.Name,
								log.Error(err))
						}
						continue
					}
				}
				if !isTemplateFile(event.Name) {
					continue
				}
				logger.Debug("template change detected",
					log.PathKey, event.Name,
					"op", event.Op.String())
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(debounceDelay, func() {
					rebuild(ctx)
				})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("watch error", log.Error(err))
			}
		}
	}()

	return watcher, nil
}

func isTemplateFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
