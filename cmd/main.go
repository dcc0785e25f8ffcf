// Copyright (c) 2024, 0x0BSoD. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/0x0BSoD/rss2epub/internal/book"
	"github.com/0x0BSoD/rss2epub/internal/config"
	"github.com/0x0BSoD/rss2epub/internal/content"
	"github.com/0x0BSoD/rss2epub/internal/fetcher"
	"github.com/0x0BSoD/rss2epub/internal/notifier"
	"github.com/0x0BSoD/rss2epub/internal/sanitize"
	"github.com/0x0BSoD/rss2epub/internal/source"
)

type options struct {
	configPath string
	output     string
	dryRun     bool
	verbose    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:           "rss2epub",
		Short:         "Compile RSS feeds into an EPUB and mail it",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			level := slog.LevelInfo
			if opts.verbose {
				level = slog.LevelDebug
			}
			log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
			slog.SetDefault(log)

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			if err := run(ctx, opts, log, nil); err != nil {
				log.Error("run failed", "err", err)
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", config.DefaultPath, "path to the YAML or HCL config file")
	cmd.Flags().StringVar(&opts.output, "output", "", "output file, overrides book.output")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "build the book but do not send it")
	cmd.Flags().BoolVar(&opts.verbose, "verbose", false, "enable debug logging")

	return cmd
}

// run executes load, fetch, write and send in order. sender replaces the SMTP
// client when non-nil.
func run(ctx context.Context, opts options, log *slog.Logger, sender notifier.Sender) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	output := lo.Ternary(opts.output != "", opts.output, cfg.Book.Output)

	b, err := book.New(cfg.Book.Title, cfg.Book.Author)
	if err != nil {
		return err
	}

	client := &http.Client{Timeout: cfg.HTTPTimeout}
	extractor := lo.Ternary(cfg.Extractor == config.ExtractorReadability, content.Readability, content.Paragraphs)

	sources := lo.Map(cfg.Feeds, func(url string, _ int) fetcher.Source {
		return source.NewRSSSource(url, client)
	})

	f := fetcher.New(
		sources,
		content.NewResolver(client, sanitize.New(), extractor),
		b,
		log,
	)
	if err := f.Fetch(ctx); err != nil {
		return err
	}

	if err := b.Write(output); err != nil {
		return err
	}
	log.InfoContext(ctx, "book written", "file", output, "chapters", len(b.Chapters()))

	if opts.dryRun {
		log.InfoContext(ctx, "dry run, mail not sent")
		return nil
	}

	var n *notifier.Notifier
	if sender != nil {
		n = notifier.NewWithSender(cfg.Email, sender, log)
	} else if n, err = notifier.New(cfg.Email, log); err != nil {
		return err
	}

	if err := n.Send(ctx, output); err != nil {
		return fmt.Errorf("deliver %s: %w", output, err)
	}
	log.InfoContext(ctx, "book sent", "to", cfg.Email.To)

	return nil
}
