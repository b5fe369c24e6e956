package main

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Kelton8Z/llama-index/internal"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

func NewWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <path>",
		Short: "Watch a directory and re-ingest on changes",
		Long:  `Watch a directory for file changes and re-run the ingestion pipeline, batching rapid changes behind a debounce window.`,
		Args:  cobra.ExactArgs(1),
		RunE:  runWatch,
	}

	cmd.Flags().Duration("debounce", 500*time.Millisecond, "Debounce window for batching changes")
	cmd.Flags().String("index-dir", "", "Vector index directory")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	root := args[0]
	debounce, _ := cmd.Flags().GetDuration("debounce")

	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Apply(internal.Default); err != nil {
		return fmt.Errorf("apply config: %w", err)
	}

	if _, err := os.Stat(root); err != nil {
		return fmt.Errorf("stat %s: %w", root, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := addWatchDirs(watcher, root); err != nil {
		return fmt.Errorf("add watch dirs: %w", err)
	}

	indexDir := resolveIndexDir(cmd, cfg)
	fmt.Fprintf(cmd.OutOrStdout(), "Watching %s for changes...\n", root)

	timer := time.NewTimer(0)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-cmd.Context().Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = addWatchDirs(watcher, event.Name)
				}
			}
			if pending {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
			}
			timer.Reset(debounce)
			pending = true

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "watch error: %v\n", err)

		case <-timer.C:
			pending = false
			if err := reingest(cmd.Context(), cmd.OutOrStdout(), cfg, root, indexDir); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "ingest error: %v\n", err)
			}
		}
	}
}

func addWatchDirs(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") && path != root {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

func reingest(ctx context.Context, out io.Writer, cfg *internal.Config, root, indexDir string) error {
	docs, err := internal.NewSimpleDirectoryReader(root).Load(ctx)
	if err != nil {
		return fmt.Errorf("load documents: %w", err)
	}
	if len(docs) == 0 {
		return nil
	}

	embedder, err := internal.EmbedderFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("create embedder: %w", err)
	}
	defer embedder.Close()

	index, err := internal.NewAnnoyIndex(indexDir, embedder.Dimension())
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}

	pipeline := internal.NewIngestionPipeline(
		internal.WithPipelineEmbedder(embedder),
		internal.WithPipelineIndex(index),
	)
	nodes, err := pipeline.Run(ctx, docs)
	if err != nil {
		return fmt.Errorf("run pipeline: %w", err)
	}

	store := internal.NewNodeStore(indexDir)
	if err := store.Load(); err != nil {
		return fmt.Errorf("load node store: %w", err)
	}
	store.Put(nodes...)
	if err := store.Save(); err != nil {
		return fmt.Errorf("save node store: %w", err)
	}

	fmt.Fprintf(out, "Re-ingested %d documents into %d nodes.\n", len(docs), len(nodes))
	return nil
}
