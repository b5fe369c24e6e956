package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Kelton8Z/llama-index/internal"
	"github.com/spf13/cobra"
)

func NewIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest <path|url>",
		Short: "Ingest documents into the local index",
		Long:  `Read documents from a directory (or a git repository with --git), run the configured transformations, and embed the nodes into the local vector index.`,
		Args:  cobra.ExactArgs(1),
		RunE:  runIngest,
	}

	cmd.Flags().Bool("git", false, "Treat the argument as a git repository URL")
	cmd.Flags().String("ref", "", "Git branch to read (with --git)")
	cmd.Flags().String("index-dir", "", "Vector index directory (default <config index_dir> or ./.lix-index)")
	cmd.Flags().Int("chunk-size", 0, "Override chunk size in tokens")
	cmd.Flags().Int("chunk-overlap", -1, "Override chunk overlap in tokens")
	cmd.Flags().Bool("no-embed", false, "Chunk only, skip embedding and indexing")

	return cmd
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Apply(internal.Default); err != nil {
		return fmt.Errorf("apply config: %w", err)
	}

	if size, _ := cmd.Flags().GetInt("chunk-size"); size > 0 {
		if err := internal.Default.SetChunkSize(size); err != nil {
			return fmt.Errorf("set chunk size: %w", err)
		}
	}
	if overlap, _ := cmd.Flags().GetInt("chunk-overlap"); overlap >= 0 {
		if err := internal.Default.SetChunkOverlap(overlap); err != nil {
			return fmt.Errorf("set chunk overlap: %w", err)
		}
	}

	var reader internal.Reader
	if isGit, _ := cmd.Flags().GetBool("git"); isGit {
		ref, _ := cmd.Flags().GetString("ref")
		reader = internal.NewGitRepositoryReader(args[0], ref)
	} else {
		if _, err := os.Stat(args[0]); err != nil {
			return fmt.Errorf("stat %s: %w", args[0], err)
		}
		reader = internal.NewSimpleDirectoryReader(args[0])
	}

	docs, err := reader.Load(ctx)
	if err != nil {
		return fmt.Errorf("load documents: %w", err)
	}
	if len(docs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No documents found.")
		return nil
	}

	opts := []internal.PipelineOption{}

	noEmbed, _ := cmd.Flags().GetBool("no-embed")
	indexDir := resolveIndexDir(cmd, cfg)
	if !noEmbed {
		embedder, err := internal.EmbedderFromConfig(cfg)
		if err != nil {
			return fmt.Errorf("create embedder: %w", err)
		}
		defer embedder.Close()

		index, err := internal.NewAnnoyIndex(indexDir, embedder.Dimension())
		if err != nil {
			return fmt.Errorf("create index: %w", err)
		}

		opts = append(opts,
			internal.WithPipelineEmbedder(embedder),
			internal.WithPipelineIndex(index),
		)
	}

	pipeline := internal.NewIngestionPipeline(opts...)
	nodes, err := pipeline.Run(ctx, docs)
	if err != nil {
		return fmt.Errorf("run pipeline: %w", err)
	}

	if !noEmbed {
		store := internal.NewNodeStore(indexDir)
		if err := store.Load(); err != nil {
			return fmt.Errorf("load node store: %w", err)
		}
		store.Put(nodes...)
		if err := store.Save(); err != nil {
			return fmt.Errorf("save node store: %w", err)
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Ingested %d documents into %d nodes.\n", len(docs), len(nodes))
	return nil
}

func resolveIndexDir(cmd *cobra.Command, cfg *internal.Config) string {
	if dir, _ := cmd.Flags().GetString("index-dir"); dir != "" {
		return dir
	}
	if cfg.IndexDir != "" {
		return cfg.IndexDir
	}
	return filepath.Join(".", ".lix-index")
}
