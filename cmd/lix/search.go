package main

import (
	"fmt"
	"strings"

	"github.com/Kelton8Z/llama-index/internal"
	"github.com/spf13/cobra"
)

func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Semantic search over the local index",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runSearch,
	}

	cmd.Flags().Int("limit", 5, "Maximum number of results")
	cmd.Flags().String("index-dir", "", "Vector index directory")

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	query := strings.Join(args, " ")

	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	indexDir := resolveIndexDir(cmd, cfg)

	embedder, err := internal.EmbedderFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("create embedder: %w", err)
	}
	defer embedder.Close()

	index, err := internal.NewAnnoyIndex(indexDir, embedder.Dimension())
	if err != nil {
		return fmt.Errorf("open index: %w", err)
	}
	if err := index.Load(ctx); err != nil {
		return fmt.Errorf("load index: %w", err)
	}

	store := internal.NewNodeStore(indexDir)
	if err := store.Load(); err != nil {
		return fmt.Errorf("load node store: %w", err)
	}

	vec, err := embedder.Embed(ctx, query)
	if err != nil {
		return fmt.Errorf("embed query: %w", err)
	}

	limit, _ := cmd.Flags().GetInt("limit")
	results, err := index.Search(ctx, internal.NewEmbedding(vec, cfg.Embeddings.Model), limit)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}

	if len(results) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No results.")
		return nil
	}

	for _, result := range results {
		node, ok := store.Get(result.NodeID)
		if !ok {
			fmt.Fprintf(cmd.OutOrStdout(), "%.3f  %s\n", result.Score, result.NodeID)
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%.3f  %s\n    %s\n", result.Score, node.SourceID, snippet(node.Text, 120))
	}
	return nil
}

func snippet(text string, max int) string {
	text = strings.Join(strings.Fields(text), " ")
	if len(text) <= max {
		return text
	}
	return text[:max] + "..."
}
