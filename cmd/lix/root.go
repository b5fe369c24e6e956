package main

import (
	"fmt"

	"github.com/Kelton8Z/llama-index/internal"
	"github.com/spf13/cobra"
)

func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "lix",
		Short:         "Retrieval toolkit for local document ingestion",
		Long:          `Chunk, enrich and embed documents into a local vector index, and search it.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}

	rootCmd.PersistentFlags().String("config", "", "Config file path (default ~/.lix/config.yaml)")

	rootCmd.AddCommand(
		NewIngestCmd(),
		NewSearchCmd(),
		NewWatchCmd(),
		NewProviderCmd(),
		NewConfigCmd(),
	)

	return rootCmd
}

// loadConfig reads the config named by the --config flag, falling back
// to the default path.
func loadConfig(cmd *cobra.Command) (*internal.Config, string, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		var err error
		path, err = internal.DefaultConfigPath()
		if err != nil {
			return nil, "", err
		}
	}

	cfg, err := internal.LoadConfig(path)
	if err != nil {
		return nil, "", fmt.Errorf("load config: %w", err)
	}
	return cfg, path, nil
}
