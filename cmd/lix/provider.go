package main

import (
	"context"
	"fmt"

	"github.com/Kelton8Z/llama-index/internal"
	"github.com/spf13/cobra"
)

func NewProviderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "provider",
		Short: "Manage LLM providers",
		Long:  `List, add, remove, and test LLM providers.`,
	}

	cmd.AddCommand(
		newProviderListCmd(),
		newProviderAddCmd(),
		newProviderRemoveCmd(),
		newProviderDefaultCmd(),
		newProviderTestCmd(),
	)

	return cmd
}

func newProviderListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured providers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			if len(cfg.Providers) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No providers configured.")
				return nil
			}

			for name := range cfg.Providers {
				if name == cfg.DefaultProvider {
					fmt.Fprintf(cmd.OutOrStdout(), "%s (default)\n", name)
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
			}
			return nil
		},
	}
}

func newProviderAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			apiKey, _ := cmd.Flags().GetString("api-key")
			baseURL, _ := cmd.Flags().GetString("base-url")
			model, _ := cmd.Flags().GetString("model")

			cfg.Providers[args[0]] = internal.ProviderConfig{
				APIKey:  apiKey,
				BaseURL: baseURL,
				Model:   model,
			}

			if err := internal.SaveConfig(path, cfg); err != nil {
				return fmt.Errorf("add provider: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added provider %q.\n", args[0])
			return nil
		},
	}

	cmd.Flags().String("api-key", "", "API key")
	cmd.Flags().String("base-url", "", "Base URL for OpenAI-compatible endpoints")
	cmd.Flags().String("model", "", "Model name")

	return cmd
}

func newProviderRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			delete(cfg.Providers, args[0])
			if cfg.DefaultProvider == args[0] {
				cfg.DefaultProvider = ""
			}

			if err := internal.SaveConfig(path, cfg); err != nil {
				return fmt.Errorf("remove provider: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed provider %q.\n", args[0])
			return nil
		},
	}
}

func newProviderDefaultCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "default <name>",
		Short: "Set the default provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			if _, exists := cfg.Providers[args[0]]; !exists {
				return fmt.Errorf("provider %q not found", args[0])
			}

			cfg.DefaultProvider = args[0]
			if err := internal.SaveConfig(path, cfg); err != nil {
				return fmt.Errorf("set default provider: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Default provider is now %q.\n", args[0])
			return nil
		},
	}
}

func newProviderTestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test <name>",
		Short: "Send a test prompt through a provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			pc, exists := cfg.Providers[args[0]]
			if !exists {
				return fmt.Errorf("provider %q not found", args[0])
			}

			llm, err := internal.NewFantasyLLM(context.Background(), internal.FantasyConfig{
				Provider: args[0],
				APIKey:   pc.APIKey,
				BaseURL:  pc.BaseURL,
				Model:    pc.Model,
			})
			if err != nil {
				return fmt.Errorf("create provider: %w", err)
			}

			reply, err := llm.Complete(cmd.Context(), "Say hello")
			if err != nil {
				return fmt.Errorf("test provider: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), reply)
			return nil
		},
	}
}
