package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"opschat/pkg/api"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show backend health, RAG index, and web lookup status",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		client := api.NewClient(cfg.Server.URL)
		ctx := cmd.Context()

		health, err := client.Health(ctx)
		if err != nil {
			return fmt.Errorf("backend unreachable at %s: %w", cfg.Server.URL, err)
		}
		fmt.Printf("health: %s (service %s, ollama %s, model %s)\n",
			health.Status, health.Service, health.Ollama, health.Model)

		if rag, err := client.RAGStatus(ctx); err != nil {
			fmt.Println("rag: status unavailable")
		} else {
			fmt.Printf("rag: %d documents, %d chunks\n", rag.DocumentCount, rag.ChunkCount)
		}

		if web, err := client.WebStatus(ctx); err != nil {
			fmt.Println("web: status unavailable")
		} else if web.Configured {
			fmt.Printf("web: configured (%s)\n", web.Provider)
		} else {
			fmt.Println("web: not configured")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
