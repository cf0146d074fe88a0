package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"opschat/pkg/api"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List models available on the backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		client := api.NewClient(cfg.Server.URL)
		models, err := client.Models(cmd.Context())
		if err != nil {
			return fmt.Errorf("models unavailable: %w", err)
		}

		for _, name := range models.Models {
			if name == models.Default {
				fmt.Printf("%s (default)\n", name)
				continue
			}
			fmt.Println(name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}
