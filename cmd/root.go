package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"opschat/pkg/api"
	"opschat/pkg/chat"
	"opschat/pkg/config"
	"opschat/pkg/controllers"
	"opschat/pkg/logger"
	"opschat/pkg/terminal"
)

var (
	cfgFile     string
	flagServer  string
	flagModel   string
	flagTimeout time.Duration
	flagRAG     bool
	flagWeb     bool
)

var rootCmd = &cobra.Command{
	Use:   "opschat",
	Short: "Terminal client for the devops chatbot",
	Long:  `Streams chat responses from a devops-chatbot backend, with optional RAG and web lookup modes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		streamClient := chat.NewStreamingClient(cfg.Server.URL)
		statusClient := api.NewClient(cfg.Server.URL)

		controller := controllers.NewTurnController(streamClient, cfg.Chat.Model)
		controller.SetRequestTimeout(cfg.Server.Timeout)
		controller.SetHistoryWindow(cfg.Chat.HistoryWindow)
		controller.SetRAGEnabled(cfg.Chat.RAGEnabled)
		controller.SetWebEnabled(cfg.Chat.WebEnabled)

		display := terminal.NewDisplay(os.Stdout, 100)
		session := terminal.NewSession(controller, statusClient, display, os.Stdin, cfg.Server.URL)

		return session.Start(cmd.Context())
	},
}

// loadConfig reads configuration and applies explicit flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("server") {
		cfg.Server.URL = flagServer
	}
	if cmd.Flags().Changed("model") {
		cfg.Chat.Model = flagModel
	}
	if cmd.Flags().Changed("timeout") {
		cfg.Server.Timeout = flagTimeout
	}
	if cmd.Flags().Changed("rag") {
		cfg.Chat.RAGEnabled = flagRAG
	}
	if cmd.Flags().Changed("web") {
		cfg.Chat.WebEnabled = flagWeb
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.File); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Execute() {
	defer logger.Close()
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./opschat.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagServer, "server", config.DefaultServerURL, "chatbot backend URL")
	rootCmd.PersistentFlags().DurationVar(&flagTimeout, "timeout", config.DefaultRequestTimeout, "per-turn request timeout")
	rootCmd.Flags().StringVar(&flagModel, "model", "", "model identifier to request")
	rootCmd.Flags().BoolVar(&flagRAG, "rag", false, "enable retrieval-augmented mode")
	rootCmd.Flags().BoolVar(&flagWeb, "web", false, "enable web lookup mode")
}
