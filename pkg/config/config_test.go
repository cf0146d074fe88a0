package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("should apply defaults when no config file exists", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, DefaultServerURL, cfg.Server.URL)
		assert.Equal(t, DefaultRequestTimeout, cfg.Server.Timeout)
		assert.Equal(t, DefaultModel, cfg.Chat.Model)
		assert.Equal(t, DefaultHistoryWindow, cfg.Chat.HistoryWindow)
		assert.False(t, cfg.Chat.RAGEnabled)
		assert.False(t, cfg.Chat.WebEnabled)
		assert.Equal(t, "info", cfg.Logging.Level)
	})

	t.Run("should read values from a config file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "opschat.yaml")
		content := `
server:
  url: http://chatbot:5000
  timeout: 45s
chat:
  model: mistral:7b
  history_window: 4
  rag_enabled: true
logging:
  level: debug
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "http://chatbot:5000", cfg.Server.URL)
		assert.Equal(t, 45*time.Second, cfg.Server.Timeout)
		assert.Equal(t, "mistral:7b", cfg.Chat.Model)
		assert.Equal(t, 4, cfg.Chat.HistoryWindow)
		assert.True(t, cfg.Chat.RAGEnabled)
		assert.Equal(t, "debug", cfg.Logging.Level)
	})

	t.Run("should honor environment overrides", func(t *testing.T) {
		t.Setenv("OPSCHAT_SERVER_URL", "http://env-override:5000")
		t.Setenv("OPSCHAT_CHAT_MODEL", "qwen:0.5b")

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "http://env-override:5000", cfg.Server.URL)
		assert.Equal(t, "qwen:0.5b", cfg.Chat.Model)
	})

	t.Run("should repair non-positive window and timeout", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "opschat.yaml")
		content := `
chat:
  history_window: 0
server:
  timeout: 0s
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, DefaultHistoryWindow, cfg.Chat.HistoryWindow)
		assert.Equal(t, DefaultRequestTimeout, cfg.Server.Timeout)
	})

	t.Run("should error on a missing explicit config file", func(t *testing.T) {
		_, err := Load("/nonexistent/opschat.yaml")
		assert.Error(t, err)
	})
}
