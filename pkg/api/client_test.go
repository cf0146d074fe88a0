package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientModels(t *testing.T) {
	t.Run("should decode the model list", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/models", r.URL.Path)
			w.Write([]byte(`{"models":["llama3.2:1b","mistral:7b"],"default":"llama3.2:1b"}`))
		}))
		defer server.Close()

		models, err := NewClient(server.URL).Models(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"llama3.2:1b", "mistral:7b"}, models.Models)
		assert.Equal(t, "llama3.2:1b", models.Default)
	})

	t.Run("should error on non-OK status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		_, err := NewClient(server.URL).Models(context.Background())
		assert.Error(t, err)
	})

	t.Run("should error when the backend is unreachable", func(t *testing.T) {
		_, err := NewClient("http://127.0.0.1:1").Models(context.Background())
		assert.Error(t, err)
	})
}

func TestClientRAGStatus(t *testing.T) {
	t.Run("should decode index counts", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/rag/status", r.URL.Path)
			w.Write([]byte(`{"success":true,"documents":["notes.md"],"document_count":1,"chunk_count":9}`))
		}))
		defer server.Close()

		status, err := NewClient(server.URL).RAGStatus(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, status.DocumentCount)
		assert.Equal(t, 9, status.ChunkCount)
		assert.Equal(t, []string{"notes.md"}, status.Documents)
	})
}

func TestClientWebStatus(t *testing.T) {
	t.Run("should report configured provider", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/web/status", r.URL.Path)
			w.Write([]byte(`{"configured":true,"provider":"google-cse"}`))
		}))
		defer server.Close()

		status, err := NewClient(server.URL).WebStatus(context.Background())
		require.NoError(t, err)
		assert.True(t, status.Configured)
		assert.Equal(t, "google-cse", status.Provider)
	})

	t.Run("should report unconfigured lookup", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"configured":false,"provider":"google-cse"}`))
		}))
		defer server.Close()

		status, err := NewClient(server.URL).WebStatus(context.Background())
		require.NoError(t, err)
		assert.False(t, status.Configured)
	})
}

func TestClientHealth(t *testing.T) {
	t.Run("should decode a healthy response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status":"healthy","service":"devops-chatbot","ollama":"reachable","model":"llama3.2:1b"}`))
		}))
		defer server.Close()

		health, err := NewClient(server.URL).Health(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "healthy", health.Status)
		assert.Equal(t, "reachable", health.Ollama)
	})

	t.Run("should decode a degraded 503 response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"degraded","service":"devops-chatbot","ollama":"unreachable","model":"llama3.2:1b"}`))
		}))
		defer server.Close()

		health, err := NewClient(server.URL).Health(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "degraded", health.Status)
		assert.Equal(t, "unreachable", health.Ollama)
	})
}

func TestClientUploadDocument(t *testing.T) {
	t.Run("should send a multipart upload and decode the result", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/rag/upload", r.URL.Path)
			require.NoError(t, r.ParseMultipartForm(1<<20))

			file, header, err := r.FormFile("file")
			require.NoError(t, err)
			defer file.Close()
			assert.Equal(t, "notes.md", header.Filename)

			content, err := io.ReadAll(file)
			require.NoError(t, err)
			assert.Equal(t, "some document text", string(content))

			w.Write([]byte(`{"success":true,"filename":"notes.md","chunks_added":3,"total_chunks":12}`))
		}))
		defer server.Close()

		resp, err := NewClient(server.URL).UploadDocument(context.Background(), "notes.md", strings.NewReader("some document text"))
		require.NoError(t, err)
		assert.Equal(t, 3, resp.ChunksAdded)
		assert.Equal(t, 12, resp.TotalChunks)
	})

	t.Run("should surface a rejected upload", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"success":false,"error":"Unsupported file type"}`))
		}))
		defer server.Close()

		_, err := NewClient(server.URL).UploadDocument(context.Background(), "binary.exe", strings.NewReader("x"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Unsupported file type")
	})
}

func TestClientClearRAG(t *testing.T) {
	t.Run("should post to the clear endpoint", func(t *testing.T) {
		var gotMethod, gotPath string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotPath = r.URL.Path
			w.Write([]byte(`{"success":true}`))
		}))
		defer server.Close()

		err := NewClient(server.URL).ClearRAG(context.Background())
		require.NoError(t, err)
		assert.Equal(t, http.MethodPost, gotMethod)
		assert.Equal(t, "/api/rag/clear", gotPath)
	})
}
