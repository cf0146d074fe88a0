package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"opschat/pkg/logger"
)

// Client calls the chatbot backend's status endpoints. All of these are
// auxiliary: callers are expected to degrade gracefully when they fail
// rather than treating a failure as fatal.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Models returns the backend's available model names and its default.
func (c *Client) Models(ctx context.Context) (*ModelsResponse, error) {
	var out ModelsResponse
	if err := c.getJSON(ctx, "/api/models", &out); err != nil {
		return nil, fmt.Errorf("failed to get models: %w", err)
	}
	return &out, nil
}

// RAGStatus returns the document-index counts.
func (c *Client) RAGStatus(ctx context.Context) (*RAGStatus, error) {
	var out RAGStatus
	if err := c.getJSON(ctx, "/api/rag/status", &out); err != nil {
		return nil, fmt.Errorf("failed to get rag status: %w", err)
	}
	return &out, nil
}

// WebStatus reports whether web lookup is configured server-side.
func (c *Client) WebStatus(ctx context.Context) (*WebStatus, error) {
	var out WebStatus
	if err := c.getJSON(ctx, "/api/web/status", &out); err != nil {
		return nil, fmt.Errorf("failed to get web status: %w", err)
	}
	return &out, nil
}

// Health checks backend health. A degraded backend answers 503 with a
// valid body, so both 200 and 503 decode into a HealthStatus.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/health", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusServiceUnavailable {
		return nil, fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	var out HealthStatus
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode health response: %w", err)
	}
	return &out, nil
}

// UploadDocument sends a document to the backend's RAG index as a
// multipart form upload.
func (c *Client) UploadDocument(ctx context.Context, filename string, content io.Reader) (*UploadResponse, error) {
	log := logger.WithComponent("api_client")

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		part, err := mw.CreateFormFile("file", filename)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, content); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/rag/upload", pr)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload failed: %w", err)
	}
	defer resp.Body.Close()

	var out UploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode upload response: %w", err)
	}
	if !out.Success {
		if out.Error != "" {
			return nil, fmt.Errorf("upload rejected: %s", out.Error)
		}
		return nil, fmt.Errorf("upload rejected with status %d", resp.StatusCode)
	}

	log.Debug("document uploaded", "filename", out.Filename, "chunks_added", out.ChunksAdded)
	return &out, nil
}

// ClearRAG empties the backend's document index.
func (c *Client) ClearRAG(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/rag/clear", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("rag clear failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("rag clear returned status %d", resp.StatusCode)
	}
	return nil
}
