package api

// ModelsResponse is the backend's answer to GET /api/models.
type ModelsResponse struct {
	Models  []string `json:"models"`
	Default string   `json:"default"`
}

// RAGStatus reports the state of the backend's document index.
type RAGStatus struct {
	Success       bool     `json:"success"`
	Documents     []string `json:"documents"`
	DocumentCount int      `json:"document_count"`
	ChunkCount    int      `json:"chunk_count"`
}

// WebStatus reports whether web lookup is configured on the backend.
type WebStatus struct {
	Configured bool   `json:"configured"`
	Provider   string `json:"provider"`
}

// HealthStatus is the backend's health report. Status is "healthy" or
// "degraded"; a degraded backend answers with HTTP 503 but the body is
// still meaningful.
type HealthStatus struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Ollama    string `json:"ollama"`
	Model     string `json:"model"`
	WebLookup string `json:"web_lookup"`
}

// UploadResponse is the backend's answer to a document upload.
type UploadResponse struct {
	Success     bool   `json:"success"`
	Filename    string `json:"filename"`
	ChunksAdded int    `json:"chunks_added"`
	TotalChunks int    `json:"total_chunks"`
	Error       string `json:"error,omitempty"`
}
