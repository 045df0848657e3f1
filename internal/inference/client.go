// Package inference talks to the segmentation sidecar that scores a single
// video frame. The service is opaque to the pipeline: one JPEG frame in,
// a defect pixel count out.
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Client calls the inference service over HTTP
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the inference service at baseURL.
// No request timeout is applied: a stalled inference blocks only its own
// job's worker.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
}

type defectResponse struct {
	DefectSize float64 `json:"defect_size"`
}

// DefectSize submits one JPEG frame for segmentation and returns the
// defect pixel count
func (c *Client) DefectSize(ctx context.Context, frame []byte) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/infer", bytes.NewReader(frame))
	if err != nil {
		return 0, fmt.Errorf("inference request: %w", err)
	}
	req.Header.Set("Content-Type", "image/jpeg")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("inference request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return 0, fmt.Errorf("inference service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out defectResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("decode inference response: %w", err)
	}
	if out.DefectSize < 0 {
		return 0, fmt.Errorf("inference service returned negative defect size %v", out.DefectSize)
	}

	return out.DefectSize, nil
}
