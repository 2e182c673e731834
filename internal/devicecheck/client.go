package devicecheck

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"repairhub-backend/internal/types"
)

// IMEIs are 15 digits, but some carriers report 14 (without the check
// digit) or 16-17 (IMEISV / with padding). No checksum validation is
// done here; the verification service owns format rules.
var identifierRe = regexp.MustCompile(`\b[0-9]{14,17}\b`)

// ExtractIdentifier returns the first 14-17 digit run in the message,
// or "" when none is present.
func ExtractIdentifier(message string) string {
	return identifierRe.FindString(message)
}

// Result mirrors the verification service response. Failures are
// folded into Success=false rather than surfaced as errors so the
// pipeline can degrade gracefully.
type Result struct {
	Success  bool                  `json:"success"`
	Analysis *types.DeviceAnalysis `json:"analysis,omitempty"`
	Summary  string                `json:"summary,omitempty"`
	Error    string                `json:"error,omitempty"`
}

type Client struct {
	httpClient *http.Client
	endpoint   string
}

func NewClient(endpoint string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 20 * time.Second},
		endpoint:   endpoint,
	}
}

// Verify issues a single lookup against the verification service. Any
// network error or non-2xx status is converted into a failed Result;
// no retry is performed.
func (c *Client) Verify(ctx context.Context, identifier string) Result {
	payload, err := json.Marshal(map[string]string{
		"identifier": identifier,
		"mode":       "full",
	})
	if err != nil {
		return Result{Error: fmt.Sprintf("marshal request: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return Result{Error: fmt.Sprintf("build request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{Error: fmt.Sprintf("device check request failed: %v", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return Result{Error: fmt.Sprintf("device check failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))}
	}

	var out Result
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Result{Error: fmt.Sprintf("decode device check response: %v", err)}
	}
	return out
}
