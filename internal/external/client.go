// Package external implements the client for the two-phase structured
// extraction service: submit a document file, then poll a status handle
// until the execution is no longer pending. The service's deployment is
// expected to return structured JSON rows; locating them inside the
// response payload is handled here, reconciling them onto a schema is not.
package external

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/pdfgrid/pdfgrid/internal/extract"
)

// Config holds the external extraction service settings.
type Config struct {
	// APIURL is the full execution API URL for the deployment.
	APIURL string
	// APIKey authenticates against the deployment.
	APIKey string
	// Timeout bounds the whole submit-and-poll exchange (default 300s).
	Timeout time.Duration
	// PollInterval is the fixed sleep between status polls (default 2.5s).
	PollInterval time.Duration
	// IncludeMetadata asks the service to include execution metadata.
	IncludeMetadata bool
	// HTTPClient overrides the transport (tests).
	HTTPClient *http.Client
	// Logger is optional.
	Logger *slog.Logger
}

// Client talks to the external extraction service.
type Client struct {
	apiURL          string
	apiKey          string
	timeout         time.Duration
	pollInterval    time.Duration
	includeMetadata bool
	client          *http.Client
	logger          *slog.Logger
}

// NewClient creates a client, or nil when the service is not configured
// (missing URL or key). Callers treat a nil client as strategy-unavailable.
func NewClient(cfg Config) *Client {
	if cfg.APIURL == "" || cfg.APIKey == "" {
		return nil
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 300 * time.Second
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = 2500 * time.Millisecond
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 60 * time.Second}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Client{
		apiURL:          cfg.APIURL,
		apiKey:          cfg.APIKey,
		timeout:         cfg.Timeout,
		pollInterval:    cfg.PollInterval,
		includeMetadata: cfg.IncludeMetadata,
		client:          cfg.HTTPClient,
		logger:          cfg.Logger,
	}
}

// statusResponse is the service's envelope for both the submit call and
// status polls.
type statusResponse struct {
	Error                  string `json:"error,omitempty"`
	Pending                bool   `json:"pending,omitempty"`
	StatusCheckAPIEndpoint string `json:"status_check_api_endpoint,omitempty"`
	ExtractionResult       any    `json:"extraction_result,omitempty"`
}

// ParseFile submits the file and polls until the execution completes, then
// locates the structured payload inside the result. The overall timeout is
// enforced as a wall-clock deadline checked on every poll iteration, not
// just on the initial call.
func (c *Client) ParseFile(ctx context.Context, path string) (any, error) {
	deadline := time.Now().Add(c.timeout)
	ctx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	resp, err := c.submitFile(ctx, path)
	if err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("%w: %s", extract.ErrServiceError, resp.Error)
	}

	// Poll while pending. Terminates on success, explicit error, absence of
	// a status handle, or the wall-clock deadline.
	for resp.Pending {
		if resp.StatusCheckAPIEndpoint == "" {
			break
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("%w: extraction still pending after %s", extract.ErrServiceError, c.timeout)
		}
		if err := sleepCtx(ctx, c.pollInterval); err != nil {
			return nil, fmt.Errorf("%w: %v", extract.ErrServiceError, err)
		}

		resp, err = c.checkStatus(ctx, resp.StatusCheckAPIEndpoint)
		if err != nil {
			return nil, err
		}
		if resp.Error != "" {
			return nil, fmt.Errorf("%w: %s", extract.ErrServiceError, resp.Error)
		}
	}

	payload := locateOutput(resp.ExtractionResult)
	if payload == nil {
		return nil, extract.ErrNoStructuredOutput
	}
	return payload, nil
}

// submitFile uploads the document via multipart POST.
func (c *Client) submitFile(ctx context.Context, path string) (*statusResponse, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("files", filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("failed to build form: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if c.includeMetadata {
		_ = mw.WriteField("include_metadata", "true")
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize form: %w", err)
	}

	return c.doRequest(ctx, http.MethodPost, c.apiURL, body.Bytes(), mw.FormDataContentType())
}

// checkStatus polls the status handle returned by the submit call.
func (c *Client) checkStatus(ctx context.Context, endpoint string) (*statusResponse, error) {
	return c.doRequest(ctx, http.MethodGet, endpoint, nil, "")
}

// doRequest performs one service exchange with transport-level retries.
// Non-2xx statuses and malformed bodies are not retried; they surface as
// service errors.
func (c *Client) doRequest(ctx context.Context, method, url string, body []byte, contentType string) (*statusResponse, error) {
	var result statusResponse

	err := retry.Do(
		func() error {
			var reader io.Reader
			if body != nil {
				reader = bytes.NewReader(body)
			}
			req, err := http.NewRequestWithContext(ctx, method, url, reader)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
			if contentType != "" {
				req.Header.Set("Content-Type", contentType)
			}

			resp, err := c.client.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			respBody, err := io.ReadAll(resp.Body)
			if err != nil {
				return err
			}
			if resp.StatusCode < 200 || resp.StatusCode > 299 {
				return retry.Unrecoverable(
					fmt.Errorf("status %d: %s", resp.StatusCode, string(respBody)))
			}
			if err := json.Unmarshal(respBody, &result); err != nil {
				return retry.Unrecoverable(fmt.Errorf("malformed response: %w", err))
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(1*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", extract.ErrServiceError, err)
	}
	return &result, nil
}

// sleepCtx sleeps for d or until the context is done.
func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
