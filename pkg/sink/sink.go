// Package sink submits restore nominations to a package-restore service over
// HTTP.
package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/renomhq/renom/pkg/restore"
)

// Client posts nomination documents to a single restore-service endpoint.
type Client struct {
	endpoint string
	http     *retryablehttp.Client
}

// New creates a client with retry defaults tuned for interactive CLI use.
func New(endpoint string) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 3
	retryClient.RetryWaitMin = 500 * time.Millisecond
	retryClient.RetryWaitMax = 5 * time.Second
	retryClient.Logger = nil

	return &Client{
		endpoint: endpoint,
		http:     retryClient,
	}
}

type nominationDocument struct {
	ProjectPath string               `json:"projectPath"`
	RestoreInfo *restore.RestoreInfo `json:"restoreInfo"`
}

// Nominate posts one nomination. Any non-2xx response is an error.
func (c *Client) Nominate(ctx context.Context, projectPath string, info *restore.RestoreInfo) error {
	body, err := json.Marshal(nominationDocument{
		ProjectPath: projectPath,
		RestoreInfo: info,
	})
	if err != nil {
		return err
	}

	req, err := retryablehttp.NewRequest(http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req = req.WithContext(ctx)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("submitting nomination: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("restore service returned HTTP %d: %s", resp.StatusCode, string(snippet))
	}
	return nil
}
