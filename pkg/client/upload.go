package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// Upload PUTs body to a presigned object-storage URL. The bearer token is
// never sent to the storage host.
func (c *Client) Upload(ctx context.Context, uploadURL, contentType string, body io.Reader, size int64) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, body)
	if err != nil {
		return fmt.Errorf("client.Upload: create request: %w", err)
	}
	req.ContentLength = size
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("client.Upload: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("client.Upload: %w", &HTTPError{StatusCode: resp.StatusCode, Message: string(msg)})
	}
	return nil
}
