// Package netx holds small HTTP helpers shared by the storage adapters.
package netx

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// PutPresigned uploads body to a presigned URL with an HTTP PUT.
//
// size is sent as Content-Length. header carries the headers the URL was
// signed with, plus Content-Type; Host is skipped since the client sets it.
// A non-2xx response is returned as an error including status and body.
func PutPresigned(ctx context.Context, client *http.Client, url string, body io.Reader, size int64, header http.Header) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, body)
	if err != nil {
		return err
	}
	req.ContentLength = size

	for k, vs := range header {
		if strings.EqualFold(k, "Host") {
			continue
		}
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/octet-stream")
	}

	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("upload failed: %s; body: %s", resp.Status, strings.TrimSpace(string(b)))
	}
	return nil
}
