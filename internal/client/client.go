// Package client holds the HTTP adapters for the third-party recipe and
// grocery retailer APIs.
package client

import (
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrNotFound is returned when the upstream API reports that a resource does not exist.
var ErrNotFound = errors.New("not found upstream")

// checkResp returns an error if the status is not 2xx, including the upstream
// body for debugging. A 404 wraps ErrNotFound.
func checkResp(resp *http.Response, service, path string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s %s: %w", service, path, ErrNotFound)
	}
	return fmt.Errorf("%s %s returned %d: %s", service, path, resp.StatusCode, string(body))
}
