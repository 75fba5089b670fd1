package provider

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/mydehq/plexify/internal/types"
)

// maxErrorBody bounds how much of a failed response is kept for the error message.
const maxErrorBody = 512

// Do executes an HTTP request once. Non-2xx responses are closed and returned
// as types.ErrAPIError; callers own the body of a successful response.
func Do(ctx context.Context, client *http.Client, req *http.Request, service string) (*http.Response, error) {
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req.WithContext(ctx))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, types.ErrAPIError{
			Service:    service,
			StatusCode: resp.StatusCode,
			Message:    msg,
		}
	}

	return resp, nil
}
