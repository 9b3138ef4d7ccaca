package swift

import (
	"context"
	"net/http"
	"strings"
)

const StorageTokenHeader = "X-Storage-Token"

// RequestParams is the per-call header and body bag. A nil Headers map is
// allowed.
type RequestParams struct {
	Headers map[string]string
	Body    []byte
}

// Command executes authenticated requests on behalf of one Connection. The
// token is read from the Connection on every call.
type Command struct {
	conn *Connection
}

func NewCommand(conn *Connection) *Command {
	return &Command{conn: conn}
}

func (c *Command) Connection() *Connection { return c.conn }

func (c *Command) Get(ctx context.Context, url string, params RequestParams) (*Response, error) {
	return c.do(ctx, c.snapshot(), "GET", url, params.Headers, nil)
}

func (c *Command) Put(ctx context.Context, url string, params RequestParams) (*Response, error) {
	return c.do(ctx, c.snapshot(), "PUT", url, params.Headers, params.Body)
}

func (c *Command) Delete(ctx context.Context, url string, params RequestParams) (*Response, error) {
	return c.do(ctx, c.snapshot(), "DELETE", url, params.Headers, nil)
}

// snapshot returns the current session, or an empty one before the first
// Connect. Operations take one snapshot and derive both the URL and the token
// from it.
func (c *Command) snapshot() *Session {
	if s := c.conn.session.Load(); s != nil {
		return s
	}
	return &Session{}
}

func (c *Command) do(ctx context.Context, s *Session, method, url string, headers map[string]string, body []byte) (*Response, error) {
	h := make(map[string]string, len(headers)+1)
	for k, v := range headers {
		if http.CanonicalHeaderKey(k) == StorageTokenHeader {
			continue
		}
		h[k] = v
	}
	h[StorageTokenHeader] = s.TokenID

	resp, err := c.conn.transport.Do(ctx, &Request{Method: method, URL: url, Headers: h, Body: body})

	entry := c.conn.log.WithField("method", method).WithField("url", url)
	if resp != nil {
		entry = entry.WithField("status", resp.StatusCode)
	}
	if err != nil {
		entry.WithError(err).Debug("request failed")
	} else {
		entry.Debug("request done")
	}
	return resp, err
}

// objectURL joins a base URL and an object path with exactly one slash.
func objectURL(base, path string) string {
	return base + "/" + strings.TrimLeft(path, "/")
}
