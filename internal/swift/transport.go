package swift

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// DefaultTimeout applies when TransportOptions.Timeout is zero.
const DefaultTimeout = 60 * time.Second

// Request is one outgoing call. A nil Body sends no body.
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    []byte
}

// Response carries the status, headers and fully read body.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Transport performs one blocking HTTP exchange. Implementations return a
// *StatusError together with the response when the status is >= 400, and a
// plain error when no response was received at all.
type Transport interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}

// TransportOptions configure TLS verification and the per-request timeout.
type TransportOptions struct {
	InsecureSkipVerify bool
	CAFile             string
	Timeout            time.Duration
}

// HTTPTransport is the net/http backed Transport.
type HTTPTransport struct {
	client *http.Client
}

// NewHTTPTransport fails only when CAFile cannot be read or holds no
// certificates.
func NewHTTPTransport(opts TransportOptions) (*HTTPTransport, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	tlsConfig := &tls.Config{InsecureSkipVerify: opts.InsecureSkipVerify}
	if opts.CAFile != "" {
		pem, err := os.ReadFile(opts.CAFile)
		if err != nil {
			return nil, fmt.Errorf("read ca file: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("ca file %s: no certificates found", opts.CAFile)
		}
		tlsConfig.RootCAs = pool
	}
	base := http.DefaultTransport.(*http.Transport).Clone()
	base.TLSClientConfig = tlsConfig
	return &HTTPTransport{
		client: &http.Client{Timeout: timeout, Transport: base},
	}, nil
}

func (t *HTTPTransport) Do(ctx context.Context, r *Request) (*Response, error) {
	var body io.Reader
	if r.Body != nil {
		body = bytes.NewReader(r.Body)
	}
	req, err := http.NewRequestWithContext(ctx, r.Method, r.URL, body)
	if err != nil {
		return nil, err
	}
	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}
	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	out := &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: data}
	if resp.StatusCode >= 400 {
		return out, &StatusError{Method: r.Method, URL: r.URL, StatusCode: resp.StatusCode, Body: data}
	}
	return out, nil
}
