package swift

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const (
	testAuthURL  = "https://auth.url.com:123/v2.0/tokens"
	testAdminURL = "https://admin.example.com"
	testPubURL   = "https://public.example.com"
	testBucket   = "my-bucket-name"
)

func testCredentials() Credentials {
	return Credentials{
		Bucket:     testBucket,
		TenantName: "tenant_username1",
		Username:   "username1",
		Password:   "some-pass",
		AuthURL:    testAuthURL,
	}
}

// fakeTransport answers auth requests with a fixture and hands every other
// request to handler. All requests are recorded.
type fakeTransport struct {
	mu       sync.Mutex
	requests []*Request
	token    string
	expires  time.Time
	authErr  error
	handler  func(req *Request) (*Response, error)
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		token:   "T1",
		expires: time.Now().Add(time.Hour),
	}
}

func (f *fakeTransport) Do(ctx context.Context, req *Request) (*Response, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	token, expires, authErr, handler := f.token, f.expires, f.authErr, f.handler
	f.mu.Unlock()

	if req.URL == testAuthURL {
		if authErr != nil {
			return nil, authErr
		}
		return &Response{StatusCode: http.StatusOK, Body: authFixture(token, expires)}, nil
	}
	if handler == nil {
		return &Response{StatusCode: http.StatusOK}, nil
	}
	return handler(req)
}

func (f *fakeTransport) last() *Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		return nil
	}
	return f.requests[len(f.requests)-1]
}

// statusReply mimics HTTPTransport: statuses >= 400 come back with a StatusError.
func statusReply(code int, body string) func(*Request) (*Response, error) {
	return func(req *Request) (*Response, error) {
		resp := &Response{StatusCode: code, Body: []byte(body)}
		if code >= 400 {
			return resp, &StatusError{Method: req.Method, URL: req.URL, StatusCode: code, Body: resp.Body}
		}
		return resp, nil
	}
}

func authFixture(token string, expires time.Time) []byte {
	return authFixtureAt(token, testAdminURL, testPubURL, expires)
}

func authFixtureAt(token, adminURL, publicURL string, expires time.Time) []byte {
	doc := map[string]any{
		"access": map[string]any{
			"token": map[string]any{
				"id":      token,
				"expires": expires.UTC().Format(time.RFC3339),
				"tenant":  map[string]any{"id": "tenant-id", "name": "tenant_username1"},
			},
			"serviceCatalog": []any{
				map[string]any{
					"type": "object-store",
					"name": "swift",
					"endpoints": []any{
						map[string]any{
							"adminURL":    adminURL,
							"publicURL":   publicURL,
							"internalURL": "https://internal.example.com",
							"region":      "RegionOne",
						},
					},
				},
			},
		},
	}
	b, err := json.Marshal(doc)
	if err != nil {
		panic(fmt.Sprintf("marshal fixture: %v", err))
	}
	return b
}

func connectedConnection(t *testing.T, ft *fakeTransport) *Connection {
	t.Helper()
	conn := NewConnection(testCredentials(), ConnectionOptions{Transport: ft})
	_, err := conn.Connect(context.Background())
	require.NoError(t, err)
	return conn
}

type memFile struct {
	name string
	data []byte
	read bool
}

func (m *memFile) Name() string { return m.name }

func (m *memFile) Read(p []byte) (int, error) {
	m.read = true
	if len(m.data) == 0 {
		return 0, io.EOF
	}
	n := copy(p, m.data)
	m.data = m.data[n:]
	return n, nil
}

func timeIn(minutes int) time.Time {
	return time.Now().Add(time.Duration(minutes) * time.Minute)
}
