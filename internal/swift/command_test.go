package swift

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommand_InjectsToken(t *testing.T) {
	ft := newFakeTransport()
	cmd := NewCommand(connectedConnection(t, ft))
	ctx := context.Background()

	calls := []struct {
		method string
		call   func() (*Response, error)
	}{
		{"GET", func() (*Response, error) { return cmd.Get(ctx, "https://x/a", RequestParams{}) }},
		{"PUT", func() (*Response, error) {
			return cmd.Put(ctx, "https://x/a", RequestParams{Body: []byte("b")})
		}},
		{"DELETE", func() (*Response, error) { return cmd.Delete(ctx, "https://x/a", RequestParams{}) }},
	}
	for _, c := range calls {
		t.Run(c.method, func(t *testing.T) {
			_, err := c.call()
			require.NoError(t, err)
			req := ft.last()
			assert.Equal(t, c.method, req.Method)
			assert.Equal(t, "https://x/a", req.URL)
			assert.Equal(t, "T1", req.Headers[StorageTokenHeader])
		})
	}
}

func TestCommand_BodyOnlyForPut(t *testing.T) {
	ft := newFakeTransport()
	cmd := NewCommand(connectedConnection(t, ft))
	ctx := context.Background()

	_, err := cmd.Get(ctx, "https://x/a", RequestParams{Body: []byte("ignored")})
	require.NoError(t, err)
	assert.Nil(t, ft.last().Body)

	_, err = cmd.Put(ctx, "https://x/a", RequestParams{Body: []byte("sent")})
	require.NoError(t, err)
	assert.Equal(t, []byte("sent"), ft.last().Body)
}

func TestCommand_OverridesCallerToken(t *testing.T) {
	ft := newFakeTransport()
	cmd := NewCommand(connectedConnection(t, ft))

	headers := map[string]string{StorageTokenHeader: "forged", "Accept": "application/json"}
	_, err := cmd.Get(context.Background(), "https://x/a", RequestParams{Headers: headers})
	require.NoError(t, err)

	req := ft.last()
	assert.Equal(t, "T1", req.Headers[StorageTokenHeader])
	assert.Equal(t, "application/json", req.Headers["Accept"])
	assert.Equal(t, "forged", headers[StorageTokenHeader], "caller map must not be modified")
}

func TestCommand_ReadsTokenOnEveryCall(t *testing.T) {
	ft := newFakeTransport()
	conn := connectedConnection(t, ft)
	cmd := NewCommand(conn)
	ctx := context.Background()

	_, err := cmd.Get(ctx, "https://x/a", RequestParams{})
	require.NoError(t, err)
	assert.Equal(t, "T1", ft.last().Headers[StorageTokenHeader])

	ft.mu.Lock()
	ft.token = "T2"
	ft.mu.Unlock()
	_, err = conn.Connect(ctx)
	require.NoError(t, err)

	_, err = cmd.Get(ctx, "https://x/a", RequestParams{})
	require.NoError(t, err)
	assert.Equal(t, "T2", ft.last().Headers[StorageTokenHeader])
}

func TestCommand_ReturnsRawResponse(t *testing.T) {
	ft := newFakeTransport()
	ft.handler = statusReply(500, "boom")
	cmd := NewCommand(connectedConnection(t, ft))

	resp, err := cmd.Put(context.Background(), "https://x/a", RequestParams{})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 500, resp.StatusCode)
	assert.Equal(t, "boom", string(resp.Body))
}

func TestObjectURL(t *testing.T) {
	assert.Equal(t, "server-url/file_name", objectURL("server-url", "file_name"))
	assert.Equal(t, "server-url/dir/file", objectURL("server-url", "/dir/file"))
}

func TestCommand_DropsCallerTokenInAnyCase(t *testing.T) {
	ft := newFakeTransport()
	cmd := NewCommand(connectedConnection(t, ft))

	headers := map[string]string{"x-storage-token": "forged", "X-STORAGE-TOKEN": "forged"}
	_, err := cmd.Get(context.Background(), "https://x/a", RequestParams{Headers: headers})
	require.NoError(t, err)

	req := ft.last()
	assert.Equal(t, map[string]string{StorageTokenHeader: "T1"}, req.Headers)
	assert.Len(t, headers, 2)
}

func TestCommand_TokenHeaderOverHTTP(t *testing.T) {
	var mu sync.Mutex
	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen = append(seen, r.Header.Values(StorageTokenHeader)...)
		mu.Unlock()
	}))
	defer srv.Close()

	transport, err := NewHTTPTransport(TransportOptions{})
	require.NoError(t, err)
	conn := NewConnection(testCredentials(), ConnectionOptions{Transport: transport})
	conn.session.Store(&Session{TokenID: "REAL", ExpiresAt: timeIn(60), AdminURL: srv.URL})
	cmd := NewCommand(conn)

	for i := 0; i < 50; i++ {
		_, err := cmd.Get(context.Background(), srv.URL, RequestParams{
			Headers: map[string]string{"x-storage-token": "FORGED", "Accept": "application/json"},
		})
		require.NoError(t, err)
	}
	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 50)
	for _, v := range seen {
		assert.Equal(t, "REAL", v)
	}
}

// sessionSwitcher alternates auth replies between two tokens, each bound to
// its own admin host, and records uploads whose token and host disagree.
type sessionSwitcher struct {
	mu       sync.Mutex
	n        int
	mismatch int
	uploads  int
}

var switchedHosts = map[string]string{
	"TA": "https://a.example.com",
	"TB": "https://b.example.com",
}

func (s *sessionSwitcher) Do(ctx context.Context, req *Request) (*Response, error) {
	if req.URL == testAuthURL {
		s.mu.Lock()
		token := "TA"
		if s.n%2 == 1 {
			token = "TB"
		}
		s.n++
		s.mu.Unlock()
		host := switchedHosts[token]
		return &Response{StatusCode: http.StatusOK, Body: authFixtureAt(token, host, host, timeIn(60))}, nil
	}
	host := switchedHosts[req.Headers[StorageTokenHeader]]
	s.mu.Lock()
	s.uploads++
	if host == "" || !strings.HasPrefix(req.URL, host+"/") {
		s.mismatch++
	}
	s.mu.Unlock()
	return &Response{StatusCode: http.StatusCreated}, nil
}

func TestOperations_TokenAndURLFromOneSession(t *testing.T) {
	sw := &sessionSwitcher{}
	conn := NewConnection(testCredentials(), ConnectionOptions{Transport: sw})
	ctx := context.Background()
	_, err := conn.Connect(ctx)
	require.NoError(t, err)

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-stop:
				return
			default:
			}
			if _, err := conn.Connect(ctx); err != nil {
				t.Errorf("Connect: %v", err)
				return
			}
		}
	}()

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			up := NewUpload(conn)
			for i := 0; i < 5000; i++ {
				ok, err := up.Execute(ctx, "a.css", &memFile{name: "a.css", data: []byte("x")})
				if err != nil || !ok {
					t.Errorf("upload: ok=%v err=%v", ok, err)
					return
				}
			}
		}()
	}
	wg.Wait()
	close(stop)
	<-done

	sw.mu.Lock()
	defer sw.mu.Unlock()
	assert.Equal(t, 20000, sw.uploads)
	assert.Zero(t, sw.mismatch, "uploads sent with a token from a different session than their URL")
}
